package sanitizer

import "testing"

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "valid E.164 format",
			input: "+61412345678",
			want:  "+61412345678",
		},
		{
			name:  "international with spaces",
			input: "+61 412 345 678",
			want:  "+61412345678",
		},
		{
			name:  "national mobile",
			input: "0412 345 678",
			want:  "+61412345678",
		},
		{
			name:  "national mobile with dashes",
			input: "0412-345-678",
			want:  "+61412345678",
		},
		{
			name:  "leading and trailing spaces",
			input: "  +61412345678  ",
			want:  "+61412345678",
		},
		{
			name:  "empty string",
			input: "",
			want:  "",
		},
		{
			name:  "only whitespace",
			input: "   ",
			want:  "",
		},
		{
			name:  "letters",
			input: "invalid-phone",
			want:  "",
		},
		{
			name:  "too short",
			input: "+1",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizePhone(tt.input)
			if got != tt.want {
				t.Errorf("NormalizePhone(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizePhone_Idempotent(t *testing.T) {
	once := NormalizePhone("0412 345 678")
	if twice := NormalizePhone(once); twice != once {
		t.Errorf("NormalizePhone(%q) = %q, want unchanged", once, twice)
	}
}
