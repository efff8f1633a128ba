package validator

import (
	"errors"
	"testing"

	"courtbook/pkg/logger"
	"courtbook/pkg/model"
)

func newTestValidator() *SessionValidator {
	log := logger.New(logger.Config{
		Level:     "info",
		Format:    logger.JSON,
		AddSource: false,
		Service:   "test",
	})
	return NewSessionValidator(log)
}

func validInput() model.SessionInput {
	return model.SessionInput{
		Date:      "2026-11-07",
		StartTime: "19:00",
		EndTime:   "21:00",
		Courts:    2,
		MaxSlots:  8,
		Location:  model.VenueGranville,
		PaymentInfo: model.PaymentInfo{
			AccountName:   "J Smith",
			AccountNumber: "062-000 1234 5678",
			Bank:          model.BankCBA,
		},
	}
}

func TestValidateSession(t *testing.T) {
	v := newTestValidator()

	tests := []struct {
		name      string
		mutate    func(in *model.SessionInput)
		wantField string
	}{
		{name: "valid", mutate: func(in *model.SessionInput) {}},
		{name: "missing date", mutate: func(in *model.SessionInput) { in.Date = "" }, wantField: "date"},
		{name: "malformed date", mutate: func(in *model.SessionInput) { in.Date = "07/11/2026" }, wantField: "date"},
		{name: "bad start time", mutate: func(in *model.SessionInput) { in.StartTime = "25:00" }, wantField: "start_time"},
		{name: "missing end time", mutate: func(in *model.SessionInput) { in.EndTime = "" }, wantField: "end_time"},
		{name: "zero courts", mutate: func(in *model.SessionInput) { in.Courts = 0 }, wantField: "courts"},
		{name: "negative max slots", mutate: func(in *model.SessionInput) { in.MaxSlots = -1 }, wantField: "max_slots"},
		{name: "unknown venue", mutate: func(in *model.SessionInput) { in.Location = "Somewhere" }, wantField: "location"},
		{name: "missing account name", mutate: func(in *model.SessionInput) { in.PaymentInfo.AccountName = "" }, wantField: "account_name"},
		{name: "missing account number", mutate: func(in *model.SessionInput) { in.PaymentInfo.AccountNumber = "" }, wantField: "account_number"},
		{name: "unknown bank", mutate: func(in *model.SessionInput) { in.PaymentInfo.Bank = "ANZ" }, wantField: "bank"},
		{
			name: "custom bank without name",
			mutate: func(in *model.SessionInput) {
				in.PaymentInfo.Bank = model.BankCustom
			},
			wantField: "custom_bank",
		},
		{
			name: "custom bank with name",
			mutate: func(in *model.SessionInput) {
				in.PaymentInfo.Bank = model.BankCustom
				in.PaymentInfo.CustomBank = "ING"
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.mutate(&in)

			err := v.ValidateSession(in)
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("ValidateSession() unexpected error = %v", err)
				}
				return
			}

			var validationErrs ValidationErrors
			if !errors.As(err, &validationErrs) {
				t.Fatalf("ValidateSession() error = %v, want ValidationErrors", err)
			}
			first, _ := validationErrs.First()
			if first.Field != tt.wantField {
				t.Errorf("first failing field = %q, want %q", first.Field, tt.wantField)
			}
		})
	}
}

func TestValidateSession_ReportsInFieldOrder(t *testing.T) {
	v := newTestValidator()

	in := validInput()
	in.Location = ""
	in.Courts = 0
	in.PaymentInfo.Bank = ""

	err := v.ValidateSession(in)

	var validationErrs ValidationErrors
	if !errors.As(err, &validationErrs) {
		t.Fatalf("expected ValidationErrors, got %v", err)
	}
	want := []string{"courts", "location", "bank"}
	if len(validationErrs) != len(want) {
		t.Fatalf("got %d errors, want %d: %v", len(validationErrs), len(want), validationErrs)
	}
	for i, field := range want {
		if validationErrs[i].Field != field {
			t.Errorf("error %d field = %q, want %q", i, validationErrs[i].Field, field)
		}
	}
}

func TestValidateSlot(t *testing.T) {
	v := newTestValidator()

	tests := []struct {
		name      string
		in        model.SlotInput
		wantError bool
	}{
		{name: "name only", in: model.SlotInput{PlayerName: "Alice"}},
		{name: "with email and times", in: model.SlotInput{PlayerName: "Alice", Email: "alice@example.com", StartTime: "19:00", EndTime: "20:00"}},
		{name: "missing name", in: model.SlotInput{Email: "alice@example.com"}, wantError: true},
		{name: "bad email", in: model.SlotInput{PlayerName: "Alice", Email: "not-an-email"}, wantError: true},
		{name: "with phone", in: model.SlotInput{PlayerName: "Alice", Phone: "+61412345678"}},
		{name: "unnormalized phone", in: model.SlotInput{PlayerName: "Alice", Phone: "0412 345 678"}, wantError: true},
		{name: "bad time", in: model.SlotInput{PlayerName: "Alice", StartTime: "7pm"}, wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateSlot(tt.in)
			if (err != nil) != tt.wantError {
				t.Errorf("ValidateSlot() error = %v, wantError %v", err, tt.wantError)
			}
		})
	}
}

func TestValidationErrors_Error(t *testing.T) {
	errs := ValidationErrors{
		{Field: "date", Message: "date is required"},
		{Field: "courts", Message: "courts must be at least 1"},
	}

	want := "validation failed: 2 error(s): [date: date is required; courts: courts must be at least 1]"
	if got := errs.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if got := (ValidationErrors{}).Error(); got != "" {
		t.Errorf("empty Error() = %q, want empty", got)
	}
}
