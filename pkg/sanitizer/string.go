package sanitizer

import (
	"strings"
	"unicode"
)

type Strategy func(string) string

type Pipeline []Strategy

func (p Pipeline) Apply(s string) string {
	for _, fn := range p {
		s = fn(s)
	}
	return s
}

func TrimAndNormalize(s string) string {
	s = strings.TrimSpace(s)

	if s == "" {
		return ""
	}

	var result strings.Builder
	var lastWasSpace bool

	for _, r := range s {
		if unicode.IsSpace(r) {
			if !lastWasSpace {
				result.WriteRune(' ')
				lastWasSpace = true
			}
		} else {
			result.WriteRune(r)
			lastWasSpace = false
		}
	}

	return result.String()
}

// NormalizeName keeps the player's casing; "  Alice   Ng " becomes "Alice Ng".
func NormalizeName(s string) string {
	return TrimAndNormalize(s)
}

func NormalizeEmail(s string) string {
	p := Pipeline{
		strings.TrimSpace,
		strings.ToLower,
	}
	return p.Apply(s)
}
