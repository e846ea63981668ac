package app

import (
	"strings"
	"unicode"
)

// Normalize standardizes review text for keyword matching: lower-case, keep
// only a-z and whitespace (digits, punctuation, emoji all go), collapse
// whitespace runs to one space, trim. Total and idempotent; the zero value
// in is the zero value out.
func Normalize(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	pending := false
	for _, r := range strings.ToLower(text) {
		switch {
		case r >= 'a' && r <= 'z':
			if pending && b.Len() > 0 {
				b.WriteByte(' ')
			}
			pending = false
			b.WriteRune(r)
		case unicode.IsSpace(r):
			pending = true
		}
	}
	return b.String()
}
