// Package normalize implements the address-string normalization and
// tokenization used by both the hierarchy loader and the geocoder's query
// parser, so that dictionary lookups and query tokens are always compared
// in the same canonical form.
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// String lowercases, folds diacritics (NFKD decomposition followed by
// combining-mark removal), strips punctuation, and collapses whitespace.
// normalize(normalize(s)) == normalize(s) holds because every step is
// idempotent on its own output.
func String(s string) string {
	s = strings.ToLower(s)

	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}

	var b strings.Builder
	b.Grow(len(folded))
	lastSpace := true
	for _, r := range folded {
		switch {
		case unicode.IsSpace(r):
			if !lastSpace {
				b.WriteByte(' ')
			}
			lastSpace = true
		case unicode.IsLetter(r), unicode.IsDigit(r):
			b.WriteRune(r)
			lastSpace = false
		default:
			// punctuation is stripped, not replaced by a space, so that
			// "7-к2" normalizes to the single token "7к2".
		}
	}
	return strings.TrimSpace(b.String())
}

// Tokens normalizes s and splits it into whitespace-delimited tokens.
func Tokens(s string) []string {
	normalized := String(s)
	if normalized == "" {
		return nil
	}
	return strings.Fields(normalized)
}

// IsASCIINumeric reports whether s consists solely of ASCII digits, used to
// recognise "numeric-looking" tokens (house numbers, numbered suburbs) the
// way the original region/geocoder logic special-cases them.
func IsASCIINumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
