package dex

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// NormalizeID turns a display name or loosely formatted identifier into the
// key used by the tables: accents stripped, case folded, separators collapsed
// to single dashes and punctuation dropped ("Mr. Mime" -> "mr-mime",
// "Flabébé" -> "flabebe", "U-turn" -> "u-turn").
func NormalizeID(s string) string {
	// Transformers and casers keep state, so each call builds its own.
	strip := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	plain, _, err := transform.String(strip, strings.TrimSpace(s))
	if err != nil {
		plain = s
	}
	folded := cases.Fold().String(plain)

	var b strings.Builder
	b.Grow(len(folded))
	dash := false
	for _, r := range folded {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if dash && b.Len() > 0 {
				b.WriteByte('-')
			}
			dash = false
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			dash = true
		}
	}
	return b.String()
}

// CanonicalType title-cases a type name so "fire", "FIRE" and "Fire" all
// address the same chart row.
func CanonicalType(s string) Type {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	return Type(cases.Title(language.Und).String(strings.ToLower(s)))
}
