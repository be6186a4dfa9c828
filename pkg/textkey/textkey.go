// Package textkey builds comparison keys for model-produced text.
//
// Names arrive from the narrative model with inconsistent casing, spacing and
// (for Vietnamese) sometimes without diacritics. Fold produces a key that is
// stable across all of those variations. Key keeps the diacritics for names
// where they carry meaning.
package textkey

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Collapse trims s and reduces every run of whitespace to a single space.
func Collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Key returns a case-folded, whitespace-collapsed key for s that keeps
// diacritics, so "Hỏa Cầu" and "Họa Cầu" stay distinct. Input is NFC
// normalized first so precomposed and combining spellings agree.
func Key(s string) string {
	s = Collapse(norm.NFC.String(s))
	if s == "" {
		return ""
	}
	return cases.Fold().String(s)
}

// Fold returns a case-folded, diacritic-free, whitespace-collapsed key for s.
func Fold(s string) string {
	s = Collapse(s)
	if s == "" {
		return ""
	}
	// đ/Đ carry a stroke rather than a combining mark, so NFD leaves them alone.
	s = strings.NewReplacer("đ", "d", "Đ", "D").Replace(s)
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, s)
	if err != nil {
		stripped = s
	}
	// Casers carry state and are not safe to share between goroutines.
	return cases.Fold().String(stripped)
}

// Equal reports whether a and b fold to the same key.
func Equal(a, b string) bool {
	return Fold(a) == Fold(b)
}

// Identifier folds s and removes every separator, so "max_sinh_luc",
// "maxSinhLuc" and "Max Sinh Lực" all compare equal.
func Identifier(s string) string {
	f := Fold(s)
	var out strings.Builder
	for _, r := range f {
		if r == ' ' || r == '_' || r == '-' || r == '.' {
			continue
		}
		out.WriteRune(r)
	}
	return out.String()
}

// Match returns the entry of options whose folded form equals the folded
// value, and whether one was found.
func Match(value string, options []string) (string, bool) {
	key := Fold(value)
	for _, opt := range options {
		if Fold(opt) == key {
			return opt, true
		}
	}
	return "", false
}
