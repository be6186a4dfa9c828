// Package textfilter softens profanity in narrator prose for games that do
// not allow mature content.
package textfilter

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Replacements maps a banned word or phrase to what is shown instead.
// Vietnamese entries include the chat abbreviations models tend to emit.
var Replacements = map[string]string{
	"fuck":         "fudge",
	"shit":         "shoot",
	"damn":         "dang",
	"hell":         "heck",
	"bitch":        "jerk",
	"bastard":      "jerk",
	"asshole":      "jerk",
	"motherfucker": "mother-trucker",
	"goddamn":      "gosh-dang",
	"bullshit":     "baloney",
	"dickhead":     "jerk",
	"whore":        "[censored]",
	"slut":         "[censored]",

	"địt":       "[censored]",
	"đụ":        "[censored]",
	"đéo":       "chẳng",
	"đếch":      "chẳng",
	"đ*t":       "[censored]",
	"lồn":       "[censored]",
	"buồi":      "[censored]",
	"cặc":       "[censored]",
	"cứt":       "phân",
	"đồ chó":    "đồ khốn",
	"mẹ kiếp":   "chết tiệt",
	"đm":        "chết tiệt",
	"vcl":       "quá",
	"vãi lồn":   "quá",
	"con đĩ":    "kẻ hèn",
	"thằng chó": "tên khốn",
}

type pattern struct {
	re          *regexp.Regexp
	replacement string
}

// Filter replaces whole-word matches of its word list. Matching ignores
// case and only counts letters and digits as word characters, so accented
// words are bounded correctly.
type Filter struct {
	patterns []pattern
	title    cases.Caser
}

// New builds a filter over words. A nil map uses Replacements.
func New(words map[string]string) *Filter {
	if words == nil {
		words = Replacements
	}
	keys := make([]string, 0, len(words))
	for w := range words {
		keys = append(keys, w)
	}
	// Longer phrases first so "vãi lồn" wins over "lồn".
	sort.Slice(keys, func(i, j int) bool {
		if li, lj := utf8.RuneCountInString(keys[i]), utf8.RuneCountInString(keys[j]); li != lj {
			return li > lj
		}
		return keys[i] < keys[j]
	})

	f := &Filter{title: cases.Title(language.Und)}
	for _, w := range keys {
		f.patterns = append(f.patterns, pattern{
			re:          regexp.MustCompile(`(?i)` + regexp.QuoteMeta(w)),
			replacement: words[w],
		})
	}
	return f
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.Is(unicode.Mn, r)
}

// bounded reports whether s[start:end] is not glued to a neighboring word.
func bounded(s string, start, end int) bool {
	if start > 0 {
		r, _ := utf8.DecodeLastRuneInString(s[:start])
		if isWordRune(r) {
			return false
		}
	}
	if end < len(s) {
		r, _ := utf8.DecodeRuneInString(s[end:])
		if isWordRune(r) {
			return false
		}
	}
	return true
}

// FilterText returns text with every banned word replaced, keeping the
// casing pattern of the original.
func (f *Filter) FilterText(text string) string {
	for _, p := range f.patterns {
		idx := p.re.FindAllStringIndex(text, -1)
		if len(idx) == 0 {
			continue
		}
		var sb strings.Builder
		last := 0
		for _, m := range idx {
			if !bounded(text, m[0], m[1]) {
				continue
			}
			sb.WriteString(text[last:m[0]])
			sb.WriteString(f.preserveCase(text[m[0]:m[1]], p.replacement))
			last = m[1]
		}
		sb.WriteString(text[last:])
		text = sb.String()
	}
	return text
}

// Contains reports whether text has any banned word.
func (f *Filter) Contains(text string) bool {
	for _, p := range f.patterns {
		for _, m := range p.re.FindAllStringIndex(text, -1) {
			if bounded(text, m[0], m[1]) {
				return true
			}
		}
	}
	return false
}

func (f *Filter) preserveCase(original, replacement string) string {
	switch {
	case original == "":
		return replacement
	case strings.ToUpper(original) == original && strings.ToLower(original) != original:
		return strings.ToUpper(replacement)
	case strings.ToLower(original) == original:
		return replacement
	case f.title.String(strings.ToLower(original)) == original:
		return f.title.String(replacement)
	}
	// Sentence case: only the first letter is raised.
	if r, _ := utf8.DecodeRuneInString(original); unicode.IsUpper(r) {
		first, size := utf8.DecodeRuneInString(replacement)
		return string(unicode.ToUpper(first)) + replacement[size:]
	}
	return replacement
}
