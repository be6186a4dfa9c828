// Package directive recognizes and decodes the bracketed tags the narrative
// model embeds in its output, such as
//
//	[ITEM_ACQUIRED: name="Hồi Khí Đan", type="Potion Hồi Phục", quantity=3]
//
// Parsing is tolerant: the tag grammar is only loosely followed by the model,
// so the parsers recover what they can and never fail on the whole text.
package directive

import (
	"strings"
	"unicode"
)

// Extract splits narrator output into the prose the player reads and the raw
// tags it contained, in order of appearance. Each tag is returned with its
// brackets.
func Extract(text string) (prose string, tags []string) {
	s := []rune(text)
	var out strings.Builder
	last := 0
	for i := 0; i < len(s); i++ {
		if s[i] != '[' || !looksLikeTagName(s, i+1) {
			continue
		}
		end := tagEnd(s, i, true)
		if end < 0 {
			end = tagEnd(s, i, false)
		}
		if end < 0 {
			continue
		}
		out.WriteString(string(s[last:i]))
		tags = append(tags, string(s[i:end+1]))
		last = end + 1
		i = end
	}
	out.WriteString(string(s[last:]))
	return cleanProse(out.String()), tags
}

// maxTagName bounds the length of a tag name, including leading space.
const maxTagName = 48

// looksLikeTagName reports whether s[j:] starts with a tag name.
func looksLikeTagName(s []rune, j int) bool {
	end, ok := scanTagName(s, j)
	return ok && end < len(s)
}

// scanTagName reads the tag name starting at s[j] and returns the index just
// past it. The name must be followed by ':', ']', the end of input, or
// whitespace and a key=value pair. Names that are not all uppercase are only
// accepted when they resolve to a known kind, so bracketed prose such as
// "[ghi chú]" stays prose.
func scanTagName(s []rune, j int) (int, bool) {
	start := j
	for j < len(s) && s[j] == ' ' {
		j++
	}
	if j >= len(s) || !isLetterASCII(s[j]) {
		return 0, false
	}
	letters, upper := 0, true
	for j < len(s) && isNameRune(s[j]) {
		if s[j] == ' ' && keyFollows(s, j) {
			break
		}
		if isLetterASCII(s[j]) {
			letters++
			upper = upper && isUpperASCII(s[j])
		}
		j++
	}
	if letters < 2 || j-start > maxTagName {
		return 0, false
	}
	if j < len(s) {
		switch c := s[j]; {
		case c == ':' || c == ']':
		case unicode.IsSpace(c) && keyFollows(s, j):
		default:
			return 0, false
		}
	}
	if !upper {
		if _, known := Lookup(NormalizeName(string(s[start:j]))); !known {
			return 0, false
		}
	}
	return j, true
}

func isNameRune(r rune) bool {
	return isLetterASCII(r) || unicode.IsDigit(r) || r == '_' || r == ' ' || r == '-'
}

func isLetterASCII(r rune) bool {
	return isUpperASCII(r) || r >= 'a' && r <= 'z'
}

func isUpperASCII(r rune) bool {
	return r >= 'A' && r <= 'Z'
}

// tagEnd returns the index of the bracket closing the tag opened at s[i],
// or -1. Nested brackets and braces are balanced; quotes are honored when
// trackQuotes is set.
func tagEnd(s []rune, i int, trackQuotes bool) int {
	depth := 0
	var quote rune
	for j := i + 1; j < len(s); j++ {
		c := s[j]
		if quote != 0 {
			if c == '\\' {
				j++
			} else if c == quote {
				quote = 0
			}
			continue
		}
		switch c {
		case '"', '\'':
			if trackQuotes && opensQuote(s, j) {
				quote = c
			}
		case '[', '{':
			depth++
		case '}':
			if depth > 0 {
				depth--
			}
		case ']':
			if depth == 0 {
				return j
			}
			depth--
		}
	}
	return -1
}

// opensQuote reports whether the quote at s[j] starts a quoted value, that
// is, it follows '=' or an opening delimiter. Apostrophes inside words do not.
func opensQuote(s []rune, j int) bool {
	k := j - 1
	for k >= 0 && s[k] == ' ' {
		k--
	}
	if k < 0 {
		return false
	}
	switch s[k] {
	case '=', ':', ',', '{', '[':
		return true
	}
	return false
}

// cleanProse trims trailing space on every line and collapses the blank
// lines left behind by removed tags.
func cleanProse(s string) string {
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	blank := false
	for _, l := range lines {
		l = strings.TrimRightFunc(l, unicode.IsSpace)
		if l == "" {
			if blank {
				continue
			}
			blank = true
		} else {
			blank = false
		}
		out = append(out, l)
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}

// Split separates a raw tag into its normalized name and parameter text.
// Names are uppercased with spaces and dashes turned into underscores. The
// colon after the name may be left out when parameters follow a space.
func Split(tag string) (name, params string, ok bool) {
	t := strings.TrimSpace(tag)
	t = strings.TrimPrefix(t, "[")
	t = strings.TrimSuffix(t, "]")
	if r := []rune(t); len(r) > 0 {
		if end, found := scanTagName(r, 0); found {
			rest := strings.TrimSpace(string(r[end:]))
			return NormalizeName(string(r[:end])), strings.TrimSpace(strings.TrimPrefix(rest, ":")), true
		}
	}
	head, rest, _ := strings.Cut(t, ":")
	name = NormalizeName(head)
	if name == "" {
		return "", "", false
	}
	return name, strings.TrimSpace(rest), true
}

// NormalizeName canonicalizes a tag name.
func NormalizeName(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	s = strings.Map(func(r rune) rune {
		if r == ' ' || r == '-' {
			return '_'
		}
		return r
	}, s)
	for strings.Contains(s, "__") {
		s = strings.ReplaceAll(s, "__", "_")
	}
	return strings.Trim(s, "_")
}
