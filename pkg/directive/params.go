package directive

import (
	"maps"
	"slices"
	"strings"
	"unicode"

	"github.com/jwebster45206/realm-engine/pkg/textkey"
)

// Params is the decoded parameter list of one tag.
type Params map[string]string

// Get returns the first of keys present in p. Keys are compared on their
// separator-free folded form, so "objective_text" finds "objectiveText".
func (p Params) Get(keys ...string) (string, bool) {
	for _, want := range keys {
		if v, ok := p[want]; ok {
			return v, true
		}
	}
	for _, want := range keys {
		id := textkey.Identifier(want)
		for k, v := range p {
			if textkey.Identifier(k) == id {
				return v, true
			}
		}
	}
	return "", false
}

// Text returns the trimmed value of the first present key, or "".
func (p Params) Text(keys ...string) string {
	v, _ := p.Get(keys...)
	return strings.TrimSpace(v)
}

// Optional returns a pointer to the trimmed value when a key is present.
func (p Params) Optional(keys ...string) *string {
	v, ok := p.Get(keys...)
	if !ok {
		return nil
	}
	v = strings.TrimSpace(v)
	return &v
}

// ParseParams decodes the text between a tag's colon and closing bracket.
//
// Each entry is key = "double quoted", key = 'single quoted' or key = bare,
// separated by commas or whitespace. Bare values run to the next ", key ="
// or " key =" boundary and keep balanced {...} and [...] literals whole. A segment without "=" is kept
// as a key with an empty value. ParseParams never fails.
func ParseParams(raw string) Params {
	out := Params{}
	s := []rune(raw)
	i := 0
	for i < len(s) {
		for i < len(s) && (unicode.IsSpace(s[i]) || s[i] == ',') {
			i++
		}
		if i >= len(s) {
			break
		}

		start := i
		for i < len(s) && s[i] != '=' && s[i] != ',' {
			i++
		}
		key := strings.TrimSpace(string(s[start:i]))
		if i >= len(s) || s[i] == ',' {
			if key != "" {
				out[key] = ""
			}
			continue
		}
		i++ // '='
		for i < len(s) && unicode.IsSpace(s[i]) {
			i++
		}

		var value string
		if i < len(s) && (s[i] == '"' || s[i] == '\'') {
			value, i = readQuoted(s, i)
		} else {
			value, i = readBare(s, i)
		}
		out[key] = value
	}
	return out
}

// readQuoted reads a quoted value starting at the opening quote. A matching
// quote only closes the value when it is followed by a comma, the end of
// input or another key=value pair, so stray unescaped quotes inside prose
// survive.
func readQuoted(s []rune, i int) (string, int) {
	q := s[i]
	i++
	var b strings.Builder
	for i < len(s) {
		c := s[i]
		if c == '\\' && i+1 < len(s) {
			switch n := s[i+1]; n {
			case '"', '\'', '\\':
				b.WriteRune(n)
				i += 2
				continue
			}
			b.WriteRune(c)
			i++
			continue
		}
		if c == q {
			if i+1 < len(s) && unicode.IsSpace(s[i+1]) && keyFollows(s, i+1) {
				return b.String(), i + 1
			}
			if closesValue(s, i+1) {
				return b.String(), skipToComma(s, i+1)
			}
		}
		b.WriteRune(c)
		i++
	}
	return b.String(), i
}

func closesValue(s []rune, j int) bool {
	for j < len(s) && unicode.IsSpace(s[j]) {
		j++
	}
	return j >= len(s) || s[j] == ','
}

func skipToComma(s []rune, j int) int {
	for j < len(s) && s[j] != ',' {
		j++
	}
	return j
}

// readBare reads an unquoted value up to the next pair boundary at bracket
// depth zero.
func readBare(s []rune, i int) (string, int) {
	start := i
	depth := 0
	var quote rune
	for i < len(s) {
		c := s[i]
		switch {
		case quote != 0:
			if c == '\\' {
				i++
			} else if c == quote {
				quote = 0
			}
		case depth > 0 && (c == '"' || c == '\''):
			quote = c
		case c == '{' || c == '[':
			depth++
		case c == '}' || c == ']':
			if depth > 0 {
				depth--
			}
		case depth == 0 && pairBoundary(s, i):
			return strings.TrimSpace(string(s[start:i])), i
		}
		i++
	}
	if quote != 0 || depth > 0 {
		// Unbalanced literal: fall back to the first plain boundary.
		for j := start; j < len(s); j++ {
			if pairBoundary(s, j) {
				return strings.TrimSpace(string(s[start:j])), j
			}
		}
	}
	return strings.TrimSpace(string(s[start:])), len(s)
}

// pairBoundary reports whether s[i] separates two key=value pairs: a comma
// or whitespace followed by a key and "=".
func pairBoundary(s []rune, i int) bool {
	switch {
	case s[i] == ',':
		return keyFollows(s, i+1)
	case unicode.IsSpace(s[i]):
		return keyFollows(s, i)
	}
	return false
}

// keyFollows reports whether s[j:] starts with optional space, an
// identifier and "=".
func keyFollows(s []rune, j int) bool {
	for j < len(s) && unicode.IsSpace(s[j]) {
		j++
	}
	n := 0
	for j < len(s) && isKeyRune(s[j]) {
		j++
		n++
	}
	if n == 0 {
		return false
	}
	for j < len(s) && unicode.IsSpace(s[j]) {
		j++
	}
	return j < len(s) && s[j] == '='
}

func isIdentifier(k string) bool {
	if k == "" {
		return false
	}
	for _, r := range k {
		if !isKeyRune(r) {
			return false
		}
	}
	return true
}

func isKeyRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '-' || r == '.'
}

// SerializeParams renders p in a form ParseParams reads back to the same
// map. Keys are sorted; numbers and simple words are written bare and
// everything else is double-quoted.
func SerializeParams(p Params) string {
	keys := slices.Sorted(maps.Keys(p))
	// A bare value only ends where a plain key and "=" follow, so keys that
	// are not plain identifiers force quoting everywhere.
	bare := !slices.ContainsFunc(keys, func(k string) bool { return !isIdentifier(k) })
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		v := p[k]
		if !bare || !isBareToken(v) {
			v = quote(v)
		}
		parts = append(parts, k+"="+v)
	}
	return strings.Join(parts, ", ")
}

func isBareToken(v string) bool {
	if v == "" {
		return false
	}
	for _, r := range v {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && !strings.ContainsRune("+-.%_", r) {
			return false
		}
	}
	return true
}

func quote(v string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`)
	return `"` + r.Replace(v) + `"`
}

// Format renders a full tag.
func Format(name string, p Params) string {
	if len(p) == 0 {
		return "[" + name + "]"
	}
	return "[" + name + ": " + SerializeParams(p) + "]"
}
