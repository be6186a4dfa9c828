package directive

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// ParseLiteral decodes an embedded structured literal such as
// {sucTanCong: +10, maxSinhLuc: 50} or ["Hồi 50 HP", "Giải độc"].
//
// Literals are read as YAML flow collections, which also covers strict JSON.
// The model often omits the space after a colon ("{atk:10}"); that is
// repaired before decoding.
func ParseLiteral(raw string) (any, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil, fmt.Errorf("empty literal")
	}
	var v any
	if err := yaml.Unmarshal([]byte(spaceColons(s)), &v); err != nil {
		return nil, fmt.Errorf("failed to parse literal %q: %w", raw, err)
	}
	return v, nil
}

// spaceColons inserts a space after every ':' outside quotes that is not
// already followed by whitespace, so flow mappings decode as mappings.
func spaceColons(s string) string {
	var b strings.Builder
	var quote rune
	rs := []rune(s)
	for i, r := range rs {
		b.WriteRune(r)
		switch {
		case quote != 0:
			if r == quote && (i == 0 || rs[i-1] != '\\') {
				quote = 0
			}
		case r == '"' || r == '\'':
			quote = r
		case r == ':' && i+1 < len(rs) && rs[i+1] != ' ' && rs[i+1] != '\t':
			b.WriteRune(' ')
		}
	}
	return b.String()
}

// isEmptySentinel reports whether raw is one of the explicit "nothing"
// literals.
func isEmptySentinel(raw string) bool {
	switch strings.ReplaceAll(strings.TrimSpace(raw), " ", "") {
	case "{}", "[]", "null", "none", "":
		return true
	}
	return false
}

// ParseIntMap decodes a stat bonus literal. Values may be numbers or signed
// numeric strings; a map that fails to decode is an error.
func ParseIntMap(raw string) (map[string]int, error) {
	out := map[string]int{}
	if isEmptySentinel(raw) {
		return out, nil
	}
	v, err := ParseLiteral(raw)
	if err != nil {
		return nil, err
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("literal %q is not a mapping", raw)
	}
	for k, val := range m {
		n, err := toInt(val)
		if err != nil {
			return nil, fmt.Errorf("bad value for %q: %w", k, err)
		}
		out[k] = n
	}
	return out, nil
}

// ParseStringMap decodes a modifier literal, keeping every value as text so
// that "+10%" survives.
func ParseStringMap(raw string) (map[string]string, error) {
	out := map[string]string{}
	if isEmptySentinel(raw) {
		return out, nil
	}
	v, err := ParseLiteral(raw)
	if err != nil {
		return nil, err
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("literal %q is not a mapping", raw)
	}
	for k, val := range m {
		out[k] = scalarText(val)
	}
	return out, nil
}

// ParseStringList decodes a list literal. Text that is not a list is split
// on '|', so "Hồi 50 HP|Giải độc" and a single bare phrase both work.
func ParseStringList(raw string) ([]string, error) {
	out := []string{}
	if isEmptySentinel(raw) {
		return out, nil
	}
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "[") {
		v, err := ParseLiteral(s)
		if err != nil {
			return nil, err
		}
		items, ok := v.([]any)
		if !ok {
			return nil, fmt.Errorf("literal %q is not a list", raw)
		}
		for _, it := range items {
			if t := strings.TrimSpace(scalarText(it)); t != "" {
				out = append(out, t)
			}
		}
		return out, nil
	}
	for _, part := range strings.Split(s, "|") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out, nil
}

func toInt(v any) (int, error) {
	switch n := v.(type) {
	case int:
		return toInt(float64(n))
	case int64:
		return toInt(float64(n))
	case uint64:
		return toInt(float64(n))
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return 0, fmt.Errorf("not a finite number")
		}
		if math.Abs(n) > MaxMagnitude {
			return 0, fmt.Errorf("%v is out of range", n)
		}
		return roundInt(n), nil
	case string:
		return ParseInt(n)
	}
	return 0, fmt.Errorf("unsupported value %v", v)
}

func scalarText(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case int:
		return strconv.Itoa(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	}
	return fmt.Sprint(v)
}
