package directive

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/jwebster45206/realm-engine/pkg/textkey"
)

// Op says how a NumberExpr is applied to the current value.
type Op int

const (
	OpSet     Op = iota // N
	OpAdd               // +N or -N
	OpMax               // MAX: fill to capacity
	OpPercent           // +N% or -N%: relative to capacity
)

// NumberExpr is a parsed numeric directive value.
type NumberExpr struct {
	Op    Op
	Value float64
}

var errNotNumber = errors.New("not a number")

// MaxMagnitude bounds every number a directive may carry. Larger values
// are rejected rather than wrapped when converted to int.
const MaxMagnitude = 1e15

// AddInt returns a+b, saturating at the bounds of int.
func AddInt(a, b int) int {
	s := a + b
	switch {
	case b > 0 && s < a:
		return math.MaxInt
	case b < 0 && s > a:
		return math.MinInt
	}
	return s
}

// roundInt rounds v, clamping it to ±MaxMagnitude first.
func roundInt(v float64) int {
	return int(math.Round(math.Max(-MaxMagnitude, math.Min(MaxMagnitude, v))))
}

// ParseNumber reads "N", "+N", "-N", "MAX", "+N%", "-N%" and "N%".
// A bare percentage is read as an increase.
func ParseNumber(raw string) (NumberExpr, error) {
	s := strings.TrimSpace(raw)
	s = strings.Trim(s, `"'`)
	s = strings.ReplaceAll(s, " ", "")
	if s == "" {
		return NumberExpr{}, fmt.Errorf("%w: empty", errNotNumber)
	}
	switch textkey.Fold(s) {
	case "max", "full", "day":
		return NumberExpr{Op: OpMax}, nil
	}

	signed := s[0] == '+' || s[0] == '-'
	percent := strings.HasSuffix(s, "%")
	body := strings.TrimSuffix(s, "%")
	v, err := parseFloat(body)
	if err != nil {
		return NumberExpr{}, err
	}
	switch {
	case percent:
		return NumberExpr{Op: OpPercent, Value: v}, nil
	case signed:
		return NumberExpr{Op: OpAdd, Value: v}, nil
	}
	return NumberExpr{Op: OpSet, Value: v}, nil
}

func parseFloat(s string) (float64, error) {
	s = strings.ReplaceAll(s, ",", "")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", errNotNumber, s)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %q", errNotNumber, s)
	}
	if math.Abs(v) > MaxMagnitude {
		return 0, fmt.Errorf("%w: %q is out of range", errNotNumber, s)
	}
	return v, nil
}

// Apply evaluates the expression against the current value and its
// capacity. Results are rounded to the nearest integer and additions
// saturate instead of wrapping.
func (e NumberExpr) Apply(current, capacity int) int {
	switch e.Op {
	case OpAdd:
		return AddInt(current, roundInt(e.Value))
	case OpMax:
		return capacity
	case OpPercent:
		return AddInt(current, roundInt(float64(capacity)*e.Value/100))
	}
	return roundInt(e.Value)
}

// Int returns the value rounded to the nearest integer.
func (e NumberExpr) Int() int {
	return roundInt(e.Value)
}

// ParseInt reads a whole number, tolerating a leading '+' and a trailing
// ".0".
func ParseInt(raw string) (int, error) {
	v, err := parseFloat(strings.TrimPrefix(strings.TrimSpace(strings.Trim(strings.TrimSpace(raw), `"'`)), "+"))
	if err != nil {
		return 0, err
	}
	return roundInt(v), nil
}

// ParseFloat reads a decimal number.
func ParseFloat(raw string) (float64, error) {
	return parseFloat(strings.TrimPrefix(strings.TrimSpace(strings.Trim(strings.TrimSpace(raw), `"'`)), "+"))
}

// ParseBool reads English and Vietnamese truth values.
func ParseBool(raw string) (bool, error) {
	switch textkey.Fold(strings.Trim(strings.TrimSpace(raw), `"'`)) {
	case "true", "yes", "1", "co", "dung", "y":
		return true, nil
	case "false", "no", "0", "khong", "sai", "n":
		return false, nil
	}
	return false, fmt.Errorf("not a boolean: %q", raw)
}
