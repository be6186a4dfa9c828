package directive

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNumber(t *testing.T) {
	tests := []struct {
		raw     string
		want    NumberExpr
		wantErr bool
	}{
		{"50", NumberExpr{Op: OpSet, Value: 50}, false},
		{"+50", NumberExpr{Op: OpAdd, Value: 50}, false},
		{"-20", NumberExpr{Op: OpAdd, Value: -20}, false},
		{" + 5 ", NumberExpr{Op: OpAdd, Value: 5}, false},
		{"MAX", NumberExpr{Op: OpMax}, false},
		{"max", NumberExpr{Op: OpMax}, false},
		{"+10%", NumberExpr{Op: OpPercent, Value: 10}, false},
		{"-25%", NumberExpr{Op: OpPercent, Value: -25}, false},
		{"1,000", NumberExpr{Op: OpSet, Value: 1000}, false},
		{"", NumberExpr{}, true},
		{"abc", NumberExpr{}, true},
		{"NaN", NumberExpr{}, true},
		{"+Inf", NumberExpr{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseNumber(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNumberExpr_Apply(t *testing.T) {
	assert.Equal(t, 30, NumberExpr{Op: OpSet, Value: 30}.Apply(80, 100))
	assert.Equal(t, 60, NumberExpr{Op: OpAdd, Value: -20}.Apply(80, 100))
	assert.Equal(t, 100, NumberExpr{Op: OpMax}.Apply(80, 100))
	assert.Equal(t, 105, NumberExpr{Op: OpPercent, Value: 25}.Apply(80, 100))
	assert.Equal(t, 13, NumberExpr{Op: OpPercent, Value: 12.5}.Apply(0, 100))
	assert.Equal(t, math.MaxInt, NumberExpr{Op: OpAdd, Value: 1e15}.Apply(math.MaxInt-10, 0))
	assert.Equal(t, math.MinInt, NumberExpr{Op: OpAdd, Value: -1e15}.Apply(math.MinInt+10, 0))
}

func TestParseNumber_OutOfRange(t *testing.T) {
	for _, raw := range []string{"+1e30", "-1e16", "9000000000000000000", "1e300%"} {
		_, err := ParseNumber(raw)
		assert.ErrorIs(t, err, errNotNumber, raw)
	}
	_, err := ParseInt("9000000000000000000")
	assert.Error(t, err)
	_, err = ParseIntMap("{atk: 1e20}")
	assert.Error(t, err)

	e, err := ParseNumber("+1e15")
	require.NoError(t, err)
	assert.Equal(t, int(MaxMagnitude), e.Int())
}

func TestParseIntAndBool(t *testing.T) {
	n, err := ParseInt(" +5 ")
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	n, err = ParseInt(`"3.0"`)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	_, err = ParseInt("ba")
	assert.Error(t, err)

	for _, s := range []string{"true", "Yes", "có", "1"} {
		b, err := ParseBool(s)
		require.NoError(t, err, s)
		assert.True(t, b, s)
	}
	b, err := ParseBool("không")
	require.NoError(t, err)
	assert.False(t, b)

	_, err = ParseBool("maybe")
	assert.Error(t, err)
}

func TestParseLiterals(t *testing.T) {
	bonuses, err := ParseIntMap("{sucTanCong:+10, maxSinhLuc: 50, \"maxLinhLuc\": \"-5\"}")
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"sucTanCong": 10, "maxSinhLuc": 50, "maxLinhLuc": -5}, bonuses)

	empty, err := ParseIntMap("{}")
	require.NoError(t, err)
	assert.Empty(t, empty)

	_, err = ParseIntMap("[1, 2]")
	assert.Error(t, err)

	_, err = ParseIntMap("{sucTanCong: nhiều}")
	assert.Error(t, err)

	mods, err := ParseStringMap("{sucTanCong: +10%, maxSinhLuc: -20}")
	require.NoError(t, err)
	assert.Equal(t, "+10%", mods["sucTanCong"])
	assert.Equal(t, "-20", mods["maxSinhLuc"])

	list, err := ParseStringList(`["Hồi 50 HP", "Giải độc"]`)
	require.NoError(t, err)
	assert.Equal(t, []string{"Hồi 50 HP", "Giải độc"}, list)

	list, err = ParseStringList("Hồi 50 HP | Giải độc")
	require.NoError(t, err)
	assert.Equal(t, []string{"Hồi 50 HP", "Giải độc"}, list)

	list, err = ParseStringList("[]")
	require.NoError(t, err)
	assert.Equal(t, []string{}, list)

	_, err = ParseStringList("[unclosed")
	assert.Error(t, err)
}
