package textkey

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFold(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"ascii case", "Fire Ball", "fire ball"},
		{"whitespace", "  Fire    Ball \t", "fire ball"},
		{"vietnamese diacritics", "Giáp Thân", "giap than"},
		{"d with stroke", "Đan Dược", "dan duoc"},
		{"empty", "   ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Fold(tt.in))
		})
	}
}

func TestKey(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		same bool
	}{
		{"case and spacing merge", "Hỏa Cầu Thuật", "  hỎA   cầu THUẬT ", true},
		{"tone marks stay distinct", "Hỏa Cầu", "Họa Cầu", false},
		{"missing marks stay distinct", "Hỏa Cầu", "Hoa Cau", false},
		{"d with stroke stays distinct", "Đan", "Dan", false},
		{"combining and precomposed agree", "Ho\u0309a", "Hỏa", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.same, Key(tt.a) == Key(tt.b))
		})
	}
	assert.Equal(t, "", Key(" \t "))
}

func TestIdentifier(t *testing.T) {
	assert.Equal(t, Identifier("maxSinhLuc"), Identifier("max_sinh_luc"))
	assert.Equal(t, Identifier("maxSinhLuc"), Identifier("Max Sinh Lực"))
	assert.NotEqual(t, Identifier("sinhLuc"), Identifier("maxSinhLuc"))
}

func TestMatch(t *testing.T) {
	opts := []string{"Vũ Khí", "Giáp Thân"}

	got, ok := Match("giap than", opts)
	assert.True(t, ok)
	assert.Equal(t, "Giáp Thân", got)

	_, ok = Match("Khiên", opts)
	assert.False(t, ok)
}
