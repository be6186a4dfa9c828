package textfilter

import (
	"testing"
)

func TestFilterText(t *testing.T) {
	f := New(nil)

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "simple replacement",
			input:    "What the hell is going on?",
			expected: "What the heck is going on?",
		},
		{
			name:     "uppercase preserved",
			input:    "DAMN that's annoying!",
			expected: "DANG that's annoying!",
		},
		{
			name:     "title case preserved",
			input:    "Hell no, that's not right",
			expected: "Heck no, that's not right",
		},
		{
			name:     "partial matches are left alone",
			input:    "Shell and hello are fine",
			expected: "Shell and hello are fine",
		},
		{
			name:     "vietnamese word",
			input:    "Hắn gằn giọng: \"Mẹ kiếp, ngươi dám!\"",
			expected: "Hắn gằn giọng: \"Chết tiệt, ngươi dám!\"",
		},
		{
			name:     "longer phrase wins",
			input:    "đau vãi lồn",
			expected: "đau quá",
		},
		{
			name:     "accented neighbors are word characters",
			input:    "cứtđá vẫn còn",
			expected: "cứtđá vẫn còn",
		},
		{
			name:     "repeated words",
			input:    "damn damn",
			expected: "dang dang",
		},
		{
			name:     "clean text unchanged",
			input:    "Lâm Phong rút kiếm, linh lực cuộn trào.",
			expected: "Lâm Phong rút kiếm, linh lực cuộn trào.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := f.FilterText(tt.input); got != tt.expected {
				t.Errorf("FilterText(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestContains(t *testing.T) {
	f := New(map[string]string{"đéo": "chẳng"})

	if !f.Contains("Ta đéo sợ.") {
		t.Error("expected banned word to be found")
	}
	if f.Contains("Ta chẳng sợ.") {
		t.Error("expected clean text to pass")
	}
	if f.Contains("damn") {
		t.Error("custom list must not include the defaults")
	}
}
