package chat

import (
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestFormatWithPlayerName(t *testing.T) {
	tests := []struct {
		name       string
		message    string
		playerName string
		expected   string
	}{
		{
			name:       "adds player name prefix to plain message",
			message:    "Ta rút kiếm ra.",
			playerName: "Lâm Phong",
			expected:   "Lâm Phong: Ta rút kiếm ra.",
		},
		{
			name:       "preserves existing speaker prefix",
			message:    "Narrator: The tree falls.",
			playerName: "Lâm Phong",
			expected:   "Narrator: The tree falls.",
		},
		{
			name:       "handles very long potential speaker name (over 50 chars)",
			message:    "This is a really really really really really long name: message",
			playerName: "Gimli",
			expected:   "Gimli: This is a really really really really really long name: message",
		},
		{
			name:       "no player name leaves message alone",
			message:    "Look around",
			playerName: "",
			expected:   "Look around",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := FormatWithPlayerName(tt.message, tt.playerName)
			if result != tt.expected {
				t.Errorf("FormatWithPlayerName(%q, %q) = %q; want %q",
					tt.message, tt.playerName, result, tt.expected)
			}
		})
	}
}

func TestPlayerInput_Validate(t *testing.T) {
	id := uuid.MustParse("550e8400-e29b-41d4-a716-446655440000")
	tests := []struct {
		name    string
		input   PlayerInput
		wantErr bool
		errMsg  string
	}{
		{
			name:  "valid short message",
			input: PlayerInput{SessionID: id, Message: "Ta bước vào hang động."},
		},
		{
			name:  "valid message at max length",
			input: PlayerInput{SessionID: id, Message: strings.Repeat("ă", MaxInputLength)},
		},
		{
			name:    "message too long",
			input:   PlayerInput{SessionID: id, Message: strings.Repeat("a", MaxInputLength+1)},
			wantErr: true,
			errMsg:  "exceeds maximum length",
		},
		{
			name:    "blank message",
			input:   PlayerInput{SessionID: id, Message: "   "},
			wantErr: true,
			errMsg:  "cannot be empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.input.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if tt.wantErr && !strings.Contains(err.Error(), tt.errMsg) {
				t.Errorf("Validate() error = %v, want error containing %q", err, tt.errMsg)
			}
		})
	}
}

func TestClone(t *testing.T) {
	msgs := []Message{NewMessage(RoleUser, "a", 1)}
	cp := Clone(msgs)
	cp[0].Content = "b"
	if msgs[0].Content != "a" {
		t.Errorf("Clone shares backing array with source")
	}
	if Clone(nil) != nil {
		t.Errorf("Clone(nil) should be nil")
	}
}
