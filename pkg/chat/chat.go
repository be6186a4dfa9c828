package chat

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
)

const (
	RoleUser      = "user"      // Player
	RoleNarrator  = "assistant" // Narrative service
	RoleSystem    = "system"    // Engine notifications and prompt scaffolding
	RoleSummary   = "summary"   // Stored page summary, never sent as a turn
	MaxInputLength = 2000
)

// Message is one entry of the transcript. Turn is the player turn the
// message belongs to and drives pagination.
type Message struct {
	ID      string `json:"id"`
	Role    string `json:"role"`
	Content string `json:"content"`
	Turn    int    `json:"turn"`
}

// NewMessage creates a transcript message with a fresh id.
func NewMessage(role, content string, turn int) Message {
	return Message{
		ID:      uuid.NewString(),
		Role:    role,
		Content: content,
		Turn:    turn,
	}
}

// PlayerInput is a single action typed by the player.
type PlayerInput struct {
	SessionID uuid.UUID `json:"session_id"`
	Message   string    `json:"message"`
}

func (pi *PlayerInput) Validate() error {
	if strings.TrimSpace(pi.Message) == "" {
		return fmt.Errorf("message cannot be empty")
	}
	if utf8.RuneCountInString(pi.Message) > MaxInputLength {
		return fmt.Errorf("message exceeds maximum length of %d characters", MaxInputLength)
	}
	return nil
}

// FormatWithPlayerName prefixes a player message with the player's name,
// unless the message already starts with a short "Speaker:" prefix.
func FormatWithPlayerName(message, playerName string) string {
	if playerName == "" {
		return message
	}
	if idx := strings.Index(message, ":"); idx > 0 && idx <= 50 {
		return message
	}
	return playerName + ": " + message
}

// Clone returns a copy of msgs that shares no backing array with it.
func Clone(msgs []Message) []Message {
	if msgs == nil {
		return nil
	}
	out := make([]Message, len(msgs))
	copy(out, msgs)
	return out
}
