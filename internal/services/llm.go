package services

import (
	"context"
	"strings"

	"github.com/jwebster45206/realm-engine/pkg/chat"
	"github.com/jwebster45206/realm-engine/pkg/pagination"
)

// NarrativeService produces the narrator's reply, directives included, for
// a composed prompt.
type NarrativeService interface {
	Narrate(ctx context.Context, messages []chat.Message) (string, error)
}

// Summarizer condenses a closed page into a short summary.
type Summarizer = pagination.Summarizer

// ImageService renders a portrait prompt into image bytes.
type ImageService interface {
	GenerateImage(ctx context.Context, prompt string) ([]byte, string, error)
}

// AvatarStore keeps generated portraits and hands back a reference for them.
type AvatarStore interface {
	PutAvatar(ctx context.Context, data []byte, contentType string) (string, error)
}

const msgNoResponse = "(no response)"

// wireMessage is the role/content pair both chat APIs accept.
type wireMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// splitMessages pulls system and summary messages out into a single system
// prompt and returns the rest in wire form.
func splitMessages(messages []chat.Message) (string, []wireMessage) {
	var systemParts []string
	var rest []wireMessage

	for _, msg := range messages {
		switch msg.Role {
		case chat.RoleSystem, chat.RoleSummary:
			systemParts = append(systemParts, msg.Content)
		default:
			rest = append(rest, wireMessage{Role: msg.Role, Content: msg.Content})
		}
	}

	return strings.Join(systemParts, "\n\n"), rest
}
