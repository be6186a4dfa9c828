package prompts

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jwebster45206/realm-engine/pkg/chat"
	"github.com/jwebster45206/realm-engine/pkg/pagination"
	"github.com/jwebster45206/realm-engine/pkg/state"
)

// Builder constructs the narrative request using a fluent interface.
type Builder struct {
	kb           *state.KnowledgeBase
	transcript   []chat.Message
	playerInput  string
	historyLimit int
	messages     []chat.Message
}

// New creates a new prompt builder with default settings.
func New() *Builder {
	return &Builder{
		historyLimit: 20,
		messages:     make([]chat.Message, 0),
	}
}

// WithKnowledgeBase sets the state the narrator works from.
func (b *Builder) WithKnowledgeBase(kb *state.KnowledgeBase) *Builder {
	b.kb = kb
	return b
}

// WithMessages sets the full transcript; only the open page is sent.
func (b *Builder) WithMessages(msgs []chat.Message) *Builder {
	b.transcript = msgs
	return b
}

// WithPlayerInput sets the player's action for this turn.
func (b *Builder) WithPlayerInput(input string) *Builder {
	b.playerInput = input
	return b
}

// WithHistoryLimit sets the transcript window size.
func (b *Builder) WithHistoryLimit(limit int) *Builder {
	b.historyLimit = limit
	return b
}

// Build constructs and returns the final message array for the narrator.
func (b *Builder) Build() ([]chat.Message, error) {
	if b.kb == nil {
		return nil, fmt.Errorf("knowledge base is required")
	}

	b.messages = make([]chat.Message, 0)

	// 1. System prompt and state
	if err := b.addSystemPrompt(); err != nil {
		return nil, fmt.Errorf("error building system prompt: %w", err)
	}

	// 2. Summaries of closed pages
	b.addSummaries()

	// 3. Windowed transcript of the open page
	b.addHistory()

	// 4. Player input and reminder
	b.addPlayerInput()

	return b.messages, nil
}

func (b *Builder) addSystemPrompt() error {
	var sb strings.Builder
	sb.WriteString(BuildSystemPrompt(b.kb.WorldConfig))

	statePrompt, err := GetStatePrompt(b.kb)
	if err != nil {
		return fmt.Errorf("error generating state prompt: %w", err)
	}
	sb.WriteString("\n\n" + statePrompt.Content)

	b.messages = append(b.messages, chat.Message{
		Role:    chat.RoleSystem,
		Content: sb.String(),
	})
	return nil
}

func (b *Builder) addSummaries() {
	if len(b.kb.PageSummaries) == 0 {
		return
	}
	pages := make([]int, 0, len(b.kb.PageSummaries))
	for p := range b.kb.PageSummaries {
		pages = append(pages, p)
	}
	sort.Ints(pages)

	var sb strings.Builder
	sb.WriteString(SummariesHeader)
	for _, p := range pages {
		fmt.Fprintf(&sb, "\n\n[Trang %d] %s", p, b.kb.PageSummaries[p])
	}
	b.messages = append(b.messages, chat.Message{Role: chat.RoleSystem, Content: sb.String()})
}

// addHistory adds the open page's messages, windowed to historyLimit.
// Engine notifications stay in as system messages so the narrator sees what
// the engine rejected.
func (b *Builder) addHistory() {
	page := pagination.MessagesForPage(b.kb, b.transcript, pagination.PageCount(b.kb))
	if b.historyLimit > 0 && len(page) > b.historyLimit {
		page = page[len(page)-b.historyLimit:]
	}
	for _, m := range page {
		b.messages = append(b.messages, chat.Message{ID: m.ID, Role: m.Role, Content: m.Content, Turn: m.Turn})
	}
}

func (b *Builder) addPlayerInput() {
	if b.playerInput == "" {
		return
	}
	b.messages = append(b.messages, chat.Message{
		Role:    chat.RoleUser,
		Content: chat.FormatWithPlayerName(b.playerInput, b.kb.WorldConfig.PlayerName),
		Turn:    b.kb.PlayerStats.Turn,
	})
	b.messages = append(b.messages, chat.Message{
		Role:    chat.RoleSystem,
		Content: UserPostPrompt,
	})
}

// BuildMessages is a convenience function for the common case.
func BuildMessages(kb *state.KnowledgeBase, transcript []chat.Message, input string, historyLimit int) ([]chat.Message, error) {
	return New().
		WithKnowledgeBase(kb).
		WithMessages(transcript).
		WithPlayerInput(input).
		WithHistoryLimit(historyLimit).
		Build()
}
