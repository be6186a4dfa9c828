package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/jwebster45206/realm-engine/pkg/chat"
	"github.com/jwebster45206/realm-engine/pkg/pagination"
)

// MockLLM is a mock implementation of NarrativeService and Summarizer for testing
type MockLLM struct {
	NarrateFunc   func(ctx context.Context, messages []chat.Message) (string, error)
	SummarizeFunc func(ctx context.Context, req pagination.SummaryRequest) (string, error)

	// Track calls for testing
	NarrateCalls   [][]chat.Message
	SummarizeCalls []pagination.SummaryRequest

	replies []string

	mu sync.Mutex // protects all fields above
}

var (
	_ NarrativeService = (*MockLLM)(nil)
	_ Summarizer       = (*MockLLM)(nil)
)

// NewMockLLM creates a mock that answers Narrate with replies in order,
// then with "Mock response".
func NewMockLLM(replies ...string) *MockLLM {
	return &MockLLM{replies: replies}
}

func (m *MockLLM) Narrate(ctx context.Context, messages []chat.Message) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.NarrateCalls = append(m.NarrateCalls, chat.Clone(messages))

	if m.NarrateFunc != nil {
		return m.NarrateFunc(ctx, messages)
	}
	if len(m.replies) > 0 {
		r := m.replies[0]
		m.replies = m.replies[1:]
		return r, nil
	}
	return "Mock response", nil
}

func (m *MockLLM) Summarize(ctx context.Context, req pagination.SummaryRequest) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.SummarizeCalls = append(m.SummarizeCalls, req)

	if m.SummarizeFunc != nil {
		return m.SummarizeFunc(ctx, req)
	}
	return fmt.Sprintf("Tóm tắt trang %d (lượt %d-%d).", req.Page, req.FromTurn, req.ToTurn), nil
}

// SetNarrateError sets up the mock to return an error on Narrate
func (m *MockLLM) SetNarrateError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.NarrateFunc = func(ctx context.Context, messages []chat.Message) (string, error) {
		return "", err
	}
}

// SetSummarizeError sets up the mock to return an error on Summarize
func (m *MockLLM) SetSummarizeError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SummarizeFunc = func(ctx context.Context, req pagination.SummaryRequest) (string, error) {
		return "", err
	}
}

// Reply queues further Narrate replies.
func (m *MockLLM) Reply(replies ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.NarrateFunc = nil
	m.replies = append(m.replies, replies...)
}

// GetCalls returns a copy of the call tracking data in a thread-safe way
func (m *MockLLM) GetCalls() ([][]chat.Message, []pagination.SummaryRequest) {
	m.mu.Lock()
	defer m.mu.Unlock()

	narrate := make([][]chat.Message, len(m.NarrateCalls))
	copy(narrate, m.NarrateCalls)

	summarize := make([]pagination.SummaryRequest, len(m.SummarizeCalls))
	copy(summarize, m.SummarizeCalls)

	return narrate, summarize
}
