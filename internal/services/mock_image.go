package services

import (
	"context"
	"sync"
)

// MockImageService is a mock implementation of ImageService for testing
type MockImageService struct {
	GenerateFunc func(ctx context.Context, prompt string) ([]byte, string, error)

	Prompts []string

	mu sync.Mutex
}

var _ ImageService = (*MockImageService)(nil)

func NewMockImageService() *MockImageService {
	return &MockImageService{}
}

func (m *MockImageService) GenerateImage(ctx context.Context, prompt string) ([]byte, string, error) {
	m.mu.Lock()
	m.Prompts = append(m.Prompts, prompt)
	fn := m.GenerateFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, prompt)
	}
	return []byte{0x89, 'P', 'N', 'G'}, "image/png", nil
}

// SetError makes every GenerateImage call fail with err.
func (m *MockImageService) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GenerateFunc = func(ctx context.Context, prompt string) ([]byte, string, error) {
		return nil, "", err
	}
}

// Calls returns a copy of the prompts received so far.
func (m *MockImageService) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.Prompts))
	copy(out, m.Prompts)
	return out
}
