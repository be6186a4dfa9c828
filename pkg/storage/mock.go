package storage

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jwebster45206/realm-engine/pkg/state"
)

// AvatarRefPrefix marks references produced by PutAvatar.
const AvatarRefPrefix = "avatar:"

type avatarBlob struct {
	data        []byte
	contentType string
}

// MockStorage is a mock implementation of Storage for testing
type MockStorage struct {
	mu        sync.RWMutex
	sessions  map[uuid.UUID]*SessionData
	avatars   map[string]avatarBlob
	worlds    map[string]*World
	pingError error
	saveError error
	saves     int
}

// Ensure MockStorage implements Storage interface
var _ Storage = (*MockStorage)(nil)

// NewMockStorage creates a new mock storage
func NewMockStorage() *MockStorage {
	return &MockStorage{
		sessions: make(map[uuid.UUID]*SessionData),
		avatars:  make(map[string]avatarBlob),
		worlds:   make(map[string]*World),
	}
}

// SetPingError configures the mock to fail on ping with the given error
func (m *MockStorage) SetPingError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pingError = err
}

// SetSaveError makes SaveSession fail with err until reset with nil.
func (m *MockStorage) SetSaveError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saveError = err
}

// SaveCount returns how many successful SaveSession calls were made.
func (m *MockStorage) SaveCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.saves
}

func (m *MockStorage) Ping(ctx context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.pingError
}

func (m *MockStorage) Close() error {
	return nil
}

// SaveSession stores a deep copy, so later mutation by the caller does not
// leak into what was saved.
func (m *MockStorage) SaveSession(ctx context.Context, s *SessionData) error {
	if s == nil || s.KnowledgeBase == nil {
		return errors.New("session cannot be nil")
	}
	kb, err := state.Snapshot(s.KnowledgeBase)
	if err != nil {
		return err
	}
	cp := *s
	cp.KnowledgeBase = kb
	cp.Messages = append(cp.Messages[:0:0], s.Messages...)
	cp.UpdatedAt = time.Now()

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveError != nil {
		return m.saveError
	}
	m.sessions[s.ID] = &cp
	m.saves++
	return nil
}

func (m *MockStorage) LoadSession(ctx context.Context, id uuid.UUID) (*SessionData, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, exists := m.sessions[id]
	if !exists {
		return nil, nil
	}
	return s, nil
}

func (m *MockStorage) DeleteSession(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

func (m *MockStorage) PutAvatar(ctx context.Context, data []byte, contentType string) (string, error) {
	if len(data) == 0 {
		return "", errors.New("avatar data cannot be empty")
	}
	ref := AvatarRefPrefix + uuid.NewString()
	m.mu.Lock()
	defer m.mu.Unlock()
	m.avatars[ref] = avatarBlob{data: append([]byte(nil), data...), contentType: contentType}
	return ref, nil
}

func (m *MockStorage) GetAvatar(ctx context.Context, ref string) ([]byte, string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.avatars[ref]
	if !ok {
		return nil, "", nil
	}
	return b.data, b.contentType, nil
}

func (m *MockStorage) ListWorlds(ctx context.Context) (map[string]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make(map[string]string)
	for filename, w := range m.worlds {
		result[w.Name] = filename
	}
	return result, nil
}

func (m *MockStorage) GetWorld(ctx context.Context, filename string) (*World, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	w, exists := m.worlds[filename]
	if !exists {
		return nil, ErrWorldNotFound
	}
	return w, nil
}

// AddWorld adds a world preset to the mock storage (for testing)
func (m *MockStorage) AddWorld(filename string, w *World) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.worlds[filename] = w
}
