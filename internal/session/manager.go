package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jwebster45206/realm-engine/pkg/storage"
)

// Defaults for the in-memory session cache.
const (
	DefaultMaxLive = 256
	DefaultIdleTTL = 30 * time.Minute
)

// Manager keeps the sessions of one process in memory and loads the others
// from storage on first use. Sessions idle for longer than the idle TTL, or
// beyond the cache size, are dropped from memory; their saves stay in
// storage and are reloaded on the next Get.
type Manager struct {
	deps    Deps
	maxLive int
	idleTTL time.Duration
	now     func() time.Time

	mu   sync.Mutex
	live map[uuid.UUID]*liveSession
}

type liveSession struct {
	s        *Session
	lastUsed time.Time
}

func NewManager(deps Deps) *Manager {
	return &Manager{
		deps:    deps,
		maxLive: DefaultMaxLive,
		idleTTL: DefaultIdleTTL,
		now:     time.Now,
		live:    make(map[uuid.UUID]*liveSession),
	}
}

// WithLimits sets the cache size and idle TTL. Zero or negative values keep
// the current setting.
func (m *Manager) WithLimits(maxLive int, idleTTL time.Duration) *Manager {
	m.mu.Lock()
	defer m.mu.Unlock()
	if maxLive > 0 {
		m.maxLive = maxLive
	}
	if idleTTL > 0 {
		m.idleTTL = idleTTL
	}
	return m
}

// Create starts a game from the world preset stored under filename.
func (m *Manager) Create(ctx context.Context, worldFile string) (*Session, error) {
	if m.deps.Storage == nil {
		return nil, fmt.Errorf("no storage configured")
	}
	w, err := m.deps.Storage.GetWorld(ctx, worldFile)
	if err != nil {
		return nil, err
	}
	return m.CreateFrom(ctx, *w)
}

// CreateFrom starts a game from an in-memory world preset.
func (m *Manager) CreateFrom(ctx context.Context, w storage.World) (*Session, error) {
	s, err := Start(ctx, w, m.deps)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	m.put(s)
	m.mu.Unlock()
	return s, nil
}

// Get returns the live session for id, loading it if needed.
func (m *Manager) Get(ctx context.Context, id uuid.UUID) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok := m.live[id]; ok {
		e.lastUsed = m.now()
		return e.s, nil
	}
	s, err := Load(ctx, id, m.deps)
	if err != nil {
		return nil, err
	}
	m.put(s)
	return s, nil
}

// Delete forgets the session and removes its save.
func (m *Manager) Delete(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	delete(m.live, id)
	m.mu.Unlock()
	if m.deps.Storage == nil {
		return nil
	}
	return m.deps.Storage.DeleteSession(ctx, id)
}

// Live reports how many sessions are held in memory.
func (m *Manager) Live() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.live)
}

// put caches s and evicts what no longer fits. Callers hold m.mu.
func (m *Manager) put(s *Session) {
	now := m.now()
	m.live[s.ID] = &liveSession{s: s, lastUsed: now}
	// Without storage an evicted session could not be loaded again.
	if m.deps.Storage == nil {
		return
	}
	for id, e := range m.live {
		if now.Sub(e.lastUsed) > m.idleTTL {
			m.evict(id, "idle")
		}
	}
	for len(m.live) > m.maxLive {
		var oldest uuid.UUID
		var oldestAt time.Time
		for id, e := range m.live {
			if id == s.ID {
				continue
			}
			if oldestAt.IsZero() || e.lastUsed.Before(oldestAt) {
				oldest, oldestAt = id, e.lastUsed
			}
		}
		if oldestAt.IsZero() {
			return
		}
		m.evict(oldest, "capacity")
	}
}

func (m *Manager) evict(id uuid.UUID, reason string) {
	delete(m.live, id)
	if m.deps.Logger != nil {
		m.deps.Logger.Debug("Evicted session from memory", "session_id", id, "reason", reason)
	}
}
