package storage

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jwebster45206/realm-engine/pkg/chat"
	"github.com/jwebster45206/realm-engine/pkg/progression"
	"github.com/jwebster45206/realm-engine/pkg/state"
)

// SessionData is the saved form of one game: the knowledge base (with its
// turn history and page bookkeeping) and the full transcript.
type SessionData struct {
	ID            uuid.UUID            `json:"id"`
	KnowledgeBase *state.KnowledgeBase `json:"knowledgeBase"`
	Messages      []chat.Message       `json:"gameMessages"`
	CreatedAt     time.Time            `json:"createdAt"`
	UpdatedAt     time.Time            `json:"updatedAt"`
}

// ErrWorldNotFound is returned by GetWorld for an unknown preset.
var ErrWorldNotFound = errors.New("world not found")

// World is a preset a new game can start from.
type World struct {
	Name        string            `yaml:"name"`
	Config      state.WorldConfig `yaml:"world"`
	Progression progression.Table `yaml:"progression"`
	Opening     string            `yaml:"opening,omitempty"`
}

// Storage defines a unified interface for all storage operations.
// Sessions and avatars live in Redis; world presets are files.
type Storage interface {
	// Health and lifecycle
	Ping(ctx context.Context) error
	Close() error

	// Session operations. LoadSession returns nil, nil when not found.
	SaveSession(ctx context.Context, s *SessionData) error
	LoadSession(ctx context.Context, id uuid.UUID) (*SessionData, error)
	DeleteSession(ctx context.Context, id uuid.UUID) error

	// Avatar blobs, addressed by the reference PutAvatar returns.
	PutAvatar(ctx context.Context, data []byte, contentType string) (string, error)
	GetAvatar(ctx context.Context, ref string) ([]byte, string, error)

	// World presets (filesystem-backed)
	ListWorlds(ctx context.Context) (map[string]string, error)
	GetWorld(ctx context.Context, filename string) (*World, error)
}
