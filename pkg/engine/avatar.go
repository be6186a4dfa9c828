package engine

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/jwebster45206/realm-engine/pkg/state"
)

// AvatarJob asks for a portrait of one NPC. Seed identifies the NPC fields
// the portrait was requested for; a result whose seed no longer matches is
// stale.
type AvatarJob struct {
	NPCID  string `json:"npcId"`
	Name   string `json:"name"`
	Prompt string `json:"prompt"`
	Seed   string `json:"seed"`
}

// AvatarEvent is the finished result of an AvatarJob.
type AvatarEvent struct {
	NPCID string `json:"npcId"`
	Seed  string `json:"seed"`
	URL   string `json:"url"`
}

// AvatarQueue carries finished avatar events from the workers back to the
// session, which is the only writer of the knowledge base.
type AvatarQueue interface {
	Push(ctx context.Context, sessionID uuid.UUID, ev AvatarEvent) error
	Drain(ctx context.Context, sessionID uuid.UUID) ([]AvatarEvent, error)
}

// scheduleAvatar installs the placeholder and queues a job when avatars are
// enabled and the portrait fields changed since the last request.
func (w *worker) scheduleAvatar(n *state.NPC) {
	if !w.cfg.AutoGenerateAvatars {
		return
	}
	seed := avatarSeed(n)
	if seed == n.AvatarSeed {
		return
	}
	n.AvatarSeed = seed
	n.AvatarURL = w.cfg.AvatarPlaceholder
	w.res.AvatarJobs = append(w.res.AvatarJobs, AvatarJob{
		NPCID:  n.ID,
		Name:   n.Name,
		Prompt: avatarPrompt(n),
		Seed:   seed,
	})
}

func avatarPrompt(n *state.NPC) string {
	parts := []string{fmt.Sprintf("Portrait of %s", n.Name)}
	for _, p := range []string{n.Gender, n.Race, n.Description} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ") + ". Xianxia illustration, head and shoulders."
}

// ApplyAvatarEvents writes finished portraits into kb. Events for NPCs that
// no longer exist, or whose fields changed after the job was queued, are
// dropped. It returns the number of events applied.
func ApplyAvatarEvents(kb *state.KnowledgeBase, events []AvatarEvent) int {
	applied := 0
	for _, ev := range events {
		i := kb.NPCByID(ev.NPCID)
		if i < 0 {
			continue
		}
		n := &kb.NPCs[i]
		if ev.Seed != "" && ev.Seed != n.AvatarSeed {
			continue
		}
		n.AvatarURL = ev.URL
		applied++
	}
	return applied
}

// MemoryAvatarQueue is an in-process AvatarQueue.
type MemoryAvatarQueue struct {
	mu     sync.Mutex
	events map[uuid.UUID][]AvatarEvent
}

func NewMemoryAvatarQueue() *MemoryAvatarQueue {
	return &MemoryAvatarQueue{events: make(map[uuid.UUID][]AvatarEvent)}
}

func (q *MemoryAvatarQueue) Push(_ context.Context, sessionID uuid.UUID, ev AvatarEvent) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.events[sessionID] = append(q.events[sessionID], ev)
	return nil
}

func (q *MemoryAvatarQueue) Drain(_ context.Context, sessionID uuid.UUID) ([]AvatarEvent, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	evs := q.events[sessionID]
	delete(q.events, sessionID)
	return evs, nil
}
