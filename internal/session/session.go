// Package session plays one game: it owns the live knowledge base and the
// transcript and runs each player turn through the narrator, the directive
// engine, pagination and persistence.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jwebster45206/realm-engine/internal/logger"
	"github.com/jwebster45206/realm-engine/internal/services"
	"github.com/jwebster45206/realm-engine/internal/worker"
	"github.com/jwebster45206/realm-engine/pkg/chat"
	"github.com/jwebster45206/realm-engine/pkg/directive"
	"github.com/jwebster45206/realm-engine/pkg/engine"
	"github.com/jwebster45206/realm-engine/pkg/history"
	"github.com/jwebster45206/realm-engine/pkg/pagination"
	"github.com/jwebster45206/realm-engine/pkg/prompts"
	"github.com/jwebster45206/realm-engine/pkg/state"
	"github.com/jwebster45206/realm-engine/pkg/stats"
	"github.com/jwebster45206/realm-engine/pkg/storage"
	"github.com/jwebster45206/realm-engine/pkg/textfilter"
)

// ErrNotFound is returned by Load for an unknown session id.
var ErrNotFound = errors.New("session not found")

var narrationFilter = textfilter.New(nil)

// Deps are the collaborators shared by every session of a process.
// Avatars and Scheduler may be nil, which disables portrait delivery.
type Deps struct {
	Engine        *engine.Engine
	Pagination    *pagination.Controller
	Narrative     services.NarrativeService
	Avatars       engine.AvatarQueue
	Scheduler     worker.Scheduler
	Storage       storage.Storage
	HistoryLimit  int
	PromptHistory int
	Logger        *slog.Logger
}

// Session is one game in play. All methods are safe for concurrent use;
// turns are serialized.
type Session struct {
	ID        uuid.UUID
	KB        *state.KnowledgeBase
	Messages  []chat.Message
	CreatedAt time.Time

	deps Deps
	log  *slog.Logger
	mu   sync.Mutex
}

// TurnOutcome is what the presentation layer shows after a turn.
type TurnOutcome struct {
	Turn           int                    `json:"turn"`
	Narration      string                 `json:"narration"`
	Notifications  []engine.Notification  `json:"notifications"`
	Page           *pagination.Transition `json:"page,omitempty"`
	AvatarsApplied int                    `json:"avatarsApplied"`
	Stats          stats.Effective        `json:"stats"`
}

func newSession(kb *state.KnowledgeBase, messages []chat.Message, deps Deps) *Session {
	log := deps.Logger
	if log == nil {
		log = slog.Default()
	}
	if deps.Engine == nil {
		deps.Engine = engine.New(engine.DefaultConfig(), log)
	}
	if deps.Pagination == nil {
		deps.Pagination = pagination.NewController(pagination.DefaultPageSize, nil, log)
	}
	return &Session{
		ID:        kb.ID,
		KB:        kb,
		Messages:  messages,
		CreatedAt: time.Now().UTC(),
		deps:      deps,
		log:       logger.WithSession(log, kb.ID),
	}
}

// Start creates and saves a new game from a world preset. A non-empty
// opening becomes the first narrator message; tags in it seed the state.
func Start(ctx context.Context, w storage.World, deps Deps) (*Session, error) {
	kb := state.NewKnowledgeBase(w.Config, w.Progression)
	stats.Recompute(kb)

	s := newSession(kb, nil, deps)
	opening, tags := directive.Extract(strings.TrimSpace(w.Opening))
	var jobs []engine.AvatarJob
	if len(tags) > 0 {
		res, err := s.deps.Engine.Apply(kb, tags, kb.PlayerStats.Turn)
		if err != nil {
			return nil, fmt.Errorf("failed to apply opening: %w", err)
		}
		for _, n := range res.Notifications {
			if n.Diagnostic() {
				s.log.Warn("Opening diagnostic", "world", w.Name, "text", n.Text)
			}
		}
		s.KB = res.KB
		jobs = res.AvatarJobs
	}
	if opening = strings.TrimSpace(opening); opening != "" {
		s.Messages = append(s.Messages, chat.NewMessage(chat.RoleNarrator, opening, s.KB.PlayerStats.Turn))
	}

	if err := s.save(ctx); err != nil {
		return nil, err
	}
	if len(jobs) > 0 && s.deps.Scheduler != nil {
		s.deps.Scheduler.Schedule(ctx, s.ID, jobs)
	}
	s.log.Info("Session started", "world", w.Name, "realm", s.KB.PlayerStats.Realm)
	return s, nil
}

// Load restores a saved game.
func Load(ctx context.Context, id uuid.UUID, deps Deps) (*Session, error) {
	if deps.Storage == nil {
		return nil, fmt.Errorf("no storage configured")
	}
	data, err := deps.Storage.LoadSession(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if data == nil || data.KnowledgeBase == nil {
		return nil, ErrNotFound
	}
	s := newSession(data.KnowledgeBase, data.Messages, deps)
	s.CreatedAt = data.CreatedAt
	stats.Refresh(s.KB)
	return s, nil
}

// PlayTurn plays one player action: it checkpoints the game, asks the
// narrator for the next passage, applies the directives in it and advances
// the turn. When the narrator fails the game is left as it was.
func (s *Session) PlayTurn(ctx context.Context, input string) (*TurnOutcome, error) {
	pi := chat.PlayerInput{SessionID: s.ID, Message: input}
	if err := pi.Validate(); err != nil {
		return nil, err
	}

	if s.deps.Narrative == nil {
		return nil, fmt.Errorf("no narrative service configured")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	out := &TurnOutcome{}
	out.AvatarsApplied = s.applyAvatarsLocked(ctx)

	if err := history.Record(s.KB, s.Messages, s.deps.HistoryLimit); err != nil {
		return nil, err
	}

	promptMsgs, err := prompts.New().
		WithKnowledgeBase(s.KB).
		WithMessages(s.Messages).
		WithHistoryLimit(s.deps.PromptHistory).
		WithPlayerInput(input).
		Build()
	if err != nil {
		history.Discard(s.KB)
		return nil, fmt.Errorf("failed to build prompt: %w", err)
	}

	reply, err := s.deps.Narrative.Narrate(ctx, promptMsgs)
	if err != nil {
		history.Discard(s.KB)
		logger.WithError(s.log, err).Error("Narrative service failed", "turn", s.KB.PlayerStats.Turn)
		return nil, fmt.Errorf("failed to narrate turn %d: %w", s.KB.PlayerStats.Turn, err)
	}

	turn := s.KB.PlayerStats.Turn
	prose, tags := directive.Extract(reply)
	if !s.KB.WorldConfig.NSFWMode {
		prose = narrationFilter.FilterText(prose)
	}

	res, err := s.deps.Engine.Apply(s.KB, tags, turn)
	if err != nil {
		history.Discard(s.KB)
		return nil, err
	}
	s.KB = res.KB
	notes := res.Notifications
	if !res.TurnAdvanced {
		notes = append(notes, engine.AdvanceTurn(s.KB, 1, res.FreshEffects...)...)
	}

	s.Messages = append(s.Messages,
		chat.NewMessage(chat.RoleUser, chat.FormatWithPlayerName(input, s.KB.WorldConfig.PlayerName), turn),
		chat.NewMessage(chat.RoleNarrator, prose, turn),
	)
	for _, n := range notes {
		if n.Diagnostic() {
			s.log.Warn("Directive diagnostic", "turn", turn, "text", n.Text)
		}
		s.Messages = append(s.Messages, chat.NewMessage(chat.RoleSystem, n.Text, turn))
	}

	page, err := s.deps.Pagination.Evaluate(ctx, s.KB, s.Messages, s.KB.PlayerStats.Turn)
	if err != nil {
		return nil, fmt.Errorf("failed to evaluate page: %w", err)
	}

	if len(res.AvatarJobs) > 0 && s.deps.Scheduler != nil {
		s.deps.Scheduler.Schedule(ctx, s.ID, res.AvatarJobs)
	}

	if err := s.save(ctx); err != nil {
		s.log.Error("Failed to save session", "turn", turn, "error", err)
		return nil, err
	}

	out.Turn = s.KB.PlayerStats.Turn
	out.Narration = prose
	out.Notifications = notes
	out.Page = page
	out.Stats = stats.EffectiveStats(s.KB)

	s.log.Info("Turn played",
		"turn", turn,
		"directives", len(tags),
		"applied", res.Applied,
		"notifications", len(notes),
		"page_closed", page != nil)
	return out, nil
}

// Rollback restores the game to the start of the most recent turn.
func (s *Session) Rollback(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	kb, msgs, err := history.Rollback(s.KB)
	if err != nil {
		return err
	}
	s.KB, s.Messages = kb, msgs
	if err := s.save(ctx); err != nil {
		return err
	}
	s.log.Info("Rolled back", "turn", kb.PlayerStats.Turn)
	return nil
}

// RefreshAvatars applies finished portraits without playing a turn.
func (s *Session) RefreshAvatars(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := s.applyAvatarsLocked(ctx)
	if n == 0 {
		return 0, nil
	}
	return n, s.save(ctx)
}

func (s *Session) applyAvatarsLocked(ctx context.Context) int {
	if s.deps.Avatars == nil {
		return 0
	}
	evs, err := s.deps.Avatars.Drain(ctx, s.ID)
	if err != nil {
		s.log.Warn("Failed to drain avatar events", "error", err)
		return 0
	}
	return engine.ApplyAvatarEvents(s.KB, evs)
}

// EffectiveStats returns the player's current effective stats.
func (s *Session) EffectiveStats() stats.Effective {
	s.mu.Lock()
	defer s.mu.Unlock()
	return stats.EffectiveStats(s.KB)
}

// MessagesForPage returns the transcript of one page, 1-based.
func (s *Session) MessagesForPage(page int) []chat.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return pagination.MessagesForPage(s.KB, s.Messages, page)
}

// PageCount returns the number of pages, the open one included.
func (s *Session) PageCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return pagination.PageCount(s.KB)
}

// Snapshot returns a deep copy of the knowledge base for read-only use.
func (s *Session) Snapshot() (*state.KnowledgeBase, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return state.Checkpoint(s.KB)
}

func (s *Session) save(ctx context.Context) error {
	if s.deps.Storage == nil {
		return nil
	}
	err := s.deps.Storage.SaveSession(ctx, &storage.SessionData{
		ID:            s.ID,
		KnowledgeBase: s.KB,
		Messages:      s.Messages,
		CreatedAt:     s.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// PageSummary returns the stored summary of a closed page.
func (s *Session) PageSummary(page int) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	summary, _ := pagination.Summary(s.KB, page)
	return summary
}

// RollbackTurns lists the turns Rollback can return to, oldest first.
func (s *Session) RollbackTurns() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return history.Turns(s.KB)
}
