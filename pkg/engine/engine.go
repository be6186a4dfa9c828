// Package engine applies the directives found in one narrator response to a
// knowledge base.
package engine

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/jwebster45206/realm-engine/pkg/directive"
	"github.com/jwebster45206/realm-engine/pkg/state"
	"github.com/jwebster45206/realm-engine/pkg/stats"
)

// DefaultPlateauBreakExp is the experience granted when a plateau is lifted.
const DefaultPlateauBreakExp = 10

// Config carries the per-world switches the handlers consult.
type Config struct {
	AutoGenerateAvatars bool
	AvatarPlaceholder   string
	RequireBreakthrough bool
	PlateauBreakExp     int
	MaxLevelSteps       int
}

// DefaultConfig returns the settings used when a world does not override them.
func DefaultConfig() Config {
	return Config{
		AvatarPlaceholder: "placeholder:avatar",
		PlateauBreakExp:   DefaultPlateauBreakExp,
		MaxLevelSteps:     stats.DefaultMaxSteps,
	}
}

type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Notification is a player-visible message or a diagnostic about a
// directive that could not be applied.
type Notification struct {
	Level Level  `json:"level"`
	Text  string `json:"text"`
	Turn  int    `json:"turn"`
}

// Diagnostic reports whether n describes a rejected or partial directive.
func (n Notification) Diagnostic() bool {
	return n.Level == LevelWarning || n.Level == LevelError
}

// Result is the outcome of one directive batch. KB is a new knowledge base;
// the input is never modified.
type Result struct {
	KB             *state.KnowledgeBase
	Notifications  []Notification
	Applied        int
	TurnAdvanced   bool
	TierChanged    bool
	PlateauCleared bool
	AvatarJobs     []AvatarJob
	// FreshEffects are the ids of status effects applied by this batch.
	// They are not aged until the next batch.
	FreshEffects []string
}

// Engine applies directive batches with a fixed configuration.
type Engine struct {
	cfg    Config
	logger *slog.Logger
}

// New creates an engine. logger may be nil.
func New(cfg Config, logger *slog.Logger) *Engine {
	if cfg.PlateauBreakExp <= 0 {
		cfg.PlateauBreakExp = DefaultPlateauBreakExp
	}
	return &Engine{cfg: cfg, logger: logger}
}

// Config returns the engine's configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// ApplyDirectives is a convenience wrapper around New(cfg, nil).Apply.
func ApplyDirectives(kb *state.KnowledgeBase, tags []string, turn int, cfg Config) (*Result, error) {
	return New(cfg, nil).Apply(kb, tags, turn)
}

// Apply decodes tags and applies them in order to a deep copy of kb. Bad
// tags never abort the batch; they become diagnostics. After the last
// directive, status effects are aged by the number of turns the batch
// advanced and derived stats are recomputed.
func (e *Engine) Apply(kb *state.KnowledgeBase, tags []string, turn int) (*Result, error) {
	work, err := state.Checkpoint(kb)
	if err != nil {
		return nil, fmt.Errorf("failed to copy knowledge base: %w", err)
	}
	// History entries are immutable checkpoints and can be shared.
	work.TurnHistory = slices.Clone(kb.TurnHistory)

	w := &worker{
		kb:        work,
		cfg:       e.cfg,
		logger:    e.logger,
		turn:      turn,
		res:       &Result{KB: work},
		startTurn: work.PlayerStats.Turn,
		fresh:     map[string]bool{},
	}
	stats.Refresh(work)

	for _, tag := range tags {
		d, err := directive.Decode(tag)
		if err != nil {
			w.diag("%v", err)
			if e.logger != nil {
				e.logger.Warn("Rejected directive", "tag", tag, "error", err)
			}
			continue
		}
		if u, ok := d.(directive.Unrecognized); ok {
			w.diag("directive %s: unrecognized tag", u.Name)
			if e.logger != nil {
				e.logger.Warn("Unrecognized directive", "name", u.Name)
			}
			continue
		}
		w.apply(d)
		w.res.Applied++
		if e.logger != nil {
			e.logger.Debug("Applied directive", "kind", d.Kind(), "game_id", work.ID.String())
		}
	}

	for _, e := range work.PlayerStats.ActiveStatusEffects {
		if w.fresh[e.ID] {
			w.res.FreshEffects = append(w.res.FreshEffects, e.ID)
		}
	}
	if advanced := work.PlayerStats.Turn - w.startTurn; advanced > 0 {
		w.res.TurnAdvanced = true
		w.tickEffects(advanced)
	}
	stats.Recompute(work)
	return w.res, nil
}

// AdvanceTurn moves kb forward by n turns and ages status effects. It is
// used when a batch did not advance the turn itself; pass the batch's
// Result.FreshEffects so those effects start counting next turn.
func AdvanceTurn(kb *state.KnowledgeBase, n int, fresh ...string) []Notification {
	if n <= 0 {
		return nil
	}
	kb.PlayerStats.Turn += n
	w := &worker{kb: kb, res: &Result{KB: kb}, turn: kb.PlayerStats.Turn, fresh: map[string]bool{}}
	for _, id := range fresh {
		w.fresh[id] = true
	}
	w.tickEffects(n)
	stats.Recompute(kb)
	return w.res.Notifications
}

// worker holds the state of one batch.
type worker struct {
	kb        *state.KnowledgeBase
	cfg       Config
	logger    *slog.Logger
	turn      int
	res       *Result
	startTurn int

	breakthrough bool
	fresh        map[string]bool // effect ids applied in this batch
}

func (w *worker) notify(level Level, format string, args ...any) {
	w.res.Notifications = append(w.res.Notifications, Notification{
		Level: level,
		Text:  fmt.Sprintf(format, args...),
		Turn:  w.turn,
	})
}

// diag records a directive that was rejected or only partly applied.
func (w *worker) diag(format string, args ...any) {
	w.notify(LevelWarning, format, args...)
}

func (w *worker) apply(d directive.Directive) {
	switch d := d.(type) {
	case directive.StatsUpdate:
		w.statsUpdate(d)
	case directive.RealmChange:
		w.realmChange(d)
	case directive.RemovePlateau:
		w.removePlateau()
	case directive.ItemAcquired:
		w.itemAcquired(d)
	case directive.ItemConsumed:
		w.itemConsumed(d)
	case directive.ItemUpdate:
		w.itemUpdate(d)
	case directive.ItemEquip:
		w.itemEquip(d)
	case directive.ItemUnequip:
		w.itemUnequip(d)
	case directive.SkillLearned:
		w.skillLearned(d)
	case directive.SkillUpdate:
		w.skillUpdate(d)
	case directive.QuestAssigned:
		w.questAssigned(d)
	case directive.QuestUpdated:
		w.questUpdated(d)
	case directive.QuestCompleted:
		w.questCompleted(d)
	case directive.QuestFailed:
		w.questFailed(d)
	case directive.NPCAdd:
		w.npcAdd(d)
	case directive.NPCUpdate:
		w.npcUpdate(d)
	case directive.LocationAdd:
		w.locationAdd(d)
	case directive.LocationUpdate:
		w.locationUpdate(d)
	case directive.LocationChange:
		w.locationChange(d)
	case directive.FactionDiscovered:
		w.factionDiscovered(d)
	case directive.FactionUpdate:
		w.factionUpdate(d)
	case directive.FactionRemove:
		w.factionRemove(d)
	case directive.LoreAdd:
		w.loreAdd(d)
	case directive.LoreUpdate:
		w.loreUpdate(d)
	case directive.CompanionJoin:
		w.companionJoin(d)
	case directive.CompanionLeave:
		w.companionLeave(d)
	case directive.CompanionStatsUpdate:
		w.companionStatsUpdate(d)
	case directive.StatusEffectApply:
		w.effectApply(d)
	case directive.StatusEffectRemove:
		w.effectRemove(d)
	case directive.BeginCombat:
		w.kb.PlayerStats.IsInCombat = true
	case directive.EndCombat:
		w.kb.PlayerStats.IsInCombat = false
	case directive.Message:
		w.notify(LevelInfo, "%s", d.Text)
	}
}
