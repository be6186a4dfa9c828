// Package history keeps the per-turn checkpoints a session can roll back to.
//
// Entries are full snapshots taken before a turn's mutations. They are never
// modified after Record returns, so knowledge bases derived from one another
// may share them.
package history

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/jwebster45206/realm-engine/pkg/chat"
	"github.com/jwebster45206/realm-engine/pkg/state"
)

var ErrNoHistory = errors.New("no turn to roll back to")

// Record appends a checkpoint of kb and the transcript as they are before the
// turn about to be played. Once more than limit entries are held the oldest
// are evicted; limit <= 0 means state.DefaultHistoryLimit.
func Record(kb *state.KnowledgeBase, messages []chat.Message, limit int) error {
	if kb == nil {
		return fmt.Errorf("knowledge base cannot be nil")
	}
	cp, err := state.Checkpoint(kb)
	if err != nil {
		return fmt.Errorf("failed to checkpoint turn %d: %w", kb.PlayerStats.Turn, err)
	}
	if limit <= 0 {
		limit = state.DefaultHistoryLimit
	}

	entry := state.TurnHistoryEntry{
		Turn:          kb.PlayerStats.Turn,
		KnowledgeBase: cp,
		Messages:      chat.Clone(messages),
		RecordedAt:    time.Now().UTC(),
	}
	hist := append(kb.TurnHistory, entry)
	if over := len(hist) - limit; over > 0 {
		hist = slices.Clone(hist[over:])
	}
	kb.TurnHistory = hist
	return nil
}

// Rollback returns the knowledge base and transcript stored by the most
// recent Record, with the older entries still attached as its history. kb
// itself is not modified.
func Rollback(kb *state.KnowledgeBase) (*state.KnowledgeBase, []chat.Message, error) {
	if kb == nil || len(kb.TurnHistory) == 0 {
		return nil, nil, ErrNoHistory
	}
	n := len(kb.TurnHistory)
	last := kb.TurnHistory[n-1]
	if last.KnowledgeBase == nil {
		return nil, nil, fmt.Errorf("history entry for turn %d has no snapshot", last.Turn)
	}

	restored, err := state.Snapshot(last.KnowledgeBase)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to restore turn %d: %w", last.Turn, err)
	}
	if n > 1 {
		restored.TurnHistory = slices.Clone(kb.TurnHistory[:n-1])
	} else {
		restored.TurnHistory = nil
	}
	return restored, chat.Clone(last.Messages), nil
}

// Discard drops the most recent entry without restoring it. It is used when
// the turn the entry was recorded for never happened.
func Discard(kb *state.KnowledgeBase) bool {
	if kb == nil || len(kb.TurnHistory) == 0 {
		return false
	}
	kb.TurnHistory = kb.TurnHistory[:len(kb.TurnHistory)-1]
	return true
}

// Turns lists the turns that can be rolled back to, oldest first.
func Turns(kb *state.KnowledgeBase) []int {
	out := make([]int, len(kb.TurnHistory))
	for i, e := range kb.TurnHistory {
		out[i] = e.Turn
	}
	return out
}
