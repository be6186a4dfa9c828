package state

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/jwebster45206/realm-engine/pkg/chat"
)

// TurnHistoryEntry is the checkpoint taken at the start of a turn. Its
// KnowledgeBase never carries a TurnHistory of its own.
type TurnHistoryEntry struct {
	Turn          int            `json:"turn"`
	KnowledgeBase *KnowledgeBase `json:"knowledgeBaseSnapshot"`
	Messages      []chat.Message `json:"gameMessagesSnapshot"`
	RecordedAt    time.Time      `json:"recordedAt"`
}

// Snapshot returns a deep copy of kb that shares no memory with it.
//
// The copy goes through JSON, so anything that does not serialize does not
// survive, which is also what persistence would lose.
func Snapshot(kb *KnowledgeBase) (*KnowledgeBase, error) {
	if kb == nil {
		return nil, fmt.Errorf("knowledge base cannot be nil")
	}
	data, err := json.Marshal(kb)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal knowledge base: %w", err)
	}
	var out KnowledgeBase
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("failed to unmarshal knowledge base: %w", err)
	}
	return &out, nil
}

// Checkpoint snapshots kb without its history, for storage inside a
// TurnHistoryEntry.
func Checkpoint(kb *KnowledgeBase) (*KnowledgeBase, error) {
	if kb == nil {
		return nil, fmt.Errorf("knowledge base cannot be nil")
	}
	shallow := *kb
	shallow.TurnHistory = nil
	return Snapshot(&shallow)
}
