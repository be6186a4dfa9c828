package state

import (
	"slices"

	"github.com/jwebster45206/realm-engine/pkg/textkey"
)

type EffectType string

const (
	EffectBuff    EffectType = "buff"
	EffectDebuff  EffectType = "debuff"
	EffectNeutral EffectType = "neutral"
)

// ParseEffectType accepts English and Vietnamese spellings; anything
// unrecognized is neutral.
func ParseEffectType(s string) EffectType {
	switch textkey.Fold(s) {
	case "buff", "co loi", "tang cuong":
		return EffectBuff
	case "debuff", "bat loi", "suy yeu":
		return EffectDebuff
	}
	return EffectNeutral
}

// StatusEffect is stored as an input to the stats calculator; it never
// changes base stats directly. StatModifiers values are "+N", "-N", "N" or
// the same with a trailing "%".
type StatusEffect struct {
	ID             string            `json:"id"`
	Name           string            `json:"name"`
	Description    string            `json:"description,omitempty"`
	Type           EffectType        `json:"type"`
	DurationTurns  int               `json:"durationTurns"` // 0 or -1: until removed
	StatModifiers  map[string]string `json:"statModifiers"`
	SpecialEffects []string          `json:"specialEffects"`
	Source         string            `json:"source,omitempty"`
}

// Permanent reports whether the effect lasts until explicitly removed.
func (e *StatusEffect) Permanent() bool {
	return e.DurationTurns <= 0
}

func (ps *PlayerStats) FindEffect(name string) int {
	k := textkey.Fold(name)
	return slices.IndexFunc(ps.ActiveStatusEffects, func(e StatusEffect) bool { return textkey.Fold(e.Name) == k })
}
