// Package stats derives the player's effective numbers from tier base stats,
// equipped items and active status effects, and runs the level-up ladder.
package stats

import (
	"math"
	"slices"

	"github.com/jwebster45206/realm-engine/pkg/directive"
	"github.com/jwebster45206/realm-engine/pkg/progression"
	"github.com/jwebster45206/realm-engine/pkg/state"
)

// Current are the player's depletable values before clamping.
type Current struct {
	HP  int
	MP  int
	Exp int
}

// Effective is the calculator output.
type Effective struct {
	MaxHP  int `json:"maxSinhLuc"`
	MaxMP  int `json:"maxLinhLuc"`
	Attack int `json:"sucTanCong"`
	MaxExp int `json:"maxKinhNghiem"`
	HP     int `json:"sinhLuc"`
	MP     int `json:"linhLuc"`
	Exp    int `json:"kinhNghiem"`
}

// Compute is a pure function of its inputs. Equipped bonuses are added in
// slot order, then every effect modifier is applied in list order: flat
// values add, percentages scale the running total. Results are rounded and
// current values clamped into [0, max].
func Compute(base progression.BaseStats, equipped map[state.EquipmentSlot]string, inventory []state.Item, effects []state.StatusEffect, cur Current) Effective {
	acc := map[string]float64{
		state.StatMaxHP:  float64(base.MaxHP),
		state.StatMaxMP:  float64(base.MaxMP),
		state.StatAttack: float64(base.Attack),
		state.StatMaxExp: float64(base.MaxExp),
	}

	for _, slot := range state.EquipmentSlots {
		id := equipped[slot]
		if id == "" {
			continue
		}
		it := findItem(inventory, id)
		if it == nil || it.Equipment == nil {
			continue
		}
		for key, bonus := range it.Equipment.StatBonuses {
			if k, ok := derivedKey(key); ok {
				acc[k] += float64(bonus)
			}
		}
	}

	for _, e := range effects {
		for _, key := range state.DerivedStatKeys {
			raw, ok := modifierFor(e.StatModifiers, key)
			if !ok {
				continue
			}
			expr, err := directive.ParseNumber(raw)
			if err != nil {
				continue
			}
			switch expr.Op {
			case directive.OpPercent:
				acc[key] += acc[key] * expr.Value / 100
			case directive.OpAdd, directive.OpSet:
				acc[key] += expr.Value
			}
		}
	}

	out := Effective{
		MaxHP:  max(round(acc[state.StatMaxHP]), 1),
		MaxMP:  max(round(acc[state.StatMaxMP]), 0),
		Attack: max(round(acc[state.StatAttack]), 0),
		MaxExp: max(round(acc[state.StatMaxExp]), 1),
	}
	out.HP = clamp(cur.HP, 0, out.MaxHP)
	out.MP = clamp(cur.MP, 0, out.MaxMP)
	out.Exp = clamp(cur.Exp, 0, out.MaxExp)
	return out
}

// round clamps v to the directive range before converting, so stacked
// percentage modifiers cannot wrap.
func round(v float64) int {
	return int(math.Round(math.Max(-directive.MaxMagnitude, math.Min(directive.MaxMagnitude, v))))
}

func clamp(v, lo, hi int) int {
	return min(max(v, lo), hi)
}

func findItem(inv []state.Item, id string) *state.Item {
	for i := range inv {
		if inv[i].ID == id {
			return &inv[i]
		}
	}
	return nil
}

func derivedKey(key string) (string, bool) {
	c, ok := state.CanonicalStatKey(key)
	if !ok {
		return "", false
	}
	return c, slices.Contains(state.DerivedStatKeys, c)
}

// modifierFor finds the modifier for a canonical key, accepting aliases.
func modifierFor(mods map[string]string, key string) (string, bool) {
	if v, ok := mods[key]; ok {
		return v, true
	}
	for k, v := range mods {
		if c, ok := state.CanonicalStatKey(k); ok && c == key {
			return v, true
		}
	}
	return "", false
}

func baseOf(ps *state.PlayerStats) progression.BaseStats {
	return progression.BaseStats{
		MaxHP:  ps.BaseMaxHP,
		MaxMP:  ps.BaseMaxMP,
		Attack: ps.BaseAttack,
		MaxExp: ps.BaseMaxExp,
	}
}

func setBase(ps *state.PlayerStats, b progression.BaseStats) {
	ps.BaseMaxHP, ps.BaseMaxMP, ps.BaseAttack, ps.BaseMaxExp = b.MaxHP, b.MaxMP, b.Attack, b.MaxExp
}

// EffectiveStats computes kb's effective stats without modifying it.
func EffectiveStats(kb *state.KnowledgeBase) Effective {
	ps := &kb.PlayerStats
	return Compute(baseOf(ps), kb.EquippedItems, kb.Inventory, ps.ActiveStatusEffects,
		Current{HP: ps.HP, MP: ps.MP, Exp: ps.Exp})
}

// Recompute writes the effective stats into kb.PlayerStats. It is the only
// writer of the effective maxima and attack.
func Recompute(kb *state.KnowledgeBase) Effective {
	eff := EffectiveStats(kb)
	write(&kb.PlayerStats, eff)
	return eff
}

func write(ps *state.PlayerStats, eff Effective) {
	ps.MaxHP, ps.MaxMP, ps.Attack, ps.MaxExp = eff.MaxHP, eff.MaxMP, eff.Attack, eff.MaxExp
	ps.HP, ps.MP, ps.Exp = eff.HP, eff.MP, eff.Exp
}

// Refresh updates the effective maxima and clamps health and mana but
// leaves experience alone, so overflow survives until the level-up pass.
func Refresh(kb *state.KnowledgeBase) Effective {
	ps := &kb.PlayerStats
	eff := EffectiveStats(kb)
	ps.MaxHP, ps.MaxMP, ps.Attack, ps.MaxExp = eff.MaxHP, eff.MaxMP, eff.Attack, eff.MaxExp
	ps.HP, ps.MP = eff.HP, eff.MP
	return eff
}
