package stats

import (
	"fmt"

	"github.com/jwebster45206/realm-engine/pkg/state"
)

// DefaultMaxSteps bounds a single LevelUp pass.
const DefaultMaxSteps = 200

// LevelOptions control one LevelUp pass.
type LevelOptions struct {
	// RequireBreakthrough stops the ladder at the top of every main tier
	// until a breakthrough is granted.
	RequireBreakthrough bool
	// Breakthrough lets one main-tier rollover through this pass.
	Breakthrough bool
	MaxSteps     int
}

// LevelUpResult reports what a LevelUp pass did.
type LevelUpResult struct {
	Advanced        int
	MainTierChanged bool
	Plateaued       bool
	Err             error
}

// LevelUp advances the player while experience meets the effective cap.
// Each step subtracts the cap, moves one sub-tier up, refreshes base stats
// and re-derives the cap from the new tier; overflow carries into the next
// step. Rolling into a new main tier fully restores health and mana.
//
// At the top of the ladder, or at a main-tier top when a breakthrough is
// required but not granted, experience is clamped to the cap and the
// plateau flag is set. While the flag is set the ladder does not move.
// A realm that does not parse stops the pass with Err set and leaves the
// knowledge base untouched.
func LevelUp(kb *state.KnowledgeBase, opts LevelOptions) LevelUpResult {
	var res LevelUpResult
	ps := &kb.PlayerStats
	table := kb.Progression
	if !table.Enabled() {
		Recompute(kb)
		return res
	}

	pos, err := table.Parse(ps.Realm)
	if err != nil {
		res.Err = fmt.Errorf("failed to parse realm: %w", err)
		return res
	}

	steps := opts.MaxSteps
	if steps <= 0 {
		steps = DefaultMaxSteps
	}
	breakthrough := opts.Breakthrough
	for range steps {
		eff := Refresh(kb)
		if ps.Exp < eff.MaxExp {
			break
		}
		if ps.Plateau {
			ps.Exp = eff.MaxExp
			res.Plateaued = true
			break
		}
		next, mainChanged, ok := table.Next(pos)
		if !ok || (mainChanged && opts.RequireBreakthrough && !breakthrough) {
			ps.Exp = eff.MaxExp
			ps.Plateau = true
			res.Plateaued = true
			break
		}
		if mainChanged {
			breakthrough = false
			res.MainTierChanged = true
		}

		ps.Exp -= eff.MaxExp
		pos = next
		ps.Realm = table.Format(pos)
		setBase(ps, table.Base(pos))
		res.Advanced++

		eff = Refresh(kb)
		if mainChanged {
			ps.HP, ps.MP = eff.MaxHP, eff.MaxMP
		}
	}
	Recompute(kb)
	return res
}

// RealmChangeResult reports the effect of SetRealm.
type RealmChangeResult struct {
	Previous        string
	MainTierChanged bool
}

// SetRealm moves the player to realm, stored in its canonical spelling, and
// refreshes base stats. A change of main tier fully restores health and
// mana. Unparseable realms are rejected without changes.
func SetRealm(kb *state.KnowledgeBase, realm string) (RealmChangeResult, error) {
	ps := &kb.PlayerStats
	res := RealmChangeResult{Previous: ps.Realm}
	table := kb.Progression
	if !table.Enabled() {
		ps.Realm = realm
		return res, nil
	}
	pos, err := table.Parse(realm)
	if err != nil {
		return res, fmt.Errorf("failed to parse realm: %w", err)
	}
	prev, perr := table.Parse(ps.Realm)
	res.MainTierChanged = perr != nil || prev.Tier != pos.Tier

	ps.Realm = table.Format(pos)
	setBase(ps, table.Base(pos))
	eff := Refresh(kb)
	if res.MainTierChanged {
		ps.HP, ps.MP = eff.MaxHP, eff.MaxMP
	}
	return res, nil
}

// SyncBase re-derives base stats from the stored realm. It is used after a
// progression table is replaced.
func SyncBase(kb *state.KnowledgeBase) error {
	table := kb.Progression
	if !table.Enabled() {
		return nil
	}
	pos, err := table.Parse(kb.PlayerStats.Realm)
	if err != nil {
		return fmt.Errorf("failed to parse realm: %w", err)
	}
	setBase(&kb.PlayerStats, table.Base(pos))
	Recompute(kb)
	return nil
}
