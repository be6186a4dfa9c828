package engine

import (
	"strings"

	"github.com/google/uuid"
	"github.com/jwebster45206/realm-engine/pkg/directive"
	"github.com/jwebster45206/realm-engine/pkg/state"
	"github.com/jwebster45206/realm-engine/pkg/stats"
)

func (w *worker) statsUpdate(d directive.StatsUpdate) {
	ps := &w.kb.PlayerStats
	for _, key := range d.Denied {
		w.diag("directive %s: %s is derived and cannot be set", directive.KindStatsUpdate, key)
	}
	for _, key := range d.Invalid {
		w.diag("directive %s: ignored invalid field %s", directive.KindStatsUpdate, key)
	}

	expBefore := ps.Exp
	expTouched := false
	for _, c := range d.Changes {
		switch c.Key {
		case state.StatHP:
			ps.HP = clamp(c.Expr.Apply(ps.HP, ps.MaxHP), 0, ps.MaxHP)
		case state.StatMP:
			ps.MP = clamp(c.Expr.Apply(ps.MP, ps.MaxMP), 0, ps.MaxMP)
		case state.StatExp:
			ps.Exp = max(c.Expr.Apply(ps.Exp, ps.MaxExp), 0)
			expTouched = true
		case state.StatCurrency:
			ps.Currency = max(c.Expr.Apply(ps.Currency, ps.Currency), 0)
		case state.StatTurn:
			next := c.Expr.Apply(ps.Turn, ps.Turn)
			if next < ps.Turn {
				w.diag("directive %s: turn cannot go back from %d to %d", directive.KindStatsUpdate, ps.Turn, next)
				continue
			}
			ps.Turn = next
		case state.StatInCombat:
			ps.IsInCombat = c.Bool
		}
	}
	if expTouched {
		w.levelUp(expBefore)
	}
}

// levelUp runs the ladder after an experience change. A realm that cannot
// be placed refunds the experience to expBefore.
func (w *worker) levelUp(expBefore int) {
	ps := &w.kb.PlayerStats
	wasPlateau := ps.Plateau
	realmBefore := ps.Realm

	r := stats.LevelUp(w.kb, stats.LevelOptions{
		RequireBreakthrough: w.cfg.RequireBreakthrough,
		Breakthrough:        w.breakthrough,
		MaxSteps:            w.cfg.MaxLevelSteps,
	})
	if r.Err != nil {
		ps.Exp = expBefore
		w.notify(LevelError, "Không xác định được cảnh giới %q, kinh nghiệm đã được hoàn lại.", ps.Realm)
		if w.logger != nil {
			w.logger.Error("Level-up stopped on malformed realm", "realm", ps.Realm, "error", r.Err)
		}
		return
	}
	if r.MainTierChanged {
		w.breakthrough = false
	}
	if r.Advanced > 0 {
		w.res.TierChanged = true
		w.notify(LevelSuccess, "Đột phá: %s → %s", realmBefore, ps.Realm)
	}
	if r.Plateaued && !wasPlateau {
		w.notify(LevelWarning, "Bình cảnh tại %s: cần đột phá để tiến xa hơn.", ps.Realm)
	}
}

func (w *worker) realmChange(d directive.RealmChange) {
	ps := &w.kb.PlayerStats
	expBefore := ps.Exp
	res, err := stats.SetRealm(w.kb, d.Realm)
	if err != nil {
		w.diag("directive %s: %v", directive.KindRealmChange, err)
		return
	}
	if ps.Plateau {
		ps.Plateau = false
		w.res.PlateauCleared = true
	}
	if res.Previous != ps.Realm {
		w.res.TierChanged = true
		w.notify(LevelSuccess, "Cảnh giới mới: %s", ps.Realm)
	}
	w.levelUp(expBefore)
}

func (w *worker) removePlateau() {
	ps := &w.kb.PlayerStats
	w.breakthrough = true
	if !ps.Plateau {
		return
	}
	ps.Plateau = false
	w.res.PlateauCleared = true
	expBefore := ps.Exp
	ps.Exp = directive.AddInt(ps.Exp, w.cfg.PlateauBreakExp)
	w.notify(LevelSuccess, "Bình cảnh đã được phá vỡ.")
	w.levelUp(expBefore)
}

func (w *worker) effectApply(d directive.StatusEffectApply) {
	ps := &w.kb.PlayerStats
	e := d.Effect
	e.ID = uuid.NewString()
	if i := ps.FindEffect(e.Name); i >= 0 {
		ps.ActiveStatusEffects[i] = e
	} else {
		ps.ActiveStatusEffects = append(ps.ActiveStatusEffects, e)
	}
	w.fresh[e.ID] = true
	stats.Refresh(w.kb)
	w.notify(LevelInfo, "Trạng thái mới: %s", e.Name)
}

func (w *worker) effectRemove(d directive.StatusEffectRemove) {
	ps := &w.kb.PlayerStats
	i := ps.FindEffect(d.Name)
	if i < 0 {
		w.diag("directive %s: no active effect %q", directive.KindStatusEffectRemove, d.Name)
		return
	}
	name := ps.ActiveStatusEffects[i].Name
	ps.ActiveStatusEffects = append(ps.ActiveStatusEffects[:i], ps.ActiveStatusEffects[i+1:]...)
	stats.Refresh(w.kb)
	w.notify(LevelInfo, "Trạng thái kết thúc: %s", name)
}

// tickEffects ages timed effects by n turns and drops the expired ones.
// Effects applied in the current batch start counting next batch.
func (w *worker) tickEffects(n int) {
	ps := &w.kb.PlayerStats
	kept := ps.ActiveStatusEffects[:0]
	var expired []string
	for _, e := range ps.ActiveStatusEffects {
		if e.Permanent() || w.fresh[e.ID] {
			kept = append(kept, e)
			continue
		}
		e.DurationTurns -= n
		if e.DurationTurns <= 0 {
			expired = append(expired, e.Name)
			continue
		}
		kept = append(kept, e)
	}
	ps.ActiveStatusEffects = kept
	if len(expired) > 0 {
		w.notify(LevelInfo, "Trạng thái hết hiệu lực: %s", strings.Join(expired, ", "))
	}
}

func clamp(v, lo, hi int) int {
	return min(max(v, lo), hi)
}
