package engine

import (
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/jwebster45206/realm-engine/pkg/directive"
	"github.com/jwebster45206/realm-engine/pkg/state"
	"github.com/jwebster45206/realm-engine/pkg/textkey"
)

const (
	minAffinity   = -100
	maxAffinity   = 100
	minReputation = -100
	maxReputation = 100
)

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func setInt(dst *int, src *int) {
	if src != nil {
		*dst = *src
	}
}

func mergeSkill(s *state.Skill, f directive.SkillFields) {
	setString(&s.SkillType, f.SkillType)
	setString(&s.Description, f.Description)
	setInt(&s.ManaCost, f.ManaCost)
	setInt(&s.BaseDamage, f.BaseDamage)
	setInt(&s.HealingAmount, f.HealingAmount)
	setInt(&s.Cooldown, f.Cooldown)
	if f.DamageMultiplier != nil {
		s.DamageMultiplier = *f.DamageMultiplier
	}
	if f.OtherEffects != nil {
		s.OtherEffects = f.OtherEffects
	}
	if f.Prerequisites != nil {
		s.Prerequisites = f.Prerequisites
	}
}

func (w *worker) skillLearned(d directive.SkillLearned) {
	kb := w.kb
	if i := kb.FindSkill(d.Name); i >= 0 {
		mergeSkill(&kb.Skills[i], d.Fields)
		w.diag("directive %s: %q is already known; fields merged", directive.KindSkillLearned, kb.Skills[i].Name)
		return
	}
	s := state.Skill{ID: uuid.NewString(), Name: d.Name, DamageMultiplier: 1}
	mergeSkill(&s, d.Fields)
	kb.Skills = append(kb.Skills, s)
	w.notify(LevelSuccess, "Lĩnh ngộ: %s", s.Name)
}

func (w *worker) skillUpdate(d directive.SkillUpdate) {
	kb := w.kb
	i := kb.FindSkill(d.Name)
	if i < 0 {
		w.diag("directive %s: unknown skill %q", directive.KindSkillUpdate, d.Name)
		return
	}
	mergeSkill(&kb.Skills[i], d.Fields)
	if d.NewName != nil {
		if j := kb.FindSkill(*d.NewName); j >= 0 && j != i {
			w.diag("directive %s: cannot rename to %q, name taken", directive.KindSkillUpdate, *d.NewName)
		} else {
			kb.Skills[i].Name = *d.NewName
		}
	}
}

func (w *worker) questAssigned(d directive.QuestAssigned) {
	kb := w.kb
	if kb.FindQuest(d.Title) >= 0 {
		w.diag("directive %s: quest %q already exists", directive.KindQuestAssigned, d.Title)
		return
	}
	q := state.Quest{
		ID:          uuid.NewString(),
		Title:       d.Title,
		Description: d.Description,
		Status:      state.QuestActive,
		Objectives:  make([]state.Objective, 0, len(d.Objectives)),
	}
	for _, text := range d.Objectives {
		q.Objectives = append(q.Objectives, state.Objective{ID: uuid.NewString(), Text: text})
	}
	kb.Quests = append(kb.Quests, q)
	w.notify(LevelInfo, "Nhiệm vụ mới: %s", q.Title)
}

func (w *worker) questUpdated(d directive.QuestUpdated) {
	kb := w.kb
	qi := kb.FindQuest(d.Title)
	if qi < 0 {
		w.diag("directive %s: unknown quest %q", directive.KindQuestUpdated, d.Title)
		return
	}
	q := &kb.Quests[qi]
	want := strings.TrimSpace(d.ObjectiveText)
	oi := slices.IndexFunc(q.Objectives, func(o state.Objective) bool {
		return strings.TrimSpace(o.Text) == want
	})
	if oi < 0 {
		w.diag("directive %s: quest %q has no objective %q", directive.KindQuestUpdated, q.Title, d.ObjectiveText)
		return
	}
	if d.NewObjectiveText != nil {
		q.Objectives[oi].Text = *d.NewObjectiveText
	}
	q.Objectives[oi].Completed = d.Completed
	switch done := q.AllObjectivesDone(); {
	case q.Status == state.QuestActive && done:
		q.Status = state.QuestCompleted
		w.notify(LevelSuccess, "Hoàn thành nhiệm vụ: %s", q.Title)
	case q.Status == state.QuestCompleted && !done:
		q.Status = state.QuestActive
		w.notify(LevelInfo, "Nhiệm vụ %s chưa hoàn tất.", q.Title)
	}
}

func (w *worker) questCompleted(d directive.QuestCompleted) {
	kb := w.kb
	qi := kb.FindQuest(d.Title)
	if qi < 0 {
		w.diag("directive %s: unknown quest %q", directive.KindQuestCompleted, d.Title)
		return
	}
	q := &kb.Quests[qi]
	for i := range q.Objectives {
		q.Objectives[i].Completed = true
	}
	if q.Status == state.QuestActive {
		q.Status = state.QuestCompleted
		w.notify(LevelSuccess, "Hoàn thành nhiệm vụ: %s", q.Title)
	}
}

func (w *worker) questFailed(d directive.QuestFailed) {
	kb := w.kb
	qi := kb.FindQuest(d.Title)
	if qi < 0 {
		w.diag("directive %s: unknown quest %q", directive.KindQuestFailed, d.Title)
		return
	}
	q := &kb.Quests[qi]
	if q.Status != state.QuestActive {
		w.diag("directive %s: quest %q is already %s", directive.KindQuestFailed, q.Title, q.Status)
		return
	}
	q.Status = state.QuestFailed
	w.notify(LevelWarning, "Nhiệm vụ thất bại: %s", q.Title)
}

// applyNPCFields merges f into n. A realm change re-derives the NPC's stats.
func (w *worker) applyNPCFields(n *state.NPC, f directive.NPCFields) {
	setString(&n.Gender, f.Gender)
	setString(&n.Race, f.Race)
	setString(&n.Description, f.Description)
	setString(&n.Personality, f.Personality)
	setString(&n.FactionID, f.FactionID)
	setString(&n.RelationshipToPlayer, f.Relationship)
	if f.Affinity != nil {
		n.Affinity = clamp(f.Affinity.Apply(n.Affinity, maxAffinity), minAffinity, maxAffinity)
	}
	if f.Realm != nil && *f.Realm != n.Realm {
		n.Realm = *f.Realm
		w.resetNPCStats(n)
	}
}

// resetNPCStats derives an NPC's stats from its realm with full health and
// mana.
func (w *worker) resetNPCStats(n *state.NPC) {
	b := w.kb.Progression.NPCBaseStats(n.Realm)
	n.Stats = state.NPCStats{
		HP: b.MaxHP, MaxHP: b.MaxHP,
		MP: b.MaxMP, MaxMP: b.MaxMP,
		Attack: b.Attack, MaxExp: b.MaxExp,
	}
}

func (w *worker) npcAdd(d directive.NPCAdd) {
	kb := w.kb
	if i := kb.FindNPC(d.Name); i >= 0 {
		w.applyNPCFields(&kb.NPCs[i], d.Fields)
		w.scheduleAvatar(&kb.NPCs[i])
		w.diag("directive %s: %q already known; fields merged", directive.KindNPCAdd, d.Name)
		return
	}
	n := state.NPC{ID: uuid.NewString(), Name: d.Name}
	w.resetNPCStats(&n)
	w.applyNPCFields(&n, d.Fields)
	kb.NPCs = append(kb.NPCs, n)
	w.scheduleAvatar(&kb.NPCs[len(kb.NPCs)-1])
	w.notify(LevelInfo, "Gặp gỡ: %s", n.Name)
}

func (w *worker) npcUpdate(d directive.NPCUpdate) {
	kb := w.kb
	i := kb.FindNPC(d.Name)
	if i < 0 {
		w.diag("directive %s: unknown NPC %q", directive.KindNPCUpdate, d.Name)
		return
	}
	n := &kb.NPCs[i]
	before := n.Affinity
	w.applyNPCFields(n, d.Fields)
	if d.NewName != nil {
		if j := kb.FindNPC(*d.NewName); j >= 0 && j != i {
			w.diag("directive %s: cannot rename to %q, name taken", directive.KindNPCUpdate, *d.NewName)
		} else {
			n.Name = *d.NewName
		}
	}
	w.scheduleAvatar(n)
	if delta := n.Affinity - before; delta != 0 {
		w.notify(LevelInfo, "Thiện cảm của %s: %+d (%d)", n.Name, delta, n.Affinity)
	}
}

func applyLocationFields(l *state.Location, f directive.LocationFields) {
	setString(&l.Description, f.Description)
	setString(&l.RegionID, f.RegionID)
	setString(&l.LocationType, f.LocationType)
	if f.IsSafeZone != nil {
		l.IsSafeZone = *f.IsSafeZone
	}
	if f.MapX != nil {
		x := *f.MapX
		l.MapX = &x
	}
	if f.MapY != nil {
		y := *f.MapY
		l.MapY = &y
	}
}

func (w *worker) locationAdd(d directive.LocationAdd) {
	kb := w.kb
	if i := kb.FindLocation(d.Name); i >= 0 {
		applyLocationFields(&kb.Locations[i], d.Fields)
		return
	}
	l := state.Location{ID: uuid.NewString(), Name: d.Name}
	applyLocationFields(&l, d.Fields)
	kb.Locations = append(kb.Locations, l)
	w.notify(LevelInfo, "Khám phá địa điểm: %s", l.Name)
}

func (w *worker) locationUpdate(d directive.LocationUpdate) {
	kb := w.kb
	i := kb.FindLocation(d.Name)
	if i < 0 {
		w.diag("directive %s: unknown location %q", directive.KindLocationUpdate, d.Name)
		return
	}
	applyLocationFields(&kb.Locations[i], d.Fields)
	if d.NewName != nil {
		if j := kb.FindLocation(*d.NewName); j >= 0 && j != i {
			w.diag("directive %s: cannot rename to %q, name taken", directive.KindLocationUpdate, *d.NewName)
		} else {
			kb.Locations[i].Name = *d.NewName
		}
	}
}

// locationChange moves the player, registering the place first when it has
// not been seen before.
func (w *worker) locationChange(d directive.LocationChange) {
	kb := w.kb
	i := kb.FindLocation(d.Name)
	if i < 0 {
		w.diag("directive %s: unknown location %q", directive.KindLocationChange, d.Name)
		return
	}
	kb.Locations[i].Visited = true
	if kb.CurrentLocationID == kb.Locations[i].ID {
		return
	}
	kb.CurrentLocationID = kb.Locations[i].ID
	w.notify(LevelInfo, "Đến: %s", kb.Locations[i].Name)
}

func (w *worker) applyFactionFields(f *state.Faction, src directive.FactionFields) {
	setString(&f.Description, src.Description)
	setString(&f.Alignment, src.Alignment)
	if src.Reputation != nil {
		f.PlayerReputation = clamp(src.Reputation.Apply(f.PlayerReputation, maxReputation), minReputation, maxReputation)
	}
}

func (w *worker) factionDiscovered(d directive.FactionDiscovered) {
	kb := w.kb
	if i := kb.FindFaction(d.Name); i >= 0 {
		w.applyFactionFields(&kb.Factions[i], d.Fields)
		return
	}
	f := state.Faction{ID: uuid.NewString(), Name: d.Name, Alignment: state.DefaultAlignment}
	w.applyFactionFields(&f, d.Fields)
	kb.Factions = append(kb.Factions, f)
	w.notify(LevelInfo, "Phát hiện thế lực: %s", f.Name)
}

func (w *worker) factionUpdate(d directive.FactionUpdate) {
	kb := w.kb
	i := kb.FindFaction(d.Name)
	if i < 0 {
		w.diag("directive %s: unknown faction %q", directive.KindFactionUpdate, d.Name)
		return
	}
	w.applyFactionFields(&kb.Factions[i], d.Fields)
	if d.NewName != nil {
		if j := kb.FindFaction(*d.NewName); j >= 0 && j != i {
			w.diag("directive %s: cannot rename to %q, name taken", directive.KindFactionUpdate, *d.NewName)
		} else {
			kb.Factions[i].Name = *d.NewName
		}
	}
}

func (w *worker) factionRemove(d directive.FactionRemove) {
	kb := w.kb
	i := kb.FindFaction(d.Name)
	if i < 0 {
		w.diag("directive %s: unknown faction %q", directive.KindFactionRemove, d.Name)
		return
	}
	kb.Factions = slices.Delete(kb.Factions, i, i+1)
}

func (w *worker) loreAdd(d directive.LoreAdd) {
	kb := w.kb
	if i := kb.FindLore(d.Title); i >= 0 {
		kb.WorldLore[i].Content = d.Content
		return
	}
	kb.WorldLore = append(kb.WorldLore, state.WorldLoreEntry{ID: uuid.NewString(), Title: d.Title, Content: d.Content})
}

func (w *worker) loreUpdate(d directive.LoreUpdate) {
	kb := w.kb
	i := kb.FindLore(d.Title)
	if i < 0 {
		w.diag("directive %s: unknown lore entry %q", directive.KindLoreUpdate, d.Title)
		return
	}
	setString(&kb.WorldLore[i].Content, d.Content)
	if d.NewTitle != nil {
		if j := kb.FindLore(*d.NewTitle); j >= 0 && j != i {
			w.diag("directive %s: cannot rename to %q, title taken", directive.KindLoreUpdate, *d.NewTitle)
		} else {
			kb.WorldLore[i].Title = *d.NewTitle
		}
	}
}

func (w *worker) companionJoin(d directive.CompanionJoin) {
	kb := w.kb
	if kb.FindCompanion(d.Companion.Name) >= 0 {
		w.diag("directive %s: %q is already a companion", directive.KindCompanionJoin, d.Companion.Name)
		return
	}
	c := d.Companion
	c.ID = uuid.NewString()
	if c.MaxHP <= 0 {
		c.MaxHP = max(c.HP, 100)
	}
	if c.HP <= 0 {
		c.HP = c.MaxHP
	}
	c.HP = min(c.HP, c.MaxHP)
	if c.MaxMana <= 0 {
		c.MaxMana = max(c.Mana, 0)
	}
	c.Mana = clamp(c.Mana, 0, c.MaxMana)
	c.Attack = max(c.Attack, 0)
	kb.Companions = append(kb.Companions, c)
	w.notify(LevelInfo, "%s gia nhập đội ngũ.", c.Name)
}

func (w *worker) companionLeave(d directive.CompanionLeave) {
	kb := w.kb
	i := kb.FindCompanion(d.Name)
	if i < 0 {
		w.diag("directive %s: %q is not a companion", directive.KindCompanionLeave, d.Name)
		return
	}
	name := kb.Companions[i].Name
	kb.Companions = slices.Delete(kb.Companions, i, i+1)
	w.notify(LevelInfo, "%s rời khỏi đội ngũ.", name)
}

func (w *worker) companionStatsUpdate(d directive.CompanionStatsUpdate) {
	kb := w.kb
	i := kb.FindCompanion(d.Name)
	if i < 0 {
		w.diag("directive %s: %q is not a companion", directive.KindCompanionStatsUpdate, d.Name)
		return
	}
	c := &kb.Companions[i]
	if d.HP != nil {
		c.HP = clamp(d.HP.Apply(c.HP, c.MaxHP), 0, c.MaxHP)
	}
	if d.Mana != nil {
		c.Mana = clamp(d.Mana.Apply(c.Mana, c.MaxMana), 0, c.MaxMana)
	}
	if d.Attack != nil {
		c.Attack = max(d.Attack.Apply(c.Attack, c.Attack), 0)
	}
}

// avatarSeed summarizes the fields an NPC portrait is drawn from.
func avatarSeed(n *state.NPC) string {
	return textkey.Fold(strings.Join([]string{n.Gender, n.Race, n.Description}, "|"))
}
