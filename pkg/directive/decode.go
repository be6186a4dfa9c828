package directive

import (
	"slices"
	"strings"

	"github.com/jwebster45206/realm-engine/pkg/state"
	"github.com/jwebster45206/realm-engine/pkg/textkey"
)

// Decode turns one raw tag into a typed directive. Unknown tag names decode
// to Unrecognized without error; recognized tags with missing or invalid
// required fields return an *Error.
func Decode(tag string) (Directive, error) {
	name, raw, ok := Split(tag)
	if !ok {
		return nil, &Error{Tag: strings.TrimSpace(tag), Reason: "malformed tag"}
	}
	kind, known := Lookup(name)
	if !known {
		return Unrecognized{Name: name, Raw: raw}, nil
	}
	p := ParseParams(raw)
	dec, ok := decoders[kind]
	if !ok {
		return Unrecognized{Name: name, Raw: raw}, nil
	}
	return dec(kind, p)
}

type decoder func(Kind, Params) (Directive, error)

var decoders map[Kind]decoder

func init() {
	decoders = map[Kind]decoder{
		KindStatsUpdate:          decodeStatsUpdate,
		KindRealmChange:          decodeRealmChange,
		KindRemovePlateau:        func(Kind, Params) (Directive, error) { return RemovePlateau{}, nil },
		KindItemAcquired:         decodeItemAcquired,
		KindItemConsumed:         decodeItemConsumed,
		KindItemUpdate:           decodeItemUpdate,
		KindItemEquip:            decodeItemEquip,
		KindItemUnequip:          decodeItemUnequip,
		KindSkillLearned:         decodeSkillLearned,
		KindSkillUpdate:          decodeSkillUpdate,
		KindQuestAssigned:        decodeQuestAssigned,
		KindQuestUpdated:         decodeQuestUpdated,
		KindQuestCompleted:       decodeQuestCompleted,
		KindQuestFailed:          decodeQuestFailed,
		KindNPCAdd:               decodeNPCAdd,
		KindNPCUpdate:            decodeNPCUpdate,
		KindLocationAdd:          decodeLocationAdd,
		KindLocationUpdate:       decodeLocationUpdate,
		KindLocationChange:       decodeLocationChange,
		KindFactionDiscovered:    decodeFactionDiscovered,
		KindFactionUpdate:        decodeFactionUpdate,
		KindFactionRemove:        decodeFactionRemove,
		KindLoreAdd:              decodeLoreAdd,
		KindLoreUpdate:           decodeLoreUpdate,
		KindCompanionJoin:        decodeCompanionJoin,
		KindCompanionLeave:       decodeCompanionLeave,
		KindCompanionStatsUpdate: decodeCompanionStatsUpdate,
		KindStatusEffectApply:    decodeStatusEffectApply,
		KindStatusEffectRemove:   decodeStatusEffectRemove,
		KindBeginCombat:          func(Kind, Params) (Directive, error) { return BeginCombat{}, nil },
		KindEndCombat:            func(Kind, Params) (Directive, error) { return EndCombat{}, nil },
		KindMessage:              decodeMessage,
	}
}

func required(k Kind, p Params, keys ...string) (string, error) {
	v := textkey.Collapse(p.Text(keys...))
	if v == "" {
		return "", fail(k, "missing %s", keys[0])
	}
	return v, nil
}

func optionalInt(k Kind, p Params, keys ...string) (*int, error) {
	v, ok := p.Get(keys...)
	if !ok || strings.TrimSpace(v) == "" {
		return nil, nil
	}
	n, err := ParseInt(v)
	if err != nil {
		return nil, fail(k, "invalid %s: %v", keys[0], err)
	}
	return &n, nil
}

func optionalNumber(k Kind, p Params, keys ...string) (*NumberExpr, error) {
	v, ok := p.Get(keys...)
	if !ok || strings.TrimSpace(v) == "" {
		return nil, nil
	}
	e, err := ParseNumber(v)
	if err != nil {
		return nil, fail(k, "invalid %s: %v", keys[0], err)
	}
	return &e, nil
}

func optionalBool(k Kind, p Params, keys ...string) (*bool, error) {
	v, ok := p.Get(keys...)
	if !ok || strings.TrimSpace(v) == "" {
		return nil, nil
	}
	b, err := ParseBool(v)
	if err != nil {
		return nil, fail(k, "invalid %s: %v", keys[0], err)
	}
	return &b, nil
}

func optionalList(k Kind, p Params, keys ...string) ([]string, error) {
	v, ok := p.Get(keys...)
	if !ok {
		return nil, nil
	}
	l, err := ParseStringList(v)
	if err != nil {
		return nil, fail(k, "invalid %s: %v", keys[0], err)
	}
	return l, nil
}

// Stat keys a STATS_UPDATE may write, in application order.
var writableStats = []string{
	state.StatHP, state.StatMP, state.StatExp, state.StatCurrency, state.StatTurn, state.StatInCombat,
}

func decodeStatsUpdate(k Kind, p Params) (Directive, error) {
	var d StatsUpdate
	byKey := map[string]string{}
	for key, v := range p {
		canonical, ok := state.CanonicalStatKey(key)
		if !ok {
			d.Invalid = append(d.Invalid, key)
			continue
		}
		byKey[canonical] = v
	}
	for canonical := range byKey {
		if !isWritable(canonical) {
			d.Denied = append(d.Denied, canonical)
		}
	}
	for _, key := range writableStats {
		raw, ok := byKey[key]
		if !ok {
			continue
		}
		if key == state.StatInCombat {
			b, err := ParseBool(raw)
			if err != nil {
				d.Invalid = append(d.Invalid, key)
				continue
			}
			d.Changes = append(d.Changes, StatChange{Key: key, Bool: b})
			continue
		}
		e, err := ParseNumber(raw)
		if err != nil || !numberAllowed(key, e) {
			d.Invalid = append(d.Invalid, key)
			continue
		}
		d.Changes = append(d.Changes, StatChange{Key: key, Expr: e})
	}
	slices.Sort(d.Denied)
	slices.Sort(d.Invalid)
	if len(d.Changes) == 0 && len(d.Denied) == 0 && len(d.Invalid) == 0 {
		return nil, fail(k, "no stat fields")
	}
	return d, nil
}

func isWritable(key string) bool {
	return slices.Contains(writableStats, key)
}

func numberAllowed(key string, e NumberExpr) bool {
	switch e.Op {
	case OpMax:
		return key == state.StatHP || key == state.StatMP
	case OpPercent:
		return key == state.StatHP || key == state.StatMP || key == state.StatExp
	}
	return true
}

func decodeRealmChange(k Kind, p Params) (Directive, error) {
	realm, err := required(k, p, "realm", "newRealm", "canhGioi")
	if err != nil {
		return nil, err
	}
	return RealmChange{Realm: realm}, nil
}

// splitItemType reads "<Category> <Subtype words>".
func splitItemType(raw string) (state.ItemCategory, string, bool) {
	words := strings.Fields(raw)
	for n := min(2, len(words)); n >= 1; n-- {
		if c, ok := state.ParseCategory(strings.Join(words[:n], " ")); ok {
			return c, strings.Join(words[n:], " "), true
		}
	}
	return "", "", false
}

func decodeItemAcquired(k Kind, p Params) (Directive, error) {
	name, err := required(k, p, "name")
	if err != nil {
		return nil, err
	}
	typ, err := required(k, p, "type", "category")
	if err != nil {
		return nil, err
	}
	cat, sub, ok := splitItemType(typ)
	if !ok {
		return nil, fail(k, "unknown item category in %q", typ)
	}

	item := state.Item{
		Name:        name,
		Description: p.Text("description"),
		Category:    cat,
		Quantity:    1,
		Rarity:      state.DefaultRarity,
		ItemRealm:   p.Text("itemRealm", "realm"),
	}
	if q, err := optionalInt(k, p, "quantity"); err != nil {
		return nil, err
	} else if q != nil {
		if *q <= 0 {
			return nil, fail(k, "quantity must be positive")
		}
		item.Quantity = *q
	}
	if v, err := optionalInt(k, p, "value"); err != nil {
		return nil, err
	} else if v != nil {
		item.Value = *v
	}
	if r, ok := textkey.Match(p.Text("rarity"), state.Rarities); ok {
		item.Rarity = r
	}

	if subtypes := state.SubtypesFor(cat); subtypes != nil {
		if sub == "" {
			sub = p.Text("equipmentType", "potionType", "materialType", "subType")
		}
		canonical, ok := textkey.Match(sub, subtypes)
		if !ok {
			return nil, fail(k, "invalid %s subtype %q", cat, sub)
		}
		sub = canonical
	}

	switch cat {
	case state.CategoryEquipment:
		eq, err := equipmentPayload(k, p, sub)
		if err != nil {
			return nil, err
		}
		item.Equipment = eq
	case state.CategoryPotion:
		raw, ok := p.Get("effects")
		if !ok {
			return nil, fail(k, "potion requires effects")
		}
		effects, err := ParseStringList(raw)
		if err != nil {
			return nil, fail(k, "invalid effects: %v", err)
		}
		item.Potion = &state.PotionData{Type: sub, Effects: effects}
		if d, err := optionalInt(k, p, "durationTurns", "duration"); err != nil {
			return nil, err
		} else if d != nil {
			item.Potion.DurationTurns = *d
		}
		if c, err := optionalInt(k, p, "cooldownTurns", "cooldown"); err != nil {
			return nil, err
		} else if c != nil {
			item.Potion.Cooldown = *c
		}
	case state.CategoryMaterial:
		item.Material = &state.MaterialData{Type: sub}
	case state.CategoryQuestItem:
		item.QuestItem = &state.QuestItemData{QuestIDAssociated: p.Text("questIdAssociated", "questId")}
	case state.CategoryMiscellaneous:
		misc := &state.MiscData{}
		if b, err := optionalBool(k, p, "usable"); err != nil {
			return nil, err
		} else if b != nil {
			misc.Usable = *b
		}
		if b, err := optionalBool(k, p, "consumable"); err != nil {
			return nil, err
		} else if b != nil {
			misc.Consumable = *b
		}
		item.Misc = misc
	}
	return ItemAcquired{Item: item}, nil
}

func equipmentPayload(k Kind, p Params, sub string) (*state.EquipmentData, error) {
	rawBonuses, ok := p.Get("statBonuses")
	if !ok {
		return nil, fail(k, "equipment requires statBonuses")
	}
	bonuses, err := ParseIntMap(rawBonuses)
	if err != nil {
		return nil, fail(k, "invalid statBonuses: %v", err)
	}
	rawEffects, ok := p.Get("uniqueEffects")
	if !ok {
		return nil, fail(k, "equipment requires uniqueEffects")
	}
	effects, err := ParseStringList(rawEffects)
	if err != nil {
		return nil, fail(k, "invalid uniqueEffects: %v", err)
	}
	eq := &state.EquipmentData{Type: sub, StatBonuses: canonicalBonuses(bonuses), UniqueEffects: effects}
	if s, ok := state.ParseSlot(p.Text("slot")); ok {
		eq.Slot = string(s)
	}
	return eq, nil
}

// canonicalBonuses rewrites known stat aliases to their canonical key and
// keeps everything else verbatim.
func canonicalBonuses(in map[string]int) map[string]int {
	out := make(map[string]int, len(in))
	for key, v := range in {
		if c, ok := state.CanonicalStatKey(key); ok {
			key = c
		}
		out[key] = AddInt(out[key], v)
	}
	return out
}

func decodeItemConsumed(k Kind, p Params) (Directive, error) {
	name, err := required(k, p, "name")
	if err != nil {
		return nil, err
	}
	d := ItemConsumed{Name: name, Quantity: 1}
	q, err := optionalInt(k, p, "quantity")
	if err != nil {
		return nil, err
	}
	if q != nil {
		if *q <= 0 {
			return nil, fail(k, "quantity must be positive")
		}
		d.Quantity = *q
	}
	return d, nil
}

func decodeItemUpdate(k Kind, p Params) (Directive, error) {
	name, err := required(k, p, "name")
	if err != nil {
		return nil, err
	}
	d := ItemUpdate{Name: name, NewName: p.Optional("newName"), Description: p.Optional("description")}
	if d.Quantity, err = optionalNumber(k, p, "quantity"); err != nil {
		return nil, err
	}
	if d.Value, err = optionalInt(k, p, "value"); err != nil {
		return nil, err
	}
	if r := p.Optional("rarity"); r != nil {
		if m, ok := textkey.Match(*r, state.Rarities); ok {
			d.Rarity = &m
		}
	}
	if raw, ok := p.Get("statBonuses"); ok {
		b, err := ParseIntMap(raw)
		if err != nil {
			return nil, fail(k, "invalid statBonuses: %v", err)
		}
		d.StatBonuses = canonicalBonuses(b)
	}
	if d.UniqueEffects, err = optionalList(k, p, "uniqueEffects"); err != nil {
		return nil, err
	}
	if d.Effects, err = optionalList(k, p, "effects"); err != nil {
		return nil, err
	}
	return d, nil
}

func decodeSlot(k Kind, p Params) (state.EquipmentSlot, error) {
	raw := p.Text("slot")
	if raw == "" {
		return "", nil
	}
	s, ok := state.ParseSlot(raw)
	if !ok {
		return "", fail(k, "unknown slot %q", raw)
	}
	return s, nil
}

func decodeItemEquip(k Kind, p Params) (Directive, error) {
	name, err := required(k, p, "name")
	if err != nil {
		return nil, err
	}
	slot, err := decodeSlot(k, p)
	if err != nil {
		return nil, err
	}
	return ItemEquip{Name: name, Slot: slot}, nil
}

func decodeItemUnequip(k Kind, p Params) (Directive, error) {
	slot, err := decodeSlot(k, p)
	if err != nil {
		return nil, err
	}
	name := textkey.Collapse(p.Text("name"))
	if name == "" && slot == "" {
		return nil, fail(k, "missing name or slot")
	}
	return ItemUnequip{Name: name, Slot: slot}, nil
}

func decodeSkillFields(k Kind, p Params) (SkillFields, error) {
	var f SkillFields
	var err error
	if t := p.Optional("skillType", "type"); t != nil {
		if m, ok := textkey.Match(*t, state.SkillTypes); ok {
			*t = m
		}
		f.SkillType = t
	}
	f.Description = p.Optional("description")
	if f.ManaCost, err = optionalInt(k, p, "manaCost"); err != nil {
		return f, err
	}
	if f.BaseDamage, err = optionalInt(k, p, "baseDamage"); err != nil {
		return f, err
	}
	if f.HealingAmount, err = optionalInt(k, p, "healingAmount"); err != nil {
		return f, err
	}
	if f.Cooldown, err = optionalInt(k, p, "cooldown"); err != nil {
		return f, err
	}
	if v, ok := p.Get("damageMultiplier"); ok && strings.TrimSpace(v) != "" {
		m, err := ParseFloat(v)
		if err != nil {
			return f, fail(k, "invalid damageMultiplier: %v", err)
		}
		f.DamageMultiplier = &m
	}
	if f.OtherEffects, err = optionalList(k, p, "otherEffects"); err != nil {
		return f, err
	}
	if f.Prerequisites, err = optionalList(k, p, "prerequisites"); err != nil {
		return f, err
	}
	return f, nil
}

func decodeSkillLearned(k Kind, p Params) (Directive, error) {
	name, err := required(k, p, "name")
	if err != nil {
		return nil, err
	}
	f, err := decodeSkillFields(k, p)
	if err != nil {
		return nil, err
	}
	return SkillLearned{Name: name, Fields: f}, nil
}

func decodeSkillUpdate(k Kind, p Params) (Directive, error) {
	name, err := required(k, p, "name")
	if err != nil {
		return nil, err
	}
	f, err := decodeSkillFields(k, p)
	if err != nil {
		return nil, err
	}
	return SkillUpdate{Name: name, NewName: nonEmpty(p.Optional("newName")), Fields: f}, nil
}

func nonEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}

func decodeQuestAssigned(k Kind, p Params) (Directive, error) {
	title, err := required(k, p, "title", "name")
	if err != nil {
		return nil, err
	}
	objectives, err := optionalList(k, p, "objectives")
	if err != nil {
		return nil, err
	}
	if objectives == nil {
		objectives = []string{}
	}
	return QuestAssigned{Title: title, Description: p.Text("description"), Objectives: objectives}, nil
}

func decodeQuestUpdated(k Kind, p Params) (Directive, error) {
	title, err := required(k, p, "title", "name")
	if err != nil {
		return nil, err
	}
	obj, err := required(k, p, "objectiveText", "objective")
	if err != nil {
		return nil, err
	}
	d := QuestUpdated{Title: title, ObjectiveText: obj, Completed: true, NewObjectiveText: nonEmpty(p.Optional("newObjectiveText"))}
	if b, err := optionalBool(k, p, "completed"); err != nil {
		return nil, err
	} else if b != nil {
		d.Completed = *b
	}
	return d, nil
}

func decodeQuestCompleted(k Kind, p Params) (Directive, error) {
	title, err := required(k, p, "title", "name")
	if err != nil {
		return nil, err
	}
	return QuestCompleted{Title: title}, nil
}

func decodeQuestFailed(k Kind, p Params) (Directive, error) {
	title, err := required(k, p, "title", "name")
	if err != nil {
		return nil, err
	}
	return QuestFailed{Title: title}, nil
}

func decodeNPCFields(k Kind, p Params) (NPCFields, error) {
	f := NPCFields{
		Gender:       p.Optional("gender"),
		Race:         p.Optional("race"),
		Description:  p.Optional("description"),
		Personality:  p.Optional("personality"),
		FactionID:    p.Optional("factionId", "faction"),
		Realm:        p.Optional("realm"),
		Relationship: p.Optional("relationshipToPlayer", "relationship"),
	}
	var err error
	f.Affinity, err = optionalNumber(k, p, "affinity")
	return f, err
}

func decodeNPCAdd(k Kind, p Params) (Directive, error) {
	name, err := required(k, p, "name")
	if err != nil {
		return nil, err
	}
	f, err := decodeNPCFields(k, p)
	if err != nil {
		return nil, err
	}
	return NPCAdd{Name: name, Fields: f}, nil
}

func decodeNPCUpdate(k Kind, p Params) (Directive, error) {
	name, err := required(k, p, "name")
	if err != nil {
		return nil, err
	}
	f, err := decodeNPCFields(k, p)
	if err != nil {
		return nil, err
	}
	return NPCUpdate{Name: name, NewName: nonEmpty(p.Optional("newName")), Fields: f}, nil
}

func decodeLocationFields(k Kind, p Params) (LocationFields, error) {
	f := LocationFields{
		Description:  p.Optional("description"),
		RegionID:     p.Optional("regionId", "region"),
		LocationType: p.Optional("locationType", "type"),
	}
	var err error
	if f.IsSafeZone, err = optionalBool(k, p, "isSafeZone", "safeZone"); err != nil {
		return f, err
	}
	if f.MapX, err = optionalInt(k, p, "mapX"); err != nil {
		return f, err
	}
	if f.MapY, err = optionalInt(k, p, "mapY"); err != nil {
		return f, err
	}
	return f, nil
}

func decodeLocationAdd(k Kind, p Params) (Directive, error) {
	name, err := required(k, p, "name")
	if err != nil {
		return nil, err
	}
	f, err := decodeLocationFields(k, p)
	if err != nil {
		return nil, err
	}
	return LocationAdd{Name: name, Fields: f}, nil
}

func decodeLocationUpdate(k Kind, p Params) (Directive, error) {
	name, err := required(k, p, "name")
	if err != nil {
		return nil, err
	}
	f, err := decodeLocationFields(k, p)
	if err != nil {
		return nil, err
	}
	return LocationUpdate{Name: name, NewName: nonEmpty(p.Optional("newName")), Fields: f}, nil
}

func decodeLocationChange(k Kind, p Params) (Directive, error) {
	name, err := required(k, p, "name", "location")
	if err != nil {
		return nil, err
	}
	return LocationChange{Name: name}, nil
}

func decodeFactionFields(k Kind, p Params) (FactionFields, error) {
	f := FactionFields{Description: p.Optional("description")}
	if a := p.Optional("alignment"); a != nil {
		if m, ok := textkey.Match(*a, state.Alignments); ok {
			f.Alignment = &m
		}
	}
	var err error
	f.Reputation, err = optionalNumber(k, p, "playerReputation", "reputation")
	return f, err
}

func decodeFactionDiscovered(k Kind, p Params) (Directive, error) {
	name, err := required(k, p, "name")
	if err != nil {
		return nil, err
	}
	f, err := decodeFactionFields(k, p)
	if err != nil {
		return nil, err
	}
	return FactionDiscovered{Name: name, Fields: f}, nil
}

func decodeFactionUpdate(k Kind, p Params) (Directive, error) {
	name, err := required(k, p, "name")
	if err != nil {
		return nil, err
	}
	f, err := decodeFactionFields(k, p)
	if err != nil {
		return nil, err
	}
	return FactionUpdate{Name: name, NewName: nonEmpty(p.Optional("newName")), Fields: f}, nil
}

func decodeFactionRemove(k Kind, p Params) (Directive, error) {
	name, err := required(k, p, "name")
	if err != nil {
		return nil, err
	}
	return FactionRemove{Name: name}, nil
}

func decodeLoreAdd(k Kind, p Params) (Directive, error) {
	title, err := required(k, p, "title")
	if err != nil {
		return nil, err
	}
	content := p.Text("content")
	if content == "" {
		return nil, fail(k, "missing content")
	}
	return LoreAdd{Title: title, Content: content}, nil
}

func decodeLoreUpdate(k Kind, p Params) (Directive, error) {
	title, err := required(k, p, "title")
	if err != nil {
		return nil, err
	}
	return LoreUpdate{Title: title, NewTitle: nonEmpty(p.Optional("newTitle")), Content: p.Optional("content")}, nil
}

func decodeCompanionJoin(k Kind, p Params) (Directive, error) {
	name, err := required(k, p, "name")
	if err != nil {
		return nil, err
	}
	c := state.Companion{Name: name, Description: p.Text("description")}
	ints := []struct {
		dst  *int
		keys []string
	}{
		{&c.HP, []string{"hp"}},
		{&c.MaxHP, []string{"maxHp"}},
		{&c.Mana, []string{"mana", "mp"}},
		{&c.MaxMana, []string{"maxMana", "maxMp"}},
		{&c.Attack, []string{"atk", "attack"}},
	}
	for _, f := range ints {
		v, err := optionalInt(k, p, f.keys...)
		if err != nil {
			return nil, err
		}
		if v != nil {
			*f.dst = *v
		}
	}
	return CompanionJoin{Companion: c}, nil
}

func decodeCompanionLeave(k Kind, p Params) (Directive, error) {
	name, err := required(k, p, "name")
	if err != nil {
		return nil, err
	}
	return CompanionLeave{Name: name}, nil
}

func decodeCompanionStatsUpdate(k Kind, p Params) (Directive, error) {
	name, err := required(k, p, "name")
	if err != nil {
		return nil, err
	}
	d := CompanionStatsUpdate{Name: name}
	if d.HP, err = optionalNumber(k, p, "hp"); err != nil {
		return nil, err
	}
	if d.Mana, err = optionalNumber(k, p, "mana", "mp"); err != nil {
		return nil, err
	}
	if d.Attack, err = optionalNumber(k, p, "atk", "attack"); err != nil {
		return nil, err
	}
	return d, nil
}

func decodeStatusEffectApply(k Kind, p Params) (Directive, error) {
	name, err := required(k, p, "name")
	if err != nil {
		return nil, err
	}
	e := state.StatusEffect{
		Name:           name,
		Description:    p.Text("description"),
		Type:           state.ParseEffectType(p.Text("type")),
		StatModifiers:  map[string]string{},
		SpecialEffects: []string{},
		Source:         p.Text("source"),
	}
	if d, err := optionalInt(k, p, "durationTurns", "duration"); err != nil {
		return nil, err
	} else if d != nil {
		e.DurationTurns = *d
	}
	if raw, ok := p.Get("statModifiers"); ok {
		mods, err := ParseStringMap(raw)
		if err != nil {
			return nil, fail(k, "invalid statModifiers: %v", err)
		}
		for key, v := range mods {
			if c, ok := state.CanonicalStatKey(key); ok {
				key = c
			}
			e.StatModifiers[key] = strings.TrimSpace(v)
		}
	}
	if l, err := optionalList(k, p, "specialEffects"); err != nil {
		return nil, err
	} else if l != nil {
		e.SpecialEffects = l
	}
	return StatusEffectApply{Effect: e}, nil
}

func decodeStatusEffectRemove(k Kind, p Params) (Directive, error) {
	name, err := required(k, p, "name")
	if err != nil {
		return nil, err
	}
	return StatusEffectRemove{Name: name}, nil
}

func decodeMessage(k Kind, p Params) (Directive, error) {
	msg := p.Text("message", "text", "content")
	if msg == "" {
		return nil, fail(k, "missing message")
	}
	return Message{Text: msg}, nil
}
