package directive

import (
	"fmt"

	"github.com/jwebster45206/realm-engine/pkg/state"
)

// Kind is the canonical name of a directive.
type Kind string

const (
	KindStatsUpdate          Kind = "STATS_UPDATE"
	KindRealmChange          Kind = "REALM_CHANGE"
	KindRemovePlateau        Kind = "REMOVE_PLATEAU"
	KindItemAcquired         Kind = "ITEM_ACQUIRED"
	KindItemConsumed         Kind = "ITEM_CONSUMED"
	KindItemUpdate           Kind = "ITEM_UPDATE"
	KindItemEquip            Kind = "ITEM_EQUIP"
	KindItemUnequip          Kind = "ITEM_UNEQUIP"
	KindSkillLearned         Kind = "SKILL_LEARNED"
	KindSkillUpdate          Kind = "SKILL_UPDATE"
	KindQuestAssigned        Kind = "QUEST_ASSIGNED"
	KindQuestUpdated         Kind = "QUEST_UPDATED"
	KindQuestCompleted       Kind = "QUEST_COMPLETED"
	KindQuestFailed          Kind = "QUEST_FAILED"
	KindNPCAdd               Kind = "NPC"
	KindNPCUpdate            Kind = "NPC_UPDATE"
	KindLocationAdd          Kind = "LOCATION"
	KindLocationUpdate       Kind = "LOCATION_UPDATE"
	KindLocationChange       Kind = "LOCATION_CHANGE"
	KindFactionDiscovered    Kind = "FACTION_DISCOVERED"
	KindFactionUpdate        Kind = "FACTION_UPDATE"
	KindFactionRemove        Kind = "FACTION_REMOVE"
	KindLoreAdd              Kind = "WORLD_LORE_ADD"
	KindLoreUpdate           Kind = "WORLD_LORE_UPDATE"
	KindCompanionJoin        Kind = "COMPANION_JOIN"
	KindCompanionLeave       Kind = "COMPANION_LEAVE"
	KindCompanionStatsUpdate Kind = "COMPANION_STATS_UPDATE"
	KindStatusEffectApply    Kind = "STATUS_EFFECT_APPLY"
	KindStatusEffectRemove   Kind = "STATUS_EFFECT_REMOVE"
	KindBeginCombat          Kind = "BEGIN_COMBAT"
	KindEndCombat            Kind = "END_COMBAT"
	KindMessage              Kind = "MESSAGE"
)

var aliases = map[string]Kind{
	"STAT_UPDATE":             KindStatsUpdate,
	"PLAYER_STATS_UPDATE":     KindStatsUpdate,
	"PLAYER_REALM":            KindRealmChange,
	"BREAKTHROUGH":            KindRealmChange,
	"REMOVE_BINH_CANH_EFFECT": KindRemovePlateau,
	"ITEM_ADD":                KindItemAcquired,
	"ITEM_USED":               KindItemConsumed,
	"NPC_ADD":                 KindNPCAdd,
	"NPC_NEW":                 KindNPCAdd,
	"MAINLOCATION":            KindLocationAdd,
	"SUBLOCATION":             KindLocationAdd,
	"SYSTEM_MESSAGE":          KindMessage,
}

var kinds = map[Kind]bool{}

func init() {
	for _, k := range []Kind{
		KindStatsUpdate, KindRealmChange, KindRemovePlateau, KindItemAcquired, KindItemConsumed,
		KindItemUpdate, KindItemEquip, KindItemUnequip, KindSkillLearned, KindSkillUpdate,
		KindQuestAssigned, KindQuestUpdated, KindQuestCompleted, KindQuestFailed, KindNPCAdd,
		KindNPCUpdate, KindLocationAdd, KindLocationUpdate, KindLocationChange, KindFactionDiscovered,
		KindFactionUpdate, KindFactionRemove, KindLoreAdd, KindLoreUpdate, KindCompanionJoin,
		KindCompanionLeave, KindCompanionStatsUpdate, KindStatusEffectApply, KindStatusEffectRemove,
		KindBeginCombat, KindEndCombat, KindMessage,
	} {
		kinds[k] = true
	}
}

// Lookup resolves a normalized tag name, including aliases.
func Lookup(name string) (Kind, bool) {
	if k, ok := aliases[name]; ok {
		return k, true
	}
	k := Kind(name)
	return k, kinds[k]
}

// Directive is one decoded, validated tag.
type Directive interface {
	Kind() Kind
}

// Error describes a tag that was recognized but could not be decoded.
type Error struct {
	Tag    string
	Reason string
}

func (e *Error) Error() string {
	return fmt.Sprintf("directive %s: %s", e.Tag, e.Reason)
}

func fail(k Kind, format string, args ...any) error {
	return &Error{Tag: string(k), Reason: fmt.Sprintf(format, args...)}
}

// Unrecognized is a well-formed tag with an unknown name.
type Unrecognized struct {
	Name string
	Raw  string
}

func (Unrecognized) Kind() Kind { return "" }

// StatChange is one field of a STATS_UPDATE.
type StatChange struct {
	Key  string
	Expr NumberExpr
	Bool bool // for isInCombat
}

// StatsUpdate writes the player's current values. Keys the model may not
// write and keys that did not parse are carried along so the handler can
// report them.
type StatsUpdate struct {
	Changes []StatChange
	Denied  []string
	Invalid []string
}

type RealmChange struct{ Realm string }

type RemovePlateau struct{}

// ItemAcquired carries a fully validated item without an id.
type ItemAcquired struct{ Item state.Item }

type ItemConsumed struct {
	Name     string
	Quantity int
}

// ItemUpdate fields are nil when absent.
type ItemUpdate struct {
	Name          string
	NewName       *string
	Description   *string
	Quantity      *NumberExpr
	Rarity        *string
	Value         *int
	StatBonuses   map[string]int
	UniqueEffects []string
	Effects       []string
}

type ItemEquip struct {
	Name string
	Slot state.EquipmentSlot
}

type ItemUnequip struct {
	Name string
	Slot state.EquipmentSlot
}

// SkillFields are the optional skill attributes; nil means absent.
type SkillFields struct {
	SkillType        *string
	Description      *string
	ManaCost         *int
	BaseDamage       *int
	HealingAmount    *int
	Cooldown         *int
	DamageMultiplier *float64
	OtherEffects     []string
	Prerequisites    []string
}

type SkillLearned struct {
	Name   string
	Fields SkillFields
}

type SkillUpdate struct {
	Name    string
	NewName *string
	Fields  SkillFields
}

type QuestAssigned struct {
	Title       string
	Description string
	Objectives  []string
}

type QuestUpdated struct {
	Title            string
	ObjectiveText    string
	NewObjectiveText *string
	Completed        bool
}

type QuestCompleted struct{ Title string }

type QuestFailed struct{ Title string }

type NPCFields struct {
	Gender       *string
	Race         *string
	Description  *string
	Personality  *string
	FactionID    *string
	Realm        *string
	Relationship *string
	Affinity     *NumberExpr
}

type NPCAdd struct {
	Name   string
	Fields NPCFields
}

type NPCUpdate struct {
	Name    string
	NewName *string
	Fields  NPCFields
}

type LocationFields struct {
	Description  *string
	IsSafeZone   *bool
	RegionID     *string
	LocationType *string
	MapX         *int
	MapY         *int
}

type LocationAdd struct {
	Name   string
	Fields LocationFields
}

type LocationUpdate struct {
	Name    string
	NewName *string
	Fields  LocationFields
}

type LocationChange struct{ Name string }

type FactionFields struct {
	Description *string
	Alignment   *string
	Reputation  *NumberExpr
}

type FactionDiscovered struct {
	Name   string
	Fields FactionFields
}

type FactionUpdate struct {
	Name    string
	NewName *string
	Fields  FactionFields
}

type FactionRemove struct{ Name string }

type LoreAdd struct {
	Title   string
	Content string
}

type LoreUpdate struct {
	Title    string
	NewTitle *string
	Content  *string
}

type CompanionJoin struct{ Companion state.Companion }

type CompanionLeave struct{ Name string }

type CompanionStatsUpdate struct {
	Name   string
	HP     *NumberExpr
	Mana   *NumberExpr
	Attack *NumberExpr
}

// StatusEffectApply carries an effect without an id.
type StatusEffectApply struct{ Effect state.StatusEffect }

type StatusEffectRemove struct{ Name string }

type BeginCombat struct{}

type EndCombat struct{}

type Message struct{ Text string }

func (StatsUpdate) Kind() Kind          { return KindStatsUpdate }
func (RealmChange) Kind() Kind          { return KindRealmChange }
func (RemovePlateau) Kind() Kind        { return KindRemovePlateau }
func (ItemAcquired) Kind() Kind         { return KindItemAcquired }
func (ItemConsumed) Kind() Kind         { return KindItemConsumed }
func (ItemUpdate) Kind() Kind           { return KindItemUpdate }
func (ItemEquip) Kind() Kind            { return KindItemEquip }
func (ItemUnequip) Kind() Kind          { return KindItemUnequip }
func (SkillLearned) Kind() Kind         { return KindSkillLearned }
func (SkillUpdate) Kind() Kind          { return KindSkillUpdate }
func (QuestAssigned) Kind() Kind        { return KindQuestAssigned }
func (QuestUpdated) Kind() Kind         { return KindQuestUpdated }
func (QuestCompleted) Kind() Kind       { return KindQuestCompleted }
func (QuestFailed) Kind() Kind          { return KindQuestFailed }
func (NPCAdd) Kind() Kind               { return KindNPCAdd }
func (NPCUpdate) Kind() Kind            { return KindNPCUpdate }
func (LocationAdd) Kind() Kind          { return KindLocationAdd }
func (LocationUpdate) Kind() Kind       { return KindLocationUpdate }
func (LocationChange) Kind() Kind       { return KindLocationChange }
func (FactionDiscovered) Kind() Kind    { return KindFactionDiscovered }
func (FactionUpdate) Kind() Kind        { return KindFactionUpdate }
func (FactionRemove) Kind() Kind        { return KindFactionRemove }
func (LoreAdd) Kind() Kind              { return KindLoreAdd }
func (LoreUpdate) Kind() Kind           { return KindLoreUpdate }
func (CompanionJoin) Kind() Kind        { return KindCompanionJoin }
func (CompanionLeave) Kind() Kind       { return KindCompanionLeave }
func (CompanionStatsUpdate) Kind() Kind { return KindCompanionStatsUpdate }
func (StatusEffectApply) Kind() Kind    { return KindStatusEffectApply }
func (StatusEffectRemove) Kind() Kind   { return KindStatusEffectRemove }
func (BeginCombat) Kind() Kind          { return KindBeginCombat }
func (EndCombat) Kind() Kind            { return KindEndCombat }
func (Message) Kind() Kind              { return KindMessage }
