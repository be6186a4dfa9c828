package state

import (
	"slices"

	"github.com/jwebster45206/realm-engine/pkg/textkey"
)

// Skill is keyed by its folded name.
type Skill struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	SkillType        string   `json:"skillType,omitempty"`
	Description      string   `json:"description,omitempty"`
	ManaCost         int      `json:"manaCost"`
	BaseDamage       int      `json:"baseDamage"`
	HealingAmount    int      `json:"healingAmount"`
	Cooldown         int      `json:"cooldown"`
	DamageMultiplier float64  `json:"damageMultiplier"`
	OtherEffects     []string `json:"otherEffects,omitempty"`
	Prerequisites    []string `json:"prerequisites,omitempty"`
}

var SkillTypes = []string{"Công Pháp Tu Luyện", "Linh Kỹ", "Thần Thông", "Cấm Thuật", "Khác"}

type QuestStatus string

const (
	QuestActive    QuestStatus = "active"
	QuestCompleted QuestStatus = "completed"
	QuestFailed    QuestStatus = "failed"
)

type Objective struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

// Quest is keyed by title. Status is derived from Objectives except for the
// terminal transitions made by explicit completion or failure directives.
type Quest struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description,omitempty"`
	Status      QuestStatus `json:"status"`
	Objectives  []Objective `json:"objectives"`
}

// AllObjectivesDone reports whether the quest has objectives and all are complete.
func (q *Quest) AllObjectivesDone() bool {
	if len(q.Objectives) == 0 {
		return false
	}
	for _, o := range q.Objectives {
		if !o.Completed {
			return false
		}
	}
	return true
}

// NPCStats are an NPC's tier-derived numbers.
type NPCStats struct {
	HP     int `json:"sinhLuc"`
	MaxHP  int `json:"maxSinhLuc"`
	MP     int `json:"linhLuc"`
	MaxMP  int `json:"maxLinhLuc"`
	Attack int `json:"sucTanCong"`
	MaxExp int `json:"maxKinhNghiem"`
}

type NPC struct {
	ID                   string   `json:"id"`
	Name                 string   `json:"name"`
	Gender               string   `json:"gender,omitempty"`
	Race                 string   `json:"race,omitempty"`
	Description          string   `json:"description,omitempty"`
	Personality          string   `json:"personality,omitempty"`
	Affinity             int      `json:"affinity"`
	FactionID            string   `json:"factionId,omitempty"`
	Realm                string   `json:"realm,omitempty"`
	RelationshipToPlayer string   `json:"relationshipToPlayer,omitempty"`
	Stats                NPCStats `json:"stats"`
	AvatarURL            string   `json:"avatarUrl,omitempty"`
	AvatarSeed           string   `json:"avatarSeed,omitempty"`
}

type Location struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description,omitempty"`
	IsSafeZone   bool   `json:"isSafeZone"`
	RegionID     string `json:"regionId,omitempty"`
	LocationType string `json:"locationType,omitempty"`
	MapX         *int   `json:"mapX,omitempty"`
	MapY         *int   `json:"mapY,omitempty"`
	Visited      bool   `json:"visited,omitempty"`
}

var Alignments = []string{"Chính Nghĩa", "Trung Lập", "Tà Ác", "Hỗn Loạn"}

const DefaultAlignment = "Trung Lập"

type Faction struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Description      string `json:"description,omitempty"`
	Alignment        string `json:"alignment"`
	PlayerReputation int    `json:"playerReputation"`
}

type WorldLoreEntry struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

type Companion struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	HP          int    `json:"hp"`
	MaxHP       int    `json:"maxHp"`
	Mana        int    `json:"mana"`
	MaxMana     int    `json:"maxMana"`
	Attack      int    `json:"atk"`
}

func indexByName[T any](list []T, name string, key func(T) string) int {
	name = textkey.Collapse(name)
	return slices.IndexFunc(list, func(v T) bool { return textkey.Collapse(key(v)) == name })
}

// FindSkill matches skills case- and whitespace-insensitively. Diacritics
// are significant.
func (kb *KnowledgeBase) FindSkill(name string) int {
	k := textkey.Key(name)
	return slices.IndexFunc(kb.Skills, func(s Skill) bool { return textkey.Key(s.Name) == k })
}

func (kb *KnowledgeBase) FindQuest(title string) int {
	return indexByName(kb.Quests, title, func(q Quest) string { return q.Title })
}

func (kb *KnowledgeBase) FindNPC(name string) int {
	return indexByName(kb.NPCs, name, func(n NPC) string { return n.Name })
}

// NPCByID is used by async results that only remember the NPC's id.
func (kb *KnowledgeBase) NPCByID(id string) int {
	return slices.IndexFunc(kb.NPCs, func(n NPC) bool { return n.ID == id })
}

func (kb *KnowledgeBase) FindLocation(name string) int {
	return indexByName(kb.Locations, name, func(l Location) string { return l.Name })
}

func (kb *KnowledgeBase) FindFaction(name string) int {
	return indexByName(kb.Factions, name, func(f Faction) string { return f.Name })
}

func (kb *KnowledgeBase) FindLore(title string) int {
	return indexByName(kb.WorldLore, title, func(w WorldLoreEntry) string { return w.Title })
}

func (kb *KnowledgeBase) FindCompanion(name string) int {
	return indexByName(kb.Companions, name, func(c Companion) string { return c.Name })
}
