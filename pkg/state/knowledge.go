package state

import (
	"github.com/google/uuid"
	"github.com/jwebster45206/realm-engine/pkg/progression"
)

// DefaultHistoryLimit bounds TurnHistory when the caller does not choose one.
const DefaultHistoryLimit = 30

// WorldConfig is the player-authored setting the narrative is built around.
type WorldConfig struct {
	Theme            string `json:"theme,omitempty" yaml:"theme,omitempty"`
	Setting          string `json:"settingDescription,omitempty" yaml:"setting,omitempty"`
	WritingStyle     string `json:"writingStyle,omitempty" yaml:"writingStyle,omitempty"`
	PlayerName       string `json:"playerName,omitempty" yaml:"playerName,omitempty"`
	PlayerGender     string `json:"playerGender,omitempty" yaml:"playerGender,omitempty"`
	PlayerPersona    string `json:"playerPersonality,omitempty" yaml:"playerPersonality,omitempty"`
	Difficulty       string `json:"difficulty,omitempty" yaml:"difficulty,omitempty"`
	NSFWMode         bool   `json:"nsfwMode,omitempty" yaml:"nsfwMode,omitempty"`
	OriginalStorySet bool   `json:"originalStoryIdea,omitempty" yaml:"originalStoryIdea,omitempty"`
}

// KnowledgeBase is the root aggregate of one game session.
type KnowledgeBase struct {
	ID          uuid.UUID   `json:"id"`
	WorldConfig WorldConfig `json:"worldConfig"`
	PlayerStats PlayerStats `json:"playerStats"`

	Inventory     []Item                   `json:"inventory"`
	EquippedItems map[EquipmentSlot]string `json:"equippedItems"` // slot -> item id, "" when empty
	Skills        []Skill                  `json:"playerSkills"`
	Quests        []Quest                  `json:"allQuests"`
	NPCs          []NPC                    `json:"discoveredNPCs"`
	Locations     []Location               `json:"discoveredLocations"`
	Factions      []Faction                `json:"discoveredFactions"`
	WorldLore     []WorldLoreEntry         `json:"worldLore"`
	Companions    []Companion              `json:"companions"`

	CurrentLocationID string `json:"currentLocationId,omitempty"`

	Progression progression.Table `json:"progression"`

	PageStartTurns     []int          `json:"currentPageHistory"`
	PageSummaries      map[int]string `json:"pageSummaries"`
	LastSummarizedTurn int            `json:"lastSummarizedTurn"`

	TurnHistory []TurnHistoryEntry `json:"turnHistory,omitempty"`
}

// NewKnowledgeBase creates the state of a fresh game: a character at the
// bottom of the ladder with full health and mana, on turn 1 of page 1.
func NewKnowledgeBase(world WorldConfig, table progression.Table) *KnowledgeBase {
	realm := table.Initial()
	base := progression.Commoner
	if table.Enabled() {
		base = table.Base(progression.Position{})
	}

	ps := PlayerStats{
		BaseMaxHP:           base.MaxHP,
		BaseMaxMP:           base.MaxMP,
		BaseAttack:          base.Attack,
		BaseMaxExp:          base.MaxExp,
		MaxHP:               base.MaxHP,
		MaxMP:               base.MaxMP,
		Attack:              base.Attack,
		MaxExp:              base.MaxExp,
		HP:                  base.MaxHP,
		MP:                  base.MaxMP,
		Realm:               realm,
		Turn:                1,
		ActiveStatusEffects: []StatusEffect{},
	}

	return &KnowledgeBase{
		ID:             uuid.New(),
		WorldConfig:    world,
		PlayerStats:    ps,
		Inventory:      []Item{},
		EquippedItems:  EmptyEquipment(),
		Skills:         []Skill{},
		Quests:         []Quest{},
		NPCs:           []NPC{},
		Locations:      []Location{},
		Factions:       []Faction{},
		WorldLore:      []WorldLoreEntry{},
		Companions:     []Companion{},
		Progression:    table,
		PageStartTurns: []int{1},
		PageSummaries:  map[int]string{},
	}
}

// CurrentLocation returns the location the player is in, if known.
func (kb *KnowledgeBase) CurrentLocation() *Location {
	if kb.CurrentLocationID == "" {
		return nil
	}
	for i := range kb.Locations {
		if kb.Locations[i].ID == kb.CurrentLocationID {
			return &kb.Locations[i]
		}
	}
	return nil
}
