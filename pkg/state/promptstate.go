package state

// PromptState is the reduced knowledge base sent to the narrative service.
// History, pagination bookkeeping and base stats are left out; the model
// only needs what the player can see.
type PromptState struct {
	WorldConfig   WorldConfig              `json:"worldConfig"`
	PlayerStats   PlayerStats              `json:"playerStats"`
	Realms        []string                 `json:"realmProgressionList,omitempty"`
	Location      *Location                `json:"currentLocation,omitempty"`
	Inventory     []Item                   `json:"inventory"`
	EquippedItems map[EquipmentSlot]string `json:"equippedItems,omitempty"`
	Skills        []Skill                  `json:"playerSkills"`
	Quests        []Quest                  `json:"activeQuests"`
	NPCs          []NPC                    `json:"discoveredNPCs"`
	Locations     []Location               `json:"discoveredLocations"`
	Factions      []Faction                `json:"discoveredFactions"`
	WorldLore     []WorldLoreEntry         `json:"worldLore"`
	Companions    []Companion              `json:"companions"`
}

// ToPromptState builds the prompt view of kb. Only active quests are
// included and NPC avatar fields are dropped.
func ToPromptState(kb *KnowledgeBase) *PromptState {
	if kb == nil {
		return nil
	}
	ps := &PromptState{
		WorldConfig:   kb.WorldConfig,
		PlayerStats:   kb.PlayerStats,
		Realms:        kb.Progression.Realms,
		Location:      kb.CurrentLocation(),
		Inventory:     kb.Inventory,
		EquippedItems: kb.EquippedItems,
		Skills:        kb.Skills,
		Locations:     kb.Locations,
		Factions:      kb.Factions,
		WorldLore:     kb.WorldLore,
		Companions:    kb.Companions,
	}
	ps.PlayerStats.BaseMaxHP, ps.PlayerStats.BaseMaxMP = 0, 0
	ps.PlayerStats.BaseAttack, ps.PlayerStats.BaseMaxExp = 0, 0

	ps.Quests = make([]Quest, 0, len(kb.Quests))
	for _, q := range kb.Quests {
		if q.Status == QuestActive {
			ps.Quests = append(ps.Quests, q)
		}
	}
	ps.NPCs = make([]NPC, len(kb.NPCs))
	for i, n := range kb.NPCs {
		n.AvatarURL, n.AvatarSeed = "", ""
		ps.NPCs[i] = n
	}
	return ps
}
