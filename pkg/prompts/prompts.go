package prompts

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jwebster45206/realm-engine/pkg/chat"
	"github.com/jwebster45206/realm-engine/pkg/pagination"
	"github.com/jwebster45206/realm-engine/pkg/state"
)

// BaseSystemPrompt is the narrator's standing instruction. The narration
// itself is written in Vietnamese; the game engine reads the bracketed tags.
const BaseSystemPrompt = `You are the omniscient narrator of a Vietnamese cultivation (tu tiên) interactive story. You describe the story to the player as it unfolds, in Vietnamese. You control the world and every NPC; the player controls only their own character, %s.

### Writing rules for narrative output:
- Write 2 to 5 paragraphs of vivid prose per turn.
- Never speak or decide for the player character.
- Do not break the fourth wall and do not discuss game mechanics in the prose.
- Move the story forward gradually and let the player discover things.
%s
### Game state directives
The game engine tracks state only through bracketed directive tags that you append after the prose, one per line. Anything not expressed as a tag did not happen mechanically. Rules:
- Use exactly the tag names below. Parameters are key=value pairs separated by commas; quote text values with double quotes.
- Lists are written ["a", "b"], maps are written {key: value}. Use {} or [] when a required field is intentionally empty.
- Never set maxSinhLuc, maxLinhLuc, sucTanCong, maxKinhNghiem or realm through STATS_UPDATE. They are computed by the engine.
- Emit ITEM_CONSUMED before any STATUS_EFFECT_APPLY caused by using that item.
- Introduce a place with LOCATION before moving the player there with LOCATION_CHANGE.
- Every turn that takes in-story time must include [STATS_UPDATE: turn=+1].

%s`

// DirectiveReference lists every tag the engine understands.
const DirectiveReference = `[STATS_UPDATE: sinhLuc=-10, linhLuc=MAX, kinhNghiem=+20%, linhThach=+50, turn=+1, isInCombat=false]
[REALM_CHANGE: realm="Luyện Khí Nhất Trọng"]
[REMOVE_PLATEAU]
[ITEM_ACQUIRED: name="Thanh Phong Kiếm", type="Equipment Vũ Khí", description="...", quantity=1, rarity="Hiếm", value=100, statBonuses={sucTanCong: 15}, uniqueEffects=["..."], slot="Vũ Khí Chính"]
[ITEM_ACQUIRED: name="Hồi Khí Đan", type="Potion Hồi Phục", effects=["Hồi 50 sinh lực"], quantity=3]
[ITEM_ACQUIRED: name="Huyết Linh Thảo", type="Material Linh Thảo", quantity=2]
[ITEM_CONSUMED: name="Hồi Khí Đan", quantity=1]
[ITEM_UPDATE: name="...", newName="...", quantity=+1, statBonuses={...}]
[ITEM_EQUIP: name="Thanh Phong Kiếm", slot="Vũ Khí Chính"]
[ITEM_UNEQUIP: name="Thanh Phong Kiếm"]
[SKILL_LEARNED: name="...", skillType="Linh Kỹ", description="...", manaCost=10, baseDamage=30, cooldown=2]
[SKILL_UPDATE: name="...", baseDamage=40]
[QUEST_ASSIGNED: title="...", description="...", objectives=["Thu thập thảo dược (0/3)"]]
[QUEST_UPDATED: title="...", objectiveText="Thu thập thảo dược (0/3)", newObjectiveText="Thu thập thảo dược (1/3)", completed=false]
[QUEST_COMPLETED: title="..."]
[QUEST_FAILED: title="..."]
[NPC: name="...", gender="...", race="...", description="...", personality="...", affinity=0, realm="..."]
[NPC_UPDATE: name="...", affinity=+5]
[LOCATION: name="...", description="...", isSafeZone=false, locationType="..."]
[LOCATION_UPDATE: name="...", description="..."]
[LOCATION_CHANGE: name="..."]
[FACTION_DISCOVERED: name="...", alignment="Chính Nghĩa", playerReputation=0]
[FACTION_UPDATE: name="...", playerReputation=-10]
[FACTION_REMOVE: name="..."]
[WORLD_LORE_ADD: title="...", content="..."]
[WORLD_LORE_UPDATE: title="...", content="..."]
[COMPANION_JOIN: name="...", hp=100, maxHp=100, mana=20, maxMana=20, atk=10]
[COMPANION_LEAVE: name="..."]
[COMPANION_STATS_UPDATE: name="...", hp=-20]
[STATUS_EFFECT_APPLY: name="...", type="buff", durationTurns=3, statModifiers={sucTanCong: +20%}, specialEffects=["..."]]
[STATUS_EFFECT_REMOVE: name="..."]
[BEGIN_COMBAT]
[END_COMBAT]
[MESSAGE: message="..."]`

const NSFWPrompt = "Mature themes are allowed when the story calls for them; keep them purposeful."

const SafePrompt = "Keep the story free of explicit sexual content and gratuitous gore."

// UserPostPrompt is appended after the player's action.
const UserPostPrompt = "Treat the player's message as an intention, not a guaranteed outcome. If it breaks the world's rules or is unrealistic for their realm, narrate why it fails. End with the directive tags for this turn."

// StatePromptTemplate wraps the world description and the state dump.
const StatePromptTemplate = "World setting: %s\n\nThe following JSON is the complete current state the engine holds.\n\nGame State:\n```json\n%s\n```"

const SummariesHeader = "Summary of earlier pages of the story, oldest first:"

// SummarySystemPrompt instructs the summarizer.
const SummarySystemPrompt = `You summarize one page of a Vietnamese cultivation story for long-term memory. Write in Vietnamese, 1 to 3 short paragraphs, past tense. Keep names, realms, items, quests, promises and unresolved threads; drop flavor text. Do not invent events. Output only the summary, without directive tags.`

// BuildSystemPrompt composes the narrator instruction for a world.
func BuildSystemPrompt(world state.WorldConfig) string {
	name := world.PlayerName
	if name == "" {
		name = "the player character"
	}

	var sb strings.Builder
	if world.Theme != "" {
		sb.WriteString("- Theme: " + world.Theme + "\n")
	}
	if world.WritingStyle != "" {
		sb.WriteString("- Writing style: " + world.WritingStyle + "\n")
	}
	if world.Difficulty != "" {
		sb.WriteString("- Difficulty: " + world.Difficulty + ". Consequences must match it.\n")
	}
	if world.PlayerGender != "" || world.PlayerPersona != "" {
		sb.WriteString(fmt.Sprintf("- Player character: %s, %s. %s\n", name, world.PlayerGender, world.PlayerPersona))
	}
	if world.NSFWMode {
		sb.WriteString("- " + NSFWPrompt + "\n")
	} else {
		sb.WriteString("- " + SafePrompt + "\n")
	}
	return fmt.Sprintf(BaseSystemPrompt, name, sb.String(), DirectiveReference)
}

// GetStatePrompt renders the prompt view of kb.
func GetStatePrompt(kb *state.KnowledgeBase) (chat.Message, error) {
	if kb == nil {
		return chat.Message{}, fmt.Errorf("knowledge base is nil")
	}
	data, err := json.Marshal(state.ToPromptState(kb))
	if err != nil {
		return chat.Message{}, fmt.Errorf("failed to marshal prompt state: %w", err)
	}
	setting := kb.WorldConfig.Setting
	if setting == "" {
		setting = "(not specified)"
	}
	return chat.Message{
		Role:    chat.RoleSystem,
		Content: fmt.Sprintf(StatePromptTemplate, setting, data),
	}, nil
}

// SummaryPrompt composes the summarization request for a closed page.
func SummaryPrompt(req pagination.SummaryRequest) []chat.Message {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Page %d, turns %d to %d.\n", req.Page, req.FromTurn, req.ToTurn)
	if req.World.PlayerName != "" {
		fmt.Fprintf(&sb, "Player character: %s", req.World.PlayerName)
		if req.Realm != "" {
			fmt.Fprintf(&sb, " (%s)", req.Realm)
		}
		sb.WriteString("\n")
	}
	if req.Location != "" {
		fmt.Fprintf(&sb, "Current location: %s\n", req.Location)
	}
	if req.PreviousSummary != "" {
		sb.WriteString("\nPrevious page summary:\n" + req.PreviousSummary + "\n")
	}
	sb.WriteString("\nTranscript:\n")
	for _, m := range req.Messages {
		fmt.Fprintf(&sb, "[%d] %s: %s\n", m.Turn, speaker(m.Role, req.World.PlayerName), m.Content)
	}

	return []chat.Message{
		{Role: chat.RoleSystem, Content: SummarySystemPrompt},
		{Role: chat.RoleUser, Content: sb.String()},
	}
}

func speaker(role, player string) string {
	switch role {
	case chat.RoleUser:
		if player != "" {
			return player
		}
		return "Người chơi"
	case chat.RoleNarrator:
		return "Người kể"
	}
	return "Hệ thống"
}
