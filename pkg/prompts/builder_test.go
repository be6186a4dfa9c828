package prompts

import (
	"strings"
	"testing"

	"github.com/jwebster45206/realm-engine/pkg/chat"
	"github.com/jwebster45206/realm-engine/pkg/pagination"
	"github.com/jwebster45206/realm-engine/pkg/progression"
	"github.com/jwebster45206/realm-engine/pkg/state"
)

func testKB() *state.KnowledgeBase {
	kb := state.NewKnowledgeBase(state.WorldConfig{
		PlayerName: "Lâm Phong",
		Setting:    "Thanh Vân đại lục",
	}, progression.Default())
	kb.NPCs = append(kb.NPCs, state.NPC{ID: "n1", Name: "Tiểu Ngọc", AvatarURL: "avatar:1", AvatarSeed: "seed"})
	return kb
}

func TestNew(t *testing.T) {
	builder := New()
	if builder.historyLimit != 20 {
		t.Errorf("Expected default history limit of 20, got %d", builder.historyLimit)
	}
	if builder.messages == nil {
		t.Error("Expected messages slice to be initialized")
	}
}

func TestBuilder_Build_RequiresKnowledgeBase(t *testing.T) {
	_, err := New().Build()
	if err == nil || err.Error() != "knowledge base is required" {
		t.Errorf("Expected 'knowledge base is required' error, got: %v", err)
	}
}

func TestBuilder_Build_Structure(t *testing.T) {
	kb := testKB()
	msgs, err := New().WithKnowledgeBase(kb).WithPlayerInput("Ta bước vào hang động").Build()
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}
	if len(msgs) != 3 {
		t.Fatalf("Expected 3 messages (system, input, reminder), got %d", len(msgs))
	}

	system := msgs[0].Content
	for _, want := range []string{"Lâm Phong", "Thanh Vân đại lục", "[STATS_UPDATE:", "[ITEM_ACQUIRED:", `"discoveredNPCs"`} {
		if !strings.Contains(system, want) {
			t.Errorf("System prompt missing %q", want)
		}
	}
	if strings.Contains(system, "avatar:1") || strings.Contains(system, `"turnHistory"`) {
		t.Error("System prompt should not carry avatar fields or history")
	}

	if msgs[1].Role != chat.RoleUser || msgs[1].Content != "Lâm Phong: Ta bước vào hang động" {
		t.Errorf("Unexpected user message: %+v", msgs[1])
	}
	if msgs[2].Content != UserPostPrompt {
		t.Error("Expected post prompt as final message")
	}
}

func TestBuilder_HistoryUsesOpenPage(t *testing.T) {
	kb := testKB()
	kb.PageStartTurns = []int{1, 4}
	kb.PageSummaries = map[int]string{1: "Trang đầu tiên"}

	var transcript []chat.Message
	for turn := 1; turn <= 6; turn++ {
		transcript = append(transcript,
			chat.NewMessage(chat.RoleUser, "hành động", turn),
			chat.NewMessage(chat.RoleNarrator, "kể", turn))
	}

	msgs, err := New().WithKnowledgeBase(kb).WithMessages(transcript).WithHistoryLimit(4).Build()
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}
	// system, summaries, 4 windowed messages
	if len(msgs) != 6 {
		t.Fatalf("Expected 6 messages, got %d", len(msgs))
	}
	if !strings.Contains(msgs[1].Content, "[Trang 1] Trang đầu tiên") {
		t.Errorf("Expected page summary, got %q", msgs[1].Content)
	}
	for _, m := range msgs[2:] {
		if m.Turn < 5 {
			t.Errorf("Expected only the last window of the open page, got turn %d", m.Turn)
		}
	}
}

func TestBuildSystemPrompt_ContentMode(t *testing.T) {
	safe := BuildSystemPrompt(state.WorldConfig{})
	if !strings.Contains(safe, SafePrompt) || strings.Contains(safe, NSFWPrompt) {
		t.Error("Expected safe prompt by default")
	}
	mature := BuildSystemPrompt(state.WorldConfig{NSFWMode: true, Difficulty: "Khó"})
	if !strings.Contains(mature, NSFWPrompt) || !strings.Contains(mature, "Difficulty: Khó") {
		t.Error("Expected mature prompt and difficulty line")
	}
}

func TestSummaryPrompt(t *testing.T) {
	req := pagination.SummaryRequest{
		Page: 2, FromTurn: 11, ToTurn: 20,
		World:           state.WorldConfig{PlayerName: "Lâm Phong"},
		Realm:           "Luyện Khí Tam Trọng",
		PreviousSummary: "Lâm Phong nhập môn.",
		Messages: []chat.Message{
			{Role: chat.RoleUser, Content: "Ta luyện công", Turn: 11},
			{Role: chat.RoleNarrator, Content: "Linh khí hội tụ.", Turn: 11},
		},
	}
	msgs := SummaryPrompt(req)
	if len(msgs) != 2 || msgs[0].Content != SummarySystemPrompt {
		t.Fatalf("Unexpected summary prompt shape: %+v", msgs)
	}
	body := msgs[1].Content
	for _, want := range []string{"Page 2, turns 11 to 20", "Luyện Khí Tam Trọng", "Lâm Phong nhập môn.", "[11] Lâm Phong: Ta luyện công", "[11] Người kể: Linh khí hội tụ."} {
		if !strings.Contains(body, want) {
			t.Errorf("Summary prompt missing %q", want)
		}
	}
}
