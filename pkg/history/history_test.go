package history

import (
	"encoding/json"
	"testing"

	"github.com/jwebster45206/realm-engine/pkg/chat"
	"github.com/jwebster45206/realm-engine/pkg/engine"
	"github.com/jwebster45206/realm-engine/pkg/progression"
	"github.com/jwebster45206/realm-engine/pkg/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newKB() *state.KnowledgeBase {
	return state.NewKnowledgeBase(state.WorldConfig{PlayerName: "Lâm Phong"}, progression.Default())
}

func mustJSON(t *testing.T, v any) string {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return string(data)
}

// playTurn records a checkpoint and applies one batch, the way a session does.
func playTurn(t *testing.T, kb *state.KnowledgeBase, msgs []chat.Message, tags ...string) (*state.KnowledgeBase, []chat.Message) {
	t.Helper()
	require.NoError(t, Record(kb, msgs, 0))
	res, err := engine.ApplyDirectives(kb, append(tags, "[STATS_UPDATE: turn=+1]"), kb.PlayerStats.Turn, engine.DefaultConfig())
	require.NoError(t, err)
	turn := kb.PlayerStats.Turn
	msgs = append(chat.Clone(msgs),
		chat.NewMessage(chat.RoleUser, "đi tiếp", turn),
		chat.NewMessage(chat.RoleNarrator, "...", turn),
	)
	return res.KB, msgs
}

func TestRollback_RestoresTurnStart(t *testing.T) {
	kb := newKB()
	var msgs []chat.Message

	kb, msgs = playTurn(t, kb, msgs, `[ITEM_ACQUIRED: name="Đan", type="Potion Hồi Phục", effects=[]]`)
	kb, msgs = playTurn(t, kb, msgs, `[STATS_UPDATE: linhThach=+50]`)

	wantKB := mustJSON(t, kb)
	wantMsgs := mustJSON(t, msgs)

	kb, msgs = playTurn(t, kb, msgs,
		`[ITEM_CONSUMED: name="Đan"]`,
		`[NPC: name="Tiểu Ngọc"]`,
		`[STATS_UPDATE: sinhLuc=-40]`,
	)
	require.Len(t, kb.TurnHistory, 3)

	restored, restoredMsgs, err := Rollback(kb)
	require.NoError(t, err)
	assert.Equal(t, wantKB, mustJSON(t, restored))
	assert.Equal(t, wantMsgs, mustJSON(t, restoredMsgs))
	assert.Len(t, kb.TurnHistory, 3, "input is not modified")

	again, _, err := Rollback(restored)
	require.NoError(t, err)
	assert.Equal(t, 2, again.PlayerStats.Turn)
	assert.Len(t, again.TurnHistory, 1)
}

func TestRecord_SnapshotIsIsolated(t *testing.T) {
	kb := newKB()
	msgs := []chat.Message{chat.NewMessage(chat.RoleNarrator, "Mở đầu", 1)}
	require.NoError(t, Record(kb, msgs, 0))

	kb.PlayerStats.HP = 1
	kb.Inventory = append(kb.Inventory, state.Item{ID: "x", Name: "Kiếm"})
	msgs[0].Content = "changed"

	entry := kb.TurnHistory[0]
	assert.Equal(t, kb.PlayerStats.MaxHP, entry.KnowledgeBase.PlayerStats.HP)
	assert.Empty(t, entry.KnowledgeBase.Inventory)
	assert.Nil(t, entry.KnowledgeBase.TurnHistory)
	assert.Equal(t, "Mở đầu", entry.Messages[0].Content)
}

func TestRecord_EvictsOldest(t *testing.T) {
	kb := newKB()
	for turn := 1; turn <= 5; turn++ {
		kb.PlayerStats.Turn = turn
		require.NoError(t, Record(kb, nil, 3))
	}
	assert.Equal(t, []int{3, 4, 5}, Turns(kb))
}

func TestRecord_DefaultLimit(t *testing.T) {
	kb := newKB()
	for turn := 1; turn <= state.DefaultHistoryLimit+2; turn++ {
		kb.PlayerStats.Turn = turn
		require.NoError(t, Record(kb, nil, 0))
	}
	turns := Turns(kb)
	require.Len(t, turns, state.DefaultHistoryLimit)
	assert.Equal(t, 3, turns[0])
}

func TestRollback_Empty(t *testing.T) {
	_, _, err := Rollback(newKB())
	assert.ErrorIs(t, err, ErrNoHistory)

	_, _, err = Rollback(nil)
	assert.ErrorIs(t, err, ErrNoHistory)
}

func TestDiscard(t *testing.T) {
	kb := newKB()
	assert.False(t, Discard(kb))

	require.NoError(t, Record(kb, nil, 0))
	kb.PlayerStats.Turn = 2
	require.NoError(t, Record(kb, nil, 0))

	assert.True(t, Discard(kb))
	assert.Equal(t, []int{1}, Turns(kb))
}

func TestRecord_NilKB(t *testing.T) {
	assert.Error(t, Record(nil, nil, 0))
}
