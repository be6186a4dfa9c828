package directive

import (
	"errors"
	"testing"

	"github.com/jwebster45206/realm-engine/pkg/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode_Unrecognized(t *testing.T) {
	d, err := Decode(`[DANCE_PARTY: music="loud"]`)
	require.NoError(t, err)
	assert.Equal(t, Unrecognized{Name: "DANCE_PARTY", Raw: `music="loud"`}, d)
}

func TestDecode_Aliases(t *testing.T) {
	tests := map[string]Kind{
		"[STAT_UPDATE: sinhLuc=5]":             KindStatsUpdate,
		"[PLAYER_REALM: realm=Luyện Khí]":      KindRealmChange,
		"[REMOVE_BINH_CANH_EFFECT]":            KindRemovePlateau,
		"[ITEM_USED: name=Đan]":                KindItemConsumed,
		"[NPC_NEW: name=A]":                    KindNPCAdd,
		"[SUBLOCATION: name=Động]":             KindLocationAdd,
		`[SYSTEM_MESSAGE: message="Chú ý"]`:    KindMessage,
		"[begin combat]":                       KindBeginCombat,
	}
	for tag, want := range tests {
		d, err := Decode(tag)
		require.NoError(t, err, tag)
		assert.Equal(t, want, d.Kind(), tag)
	}
}

func TestDecode_ItemConsumedForms(t *testing.T) {
	tags := []string{
		`[ITEM_CONSUMED: name="Hồi Khí Đan", quantity=5]`,
		`[ITEM_CONSUMED name="Hồi Khí Đan" quantity=5]`,
		`[ITEM_CONSUMED: name="Hồi Khí Đan" quantity=5]`,
		`[Item_Consumed: name="Hồi Khí Đan", quantity=5]`,
	}
	for _, tag := range tags {
		t.Run(tag, func(t *testing.T) {
			prose, raw := Extract("Hắn nuốt đan dược. " + tag)
			assert.Equal(t, "Hắn nuốt đan dược.", prose)
			require.Len(t, raw, 1)

			d, err := Decode(raw[0])
			require.NoError(t, err)
			assert.Equal(t, ItemConsumed{Name: "Hồi Khí Đan", Quantity: 5}, d)
		})
	}
}

func TestDecode_StatsUpdate(t *testing.T) {
	d, err := Decode(`[STATS_UPDATE: turn=+1, sinhLuc=-20, maxSinhLuc=9999, kinhNghiem=+10%, linhLuc=MAX, isInCombat=true, charisma=3]`)
	require.NoError(t, err)
	su := d.(StatsUpdate)

	keys := make([]string, len(su.Changes))
	for i, c := range su.Changes {
		keys[i] = c.Key
	}
	assert.Equal(t, []string{state.StatHP, state.StatMP, state.StatExp, state.StatTurn, state.StatInCombat}, keys)
	assert.Equal(t, NumberExpr{Op: OpAdd, Value: -20}, su.Changes[0].Expr)
	assert.Equal(t, OpMax, su.Changes[1].Expr.Op)
	assert.Equal(t, OpPercent, su.Changes[2].Expr.Op)
	assert.True(t, su.Changes[4].Bool)
	assert.Equal(t, []string{state.StatMaxHP}, su.Denied)
	assert.Equal(t, []string{"charisma"}, su.Invalid)

	d, err = Decode(`[STATS_UPDATE: linhThach=MAX]`)
	require.NoError(t, err)
	assert.Equal(t, []string{state.StatCurrency}, d.(StatsUpdate).Invalid)

	_, err = Decode(`[STATS_UPDATE]`)
	assert.Error(t, err)
}

func TestDecode_ItemAcquired(t *testing.T) {
	tests := []struct {
		name    string
		tag     string
		check   func(t *testing.T, it state.Item)
		wantErr string
	}{
		{
			name: "equipment with literals",
			tag:  `[ITEM_ACQUIRED: name="Thiết Kiếm", type="Equipment vu khi", statBonuses={atk: 10, maxSinhLuc: 50}, uniqueEffects=[], rarity=hiem, slot="vu khi chinh"]`,
			check: func(t *testing.T, it state.Item) {
				require.NotNil(t, it.Equipment)
				assert.Equal(t, state.CategoryEquipment, it.Category)
				assert.Equal(t, "Vũ Khí", it.Equipment.Type)
				assert.Equal(t, map[string]int{state.StatAttack: 10, state.StatMaxHP: 50}, it.Equipment.StatBonuses)
				assert.Equal(t, []string{}, it.Equipment.UniqueEffects)
				assert.Equal(t, string(state.SlotMainWeapon), it.Equipment.Slot)
				assert.Equal(t, "Hiếm", it.Rarity)
				assert.Equal(t, 1, it.Quantity)
				assert.True(t, it.Valid())
			},
		},
		{
			name: "potion with list",
			tag:  `[ITEM_ADD: name="Hồi Khí Đan", type="Potion Hồi Phục", effects=["Hồi 50 HP"], quantity=3]`,
			check: func(t *testing.T, it state.Item) {
				require.NotNil(t, it.Potion)
				assert.Equal(t, []string{"Hồi 50 HP"}, it.Potion.Effects)
				assert.Equal(t, 3, it.Quantity)
				assert.Equal(t, state.DefaultRarity, it.Rarity)
			},
		},
		{
			name: "two word category",
			tag:  `[ITEM_ACQUIRED: name="Lệnh Bài", type="Quest Item"]`,
			check: func(t *testing.T, it state.Item) {
				assert.Equal(t, state.CategoryQuestItem, it.Category)
				assert.NotNil(t, it.QuestItem)
			},
		},
		{
			name:    "equipment without bonuses",
			tag:     `[ITEM_ACQUIRED: name="Kiếm", type="Equipment Vũ Khí", uniqueEffects=[]]`,
			wantErr: "statBonuses",
		},
		{
			name:    "potion without effects",
			tag:     `[ITEM_ACQUIRED: name="Đan", type="Potion Hồi Phục"]`,
			wantErr: "effects",
		},
		{
			name:    "missing subtype",
			tag:     `[ITEM_ACQUIRED: name="Đá", type="Material"]`,
			wantErr: "subtype",
		},
		{
			name:    "unknown category",
			tag:     `[ITEM_ACQUIRED: name="Đá", type="Weapon"]`,
			wantErr: "category",
		},
		{
			name:    "bad literal",
			tag:     `[ITEM_ACQUIRED: name="Kiếm", type="Equipment Vũ Khí", statBonuses={atk: rất mạnh}, uniqueEffects=[]]`,
			wantErr: "statBonuses",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := Decode(tt.tag)
			if tt.wantErr != "" {
				var de *Error
				require.True(t, errors.As(err, &de), "want *Error, got %v", err)
				assert.Equal(t, string(KindItemAcquired), de.Tag)
				assert.Contains(t, de.Reason, tt.wantErr)
				return
			}
			require.NoError(t, err)
			tt.check(t, d.(ItemAcquired).Item)
		})
	}
}

func TestDecode_RequiredFields(t *testing.T) {
	for _, tag := range []string{
		`[ITEM_CONSUMED: quantity=2]`,
		`[ITEM_CONSUMED: name=Đan, quantity=0]`,
		`[QUEST_UPDATED: title="Tìm thảo dược"]`,
		`[WORLD_LORE_ADD: title="Thiên Đạo"]`,
		`[ITEM_UNEQUIP]`,
		`[ITEM_EQUIP: name=Kiếm, slot="Mũ Rơm"]`,
		`[REALM_CHANGE]`,
		`[MESSAGE]`,
	} {
		_, err := Decode(tag)
		assert.Error(t, err, tag)
	}
}

func TestDecode_Quest(t *testing.T) {
	d, err := Decode(`[QUEST_ASSIGNED: title="Tìm thảo dược", objectives="Hái 3 cây|Về làng"]`)
	require.NoError(t, err)
	assert.Equal(t, []string{"Hái 3 cây", "Về làng"}, d.(QuestAssigned).Objectives)

	d, err = Decode(`[QUEST_UPDATED: title="Tìm thảo dược", objectiveText="Hái 3 cây"]`)
	require.NoError(t, err)
	assert.True(t, d.(QuestUpdated).Completed, "completed defaults to true")

	d, err = Decode(`[QUEST_UPDATED: title="Tìm thảo dược", objectiveText="Hái 3 cây", completed=false]`)
	require.NoError(t, err)
	assert.False(t, d.(QuestUpdated).Completed)
}

func TestDecode_StatusEffectApply(t *testing.T) {
	d, err := Decode(`[STATUS_EFFECT_APPLY: name="Cuồng Bạo", type="buff", durationTurns=3, statModifiers={atk: +20%, maxHp: -50}, specialEffects=["Mất lý trí"]]`)
	require.NoError(t, err)
	e := d.(StatusEffectApply).Effect
	assert.Equal(t, state.EffectBuff, e.Type)
	assert.Equal(t, 3, e.DurationTurns)
	assert.Equal(t, map[string]string{state.StatAttack: "+20%", state.StatMaxHP: "-50"}, e.StatModifiers)
	assert.Equal(t, []string{"Mất lý trí"}, e.SpecialEffects)
}

func TestDecode_NPCAndCompanion(t *testing.T) {
	d, err := Decode(`[NPC_UPDATE: name="Tiểu Ngọc", affinity=+15, newName="Ngọc Nhi"]`)
	require.NoError(t, err)
	u := d.(NPCUpdate)
	require.NotNil(t, u.Fields.Affinity)
	assert.Equal(t, NumberExpr{Op: OpAdd, Value: 15}, *u.Fields.Affinity)
	assert.Equal(t, "Ngọc Nhi", *u.NewName)
	assert.Nil(t, u.Fields.Realm)

	d, err = Decode(`[COMPANION_JOIN: name="Hắc Hổ", hp=80, maxHp=100, atk=15]`)
	require.NoError(t, err)
	c := d.(CompanionJoin).Companion
	assert.Equal(t, 80, c.HP)
	assert.Equal(t, 100, c.MaxHP)
	assert.Equal(t, 15, c.Attack)
}
