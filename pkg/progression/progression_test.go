package progression

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func twoTierTable() Table {
	return Table{
		Realms: []string{"Phàm Nhân", "Luyện Khí"},
		TierStats: map[string]TierStats{
			"Phàm Nhân": {HPBase: 100, HPInc: 10, MPBase: 20, MPInc: 5, AtkBase: 10, AtkInc: 1, ExpBase: 100, ExpInc: 25},
			"Luyện Khí": {HPBase: 500, HPInc: 50, MPBase: 200, MPInc: 20, AtkBase: 50, AtkInc: 5, ExpBase: 1000, ExpInc: 100},
		},
	}
}

func TestTable_Parse(t *testing.T) {
	tbl := twoTierTable()
	tests := []struct {
		in      string
		want    Position
		wantErr bool
	}{
		{"Phàm Nhân Nhất Trọng", Position{0, 0}, false},
		{"Luyện Khí Tam Trọng", Position{1, 2}, false},
		{"luyen khi tam trong", Position{1, 2}, false},
		{"Luyện Khí Tầng 7", Position{1, 6}, false},
		{"Phàm Nhân tier-10", Position{0, 9}, false},
		{"Luyện Khí 10", Position{1, 9}, false},
		{"Luyện Khí", Position{1, 0}, false},
		{"Trúc Cơ Nhất Trọng", Position{}, true},
		{"Luyện Khí Tầng 11", Position{}, true},
		{"Luyện Khíxyz", Position{}, true},
		{"", Position{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := tbl.Parse(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrUnknownRealm))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTable_FormatRoundTrip(t *testing.T) {
	tbl := twoTierTable()
	for tier := range tbl.Realms {
		for sub := range SubTierCount {
			p := Position{Tier: tier, SubTier: sub}
			got, err := tbl.Parse(tbl.Format(p))
			require.NoError(t, err)
			assert.Equal(t, p, got)
		}
	}
}

func TestTable_Next(t *testing.T) {
	tbl := twoTierTable()

	next, mainChanged, ok := tbl.Next(Position{0, 3})
	assert.Equal(t, Position{0, 4}, next)
	assert.False(t, mainChanged)
	assert.True(t, ok)

	next, mainChanged, ok = tbl.Next(Position{0, 9})
	assert.Equal(t, Position{1, 0}, next)
	assert.True(t, mainChanged)
	assert.True(t, ok)

	_, _, ok = tbl.Next(Position{1, 9})
	assert.False(t, ok, "top of the ladder has no next position")
}

func TestTable_Base(t *testing.T) {
	tbl := twoTierTable()
	got := tbl.Base(Position{Tier: 1, SubTier: 3})
	assert.Equal(t, BaseStats{MaxHP: 650, MaxMP: 260, Attack: 65, MaxExp: 1300}, got)
}

func TestTable_NPCBaseStats(t *testing.T) {
	tbl := twoTierTable()
	assert.Equal(t, tbl.Base(Position{1, 0}), tbl.NPCBaseStats("Luyện Khí"))
	assert.Equal(t, Commoner, tbl.NPCBaseStats("Thần Vương"))
	assert.Equal(t, Commoner, Table{}.NPCBaseStats("Luyện Khí"))
}

func TestGeneratedRowsGrow(t *testing.T) {
	a, b := Generated(0), Generated(1)
	assert.Less(t, a.HPBase, b.HPBase)
	assert.Equal(t, 3*a.ExpBase, b.ExpBase)

	tbl := Table{Realms: []string{"A", "B"}}
	assert.Equal(t, Generated(1), tbl.TierStatsFor(1))
}

func TestLoadYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ladder.yaml")
	data := `realms: ["Phàm Nhân", "Luyện Khí"]
tierBaseStats:
  "Phàm Nhân": {hpBase: 100, hpInc: 10, mpBase: 20, mpInc: 5, atkBase: 10, atkInc: 1, expBase: 100, expInc: 25}
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	tbl, err := LoadYAML(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Phàm Nhân", "Luyện Khí"}, tbl.Realms)
	assert.Equal(t, 25, tbl.TierStats["Phàm Nhân"].ExpInc)

	_, err = ParseYAML([]byte(`realms: ["A", "A"]`))
	assert.Error(t, err)

	_, err = ParseYAML([]byte(`realms: ["A"]
tierBaseStats:
  B: {hpBase: 1}`))
	assert.Error(t, err)
}
