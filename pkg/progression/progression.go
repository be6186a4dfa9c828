// Package progression models the cultivation ladder: an ordered list of main
// tiers (realms), each split into ten sub-tiers whose base stats are
// linearly interpolated from a per-tier table.
package progression

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jwebster45206/realm-engine/pkg/textkey"
)

// SubTierCount is the number of sub-tiers inside every main tier.
const SubTierCount = 10

var ErrUnknownRealm = errors.New("unknown realm")

// DefaultSubTierNames name the ten sub-tiers when a table does not override them.
var DefaultSubTierNames = []string{
	"Nhất Trọng", "Nhị Trọng", "Tam Trọng", "Tứ Trọng", "Ngũ Trọng",
	"Lục Trọng", "Thất Trọng", "Bát Trọng", "Cửu Trọng", "Thập Trọng",
}

// DefaultRealms is the ladder used when a world does not supply its own.
var DefaultRealms = []string{
	"Phàm Nhân", "Luyện Khí", "Trúc Cơ", "Kim Đan", "Nguyên Anh",
	"Hóa Thần", "Luyện Hư", "Hợp Thể", "Đại Thừa", "Độ Kiếp",
}

// TierStats holds the base value and per-sub-tier increment of every stat
// for one main tier.
type TierStats struct {
	HPBase  int `json:"hpBase" yaml:"hpBase"`
	HPInc   int `json:"hpInc" yaml:"hpInc"`
	MPBase  int `json:"mpBase" yaml:"mpBase"`
	MPInc   int `json:"mpInc" yaml:"mpInc"`
	AtkBase int `json:"atkBase" yaml:"atkBase"`
	AtkInc  int `json:"atkInc" yaml:"atkInc"`
	ExpBase int `json:"expBase" yaml:"expBase"`
	ExpInc  int `json:"expInc" yaml:"expInc"`
}

// BaseStats are the tier-derived capacities before equipment and effects.
type BaseStats struct {
	MaxHP  int `json:"maxSinhLuc"`
	MaxMP  int `json:"maxLinhLuc"`
	Attack int `json:"sucTanCong"`
	MaxExp int `json:"maxKinhNghiem"`
}

// Commoner is used for anyone whose realm cannot be placed on the ladder.
var Commoner = BaseStats{MaxHP: 100, MaxMP: 0, Attack: 10, MaxExp: 100}

// Table is the progression configuration of one world.
type Table struct {
	Realms    []string             `json:"realmProgressionList" yaml:"realms"`
	TierStats map[string]TierStats `json:"tierBaseStats,omitempty" yaml:"tierBaseStats,omitempty"`
	SubTiers  []string             `json:"subTierNames,omitempty" yaml:"subTiers,omitempty"`
}

// Position is a place on the ladder, both indices zero-based.
type Position struct {
	Tier    int
	SubTier int
}

// Enabled reports whether the world uses a progression system at all.
func (t Table) Enabled() bool {
	return len(t.Realms) > 0
}

// SubTierNames returns the configured sub-tier names, or the defaults when
// the table does not carry exactly SubTierCount of them.
func (t Table) SubTierNames() []string {
	if len(t.SubTiers) == SubTierCount {
		return t.SubTiers
	}
	return DefaultSubTierNames
}

// Initial returns the formatted realm of a fresh character.
func (t Table) Initial() string {
	if !t.Enabled() {
		return ""
	}
	return t.Format(Position{})
}

// Format renders a position as "<tier> <sub-tier name>".
func (t Table) Format(p Position) string {
	if p.Tier < 0 || p.Tier >= len(t.Realms) {
		return ""
	}
	names := t.SubTierNames()
	sub := min(max(p.SubTier, 0), SubTierCount-1)
	return t.Realms[p.Tier] + " " + names[sub]
}

// Parse locates a realm string on the ladder. It accepts the formatted form
// ("Luyện Khí Tam Trọng"), numeric forms ("Luyện Khí Tầng 3", "Luyện Khí 3")
// and a bare tier name, which maps to the first sub-tier. Matching ignores
// case and diacritics.
func (t Table) Parse(realm string) (Position, error) {
	key := textkey.Fold(realm)
	if key == "" {
		return Position{}, fmt.Errorf("%w: empty realm", ErrUnknownRealm)
	}

	best, bestLen := -1, 0
	for i, name := range t.Realms {
		nk := textkey.Fold(name)
		if nk == "" || !strings.HasPrefix(key, nk) {
			continue
		}
		if len(key) > len(nk) && key[len(nk)] != ' ' {
			continue
		}
		if len(nk) > bestLen {
			best, bestLen = i, len(nk)
		}
	}
	if best < 0 {
		return Position{}, fmt.Errorf("%w: %q", ErrUnknownRealm, realm)
	}

	rest := strings.TrimSpace(key[bestLen:])
	sub, ok := t.parseSubTier(rest)
	if !ok {
		return Position{}, fmt.Errorf("%w: bad sub-tier %q in %q", ErrUnknownRealm, rest, realm)
	}
	return Position{Tier: best, SubTier: sub}, nil
}

func (t Table) parseSubTier(rest string) (int, bool) {
	if rest == "" {
		return 0, true
	}
	for i, name := range t.SubTierNames() {
		if textkey.Fold(name) == rest {
			return i, true
		}
	}
	for _, prefix := range []string{"tang ", "tier ", "level ", "tier-", "cap "} {
		rest = strings.TrimPrefix(rest, prefix)
	}
	n, err := strconv.Atoi(strings.TrimSpace(rest))
	if err != nil || n < 1 || n > SubTierCount {
		return 0, false
	}
	return n - 1, true
}

// Next returns the position one sub-tier above p. mainChanged is set when
// the step rolls into the next main tier; ok is false at the top of the ladder.
func (t Table) Next(p Position) (next Position, mainChanged bool, ok bool) {
	if p.SubTier < SubTierCount-1 {
		return Position{Tier: p.Tier, SubTier: p.SubTier + 1}, false, true
	}
	if p.Tier+1 < len(t.Realms) {
		return Position{Tier: p.Tier + 1}, true, true
	}
	return p, false, false
}

// TierStatsFor returns the stats row for a tier index, generating one from
// the tier's position when the table has no explicit entry.
func (t Table) TierStatsFor(tier int) TierStats {
	if tier >= 0 && tier < len(t.Realms) {
		if ts, ok := t.TierStats[t.Realms[tier]]; ok {
			return ts
		}
	}
	return Generated(tier)
}

// Base computes tierBase + subTierIndex * tierIncrement for every stat.
func (t Table) Base(p Position) BaseStats {
	ts := t.TierStatsFor(p.Tier)
	return BaseStats{
		MaxHP:  ts.HPBase + p.SubTier*ts.HPInc,
		MaxMP:  ts.MPBase + p.SubTier*ts.MPInc,
		Attack: ts.AtkBase + p.SubTier*ts.AtkInc,
		MaxExp: ts.ExpBase + p.SubTier*ts.ExpInc,
	}
}

// StatsFor parses realm and returns its base stats.
func (t Table) StatsFor(realm string) (BaseStats, error) {
	p, err := t.Parse(realm)
	if err != nil {
		return BaseStats{}, err
	}
	return t.Base(p), nil
}

// NPCBaseStats returns the base stats for an NPC of the given realm, falling
// back to Commoner when the world has no ladder or the realm does not parse.
func (t Table) NPCBaseStats(realm string) BaseStats {
	if !t.Enabled() || strings.TrimSpace(realm) == "" {
		return Commoner
	}
	bs, err := t.StatsFor(realm)
	if err != nil {
		return Commoner
	}
	return bs
}

// Generated is the stats row used for tier index i when none is configured.
// Each main tier is three times as strong as the one below it.
func Generated(i int) TierStats {
	mult := 1
	for range max(i, 0) {
		mult *= 3
	}
	return TierStats{
		HPBase: 100 * mult, HPInc: 20 * mult,
		MPBase: 50 * mult, MPInc: 10 * mult,
		AtkBase: 10 * mult, AtkInc: 2 * mult,
		ExpBase: 100 * mult, ExpInc: 25 * mult,
	}
}

// Default returns a table over DefaultRealms with generated stats.
func Default() Table {
	realms := make([]string, len(DefaultRealms))
	copy(realms, DefaultRealms)
	stats := make(map[string]TierStats, len(realms))
	for i, r := range realms {
		stats[r] = Generated(i)
	}
	return Table{Realms: realms, TierStats: stats}
}
