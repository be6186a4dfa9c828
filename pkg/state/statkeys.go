package state

import "github.com/jwebster45206/realm-engine/pkg/textkey"

// Canonical stat keys as they appear in directives and in serialized saves.
const (
	StatHP         = "sinhLuc"
	StatMaxHP      = "maxSinhLuc"
	StatMP         = "linhLuc"
	StatMaxMP      = "maxLinhLuc"
	StatAttack     = "sucTanCong"
	StatExp        = "kinhNghiem"
	StatMaxExp     = "maxKinhNghiem"
	StatRealm      = "realm"
	StatCurrency   = "linhThach"
	StatTurn       = "turn"
	StatInCombat   = "isInCombat"
	StatPlateau    = "hieuUngBinhCanh"
	StatBaseMaxHP  = "baseMaxSinhLuc"
	StatBaseMaxMP  = "baseMaxLinhLuc"
	StatBaseAttack = "baseSucTanCong"
	StatBaseMaxExp = "baseMaxKinhNghiem"
)

var statAliases = map[string][]string{
	StatHP:         {"hp", "health", "sinh luc"},
	StatMaxHP:      {"maxHp", "maxHealth", "max sinh luc"},
	StatMP:         {"mp", "mana", "linh luc"},
	StatMaxMP:      {"maxMp", "maxMana", "max linh luc"},
	StatAttack:     {"atk", "attack", "suc tan cong"},
	StatExp:        {"exp", "xp", "experience", "kinh nghiem"},
	StatMaxExp:     {"maxExp", "maxXp", "maxExperience", "max kinh nghiem"},
	StatRealm:      {"canhGioi", "tier"},
	StatCurrency:   {"currency", "gold", "linh thach", "spiritStones"},
	StatTurn:       {"luot"},
	StatInCombat:   {"inCombat", "combat"},
	StatPlateau:    {"plateau", "binhCanh"},
	StatBaseMaxHP:  nil,
	StatBaseMaxMP:  nil,
	StatBaseAttack: nil,
	StatBaseMaxExp: nil,
}

var statIndex = buildStatIndex()

func buildStatIndex() map[string]string {
	idx := make(map[string]string)
	for canonical, aliases := range statAliases {
		idx[textkey.Identifier(canonical)] = canonical
		for _, a := range aliases {
			idx[textkey.Identifier(a)] = canonical
		}
	}
	return idx
}

// CanonicalStatKey maps any accepted spelling of a stat to its canonical key.
func CanonicalStatKey(key string) (string, bool) {
	c, ok := statIndex[textkey.Identifier(key)]
	return c, ok
}

// DerivedStatKeys are the stats that equipment bonuses and status effect
// modifiers act on.
var DerivedStatKeys = []string{StatMaxHP, StatMaxMP, StatAttack, StatMaxExp}
