package state

// PlayerStats holds the player's numbers. Base* are tier outputs, the
// effective maxima and attack are derived by the stats calculator, and only
// the current values, currency, turn and flags are written by directives.
type PlayerStats struct {
	HP     int `json:"sinhLuc"`
	MaxHP  int `json:"maxSinhLuc"`
	MP     int `json:"linhLuc"`
	MaxMP  int `json:"maxLinhLuc"`
	Attack int `json:"sucTanCong"`
	Exp    int `json:"kinhNghiem"`
	MaxExp int `json:"maxKinhNghiem"`

	BaseMaxHP  int `json:"baseMaxSinhLuc"`
	BaseMaxMP  int `json:"baseMaxLinhLuc"`
	BaseAttack int `json:"baseSucTanCong"`
	BaseMaxExp int `json:"baseMaxKinhNghiem"`

	Realm      string `json:"realm"`
	Currency   int    `json:"linhThach"`
	Turn       int    `json:"turn"`
	IsInCombat bool   `json:"isInCombat"`
	Plateau    bool   `json:"hieuUngBinhCanh"`

	ActiveStatusEffects []StatusEffect `json:"activeStatusEffects"`
}
