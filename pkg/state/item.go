package state

import (
	"slices"

	"github.com/jwebster45206/realm-engine/pkg/textkey"
)

// ItemCategory is the primary variant of an Item.
type ItemCategory string

const (
	CategoryEquipment     ItemCategory = "Equipment"
	CategoryPotion        ItemCategory = "Potion"
	CategoryMaterial      ItemCategory = "Material"
	CategoryQuestItem     ItemCategory = "QuestItem"
	CategoryMiscellaneous ItemCategory = "Miscellaneous"
)

var ItemCategories = []ItemCategory{
	CategoryEquipment, CategoryPotion, CategoryMaterial, CategoryQuestItem, CategoryMiscellaneous,
}

// ParseCategory matches a category token, ignoring case and separators
// ("quest item" and "QuestItem" both match).
func ParseCategory(s string) (ItemCategory, bool) {
	key := textkey.Identifier(s)
	for _, c := range ItemCategories {
		if textkey.Identifier(string(c)) == key {
			return c, true
		}
	}
	return "", false
}

var (
	EquipmentTypes = []string{
		"Vũ Khí", "Giáp Đầu", "Giáp Thân", "Giáp Tay", "Giáp Chân", "Trang Sức", "Pháp Bảo", "Thú Cưng",
	}
	PotionTypes = []string{
		"Hồi Phục", "Tăng Cường", "Giải Độc", "Đặc Biệt",
	}
	MaterialTypes = []string{
		"Linh Thảo", "Khoáng Thạch", "Yêu Đan", "Da/Xương Yêu Thú", "Linh Hồn", "Vật Liệu Chế Tạo Chung", "Khác",
	}
	Rarities = []string{
		"Phổ Thông", "Hiếm", "Quý Báu", "Cực Phẩm", "Thần Thoại", "Chí Tôn",
	}
)

// DefaultRarity is assigned when a directive omits or misspells rarity.
const DefaultRarity = "Phổ Thông"

// SubtypesFor returns the legal subtypes of a category, or nil when the
// category takes none.
func SubtypesFor(c ItemCategory) []string {
	switch c {
	case CategoryEquipment:
		return EquipmentTypes
	case CategoryPotion:
		return PotionTypes
	case CategoryMaterial:
		return MaterialTypes
	}
	return nil
}

// Item is a tagged union: exactly one of the variant payloads is set and it
// matches Category.
type Item struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Category    ItemCategory `json:"category"`
	Quantity    int          `json:"quantity"`
	Rarity      string       `json:"rarity"`
	Value       int          `json:"value,omitempty"`
	ItemRealm   string       `json:"itemRealm,omitempty"`

	Equipment *EquipmentData `json:"equipment,omitempty"`
	Potion    *PotionData    `json:"potion,omitempty"`
	Material  *MaterialData  `json:"material,omitempty"`
	QuestItem *QuestItemData `json:"questItem,omitempty"`
	Misc      *MiscData      `json:"misc,omitempty"`
}

type EquipmentData struct {
	Type          string         `json:"equipmentType"`
	Slot          string         `json:"slot,omitempty"`
	StatBonuses   map[string]int `json:"statBonuses"`
	UniqueEffects []string       `json:"uniqueEffects"`
}

type PotionData struct {
	Type          string   `json:"potionType"`
	Effects       []string `json:"effects"`
	DurationTurns int      `json:"durationTurns,omitempty"`
	Cooldown      int      `json:"cooldownTurns,omitempty"`
}

type MaterialData struct {
	Type string `json:"materialType"`
}

type QuestItemData struct {
	QuestIDAssociated string `json:"questIdAssociated,omitempty"`
}

type MiscData struct {
	Usable     bool `json:"usable,omitempty"`
	Consumable bool `json:"consumable,omitempty"`
}

// Subtype returns the variant subtype, or "" for categories without one.
func (it *Item) Subtype() string {
	switch {
	case it.Equipment != nil:
		return it.Equipment.Type
	case it.Potion != nil:
		return it.Potion.Type
	case it.Material != nil:
		return it.Material.Type
	}
	return ""
}

// Valid reports whether the item's payload matches its category.
func (it *Item) Valid() bool {
	set := 0
	for _, p := range []bool{it.Equipment != nil, it.Potion != nil, it.Material != nil, it.QuestItem != nil, it.Misc != nil} {
		if p {
			set++
		}
	}
	if set != 1 {
		return false
	}
	switch it.Category {
	case CategoryEquipment:
		return it.Equipment != nil
	case CategoryPotion:
		return it.Potion != nil
	case CategoryMaterial:
		return it.Material != nil
	case CategoryQuestItem:
		return it.QuestItem != nil
	case CategoryMiscellaneous:
		return it.Misc != nil
	}
	return false
}

// EquipmentSlot names a place an equipped item occupies.
type EquipmentSlot string

const (
	SlotMainWeapon EquipmentSlot = "Vũ Khí Chính"
	SlotOffHand    EquipmentSlot = "Vũ Khí Phụ/Khiên"
	SlotHead       EquipmentSlot = "Giáp Đầu"
	SlotBody       EquipmentSlot = "Giáp Thân"
	SlotHands      EquipmentSlot = "Giáp Tay"
	SlotLegs       EquipmentSlot = "Giáp Chân"
	SlotAccessory1 EquipmentSlot = "Trang Sức 1"
	SlotAccessory2 EquipmentSlot = "Trang Sức 2"
	SlotArtifact   EquipmentSlot = "Pháp Bảo"
	SlotPet        EquipmentSlot = "Thú Cưng"
)

var EquipmentSlots = []EquipmentSlot{
	SlotMainWeapon, SlotOffHand, SlotHead, SlotBody, SlotHands, SlotLegs,
	SlotAccessory1, SlotAccessory2, SlotArtifact, SlotPet,
}

// EmptyEquipment returns a slot map with every slot present and empty.
func EmptyEquipment() map[EquipmentSlot]string {
	m := make(map[EquipmentSlot]string, len(EquipmentSlots))
	for _, s := range EquipmentSlots {
		m[s] = ""
	}
	return m
}

// CompatibleSlots lists the slots an equipment type may occupy, in
// preference order.
func CompatibleSlots(equipmentType string) []EquipmentSlot {
	switch textkey.Fold(equipmentType) {
	case textkey.Fold("Vũ Khí"):
		return []EquipmentSlot{SlotMainWeapon, SlotOffHand}
	case textkey.Fold("Giáp Đầu"):
		return []EquipmentSlot{SlotHead}
	case textkey.Fold("Giáp Thân"):
		return []EquipmentSlot{SlotBody}
	case textkey.Fold("Giáp Tay"):
		return []EquipmentSlot{SlotHands}
	case textkey.Fold("Giáp Chân"):
		return []EquipmentSlot{SlotLegs}
	case textkey.Fold("Trang Sức"):
		return []EquipmentSlot{SlotAccessory1, SlotAccessory2}
	case textkey.Fold("Pháp Bảo"):
		return []EquipmentSlot{SlotArtifact}
	case textkey.Fold("Thú Cưng"):
		return []EquipmentSlot{SlotPet}
	}
	return nil
}

// ParseSlot matches a slot name ignoring case and diacritics.
func ParseSlot(s string) (EquipmentSlot, bool) {
	names := make([]string, len(EquipmentSlots))
	for i, slot := range EquipmentSlots {
		names[i] = string(slot)
	}
	m, ok := textkey.Match(s, names)
	return EquipmentSlot(m), ok
}

// SlotOf returns the slot an item id is equipped in.
func (kb *KnowledgeBase) SlotOf(itemID string) (EquipmentSlot, bool) {
	for _, slot := range EquipmentSlots {
		if id, ok := kb.EquippedItems[slot]; ok && id != "" && id == itemID {
			return slot, true
		}
	}
	return "", false
}

// Unequip clears every slot holding itemID.
func (kb *KnowledgeBase) Unequip(itemID string) bool {
	found := false
	for slot, id := range kb.EquippedItems {
		if id == itemID && id != "" {
			kb.EquippedItems[slot] = ""
			found = true
		}
	}
	return found
}

// FindItem returns the index of the first item with the exact name, or -1.
func (kb *KnowledgeBase) FindItem(name string) int {
	name = textkey.Collapse(name)
	return slices.IndexFunc(kb.Inventory, func(it Item) bool {
		return textkey.Collapse(it.Name) == name
	})
}

// FindStack returns the index of the item sharing name and category, or -1.
func (kb *KnowledgeBase) FindStack(name string, c ItemCategory) int {
	name = textkey.Collapse(name)
	return slices.IndexFunc(kb.Inventory, func(it Item) bool {
		return it.Category == c && textkey.Collapse(it.Name) == name
	})
}

// ItemByID returns the inventory item with id, or nil.
func (kb *KnowledgeBase) ItemByID(id string) *Item {
	for i := range kb.Inventory {
		if kb.Inventory[i].ID == id {
			return &kb.Inventory[i]
		}
	}
	return nil
}

// RemoveItemAt deletes the item at index i and unequips it.
func (kb *KnowledgeBase) RemoveItemAt(i int) {
	kb.Unequip(kb.Inventory[i].ID)
	kb.Inventory = slices.Delete(kb.Inventory, i, i+1)
}
