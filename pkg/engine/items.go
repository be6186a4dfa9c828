package engine

import (
	"slices"

	"github.com/google/uuid"
	"github.com/jwebster45206/realm-engine/pkg/directive"
	"github.com/jwebster45206/realm-engine/pkg/state"
	"github.com/jwebster45206/realm-engine/pkg/stats"
)

func (w *worker) itemAcquired(d directive.ItemAcquired) {
	kb := w.kb
	it := d.Item
	if i := kb.FindStack(it.Name, it.Category); i >= 0 {
		kb.Inventory[i].Quantity = directive.AddInt(kb.Inventory[i].Quantity, it.Quantity)
		w.notify(LevelInfo, "Nhận được: %s x%d (hiện có %d)", it.Name, it.Quantity, kb.Inventory[i].Quantity)
		return
	}
	it.ID = uuid.NewString()
	kb.Inventory = append(kb.Inventory, it)
	w.notify(LevelInfo, "Nhận được: %s x%d", it.Name, it.Quantity)
}

func (w *worker) itemConsumed(d directive.ItemConsumed) {
	kb := w.kb
	i := kb.FindItem(d.Name)
	if i < 0 {
		w.diag("directive %s: no item %q in inventory", directive.KindItemConsumed, d.Name)
		return
	}
	held := kb.Inventory[i].Quantity
	name := kb.Inventory[i].Name
	if d.Quantity >= held {
		_, equipped := kb.SlotOf(kb.Inventory[i].ID)
		kb.RemoveItemAt(i)
		if d.Quantity > held {
			w.diag("directive %s: used %d %s but only %d were held", directive.KindItemConsumed, d.Quantity, name, held)
		}
		if equipped {
			stats.Refresh(kb)
		}
		w.notify(LevelInfo, "Đã dùng hết: %s", name)
		return
	}
	kb.Inventory[i].Quantity -= d.Quantity
	w.notify(LevelInfo, "Đã dùng: %s x%d (còn %d)", name, d.Quantity, kb.Inventory[i].Quantity)
}

func (w *worker) itemUpdate(d directive.ItemUpdate) {
	kb := w.kb
	i := kb.FindItem(d.Name)
	if i < 0 {
		w.diag("directive %s: no item %q in inventory", directive.KindItemUpdate, d.Name)
		return
	}
	it := &kb.Inventory[i]
	if d.NewName != nil && *d.NewName != "" {
		it.Name = *d.NewName
	}
	if d.Description != nil {
		it.Description = *d.Description
	}
	if d.Rarity != nil {
		it.Rarity = *d.Rarity
	}
	if d.Value != nil {
		it.Value = max(*d.Value, 0)
	}
	if d.StatBonuses != nil || d.UniqueEffects != nil {
		if it.Equipment == nil {
			w.diag("directive %s: %q is not equipment", directive.KindItemUpdate, it.Name)
		} else {
			if d.StatBonuses != nil {
				it.Equipment.StatBonuses = d.StatBonuses
			}
			if d.UniqueEffects != nil {
				it.Equipment.UniqueEffects = d.UniqueEffects
			}
		}
	}
	if d.Effects != nil {
		if it.Potion == nil {
			w.diag("directive %s: %q is not a potion", directive.KindItemUpdate, it.Name)
		} else {
			it.Potion.Effects = d.Effects
		}
	}
	name := it.Name
	if d.Quantity != nil {
		if d.Quantity.Op == directive.OpMax || d.Quantity.Op == directive.OpPercent {
			w.diag("directive %s: quantity must be a number or a signed change", directive.KindItemUpdate)
		} else if q := d.Quantity.Apply(it.Quantity, it.Quantity); q <= 0 {
			kb.RemoveItemAt(i)
			w.notify(LevelInfo, "Đã mất: %s", name)
		} else {
			it.Quantity = q
		}
	}
	stats.Refresh(kb)
}

// equipSlot picks where an item goes: the requested slot when compatible,
// else the first empty compatible slot, else the first compatible slot.
func equipSlot(kb *state.KnowledgeBase, compatible []state.EquipmentSlot, requested state.EquipmentSlot) state.EquipmentSlot {
	if requested != "" && slices.Contains(compatible, requested) {
		return requested
	}
	for _, s := range compatible {
		if kb.EquippedItems[s] == "" {
			return s
		}
	}
	return compatible[0]
}

func (w *worker) itemEquip(d directive.ItemEquip) {
	kb := w.kb
	i := kb.FindStack(d.Name, state.CategoryEquipment)
	if i < 0 {
		w.diag("directive %s: no equipment %q in inventory", directive.KindItemEquip, d.Name)
		return
	}
	it := kb.Inventory[i]
	var compatible []state.EquipmentSlot
	if it.Equipment != nil {
		compatible = state.CompatibleSlots(it.Equipment.Type)
	}
	if len(compatible) == 0 {
		w.diag("directive %s: %q cannot be equipped", directive.KindItemEquip, it.Name)
		return
	}
	requested := d.Slot
	if requested == "" && it.Equipment.Slot != "" {
		requested = state.EquipmentSlot(it.Equipment.Slot)
	}
	if d.Slot != "" && !slices.Contains(compatible, d.Slot) {
		w.diag("directive %s: %q does not fit %s", directive.KindItemEquip, it.Name, d.Slot)
	}

	if kb.EquippedItems == nil {
		kb.EquippedItems = state.EmptyEquipment()
	}
	kb.Unequip(it.ID)
	slot := equipSlot(kb, compatible, requested)
	if prev := kb.EquippedItems[slot]; prev != "" {
		if p := kb.ItemByID(prev); p != nil {
			w.notify(LevelInfo, "Tháo %s khỏi %s", p.Name, slot)
		}
	}
	kb.EquippedItems[slot] = it.ID
	stats.Refresh(kb)
	w.notify(LevelInfo, "Trang bị %s vào %s", it.Name, slot)
}

func (w *worker) itemUnequip(d directive.ItemUnequip) {
	kb := w.kb
	if d.Name == "" {
		id := kb.EquippedItems[d.Slot]
		if id == "" {
			w.diag("directive %s: slot %s is already empty", directive.KindItemUnequip, d.Slot)
			return
		}
		kb.EquippedItems[d.Slot] = ""
		stats.Refresh(kb)
		if it := kb.ItemByID(id); it != nil {
			w.notify(LevelInfo, "Tháo %s", it.Name)
		}
		return
	}
	i := kb.FindItem(d.Name)
	if i < 0 || !kb.Unequip(kb.Inventory[i].ID) {
		w.diag("directive %s: %q is not equipped", directive.KindItemUnequip, d.Name)
		return
	}
	stats.Refresh(kb)
	w.notify(LevelInfo, "Tháo %s", kb.Inventory[i].Name)
}
