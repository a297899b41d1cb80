package inventory_test

import (
	"github.com/Robak132/MacrosCompanionModules/internal/game/inventory"
)

func rope(id string, qty int) inventory.Entry {
	return inventory.Entry{
		ItemID:      id,
		Name:        "Rope (10 yards)",
		Kind:        inventory.KindTrapping,
		Quantity:    qty,
		Encumbrance: 1,
	}
}

func backpack(id string, capacity float64) inventory.Entry {
	return inventory.Entry{
		ItemID:      id,
		Name:        "Backpack",
		Kind:        inventory.KindContainer,
		Quantity:    1,
		Encumbrance: 1,
		Capacity:    capacity,
		Equipped:    true,
	}
}

func in(e inventory.Entry, location string) inventory.Entry {
	e.Location = location
	return e
}

func quantityOf(a *inventory.Actor, name string) int {
	total := 0
	for _, e := range a.Entries {
		if e.Name == name {
			total += e.Quantity
		}
	}
	return total
}
