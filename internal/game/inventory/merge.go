package inventory

import (
	"maps"
	"slices"
)

// SameStack reports whether a and b are interchangeable units of one stack.
// Every attribute counts except those a transfer is expected to change:
// item ID, quantity, derived total encumbrance, equipped, worn and location.
func SameStack(a, b Entry) bool {
	return a.Name == b.Name &&
		a.Kind == b.Kind &&
		a.Encumbrance == b.Encumbrance &&
		a.Lightweight == b.Lightweight &&
		a.Bulky == b.Bulky &&
		a.WeighsLessEquipped == b.WeighsLessEquipped &&
		a.Description == b.Description &&
		slices.Equal(a.Qualities, b.Qualities) &&
		slices.Equal(a.Flaws, b.Flaws) &&
		a.CoinValue == b.CoinValue &&
		a.Capacity == b.Capacity &&
		maps.Equal(a.Properties, b.Properties)
}

// FindMergeTarget returns the first destination entry that forms the same
// stack as moving. The moving entry itself is never a candidate.
//
// Postcondition: ok is false iff no destination entry satisfies SameStack.
func FindMergeTarget(moving Entry, destination []Entry) (Entry, bool) {
	for _, candidate := range destination {
		if candidate.ItemID == moving.ItemID {
			continue
		}
		if SameStack(candidate, moving) {
			return candidate, true
		}
	}
	return Entry{}, false
}
