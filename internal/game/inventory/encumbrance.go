package inventory

import "math"

// floor2 floors x to two decimals. The epsilon keeps binary representation
// error (e.g. 4.5 stored as 4.4999...) from dropping a hundredth.
func floor2(x float64) float64 {
	return math.Floor(x*100+1e-9) / 100
}

// BaseEncumbrance returns the per-unit encumbrance of e after quality
// adjustments: fractional values are floored to two decimals, the lightweight
// quality subtracts 1 (not below 0) and the bulky flaw adds 1.
func BaseEncumbrance(e Entry) float64 {
	enc := e.Encumbrance
	if enc != math.Trunc(enc) {
		enc = floor2(enc)
	}
	if e.Lightweight {
		enc = math.Max(0, enc-1)
	}
	if e.Bulky {
		enc++
	}
	return enc
}

// ComputeEncumbrance returns the carried weight of the whole stack.
// Per-unit adjustments apply before multiplying by quantity; the equipped
// discount for items that weigh less when equipped applies once afterwards.
//
// Postcondition: result >= 0 for non-negative per-unit encumbrance.
func ComputeEncumbrance(e Entry) float64 {
	enc := FullEncumbrance(e)
	if e.Equipped && e.WeighsLessEquipped {
		enc = math.Max(0, enc-1)
	}
	return enc
}

// FullEncumbrance returns the stack's weight ignoring the equipped discount.
func FullEncumbrance(e Entry) float64 {
	return floor2(BaseEncumbrance(e) * float64(e.Quantity))
}
