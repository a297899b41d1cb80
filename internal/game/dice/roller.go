package dice

// Roll evaluates expr using src.
//
// Precondition: expr comes from Parse; src is non-nil.
// Postcondition: len(result.Dice) == expr.Count.
func Roll(expr Expression, src Source) RollResult {
	rolled := make([]int, expr.Count)
	for i := range rolled {
		rolled[i] = src.Intn(expr.Sides) + 1
	}
	return RollResult{Expression: expr.Raw, Dice: rolled, Modifier: expr.Modifier}
}

// RollExpr parses expr and rolls it using src.
func RollExpr(expr string, src Source) (RollResult, error) {
	e, err := Parse(expr)
	if err != nil {
		return RollResult{}, err
	}
	return Roll(e, src), nil
}
