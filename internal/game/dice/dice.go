// Package dice provides randomness, dice expressions and percentile tests
// for table draws and characteristic tests.
package dice

import (
	"fmt"
	"strings"
)

// RollResult holds the audit trail for a single dice roll evaluation.
//
// Postcondition: Total() == sum(Dice) + Modifier.
type RollResult struct {
	Expression string
	Dice       []int
	Modifier   int
}

// Total returns the sum of all die results plus the modifier.
func (r RollResult) Total() int {
	total := r.Modifier
	for _, d := range r.Dice {
		total += d
	}
	return total
}

// String returns a human-readable audit string such as "2d10+3: [4 5] +3 = 12".
func (r RollResult) String() string {
	parts := make([]string, len(r.Dice))
	for i, d := range r.Dice {
		parts[i] = fmt.Sprint(d)
	}
	return fmt.Sprintf("%s: [%s] %+d = %d", r.Expression, strings.Join(parts, " "), r.Modifier, r.Total())
}

// Source is the randomness provider for dice rolls.
//
// Implementations MUST be safe for concurrent use.
type Source interface {
	// Intn returns a non-negative random int in [0, n).
	//
	// Precondition: n > 0.
	Intn(n int) int
}
