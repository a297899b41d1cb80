package money

import "fmt"

// SplitAmongPlayers divides a among n players. Each share is the floor of
// the total pence divided by n, decomposed into denominations; when the
// division leaves a remainder a single pence is added to the share. The
// result is not re-normalised, so Pence may reach 12.
//
// Postcondition: returns an error wrapping ErrNoPlayers when n <= 0.
func SplitAmongPlayers(a Amount, n int) (Amount, error) {
	if n <= 0 {
		return Amount{}, fmt.Errorf("SplitAmongPlayers(%d): %w", n, ErrNoPlayers)
	}
	total := a.Total()
	if total < 0 {
		return Amount{}, nil
	}
	share := FromPence(total / n)
	if total%n != 0 {
		share.Pence++
	}
	return share, nil
}
