package alcohol

import "errors"

var (
	// ErrUnknownBeverage is returned when a beverage id is not in the table.
	ErrUnknownBeverage = errors.New("unknown beverage")
	// ErrDrinkerNotFound is returned when a store has no drinker for an id.
	ErrDrinkerNotFound = errors.New("drinker not found")
	// ErrIncompleteLadder is returned when a condition group lacks a level.
	ErrIncompleteLadder = errors.New("incomplete condition ladder")
	// ErrNoTableResult is returned when a roll falls outside every table range.
	ErrNoTableResult = errors.New("no table result for roll")
)
