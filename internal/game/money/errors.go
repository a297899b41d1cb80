package money

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidAmountFormat is returned when a payment or credit string cannot be parsed.
	ErrInvalidAmountFormat = errors.New("invalid amount format")
	// ErrInsufficientFunds is matched by *InsufficientFundsError via errors.Is.
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrNoMatchingRegion is returned when a region key or exchange rate is unknown.
	ErrNoMatchingRegion = errors.New("no matching region")
	// ErrNoMatchingCurrency is returned when a coin stack cannot be attributed or found.
	ErrNoMatchingCurrency = errors.New("no matching currency")
	// ErrDeclined is returned when the payer declines a manual allocation.
	ErrDeclined = errors.New("payment declined")
	// ErrInvalidAllocation is returned when a manual allocation references unknown
	// stacks or exceeds held quantities.
	ErrInvalidAllocation = errors.New("invalid allocation")
	// ErrNoPlayers is returned when splitting an amount among zero players.
	ErrNoPlayers = errors.New("no players to split among")
)

// Shortfall is one region's contribution to an insufficient-funds report.
type Shortfall struct {
	RegionKey  string
	RegionName string
	Total      int
	Converted  int
	Rate       float64
}

// InsufficientFundsError reports why a payment could not be covered, with the
// per-region breakdown of what the payer holds after conversion.
type InsufficientFundsError struct {
	Needed         Consolidated
	Region         *Region
	Available      int
	ConvertedTotal int
	Breakdown      []Shortfall
}

func (e *InsufficientFundsError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "insufficient funds: need %s %s, have %s",
		e.Needed.Amount, e.Region.MainCoin().Name, FormatPence(e.Available))
	if len(e.Breakdown) > 0 {
		parts := make([]string, 0, len(e.Breakdown))
		for _, s := range e.Breakdown {
			parts = append(parts, fmt.Sprintf("%s: %d (x%.2f)", s.RegionName, s.Converted, s.Rate))
		}
		fmt.Fprintf(&b, "; other (converted) %d [%s]", e.ConvertedTotal, strings.Join(parts, ", "))
	}
	return b.String()
}

// Is reports whether target is ErrInsufficientFunds.
func (e *InsufficientFundsError) Is(target error) bool {
	return target == ErrInsufficientFunds
}
