package money

import (
	"context"
	"fmt"
	"sort"
)

type allocCoin struct {
	itemID    string
	left      int
	converted float64
}

// AutoAllocate is an Allocator for callers that cannot ask the payer. It
// values each coin at its group's converted-to-total ratio, spends the most
// valuable coins that fit the remainder, then tops up with the cheapest coin
// that covers what is left. Overpayment is not returned.
var AutoAllocate = AllocatorFunc(func(_ context.Context, owed int, target *Region, options []AllocationOption) ([]Deduction, error) {
	var coins []*allocCoin
	for _, opt := range options {
		if opt.Total <= 0 {
			continue
		}
		ratio := float64(opt.Converted) / float64(opt.Total)
		for _, h := range opt.Coins {
			if h.Quantity <= 0 || h.ItemID == "" {
				continue
			}
			coins = append(coins, &allocCoin{itemID: h.ItemID, left: h.Quantity, converted: float64(h.CoinValue) * ratio})
		}
	}
	sort.SliceStable(coins, func(i, j int) bool { return coins[i].converted > coins[j].converted })

	taken := make(map[string]int)
	var order []string
	take := func(c *allocCoin, n int) {
		if _, ok := taken[c.itemID]; !ok {
			order = append(order, c.itemID)
		}
		taken[c.itemID] += n
		c.left -= n
	}

	remaining := float64(owed)
	for _, c := range coins {
		if c.converted <= 0 {
			continue
		}
		if n := min(c.left, int(remaining/c.converted+truncEpsilon)); n > 0 {
			take(c, n)
			remaining -= float64(n) * c.converted
		}
	}
	for remaining > truncEpsilon {
		var pick *allocCoin
		for i := len(coins) - 1; i >= 0; i-- {
			if c := coins[i]; c.left > 0 && c.converted+truncEpsilon >= remaining {
				pick = c
				break
			}
		}
		if pick == nil {
			for _, c := range coins {
				if c.left > 0 && c.converted > 0 {
					pick = c
					break
				}
			}
		}
		if pick == nil {
			return nil, fmt.Errorf("AutoAllocate: %d pence in %s not covered: %w", owed, target.Key, ErrDeclined)
		}
		take(pick, 1)
		remaining -= pick.converted
	}

	out := make([]Deduction, 0, len(order))
	for _, id := range order {
		out = append(out, Deduction{ItemID: id, Quantity: taken[id]})
	}
	return out, nil
})
