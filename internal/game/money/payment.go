package money

import (
	"context"
	"fmt"
	"sort"
)

// PaymentMethod records which branch of the payment procedure settled a payment.
type PaymentMethod string

const (
	// PaidInRegion means the target region's coins alone covered the amount.
	PaidInRegion PaymentMethod = "region"
	// PaidByAllocation means the payer chose which currencies to spend.
	PaidByAllocation PaymentMethod = "allocation"
)

// PaymentRequest asks an actor to pay Amount in the currency of RegionKey.
// An empty RegionKey means the pivot region. Strict forbids paying with
// converted foreign currency.
type PaymentRequest struct {
	Amount    Amount
	RegionKey string
	Strict    bool
}

// Deduction removes Quantity coins from the stack identified by ItemID.
type Deduction struct {
	ItemID   string
	Quantity int
}

// AllocationOption describes one currency the payer may spend from.
type AllocationOption struct {
	RegionKey  string
	RegionName string
	Total      int
	Converted  int
	Rate       float64
	MainCoin   Coin
	Coins      []Holding
}

// Allocator asks the payer how to cover owed pence when the target region's
// coins are insufficient but converted holdings suffice.
type Allocator interface {
	// Allocate returns the stacks to deduct, or an error wrapping ErrDeclined.
	Allocate(ctx context.Context, owed int, target *Region, options []AllocationOption) ([]Deduction, error)
}

// AllocatorFunc adapts a function to Allocator.
type AllocatorFunc func(ctx context.Context, owed int, target *Region, options []AllocationOption) ([]Deduction, error)

// Allocate calls f.
func (f AllocatorFunc) Allocate(ctx context.Context, owed int, target *Region, options []AllocationOption) ([]Deduction, error) {
	return f(ctx, owed, target, options)
}

// PaymentResult is the planned state change of a successful payment.
// Updates carry the new quantity of existing stacks; Created are stacks the
// actor did not hold before (change in a denomination it lacked).
type PaymentResult struct {
	Method           PaymentMethod
	Paid             Consolidated
	Region           *Region
	Updates          []Holding
	Created          []Holding
	Change           int
	UnreturnedChange int
}

// ResolvePayment decides how an actor pays req from holdings:
//  1. the target region's coins cover the amount: greedy deduction,
//     breaking a larger coin for change when no exact combination exists;
//  2. non-strict and converted holdings cover it: the allocator chooses;
//  3. otherwise *InsufficientFundsError with the per-region breakdown.
//
// No state is modified; the caller commits the returned result.
//
// Precondition: set is non-nil; req.Amount is non-negative.
// Postcondition: on error no deduction is planned.
func ResolvePayment(ctx context.Context, req PaymentRequest, holdings []Holding, set *RegionSet, alloc Allocator) (*PaymentResult, error) {
	due := Consolidate(req.Amount)
	if due.Total <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", ErrInvalidAmountFormat)
	}
	target, ok := set.Region(req.RegionKey)
	if !ok {
		return nil, fmt.Errorf("ResolvePayment: region %q: %w", req.RegionKey, ErrNoMatchingRegion)
	}
	grouping, err := GroupByRegionAndConvert(holdings, set, target.Key)
	if err != nil {
		return nil, err
	}

	if own, ok := grouping.Group(target.Key); ok && own.Total >= due.Total {
		updates, created, change, unreturned, err := settleInRegion(own.Coins, target, due.Total)
		if err != nil {
			return nil, err
		}
		return &PaymentResult{
			Method:           PaidInRegion,
			Paid:             due,
			Region:           target,
			Updates:          updates,
			Created:          created,
			Change:           change,
			UnreturnedChange: unreturned,
		}, nil
	}

	if !req.Strict && grouping.Total >= due.Total {
		options := make([]AllocationOption, 0, len(grouping.Groups))
		for _, grp := range grouping.Convertible() {
			options = append(options, AllocationOption{
				RegionKey:  grp.Region.Key,
				RegionName: grp.Region.Name,
				Total:      grp.Total,
				Converted:  grp.Converted,
				Rate:       grp.Rate,
				MainCoin:   grp.Region.MainCoin(),
				Coins:      grp.Coins,
			})
		}
		if alloc == nil {
			return nil, fmt.Errorf("ResolvePayment: no allocator: %w", ErrDeclined)
		}
		deductions, err := alloc.Allocate(ctx, due.Total, target, options)
		if err != nil {
			return nil, fmt.Errorf("ResolvePayment: %w", err)
		}
		updates, err := applyDeductions(holdings, deductions)
		if err != nil {
			return nil, err
		}
		return &PaymentResult{Method: PaidByAllocation, Paid: due, Region: target, Updates: updates}, nil
	}

	return nil, insufficient(due, target, grouping)
}

func insufficient(due Consolidated, target *Region, g *Grouping) *InsufficientFundsError {
	e := &InsufficientFundsError{Needed: due, Region: target}
	for _, key := range g.Order {
		grp := g.Groups[key]
		if key == target.Key {
			e.Available = grp.Total
			continue
		}
		e.ConvertedTotal += grp.Converted
		e.Breakdown = append(e.Breakdown, Shortfall{
			RegionKey:  key,
			RegionName: grp.Region.Name,
			Total:      grp.Total,
			Converted:  grp.Converted,
			Rate:       RoundRate(grp.Rate),
		})
	}
	return e
}

// applyDeductions validates an allocation against holdings and returns the
// resulting stack quantities.
func applyDeductions(holdings []Holding, deductions []Deduction) ([]Holding, error) {
	byID := make(map[string]Holding, len(holdings))
	for _, h := range holdings {
		byID[h.ItemID] = h
	}
	var order []string
	for _, d := range deductions {
		h, ok := byID[d.ItemID]
		if !ok {
			return nil, fmt.Errorf("%w: unknown stack %q", ErrInvalidAllocation, d.ItemID)
		}
		if d.Quantity <= 0 || d.Quantity > h.Quantity {
			return nil, fmt.Errorf("%w: cannot take %d from %q holding %d", ErrInvalidAllocation, d.Quantity, h.Name, h.Quantity)
		}
		if _, seen := indexOf(order, d.ItemID); !seen {
			order = append(order, d.ItemID)
		}
		h.Quantity -= d.Quantity
		byID[d.ItemID] = h
	}
	updates := make([]Holding, 0, len(order))
	for _, id := range order {
		updates = append(updates, byID[id])
	}
	return updates, nil
}

func indexOf(ids []string, id string) (int, bool) {
	for i, v := range ids {
		if v == id {
			return i, true
		}
	}
	return -1, false
}

// ChangeWithRequestedMoney deducts owed pence from coins greedily: stacks are
// taken largest unit value first, each contributing as many coins as fit
// without exceeding what remains. It returns the changed stacks and the pence
// still owed when no exact combination exists.
//
// Postcondition: sum of coins removed * value == owed - remaining; remaining >= 0.
func ChangeWithRequestedMoney(coins []Holding, owed int) ([]Holding, int) {
	sorted := make([]Holding, len(coins))
	copy(sorted, coins)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].CoinValue > sorted[j].CoinValue })

	var updates []Holding
	for _, c := range sorted {
		if owed == 0 {
			break
		}
		if c.CoinValue <= 0 || owed < c.CoinValue {
			continue
		}
		n := min(c.Quantity, owed/c.CoinValue)
		if n == 0 {
			continue
		}
		c.Quantity -= n
		owed -= n * c.CoinValue
		updates = append(updates, c)
	}
	return updates, owed
}

// settleInRegion pays owed from coins of one region. A remainder the greedy
// pass cannot cover is paid by breaking the smallest coin worth at least the
// remainder; the excess is returned as change in the region's coins, largest
// first, onto the first stack of each coin. Change no region coin can express
// is reported as unreturned.
//
// Precondition: sum of coin values >= owed; ItemIDs are unique.
func settleInRegion(coins []Holding, region *Region, owed int) (updates, created []Holding, change, unreturned int, err error) {
	updates, remaining := ChangeWithRequestedMoney(coins, owed)
	if remaining == 0 {
		return updates, nil, 0, 0, nil
	}

	state := make(map[string]Holding, len(coins))
	order := make([]string, 0, len(coins))
	firstByName := make(map[string]string, len(coins))
	for _, c := range coins {
		state[c.ItemID] = c
		order = append(order, c.ItemID)
		if _, ok := firstByName[c.Name]; !ok {
			firstByName[c.Name] = c.ItemID
		}
	}
	for _, u := range updates {
		state[u.ItemID] = u
	}

	broken := ""
	for _, id := range order {
		c := state[id]
		if c.Quantity <= 0 || c.CoinValue < remaining {
			continue
		}
		if broken == "" || c.CoinValue < state[broken].CoinValue {
			broken = id
		}
	}
	if broken == "" {
		return nil, nil, 0, 0, fmt.Errorf("settleInRegion: %d pence left with no coin to break: %w", remaining, ErrInsufficientFunds)
	}
	c := state[broken]
	c.Quantity--
	state[broken] = c
	change = c.CoinValue - remaining

	denoms := make([]Coin, len(region.Coins))
	copy(denoms, region.Coins)
	sort.SliceStable(denoms, func(i, j int) bool { return denoms[i].Value > denoms[j].Value })

	left := change
	for _, d := range denoms {
		if d.Value <= 0 || left < d.Value {
			continue
		}
		n := left / d.Value
		left -= n * d.Value
		if id, ok := firstByName[d.Name]; ok {
			h := state[id]
			h.Quantity += n
			state[id] = h
			continue
		}
		created = append(created, Holding{Name: d.Name, Quantity: n, CoinValue: d.Value})
	}

	out := make([]Holding, 0, len(order))
	for _, c := range coins {
		if h := state[c.ItemID]; h.Quantity != c.Quantity {
			out = append(out, h)
		}
	}
	return out, created, change, left, nil
}
