package money

import "fmt"

// Credit adds a to the actor's gold, silver and pence stacks, identified as
// the held coins of region worth 240, 12 and 1 pence. Holdings are not
// modified; the changed stacks are returned.
//
// Precondition: a is non-negative; region is non-nil.
// Postcondition: returns an error wrapping ErrNoMatchingCurrency, and no
// updates, if any of the three stacks is missing.
func Credit(holdings []Holding, a Amount, region *Region) ([]Holding, error) {
	parts := []struct {
		value int
		count int
	}{
		{PencePerGold, a.Gold},
		{PencePerSilver, a.Silver},
		{1, a.Pence},
	}

	updates := make([]Holding, 0, len(parts))
	for _, p := range parts {
		coin, ok := region.CoinByValue(p.value)
		if !ok {
			return nil, fmt.Errorf("Credit: region %q has no coin worth %d: %w", region.Key, p.value, ErrNoMatchingCurrency)
		}
		idx := -1
		for i, h := range holdings {
			if h.Name == coin.Name {
				idx = i
				break
			}
		}
		if idx < 0 {
			return nil, fmt.Errorf("Credit: no %q stack held: %w", coin.Name, ErrNoMatchingCurrency)
		}
		h := holdings[idx]
		h.Quantity += p.count
		updates = append(updates, h)
	}
	return updates, nil
}
