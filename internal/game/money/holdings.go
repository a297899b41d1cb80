package money

import (
	"fmt"
	"sort"
)

// Holding is one money stack held by an actor.
type Holding struct {
	ItemID    string
	Name      string
	Quantity  int
	CoinValue int
}

// Value returns the stack's worth in pence.
func (h Holding) Value() int {
	return h.Quantity * h.CoinValue
}

// RegionGroup is the share of an actor's holdings recognised by one region.
type RegionGroup struct {
	Region    *Region
	Coins     []Holding
	Total     int
	Converted int
	Rate      float64
}

// Grouping partitions holdings by region and converts each region's total
// into the target region's currency.
type Grouping struct {
	Target    *Region
	Groups    map[string]*RegionGroup
	Order     []string
	Total     int
	Unmatched []Holding
}

// Group returns the group for the region key, if the actor holds any of its coins.
func (g *Grouping) Group(key string) (*RegionGroup, bool) {
	grp, ok := g.Groups[key]
	return grp, ok
}

// Convertible returns the groups with a nonzero converted value, in key order.
func (g *Grouping) Convertible() []*RegionGroup {
	out := make([]*RegionGroup, 0, len(g.Order))
	for _, key := range g.Order {
		if grp := g.Groups[key]; grp.Converted != 0 {
			out = append(out, grp)
		}
	}
	return out
}

// GroupByRegionAndConvert partitions holdings by the region recognising each
// coin name, sums raw pence per region, converts each sum into target and
// accumulates the grand converted total. Holdings no region recognises, and
// groups whose region has no exchange rate, are reported in Unmatched and
// excluded from the total.
//
// Precondition: set is non-nil.
// Postcondition: Total == sum of Converted over Groups; returns an error
// wrapping ErrNoMatchingRegion if target is unknown.
func GroupByRegionAndConvert(holdings []Holding, set *RegionSet, target string) (*Grouping, error) {
	targetRegion, ok := set.Region(target)
	if !ok {
		return nil, fmt.Errorf("GroupByRegionAndConvert: target %q: %w", target, ErrNoMatchingRegion)
	}

	g := &Grouping{
		Target: targetRegion,
		Groups: make(map[string]*RegionGroup),
	}
	for _, h := range holdings {
		r, ok := set.RegionForCoin(h.Name)
		if !ok {
			g.Unmatched = append(g.Unmatched, h)
			continue
		}
		grp, exists := g.Groups[r.Key]
		if !exists {
			grp = &RegionGroup{Region: r}
			g.Groups[r.Key] = grp
		}
		grp.Coins = append(grp.Coins, h)
		grp.Total += h.Value()
	}

	for key, grp := range g.Groups {
		conv, err := set.Exchange(grp.Total, targetRegion.Key, key)
		if err != nil {
			g.Unmatched = append(g.Unmatched, grp.Coins...)
			delete(g.Groups, key)
			continue
		}
		grp.Converted = conv.Converted
		grp.Rate = conv.Rate
		g.Total += conv.Converted
	}

	for key := range g.Groups {
		g.Order = append(g.Order, key)
	}
	sort.Strings(g.Order)
	return g, nil
}

// MissingCoinStacks returns zero-quantity stacks for every coin of region the
// actor does not already hold by name. New stacks carry no ItemID; the store
// assigns one on creation.
func MissingCoinStacks(holdings []Holding, region *Region) []Holding {
	held := make(map[string]bool, len(holdings))
	for _, h := range holdings {
		held[h.Name] = true
	}
	var out []Holding
	for _, c := range region.Coins {
		if !held[c.Name] {
			out = append(out, Holding{Name: c.Name, CoinValue: c.Value})
		}
	}
	return out
}
