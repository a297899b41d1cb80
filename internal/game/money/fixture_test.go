package money_test

import (
	"testing"

	"github.com/Robak132/MacrosCompanionModules/internal/game/money"
)

const (
	gcName = "Gold Crown"
	ssName = "Silver Shilling"
	bpName = "Brass Penny"
)

func empire() *money.Region {
	return &money.Region{
		Key:  "empire",
		Name: "Empire",
		Coins: []money.Coin{
			{Key: "gc", Name: gcName, Value: 240},
			{Key: "ss", Name: ssName, Value: 12},
			{Key: "bp", Name: bpName, Value: 1},
		},
		ExchangeRates: map[string]float64{
			"bretonnia": 1.25,
			"kislev":    0.5,
		},
	}
}

func bretonnia() *money.Region {
	return &money.Region{
		Key:  "bretonnia",
		Name: "Bretonnia",
		Coins: []money.Coin{
			{Key: "ecu", Name: "Ecu", Value: 240},
			{Key: "denier", Name: "Denier", Value: 1},
		},
	}
}

func kislev() *money.Region {
	return &money.Region{
		Key:   "kislev",
		Name:  "Kislev",
		Coins: []money.Coin{{Key: "ducat", Name: "Ducat", Value: 240}},
	}
}

// orphan has no exchange rate recorded on the pivot.
func orphan() *money.Region {
	return &money.Region{
		Key:   "araby",
		Name:  "Araby",
		Coins: []money.Coin{{Key: "dinar", Name: "Dinar", Value: 100}},
	}
}

func regionSet(t testing.TB) *money.RegionSet {
	t.Helper()
	set, err := money.NewRegionSet([]*money.Region{empire(), bretonnia(), kislev(), orphan()}, "empire")
	if err != nil {
		t.Fatalf("NewRegionSet: %v", err)
	}
	return set
}

func holding(id, name string, qty, value int) money.Holding {
	return money.Holding{ItemID: id, Name: name, Quantity: qty, CoinValue: value}
}

func purseValue(hs []money.Holding) int {
	total := 0
	for _, h := range hs {
		total += h.Value()
	}
	return total
}

// applyResult merges a payment result into holdings: updates replace stacks
// by ItemID and created stacks are appended.
func applyResult(before []money.Holding, res *money.PaymentResult) []money.Holding {
	out := make([]money.Holding, len(before))
	copy(out, before)
	index := make(map[string]int, len(before))
	for i, h := range before {
		index[h.ItemID] = i
	}
	for _, u := range res.Updates {
		out[index[u.ItemID]] = u
	}
	return append(out, res.Created...)
}
