package money_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/Robak132/MacrosCompanionModules/internal/game/money"
)

func TestAutoAllocate_CoversOwed(t *testing.T) {
	holdings := []money.Holding{
		holding("ss", ssName, 1, 12),
		holding("ecu", "Ecu", 2, 240),
	}
	res, err := money.ResolvePayment(context.Background(),
		money.PaymentRequest{Amount: money.Amount{Gold: 1}},
		holdings, regionSet(t), money.AutoAllocate)
	require.NoError(t, err)
	assert.Equal(t, money.PaidByAllocation, res.Method)
	assert.Equal(t, []money.Holding{
		holding("ecu", "Ecu", 0, 240),
		holding("ss", ssName, 0, 12),
	}, res.Updates)
}

func TestAutoAllocate_ExactFit(t *testing.T) {
	opts := []money.AllocationOption{{
		RegionKey: "kislev", Total: 720, Converted: 1440,
		Coins: []money.Holding{holding("ducat", "Ducat", 3, 240)},
	}}
	got, err := money.AutoAllocate.Allocate(context.Background(), 960, empire(), opts)
	require.NoError(t, err)
	assert.Equal(t, []money.Deduction{{ItemID: "ducat", Quantity: 2}}, got)
}

func TestAutoAllocate_NotEnough(t *testing.T) {
	opts := []money.AllocationOption{{
		RegionKey: "kislev", Total: 240, Converted: 480,
		Coins: []money.Holding{holding("ducat", "Ducat", 1, 240)},
	}}
	_, err := money.AutoAllocate.Allocate(context.Background(), 1000, empire(), opts)
	assert.True(t, errors.Is(err, money.ErrDeclined))
}

func TestProperty_AutoAllocate_CoversAndStaysWithinHoldings(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		ecu := rapid.IntRange(0, 20).Draw(rt, "ecu")
		denier := rapid.IntRange(0, 500).Draw(rt, "denier")
		total := ecu*240 + denier
		converted := int(float64(total) * 0.8)
		if converted == 0 {
			return
		}
		owed := rapid.IntRange(1, converted).Draw(rt, "owed")
		opts := []money.AllocationOption{{
			RegionKey: "bretonnia", Total: total, Converted: converted,
			Coins: []money.Holding{holding("ecu", "Ecu", ecu, 240), holding("den", "Denier", denier, 1)},
		}}
		got, err := money.AutoAllocate.Allocate(context.Background(), owed, empire(), opts)
		if err != nil {
			rt.Fatalf("Allocate(%d): %v", owed, err)
		}
		paid := 0.0
		for _, d := range got {
			switch d.ItemID {
			case "ecu":
				if d.Quantity > ecu {
					rt.Fatalf("took %d ecu of %d", d.Quantity, ecu)
				}
				paid += float64(d.Quantity) * 240 * float64(converted) / float64(total)
			case "den":
				if d.Quantity > denier {
					rt.Fatalf("took %d denier of %d", d.Quantity, denier)
				}
				paid += float64(d.Quantity) * float64(converted) / float64(total)
			}
		}
		if paid+1e-6 < float64(owed) {
			rt.Fatalf("paid %.3f < owed %d", paid, owed)
		}
	})
}
