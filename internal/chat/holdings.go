package chat

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/Robak132/MacrosCompanionModules/internal/game/inventory"
	"github.com/Robak132/MacrosCompanionModules/internal/game/money"
)

// CoinEncumbrance is the per-coin encumbrance of newly created money stacks.
const CoinEncumbrance = 0.005

// InventoryHoldings exposes the money entries of an inventory.Store as a
// money.HoldingStore.
type InventoryHoldings struct {
	store inventory.Store
}

// NewInventoryHoldings returns an adapter over store.
func NewInventoryHoldings(store inventory.Store) *InventoryHoldings {
	return &InventoryHoldings{store: store}
}

// Holdings returns the actor's money entries.
func (h *InventoryHoldings) Holdings(ctx context.Context, actorID string) ([]money.Holding, error) {
	a, err := h.store.Actor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	var out []money.Holding
	for _, e := range a.Entries {
		if e.Kind != inventory.KindMoney {
			continue
		}
		out = append(out, money.Holding{
			ItemID:    e.ItemID,
			Name:      e.Name,
			Quantity:  e.Quantity,
			CoinValue: e.CoinValue,
		})
	}
	return out, nil
}

// ApplyHoldings commits quantity updates and new loose money stacks in one
// changeset.
func (h *InventoryHoldings) ApplyHoldings(ctx context.Context, actorID string, updates, created []money.Holding) error {
	var cs inventory.Changeset
	for _, u := range updates {
		cs.Updates = append(cs.Updates, inventory.EntryUpdate{
			ActorID:  actorID,
			ItemID:   u.ItemID,
			Quantity: u.Quantity,
		})
	}
	for _, c := range created {
		id := c.ItemID
		if id == "" {
			id = uuid.New().String()
		}
		cs.Creates = append(cs.Creates, inventory.EntryCreate{
			ActorID: actorID,
			Entry: inventory.Entry{
				ItemID:      id,
				Name:        c.Name,
				Kind:        inventory.KindMoney,
				Quantity:    c.Quantity,
				Location:    inventory.NoContainer,
				Encumbrance: CoinEncumbrance,
				CoinValue:   c.CoinValue,
			},
		})
	}
	if cs.Empty() {
		return nil
	}
	if err := h.store.Commit(ctx, cs); err != nil {
		return fmt.Errorf("ApplyHoldings(%q): %w", actorID, err)
	}
	return nil
}
