package inventory_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/Robak132/MacrosCompanionModules/internal/game/inventory"
)

func twoActors() (*inventory.Actor, *inventory.Actor) {
	anna := &inventory.Actor{
		ID:   "anna",
		Name: "Anna",
		Entries: []inventory.Entry{
			backpack("pack-a", 10),
			in(rope("rope-a", 10), "pack-a"),
		},
	}
	bert := &inventory.Actor{
		ID:   "bert",
		Name: "Bert",
		Entries: []inventory.Entry{
			backpack("pack-b", 3),
			in(inventory.Entry{ItemID: "lamp", Name: "Lamp", Kind: inventory.KindTrapping, Quantity: 1, Encumbrance: 1}, "pack-b"),
		},
	}
	return anna, bert
}

func TestPlanTransfer_CapacityExceededChangesNothing(t *testing.T) {
	anna, bert := twoActors()
	req := inventory.TransferRequest{
		ItemID: "rope-a", Quantity: 5,
		SourceActorID: "anna", SourceContainerID: "pack-a",
		TargetActorID: "bert", TargetContainerID: "pack-b",
	}
	cs, err := inventory.PlanTransfer(req, anna, bert)
	assert.True(t, errors.Is(err, inventory.ErrCapacityExceeded))
	assert.True(t, cs.Empty())

	store := inventory.NewMemoryStore(*anna, *bert)
	res := inventory.NewResolver(store, nopLogger())
	_, err = res.Apply(ctxT(t), req)
	require.Error(t, err)

	a, _ := store.Actor(ctxT(t), "anna")
	b, _ := store.Actor(ctxT(t), "bert")
	assert.Equal(t, 10, quantityOf(a, "Rope (10 yards)"))
	assert.Equal(t, 0, quantityOf(b, "Rope (10 yards)"))
}

func TestPlanTransfer_PartialCreatesUnequippedClone(t *testing.T) {
	anna, bert := twoActors()
	anna.Entries[1].Equipped = true
	req := inventory.TransferRequest{
		ItemID: "rope-a", Quantity: 2,
		SourceActorID: "anna", SourceContainerID: "pack-a",
		TargetActorID: "bert", TargetContainerID: "pack-b",
	}
	cs, err := inventory.PlanTransfer(req, anna, bert)
	require.NoError(t, err)

	require.Len(t, cs.Creates, 1)
	created := cs.Creates[0]
	assert.Equal(t, "bert", created.ActorID)
	assert.NotEqual(t, "rope-a", created.Entry.ItemID)
	assert.NotEmpty(t, created.Entry.ItemID)
	assert.Equal(t, 2, created.Entry.Quantity)
	assert.False(t, created.Entry.Equipped)
	assert.Equal(t, "pack-b", created.Entry.Location)

	require.Len(t, cs.Updates, 1)
	assert.Equal(t, inventory.EntryUpdate{ActorID: "anna", ItemID: "rope-a", Quantity: 8}, cs.Updates[0])
	assert.Empty(t, cs.Deletes)
}

func TestPlanTransfer_MergesAndDeletesEmptiedSource(t *testing.T) {
	anna, bert := twoActors()
	bert.Entries = append(bert.Entries, rope("rope-b", 4))
	bert.Entries[len(bert.Entries)-1].Equipped = true
	req := inventory.TransferRequest{
		ItemID: "rope-a", Quantity: 10,
		SourceActorID: "anna", SourceContainerID: "pack-a",
		TargetActorID: "bert", TargetContainerID: inventory.NoContainer,
	}
	cs, err := inventory.PlanTransfer(req, anna, bert)
	require.NoError(t, err)

	assert.Empty(t, cs.Creates)
	assert.Equal(t, []inventory.EntryUpdate{{ActorID: "bert", ItemID: "rope-b", Quantity: 14}}, cs.Updates)
	assert.Equal(t, []inventory.EntryDelete{{ActorID: "anna", ItemID: "rope-a"}}, cs.Deletes)

	b := cs.Apply(*bert)
	merged, ok := b.Entry("rope-b")
	require.True(t, ok)
	assert.True(t, merged.Equipped, "destination stack keeps its equipped state")

	a := cs.Apply(*anna)
	_, ok = a.Entry("rope-a")
	assert.False(t, ok)
}

func TestPlanTransfer_WholeStackWithinActorIsRelocated(t *testing.T) {
	anna, _ := twoActors()
	anna.Entries[1].Equipped = true
	req := inventory.TransferRequest{
		ItemID: "rope-a", Quantity: 10,
		SourceActorID: "anna", SourceContainerID: "pack-a",
		TargetActorID: "anna", TargetContainerID: inventory.NoContainer,
	}
	cs, err := inventory.PlanTransfer(req, anna, anna)
	require.NoError(t, err)
	require.Len(t, cs.Updates, 1)
	assert.Empty(t, cs.Creates)
	assert.Empty(t, cs.Deletes)

	applied := cs.Apply(*anna)
	moved, ok := applied.Entry("rope-a")
	require.True(t, ok)
	assert.Equal(t, inventory.NoContainer, moved.Location)
	assert.Equal(t, 10, moved.Quantity)
	assert.False(t, moved.Equipped)
}

func TestPlanTransfer_SameLocationIsNoop(t *testing.T) {
	anna, _ := twoActors()
	cs, err := inventory.PlanTransfer(inventory.TransferRequest{
		ItemID: "rope-a", Quantity: 1,
		SourceActorID: "anna", SourceContainerID: "pack-a",
		TargetActorID: "anna", TargetContainerID: "pack-a",
	}, anna, anna)
	require.NoError(t, err)
	assert.True(t, cs.Empty())
}

func TestPlanTransfer_Rejects(t *testing.T) {
	anna, bert := twoActors()
	base := inventory.TransferRequest{
		ItemID: "rope-a", Quantity: 1,
		SourceActorID: "anna", SourceContainerID: "pack-a",
		TargetActorID: "bert", TargetContainerID: inventory.NoContainer,
	}
	tests := []struct {
		name   string
		mutate func(*inventory.TransferRequest)
		want   error
	}{
		{"zero quantity", func(r *inventory.TransferRequest) { r.Quantity = 0 }, inventory.ErrInvalidQuantity},
		{"too many", func(r *inventory.TransferRequest) { r.Quantity = 11 }, inventory.ErrInvalidQuantity},
		{"unknown item", func(r *inventory.TransferRequest) { r.ItemID = "ghost" }, inventory.ErrItemNotFound},
		{"wrong source container", func(r *inventory.TransferRequest) { r.SourceContainerID = "" }, inventory.ErrItemNotFound},
		{"unknown target container", func(r *inventory.TransferRequest) { r.TargetContainerID = "chest" }, inventory.ErrContainerNotFound},
		{"target is not a container", func(r *inventory.TransferRequest) { r.TargetContainerID = "lamp" }, inventory.ErrContainerNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := base
			tt.mutate(&req)
			_, err := inventory.PlanTransfer(req, anna, bert)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestPlanTransfer_ContainerRules(t *testing.T) {
	anna, bert := twoActors()

	_, err := inventory.PlanTransfer(inventory.TransferRequest{
		ItemID: "pack-a", Quantity: 1,
		SourceActorID: "anna", TargetActorID: "anna", TargetContainerID: "pack-a",
	}, anna, anna)
	assert.True(t, errors.Is(err, inventory.ErrInvalidTransfer))

	_, err = inventory.PlanTransfer(inventory.TransferRequest{
		ItemID: "pack-a", Quantity: 1,
		SourceActorID: "anna", TargetActorID: "bert",
	}, anna, bert)
	assert.True(t, errors.Is(err, inventory.ErrInvalidTransfer))

	nested := &inventory.Actor{
		ID:   "anna",
		Name: "Anna",
		Entries: []inventory.Entry{
			backpack("pack-a", 10),
			in(backpack("pack-b", 5), "pack-a"),
			in(backpack("pouch", 2), "pack-b"),
		},
	}
	for _, into := range []string{"pack-b", "pouch"} {
		_, err = inventory.PlanTransfer(inventory.TransferRequest{
			ItemID: "pack-a", Quantity: 1,
			SourceActorID: "anna", TargetActorID: "anna", TargetContainerID: into,
		}, nested, nested)
		assert.True(t, errors.Is(err, inventory.ErrInvalidTransfer), "into %s: got %v", into, err)
	}

	cs, err := inventory.PlanTransfer(inventory.TransferRequest{
		ItemID: "pouch", Quantity: 1, SourceContainerID: "pack-b",
		SourceActorID: "anna", TargetActorID: "anna", TargetContainerID: "pack-a",
	}, nested, nested)
	require.NoError(t, err)
	assert.False(t, cs.Empty())
}

func TestActor_Encumbrance(t *testing.T) {
	anna, _ := twoActors()
	anna.Entries = append(anna.Entries, rope("loose", 2))

	assert.InDelta(t, 3.0, anna.CurrentEncumbrance(), 1e-9)

	containers := anna.Containers()
	require.Len(t, containers, 2)
	assert.Equal(t, inventory.NoContainer, containers[0].ID)
	assert.Len(t, containers[0].Entries, 1)
	assert.Equal(t, "Backpack", containers[1].Name)
	assert.InDelta(t, 10.0, containers[1].Load(), 1e-9)
}

func TestProperty_PlanTransfer_ConservesQuantity(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		total := rapid.IntRange(1, 20).Draw(t, "total")
		held := rapid.IntRange(0, 5).Draw(t, "held")
		qty := rapid.IntRange(1, total).Draw(t, "qty")
		capacity := float64(rapid.IntRange(1, 30).Draw(t, "capacity"))

		anna := &inventory.Actor{ID: "anna", Entries: []inventory.Entry{rope("src", total)}}
		bert := &inventory.Actor{ID: "bert", Entries: []inventory.Entry{backpack("bag", capacity)}}
		if held > 0 {
			bert.Entries = append(bert.Entries, in(rope("dst", held), "bag"))
		}
		req := inventory.TransferRequest{
			ItemID: "src", Quantity: qty,
			SourceActorID: "anna", TargetActorID: "bert", TargetContainerID: "bag",
		}

		cs, err := inventory.PlanTransfer(req, anna, bert)
		fits := float64(qty+held) <= capacity
		if !fits {
			if !errors.Is(err, inventory.ErrCapacityExceeded) {
				t.Fatalf("expected capacity error, got %v", err)
			}
			return
		}
		if err != nil {
			t.Fatalf("PlanTransfer: %v", err)
		}

		a := cs.Apply(*anna)
		b := cs.Apply(*bert)
		if quantityOf(&a, "Rope (10 yards)") != total-qty {
			t.Fatalf("source has %d, want %d", quantityOf(&a, "Rope (10 yards)"), total-qty)
		}
		if quantityOf(&b, "Rope (10 yards)") != held+qty {
			t.Fatalf("target has %d, want %d", quantityOf(&b, "Rope (10 yards)"), held+qty)
		}
		bag, err := b.Container("bag")
		if err != nil {
			t.Fatal(err)
		}
		if bag.Load() > capacity {
			t.Fatalf("load %v exceeds capacity %v", bag.Load(), capacity)
		}
		for _, e := range a.Entries {
			if e.Quantity == 0 {
				t.Fatalf("zero-quantity entry left behind: %+v", e)
			}
		}
	})
}
