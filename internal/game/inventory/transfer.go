package inventory

import (
	"fmt"

	"github.com/google/uuid"
)

// TransferRequest asks to move Quantity units of ItemID from one actor's
// container to another's. ItemName is informational and used for reports.
type TransferRequest struct {
	ItemID            string `json:"itemId"`
	ItemName          string `json:"itemName,omitempty"`
	Quantity          int    `json:"quantity"`
	SourceActorID     string `json:"sourceActorId"`
	SourceContainerID string `json:"sourceContainerId"`
	TargetActorID     string `json:"targetActorId"`
	TargetContainerID string `json:"targetContainerId"`
}

// Local reports whether the request moves items within one actor.
func (r TransferRequest) Local() bool {
	return r.SourceActorID == r.TargetActorID
}

// EntryUpdate changes the quantity of an existing entry and optionally moves it.
// Location is nil when the entry stays where it is.
type EntryUpdate struct {
	ActorID  string
	ItemID   string
	Quantity int
	Location *string
	Unequip  bool
}

// EntryCreate adds a new entry to an actor.
type EntryCreate struct {
	ActorID string
	Entry   Entry
}

// EntryDelete removes an entry from an actor.
type EntryDelete struct {
	ActorID string
	ItemID  string
}

// Changeset is the complete state change of one or more transfers. A store
// commits it atomically.
type Changeset struct {
	Updates []EntryUpdate
	Creates []EntryCreate
	Deletes []EntryDelete
}

// Empty reports whether the changeset changes nothing.
func (c Changeset) Empty() bool {
	return len(c.Updates) == 0 && len(c.Creates) == 0 && len(c.Deletes) == 0
}

// Merge appends other's changes to c.
func (c Changeset) Merge(other Changeset) Changeset {
	return Changeset{
		Updates: append(append([]EntryUpdate(nil), c.Updates...), other.Updates...),
		Creates: append(append([]EntryCreate(nil), c.Creates...), other.Creates...),
		Deletes: append(append([]EntryDelete(nil), c.Deletes...), other.Deletes...),
	}
}

// Apply returns a copy of actor with the changes addressed to it applied.
// Entries are removed only by an explicit delete; an empty money stack stays.
func (c Changeset) Apply(actor Actor) Actor {
	out := actor
	out.Entries = make([]Entry, 0, len(actor.Entries))
	for _, e := range actor.Entries {
		out.Entries = append(out.Entries, e.Clone())
	}

	for _, u := range c.Updates {
		if u.ActorID != actor.ID {
			continue
		}
		for i := range out.Entries {
			if out.Entries[i].ItemID != u.ItemID {
				continue
			}
			out.Entries[i].Quantity = u.Quantity
			if u.Location != nil {
				out.Entries[i].Location = *u.Location
			}
			if u.Unequip {
				out.Entries[i].Equipped = false
				out.Entries[i].Worn = false
			}
		}
	}
	for _, cr := range c.Creates {
		if cr.ActorID == actor.ID {
			out.Entries = append(out.Entries, cr.Entry.Clone())
		}
	}

	deleted := make(map[string]bool)
	for _, d := range c.Deletes {
		if d.ActorID == actor.ID {
			deleted[d.ItemID] = true
		}
	}
	kept := out.Entries[:0]
	for _, e := range out.Entries {
		if !deleted[e.ItemID] {
			kept = append(kept, e)
		}
	}
	out.Entries = kept
	return out
}

// PlanTransfer computes the changeset moving req.Quantity units of an item
// from source to target. Source and target are the same snapshot for a move
// within one actor.
//
//  1. The destination container must have room (ValidateCapacity).
//  2. A stack equal under SameStack at the destination absorbs the quantity;
//     its equipped state and location are left untouched.
//  3. Otherwise a new unequipped entry is cloned at the destination, except
//     that a whole stack moved within one actor is relocated in place.
//  4. The source stack is decremented and deleted when it reaches zero.
//
// A move onto the entry's own location is a no-op.
//
// Postcondition: on error the returned changeset is empty.
func PlanTransfer(req TransferRequest, source, target *Actor) (Changeset, error) {
	if req.Quantity <= 0 {
		return Changeset{}, fmt.Errorf("PlanTransfer: quantity %d: %w", req.Quantity, ErrInvalidQuantity)
	}
	moving, ok := source.Entry(req.ItemID)
	if !ok || moving.Location != req.SourceContainerID {
		return Changeset{}, fmt.Errorf("PlanTransfer: item %q in %q of actor %q: %w",
			req.ItemID, req.SourceContainerID, req.SourceActorID, ErrItemNotFound)
	}
	if req.Quantity > moving.Quantity {
		return Changeset{}, fmt.Errorf("PlanTransfer: moving %d of %d %q: %w",
			req.Quantity, moving.Quantity, moving.Name, ErrInvalidQuantity)
	}
	if req.Local() && req.SourceContainerID == req.TargetContainerID {
		return Changeset{}, nil
	}
	if req.Local() && moving.IsContainer() && nestedIn(target, req.TargetContainerID, moving.ItemID) {
		return Changeset{}, fmt.Errorf("PlanTransfer: %q into itself or its contents: %w", moving.Name, ErrInvalidTransfer)
	}

	if moving.IsContainer() && !req.Local() {
		if held, _ := source.Container(moving.ItemID); len(held.Entries) > 0 {
			return Changeset{}, fmt.Errorf("PlanTransfer: %q still holds %d entries: %w",
				moving.Name, len(held.Entries), ErrInvalidTransfer)
		}
	}

	dest, err := target.Container(req.TargetContainerID)
	if err != nil {
		return Changeset{}, fmt.Errorf("PlanTransfer: %w", err)
	}
	if err := ValidateCapacity(moving, req.Quantity, dest); err != nil {
		return Changeset{}, err
	}

	var cs Changeset
	if merge, ok := FindMergeTarget(moving, dest.Entries); ok {
		cs.Updates = append(cs.Updates, EntryUpdate{
			ActorID:  target.ID,
			ItemID:   merge.ItemID,
			Quantity: merge.Quantity + req.Quantity,
		})
	} else if req.Local() && req.Quantity == moving.Quantity {
		location := dest.ID
		cs.Updates = append(cs.Updates, EntryUpdate{
			ActorID:  source.ID,
			ItemID:   moving.ItemID,
			Quantity: moving.Quantity,
			Location: &location,
			Unequip:  true,
		})
		return cs, nil
	} else {
		created := moving.Clone()
		created.ItemID = uuid.New().String()
		created.Quantity = req.Quantity
		created.Equipped = false
		created.Worn = false
		created.Location = dest.ID
		cs.Creates = append(cs.Creates, EntryCreate{ActorID: target.ID, Entry: created})
	}

	remaining := moving.Quantity - req.Quantity
	if remaining == 0 {
		cs.Deletes = append(cs.Deletes, EntryDelete{ActorID: source.ID, ItemID: moving.ItemID})
	} else {
		cs.Updates = append(cs.Updates, EntryUpdate{ActorID: source.ID, ItemID: moving.ItemID, Quantity: remaining})
	}
	return cs, nil
}

// nestedIn reports whether container id is ancestor or lies anywhere inside it.
func nestedIn(a *Actor, id, ancestor string) bool {
	for hops := 0; id != NoContainer && hops <= len(a.Entries); hops++ {
		if id == ancestor {
			return true
		}
		e, ok := a.Entry(id)
		if !ok {
			return false
		}
		id = e.Location
	}
	return false
}
