// Package inventory resolves item transfers between actors and containers:
// per-stack encumbrance, stack merging, container capacity and the planned
// state change of a transfer.
package inventory

import (
	"fmt"
	"maps"
	"math"
	"slices"
	"sort"
)

// Kind constants for Entry.Kind and ItemDef.Kind.
const (
	KindWeapon     = "weapon"
	KindAmmunition = "ammunition"
	KindArmour     = "armour"
	KindMoney      = "money"
	KindTrapping   = "trapping"
	KindContainer  = "container"
)

// validKinds is the set of valid item kinds.
var validKinds = map[string]bool{
	KindWeapon:     true,
	KindAmmunition: true,
	KindArmour:     true,
	KindMoney:      true,
	KindTrapping:   true,
	KindContainer:  true,
}

// NoContainer is the location of items carried outside any container.
const NoContainer = ""

// Entry is one stack of an item owned by an actor.
// Encumbrance is the per-unit value before quality adjustments.
type Entry struct {
	ItemID             string
	Name               string
	Kind               string
	Quantity           int
	Equipped           bool
	Worn               bool
	Location           string
	Encumbrance        float64
	Lightweight        bool
	Bulky              bool
	WeighsLessEquipped bool
	Description        string
	Qualities          []string
	Flaws              []string
	CoinValue          int
	Capacity           float64
	Properties         map[string]string
}

// Clone returns a deep copy of e.
func (e Entry) Clone() Entry {
	out := e
	out.Qualities = slices.Clone(e.Qualities)
	out.Flaws = slices.Clone(e.Flaws)
	out.Properties = maps.Clone(e.Properties)
	return out
}

// IsContainer reports whether the entry can hold other entries.
func (e Entry) IsContainer() bool {
	return e.Kind == KindContainer
}

// Container is a view of the entries stored at one location of an actor.
// The NoContainer location has unlimited capacity.
type Container struct {
	ID       string
	Name     string
	Capacity float64
	Entries  []Entry
}

// Unlimited reports whether the container accepts any load.
func (c Container) Unlimited() bool {
	return c.ID == NoContainer
}

// Load returns the summed encumbrance of the contained entries, rounded to
// two decimals.
func (c Container) Load() float64 {
	var total float64
	for _, e := range c.Entries {
		total += ComputeEncumbrance(e)
	}
	return round2(total)
}

// Actor is an immutable snapshot of an actor's inventory.
type Actor struct {
	ID             string
	Name           string
	MaxEncumbrance float64
	Entries        []Entry
}

// Entry returns the entry with itemID and whether it exists.
func (a *Actor) Entry(itemID string) (Entry, bool) {
	for _, e := range a.Entries {
		if e.ItemID == itemID {
			return e, true
		}
	}
	return Entry{}, false
}

// Container returns the view of location id. The NoContainer location always
// exists; any other id must name a container entry of the actor.
//
// Postcondition: returns an error wrapping ErrContainerNotFound when id is unknown.
func (a *Actor) Container(id string) (Container, error) {
	c := Container{ID: id, Name: "No Container"}
	if id != NoContainer {
		holder, ok := a.Entry(id)
		if !ok || !holder.IsContainer() {
			return Container{}, fmt.Errorf("actor %q container %q: %w", a.ID, id, ErrContainerNotFound)
		}
		c.Name = holder.Name
		c.Capacity = holder.Capacity
	}
	for _, e := range a.Entries {
		if e.Location == id && !(id == NoContainer && e.IsContainer()) {
			c.Entries = append(c.Entries, e)
		}
	}
	return c, nil
}

// Containers returns the NoContainer view followed by every container entry,
// ordered by name.
func (a *Actor) Containers() []Container {
	loose, _ := a.Container(NoContainer)
	out := []Container{loose}

	var holders []Entry
	for _, e := range a.Entries {
		if e.IsContainer() {
			holders = append(holders, e)
		}
	}
	sort.SliceStable(holders, func(i, j int) bool { return holders[i].Name < holders[j].Name })
	for _, h := range holders {
		c, err := a.Container(h.ItemID)
		if err == nil {
			out = append(out, c)
		}
	}
	return out
}

// CurrentEncumbrance returns the load the actor carries: loose entries plus
// each container's own encumbrance. A container's contents are not counted.
func (a *Actor) CurrentEncumbrance() float64 {
	var total float64
	for _, e := range a.Entries {
		if e.IsContainer() || e.Location == NoContainer {
			total += ComputeEncumbrance(e)
		}
	}
	return round2(total)
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
