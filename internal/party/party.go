// Package party loads the adventuring party from YAML and seeds the stores
// that track it: inventories, Consume Alcohol drinkers and XP recipients.
package party

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/Robak132/MacrosCompanionModules/internal/game/alcohol"
	"github.com/Robak132/MacrosCompanionModules/internal/game/inventory"
	"github.com/Robak132/MacrosCompanionModules/internal/game/xp"
)

// Member is one party member as loaded from YAML.
type Member struct {
	ID             string      `yaml:"id"`
	Name           string      `yaml:"name"`
	MaxEncumbrance float64     `yaml:"max_encumbrance"`
	Toughness      int         `yaml:"toughness"`
	XP             *Experience `yaml:"xp"`
	Items          []Grant     `yaml:"items"`
}

// Experience is a member's experience record. Modifier is "full" or "half".
type Experience struct {
	Total    int    `yaml:"total"`
	Current  int    `yaml:"current"`
	Modifier string `yaml:"modifier"`
}

// Grant places quantity units of a catalog item on a member. Ref names the
// stack so later grants can be stored in it with In.
type Grant struct {
	Item     string `yaml:"item"`
	Quantity int    `yaml:"quantity"`
	Ref      string `yaml:"ref"`
	In       string `yaml:"in"`
	Equipped bool   `yaml:"equipped"`
	Worn     bool   `yaml:"worn"`
}

type partyFile struct {
	Members []Member `yaml:"members"`
}

// Party is the loaded set of members, resolved against an item catalog.
type Party struct {
	Members []Member
	actors  []inventory.Actor
}

// Load reads the party file at path and builds every member's inventory
// from catalog.
//
// Precondition: path is a readable YAML file; catalog holds every granted item.
// Postcondition: returns a Party or an error describing all violations.
func Load(path string, catalog *inventory.Registry) (*Party, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("party: reading %q: %w", path, err)
	}
	var f partyFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("party: parsing %q: %w", path, err)
	}
	return New(f.Members, catalog)
}

// New validates members and builds their inventories.
func New(members []Member, catalog *inventory.Registry) (*Party, error) {
	var errs []error
	seen := make(map[string]bool, len(members))
	p := &Party{Members: members}
	for _, m := range members {
		if m.ID == "" || m.Name == "" {
			errs = append(errs, fmt.Errorf("member %q: id and name are required", m.Name))
			continue
		}
		if seen[m.ID] {
			errs = append(errs, fmt.Errorf("member %q: duplicate id", m.ID))
			continue
		}
		seen[m.ID] = true
		if m.XP != nil {
			if _, err := modifier(m.XP.Modifier); err != nil {
				errs = append(errs, fmt.Errorf("member %q: %w", m.ID, err))
			}
		}
		a, err := buildActor(m, catalog)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		p.actors = append(p.actors, a)
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("party validation failed: %w", errors.Join(errs...))
	}
	return p, nil
}

// buildActor turns grants into entries. Entry ids are derived from the
// member id so reseeding a store overwrites rather than duplicates.
func buildActor(m Member, catalog *inventory.Registry) (inventory.Actor, error) {
	a := inventory.Actor{ID: m.ID, Name: m.Name, MaxEncumbrance: m.MaxEncumbrance}
	refs := make(map[string]string)
	used := make(map[string]int)
	for i, g := range m.Items {
		def, ok := catalog.Item(g.Item)
		if !ok {
			return inventory.Actor{}, fmt.Errorf("member %q item %d: unknown item %q", m.ID, i, g.Item)
		}
		qty := g.Quantity
		if qty == 0 {
			qty = 1
		}
		if qty < 0 {
			return inventory.Actor{}, fmt.Errorf("member %q item %q: negative quantity", m.ID, g.Item)
		}
		location := inventory.NoContainer
		if g.In != "" {
			id, ok := refs[g.In]
			if !ok {
				return inventory.Actor{}, fmt.Errorf("member %q item %q: container %q is not declared before it", m.ID, g.Item, g.In)
			}
			location = id
		}

		base := g.Ref
		if base == "" {
			base = g.Item
		}
		used[base]++
		id := m.ID + "." + base
		if n := used[base]; n > 1 {
			id += "." + strconv.Itoa(n)
		}

		e := def.NewEntry(qty, location)
		e.ItemID = id
		e.Equipped = g.Equipped
		e.Worn = g.Worn
		a.Entries = append(a.Entries, e)

		if g.Ref != "" {
			if !e.IsContainer() {
				return inventory.Actor{}, fmt.Errorf("member %q ref %q: %q is not a container", m.ID, g.Ref, g.Item)
			}
			refs[g.Ref] = id
		}
	}
	return a, nil
}

func modifier(name string) (float64, error) {
	switch name {
	case "", "full":
		return xp.Full, nil
	case "half":
		return xp.Half, nil
	}
	return 0, fmt.Errorf("xp modifier must be full or half, got %q", name)
}

// Actors returns copies of the members' inventories.
func (p *Party) Actors() []inventory.Actor {
	out := make([]inventory.Actor, len(p.actors))
	for i, a := range p.actors {
		out[i] = a
		out[i].Entries = make([]inventory.Entry, len(a.Entries))
		for j, e := range a.Entries {
			out[i].Entries[j] = e.Clone()
		}
	}
	return out
}

// Drinkers returns every member with a Toughness characteristic.
func (p *Party) Drinkers() []alcohol.Drinker {
	var out []alcohol.Drinker
	for _, m := range p.Members {
		if m.Toughness > 0 {
			out = append(out, alcohol.Drinker{ID: m.ID, Name: m.Name, Toughness: m.Toughness})
		}
	}
	return out
}

// Recipients returns the XP record of every member that has one.
func (p *Party) Recipients() []xp.Recipient {
	var out []xp.Recipient
	for _, m := range p.Members {
		if m.XP == nil {
			continue
		}
		mod, _ := modifier(m.XP.Modifier)
		out = append(out, xp.Recipient{
			ActorID:  m.ID,
			Name:     m.Name,
			Total:    m.XP.Total,
			Current:  m.XP.Current,
			Modifier: mod,
			Enabled:  true,
		})
	}
	return out
}
