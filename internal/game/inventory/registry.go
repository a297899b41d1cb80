package inventory

import (
	"fmt"
	"sort"
	"strings"
)

// Registry holds all loaded item definitions indexed by ID.
type Registry struct {
	items map[string]*ItemDef
}

// NewRegistry returns an empty Registry.
//
// Postcondition: the internal map is initialised.
func NewRegistry() *Registry {
	return &Registry{items: make(map[string]*ItemDef)}
}

// RegisterItem adds d to the registry.
//
// Precondition:  d must not be nil.
// Postcondition: Item(d.ID) returns (d, true); returns error if d.ID already registered.
func (r *Registry) RegisterItem(d *ItemDef) error {
	if _, exists := r.items[d.ID]; exists {
		return fmt.Errorf("inventory: Registry.RegisterItem: item ID %q already registered", d.ID)
	}
	r.items[d.ID] = d
	return nil
}

// Item returns the ItemDef for the given id and whether it was found.
//
// Postcondition: ok is true iff the id is registered.
func (r *Registry) Item(id string) (*ItemDef, bool) {
	d, ok := r.items[id]
	return d, ok
}

// ByName returns the first ItemDef whose name matches case-insensitively.
func (r *Registry) ByName(name string) (*ItemDef, bool) {
	for _, d := range r.AllItems() {
		if strings.EqualFold(d.Name, name) {
			return d, true
		}
	}
	return nil, false
}

// AllItems returns all registered ItemDefs ordered by ID.
func (r *Registry) AllItems() []*ItemDef {
	out := make([]*ItemDef, 0, len(r.items))
	for _, d := range r.items {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
