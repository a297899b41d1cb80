// Package condition holds condition definitions loaded from YAML and the
// per-actor sets of active condition instances.
package condition

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// ConditionDef is the static definition of a condition, loaded from YAML.
type ConditionDef struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	// Group ties the levels of a ladder together, e.g. "consumealcohol".
	Group string `yaml:"group"`
	// Level is the rung of the condition within its Group; 0 when ungrouped.
	Level int `yaml:"level"`
	// Modifiers maps a characteristic key ("ws", "bs", "ag", ...) to the
	// test modifier applied while the condition is enabled.
	Modifiers map[string]int `yaml:"modifiers"`
}

// Validate checks that the definition is usable.
//
// Postcondition: Returns nil if valid, or an error describing all violations.
func (d *ConditionDef) Validate() error {
	var errs []error
	if d.ID == "" {
		errs = append(errs, fmt.Errorf("id must not be empty"))
	}
	if d.Name == "" {
		errs = append(errs, fmt.Errorf("name must not be empty"))
	}
	if d.Level < 0 {
		errs = append(errs, fmt.Errorf("level must be >= 0, got %d", d.Level))
	}
	if d.Level > 0 && d.Group == "" {
		errs = append(errs, fmt.Errorf("level %d requires a group", d.Level))
	}
	if len(errs) > 0 {
		return fmt.Errorf("condition %q validation failed: %v", d.ID, errs)
	}
	return nil
}

// Registry holds all known ConditionDefs keyed by ID.
type Registry struct {
	defs map[string]*ConditionDef
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{defs: make(map[string]*ConditionDef)}
}

// Register adds def to the registry, overwriting any existing entry with the same ID.
// Precondition: def must not be nil and def.ID must not be empty.
func (r *Registry) Register(def *ConditionDef) {
	r.defs[def.ID] = def
}

// Get returns the ConditionDef for id, or (nil, false) if not found.
func (r *Registry) Get(id string) (*ConditionDef, bool) {
	d, ok := r.defs[id]
	return d, ok
}

// Level returns the definition at level within group, or (nil, false).
func (r *Registry) Level(group string, level int) (*ConditionDef, bool) {
	for _, d := range r.defs {
		if d.Group == group && d.Level == level {
			return d, true
		}
	}
	return nil, false
}

// All returns all registered ConditionDefs sorted by ID.
func (r *Registry) All() []*ConditionDef {
	out := make([]*ConditionDef, 0, len(r.defs))
	for _, d := range r.defs {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// LoadDirectory reads every *.yaml and *.yml file in dir, parses each as a
// ConditionDef, and returns a populated Registry.
// Precondition: dir must be a readable directory.
// Postcondition: Returns a non-nil Registry, or an error if any file fails to parse or validate.
func LoadDirectory(dir string) (*Registry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading condition dir %q: %w", dir, err)
	}
	reg := NewRegistry()
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		path := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", path, err)
		}
		var def ConditionDef
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&def); err != nil {
			return nil, fmt.Errorf("parsing %q: %w", path, err)
		}
		if err := def.Validate(); err != nil {
			return nil, fmt.Errorf("%q: %w", path, err)
		}
		reg.Register(&def)
	}
	return reg, nil
}
