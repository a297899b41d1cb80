package inventory

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// ItemDef defines the static properties of a catalog item loaded from YAML.
type ItemDef struct {
	ID                 string            `yaml:"id"`
	Name               string            `yaml:"name"`
	Description        string            `yaml:"description"`
	Kind               string            `yaml:"kind"`
	Encumbrance        float64           `yaml:"encumbrance"`
	Lightweight        bool              `yaml:"lightweight"`
	Bulky              bool              `yaml:"bulky"`
	WeighsLessEquipped bool              `yaml:"weighs_less_equipped"`
	Qualities          []string          `yaml:"qualities"`
	Flaws              []string          `yaml:"flaws"`
	CoinValue          int               `yaml:"coin_value"`
	Capacity           float64           `yaml:"capacity"`
	Properties         map[string]string `yaml:"properties"`
}

// Validate checks that the ItemDef satisfies its invariants.
//
// Precondition: d is non-nil.
// Postcondition: returns nil iff all fields are valid.
func (d *ItemDef) Validate() error {
	var errs []error
	if d.ID == "" {
		errs = append(errs, errors.New("ID must not be empty"))
	}
	if d.Name == "" {
		errs = append(errs, errors.New("Name must not be empty"))
	}
	if !validKinds[d.Kind] {
		errs = append(errs, fmt.Errorf("Kind must be one of weapon, ammunition, armour, money, trapping, container; got %q", d.Kind))
	}
	if d.Encumbrance < 0 {
		errs = append(errs, errors.New("Encumbrance must be >= 0"))
	}
	if d.Kind == KindMoney && d.CoinValue < 1 {
		errs = append(errs, errors.New("CoinValue must be >= 1 when Kind is money"))
	}
	if d.Kind == KindContainer && d.Capacity <= 0 {
		errs = append(errs, errors.New("Capacity must be > 0 when Kind is container"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("item validation failed: %v", errs)
	}
	return nil
}

// NewEntry returns a fresh stack of quantity units of d at location.
//
// Postcondition: the entry has a new unique ItemID and is unequipped.
func (d *ItemDef) NewEntry(quantity int, location string) Entry {
	e := Entry{
		ItemID:             uuid.New().String(),
		Name:               d.Name,
		Kind:               d.Kind,
		Quantity:           quantity,
		Location:           location,
		Encumbrance:        d.Encumbrance,
		Lightweight:        d.Lightweight,
		Bulky:              d.Bulky,
		WeighsLessEquipped: d.WeighsLessEquipped,
		Description:        d.Description,
		Qualities:          d.Qualities,
		Flaws:              d.Flaws,
		CoinValue:          d.CoinValue,
		Capacity:           d.Capacity,
		Properties:         d.Properties,
	}
	return e.Clone()
}

// LoadItems reads all *.yaml and *.yml files from dir. Each file holds either
// a single ItemDef or a list of them; every definition is validated.
//
// Precondition: dir is a readable directory path.
// Postcondition: returns all valid ItemDefs or the first encountered error.
func LoadItems(dir string) ([]*ItemDef, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("LoadItems: cannot read directory %q: %w", dir, err)
	}

	var items []*ItemDef
	for _, entry := range entries {
		ext := filepath.Ext(entry.Name())
		if entry.IsDir() || (ext != ".yaml" && ext != ".yml") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("LoadItems: cannot read file %q: %w", path, err)
		}
		defs, err := decodeItems(data)
		if err != nil {
			return nil, fmt.Errorf("LoadItems: cannot parse file %q: %w", path, err)
		}
		for _, d := range defs {
			if err := d.Validate(); err != nil {
				return nil, fmt.Errorf("LoadItems: invalid item in %q: %w", path, err)
			}
		}
		items = append(items, defs...)
	}
	return items, nil
}

func decodeItems(data []byte) ([]*ItemDef, error) {
	if strings.HasPrefix(strings.TrimSpace(string(data)), "-") {
		var defs []*ItemDef
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&defs); err != nil {
			return nil, err
		}
		return defs, nil
	}
	var d ItemDef
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&d); err != nil {
		return nil, err
	}
	return []*ItemDef{&d}, nil
}
