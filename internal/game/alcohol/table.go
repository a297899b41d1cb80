package alcohol

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Robak132/MacrosCompanionModules/internal/game/dice"
)

// StinkingDrunk is the key of the table drawn when a drinker is overcome.
const StinkingDrunk = "stinking-drunk"

// TableResult is one row of a roll table, covering Range[0]..Range[1] inclusive.
type TableResult struct {
	Range [2]int `yaml:"range"`
	Text  string `yaml:"text"`
}

// Table is a roll table loaded from YAML.
type Table struct {
	Key     string        `yaml:"key"`
	Name    string        `yaml:"name"`
	Formula string        `yaml:"formula"`
	Results []TableResult `yaml:"results"`

	expr dice.Expression
}

// Draw is the outcome of rolling on a table.
type Draw struct {
	Table  string
	Roll   dice.RollResult
	Result TableResult
}

// Validate checks the formula and that the ranges are ordered and disjoint.
//
// Postcondition: Returns nil if valid, or an error describing all violations.
func (t *Table) Validate() error {
	var errs []error
	if t.Key == "" {
		errs = append(errs, fmt.Errorf("key must not be empty"))
	}
	expr, err := dice.Parse(t.Formula)
	if err != nil {
		errs = append(errs, err)
	}
	t.expr = expr
	if len(t.Results) == 0 {
		errs = append(errs, fmt.Errorf("results must not be empty"))
	}
	prev := 0
	for i, r := range t.Results {
		if r.Range[0] > r.Range[1] {
			errs = append(errs, fmt.Errorf("result %d: range %v is inverted", i, r.Range))
		}
		if i > 0 && r.Range[0] <= prev {
			errs = append(errs, fmt.Errorf("result %d: range %v overlaps previous", i, r.Range))
		}
		prev = r.Range[1]
	}
	if len(errs) > 0 {
		return fmt.Errorf("table %q validation failed: %v", t.Key, errs)
	}
	return nil
}

// Lookup returns the result whose range contains total.
func (t *Table) Lookup(total int) (TableResult, error) {
	for _, r := range t.Results {
		if total >= r.Range[0] && total <= r.Range[1] {
			return r, nil
		}
	}
	return TableResult{}, fmt.Errorf("%w: %s rolled %d", ErrNoTableResult, t.Key, total)
}

// Draw rolls the table formula with roller and looks up the result.
//
// Precondition: t was validated.
func (t *Table) Draw(roller Roller) (Draw, error) {
	roll := roller.Roll(t.expr)
	res, err := t.Lookup(roll.Total())
	if err != nil {
		return Draw{}, err
	}
	return Draw{Table: t.Key, Roll: roll, Result: res}, nil
}

// LoadTable reads and validates the table at path.
func LoadTable(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading table %q: %w", path, err)
	}
	var t Table
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&t); err != nil {
		return nil, fmt.Errorf("parsing table %q: %w", path, err)
	}
	if err := t.Validate(); err != nil {
		return nil, fmt.Errorf("%q: %w", path, err)
	}
	return &t, nil
}
