package money

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// Coin is one denomination recognised by a region.
type Coin struct {
	Key   string `yaml:"key"`
	Name  string `yaml:"name"`
	Icon  string `yaml:"img"`
	Value int    `yaml:"value"`
}

// Region is a named currency zone with its own coins and exchange rates.
// ExchangeRates are multipliers relative to this region; only the pivot
// region's rates are consulted during conversion.
type Region struct {
	Key           string             `yaml:"key"`
	Name          string             `yaml:"name"`
	Coins         []Coin             `yaml:"coins"`
	ExchangeRates map[string]float64 `yaml:"exchange_rates"`
}

// MainCoin returns the highest-valued coin of the region.
//
// Precondition: r has at least one coin.
func (r *Region) MainCoin() Coin {
	main := r.Coins[0]
	for _, c := range r.Coins[1:] {
		if c.Value > main.Value {
			main = c
		}
	}
	return main
}

// CoinByValue returns the region's coin worth exactly value pence.
func (r *Region) CoinByValue(value int) (Coin, bool) {
	for _, c := range r.Coins {
		if c.Value == value {
			return c, true
		}
	}
	return Coin{}, false
}

// HasCoin reports whether name is one of the region's coin names.
func (r *Region) HasCoin(name string) bool {
	for _, c := range r.Coins {
		if c.Name == name {
			return true
		}
	}
	return false
}

// Validate checks that the Region satisfies its invariants.
//
// Postcondition: returns nil iff key, name and coins are valid.
func (r *Region) Validate() error {
	var errs []error
	if r.Key == "" {
		errs = append(errs, errors.New("key must not be empty"))
	}
	if r.Name == "" {
		errs = append(errs, errors.New("name must not be empty"))
	}
	if len(r.Coins) == 0 {
		errs = append(errs, errors.New("at least one coin is required"))
	}
	for _, c := range r.Coins {
		if c.Name == "" {
			errs = append(errs, errors.New("coin name must not be empty"))
		}
		if c.Value < 1 {
			errs = append(errs, fmt.Errorf("coin %q value must be >= 1", c.Name))
		}
	}
	for key, rate := range r.ExchangeRates {
		if rate <= 0 {
			errs = append(errs, fmt.Errorf("exchange rate for %q must be > 0", key))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("region %q validation failed: %v", r.Key, errs)
	}
	return nil
}

// LoadRegions reads a YAML document mapping region keys to region bodies.
// A body without an explicit key inherits the map key.
//
// Precondition: path is a readable YAML file.
// Postcondition: Returns valid regions sorted by key, or an error.
func LoadRegions(path string) ([]*Region, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("LoadRegions: cannot read %q: %w", path, err)
	}

	raw := map[string]*Region{}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("LoadRegions: cannot parse %q: %w", path, err)
	}

	regions := make([]*Region, 0, len(raw))
	for key, r := range raw {
		if r == nil {
			return nil, fmt.Errorf("LoadRegions: region %q has no body", key)
		}
		if r.Key == "" {
			r.Key = key
		}
		if r.Key != key {
			return nil, fmt.Errorf("LoadRegions: region key %q does not match map key %q", r.Key, key)
		}
		if err := r.Validate(); err != nil {
			return nil, fmt.Errorf("LoadRegions: %w", err)
		}
		regions = append(regions, r)
	}
	sort.Slice(regions, func(i, j int) bool { return regions[i].Key < regions[j].Key })
	return regions, nil
}

// RegionSet is the process-wide, read-only registry of loaded regions with a
// designated pivot region and a coin-name lookup table.
type RegionSet struct {
	regions map[string]*Region
	keys    []string
	pivot   *Region
	byCoin  map[string]*Region
}

// NewRegionSet indexes regions and selects the pivot region.
//
// Precondition: region keys and coin names are unique across regions.
// Postcondition: Returns a RegionSet whose Pivot() has key pivotKey, or an error.
func NewRegionSet(regions []*Region, pivotKey string) (*RegionSet, error) {
	s := &RegionSet{
		regions: make(map[string]*Region, len(regions)),
		byCoin:  make(map[string]*Region),
	}
	for _, r := range regions {
		if _, exists := s.regions[r.Key]; exists {
			return nil, fmt.Errorf("money: NewRegionSet: region %q already registered", r.Key)
		}
		s.regions[r.Key] = r
		s.keys = append(s.keys, r.Key)
		for _, c := range r.Coins {
			if other, exists := s.byCoin[c.Name]; exists {
				return nil, fmt.Errorf("money: NewRegionSet: coin %q claimed by %q and %q", c.Name, other.Key, r.Key)
			}
			s.byCoin[c.Name] = r
		}
	}
	sort.Strings(s.keys)

	pivot, ok := s.regions[pivotKey]
	if !ok {
		return nil, fmt.Errorf("money: NewRegionSet: pivot %q: %w", pivotKey, ErrNoMatchingRegion)
	}
	s.pivot = pivot
	return s, nil
}

// Pivot returns the current region all exchange rates are anchored to.
func (s *RegionSet) Pivot() *Region {
	return s.pivot
}

// Region returns the region for key and whether it exists.
// The empty key resolves to the pivot region.
func (s *RegionSet) Region(key string) (*Region, bool) {
	if key == "" {
		return s.pivot, true
	}
	r, ok := s.regions[key]
	return r, ok
}

// RegionForCoin returns the region recognising the coin with the given name.
func (s *RegionSet) RegionForCoin(name string) (*Region, bool) {
	r, ok := s.byCoin[name]
	return r, ok
}

// Regions returns all regions ordered by key.
func (s *RegionSet) Regions() []*Region {
	out := make([]*Region, 0, len(s.keys))
	for _, k := range s.keys {
		out = append(out, s.regions[k])
	}
	return out
}

// Exchange converts value pence from source to target through the pivot region.
func (s *RegionSet) Exchange(value int, target, source string) (Conversion, error) {
	return Exchange(value, s.pivot, target, source)
}
