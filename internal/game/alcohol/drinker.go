package alcohol

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/Robak132/MacrosCompanionModules/internal/game/condition"
)

// Drinker is an actor able to take Consume Alcohol Tests.
type Drinker struct {
	ID         string
	Name       string
	Toughness  int
	Conditions *condition.ActiveSet
}

// ToughnessBonus is the tens digit of Toughness.
func (d Drinker) ToughnessBonus() int {
	return d.Toughness / 10
}

// Clone returns a copy of d with an independent condition set.
func (d Drinker) Clone() Drinker {
	c := d
	if d.Conditions != nil {
		c.Conditions = d.Conditions.Clone()
	} else {
		c.Conditions = condition.NewActiveSet()
	}
	return c
}

// Store loads and saves drinkers.
type Store interface {
	Drinker(ctx context.Context, id string) (Drinker, error)
	SaveDrinker(ctx context.Context, d Drinker) error
}

// MemoryStore is an in-memory Store safe for concurrent use.
type MemoryStore struct {
	mu       sync.RWMutex
	drinkers map[string]Drinker
}

// NewMemoryStore returns a MemoryStore seeded with drinkers.
func NewMemoryStore(drinkers ...Drinker) *MemoryStore {
	s := &MemoryStore{drinkers: make(map[string]Drinker, len(drinkers))}
	for _, d := range drinkers {
		s.drinkers[d.ID] = d.Clone()
	}
	return s
}

// Drinker returns a copy of the drinker with id.
func (s *MemoryStore) Drinker(_ context.Context, id string) (Drinker, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.drinkers[id]
	if !ok {
		return Drinker{}, fmt.Errorf("%w: %q", ErrDrinkerNotFound, id)
	}
	return d.Clone(), nil
}

// SaveDrinker stores a copy of d.
func (s *MemoryStore) SaveDrinker(_ context.Context, d Drinker) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drinkers[d.ID] = d.Clone()
	return nil
}

// Drinkers returns copies of all drinkers sorted by name.
func (s *MemoryStore) Drinkers() []Drinker {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Drinker, 0, len(s.drinkers))
	for _, d := range s.drinkers {
		out = append(out, d.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
