package inventory

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// MemoryStore is an in-memory Store.
// It is safe for concurrent use.
type MemoryStore struct {
	mu     sync.RWMutex
	actors map[string]Actor
}

// NewMemoryStore returns a MemoryStore holding copies of actors.
func NewMemoryStore(actors ...Actor) *MemoryStore {
	s := &MemoryStore{actors: make(map[string]Actor, len(actors))}
	for _, a := range actors {
		s.actors[a.ID] = Changeset{}.Apply(a)
	}
	return s
}

// Put inserts or replaces an actor.
func (s *MemoryStore) Put(a Actor) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.actors[a.ID] = Changeset{}.Apply(a)
}

// Actor returns a deep copy of the stored actor.
func (s *MemoryStore) Actor(_ context.Context, id string) (*Actor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.actors[id]
	if !ok {
		return nil, fmt.Errorf("actor %q: %w", id, ErrActorNotFound)
	}
	cp := Changeset{}.Apply(a)
	return &cp, nil
}

// Actors returns copies of all actors ordered by name.
func (s *MemoryStore) Actors(_ context.Context) ([]Actor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Actor, 0, len(s.actors))
	for _, a := range s.actors {
		out = append(out, Changeset{}.Apply(a))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Commit applies cs to every actor it touches. It fails without changes if
// any touched actor or updated entry is unknown.
func (s *MemoryStore) Commit(_ context.Context, cs Changeset) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	touched := make(map[string]bool)
	for _, u := range cs.Updates {
		a, ok := s.actors[u.ActorID]
		if !ok {
			return fmt.Errorf("Commit: actor %q: %w", u.ActorID, ErrActorNotFound)
		}
		if _, ok := a.Entry(u.ItemID); !ok {
			return fmt.Errorf("Commit: item %q of actor %q: %w", u.ItemID, u.ActorID, ErrItemNotFound)
		}
		touched[u.ActorID] = true
	}
	for _, c := range cs.Creates {
		if _, ok := s.actors[c.ActorID]; !ok {
			return fmt.Errorf("Commit: actor %q: %w", c.ActorID, ErrActorNotFound)
		}
		touched[c.ActorID] = true
	}
	for _, d := range cs.Deletes {
		if _, ok := s.actors[d.ActorID]; !ok {
			return fmt.Errorf("Commit: actor %q: %w", d.ActorID, ErrActorNotFound)
		}
		touched[d.ActorID] = true
	}

	for id := range touched {
		s.actors[id] = cs.Apply(s.actors[id])
	}
	return nil
}
