package condition

import (
	"fmt"

	"github.com/google/uuid"
)

// ActiveCondition is one applied instance of a condition on an actor.
// A condition may be applied more than once; disabled instances still count
// towards ladders but contribute no modifiers.
type ActiveCondition struct {
	InstanceID string
	Def        *ConditionDef
	Disabled   bool
}

// ActiveSet tracks all condition instances currently applied to one actor,
// in application order.
// It is not safe for concurrent use; the caller must serialise access.
type ActiveSet struct {
	instances []*ActiveCondition
}

// NewActiveSet creates an empty ActiveSet.
func NewActiveSet() *ActiveSet {
	return &ActiveSet{}
}

// Apply adds a new enabled instance of def.
//
// Precondition: def must not be nil.
// Postcondition: Count(def.ID) is incremented by one.
func (s *ActiveSet) Apply(def *ConditionDef) (*ActiveCondition, error) {
	if def == nil {
		return nil, fmt.Errorf("Apply: def must not be nil")
	}
	ac := &ActiveCondition{InstanceID: uuid.NewString(), Def: def}
	s.instances = append(s.instances, ac)
	return ac, nil
}

// Remove deletes the most recently applied instance of id, preferring
// enabled instances. It reports whether an instance was removed.
func (s *ActiveSet) Remove(id string) bool {
	if i := s.lastIndex(id, false); i >= 0 {
		s.removeAt(i)
		return true
	}
	if i := s.lastIndex(id, true); i >= 0 {
		s.removeAt(i)
		return true
	}
	return false
}

// Disable marks one enabled instance of id as disabled.
// It reports whether an enabled instance was found.
func (s *ActiveSet) Disable(id string) bool {
	i := s.lastIndex(id, false)
	if i < 0 {
		return false
	}
	s.instances[i].Disabled = true
	return true
}

// RemoveDisabled deletes one disabled instance of id.
// It reports whether a disabled instance was found.
func (s *ActiveSet) RemoveDisabled(id string) bool {
	i := s.lastIndex(id, true)
	if i < 0 {
		return false
	}
	s.removeAt(i)
	return true
}

// RemoveGroup deletes every instance whose definition belongs to group and
// returns how many were removed.
func (s *ActiveSet) RemoveGroup(group string) int {
	kept := s.instances[:0]
	removed := 0
	for _, ac := range s.instances {
		if ac.Def.Group == group {
			removed++
			continue
		}
		kept = append(kept, ac)
	}
	for i := len(kept); i < len(s.instances); i++ {
		s.instances[i] = nil
	}
	s.instances = kept
	return removed
}

// Has reports whether at least one instance of id is applied, enabled or not.
func (s *ActiveSet) Has(id string) bool {
	return s.Count(id) > 0
}

// Count returns the number of applied instances of id, including disabled ones.
func (s *ActiveSet) Count(id string) int {
	n := 0
	for _, ac := range s.instances {
		if ac.Def.ID == id {
			n++
		}
	}
	return n
}

// Modifiers sums the characteristic modifiers of all enabled instances.
//
// Postcondition: keys with a zero total are omitted.
func (s *ActiveSet) Modifiers() map[string]int {
	out := make(map[string]int)
	for _, ac := range s.instances {
		if ac.Disabled {
			continue
		}
		for k, v := range ac.Def.Modifiers {
			out[k] += v
		}
	}
	for k, v := range out {
		if v == 0 {
			delete(out, k)
		}
	}
	return out
}

// All returns copies of the applied instances in application order.
func (s *ActiveSet) All() []ActiveCondition {
	out := make([]ActiveCondition, len(s.instances))
	for i, ac := range s.instances {
		out[i] = *ac
	}
	return out
}

// Clone returns an independent copy of s. Definitions are shared.
func (s *ActiveSet) Clone() *ActiveSet {
	c := &ActiveSet{instances: make([]*ActiveCondition, len(s.instances))}
	for i, ac := range s.instances {
		cp := *ac
		c.instances[i] = &cp
	}
	return c
}

func (s *ActiveSet) lastIndex(id string, disabled bool) int {
	for i := len(s.instances) - 1; i >= 0; i-- {
		ac := s.instances[i]
		if ac.Def.ID == id && ac.Disabled == disabled {
			return i
		}
	}
	return -1
}

func (s *ActiveSet) removeAt(i int) {
	copy(s.instances[i:], s.instances[i+1:])
	s.instances[len(s.instances)-1] = nil
	s.instances = s.instances[:len(s.instances)-1]
}
