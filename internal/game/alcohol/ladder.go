package alcohol

import (
	"fmt"

	"github.com/Robak132/MacrosCompanionModules/internal/game/condition"
)

// Group is the condition group holding the Consume Alcohol ladder.
const Group = "consumealcohol"

// Ladder steps an actor's condition set through three levels. The third
// level stacks: every further failure disables the current enabled copy and
// applies a fresh one, so all copies count as failures but only one applies
// its modifiers.
type Ladder struct {
	levels [3]*condition.ConditionDef
}

// NewLadder resolves levels 1..3 of group from reg.
//
// Postcondition: returns ErrIncompleteLadder when any level is missing.
func NewLadder(reg *condition.Registry, group string) (*Ladder, error) {
	l := &Ladder{}
	for i := range l.levels {
		def, ok := reg.Level(group, i+1)
		if !ok {
			return nil, fmt.Errorf("%w: %s level %d", ErrIncompleteLadder, group, i+1)
		}
		l.levels[i] = def
	}
	return l, nil
}

func (l *Ladder) level(n int) *condition.ConditionDef {
	return l.levels[n-1]
}

// Failures counts the failed tests the set represents: 1 or 2 for the first
// levels, otherwise 2 plus every level-3 copy, disabled or not.
func (l *Ladder) Failures(s *condition.ActiveSet) int {
	switch {
	case s.Has(l.level(1).ID):
		return 1
	case s.Has(l.level(2).ID):
		return 2
	}
	if n := s.Count(l.level(3).ID); n > 0 {
		return n + 2
	}
	return 0
}

// Increase records one more failure and returns the failure count before it.
//
// Postcondition: Failures(s) == before+1.
func (l *Ladder) Increase(s *condition.ActiveSet) (before int, err error) {
	before = l.Failures(s)
	switch {
	case before == 0:
		_, err = s.Apply(l.level(1))
	case before < 3:
		s.Remove(l.level(before).ID)
		_, err = s.Apply(l.level(before + 1))
	default:
		s.Disable(l.level(3).ID)
		_, err = s.Apply(l.level(3))
	}
	return before, err
}

// Reduce removes one failure and returns the failure count before it.
// A set with no failures is left untouched.
//
// Postcondition: Failures(s) == max(0, before-1).
func (l *Ladder) Reduce(s *condition.ActiveSet) (before int, err error) {
	before = l.Failures(s)
	switch {
	case before == 0:
	case before == 1:
		s.Remove(l.level(1).ID)
	case before <= 3:
		s.Remove(l.level(before).ID)
		_, err = s.Apply(l.level(before - 1))
	default:
		s.RemoveDisabled(l.level(3).ID)
	}
	return before, err
}

// RemoveAll clears every level of the ladder and returns how many condition
// instances were removed.
func (l *Ladder) RemoveAll(s *condition.ActiveSet) int {
	return s.RemoveGroup(l.level(1).Group)
}
