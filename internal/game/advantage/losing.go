package advantage

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// Disposition is the side a combatant fights for.
type Disposition int

// Dispositions in report order.
const (
	Allies  Disposition = 1
	Neutral Disposition = 0
	Enemies Disposition = -1
)

// String returns the disposition name.
func (d Disposition) String() string {
	switch d {
	case Allies:
		return "allies"
	case Neutral:
		return "neutral"
	case Enemies:
		return "enemies"
	}
	return fmt.Sprintf("disposition(%d)", int(d))
}

var sizeNums = map[string]int{
	"tiny": 0,
	"ltl":  1,
	"sml":  2,
	"avg":  3,
	"lrg":  4,
	"enor": 5,
	"mnst": 6,
}

// Combatant is one participant of an encounter. Size is a size key such as
// "avg" or "lrg"; combatants without a size are ignored.
type Combatant struct {
	Name        string
	Disposition Disposition
	Size        string
	Drilled     bool
	Defeated    bool
}

// Member is a combatant's contribution to its side.
type Member struct {
	Name     string
	Value    float64
	Drilled  bool
	Defeated bool
}

// Side totals the group advantage weight of one disposition.
type Side struct {
	Disposition Disposition
	Total       float64
	Members     []Member
}

// SizeValue returns 2^(size-3) for a size key, so an average combatant is 1.
func SizeValue(size string) (float64, error) {
	n, ok := sizeNums[strings.ToLower(size)]
	if !ok {
		return 0, fmt.Errorf("unknown size %q", size)
	}
	return math.Pow(2, float64(n-3)), nil
}

// Losing groups combatants by disposition in the order allies, neutral,
// enemies. Drilled combatants count double. Defeated combatants are listed
// but excluded from the total. Members are sorted by value descending, then
// by name.
func Losing(combatants []Combatant) ([]Side, error) {
	byDisp := make(map[Disposition]*Side)
	for _, c := range combatants {
		if c.Size == "" {
			continue
		}
		v, err := SizeValue(c.Size)
		if err != nil {
			return nil, fmt.Errorf("combatant %q: %w", c.Name, err)
		}
		if c.Drilled {
			v *= 2
		}
		side, ok := byDisp[c.Disposition]
		if !ok {
			side = &Side{Disposition: c.Disposition}
			byDisp[c.Disposition] = side
		}
		side.Members = append(side.Members, Member{Name: c.Name, Value: v, Drilled: c.Drilled, Defeated: c.Defeated})
		if !c.Defeated {
			side.Total += v
		}
	}

	var out []Side
	for _, d := range []Disposition{Allies, Neutral, Enemies} {
		side, ok := byDisp[d]
		if !ok {
			continue
		}
		sort.SliceStable(side.Members, func(i, j int) bool {
			a, b := side.Members[i], side.Members[j]
			if a.Value != b.Value {
				return a.Value > b.Value
			}
			return a.Name < b.Name
		})
		out = append(out, *side)
	}
	return out, nil
}
