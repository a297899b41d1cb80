// Package advantage computes starting advantage for both sides of an
// encounter and the per-side totals used by the losing-advantage rule.
package advantage

import (
	"errors"
	"fmt"
)

// ErrUnknownOption is returned when a selection names an option a factor lacks.
var ErrUnknownOption = errors.New("unknown advantage option")

// Option is one choice for a Factor and the advantage it grants each side.
type Option struct {
	Key     string
	Label   string
	Players int
	Enemies int
}

// Factor is a circumstance weighed when an encounter starts.
type Factor struct {
	Key     string
	Label   string
	Default string
	Options []Option
}

// Option returns the option with key.
func (f Factor) Option(key string) (Option, bool) {
	for _, o := range f.Options {
		if o.Key == key {
			return o, true
		}
	}
	return Option{}, false
}

var factors = []Factor{
	{
		Key: "manoeuvrability", Label: "Manoeuvrability", Default: "static",
		Options: []Option{
			{Key: "mobile_enemies", Label: "Mobile Enemies", Enemies: 2},
			{Key: "static", Label: "Static forces"},
			{Key: "mobile_players", Label: "Mobile Players", Players: 2},
		},
	},
	{
		Key: "surprise", Label: "Surprise", Default: "none",
		Options: []Option{
			{Key: "enemies_surprised", Label: "Surprised Enemies", Players: 2},
			{Key: "none", Label: "No surprise"},
			{Key: "players_surprised", Label: "Surprised Players", Enemies: 2},
		},
	},
	{
		Key: "outnumbering", Label: "Outnumbering", Default: "equal",
		Options: []Option{
			{Key: "enemies_3to1", Label: "Enemies outnumber Players (3:1)", Enemies: 3},
			{Key: "enemies_2to1", Label: "Enemies outnumber Players (2:1)", Enemies: 2},
			{Key: "enemies", Label: "Enemies outnumber Players", Enemies: 1},
			{Key: "equal", Label: "Equal forces"},
			{Key: "players", Label: "Players outnumber Enemies", Players: 1},
			{Key: "players_2to1", Label: "Players outnumber Enemies (2:1)", Players: 2},
			{Key: "players_3to1", Label: "Players outnumber Enemies (3:1)", Players: 3},
		},
	},
	{
		Key: "terrain", Label: "Terrain", Default: "equal",
		Options: []Option{
			{Key: "players_heavy", Label: "Heavy cover (Players)", Players: 2},
			{Key: "players_light", Label: "Light cover (Players)", Players: 1},
			{Key: "equal", Label: "Equal"},
			{Key: "enemies_light", Label: "Light cover (Enemies)", Enemies: 1},
			{Key: "enemies_heavy", Label: "Heavy cover (Enemies)", Enemies: 2},
		},
	},
	{
		Key: "threat", Label: "Threat", Default: "none",
		Options: []Option{
			{Key: "players_extreme", Label: "Extremely Dangerous (Players)", Players: 3},
			{Key: "players_very", Label: "Very Dangerous (Players)", Players: 2},
			{Key: "players_dangerous", Label: "Dangerous (Players)", Players: 1},
			{Key: "none", Label: "None"},
			{Key: "enemies_dangerous", Label: "Dangerous (Enemies)", Enemies: 1},
			{Key: "enemies_very", Label: "Very Dangerous (Enemies)", Enemies: 2},
			{Key: "enemies_extreme", Label: "Extremely Dangerous (Enemies)", Enemies: 3},
		},
	},
}

// Factors returns the encounter factors in display order.
func Factors() []Factor {
	out := make([]Factor, len(factors))
	copy(out, factors)
	return out
}

// Initial is the starting advantage of each side.
type Initial struct {
	Players int
	Enemies int
}

// Calculate sums the advantage granted by the selected option of every
// factor. Factors missing from selection use their default option.
//
// Postcondition: returns ErrUnknownOption for an unknown factor or option key.
func Calculate(selection map[string]string) (Initial, error) {
	seen := 0
	var out Initial
	for _, f := range factors {
		key, ok := selection[f.Key]
		if ok {
			seen++
		} else {
			key = f.Default
		}
		o, ok := f.Option(key)
		if !ok {
			return Initial{}, fmt.Errorf("%w: %s=%q", ErrUnknownOption, f.Key, key)
		}
		out.Players += o.Players
		out.Enemies += o.Enemies
	}
	if seen != len(selection) {
		for k := range selection {
			if !knownFactor(k) {
				return Initial{}, fmt.Errorf("%w: factor %q", ErrUnknownOption, k)
			}
		}
	}
	return out, nil
}

func knownFactor(key string) bool {
	for _, f := range factors {
		if f.Key == key {
			return true
		}
	}
	return false
}
