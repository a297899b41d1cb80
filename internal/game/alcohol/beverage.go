// Package alcohol tracks Consume Alcohol failures as a ladder of conditions
// and resolves drinking a beverage into tests, ladder steps and table draws.
package alcohol

import (
	"github.com/Robak132/MacrosCompanionModules/internal/game/dice"
)

// Beverage describes a drink and how hard it is to hold.
type Beverage struct {
	ID          string
	Name        string
	Difficulty  dice.Difficulty
	Strength    string
	Tests       int
	Description string
}

var beverages = []Beverage{
	{
		ID:          "small_beer",
		Name:        "Small Beer",
		Difficulty:  dice.Easy,
		Strength:    "Test (+40) per pint",
		Tests:       1,
		Description: "Small beer is a weak, low-alcohol beer, often consumed by children and the poor.",
	},
	{
		ID:          "ale",
		Name:        "Ale",
		Difficulty:  dice.Average,
		Strength:    "Test (+20) per pint",
		Tests:       1,
		Description: "Ale is the most common drink in the Empire, brewed in every town and village.",
	},
	{
		ID:          "dwarf_ale",
		Name:        "Dwarf Ale",
		Difficulty:  dice.Average,
		Strength:    "3 Tests (+20) per pint",
		Tests:       3,
		Description: "The most celebrated ales by renowned Dwarf breweries.",
	},
	{
		ID:          "bugman_ale",
		Name:        "Bugman's XXXXXX Ale",
		Difficulty:  dice.Average,
		Strength:    "4 Tests (+20) per pint",
		Tests:       4,
		Description: "The most famous and potent ale in the Old World.",
	},
	{
		ID:          "wine",
		Name:        "Wine",
		Difficulty:  dice.Average,
		Strength:    "Test (+20) per glass",
		Tests:       1,
		Description: "Wine is a luxury, and the quality of the wine is often a sign of the wealth of the host.",
	},
	{
		ID:          "spirit",
		Name:        "Spirit",
		Difficulty:  dice.Challenging,
		Strength:    "Test (+0) per shot",
		Tests:       1,
		Description: "Spirits are distilled alcoholic beverages, much stronger than beer or wine.",
	},
}

// Beverages returns the known beverages in display order.
func Beverages() []Beverage {
	out := make([]Beverage, len(beverages))
	copy(out, beverages)
	return out
}

// BeverageByID returns the beverage with id, or (Beverage{}, false).
func BeverageByID(id string) (Beverage, bool) {
	for _, b := range beverages {
		if b.ID == id {
			return b, true
		}
	}
	return Beverage{}, false
}
