package chat

import (
	"sort"
	"strconv"
	"strings"

	"github.com/Robak132/MacrosCompanionModules/internal/game/money"
)

// formatCoins renders pence in a region's own coins, largest first,
// e.g. "2 Ecu 5 Denier". Value below the smallest coin is not shown.
func formatCoins(pence int, region *money.Region) string {
	coins := append([]money.Coin(nil), region.Coins...)
	sort.SliceStable(coins, func(i, j int) bool { return coins[i].Value > coins[j].Value })
	if pence <= 0 {
		return "0 " + coins[len(coins)-1].Name
	}
	var parts []string
	for _, c := range coins {
		if n := pence / c.Value; n > 0 {
			parts = append(parts, strconv.Itoa(n)+" "+c.Name)
			pence -= n * c.Value
		}
	}
	if len(parts) == 0 {
		return "0 " + coins[len(coins)-1].Name
	}
	return strings.Join(parts, " ")
}

func formatRate(rate float64) string {
	return strconv.FormatFloat(money.RoundRate(rate), 'f', -1, 64)
}

// formatNumber renders an encumbrance or advantage value without trailing zeros.
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func lines(ls ...string) string {
	return strings.Join(ls, "\n")
}
