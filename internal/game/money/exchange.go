package money

import (
	"fmt"
	"math"
)

// truncEpsilon absorbs float error so that e.g. 100 * (1/1.2) * 1.2 truncates to 100.
const truncEpsilon = 1e-9

// Conversion is the result of exchanging a pence value between regions.
type Conversion struct {
	Converted int
	Rate      float64
}

// Exchange converts valuePence held in source currency into target currency.
// Rates are only recorded on the pivot region, so the conversion composes
// 1/pivot.ExchangeRates[source] and pivot.ExchangeRates[target], skipping a
// factor when that side is the pivot itself. The result truncates toward zero.
//
// Precondition: pivot is non-nil.
// Postcondition: source == target implies Converted == valuePence and Rate == 1;
// returns an error wrapping ErrNoMatchingRegion when a rate is missing.
func Exchange(valuePence int, pivot *Region, target, source string) (Conversion, error) {
	if source == target {
		return Conversion{Converted: valuePence, Rate: 1}, nil
	}

	rate := 1.0
	if source != pivot.Key {
		r, ok := pivot.ExchangeRates[source]
		if !ok {
			return Conversion{}, fmt.Errorf("exchange from %q via %q: %w", source, pivot.Key, ErrNoMatchingRegion)
		}
		rate *= 1 / r
	}
	if target != pivot.Key {
		r, ok := pivot.ExchangeRates[target]
		if !ok {
			return Conversion{}, fmt.Errorf("exchange to %q via %q: %w", target, pivot.Key, ErrNoMatchingRegion)
		}
		rate *= r
	}

	return Conversion{Converted: truncate(float64(valuePence) * rate), Rate: rate}, nil
}

func truncate(v float64) int {
	if v < 0 {
		return int(math.Ceil(v - truncEpsilon))
	}
	return int(math.Floor(v + truncEpsilon))
}

// RoundRate rounds a rate to two decimals for display.
func RoundRate(rate float64) float64 {
	return math.Round(rate*100) / 100
}
