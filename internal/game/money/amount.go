// Package money implements denomination arithmetic for regional currencies:
// consolidating amounts into gold/silver/pence, converting between regions
// through a pivot region, resolving payments against held coin stacks, and
// splitting or crediting amounts.
package money

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

const (
	// PencePerSilver is the number of base-unit pence in one silver shilling.
	PencePerSilver = 12
	// PencePerGold is the number of base-unit pence in one gold crown (20 shillings).
	PencePerGold = 240
)

// Amount is a sum of money expressed in the three canonical denominations.
// Amounts are transient values; they are never persisted by this package.
type Amount struct {
	Gold   int
	Silver int
	Pence  int
}

// Consolidated is the canonical form of an Amount together with its total in pence.
type Consolidated struct {
	Amount
	Total int
}

// Total returns the amount expressed in pence.
//
// Postcondition: result == Gold*240 + Silver*12 + Pence.
func (a Amount) Total() int {
	return a.Gold*PencePerGold + a.Silver*PencePerSilver + a.Pence
}

// IsZero reports whether the amount is worth nothing.
func (a Amount) IsZero() bool {
	return a.Total() == 0
}

// String returns the abbreviated form, e.g. "1gc 2ss 3bp".
func (a Amount) String() string {
	return fmt.Sprintf("%dgc %dss %dbp", a.Gold, a.Silver, a.Pence)
}

// FromPence decomposes a total pence value into denominations.
//
// Precondition: total >= 0.
// Postcondition: gold*240 + silver*12 + pence == total; 0 <= silver < 20; 0 <= pence < 12.
func FromPence(total int) Amount {
	gold := total / PencePerGold
	remainder := total % PencePerGold
	return Amount{
		Gold:   gold,
		Silver: remainder / PencePerSilver,
		Pence:  remainder % PencePerSilver,
	}
}

// Consolidate reduces a to its canonical denominations.
// Negative inputs produce negative totals; callers reject them upstream.
//
// Postcondition: Consolidate(Consolidate(a).Amount) == Consolidate(a);
// result.Total == a.Total().
func Consolidate(a Amount) Consolidated {
	total := a.Total()
	return Consolidated{Amount: FromPence(total), Total: total}
}

// FormatPence renders a pence total in canonical abbreviated form.
func FormatPence(total int) string {
	return FromPence(total).String()
}

// MaxDenomination bounds each parsed denomination so that totals stay within int.
const MaxDenomination = 1_000_000_000

var amountToken = regexp.MustCompile(`(\d+)\s*([a-zA-Z]+)`)

// ParseAmount parses a money transaction string such as "1gc 2ss 3bp",
// "1g2s3b" or "15bp". Denomination suffixes are case-insensitive and each
// denomination may appear at most once.
//
// Postcondition: Returns the parsed Amount, or an error wrapping ErrInvalidAmountFormat.
func ParseAmount(s string) (Amount, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Amount{}, fmt.Errorf("%w: empty amount", ErrInvalidAmountFormat)
	}

	var a Amount
	seen := make(map[string]bool, 3)
	consumed := 0
	for _, m := range amountToken.FindAllStringSubmatchIndex(s, -1) {
		if strings.TrimSpace(s[consumed:m[0]]) != "" {
			return Amount{}, fmt.Errorf("%w: unexpected %q", ErrInvalidAmountFormat, s[consumed:m[0]])
		}
		consumed = m[1]

		n, err := strconv.Atoi(s[m[2]:m[3]])
		if err != nil {
			return Amount{}, fmt.Errorf("%w: %v", ErrInvalidAmountFormat, err)
		}
		if n > MaxDenomination {
			return Amount{}, fmt.Errorf("%w: %d exceeds %d", ErrInvalidAmountFormat, n, MaxDenomination)
		}
		unit := denomination(strings.ToLower(s[m[4]:m[5]]))
		if unit == "" {
			return Amount{}, fmt.Errorf("%w: unknown denomination %q", ErrInvalidAmountFormat, s[m[4]:m[5]])
		}
		if seen[unit] {
			return Amount{}, fmt.Errorf("%w: denomination %q repeated", ErrInvalidAmountFormat, unit)
		}
		seen[unit] = true

		switch unit {
		case "gc":
			a.Gold = n
		case "ss":
			a.Silver = n
		case "bp":
			a.Pence = n
		}
	}
	if len(seen) == 0 || strings.TrimSpace(s[consumed:]) != "" {
		return Amount{}, fmt.Errorf("%w: %q", ErrInvalidAmountFormat, s)
	}
	return a, nil
}

// denomination maps a suffix to its canonical abbreviation, or "" if unknown.
func denomination(suffix string) string {
	switch suffix {
	case "gc", "g", "gold":
		return "gc"
	case "ss", "s", "silver":
		return "ss"
	case "bp", "b", "p", "pence":
		return "bp"
	default:
		return ""
	}
}
