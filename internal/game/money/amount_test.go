package money_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/Robak132/MacrosCompanionModules/internal/game/money"
)

func TestConsolidate(t *testing.T) {
	tests := []struct {
		name string
		in   money.Amount
		want money.Consolidated
	}{
		{"zero", money.Amount{}, money.Consolidated{Total: 0}},
		{"pence overflow", money.Amount{Pence: 30}, money.Consolidated{Amount: money.Amount{Silver: 2, Pence: 6}, Total: 30}},
		{"silver overflow", money.Amount{Silver: 45}, money.Consolidated{Amount: money.Amount{Gold: 2, Silver: 5}, Total: 540}},
		{"canonical", money.Amount{Gold: 1, Silver: 2, Pence: 3}, money.Consolidated{Amount: money.Amount{Gold: 1, Silver: 2, Pence: 3}, Total: 267}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, money.Consolidate(tt.in))
		})
	}
}

func TestConsolidate_NegativeTotal(t *testing.T) {
	got := money.Consolidate(money.Amount{Pence: -5})
	assert.Equal(t, -5, got.Total)
}

func TestAmount_String(t *testing.T) {
	assert.Equal(t, "1gc 2ss 3bp", money.Amount{Gold: 1, Silver: 2, Pence: 3}.String())
	assert.Equal(t, "0gc 1ss 6bp", money.FormatPence(18))
}

func TestParseAmount_Valid(t *testing.T) {
	tests := []struct {
		in   string
		want money.Amount
	}{
		{"1gc 2ss 3bp", money.Amount{Gold: 1, Silver: 2, Pence: 3}},
		{"1g2s3b", money.Amount{Gold: 1, Silver: 2, Pence: 3}},
		{"15bp", money.Amount{Pence: 15}},
		{"3bp 2gc", money.Amount{Gold: 2, Pence: 3}},
		{"  4 SS ", money.Amount{Silver: 4}},
		{"7 gold 1 pence", money.Amount{Gold: 7, Pence: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := money.ParseAmount(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseAmount_Invalid(t *testing.T) {
	for _, in := range []string{"", "abc", "12", "1gc 2gc", "1xx", "1gc junk", "-1gc", "gc1", "40000000000000000gc", "1000000001bp", "99999999999999999999ss"} {
		t.Run(in, func(t *testing.T) {
			_, err := money.ParseAmount(in)
			require.Error(t, err)
			assert.True(t, errors.Is(err, money.ErrInvalidAmountFormat), "got %v", err)
		})
	}
}

func TestParseAmount_LargestAccepted(t *testing.T) {
	a, err := money.ParseAmount("1000000000gc 1000000000ss 1000000000bp")
	require.NoError(t, err)
	assert.Equal(t, money.Amount{Gold: money.MaxDenomination, Silver: money.MaxDenomination, Pence: money.MaxDenomination}, a)
	assert.Equal(t, 253*money.MaxDenomination, a.Total())
}

func TestProperty_Consolidate_IdempotentAndTotal(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		a := money.Amount{
			Gold:   rapid.IntRange(0, 10_000).Draw(t, "gold"),
			Silver: rapid.IntRange(0, 10_000).Draw(t, "silver"),
			Pence:  rapid.IntRange(0, 10_000).Draw(t, "pence"),
		}
		once := money.Consolidate(a)
		twice := money.Consolidate(once.Amount)
		if once != twice {
			t.Fatalf("not idempotent: %+v then %+v", once, twice)
		}
		if once.Total != a.Gold*240+a.Silver*12+a.Pence {
			t.Fatalf("total %d does not match %+v", once.Total, a)
		}
		if once.Silver < 0 || once.Silver >= 20 || once.Pence < 0 || once.Pence >= 12 {
			t.Fatalf("not canonical: %+v", once)
		}
	})
}

func TestProperty_ParseAmount_RoundTripsString(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		a := money.Amount{
			Gold:   rapid.IntRange(0, 1_000).Draw(t, "gold"),
			Silver: rapid.IntRange(0, 1_000).Draw(t, "silver"),
			Pence:  rapid.IntRange(0, 1_000).Draw(t, "pence"),
		}
		got, err := money.ParseAmount(a.String())
		if err != nil {
			t.Fatalf("ParseAmount(%q): %v", a.String(), err)
		}
		if got != a {
			t.Fatalf("got %+v want %+v", got, a)
		}
	})
}
