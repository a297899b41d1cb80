package money_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/Robak132/MacrosCompanionModules/internal/game/money"
)

func TestSplitAmongPlayers(t *testing.T) {
	tests := []struct {
		name string
		in   money.Amount
		n    int
		want money.Amount
	}{
		{"even", money.Amount{Gold: 1}, 4, money.Amount{Silver: 5}},
		{"remainder adds one pence", money.Amount{Gold: 1}, 7, money.Amount{Silver: 2, Pence: 11}},
		{"single player", money.Amount{Gold: 2, Silver: 3, Pence: 4}, 1, money.Amount{Gold: 2, Silver: 3, Pence: 4}},
		{"remainder not renormalised", money.Amount{Pence: 23}, 2, money.Amount{Pence: 12}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := money.SplitAmongPlayers(tt.in, tt.n)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSplitAmongPlayers_NoPlayers(t *testing.T) {
	_, err := money.SplitAmongPlayers(money.Amount{Gold: 1}, 0)
	assert.True(t, errors.Is(err, money.ErrNoPlayers))
}

func TestProperty_SplitAmongPlayers_FloorSharePlusOne(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		total := rapid.IntRange(0, 100_000).Draw(t, "total")
		n := rapid.IntRange(1, 12).Draw(t, "n")
		got, err := money.SplitAmongPlayers(money.Amount{Pence: total}, n)
		if err != nil {
			t.Fatal(err)
		}
		want := total / n
		if total%n != 0 {
			want++
		}
		if got.Total() != want {
			t.Fatalf("share %d, want %d", got.Total(), want)
		}
	})
}
