package dice_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"pgregory.net/rapid"

	"github.com/Robak132/MacrosCompanionModules/internal/game/dice"
)

func TestRollResult_String(t *testing.T) {
	r := dice.RollResult{Expression: "2d10+3", Dice: []int{4, 5}, Modifier: 3}
	assert.Equal(t, 12, r.Total())
	assert.Equal(t, "2d10+3: [4 5] +3 = 12", r.String())
}

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want dice.Expression
	}{
		{"d100", dice.Expression{Raw: "d100", Count: 1, Sides: 100}},
		{"2d10", dice.Expression{Raw: "2d10", Count: 2, Sides: 10}},
		{"1D10+3", dice.Expression{Raw: "1D10+3", Count: 1, Sides: 10, Modifier: 3}},
		{"3d6 - 1", dice.Expression{Raw: "3d6 - 1", Count: 3, Sides: 6, Modifier: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := dice.Parse(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParse_Invalid(t *testing.T) {
	for _, in := range []string{"", "d", "0d6", "2d1", "abc", "2d6+", "d6kh1"} {
		_, err := dice.Parse(in)
		assert.Error(t, err, "input %q", in)
	}
}

func TestSequenceSource_Replays(t *testing.T) {
	src := dice.NewSequenceSource(42, 100, 1)
	assert.Equal(t, 42, dice.Roll(dice.MustParse("d100"), src).Total())
	assert.Equal(t, 100, dice.Roll(dice.MustParse("d100"), src).Total())
	assert.Equal(t, 1, dice.Roll(dice.MustParse("d100"), src).Total())
	assert.Equal(t, 42, dice.Roll(dice.MustParse("d100"), src).Total())
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name        string
		roll, tgt   int
		wantSuccess bool
		wantSL      int
	}{
		{"clear success", 23, 45, true, 2},
		{"bare success", 45, 45, true, 0},
		{"failure", 67, 45, false, -2},
		{"automatic success", 4, 0, true, 0},
		{"automatic failure", 97, 120, false, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := dice.Evaluate(tt.roll, tt.tgt)
			assert.Equal(t, tt.wantSuccess, got.Success)
			assert.Equal(t, tt.wantSL, got.SL)
		})
	}
}

func TestDifficulty_Modifier(t *testing.T) {
	m, ok := dice.Easy.Modifier()
	require.True(t, ok)
	assert.Equal(t, 40, m)
	_, ok = dice.Difficulty("impossible").Modifier()
	assert.False(t, ok)
}

func TestRoller_Test_Logs(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	r := dice.NewLoggedRoller(dice.NewSequenceSource(30), zap.New(core))
	res := r.Test(50)
	assert.True(t, res.Success)
	assert.Equal(t, 1, logs.FilterMessage("percentile test").Len())
	assert.Equal(t, 1, logs.FilterMessage("dice roll").Len())
}

func TestProperty_Roll_InRange(t *testing.T) {
	src := dice.NewCryptoSource()
	rapid.Check(t, func(rt *rapid.T) {
		count := rapid.IntRange(1, 10).Draw(rt, "count")
		sides := rapid.IntRange(2, 100).Draw(rt, "sides")
		expr := dice.Expression{Raw: "x", Count: count, Sides: sides}
		res := dice.Roll(expr, src)
		if len(res.Dice) != count {
			rt.Fatalf("got %d dice, want %d", len(res.Dice), count)
		}
		for _, d := range res.Dice {
			if d < 1 || d > sides {
				rt.Fatalf("die %d out of [1,%d]", d, sides)
			}
		}
	})
}

func TestProperty_Evaluate_SLSign(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		roll := rapid.IntRange(1, 100).Draw(rt, "roll")
		target := rapid.IntRange(0, 120).Draw(rt, "target")
		res := dice.Evaluate(roll, target)
		if res.Success && res.SL < 0 || !res.Success && res.SL > 0 {
			rt.Fatalf("SL %d inconsistent with outcome %s", res.SL, res.Outcome())
		}
		if !strings.Contains("success failure", res.Outcome()) {
			rt.Fatalf("unexpected outcome %q", res.Outcome())
		}
	})
}

func TestCryptoSource_Intn_PanicsOnZero(t *testing.T) {
	assert.Panics(t, func() { dice.NewCryptoSource().Intn(0) })
}
