package alcohol_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Robak132/MacrosCompanionModules/internal/game/alcohol"
	"github.com/Robak132/MacrosCompanionModules/internal/game/condition"
	"github.com/Robak132/MacrosCompanionModules/internal/game/dice"
)

func registry() *condition.Registry {
	reg := condition.NewRegistry()
	for level, id := range []string{"consumealcohol1", "consumealcohol2", "consumealcohol3"} {
		reg.Register(&condition.ConditionDef{
			ID:        id,
			Name:      id,
			Group:     alcohol.Group,
			Level:     level + 1,
			Modifiers: map[string]int{"ag": -10 * (level + 1)},
		})
	}
	return reg
}

func ladder(t testing.TB) *alcohol.Ladder {
	t.Helper()
	l, err := alcohol.NewLadder(registry(), alcohol.Group)
	require.NoError(t, err)
	return l
}

func stinkingDrunk(t testing.TB) *alcohol.Table {
	t.Helper()
	tbl, err := alcohol.LoadTable("../../../content/tables/stinking-drunk.yaml")
	require.NoError(t, err)
	return tbl
}

func roller(faces ...int) *dice.Roller {
	return dice.NewLoggedRoller(dice.NewSequenceSource(faces...), zap.NewNop())
}
