package alcohol_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Robak132/MacrosCompanionModules/internal/game/alcohol"
	"github.com/Robak132/MacrosCompanionModules/internal/game/condition"
	"github.com/Robak132/MacrosCompanionModules/internal/game/dice"
)

func tracker(t *testing.T, store alcohol.Store, r alcohol.Roller) (*alcohol.Tracker, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	return alcohol.NewTracker(store, ladder(t), stinkingDrunk(t), r, zap.New(core)), logs
}

func TestBeverages(t *testing.T) {
	all := alcohol.Beverages()
	require.Len(t, all, 6)
	b, ok := alcohol.BeverageByID("bugman_ale")
	require.True(t, ok)
	assert.Equal(t, 4, b.Tests)
	assert.Equal(t, dice.Average, b.Difficulty)
	spirit, _ := alcohol.BeverageByID("spirit")
	assert.Equal(t, dice.Challenging, spirit.Difficulty)
	_, ok = alcohol.BeverageByID("milk")
	assert.False(t, ok)
}

func TestTracker_Drink_CountsFailures(t *testing.T) {
	ctx := context.Background()
	store := alcohol.NewMemoryStore(alcohol.Drinker{ID: "a1", Name: "Anna", Toughness: 45})
	// Dwarf ale: target 45+20=65; rolls fail, fail, pass.
	tr, logs := tracker(t, store, roller(80, 90, 30))

	rep, err := tr.Drink(ctx, "a1", "dwarf_ale")
	require.NoError(t, err)
	assert.Equal(t, 65, rep.Target)
	require.Len(t, rep.Tests, 3)
	assert.False(t, rep.Tests[0].Success)
	assert.True(t, rep.Tests[2].Success)
	require.Len(t, rep.Steps, 2)
	assert.Nil(t, rep.Steps[0].Draw)
	assert.Nil(t, rep.Steps[1].Draw, "TB 4 exceeds failures+1")
	assert.Equal(t, 2, rep.Failures)

	d, err := store.Drinker(ctx, "a1")
	require.NoError(t, err)
	assert.True(t, d.Conditions.Has("consumealcohol2"))
	assert.Equal(t, 1, logs.FilterMessage("beverage consumed").Len())
}

func TestTracker_Increase_StinkingDrunk(t *testing.T) {
	ctx := context.Background()
	set := condition.NewActiveSet()
	_, _ = set.Apply(registryDef(t, "consumealcohol1"))
	store := alcohol.NewMemoryStore(alcohol.Drinker{ID: "b", Name: "Bert", Toughness: 25, Conditions: set})
	tr, _ := tracker(t, store, roller(45))

	step, err := tr.Increase(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, 1, step.Before)
	assert.Equal(t, 2, step.After)
	require.NotNil(t, step.Draw)
	assert.Equal(t, 45, step.Draw.Roll.Total())
	assert.Contains(t, step.Draw.Result.Text, "Why's Everything Spinning?")
}

func TestTracker_Reduce_And_RemoveAll(t *testing.T) {
	ctx := context.Background()
	store := alcohol.NewMemoryStore(alcohol.Drinker{ID: "c", Name: "Cid", Toughness: 60})
	tr, _ := tracker(t, store, roller(1))
	for i := 0; i < 4; i++ {
		_, err := tr.Increase(ctx, "c")
		require.NoError(t, err)
	}

	step, err := tr.Reduce(ctx, "c")
	require.NoError(t, err)
	assert.Equal(t, 4, step.Before)
	assert.Equal(t, 3, step.After)

	step, err = tr.RemoveAll(ctx, "c")
	require.NoError(t, err)
	assert.Equal(t, 3, step.Before)

	d, _ := store.Drinker(ctx, "c")
	assert.Empty(t, d.Conditions.All())
}

func TestTracker_Errors(t *testing.T) {
	ctx := context.Background()
	store := alcohol.NewMemoryStore(alcohol.Drinker{ID: "a", Name: "Anna", Toughness: 30})
	tr, _ := tracker(t, store, roller(50))

	_, err := tr.Drink(ctx, "a", "milk")
	assert.True(t, errors.Is(err, alcohol.ErrUnknownBeverage))

	_, err = tr.Drink(ctx, "ghost", "ale")
	assert.True(t, errors.Is(err, alcohol.ErrDrinkerNotFound))

	_, err = tr.Increase(ctx, "ghost")
	assert.True(t, errors.Is(err, alcohol.ErrDrinkerNotFound))
}

func TestMemoryStore_Isolation(t *testing.T) {
	ctx := context.Background()
	store := alcohol.NewMemoryStore(alcohol.Drinker{ID: "a", Name: "Anna", Toughness: 30})
	d, err := store.Drinker(ctx, "a")
	require.NoError(t, err)
	_, _ = d.Conditions.Apply(registryDef(t, "consumealcohol1"))

	again, _ := store.Drinker(ctx, "a")
	assert.False(t, again.Conditions.Has("consumealcohol1"), "unsaved changes must not leak")
	assert.Len(t, store.Drinkers(), 1)
}

func registryDef(t *testing.T, id string) *condition.ConditionDef {
	t.Helper()
	def, ok := registry().Get(id)
	require.True(t, ok)
	return def
}
