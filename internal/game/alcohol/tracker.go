package alcohol

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/Robak132/MacrosCompanionModules/internal/game/dice"
)

// Roller rolls dice expressions and percentile tests.
// *dice.Roller satisfies it.
type Roller interface {
	Roll(expr dice.Expression) dice.RollResult
	Test(target int) dice.TestResult
}

// Step is the result of moving one drinker along the ladder.
type Step struct {
	DrinkerID string
	Before    int
	After     int
	// Draw is set when the step overcame the drinker.
	Draw *Draw
}

// Report is the result of drinking a beverage.
type Report struct {
	DrinkerID string
	Beverage  Beverage
	Target    int
	Tests     []dice.TestResult
	Steps     []Step
	Failures  int
}

// Tracker applies ladder changes to stored drinkers.
type Tracker struct {
	store  Store
	ladder *Ladder
	table  *Table
	roller Roller
	logger *zap.Logger
}

// NewTracker creates a Tracker.
//
// Precondition: store, ladder, roller and logger are non-nil. table may be
// nil, in which case no stinking-drunk draws are made.
func NewTracker(store Store, ladder *Ladder, table *Table, roller Roller, logger *zap.Logger) *Tracker {
	return &Tracker{store: store, ladder: ladder, table: table, roller: roller, logger: logger}
}

// Increase adds one failure to the drinker with id.
func (t *Tracker) Increase(ctx context.Context, id string) (Step, error) {
	d, err := t.store.Drinker(ctx, id)
	if err != nil {
		return Step{}, err
	}
	step, err := t.increase(d)
	if err != nil {
		return Step{}, err
	}
	return step, t.store.SaveDrinker(ctx, d)
}

// Reduce removes one failure from the drinker with id.
func (t *Tracker) Reduce(ctx context.Context, id string) (Step, error) {
	d, err := t.store.Drinker(ctx, id)
	if err != nil {
		return Step{}, err
	}
	before, err := t.ladder.Reduce(d.Conditions)
	if err != nil {
		return Step{}, err
	}
	step := Step{DrinkerID: id, Before: before, After: t.ladder.Failures(d.Conditions)}
	t.logger.Debug("alcohol reduced",
		zap.String("drinker", id),
		zap.Int("before", step.Before),
		zap.Int("after", step.After),
	)
	return step, t.store.SaveDrinker(ctx, d)
}

// RemoveAll clears the ladder for the drinker with id.
func (t *Tracker) RemoveAll(ctx context.Context, id string) (Step, error) {
	d, err := t.store.Drinker(ctx, id)
	if err != nil {
		return Step{}, err
	}
	before := t.ladder.Failures(d.Conditions)
	t.ladder.RemoveAll(d.Conditions)
	t.logger.Debug("alcohol cleared", zap.String("drinker", id), zap.Int("before", before))
	return Step{DrinkerID: id, Before: before}, t.store.SaveDrinker(ctx, d)
}

// Drink has the drinker with id take every test the beverage demands
// against Toughness plus the difficulty modifier. Each failure increases the
// ladder.
func (t *Tracker) Drink(ctx context.Context, id, beverageID string) (Report, error) {
	bev, ok := BeverageByID(beverageID)
	if !ok {
		return Report{}, fmt.Errorf("%w: %q", ErrUnknownBeverage, beverageID)
	}
	d, err := t.store.Drinker(ctx, id)
	if err != nil {
		return Report{}, err
	}
	mod, _ := bev.Difficulty.Modifier()
	rep := Report{DrinkerID: id, Beverage: bev, Target: d.Toughness + mod}
	for i := 0; i < bev.Tests; i++ {
		res := t.roller.Test(rep.Target)
		rep.Tests = append(rep.Tests, res)
		if res.Success {
			continue
		}
		step, err := t.increase(d)
		if err != nil {
			return Report{}, err
		}
		rep.Steps = append(rep.Steps, step)
	}
	rep.Failures = t.ladder.Failures(d.Conditions)
	if err := t.store.SaveDrinker(ctx, d); err != nil {
		return Report{}, err
	}
	t.logger.Info("beverage consumed",
		zap.String("drinker", id),
		zap.String("beverage", bev.ID),
		zap.Int("tests", len(rep.Tests)),
		zap.Int("failed", len(rep.Steps)),
		zap.Int("failures", rep.Failures),
	)
	return rep, nil
}

// increase steps d up the ladder and draws on the stinking-drunk table when
// the toughness bonus does not exceed the prior failures plus one.
func (t *Tracker) increase(d Drinker) (Step, error) {
	before, err := t.ladder.Increase(d.Conditions)
	if err != nil {
		return Step{}, err
	}
	step := Step{DrinkerID: d.ID, Before: before, After: t.ladder.Failures(d.Conditions)}
	if t.table != nil && d.ToughnessBonus() <= before+1 {
		draw, err := t.table.Draw(t.roller)
		if err != nil {
			return Step{}, err
		}
		step.Draw = &draw
	}
	t.logger.Debug("alcohol increased",
		zap.String("drinker", d.ID),
		zap.Int("before", step.Before),
		zap.Int("after", step.After),
		zap.Bool("overcome", step.Draw != nil),
	)
	return step, nil
}
