package dice

import "go.uber.org/zap"

var d100 = MustParse("d100")

// Roller wraps a Source and logger to provide logged dice rolling.
// All rolls are logged at debug level.
type Roller struct {
	src    Source
	logger *zap.Logger
}

// NewLoggedRoller creates a Roller that rolls with src and logs each roll to logger.
//
// Precondition: src and logger must be non-nil.
func NewLoggedRoller(src Source, logger *zap.Logger) *Roller {
	return &Roller{src: src, logger: logger}
}

// Roll evaluates expr and logs the result.
func (r *Roller) Roll(expr Expression) RollResult {
	result := Roll(expr, r.src)
	r.logger.Debug("dice roll",
		zap.String("expression", result.Expression),
		zap.Ints("dice", result.Dice),
		zap.Int("modifier", result.Modifier),
		zap.Int("total", result.Total()),
	)
	return result
}

// RollExpr parses expr and rolls it, logging the result.
func (r *Roller) RollExpr(expr string) (RollResult, error) {
	e, err := Parse(expr)
	if err != nil {
		return RollResult{}, err
	}
	return r.Roll(e), nil
}

// Test rolls d100 against target and logs the outcome.
func (r *Roller) Test(target int) TestResult {
	res := Evaluate(r.Roll(d100).Total(), target)
	r.logger.Debug("percentile test",
		zap.Int("roll", res.Roll),
		zap.Int("target", res.Target),
		zap.String("outcome", res.Outcome()),
		zap.Int("sl", res.SL),
	)
	return res
}
