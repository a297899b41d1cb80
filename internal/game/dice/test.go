package dice

// Difficulty is a named percentile test modifier.
type Difficulty string

// Test difficulties and their modifiers.
const (
	VeryEasy    Difficulty = "veryEasy"
	Easy        Difficulty = "easy"
	Average     Difficulty = "average"
	Challenging Difficulty = "challenging"
	Difficult   Difficulty = "difficult"
	Hard        Difficulty = "hard"
	VeryHard    Difficulty = "veryHard"
)

var difficultyModifiers = map[Difficulty]int{
	VeryEasy:    60,
	Easy:        40,
	Average:     20,
	Challenging: 0,
	Difficult:   -10,
	Hard:        -20,
	VeryHard:    -30,
}

// Modifier returns the target modifier of d and whether d is known.
func (d Difficulty) Modifier() (int, bool) {
	m, ok := difficultyModifiers[d]
	return m, ok
}

// TestResult is the outcome of a percentile test.
type TestResult struct {
	Roll    int
	Target  int
	Success bool
	// SL is the success level: tens of the target minus tens of the roll.
	SL int
}

// Outcome returns "success" or "failure".
func (r TestResult) Outcome() string {
	if r.Success {
		return "success"
	}
	return "failure"
}

// Evaluate scores a d100 roll against target. Rolls of 01-05 always succeed
// and 96-100 always fail.
//
// Precondition: 1 <= roll <= 100.
func Evaluate(roll, target int) TestResult {
	success := roll <= target
	switch {
	case roll <= 5:
		success = true
	case roll >= 96:
		success = false
	}
	sl := target/10 - roll/10
	if success && sl < 0 {
		sl = 0
	}
	if !success && sl > 0 {
		sl = 0
	}
	return TestResult{Roll: roll, Target: target, Success: success, SL: sl}
}
