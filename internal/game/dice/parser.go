package dice

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Expression represents a parsed dice expression ready to be rolled.
type Expression struct {
	Raw      string
	Count    int
	Sides    int
	Modifier int
}

var expressionPattern = regexp.MustCompile(`^(\d*)d(\d+)(?:\s*([+-])\s*(\d+))?$`)

// Parse parses expressions of the form "d100", "2d10", "1d10+3" or "3d6-1".
//
// Postcondition: on success Count >= 1 and Sides >= 2.
func Parse(expr string) (Expression, error) {
	s := strings.ToLower(strings.TrimSpace(expr))
	m := expressionPattern.FindStringSubmatch(s)
	if m == nil {
		return Expression{}, fmt.Errorf("dice: invalid expression %q", expr)
	}

	count := 1
	if m[1] != "" {
		count, _ = strconv.Atoi(m[1])
	}
	if count < 1 {
		return Expression{}, fmt.Errorf("dice: invalid die count in %q: must be >= 1", expr)
	}
	sides, _ := strconv.Atoi(m[2])
	if sides < 2 {
		return Expression{}, fmt.Errorf("dice: invalid die sides in %q: must be >= 2", expr)
	}

	modifier := 0
	if m[3] != "" {
		modifier, _ = strconv.Atoi(m[4])
		if m[3] == "-" {
			modifier = -modifier
		}
	}
	return Expression{Raw: expr, Count: count, Sides: sides, Modifier: modifier}, nil
}

// MustParse parses expr and panics on error.
func MustParse(expr string) Expression {
	e, err := Parse(expr)
	if err != nil {
		panic(err)
	}
	return e
}
