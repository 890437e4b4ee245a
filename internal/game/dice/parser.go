package dice

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ErrNotDice is wrapped by every error returned from Parse.
var ErrNotDice = errors.New("not a dice expression")

// Bounds keep every roll small and every total within int range.
const (
	MaxDice     = 100
	MaxSides    = 1000
	MaxModifier = 10000
)

// notation matches "[N]W<S>[±M]" with W or w as the die marker.
var notation = regexp.MustCompile(`^\s*(\d+)?[Ww](\d+)([+-]\d+)?\s*$`)

// Expression represents a parsed dice expression ready to be rolled.
// Precondition: Count >= 1, Sides >= 2 after successful Parse.
type Expression struct {
	Raw      string // original input string
	Count    int    // number of dice
	Sides    int    // faces per die
	Modifier int    // flat modifier (may be negative)
}

// Parse parses a dice expression string into an Expression.
// Supported forms: "W20", "2W6", "2w6+5", "3W6-2"; surrounding whitespace is ignored.
//
// Postcondition: Returns an Expression with 1 <= Count <= MaxDice,
// 2 <= Sides <= MaxSides and |Modifier| <= MaxModifier, or an error wrapping
// ErrNotDice.
func Parse(expr string) (Expression, error) {
	m := notation.FindStringSubmatch(expr)
	if m == nil {
		return Expression{}, fmt.Errorf("dice: %q: %w", expr, ErrNotDice)
	}

	count := 1
	if m[1] != "" {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return Expression{}, fmt.Errorf("dice: invalid die count in %q: %w", expr, ErrNotDice)
		}
		count = n
	}
	if count < 1 || count > MaxDice {
		return Expression{}, fmt.Errorf("dice: die count in %q must be in [1, %d]: %w", expr, MaxDice, ErrNotDice)
	}

	sides, err := strconv.Atoi(m[2])
	if err != nil || sides < 2 || sides > MaxSides {
		return Expression{}, fmt.Errorf("dice: die sides in %q must be in [2, %d]: %w", expr, MaxSides, ErrNotDice)
	}

	modifier := 0
	if m[3] != "" {
		modifier, err = strconv.Atoi(m[3])
		if err != nil || modifier < -MaxModifier || modifier > MaxModifier {
			return Expression{}, fmt.Errorf("dice: modifier in %q must be within ±%d: %w", expr, MaxModifier, ErrNotDice)
		}
	}

	return Expression{
		Raw:      strings.TrimSpace(expr),
		Count:    count,
		Sides:    sides,
		Modifier: modifier,
	}, nil
}

// IsDice reports whether s parses as a dice expression.
func IsDice(s string) bool {
	_, err := Parse(s)
	return err == nil
}

// Min returns the smallest total the expression can roll.
func (e Expression) Min() int { return e.Count + e.Modifier }

// Max returns the largest total the expression can roll.
func (e Expression) Max() int { return e.Count*e.Sides + e.Modifier }

// String returns the canonical notation, always with an explicit count:
// "W6+1" renders as "1W6+1".
func (e Expression) String() string {
	s := fmt.Sprintf("%dW%d", e.Count, e.Sides)
	if e.Modifier != 0 {
		s += fmt.Sprintf("%+d", e.Modifier)
	}
	return s
}
