// Package check resolves opposed three-attribute checks: three twenty-sided
// dice rolled against three attribute ceilings, with the overflow paid out of
// the skill rating.
package check

import (
	"errors"
	"fmt"
)

// Sides is the die rolled for each attribute.
const Sides = 20

// ErrInvalidCheck reports a malformed check: a negative rating or boost, an
// attribute below 1, or a roll outside 1..20. It indicates a caller bug.
var ErrInvalidCheck = errors.New("invalid check")

// Source is the subset of dice.Source used by the resolver.
type Source interface {
	Intn(n int) int
}

// Check is the Setup stage of one resolution.
type Check struct {
	// Rating is the base skill rating.
	Rating int
	// Boost is rating bought with resource points; the effective rating never
	// exceeds twice the base rating.
	Boost int
	// Difficulty is subtracted from the effective rating; negative eases the check.
	Difficulty int
	// Attributes are the three ceilings the dice are rolled against, in order.
	Attributes [3]int
}

// Validate checks the preconditions of Resolve.
func (c Check) Validate() error {
	if c.Rating < 0 {
		return fmt.Errorf("check: rating %d is negative: %w", c.Rating, ErrInvalidCheck)
	}
	if c.Boost < 0 {
		return fmt.Errorf("check: boost %d is negative: %w", c.Boost, ErrInvalidCheck)
	}
	for i, a := range c.Attributes {
		if a < 1 {
			return fmt.Errorf("check: attribute %d is %d, must be >= 1: %w", i+1, a, ErrInvalidCheck)
		}
	}
	return nil
}

// EffectiveRating returns the rating after the boost, capped at 2×Rating.
func (c Check) EffectiveRating() int {
	return min(c.Rating+c.Boost, 2*c.Rating)
}

// Outcome is the result of one resolution. It is never mutated after Resolve
// returns it.
type Outcome struct {
	Success      bool
	Rolls        [3]int
	ExtraPoints  int
	DoubleOne    bool
	TripleOne    bool
	DoubleTwenty bool
}

// Tier classifies an outcome for callers that branch on criticals.
type Tier int

const (
	TierFailure Tier = iota
	TierSuccess
	TierDoubleOne
	TierTripleOne
	TierDoubleTwenty
)

// String returns a human-readable tier label.
func (t Tier) String() string {
	switch t {
	case TierFailure:
		return "failure"
	case TierSuccess:
		return "success"
	case TierDoubleOne:
		return "double one"
	case TierTripleOne:
		return "triple one"
	case TierDoubleTwenty:
		return "double twenty"
	default:
		return "unknown"
	}
}

// Tier returns the outcome's classification.
func (o Outcome) Tier() Tier {
	switch {
	case o.TripleOne:
		return TierTripleOne
	case o.DoubleOne:
		return TierDoubleOne
	case o.DoubleTwenty:
		return TierDoubleTwenty
	case o.Success:
		return TierSuccess
	default:
		return TierFailure
	}
}

// Critical reports whether the dice, not the numbers, decided the outcome.
func (o Outcome) Critical() bool {
	return o.DoubleOne || o.TripleOne || o.DoubleTwenty
}

// String renders the rolls and the result, e.g. "[3 12 18] success, 4 points".
func (o Outcome) String() string {
	return fmt.Sprintf("%v %s, %d points", o.Rolls, o.Tier(), o.ExtraPoints)
}

// Resolve rolls three d20 with src and scores them against c.
//
// Precondition: src must be non-nil.
// Postcondition: Returns a fresh Outcome, or an error wrapping ErrInvalidCheck.
func Resolve(c Check, src Source) (Outcome, error) {
	if err := c.Validate(); err != nil {
		return Outcome{}, err
	}
	var rolls [3]int
	for i := range rolls {
		rolls[i] = src.Intn(Sides) + 1
	}
	return ResolveRolls(c, rolls)
}

// ResolveRolls runs the Classify and Score stages on fixed rolls.
//
// Postcondition: exactly two 1's or three 1's force Success; two or more 20's
// force failure with zero points.
func ResolveRolls(c Check, rolls [3]int) (Outcome, error) {
	if err := c.Validate(); err != nil {
		return Outcome{}, err
	}
	ones, twenties := 0, 0
	for i, r := range rolls {
		if r < 1 || r > Sides {
			return Outcome{}, fmt.Errorf("check: roll %d is %d, must be 1..%d: %w", i+1, r, Sides, ErrInvalidCheck)
		}
		switch r {
		case 1:
			ones++
		case Sides:
			twenties++
		}
	}

	rating := c.EffectiveRating()
	net := rating - c.Difficulty
	out := Outcome{Rolls: rolls}

	switch {
	case ones >= 2:
		out.Success = true
		out.DoubleOne = ones == 2
		out.TripleOne = ones == 3
		out.ExtraPoints = max(0, min(net, rating))
		return out, nil
	case twenties >= 2:
		out.DoubleTwenty = true
		return out, nil
	}

	overflow := 0
	for i, r := range rolls {
		if r > c.Attributes[i] {
			overflow += r - c.Attributes[i]
		}
	}
	out.ExtraPoints = min(max(0, net)-overflow, rating)
	out.Success = out.ExtraPoints >= 0
	return out, nil
}
