package check

import (
	"errors"
	"fmt"

	"github.com/cory-johannsen/alchimist/internal/game/formula"
)

// MaxCostReducers is the number of cost-reducing traits that can apply at once.
const MaxCostReducers = 2

// ErrInvalidArgument reports an out-of-domain cost request.
var ErrInvalidArgument = errors.New("invalid argument")

// FailurePolicy decides what a failed check costs.
type FailurePolicy int

const (
	// FailHalf pays half the cost, rounded up.
	FailHalf FailurePolicy = iota
	// FailThird pays a third of the cost, rounded to nearest.
	FailThird
	// FailFull pays the full cost.
	FailFull
)

// String returns the policy's configuration name.
func (p FailurePolicy) String() string {
	switch p {
	case FailHalf:
		return "half"
	case FailThird:
		return "third"
	case FailFull:
		return "full"
	default:
		return "unknown"
	}
}

// ParseFailurePolicy maps a configuration name to a policy; "" means FailHalf.
func ParseFailurePolicy(s string) (FailurePolicy, error) {
	switch s {
	case "", "half":
		return FailHalf, nil
	case "third":
		return FailThird, nil
	case "full":
		return FailFull, nil
	default:
		return FailHalf, fmt.Errorf("check: unknown failure policy %q: %w", s, ErrInvalidArgument)
	}
}

// Evaluator evaluates a cost formula for a point total. *formula.Cache
// satisfies it.
type Evaluator interface {
	Evaluate(text string, points int) (int, bool)
}

// EvaluatorFunc adapts a function to Evaluator.
type EvaluatorFunc func(text string, points int) (int, bool)

// Evaluate calls f.
func (f EvaluatorFunc) Evaluate(text string, points int) (int, bool) { return f(text, points) }

// CostRule is the posted cost of an effect: a formula over the extra points
// plus a flat base.
type CostRule struct {
	Formula   string
	BaseCost  int
	OnFailure FailurePolicy
}

// Cost computes the resource cost of o with reducers cost-reducing traits,
// evaluating the formula uncached.
func (r CostRule) Cost(o Outcome, reducers int) (int, error) {
	return r.CostWith(EvaluatorFunc(formula.Evaluate), o, reducers)
}

// CostWith computes the resource cost of o using ev for the formula.
//
// A missing or invalid formula contributes nothing, leaving the base cost.
// Each reducer takes off one point, at most MaxCostReducers apply, and the
// result is never below 1.
//
// Postcondition: Returns a cost >= 1, or an error wrapping ErrInvalidArgument
// for negative reducers or a negative base cost.
func (r CostRule) CostWith(ev Evaluator, o Outcome, reducers int) (int, error) {
	if reducers < 0 {
		return 0, fmt.Errorf("check: %d cost reducers: %w", reducers, ErrInvalidArgument)
	}
	if r.BaseCost < 0 {
		return 0, fmt.Errorf("check: base cost %d is negative: %w", r.BaseCost, ErrInvalidArgument)
	}

	var cost int
	if o.Success {
		cost = r.full(ev, o.ExtraPoints)
	} else {
		cost = r.OnFailure.apply(r.full(ev, 0))
	}

	cost -= min(reducers, MaxCostReducers)
	return max(cost, 1), nil
}

func (r CostRule) full(ev Evaluator, points int) int {
	cost := r.BaseCost
	if r.Formula != "" {
		if v, ok := ev.Evaluate(r.Formula, points); ok {
			cost += v
		}
	}
	return cost
}

func (p FailurePolicy) apply(cost int) int {
	if cost <= 0 {
		return cost
	}
	switch p {
	case FailThird:
		return (cost + 1) / 3
	case FailFull:
		return cost
	default:
		return (cost + 1) / 2
	}
}
