// Package formula compiles and evaluates the small arithmetic cost formulas
// attached to spells and recipes, e.g. "16-ZfP/2".
//
// A formula has one bound variable, written ZfP (or TaP, optionally followed by
// the star suffix "ZfP*"), which is substituted with the caller's point total at
// evaluation time. Division rounds toward positive infinity.
package formula

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidFormula is wrapped by every compile and evaluation error.
var ErrInvalidFormula = errors.New("invalid formula")

// Formula is a compiled expression tree. It is immutable and safe for
// concurrent evaluation.
type Formula struct {
	src  string
	root node
}

// Parse compiles text into a Formula.
//
// Postcondition: Returns a non-nil Formula or an error wrapping ErrInvalidFormula.
// An empty or blank text is an error: there is no formula to evaluate.
func Parse(text string) (*Formula, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("formula: empty text: %w", ErrInvalidFormula)
	}
	toks, err := tokenize(text)
	if err != nil {
		return nil, fmt.Errorf("formula %q: %w", text, err)
	}
	p := &parser{toks: toks}
	root, err := p.expression()
	if err != nil {
		return nil, fmt.Errorf("formula %q: %w", text, err)
	}
	if p.peek().kind != tokEOF {
		return nil, fmt.Errorf("formula %q: unexpected %q at offset %d: %w", text, p.peek().text, p.peek().pos, ErrInvalidFormula)
	}
	return &Formula{src: text, root: root}, nil
}

// MustParse compiles text and panics on error. Intended for package-level tables.
func MustParse(text string) *Formula {
	f, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return f
}

// Eval evaluates the formula with the variable bound to points.
//
// Postcondition: Returns the value, or an error wrapping ErrInvalidFormula when a
// divisor evaluates to zero or an intermediate result overflows int.
func (f *Formula) Eval(points int) (int, error) {
	return f.root.eval(points)
}

// UsesVariable reports whether the formula references the bound variable.
func (f *Formula) UsesVariable() bool {
	return usesVariable(f.root)
}

// String returns the source text the formula was compiled from.
func (f *Formula) String() string { return f.src }

// Evaluate compiles and evaluates text in one step. It returns false when text
// is empty or not a valid formula, which callers treat as "no formula cost".
func Evaluate(text string, points int) (int, bool) {
	f, err := Parse(text)
	if err != nil {
		return 0, false
	}
	v, err := f.Eval(points)
	if err != nil {
		return 0, false
	}
	return v, true
}

// ceilDiv divides a by b rounding toward positive infinity.
//
// Precondition: b != 0.
func ceilDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) == (b < 0) {
		q++
	}
	return q
}
