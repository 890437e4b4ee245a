package formula

import (
	"fmt"
	"math"
)

type node interface {
	eval(points int) (int, error)
}

type literal int

func (l literal) eval(int) (int, error) { return int(l), nil }

type variable struct{}

func (variable) eval(points int) (int, error) { return points, nil }

type negate struct{ operand node }

func (n negate) eval(points int) (int, error) {
	v, err := n.operand.eval(points)
	if err != nil {
		return 0, err
	}
	if v == math.MinInt {
		return 0, overflow()
	}
	return -v, nil
}

type binary struct {
	op          byte
	left, right node
}

func (b binary) eval(points int) (int, error) {
	l, err := b.left.eval(points)
	if err != nil {
		return 0, err
	}
	r, err := b.right.eval(points)
	if err != nil {
		return 0, err
	}
	switch b.op {
	case '+':
		if (r > 0 && l > math.MaxInt-r) || (r < 0 && l < math.MinInt-r) {
			return 0, overflow()
		}
		return l + r, nil
	case '-':
		if (r < 0 && l > math.MaxInt+r) || (r > 0 && l < math.MinInt+r) {
			return 0, overflow()
		}
		return l - r, nil
	case '*':
		if l != 0 && r != 0 {
			p := l * r
			if p/r != l || (l == -1 && r == math.MinInt) || (r == -1 && l == math.MinInt) {
				return 0, overflow()
			}
			return p, nil
		}
		return 0, nil
	case '/':
		if r == 0 {
			return 0, fmt.Errorf("division by zero: %w", ErrInvalidFormula)
		}
		if l == math.MinInt && r == -1 {
			return 0, overflow()
		}
		return ceilDiv(l, r), nil
	default:
		return 0, fmt.Errorf("unknown operator %q: %w", b.op, ErrInvalidFormula)
	}
}

func overflow() error {
	return fmt.Errorf("integer overflow: %w", ErrInvalidFormula)
}

func usesVariable(n node) bool {
	switch v := n.(type) {
	case variable:
		return true
	case negate:
		return usesVariable(v.operand)
	case binary:
		return usesVariable(v.left) || usesVariable(v.right)
	default:
		return false
	}
}
