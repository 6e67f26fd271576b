package countdown

import (
	"fmt"
	"math"
)

// Op is the arithmetic operator applied by an executed step.
type Op int

const (
	OpAdd Op = iota
	OpSub
	OpMul
	OpDiv
)

// Ops lists every operator in search order.
var Ops = [...]Op{OpAdd, OpSub, OpMul, OpDiv}

// Valid reports whether o is one of the four supported operators.
func (o Op) Valid() bool {
	return o >= OpAdd && o <= OpDiv
}

// Symbol returns the single-character symbol used in reports.
func (o Op) Symbol() string {
	switch o {
	case OpAdd:
		return "+"
	case OpSub:
		return "-"
	case OpMul:
		return "*"
	case OpDiv:
		return "/"
	}
	return "?"
}

func (o Op) String() string {
	if !o.Valid() {
		return fmt.Sprintf("Op(%d)", int(o))
	}
	return o.Symbol()
}

// MarshalText encodes the operator as its symbol.
func (o Op) MarshalText() ([]byte, error) {
	if !o.Valid() {
		return nil, fmt.Errorf("countdown: invalid operator %d", int(o))
	}
	return []byte(o.Symbol()), nil
}

// UnmarshalText decodes an operator symbol.
func (o *Op) UnmarshalText(text []byte) error {
	op, err := ParseOp(string(text))
	if err != nil {
		return err
	}
	*o = op
	return nil
}

// ParseOp converts a symbol ("+", "-", "*", "/") to an Op.
func ParseOp(s string) (Op, error) {
	for _, op := range Ops {
		if op.Symbol() == s {
			return op, nil
		}
	}
	return 0, fmt.Errorf("countdown: unknown operator %q", s)
}

// Apply computes the partial result after one step.
//
// A skipped step leaves the value unchanged and is always legal. An executed
// division is legal only when the operand is non-zero and divides current
// exactly. Results that overflow int are reported as illegal rather than
// wrapped, so they drop out of the search like an inexact division.
func Apply(op Op, current, operand int, executed bool) (int, bool) {
	if !executed {
		return current, true
	}
	switch op {
	case OpAdd:
		return addChecked(current, operand)
	case OpSub:
		return subChecked(current, operand)
	case OpMul:
		return mulChecked(current, operand)
	case OpDiv:
		if operand == 0 || current%operand != 0 {
			return 0, false
		}
		if current == math.MinInt && operand == -1 {
			return 0, false
		}
		return current / operand, true
	}
	return 0, false
}

func addChecked(a, b int) (int, bool) {
	s := a + b
	if (s > a) != (b > 0) {
		return 0, false
	}
	return s, true
}

func subChecked(a, b int) (int, bool) {
	d := a - b
	if (d < a) != (b > 0) {
		return 0, false
	}
	return d, true
}

func mulChecked(a, b int) (int, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	if (a == -1 && b == math.MinInt) || (b == -1 && a == math.MinInt) {
		return 0, false
	}
	p := a * b
	if p/b != a {
		return 0, false
	}
	return p, true
}

// distance returns |target - value|, saturating at math.MaxInt.
func distance(target, value int) int {
	d, ok := subChecked(target, value)
	if !ok || d == math.MinInt {
		return math.MaxInt
	}
	if d < 0 {
		return -d
	}
	return d
}
