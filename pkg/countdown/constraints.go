// Package countdown encodes the numbers game as a set of per-step constraints.
//
// Every constraint is checked one step at a time: Check(p, a, k) inspects
// step k of the assignment together with any earlier steps it depends on, and
// never looks at steps after k. This lets the optimizer test a single new step
// when it extends a prefix, while Model.Validate runs every constraint over
// every step to re-verify a finished assignment.
//
// Posted by NewModel:
//   - DomainConstraint:         operand index in [0,5], operator valid (k >= 1)
//   - InitialConstraint:        step 0 executed, Values[0] = pool[idx0]
//   - PrefixConstraint:         executed[k] => executed[k-1]
//   - UniqueOperandConstraint:  executed[i] && executed[k] => idx[i] != idx[k]
//   - TransitionConstraint:     Values[k] = Apply(op[k], Values[k-1], pool[idx[k]])
//
// NewResilientModel also posts ForcedStepConstraint{Step: 1}.
package countdown

import (
	"errors"
	"fmt"
)

// ErrConstraintViolation is the sentinel wrapped by every ViolationError.
var ErrConstraintViolation = errors.New("constraint violated")

// ViolationError names the constraint and step that rejected an assignment.
type ViolationError struct {
	Constraint string
	Step       int
	Reason     string
}

func (e *ViolationError) Error() string {
	return fmt.Sprintf("%s violated at step %d: %s", e.Constraint, e.Step, e.Reason)
}

func (e *ViolationError) Unwrap() error { return ErrConstraintViolation }

// Constraint restricts the values an assignment may take at one step.
type Constraint interface {
	// Type returns a string identifying the constraint type.
	Type() string

	// String returns a human-readable representation.
	String() string

	// Check returns a *ViolationError when step k of a is inconsistent.
	Check(p *Problem, a *Assignment, k int) error
}

func violation(c Constraint, k int, format string, args ...any) error {
	return &ViolationError{Constraint: c.Type(), Step: k, Reason: fmt.Sprintf(format, args...)}
}

// DomainConstraint keeps operand indices inside the pool and operators inside
// the four-operator set.
type DomainConstraint struct{}

func (DomainConstraint) Type() string   { return "Domain" }
func (DomainConstraint) String() string { return "Domain(idx ∈ [0,5], op ∈ {+,-,*,/})" }

func (c DomainConstraint) Check(p *Problem, a *Assignment, k int) error {
	if idx := a.Operands[k]; idx < 0 || idx >= len(p.Numbers) {
		return violation(c, k, "operand index %d outside [0,%d]", idx, len(p.Numbers)-1)
	}
	if k > 0 && !a.Ops[k].Valid() {
		return violation(c, k, "unknown operator %d", int(a.Ops[k]))
	}
	return nil
}

// InitialConstraint forces the initial selection.
type InitialConstraint struct{}

func (InitialConstraint) Type() string   { return "Initial" }
func (InitialConstraint) String() string { return "Initial(step0 executed, v0 = pool[idx0])" }

func (c InitialConstraint) Check(p *Problem, a *Assignment, k int) error {
	if k != 0 {
		return nil
	}
	if !a.Executed[0] {
		return violation(c, 0, "initial selection not executed")
	}
	idx := a.Operands[0]
	if idx < 0 || idx >= len(p.Numbers) {
		return violation(c, 0, "operand index %d outside pool", idx)
	}
	if a.Values[0] != p.Numbers[idx] {
		return violation(c, 0, "value %d != pool[%d] = %d", a.Values[0], idx, p.Numbers[idx])
	}
	return nil
}

// PrefixConstraint makes the executed steps a contiguous prefix.
type PrefixConstraint struct{}

func (PrefixConstraint) Type() string   { return "Prefix" }
func (PrefixConstraint) String() string { return "Prefix(step k => step k-1)" }

func (c PrefixConstraint) Check(_ *Problem, a *Assignment, k int) error {
	if k > 0 && a.Executed[k] && !a.Executed[k-1] {
		return violation(c, k, "executed after skipped step %d", k-1)
	}
	return nil
}

// UniqueOperandConstraint allows each pool entry to be consumed once.
type UniqueOperandConstraint struct{}

func (UniqueOperandConstraint) Type() string   { return "UniqueOperand" }
func (UniqueOperandConstraint) String() string { return "UniqueOperand(idx pairwise distinct)" }

func (c UniqueOperandConstraint) Check(_ *Problem, a *Assignment, k int) error {
	if !a.Executed[k] {
		return nil
	}
	for i := 0; i < k; i++ {
		if a.Executed[i] && a.Operands[i] == a.Operands[k] {
			return violation(c, k, "operand index %d already used by step %d", a.Operands[k], i)
		}
	}
	return nil
}

// TransitionConstraint ties each partial result to its predecessor.
type TransitionConstraint struct{}

func (TransitionConstraint) Type() string { return "Transition" }
func (TransitionConstraint) String() string {
	return "Transition(v[k] = apply(op[k], v[k-1], pool[idx[k]]) or v[k-1])"
}

func (c TransitionConstraint) Check(p *Problem, a *Assignment, k int) error {
	if k == 0 {
		return nil
	}
	if !a.Executed[k] {
		if a.Values[k] != a.Values[k-1] {
			return violation(c, k, "skipped step changed value %d -> %d", a.Values[k-1], a.Values[k])
		}
		return nil
	}
	idx := a.Operands[k]
	if idx < 0 || idx >= len(p.Numbers) {
		return violation(c, k, "operand index %d outside pool", idx)
	}
	next, legal := Apply(a.Ops[k], a.Values[k-1], p.Numbers[idx], true)
	if !legal {
		return violation(c, k, "illegal %d %s %d", a.Values[k-1], a.Ops[k], p.Numbers[idx])
	}
	if next != a.Values[k] {
		return violation(c, k, "value %d != %d %s %d = %d",
			a.Values[k], a.Values[k-1], a.Ops[k], p.Numbers[idx], next)
	}
	return nil
}

// ForcedStepConstraint requires a given step to be executed.
type ForcedStepConstraint struct {
	Step int
}

func (ForcedStepConstraint) Type() string     { return "ForcedStep" }
func (c ForcedStepConstraint) String() string { return fmt.Sprintf("ForcedStep(step%d executed)", c.Step) }

func (c ForcedStepConstraint) Check(_ *Problem, a *Assignment, k int) error {
	if k == c.Step && !a.Executed[k] {
		return violation(c, k, "step must be executed")
	}
	return nil
}
