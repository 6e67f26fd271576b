package countdown

import "fmt"

// Model is the constraint encoding of one Problem. It is built per solve call
// and is read-only once a Solver starts, so parallel workers share it freely.
//
// Thread safety: Models are safe for concurrent reads during solving,
// but must be constructed sequentially.
type Model struct {
	problem     *Problem
	constraints []Constraint
}

// NewModel posts the standard encoding for p.
func NewModel(p *Problem) *Model {
	return &Model{
		problem: p,
		constraints: []Constraint{
			DomainConstraint{},
			InitialConstraint{},
			PrefixConstraint{},
			UniqueOperandConstraint{},
			TransitionConstraint{},
		},
	}
}

// NewResilientModel posts the standard encoding plus a forced first
// operation, so every feasible assignment has a last operation to attack.
func NewResilientModel(p *Problem) *Model {
	m := NewModel(p)
	m.AddConstraint(ForcedStepConstraint{Step: 1})
	return m
}

// AddConstraint posts an additional constraint.
func (m *Model) AddConstraint(c Constraint) {
	if c == nil {
		return
	}
	m.constraints = append(m.constraints, c)
}

// Constraints returns a copy of the posted constraints.
func (m *Model) Constraints() []Constraint {
	return append([]Constraint(nil), m.constraints...)
}

// Problem returns the encoded problem.
func (m *Model) Problem() *Problem {
	return m.problem
}

// checkStep runs every constraint against step k.
func (m *Model) checkStep(a *Assignment, k int) error {
	for _, c := range m.constraints {
		if err := c.Check(m.problem, a, k); err != nil {
			return err
		}
	}
	return nil
}

// checkFrom runs every constraint against steps k..5.
func (m *Model) checkFrom(a *Assignment, k int) error {
	for j := k; j < PoolSize; j++ {
		if err := m.checkStep(a, j); err != nil {
			return err
		}
	}
	return nil
}

// Validate reports whether a lies in the feasible region.
func (m *Model) Validate(a *Assignment) error {
	if a == nil {
		return fmt.Errorf("validate: nil assignment")
	}
	return m.checkFrom(a, 0)
}

func (m *Model) String() string {
	return fmt.Sprintf("Model(%s, %d constraints)", m.problem, len(m.constraints))
}
