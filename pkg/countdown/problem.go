package countdown

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

const (
	// PoolSize is the number of integers in every number pool.
	PoolSize = 6
	// MaxOperations is the number of steps after the initial selection.
	MaxOperations = PoolSize - 1
	// AttackMin and AttackMax bound the values an adversary may substitute
	// for the operand of the last executed step.
	AttackMin = 1
	AttackMax = 10
)

var (
	// ErrInvalidProblem is returned before any search when the input breaks
	// the problem contract (for example a pool that is not exactly 6 numbers).
	ErrInvalidProblem = errors.New("invalid problem")

	// ErrInfeasible reports an empty feasible region. It is never paired
	// with a solution.
	ErrInfeasible = errors.New("no feasible assignment")

	// ErrSearchLimitReached indicates the search stopped at a configured node
	// limit. The incumbent returned with it is valid but may not be optimal.
	ErrSearchLimitReached = errors.New("search limit reached")
)

var problemValidate = validator.New(validator.WithRequiredStructEnabled())

// Problem is the immutable input of a solve call.
type Problem struct {
	Numbers []int `json:"numbers" yaml:"numbers" validate:"len=6"`
	Target  int   `json:"target" yaml:"target"`
}

// NewProblem copies numbers and validates the result.
func NewProblem(numbers []int, target int) (*Problem, error) {
	p := &Problem{
		Numbers: append([]int(nil), numbers...),
		Target:  target,
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate checks the pool size.
func (p *Problem) Validate() error {
	if p == nil {
		return fmt.Errorf("%w: nil problem", ErrInvalidProblem)
	}
	if err := problemValidate.Struct(p); err != nil {
		return fmt.Errorf("%w: pool must hold exactly %d numbers, got %d: %w",
			ErrInvalidProblem, PoolSize, len(p.Numbers), err)
	}
	return nil
}

func (p *Problem) String() string {
	return fmt.Sprintf("numbers=%v target=%d", p.Numbers, p.Target)
}
