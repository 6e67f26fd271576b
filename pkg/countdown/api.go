package countdown

import "context"

// Solve validates the input, encodes it with NewModel and returns an
// assignment minimizing (distance, steps).
func Solve(ctx context.Context, numbers []int, target int, opts ...OptimizeOption) (*Solution, error) {
	p, err := NewProblem(numbers, target)
	if err != nil {
		return nil, err
	}
	return NewSolver(NewModel(p)).SolveOptimal(ctx, opts...)
}

// SolveResilient validates the input, encodes it with NewResilientModel and
// returns an assignment minimizing (worst attacked distance, steps).
func SolveResilient(ctx context.Context, numbers []int, target int, opts ...OptimizeOption) (*ResilientSolution, error) {
	p, err := NewProblem(numbers, target)
	if err != nil {
		return nil, err
	}
	return NewSolver(NewResilientModel(p)).SolveResilient(ctx, opts...)
}
