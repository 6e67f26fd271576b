package countdown

import "context"

// Attack is one adversarial substitution of the last executed operand.
// Distance is meaningful only when Legal is true.
type Attack struct {
	Value    int  `json:"value" yaml:"value"`
	Result   int  `json:"result" yaml:"result"`
	Distance int  `json:"distance" yaml:"distance"`
	Legal    bool `json:"legal" yaml:"legal"`
}

// EvaluateAttacks replays the last executed step of a with every value in
// AttackMin..AttackMax in place of its operand. worst is the largest distance
// over legal attacks; ok is false when a has no operation to attack or no
// attack is legal.
func EvaluateAttacks(a *Assignment, target int) (attacks []Attack, worst int, ok bool) {
	last := a.LastStep()
	if last < 1 {
		return nil, 0, false
	}
	pre, op := a.Values[last-1], a.Ops[last]
	attacks = make([]Attack, 0, AttackMax-AttackMin+1)
	for v := AttackMin; v <= AttackMax; v++ {
		res, legal := Apply(op, pre, v, true)
		at := Attack{Value: v, Legal: legal}
		if legal {
			at.Result = res
			at.Distance = distance(target, res)
			if !ok || at.Distance > worst {
				worst = at.Distance
			}
			ok = true
		}
		attacks = append(attacks, at)
	}
	return attacks, worst, ok
}

// worstAttack is the allocation-free form of EvaluateAttacks used inside the
// search loop.
func worstAttack(op Op, pre, target int) (int, bool) {
	worst, ok := 0, false
	for v := AttackMin; v <= AttackMax; v++ {
		res, legal := Apply(op, pre, v, true)
		if !legal {
			continue
		}
		if d := distance(target, res); !ok || d > worst {
			worst = d
		}
		ok = true
	}
	return worst, ok
}

// resilientEval scores a candidate by its worst legal attack. Candidates
// without an operation after the initial selection are not scored.
func resilientEval(target int) evaluator {
	return func(a *Assignment, depth int) (Objective, bool) {
		if depth < 1 {
			return Objective{}, false
		}
		worst, ok := worstAttack(a.Ops[depth], a.Values[depth-1], target)
		if !ok {
			return Objective{}, false
		}
		return NewObjective(worst, depth+1), true
	}
}

// SolveResilient finds the assignment whose worst-case distance under every
// legal attack is smallest, breaking exact-hit ties by step count.
//
// The model should come from NewResilientModel; with a plain model the
// initial-selection-only candidate is simply never scored. Limits and
// cancellation behave as in SolveOptimal.
func (s *Solver) SolveResilient(ctx context.Context, opts ...OptimizeOption) (*ResilientSolution, error) {
	a, err := s.optimize(ctx, modeResilient, resilientEval(s.model.problem.Target), opts...)
	if a == nil {
		return nil, err
	}
	attacks, worst, _ := EvaluateAttacks(a, s.model.problem.Target)
	return &ResilientSolution{
		Solution:      *newSolution(s.model.problem, *a),
		WorstDistance: worst,
		Attacks:       attacks,
	}, err
}
