package countdown

// Step is one executed operation of a solution trace.
type Step struct {
	Index        int `json:"index" yaml:"index"`
	Op           Op  `json:"op" yaml:"op"`
	OperandIndex int `json:"operand_index" yaml:"operand_index"`
	Operand      int `json:"operand" yaml:"operand"`
	Result       int `json:"result" yaml:"result"`
}

// Solution is an optimal assignment together with its derived measures.
type Solution struct {
	Problem    Problem    `json:"problem" yaml:"problem"`
	Assignment Assignment `json:"assignment" yaml:"assignment"`
	Distance   int        `json:"distance" yaml:"distance"`
	UsedCount  int        `json:"used_count" yaml:"used_count"`
}

func newSolution(p *Problem, a Assignment) *Solution {
	return &Solution{
		Problem:    Problem{Numbers: append([]int(nil), p.Numbers...), Target: p.Target},
		Assignment: a,
		Distance:   distance(p.Target, a.Final()),
		UsedCount:  a.UsedCount(),
	}
}

// Objective returns the (distance, steps) pair the optimizer minimized.
func (s *Solution) Objective() Objective {
	return NewObjective(s.Distance, s.UsedCount)
}

// Initial is the number chosen by step 0.
func (s *Solution) Initial() int {
	return s.Assignment.Values[0]
}

// Final is the partial result after the last position.
func (s *Solution) Final() int {
	return s.Assignment.Final()
}

// Steps returns the executed operations 1..L in order.
func (s *Solution) Steps() []Step {
	var steps []Step
	for k := 1; k < PoolSize; k++ {
		if !s.Assignment.Executed[k] {
			break
		}
		idx := s.Assignment.Operands[k]
		steps = append(steps, Step{
			Index:        k,
			Op:           s.Assignment.Ops[k],
			OperandIndex: idx,
			Operand:      s.Problem.Numbers[idx],
			Result:       s.Assignment.Values[k],
		})
	}
	return steps
}

// ResilientSolution is a Solution scored against the adversary.
type ResilientSolution struct {
	Solution      `yaml:",inline"`
	WorstDistance int      `json:"worst_distance" yaml:"worst_distance"`
	Attacks       []Attack `json:"attacks" yaml:"attacks"`
}

// Objective returns the (worst distance, steps) pair the minimax search
// minimized.
func (r *ResilientSolution) Objective() Objective {
	return NewObjective(r.WorstDistance, r.UsedCount)
}
