package countdown

// Assignment is one point of the search space. Index 0 is the initial
// selection; indices 1..5 are the operation steps. Ops[0] is unused.
// Values holds the partial result after each step, so Values[5] is the final
// number whether or not step 5 ran.
type Assignment struct {
	Operands [PoolSize]int  `json:"operands" yaml:"operands"`
	Ops      [PoolSize]Op   `json:"ops" yaml:"ops"`
	Executed [PoolSize]bool `json:"executed" yaml:"executed"`
	Values   [PoolSize]int  `json:"values" yaml:"values"`
}

// UsedCount is the number of executed steps, the initial selection included.
func (a *Assignment) UsedCount() int {
	n := 0
	for _, e := range a.Executed {
		if e {
			n++
		}
	}
	return n
}

// LastStep returns the largest k with step k executed, or -1 when nothing ran.
func (a *Assignment) LastStep() int {
	for k := PoolSize - 1; k >= 0; k-- {
		if a.Executed[k] {
			return k
		}
	}
	return -1
}

// Final is the partial result after the last position.
func (a *Assignment) Final() int {
	return a.Values[PoolSize-1]
}

// Replay recomputes the partial results from the pool using Apply. ok is false
// when an operand index is out of range or an executed step is illegal.
func (a *Assignment) Replay(numbers []int) (values [PoolSize]int, ok bool) {
	if len(numbers) != PoolSize {
		return values, false
	}
	idx := a.Operands[0]
	if idx < 0 || idx >= PoolSize {
		return values, false
	}
	values[0] = numbers[idx]
	for k := 1; k < PoolSize; k++ {
		operand := 0
		if a.Executed[k] {
			idx = a.Operands[k]
			if idx < 0 || idx >= PoolSize {
				return values, false
			}
			operand = numbers[idx]
		}
		next, legal := Apply(a.Ops[k], values[k-1], operand, a.Executed[k])
		if !legal {
			return values, false
		}
		values[k] = next
	}
	return values, true
}

// skipFrom marks every step after k as skipped and carries Values[k] forward.
func (a *Assignment) skipFrom(k int) {
	for j := k + 1; j < PoolSize; j++ {
		a.Operands[j] = 0
		a.Ops[j] = OpAdd
		a.Executed[j] = false
		a.Values[j] = a.Values[k]
	}
}
