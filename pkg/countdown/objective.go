package countdown

import "fmt"

// Objective is the lexicographic pair minimized by the optimizer. Steps is
// the used count when Distance is zero and 0 otherwise, so step count only
// matters among exact hits.
type Objective struct {
	Distance int `json:"distance"`
	Steps    int `json:"steps"`
}

// NewObjective builds the pair for a candidate with the given distance and
// number of executed steps.
func NewObjective(distance, used int) Objective {
	if distance != 0 {
		used = 0
	}
	return Objective{Distance: distance, Steps: used}
}

// Less orders objectives by distance, then by steps.
func (o Objective) Less(other Objective) bool {
	if o.Distance != other.Distance {
		return o.Distance < other.Distance
	}
	return o.Steps < other.Steps
}

func (o Objective) String() string {
	return fmt.Sprintf("(%d, %d)", o.Distance, o.Steps)
}

// childBound is the best objective any strict extension of a prefix with
// depth d can reach: an exact hit using d+2 steps.
func childBound(d int) Objective {
	return Objective{Distance: 0, Steps: d + 2}
}
