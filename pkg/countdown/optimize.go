package countdown

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// OptimizeOption configures SolveOptimal and SolveResilient.
// Use helpers like WithTimeLimit, WithNodeLimit, WithParallelWorkers and
// WithLogger to customize the search.
type OptimizeOption func(*optConfig)

type optConfig struct {
	timeLimit       time.Duration
	nodeLimit       int
	parallelWorkers int
	logger          *zap.Logger
}

// WithTimeLimit sets a hard time limit for the search. When reached, the best
// incumbent is returned together with context.DeadlineExceeded.
func WithTimeLimit(d time.Duration) OptimizeOption {
	return func(c *optConfig) { c.timeLimit = d }
}

// WithNodeLimit limits the number of candidate assignments scored. When
// reached, the best incumbent is returned together with ErrSearchLimitReached.
func WithNodeLimit(n int) OptimizeOption {
	return func(c *optConfig) { c.nodeLimit = n }
}

// WithParallelWorkers searches the initial-selection partitions on a worker
// pool. Values <= 1 select sequential mode.
func WithParallelWorkers(workers int) OptimizeOption {
	return func(c *optConfig) { c.parallelWorkers = workers }
}

// WithLogger routes search progress to l at debug level.
func WithLogger(l *zap.Logger) OptimizeOption {
	return func(c *optConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

const (
	modeStandard  = "standard"
	modeResilient = "resilient"
)

// evaluator scores the candidate whose last executed step is depth. ok is
// false when the candidate takes no part in the objective.
type evaluator func(a *Assignment, depth int) (obj Objective, ok bool)

func standardEval(target int) evaluator {
	return func(a *Assignment, depth int) (Objective, bool) {
		return NewObjective(distance(target, a.Values[depth]), depth+1), true
	}
}

// Solver runs branch-and-bound search over a Model.
//
// Thread safety: Solver instances are NOT safe for concurrent solve calls;
// Stats reflects the most recent call. Create one Solver per goroutine; they
// may share a Model.
type Solver struct {
	model   *Model
	monitor *SearchMonitor
}

// NewSolver creates a solver for the given model.
func NewSolver(model *Model) *Solver {
	return &Solver{model: model}
}

// Stats returns the statistics of the most recent solve call.
func (s *Solver) Stats() *SearchStats {
	if s.monitor == nil {
		return &SearchStats{}
	}
	return s.monitor.GetStats()
}

// SolveOptimal finds the assignment minimizing (distance, steps).
//
// Contract:
//   - On success, returns a Solution whose objective is optimal over the
//     model's feasible region. Among equal objectives the first assignment in
//     search order wins: initial index ascending, then per step operand index
//     ascending and operators in the order + - * /, a prefix before its
//     extensions. Parallel mode returns the same witness.
//   - If the region is empty, returns (nil, ErrInfeasible).
//   - If ctx is cancelled, the time limit expires or the node limit is hit,
//     returns the best incumbent (possibly nil) together with the error.
func (s *Solver) SolveOptimal(ctx context.Context, opts ...OptimizeOption) (*Solution, error) {
	if s.model == nil || s.model.problem == nil {
		return nil, fmt.Errorf("%w: nil model", ErrInvalidProblem)
	}
	a, err := s.optimize(ctx, modeStandard, standardEval(s.model.problem.Target), opts...)
	if a == nil {
		return nil, err
	}
	return newSolution(s.model.problem, *a), err
}

func (s *Solver) optimize(ctx context.Context, mode string, eval evaluator, opts ...OptimizeOption) (*Assignment, error) {
	if s.model == nil || s.model.problem == nil {
		return nil, fmt.Errorf("%w: nil model", ErrInvalidProblem)
	}
	if err := s.model.problem.Validate(); err != nil {
		return nil, err
	}

	cfg := &optConfig{logger: zap.NewNop()}
	for _, o := range opts {
		if o != nil {
			o(cfg)
		}
	}

	if cfg.timeLimit > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.timeLimit)
		defer cancel()
	}

	p := s.model.problem
	log := cfg.logger.With(zap.String("mode", mode))
	log.Debug("search started",
		zap.Ints("numbers", p.Numbers),
		zap.Int("target", p.Target),
		zap.Int("workers", cfg.parallelWorkers))

	s.monitor = NewSearchMonitor()

	var (
		best *Assignment
		obj  Objective
		err  error
	)
	if cfg.parallelWorkers > 1 {
		best, obj, err = s.optimizeParallel(ctx, eval, cfg, log)
	} else {
		sr := newSearch(s.model, eval, cfg, log, nil, &atomic.Int64{})
		err = sr.run(ctx, rootsOf(p))
		s.monitor.merge(sr.stats)
		if sr.have {
			best, obj = &sr.best, sr.bestObj
		}
	}
	s.monitor.finish()
	stats := s.monitor.GetStats()

	result := resultOptimal
	switch {
	case errors.Is(err, ErrSearchLimitReached):
		result = resultLimit
	case err != nil:
		result = resultCanceled
	case best == nil:
		result = resultInfeasible
		err = ErrInfeasible
	}
	observeSolve(mode, result, stats)

	if best == nil {
		log.Debug("search finished without incumbent", zap.Error(err), zap.Stringer("stats", stats))
		return nil, err
	}
	log.Debug("search finished",
		zap.Stringer("objective", obj),
		zap.String("result", result),
		zap.Stringer("stats", stats))
	return best, err
}

func rootsOf(p *Problem) []int {
	roots := make([]int, len(p.Numbers))
	for i := range roots {
		roots[i] = i
	}
	return roots
}

// search is the depth-first branch-and-bound state owned by one worker.
// Every node is a complete assignment: steps after the current depth are
// skipped and carry the partial result forward, so each node is scored as a
// candidate before it is extended.
type search struct {
	model   *Model
	numbers []int
	eval    evaluator
	cfg     *optConfig
	log     *zap.Logger
	shared  *incumbent    // nil in sequential mode
	scored  *atomic.Int64 // candidates scored across all workers

	best    Assignment
	bestObj Objective
	have    bool
	stats   SearchStats
}

func newSearch(m *Model, eval evaluator, cfg *optConfig, log *zap.Logger, shared *incumbent, scored *atomic.Int64) *search {
	return &search{
		model:   m,
		numbers: m.problem.Numbers,
		eval:    eval,
		cfg:     cfg,
		log:     log,
		shared:  shared,
		scored:  scored,
	}
}

// run searches the subtrees rooted at each initial operand index in roots.
func (sr *search) run(ctx context.Context, roots []int) error {
	for _, idx := range roots {
		if err := ctx.Err(); err != nil {
			return err
		}
		var a Assignment
		a.Operands[0] = idx
		a.Executed[0] = true
		a.Values[0] = sr.numbers[idx]
		a.skipFrom(0)
		sr.stats.Partitions++
		if err := sr.model.checkStep(&a, 0); err != nil {
			sr.stats.Rejected++
			continue
		}
		if err := sr.visit(ctx, &a, 0); err != nil {
			return err
		}
	}
	return nil
}

func (sr *search) visit(ctx context.Context, a *Assignment, d int) error {
	sr.stats.NodesExplored++
	if d > sr.stats.MaxDepth {
		sr.stats.MaxDepth = d
	}
	if sr.stats.NodesExplored&1023 == 0 {
		if err := ctx.Err(); err != nil {
			return err
		}
	}

	// Score the node as a finished assignment if the skipped tail is feasible.
	if sr.model.checkFrom(a, d+1) == nil {
		if obj, ok := sr.eval(a, d); ok {
			sr.stats.Candidates++
			sr.consider(a, obj)
			if n := sr.cfg.nodeLimit; n > 0 && sr.scored.Add(1) >= int64(n) {
				return ErrSearchLimitReached
			}
		}
	}

	if d == MaxOperations {
		return nil
	}

	next, cur := d+1, a.Values[d]
	defer a.skipFrom(d)
	for idx, operand := range sr.numbers {
		// An incumbent found among the siblings can close the whole level.
		if !sr.improvable(childBound(d)) {
			sr.stats.Pruned++
			return nil
		}
		for _, op := range Ops {
			v, legal := Apply(op, cur, operand, true)
			if !legal {
				sr.stats.Rejected++
				continue
			}
			a.Operands[next] = idx
			a.Ops[next] = op
			a.Executed[next] = true
			a.Values[next] = v
			a.skipFrom(next)
			if err := sr.model.checkStep(a, next); err != nil {
				sr.stats.Rejected++
				continue
			}
			if err := sr.visit(ctx, a, next); err != nil {
				return err
			}
		}
	}
	return nil
}

// consider keeps a as the incumbent when it strictly improves on it.
func (sr *search) consider(a *Assignment, obj Objective) {
	if sr.have && !obj.Less(sr.bestObj) {
		return
	}
	sr.best, sr.bestObj, sr.have = *a, obj, true
	sr.stats.Incumbents++
	if sr.shared != nil {
		sr.shared.offer(obj)
	}
	sr.log.Debug("incumbent improved",
		zap.Int("distance", obj.Distance),
		zap.Int("steps", obj.Steps),
		zap.Int("initial", a.Values[0]),
		zap.Int("final", a.Final()))
}

// improvable reports whether a subtree whose best possible objective is bound
// could still change the result. Another worker's incumbent prunes only when
// strictly better, so ties are still resolved by partition order.
func (sr *search) improvable(bound Objective) bool {
	if sr.have && !bound.Less(sr.bestObj) {
		return false
	}
	if sr.shared != nil {
		if best, ok := sr.shared.load(); ok && best.Less(bound) {
			return false
		}
	}
	return true
}
