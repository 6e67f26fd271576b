package countdown

import (
	"context"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/gitrdm/countdown/internal/parallel"
)

// incumbent is the best objective seen by any worker, shared for pruning.
type incumbent struct {
	best atomic.Pointer[Objective]
}

func (in *incumbent) load() (Objective, bool) {
	p := in.best.Load()
	if p == nil {
		return Objective{}, false
	}
	return *p, true
}

// offer publishes obj if it strictly improves on the shared value.
func (in *incumbent) offer(obj Objective) {
	for {
		cur := in.best.Load()
		if cur != nil && !obj.Less(*cur) {
			return
		}
		if in.best.CompareAndSwap(cur, &obj) {
			return
		}
	}
}

// optimizeParallel runs one search per initial operand index on a worker
// pool. Workers share the incumbent objective for pruning and the scored
// candidate count for the node limit. Partition results are merged in index
// order with strict improvement, which yields the sequential witness.
func (s *Solver) optimizeParallel(ctx context.Context, eval evaluator, cfg *optConfig, log *zap.Logger) (*Assignment, Objective, error) {
	pool := parallel.NewWorkerPool(cfg.parallelWorkers)
	defer pool.Shutdown()

	roots := rootsOf(s.model.problem)
	shared := &incumbent{}
	scored := &atomic.Int64{}
	searches := make([]*search, len(roots))
	errs := make([]error, len(roots))

	var wg sync.WaitGroup
	for i, root := range roots {
		i, root := i, root
		sr := newSearch(s.model, eval, cfg, log.With(zap.Int("partition", root)), shared, scored)
		searches[i] = sr
		wg.Add(1)
		task := func() {
			defer wg.Done()
			errs[i] = sr.run(ctx, []int{root})
		}
		if err := pool.Submit(ctx, task); err != nil {
			wg.Done()
			errs[i] = err
		}
	}
	wg.Wait()

	var (
		best *Assignment
		obj  Objective
	)
	for _, sr := range searches {
		s.monitor.merge(sr.stats)
		if sr.have && (best == nil || sr.bestObj.Less(obj)) {
			best, obj = &sr.best, sr.bestObj
		}
	}
	for _, err := range errs {
		if err != nil {
			return best, obj, err
		}
	}
	return best, obj, nil
}
