// Package batch solves a YAML list of countdown problems concurrently.
package batch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/gitrdm/countdown/pkg/countdown"
)

// Job is one problem of a batch file.
type Job struct {
	ID        string `yaml:"id,omitempty" json:"id"`
	Numbers   []int  `yaml:"numbers" json:"numbers"`
	Target    int    `yaml:"target" json:"target"`
	Resilient bool   `yaml:"resilient,omitempty" json:"resilient"`
}

// File is the on-disk batch format.
type File struct {
	Jobs []Job `yaml:"jobs"`
}

// Result is the outcome of one job. Exactly one of Solution and Resilient is
// set when the job produced an incumbent.
type Result struct {
	ID         string                       `yaml:"id" json:"id"`
	Solution   *countdown.Solution          `yaml:"solution,omitempty" json:"solution,omitempty"`
	Resilient  *countdown.ResilientSolution `yaml:"resilient,omitempty" json:"resilient,omitempty"`
	Error      string                       `yaml:"error,omitempty" json:"error,omitempty"`
	DurationMs int64                        `yaml:"duration_ms" json:"duration_ms"`
}

// Objective returns the minimized pair of whichever solution is set.
func (r *Result) Objective() (countdown.Objective, bool) {
	switch {
	case r.Resilient != nil:
		return r.Resilient.Objective(), true
	case r.Solution != nil:
		return r.Solution.Objective(), true
	}
	return countdown.Objective{}, false
}

// Decode reads a batch file and assigns IDs to jobs that lack one.
func Decode(r io.Reader) ([]Job, error) {
	var f File
	if err := yaml.NewDecoder(r).Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to parse batch: %w", err)
	}
	for i := range f.Jobs {
		if f.Jobs[i].ID == "" {
			f.Jobs[i].ID = uuid.NewString()
		}
	}
	return f.Jobs, nil
}

// Load decodes the batch file at path.
func Load(path string) ([]Job, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read batch: %w", err)
	}
	defer fh.Close()
	return Decode(fh)
}

// Runner solves jobs with bounded concurrency.
type Runner struct {
	Concurrency int
	Options     []countdown.OptimizeOption
	Logger      *zap.Logger
}

// Run solves every job and returns results in input order. A failing job is
// reported in its Result; Run itself fails only when ctx ends first.
func (r *Runner) Run(ctx context.Context, jobs []Job) ([]Result, error) {
	log := r.Logger
	if log == nil {
		log = zap.NewNop()
	}
	limit := r.Concurrency
	if limit <= 0 {
		limit = 1
	}

	results := make([]Result, len(jobs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, job := range jobs {
		i, job := i, job
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			results[i] = r.solve(gctx, job, log)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	if err := ctx.Err(); err != nil {
		return results, err
	}
	return results, nil
}

func (r *Runner) solve(ctx context.Context, job Job, log *zap.Logger) Result {
	res := Result{ID: job.ID}
	jl := log.With(zap.String("job", job.ID), zap.Bool("resilient", job.Resilient))
	opts := append([]countdown.OptimizeOption{countdown.WithLogger(jl)}, r.Options...)

	start := time.Now()
	var err error
	if job.Resilient {
		res.Resilient, err = countdown.SolveResilient(ctx, job.Numbers, job.Target, opts...)
	} else {
		res.Solution, err = countdown.Solve(ctx, job.Numbers, job.Target, opts...)
	}
	res.DurationMs = time.Since(start).Milliseconds()

	if err != nil {
		res.Error = err.Error()
		jl.Warn("job finished with error", zap.Error(err))
		return res
	}
	obj, _ := res.Objective()
	jl.Info("job solved", zap.Stringer("objective", obj), zap.Int64("duration_ms", res.DurationMs))
	return res
}

// Encode writes results as YAML.
func Encode(w io.Writer, results []Result) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(map[string][]Result{"results": results}); err != nil {
		return fmt.Errorf("failed to encode results: %w", err)
	}
	return enc.Close()
}
