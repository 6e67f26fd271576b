package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gitrdm/countdown/internal/report"
	"github.com/gitrdm/countdown/pkg/countdown"
)

// problemFlags are the inputs shared by solve and resilient.
type problemFlags struct {
	numbers []int
	target  int
	asJSON  bool
}

func (f *problemFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntSliceVarP(&f.numbers, "numbers", "n", nil, "The six numbers, comma separated")
	cmd.Flags().IntVarP(&f.target, "target", "t", 0, "The target value")
	cmd.Flags().BoolVar(&f.asJSON, "json", false, "Print the solution as JSON")
}

// problem reads either seven positional integers (six numbers, then the
// target) or the --numbers and --target flags.
func (f *problemFlags) problem(cmd *cobra.Command, args []string) (*countdown.Problem, error) {
	if len(args) > 0 {
		if len(args) != countdown.PoolSize+1 {
			return nil, fmt.Errorf("expected %d numbers and a target, got %d arguments", countdown.PoolSize, len(args))
		}
		ints := make([]int, len(args))
		for i, s := range args {
			n, err := strconv.Atoi(s)
			if err != nil {
				return nil, fmt.Errorf("argument %d: %w", i+1, err)
			}
			ints[i] = n
		}
		return countdown.NewProblem(ints[:countdown.PoolSize], ints[countdown.PoolSize])
	}
	if !cmd.Flags().Changed("target") {
		return nil, errors.New("--target is required")
	}
	return countdown.NewProblem(f.numbers, f.target)
}

// limitNotice reports an anytime result on stderr; the incumbent is still
// printed.
func limitNotice(cmd *cobra.Command, err error) {
	fmt.Fprintf(cmd.ErrOrStderr(), "search stopped early, result may not be optimal: %v\n", err)
}

func newSolveCmd(a *app) *cobra.Command {
	f := &problemFlags{}
	cmd := &cobra.Command{
		Use:   "solve [n1 n2 n3 n4 n5 n6 target]",
		Short: "Find the closest value to the target using as few numbers as possible",
		Example: `  countdown solve 1 3 5 8 10 50 462
  countdown solve --numbers 25,50,75,100,3,6 --target 952 --workers 6`,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := f.problem(cmd, args)
			if err != nil {
				return err
			}
			a.logger.Info("solving", zap.Stringer("problem", p))

			solver := countdown.NewSolver(countdown.NewModel(p))
			sol, err := solver.SolveOptimal(cmd.Context(), a.solverOptions()...)
			if sol == nil {
				return err
			}
			if err != nil {
				limitNotice(cmd, err)
			}
			a.logger.Debug("search statistics", zap.Stringer("stats", solver.Stats()))

			out := cmd.OutOrStdout()
			if f.asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(sol)
			}
			header(out, fmt.Sprintf("Countdown: %v -> %d", p.Numbers, p.Target))
			return report.Write(out, sol)
		},
	}
	f.register(cmd)
	return cmd
}

func newResilientCmd(a *app) *cobra.Command {
	f := &problemFlags{}
	var showAttacks bool
	cmd := &cobra.Command{
		Use:   "resilient [n1 n2 n3 n4 n5 n6 target]",
		Short: "Minimize the worst distance when the last number used may be replaced by 1..10",
		Example: `  countdown resilient 1 3 5 8 10 50 462 --attacks`,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := f.problem(cmd, args)
			if err != nil {
				return err
			}
			a.logger.Info("solving resilient", zap.Stringer("problem", p))

			solver := countdown.NewSolver(countdown.NewResilientModel(p))
			sol, err := solver.SolveResilient(cmd.Context(), a.solverOptions()...)
			if sol == nil {
				return err
			}
			if err != nil {
				limitNotice(cmd, err)
			}
			a.logger.Debug("search statistics", zap.Stringer("stats", solver.Stats()))

			out := cmd.OutOrStdout()
			if f.asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(sol)
			}
			header(out, fmt.Sprintf("Countdown (resilient): %v -> %d", p.Numbers, p.Target))
			if err := report.WriteResilient(out, sol); err != nil {
				return err
			}
			if showAttacks {
				for _, line := range report.AttackLines(sol) {
					fmt.Fprintln(out, line)
				}
			}
			return nil
		},
	}
	f.register(cmd)
	cmd.Flags().BoolVar(&showAttacks, "attacks", false, "List every attack on the last operation")
	return cmd
}
