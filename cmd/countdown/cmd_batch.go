package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gitrdm/countdown/internal/batch"
)

func newBatchCmd(a *app) *cobra.Command {
	var (
		outPath     string
		concurrency int
	)
	cmd := &cobra.Command{
		Use:   "batch <jobs.yaml>",
		Short: "Solve every problem of a YAML batch file",
		Long: `Solve every problem of a YAML batch file concurrently and print the
results as YAML. Jobs without an id get a generated UUID.

  jobs:
    - id: classic
      numbers: [1, 3, 5, 8, 10, 50]
      target: 462
    - numbers: [25, 50, 75, 100, 3, 6]
      target: 952
      resilient: true`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jobs, err := batch.Load(args[0])
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("concurrency") {
				a.cfg.Batch.Concurrency = concurrency
			}

			runner := &batch.Runner{
				Concurrency: a.cfg.Batch.Concurrency,
				Options:     a.cfg.SolverOptions(),
				Logger:      a.logger,
			}
			a.logger.Info("running batch", zap.Int("jobs", len(jobs)), zap.Int("concurrency", runner.Concurrency))
			results, err := runner.Run(cmd.Context(), jobs)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if outPath != "" {
				fh, err := os.Create(outPath)
				if err != nil {
					return fmt.Errorf("failed to create output: %w", err)
				}
				defer fh.Close()
				out = fh
			}
			return batch.Encode(out, results)
		},
	}
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Write results to a file instead of stdout")
	cmd.Flags().IntVar(&concurrency, "concurrency", 0, "Jobs solved at once (default from config)")
	return cmd
}
