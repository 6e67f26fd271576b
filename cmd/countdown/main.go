// Command countdown solves Countdown numbers-game instances from the command
// line, in batches, or behind an HTTP API.
package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gitrdm/countdown/internal/config"
	"github.com/gitrdm/countdown/internal/logging"
	"github.com/gitrdm/countdown/pkg/countdown"
)

var headerStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("39"))

// app holds state shared by every subcommand.
type app struct {
	// Global flags
	configPath string
	verbose    bool
	workers    int
	timeout    time.Duration
	nodeLimit  int

	cfg    *config.Config
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "countdown",
		Short: "Solve the Countdown numbers game",
		Long: `countdown finds the shortest way to reach a target from six numbers with
at most five of +, -, * and exact /, or the closest reachable value.

The resilient mode assumes an adversary replaces the last number used with
any value from 1 to 10 and minimizes the worst resulting distance.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "Path to a YAML config file")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable debug logging")
	root.PersistentFlags().IntVarP(&a.workers, "workers", "w", 0, "Parallel search workers (<=1 searches sequentially)")
	root.PersistentFlags().DurationVar(&a.timeout, "timeout", 0, "Search time limit (0 for none)")
	root.PersistentFlags().IntVar(&a.nodeLimit, "node-limit", 0, "Maximum candidates scored (0 for none)")

	root.AddCommand(
		newSolveCmd(a),
		newResilientCmd(a),
		newBatchCmd(a),
		newServeCmd(a),
		newVersionCmd(),
	)
	return root
}

// setup loads configuration, applies flag overrides and builds the logger.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("workers") {
		cfg.Solver.Workers = a.workers
	}
	if flags.Changed("timeout") {
		cfg.Solver.TimeLimit = a.timeout.String()
	}
	if flags.Changed("node-limit") {
		cfg.Solver.NodeLimit = a.nodeLimit
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg

	logger, _, err := logging.New(cfg.Logging, a.verbose)
	if err != nil {
		return err
	}
	a.logger = logger
	return nil
}

// solverOptions returns the configured optimizer options with the logger.
func (a *app) solverOptions() []countdown.OptimizeOption {
	return append([]countdown.OptimizeOption{countdown.WithLogger(a.logger)}, a.cfg.SolverOptions()...)
}

// header prints a title, styled when w is a terminal.
func header(w io.Writer, title string) {
	if f, ok := w.(*os.File); ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) {
		fmt.Fprintln(w, headerStyle.Render(title))
		return
	}
	fmt.Fprintln(w, title)
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
