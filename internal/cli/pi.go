package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/aryankumar/taskium/internal/config"
	"github.com/aryankumar/taskium/internal/console"
	"github.com/aryankumar/taskium/internal/executor"
	"github.com/aryankumar/taskium/internal/metrics"
	"github.com/aryankumar/taskium/internal/output"
	"github.com/aryankumar/taskium/internal/pi"
	"github.com/spf13/cobra"
)

// piOptions holds the flags of the pi command
type piOptions struct {
	tasks       int
	seed        uint64
	showMetrics bool
	quiet       bool
	wide        bool
	noHeaders   bool
}

func newPiCmd() *cobra.Command {
	opts := &piOptions{}

	cmd := &cobra.Command{
		Use:   "pi [threads] [points]",
		Short: "Estimate π with Monte-Carlo sampling tasks",
		Long: `Estimate π by submitting independent Monte-Carlo sampling tasks to a
fixed-size worker pool.

Each task draws [points] uniform samples in the unit square and counts those
inside the quarter circle. The estimate is 4 × hits / (tasks × points).

[threads] defaults to the number of CPUs and [points] to 10,000,000. Invalid
values are reported as a warning and both fall back to their defaults.`,
		Example: `  # One task per CPU, 10M points each
  taskium pi

  # 8 workers, 1M points per task
  taskium pi 8 1000000

  # 4 workers draining 64 tasks, reproducibly
  taskium pi 4 100000 --tasks 64 --seed 42

  # Per-task results and pool metrics as JSON
  taskium pi 4 -o json --metrics`,
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPi(cmd, args, opts)
		},
	}

	cmd.Flags().IntVar(&opts.tasks, "tasks", 0, "number of tasks to submit (default is one per thread)")
	cmd.Flags().Uint64Var(&opts.seed, "seed", 0, "seed for reproducible runs (0 picks a random seed)")
	cmd.Flags().BoolVar(&opts.showMetrics, "metrics", false, "print pool metrics after the run")
	cmd.Flags().BoolVarP(&opts.quiet, "quiet", "q", false, "suppress per-task progress lines")
	cmd.Flags().BoolVar(&opts.wide, "wide", false, "show per-task sample counts")
	cmd.Flags().BoolVar(&opts.noHeaders, "no-headers", false, "omit table headers")

	return cmd
}

func runPi(cmd *cobra.Command, args []string, opts *piOptions) error {
	logger := slog.Default()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	format, err := output.ParseFormat(cfg.Defaults.OutputFormat)
	if err != nil {
		return err
	}

	stdout := cmd.OutOrStdout()
	con := newConsole(stdout, cmd.ErrOrStderr(), format, cfg.Defaults.NoColor, opts.quiet)

	params := config.ParseArgs(args, cfg.Params(), con)

	tasks := params.Threads
	switch {
	case cmd.Flags().Changed("tasks"):
		tasks = opts.tasks
	case cfg.Defaults.Tasks > 0:
		tasks = cfg.Defaults.Tasks
	}

	seed := cfg.Defaults.Seed
	if cmd.Flags().Changed("seed") {
		seed = opts.seed
	}

	logger.Debug("running pi estimation",
		"threads", params.Threads,
		"points", params.Points,
		"tasks", tasks,
		"seed", seed)

	collector := metrics.New()
	pool := executor.NewPool(params.Threads, logger,
		executor.WithMetrics(collector),
		executor.WithPanicHandler(func(workerID int, recovered any) {
			con.Error("worker %d recovered from a panicking task: %v", workerID, recovered)
		}),
	)
	// Teardown always joins the workers, whichever way the run ends
	defer pool.Close(context.Background())

	ctx, cancel := runContext(cmd.Context(), cfg.Defaults.Timeout)
	defer cancel()

	estimator := pi.NewEstimator(pool, con, logger)
	report, err := estimator.Run(ctx, pi.Config{
		Tasks:  tasks,
		Points: params.Points,
		Seed:   seed,
	})
	if err != nil {
		return err
	}

	formatter := output.NewFormatter(format,
		output.WithNoColor(cfg.Defaults.NoColor),
		output.WithWide(opts.wide),
		output.WithNoHeaders(opts.noHeaders),
	)

	if err := formatter.FormatReport(stdout, report); err != nil {
		return fmt.Errorf("failed to format report: %w", err)
	}

	if !opts.showMetrics {
		return nil
	}

	// Join the workers first so the counters are final
	if err := pool.Close(ctx); err != nil {
		return err
	}

	samples, err := collector.Snapshot()
	if err != nil {
		return err
	}

	if format == output.FormatTable {
		fmt.Fprintln(stdout)
	}
	return formatter.FormatMetrics(stdout, samples)
}

// runContext bounds a run by timeout; a zero timeout leaves it bounded only by signals
func runContext(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, timeout)
}

// newConsole builds the progress logger for a run
// Structured output keeps stdout machine-readable, so progress moves to stderr
func newConsole(stdout, stderr io.Writer, format output.Format, noColor, quiet bool) *console.Console {
	if format != output.FormatTable {
		stdout = stderr
	}
	return console.New(noColor, console.WithWriters(stdout, stderr), console.WithQuiet(quiet))
}
