package pi

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/aryankumar/taskium/internal/executor"
	"github.com/aryankumar/taskium/internal/util"
	"github.com/google/uuid"
)

// Logger is the progress sink used while a run is in flight
type Logger interface {
	Info(format string, a ...interface{})
	General(format string, a ...interface{})
}

// Config describes a single estimation run
type Config struct {
	// Tasks is the number of tasks submitted to the pool
	Tasks int

	// Points is the number of samples drawn by each task
	Points int

	// Seed makes the run reproducible; 0 picks a random seed
	Seed uint64
}

// Report is the outcome of an estimation run
type Report struct {
	RunID    string            `json:"runId" yaml:"runId"`
	Tasks    int               `json:"tasks" yaml:"tasks"`
	Points   int               `json:"pointsPerTask" yaml:"pointsPerTask"`
	Seed     uint64            `json:"seed" yaml:"seed"`
	InCircle int64             `json:"inCircle" yaml:"inCircle"`
	Estimate float64           `json:"estimate" yaml:"estimate"`
	Duration time.Duration     `json:"duration" yaml:"duration"`
	Results  []executor.Result `json:"-" yaml:"-"`
}

// Estimator submits Monte-Carlo sampling tasks to a pool and aggregates their counts
type Estimator struct {
	pool    *executor.Pool
	console Logger
	logger  *slog.Logger
}

// NewEstimator creates an estimator bound to an existing pool
func NewEstimator(pool *executor.Pool, console Logger, logger *slog.Logger) *Estimator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Estimator{
		pool:    pool,
		console: console,
		logger:  logger,
	}
}

// Run submits cfg.Tasks sampling tasks and waits for all of them
// The estimate is 4 × Σ in-circle counts / (tasks × points)
func (e *Estimator) Run(ctx context.Context, cfg Config) (*Report, error) {
	if cfg.Tasks <= 0 {
		return nil, util.NewValidationError("tasks", cfg.Tasks, "must be positive")
	}
	if cfg.Points <= 0 {
		return nil, util.NewValidationError("points", cfg.Points, "must be positive")
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}

	runID := uuid.NewString()
	logger := e.logger.With("run_id", runID)
	startTime := time.Now()

	e.info("starting pi estimation with %d workers, %d tasks and %d points per task",
		e.pool.WorkerCount(), cfg.Tasks, cfg.Points)
	logger.Debug("estimation started", "tasks", cfg.Tasks, "points", cfg.Points, "seed", seed)

	futures := make([]*executor.Future, 0, cfg.Tasks)
	for i := 0; i < cfg.Tasks; i++ {
		f, err := executor.SubmitWorkerFunc(e.pool, fmt.Sprintf("pi-%d", i), e.task(i, cfg.Points, seed))
		if err != nil {
			return nil, fmt.Errorf("failed to submit estimation task %d: %w", i, err)
		}
		futures = append(futures, f)
		e.info("submitted pi estimation task %d", i)
	}

	results, err := executor.WaitAll(ctx, futures)
	if err != nil {
		return nil, fmt.Errorf("estimation interrupted after %d/%d tasks: %w", len(results), cfg.Tasks, err)
	}

	if failed := executor.FilterFailed(results); len(failed) > 0 {
		err := util.CombineErrors(executor.GetErrors(failed)...)
		return nil, fmt.Errorf("estimation failed: %w", err)
	}

	var inCircle int64
	for _, r := range results {
		inCircle += int64(r.Data.(int))
	}

	report := &Report{
		RunID:    runID,
		Tasks:    cfg.Tasks,
		Points:   cfg.Points,
		Seed:     seed,
		InCircle: inCircle,
		Estimate: Aggregate(inCircle, cfg.Tasks, cfg.Points),
		Duration: time.Since(startTime),
		Results:  results,
	}

	logger.Info("estimation completed",
		"estimate", report.Estimate,
		"duration", report.Duration,
		"summary", executor.Summarize(results).String())

	if e.console != nil {
		e.console.General("\n[RESULT] estimated pi = %f", report.Estimate)
	}

	return report, nil
}

func (e *Estimator) task(id, points int, seed uint64) func(workerID int) (interface{}, error) {
	return func(workerID int) (interface{}, error) {
		e.info("[WORKER %d] task %d started", workerID, id)
		rng := rand.New(rand.NewPCG(seed, uint64(id)))
		count := Sample(rng, points)
		e.info("[WORKER %d] task %d completed", workerID, id)
		return count, nil
	}
}

func (e *Estimator) info(format string, a ...interface{}) {
	if e.console != nil {
		e.console.Info(format, a...)
	}
}

// Sample draws points uniform (x, y) pairs in [0,1)² and counts those with x²+y² ≤ 1
func Sample(rng *rand.Rand, points int) int {
	inCircle := 0
	for i := 0; i < points; i++ {
		x := rng.Float64()
		y := rng.Float64()
		if x*x+y*y <= 1.0 {
			inCircle++
		}
	}
	return inCircle
}

// Aggregate converts a total in-circle count into a Pi estimate
func Aggregate(inCircle int64, tasks, points int) float64 {
	total := float64(tasks) * float64(points)
	if total == 0 {
		return 0
	}
	return 4.0 * float64(inCircle) / total
}
