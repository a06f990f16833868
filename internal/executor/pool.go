package executor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/aryankumar/taskium/internal/metrics"
)

var (
	// ErrPoolShutdown is returned by Submit once Shutdown has been called
	ErrPoolShutdown = errors.New("pool is shutting down, cannot submit new tasks")

	// ErrNilTask is returned by Submit for a nil task
	ErrNilTask = errors.New("task must not be nil")
)

// State is the lifecycle state of the pool as a whole
type State int

const (
	// StateRunning accepts submits; workers execute or idle
	StateRunning State = iota
	// StateShuttingDown means the stop flag is set and workers are draining
	StateShuttingDown
	// StateStopped means every worker has exited and been joined
	StateStopped
)

// String returns the state name
func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateShuttingDown:
		return "shutting-down"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Option configures a Pool
type Option func(*options)

type options struct {
	metrics *metrics.Collector
	onPanic PanicHandler
}

// WithMetrics records pool activity on the given collector
func WithMetrics(m *metrics.Collector) Option {
	return func(o *options) {
		o.metrics = m
	}
}

// WithPanicHandler registers a callback invoked whenever a task panics
// The handler runs on the worker goroutine that recovered the panic
func WithPanicHandler(h PanicHandler) Option {
	return func(o *options) {
		o.onPanic = h
	}
}

// Pool is a fixed-size worker pool
// Workers are started by NewPool and live until Shutdown followed by Wait (or Close)
type Pool struct {
	// queue is shared by every worker and owns the stop flag
	queue *TaskQueue

	// workers is fixed at construction
	workers []*Worker

	// logger for structured logging
	logger *slog.Logger

	metrics *metrics.Collector

	// shutdown indicates Shutdown has been called
	shutdown atomic.Bool

	// stopped indicates every worker has been joined
	stopped atomic.Bool

	// joined is closed once all worker goroutines have exited
	joined   chan struct{}
	joinOnce sync.Once
}

// NewPool creates a pool and starts the specified number of workers
// workers must be > 0, otherwise it defaults to 1 so that queued tasks always drain
func NewPool(workers int, logger *slog.Logger, opts ...Option) *Pool {
	if logger == nil {
		logger = slog.Default()
	}

	if workers <= 0 {
		logger.Warn("invalid worker count, defaulting to 1", "requested", workers)
		workers = 1
	}

	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	p := &Pool{
		queue:   NewTaskQueue(),
		workers: make([]*Worker, 0, workers),
		logger:  logger,
		metrics: o.metrics,
		joined:  make(chan struct{}),
	}

	for i := 0; i < workers; i++ {
		p.workers = append(p.workers, newWorker(i, p.queue, logger, o.metrics, o.onPanic))
	}

	p.metrics.SetWorkers(workers)
	p.logger.Debug("worker pool started", "workers", workers)

	return p
}

// Submit adds a task to the pool's queue
// Submit never blocks. It returns ErrPoolShutdown once Shutdown has been called
func (p *Pool) Submit(task Task) error {
	if task == nil {
		return ErrNilTask
	}
	return p.SubmitWorker(func(int) { task() })
}

// SubmitWorker is Submit for a task that receives the ID of the worker running it
func (p *Pool) SubmitWorker(task WorkerTask) error {
	if task == nil {
		return ErrNilTask
	}

	if p.shutdown.Load() {
		p.metrics.TaskRejected()
		return ErrPoolShutdown
	}

	// The queue re-checks its own flag under its lock, closing the window
	// between the check above and a concurrent Shutdown
	if err := p.queue.PushWorker(task); err != nil {
		p.metrics.TaskRejected()
		return ErrPoolShutdown
	}

	queued := p.queue.Len()
	p.metrics.TaskSubmitted(queued)
	p.logger.Debug("task submitted", "queued", queued)

	return nil
}

// Shutdown sets the stop flag and wakes every worker
// It does not block; workers drain the remaining tasks and exit. Use Wait to join them
// Repeated calls are no-ops
func (p *Pool) Shutdown() {
	if !p.shutdown.CompareAndSwap(false, true) {
		return
	}

	p.logger.Info("shutting down worker pool", "pending", p.queue.Len())
	p.queue.Close()
}

// Wait blocks until every worker has drained the queue and exited
// The context bounds how long to wait; workers keep draining if it expires
func (p *Pool) Wait(ctx context.Context) error {
	p.joinOnce.Do(func() {
		go func() {
			for _, w := range p.workers {
				<-w.Done()
			}
			p.stopped.Store(true)
			p.logger.Info("worker pool shut down successfully",
				"completed", p.Completed(),
				"panicked", p.Panicked())
			close(p.joined)
		}()
	})

	select {
	case <-p.joined:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("shutdown timeout: %w", ctx.Err())
	}
}

// Close shuts the pool down and waits for every worker to exit
// It is intended for defer so that teardown joins workers on every exit path
func (p *Pool) Close(ctx context.Context) error {
	p.Shutdown()
	return p.Wait(ctx)
}

// State returns the pool's lifecycle state
func (p *Pool) State() State {
	switch {
	case p.stopped.Load():
		return StateStopped
	case p.shutdown.Load():
		return StateShuttingDown
	default:
		return StateRunning
	}
}

// IsShutdown returns true if Shutdown has been called
func (p *Pool) IsShutdown() bool {
	return p.shutdown.Load()
}

// WorkerCount returns the number of workers in the pool
func (p *Pool) WorkerCount() int {
	return len(p.workers)
}

// QueueLength returns the number of tasks waiting to be picked up
func (p *Pool) QueueLength() int {
	return p.queue.Len()
}

// Completed returns the number of tasks that ran to completion across all workers
func (p *Pool) Completed() int64 {
	var total int64
	for _, w := range p.workers {
		total += w.Completed()
	}
	return total
}

// Panicked returns the number of tasks that panicked across all workers
func (p *Pool) Panicked() int64 {
	var total int64
	for _, w := range p.workers {
		total += w.Panicked()
	}
	return total
}

// WorkerStates returns a snapshot of every worker's state, indexed by worker ID
func (p *Pool) WorkerStates() []WorkerState {
	states := make([]WorkerState, len(p.workers))
	for i, w := range p.workers {
		states[i] = w.State()
	}
	return states
}
