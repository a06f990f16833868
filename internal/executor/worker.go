package executor

import (
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync/atomic"
	"time"

	"github.com/aryankumar/taskium/internal/metrics"
)

// WorkerState is the lifecycle state of a single worker
type WorkerState int32

const (
	// WorkerIdle means the worker is waiting for a task
	WorkerIdle WorkerState = iota
	// WorkerExecuting means the worker is running a task outside the queue lock
	WorkerExecuting
	// WorkerTerminated means the worker observed a closed, drained queue and exited
	WorkerTerminated
)

// String returns the state name
func (s WorkerState) String() string {
	switch s {
	case WorkerIdle:
		return "idle"
	case WorkerExecuting:
		return "executing"
	case WorkerTerminated:
		return "terminated"
	default:
		return "unknown"
	}
}

// PanicHandler is called with the worker ID and the recovered value when a task panics
type PanicHandler func(workerID int, recovered any)

// Worker owns one goroutine that services the shared queue until it is closed and drained
type Worker struct {
	id      int
	queue   *TaskQueue
	logger  *slog.Logger
	metrics *metrics.Collector
	onPanic PanicHandler

	state     atomic.Int32
	completed atomic.Int64
	panicked  atomic.Int64

	// done is closed when the goroutine exits
	done chan struct{}
}

// newWorker creates a worker and starts its goroutine immediately
func newWorker(id int, queue *TaskQueue, logger *slog.Logger, m *metrics.Collector, onPanic PanicHandler) *Worker {
	w := &Worker{
		id:      id,
		queue:   queue,
		logger:  logger,
		metrics: m,
		onPanic: onPanic,
		done:    make(chan struct{}),
	}

	go w.loop()

	return w
}

// loop waits for tasks and runs them until PopBlocking reports the stop result
// If a task ends its goroutine with runtime.Goexit, a fresh goroutine takes over
// the loop, so the pool keeps its size and the queue is still drained
func (w *Worker) loop() {
	drained := false
	defer func() {
		if !drained {
			w.logger.Warn("task exited the worker goroutine, restarting worker", "worker_id", w.id)
			go w.loop()
			return
		}
		w.state.Store(int32(WorkerTerminated))
		close(w.done)
	}()

	w.logger.Debug("worker started", "worker_id", w.id)

	for {
		w.state.Store(int32(WorkerIdle))

		task, ok := w.queue.PopBlocking()
		if !ok {
			w.logger.Debug("worker finished (queue drained)",
				"worker_id", w.id,
				"completed", w.completed.Load(),
				"panicked", w.panicked.Load())
			drained = true
			return
		}

		w.state.Store(int32(WorkerExecuting))
		w.metrics.TaskStarted(w.queue.Len())
		w.run(task)
	}
}

// run executes a single task, recovering any panic so the worker survives it
func (w *Worker) run(task WorkerTask) {
	startTime := time.Now()
	finished := false

	defer func() {
		duration := time.Since(startTime)
		w.metrics.TaskFinished(duration, !finished)

		if finished {
			w.completed.Add(1)
			return
		}

		w.panicked.Add(1)

		r := recover()
		if r == nil {
			// runtime.Goexit: nothing to recover, the goroutine ends after this
			w.logger.Error("task called runtime.Goexit",
				"worker_id", w.id,
				"duration", duration)
			return
		}

		w.logger.Error("task panicked",
			"worker_id", w.id,
			"panic", fmt.Sprint(r),
			"duration", duration,
			"stack", string(debug.Stack()))

		if w.onPanic != nil {
			w.onPanic(w.id, r)
		}
	}()

	task(w.id)
	finished = true
}

// ID returns the worker's index within its pool
func (w *Worker) ID() int {
	return w.id
}

// State returns the worker's current lifecycle state
func (w *Worker) State() WorkerState {
	return WorkerState(w.state.Load())
}

// Completed returns the number of tasks this worker ran to completion
func (w *Worker) Completed() int64 {
	return w.completed.Load()
}

// Panicked returns the number of tasks on this worker that panicked or called runtime.Goexit
func (w *Worker) Panicked() int64 {
	return w.panicked.Load()
}

// Done returns a channel that is closed once the worker's goroutine has exited
func (w *Worker) Done() <-chan struct{} {
	return w.done
}
