// Package executor provides a fixed-size worker pool for fire-and-forget tasks.
//
// The pool starts a fixed number of worker goroutines at construction. Each worker
// services a shared, unbounded FIFO queue until the pool is shut down and the
// queue has been drained.
//
// # Key Features
//
//   - Fixed worker count, chosen at construction
//   - Non-blocking, unbounded submission
//   - FIFO pop order from a single shared queue
//   - Cooperative shutdown that drains every task queued before it
//   - Panics are recovered per task; a worker never dies because of a task
//   - Optional Prometheus metrics and panic callback
//
// # Basic Usage
//
//	pool := executor.NewPool(4, logger)
//	defer pool.Close(context.Background())
//
//	for i := 0; i < 10; i++ {
//	    if err := pool.Submit(func() { work(i) }); err != nil {
//	        return err
//	    }
//	}
//
// # Results
//
// The pool itself is result-agnostic. SubmitFunc pairs a task with a one-shot
// Future:
//
//	f, err := executor.SubmitFunc(pool, "task-1", func() (interface{}, error) {
//	    return compute(), nil
//	})
//	result, err := f.Wait(ctx)
//
// # Shutdown
//
// Shutdown sets the stop flag and wakes every worker without blocking. Wait joins
// the workers once they have drained the queue. Close does both:
//
//	pool.Shutdown()
//	if err := pool.Wait(ctx); err != nil {
//	    log.Printf("shutdown error: %v", err)
//	}
//
// Submit returns ErrPoolShutdown once Shutdown has been called.
//
// # Concurrency Guarantees
//
//   - Every accepted task runs exactly once
//   - Tasks queued before Shutdown run before the workers exit
//   - With a single worker, tasks from a single producer run in submission order
//   - With several workers only pop order is FIFO, completion order is not
package executor
