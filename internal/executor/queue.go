package executor

import (
	"errors"
	"sync"
)

// Task is a nullary unit of work executed by the pool
// Tasks that produce a value carry their own completion mechanism (see SubmitFunc)
type Task func()

// WorkerTask is a unit of work that receives the ID of the worker running it
type WorkerTask func(workerID int)

var (
	// ErrQueueClosed is returned when pushing to a queue that has been closed
	ErrQueueClosed = errors.New("task queue is closed")
)

// TaskQueue is an unbounded FIFO of pending tasks
// The queue owns the lock, the condition variable and the stop flag so that
// the wait predicate (queue contents + stop flag) is always evaluated atomically
type TaskQueue struct {
	// mu guards tasks and closed
	mu sync.Mutex

	// cond is signalled on every push and broadcast on close
	cond *sync.Cond

	// tasks holds pending tasks in insertion order
	tasks []WorkerTask

	// head is the index of the next task to pop
	head int

	// closed is the stop flag; it only ever goes false -> true
	closed bool
}

// NewTaskQueue creates an empty, open task queue
func NewTaskQueue() *TaskQueue {
	q := &TaskQueue{
		tasks: make([]WorkerTask, 0, 16),
	}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// Push appends a task to the tail and wakes one waiting consumer
// Push never blocks on capacity. It returns ErrQueueClosed once Close has been called
func (q *TaskQueue) Push(task Task) error {
	return q.PushWorker(func(int) { task() })
}

// PushWorker is Push for a task that wants to know which worker runs it
func (q *TaskQueue) PushWorker(task WorkerTask) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return ErrQueueClosed
	}

	q.tasks = append(q.tasks, task)
	q.cond.Signal()
	return nil
}

// PopBlocking waits until a task is available or the queue is closed and drained
// The second return value is false only for the stop result: closed with no tasks left
func (q *TaskQueue) PopBlocking() (WorkerTask, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for {
		for q.lenLocked() == 0 && !q.closed {
			q.cond.Wait()
		}

		if q.closed && q.lenLocked() == 0 {
			return nil, false
		}

		if task, ok := q.tryPop(); ok {
			return task, true
		}
	}
}

// tryPop removes the head task without blocking
// The caller must hold q.mu
func (q *TaskQueue) tryPop() (WorkerTask, bool) {
	if q.lenLocked() == 0 {
		return nil, false
	}

	task := q.tasks[q.head]
	q.tasks[q.head] = nil
	q.head++

	// Reclaim the consumed prefix once it dominates the backing array
	if q.head == len(q.tasks) {
		q.tasks = q.tasks[:0]
		q.head = 0
	} else if q.head > 64 && q.head*2 >= len(q.tasks) {
		n := copy(q.tasks, q.tasks[q.head:])
		clear(q.tasks[n:])
		q.tasks = q.tasks[:n]
		q.head = 0
	}

	return task, true
}

// Close sets the stop flag and wakes every waiting consumer
// Tasks already queued remain poppable until the queue is drained
// Close is idempotent
func (q *TaskQueue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}

	q.closed = true
	q.cond.Broadcast()
}

// IsEmpty reports whether the queue currently holds no tasks
// The answer is a snapshot and may be stale by the time it is used
func (q *TaskQueue) IsEmpty() bool {
	return q.Len() == 0
}

// Len returns the number of pending tasks
func (q *TaskQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.lenLocked()
}

// IsClosed reports whether Close has been called
func (q *TaskQueue) IsClosed() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.closed
}

func (q *TaskQueue) lenLocked() int {
	return len(q.tasks) - q.head
}
