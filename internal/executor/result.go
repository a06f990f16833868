package executor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrTaskPanicked wraps the value recovered from a panicking SubmitFunc task
var ErrTaskPanicked = errors.New("task panicked")

// Result represents the outcome of a task submitted with SubmitFunc
type Result struct {
	// Name identifies the task
	Name string

	// WorkerID is the worker that ran the task
	WorkerID int

	// Data contains the successful result data (nil if error occurred)
	Data interface{}

	// Error contains any error that occurred during execution (nil if successful)
	Error error

	// Duration is how long the task took to execute
	Duration time.Duration
}

// Future is a one-shot result slot filled by a single task
type Future struct {
	name   string
	done   chan struct{}
	result Result
}

// Done returns a channel that is closed once the result is available
func (f *Future) Done() <-chan struct{} {
	return f.done
}

// Name returns the name the task was submitted with
func (f *Future) Name() string {
	return f.name
}

// Wait blocks until the task has run or the context is cancelled
func (f *Future) Wait(ctx context.Context) (Result, error) {
	select {
	case <-f.done:
		return f.result, nil
	case <-ctx.Done():
		return Result{Name: f.name}, fmt.Errorf("waiting for task %q: %w", f.name, ctx.Err())
	}
}

// SubmitFunc submits fn to the pool and returns a Future for its result
// A panic inside fn is recovered and reported as a Result error wrapping ErrTaskPanicked
func SubmitFunc(p *Pool, name string, fn func() (interface{}, error)) (*Future, error) {
	if fn == nil {
		return nil, ErrNilTask
	}
	return SubmitWorkerFunc(p, name, func(int) (interface{}, error) {
		return fn()
	})
}

// SubmitWorkerFunc is SubmitFunc for a function that receives the ID of the worker running it
// A task that calls runtime.Goexit still completes its Future, with an error wrapping ErrTaskPanicked
func SubmitWorkerFunc(p *Pool, name string, fn func(workerID int) (interface{}, error)) (*Future, error) {
	if fn == nil {
		return nil, ErrNilTask
	}

	f := &Future{
		name: name,
		done: make(chan struct{}),
	}

	err := p.SubmitWorker(func(workerID int) {
		startTime := time.Now()
		finished := false

		defer close(f.done)
		defer func() {
			if finished {
				return
			}

			cause := fmt.Errorf("%w: task called runtime.Goexit", ErrTaskPanicked)
			if r := recover(); r != nil {
				cause = fmt.Errorf("%w: %v", ErrTaskPanicked, r)
			}
			f.result = Result{
				Name:     name,
				WorkerID: workerID,
				Error:    cause,
				Duration: time.Since(startTime),
			}
		}()

		data, err := fn(workerID)
		f.result = Result{
			Name:     name,
			WorkerID: workerID,
			Data:     data,
			Error:    err,
			Duration: time.Since(startTime),
		}
		finished = true
	})
	if err != nil {
		return nil, fmt.Errorf("submit task %q: %w", name, err)
	}

	return f, nil
}

// WaitAll waits for every future in order and returns their results
// If the context expires, the results gathered so far are returned with the error
func WaitAll(ctx context.Context, futures []*Future) ([]Result, error) {
	results := make([]Result, 0, len(futures))
	for _, f := range futures {
		r, err := f.Wait(ctx)
		if err != nil {
			return results, err
		}
		results = append(results, r)
	}
	return results, nil
}

// CountSuccessful returns the number of successful results (no error)
func CountSuccessful(results []Result) int {
	count := 0
	for _, r := range results {
		if r.Error == nil {
			count++
		}
	}
	return count
}

// CountFailed returns the number of failed results (has error)
func CountFailed(results []Result) int {
	return len(results) - CountSuccessful(results)
}

// FilterFailed returns only the failed results
func FilterFailed(results []Result) []Result {
	filtered := make([]Result, 0, len(results))
	for _, r := range results {
		if r.Error != nil {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

// AverageDuration calculates the average duration of all results
func AverageDuration(results []Result) time.Duration {
	if len(results) == 0 {
		return 0
	}

	var total time.Duration
	for _, r := range results {
		total += r.Duration
	}

	return total / time.Duration(len(results))
}

// MaxDuration returns the maximum duration among all results
func MaxDuration(results []Result) time.Duration {
	var longest time.Duration
	for _, r := range results {
		longest = max(longest, r.Duration)
	}
	return longest
}

// MinDuration returns the minimum duration among all results
func MinDuration(results []Result) time.Duration {
	if len(results) == 0 {
		return 0
	}

	shortest := results[0].Duration
	for _, r := range results[1:] {
		shortest = min(shortest, r.Duration)
	}
	return shortest
}

// GetErrors extracts all errors from results
func GetErrors(results []Result) []error {
	errs := make([]error, 0)
	for _, r := range results {
		if r.Error != nil {
			errs = append(errs, fmt.Errorf("task %q: %w", r.Name, r.Error))
		}
	}
	return errs
}

// Summary provides a summary of execution results
type Summary struct {
	Total       int           `json:"total" yaml:"total"`
	Successful  int           `json:"successful" yaml:"successful"`
	Failed      int           `json:"failed" yaml:"failed"`
	AvgDuration time.Duration `json:"avgDuration" yaml:"avgDuration"`
	MaxDuration time.Duration `json:"maxDuration" yaml:"maxDuration"`
	MinDuration time.Duration `json:"minDuration" yaml:"minDuration"`
	SuccessRate float64       `json:"successRate" yaml:"successRate"`
}

// Summarize creates a summary of the results
func Summarize(results []Result) Summary {
	return Summary{
		Total:       len(results),
		Successful:  CountSuccessful(results),
		Failed:      CountFailed(results),
		AvgDuration: AverageDuration(results),
		MaxDuration: MaxDuration(results),
		MinDuration: MinDuration(results),
		SuccessRate: SuccessRate(results),
	}
}

// String returns a human-readable string representation of the summary
func (s Summary) String() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Total: %d, Successful: %d, Failed: %d", s.Total, s.Successful, s.Failed)

	if s.Total > 0 {
		fmt.Fprintf(&sb, " (%.1f%%)", s.SuccessRate)
		fmt.Fprintf(&sb, ", Avg: %s", s.AvgDuration.Round(time.Millisecond))
		fmt.Fprintf(&sb, ", Max: %s", s.MaxDuration.Round(time.Millisecond))
		fmt.Fprintf(&sb, ", Min: %s", s.MinDuration.Round(time.Millisecond))
	}

	return sb.String()
}

// HasErrors returns true if any results contain errors
func HasErrors(results []Result) bool {
	return CountFailed(results) > 0
}

// SuccessRate returns the success rate as a percentage (0.0 to 100.0)
func SuccessRate(results []Result) float64 {
	if len(results) == 0 {
		return 0.0
	}
	return float64(CountSuccessful(results)) / float64(len(results)) * 100.0
}
