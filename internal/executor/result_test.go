package executor

import (
	"context"
	"errors"
	"log/slog"
	"runtime"
	"strings"
	"testing"
	"time"
)

func TestSubmitFunc(t *testing.T) {
	tests := []struct {
		name     string
		fn       func() (interface{}, error)
		wantData interface{}
		wantErr  error
	}{
		{
			name:     "value",
			fn:       func() (interface{}, error) { return 42, nil },
			wantData: 42,
		},
		{
			name:    "error",
			fn:      func() (interface{}, error) { return nil, context.Canceled },
			wantErr: context.Canceled,
		},
		{
			name:    "panic",
			fn:      func() (interface{}, error) { panic("kaboom") },
			wantErr: ErrTaskPanicked,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pool := NewPool(2, slog.Default())
			defer closePool(t, pool)

			f, err := SubmitFunc(pool, tt.name, tt.fn)
			if err != nil {
				t.Fatalf("SubmitFunc failed: %v", err)
			}

			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()

			r, err := f.Wait(ctx)
			if err != nil {
				t.Fatalf("Wait failed: %v", err)
			}

			if r.Name != tt.name {
				t.Errorf("expected name %q, got %q", tt.name, r.Name)
			}
			if !errors.Is(r.Error, tt.wantErr) {
				t.Errorf("expected error %v, got %v", tt.wantErr, r.Error)
			}
			if r.Data != tt.wantData {
				t.Errorf("expected data %v, got %v", tt.wantData, r.Data)
			}
		})
	}
}

func TestSubmitWorkerFunc(t *testing.T) {
	tests := []struct {
		name    string
		fn      func(workerID int) (interface{}, error)
		wantErr error
	}{
		{
			name: "reports worker",
			fn:   func(workerID int) (interface{}, error) { return workerID, nil },
		},
		{
			name:    "goexit",
			fn:      func(int) (interface{}, error) { runtime.Goexit(); return nil, nil },
			wantErr: ErrTaskPanicked,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pool := NewPool(1, slog.Default())
			defer closePool(t, pool)

			f, err := SubmitWorkerFunc(pool, tt.name, tt.fn)
			if err != nil {
				t.Fatalf("SubmitWorkerFunc failed: %v", err)
			}

			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()

			r, err := f.Wait(ctx)
			if err != nil {
				t.Fatalf("Wait failed: %v", err)
			}

			if r.Name != tt.name || r.WorkerID != 0 {
				t.Errorf("unexpected result identity: %+v", r)
			}
			if !errors.Is(r.Error, tt.wantErr) {
				t.Errorf("expected error %v, got %v", tt.wantErr, r.Error)
			}
			if tt.wantErr == nil && r.Data != 0 {
				t.Errorf("expected worker ID 0 as data, got %v", r.Data)
			}

			// The pool keeps draining after a Goexit
			after, err := SubmitFunc(pool, "after", func() (interface{}, error) { return "ok", nil })
			if err != nil {
				t.Fatalf("submit after %s failed: %v", tt.name, err)
			}
			if r, err := after.Wait(ctx); err != nil || r.Data != "ok" {
				t.Errorf("follow-up task did not run: %+v %v", r, err)
			}
		})
	}
}

func TestSubmitFunc_NilFunc(t *testing.T) {
	pool := NewPool(1, slog.Default())
	defer closePool(t, pool)

	if _, err := SubmitFunc(pool, "nil", nil); !errors.Is(err, ErrNilTask) {
		t.Errorf("expected ErrNilTask for nil fn, got %v", err)
	}
}

func TestSubmitFunc_AfterShutdown(t *testing.T) {
	pool := NewPool(1, slog.Default())
	pool.Shutdown()
	defer closePool(t, pool)

	f, err := SubmitFunc(pool, "late", func() (interface{}, error) { return nil, nil })
	if f != nil {
		t.Error("expected no future after shutdown")
	}
	if !errors.Is(err, ErrPoolShutdown) {
		t.Errorf("expected ErrPoolShutdown, got %v", err)
	}
	if !strings.Contains(err.Error(), `"late"`) {
		t.Errorf("expected task name in error, got %v", err)
	}
}

func TestFuture_WaitCancelled(t *testing.T) {
	pool := NewPool(1, slog.Default())

	release := make(chan struct{})
	f, err := SubmitFunc(pool, "slow", func() (interface{}, error) {
		<-release
		return "done", nil
	})
	if err != nil {
		t.Fatalf("SubmitFunc failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := f.Wait(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}

	close(release)
	<-f.Done()
	closePool(t, pool)
}

func TestWaitAll(t *testing.T) {
	pool := NewPool(3, slog.Default())
	defer closePool(t, pool)

	futures := make([]*Future, 0, 5)
	for i := 0; i < 5; i++ {
		f, err := SubmitFunc(pool, "task", func() (interface{}, error) { return i, nil })
		if err != nil {
			t.Fatalf("submit failed: %v", err)
		}
		futures = append(futures, f)
	}

	results, err := WaitAll(context.Background(), futures)
	if err != nil {
		t.Fatalf("WaitAll failed: %v", err)
	}

	for i, r := range results {
		if r.Data != i {
			t.Errorf("expected result %d in position %d, got %v", i, i, r.Data)
		}
	}
}

func TestCountSuccessful(t *testing.T) {
	tests := []struct {
		name     string
		results  []Result
		expected int
	}{
		{
			name:     "empty results",
			results:  []Result{},
			expected: 0,
		},
		{
			name: "all successful",
			results: []Result{
				{Name: "t1", Error: nil},
				{Name: "t2", Error: nil},
				{Name: "t3", Error: nil},
			},
			expected: 3,
		},
		{
			name: "all failed",
			results: []Result{
				{Name: "t1", Error: errors.New("error1")},
				{Name: "t2", Error: errors.New("error2")},
			},
			expected: 0,
		},
		{
			name: "mixed",
			results: []Result{
				{Name: "t1", Error: nil},
				{Name: "t2", Error: errors.New("error")},
				{Name: "t3", Error: nil},
				{Name: "t4", Error: errors.New("error")},
			},
			expected: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CountSuccessful(tt.results); got != tt.expected {
				t.Errorf("CountSuccessful() = %d, want %d", got, tt.expected)
			}
			if got := CountFailed(tt.results); got != len(tt.results)-tt.expected {
				t.Errorf("CountFailed() = %d, want %d", got, len(tt.results)-tt.expected)
			}
		})
	}
}

func TestFilterResults(t *testing.T) {
	results := []Result{
		{Name: "t1"},
		{Name: "t2", Error: errors.New("error")},
		{Name: "t3"},
	}

	if got := FilterFailed(results); len(got) != 1 || got[0].Name != "t2" {
		t.Errorf("FilterFailed() = %+v", got)
	}
	if errs := GetErrors(results); len(errs) != 1 || !strings.Contains(errs[0].Error(), `"t2"`) {
		t.Errorf("GetErrors() = %v", errs)
	}
}

func TestSummarize(t *testing.T) {
	results := []Result{
		{Name: "t1", Error: nil, Duration: 100 * time.Millisecond},
		{Name: "t2", Error: errors.New("error"), Duration: 200 * time.Millisecond},
		{Name: "t3", Error: nil, Duration: 300 * time.Millisecond},
		{Name: "t4", Error: errors.New("error"), Duration: 50 * time.Millisecond},
		{Name: "t5", Error: nil, Duration: 150 * time.Millisecond},
	}

	summary := Summarize(results)

	if summary.Total != 5 {
		t.Errorf("expected Total=5, got %d", summary.Total)
	}

	if summary.Successful != 3 {
		t.Errorf("expected Successful=3, got %d", summary.Successful)
	}

	if summary.Failed != 2 {
		t.Errorf("expected Failed=2, got %d", summary.Failed)
	}

	if expectedAvg := 160 * time.Millisecond; summary.AvgDuration != expectedAvg {
		t.Errorf("expected AvgDuration=%v, got %v", expectedAvg, summary.AvgDuration)
	}

	if expectedMax := 300 * time.Millisecond; summary.MaxDuration != expectedMax {
		t.Errorf("expected MaxDuration=%v, got %v", expectedMax, summary.MaxDuration)
	}

	if expectedMin := 50 * time.Millisecond; summary.MinDuration != expectedMin {
		t.Errorf("expected MinDuration=%v, got %v", expectedMin, summary.MinDuration)
	}

	if !HasErrors(results) {
		t.Error("expected HasErrors to be true")
	}

	if summary.SuccessRate != 60.0 {
		t.Errorf("expected success rate 60, got %v", summary.SuccessRate)
	}
}

func TestSummary_String(t *testing.T) {
	summary := Summary{
		Total:       10,
		Successful:  7,
		Failed:      3,
		AvgDuration: 123456789 * time.Nanosecond,
		MaxDuration: 200 * time.Millisecond,
		MinDuration: 50 * time.Millisecond,
		SuccessRate: 70,
	}

	str := summary.String()

	for _, substr := range []string{"Total: 10", "Successful: 7", "Failed: 3", "(70.0%)", "Avg: 123ms", "Max:", "Min:"} {
		if !strings.Contains(str, substr) {
			t.Errorf("summary string missing %q: %s", substr, str)
		}
	}

	empty := Summary{}.String()
	if !strings.Contains(empty, "Total: 0") || strings.Contains(empty, "Avg") {
		t.Errorf("unexpected empty summary string: %s", empty)
	}
}

func TestDurations_Empty(t *testing.T) {
	if AverageDuration(nil) != 0 || MaxDuration(nil) != 0 || MinDuration(nil) != 0 {
		t.Error("expected zero durations for empty results")
	}
	if SuccessRate(nil) != 0 {
		t.Error("expected zero success rate for empty results")
	}
}
