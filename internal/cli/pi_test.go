package cli

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/aryankumar/taskium/internal/util"
)

func TestPiCommand_Table(t *testing.T) {
	cfg := writeConfig(t, "defaults:\n  noColor: true\n")

	stdout, _, err := runCommand(t, "pi", "2", "1000", "--seed", "7", "--config", cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, want := range []string{
		"[INFO] submitted pi estimation task 0",
		"[INFO] submitted pi estimation task 1",
		"[RESULT] estimated pi = ",
		"TASK",
		"pi-1",
		"Summary: 2 successful, 0 failed",
		"Estimate: ",
		"seed 7",
	} {
		if !strings.Contains(stdout, want) {
			t.Errorf("expected output to contain %q:\n%s", want, stdout)
		}
	}
}

func TestPiCommand_JSON(t *testing.T) {
	cfg := writeConfig(t, "defaults:\n  noColor: true\n")

	stdout, stderr, err := runCommand(t, "pi", "2", "1000", "--tasks", "5", "--seed", "3", "-o", "json", "--config", cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var report struct {
		Tasks         int     `json:"tasks"`
		PointsPerTask int     `json:"pointsPerTask"`
		Seed          uint64  `json:"seed"`
		Estimate      float64 `json:"estimate"`
		Results       []struct {
			Task   string `json:"task"`
			Status string `json:"status"`
		} `json:"results"`
	}
	if err := json.Unmarshal([]byte(stdout), &report); err != nil {
		t.Fatalf("stdout is not a JSON report: %v\n%s", err, stdout)
	}

	if report.Tasks != 5 || report.PointsPerTask != 1000 || report.Seed != 3 {
		t.Errorf("unexpected report parameters: %+v", report)
	}
	if len(report.Results) != 5 {
		t.Errorf("expected 5 results, got %d", len(report.Results))
	}
	if report.Estimate < 2.5 || report.Estimate > 3.8 {
		t.Errorf("estimate %f is implausible", report.Estimate)
	}

	// Progress lines must not corrupt structured output
	if !strings.Contains(stderr, "[RESULT] estimated pi") {
		t.Errorf("expected progress on stderr:\n%s", stderr)
	}
}

func TestPiCommand_InvalidArgsFallBack(t *testing.T) {
	cfg := writeConfig(t, "defaults:\n  threads: 2\n  points: 500\n  noColor: true\n")

	stdout, stderr, err := runCommand(t, "pi", "abc", "--quiet", "--config", cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(stderr, "[WARN] Invalid CLI arguments detected") {
		t.Errorf("expected a warning on stderr:\n%s", stderr)
	}
	if !strings.Contains(stdout, "2 tasks × 500 points") {
		t.Errorf("expected configured defaults to be used:\n%s", stdout)
	}
	if strings.Contains(stdout, "[INFO]") {
		t.Errorf("expected --quiet to suppress progress lines:\n%s", stdout)
	}
}

func TestPiCommand_Metrics(t *testing.T) {
	cfg := writeConfig(t, "defaults:\n  noColor: true\n")

	stdout, _, err := runCommand(t, "pi", "1", "100", "--tasks", "3", "--metrics", "--quiet", "--config", cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, want := range []string{"METRIC", "taskium_pool_tasks_completed_total", "taskium_pool_workers"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("expected output to contain %q:\n%s", want, stdout)
		}
	}
}

func TestPiCommand_InvalidOutput(t *testing.T) {
	cfg := writeConfig(t, "")

	_, _, err := runCommand(t, "pi", "1", "100", "-o", "xml", "--config", cfg)
	if !errors.Is(err, util.ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestPiCommand_TooManyArgs(t *testing.T) {
	_, _, err := runCommand(t, "pi", "1", "2", "3")
	if err == nil {
		t.Fatal("expected error for three positional arguments")
	}
}

func TestPiCommand_Timeout(t *testing.T) {
	cfg := writeConfig(t, "defaults:\n  noColor: true\n")

	tests := []struct {
		name    string
		timeout string
		wantErr error
	}{
		{name: "zero disables the timeout", timeout: "0"},
		{name: "explicit timeout", timeout: "1m"},
		{name: "negative rejected", timeout: "-1s", wantErr: util.ErrInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := runCommand(t, "pi", "1", "100", "--quiet", "--timeout", tt.timeout, "--config", cfg)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestRunContext(t *testing.T) {
	ctx, cancel := runContext(context.Background(), 0)
	defer cancel()
	if _, ok := ctx.Deadline(); ok {
		t.Error("expected no deadline for a zero timeout")
	}

	ctx, cancel = runContext(context.Background(), time.Minute)
	defer cancel()
	if _, ok := ctx.Deadline(); !ok {
		t.Error("expected a deadline for a positive timeout")
	}
}
