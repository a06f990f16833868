package config

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/aryankumar/taskium/internal/util"
)

func TestManager_Load(t *testing.T) {
	tests := []struct {
		name          string
		configContent string
		wantErr       bool
		wantThreads   int
		wantPoints    int
		wantTimeout   time.Duration
		wantOutput    string
	}{
		{
			name: "full config",
			configContent: `
defaults:
  threads: 8
  points: 1000
  tasks: 16
  seed: 42
  timeout: 60s
  outputFormat: json
`,
			wantThreads: 8,
			wantPoints:  1000,
			wantTimeout: 60 * time.Second,
			wantOutput:  "json",
		},
		{
			name: "partial config with defaults",
			configContent: `
defaults:
  points: 500
`,
			wantThreads: runtime.NumCPU(),
			wantPoints:  500,
			wantTimeout: DefaultTimeout,
			wantOutput:  DefaultOutputFormat,
		},
		{
			name:          "empty config",
			configContent: "",
			wantThreads:   runtime.NumCPU(),
			wantPoints:    DefaultPoints,
			wantTimeout:   DefaultTimeout,
			wantOutput:    DefaultOutputFormat,
		},
		{
			name: "invalid output format",
			configContent: `
defaults:
  outputFormat: xml
`,
			wantErr: true,
		},
		{
			name: "negative threads",
			configContent: `
defaults:
  threads: -1
`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			configPath := filepath.Join(tmpDir, ".taskium.yaml")

			if tt.configContent != "" {
				if err := os.WriteFile(configPath, []byte(tt.configContent), 0644); err != nil {
					t.Fatalf("failed to write test config: %v", err)
				}
			}

			manager := NewManager(configPath)
			cfg, err := manager.Load()

			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if !errors.Is(err, util.ErrInvalidConfig) {
					t.Errorf("expected ErrInvalidConfig, got %v", err)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if cfg.Defaults.Threads != tt.wantThreads {
				t.Errorf("expected %d threads, got %d", tt.wantThreads, cfg.Defaults.Threads)
			}
			if cfg.Defaults.Points != tt.wantPoints {
				t.Errorf("expected %d points, got %d", tt.wantPoints, cfg.Defaults.Points)
			}
			if cfg.Defaults.Timeout != tt.wantTimeout {
				t.Errorf("expected timeout %v, got %v", tt.wantTimeout, cfg.Defaults.Timeout)
			}
			if cfg.Defaults.OutputFormat != tt.wantOutput {
				t.Errorf("expected output %q, got %q", tt.wantOutput, cfg.Defaults.OutputFormat)
			}
		})
	}
}

func TestManager_Load_Env(t *testing.T) {
	t.Setenv("TASKIUM_DEFAULTS_THREADS", "3")
	t.Setenv("TASKIUM_DEFAULTS_SEED", "7")

	manager := NewManager(filepath.Join(t.TempDir(), "missing.yaml"))
	cfg, err := manager.Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Defaults.Threads != 3 {
		t.Errorf("expected threads from env, got %d", cfg.Defaults.Threads)
	}
	if cfg.Defaults.Seed != 7 {
		t.Errorf("expected seed from env, got %d", cfg.Defaults.Seed)
	}
}

func TestManager_Load_Malformed(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), ".taskium.yaml")
	if err := os.WriteFile(configPath, []byte("defaults: [unterminated"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	if _, err := NewManager(configPath).Load(); err == nil {
		t.Error("expected error for malformed config")
	}
}

func TestManager_Save(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "nested", "config.yaml")

	manager := NewManager(configPath)
	cfg := Default()
	cfg.Defaults.Threads = 6
	cfg.Defaults.Seed = 99
	manager.SetConfig(cfg)

	path, err := manager.Save()
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if path != configPath {
		t.Errorf("expected path %q, got %q", configPath, path)
	}

	loaded, err := NewManager(configPath).Load()
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}

	if loaded.Defaults.Threads != 6 || loaded.Defaults.Seed != 99 {
		t.Errorf("round trip lost values: %+v", loaded.Defaults)
	}
	if loaded.Defaults.Timeout != DefaultTimeout {
		t.Errorf("expected timeout %v after reload, got %v", DefaultTimeout, loaded.Defaults.Timeout)
	}
}

func TestConfig_Params(t *testing.T) {
	cfg := Default()
	cfg.Defaults.Threads = 2
	cfg.Defaults.Points = 100

	if got := cfg.Params(); got != (Params{Threads: 2, Points: 100}) {
		t.Errorf("unexpected params %+v", got)
	}
}
