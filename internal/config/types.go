package config

import "time"

const (
	// DefaultPoints is the number of samples each estimation task draws
	DefaultPoints = 10_000_000

	// DefaultOutputFormat is the output format used when none is configured
	DefaultOutputFormat = "table"

	// DefaultTimeout bounds a whole estimation run
	DefaultTimeout = 5 * time.Minute
)

// Config represents the taskium configuration file structure
type Config struct {
	// Defaults contains default settings for runs
	Defaults DefaultsConfig `yaml:"defaults" json:"defaults" mapstructure:"defaults"`
}

// DefaultsConfig contains default configuration values
type DefaultsConfig struct {
	// Threads is the number of pool workers (0 means one per CPU)
	Threads int `yaml:"threads,omitempty" json:"threads,omitempty" mapstructure:"threads"`

	// Points is the number of samples per task
	Points int `yaml:"points,omitempty" json:"points,omitempty" mapstructure:"points"`

	// Tasks is the number of tasks to submit (0 means one per thread)
	Tasks int `yaml:"tasks,omitempty" json:"tasks,omitempty" mapstructure:"tasks"`

	// Seed makes runs reproducible (0 means time-based)
	Seed uint64 `yaml:"seed,omitempty" json:"seed,omitempty" mapstructure:"seed"`

	// Timeout bounds a whole run
	Timeout time.Duration `yaml:"timeout,omitempty" json:"timeout,omitempty" mapstructure:"timeout"`

	// OutputFormat is the default output format (table, json, yaml)
	OutputFormat string `yaml:"outputFormat,omitempty" json:"outputFormat,omitempty" mapstructure:"outputFormat"`

	// NoColor disables colored output
	NoColor bool `yaml:"noColor,omitempty" json:"noColor,omitempty" mapstructure:"noColor"`
}

// Params are the run parameters derived from command-line arguments
type Params struct {
	Threads int `json:"threads" yaml:"threads"`
	Points  int `json:"points" yaml:"points"`
}
