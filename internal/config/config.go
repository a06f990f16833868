package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/aryankumar/taskium/internal/util"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	defaultConfigName = ".taskium"
	envPrefix         = "TASKIUM"
)

var envKeyReplacer = strings.NewReplacer(".", "_")

var validOutputFormats = map[string]bool{
	"table": true,
	"json":  true,
	"yaml":  true,
}

// Manager handles taskium configuration
type Manager struct {
	configPath string
	config     *Config
	viper      *viper.Viper
}

// NewManager creates a new configuration manager
// An empty configPath searches the working directory and $HOME for .taskium.yaml
func NewManager(configPath string) *Manager {
	return &Manager{
		configPath: configPath,
		viper:      viper.New(),
		config:     &Config{},
	}
}

// Load loads the configuration from file and TASKIUM_* environment variables
func (m *Manager) Load() (*Config, error) {
	if m.configPath != "" {
		m.viper.SetConfigFile(m.configPath)
	} else {
		m.viper.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			m.viper.AddConfigPath(home)
		}
		m.viper.SetConfigName(defaultConfigName)
		m.viper.SetConfigType("yaml")
	}

	// Environment variables such as TASKIUM_DEFAULTS_THREADS override the file
	m.viper.SetEnvPrefix(envPrefix)
	m.viper.SetEnvKeyReplacer(envKeyReplacer)
	m.viper.AutomaticEnv()
	for _, key := range []string{"defaults.threads", "defaults.points", "defaults.tasks", "defaults.seed",
		"defaults.timeout", "defaults.outputFormat", "defaults.noColor"} {
		if err := m.viper.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind env for %s: %w", key, err)
		}
	}

	m.config = &Config{}

	if err := m.viper.ReadInConfig(); err != nil {
		// It's okay if config file doesn't exist, we'll use defaults
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if err := m.viper.Unmarshal(m.config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	m.applyDefaults()

	if err := m.config.Validate(); err != nil {
		return nil, err
	}

	return m.config, nil
}

// Save writes the current configuration as YAML
// Without an explicit path the file is written to $HOME/.taskium.yaml
func (m *Manager) Save() (string, error) {
	path, err := m.Path()
	if err != nil {
		return "", err
	}
	m.configPath = path

	if err := os.MkdirAll(filepath.Dir(m.configPath), 0755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(m.config)
	if err != nil {
		return "", fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(m.configPath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write config file: %w", err)
	}

	return m.configPath, nil
}

// Path returns the file Save writes to
func (m *Manager) Path() (string, error) {
	if m.configPath != "" {
		return m.configPath, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, defaultConfigName+".yaml"), nil
}

// GetConfig returns the current configuration
func (m *Manager) GetConfig() *Config {
	return m.config
}

// SetConfig replaces the configuration held by the manager
func (m *Manager) SetConfig(cfg *Config) {
	m.config = cfg
}

// ConfigFileUsed returns the file the configuration was read from, if any
func (m *Manager) ConfigFileUsed() string {
	return m.viper.ConfigFileUsed()
}

// Default returns a configuration with every default applied
func Default() *Config {
	m := &Manager{config: &Config{}}
	m.applyDefaults()
	return m.config
}

// applyDefaults sets default values for configuration
func (m *Manager) applyDefaults() {
	if m.config == nil {
		return
	}

	d := &m.config.Defaults

	if d.Threads == 0 {
		d.Threads = runtime.NumCPU()
	}

	if d.Points == 0 {
		d.Points = DefaultPoints
	}

	if d.Timeout == 0 {
		d.Timeout = DefaultTimeout
	}

	if d.OutputFormat == "" {
		d.OutputFormat = DefaultOutputFormat
	}
}

// Validate checks the configuration for values the pool cannot run with
func (c *Config) Validate() error {
	d := c.Defaults

	if d.Threads < 0 {
		return util.NewValidationError("defaults.threads", d.Threads, "must not be negative")
	}
	if d.Points < 0 {
		return util.NewValidationError("defaults.points", d.Points, "must not be negative")
	}
	if d.Tasks < 0 {
		return util.NewValidationError("defaults.tasks", d.Tasks, "must not be negative")
	}
	if d.Timeout < 0 {
		return util.NewValidationError("defaults.timeout", d.Timeout, "must not be negative")
	}
	if d.OutputFormat != "" && !validOutputFormats[d.OutputFormat] {
		return util.NewValidationError("defaults.outputFormat", d.OutputFormat, "must be one of table, json, yaml")
	}

	return nil
}

// Params returns the configured defaults as run parameters
func (c *Config) Params() Params {
	return Params{
		Threads: c.Defaults.Threads,
		Points:  c.Defaults.Points,
	}
}
