// Package config loads the countdown tool configuration from YAML with
// environment overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/gitrdm/countdown/pkg/countdown"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Config holds all countdown configuration.
type Config struct {
	Solver  SolverConfig  `yaml:"solver"`
	Logging LoggingConfig `yaml:"logging"`
	Server  ServerConfig  `yaml:"server"`
	Metrics MetricsConfig `yaml:"metrics"`
	Batch   BatchConfig   `yaml:"batch"`
}

// SolverConfig configures search limits.
type SolverConfig struct {
	Workers   int    `yaml:"workers" validate:"gte=0,lte=256"`
	TimeLimit string `yaml:"time_limit"` // Go duration, empty for none
	NodeLimit int    `yaml:"node_limit" validate:"gte=0"`
}

// LoggingConfig configures the zap logger.
type LoggingConfig struct {
	Level       string `yaml:"level" validate:"oneof=debug info warn error"`
	Development bool   `yaml:"development"`
	Encoding    string `yaml:"encoding" validate:"oneof=json console"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr     string `yaml:"addr" validate:"required"`
	CacheDir string `yaml:"cache_dir"` // empty keeps the cache in memory
}

// MetricsConfig toggles the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path" validate:"required_if=Enabled true"`
}

// BatchConfig configures the batch runner.
type BatchConfig struct {
	Concurrency int `yaml:"concurrency" validate:"gte=1,lte=256"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Solver: SolverConfig{
			Workers:   0,
			TimeLimit: "",
			NodeLimit: 0,
		},
		Logging: LoggingConfig{
			Level:    "info",
			Encoding: "json",
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
		},
		Batch: BatchConfig{
			Concurrency: 4,
		},
	}
}

// Load loads configuration from a YAML file. A missing file yields the
// defaults. Environment overrides apply in both cases.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		case os.IsNotExist(err):
		default:
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// applyEnvOverrides applies COUNTDOWN_* environment variables.
func (c *Config) applyEnvOverrides() error {
	if v := os.Getenv("COUNTDOWN_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("COUNTDOWN_WORKERS: %w", err)
		}
		c.Solver.Workers = n
	}
	if v := os.Getenv("COUNTDOWN_TIME_LIMIT"); v != "" {
		c.Solver.TimeLimit = v
	}
	if v := os.Getenv("COUNTDOWN_NODE_LIMIT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("COUNTDOWN_NODE_LIMIT: %w", err)
		}
		c.Solver.NodeLimit = n
	}
	if v := os.Getenv("COUNTDOWN_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("COUNTDOWN_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("COUNTDOWN_CACHE_DIR"); v != "" {
		c.Server.CacheDir = v
	}
	return nil
}

// Validate checks field ranges and that the time limit parses.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if _, err := c.Solver.timeLimit(); err != nil {
		return fmt.Errorf("invalid config: solver.time_limit: %w", err)
	}
	return nil
}

func (s SolverConfig) timeLimit() (time.Duration, error) {
	if s.TimeLimit == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s.TimeLimit)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("negative duration %s", d)
	}
	return d, nil
}

// GetTimeLimit returns the solver time limit, zero meaning none.
func (c *Config) GetTimeLimit() time.Duration {
	d, err := c.Solver.timeLimit()
	if err != nil {
		return 0
	}
	return d
}

// SolverOptions converts the solver section into optimizer options.
func (c *Config) SolverOptions() []countdown.OptimizeOption {
	var opts []countdown.OptimizeOption
	if d := c.GetTimeLimit(); d > 0 {
		opts = append(opts, countdown.WithTimeLimit(d))
	}
	if c.Solver.NodeLimit > 0 {
		opts = append(opts, countdown.WithNodeLimit(c.Solver.NodeLimit))
	}
	if c.Solver.Workers > 1 {
		opts = append(opts, countdown.WithParallelWorkers(c.Solver.Workers))
	}
	return opts
}
