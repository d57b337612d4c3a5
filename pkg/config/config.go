package config

import (
	"strings"

	"go.uber.org/zap/zapcore"

	"github.com/ajitpratap0/orcvector/pkg/errors"
	"github.com/ajitpratap0/orcvector/pkg/logger"
	"github.com/ajitpratap0/orcvector/pkg/memory"
)

// Config is the top-level orcvector configuration. The sections map onto
// the packages they configure: Memory onto memory.Config, Logging onto
// logger.Config.
type Config struct {
	// Memory controls the batch memory pool
	Memory MemoryConfig `yaml:"memory" json:"memory" mapstructure:"memory"`

	// Batch holds defaults for batch construction
	Batch BatchConfig `yaml:"batch" json:"batch" mapstructure:"batch"`

	// Logging configures the global zap logger
	Logging LoggingConfig `yaml:"logging" json:"logging" mapstructure:"logging"`

	// Metrics controls metric reporting
	Metrics MetricsConfig `yaml:"metrics" json:"metrics" mapstructure:"metrics"`
}

// MemoryConfig configures the memory pool.
type MemoryConfig struct {
	// LimitBytes caps the bytes reserved by batches (0 = unlimited)
	LimitBytes int64 `yaml:"limit_bytes" json:"limit_bytes" mapstructure:"limit_bytes"`
	// LimitPercent caps the pool at a share of physical memory when
	// LimitBytes is zero (0 = off)
	LimitPercent float64 `yaml:"limit_percent" json:"limit_percent" mapstructure:"limit_percent"`
	// RecycleBytes reuses byte slabs for null indicators and union tags
	RecycleBytes bool `yaml:"recycle_bytes" json:"recycle_bytes" mapstructure:"recycle_bytes"`
}

// BatchConfig holds batch construction defaults.
type BatchConfig struct {
	// DefaultCapacity is used when a layout node does not set a capacity
	DefaultCapacity uint64 `yaml:"default_capacity" json:"default_capacity" mapstructure:"default_capacity"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level       string   `yaml:"level" json:"level" mapstructure:"level"`
	Development bool     `yaml:"development" json:"development" mapstructure:"development"`
	Encoding    string   `yaml:"encoding" json:"encoding" mapstructure:"encoding"`
	OutputPaths []string `yaml:"output_paths" json:"output_paths" mapstructure:"output_paths"`
}

// MetricsConfig controls metric reporting.
type MetricsConfig struct {
	// Enabled includes a metric snapshot in command output
	Enabled bool `yaml:"enabled" json:"enabled" mapstructure:"enabled"`
}

// Default returns a configuration with every field set to its default.
//
// Example:
//
//	cfg := config.Default()
//	cfg.Memory.LimitBytes = 256 << 20
func Default() *Config {
	return &Config{
		Memory: MemoryConfig{
			LimitBytes:   0,
			LimitPercent: 0,
			RecycleBytes: true,
		},
		Batch: BatchConfig{
			DefaultCapacity: 1024,
		},
		Logging: LoggingConfig{
			Level:       "info",
			Encoding:    "json",
			OutputPaths: []string{"stderr"},
		},
		Metrics: MetricsConfig{
			Enabled: false,
		},
	}
}

// Validate checks that values are within acceptable ranges.
func (c *Config) Validate() error {
	if c.Memory.LimitBytes < 0 {
		return invalid("memory.limit_bytes cannot be negative", c.Memory.LimitBytes)
	}
	if c.Memory.LimitPercent < 0 || c.Memory.LimitPercent > 100 {
		return invalid("memory.limit_percent must be between 0 and 100", c.Memory.LimitPercent)
	}
	if c.Batch.DefaultCapacity == 0 {
		return invalid("batch.default_capacity must be positive", c.Batch.DefaultCapacity)
	}
	if c.Logging.Level != "" {
		if _, err := zapcore.ParseLevel(c.Logging.Level); err != nil {
			return invalid("logging.level is not a valid level", c.Logging.Level)
		}
	}
	switch strings.ToLower(c.Logging.Encoding) {
	case "", "json", "console":
	default:
		return invalid("logging.encoding must be json or console", c.Logging.Encoding)
	}
	return nil
}

func invalid(msg string, value interface{}) error {
	return errors.New(errors.ErrorTypeConfig, msg).WithDetail("value", value)
}

// PoolConfig converts the memory section for memory.NewPool, resolving
// LimitPercent against the host's physical memory.
func (c *Config) PoolConfig() (memory.Config, error) {
	pc := memory.Config{
		LimitBytes:   c.Memory.LimitBytes,
		RecycleBytes: c.Memory.RecycleBytes,
	}
	if pc.LimitBytes == 0 && c.Memory.LimitPercent > 0 {
		limit, err := memory.SystemLimit(c.Memory.LimitPercent)
		if err != nil {
			return memory.Config{}, err
		}
		pc.LimitBytes = limit
	}
	return pc, nil
}

// LoggerConfig converts the logging section for logger.Init.
func (c *Config) LoggerConfig() logger.Config {
	return logger.Config{
		Level:       c.Logging.Level,
		Development: c.Logging.Development,
		Encoding:    c.Logging.Encoding,
		OutputPaths: c.Logging.OutputPaths,
	}
}
