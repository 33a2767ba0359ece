// Package config provides configuration loading and validation for revstat.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/viper"

	"github.com/revstat/revstat/pkg/analytics"
	"github.com/revstat/revstat/pkg/reviewlog"
)

// Sentinel validation errors.
var (
	ErrInvalidThreshold   = errors.New("activity threshold must be non-negative")
	ErrInvalidWindow      = errors.New("moving-average window must be positive")
	ErrInvalidMinGap      = errors.New("min gap days must be positive")
	ErrInvalidOutput      = errors.New("unknown output format")
	ErrInvalidInputFormat = errors.New("unknown input format")
	ErrInvalidTheme       = errors.New("unknown theme")
	ErrInvalidMaxFileSize = errors.New("invalid max file size")
)

// Default configuration values.
const (
	defaultMaxFileSize = "64MB"
	defaultInputFormat = "auto"
	defaultTheme       = "light"
)

// Config holds all configuration for revstat.
type Config struct {
	Input     InputConfig     `mapstructure:"input"`
	Pipeline  PipelineConfig  `mapstructure:"pipeline"`
	Output    OutputConfig    `mapstructure:"output"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// InputConfig holds dataset loading configuration.
type InputConfig struct {
	// Format is the dataset format: auto, csv, json or bin.
	Format string `mapstructure:"format"`
	// Policy selects how a day's total is derived: honest, gross or all.
	Policy string `mapstructure:"policy"`
	// MaxFileSize caps the dataset size, in humanized form ("64MB").
	MaxFileSize string `mapstructure:"max_file_size"`
}

// PipelineConfig holds analytics pipeline configuration.
type PipelineConfig struct {
	ActivityThreshold int   `mapstructure:"activity_threshold"`
	Windows           []int `mapstructure:"windows"`
	MinGapDays        int   `mapstructure:"min_gap_days"`
}

// OutputConfig holds rendering configuration.
type OutputConfig struct {
	Format string `mapstructure:"format"`
	Theme  string `mapstructure:"theme"`
}

// LoggingConfig holds logging-specific configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// TelemetryConfig holds OpenTelemetry export configuration.
type TelemetryConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Endpoint string `mapstructure:"endpoint"`
}

// LoadConfig loads configuration from file and environment variables.
func LoadConfig(configPath string) (*Config, error) {
	viperCfg := viper.New()

	setDefaults(viperCfg)

	if configPath != "" {
		viperCfg.SetConfigFile(configPath)
	} else {
		viperCfg.SetConfigName("revstat")
		viperCfg.SetConfigType("yaml")
		viperCfg.AddConfigPath(".")
		viperCfg.AddConfigPath("$HOME/.config/revstat")
		viperCfg.AddConfigPath("/etc/revstat")
	}

	viperCfg.SetEnvPrefix("REVSTAT")
	viperCfg.AutomaticEnv()
	viperCfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	readErr := viperCfg.ReadInConfig()
	if readErr != nil {
		var notFoundErr viper.ConfigFileNotFoundError
		if !errors.As(readErr, &notFoundErr) {
			return nil, fmt.Errorf("failed to read config file: %w", readErr)
		}
	}

	var config Config

	unmarshalErr := viperCfg.Unmarshal(&config)
	if unmarshalErr != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", unmarshalErr)
	}

	validateErr := validateConfig(&config)
	if validateErr != nil {
		return nil, fmt.Errorf("invalid configuration: %w", validateErr)
	}

	return &config, nil
}

// setDefaults sets default configuration values.
func setDefaults(viperCfg *viper.Viper) {
	// Input defaults.
	viperCfg.SetDefault("input.format", defaultInputFormat)
	viperCfg.SetDefault("input.policy", string(reviewlog.DefaultPolicy))
	viperCfg.SetDefault("input.max_file_size", defaultMaxFileSize)

	// Pipeline defaults.
	viperCfg.SetDefault("pipeline.activity_threshold", analytics.DefaultActivityThreshold)
	viperCfg.SetDefault("pipeline.windows", analytics.DefaultWindows())
	viperCfg.SetDefault("pipeline.min_gap_days", analytics.DefaultMinGapDays)

	// Output defaults.
	viperCfg.SetDefault("output.format", analytics.FormatText)
	viperCfg.SetDefault("output.theme", defaultTheme)

	// Logging defaults.
	viperCfg.SetDefault("logging.level", "info")
	viperCfg.SetDefault("logging.format", "text")
	viperCfg.SetDefault("logging.output", "stderr")

	// Telemetry defaults.
	viperCfg.SetDefault("telemetry.enabled", false)
	viperCfg.SetDefault("telemetry.endpoint", "")
}

// validateConfig validates the configuration.
func validateConfig(config *Config) error {
	_, policyErr := reviewlog.ParseTotalPolicy(config.Input.Policy)
	if policyErr != nil {
		return policyErr
	}

	switch config.Input.Format {
	case "auto", "csv", "json", "bin":
	default:
		return fmt.Errorf("%w: %q", ErrInvalidInputFormat, config.Input.Format)
	}

	_, sizeErr := humanize.ParseBytes(config.Input.MaxFileSize)
	if sizeErr != nil {
		return fmt.Errorf("%w: %q", ErrInvalidMaxFileSize, config.Input.MaxFileSize)
	}

	if config.Pipeline.ActivityThreshold < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidThreshold, config.Pipeline.ActivityThreshold)
	}

	for _, window := range config.Pipeline.Windows {
		if window <= 0 {
			return fmt.Errorf("%w: %d", ErrInvalidWindow, window)
		}
	}

	if config.Pipeline.MinGapDays <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidMinGap, config.Pipeline.MinGapDays)
	}

	switch config.Output.Format {
	case analytics.FormatJSON, analytics.FormatYAML, analytics.FormatText,
		analytics.FormatPlot, analytics.FormatBinary:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidOutput, config.Output.Format)
	}

	switch config.Output.Theme {
	case "light", "dark":
	default:
		return fmt.Errorf("%w: %q", ErrInvalidTheme, config.Output.Theme)
	}

	return nil
}

// Validate re-checks the configuration. LoadConfig validates on load;
// callers that override fields afterwards (CLI flags) call this again.
func (c *Config) Validate() error {
	return validateConfig(c)
}

// MaxFileSizeBytes returns the parsed input size cap.
func (c *Config) MaxFileSizeBytes() uint64 {
	size, err := humanize.ParseBytes(c.Input.MaxFileSize)
	if err != nil {
		return 0
	}

	return size
}

// AnalyticsOptions maps the pipeline configuration onto analytics options.
func (c *Config) AnalyticsOptions() analytics.Options {
	policy, err := reviewlog.ParseTotalPolicy(c.Input.Policy)
	if err != nil {
		policy = reviewlog.DefaultPolicy
	}

	return analytics.Options{
		ActivityThreshold: c.Pipeline.ActivityThreshold,
		Windows:           c.Pipeline.Windows,
		MinGapDays:        c.Pipeline.MinGapDays,
		Policy:            policy,
	}
}
