// Package config loads revlens settings from file, environment and defaults.
package config

import (
	"errors"
	"fmt"
)

// Config is the top-level configuration struct for revlens.
// Field tags use mapstructure for viper unmarshalling.
type Config struct {
	Analysis AnalysisConfig `mapstructure:"analysis"`
	Output   OutputConfig   `mapstructure:"output"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
}

// AnalysisConfig holds run-shaping knobs for the analysis pass.
type AnalysisConfig struct {
	Include   []string `mapstructure:"include"`
	Exclude   []string `mapstructure:"exclude"`
	Workers   int      `mapstructure:"workers"`
	RulesFile string   `mapstructure:"rules_file"`
	Backend   string   `mapstructure:"backend"`
}

// OutputConfig holds rendering settings.
type OutputConfig struct {
	Format string `mapstructure:"format"`
	Silent bool   `mapstructure:"silent"`
}

// MetricsConfig holds the Prometheus scrape endpoint settings.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Listen  string `mapstructure:"listen"`
}

// Sentinel errors for configuration validation.
var (
	// ErrInvalidWorkers indicates the workers value is not positive.
	ErrInvalidWorkers = errors.New("analysis.workers must be positive")
	// ErrInvalidBackend indicates an unknown backend label.
	ErrInvalidBackend = errors.New("analysis.backend must be cpu or gpu")
	// ErrInvalidFormat indicates an unknown output format.
	ErrInvalidFormat = errors.New("output.format must be one of summary, detailed, json, markdown")
)

// validFormats are the recognized output.format values.
var validFormats = map[string]bool{
	"summary":  true,
	"detailed": true,
	"json":     true,
	"markdown": true,
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.Analysis.Workers < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidWorkers, c.Analysis.Workers)
	}

	if c.Analysis.Backend != "cpu" && c.Analysis.Backend != "gpu" {
		return fmt.Errorf("%w: got %q", ErrInvalidBackend, c.Analysis.Backend)
	}

	if !validFormats[c.Output.Format] {
		return fmt.Errorf("%w: got %q", ErrInvalidFormat, c.Output.Format)
	}

	return nil
}
