// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(ctx) to build a Config with defaults.
// - Load layers a YAML file and VOYAGE_ env vars over those defaults.
// - Errors wrap this package's sentinels.
package config

import (
	"context"
	"fmt"
	"time"
)

// minDatasetSize keeps the dataset larger than the curated seed records.
const minDatasetSize = 10

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// DatasetSize is the number of passengers generated at start-up.
	DatasetSize int `koanf:"dataset_size"`

	// DatasetSeed seeds the generator's random source.
	DatasetSeed int64 `koanf:"dataset_seed"`

	// LoadDelayMS simulates the time spent loading the dataset.
	LoadDelayMS int `koanf:"load_delay_ms"`

	// Sampling probabilities for synthetic passengers.
	MaleProbability       float64 `koanf:"male_probability"`
	UnknownAgeProbability float64 `koanf:"unknown_age_probability"`
	SurvivalProbability   float64 `koanf:"survival_probability"`

	// MaxPreviewLimit caps GET /passengers?limit and GET /features?limit.
	MaxPreviewLimit int `koanf:"max_preview_limit"`

	// StageWorkers is the size of the pool running aggregation stages.
	StageWorkers int `koanf:"stage_workers"`
}

// New creates a Config with defaults. Context is accepted first to follow the
// project-wide convention and is currently unused.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:              "info",
		Addr:                  ":9080",
		DatasetSize:           100,
		DatasetSeed:           42,
		LoadDelayMS:           1000,
		MaleProbability:       0.4,
		UnknownAgeProbability: 0.1,
		SurvivalProbability:   0.4,
		MaxPreviewLimit:       100,
		StageWorkers:          4,
	}
}

// LoadDelay returns LoadDelayMS as a duration.
func (c *Config) LoadDelay() time.Duration {
	return time.Duration(c.LoadDelayMS) * time.Millisecond
}

// Validate reports the first invalid field, wrapped in ErrInvalidConfig.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.DatasetSize <= minDatasetSize:
		return fmt.Errorf("%w: dataset_size must be greater than %d, got %d", ErrInvalidConfig, minDatasetSize, c.DatasetSize)
	case c.LoadDelayMS < 0:
		return fmt.Errorf("%w: load_delay_ms must not be negative", ErrInvalidConfig)
	case c.MaxPreviewLimit <= 0:
		return fmt.Errorf("%w: max_preview_limit must be positive", ErrInvalidConfig)
	case c.StageWorkers <= 0:
		return fmt.Errorf("%w: stage_workers must be positive", ErrInvalidConfig)
	}
	probabilities := []struct {
		key string
		val float64
	}{
		{"male_probability", c.MaleProbability},
		{"unknown_age_probability", c.UnknownAgeProbability},
		{"survival_probability", c.SurvivalProbability},
	}
	for _, p := range probabilities {
		if p.val < 0 || p.val > 1 {
			return fmt.Errorf("%w: %s must be within [0,1], got %v", ErrInvalidConfig, p.key, p.val)
		}
	}
	return nil
}
