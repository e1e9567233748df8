// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(ctx) initializer to build a Config with defaults.
// - Load layers a YAML file and VOCAFIT_ environment variables on top.
// - Errors are wrapped with this package's sentinels.
package config

import (
	"context"
	"fmt"
	"math"
	"runtime"

	"github.com/go-playground/validator/v10"
)

const weightSumTolerance = 0.001

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level" validate:"oneof=debug info warn error"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format" validate:"oneof=text json"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr" validate:"required"`

	// DefaultTopN is the number of matches returned when a request omits n.
	DefaultTopN int `koanf:"default_top_n" validate:"min=1"`

	// MaxTopN caps the n a request may ask for.
	MaxTopN int `koanf:"max_top_n" validate:"min=1"`

	// WorkerCount sets the number of batch scoring workers.
	WorkerCount int `koanf:"worker_count" validate:"min=1"`

	// QueueSize bounds the batch job queue; jobs beyond it are scored inline.
	QueueSize int `koanf:"queue_size" validate:"min=1"`

	// DedupeSize bounds the memo of recent assessments; 0 disables it.
	DedupeSize int `koanf:"dedupe_size" validate:"min=0"`

	// MaxBatchSize caps the number of submissions in one batch request.
	MaxBatchSize int `koanf:"max_batch_size" validate:"min=1"`

	// Theta and Gamma parameterize the contrast enhancement.
	Theta float64 `koanf:"theta" validate:"gt=0,lt=1"`
	Gamma float64 `koanf:"gamma" validate:"gt=0"`

	// Per-instrument weights used when combining the person vector.
	RIASECWeight  float64 `koanf:"riasec_weight" validate:"gte=0,lte=1"`
	GardnerWeight float64 `koanf:"gardner_weight" validate:"gte=0,lte=1"`
	GOPCWeight    float64 `koanf:"gopc_weight" validate:"gte=0,lte=1"`

	// RankWeights are the multipliers applied by rank position.
	RankWeights []float64 `koanf:"rank_weights" validate:"required,min=1,dive,gte=0"`
}

// New creates a Config populated with defaults. Context is accepted first to
// satisfy the project-wide convention and is currently unused.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:      "info",
		LogFormat:     "text",
		Addr:          ":9080",
		DefaultTopN:   6,
		MaxTopN:       50,
		WorkerCount:   runtime.NumCPU(),
		QueueSize:     4096,
		DedupeSize:    10_000,
		MaxBatchSize:  500,
		Theta:         0.5,
		Gamma:         1.3,
		RIASECWeight:  0.4,
		GardnerWeight: 0.4,
		GOPCWeight:    0.2,
		RankWeights:   []float64{1, 0.75, 0.5, 0.25},
	}
}

// InstrumentWeights returns the RIASEC, Gardner and GOPC weights in order.
func (c *Config) InstrumentWeights() [3]float64 {
	return [3]float64{c.RIASECWeight, c.GardnerWeight, c.GOPCWeight}
}

// Validate checks field ranges and the cross-field constraints.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if c.DefaultTopN > c.MaxTopN {
		return fmt.Errorf("%w: default_top_n %d exceeds max_top_n %d", ErrInvalidConfig, c.DefaultTopN, c.MaxTopN)
	}
	sum := c.RIASECWeight + c.GardnerWeight + c.GOPCWeight
	if math.Abs(sum-1) > weightSumTolerance {
		return fmt.Errorf("%w: instrument weights sum to %.4f, want 1", ErrInvalidConfig, sum)
	}
	return nil
}
