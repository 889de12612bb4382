// Package sae simulates sparse-autoencoder inference: token-level feature
// activations, per-feature metadata and feature search. Outputs are
// synthetic but shaped like real SAE results so clients can be built against
// a stable contract before real weights exist.
package sae

import (
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/S-Corkum/sae-inference/internal/sae"

// Engine runs the SAE operations. It holds only immutable configuration and
// is safe for concurrent use.
type Engine struct {
	config     Config
	newSampler SamplerFactory
	tracer     trace.Tracer
}

// Option configures an Engine
type Option func(*Engine)

// WithSamplerFactory replaces the source of randomness for every operation
func WithSamplerFactory(factory SamplerFactory) Option {
	return func(e *Engine) {
		if factory != nil {
			e.newSampler = factory
		}
	}
}

// WithTracer sets the tracer used for operation spans
func WithTracer(tracer trace.Tracer) Option {
	return func(e *Engine) {
		if tracer != nil {
			e.tracer = tracer
		}
	}
}

// NewEngine creates a new SAE engine
func NewEngine(cfg Config, opts ...Option) (*Engine, error) {
	if err := checkConfig(cfg); err != nil {
		return nil, err
	}

	engine := &Engine{
		config:     cfg,
		newSampler: defaultSamplerFactory,
		tracer:     otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(engine)
	}

	return engine, nil
}

// Config returns a copy of the engine configuration
func (e *Engine) Config() Config {
	return e.config
}

// FeatureDimension returns the size of the feature space
func (e *Engine) FeatureDimension() int {
	return e.config.FeatureDimension
}

// checkConfig rejects configurations the algorithms cannot run with
func checkConfig(cfg Config) error {
	switch {
	case cfg.FeatureDimension <= 0:
		return fmt.Errorf("feature dimension must be positive, got %d", cfg.FeatureDimension)
	case cfg.VocabularySize <= 0:
		return fmt.Errorf("vocabulary size must be positive, got %d", cfg.VocabularySize)
	case cfg.SparsityThreshold <= 0:
		return fmt.Errorf("sparsity threshold must be positive, got %g", cfg.SparsityThreshold)
	case cfg.ActivationMean <= 0:
		return fmt.Errorf("activation mean must be positive, got %g", cfg.ActivationMean)
	case cfg.TopK <= 0:
		return fmt.Errorf("top-k must be positive, got %d", cfg.TopK)
	case cfg.MaxSearchLimit < 0 || cfg.DefaultSearchLimit < 0:
		return fmt.Errorf("search limits must not be negative")
	case cfg.MinLatencyMS < 0 || cfg.MaxLatencyMS <= cfg.MinLatencyMS:
		return fmt.Errorf("invalid latency range [%d, %d)", cfg.MinLatencyMS, cfg.MaxLatencyMS)
	}
	return nil
}
