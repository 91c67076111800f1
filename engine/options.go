package engine

import "go.uber.org/zap"

// ============================================================================
// ENGINE OPTIONS — Functional options for Execute()
// ============================================================================

// Option configures engine behavior via functional options pattern.
type Option func(*config)

type config struct {
	Logger *zap.SugaredLogger
}

// WithLogger routes engine diagnostics to logger. Nil keeps the nop logger.
func WithLogger(logger *zap.SugaredLogger) Option {
	return func(c *config) {
		if logger != nil {
			c.Logger = logger
		}
	}
}

// applyOptions creates a config from functional options.
func applyOptions(opts []Option) *config {
	cfg := &config{
		Logger: zap.NewNop().Sugar(),
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}
