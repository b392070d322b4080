package liquify

import (
	"go.uber.org/zap"
)

// Option is a functional option for configuring the Engine.
type Option func(*engineConfig)

// engineConfig holds the internal configuration for an Engine.
type engineConfig struct {
	logger        *zap.Logger
	resolver      PartialResolver
	maxDepth      int
	maxIterations int
}

// defaultEngineConfig returns the default engine configuration.
func defaultEngineConfig() *engineConfig {
	return &engineConfig{
		logger:        nil,
		resolver:      nil,
		maxDepth:      DefaultMaxRenderDepth,
		maxIterations: DefaultMaxIterations,
	}
}

// WithLogger sets the logger for the engine.
// Default: nil (no logging)
func WithLogger(logger *zap.Logger) Option {
	return func(c *engineConfig) {
		c.logger = logger
	}
}

// WithResolver sets the partial resolver used by {% include %}.
// Default: nil (includes fail)
func WithResolver(resolver PartialResolver) Option {
	return func(c *engineConfig) {
		c.resolver = resolver
	}
}

// WithMaxRenderDepth sets the maximum nesting depth for includes and
// captures. Use 0 for unlimited depth.
// Default: 100
func WithMaxRenderDepth(depth int) Option {
	return func(c *engineConfig) {
		c.maxDepth = depth
	}
}

// WithMaxIterations caps the total loop iterations per render call.
// Use 0 for unlimited iterations.
// Default: 100000
func WithMaxIterations(n int) Option {
	return func(c *engineConfig) {
		c.maxIterations = n
	}
}
