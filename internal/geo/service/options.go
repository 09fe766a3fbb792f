package service

import (
	"log/slog"

	geometrics "resa/internal/geo/metrics"
)

// serviceConfig holds optional dependencies for the service.
type serviceConfig struct {
	logger  *slog.Logger
	metrics *geometrics.Metrics
	tx      StoreTx
	cache   CacheInvalidator
}

// Option configures the service.
type Option func(c *serviceConfig)

func WithLogger(logger *slog.Logger) Option {
	return func(c *serviceConfig) {
		c.logger = logger
	}
}

func WithMetrics(m *geometrics.Metrics) Option {
	return func(c *serviceConfig) {
		c.metrics = m
	}
}

func WithTx(tx StoreTx) Option {
	return func(c *serviceConfig) {
		c.tx = tx
	}
}

// WithCache registers the lookup cache to invalidate after writes.
func WithCache(cache CacheInvalidator) Option {
	return func(c *serviceConfig) {
		c.cache = cache
	}
}
