package service

import (
	"log/slog"

	accountsmetrics "resa/internal/accounts/metrics"
)

// serviceConfig holds optional dependencies for the service.
type serviceConfig struct {
	logger  *slog.Logger
	metrics *accountsmetrics.Metrics
	tx      StoreTx
	assets  AssetRemover
}

// Option configures the service.
type Option func(c *serviceConfig)

func WithLogger(logger *slog.Logger) Option {
	return func(c *serviceConfig) {
		c.logger = logger
	}
}

func WithMetrics(m *accountsmetrics.Metrics) Option {
	return func(c *serviceConfig) {
		c.metrics = m
	}
}

// WithTx sets the transaction boundary shared with other services.
func WithTx(tx StoreTx) Option {
	return func(c *serviceConfig) {
		c.tx = tx
	}
}

// WithAssetRemover enables cleanup of images stored by a write that did not
// commit.
func WithAssetRemover(r AssetRemover) Option {
	return func(c *serviceConfig) {
		c.assets = r
	}
}
