package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus collectors for account operations.
type Metrics struct {
	UsersCreated    prometheus.Counter
	UsersUpdated    prometheus.Counter
	UsersDeleted    prometheus.Counter
	LoginAttempts   *prometheus.CounterVec
	LoginDurationMs prometheus.Histogram
	AssetCleanups   *prometheus.CounterVec
}

// New registers and returns account metrics collectors.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		UsersCreated: f.NewCounter(prometheus.CounterOpts{
			Name: "resa_users_created_total",
			Help: "Total number of users created",
		}),
		UsersUpdated: f.NewCounter(prometheus.CounterOpts{
			Name: "resa_users_updated_total",
			Help: "Total number of users updated",
		}),
		UsersDeleted: f.NewCounter(prometheus.CounterOpts{
			Name: "resa_users_deleted_total",
			Help: "Total number of users deleted",
		}),
		LoginAttempts: f.NewCounterVec(prometheus.CounterOpts{
			Name: "resa_login_attempts_total",
			Help: "Login attempts by outcome",
		}, []string{"outcome"}),
		LoginDurationMs: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "resa_login_duration_ms",
			Help:    "Login latency in milliseconds, dominated by password verification",
			Buckets: []float64{5, 10, 25, 50, 100, 250, 500, 1000},
		}),
		AssetCleanups: f.NewCounterVec(prometheus.CounterOpts{
			Name: "resa_asset_cleanups_total",
			Help: "Stored images removed after a failed write, by outcome",
		}, []string{"outcome"}),
	}
}

func (m *Metrics) ObserveLogin(outcome string, durationMs float64) {
	m.LoginAttempts.WithLabelValues(outcome).Inc()
	m.LoginDurationMs.Observe(durationMs)
}

func (m *Metrics) IncrementUsersCreated() {
	m.UsersCreated.Inc()
}

func (m *Metrics) IncrementUsersUpdated() {
	m.UsersUpdated.Inc()
}

func (m *Metrics) IncrementUsersDeleted() {
	m.UsersDeleted.Inc()
}

func (m *Metrics) IncrementAssetCleanup(ok bool) {
	if ok {
		m.AssetCleanups.WithLabelValues("removed").Inc()
		return
	}
	m.AssetCleanups.WithLabelValues("failed").Inc()
}
