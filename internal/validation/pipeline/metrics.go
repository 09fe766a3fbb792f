package pipeline

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	Runs     *prometheus.CounterVec
	Failures *prometheus.CounterVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Runs: f.NewCounterVec(prometheus.CounterOpts{
			Name: "resa_validation_runs_total",
			Help: "Validation pipeline runs by use case and outcome",
		}, []string{"use_case", "outcome"}),
		Failures: f.NewCounterVec(prometheus.CounterOpts{
			Name: "resa_validation_failures_total",
			Help: "Validation pipeline failures by use case and reason",
		}, []string{"use_case", "reason"}),
	}
}

func (m *Metrics) observe(uc UseCase, reason string, failed bool) {
	if !failed {
		m.Runs.WithLabelValues(string(uc), "ok").Inc()
		return
	}
	m.Runs.WithLabelValues(string(uc), "failed").Inc()
	m.Failures.WithLabelValues(string(uc), reason).Inc()
}
