package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	Created       *prometheus.CounterVec
	Deleted       *prometheus.CounterVec
	DeleteBlocked *prometheus.CounterVec
	MoveBlocked   *prometheus.CounterVec
	CacheLookups  *prometheus.CounterVec
	CacheBypassed prometheus.Gauge
}

func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Created: f.NewCounterVec(prometheus.CounterOpts{
			Name: "resa_geo_created_total",
			Help: "Provinces and cities created",
		}, []string{"entity"}),
		Deleted: f.NewCounterVec(prometheus.CounterOpts{
			Name: "resa_geo_deleted_total",
			Help: "Provinces and cities deleted",
		}, []string{"entity"}),
		DeleteBlocked: f.NewCounterVec(prometheus.CounterOpts{
			Name: "resa_geo_delete_blocked_total",
			Help: "Deletes refused because dependent records exist",
		}, []string{"entity", "dependent"}),
		MoveBlocked: f.NewCounterVec(prometheus.CounterOpts{
			Name: "resa_geo_move_blocked_total",
			Help: "Moves to another province refused because dependent records exist",
		}, []string{"entity", "dependent"}),
		CacheLookups: f.NewCounterVec(prometheus.CounterOpts{
			Name: "resa_geo_cache_lookups_total",
			Help: "Geo lookup cache reads by result",
		}, []string{"entity", "result"}),
		CacheBypassed: f.NewGauge(prometheus.GaugeOpts{
			Name: "resa_geo_cache_bypassed",
			Help: "1 while the shared geo cache is bypassed after repeated failures",
		}),
	}
}

func (m *Metrics) IncrementCreated(entity string) {
	m.Created.WithLabelValues(entity).Inc()
}

func (m *Metrics) IncrementDeleted(entity string) {
	m.Deleted.WithLabelValues(entity).Inc()
}

func (m *Metrics) IncrementDeleteBlocked(entity, dependent string) {
	m.DeleteBlocked.WithLabelValues(entity, dependent).Inc()
}

func (m *Metrics) IncrementMoveBlocked(entity, dependent string) {
	m.MoveBlocked.WithLabelValues(entity, dependent).Inc()
}

func (m *Metrics) ObserveCacheLookup(entity string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	m.CacheLookups.WithLabelValues(entity, result).Inc()
}

func (m *Metrics) SetCacheBypassed(bypassed bool) {
	if bypassed {
		m.CacheBypassed.Set(1)
		return
	}
	m.CacheBypassed.Set(0)
}
