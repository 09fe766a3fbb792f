// Package cache is a read-through cache in front of the province and city
// stores. Referential validation resolves geography through it; the geo
// service invalidates entries when a record changes or disappears.
package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	geometrics "resa/internal/geo/metrics"
	"resa/internal/geo/models"
	id "resa/pkg/domain"
	"resa/pkg/platform/circuit"
)

const defaultTTL = 5 * time.Minute

type ProvinceSource interface {
	FindByID(ctx context.Context, provinceID id.ProvinceID) (*models.Province, error)
}

type CitySource interface {
	FindByID(ctx context.Context, cityID id.CityID) (*models.City, error)
}

// Lookup resolves provinces and cities by ID. Misses are not cached, so a
// record created after a failed lookup is visible immediately.
type Lookup struct {
	backend   Backend
	provinces ProvinceSource
	cities    CitySource
	group     singleflight.Group
	ttl       time.Duration
	logger    *slog.Logger
	metrics   *geometrics.Metrics
	breaker   *circuit.Breaker
}

type Option func(*Lookup)

func WithTTL(ttl time.Duration) Option {
	return func(l *Lookup) {
		if ttl > 0 {
			l.ttl = ttl
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(l *Lookup) {
		l.logger = logger
	}
}

func WithMetrics(m *geometrics.Metrics) Option {
	return func(l *Lookup) {
		l.metrics = m
	}
}

// WithBreaker bypasses the backend while b is open. Invalidations are
// always attempted so a recovering backend does not serve stale entries.
func WithBreaker(b *circuit.Breaker) Option {
	return func(l *Lookup) {
		l.breaker = b
	}
}

func NewLookup(backend Backend, provinces ProvinceSource, cities CitySource, opts ...Option) *Lookup {
	l := &Lookup{
		backend:   backend,
		provinces: provinces,
		cities:    cities,
		ttl:       defaultTTL,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *Lookup) ProvinceByID(ctx context.Context, provinceID id.ProvinceID) (*models.Province, error) {
	return readThrough(ctx, l, "province", provinceKey(provinceID), func(ctx context.Context) (*models.Province, error) {
		return l.provinces.FindByID(ctx, provinceID)
	})
}

func (l *Lookup) CityByID(ctx context.Context, cityID id.CityID) (*models.City, error) {
	return readThrough(ctx, l, "city", cityKey(cityID), func(ctx context.Context) (*models.City, error) {
		return l.cities.FindByID(ctx, cityID)
	})
}

func (l *Lookup) InvalidateProvince(ctx context.Context, provinceID id.ProvinceID) {
	l.invalidate(ctx, provinceKey(provinceID))
}

func (l *Lookup) InvalidateCity(ctx context.Context, cityID id.CityID) {
	l.invalidate(ctx, cityKey(cityID))
}

func (l *Lookup) invalidate(ctx context.Context, key string) {
	err := l.backend.Delete(ctx, key)
	l.record(err)
	if err != nil {
		l.logger.WarnContext(ctx, "geo cache invalidation failed", "key", key, "error", err)
	}
}

func (l *Lookup) get(ctx context.Context, key string) ([]byte, bool, error) {
	if l.breaker != nil && !l.breaker.Allow() {
		return nil, false, nil
	}
	raw, ok, err := l.backend.Get(ctx, key)
	l.record(err)
	return raw, ok, err
}

func (l *Lookup) set(ctx context.Context, key string, raw []byte) error {
	if l.breaker != nil && !l.breaker.Allow() {
		return nil
	}
	err := l.backend.Set(ctx, key, raw, l.ttl)
	l.record(err)
	return err
}

func (l *Lookup) record(err error) {
	if l.breaker != nil {
		l.breaker.Record(err)
	}
}

// readThrough serves key from the backend, or loads it once per key across
// concurrent callers and stores the result. Backend failures degrade to a
// direct store read.
func readThrough[T any](ctx context.Context, l *Lookup, entity, key string, load func(context.Context) (*T, error)) (*T, error) {
	if raw, ok, err := l.get(ctx, key); err != nil {
		l.logger.WarnContext(ctx, "geo cache read failed", "key", key, "error", err)
	} else if ok {
		var v T
		if err := json.Unmarshal(raw, &v); err == nil {
			l.observe(entity, true)
			return &v, nil
		}
		l.invalidate(ctx, key)
	}
	l.observe(entity, false)

	res, err, _ := l.group.Do(key, func() (any, error) {
		v, err := load(ctx)
		if err != nil {
			return nil, err
		}
		if raw, err := json.Marshal(v); err == nil {
			if err := l.set(ctx, key, raw); err != nil {
				l.logger.WarnContext(ctx, "geo cache write failed", "key", key, "error", err)
			}
		}
		return v, nil
	})
	if err != nil {
		return nil, err
	}
	// Callers sharing a flight get their own copy.
	v := *res.(*T)
	return &v, nil
}

func (l *Lookup) observe(entity string, hit bool) {
	if l.metrics != nil {
		l.metrics.ObserveCacheLookup(entity, hit)
	}
}

func provinceKey(provinceID id.ProvinceID) string { return "geo:province:" + provinceID.String() }
func cityKey(cityID id.CityID) string             { return "geo:city:" + cityID.String() }
