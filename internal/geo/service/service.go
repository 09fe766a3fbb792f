package service

import (
	"context"
	"errors"
	"log/slog"

	geometrics "resa/internal/geo/metrics"
	"resa/internal/geo/models"
	id "resa/pkg/domain"
	dErrors "resa/pkg/domain-errors"
	"resa/pkg/platform/sentinel"
	txcontext "resa/pkg/platform/tx"
)

// Store interfaces define persistence contracts.

type ProvinceStore interface {
	Create(ctx context.Context, p *models.Province) error
	Update(ctx context.Context, p *models.Province) error
	Delete(ctx context.Context, provinceID id.ProvinceID) error
	FindByID(ctx context.Context, provinceID id.ProvinceID) (*models.Province, error)
	FindByName(ctx context.Context, name string) (*models.Province, error)
	List(ctx context.Context, name string) ([]*models.Province, error)
}

type CityStore interface {
	Create(ctx context.Context, c *models.City) error
	Update(ctx context.Context, c *models.City) error
	Delete(ctx context.Context, cityID id.CityID) error
	FindByID(ctx context.Context, cityID id.CityID) (*models.City, error)
	FindByName(ctx context.Context, provinceID id.ProvinceID, name string) (*models.City, error)
	List(ctx context.Context, filter models.CityFilter) ([]*models.City, error)
	CountByProvince(ctx context.Context, provinceID id.ProvinceID) (int, error)
}

// ProfileCounter reports profiles referencing a province or city.
type ProfileCounter interface {
	CountByProvince(ctx context.Context, provinceID id.ProvinceID) (int, error)
	CountByCity(ctx context.Context, cityID id.CityID) (int, error)
}

type CacheInvalidator interface {
	InvalidateProvince(ctx context.Context, provinceID id.ProvinceID)
	InvalidateCity(ctx context.Context, cityID id.CityID)
}

// CityView is a city with its province resolved.
type CityView struct {
	City     *models.City
	Province *models.Province
}

// Service manages provinces and cities.
type Service struct {
	provinces ProvinceStore
	cities    CityStore
	profiles  ProfileCounter
	logger    *slog.Logger
	metrics   *geometrics.Metrics
	tx        StoreTx
	cache     CacheInvalidator
}

func New(provinces ProvinceStore, cities CityStore, profiles ProfileCounter, opts ...Option) *Service {
	cfg := &serviceConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.tx == nil {
		cfg.tx = txcontext.NewMemory()
	}
	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}
	return &Service{
		provinces: provinces,
		cities:    cities,
		profiles:  profiles,
		logger:    cfg.logger,
		metrics:   cfg.metrics,
		tx:        cfg.tx,
		cache:     cfg.cache,
	}
}

// Error wrapping helpers translate sentinel errors to domain errors.

func wrapProvinceErr(err error, action string) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "Province not found")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, action)
}

func wrapCityErr(err error, action string) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "City not found")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, action)
}

func (s *Service) invalidateProvince(ctx context.Context, provinceID id.ProvinceID) {
	if s.cache != nil {
		s.cache.InvalidateProvince(ctx, provinceID)
	}
}

func (s *Service) invalidateCity(ctx context.Context, cityID id.CityID) {
	if s.cache != nil {
		s.cache.InvalidateCity(ctx, cityID)
	}
}

func (s *Service) incrementCreated(entity string) {
	if s.metrics != nil {
		s.metrics.IncrementCreated(entity)
	}
}

func (s *Service) incrementDeleted(entity string) {
	if s.metrics != nil {
		s.metrics.IncrementDeleted(entity)
	}
}

func (s *Service) deleteBlocked(entity, dependent, msg string) error {
	if s.metrics != nil {
		s.metrics.IncrementDeleteBlocked(entity, dependent)
	}
	return dErrors.New(dErrors.CodeConflict, msg)
}

func (s *Service) moveBlocked(entity, dependent, msg string) error {
	if s.metrics != nil {
		s.metrics.IncrementMoveBlocked(entity, dependent)
	}
	return dErrors.New(dErrors.CodeConflict, msg)
}
