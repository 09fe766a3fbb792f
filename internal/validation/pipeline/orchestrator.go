// Package pipeline composes field, referential and asset checks into one
// ordered run per use case. A run stops at the first failure and returns it
// unchanged; it never writes users, profiles or geography.
package pipeline

import (
	"context"
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"resa/internal/asset"
	geomodels "resa/internal/geo/models"
	id "resa/pkg/domain"
	dErrors "resa/pkg/domain-errors"
)

type Referential interface {
	EnsureUsernameAvailable(ctx context.Context, username string, exclude *id.UserID) (string, error)
	EnsurePhoneAvailable(ctx context.Context, phone string, exclude *id.UserID) (string, error)
	ResolveProvince(ctx context.Context, provinceID id.ProvinceID) (*geomodels.Province, error)
	ResolveCity(ctx context.Context, provinceID id.ProvinceID, cityID id.CityID) (*geomodels.City, error)
}

type PasswordHasher interface {
	HashPassword(plain string) (string, error)
}

type AssetStore interface {
	Store(ctx context.Context, ownerKey string, upload asset.Upload) (string, error)
}

type Orchestrator struct {
	refs    Referential
	hasher  PasswordHasher
	assets  AssetStore
	tracer  trace.Tracer
	metrics *Metrics
	logger  *slog.Logger
}

type Option func(*Orchestrator)

func WithTracer(t trace.Tracer) Option {
	return func(o *Orchestrator) {
		o.tracer = t
	}
}

func WithMetrics(m *Metrics) Option {
	return func(o *Orchestrator) {
		o.metrics = m
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		o.logger = logger
	}
}

func New(refs Referential, hasher PasswordHasher, assets AssetStore, opts ...Option) *Orchestrator {
	o := &Orchestrator{refs: refs, hasher: hasher, assets: assets}
	for _, opt := range opts {
		opt(o)
	}
	if o.tracer == nil {
		o.tracer = otel.Tracer("resa/validation")
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	return o
}

// CreateUser checks username, then phone format and uniqueness, then
// password strength, and hashes the password.
func (o *Orchestrator) CreateUser(ctx context.Context, in CreateUserInput) (*UserBundle, error) {
	s := &userState{username: &in.Username, phone: &in.PhoneNumber, password: &in.Password}
	err := o.run(ctx, UseCaseCreateUser, func(ctx context.Context) error {
		return runSteps(ctx, s, o.checkUsername, o.checkPhone, o.checkPassword, o.hashPassword)
	})
	if err != nil {
		return nil, err
	}
	return &UserBundle{
		Username:       *s.out.Username,
		PhoneNumber:    *s.out.PhoneNumber,
		PasswordDigest: *s.out.PasswordDigest,
	}, nil
}

// UpdateUser runs the CreateUser steps for the fields present, excluding the
// user being updated from uniqueness checks.
func (o *Orchestrator) UpdateUser(ctx context.Context, in UpdateUserInput) (*UserChanges, error) {
	s := &userState{exclude: &in.UserID, username: in.Username, phone: in.PhoneNumber, password: in.Password}
	err := o.run(ctx, UseCaseUpdateUser, func(ctx context.Context) error {
		return runSteps(ctx, s,
			when(hasUsername, o.checkUsername),
			when(hasPhone, o.checkPhone),
			when(hasPassword, o.checkPassword),
			when(hasPassword, o.hashPassword),
		)
	})
	if err != nil {
		return nil, err
	}
	return &s.out, nil
}

// CreateProfile resolves the province, then the city within it, then
// validates and stores the image when one is supplied.
func (o *Orchestrator) CreateProfile(ctx context.Context, in CreateProfileInput) (*ProfileBundle, error) {
	s := &profileState{ownerKey: in.OwnerKey, provinceID: &in.ProvinceID, cityID: &in.CityID, image: in.Image}
	err := o.run(ctx, UseCaseCreateProfile, func(ctx context.Context) error {
		return runSteps(ctx, s, o.checkProvince, o.checkCity, when(hasImage, o.storeImage))
	})
	if err != nil {
		return nil, err
	}
	return &ProfileBundle{
		Province:  s.out.Province,
		City:      s.out.City,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		ImageRef:  s.out.ImageRef,
	}, nil
}

// UpdateProfile checks only what changes. A province change without a city
// re-checks the current city against the new province.
func (o *Orchestrator) UpdateProfile(ctx context.Context, in UpdateProfileInput) (*ProfileChanges, error) {
	s := &profileState{
		ownerKey:          in.OwnerKey,
		currentProvinceID: in.CurrentProvinceID,
		currentCityID:     in.CurrentCityID,
		provinceID:        in.ProvinceID,
		cityID:            in.CityID,
		image:             in.Image,
	}
	err := o.run(ctx, UseCaseUpdateProfile, func(ctx context.Context) error {
		return runSteps(ctx, s,
			when(hasProvince, o.checkProvince),
			when(hasGeographyChange, o.checkCity),
			when(hasImage, o.storeImage),
		)
	})
	if err != nil {
		return nil, err
	}
	s.out.FirstName = in.FirstName
	s.out.LastName = in.LastName
	return &s.out, nil
}

func (o *Orchestrator) run(ctx context.Context, uc UseCase, fn func(context.Context) error) error {
	ctx, span := o.tracer.Start(ctx, "validation."+string(uc),
		trace.WithAttributes(attribute.String("validation.use_case", string(uc))))
	defer span.End()

	err := fn(ctx)
	reason := failureReason(err)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, reason)
		span.SetAttributes(attribute.String("validation.reason", reason))
		o.logger.DebugContext(ctx, "validation failed", "use_case", uc, "reason", reason, "error", err)
	}
	if o.metrics != nil {
		o.metrics.observe(uc, reason, err != nil)
	}
	return err
}

func failureReason(err error) string {
	if err == nil {
		return ""
	}
	if r := dErrors.ReasonOf(err); r != "" {
		return string(r)
	}
	var de *dErrors.Error
	if errors.As(err, &de) {
		return string(de.Code)
	}
	return string(dErrors.CodeInternal)
}
