package service

import (
	"context"
	"errors"
	"log/slog"

	accountsmetrics "resa/internal/accounts/metrics"
	"resa/internal/accounts/models"
	"resa/internal/credential"
	"resa/internal/validation/pipeline"
	id "resa/pkg/domain"
	dErrors "resa/pkg/domain-errors"
	"resa/pkg/platform/sentinel"
	txcontext "resa/pkg/platform/tx"
)

type UserStore interface {
	Create(ctx context.Context, u *models.User) error
	Update(ctx context.Context, u *models.User) error
	Delete(ctx context.Context, userID id.UserID) error
	FindByID(ctx context.Context, userID id.UserID) (*models.User, error)
	FindByPhone(ctx context.Context, phone string) (*models.User, error)
}

type ProfileStore interface {
	Create(ctx context.Context, p *models.Profile) error
	Update(ctx context.Context, p *models.Profile) error
	Delete(ctx context.Context, profileID id.ProfileID) error
	FindByID(ctx context.Context, profileID id.ProfileID) (*models.Profile, error)
}

// Directory serves the joined user/profile/geography read models.
type Directory interface {
	List(ctx context.Context, filter models.UserFilter) ([]*models.UserSummary, error)
	Get(ctx context.Context, profileID id.ProfileID) (*models.UserDetail, error)
}

// Validator runs the write validation pipelines.
type Validator interface {
	CreateUser(ctx context.Context, in pipeline.CreateUserInput) (*pipeline.UserBundle, error)
	UpdateUser(ctx context.Context, in pipeline.UpdateUserInput) (*pipeline.UserChanges, error)
	CreateProfile(ctx context.Context, in pipeline.CreateProfileInput) (*pipeline.ProfileBundle, error)
	UpdateProfile(ctx context.Context, in pipeline.UpdateProfileInput) (*pipeline.ProfileChanges, error)
}

// Credentials verifies passwords and issues tokens.
type Credentials interface {
	VerifyPassword(plain, digest string) bool
	IssueToken(ctx context.Context, ident credential.Identity) (string, error)
}

// AssetRemover deletes a stored image by reference.
type AssetRemover interface {
	Remove(ctx context.Context, ref string) error
}

// StoreTx provides a transactional boundary spanning user and profile writes.
type StoreTx interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Service implements login and admin user management.
type Service struct {
	users       UserStore
	profiles    ProfileStore
	directory   Directory
	validator   Validator
	credentials Credentials
	assets      AssetRemover
	tx          StoreTx
	logger      *slog.Logger
	metrics     *accountsmetrics.Metrics
}

func New(users UserStore, profiles ProfileStore, directory Directory, validator Validator, credentials Credentials, opts ...Option) *Service {
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
		users:       users,
		profiles:    profiles,
		directory:   directory,
		validator:   validator,
		credentials: credentials,
		assets:      cfg.assets,
		tx:          cfg.tx,
		logger:      cfg.logger,
		metrics:     cfg.metrics,
	}
}

func wrapProfileErr(err error, action string) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "Profile not found")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, action)
}

// wrapWriteErr maps store uniqueness races that slipped past validation.
func wrapWriteErr(err error, action string) error {
	if errors.Is(err, sentinel.ErrAlreadyUsed) {
		return dErrors.New(dErrors.CodeConflict, "user or profile already exists")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, action)
}

// discardAsset removes an image whose enclosing write failed. Failures are
// logged; the original error is what the caller sees.
func (s *Service) discardAsset(ctx context.Context, ref *string) {
	if ref == nil || s.assets == nil {
		return
	}
	err := s.assets.Remove(ctx, *ref)
	if err != nil {
		s.logger.WarnContext(ctx, "failed to remove orphaned asset", "ref", *ref, "error", err)
	}
	if s.metrics != nil {
		s.metrics.IncrementAssetCleanup(err == nil)
	}
}
