package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	accountsmetrics "resa/internal/accounts/metrics"
	accountsservice "resa/internal/accounts/service"
	directorystore "resa/internal/accounts/store/directory"
	profilestore "resa/internal/accounts/store/profile"
	userstore "resa/internal/accounts/store/user"
	"resa/internal/asset"
	"resa/internal/credential"
	geocache "resa/internal/geo/cache"
	geometrics "resa/internal/geo/metrics"
	geoservice "resa/internal/geo/service"
	citystore "resa/internal/geo/store/city"
	provincestore "resa/internal/geo/store/province"
	"resa/internal/platform/config"
	"resa/internal/platform/database"
	redisclient "resa/internal/platform/redis"
	"resa/internal/validation/pipeline"
	"resa/internal/validation/referential"
	"resa/pkg/platform/circuit"
	txcontext "resa/pkg/platform/tx"
)

// StoreTx is shared by every service so nested writes join one transaction.
type StoreTx interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type userBackend interface {
	accountsservice.UserStore
	referential.UserLookup
}

type profileBackend interface {
	accountsservice.ProfileStore
	geoservice.ProfileCounter
}

type provinceBackend interface {
	geoservice.ProvinceStore
	geocache.ProvinceSource
}

type cityBackend interface {
	geoservice.CityStore
	geocache.CitySource
}

// backends groups one storage implementation of every entity.
type backends struct {
	users     userBackend
	profiles  profileBackend
	provinces provinceBackend
	cities    cityBackend
	directory accountsservice.Directory
	tx        StoreTx
}

func postgresBackends(db *sql.DB) backends {
	return backends{
		users:     userstore.NewPostgres(db),
		profiles:  profilestore.NewPostgres(db),
		provinces: provincestore.NewPostgres(db),
		cities:    citystore.NewPostgres(db),
		directory: directorystore.NewPostgres(db),
		tx:        newPostgresTx(db),
	}
}

// memoryBackends is for development and tests. Its StoreTx has no rollback,
// so a failed multi-store write (user then profile) can leave partial state.
func memoryBackends() backends {
	users := userstore.NewInMemory()
	profiles := profilestore.NewInMemory()
	provinces := provincestore.NewInMemory()
	cities := citystore.NewInMemory()
	return backends{
		users:     users,
		profiles:  profiles,
		provinces: provinces,
		cities:    cities,
		directory: directorystore.NewInMemory(users, profiles, provinces, cities),
		tx:        txcontext.NewMemory(),
	}
}

// app holds the wired services shared by serve and create-admin.
type app struct {
	cfg         config.Config
	logger      *slog.Logger
	db          *database.Pool
	redis       *redisclient.Client
	tx          StoreTx
	credentials *credential.Service
	geo         *geoservice.Service
	accounts    *accountsservice.Service
}

func newApp(cfg config.Config, logger *slog.Logger, reg prometheus.Registerer) (*app, error) {
	a := &app{cfg: cfg, logger: logger}

	pool, err := database.New(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}
	a.db = pool

	rc, err := redisclient.New(cfg.Redis, redisclient.NewPoolMetrics(reg))
	if err != nil {
		a.close()
		return nil, fmt.Errorf("redis: %w", err)
	}
	a.redis = rc

	a.credentials, err = credential.New(credential.Config{
		Secret:    cfg.Auth.JWTSecret,
		Algorithm: cfg.Auth.JWTAlgorithm,
		TokenTTL:  cfg.Auth.TokenTTL,
	}, credential.WithLogger(logger))
	if err != nil {
		a.close()
		return nil, fmt.Errorf("credentials: %w", err)
	}

	var b backends
	if a.db != nil {
		b = postgresBackends(a.db.DB())
		logger.Info("using postgres stores")
	} else {
		b = memoryBackends()
		logger.Warn("DATABASE_URL not set; using in-memory stores without transaction rollback")
	}
	a.wire(b, reg)
	return a, nil
}

func (a *app) wire(b backends, reg prometheus.Registerer) {
	a.tx = b.tx

	geoMetrics := geometrics.New(reg)
	cacheOpts := []geocache.Option{
		geocache.WithTTL(a.cfg.GeoCacheTTL),
		geocache.WithLogger(a.logger),
		geocache.WithMetrics(geoMetrics),
	}
	var backend geocache.Backend
	if a.redis != nil {
		backend = geocache.NewRedis(a.redis.Client, "resa:")
		cacheOpts = append(cacheOpts, geocache.WithBreaker(circuit.New("geo-cache",
			circuit.OnStateChange(func(name string, to circuit.State) {
				a.logger.Warn("cache circuit changed state", "breaker", name, "state", to.String())
				geoMetrics.SetCacheBypassed(to == circuit.StateOpen)
			}),
		)))
	} else {
		backend = geocache.NewMemory(a.cfg.GeoCacheTTL)
	}
	lookup := geocache.NewLookup(backend, b.provinces, b.cities, cacheOpts...)

	a.geo = geoservice.New(b.provinces, b.cities, b.profiles,
		geoservice.WithLogger(a.logger),
		geoservice.WithMetrics(geoMetrics),
		geoservice.WithTx(b.tx),
		geoservice.WithCache(lookup),
	)

	assets := asset.NewLocalStore(a.cfg.MediaRoot)
	orchestrator := pipeline.New(referential.New(b.users, lookup), a.credentials, assets,
		pipeline.WithLogger(a.logger),
		pipeline.WithMetrics(pipeline.NewMetrics(reg)),
	)
	a.accounts = accountsservice.New(b.users, b.profiles, b.directory, orchestrator, a.credentials,
		accountsservice.WithLogger(a.logger),
		accountsservice.WithMetrics(accountsmetrics.New(reg)),
		accountsservice.WithTx(b.tx),
		accountsservice.WithAssetRemover(assets),
	)
}

func (a *app) close() {
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Error("failed to close redis", "error", err)
		}
	}
	if err := a.db.Close(); err != nil {
		a.logger.Error("failed to close database", "error", err)
	}
}
