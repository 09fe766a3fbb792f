package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	accountshandler "resa/internal/accounts/handler"
	"resa/internal/authz"
	geohandler "resa/internal/geo/handler"
	"resa/internal/platform/config"
	"resa/internal/platform/health"
	"resa/internal/platform/logger"
	"resa/internal/platform/metrics"
	"resa/pkg/platform/middleware/request"
)

const (
	shutdownTimeout   = 10 * time.Second
	poolStatsInterval = 15 * time.Second
)

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.FromEnv()
			if err != nil {
				return fmt.Errorf("config: %w", err)
			}
			return serve(cmd.Context(), cfg)
		},
	}
}

func serve(ctx context.Context, cfg config.Config) error {
	log := logger.New(cfg.LogLevel)
	reg := metrics.NewRegistry()

	log.Info("initializing resa",
		"addr", cfg.Addr,
		"environment", cfg.Environment,
	)

	a, err := newApp(cfg, log, reg)
	if err != nil {
		return err
	}
	defer a.close()

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           newRouter(a, reg),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting http server", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down server gracefully")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	if a.redis != nil {
		g.Go(func() error {
			recordPoolStats(gctx, a)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		log.Error("server stopped with error", "error", err)
		return err
	}
	log.Info("server stopped")
	return nil
}

func newRouter(a *app, reg *prometheus.Registry) http.Handler {
	cfg := a.cfg
	r := chi.NewRouter()
	r.Use(middleware.StripSlashes)
	r.Use(request.RequestID)
	r.Use(request.Recovery(a.logger))
	r.Use(request.Logger(a.logger))
	r.Use(request.Latency(request.NewMetrics(reg)))
	r.Use(request.BodyLimit(cfg.MaxBodyBytes))
	r.Use(request.Timeout(cfg.RequestTimeout))

	r.Handle("/metrics", metrics.Handler(reg))

	checks := health.New(cfg.Environment)
	if a.db != nil {
		checks.RegisterCheck("database", a.db.Health)
	}
	if a.redis != nil {
		checks.RegisterCheck("redis", a.redis.Health)
	}
	checks.Register(r)

	admin := authz.Admin(a.credentials, a.logger)
	geohandler.New(a.geo, a.logger).Register(r, admin)
	accountshandler.New(a.accounts, a.logger,
		accountshandler.WithMediaHost(cfg.Host),
		accountshandler.WithMaxUploadBytes(cfg.MaxBodyBytes),
	).Register(r, admin)
	return r
}

func recordPoolStats(ctx context.Context, a *app) {
	ticker := time.NewTicker(poolStatsInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			a.redis.RecordPoolStats()
		}
	}
}

