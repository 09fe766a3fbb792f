package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"

	devJWTSecret = "dev-secret-key-change-in-production"
)

// Config is the process configuration, built once at startup.
type Config struct {
	Addr           string
	Environment    string
	LogLevel       string
	Host           string
	MediaRoot      string
	RequestTimeout time.Duration
	MaxBodyBytes   int64
	GeoCacheTTL    time.Duration
	Auth           AuthConfig
	Database       DatabaseConfig
	Redis          RedisConfig
}

// AuthConfig drives token signing.
type AuthConfig struct {
	JWTSecret    string
	JWTAlgorithm string
	TokenTTL     time.Duration
}

// DatabaseConfig holds PostgreSQL pool settings. An empty URL selects the
// in-memory stores.
type DatabaseConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// RedisConfig holds settings for the shared geo cache. An empty URL keeps
// the cache in-process.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// IsProduction reports whether development defaults must be refused.
func (c Config) IsProduction() bool {
	return c.Environment == EnvProduction
}

// FromEnv loads an optional .env file and builds a Config from environment
// variables so main stays lean.
func FromEnv() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	var errs []error
	cfg := Config{
		Addr:           envString("RESA_ADDR", ":8000"),
		Environment:    envString("RESA_ENV", EnvDevelopment),
		LogLevel:       envString("LOG_LEVEL", "info"),
		Host:           envString("HOST", "http://127.0.0.1:8000"),
		MediaRoot:      envString("MEDIA_ROOT", "media"),
		RequestTimeout: envDuration("REQUEST_TIMEOUT", 30*time.Second, &errs),
		MaxBodyBytes:   int64(envInt("MAX_BODY_BYTES", 10<<20, &errs)),
		GeoCacheTTL:    envDuration("GEO_CACHE_TTL", 5*time.Minute, &errs),
		Auth: AuthConfig{
			JWTSecret:    os.Getenv("JWT_SECRET"),
			JWTAlgorithm: envString("JWT_ALGORITHM", "HS256"),
			TokenTTL:     envDuration("TOKEN_TTL", 36000*time.Second, &errs),
		},
		Database: DatabaseConfig{
			URL:             os.Getenv("DATABASE_URL"),
			MaxOpenConns:    envInt("DATABASE_MAX_OPEN_CONNS", 25, &errs),
			MaxIdleConns:    envInt("DATABASE_MAX_IDLE_CONNS", 5, &errs),
			ConnMaxLifetime: envDuration("DATABASE_CONN_MAX_LIFETIME", 5*time.Minute, &errs),
		},
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     envInt("REDIS_POOL_SIZE", 10, &errs),
			MinIdleConns: envInt("REDIS_MIN_IDLE_CONNS", 2, &errs),
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
	}

	if cfg.Auth.JWTSecret == "" {
		if cfg.IsProduction() {
			errs = append(errs, errors.New("JWT_SECRET is required in production"))
		}
		cfg.Auth.JWTSecret = devJWTSecret
	}
	switch cfg.Auth.JWTAlgorithm {
	case "HS256", "HS384", "HS512":
	default:
		errs = append(errs, fmt.Errorf("JWT_ALGORITHM %q: must be HS256, HS384 or HS512", cfg.Auth.JWTAlgorithm))
	}

	if err := errors.Join(errs...); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int, errs *[]error) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return fallback
	}
	return n
}

// envDuration accepts Go durations ("90s") or plain seconds ("36000").
func envDuration(key string, fallback time.Duration, errs *[]error) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return fallback
	}
	return d
}
