//go:build integration

package containers

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"resa/migrations"
	id "resa/pkg/domain"
)

// PostgresContainer wraps a testcontainers Postgres instance.
type PostgresContainer struct {
	Container testcontainers.Container
	DSN       string
	DB        *sql.DB
}

// NewPostgresContainer starts Postgres and applies the embedded schema. No
// t.Cleanup is registered: the Manager shares the container across suites.
func NewPostgresContainer(t *testing.T) *PostgresContainer {
	t.Helper()

	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:18-alpine",
		postgres.WithDatabase("resa_test"),
		postgres.WithUsername("resa"),
		postgres.WithPassword("resa_test_password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("failed to get postgres connection string: %v", err)
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("failed to connect to postgres: %v", err)
	}

	pc := &PostgresContainer{
		Container: container,
		DSN:       dsn,
		DB:        db,
	}

	if err := pc.runMigrations(ctx); err != nil {
		_ = db.Close()
		_ = container.Terminate(ctx)
		t.Fatalf("failed to run migrations: %v", err)
	}

	return pc
}

func (p *PostgresContainer) runMigrations(ctx context.Context) error {
	scripts, err := migrations.Up()
	if err != nil {
		return fmt.Errorf("read migrations: %w", err)
	}
	for i, script := range scripts {
		if _, err := p.DB.ExecContext(ctx, script); err != nil {
			return fmt.Errorf("execute migration %d: %w", i+1, err)
		}
	}
	return nil
}

// TruncateAll clears every application table and resets identities.
func (p *PostgresContainer) TruncateAll(ctx context.Context) error {
	_, err := p.DB.ExecContext(ctx, "TRUNCATE TABLE profiles, users, cities, provinces RESTART IDENTITY CASCADE")
	if err != nil {
		return fmt.Errorf("truncate tables: %w", err)
	}
	return nil
}

// Exec runs a SQL statement and returns the result.
func (p *PostgresContainer) Exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return p.DB.ExecContext(ctx, query, args...)
}

// QueryRow runs a SQL query expected to return a single row.
func (p *PostgresContainer) QueryRow(ctx context.Context, query string, args ...any) *sql.Row {
	return p.DB.QueryRowContext(ctx, query, args...)
}

// CreateTestProvince inserts a province and returns its ID.
// Fails the test if insertion fails.
func (p *PostgresContainer) CreateTestProvince(ctx context.Context, t testing.TB, name string) id.ProvinceID {
	t.Helper()
	var v int64
	if err := p.QueryRow(ctx, `INSERT INTO provinces (name) VALUES ($1) RETURNING id`, name).Scan(&v); err != nil {
		t.Fatalf("CreateTestProvince: %v", err)
	}
	return id.ProvinceID(v)
}

// CreateTestCity inserts a city under provinceID and returns its ID.
// Fails the test if insertion fails.
func (p *PostgresContainer) CreateTestCity(ctx context.Context, t testing.TB, provinceID id.ProvinceID, name string) id.CityID {
	t.Helper()
	var v int64
	err := p.QueryRow(ctx, `INSERT INTO cities (name, province_id) VALUES ($1, $2) RETURNING id`,
		name, int64(provinceID)).Scan(&v)
	if err != nil {
		t.Fatalf("CreateTestCity: %v", err)
	}
	return id.CityID(v)
}
