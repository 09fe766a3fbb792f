package province

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"resa/internal/geo/models"
	"resa/internal/platform/database"
	id "resa/pkg/domain"
	"resa/pkg/platform/sentinel"
	txcontext "resa/pkg/platform/tx"
)

// PostgresStore persists provinces in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, p *models.Province) error {
	err := txcontext.Exec(ctx, s.db).QueryRowContext(ctx,
		`INSERT INTO provinces (name) VALUES ($1) RETURNING id`, p.Name,
	).Scan(&p.ID)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return fmt.Errorf("province name %q: %w", p.Name, sentinel.ErrAlreadyUsed)
		}
		return fmt.Errorf("create province: %w", err)
	}
	return nil
}

func (s *PostgresStore) Update(ctx context.Context, p *models.Province) error {
	res, err := txcontext.Exec(ctx, s.db).ExecContext(ctx,
		`UPDATE provinces SET name = $2 WHERE id = $1`, int64(p.ID), p.Name)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return fmt.Errorf("province name %q: %w", p.Name, sentinel.ErrAlreadyUsed)
		}
		return fmt.Errorf("update province: %w", err)
	}
	return database.RequireRow(res, "update province")
}

func (s *PostgresStore) Delete(ctx context.Context, provinceID id.ProvinceID) error {
	res, err := txcontext.Exec(ctx, s.db).ExecContext(ctx,
		`DELETE FROM provinces WHERE id = $1`, int64(provinceID))
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return fmt.Errorf("delete province: %w", sentinel.ErrInUse)
		}
		return fmt.Errorf("delete province: %w", err)
	}
	return database.RequireRow(res, "delete province")
}

func (s *PostgresStore) FindByID(ctx context.Context, provinceID id.ProvinceID) (*models.Province, error) {
	return s.findOne(ctx, "find province by id",
		`SELECT id, name FROM provinces WHERE id = $1`, int64(provinceID))
}

func (s *PostgresStore) FindByName(ctx context.Context, name string) (*models.Province, error) {
	return s.findOne(ctx, "find province by name",
		`SELECT id, name FROM provinces WHERE name = $1`, name)
}

func (s *PostgresStore) List(ctx context.Context, name string) ([]*models.Province, error) {
	query := `SELECT id, name FROM provinces`
	var args []any
	if name != "" {
		query += ` WHERE name ILIKE $1 ESCAPE '\'`
		args = append(args, database.ContainsPattern(name))
	}
	query += ` ORDER BY id DESC`

	rows, err := txcontext.Exec(ctx, s.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list provinces: %w", err)
	}
	defer rows.Close()

	var out []*models.Province
	for rows.Next() {
		p, err := scanProvince(rows)
		if err != nil {
			return nil, fmt.Errorf("scan province: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate provinces: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) findOne(ctx context.Context, op, query string, arg any) (*models.Province, error) {
	p, err := scanProvince(txcontext.Exec(ctx, s.db).QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

func scanProvince(row database.Scanner) (*models.Province, error) {
	var p models.Province
	var pid int64
	if err := row.Scan(&pid, &p.Name); err != nil {
		return nil, err
	}
	p.ID = id.ProvinceID(pid)
	return &p, nil
}
