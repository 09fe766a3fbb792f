package city

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"resa/internal/geo/models"
	"resa/internal/platform/database"
	id "resa/pkg/domain"
	"resa/pkg/platform/sentinel"
	txcontext "resa/pkg/platform/tx"
)

// PostgresStore persists cities in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, c *models.City) error {
	err := txcontext.Exec(ctx, s.db).QueryRowContext(ctx,
		`INSERT INTO cities (name, province_id) VALUES ($1, $2) RETURNING id`,
		c.Name, int64(c.ProvinceID),
	).Scan(&c.ID)
	if err != nil {
		return translateWriteErr(err, "create city")
	}
	return nil
}

func (s *PostgresStore) Update(ctx context.Context, c *models.City) error {
	res, err := txcontext.Exec(ctx, s.db).ExecContext(ctx,
		`UPDATE cities SET name = $2, province_id = $3 WHERE id = $1`,
		int64(c.ID), c.Name, int64(c.ProvinceID))
	if err != nil {
		return translateWriteErr(err, "update city")
	}
	return database.RequireRow(res, "update city")
}

func (s *PostgresStore) Delete(ctx context.Context, cityID id.CityID) error {
	res, err := txcontext.Exec(ctx, s.db).ExecContext(ctx, `DELETE FROM cities WHERE id = $1`, int64(cityID))
	if err != nil {
		return translateWriteErr(err, "delete city")
	}
	return database.RequireRow(res, "delete city")
}

func (s *PostgresStore) FindByID(ctx context.Context, cityID id.CityID) (*models.City, error) {
	return s.findOne(ctx, "find city by id",
		`SELECT id, name, province_id FROM cities WHERE id = $1`, int64(cityID))
}

func (s *PostgresStore) FindByName(ctx context.Context, provinceID id.ProvinceID, name string) (*models.City, error) {
	return s.findOne(ctx, "find city by name",
		`SELECT id, name, province_id FROM cities WHERE province_id = $1 AND name = $2`, int64(provinceID), name)
}

func (s *PostgresStore) List(ctx context.Context, filter models.CityFilter) ([]*models.City, error) {
	var (
		conds []string
		args  []any
	)
	if filter.Name != "" {
		args = append(args, database.ContainsPattern(filter.Name))
		conds = append(conds, fmt.Sprintf(`name ILIKE $%d ESCAPE '\'`, len(args)))
	}
	if !filter.ProvinceID.IsNil() {
		args = append(args, int64(filter.ProvinceID))
		conds = append(conds, fmt.Sprintf(`province_id = $%d`, len(args)))
	}
	query := `SELECT id, name, province_id FROM cities`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, ` AND `)
	}
	query += ` ORDER BY id DESC`

	rows, err := txcontext.Exec(ctx, s.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list cities: %w", err)
	}
	defer rows.Close()

	var out []*models.City
	for rows.Next() {
		c, err := scanCity(rows)
		if err != nil {
			return nil, fmt.Errorf("scan city: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cities: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) CountByProvince(ctx context.Context, provinceID id.ProvinceID) (int, error) {
	var n int
	err := txcontext.Exec(ctx, s.db).QueryRowContext(ctx,
		`SELECT COUNT(*) FROM cities WHERE province_id = $1`, int64(provinceID)).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count cities: %w", err)
	}
	return n, nil
}

func (s *PostgresStore) findOne(ctx context.Context, op, query string, args ...any) (*models.City, error) {
	c, err := scanCity(txcontext.Exec(ctx, s.db).QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return c, nil
}

func translateWriteErr(err error, op string) error {
	switch {
	case database.IsUniqueViolation(err):
		return fmt.Errorf("%s: %w", op, sentinel.ErrAlreadyUsed)
	case database.IsForeignKeyViolation(err):
		return fmt.Errorf("%s: %w", op, sentinel.ErrInUse)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}

func scanCity(row database.Scanner) (*models.City, error) {
	var (
		c        models.City
		cid, pid int64
	)
	if err := row.Scan(&cid, &c.Name, &pid); err != nil {
		return nil, err
	}
	c.ID = id.CityID(cid)
	c.ProvinceID = id.ProvinceID(pid)
	return &c, nil
}
