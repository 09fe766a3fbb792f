package profile

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"resa/internal/accounts/models"
	"resa/internal/platform/database"
	id "resa/pkg/domain"
	"resa/pkg/platform/sentinel"
	txcontext "resa/pkg/platform/tx"
)

const profileColumns = `id, user_id, first_name, last_name, image_ref, province_id, city_id`

// PostgresStore persists profiles in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, p *models.Profile) error {
	err := txcontext.Exec(ctx, s.db).QueryRowContext(ctx, `
		INSERT INTO profiles (user_id, first_name, last_name, image_ref, province_id, city_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`,
		int64(p.UserID), p.FirstName, p.LastName, p.ImageRef, int64(p.ProvinceID), int64(p.CityID),
	).Scan(&p.ID)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return fmt.Errorf("profile for user %s: %w", p.UserID, sentinel.ErrAlreadyUsed)
		}
		return fmt.Errorf("create profile: %w", err)
	}
	return nil
}

func (s *PostgresStore) Update(ctx context.Context, p *models.Profile) error {
	res, err := txcontext.Exec(ctx, s.db).ExecContext(ctx, `
		UPDATE profiles
		SET first_name = $2, last_name = $3, image_ref = $4, province_id = $5, city_id = $6
		WHERE id = $1`,
		int64(p.ID), p.FirstName, p.LastName, p.ImageRef, int64(p.ProvinceID), int64(p.CityID),
	)
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	return database.RequireRow(res, "update profile")
}

func (s *PostgresStore) Delete(ctx context.Context, profileID id.ProfileID) error {
	res, err := txcontext.Exec(ctx, s.db).ExecContext(ctx, `DELETE FROM profiles WHERE id = $1`, int64(profileID))
	if err != nil {
		return fmt.Errorf("delete profile: %w", err)
	}
	return database.RequireRow(res, "delete profile")
}

func (s *PostgresStore) FindByID(ctx context.Context, profileID id.ProfileID) (*models.Profile, error) {
	return s.findOne(ctx, "find profile by id", `WHERE id = $1`, int64(profileID))
}

func (s *PostgresStore) FindByUserID(ctx context.Context, userID id.UserID) (*models.Profile, error) {
	return s.findOne(ctx, "find profile by user", `WHERE user_id = $1`, int64(userID))
}

func (s *PostgresStore) CountByProvince(ctx context.Context, provinceID id.ProvinceID) (int, error) {
	return s.count(ctx, `SELECT COUNT(*) FROM profiles WHERE province_id = $1`, int64(provinceID))
}

func (s *PostgresStore) CountByCity(ctx context.Context, cityID id.CityID) (int, error) {
	return s.count(ctx, `SELECT COUNT(*) FROM profiles WHERE city_id = $1`, int64(cityID))
}

func (s *PostgresStore) count(ctx context.Context, query string, arg any) (int, error) {
	var n int
	if err := txcontext.Exec(ctx, s.db).QueryRowContext(ctx, query, arg).Scan(&n); err != nil {
		return 0, fmt.Errorf("count profiles: %w", err)
	}
	return n, nil
}

func (s *PostgresStore) findOne(ctx context.Context, op, where string, arg any) (*models.Profile, error) {
	row := txcontext.Exec(ctx, s.db).QueryRowContext(ctx, `SELECT `+profileColumns+` FROM profiles `+where, arg)
	var p models.Profile
	var pid, uid, provinceID, cityID int64
	var first, last, image sql.NullString
	if err := row.Scan(&pid, &uid, &first, &last, &image, &provinceID, &cityID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	p.ID = id.ProfileID(pid)
	p.UserID = id.UserID(uid)
	p.ProvinceID = id.ProvinceID(provinceID)
	p.CityID = id.CityID(cityID)
	p.FirstName = database.NullableString(first)
	p.LastName = database.NullableString(last)
	p.ImageRef = database.NullableString(image)
	return &p, nil
}
