package user

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

const userColumns = `id, username, phone_number, password_digest, is_active, is_staff, created_at, updated_at`

// PostgresStore persists users in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, u *models.User) error {
	err := txcontext.Exec(ctx, s.db).QueryRowContext(ctx, `
		INSERT INTO users (username, phone_number, password_digest, is_active, is_staff, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`,
		u.Username, u.PhoneNumber, u.PasswordDigest, u.IsActive, u.IsStaff, u.CreatedAt, u.UpdatedAt,
	).Scan(&u.ID)
	if err != nil {
		return translateWriteErr(err, "create user")
	}
	return nil
}

func (s *PostgresStore) Update(ctx context.Context, u *models.User) error {
	res, err := txcontext.Exec(ctx, s.db).ExecContext(ctx, `
		UPDATE users
		SET username = $2, phone_number = $3, password_digest = $4,
		    is_active = $5, is_staff = $6, updated_at = $7
		WHERE id = $1`,
		int64(u.ID), u.Username, u.PhoneNumber, u.PasswordDigest, u.IsActive, u.IsStaff, u.UpdatedAt,
	)
	if err != nil {
		return translateWriteErr(err, "update user")
	}
	return database.RequireRow(res, "update user")
}

func (s *PostgresStore) Delete(ctx context.Context, userID id.UserID) error {
	res, err := txcontext.Exec(ctx, s.db).ExecContext(ctx, `DELETE FROM users WHERE id = $1`, int64(userID))
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return database.RequireRow(res, "delete user")
}

func (s *PostgresStore) FindByID(ctx context.Context, userID id.UserID) (*models.User, error) {
	return s.findOne(ctx, "find user by id", `WHERE id = $1`, int64(userID))
}

func (s *PostgresStore) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.findOne(ctx, "find user by username", `WHERE username = $1`, username)
}

func (s *PostgresStore) FindByPhone(ctx context.Context, phone string) (*models.User, error) {
	return s.findOne(ctx, "find user by phone", `WHERE phone_number = $1`, phone)
}

func (s *PostgresStore) findOne(ctx context.Context, op, where string, arg any) (*models.User, error) {
	row := txcontext.Exec(ctx, s.db).QueryRowContext(ctx, `SELECT `+userColumns+` FROM users `+where, arg)
	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

func scanUser(row database.Scanner) (*models.User, error) {
	var u models.User
	var uid int64
	if err := row.Scan(&uid, &u.Username, &u.PhoneNumber, &u.PasswordDigest,
		&u.IsActive, &u.IsStaff, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	u.ID = id.UserID(uid)
	return &u, nil
}

func translateWriteErr(err error, op string) error {
	if database.IsUniqueViolation(err) {
		return fmt.Errorf("%s: %s: %w", op, database.ConstraintName(err), sentinel.ErrAlreadyUsed)
	}
	return fmt.Errorf("%s: %w", op, err)
}
