package directory

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"resa/internal/accounts/models"
	"resa/internal/platform/database"
	id "resa/pkg/domain"
	"resa/pkg/platform/sentinel"
	txcontext "resa/pkg/platform/tx"
)

const joinClause = `
	FROM profiles p
	JOIN users u ON u.id = p.user_id
	JOIN provinces pr ON pr.id = p.province_id
	JOIN cities c ON c.id = p.city_id`

// PostgresStore answers directory queries with a single join.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) List(ctx context.Context, filter models.UserFilter) ([]*models.UserSummary, error) {
	var (
		conds []string
		args  []any
	)
	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, strings.ReplaceAll(cond, "?", "$"+strconv.Itoa(len(args))))
	}
	if filter.Username != "" {
		add(`u.username ILIKE ? ESCAPE '\'`, database.ContainsPattern(filter.Username))
	}
	if filter.PhoneNumber != "" {
		add(`u.phone_number ILIKE ? ESCAPE '\'`, database.ContainsPattern(filter.PhoneNumber))
	}
	if !filter.ProvinceID.IsNil() {
		add(`pr.id = ?`, int64(filter.ProvinceID))
	}
	if !filter.CityID.IsNil() {
		add(`c.id = ?`, int64(filter.CityID))
	}
	if filter.IsActive != nil {
		add(`u.is_active = ?`, *filter.IsActive)
	}
	if filter.IsStaff != nil {
		add(`u.is_staff = ?`, *filter.IsStaff)
	}

	query := `SELECT p.id, u.username, u.phone_number, u.is_active, u.is_staff, c.name, pr.name` + joinClause
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, ` AND `)
	}
	query += ` ORDER BY p.id DESC`

	rows, err := txcontext.Exec(ctx, s.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list directory: %w", err)
	}
	defer rows.Close()

	out := []*models.UserSummary{}
	for rows.Next() {
		var row models.UserSummary
		var pid int64
		if err := rows.Scan(&pid, &row.Username, &row.PhoneNumber, &row.IsActive, &row.IsStaff, &row.City, &row.Province); err != nil {
			return nil, fmt.Errorf("scan directory row: %w", err)
		}
		row.ProfileID = id.ProfileID(pid)
		out = append(out, &row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate directory: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) Get(ctx context.Context, profileID id.ProfileID) (*models.UserDetail, error) {
	query := `SELECT p.id, u.id, p.image_ref, p.first_name, p.last_name,
		u.username, u.phone_number, u.is_active, u.is_staff,
		c.id, c.name, pr.id, pr.name` + joinClause + ` WHERE p.id = $1`

	var (
		d                        models.UserDetail
		pid, uid, cityID, provID int64
		image, first, last       sql.NullString
	)
	err := txcontext.Exec(ctx, s.db).QueryRowContext(ctx, query, int64(profileID)).Scan(
		&pid, &uid, &image, &first, &last,
		&d.Username, &d.PhoneNumber, &d.IsActive, &d.IsStaff,
		&cityID, &d.City, &provID, &d.Province,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("get directory entry: %w", err)
	}
	d.ProfileID = id.ProfileID(pid)
	d.UserID = id.UserID(uid)
	d.CityID = id.CityID(cityID)
	d.ProvinceID = id.ProvinceID(provID)
	d.ImageRef = database.NullableString(image)
	d.FirstName = database.NullableString(first)
	d.LastName = database.NullableString(last)
	return &d, nil
}
