// Package directory provides the admin read model joining profiles with
// their users and geography.
package directory

import (
	"context"
	"fmt"

	"resa/internal/accounts/models"
	geomodels "resa/internal/geo/models"
	id "resa/pkg/domain"
)

type UserReader interface {
	FindByID(ctx context.Context, userID id.UserID) (*models.User, error)
}

type ProfileReader interface {
	FindByID(ctx context.Context, profileID id.ProfileID) (*models.Profile, error)
	List(ctx context.Context) ([]*models.Profile, error)
}

type ProvinceReader interface {
	FindByID(ctx context.Context, provinceID id.ProvinceID) (*geomodels.Province, error)
}

type CityReader interface {
	FindByID(ctx context.Context, cityID id.CityID) (*geomodels.City, error)
}

// InMemory composes the in-memory stores into the directory view.
type InMemory struct {
	users     UserReader
	profiles  ProfileReader
	provinces ProvinceReader
	cities    CityReader
}

func NewInMemory(users UserReader, profiles ProfileReader, provinces ProvinceReader, cities CityReader) *InMemory {
	return &InMemory{users: users, profiles: profiles, provinces: provinces, cities: cities}
}

// List returns matching rows, newest profile first.
func (d *InMemory) List(ctx context.Context, filter models.UserFilter) ([]*models.UserSummary, error) {
	profiles, err := d.profiles.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	out := make([]*models.UserSummary, 0, len(profiles))
	for _, p := range profiles {
		detail, err := d.compose(ctx, p)
		if err != nil {
			return nil, err
		}
		row := &models.UserSummary{
			ProfileID:   detail.ProfileID,
			Username:    detail.Username,
			PhoneNumber: detail.PhoneNumber,
			IsActive:    detail.IsActive,
			IsStaff:     detail.IsStaff,
			City:        detail.City,
			Province:    detail.Province,
		}
		if filter.Matches(row, detail.ProvinceID, detail.CityID) {
			out = append(out, row)
		}
	}
	return out, nil
}

func (d *InMemory) Get(ctx context.Context, profileID id.ProfileID) (*models.UserDetail, error) {
	p, err := d.profiles.FindByID(ctx, profileID)
	if err != nil {
		return nil, err
	}
	return d.compose(ctx, p)
}

func (d *InMemory) compose(ctx context.Context, p *models.Profile) (*models.UserDetail, error) {
	u, err := d.users.FindByID(ctx, p.UserID)
	if err != nil {
		return nil, fmt.Errorf("profile %s user: %w", p.ID, err)
	}
	province, err := d.provinces.FindByID(ctx, p.ProvinceID)
	if err != nil {
		return nil, fmt.Errorf("profile %s province: %w", p.ID, err)
	}
	city, err := d.cities.FindByID(ctx, p.CityID)
	if err != nil {
		return nil, fmt.Errorf("profile %s city: %w", p.ID, err)
	}
	return &models.UserDetail{
		ProfileID:   p.ID,
		UserID:      u.ID,
		ImageRef:    p.ImageRef,
		FirstName:   p.FirstName,
		LastName:    p.LastName,
		Username:    u.Username,
		PhoneNumber: u.PhoneNumber,
		IsActive:    u.IsActive,
		IsStaff:     u.IsStaff,
		CityID:      city.ID,
		City:        city.Name,
		ProvinceID:  province.ID,
		Province:    province.Name,
	}, nil
}
