package service

import (
	"context"
	"errors"

	"resa/internal/geo/models"
	id "resa/pkg/domain"
	dErrors "resa/pkg/domain-errors"
	"resa/pkg/platform/sentinel"
)

const (
	entityCity = "city"

	msgCityExists    = "City with this name and province_id already exists!"
	msgCityMoveInUse = "Cannot move city because it has associated profiles"
)

// UpdateCityCommand carries the fields being changed; nil means unchanged.
type UpdateCityCommand struct {
	Name       *string
	ProvinceID *id.ProvinceID
}

// ListCities returns cities newest first with their provinces.
func (s *Service) ListCities(ctx context.Context, filter models.CityFilter) ([]*CityView, error) {
	cities, err := s.cities.List(ctx, filter)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list cities")
	}
	provinces := make(map[id.ProvinceID]*models.Province)
	out := make([]*CityView, 0, len(cities))
	for _, c := range cities {
		p, ok := provinces[c.ProvinceID]
		if !ok {
			p, err = s.provinces.FindByID(ctx, c.ProvinceID)
			if err != nil {
				return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load city province")
			}
			provinces[c.ProvinceID] = p
		}
		out = append(out, &CityView{City: c, Province: p})
	}
	return out, nil
}

func (s *Service) GetCity(ctx context.Context, cityID id.CityID) (*CityView, error) {
	c, err := s.cities.FindByID(ctx, cityID)
	if err != nil {
		return nil, wrapCityErr(err, "failed to load city")
	}
	p, err := s.provinces.FindByID(ctx, c.ProvinceID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load city province")
	}
	return &CityView{City: c, Province: p}, nil
}

// CreateCity adds a city under an existing province. An unknown province
// is a 404.
func (s *Service) CreateCity(ctx context.Context, name string, provinceID id.ProvinceID) (*models.City, error) {
	c, err := models.NewCity(name, provinceID)
	if err != nil {
		return nil, err
	}
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if _, err := s.provinces.FindByID(ctx, provinceID); err != nil {
			return wrapProvinceErr(err, "failed to load province")
		}
		if err := s.cities.Create(ctx, c); err != nil {
			if errors.Is(err, sentinel.ErrAlreadyUsed) {
				return dErrors.New(dErrors.CodeConflict, msgCityExists)
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to create city")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "city created", "city_id", c.ID, "province_id", provinceID)
	s.incrementCreated(entityCity)
	return c, nil
}

// UpdateCity renames and/or moves a city. The target province must exist
// and (name, province) must stay unique. A city referenced by profiles
// cannot change province.
func (s *Service) UpdateCity(ctx context.Context, cityID id.CityID, cmd UpdateCityCommand) (*models.City, error) {
	var updated *models.City
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		c, err := s.cities.FindByID(ctx, cityID)
		if err != nil {
			return wrapCityErr(err, "failed to load city")
		}
		if cmd.Name != nil {
			if err := c.Rename(*cmd.Name); err != nil {
				return err
			}
		}
		if cmd.ProvinceID != nil && *cmd.ProvinceID != c.ProvinceID {
			if _, err := s.provinces.FindByID(ctx, *cmd.ProvinceID); err != nil {
				return wrapProvinceErr(err, "failed to load province")
			}
			n, err := s.profiles.CountByCity(ctx, cityID)
			if err != nil {
				return dErrors.Wrap(err, dErrors.CodeInternal, "failed to count profiles")
			}
			if n > 0 {
				return s.moveBlocked(entityCity, "profiles", msgCityMoveInUse)
			}
			c.ProvinceID = *cmd.ProvinceID
		}
		if err := s.cities.Update(ctx, c); err != nil {
			if errors.Is(err, sentinel.ErrAlreadyUsed) {
				return dErrors.New(dErrors.CodeConflict, msgCityExists)
			}
			return wrapCityErr(err, "failed to update city")
		}
		updated = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.invalidateCity(ctx, cityID)
	return updated, nil
}

// DeleteCity refuses while profiles reference the city.
func (s *Service) DeleteCity(ctx context.Context, cityID id.CityID) error {
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if _, err := s.cities.FindByID(ctx, cityID); err != nil {
			return wrapCityErr(err, "failed to load city")
		}
		n, err := s.profiles.CountByCity(ctx, cityID)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to count profiles")
		}
		if n > 0 {
			return s.deleteBlocked(entityCity, "profiles", "Cannot delete city because it has associated profiles")
		}
		if err := s.cities.Delete(ctx, cityID); err != nil {
			if errors.Is(err, sentinel.ErrInUse) {
				return dErrors.New(dErrors.CodeConflict, "Cannot delete city because it has associated profiles")
			}
			return wrapCityErr(err, "failed to delete city")
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.invalidateCity(ctx, cityID)
	s.logger.InfoContext(ctx, "city deleted", "city_id", cityID)
	s.incrementDeleted(entityCity)
	return nil
}

// EnsureCity returns the city named name in provinceID, creating it if
// missing.
func (s *Service) EnsureCity(ctx context.Context, provinceID id.ProvinceID, name string) (*models.City, error) {
	var out *models.City
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		c, err := models.NewCity(name, provinceID)
		if err != nil {
			return err
		}
		existing, err := s.cities.FindByName(ctx, provinceID, c.Name)
		if err == nil {
			out = existing
			return nil
		}
		if !errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up city")
		}
		if err := s.cities.Create(ctx, c); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to create city")
		}
		s.incrementCreated(entityCity)
		out = c
		return nil
	})
	return out, err
}
