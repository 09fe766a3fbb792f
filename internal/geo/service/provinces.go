package service

import (
	"context"
	"errors"

	"resa/internal/geo/models"
	id "resa/pkg/domain"
	dErrors "resa/pkg/domain-errors"
	"resa/pkg/platform/sentinel"
)

const entityProvince = "province"

// ListProvinces returns provinces newest first, optionally filtered by a
// case-insensitive name fragment.
func (s *Service) ListProvinces(ctx context.Context, name string) ([]*models.Province, error) {
	out, err := s.provinces.List(ctx, name)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list provinces")
	}
	return out, nil
}

func (s *Service) GetProvince(ctx context.Context, provinceID id.ProvinceID) (*models.Province, error) {
	p, err := s.provinces.FindByID(ctx, provinceID)
	if err != nil {
		return nil, wrapProvinceErr(err, "failed to load province")
	}
	return p, nil
}

func (s *Service) CreateProvince(ctx context.Context, name string) (*models.Province, error) {
	p, err := models.NewProvince(name)
	if err != nil {
		return nil, err
	}
	if err := s.provinces.Create(ctx, p); err != nil {
		if errors.Is(err, sentinel.ErrAlreadyUsed) {
			return nil, dErrors.New(dErrors.CodeConflict, "Province already exists.")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create province")
	}
	s.logger.InfoContext(ctx, "province created", "province_id", p.ID)
	s.incrementCreated(entityProvince)
	return p, nil
}

// UpdateProvince renames a province. Keeping its own name is allowed.
func (s *Service) UpdateProvince(ctx context.Context, provinceID id.ProvinceID, name string) (*models.Province, error) {
	var updated *models.Province
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		p, err := s.provinces.FindByID(ctx, provinceID)
		if err != nil {
			return wrapProvinceErr(err, "failed to load province")
		}
		if err := p.Rename(name); err != nil {
			return err
		}
		if err := s.provinces.Update(ctx, p); err != nil {
			if errors.Is(err, sentinel.ErrAlreadyUsed) {
				return dErrors.New(dErrors.CodeConflict, "Province with this name already exist.")
			}
			return wrapProvinceErr(err, "failed to update province")
		}
		updated = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.invalidateProvince(ctx, provinceID)
	return updated, nil
}

// DeleteProvince refuses while cities or profiles reference the province.
// Cities are checked first.
func (s *Service) DeleteProvince(ctx context.Context, provinceID id.ProvinceID) error {
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if _, err := s.provinces.FindByID(ctx, provinceID); err != nil {
			return wrapProvinceErr(err, "failed to load province")
		}
		cities, err := s.cities.CountByProvince(ctx, provinceID)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to count cities")
		}
		if cities > 0 {
			return s.deleteBlocked(entityProvince, "cities", "Cannot delete province because it has associated cities")
		}
		profiles, err := s.profiles.CountByProvince(ctx, provinceID)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to count profiles")
		}
		if profiles > 0 {
			return s.deleteBlocked(entityProvince, "profiles", "Cannot delete province because it has associated profiles")
		}
		if err := s.provinces.Delete(ctx, provinceID); err != nil {
			if errors.Is(err, sentinel.ErrInUse) {
				return dErrors.New(dErrors.CodeConflict, "Cannot delete province because it is still referenced")
			}
			return wrapProvinceErr(err, "failed to delete province")
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.invalidateProvince(ctx, provinceID)
	s.logger.InfoContext(ctx, "province deleted", "province_id", provinceID)
	s.incrementDeleted(entityProvince)
	return nil
}

// EnsureProvince returns the province named name, creating it if missing.
func (s *Service) EnsureProvince(ctx context.Context, name string) (*models.Province, error) {
	var out *models.Province
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		p, err := models.NewProvince(name)
		if err != nil {
			return err
		}
		existing, err := s.provinces.FindByName(ctx, p.Name)
		if err == nil {
			out = existing
			return nil
		}
		if !errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up province")
		}
		if err := s.provinces.Create(ctx, p); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to create province")
		}
		s.incrementCreated(entityProvince)
		out = p
		return nil
	})
	return out, err
}
