package pipeline

import (
	"context"

	"resa/internal/asset"
	"resa/internal/validation/field"
	id "resa/pkg/domain"
	dErrors "resa/pkg/domain-errors"
)

// step is one check in a pipeline. Steps read inputs from and record
// validated outputs on the shared state.
type step[S any] func(ctx context.Context, s *S) error

// when runs next only if cond holds for the state.
func when[S any](cond func(*S) bool, next step[S]) step[S] {
	return func(ctx context.Context, s *S) error {
		if !cond(s) {
			return nil
		}
		return next(ctx, s)
	}
}

// runSteps stops at the first failure and returns it unchanged.
func runSteps[S any](ctx context.Context, s *S, steps ...step[S]) error {
	for _, st := range steps {
		if err := st(ctx, s); err != nil {
			return err
		}
	}
	return nil
}

type userState struct {
	exclude  *id.UserID
	username *string
	phone    *string
	password *string
	out      UserChanges
}

func (o *Orchestrator) checkUsername(ctx context.Context, s *userState) error {
	v, err := o.refs.EnsureUsernameAvailable(ctx, *s.username, s.exclude)
	if err != nil {
		return err
	}
	s.out.Username = &v
	return nil
}

func (o *Orchestrator) checkPhone(ctx context.Context, s *userState) error {
	v, err := o.refs.EnsurePhoneAvailable(ctx, *s.phone, s.exclude)
	if err != nil {
		return err
	}
	s.out.PhoneNumber = &v
	return nil
}

func (o *Orchestrator) checkPassword(_ context.Context, s *userState) error {
	_, err := field.ValidatePasswordStrength(*s.password)
	return err
}

func (o *Orchestrator) hashPassword(_ context.Context, s *userState) error {
	digest, err := o.hasher.HashPassword(*s.password)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to hash password")
	}
	s.out.PasswordDigest = &digest
	return nil
}

func hasUsername(s *userState) bool { return s.username != nil }
func hasPhone(s *userState) bool    { return s.phone != nil }
func hasPassword(s *userState) bool { return s.password != nil }

type profileState struct {
	ownerKey          string
	currentProvinceID id.ProvinceID
	currentCityID     id.CityID
	provinceID        *id.ProvinceID
	cityID            *id.CityID
	image             *asset.Upload
	out               ProfileChanges
}

func (o *Orchestrator) checkProvince(ctx context.Context, s *profileState) error {
	p, err := o.refs.ResolveProvince(ctx, *s.provinceID)
	if err != nil {
		return err
	}
	s.out.Province = p
	return nil
}

// checkCity validates the supplied or current city against the supplied
// or current province.
func (o *Orchestrator) checkCity(ctx context.Context, s *profileState) error {
	provinceID := s.currentProvinceID
	if s.out.Province != nil {
		provinceID = s.out.Province.ID
	}
	cityID := s.currentCityID
	if s.cityID != nil {
		cityID = *s.cityID
	}
	c, err := o.refs.ResolveCity(ctx, provinceID, cityID)
	if err != nil {
		return err
	}
	s.out.City = c
	return nil
}

func (o *Orchestrator) storeImage(ctx context.Context, s *profileState) error {
	if _, err := field.ValidateImageExtension(s.image.Filename); err != nil {
		return err
	}
	ref, err := o.assets.Store(ctx, s.ownerKey, *s.image)
	if err != nil {
		return err
	}
	s.out.ImageRef = &ref
	return nil
}

func hasProvince(s *profileState) bool        { return s.provinceID != nil }
func hasGeographyChange(s *profileState) bool { return s.provinceID != nil || s.cityID != nil }
func hasImage(s *profileState) bool           { return s.image != nil }
