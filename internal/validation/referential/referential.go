// Package referential checks inputs against stored records: uniqueness of
// usernames and phone numbers, and existence of the referenced geography.
// Every check performs a single read and never writes.
package referential

import (
	"context"
	"errors"

	"resa/internal/accounts/models"
	geomodels "resa/internal/geo/models"
	"resa/internal/validation/field"
	id "resa/pkg/domain"
	dErrors "resa/pkg/domain-errors"
	"resa/pkg/platform/sentinel"
)

const (
	ReasonUsernameTaken    dErrors.Reason = "USERNAME_TAKEN"
	ReasonPhoneTaken       dErrors.Reason = "PHONE_TAKEN"
	ReasonProvinceNotFound dErrors.Reason = "PROVINCE_NOT_FOUND"
	ReasonCityNotFound     dErrors.Reason = "CITY_NOT_FOUND"
)

type UserLookup interface {
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	FindByPhone(ctx context.Context, phone string) (*models.User, error)
}

type GeoLookup interface {
	ProvinceByID(ctx context.Context, provinceID id.ProvinceID) (*geomodels.Province, error)
	CityByID(ctx context.Context, cityID id.CityID) (*geomodels.City, error)
}

type Validator struct {
	users UserLookup
	geo   GeoLookup
}

func New(users UserLookup, geo GeoLookup) *Validator {
	return &Validator{users: users, geo: geo}
}

// EnsureUsernameAvailable fails when another user holds username.
// exclude names the user being updated, whose own username is allowed.
func (v *Validator) EnsureUsernameAvailable(ctx context.Context, username string, exclude *id.UserID) (string, error) {
	existing, err := v.users.FindByUsername(ctx, username)
	if err := available(existing, err, exclude); err != nil {
		if errors.Is(err, sentinel.ErrAlreadyUsed) {
			return "", dErrors.WithReason(dErrors.CodeConflict, ReasonUsernameTaken,
				"A user with username already exists", nil)
		}
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up username")
	}
	return username, nil
}

// EnsurePhoneAvailable checks the format first, then uniqueness.
func (v *Validator) EnsurePhoneAvailable(ctx context.Context, phone string, exclude *id.UserID) (string, error) {
	if _, err := field.ValidatePhoneFormat(phone); err != nil {
		return "", err
	}
	existing, err := v.users.FindByPhone(ctx, phone)
	if err := available(existing, err, exclude); err != nil {
		if errors.Is(err, sentinel.ErrAlreadyUsed) {
			return "", dErrors.WithReason(dErrors.CodeConflict, ReasonPhoneTaken,
				"A user with phone_number already exists", nil)
		}
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up phone number")
	}
	return phone, nil
}

func (v *Validator) ResolveProvince(ctx context.Context, provinceID id.ProvinceID) (*geomodels.Province, error) {
	if provinceID.IsNil() {
		return nil, provinceNotFound()
	}
	p, err := v.geo.ProvinceByID(ctx, provinceID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, provinceNotFound()
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up province")
	}
	return p, nil
}

// ResolveCity returns the city only if it belongs to provinceID. A city
// under another province is reported exactly like a missing one.
func (v *Validator) ResolveCity(ctx context.Context, provinceID id.ProvinceID, cityID id.CityID) (*geomodels.City, error) {
	if cityID.IsNil() {
		return nil, cityNotFound()
	}
	c, err := v.geo.CityByID(ctx, cityID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, cityNotFound()
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up city")
	}
	if c.ProvinceID != provinceID {
		return nil, cityNotFound()
	}
	return c, nil
}

// available returns nil when the lookup found nobody or found the excluded
// user, sentinel.ErrAlreadyUsed when someone else holds the value, and the
// lookup error otherwise.
func available(existing *models.User, err error, exclude *id.UserID) error {
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil
		}
		return err
	}
	if exclude != nil && existing.ID == *exclude {
		return nil
	}
	return sentinel.ErrAlreadyUsed
}

func provinceNotFound() error {
	return dErrors.WithReason(dErrors.CodeInvalidReference, ReasonProvinceNotFound, "Province not found", nil)
}

func cityNotFound() error {
	return dErrors.WithReason(dErrors.CodeInvalidReference, ReasonCityNotFound, "City not found", nil)
}
