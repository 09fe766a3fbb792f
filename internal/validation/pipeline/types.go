package pipeline

import (
	"resa/internal/asset"
	geomodels "resa/internal/geo/models"
	id "resa/pkg/domain"
)

// UseCase names an orchestrator run in spans and metrics.
type UseCase string

const (
	UseCaseCreateUser    UseCase = "create_user"
	UseCaseUpdateUser    UseCase = "update_user"
	UseCaseCreateProfile UseCase = "create_profile"
	UseCaseUpdateProfile UseCase = "update_profile"
)

type CreateUserInput struct {
	Username    string
	PhoneNumber string
	Password    string
}

// UserBundle holds validated user fields ready to persist.
type UserBundle struct {
	Username       string
	PhoneNumber    string
	PasswordDigest string
}

// UpdateUserInput carries only the fields being changed; nil means absent.
type UpdateUserInput struct {
	UserID      id.UserID
	Username    *string
	PhoneNumber *string
	Password    *string
}

// UserChanges mirrors UpdateUserInput with validated values.
type UserChanges struct {
	Username       *string
	PhoneNumber    *string
	PasswordDigest *string
}

// CreateProfileInput describes a new profile. OwnerKey scopes the stored
// image (the owner's phone number).
type CreateProfileInput struct {
	OwnerKey   string
	ProvinceID id.ProvinceID
	CityID     id.CityID
	FirstName  *string
	LastName   *string
	Image      *asset.Upload
}

type ProfileBundle struct {
	Province  *geomodels.Province
	City      *geomodels.City
	FirstName *string
	LastName  *string
	ImageRef  *string
}

// UpdateProfileInput carries the profile's current geography so city checks
// can fall back to it when only one side changes.
type UpdateProfileInput struct {
	OwnerKey          string
	CurrentProvinceID id.ProvinceID
	CurrentCityID     id.CityID
	ProvinceID        *id.ProvinceID
	CityID            *id.CityID
	FirstName         *string
	LastName          *string
	Image             *asset.Upload
}

// ProfileChanges holds validated values; nil fields are unchanged.
// City is set whenever the city was (re)checked, even if its ID is the
// current one.
type ProfileChanges struct {
	Province  *geomodels.Province
	City      *geomodels.City
	FirstName *string
	LastName  *string
	ImageRef  *string
}
