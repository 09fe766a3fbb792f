package service

import (
	"resa/internal/asset"
	id "resa/pkg/domain"
)

// CreateUserCommand holds the fields for a new user and its profile.
type CreateUserCommand struct {
	Username    string
	PhoneNumber string
	Password    string
	ProvinceID  id.ProvinceID
	CityID      id.CityID
	FirstName   *string
	LastName    *string
	Image       *asset.Upload
	IsStaff     bool
}

// UpdateUserCommand carries only the fields being changed.
type UpdateUserCommand struct {
	Username    *string
	PhoneNumber *string
	Password    *string
	IsActive    *bool
	IsStaff     *bool
	ProvinceID  *id.ProvinceID
	CityID      *id.CityID
	FirstName   *string
	LastName    *string
	Image       *asset.Upload
}
