package models

import (
	"strings"
	"time"

	id "resa/pkg/domain"
)

// MaxUsernameLength bounds usernames and profile names.
const MaxUsernameLength = 50

// User is an account that can log in with its phone number.
// PasswordDigest is a bcrypt hash; plaintext is never stored.
type User struct {
	ID             id.UserID
	Username       string
	PhoneNumber    string
	PasswordDigest string
	IsActive       bool
	IsStaff        bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Profile is the 1:1 companion of a User. The city must belong to the
// profile's province.
type Profile struct {
	ID         id.ProfileID
	UserID     id.UserID
	FirstName  *string
	LastName   *string
	ImageRef   *string
	ProvinceID id.ProvinceID
	CityID     id.CityID
}

// NewUser builds an active, non-staff user. Callers flip the flags for
// admin-created accounts.
func NewUser(username, phoneNumber, passwordDigest string, now time.Time) *User {
	return &User{
		Username:       username,
		PhoneNumber:    phoneNumber,
		PasswordDigest: passwordDigest,
		IsActive:       true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// Touch records a modification time.
func (u *User) Touch(now time.Time) {
	u.UpdatedAt = now
}

// UserSummary is one row of the admin user listing.
type UserSummary struct {
	ProfileID   id.ProfileID
	Username    string
	PhoneNumber string
	IsActive    bool
	IsStaff     bool
	City        string
	Province    string
}

// UserDetail is the admin view of a single profile and its user.
type UserDetail struct {
	ProfileID   id.ProfileID
	UserID      id.UserID
	ImageRef    *string
	FirstName   *string
	LastName    *string
	Username    string
	PhoneNumber string
	IsActive    bool
	IsStaff     bool
	CityID      id.CityID
	City        string
	ProvinceID  id.ProvinceID
	Province    string
}

// UserFilter narrows the admin listing. Strings match case-insensitive
// substrings; zero IDs and nil flags match everything.
type UserFilter struct {
	Username    string
	PhoneNumber string
	ProvinceID  id.ProvinceID
	CityID      id.CityID
	IsActive    *bool
	IsStaff     *bool
}

// Matches applies the filter to a listing row.
func (f UserFilter) Matches(s *UserSummary, provinceID id.ProvinceID, cityID id.CityID) bool {
	if !containsFold(s.Username, f.Username) || !containsFold(s.PhoneNumber, f.PhoneNumber) {
		return false
	}
	if !f.ProvinceID.IsNil() && f.ProvinceID != provinceID {
		return false
	}
	if !f.CityID.IsNil() && f.CityID != cityID {
		return false
	}
	if f.IsActive != nil && *f.IsActive != s.IsActive {
		return false
	}
	if f.IsStaff != nil && *f.IsStaff != s.IsStaff {
		return false
	}
	return true
}

func containsFold(value, sub string) bool {
	if sub == "" {
		return true
	}
	return strings.Contains(strings.ToLower(value), strings.ToLower(sub))
}
