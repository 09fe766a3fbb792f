// Package domain provides type-safe identifiers to prevent mixing up IDs at compile time.
package domain

import (
	"strconv"

	dErrors "resa/pkg/domain-errors"
)

// Distinct ID types - compiler prevents passing CityID where ProvinceID is expected.
type (
	UserID     int64
	ProfileID  int64
	ProvinceID int64
	CityID     int64
)

// Parse functions - use at trust boundaries (handlers, form values, query strings).

func ParseUserID(s string) (UserID, error) {
	v, err := parseID(s, "user ID")
	return UserID(v), err
}

func ParseProfileID(s string) (ProfileID, error) {
	v, err := parseID(s, "profile ID")
	return ProfileID(v), err
}

func ParseProvinceID(s string) (ProvinceID, error) {
	v, err := parseID(s, "province ID")
	return ProvinceID(v), err
}

func ParseCityID(s string) (CityID, error) {
	v, err := parseID(s, "city ID")
	return CityID(v), err
}

// String methods - for logging and debugging.

func (id UserID) String() string     { return strconv.FormatInt(int64(id), 10) }
func (id ProfileID) String() string  { return strconv.FormatInt(int64(id), 10) }
func (id ProvinceID) String() string { return strconv.FormatInt(int64(id), 10) }
func (id CityID) String() string     { return strconv.FormatInt(int64(id), 10) }

// IsNil reports whether the ID is unset. Store-assigned IDs start at 1.

func (id UserID) IsNil() bool     { return id <= 0 }
func (id ProfileID) IsNil() bool  { return id <= 0 }
func (id ProvinceID) IsNil() bool { return id <= 0 }
func (id CityID) IsNil() bool     { return id <= 0 }

func parseID(s, label string) (int64, error) {
	if s == "" {
		return 0, dErrors.New(dErrors.CodeInvalidInput, label+" cannot be empty")
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil || v <= 0 {
		return 0, dErrors.New(dErrors.CodeInvalidInput, "invalid "+label)
	}
	return v, nil
}
