package models

import (
	"strings"
	"unicode/utf8"

	id "resa/pkg/domain"
	dErrors "resa/pkg/domain-errors"
)

// MaxNameLength bounds province and city names.
const MaxNameLength = 50

// Province is the top level of the geographic hierarchy.
type Province struct {
	ID   id.ProvinceID
	Name string
}

// City belongs to exactly one province; (Name, ProvinceID) is unique.
type City struct {
	ID         id.CityID
	Name       string
	ProvinceID id.ProvinceID
}

// CityFilter narrows city listings. Zero values match everything.
type CityFilter struct {
	Name       string
	ProvinceID id.ProvinceID
}

func NewProvince(name string) (*Province, error) {
	name, err := normalizeName(name)
	if err != nil {
		return nil, err
	}
	return &Province{Name: name}, nil
}

func NewCity(name string, provinceID id.ProvinceID) (*City, error) {
	name, err := normalizeName(name)
	if err != nil {
		return nil, err
	}
	if provinceID.IsNil() {
		return nil, dErrors.New(dErrors.CodeValidation, "province_id is required")
	}
	return &City{Name: name, ProvinceID: provinceID}, nil
}

// Rename validates and applies a new name.
func (p *Province) Rename(name string) error {
	name, err := normalizeName(name)
	if err != nil {
		return err
	}
	p.Name = name
	return nil
}

func (c *City) Rename(name string) error {
	name, err := normalizeName(name)
	if err != nil {
		return err
	}
	c.Name = name
	return nil
}

// MatchesName reports a case-insensitive substring match; empty matches all.
func MatchesName(name, filter string) bool {
	if filter == "" {
		return true
	}
	return strings.Contains(strings.ToLower(name), strings.ToLower(filter))
}

func normalizeName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", dErrors.New(dErrors.CodeValidation, "name is required")
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return "", dErrors.New(dErrors.CodeValidation, "name must be at most 50 characters")
	}
	return name, nil
}
