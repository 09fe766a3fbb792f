package handler

import (
	"net/http"
	"strconv"
	"strings"

	"resa/internal/accounts/models"
	"resa/internal/accounts/service"
	"resa/internal/asset"
	// registers the "phone" rule used by LoginRequest
	_ "resa/internal/validation/field"
	id "resa/pkg/domain"
	dErrors "resa/pkg/domain-errors"
	strutil "resa/pkg/string"
	"resa/pkg/validation"
)

type LoginRequest struct {
	PhoneNumber string `json:"phone_number" validate:"required,phone"`
	Password    string `json:"password" validate:"required"`
}

func (r *LoginRequest) Normalize() {
	if r == nil {
		return
	}
	r.PhoneNumber = strings.TrimSpace(r.PhoneNumber)
}

func (r *LoginRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	return validation.Validate(r)
}

// CreateUserRequest is bound from a multipart form. Phone, password and
// geography are left to the validation pipeline so its failure order holds
// for missing values too.
type CreateUserRequest struct {
	Username    string        `validate:"notblank,max=50"`
	PhoneNumber string        `validate:"-"`
	Password    string        `validate:"-"`
	Province    int64         `validate:"-"`
	City        int64         `validate:"-"`
	FirstName   *string       `validate:"omitnil,max=50"`
	LastName    *string       `validate:"omitnil,max=50"`
	Image       *asset.Upload `validate:"-"`
}

func (r *CreateUserRequest) Normalize() {
	if r == nil {
		return
	}
	r.Username = strings.TrimSpace(r.Username)
	r.PhoneNumber = strings.TrimSpace(r.PhoneNumber)
	r.FirstName = strutil.TrimPtr(r.FirstName)
	r.LastName = strutil.TrimPtr(r.LastName)
}

func (r *CreateUserRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	return validation.Validate(r)
}

func (r *CreateUserRequest) ToCommand() service.CreateUserCommand {
	return service.CreateUserCommand{
		Username:    r.Username,
		PhoneNumber: r.PhoneNumber,
		Password:    r.Password,
		ProvinceID:  id.ProvinceID(r.Province),
		CityID:      id.CityID(r.City),
		FirstName:   r.FirstName,
		LastName:    r.LastName,
		Image:       r.Image,
	}
}

// UpdateUserRequest holds only the submitted fields; blank values count as
// absent.
type UpdateUserRequest struct {
	Username    *string       `validate:"omitnil,max=50"`
	PhoneNumber *string       `validate:"omitnil"`
	Password    *string       `validate:"omitnil"`
	Province    *int64        `validate:"omitnil,gt=0"`
	City        *int64        `validate:"omitnil,gt=0"`
	FirstName   *string       `validate:"omitnil,max=50"`
	LastName    *string       `validate:"omitnil,max=50"`
	IsActive    *bool         `validate:"omitnil"`
	IsStaff     *bool         `validate:"omitnil"`
	Image       *asset.Upload `validate:"-"`
}

func (r *UpdateUserRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	return validation.Validate(r)
}

func (r *UpdateUserRequest) ToCommand() service.UpdateUserCommand {
	cmd := service.UpdateUserCommand{
		Username:    r.Username,
		PhoneNumber: r.PhoneNumber,
		Password:    r.Password,
		IsActive:    r.IsActive,
		IsStaff:     r.IsStaff,
		FirstName:   r.FirstName,
		LastName:    r.LastName,
		Image:       r.Image,
	}
	if r.Province != nil {
		pid := id.ProvinceID(*r.Province)
		cmd.ProvinceID = &pid
	}
	if r.City != nil {
		cid := id.CityID(*r.City)
		cmd.CityID = &cid
	}
	return cmd
}

// form reads values from a parsed multipart or urlencoded body and records
// the first malformed one.
type form struct {
	r   *http.Request
	err error
}

func (f *form) str(key string) string {
	return f.r.PostFormValue(key)
}

func (f *form) optStr(key string) *string {
	return strutil.NonEmpty(f.r.PostFormValue(key))
}

func (f *form) int(key string) int64 {
	v := f.optInt(key)
	if v == nil {
		return 0
	}
	return *v
}

func (f *form) optInt(key string) *int64 {
	raw := strings.TrimSpace(f.r.PostFormValue(key))
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		f.fail(key + " must be an integer")
		return nil
	}
	return &v
}

func (f *form) optBool(key string) *bool {
	raw := strings.TrimSpace(f.r.PostFormValue(key))
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		f.fail(key + " must be a boolean")
		return nil
	}
	return &v
}

func (f *form) fail(msg string) {
	if f.err == nil {
		f.err = dErrors.New(dErrors.CodeValidation, msg)
	}
}

// parseUserFilter reads the listing query. Unknown or blank parameters
// match everything.
func parseUserFilter(r *http.Request) (models.UserFilter, error) {
	q := r.URL.Query()
	filter := models.UserFilter{
		Username:    strings.TrimSpace(q.Get("username")),
		PhoneNumber: strings.TrimSpace(q.Get("phone_number")),
	}
	if raw := q.Get("province"); raw != "" {
		pid, err := id.ParseProvinceID(raw)
		if err != nil {
			return filter, err
		}
		filter.ProvinceID = pid
	}
	if raw := q.Get("city"); raw != "" {
		cid, err := id.ParseCityID(raw)
		if err != nil {
			return filter, err
		}
		filter.CityID = cid
	}
	for key, dst := range map[string]**bool{"is_active": &filter.IsActive, "is_staff": &filter.IsStaff} {
		raw := q.Get(key)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return filter, dErrors.New(dErrors.CodeBadRequest, "invalid "+key+" filter")
		}
		*dst = &v
	}
	return filter, nil
}
