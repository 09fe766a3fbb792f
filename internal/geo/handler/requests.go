package handler

import (
	"strings"

	"resa/internal/geo/service"
	id "resa/pkg/domain"
	dErrors "resa/pkg/domain-errors"
	strutil "resa/pkg/string"
	"resa/pkg/validation"
)

// HTTP Request DTOs - converted to service arguments before processing.

type ProvinceRequest struct {
	Name string `json:"name" validate:"notblank,max=50"`
}

func (r *ProvinceRequest) Normalize() {
	if r == nil {
		return
	}
	r.Name = strings.TrimSpace(r.Name)
}

func (r *ProvinceRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	return validation.Validate(r)
}

type CreateCityRequest struct {
	Name       string `json:"name" validate:"notblank,max=50"`
	ProvinceID int64  `json:"province_id" validate:"gt=0"`
}

func (r *CreateCityRequest) Normalize() {
	if r == nil {
		return
	}
	r.Name = strings.TrimSpace(r.Name)
}

func (r *CreateCityRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	return validation.Validate(r)
}

// UpdateCityRequest carries optional fields; absent fields stay unchanged.
type UpdateCityRequest struct {
	Name       *string `json:"name" validate:"omitnil,notblank,max=50"`
	ProvinceID *int64  `json:"province_id" validate:"omitnil,gt=0"`
}

func (r *UpdateCityRequest) Normalize() {
	if r == nil {
		return
	}
	r.Name = strutil.TrimPtr(r.Name)
}

func (r *UpdateCityRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	return validation.Validate(r)
}

func (r *UpdateCityRequest) ToCommand() service.UpdateCityCommand {
	cmd := service.UpdateCityCommand{Name: r.Name}
	if r.ProvinceID != nil {
		pid := id.ProvinceID(*r.ProvinceID)
		cmd.ProvinceID = &pid
	}
	return cmd
}
