package handler

import (
	"resa/internal/geo/models"
	"resa/internal/geo/service"
)

// Success messages returned by mutations.
const (
	msgProvinceCreated = "Province created successfully."
	msgProvinceUpdated = "Province updated successfully."
	msgProvinceDeleted = "province deleted successfully"
	msgCityCreated     = "City created successfully."
	msgCityUpdated     = "City updated successfully."
	msgCityDeleted     = "City deleted successfully."
)

type ProvinceResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type ProvinceListResponse struct {
	Total     int                `json:"total"`
	Provinces []ProvinceResponse `json:"provinces"`
}

type CityResponse struct {
	ID       int64            `json:"id"`
	Name     string           `json:"name"`
	Province ProvinceResponse `json:"province"`
}

type CityListResponse struct {
	Total  int            `json:"total"`
	Cities []CityResponse `json:"cities"`
}

func toProvinceResponse(p *models.Province) ProvinceResponse {
	return ProvinceResponse{ID: int64(p.ID), Name: p.Name}
}

func toProvinceListResponse(list []*models.Province) ProvinceListResponse {
	out := ProvinceListResponse{Total: len(list), Provinces: make([]ProvinceResponse, 0, len(list))}
	for _, p := range list {
		out.Provinces = append(out.Provinces, toProvinceResponse(p))
	}
	return out
}

func toCityResponse(v *service.CityView) CityResponse {
	return CityResponse{
		ID:       int64(v.City.ID),
		Name:     v.City.Name,
		Province: toProvinceResponse(v.Province),
	}
}

func toCityListResponse(list []*service.CityView) CityListResponse {
	out := CityListResponse{Total: len(list), Cities: make([]CityResponse, 0, len(list))}
	for _, v := range list {
		out.Cities = append(out.Cities, toCityResponse(v))
	}
	return out
}
