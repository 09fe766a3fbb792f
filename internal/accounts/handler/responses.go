package handler

import (
	"resa/internal/accounts/models"
)

const (
	msgUserCreated = "User created successfully"
	msgUserUpdated = "User updated successfully"
	msgUserDeleted = "User deleted successfully"
)

type TokenResponse struct {
	AccessToken string `json:"access_token"`
}

type UserSummaryResponse struct {
	ID          int64  `json:"id"`
	Username    string `json:"username"`
	PhoneNumber string `json:"phone_number"`
	IsActive    bool   `json:"is_active"`
	IsStaff     bool   `json:"is_staff"`
	City        string `json:"city"`
	Province    string `json:"province"`
}

type UserListResponse struct {
	Total    int                   `json:"total"`
	Profiles []UserSummaryResponse `json:"profiles"`
}

// UserDetailResponse exposes the image as an absolute URL, or null.
type UserDetailResponse struct {
	Image       *string `json:"image"`
	FirstName   *string `json:"first_name"`
	LastName    *string `json:"last_name"`
	Username    string  `json:"username"`
	PhoneNumber string  `json:"phone_number"`
	IsActive    bool    `json:"is_active"`
	IsStaff     bool    `json:"is_staff"`
	City        string  `json:"city"`
	Province    string  `json:"province"`
}

func toUserListResponse(list []*models.UserSummary) UserListResponse {
	out := UserListResponse{Total: len(list), Profiles: make([]UserSummaryResponse, 0, len(list))}
	for _, u := range list {
		out.Profiles = append(out.Profiles, UserSummaryResponse{
			ID:          int64(u.ProfileID),
			Username:    u.Username,
			PhoneNumber: u.PhoneNumber,
			IsActive:    u.IsActive,
			IsStaff:     u.IsStaff,
			City:        u.City,
			Province:    u.Province,
		})
	}
	return out
}

func toUserDetailResponse(d *models.UserDetail, mediaHost string) UserDetailResponse {
	var image *string
	if d.ImageRef != nil {
		url := mediaHost + *d.ImageRef
		image = &url
	}
	return UserDetailResponse{
		Image:       image,
		FirstName:   d.FirstName,
		LastName:    d.LastName,
		Username:    d.Username,
		PhoneNumber: d.PhoneNumber,
		IsActive:    d.IsActive,
		IsStaff:     d.IsStaff,
		City:        d.City,
		Province:    d.Province,
	}
}
