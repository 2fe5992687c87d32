package auth

import "hotelpms/internal/domain"

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResult struct {
	User        *domain.User `json:"user"`
	Permissions []string     `json:"permissions"`
	AccessToken string       `json:"access_token"`
	ExpiresIn   int64        `json:"expires_in"`
}

type CreateStaffRequest struct {
	Name        string   `json:"name" validate:"required,min=2"`
	Email       string   `json:"email" validate:"required,email"`
	Password    string   `json:"password" validate:"required,min=8"`
	Role        string   `json:"role" validate:"omitempty,oneof=admin staff"`
	Permissions []string `json:"permissions"`
}

type UpdatePermissionsRequest struct {
	Permissions []string `json:"permissions"`
	Role        *string  `json:"role" validate:"omitempty,oneof=admin staff"`
	IsActive    *bool    `json:"is_active"`
}

// StaffView is a user with permissions expanded.
type StaffView struct {
	*domain.User
	Permissions []domain.Permission `json:"permissions"`
}

func view(u *domain.User) StaffView {
	return StaffView{User: u, Permissions: u.Permissions()}
}
