package dto

import "time"

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Name     string `json:"name" validate:"required,min=2,max=100"`
	City     string `json:"city" validate:"omitempty,max=100"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	Token string   `json:"token"`
	User  *UserDTO `json:"user"`
}

type UserDTO struct {
	ID                    string    `json:"id"`
	Email                 string    `json:"email"`
	Name                  string    `json:"name"`
	Roles                 []string  `json:"roles"`
	Status                string    `json:"status"`
	IsBlocked             bool      `json:"is_blocked"`
	ProviderUpgradeStatus string    `json:"provider_upgrade_status,omitempty"`
	Rating                float64   `json:"rating"`
	ReviewCount           int       `json:"review_count"`
	IsTopRated            bool      `json:"is_top_rated"`
	CreatedAt             time.Time `json:"created_at"`
}

type UpdateProfileRequest struct {
	Name *string `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	City *string `json:"city,omitempty" validate:"omitempty,max=100"`
	Bio  *string `json:"bio,omitempty" validate:"omitempty,max=2000"`
}
