package api

import "getunitycodes/internal/model"

// swagger:model api.RegisterRequest
type RegisterRequest struct {
	Name     string `json:"name" validate:"required" example:"Alice"`
	Email    string `json:"email" validate:"required,email" example:"alice@example.com"`
	Password string `json:"password" validate:"required,min=6,max=72" example:"Secret123!"`
	Role     string `json:"role,omitempty" validate:"omitempty,oneof=admin user" example:"user"`
}

// swagger:model api.RegisterResponse
type RegisterResponse struct {
	Message string     `json:"message" example:"User registered successfully"`
	User    model.User `json:"user"`
}

// swagger:model api.LoginRequest
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email" example:"alice@example.com"`
	Password string `json:"password" validate:"required" example:"Secret123!"`
}

// swagger:model api.LoginResponse
type LoginResponse struct {
	Message string `json:"message" example:"Login successful"`
	Success bool   `json:"success" example:"true"`
	Role    string `json:"role" example:"user"`
}

// swagger:model api.ProfileResponse
type ProfileResponse struct {
	Message string     `json:"message" example:"User profile fetched"`
	User    model.User `json:"user"`
}

// swagger:model api.VerifyRequest
type VerifyRequest struct {
	Token string `json:"token" validate:"required"`
}
