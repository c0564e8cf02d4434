package dto

import (
	"time"

	"github.com/baladiya/complaint-service/internal/domain"
)

// RegisterRequest payload for citizen signup.
type RegisterRequest struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	Password     string `json:"password"`
	Governorate  string `json:"governorate"`
	Municipality string `json:"municipality"`
}

// LoginRequest payload for login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse standard response for auth endpoints.
type AuthResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      UserResponse `json:"user"`
}

// UserResponse is the public view of an account.
type UserResponse struct {
	ID           string      `json:"id"`
	Name         string      `json:"name"`
	Email        string      `json:"email"`
	Phone        string      `json:"phone,omitempty"`
	Role         domain.Role `json:"role"`
	Governorate  string      `json:"governorate,omitempty"`
	Municipality string      `json:"municipality,omitempty"`
	Active       bool        `json:"active"`
}

// PasswordResetRequest payload.
type PasswordResetRequest struct {
	Email string `json:"email"`
}

// PasswordResetConfirm payload.
type PasswordResetConfirm struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

// PasswordChangeRequest payload.
type PasswordChangeRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// CreateStaffRequest payload for admin provisioning.
type CreateStaffRequest struct {
	Name         string      `json:"name"`
	Email        string      `json:"email"`
	Phone        string      `json:"phone"`
	Password     string      `json:"password"`
	Role         domain.Role `json:"role"`
	Governorate  string      `json:"governorate"`
	Municipality string      `json:"municipality"`
}

// SetActiveRequest payload.
type SetActiveRequest struct {
	Active bool `json:"active"`
}
