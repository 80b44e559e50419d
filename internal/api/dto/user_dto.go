package dto

import (
	"time"

	"github.com/AIlhomov/Ticketing-System/internal/domain"
)

// RegisterRequest is the self-registration payload.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest is the credential login payload.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuthResponse carries the issued token and the account it belongs to.
type AuthResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      UserResponse `json:"user"`
}

// PasswordResetRequest starts the reset flow for an email.
type PasswordResetRequest struct {
	Email string `json:"email"`
}

// PasswordResetConfirmRequest redeems a reset token.
type PasswordResetConfirmRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

// CreateUserRequest is the admin account-creation payload.
type CreateUserRequest struct {
	Username string      `json:"username"`
	Email    string      `json:"email"`
	Role     domain.Role `json:"role"`
	Password string      `json:"password"`
}

// UpdateUserRequest is a partial admin edit of an account.
type UpdateUserRequest struct {
	Username *string      `json:"username,omitempty"`
	Email    *string      `json:"email,omitempty"`
	Role     *domain.Role `json:"role,omitempty"`
}

// UserResponse is the account shape. Password material never leaves the
// service.
type UserResponse struct {
	ID        int64       `json:"id"`
	Username  string      `json:"username"`
	Email     string      `json:"email"`
	Role      domain.Role `json:"role"`
	CreatedAt time.Time   `json:"created_at"`
}
