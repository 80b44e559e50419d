package handlers

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/AIlhomov/Ticketing-System/internal/api/dto"
	"github.com/AIlhomov/Ticketing-System/internal/domain"
	"github.com/AIlhomov/Ticketing-System/internal/service"
	apperrors "github.com/AIlhomov/Ticketing-System/pkg/util/errorutil"
)

// AuthHandler exposes registration, login, Google sign-in, and password
// reset endpoints.
type AuthHandler struct {
	service *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{service: authService}
}

// Register POST /auth/register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	user, token, expiresAt, err := h.service.Register(c.UserContext(), req.Username, req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": authResponse(user, token, expiresAt)})
}

// Login POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	user, token, expiresAt, err := h.service.Login(c.UserContext(), req.Username, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": authResponse(user, token, expiresAt)})
}

// GoogleRedirect GET /auth/google. Sends the client to the provider consent
// screen.
func (h *AuthHandler) GoogleRedirect(c *fiber.Ctx) error {
	return c.Redirect(h.service.GoogleAuthURL(uuid.NewString()), http.StatusTemporaryRedirect)
}

// GoogleCallback GET /auth/google/callback.
func (h *AuthHandler) GoogleCallback(c *fiber.Ctx) error {
	code := c.Query("code")
	if code == "" {
		return apperrors.NewValidationError("missing authorization code", nil)
	}
	user, token, expiresAt, err := h.service.GoogleSignIn(c.UserContext(), code)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": authResponse(user, token, expiresAt)})
}

// RequestPasswordReset POST /auth/password-reset.
func (h *AuthHandler) RequestPasswordReset(c *fiber.Ctx) error {
	var req dto.PasswordResetRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Email == "" {
		return apperrors.NewValidationError("email required", nil)
	}
	if err := h.service.RequestPasswordReset(c.UserContext(), req.Email); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"status": "reset email sent"}})
}

// ConfirmPasswordReset POST /auth/password-reset/confirm.
func (h *AuthHandler) ConfirmPasswordReset(c *fiber.Ctx) error {
	var req dto.PasswordResetConfirmRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := h.service.ConfirmPasswordReset(c.UserContext(), req.Token, req.NewPassword); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"status": "password updated"}})
}

func authResponse(user *domain.User, token string, expiresAt time.Time) dto.AuthResponse {
	return dto.AuthResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      userResponse(user),
	}
}

func userResponse(user *domain.User) dto.UserResponse {
	return dto.UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		Role:      user.Role,
		CreatedAt: user.CreatedAt,
	}
}
