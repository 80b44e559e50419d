package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/AIlhomov/Ticketing-System/internal/domain"
	"github.com/AIlhomov/Ticketing-System/internal/repository"
	"github.com/AIlhomov/Ticketing-System/pkg/util/errorutil"
)

const principalKey = "auth_principal"

// AuthMiddleware validates bearer tokens and loads the calling user.
type AuthMiddleware struct {
	tokens *TokenManager
	users  repository.UserRepository
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager, users repository.UserRepository) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, users: users}
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	user, err := m.resolve(c)
	if err != nil {
		return err
	}
	if user == nil {
		return errorutil.NewUnauthorized("missing authorization header")
	}
	c.Locals(principalKey, user)
	return c.Next()
}

// HandleOptional loads the user when a token is present but lets anonymous
// requests through. Used on the ticket submission route, which accepts
// anonymous submissions carrying a contact email.
func (m *AuthMiddleware) HandleOptional(c *fiber.Ctx) error {
	user, err := m.resolve(c)
	if err != nil {
		return err
	}
	if user != nil {
		c.Locals(principalKey, user)
	}
	return c.Next()
}

func (m *AuthMiddleware) resolve(c *fiber.Ctx) (*domain.User, error) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return nil, nil
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return nil, errorutil.NewUnauthorized("invalid authorization header")
	}

	claims, err := m.tokens.ParseToken(parts[1])
	if err != nil {
		return nil, errorutil.NewUnauthorized("invalid token")
	}
	userID, err := claims.UserID()
	if err != nil {
		return nil, errorutil.NewUnauthorized("invalid token subject")
	}

	user, err := m.users.GetByID(c.Context(), userID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, errorutil.NewUnauthorized("user not found")
		}
		return nil, errorutil.MapError(err)
	}
	return user, nil
}

// PrincipalFromContext retrieves the authenticated user, if any.
func PrincipalFromContext(c *fiber.Ctx) (*domain.User, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	user, ok := val.(*domain.User)
	return user, ok
}
