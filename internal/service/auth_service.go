package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/AIlhomov/Ticketing-System/internal/auth"
	"github.com/AIlhomov/Ticketing-System/internal/config"
	"github.com/AIlhomov/Ticketing-System/internal/domain"
	"github.com/AIlhomov/Ticketing-System/internal/identity"
	"github.com/AIlhomov/Ticketing-System/internal/notification"
	"github.com/AIlhomov/Ticketing-System/internal/repository"
	"github.com/AIlhomov/Ticketing-System/pkg/util/errorutil"
)

// AuthService coordinates registration, login, Google sign-in, and password
// reset flows.
type AuthService struct {
	users      repository.UserRepository
	tokenMgr   *auth.TokenManager
	google     identity.GoogleVerifier
	tokenCache *notification.GoogleTokenCache
	mailer     notification.Mailer
	logger     *zap.Logger
	bcryptCost int
	resetTTL   time.Duration
}

// AuthDependencies bundles collaborators for the auth service.
type AuthDependencies struct {
	UserRepo   repository.UserRepository
	Google     identity.GoogleVerifier
	TokenCache *notification.GoogleTokenCache
	Mailer     notification.Mailer
	Logger     *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	return &AuthService{
		users:      deps.UserRepo,
		tokenMgr:   auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes),
		google:     deps.Google,
		tokenCache: deps.TokenCache,
		mailer:     deps.Mailer,
		logger:     deps.Logger,
		bcryptCost: cfg.Auth.BcryptCost,
		resetTTL:   time.Duration(cfg.Auth.PasswordResetTTLMinutes) * time.Minute,
	}
}

// Register creates a new end-user account. Self-registration always yields
// the user role; higher roles are assigned by an admin.
func (s *AuthService) Register(ctx context.Context, username, email, password string) (*domain.User, string, time.Time, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if username == "" || email == "" || password == "" {
		return nil, "", time.Time{}, errorutil.NewValidationError("username, email, password required", nil)
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, "", time.Time{}, errorutil.NewInternalError(err)
	}

	user := &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: &hash,
		Role:         domain.RoleUser,
	}
	if err := s.users.Create(ctx, user); err != nil {
		// Unique violations surface as CONFLICT so the caller can prompt for
		// a different username or email.
		return nil, "", time.Time{}, errorutil.MapError(err)
	}

	token, exp, err := s.tokenMgr.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, "", time.Time{}, errorutil.NewInternalError(err)
	}
	return user, token, exp, nil
}

// Login authenticates by username and password.
func (s *AuthService) Login(ctx context.Context, username, password string) (*domain.User, string, time.Time, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", time.Time{}, errorutil.NewUnauthorized("invalid credentials")
		}
		return nil, "", time.Time{}, errorutil.MapError(err)
	}
	if user.PasswordHash == nil {
		// Google-only account; no local password to verify.
		return nil, "", time.Time{}, errorutil.NewUnauthorized("invalid credentials")
	}
	if err := auth.ComparePassword(*user.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, errorutil.NewUnauthorized("invalid credentials")
	}

	token, exp, err := s.tokenMgr.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, "", time.Time{}, errorutil.NewInternalError(err)
	}
	return user, token, exp, nil
}

// GoogleAuthURL returns the provider redirect URL for the given state.
func (s *AuthService) GoogleAuthURL(state string) string {
	return s.google.AuthCodeURL(state)
}

// GoogleSignIn completes the OAuth flow and reconciles the verified identity
// against the directory: match on google id first, then on email (backfilling
// the google id), otherwise create a fresh user-role account with no local
// password. The same email never ends up with two accounts.
func (s *AuthService) GoogleSignIn(ctx context.Context, code string) (*domain.User, string, time.Time, error) {
	ident, err := s.google.Exchange(ctx, code)
	if err != nil {
		return nil, "", time.Time{}, errorutil.NewUnauthorized("google sign-in failed")
	}

	user, err := s.resolveGoogleIdentity(ctx, ident)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	if s.tokenCache != nil && ident.AccessToken != "" {
		if err := s.tokenCache.Put(ctx, user.ID, ident.AccessToken); err != nil {
			s.logger.Warn("failed to cache google access token", zap.Error(err), zap.Int64("user_id", user.ID))
		}
	}

	token, exp, err := s.tokenMgr.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, "", time.Time{}, errorutil.NewInternalError(err)
	}
	return user, token, exp, nil
}

func (s *AuthService) resolveGoogleIdentity(ctx context.Context, ident *identity.GoogleIdentity) (*domain.User, error) {
	user, err := s.users.GetByGoogleID(ctx, ident.GoogleID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, errorutil.MapError(err)
	}

	user, err = s.users.GetByEmail(ctx, ident.Email)
	if err == nil {
		user.GoogleID = &ident.GoogleID
		if err := s.users.Update(ctx, user); err != nil {
			return nil, errorutil.MapError(err)
		}
		return user, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, errorutil.MapError(err)
	}

	created := &domain.User{
		Username: ident.Email,
		Email:    ident.Email,
		Role:     domain.RoleUser,
		GoogleID: &ident.GoogleID,
	}
	if err := s.users.Create(ctx, created); err != nil {
		return nil, errorutil.MapError(err)
	}
	return created, nil
}

// RequestPasswordReset issues a single-use token and mails it to the account
// email. Delivery is best effort; a send failure does not invalidate the
// token.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return errorutil.NewNotFound("user", map[string]any{"email": email})
		}
		return errorutil.MapError(err)
	}

	token := uuid.NewString()
	expiresAt := time.Now().Add(s.resetTTL)
	if err := s.users.SetResetToken(ctx, user.ID, token, expiresAt); err != nil {
		return errorutil.MapError(err)
	}

	msg := notification.Message{
		To:      user.Email,
		Subject: "Password Reset Request",
		Body: fmt.Sprintf("<p>Hello %s,</p><p>Use the token below to reset your password. It expires in %d minutes.</p><p><b>%s</b></p>",
			user.Username, int(s.resetTTL.Minutes()), token),
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		s.logger.Warn("failed to send password reset email", zap.Error(err), zap.Int64("user_id", user.ID))
	}
	return nil
}

// ConfirmPasswordReset redeems a reset token and stores the new password
// hash. The token is single-use and expiry-checked.
func (s *AuthService) ConfirmPasswordReset(ctx context.Context, token, newPassword string) error {
	if newPassword == "" {
		return errorutil.NewValidationError("new password required", nil)
	}

	user, err := s.users.GetByResetToken(ctx, token)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return errorutil.NewUnauthorized("invalid reset token")
		}
		return errorutil.MapError(err)
	}
	if user.ResetTokenExpiresAt == nil || time.Now().After(*user.ResetTokenExpiresAt) {
		return errorutil.NewUnauthorized("reset token expired")
	}

	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return errorutil.NewInternalError(err)
	}
	// UpdatePassword clears the token, making it single-use.
	if err := s.users.UpdatePassword(ctx, user.ID, hash); err != nil {
		return errorutil.MapError(err)
	}
	return nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}
