package service

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/AIlhomov/Ticketing-System/internal/auth"
	"github.com/AIlhomov/Ticketing-System/internal/config"
	"github.com/AIlhomov/Ticketing-System/internal/domain"
	"github.com/AIlhomov/Ticketing-System/internal/identity"
	"github.com/AIlhomov/Ticketing-System/pkg/util/errorutil"
)

func testAuthConfig() config.Config {
	return config.Config{
		Auth: config.AuthConfig{
			JWTSecret:               "test-secret",
			AccessTokenTTLMinutes:   60,
			PasswordResetTTLMinutes: 30,
			BcryptCost:              bcrypt.MinCost,
		},
	}
}

func newAuthService(users *mockUserRepo, google *mockGoogleVerifier, mailer *recordingMailer) *AuthService {
	if mailer == nil {
		mailer = &recordingMailer{}
	}
	return NewAuthService(testAuthConfig(), AuthDependencies{
		UserRepo: users,
		Google:   google,
		Mailer:   mailer,
		Logger:   zap.NewNop(),
	})
}

func TestRegisterAssignsUserRole(t *testing.T) {
	var created *domain.User
	users := &mockUserRepo{
		CreateFn: func(_ context.Context, user *domain.User) error {
			user.ID = 1
			created = user
			return nil
		},
	}
	svc := newAuthService(users, nil, nil)

	user, token, _, err := svc.Register(context.Background(), "nisse", "nisse@example.com", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleUser, user.Role)
	assert.NotEmpty(t, token)
	require.NotNil(t, created.PasswordHash)
	assert.NoError(t, auth.ComparePassword(*created.PasswordHash, "hunter2"))
}

func TestRegisterDuplicateUsernameConflicts(t *testing.T) {
	users := &mockUserRepo{
		CreateFn: func(context.Context, *domain.User) error {
			return &pgconn.PgError{Code: "23505", ConstraintName: "users_username_key"}
		},
	}
	svc := newAuthService(users, nil, nil)

	_, _, _, err := svc.Register(context.Background(), "nisse", "nisse@example.com", "hunter2")
	var domainErr *errorutil.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "CONFLICT", domainErr.Code)
}

func TestLogin(t *testing.T) {
	hash, err := auth.HashPassword("hunter2", bcrypt.MinCost)
	require.NoError(t, err)
	account := &domain.User{ID: 3, Username: "nisse", Email: "nisse@example.com", PasswordHash: &hash, Role: domain.RoleAgent}
	users := &mockUserRepo{
		GetByUsernameFn: func(_ context.Context, username string) (*domain.User, error) {
			if username == "nisse" {
				return account, nil
			}
			return nil, pgx.ErrNoRows
		},
	}
	svc := newAuthService(users, nil, nil)

	user, token, expiresAt, err := svc.Login(context.Background(), "nisse", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, int64(3), user.ID)
	assert.NotEmpty(t, token)
	assert.True(t, expiresAt.After(time.Now()))

	claims, err := svc.TokenManager().ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAgent, claims.Role)
	id, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, int64(3), id)

	_, _, _, err = svc.Login(context.Background(), "nisse", "wrong")
	var domainErr *errorutil.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "UNAUTHORIZED", domainErr.Code)

	_, _, _, err = svc.Login(context.Background(), "nobody", "hunter2")
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "UNAUTHORIZED", domainErr.Code)
}

func TestLoginGoogleOnlyAccountHasNoPassword(t *testing.T) {
	users := &mockUserRepo{
		GetByUsernameFn: func(context.Context, string) (*domain.User, error) {
			return &domain.User{ID: 4, Username: "g", Role: domain.RoleUser}, nil
		},
	}
	svc := newAuthService(users, nil, nil)

	_, _, _, err := svc.Login(context.Background(), "g", "anything")
	var domainErr *errorutil.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "UNAUTHORIZED", domainErr.Code)
}

func TestGoogleSignInExistingAccount(t *testing.T) {
	account := &domain.User{ID: 5, Username: "g@example.com", Email: "g@example.com", Role: domain.RoleUser, GoogleID: ptr("gid-1")}
	users := &mockUserRepo{
		GetByGoogleIDFn: func(_ context.Context, googleID string) (*domain.User, error) {
			if googleID == "gid-1" {
				return account, nil
			}
			return nil, pgx.ErrNoRows
		},
	}
	google := &mockGoogleVerifier{
		ExchangeFn: func(context.Context, string) (*identity.GoogleIdentity, error) {
			return &identity.GoogleIdentity{GoogleID: "gid-1", Email: "g@example.com"}, nil
		},
	}
	svc := newAuthService(users, google, nil)

	user, token, _, err := svc.GoogleSignIn(context.Background(), "code")
	require.NoError(t, err)
	assert.Equal(t, int64(5), user.ID)
	assert.NotEmpty(t, token)
}

func TestGoogleSignInBackfillsGoogleID(t *testing.T) {
	account := &domain.User{ID: 6, Username: "nisse", Email: "nisse@example.com", Role: domain.RoleAgent}
	var updated *domain.User
	users := &mockUserRepo{
		GetByGoogleIDFn: func(context.Context, string) (*domain.User, error) { return nil, pgx.ErrNoRows },
		GetByEmailFn: func(_ context.Context, email string) (*domain.User, error) {
			if email == "nisse@example.com" {
				return account, nil
			}
			return nil, pgx.ErrNoRows
		},
		UpdateFn: func(_ context.Context, user *domain.User) error {
			updated = user
			return nil
		},
	}
	google := &mockGoogleVerifier{
		ExchangeFn: func(context.Context, string) (*identity.GoogleIdentity, error) {
			return &identity.GoogleIdentity{GoogleID: "gid-2", Email: "nisse@example.com"}, nil
		},
	}
	svc := newAuthService(users, google, nil)

	user, _, _, err := svc.GoogleSignIn(context.Background(), "code")
	require.NoError(t, err)
	// The existing account is reused, keeping its role, and now carries the
	// google id. No second account for the same email.
	assert.Equal(t, int64(6), user.ID)
	assert.Equal(t, domain.RoleAgent, user.Role)
	require.NotNil(t, updated)
	require.NotNil(t, updated.GoogleID)
	assert.Equal(t, "gid-2", *updated.GoogleID)
}

func TestGoogleSignInCreatesFreshAccount(t *testing.T) {
	var created *domain.User
	users := &mockUserRepo{
		GetByGoogleIDFn: func(context.Context, string) (*domain.User, error) { return nil, pgx.ErrNoRows },
		GetByEmailFn:    func(context.Context, string) (*domain.User, error) { return nil, pgx.ErrNoRows },
		CreateFn: func(_ context.Context, user *domain.User) error {
			user.ID = 7
			created = user
			return nil
		},
	}
	google := &mockGoogleVerifier{
		ExchangeFn: func(context.Context, string) (*identity.GoogleIdentity, error) {
			return &identity.GoogleIdentity{GoogleID: "gid-3", Email: "new@example.com"}, nil
		},
	}
	svc := newAuthService(users, google, nil)

	user, _, _, err := svc.GoogleSignIn(context.Background(), "code")
	require.NoError(t, err)
	assert.Equal(t, int64(7), user.ID)
	assert.Equal(t, domain.RoleUser, created.Role)
	assert.Nil(t, created.PasswordHash)
}

func TestRequestPasswordReset(t *testing.T) {
	var storedToken string
	var storedExpiry time.Time
	users := &mockUserRepo{
		GetByEmailFn: func(_ context.Context, email string) (*domain.User, error) {
			if email == "nisse@example.com" {
				return &domain.User{ID: 8, Username: "nisse", Email: email, Role: domain.RoleUser}, nil
			}
			return nil, pgx.ErrNoRows
		},
		SetResetTokenFn: func(_ context.Context, _ int64, token string, expiresAt time.Time) error {
			storedToken = token
			storedExpiry = expiresAt
			return nil
		},
	}
	mailer := &recordingMailer{}
	svc := newAuthService(users, nil, mailer)

	require.NoError(t, svc.RequestPasswordReset(context.Background(), "nisse@example.com"))
	assert.NotEmpty(t, storedToken)
	assert.True(t, storedExpiry.After(time.Now()))
	require.Len(t, mailer.sent, 1)
	assert.Contains(t, mailer.sent[0].Body, storedToken)

	err := svc.RequestPasswordReset(context.Background(), "nobody@example.com")
	var domainErr *errorutil.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "NOT_FOUND", domainErr.Code)
}

func TestConfirmPasswordReset(t *testing.T) {
	valid := &domain.User{ID: 9, ResetToken: ptr("tok-valid"), ResetTokenExpiresAt: ptr(time.Now().Add(10 * time.Minute))}
	expired := &domain.User{ID: 10, ResetToken: ptr("tok-expired"), ResetTokenExpiresAt: ptr(time.Now().Add(-time.Minute))}
	var newHash string
	users := &mockUserRepo{
		GetByResetTokenFn: func(_ context.Context, token string) (*domain.User, error) {
			switch token {
			case "tok-valid":
				return valid, nil
			case "tok-expired":
				return expired, nil
			}
			return nil, pgx.ErrNoRows
		},
		UpdatePasswordFn: func(_ context.Context, id int64, hash string) error {
			assert.Equal(t, int64(9), id)
			newHash = hash
			return nil
		},
	}
	svc := newAuthService(users, nil, nil)

	require.NoError(t, svc.ConfirmPasswordReset(context.Background(), "tok-valid", "newpassword"))
	assert.NoError(t, auth.ComparePassword(newHash, "newpassword"))

	var domainErr *errorutil.DomainError
	err := svc.ConfirmPasswordReset(context.Background(), "tok-expired", "newpassword")
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "UNAUTHORIZED", domainErr.Code)

	err = svc.ConfirmPasswordReset(context.Background(), "tok-unknown", "newpassword")
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "UNAUTHORIZED", domainErr.Code)
}
