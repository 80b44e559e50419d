package service

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/AIlhomov/Ticketing-System/internal/domain"
	"github.com/AIlhomov/Ticketing-System/pkg/util/errorutil"
)

func TestUserManagementIsAdminOnly(t *testing.T) {
	svc := NewUserService(&mockUserRepo{}, bcrypt.MinCost)
	input := CreateUserInput{Username: "a", Email: "a@example.com", Role: domain.RoleAgent, Password: "pw"}

	for _, actor := range []*domain.User{
		nil,
		staffUser(1, domain.RoleUser),
		staffUser(2, domain.RoleAgent),
	} {
		_, err := svc.Create(context.Background(), actor, input)
		require.Error(t, err)
		_, err = svc.List(context.Background(), actor)
		require.Error(t, err)
		err = svc.Delete(context.Background(), actor, 1)
		require.Error(t, err)
	}
}

func TestAdminCreatesUserWithRole(t *testing.T) {
	var created *domain.User
	users := &mockUserRepo{
		CreateFn: func(_ context.Context, user *domain.User) error {
			user.ID = 2
			created = user
			return nil
		},
	}
	svc := NewUserService(users, bcrypt.MinCost)
	admin := staffUser(1, domain.RoleAdmin)

	user, err := svc.Create(context.Background(), admin, CreateUserInput{
		Username: "agent1",
		Email:    "agent1@example.com",
		Role:     domain.RoleAgent,
		Password: "pw",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAgent, user.Role)
	require.NotNil(t, created.PasswordHash)
	assert.NotEqual(t, "pw", *created.PasswordHash)

	_, err = svc.Create(context.Background(), admin, CreateUserInput{
		Username: "x", Email: "x@example.com", Role: "superuser", Password: "pw",
	})
	var domainErr *errorutil.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "VALIDATION_FAILED", domainErr.Code)
}

func TestCreateUserDuplicateEmailConflicts(t *testing.T) {
	users := &mockUserRepo{
		CreateFn: func(context.Context, *domain.User) error {
			return &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"}
		},
	}
	svc := NewUserService(users, bcrypt.MinCost)

	_, err := svc.Create(context.Background(), staffUser(1, domain.RoleAdmin), CreateUserInput{
		Username: "a", Email: "taken@example.com", Role: domain.RoleUser, Password: "pw",
	})
	var domainErr *errorutil.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "CONFLICT", domainErr.Code)
}

func TestUpdateUserRole(t *testing.T) {
	account := &domain.User{ID: 3, Username: "nisse", Email: "nisse@example.com", Role: domain.RoleUser}
	var saved *domain.User
	users := &mockUserRepo{
		GetByIDFn: func(_ context.Context, id int64) (*domain.User, error) {
			if id == 3 {
				return account, nil
			}
			return nil, pgx.ErrNoRows
		},
		UpdateFn: func(_ context.Context, user *domain.User) error {
			saved = user
			return nil
		},
	}
	svc := NewUserService(users, bcrypt.MinCost)
	admin := staffUser(1, domain.RoleAdmin)

	role := domain.RoleAgent
	user, err := svc.Update(context.Background(), admin, 3, UpdateUserInput{Role: &role})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAgent, user.Role)
	require.NotNil(t, saved)
	assert.Equal(t, "nisse", saved.Username)

	_, err = svc.Update(context.Background(), admin, 404, UpdateUserInput{Role: &role})
	var domainErr *errorutil.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "NOT_FOUND", domainErr.Code)
}

func TestDeleteUserMissing(t *testing.T) {
	users := &mockUserRepo{
		DeleteFn: func(context.Context, int64) error { return pgx.ErrNoRows },
	}
	svc := NewUserService(users, bcrypt.MinCost)

	err := svc.Delete(context.Background(), staffUser(1, domain.RoleAdmin), 404)
	var domainErr *errorutil.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "NOT_FOUND", domainErr.Code)
}
