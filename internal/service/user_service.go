package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/AIlhomov/Ticketing-System/internal/access"
	"github.com/AIlhomov/Ticketing-System/internal/auth"
	"github.com/AIlhomov/Ticketing-System/internal/domain"
	"github.com/AIlhomov/Ticketing-System/internal/repository"
	"github.com/AIlhomov/Ticketing-System/pkg/util/errorutil"
)

// UserService covers admin-driven directory management.
type UserService struct {
	users      repository.UserRepository
	bcryptCost int
}

// NewUserService constructs the service.
func NewUserService(users repository.UserRepository, bcryptCost int) *UserService {
	return &UserService{users: users, bcryptCost: bcryptCost}
}

// CreateUserInput is an admin-supplied account.
type CreateUserInput struct {
	Username string
	Email    string
	Role     domain.Role
	Password string
}

// UpdateUserInput is a partial account edit.
type UpdateUserInput struct {
	Username *string
	Email    *string
	Role     *domain.Role
}

// Create adds an account with an explicit role. Duplicate username or email
// surfaces as a conflict so the caller can pick different values.
func (s *UserService) Create(ctx context.Context, actor *domain.User, input CreateUserInput) (*domain.User, error) {
	if err := s.requireAdmin(actor); err != nil {
		return nil, err
	}

	username := strings.TrimSpace(input.Username)
	email := strings.TrimSpace(input.Email)
	if username == "" || email == "" || input.Password == "" {
		return nil, errorutil.NewValidationError("username, email, password required", nil)
	}
	if !input.Role.Valid() {
		return nil, errorutil.NewValidationError("unknown role", map[string]any{"role": input.Role})
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, errorutil.NewInternalError(err)
	}

	user := &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: &hash,
		Role:         input.Role,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, errorutil.MapError(err)
	}
	return user, nil
}

// Update edits username, email, or role.
func (s *UserService) Update(ctx context.Context, actor *domain.User, id int64, input UpdateUserInput) (*domain.User, error) {
	if err := s.requireAdmin(actor); err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorutil.NewNotFound("user", map[string]any{"user_id": id})
		}
		return nil, errorutil.MapError(err)
	}

	if input.Username != nil {
		username := strings.TrimSpace(*input.Username)
		if username == "" {
			return nil, errorutil.NewValidationError("username cannot be empty", nil)
		}
		user.Username = username
	}
	if input.Email != nil {
		email := strings.TrimSpace(*input.Email)
		if email == "" {
			return nil, errorutil.NewValidationError("email cannot be empty", nil)
		}
		user.Email = email
	}
	if input.Role != nil {
		if !input.Role.Valid() {
			return nil, errorutil.NewValidationError("unknown role", map[string]any{"role": *input.Role})
		}
		user.Role = *input.Role
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, errorutil.MapError(err)
	}
	return user, nil
}

// Delete removes an account.
func (s *UserService) Delete(ctx context.Context, actor *domain.User, id int64) error {
	if err := s.requireAdmin(actor); err != nil {
		return err
	}
	if err := s.users.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return errorutil.NewNotFound("user", map[string]any{"user_id": id})
		}
		return errorutil.MapError(err)
	}
	return nil
}

// List returns every account in the directory.
func (s *UserService) List(ctx context.Context, actor *domain.User) ([]domain.User, error) {
	if err := s.requireAdmin(actor); err != nil {
		return nil, err
	}
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, errorutil.MapError(err)
	}
	return users, nil
}

// Get fetches one account.
func (s *UserService) Get(ctx context.Context, actor *domain.User, id int64) (*domain.User, error) {
	if err := s.requireAdmin(actor); err != nil {
		return nil, err
	}
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorutil.NewNotFound("user", map[string]any{"user_id": id})
		}
		return nil, errorutil.MapError(err)
	}
	return user, nil
}

func (s *UserService) requireAdmin(actor *domain.User) error {
	if actor == nil {
		return errorutil.NewUnauthorized("authentication required")
	}
	if !access.Allowed(actor.Role, access.OpManageUsers) {
		return errorutil.NewForbidden("user management is admin-only")
	}
	return nil
}
