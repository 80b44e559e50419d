package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/AIlhomov/Ticketing-System/internal/access"
	"github.com/AIlhomov/Ticketing-System/internal/domain"
	"github.com/AIlhomov/Ticketing-System/internal/repository"
	"github.com/AIlhomov/Ticketing-System/pkg/util/errorutil"
)

// CategoryService manages the category store.
type CategoryService struct {
	categories repository.CategoryRepository
}

// NewCategoryService constructs the service.
func NewCategoryService(categories repository.CategoryRepository) *CategoryService {
	return &CategoryService{categories: categories}
}

// Create adds a category explicitly. A name collision is a conflict, not a
// server failure.
func (s *CategoryService) Create(ctx context.Context, actor *domain.User, name string) (*domain.Category, error) {
	if actor == nil {
		return nil, errorutil.NewUnauthorized("authentication required")
	}
	if !access.Allowed(actor.Role, access.OpManageCategories) {
		return nil, errorutil.NewForbidden("insufficient role for category management")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errorutil.NewValidationError("category name required", nil)
	}

	category := &domain.Category{Name: name}
	if err := s.categories.Create(ctx, category); err != nil {
		return nil, errorutil.MapError(err)
	}
	return category, nil
}

// List returns all categories ordered by name.
func (s *CategoryService) List(ctx context.Context) ([]domain.Category, error) {
	categories, err := s.categories.List(ctx)
	if err != nil {
		return nil, errorutil.MapError(err)
	}
	return categories, nil
}

// Delete removes a category. Deletion is blocked while tickets still
// reference the category; callers must reassign or close them out first.
func (s *CategoryService) Delete(ctx context.Context, actor *domain.User, id int64) error {
	if actor == nil {
		return errorutil.NewUnauthorized("authentication required")
	}
	if !access.Allowed(actor.Role, access.OpManageCategories) {
		return errorutil.NewForbidden("insufficient role for category management")
	}

	count, err := s.categories.CountTickets(ctx, id)
	if err != nil {
		return errorutil.MapError(err)
	}
	if count > 0 {
		return errorutil.NewConflict("category still referenced by tickets", map[string]any{"ticket_count": count})
	}

	if err := s.categories.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return errorutil.NewNotFound("category", map[string]any{"category_id": id})
		}
		return errorutil.MapError(err)
	}
	return nil
}
