package service

import (
	"context"
	"strings"

	"github.com/AIlhomov/Ticketing-System/internal/access"
	"github.com/AIlhomov/Ticketing-System/internal/domain"
	"github.com/AIlhomov/Ticketing-System/internal/repository"
	"github.com/AIlhomov/Ticketing-System/pkg/util/errorutil"
)

// ArticleService manages the knowledge base. Reading is open to any
// authenticated principal; writing is staff-only.
type ArticleService struct {
	articles   repository.ArticleRepository
	categories repository.CategoryRepository
}

// NewArticleService builds the service.
func NewArticleService(articles repository.ArticleRepository, categories repository.CategoryRepository) *ArticleService {
	return &ArticleService{articles: articles, categories: categories}
}

// ArticleInput carries article fields for create and update.
type ArticleInput struct {
	Title      string
	Content    string
	CategoryID *int64
}

func (s *ArticleService) validateInput(ctx context.Context, input ArticleInput) error {
	if strings.TrimSpace(input.Title) == "" || strings.TrimSpace(input.Content) == "" {
		return errorutil.NewValidationError("title and content required", nil)
	}
	if input.CategoryID != nil {
		if _, err := s.categories.GetByID(ctx, *input.CategoryID); err != nil {
			return errorutil.MapError(err)
		}
	}
	return nil
}

// Create adds a knowledge base article authored by the acting staff member.
func (s *ArticleService) Create(ctx context.Context, actor *domain.User, input ArticleInput) (*domain.Article, error) {
	if !access.Allowed(actor.Role, access.OpManageArticles) {
		return nil, errorutil.NewForbidden("role not permitted to manage articles")
	}
	if err := s.validateInput(ctx, input); err != nil {
		return nil, err
	}

	article := &domain.Article{
		Title:      strings.TrimSpace(input.Title),
		Content:    input.Content,
		CategoryID: input.CategoryID,
		CreatedBy:  actor.ID,
	}
	if err := s.articles.Create(ctx, article); err != nil {
		return nil, errorutil.MapError(err)
	}
	return article, nil
}

// Get returns a single article.
func (s *ArticleService) Get(ctx context.Context, id int64) (*domain.Article, error) {
	article, err := s.articles.GetByID(ctx, id)
	if err != nil {
		return nil, errorutil.MapError(err)
	}
	return article, nil
}

// List returns all articles, newest first.
func (s *ArticleService) List(ctx context.Context) ([]domain.Article, error) {
	articles, err := s.articles.List(ctx)
	if err != nil {
		return nil, errorutil.MapError(err)
	}
	return articles, nil
}

// Update rewrites an article.
func (s *ArticleService) Update(ctx context.Context, actor *domain.User, id int64, input ArticleInput) (*domain.Article, error) {
	if !access.Allowed(actor.Role, access.OpManageArticles) {
		return nil, errorutil.NewForbidden("role not permitted to manage articles")
	}
	if err := s.validateInput(ctx, input); err != nil {
		return nil, err
	}

	article, err := s.articles.GetByID(ctx, id)
	if err != nil {
		return nil, errorutil.MapError(err)
	}
	article.Title = strings.TrimSpace(input.Title)
	article.Content = input.Content
	article.CategoryID = input.CategoryID
	if err := s.articles.Update(ctx, article); err != nil {
		return nil, errorutil.MapError(err)
	}
	return article, nil
}

// Delete removes an article.
func (s *ArticleService) Delete(ctx context.Context, actor *domain.User, id int64) error {
	if !access.Allowed(actor.Role, access.OpManageArticles) {
		return errorutil.NewForbidden("role not permitted to manage articles")
	}
	if err := s.articles.Delete(ctx, id); err != nil {
		return errorutil.MapError(err)
	}
	return nil
}
