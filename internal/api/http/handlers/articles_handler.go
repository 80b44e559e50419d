package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/AIlhomov/Ticketing-System/internal/api/dto"
	"github.com/AIlhomov/Ticketing-System/internal/domain"
	"github.com/AIlhomov/Ticketing-System/internal/service"
	apperrors "github.com/AIlhomov/Ticketing-System/pkg/util/errorutil"
)

// ArticlesHandler serves the knowledge base.
type ArticlesHandler struct {
	service *service.ArticleService
}

// NewArticlesHandler constructs handler.
func NewArticlesHandler(articleService *service.ArticleService) *ArticlesHandler {
	return &ArticlesHandler{service: articleService}
}

// ListArticles GET /articles.
func (h *ArticlesHandler) ListArticles(c *fiber.Ctx) error {
	articles, err := h.service.List(c.UserContext())
	if err != nil {
		return err
	}
	items := make([]dto.ArticleResponse, 0, len(articles))
	for i := range articles {
		items = append(items, articleResponse(&articles[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// GetArticle GET /articles/:id.
func (h *ArticlesHandler) GetArticle(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	article, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": articleResponse(article)})
}

// CreateArticle POST /articles.
func (h *ArticlesHandler) CreateArticle(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	var req dto.ArticleRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	article, err := h.service.Create(c.UserContext(), principal, service.ArticleInput{
		Title:      req.Title,
		Content:    req.Content,
		CategoryID: req.CategoryID,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": articleResponse(article)})
}

// UpdateArticle PUT /articles/:id.
func (h *ArticlesHandler) UpdateArticle(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var req dto.ArticleRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	article, err := h.service.Update(c.UserContext(), principal, id, service.ArticleInput{
		Title:      req.Title,
		Content:    req.Content,
		CategoryID: req.CategoryID,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": articleResponse(article)})
}

// DeleteArticle DELETE /articles/:id.
func (h *ArticlesHandler) DeleteArticle(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.UserContext(), principal, id); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

func articleResponse(article *domain.Article) dto.ArticleResponse {
	return dto.ArticleResponse{
		ID:         article.ID,
		Title:      article.Title,
		Content:    article.Content,
		CategoryID: article.CategoryID,
		CreatedBy:  article.CreatedBy,
		CreatedAt:  article.CreatedAt,
	}
}
