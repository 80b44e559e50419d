package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/AIlhomov/Ticketing-System/internal/api/dto"
	"github.com/AIlhomov/Ticketing-System/internal/domain"
	"github.com/AIlhomov/Ticketing-System/internal/service"
	apperrors "github.com/AIlhomov/Ticketing-System/pkg/util/errorutil"
)

// CategoriesHandler manages the category catalogue.
type CategoriesHandler struct {
	service *service.CategoryService
}

// NewCategoriesHandler constructs handler.
func NewCategoriesHandler(categoryService *service.CategoryService) *CategoriesHandler {
	return &CategoriesHandler{service: categoryService}
}

// ListCategories GET /categories.
func (h *CategoriesHandler) ListCategories(c *fiber.Ctx) error {
	categories, err := h.service.List(c.UserContext())
	if err != nil {
		return err
	}
	items := make([]dto.CategoryResponse, 0, len(categories))
	for _, category := range categories {
		items = append(items, categoryResponse(category))
	}
	return c.JSON(fiber.Map{"data": items})
}

// CreateCategory POST /categories.
func (h *CategoriesHandler) CreateCategory(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	var req dto.CreateCategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	category, err := h.service.Create(c.UserContext(), principal, req.Name)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": categoryResponse(*category)})
}

// DeleteCategory DELETE /categories/:id. Deletion is refused while tickets
// still reference the category.
func (h *CategoriesHandler) DeleteCategory(c *fiber.Ctx) error {
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

func categoryResponse(category domain.Category) dto.CategoryResponse {
	return dto.CategoryResponse{ID: category.ID, Name: category.Name}
}
