package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/anonto42/story-creator/backend/internal/models"
	"github.com/anonto42/story-creator/backend/internal/repositories"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// CategoryHandler lets admins maintain the category list
type CategoryHandler struct {
	categoryRepository repositories.CategoryRepository
	logger             *zap.Logger
}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler(categoryRepo repositories.CategoryRepository, logger *zap.Logger) *CategoryHandler {
	return &CategoryHandler{
		categoryRepository: categoryRepo,
		logger:             logger.Named("CategoryHandler"),
	}
}

// RegisterAdminRoutes registers routes under /admin
func (h *CategoryHandler) RegisterAdminRoutes(g *echo.Group) {
	g.GET("/categories", h.List)
	g.POST("/categories", h.Create)
	g.POST("/categories/:id", h.Update)
	g.POST("/categories/:id/delete", h.Delete)
}

func bindCategory(c echo.Context) (models.Category, error) {
	var req models.CategoryRequest
	if err := c.Bind(&req); err != nil {
		return models.Category{}, echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return models.Category{}, echo.NewHTTPError(http.StatusBadRequest, "Category name is required")
	}
	return models.Category{Name: name, Description: strings.TrimSpace(req.Description)}, nil
}

func (h *CategoryHandler) categoryError(err error) error {
	switch {
	case errors.Is(err, models.ErrCategoryExists):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, models.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "Category not found")
	}
	return internalError(h.logger, "Category operation failed", err)
}

func (h *CategoryHandler) List(c echo.Context) error {
	categories, err := h.categoryRepository.List(c.Request().Context())
	if err != nil {
		return internalError(h.logger, "Failed to load categories", err)
	}
	if categories == nil {
		categories = []models.Category{}
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "categories": categories})
}

func (h *CategoryHandler) Create(c echo.Context) error {
	category, err := bindCategory(c)
	if err != nil {
		return err
	}
	if err := h.categoryRepository.Create(c.Request().Context(), &category); err != nil {
		return h.categoryError(err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "category": category})
}

func (h *CategoryHandler) Update(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	category, err := bindCategory(c)
	if err != nil {
		return err
	}
	category.ID = id
	if err := h.categoryRepository.Update(c.Request().Context(), &category); err != nil {
		return h.categoryError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "category": category})
}

func (h *CategoryHandler) Delete(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := h.categoryRepository.Delete(c.Request().Context(), id); err != nil {
		return h.categoryError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}
