package handlers

import (
	"net/http"
	"testing"

	"github.com/anonto42/story-creator/backend/internal/models"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newCategoryFixture(t *testing.T) (*echo.Echo, *mockCategoryRepo) {
	repo := new(mockCategoryRepo)
	e := newTestEcho(t)
	NewCategoryHandler(repo, zap.NewNop()).RegisterAdminRoutes(e.Group("/admin", withAuth(adminAuth(1))))
	return e, repo
}

func TestCreateCategory(t *testing.T) {
	e, repo := newCategoryFixture(t)
	repo.On("Create", mock.Anything, mock.MatchedBy(func(c *models.Category) bool {
		return c.Name == "Mystery" && c.Description == "Whodunits"
	})).Return(nil)

	rec := postJSON(e, "/admin/categories", `{"name":" Mystery ","description":"Whodunits"}`)

	assert.Equal(t, http.StatusCreated, rec.Code)
	repo.AssertExpectations(t)
}

func TestCreateCategoryErrors(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		repoErr error
		code    int
		message string
	}{
		{"blank name", `{"name":"  "}`, nil, http.StatusBadRequest, "Category name is required"},
		{"duplicate", `{"name":"Mystery"}`, models.ErrCategoryExists, http.StatusConflict, models.ErrCategoryExists.Error()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, repo := newCategoryFixture(t)
			repo.On("Create", mock.Anything, mock.Anything).Return(tt.repoErr).Maybe()

			rec := postJSON(e, "/admin/categories", tt.body)

			assert.Equal(t, tt.code, rec.Code)
			assert.Equal(t, tt.message, decodeJSON(t, rec)["error"])
		})
	}
}

func TestUpdateCategorySetsID(t *testing.T) {
	e, repo := newCategoryFixture(t)
	repo.On("Update", mock.Anything, mock.MatchedBy(func(c *models.Category) bool {
		return c.ID == 3 && c.Name == "Horror"
	})).Return(nil)

	rec := postJSON(e, "/admin/categories/3", `{"name":"Horror"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	repo.AssertExpectations(t)
}

func TestDeleteMissingCategory(t *testing.T) {
	e, repo := newCategoryFixture(t)
	repo.On("Delete", mock.Anything, uint(3)).Return(models.ErrNotFound)

	rec := post(e, "/admin/categories/3/delete")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Category not found", decodeJSON(t, rec)["error"])
}

func TestListCategoriesNeverNull(t *testing.T) {
	e, repo := newCategoryFixture(t)
	repo.On("List", mock.Anything).Return(nil, nil)

	rec := get(e, "/admin/categories")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []interface{}{}, decodeJSON(t, rec)["categories"])
}
