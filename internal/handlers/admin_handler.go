package handlers

import (
	"errors"
	"net/http"

	"github.com/anonto42/story-creator/backend/internal/models"
	"github.com/anonto42/story-creator/backend/internal/repositories"
	"github.com/anonto42/story-creator/backend/pkg/storage"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// AdminHandler manages user accounts and moderates stories
type AdminHandler struct {
	userRepository  repositories.UserRepository
	storyRepository repositories.StoryRepository
	uploads         *storage.Uploads
	logger          *zap.Logger
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(userRepo repositories.UserRepository, storyRepo repositories.StoryRepository, uploads *storage.Uploads, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{
		userRepository:  userRepo,
		storyRepository: storyRepo,
		uploads:         uploads,
		logger:          logger.Named("AdminHandler"),
	}
}

// RegisterAdminRoutes registers routes under /admin
func (h *AdminHandler) RegisterAdminRoutes(g *echo.Group) {
	g.GET("/users", h.ListUsers)
	g.POST("/users/:id/status/:status", h.UpdateUserStatus)
	g.POST("/stories/:id/delete", h.DeleteStory)
}

// RegisterUserDeletionRoute mounts the JSON delete endpoint outside the
// redirecting role guard so that non-admins get a 403 body.
func (h *AdminHandler) RegisterUserDeletionRoute(g *echo.Group) {
	g.POST("/admin/users/:id/delete", h.DeleteUser)
}

type adminUserView struct {
	models.UserWithStats
	RoleList []string `json:"role_list"`
}

func (h *AdminHandler) ListUsers(c echo.Context) error {
	ctx := c.Request().Context()

	users, err := h.userRepository.ListWithStoryCounts(ctx)
	if err != nil {
		return internalError(h.logger, "Failed to load users", err)
	}
	stats, err := h.userRepository.Stats(ctx)
	if err != nil {
		return internalError(h.logger, "Failed to load user stats", err)
	}

	views := make([]adminUserView, 0, len(users))
	for _, u := range users {
		views = append(views, adminUserView{UserWithStats: u, RoleList: u.RoleSet().Slice()})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "users": views, "stats": stats})
}

func (h *AdminHandler) UpdateUserStatus(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	status := c.Param("status")

	if err := h.userRepository.UpdateStatus(c.Request().Context(), id, status); err != nil {
		switch {
		case errors.Is(err, models.ErrInvalidStatus):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		case errors.Is(err, models.ErrNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		return internalError(h.logger, "Failed to update status", err)
	}

	h.logger.Info("User status changed", zap.Uint("user_id", id), zap.String("status", status))
	return c.JSON(http.StatusOK, echo.Map{"success": true, "status": status})
}

// DeleteUser removes the account and its role rows. Stories and engagement
// rows of the user are left in place.
func (h *AdminHandler) DeleteUser(c echo.Context) error {
	auth, err := currentAuth(c)
	if err != nil || !auth.Is(models.RoleAdmin) {
		return echo.NewHTTPError(http.StatusForbidden, "Unauthorized")
	}
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if id == auth.UserID {
		return echo.NewHTTPError(http.StatusBadRequest, "You cannot delete your own account")
	}

	if err := h.userRepository.DeleteUser(c.Request().Context(), id); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		return internalError(h.logger, "Failed to delete user", err)
	}

	h.logger.Info("User deleted", zap.Uint("user_id", id), zap.Uint("admin_id", auth.UserID))
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "User deleted successfully"})
}

func (h *AdminHandler) DeleteStory(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	deleted, err := h.storyRepository.DeleteStoryAsAdmin(c.Request().Context(), id)
	if err != nil {
		return storyError(h.logger, err)
	}
	if deleted.FeaturedImage != nil {
		removeUpload(h.uploads, h.logger, *deleted.FeaturedImage)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Story deleted successfully"})
}
