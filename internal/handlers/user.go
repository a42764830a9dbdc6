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

// UserHandler serves the signed-in user's profile
type UserHandler struct {
	userRepository repositories.UserRepository
	uploads        *storage.Uploads
	logger         *zap.Logger
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userRepo repositories.UserRepository, uploads *storage.Uploads, logger *zap.Logger) *UserHandler {
	return &UserHandler{userRepository: userRepo, uploads: uploads, logger: logger.Named("UserHandler")}
}

// RegisterProfileRoutes registers user profile-related routes
func (h *UserHandler) RegisterProfileRoutes(g *echo.Group) {
	g.GET("/profile", h.GetProfile)
	g.POST("/profile", h.UpdateProfile)
}

// GetProfile returns the caller with roles and picture URL
func (h *UserHandler) GetProfile(c echo.Context) error {
	auth, err := currentAuth(c)
	if err != nil {
		return err
	}
	user, err := h.userRepository.GetUserByID(c.Request().Context(), auth.UserID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "User profile not found")
		}
		return internalError(h.logger, "Failed to load profile", err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success":     true,
		"user":        user,
		"roles":       user.RoleSet().Slice(),
		"active_role": auth.Role,
		"picture_url": mediaURL(user.ProfilePic, defaultImage),
	})
}

// UpdateProfile replaces (action=update_photo) or removes (action=delete_photo)
// the profile picture.
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	auth, err := currentAuth(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	user, err := h.userRepository.GetUserByID(ctx, auth.UserID)
	if err != nil {
		return internalError(h.logger, "Failed to load profile", err)
	}

	switch c.FormValue("action") {
	case "update_photo":
		fh, err := c.FormFile("profile_pic")
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "No file selected")
		}
		stored, err := h.uploads.SaveMultipart(fh)
		if err != nil {
			if errors.Is(err, storage.ErrInvalidFileType) {
				return echo.NewHTTPError(http.StatusBadRequest, err.Error())
			}
			return internalError(h.logger, "Failed to store picture", err)
		}
		if err := h.userRepository.UpdateProfilePic(ctx, user.ID, &stored); err != nil {
			removeUpload(h.uploads, h.logger, stored)
			return internalError(h.logger, "Failed to update picture", err)
		}
		if user.ProfilePic != nil {
			removeUpload(h.uploads, h.logger, *user.ProfilePic)
		}
		return c.JSON(http.StatusOK, echo.Map{
			"success":     true,
			"message":     "Profile picture updated successfully",
			"picture_url": mediaURL(&stored, defaultImage),
		})

	case "delete_photo":
		if err := h.userRepository.UpdateProfilePic(ctx, user.ID, nil); err != nil {
			return internalError(h.logger, "Failed to remove picture", err)
		}
		if user.ProfilePic != nil {
			removeUpload(h.uploads, h.logger, *user.ProfilePic)
		}
		return c.JSON(http.StatusOK, echo.Map{
			"success":     true,
			"message":     "Profile picture removed",
			"picture_url": defaultImage,
		})
	}
	return echo.NewHTTPError(http.StatusBadRequest, "Invalid action")
}
