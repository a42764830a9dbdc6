package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/anonto42/story-creator/backend/internal/models"
	"github.com/anonto42/story-creator/backend/internal/session"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// defaultImage is shown for authors without a profile picture.
const defaultImage = "/static/uploads/default.png"

// currentAuth returns the caller; routes using it sit behind RequireLogin or
// RequireRole, so a missing context is answered like an expired session.
func currentAuth(c echo.Context) (*session.AuthContext, error) {
	auth := session.FromContext(c)
	if auth == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
	}
	return auth, nil
}

func parseID(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "Invalid ID")
	}
	return uint(id), nil
}

// pageParam reads ?page, falling back to 1 and capping at models.MaxPage.
func pageParam(c echo.Context) int {
	page, err := strconv.Atoi(c.QueryParam("page"))
	if err != nil {
		return 1
	}
	return models.ClampPage(page)
}

// internalError logs err and hides it behind a generic message.
func internalError(logger *zap.Logger, msg string, err error) error {
	logger.Error(msg, zap.Error(err))
	return echo.NewHTTPError(http.StatusInternalServerError, msg)
}

// mediaURL maps a stored upload path to its public URL.
func mediaURL(stored *string, fallback string) string {
	if stored == nil || strings.TrimSpace(*stored) == "" {
		return fallback
	}
	p := strings.TrimPrefix(*stored, "/")
	if strings.HasPrefix(p, "static/") {
		return "/" + p
	}
	if strings.HasPrefix(p, "uploads/") {
		return "/static/" + p
	}
	return "/static/uploads/" + p
}
