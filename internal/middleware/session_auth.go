package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/anonto42/story-creator/backend/internal/models"
	"github.com/anonto42/story-creator/backend/internal/session"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// UserLoader fetches the stored user behind a session.
type UserLoader interface {
	GetUserByID(ctx context.Context, id uint) (*models.User, error)
}

// sessionlessPrefixes are served without touching the session or database.
var sessionlessPrefixes = []string{"/static/", "/metrics", "/health"}

// LoadSession builds the AuthContext of the request from the session cookie
// and the stored user. Sessions of deleted, blocked or suspended users are
// cleared and the request continues anonymously.
func LoadSession(sm *session.Manager, users UserLoader, logger *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			path := c.Request().URL.Path
			for _, p := range sessionlessPrefixes {
				if strings.HasPrefix(path, p) {
					return next(c)
				}
			}

			values, ok, err := sm.Load(c)
			if err != nil {
				logger.Warn("Failed to read session", zap.Error(err))
				return next(c)
			}
			if !ok {
				return next(c)
			}

			user, err := users.GetUserByID(c.Request().Context(), values.UserID)
			if err != nil && !errors.Is(err, models.ErrNotFound) {
				logger.Error("Failed to load session user", zap.Uint("user_id", values.UserID), zap.Error(err))
				return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load session")
			}
			if err != nil || user.IsLocked() {
				if err := sm.Clear(c); err != nil {
					logger.Warn("Failed to clear session", zap.Error(err))
				}
				return next(c)
			}

			auth := session.NewAuthContext(values, user)
			if auth.Role != values.Role || auth.OriginalRole != values.OriginalRole {
				if err := sm.SetRole(c, auth.Role, auth.OriginalRole); err != nil {
					logger.Warn("Failed to store reconciled role", zap.Error(err))
				}
			}
			session.SetContext(c, auth)
			return next(c)
		}
	}
}

// RequireLogin redirects anonymous requests to the login page.
func RequireLogin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if session.FromContext(c) == nil {
				return c.Redirect(http.StatusFound, "/login")
			}
			return next(c)
		}
	}
}

// RequireRole redirects to the login page unless the active role is one of roles.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := session.FromContext(c)
			if auth == nil || !auth.Is(roles...) {
				return c.Redirect(http.StatusFound, "/login")
			}
			return next(c)
		}
	}
}
