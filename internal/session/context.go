package session

import (
	"github.com/anonto42/story-creator/backend/internal/models"
	"github.com/labstack/echo/v4"
)

const contextKey = "auth"

// AuthContext is the authenticated caller of a request. It is built once per
// request from the session and the stored user row.
type AuthContext struct {
	UserID       uint
	Username     string
	City         string
	Role         string
	OriginalRole string
	Roles        models.RoleSet
}

// NewAuthContext reconciles the session values with the stored user. A session
// role the user no longer holds falls back to the user's primary role; an
// admin switched to the author dashboard keeps author.
func NewAuthContext(v Values, user *models.User) *AuthContext {
	roles := user.RoleSet()
	a := &AuthContext{
		UserID:       user.ID,
		Username:     user.Username,
		City:         user.CityName(),
		Role:         v.Role,
		OriginalRole: v.OriginalRole,
		Roles:        roles,
	}
	switch {
	case a.IsSwitchedAdmin() && roles.Has(models.RoleAdmin):
		a.Role = models.RoleAuthor
	case roles.Has(a.Role):
		a.OriginalRole = ""
	default:
		a.Role = user.PrimaryRole()
		a.OriginalRole = ""
	}
	return a
}

// Is reports whether the active role is one of roles.
func (a *AuthContext) Is(roles ...string) bool {
	for _, r := range roles {
		if a.Role == r {
			return true
		}
	}
	return false
}

// IsSwitchedAdmin reports whether an admin is viewing the author dashboard.
func (a *AuthContext) IsSwitchedAdmin() bool {
	return a.OriginalRole == models.RoleAdmin
}

// SetContext attaches a to the request.
func SetContext(c echo.Context, a *AuthContext) {
	c.Set(contextKey, a)
}

// FromContext returns the caller of the request, or nil for anonymous requests.
func FromContext(c echo.Context) *AuthContext {
	a, _ := c.Get(contextKey).(*AuthContext)
	return a
}

// DashboardPath is the landing page of role.
func DashboardPath(role string) string {
	switch role {
	case models.RoleAdmin:
		return "/admin/dashboard"
	case models.RoleAuthor:
		return "/author/dashboard"
	case models.RoleReader:
		return "/reader/dashboard"
	}
	return "/login"
}
