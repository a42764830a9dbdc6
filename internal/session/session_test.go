package session

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/anonto42/story-creator/backend/internal/models"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newManager() *Manager {
	return NewManager(NewStore(Config{Secret: "0123456789abcdef0123456789abcdef", MaxAge: 3600}))
}

// roundTrip runs fn on a request carrying cookies and returns the cookies set
// by the response.
func roundTrip(t *testing.T, cookies []*http.Cookie, fn func(c echo.Context)) []*http.Cookie {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	fn(e.NewContext(req, rec))
	return rec.Result().Cookies()
}

func userWithRoles(roles ...string) *models.User {
	u := &models.User{ID: 7, Username: "alice", Role: models.RoleReader, City: models.StringPtr("Dhaka")}
	for _, r := range roles {
		u.Roles = append(u.Roles, models.UserRole{UserID: 7, Role: r})
	}
	return u
}

func TestLoginStoresPrimaryRole(t *testing.T) {
	m := newManager()
	user := userWithRoles(models.RoleReader, models.RoleAuthor, models.RoleAdmin)

	cookies := roundTrip(t, nil, func(c echo.Context) {
		role, err := m.Login(c, user)
		require.NoError(t, err)
		assert.Equal(t, models.RoleAdmin, role)
	})
	require.NotEmpty(t, cookies)

	roundTrip(t, cookies, func(c echo.Context) {
		v, ok, err := m.Load(c)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, Values{UserID: 7, Username: "alice", City: "Dhaka", Role: models.RoleAdmin}, v)
	})
}

func TestClearSignsOut(t *testing.T) {
	m := newManager()
	cookies := roundTrip(t, nil, func(c echo.Context) {
		_, err := m.Login(c, userWithRoles(models.RoleReader))
		require.NoError(t, err)
	})
	cleared := roundTrip(t, cookies, func(c echo.Context) {
		require.NoError(t, m.Clear(c))
	})
	roundTrip(t, cleared, func(c echo.Context) {
		_, ok, err := m.Load(c)
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestSetRoleTracksSwitch(t *testing.T) {
	m := newManager()
	cookies := roundTrip(t, nil, func(c echo.Context) {
		_, err := m.Login(c, userWithRoles(models.RoleAdmin))
		require.NoError(t, err)
	})
	switched := roundTrip(t, cookies, func(c echo.Context) {
		require.NoError(t, m.SetRole(c, models.RoleAuthor, models.RoleAdmin))
	})
	roundTrip(t, switched, func(c echo.Context) {
		v, ok, err := m.Load(c)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, models.RoleAuthor, v.Role)
		assert.Equal(t, models.RoleAdmin, v.OriginalRole)
	})
}

func TestAnonymousSession(t *testing.T) {
	m := newManager()
	roundTrip(t, nil, func(c echo.Context) {
		_, ok, err := m.Load(c)
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Empty(t, m.Captcha(c))
	})
}

func TestRotateCaptchaPersists(t *testing.T) {
	m := newManager()
	var code string
	cookies := roundTrip(t, nil, func(c echo.Context) {
		var err error
		code, err = m.RotateCaptcha(c)
		require.NoError(t, err)
	})
	roundTrip(t, cookies, func(c echo.Context) {
		assert.Equal(t, code, m.Captcha(c))
	})
}

func TestNewCaptcha(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		code, err := NewCaptcha()
		require.NoError(t, err)
		assert.Regexp(t, `^[A-Z0-9]{5}$`, code)
		seen[code] = true
	}
	assert.Greater(t, len(seen), 1)
}

func TestCaptchaMatches(t *testing.T) {
	assert.True(t, CaptchaMatches("AB12C", "AB12C"))
	assert.False(t, CaptchaMatches("AB12C", "ab12c"))
	assert.False(t, CaptchaMatches("AB12C", ""))
	assert.False(t, CaptchaMatches("", ""))
}

func TestNewAuthContext(t *testing.T) {
	admin := userWithRoles(models.RoleReader, models.RoleAdmin)

	a := NewAuthContext(Values{Role: models.RoleAuthor, OriginalRole: models.RoleAdmin}, admin)
	assert.Equal(t, models.RoleAuthor, a.Role)
	assert.True(t, a.IsSwitchedAdmin())

	a = NewAuthContext(Values{Role: models.RoleAdmin}, admin)
	assert.Equal(t, models.RoleAdmin, a.Role)
	assert.False(t, a.IsSwitchedAdmin())

	// a role the user lost falls back to the primary role
	reader := userWithRoles(models.RoleReader)
	a = NewAuthContext(Values{Role: models.RoleAuthor, OriginalRole: models.RoleAdmin}, reader)
	assert.Equal(t, models.RoleReader, a.Role)
	assert.Empty(t, a.OriginalRole)
	assert.Equal(t, "Dhaka", a.City)
	assert.True(t, a.Is(models.RoleAdmin, models.RoleReader))
	assert.False(t, a.Is(models.RoleAuthor))
}

func TestDashboardPath(t *testing.T) {
	assert.Equal(t, "/admin/dashboard", DashboardPath(models.RoleAdmin))
	assert.Equal(t, "/author/dashboard", DashboardPath(models.RoleAuthor))
	assert.Equal(t, "/reader/dashboard", DashboardPath(models.RoleReader))
	assert.Equal(t, "/login", DashboardPath(""))
}
