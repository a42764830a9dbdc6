package handlers

import (
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/anonto42/story-creator/backend/internal/models"
	"github.com/anonto42/story-creator/backend/internal/session"
	"github.com/anonto42/story-creator/backend/internal/web"
	"github.com/anonto42/story-creator/backend/pkg/config"
	"github.com/anonto42/story-creator/backend/pkg/storage"
	"github.com/labstack/echo/v4"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestEcho(t *testing.T) *echo.Echo {
	t.Helper()
	renderer, err := web.NewTemplateRenderer(zap.NewNop())
	require.NoError(t, err)

	e := echo.New()
	e.Renderer = renderer
	e.HTTPErrorHandler = config.ErrorHandler(zap.NewNop())
	return e
}

// memUploads keeps uploads in memory and lets tests look at the backing fs.
type memUploads struct {
	*storage.Uploads
	fs afero.Fs
}

func newMemUploads(t *testing.T) *memUploads {
	t.Helper()
	fs := afero.NewMemMapFs()
	uploads, err := storage.NewUploads(fs, "static/uploads")
	require.NoError(t, err)
	return &memUploads{Uploads: uploads, fs: fs}
}

// has reports whether the stored upload is still on disk.
func (m *memUploads) has(stored string) bool {
	ok, err := afero.Exists(m.fs, m.Resolve(stored))
	return err == nil && ok
}

func newTestSessions() *session.Manager {
	return session.NewManager(session.NewStore(session.Config{Secret: "test-secret", MaxAge: 3600}))
}

// withAuth attaches a fixed caller to every request.
func withAuth(auth *session.AuthContext) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			session.SetContext(c, auth)
			return next(c)
		}
	}
}

func readerAuth(id uint) *session.AuthContext {
	return &session.AuthContext{UserID: id, Username: "reader", Role: models.RoleReader, Roles: models.NewRoleSet(models.RoleReader)}
}

func authorAuth(id uint) *session.AuthContext {
	return &session.AuthContext{UserID: id, Username: "author", Role: models.RoleAuthor, Roles: models.NewRoleSet(models.RoleReader, models.RoleAuthor)}
}

func adminAuth(id uint) *session.AuthContext {
	return &session.AuthContext{UserID: id, Username: "admin", Role: models.RoleAdmin, Roles: models.NewRoleSet(models.RoleReader, models.RoleAdmin)}
}

func userWithRoles(id uint, roles ...string) *models.User {
	u := &models.User{ID: id, Username: "user", Email: "user@example.com", Status: models.StatusActive}
	for _, r := range roles {
		u.Roles = append(u.Roles, models.UserRole{UserID: id, Role: r})
	}
	return u
}

// signIn returns the cookies of a session logged in as user.
func signIn(t *testing.T, sm *session.Manager, user *models.User) []*http.Cookie {
	t.Helper()
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	_, err := sm.Login(c, user)
	require.NoError(t, err)
	return rec.Result().Cookies()
}

// sessionValues decodes the session carried by cookies.
func sessionValues(t *testing.T, sm *session.Manager, cookies []*http.Cookie) (session.Values, bool) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	v, ok, err := sm.Load(echo.New().NewContext(req, httptest.NewRecorder()))
	require.NoError(t, err)
	return v, ok
}

type request struct {
	method      string
	path        string
	body        io.Reader
	contentType string
	cookies     []*http.Cookie
}

func serve(e *echo.Echo, r request) *httptest.ResponseRecorder {
	req := httptest.NewRequest(r.method, r.path, r.body)
	if r.contentType != "" {
		req.Header.Set(echo.HeaderContentType, r.contentType)
	}
	for _, ck := range r.cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func get(e *echo.Echo, path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	return serve(e, request{method: http.MethodGet, path: path, cookies: cookies})
}

func post(e *echo.Echo, path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	return serve(e, request{method: http.MethodPost, path: path, cookies: cookies})
}

func postForm(e *echo.Echo, path string, values url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	return serve(e, request{
		method:      http.MethodPost,
		path:        path,
		body:        strings.NewReader(values.Encode()),
		contentType: echo.MIMEApplicationForm,
		cookies:     cookies,
	})
}

func postJSON(e *echo.Echo, path, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	return serve(e, request{
		method:      http.MethodPost,
		path:        path,
		body:        strings.NewReader(body),
		contentType: echo.MIMEApplicationJSON,
		cookies:     cookies,
	})
}

// postMultipart sends fields plus one file under fileField.
func postMultipart(t *testing.T, e *echo.Echo, path string, fields map[string]string, fileField, fileName, content string) *httptest.ResponseRecorder {
	t.Helper()
	var buf strings.Builder
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if fileField != "" {
		fw, err := w.CreateFormFile(fileField, fileName)
		require.NoError(t, err)
		_, err = io.WriteString(fw, content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return serve(e, request{
		method:      http.MethodPost,
		path:        path,
		body:        strings.NewReader(buf.String()),
		contentType: w.FormDataContentType(),
	})
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body
}
