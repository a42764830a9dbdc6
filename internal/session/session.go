// Package session keeps the signed-in user in a gorilla session and exposes
// the request-scoped AuthContext built from it.
package session

import (
	"fmt"
	"net/http"

	"github.com/anonto42/story-creator/backend/internal/models"
	"github.com/gorilla/sessions"
	"github.com/labstack/echo/v4"
)

// Name is the session cookie name.
const Name = "story_session"

const (
	keyUserID       = "user_id"
	keyUsername     = "username"
	keyCity         = "city"
	keyRole         = "user_role"
	keyOriginalRole = "original_role"
	keyCaptcha      = "captcha"
)

// Config describes the session store.
type Config struct {
	Secret string
	Dir    string // filesystem store when set, cookie store otherwise
	MaxAge int
	Secure bool
}

// NewStore builds the session store described by cfg.
func NewStore(cfg Config) sessions.Store {
	opts := &sessions.Options{
		Path:     "/",
		MaxAge:   cfg.MaxAge,
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	}
	if cfg.Dir != "" {
		store := sessions.NewFilesystemStore(cfg.Dir, []byte(cfg.Secret))
		store.Options = opts
		store.MaxLength(0)
		return store
	}
	store := sessions.NewCookieStore([]byte(cfg.Secret))
	store.Options = opts
	return store
}

// Values is the decoded content of a session.
type Values struct {
	UserID       uint
	Username     string
	City         string
	Role         string
	OriginalRole string
}

// Manager reads and writes the session of a request.
type Manager struct {
	store sessions.Store
}

func NewManager(store sessions.Store) *Manager {
	return &Manager{store: store}
}

func (m *Manager) get(c echo.Context) (*sessions.Session, error) {
	sess, err := m.store.Get(c.Request(), Name)
	if err != nil && sess == nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	// A cookie that fails to decode yields a fresh session alongside the error.
	return sess, nil
}

func (m *Manager) save(c echo.Context, sess *sessions.Session) error {
	if err := sess.Save(c.Request(), c.Response()); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Load returns the session values. ok is false when nobody is signed in.
func (m *Manager) Load(c echo.Context) (Values, bool, error) {
	sess, err := m.get(c)
	if err != nil {
		return Values{}, false, err
	}
	id, ok := sess.Values[keyUserID].(uint)
	if !ok || id == 0 {
		return Values{}, false, nil
	}
	v := Values{UserID: id}
	v.Username, _ = sess.Values[keyUsername].(string)
	v.City, _ = sess.Values[keyCity].(string)
	v.Role, _ = sess.Values[keyRole].(string)
	v.OriginalRole, _ = sess.Values[keyOriginalRole].(string)
	return v, true, nil
}

// Login stores user in the session with its primary role.
func (m *Manager) Login(c echo.Context, user *models.User) (string, error) {
	sess, err := m.get(c)
	if err != nil {
		return "", err
	}
	role := user.PrimaryRole()
	sess.Values[keyUserID] = user.ID
	sess.Values[keyUsername] = user.Username
	sess.Values[keyCity] = user.CityName()
	sess.Values[keyRole] = role
	delete(sess.Values, keyOriginalRole)
	delete(sess.Values, keyCaptcha)
	return role, m.save(c, sess)
}

// SetRole changes the active role. An empty originalRole clears the
// dashboard switch marker.
func (m *Manager) SetRole(c echo.Context, role, originalRole string) error {
	sess, err := m.get(c)
	if err != nil {
		return err
	}
	sess.Values[keyRole] = role
	if originalRole == "" {
		delete(sess.Values, keyOriginalRole)
	} else {
		sess.Values[keyOriginalRole] = originalRole
	}
	return m.save(c, sess)
}

// Clear drops every value and expires the cookie.
func (m *Manager) Clear(c echo.Context) error {
	sess, err := m.get(c)
	if err != nil {
		return err
	}
	sess.Values = map[interface{}]interface{}{}
	sess.Options.MaxAge = -1
	return m.save(c, sess)
}

// RotateCaptcha stores a fresh captcha and returns it.
func (m *Manager) RotateCaptcha(c echo.Context) (string, error) {
	sess, err := m.get(c)
	if err != nil {
		return "", err
	}
	code, err := NewCaptcha()
	if err != nil {
		return "", err
	}
	sess.Values[keyCaptcha] = code
	return code, m.save(c, sess)
}

// Captcha returns the captcha currently expected from the login form.
func (m *Manager) Captcha(c echo.Context) string {
	sess, err := m.get(c)
	if err != nil {
		return ""
	}
	code, _ := sess.Values[keyCaptcha].(string)
	return code
}
