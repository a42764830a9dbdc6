package handlers

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestContactRedirectsToThankYou(t *testing.T) {
	e := newTestEcho(t)
	NewPagesHandler(zap.NewNop()).RegisterPageRoutes(e.Group(""))

	rec := postForm(e, "/contact", url.Values{"name": {"Ada"}, "email": {"ada@example.com"}, "message": {"Hi"}})

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/thank-you", rec.Header().Get(echo.HeaderLocation))
}

func TestContactRequiresMessage(t *testing.T) {
	e := newTestEcho(t)
	NewPagesHandler(zap.NewNop()).RegisterPageRoutes(e.Group(""))

	rec := postForm(e, "/contact", url.Values{"name": {"Ada"}, "message": {" "}})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Message is required")
}

func TestIndexShowsSignInLinks(t *testing.T) {
	e := newTestEcho(t)
	NewPagesHandler(zap.NewNop()).RegisterPageRoutes(e.Group(""))
	signedIn := echo.New()
	signedIn.Renderer = e.Renderer
	NewPagesHandler(zap.NewNop()).RegisterPageRoutes(signedIn.Group("", withAuth(readerAuth(1))))

	assert.Contains(t, get(e, "/").Body.String(), `href="/login"`)
	assert.Contains(t, get(signedIn, "/").Body.String(), `href="/dashboard"`)
}
