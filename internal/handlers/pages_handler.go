package handlers

import (
	"net/http"
	"strings"

	"github.com/anonto42/story-creator/backend/internal/session"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// PagesHandler serves the static marketing pages and the contact form
type PagesHandler struct {
	logger *zap.Logger
}

func NewPagesHandler(logger *zap.Logger) *PagesHandler {
	return &PagesHandler{logger: logger.Named("PagesHandler")}
}

// RegisterPageRoutes registers the public pages
func (h *PagesHandler) RegisterPageRoutes(g *echo.Group) {
	g.GET("/", h.Index)
	g.GET("/about", h.About)
	g.GET("/contact", h.ContactPage)
	g.POST("/contact", h.Contact)
	g.GET("/thank-you", h.ThankYou)
}

type contactRequest struct {
	Name    string `form:"name"`
	Email   string `form:"email"`
	Message string `form:"message"`
}

func (h *PagesHandler) Index(c echo.Context) error {
	return c.Render(http.StatusOK, "index.html", echo.Map{"SignedIn": session.FromContext(c) != nil})
}

func (h *PagesHandler) About(c echo.Context) error {
	return c.Render(http.StatusOK, "about.html", echo.Map{})
}

func (h *PagesHandler) ContactPage(c echo.Context) error {
	return c.Render(http.StatusOK, "contact.html", echo.Map{})
}

// Contact logs the submitted message; nothing is stored.
func (h *PagesHandler) Contact(c echo.Context) error {
	var req contactRequest
	if err := c.Bind(&req); err != nil {
		return c.Render(http.StatusBadRequest, "contact.html", echo.Map{"Error": "Invalid form submission"})
	}
	if strings.TrimSpace(req.Message) == "" {
		return c.Render(http.StatusBadRequest, "contact.html", echo.Map{"Error": "Message is required"})
	}
	h.logger.Info("Contact message received",
		zap.String("name", strings.TrimSpace(req.Name)),
		zap.String("email", strings.TrimSpace(req.Email)),
		zap.String("message", strings.TrimSpace(req.Message)),
	)
	return c.Redirect(http.StatusFound, "/thank-you")
}

func (h *PagesHandler) ThankYou(c echo.Context) error {
	return c.Render(http.StatusOK, "thank_you.html", echo.Map{})
}
