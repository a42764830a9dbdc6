package handlers

import (
	"context"
	"net/http"

	"github.com/anonto42/story-creator/backend/pkg/geo"
	"github.com/labstack/echo/v4"
)

// PlaceLookup is the part of geo.Client used by the location pickers.
type PlaceLookup interface {
	Countries(ctx context.Context) []geo.Place
	States(ctx context.Context, country string) []geo.Place
	Cities(ctx context.Context, country, state string) []geo.Place
}

// GeoHandler proxies the country, state and city lookups of the registration
// and account forms. Upstream failures answer an empty list.
type GeoHandler struct {
	places PlaceLookup
}

func NewGeoHandler(places PlaceLookup) *GeoHandler {
	return &GeoHandler{places: places}
}

// RegisterGeoRoutes registers routes under /api
func (h *GeoHandler) RegisterGeoRoutes(g *echo.Group) {
	g.GET("/countries", h.Countries)
	g.GET("/states/:country", h.States)
	g.GET("/cities/:country/:state", h.Cities)
}

func (h *GeoHandler) Countries(c echo.Context) error {
	return c.JSON(http.StatusOK, h.places.Countries(c.Request().Context()))
}

func (h *GeoHandler) States(c echo.Context) error {
	return c.JSON(http.StatusOK, h.places.States(c.Request().Context(), c.Param("country")))
}

func (h *GeoHandler) Cities(c echo.Context) error {
	return c.JSON(http.StatusOK, h.places.Cities(c.Request().Context(), c.Param("country"), c.Param("state")))
}
