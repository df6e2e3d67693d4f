package recommend

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

// Handlers provides HTTP handlers for recommendations.
type Handlers struct {
	service *Service
}

// NewHandlers creates a new recommendations handlers instance.
func NewHandlers(service *Service) *Handlers {
	return &Handlers{service: service}
}

// RegisterRoutes registers recommendation routes on an Echo group.
func (h *Handlers) RegisterRoutes(g *echo.Group) {
	g.GET("/recommendations", h.Get)
	g.POST("/recommendations/refresh", h.Refresh)
}

// Get returns the user's enriched recommendations, generating them on
// first access.
// GET /api/v1/recommendations
func (h *Handlers) Get(c echo.Context) error {
	userID, ok := c.Get("userID").(int64)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "not authenticated")
	}

	response, err := h.service.Get(c.Request().Context(), userID)
	if err != nil {
		if errors.Is(err, ErrNotMapped) {
			return echo.NewHTTPError(http.StatusBadRequest, "user is not mapped to a Tautulli account")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, response)
}

// Refresh forces regeneration of the user's recommendations.
// POST /api/v1/recommendations/refresh
func (h *Handlers) Refresh(c echo.Context) error {
	userID, ok := c.Get("userID").(int64)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "not authenticated")
	}

	response, err := h.service.Refresh(c.Request().Context(), userID)
	if err != nil {
		if errors.Is(err, ErrNotMapped) {
			return echo.NewHTTPError(http.StatusBadRequest, "user is not mapped to a Tautulli account")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, response)
}
