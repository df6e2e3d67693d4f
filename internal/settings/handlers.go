package settings

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Handlers provides HTTP handlers for admin settings.
type Handlers struct {
	service *Service
}

// NewHandlers creates a new settings handlers instance.
func NewHandlers(service *Service) *Handlers {
	return &Handlers{service: service}
}

// RegisterRoutes registers settings routes on an Echo group.
func (h *Handlers) RegisterRoutes(g *echo.Group) {
	g.GET("/settings", h.Get)
	g.POST("/settings", h.Update)
}

// Get returns current service settings with secrets masked.
// GET /api/v1/admin/settings
func (h *Handlers) Get(c echo.Context) error {
	snapshot, err := h.service.Snapshot(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, snapshot)
}

// Update applies service settings changes.
// POST /api/v1/admin/settings
func (h *Handlers) Update(c echo.Context) error {
	var input UpdateInput
	if err := c.Bind(&input); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := h.service.Update(c.Request().Context(), input); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, map[string]string{"status": "updated"})
}
