package users

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/HansKDev/sagarr/internal/tautulli"
)

// Handlers provides HTTP handlers for user management.
type Handlers struct {
	service  *Service
	tautulli *tautulli.Client
}

// NewHandlers creates a new users handlers instance.
func NewHandlers(service *Service, tautulliClient *tautulli.Client) *Handlers {
	return &Handlers{service: service, tautulli: tautulliClient}
}

// RegisterAdminRoutes registers admin-only user routes on an Echo group.
func (h *Handlers) RegisterAdminRoutes(g *echo.Group) {
	g.GET("/users", h.List)
	g.POST("/users/:id/mapping", h.SetMapping)
	g.GET("/tautulli/users", h.ListTautulliUsers)
}

// RegisterUserRoutes registers self-service routes on an Echo group.
func (h *Handlers) RegisterUserRoutes(g *echo.Group) {
	g.GET("/settings", h.GetSettings)
	g.POST("/settings", h.UpdateSettings)
}

// List returns all users.
// GET /api/v1/admin/users
func (h *Handlers) List(c echo.Context) error {
	list, err := h.service.List(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, list)
}

// mappingRequest is the body for SetMapping. A null id clears the mapping.
type mappingRequest struct {
	TautulliUserID *int64 `json:"tautulliUserId"`
}

// SetMapping sets or clears a user's Tautulli identity mapping.
// POST /api/v1/admin/users/:id/mapping
func (h *Handlers) SetMapping(c echo.Context) error {
	userID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid user id")
	}

	var req mappingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := h.service.SetTautulliMapping(c.Request().Context(), userID, req.TautulliUserID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "user not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.NoContent(http.StatusNoContent)
}

// ListTautulliUsers proxies the Tautulli user list for the mapping UI.
// GET /api/v1/admin/tautulli/users
func (h *Handlers) ListTautulliUsers(c echo.Context) error {
	list, err := h.tautulli.GetUsers(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	}
	if list == nil {
		list = []tautulli.User{}
	}
	return c.JSON(http.StatusOK, list)
}

// GetSettings returns the current user's settings blob.
// GET /api/v1/user/settings
func (h *Handlers) GetSettings(c echo.Context) error {
	userID, ok := c.Get("userID").(int64)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "not authenticated")
	}

	settings, err := h.service.GetSettings(c.Request().Context(), userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "user not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, settings)
}

// UpdateSettings merges changes into the current user's settings blob.
// POST /api/v1/user/settings
func (h *Handlers) UpdateSettings(c echo.Context) error {
	userID, ok := c.Get("userID").(int64)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "not authenticated")
	}

	var input Settings
	if err := c.Bind(&input); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	updated, err := h.service.UpdateSettings(c.Request().Context(), userID, input)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, updated)
}
