package auth

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/HansKDev/sagarr/internal/users"
)

// Handlers provides HTTP handlers for authentication.
type Handlers struct {
	service *Service
	users   *users.Service
}

// NewHandlers creates a new auth handlers instance.
func NewHandlers(service *Service, userService *users.Service) *Handlers {
	return &Handlers{service: service, users: userService}
}

// RegisterRoutes registers public auth routes on an Echo group.
func (h *Handlers) RegisterRoutes(g *echo.Group) {
	g.POST("/register", h.Register)
	g.POST("/login", h.Login)
}

// RegisterProtectedRoutes registers auth routes requiring a session.
func (h *Handlers) RegisterProtectedRoutes(g *echo.Group) {
	g.GET("/me", h.Me)
}

type credentialsRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	AccessToken string      `json:"accessToken"`
	TokenType   string      `json:"tokenType"`
	User        *users.User `json:"user"`
}

// Register creates an account; the first account becomes the admin.
// POST /api/v1/auth/register
func (h *Handlers) Register(c echo.Context) error {
	var req credentialsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	user, err := h.service.Register(c.Request().Context(), req.Username, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidCredentials):
			return echo.NewHTTPError(http.StatusBadRequest, "username and password are required")
		case errors.Is(err, users.ErrUsernameTaken):
			return echo.NewHTTPError(http.StatusConflict, "username is already taken")
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}

	token, err := h.service.GenerateToken(user)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusCreated, sessionResponse{
		AccessToken: token,
		TokenType:   "bearer",
		User:        user,
	})
}

// Login validates credentials and returns a session token.
// POST /api/v1/auth/login
func (h *Handlers) Login(c echo.Context) error {
	var req credentialsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	token, user, err := h.service.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid credentials")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, sessionResponse{
		AccessToken: token,
		TokenType:   "bearer",
		User:        user,
	})
}

// Me returns the current user.
// GET /api/v1/auth/me
func (h *Handlers) Me(c echo.Context) error {
	userID, ok := c.Get("userID").(int64)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "not authenticated")
	}

	user, err := h.users.GetByID(c.Request().Context(), userID)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "user not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, user)
}
