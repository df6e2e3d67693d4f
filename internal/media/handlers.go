// Package media exposes the per-item endpoints: availability status,
// Overseerr request proxying, and explicit feedback.
package media

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/HansKDev/sagarr/internal/overseerr"
	"github.com/HansKDev/sagarr/internal/preferences"
)

// Handlers provides HTTP handlers for media operations.
type Handlers struct {
	preferences *preferences.Service
	overseerr   *overseerr.Client
	logger      zerolog.Logger
}

// NewHandlers creates a new media handlers instance.
func NewHandlers(prefService *preferences.Service, overseerrClient *overseerr.Client, logger zerolog.Logger) *Handlers {
	return &Handlers{
		preferences: prefService,
		overseerr:   overseerrClient,
		logger:      logger.With().Str("component", "media").Logger(),
	}
}

// RegisterRoutes registers media routes on an Echo group.
func (h *Handlers) RegisterRoutes(g *echo.Group) {
	g.GET("/:id/status", h.Status)
	g.POST("/:id/request", h.Request)
	g.POST("/:id/rate", h.Rate)
	g.DELETE("/:id/rate", h.Unrate)
}

type statusResponse struct {
	TmdbID int64  `json:"tmdbId"`
	Status string `json:"status"`
}

type requestBody struct {
	MediaType string `json:"mediaType"`
}

type rateBody struct {
	Rating    string `json:"rating"` // "up", "down" or "seen"
	MediaType string `json:"mediaType"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// Status returns availability for a TMDB item based on Overseerr data.
// Availability failures degrade to "unknown" rather than erroring.
// GET /api/v1/media/:id/status
func (h *Handlers) Status(c echo.Context) error {
	tmdbID, err := parseID(c)
	if err != nil {
		return err
	}

	mediaType := c.QueryParam("mediaType")
	if mediaType == "" {
		mediaType = "movie"
	}

	status, err := h.overseerr.CheckAvailability(c.Request().Context(), tmdbID, mediaType)
	if err != nil {
		if !errors.Is(err, overseerr.ErrNotConfigured) {
			h.logger.Warn().Err(err).Int64("tmdbId", tmdbID).Msg("Availability check failed")
		}
		status = overseerr.StatusUnknown
	}

	return c.JSON(http.StatusOK, statusResponse{TmdbID: tmdbID, Status: status})
}

// Request proxies a media request to Overseerr and records a
// "requested" feedback row so the item is never re-suggested.
// POST /api/v1/media/:id/request
func (h *Handlers) Request(c echo.Context) error {
	userID, ok := c.Get("userID").(int64)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "not authenticated")
	}

	tmdbID, err := parseID(c)
	if err != nil {
		return err
	}

	var body requestBody
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if body.MediaType == "" {
		body.MediaType = "movie"
	}

	ctx := c.Request().Context()
	if err := h.overseerr.RequestMedia(ctx, tmdbID, body.MediaType); err != nil {
		if errors.Is(err, overseerr.ErrNotConfigured) {
			return c.JSON(http.StatusOK, messageResponse{Message: "Overseerr is not configured on the server."})
		}
		h.logger.Error().Err(err).Int64("tmdbId", tmdbID).Msg("Overseerr request failed")
		return c.JSON(http.StatusOK, messageResponse{Message: "Failed to create Overseerr request."})
	}

	if err := h.preferences.Rate(ctx, userID, tmdbID, body.MediaType, preferences.RatingRequested); err != nil {
		h.logger.Error().Err(err).Int64("tmdbId", tmdbID).Msg("Failed to store requested feedback")
	}

	return c.JSON(http.StatusOK, messageResponse{Message: "Request submitted"})
}

// Rate stores thumbs up / down / seen feedback for an item.
// POST /api/v1/media/:id/rate
func (h *Handlers) Rate(c echo.Context) error {
	userID, ok := c.Get("userID").(int64)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "not authenticated")
	}

	tmdbID, err := parseID(c)
	if err != nil {
		return err
	}

	var body rateBody
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	var rating preferences.Rating
	switch body.Rating {
	case "up":
		rating = preferences.RatingLike
	case "down":
		rating = preferences.RatingDislike
	case "seen":
		rating = preferences.RatingSeen
	default:
		return echo.NewHTTPError(http.StatusBadRequest, "rating must be up, down or seen")
	}

	if err := h.preferences.Rate(c.Request().Context(), userID, tmdbID, body.MediaType, rating); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, messageResponse{Message: "Rating saved"})
}

// Unrate removes feedback for an item.
// DELETE /api/v1/media/:id/rate
func (h *Handlers) Unrate(c echo.Context) error {
	userID, ok := c.Get("userID").(int64)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "not authenticated")
	}

	tmdbID, err := parseID(c)
	if err != nil {
		return err
	}

	if err := h.preferences.Unrate(c.Request().Context(), userID, tmdbID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.NoContent(http.StatusNoContent)
}

func parseID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid tmdb id")
	}
	return id, nil
}
