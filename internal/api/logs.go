package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/HansKDev/sagarr/internal/logger"
)

// LogsProvider provides access to buffered log entries.
type LogsProvider interface {
	Recent() []logger.Entry
}

// LogsHandlers handles log-related HTTP endpoints.
type LogsHandlers struct {
	provider LogsProvider
}

// NewLogsHandlers creates a new logs handlers instance. A nil provider
// (streaming disabled) serves empty results.
func NewLogsHandlers(provider *logger.Broadcaster) *LogsHandlers {
	if provider == nil {
		return &LogsHandlers{}
	}
	return &LogsHandlers{provider: provider}
}

// RegisterRoutes registers log routes on the given group.
func (h *LogsHandlers) RegisterRoutes(g *echo.Group) {
	g.GET("", h.GetRecentLogs)
}

// GetRecentLogs returns recent log entries from the ring buffer.
// GET /api/v1/admin/logs
func (h *LogsHandlers) GetRecentLogs(c echo.Context) error {
	if h.provider == nil {
		return c.JSON(http.StatusOK, []logger.Entry{})
	}

	logs := h.provider.Recent()
	if logs == nil {
		logs = []logger.Entry{}
	}
	return c.JSON(http.StatusOK, logs)
}
