//nolint:revive // Package name 'api' is intentionally generic for the HTTP API layer
package api

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/HansKDev/sagarr/internal/auth"
	"github.com/HansKDev/sagarr/internal/config"
	"github.com/HansKDev/sagarr/internal/logger"
	"github.com/HansKDev/sagarr/internal/media"
	"github.com/HansKDev/sagarr/internal/metadata/tmdb"
	"github.com/HansKDev/sagarr/internal/overseerr"
	"github.com/HansKDev/sagarr/internal/preferences"
	"github.com/HansKDev/sagarr/internal/recommend"
	"github.com/HansKDev/sagarr/internal/scheduler"
	"github.com/HansKDev/sagarr/internal/settings"
	"github.com/HansKDev/sagarr/internal/tautulli"
	"github.com/HansKDev/sagarr/internal/users"
	"github.com/HansKDev/sagarr/internal/websocket"
)

// Server handles HTTP requests for the Sagarr API.
type Server struct {
	echo      *echo.Echo
	db        *sql.DB
	hub       *websocket.Hub
	logger    *logger.Logger
	cfg       *config.Config
	scheduler *scheduler.Scheduler
	startTime time.Time

	// Services
	settingsService    *settings.Service
	usersService       *users.Service
	authService        *auth.Service
	preferencesService *preferences.Service
	tautulliClient     *tautulli.Client
	tmdbClient         *tmdb.Client
	overseerrClient    *overseerr.Client
	recommendService   *recommend.Service
}

// NewServer creates a new API server instance.
func NewServer(db *sql.DB, hub *websocket.Hub, cfg *config.Config, log *logger.Logger) (*Server, error) {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{
		echo:      e,
		db:        db,
		hub:       hub,
		logger:    log,
		cfg:       cfg,
		startTime: time.Now(),
	}

	zl := log.Logger

	s.settingsService = settings.NewService(db, zl)
	s.usersService = users.NewService(db, zl)

	authService, err := auth.NewService(s.usersService, cfg.Auth.JWTSecret)
	if err != nil {
		return nil, err
	}
	s.authService = authService

	s.preferencesService = preferences.NewService(db, zl)
	s.tautulliClient = tautulli.NewClient(s.settingsService, zl)
	s.tmdbClient = tmdb.NewClient(s.settingsService, zl)
	s.overseerrClient = overseerr.NewClient(s.settingsService, zl)

	s.recommendService = recommend.NewService(
		s.usersService,
		s.preferencesService,
		s.settingsService,
		s.tautulliClient,
		s.tmdbClient,
		recommend.NewStore(db),
		hub,
		zl,
	)

	s.setupMiddleware()
	s.setupRoutes()

	return s, nil
}

// SetScheduler attaches the scheduler so the admin task endpoints can
// list and trigger jobs.
func (s *Server) SetScheduler(sched *scheduler.Scheduler) {
	s.scheduler = sched
}

// RecommendService returns the recommendation service for task wiring.
func (s *Server) RecommendService() *recommend.Service {
	return s.recommendService
}

// SettingsService returns the settings service for seeding on startup.
func (s *Server) SettingsService() *settings.Service {
	return s.settingsService
}

// setupMiddleware configures Echo middleware.
func (s *Server) setupMiddleware() {
	s.echo.Use(middleware.Recover())
	s.echo.Use(middleware.RequestID())

	s.echo.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	s.echo.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogMethod:   true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			if v.Error != nil {
				s.logger.Error().
					Str("method", v.Method).
					Str("uri", v.URI).
					Int("status", v.Status).
					Dur("latency", v.Latency).
					Err(v.Error).
					Msg("request error")
			} else {
				s.logger.Info().
					Str("method", v.Method).
					Str("uri", v.URI).
					Int("status", v.Status).
					Dur("latency", v.Latency).
					Msg("request")
			}
			return nil
		},
	}))

	s.echo.Use(middleware.GzipWithConfig(middleware.GzipConfig{
		Level: 5,
		Skipper: func(c echo.Context) bool {
			// Skip compression for WebSocket
			return c.Request().Header.Get("Upgrade") == "websocket"
		},
	}))
}

// setupRoutes configures API routes.
func (s *Server) setupRoutes() {
	s.echo.GET("/health", s.healthCheck)

	api := s.echo.Group("/api/v1")
	api.GET("/status", s.getStatus)

	// Public auth routes
	authHandlers := auth.NewHandlers(s.authService, s.usersService)
	authHandlers.RegisterRoutes(api.Group("/auth"))

	// All remaining routes require a session
	protected := api.Group("", auth.Middleware(s.authService))
	authHandlers.RegisterProtectedRoutes(protected.Group("/auth"))

	// Recommendations
	recommendHandlers := recommend.NewHandlers(s.recommendService)
	recommendHandlers.RegisterRoutes(protected)

	// Per-item media routes (status, request, feedback)
	mediaHandlers := media.NewHandlers(s.preferencesService, s.overseerrClient, s.logger.Logger)
	mediaHandlers.RegisterRoutes(protected.Group("/media"))

	// Self-service user settings
	userHandlers := users.NewHandlers(s.usersService, s.tautulliClient)
	userHandlers.RegisterUserRoutes(protected.Group("/user"))

	// Live event stream
	protected.GET("/ws", s.hub.HandleWebSocket)

	// Admin routes
	admin := protected.Group("/admin", auth.RequireAdmin())
	userHandlers.RegisterAdminRoutes(admin)

	settingsHandlers := settings.NewHandlers(s.settingsService)
	settingsHandlers.RegisterRoutes(admin)

	logsHandlers := NewLogsHandlers(s.logger.Broadcaster())
	logsHandlers.RegisterRoutes(admin.Group("/logs"))

	admin.GET("/tasks", s.listTasks)
	admin.POST("/tasks/:id/run", s.runTask)
}

// Start begins listening for HTTP requests.
func (s *Server) Start(address string) error {
	s.logger.Info().Str("address", address).Msg("starting HTTP server")
	return s.echo.Start(address)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info().Msg("shutting down HTTP server")
	return s.echo.Shutdown(ctx)
}

// Echo returns the underlying Echo instance (for serving static files).
func (s *Server) Echo() *echo.Echo {
	return s.echo
}

// --- Handler implementations ---

func (s *Server) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) getStatus(c echo.Context) error {
	ctx := c.Request().Context()

	userCount, _ := s.usersService.Count(ctx)

	return c.JSON(http.StatusOK, map[string]interface{}{
		"version":   config.Version,
		"startTime": s.startTime.Format(time.RFC3339),
		"userCount": userCount,
		"clients":   s.hub.ClientCount(),
	})
}

func (s *Server) listTasks(c echo.Context) error {
	if s.scheduler == nil {
		return c.JSON(http.StatusOK, []scheduler.TaskInfo{})
	}
	return c.JSON(http.StatusOK, s.scheduler.ListTasks())
}

func (s *Server) runTask(c echo.Context) error {
	if s.scheduler == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "scheduler is not running")
	}

	if err := s.scheduler.RunNow(c.Param("id")); err != nil {
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	}
	return c.JSON(http.StatusAccepted, map[string]string{"status": "started"})
}
