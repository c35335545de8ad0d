// Package httpapi serves the catalog over HTTP using echo.
//
// Successful responses use the envelope {"success": true, "data": ...}; errors
// use {"success": false, "error": "<message>"} plus error specific fields.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Sternrassler/catalog-api/pkg/cache"
	"github.com/Sternrassler/catalog-api/pkg/catalog"
	"github.com/Sternrassler/catalog-api/pkg/metrics"
)

const (
	// ServiceName is reported by the root endpoint.
	ServiceName = "API Vanesa Bodeguita - Funcionando correctamente"

	// Version is reported by the root endpoint.
	Version = "1.0.0"

	defaultBodyLimit = "10M"
)

// Config holds server configuration.
type Config struct {
	// AllowedOrigins for CORS (default: "*").
	AllowedOrigins []string

	// BodyLimit caps request bodies, e.g. "10M" (default: "10M").
	BodyLimit string

	// Clock supplies response timestamps and uptime (default: wall clock).
	Clock cache.Clock

	Logger *zerolog.Logger
}

// Server is the HTTP surface of the catalog.
type Server struct {
	echo    *echo.Echo
	catalog *catalog.Service
	cache   cache.Store
	clock   cache.Clock
	started time.Time
	logger  zerolog.Logger
}

// New creates the server and registers every route.
func New(svc *catalog.Service, store cache.Store, cfg Config) *Server {
	if svc == nil || store == nil {
		panic("httpapi: catalog service and cache store are required")
	}
	if len(cfg.AllowedOrigins) == 0 {
		cfg.AllowedOrigins = []string{"*"}
	}
	if cfg.BodyLimit == "" {
		cfg.BodyLimit = defaultBodyLimit
	}
	if cfg.Clock == nil {
		cfg.Clock = cache.SystemClock
	}

	var logger zerolog.Logger
	if cfg.Logger != nil {
		logger = *cfg.Logger
	} else {
		logger = log.With().Str("component", "http").Logger()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{
		echo:    e,
		catalog: svc,
		cache:   store,
		clock:   cfg.Clock,
		started: cfg.Clock.Now(),
		logger:  logger,
	}

	e.HTTPErrorHandler = s.handleError
	e.Use(s.requestLogger())
	e.Use(middleware.Recover())
	e.Use(middleware.Secure())
	e.Use(middleware.Gzip())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowCredentials: true,
	}))
	e.Use(middleware.BodyLimit(cfg.BodyLimit))

	s.routes()
	return s
}

func (s *Server) routes() {
	s.echo.GET("/", s.handleRoot)
	s.echo.GET("/health", s.handleHealth)
	s.echo.GET("/metrics", echo.WrapHandler(metrics.Handler()))

	products := s.echo.Group("/api/productos")
	products.GET("", s.handleListProducts)
	products.GET("/inicio", s.handleHome)
	products.GET("/grupo", s.handleGroup)
	products.GET("/buscar", s.handleSearch)
	products.GET("/:id", s.handleProduct)

	categories := s.echo.Group("/api/categorias")
	categories.GET("", s.handleListCategories)
	categories.GET("/:id", s.handleCategory)

	admin := s.echo.Group("/api/cache")
	admin.GET("/stats", s.handleCacheStats)
	admin.DELETE("/clear", s.handleCacheClear)
	admin.DELETE("/:key", s.handleCacheDelete)
	admin.POST("/clean", s.handleCacheClean)
	admin.POST("/refresh", s.handleCacheRefresh)
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}

// Start listens on addr until Shutdown. It returns http.ErrServerClosed after a shutdown.
func (s *Server) Start(addr string) error {
	s.logger.Info().Str("addr", addr).Msg("HTTP server listening")
	return s.echo.Start(addr)
}

// Shutdown stops accepting requests and waits for in-flight ones.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func (s *Server) requestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			metrics.ObserveRequest(v.Method, c.Path(), v.Status, v.Latency)

			event := s.logger.Info()
			if v.Status >= http.StatusInternalServerError {
				event = s.logger.Error().Err(v.Error)
			}
			event.
				Str("method", v.Method).
				Str("path", v.URI).
				Int("status", v.Status).
				Dur("duration", v.Latency).
				Msg("Request served")
			return nil
		},
	})
}

// handleError renders catalog errors and echo errors in the response envelope.
func (s *Server) handleError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status, body := s.errorBody(err, c)
	if status >= http.StatusInternalServerError {
		s.logger.Error().Err(err).Str("path", c.Request().URL.Path).Msg("Request failed")
	}

	var writeErr error
	if c.Request().Method == http.MethodHead {
		writeErr = c.NoContent(status)
	} else {
		writeErr = c.JSON(status, body)
	}
	if writeErr != nil {
		s.logger.Error().Err(writeErr).Msg("Failed to write error response")
	}
}

func (s *Server) errorBody(err error, c echo.Context) (int, echo.Map) {
	if catErr, ok := catalog.AsError(err); ok {
		body := echo.Map{"success": false, "error": catErr.Message}
		for k, v := range catErr.Details {
			body[k] = v
		}
		switch catErr.Kind {
		case catalog.KindNotFound:
			return http.StatusNotFound, body
		case catalog.KindInvalidInput:
			return http.StatusBadRequest, body
		default:
			if catErr.Err != nil {
				body["message"] = catErr.Err.Error()
			}
			return http.StatusInternalServerError, body
		}
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		switch he.Code {
		case http.StatusNotFound, http.StatusMethodNotAllowed:
			return http.StatusNotFound, echo.Map{
				"error": "Ruta no encontrada",
				"path":  c.Request().URL.RequestURI(),
			}
		default:
			return he.Code, echo.Map{"success": false, "error": httpErrorMessage(he)}
		}
	}

	return http.StatusInternalServerError, echo.Map{
		"error":   "Error interno del servidor",
		"message": "Algo salió mal",
	}
}

func httpErrorMessage(he *echo.HTTPError) string {
	if msg, ok := he.Message.(string); ok {
		return msg
	}
	return strings.ToLower(http.StatusText(he.Code))
}

func (s *Server) handleRoot(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"message": ServiceName,
		"version": Version,
		"endpoints": echo.Map{
			"productos":  "/api/productos",
			"categorias": "/api/categorias",
			"cache":      "/api/cache",
			"health":     "/health",
		},
	})
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"status":    "OK",
		"timestamp": s.clock.Now(),
		"uptime":    s.uptime(),
	})
}

// uptime in seconds.
func (s *Server) uptime() float64 {
	return s.clock.Now().Sub(s.started).Seconds()
}
