package httpserver

import (
	"log/slog"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/pscheid92/kudos/internal/platform/correlation"
	apperrors "github.com/pscheid92/kudos/internal/platform/errors"
)

func (s *Server) registerRoutes() {
	e := s.echo

	e.Use(middleware.Recover())
	e.Use(correlationMiddleware())
	e.Use(requestLogger())
	if s.httpMetrics != nil {
		e.Use(s.httpMetrics.Middleware())
		e.Use(apperrors.Middleware(s.httpMetrics.ErrorsTotal))
	} else {
		e.Use(apperrors.Middleware(nil))
	}

	e.GET("/healthz", s.handleHealthz)
	if s.metricsHandler != nil {
		e.GET("/metrics", echo.WrapHandler(s.metricsHandler))
	}

	api := e.Group("/api")

	api.POST("/content/:id/reactions/toggle", s.handleToggleReaction)

	api.POST("/actors", s.handleCreateActor)
	api.GET("/actors", s.handleListActors)
	api.GET("/actors/:id", s.handleGetActor)
	api.GET("/actors/:id/karma", s.handleActorKarma)

	api.POST("/posts", s.handleCreatePost)
	api.GET("/posts", s.handleListPosts)
	api.GET("/posts/:id", s.handleGetPost)
	api.POST("/posts/:id/comments", s.handleCreateComment)
	api.GET("/posts/:id/comments", s.handleCommentTree)

	api.GET("/leaderboard", s.handleLeaderboard)
}

// correlationMiddleware stamps every request context with a correlation ID,
// honoring one supplied by the caller.
func correlationMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := c.Request().Header.Get("X-Correlation-ID")
			if id == "" {
				id = correlation.NewID()
			}

			ctx := correlation.WithID(c.Request().Context(), id)
			c.SetRequest(c.Request().WithContext(ctx))
			c.Response().Header().Set("X-Correlation-ID", id)

			return next(c)
		}
	}
}

func requestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:      true,
		LogStatus:   true,
		LogMethod:   true,
		LogLatency:  true,
		LogRemoteIP: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			if c.Path() == "/healthz" || c.Path() == "/metrics" {
				return nil
			}
			slog.InfoContext(c.Request().Context(), "Request",
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency_ms", v.Latency.Milliseconds(),
				"remote_ip", v.RemoteIP,
			)
			return nil
		},
	})
}
