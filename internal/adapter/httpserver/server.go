// Package httpserver exposes the engagement core over a thin JSON API.
//
// The core is format-agnostic; this adapter owns parsing, clamping of
// caller-supplied ranges, rate limiting, and retry of transient store
// failures. Actor identity travels in an explicit X-Actor-ID header - the
// core never reads ambient request state.
package httpserver

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/pscheid92/kudos/internal/adapter/metrics"
	"github.com/pscheid92/kudos/internal/app"
	"github.com/pscheid92/kudos/internal/domain"
	"github.com/pscheid92/kudos/internal/platform/config"
)

// appService is the slice of the application layer the server consumes.
type appService interface {
	ToggleReaction(ctx context.Context, actorID, contentID uuid.UUID) (app.ToggleResult, error)
	CommentTree(ctx context.Context, postID uuid.UUID) (*app.CommentThread, error)
	Leaderboard(ctx context.Context, window time.Duration, k int) ([]app.LeaderboardRow, error)
	ActorKarma(ctx context.Context, actorID uuid.UUID, window time.Duration) (*app.KarmaReport, error)

	CreateActor(ctx context.Context, handle, avatarURL, bio string) (*domain.Actor, error)
	GetActor(ctx context.Context, actorID uuid.UUID) (*domain.Actor, error)
	ListActors(ctx context.Context) ([]domain.Actor, error)
	CreatePost(ctx context.Context, authorID uuid.UUID, body string) (*domain.ContentItem, error)
	GetPost(ctx context.Context, postID uuid.UUID) (*domain.ContentItem, error)
	ListPosts(ctx context.Context) ([]domain.ContentItem, error)
	CreateComment(ctx context.Context, authorID, postID uuid.UUID, parentID *uuid.UUID, body string) (*domain.ContentItem, error)
}

// RateLimiter gates reaction toggles per actor. May be nil (no limiting).
type RateLimiter interface {
	Allow(ctx context.Context, actorID uuid.UUID) (bool, error)
}

// HealthCheck is a named readiness probe.
type HealthCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

type Server struct {
	echo   *echo.Echo
	config *config.Config

	app            appService
	rateLimiter    RateLimiter
	httpMetrics    *metrics.HTTPMetrics
	metricsHandler http.Handler
	healthChecks   []HealthCheck
	startTime      time.Time
}

// NewServer creates the HTTP server. rateLimiter, httpMetrics and
// metricsHandler may be nil.
func NewServer(cfg *config.Config, app appService, rateLimiter RateLimiter, httpMetrics *metrics.HTTPMetrics, metricsHandler http.Handler, healthChecks []HealthCheck) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	srv := &Server{
		echo:           e,
		config:         cfg,
		app:            app,
		rateLimiter:    rateLimiter,
		httpMetrics:    httpMetrics,
		metricsHandler: metricsHandler,
		healthChecks:   healthChecks,
		startTime:      time.Now(),
	}

	srv.registerRoutes()
	return srv
}

func (s *Server) Start() error {
	slog.Info("Starting server", "port", s.config.Port)
	if err := s.echo.Start(":" + s.config.Port); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.echo.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}
	return nil
}
