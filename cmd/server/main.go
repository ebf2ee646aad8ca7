package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/pscheid92/kudos/internal/adapter/httpserver"
	"github.com/pscheid92/kudos/internal/adapter/memory"
	"github.com/pscheid92/kudos/internal/adapter/metrics"
	"github.com/pscheid92/kudos/internal/adapter/postgres"
	"github.com/pscheid92/kudos/internal/adapter/redis"
	"github.com/pscheid92/kudos/internal/app"
	"github.com/pscheid92/kudos/internal/domain"
	"github.com/pscheid92/kudos/internal/engine"
	"github.com/pscheid92/kudos/internal/platform/config"
	"github.com/pscheid92/kudos/internal/platform/logging"
	"github.com/pscheid92/kudos/internal/platform/version"
	"github.com/pscheid92/kudos/internal/ranking"
)

type stores struct {
	actors    domain.ActorRepository
	content   domain.ContentRepository
	reactions domain.ReactionRepository
	ledger    domain.LedgerRepository
	uow       domain.UnitOfWork

	healthChecks []httpserver.HealthCheck
	close        func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logging.Init(cfg.LogLevel, cfg.LogFormat)
	slog.Info("Starting kudos", "version", version.Get().Short(), "env", cfg.AppEnv, "backend", cfg.StoreBackend)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	clock := clockwork.NewRealClock()

	st, err := setupStores(ctx, cfg, clock)
	if err != nil {
		slog.Error("Failed to set up stores", "error", err)
		os.Exit(1)
	}
	defer st.close()

	registry := metrics.NewRegistry()
	httpMetrics := metrics.NewHTTPMetrics(registry)
	reactionMetrics := metrics.NewReactionMetrics(registry)

	var rateLimiter httpserver.RateLimiter
	if cfg.RedisURL != "" {
		rdb, err := redis.NewClient(ctx, cfg.RedisURL)
		if err != nil {
			slog.Error("Failed to connect to redis", "error", err)
			os.Exit(1)
		}
		defer rdb.Close()

		rateLimiter = redis.NewToggleRateLimiter(rdb, clock, cfg.ToggleRateCapacity, cfg.ToggleRatePerMinute)
		st.healthChecks = append(st.healthChecks, httpserver.HealthCheck{
			Name:  "redis",
			Check: func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
		})
		slog.Info("Toggle rate limiting enabled", "capacity", cfg.ToggleRateCapacity, "per_minute", cfg.ToggleRatePerMinute)
	}

	eng := engine.New(st.uow, st.reactions, reactionMetrics)
	agg := ranking.New(st.ledger, clock)
	service := app.NewService(st.actors, st.content, eng, agg)

	server := httpserver.NewServer(cfg, service, rateLimiter, httpMetrics, metrics.Handler(registry), st.healthChecks)

	go func() {
		if err := server.Start(); err != nil {
			slog.Error("Server stopped", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Graceful shutdown failed", "error", err)
		os.Exit(1)
	}

	slog.Info("Shutdown complete")
}

func setupStores(ctx context.Context, cfg *config.Config, clock clockwork.Clock) (*stores, error) {
	switch cfg.StoreBackend {
	case "memory":
		store := memory.NewStore(clock)
		return &stores{
			actors:    memory.NewActorRepo(store),
			content:   memory.NewContentRepo(store),
			reactions: memory.NewReactionRepo(store),
			ledger:    memory.NewLedgerRepo(store),
			uow:       memory.NewUnitOfWork(store),
			close:     func() {},
		}, nil

	default: // postgres, validated by config
		pool, err := postgres.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}

		if err := postgres.RunMigrationsWithLock(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}

		return &stores{
			actors:    postgres.NewActorRepo(pool),
			content:   postgres.NewContentRepo(pool),
			reactions: postgres.NewReactionRepo(pool),
			ledger:    postgres.NewLedgerRepo(pool),
			uow:       postgres.NewUnitOfWork(pool),
			healthChecks: []httpserver.HealthCheck{{
				Name:  "postgres",
				Check: func(ctx context.Context) error { return pool.Ping(ctx) },
			}},
			close: pool.Close,
		}, nil
	}
}
