// Package app provides the application service layer.
//
// Orchestrates use cases: reaction toggles, thread assembly, leaderboard and
// karma reads, post/comment/actor creation. Sits between HTTP handlers and
// the engagement core. Depends on domain interfaces, not concrete stores.
package app

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/pscheid92/kudos/internal/domain"
	"github.com/pscheid92/kudos/internal/engine"
	"github.com/pscheid92/kudos/internal/ranking"
)

const (
	maxPostBodyLen    = 5000
	maxCommentBodyLen = 2000

	// Creation depth guard. Display truncates far earlier; this only stops
	// runaway reply chains from growing without bound.
	maxCommentDepth = 100
)

// reactionEngine is the slice of the engine the service needs.
type reactionEngine interface {
	Toggle(ctx context.Context, actorID, contentID uuid.UUID) (engine.Result, error)
}

// karmaRanking is the slice of the ranking aggregator the service needs.
type karmaRanking interface {
	TopK(ctx context.Context, window time.Duration, k int) ([]ranking.Entry, error)
	Breakdown(ctx context.Context, actorID uuid.UUID, window time.Duration) (map[domain.KarmaCategory]int, error)
	AllTimeTotal(ctx context.Context, actorID uuid.UUID) (int, error)
}

// Service is the application layer - the only component that references
// multiple engagement components. It orchestrates all use cases.
type Service struct {
	actors  domain.ActorRepository
	content domain.ContentRepository
	engine  reactionEngine
	ranking karmaRanking
}

// NewService creates the application layer service.
func NewService(actors domain.ActorRepository, content domain.ContentRepository, eng reactionEngine, rank karmaRanking) *Service {
	return &Service{
		actors:  actors,
		content: content,
		engine:  eng,
		ranking: rank,
	}
}

// GetActor retrieves an actor by ID.
func (s *Service) GetActor(ctx context.Context, actorID uuid.UUID) (*domain.Actor, error) {
	return s.actors.GetByID(ctx, actorID)
}

// ListActors lists all actors, newest first.
func (s *Service) ListActors(ctx context.Context) ([]domain.Actor, error) {
	return s.actors.List(ctx)
}
