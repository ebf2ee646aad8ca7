package app

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/pscheid92/kudos/internal/domain"
	apperrors "github.com/pscheid92/kudos/internal/platform/errors"
)

// LeaderboardRow is one ranked leaderboard entry with actor details attached.
type LeaderboardRow struct {
	Rank   int          `json:"rank"`
	Actor  domain.Actor `json:"actor"`
	Points int          `json:"points"`
}

// Leaderboard ranks the top k actors by karma earned in the trailing window
// and hydrates their profiles in one batched lookup. Actors that vanished
// between ranking and hydration are skipped; ranks stay contiguous.
func (s *Service) Leaderboard(ctx context.Context, window time.Duration, k int) ([]LeaderboardRow, error) {
	if k < 1 {
		return nil, apperrors.ValidationError("k must be at least 1")
	}
	if window <= 0 {
		return nil, apperrors.ValidationError("window must be positive")
	}

	entries, err := s.ranking.TopK(ctx, window, k)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return []LeaderboardRow{}, nil
	}

	ids := make([]uuid.UUID, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.ActorID)
	}
	actors, err := s.actors.ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]domain.Actor, len(actors))
	for _, a := range actors {
		byID[a.ID] = a
	}

	rows := make([]LeaderboardRow, 0, len(entries))
	for _, e := range entries {
		actor, ok := byID[e.ActorID]
		if !ok {
			continue
		}
		rows = append(rows, LeaderboardRow{
			Rank:   len(rows) + 1,
			Actor:  actor,
			Points: e.Points,
		})
	}
	return rows, nil
}

// KarmaReport is an actor's karma within a window plus their all-time total.
type KarmaReport struct {
	ActorID      uuid.UUID                    `json:"actor_id"`
	Window       time.Duration                `json:"-"`
	Breakdown    map[domain.KarmaCategory]int `json:"breakdown"`
	WindowTotal  int                          `json:"window_total"`
	AllTimeTotal int                          `json:"all_time_total"`
}

// ActorKarma reports the actor's karma per category within the window
// (categories with no entries are present with zero) and all-time.
func (s *Service) ActorKarma(ctx context.Context, actorID uuid.UUID, window time.Duration) (*KarmaReport, error) {
	if window <= 0 {
		return nil, apperrors.ValidationError("window must be positive")
	}
	if _, err := s.actors.GetByID(ctx, actorID); err != nil {
		return nil, err
	}

	breakdown, err := s.ranking.Breakdown(ctx, actorID, window)
	if err != nil {
		return nil, err
	}

	total, err := s.ranking.AllTimeTotal(ctx, actorID)
	if err != nil {
		return nil, err
	}

	windowTotal := 0
	for _, points := range breakdown {
		windowTotal += points
	}

	return &KarmaReport{
		ActorID:      actorID,
		Window:       window,
		Breakdown:    breakdown,
		WindowTotal:  windowTotal,
		AllTimeTotal: total,
	}, nil
}
