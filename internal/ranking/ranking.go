// Package ranking computes time-windowed karma rankings from the ledger.
//
// All computation is read-only over store aggregates. Rankings reflect every
// ledger write that committed before the read; no snapshot isolation beyond
// that is attempted.
package ranking

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/singleflight"

	"github.com/pscheid92/kudos/internal/domain"
)

// Entry is one leaderboard row: an actor and their karma sum in the window.
type Entry struct {
	ActorID uuid.UUID
	Points  int
}

// Aggregator ranks actors by karma earned within a trailing window.
type Aggregator struct {
	ledger domain.LedgerRepository
	clock  clockwork.Clock
	group  singleflight.Group
}

// New creates a ranking aggregator.
func New(ledger domain.LedgerRepository, clock clockwork.Clock) *Aggregator {
	return &Aggregator{ledger: ledger, clock: clock}
}

// TopK returns up to k actors ordered by karma earned in the trailing window,
// highest first. Equal sums are ordered by actor ID ascending so repeated
// calls over the same ledger state return the same ranking. Actors with no
// qualifying entries are absent, never present with zero.
//
// Concurrent identical calls are collapsed into one computation.
func (a *Aggregator) TopK(ctx context.Context, window time.Duration, k int) ([]Entry, error) {
	key := fmt.Sprintf("topk:%s:%d", window, k)
	v, err, _ := a.group.Do(key, func() (any, error) {
		return a.topK(ctx, window, k)
	})
	if err != nil {
		return nil, err
	}
	return v.([]Entry), nil
}

func (a *Aggregator) topK(ctx context.Context, window time.Duration, k int) ([]Entry, error) {
	since := a.clock.Now().Add(-window)

	sums, err := a.ledger.SumByActor(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("failed to sum ledger by actor: %w", err)
	}

	entries := make([]Entry, 0, len(sums))
	for actorID, points := range sums {
		entries = append(entries, Entry{ActorID: actorID, Points: points})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Points != entries[j].Points {
			return entries[i].Points > entries[j].Points
		}
		return entries[i].ActorID.String() < entries[j].ActorID.String()
	})

	if len(entries) > k {
		entries = entries[:k]
	}
	return entries, nil
}

// Breakdown returns the actor's karma per category within the trailing
// window. Categories with no matching entries are present with zero.
func (a *Aggregator) Breakdown(ctx context.Context, actorID uuid.UUID, window time.Duration) (map[domain.KarmaCategory]int, error) {
	since := a.clock.Now().Add(-window)

	sums, err := a.ledger.SumByCategory(ctx, actorID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to sum ledger by category: %w", err)
	}

	result := make(map[domain.KarmaCategory]int, len(domain.Categories()))
	for _, category := range domain.Categories() {
		result[category] = sums[category]
	}
	return result, nil
}

// AllTimeTotal returns the actor's total karma over the full ledger history.
func (a *Aggregator) AllTimeTotal(ctx context.Context, actorID uuid.UUID) (int, error) {
	total, err := a.ledger.SumAll(ctx, actorID)
	if err != nil {
		return 0, fmt.Errorf("failed to sum ledger: %w", err)
	}
	return total, nil
}
