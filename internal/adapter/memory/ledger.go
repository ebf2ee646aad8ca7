package memory

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/pscheid92/kudos/internal/domain"
)

// LedgerRepo implements domain.LedgerRepository over the shared store.
type LedgerRepo struct {
	store *Store
}

// NewLedgerRepo creates a ledger repository.
func NewLedgerRepo(store *Store) *LedgerRepo {
	return &LedgerRepo{store: store}
}

func (r *LedgerRepo) Insert(_ context.Context, entry domain.LedgerEntry) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = r.store.clock.Now().UTC()
	}
	r.store.ledger[entry.ID] = entry
	return nil
}

func (r *LedgerRepo) DeleteMatching(_ context.Context, beneficiaryID uuid.UUID, category domain.KarmaCategory, subjectID uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for id, entry := range r.store.ledger {
		if entry.ActorID == beneficiaryID && entry.Category == category && entry.SubjectID == subjectID {
			delete(r.store.ledger, id)
			return nil
		}
	}
	return domain.ErrLedgerNotFound
}

func (r *LedgerRepo) SumByActor(_ context.Context, since time.Time) (map[uuid.UUID]int, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	sums := make(map[uuid.UUID]int)
	for _, entry := range r.store.ledger {
		if !entry.CreatedAt.Before(since) {
			sums[entry.ActorID] += entry.Points
		}
	}
	return sums, nil
}

func (r *LedgerRepo) SumByCategory(_ context.Context, actorID uuid.UUID, since time.Time) (map[domain.KarmaCategory]int, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	sums := make(map[domain.KarmaCategory]int)
	for _, entry := range r.store.ledger {
		if entry.ActorID == actorID && !entry.CreatedAt.Before(since) {
			sums[entry.Category] += entry.Points
		}
	}
	return sums, nil
}

func (r *LedgerRepo) SumAll(_ context.Context, actorID uuid.UUID) (int, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	total := 0
	for _, entry := range r.store.ledger {
		if entry.ActorID == actorID {
			total += entry.Points
		}
	}
	return total, nil
}
