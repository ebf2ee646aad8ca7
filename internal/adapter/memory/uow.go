package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pscheid92/kudos/internal/domain"
)

// UnitOfWork implements domain.UnitOfWork against the in-memory store.
//
// Mutations are staged inside the transaction and applied to the store in one
// critical section when the callback succeeds, so a concurrent reader observes
// either every effect of a unit or none of them. A failed callback simply
// discards the stage. Per-content mutexes acquired by GetContentForUpdate are
// held until the unit finishes, mirroring the row lock the Postgres adapter
// takes with SELECT ... FOR UPDATE.
type UnitOfWork struct {
	store *Store
}

// NewUnitOfWork creates a unit of work factory over the store.
func NewUnitOfWork(store *Store) *UnitOfWork {
	return &UnitOfWork{store: store}
}

func (u *UnitOfWork) InTx(_ context.Context, fn func(tx domain.TxStores) error) error {
	tx := &txStores{
		store:         u.store,
		locks:         make(map[uuid.UUID]*sync.Mutex),
		counterDeltas: make(map[uuid.UUID]int),
		edgeInserts:   make(map[edgeKey]domain.ReactionEdge),
		edgeDeletes:   make(map[edgeKey]struct{}),
		ledgerDeletes: make(map[uuid.UUID]struct{}),
	}
	defer tx.releaseLocks()

	if err := fn(tx); err != nil {
		return err
	}
	tx.commit()
	return nil
}

// txStores stages every mutation of one unit. Reads through it see the
// committed state overlaid with the stage; reads through the public
// repositories see only committed state until commit applies the stage.
type txStores struct {
	store *Store
	locks map[uuid.UUID]*sync.Mutex

	counterDeltas map[uuid.UUID]int
	edgeInserts   map[edgeKey]domain.ReactionEdge
	edgeDeletes   map[edgeKey]struct{}
	ledgerInserts []domain.LedgerEntry
	ledgerDeletes map[uuid.UUID]struct{}
}

func (t *txStores) releaseLocks() {
	for _, lock := range t.locks {
		lock.Unlock()
	}
}

// commit applies the whole stage in one critical section.
func (t *txStores) commit() {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()

	for key := range t.edgeDeletes {
		delete(t.store.edges, key)
	}
	for key, edge := range t.edgeInserts {
		t.store.edges[key] = edge
	}
	for contentID, delta := range t.counterDeltas {
		if item, ok := t.store.content[contentID]; ok {
			item.ReactionCount += delta
		}
	}
	for id := range t.ledgerDeletes {
		delete(t.store.ledger, id)
	}
	for _, entry := range t.ledgerInserts {
		t.store.ledger[entry.ID] = entry
	}
}

func (t *txStores) GetContentForUpdate(_ context.Context, contentID uuid.UUID) (*domain.ContentItem, error) {
	if _, held := t.locks[contentID]; !held {
		lock := t.store.lockFor(contentID)
		lock.Lock()
		t.locks[contentID] = lock
	}

	t.store.mu.RLock()
	defer t.store.mu.RUnlock()

	item, ok := t.store.content[contentID]
	if !ok {
		return nil, domain.ErrContentNotFound
	}
	view := copyItem(item)
	view.ReactionCount += t.counterDeltas[contentID]
	return view, nil
}

func (t *txStores) AdjustReactionCount(_ context.Context, contentID uuid.UUID, delta int) (int, error) {
	t.store.mu.RLock()
	item, ok := t.store.content[contentID]
	committed := 0
	if ok {
		committed = item.ReactionCount
	}
	t.store.mu.RUnlock()

	if !ok {
		return 0, domain.ErrContentNotFound
	}

	next := committed + t.counterDeltas[contentID] + delta
	if next < 0 {
		return 0, fmt.Errorf("%w: reaction count would drop to %d", domain.ErrInvariantViolation, next)
	}

	t.counterDeltas[contentID] += delta
	return next, nil
}

func (t *txStores) Reactions() domain.ReactionRepository {
	return &txReactionRepo{tx: t}
}

func (t *txStores) Ledger() domain.LedgerRepository {
	return &txLedgerRepo{tx: t}
}

// txReactionRepo overlays staged edge mutations on the committed edge set.
type txReactionRepo struct {
	tx *txStores
}

func (r *txReactionRepo) Exists(_ context.Context, actorID, contentID uuid.UUID) (bool, error) {
	key := edgeKey{ActorID: actorID, ContentID: contentID}
	if _, staged := r.tx.edgeInserts[key]; staged {
		return true, nil
	}
	if _, staged := r.tx.edgeDeletes[key]; staged {
		return false, nil
	}

	r.tx.store.mu.RLock()
	defer r.tx.store.mu.RUnlock()
	_, ok := r.tx.store.edges[key]
	return ok, nil
}

func (r *txReactionRepo) Insert(ctx context.Context, actorID, contentID uuid.UUID) error {
	exists, err := r.Exists(ctx, actorID, contentID)
	if err != nil {
		return err
	}
	if exists {
		return domain.ErrAlreadyReacted
	}

	key := edgeKey{ActorID: actorID, ContentID: contentID}
	if _, staged := r.tx.edgeDeletes[key]; staged {
		// Reinsert after a staged delete keeps the committed edge.
		delete(r.tx.edgeDeletes, key)
		return nil
	}
	r.tx.edgeInserts[key] = domain.ReactionEdge{
		ActorID:   actorID,
		ContentID: contentID,
		CreatedAt: r.tx.store.clock.Now().UTC(),
	}
	return nil
}

func (r *txReactionRepo) Delete(ctx context.Context, actorID, contentID uuid.UUID) error {
	exists, err := r.Exists(ctx, actorID, contentID)
	if err != nil {
		return err
	}
	if !exists {
		return domain.ErrReactionNotFound
	}

	key := edgeKey{ActorID: actorID, ContentID: contentID}
	if _, staged := r.tx.edgeInserts[key]; staged {
		delete(r.tx.edgeInserts, key)
		return nil
	}
	r.tx.edgeDeletes[key] = struct{}{}
	return nil
}

func (r *txReactionRepo) CountForContent(_ context.Context, contentID uuid.UUID) (int, error) {
	r.tx.store.mu.RLock()
	count := 0
	for key := range r.tx.store.edges {
		if key.ContentID != contentID {
			continue
		}
		if _, staged := r.tx.edgeDeletes[key]; !staged {
			count++
		}
	}
	r.tx.store.mu.RUnlock()

	for key := range r.tx.edgeInserts {
		if key.ContentID == contentID {
			count++
		}
	}
	return count, nil
}

// txLedgerRepo overlays staged ledger mutations on the committed entries.
type txLedgerRepo struct {
	tx *txStores
}

func (r *txLedgerRepo) Insert(_ context.Context, entry domain.LedgerEntry) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = r.tx.store.clock.Now().UTC()
	}
	r.tx.ledgerInserts = append(r.tx.ledgerInserts, entry)
	return nil
}

func (r *txLedgerRepo) DeleteMatching(_ context.Context, beneficiaryID uuid.UUID, category domain.KarmaCategory, subjectID uuid.UUID) error {
	for i, entry := range r.tx.ledgerInserts {
		if entry.ActorID == beneficiaryID && entry.Category == category && entry.SubjectID == subjectID {
			r.tx.ledgerInserts = append(r.tx.ledgerInserts[:i], r.tx.ledgerInserts[i+1:]...)
			return nil
		}
	}

	r.tx.store.mu.RLock()
	defer r.tx.store.mu.RUnlock()

	for id, entry := range r.tx.store.ledger {
		if _, staged := r.tx.ledgerDeletes[id]; staged {
			continue
		}
		if entry.ActorID == beneficiaryID && entry.Category == category && entry.SubjectID == subjectID {
			r.tx.ledgerDeletes[id] = struct{}{}
			return nil
		}
	}
	return domain.ErrLedgerNotFound
}

// visit walks the committed entries minus staged deletes, then the staged inserts.
func (r *txLedgerRepo) visit(visit func(entry domain.LedgerEntry)) {
	r.tx.store.mu.RLock()
	for id, entry := range r.tx.store.ledger {
		if _, staged := r.tx.ledgerDeletes[id]; staged {
			continue
		}
		visit(entry)
	}
	r.tx.store.mu.RUnlock()

	for _, entry := range r.tx.ledgerInserts {
		visit(entry)
	}
}

func (r *txLedgerRepo) SumByActor(_ context.Context, since time.Time) (map[uuid.UUID]int, error) {
	sums := make(map[uuid.UUID]int)
	r.visit(func(entry domain.LedgerEntry) {
		if !entry.CreatedAt.Before(since) {
			sums[entry.ActorID] += entry.Points
		}
	})
	return sums, nil
}

func (r *txLedgerRepo) SumByCategory(_ context.Context, actorID uuid.UUID, since time.Time) (map[domain.KarmaCategory]int, error) {
	sums := make(map[domain.KarmaCategory]int)
	r.visit(func(entry domain.LedgerEntry) {
		if entry.ActorID == actorID && !entry.CreatedAt.Before(since) {
			sums[entry.Category] += entry.Points
		}
	})
	return sums, nil
}

func (r *txLedgerRepo) SumAll(_ context.Context, actorID uuid.UUID) (int, error) {
	total := 0
	r.visit(func(entry domain.LedgerEntry) {
		if entry.ActorID == actorID {
			total += entry.Points
		}
	})
	return total, nil
}
