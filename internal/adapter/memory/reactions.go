package memory

import (
	"context"

	"github.com/google/uuid"

	"github.com/pscheid92/kudos/internal/domain"
)

// ReactionRepo implements domain.ReactionRepository over the shared store.
type ReactionRepo struct {
	store *Store
}

// NewReactionRepo creates a reaction edge repository.
func NewReactionRepo(store *Store) *ReactionRepo {
	return &ReactionRepo{store: store}
}

func (r *ReactionRepo) Exists(_ context.Context, actorID, contentID uuid.UUID) (bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	_, ok := r.store.edges[edgeKey{ActorID: actorID, ContentID: contentID}]
	return ok, nil
}

func (r *ReactionRepo) Insert(_ context.Context, actorID, contentID uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	key := edgeKey{ActorID: actorID, ContentID: contentID}
	if _, ok := r.store.edges[key]; ok {
		return domain.ErrAlreadyReacted
	}
	r.store.edges[key] = domain.ReactionEdge{
		ActorID:   actorID,
		ContentID: contentID,
		CreatedAt: r.store.clock.Now().UTC(),
	}
	return nil
}

func (r *ReactionRepo) Delete(_ context.Context, actorID, contentID uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	key := edgeKey{ActorID: actorID, ContentID: contentID}
	if _, ok := r.store.edges[key]; !ok {
		return domain.ErrReactionNotFound
	}
	delete(r.store.edges, key)
	return nil
}

func (r *ReactionRepo) CountForContent(_ context.Context, contentID uuid.UUID) (int, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	count := 0
	for key := range r.store.edges {
		if key.ContentID == contentID {
			count++
		}
	}
	return count, nil
}
