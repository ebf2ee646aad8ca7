package memory

import (
	"context"

	"github.com/google/uuid"

	"github.com/pscheid92/kudos/internal/domain"
)

// ActorRepo implements domain.ActorRepository over the shared store.
type ActorRepo struct {
	store *Store
}

// NewActorRepo creates an actor repository.
func NewActorRepo(store *Store) *ActorRepo {
	return &ActorRepo{store: store}
}

func (r *ActorRepo) Create(_ context.Context, handle, avatarURL, bio string) (*domain.Actor, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, existing := range r.store.actors {
		if existing.Handle == handle {
			return nil, domain.ErrHandleTaken
		}
	}

	actor := domain.Actor{
		ID:        uuid.New(),
		Handle:    handle,
		AvatarURL: avatarURL,
		Bio:       bio,
		CreatedAt: r.store.clock.Now().UTC(),
	}
	r.store.actors[actor.ID] = actor
	return &actor, nil
}

func (r *ActorRepo) GetByID(_ context.Context, actorID uuid.UUID) (*domain.Actor, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	actor, ok := r.store.actors[actorID]
	if !ok {
		return nil, domain.ErrActorNotFound
	}
	return &actor, nil
}

func (r *ActorRepo) ListByIDs(_ context.Context, actorIDs []uuid.UUID) ([]domain.Actor, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	result := make([]domain.Actor, 0, len(actorIDs))
	for _, id := range actorIDs {
		if actor, ok := r.store.actors[id]; ok {
			result = append(result, actor)
		}
	}
	return result, nil
}

func (r *ActorRepo) List(_ context.Context) ([]domain.Actor, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	result := make([]domain.Actor, 0, len(r.store.actors))
	for _, actor := range r.store.actors {
		result = append(result, actor)
	}
	sortActorsNewestFirst(result)
	return result, nil
}
