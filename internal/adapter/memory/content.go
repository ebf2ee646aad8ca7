package memory

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/pscheid92/kudos/internal/domain"
)

// ContentRepo implements domain.ContentRepository over the shared store.
type ContentRepo struct {
	store *Store
}

// NewContentRepo creates a content repository.
func NewContentRepo(store *Store) *ContentRepo {
	return &ContentRepo{store: store}
}

func (r *ContentRepo) CreatePost(_ context.Context, authorID uuid.UUID, body string) (*domain.ContentItem, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.actors[authorID]; !ok {
		return nil, domain.ErrActorNotFound
	}

	item := domain.ContentItem{
		ID:        uuid.New(),
		Kind:      domain.KindPost,
		AuthorID:  authorID,
		Body:      body,
		CreatedAt: r.store.clock.Now().UTC(),
	}
	item.PostID = item.ID
	r.store.content[item.ID] = &item
	return copyItem(&item), nil
}

func (r *ContentRepo) CreateComment(_ context.Context, authorID, postID uuid.UUID, parentID *uuid.UUID, body string) (*domain.ContentItem, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.actors[authorID]; !ok {
		return nil, domain.ErrActorNotFound
	}

	post, ok := r.store.content[postID]
	if !ok || post.Kind != domain.KindPost {
		return nil, domain.ErrContentNotFound
	}

	depth := 0
	if parentID != nil {
		parent, ok := r.store.content[*parentID]
		if !ok || parent.PostID != postID {
			return nil, domain.ErrContentNotFound
		}
		depth = parent.Depth + 1
	}

	item := domain.ContentItem{
		ID:        uuid.New(),
		Kind:      domain.KindComment,
		AuthorID:  authorID,
		ParentID:  parentID,
		PostID:    postID,
		Body:      body,
		Depth:     depth,
		CreatedAt: r.store.clock.Now().UTC(),
	}
	r.store.content[item.ID] = &item
	return copyItem(&item), nil
}

func (r *ContentRepo) GetByID(_ context.Context, contentID uuid.UUID) (*domain.ContentItem, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	item, ok := r.store.content[contentID]
	if !ok {
		return nil, domain.ErrContentNotFound
	}
	return copyItem(item), nil
}

func (r *ContentRepo) ListPosts(_ context.Context) ([]domain.ContentItem, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	result := make([]domain.ContentItem, 0)
	for _, item := range r.store.content {
		if item.Kind == domain.KindPost {
			result = append(result, *item)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].ID.String() < result[j].ID.String()
	})
	return result, nil
}

func (r *ContentRepo) ListCommentsForPost(_ context.Context, postID uuid.UUID) ([]domain.ContentItem, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	result := make([]domain.ContentItem, 0)
	for _, item := range r.store.content {
		if item.Kind == domain.KindComment && item.PostID == postID {
			result = append(result, *item)
		}
	}
	return result, nil
}

func copyItem(item *domain.ContentItem) *domain.ContentItem {
	clone := *item
	if item.ParentID != nil {
		parentID := *item.ParentID
		clone.ParentID = &parentID
	}
	return &clone
}

func sortActorsNewestFirst(actors []domain.Actor) {
	sort.Slice(actors, func(i, j int) bool {
		if !actors[i].CreatedAt.Equal(actors[j].CreatedAt) {
			return actors[i].CreatedAt.After(actors[j].CreatedAt)
		}
		return actors[i].ID.String() < actors[j].ID.String()
	})
}
