package app

import (
	"context"

	"github.com/google/uuid"

	"github.com/pscheid92/kudos/internal/domain"
	"github.com/pscheid92/kudos/internal/tree"
)

// ToggleResult reports the reaction state after a toggle.
type ToggleResult struct {
	Reacted       bool `json:"reacted"`
	ReactionCount int  `json:"reaction_count"`
}

// ToggleReaction flips the actor's reaction on a content item. The actor must
// exist; all counter and ledger effects commit atomically in the engine.
func (s *Service) ToggleReaction(ctx context.Context, actorID, contentID uuid.UUID) (ToggleResult, error) {
	if _, err := s.actors.GetByID(ctx, actorID); err != nil {
		return ToggleResult{}, err
	}

	res, err := s.engine.Toggle(ctx, actorID, contentID)
	if err != nil {
		return ToggleResult{}, err
	}
	return ToggleResult{Reacted: res.Reacted, ReactionCount: res.ReactionCount}, nil
}

// CommentThread is a post's fully assembled comment tree.
type CommentThread struct {
	PostID   uuid.UUID   `json:"post_id"`
	Count    int         `json:"count"`
	Comments []tree.Node `json:"comments"`
}

// CommentTree bulk-fetches all comments of a post and assembles the nested
// thread in memory. The fetched snapshot is immutable; assembly runs without
// locks and in parallel with concurrent writes.
func (s *Service) CommentTree(ctx context.Context, postID uuid.UUID) (*CommentThread, error) {
	post, err := s.content.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if !post.IsPost() {
		return nil, domain.ErrContentNotFound
	}

	comments, err := s.content.ListCommentsForPost(ctx, postID)
	if err != nil {
		return nil, err
	}

	return &CommentThread{
		PostID:   postID,
		Count:    len(comments),
		Comments: tree.Assemble(comments),
	}, nil
}
