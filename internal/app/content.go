package app

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/pscheid92/kudos/internal/domain"
	apperrors "github.com/pscheid92/kudos/internal/platform/errors"
)

// CreateActor registers a new actor with a unique handle.
func (s *Service) CreateActor(ctx context.Context, handle, avatarURL, bio string) (*domain.Actor, error) {
	handle = strings.TrimSpace(handle)
	if handle == "" {
		return nil, apperrors.ValidationError("handle must not be empty")
	}
	if len(handle) > 150 {
		return nil, apperrors.ValidationError("handle is too long")
	}

	actor, err := s.actors.Create(ctx, handle, avatarURL, strings.TrimSpace(bio))
	if err == nil {
		return actor, nil
	}
	if errors.Is(err, domain.ErrHandleTaken) {
		return nil, apperrors.ConflictError("handle is already taken").WithField("handle", handle)
	}
	return nil, err
}

// CreatePost creates a top-level post for the author.
func (s *Service) CreatePost(ctx context.Context, authorID uuid.UUID, body string) (*domain.ContentItem, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, apperrors.ValidationError("post body must not be empty")
	}
	if len(body) > maxPostBodyLen {
		return nil, apperrors.ValidationError("post body is too long").WithField("max_len", maxPostBodyLen)
	}

	return s.content.CreatePost(ctx, authorID, body)
}

// GetPost retrieves a post by ID. Comment IDs are rejected as not found.
func (s *Service) GetPost(ctx context.Context, postID uuid.UUID) (*domain.ContentItem, error) {
	item, err := s.content.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if !item.IsPost() {
		return nil, domain.ErrContentNotFound
	}
	return item, nil
}

// ListPosts lists all posts, newest first.
func (s *Service) ListPosts(ctx context.Context) ([]domain.ContentItem, error) {
	return s.content.ListPosts(ctx)
}

// CreateComment creates a comment on a post, optionally replying to another
// comment of the same post. Depth derives from the parent snapshot at
// creation and is never recomputed.
func (s *Service) CreateComment(ctx context.Context, authorID, postID uuid.UUID, parentID *uuid.UUID, body string) (*domain.ContentItem, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, apperrors.ValidationError("comment body must not be empty")
	}
	if len(body) > maxCommentBodyLen {
		return nil, apperrors.ValidationError("comment body is too long").WithField("max_len", maxCommentBodyLen)
	}

	if parentID != nil {
		parent, err := s.content.GetByID(ctx, *parentID)
		if err != nil {
			return nil, err
		}
		if parent.PostID != postID {
			return nil, apperrors.ValidationError("parent comment belongs to a different post")
		}
		if parent.Depth+1 > maxCommentDepth {
			return nil, apperrors.ValidationError("reply chain is too deep").WithField("max_depth", maxCommentDepth)
		}
	}

	return s.content.CreateComment(ctx, authorID, postID, parentID, body)
}
