package domain

import (
	"time"

	"github.com/google/uuid"
)

// ContentKind distinguishes posts from comments.
type ContentKind string

const (
	KindPost    ContentKind = "post"
	KindComment ContentKind = "comment"
)

// ContentItem is a post or a comment. Comments form a tree rooted at a post
// via ParentID; every comment also carries the root PostID so a whole thread
// can be fetched in one query.
//
// Depth is computed once at creation from the parent snapshot (0 for posts and
// top-level comments) and never recomputed: ParentID is write-once, so cycles
// are impossible by construction.
//
// ReactionCount is denormalized and owned exclusively by the reaction engine.
type ContentItem struct {
	ID            uuid.UUID   `db:"id" json:"id"`
	Kind          ContentKind `db:"kind" json:"kind"`
	AuthorID      uuid.UUID   `db:"author_id" json:"author_id"`
	ParentID      *uuid.UUID  `db:"parent_id" json:"parent_id"`
	PostID        uuid.UUID   `db:"post_id" json:"post_id"`
	Body          string      `db:"body" json:"body"`
	ReactionCount int         `db:"reaction_count" json:"reaction_count"`
	Depth         int         `db:"depth" json:"depth"`
	CreatedAt     time.Time   `db:"created_at" json:"created_at"`
}

// IsPost reports whether the item is a top-level post.
func (c ContentItem) IsPost() bool {
	return c.Kind == KindPost
}
