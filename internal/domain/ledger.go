package domain

import (
	"time"

	"github.com/google/uuid"
)

// KarmaCategory identifies what kind of engagement earned the karma.
type KarmaCategory string

const (
	CategoryPostReaction    KarmaCategory = "post_reaction"
	CategoryCommentReaction KarmaCategory = "comment_reaction"
)

// Points awarded per category.
const (
	PointsPostReaction    = 5
	PointsCommentReaction = 1
)

// Categories lists all karma categories, in display order.
func Categories() []KarmaCategory {
	return []KarmaCategory{CategoryPostReaction, CategoryCommentReaction}
}

// CategoryFor returns the karma category earned by a reaction on content of
// the given kind.
func CategoryFor(kind ContentKind) KarmaCategory {
	if kind == KindPost {
		return CategoryPostReaction
	}
	return CategoryCommentReaction
}

// PointsFor returns the fixed point value for a category.
func PointsFor(category KarmaCategory) int {
	if category == CategoryPostReaction {
		return PointsPostReaction
	}
	return PointsCommentReaction
}

// LedgerEntry records one karma-earning event. Entries are immutable and form
// the source of truth for all karma math: exactly one entry exists per
// reaction edge whose actor is not the content author, and it is deleted as a
// unit with that edge.
type LedgerEntry struct {
	ID        uuid.UUID     `db:"id" json:"id"`
	ActorID   uuid.UUID     `db:"actor_id" json:"actor_id"` // beneficiary: the content author
	Category  KarmaCategory `db:"category" json:"category"`
	Points    int           `db:"points" json:"points"`
	SubjectID uuid.UUID     `db:"subject_id" json:"subject_id"` // the content item that earned it
	CreatedAt time.Time     `db:"created_at" json:"created_at"`
}
