package domain

import (
	"time"

	"github.com/google/uuid"
)

// ReactionEdge is a like relation between one actor and one content item.
// At most one edge exists per (actor, content) pair; the edge's existence is
// the single source of truth for "has this actor reacted to this item".
type ReactionEdge struct {
	ActorID   uuid.UUID `db:"actor_id"`
	ContentID uuid.UUID `db:"content_id"`
	CreatedAt time.Time `db:"created_at"`
}
