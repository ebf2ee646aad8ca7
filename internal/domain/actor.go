package domain

import (
	"time"

	"github.com/google/uuid"
)

// Actor is a user identity that authors content and reacts to it.
// Karma is never stored on the actor - it is always derived from the ledger.
type Actor struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Handle    string    `db:"handle" json:"handle"`
	AvatarURL string    `db:"avatar_url" json:"avatar_url"`
	Bio       string    `db:"bio" json:"bio"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
