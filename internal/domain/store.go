package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ActorRepository abstracts actor persistence.
type ActorRepository interface {
	Create(ctx context.Context, handle, avatarURL, bio string) (*Actor, error)
	GetByID(ctx context.Context, actorID uuid.UUID) (*Actor, error)
	ListByIDs(ctx context.Context, actorIDs []uuid.UUID) ([]Actor, error)
	List(ctx context.Context) ([]Actor, error)
}

// ContentRepository abstracts post/comment persistence.
type ContentRepository interface {
	CreatePost(ctx context.Context, authorID uuid.UUID, body string) (*ContentItem, error)
	CreateComment(ctx context.Context, authorID, postID uuid.UUID, parentID *uuid.UUID, body string) (*ContentItem, error)
	GetByID(ctx context.Context, contentID uuid.UUID) (*ContentItem, error)
	ListPosts(ctx context.Context) ([]ContentItem, error)
	// ListCommentsForPost fetches every comment of a post in one query, in no
	// guaranteed order. Tree shape is reconstructed in memory by the assembler.
	ListCommentsForPost(ctx context.Context, postID uuid.UUID) ([]ContentItem, error)
}

// ReactionRepository abstracts the reaction edge set.
type ReactionRepository interface {
	Exists(ctx context.Context, actorID, contentID uuid.UUID) (bool, error)
	// Insert returns ErrAlreadyReacted when an edge for the pair exists.
	Insert(ctx context.Context, actorID, contentID uuid.UUID) error
	// Delete returns ErrReactionNotFound when no edge exists for the pair.
	Delete(ctx context.Context, actorID, contentID uuid.UUID) error
	CountForContent(ctx context.Context, contentID uuid.UUID) (int, error)
}

// LedgerRepository abstracts the append-only karma ledger.
type LedgerRepository interface {
	Insert(ctx context.Context, entry LedgerEntry) error
	// DeleteMatching removes the single entry created for a qualifying edge.
	// Returns ErrLedgerNotFound when no entry matches.
	DeleteMatching(ctx context.Context, beneficiaryID uuid.UUID, category KarmaCategory, subjectID uuid.UUID) error
	// SumByActor sums points per beneficiary over entries with CreatedAt >= since.
	SumByActor(ctx context.Context, since time.Time) (map[uuid.UUID]int, error)
	// SumByCategory sums points per category for one beneficiary since the cutoff.
	SumByCategory(ctx context.Context, actorID uuid.UUID, since time.Time) (map[KarmaCategory]int, error)
	// SumAll sums all-time points for one beneficiary.
	SumAll(ctx context.Context, actorID uuid.UUID) (int, error)
}

// TxStores bundles the transaction-scoped repositories handed to a unit of
// work callback. Mutations performed through it commit or roll back together.
type TxStores interface {
	// GetContentForUpdate loads a content item with an exclusive lock held for
	// the rest of the transaction, serializing engagement mutations per item.
	GetContentForUpdate(ctx context.Context, contentID uuid.UUID) (*ContentItem, error)
	// AdjustReactionCount moves the denormalized counter by a relative delta.
	// A result below zero is an ErrInvariantViolation.
	AdjustReactionCount(ctx context.Context, contentID uuid.UUID, delta int) (int, error)
	Reactions() ReactionRepository
	Ledger() LedgerRepository
}

// UnitOfWork runs a function against transaction-scoped stores with
// all-or-nothing commit semantics, independent of the backing store.
type UnitOfWork interface {
	InTx(ctx context.Context, fn func(tx TxStores) error) error
}
