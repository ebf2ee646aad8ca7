package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/pscheid92/kudos/internal/domain"
)

// Result reports the state of a (actor, content) pair after an operation.
type Result struct {
	Reacted       bool
	ReactionCount int
}

// Metrics receives engine outcomes. Implementations must be cheap and safe
// for concurrent use.
type Metrics interface {
	ToggleProcessed(result string)
	LedgerWritten(category domain.KarmaCategory)
}

// NopMetrics discards all observations.
type NopMetrics struct{}

func (NopMetrics) ToggleProcessed(string) {}

func (NopMetrics) LedgerWritten(domain.KarmaCategory) {}

// Engine owns all reaction-edge, counter, and ledger mutations.
type Engine struct {
	uow       domain.UnitOfWork
	reactions domain.ReactionRepository
	metrics   Metrics
}

// New creates the reaction engine. reactions is used only for the advisory
// presence read in Toggle; all mutations go through the unit of work.
func New(uow domain.UnitOfWork, reactions domain.ReactionRepository, metrics Metrics) *Engine {
	if metrics == nil {
		metrics = NopMetrics{}
	}
	return &Engine{uow: uow, reactions: reactions, metrics: metrics}
}

// Add inserts a reaction edge for the pair, increments the content's counter,
// and credits the author's ledger unless the actor reacted to their own
// content. Returns domain.ErrContentNotFound if the content is missing and
// domain.ErrAlreadyReacted if the edge already exists.
func (e *Engine) Add(ctx context.Context, actorID, contentID uuid.UUID) (Result, error) {
	var res Result
	var credited domain.KarmaCategory
	err := e.uow.InTx(ctx, func(tx domain.TxStores) error {
		content, err := tx.GetContentForUpdate(ctx, contentID)
		if err != nil {
			return err
		}

		// The unique edge constraint is the conflict detector: a concurrent
		// add for the same pair fails here and rolls the whole unit back.
		if err := tx.Reactions().Insert(ctx, actorID, contentID); err != nil {
			return err
		}

		count, err := tx.AdjustReactionCount(ctx, contentID, +1)
		if err != nil {
			return err
		}

		if actorID != content.AuthorID {
			category := domain.CategoryFor(content.Kind)
			entry := domain.LedgerEntry{
				ID:        uuid.New(),
				ActorID:   content.AuthorID,
				Category:  category,
				Points:    domain.PointsFor(category),
				SubjectID: contentID,
			}
			if err := tx.Ledger().Insert(ctx, entry); err != nil {
				return fmt.Errorf("failed to insert ledger entry: %w", err)
			}
			credited = category
		}

		res = Result{Reacted: true, ReactionCount: count}
		return nil
	})
	if err != nil {
		e.metrics.ToggleProcessed(resultLabel(err))
		return Result{}, err
	}

	// Only count the ledger write once the unit has committed.
	if credited != "" {
		e.metrics.LedgerWritten(credited)
	}
	e.metrics.ToggleProcessed("added")
	return res, nil
}

// Remove deletes the pair's reaction edge, decrements the counter, and
// removes the matching ledger entry if the reaction had earned one. Returns
// domain.ErrContentNotFound if the content is missing and
// domain.ErrReactionNotFound if no edge exists.
func (e *Engine) Remove(ctx context.Context, actorID, contentID uuid.UUID) (Result, error) {
	var res Result
	err := e.uow.InTx(ctx, func(tx domain.TxStores) error {
		content, err := tx.GetContentForUpdate(ctx, contentID)
		if err != nil {
			return err
		}

		if err := tx.Reactions().Delete(ctx, actorID, contentID); err != nil {
			return err
		}

		count, err := tx.AdjustReactionCount(ctx, contentID, -1)
		if err != nil {
			return err
		}

		if actorID != content.AuthorID {
			category := domain.CategoryFor(content.Kind)
			err := tx.Ledger().DeleteMatching(ctx, content.AuthorID, category, contentID)
			if errors.Is(err, domain.ErrLedgerNotFound) {
				// An edge that earned karma must have a ledger entry. Surface
				// the corruption instead of shrugging it off.
				slog.Error("ledger entry missing for live reaction edge",
					"actor_id", actorID, "content_id", contentID, "category", category)
				return fmt.Errorf("%w: ledger entry missing for edge", domain.ErrInvariantViolation)
			}
			if err != nil {
				return fmt.Errorf("failed to delete ledger entry: %w", err)
			}
		}

		res = Result{Reacted: false, ReactionCount: count}
		return nil
	})
	if err != nil {
		e.metrics.ToggleProcessed(resultLabel(err))
		return Result{}, err
	}

	e.metrics.ToggleProcessed("removed")
	return res, nil
}

// Toggle flips the reaction state for the pair: present edges are removed,
// absent ones added. The presence read is advisory only - Add and Remove
// re-verify under the content lock, so a racing toggle for the same pair
// resolves to one success and one ErrAlreadyReacted/ErrReactionNotFound.
func (e *Engine) Toggle(ctx context.Context, actorID, contentID uuid.UUID) (Result, error) {
	exists, err := e.reactions.Exists(ctx, actorID, contentID)
	if err != nil {
		return Result{}, fmt.Errorf("failed to check reaction presence: %w", err)
	}

	if exists {
		return e.Remove(ctx, actorID, contentID)
	}
	return e.Add(ctx, actorID, contentID)
}

func resultLabel(err error) string {
	switch {
	case errors.Is(err, domain.ErrAlreadyReacted):
		return "conflict"
	case errors.Is(err, domain.ErrReactionNotFound), errors.Is(err, domain.ErrContentNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrInvariantViolation):
		return "invariant_violation"
	default:
		return "error"
	}
}
