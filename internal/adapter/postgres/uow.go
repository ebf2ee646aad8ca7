package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pscheid92/kudos/internal/domain"
)

// UnitOfWork implements domain.UnitOfWork over a pgx transaction. The target
// content row is locked with SELECT ... FOR UPDATE, serializing engagement
// mutations per item while leaving other items untouched.
type UnitOfWork struct {
	pool *pgxpool.Pool
}

// NewUnitOfWork creates a unit of work factory over the pool.
func NewUnitOfWork(pool *pgxpool.Pool) *UnitOfWork {
	return &UnitOfWork{pool: pool}
}

func (u *UnitOfWork) InTx(ctx context.Context, fn func(tx domain.TxStores) error) error {
	tx, err := u.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op after commit

	if err := fn(&txStores{tx: tx}); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

type txStores struct {
	tx pgx.Tx
}

func (t *txStores) GetContentForUpdate(ctx context.Context, contentID uuid.UUID) (*domain.ContentItem, error) {
	item, err := scanContent(t.tx.QueryRow(ctx,
		`SELECT `+contentColumns+` FROM content_items WHERE id = $1 FOR UPDATE`, contentID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrContentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock content row: %w", err)
	}
	return item, nil
}

func (t *txStores) AdjustReactionCount(ctx context.Context, contentID uuid.UUID, delta int) (int, error) {
	var count int
	err := t.tx.QueryRow(ctx, `
		UPDATE content_items
		SET reaction_count = reaction_count + $2
		WHERE id = $1
		RETURNING reaction_count`,
		contentID, delta).Scan(&count)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, domain.ErrContentNotFound
	}
	if isCheckViolation(err) {
		return 0, fmt.Errorf("%w: reaction count below zero on %s", domain.ErrInvariantViolation, contentID)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to adjust reaction count: %w", err)
	}
	return count, nil
}

func (t *txStores) Reactions() domain.ReactionRepository {
	return &ReactionRepo{db: t.tx}
}

func (t *txStores) Ledger() domain.LedgerRepository {
	return &LedgerRepo{db: t.tx}
}
