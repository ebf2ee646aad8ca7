package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pscheid92/kudos/internal/domain"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
)

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation
}

func isCheckViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgCheckViolation
}

// ReactionRepo implements domain.ReactionRepository backed by PostgreSQL.
// The (actor_id, content_id) primary key is the conflict detector that keeps
// the at-most-one-edge-per-pair invariant under concurrency.
type ReactionRepo struct {
	db querier
}

// NewReactionRepo creates a ReactionRepo from the shared connection pool.
func NewReactionRepo(pool *pgxpool.Pool) *ReactionRepo {
	return &ReactionRepo{db: pool}
}

func (r *ReactionRepo) Exists(ctx context.Context, actorID, contentID uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM reaction_edges WHERE actor_id = $1 AND content_id = $2)`,
		actorID, contentID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check reaction edge: %w", err)
	}
	return exists, nil
}

func (r *ReactionRepo) Insert(ctx context.Context, actorID, contentID uuid.UUID) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO reaction_edges (actor_id, content_id) VALUES ($1, $2)`,
		actorID, contentID)
	if isUniqueViolation(err) {
		return domain.ErrAlreadyReacted
	}
	if err != nil {
		return fmt.Errorf("failed to insert reaction edge: %w", err)
	}
	return nil
}

func (r *ReactionRepo) Delete(ctx context.Context, actorID, contentID uuid.UUID) error {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM reaction_edges WHERE actor_id = $1 AND content_id = $2`,
		actorID, contentID)
	if err != nil {
		return fmt.Errorf("failed to delete reaction edge: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrReactionNotFound
	}
	return nil
}

func (r *ReactionRepo) CountForContent(ctx context.Context, contentID uuid.UUID) (int, error) {
	var count int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM reaction_edges WHERE content_id = $1`, contentID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count reaction edges: %w", err)
	}
	return count, nil
}
