package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pscheid92/kudos/internal/domain"
)

// LedgerRepo implements domain.LedgerRepository backed by PostgreSQL.
// Entries are append-only; the only delete removes the single entry tied to a
// removed reaction edge.
type LedgerRepo struct {
	db querier
}

// NewLedgerRepo creates a LedgerRepo from the shared connection pool.
func NewLedgerRepo(pool *pgxpool.Pool) *LedgerRepo {
	return &LedgerRepo{db: pool}
}

func (r *LedgerRepo) Insert(ctx context.Context, entry domain.LedgerEntry) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	_, err := r.db.Exec(ctx, `
		INSERT INTO ledger_entries (id, actor_id, category, points, subject_id)
		VALUES ($1, $2, $3, $4, $5)`,
		entry.ID, entry.ActorID, entry.Category, entry.Points, entry.SubjectID)
	if err != nil {
		return fmt.Errorf("failed to insert ledger entry: %w", err)
	}
	return nil
}

func (r *LedgerRepo) DeleteMatching(ctx context.Context, beneficiaryID uuid.UUID, category domain.KarmaCategory, subjectID uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `
		DELETE FROM ledger_entries
		WHERE id IN (
			SELECT id FROM ledger_entries
			WHERE actor_id = $1 AND category = $2 AND subject_id = $3
			LIMIT 1
		)`,
		beneficiaryID, category, subjectID)
	if err != nil {
		return fmt.Errorf("failed to delete ledger entry: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrLedgerNotFound
	}
	return nil
}

func (r *LedgerRepo) SumByActor(ctx context.Context, since time.Time) (map[uuid.UUID]int, error) {
	rows, err := r.db.Query(ctx, `
		SELECT actor_id, SUM(points)
		FROM ledger_entries
		WHERE created_at >= $1
		GROUP BY actor_id`,
		since)
	if err != nil {
		return nil, fmt.Errorf("failed to sum ledger by actor: %w", err)
	}
	defer rows.Close()

	sums := make(map[uuid.UUID]int)
	for rows.Next() {
		var actorID uuid.UUID
		var total int
		if err := rows.Scan(&actorID, &total); err != nil {
			return nil, fmt.Errorf("failed to scan ledger sum: %w", err)
		}
		sums[actorID] = total
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read ledger sums: %w", err)
	}
	return sums, nil
}

func (r *LedgerRepo) SumByCategory(ctx context.Context, actorID uuid.UUID, since time.Time) (map[domain.KarmaCategory]int, error) {
	rows, err := r.db.Query(ctx, `
		SELECT category, SUM(points)
		FROM ledger_entries
		WHERE actor_id = $1 AND created_at >= $2
		GROUP BY category`,
		actorID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to sum ledger by category: %w", err)
	}
	defer rows.Close()

	sums := make(map[domain.KarmaCategory]int)
	for rows.Next() {
		var category domain.KarmaCategory
		var total int
		if err := rows.Scan(&category, &total); err != nil {
			return nil, fmt.Errorf("failed to scan category sum: %w", err)
		}
		sums[category] = total
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read category sums: %w", err)
	}
	return sums, nil
}

func (r *LedgerRepo) SumAll(ctx context.Context, actorID uuid.UUID) (int, error) {
	var total int
	err := r.db.QueryRow(ctx,
		`SELECT COALESCE(SUM(points), 0) FROM ledger_entries WHERE actor_id = $1`, actorID).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to sum ledger: %w", err)
	}
	return total, nil
}
