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

// actorColumns must match the Scan order in scanActor.
const actorColumns = `id, handle, avatar_url, bio, created_at`

// ActorRepo implements domain.ActorRepository backed by PostgreSQL.
type ActorRepo struct {
	db querier
}

// NewActorRepo creates an ActorRepo from the shared connection pool.
func NewActorRepo(pool *pgxpool.Pool) *ActorRepo {
	return &ActorRepo{db: pool}
}

func scanActor(row pgx.Row) (*domain.Actor, error) {
	var actor domain.Actor
	err := row.Scan(&actor.ID, &actor.Handle, &actor.AvatarURL, &actor.Bio, &actor.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &actor, nil
}

func (r *ActorRepo) Create(ctx context.Context, handle, avatarURL, bio string) (*domain.Actor, error) {
	actor, err := scanActor(r.db.QueryRow(ctx, `
		INSERT INTO actors (id, handle, avatar_url, bio)
		VALUES ($1, $2, $3, $4)
		RETURNING `+actorColumns,
		uuid.New(), handle, avatarURL, bio))
	if isUniqueViolation(err) {
		return nil, fmt.Errorf("handle %q: %w", handle, domain.ErrHandleTaken)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create actor: %w", err)
	}
	return actor, nil
}

func (r *ActorRepo) GetByID(ctx context.Context, actorID uuid.UUID) (*domain.Actor, error) {
	actor, err := scanActor(r.db.QueryRow(ctx,
		`SELECT `+actorColumns+` FROM actors WHERE id = $1`, actorID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrActorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get actor by ID: %w", err)
	}
	return actor, nil
}

func (r *ActorRepo) ListByIDs(ctx context.Context, actorIDs []uuid.UUID) ([]domain.Actor, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+actorColumns+` FROM actors WHERE id = ANY($1)`, actorIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to list actors by IDs: %w", err)
	}
	defer rows.Close()

	return collectActors(rows)
}

func (r *ActorRepo) List(ctx context.Context) ([]domain.Actor, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+actorColumns+` FROM actors ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list actors: %w", err)
	}
	defer rows.Close()

	return collectActors(rows)
}

func collectActors(rows pgx.Rows) ([]domain.Actor, error) {
	actors := make([]domain.Actor, 0)
	for rows.Next() {
		actor, err := scanActor(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan actor: %w", err)
		}
		actors = append(actors, *actor)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read actor rows: %w", err)
	}
	return actors, nil
}
