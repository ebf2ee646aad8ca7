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

// contentColumns must match the Scan order in scanContent.
const contentColumns = `id, kind, author_id, parent_id, post_id, body, reaction_count, depth, created_at`

// ContentRepo implements domain.ContentRepository backed by PostgreSQL.
type ContentRepo struct {
	pool *pgxpool.Pool
}

// NewContentRepo creates a ContentRepo from the shared connection pool.
func NewContentRepo(pool *pgxpool.Pool) *ContentRepo {
	return &ContentRepo{pool: pool}
}

func scanContent(row pgx.Row) (*domain.ContentItem, error) {
	var item domain.ContentItem
	err := row.Scan(
		&item.ID, &item.Kind, &item.AuthorID, &item.ParentID, &item.PostID,
		&item.Body, &item.ReactionCount, &item.Depth, &item.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *ContentRepo) CreatePost(ctx context.Context, authorID uuid.UUID, body string) (*domain.ContentItem, error) {
	id := uuid.New()
	item, err := scanContent(r.pool.QueryRow(ctx, `
		INSERT INTO content_items (id, kind, author_id, post_id, body)
		VALUES ($1, 'post', $2, $1, $3)
		RETURNING `+contentColumns,
		id, authorID, body))
	if isForeignKeyViolation(err) {
		return nil, domain.ErrActorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}
	return item, nil
}

// CreateComment inserts a comment whose depth is derived from the parent
// snapshot inside one transaction, so a comment can never observe a stale
// parent depth.
func (r *ContentRepo) CreateComment(ctx context.Context, authorID, postID uuid.UUID, parentID *uuid.UUID, body string) (*domain.ContentItem, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op after commit

	post, err := scanContent(tx.QueryRow(ctx,
		`SELECT `+contentColumns+` FROM content_items WHERE id = $1 AND kind = 'post'`, postID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrContentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load post: %w", err)
	}

	depth := 0
	if parentID != nil {
		parent, err := scanContent(tx.QueryRow(ctx,
			`SELECT `+contentColumns+` FROM content_items WHERE id = $1 AND post_id = $2`, *parentID, postID))
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrContentNotFound
		}
		if err != nil {
			return nil, fmt.Errorf("failed to load parent comment: %w", err)
		}
		depth = parent.Depth + 1
	}

	item, err := scanContent(tx.QueryRow(ctx, `
		INSERT INTO content_items (id, kind, author_id, parent_id, post_id, body, depth)
		VALUES ($1, 'comment', $2, $3, $4, $5, $6)
		RETURNING `+contentColumns,
		uuid.New(), authorID, parentID, post.ID, body, depth))
	if isForeignKeyViolation(err) {
		return nil, domain.ErrActorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return item, nil
}

func (r *ContentRepo) GetByID(ctx context.Context, contentID uuid.UUID) (*domain.ContentItem, error) {
	item, err := scanContent(r.pool.QueryRow(ctx,
		`SELECT `+contentColumns+` FROM content_items WHERE id = $1`, contentID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrContentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get content by ID: %w", err)
	}
	return item, nil
}

func (r *ContentRepo) ListPosts(ctx context.Context) ([]domain.ContentItem, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+contentColumns+` FROM content_items WHERE kind = 'post' ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	defer rows.Close()

	return collectContent(rows)
}

func (r *ContentRepo) ListCommentsForPost(ctx context.Context, postID uuid.UUID) ([]domain.ContentItem, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+contentColumns+` FROM content_items WHERE post_id = $1 AND kind = 'comment'`, postID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	defer rows.Close()

	return collectContent(rows)
}

func collectContent(rows pgx.Rows) ([]domain.ContentItem, error) {
	items := make([]domain.ContentItem, 0)
	for rows.Next() {
		item, err := scanContent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan content item: %w", err)
		}
		items = append(items, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read content rows: %w", err)
	}
	return items, nil
}
