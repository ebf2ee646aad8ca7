package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/pscheid92/kudos/internal/domain"
	"github.com/pscheid92/kudos/internal/engine"
)

// setupTestDatabase starts a throwaway Postgres container, runs the
// migrations, and returns a connected pool.
func setupTestDatabase(t *testing.T) *pgxpool.Pool {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container-backed test in short mode")
	}

	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("kudos_test"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = container.Terminate(context.Background())
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := Connect(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, RunMigrationsWithLock(ctx, pool))
	return pool
}

func TestEngagementFlowAgainstPostgres(t *testing.T) {
	pool := setupTestDatabase(t)
	ctx := context.Background()

	actors := NewActorRepo(pool)
	content := NewContentRepo(pool)
	reactions := NewReactionRepo(pool)
	ledger := NewLedgerRepo(pool)
	eng := engine.New(NewUnitOfWork(pool), reactions, nil)

	author, err := actors.Create(ctx, "author", "https://example.com/a.png", "hi")
	require.NoError(t, err)
	fan, err := actors.Create(ctx, "fan", "", "")
	require.NoError(t, err)

	_, err = actors.Create(ctx, "author", "", "")
	assert.ErrorIs(t, err, domain.ErrHandleTaken)

	post, err := content.CreatePost(ctx, author.ID, "hello world")
	require.NoError(t, err)
	assert.Equal(t, post.ID, post.PostID)
	assert.True(t, post.IsPost())

	comment, err := content.CreateComment(ctx, fan.ID, post.ID, nil, "first")
	require.NoError(t, err)
	assert.Equal(t, 0, comment.Depth)

	reply, err := content.CreateComment(ctx, author.ID, post.ID, &comment.ID, "thanks")
	require.NoError(t, err)
	assert.Equal(t, 1, reply.Depth)

	// Toggle on: counter, edge, and ledger move together.
	res, err := eng.Toggle(ctx, fan.ID, post.ID)
	require.NoError(t, err)
	assert.True(t, res.Reacted)
	assert.Equal(t, 1, res.ReactionCount)

	total, err := ledger.SumAll(ctx, author.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PointsPostReaction, total)

	// Double add is a conflict and leaves nothing behind.
	_, err = eng.Add(ctx, fan.ID, post.ID)
	assert.ErrorIs(t, err, domain.ErrAlreadyReacted)

	got, err := content.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.ReactionCount)

	// Self-reaction on the fan's own comment earns no karma.
	_, err = eng.Toggle(ctx, fan.ID, comment.ID)
	require.NoError(t, err)
	fanTotal, err := ledger.SumAll(ctx, fan.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, fanTotal)

	// Toggle off: everything reverses.
	res, err = eng.Toggle(ctx, fan.ID, post.ID)
	require.NoError(t, err)
	assert.False(t, res.Reacted)
	assert.Equal(t, 0, res.ReactionCount)

	total, err = ledger.SumAll(ctx, author.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, total)
}

func TestLedgerSumsAgainstPostgres(t *testing.T) {
	pool := setupTestDatabase(t)
	ctx := context.Background()

	actors := NewActorRepo(pool)
	ledger := NewLedgerRepo(pool)

	author, err := actors.Create(ctx, "author", "", "")
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		err := ledger.Insert(ctx, domain.LedgerEntry{
			ID:        uuid.New(),
			ActorID:   author.ID,
			Category:  domain.CategoryPostReaction,
			Points:    domain.PointsPostReaction,
			SubjectID: uuid.New(),
			CreatedAt: time.Now().UTC(),
		})
		require.NoError(t, err)
	}
	err = ledger.Insert(ctx, domain.LedgerEntry{
		ID:        uuid.New(),
		ActorID:   author.ID,
		Category:  domain.CategoryCommentReaction,
		Points:    domain.PointsCommentReaction,
		SubjectID: uuid.New(),
		CreatedAt: time.Now().UTC().Add(-48 * time.Hour),
	})
	require.NoError(t, err)

	since := time.Now().UTC().Add(-24 * time.Hour)

	byActor, err := ledger.SumByActor(ctx, since)
	require.NoError(t, err)
	assert.Equal(t, 3*domain.PointsPostReaction, byActor[author.ID])

	byCategory, err := ledger.SumByCategory(ctx, author.ID, since)
	require.NoError(t, err)
	assert.Equal(t, 3*domain.PointsPostReaction, byCategory[domain.CategoryPostReaction])
	assert.Zero(t, byCategory[domain.CategoryCommentReaction])

	total, err := ledger.SumAll(ctx, author.ID)
	require.NoError(t, err)
	assert.Equal(t, 3*domain.PointsPostReaction+domain.PointsCommentReaction, total)
}

func TestAdjustReactionCountUnderflowAgainstPostgres(t *testing.T) {
	pool := setupTestDatabase(t)
	ctx := context.Background()

	author, err := NewActorRepo(pool).Create(ctx, "author", "", "")
	require.NoError(t, err)
	post, err := NewContentRepo(pool).CreatePost(ctx, author.ID, "a post")
	require.NoError(t, err)

	uow := NewUnitOfWork(pool)
	err = uow.InTx(ctx, func(tx domain.TxStores) error {
		_, err := tx.AdjustReactionCount(ctx, post.ID, -1)
		return err
	})
	assert.ErrorIs(t, err, domain.ErrInvariantViolation)

	// The failed unit rolled back; the row is intact.
	got, err := NewContentRepo(pool).GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.ReactionCount)
}
