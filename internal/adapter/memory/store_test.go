package memory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pscheid92/kudos/internal/domain"
)

func TestActorRepoRejectsDuplicateHandle(t *testing.T) {
	store := NewStore(clockwork.NewFakeClock())
	repo := NewActorRepo(store)
	ctx := context.Background()

	_, err := repo.Create(ctx, "dup", "", "")
	require.NoError(t, err)

	_, err = repo.Create(ctx, "dup", "", "")
	assert.ErrorIs(t, err, domain.ErrHandleTaken)
}

func TestActorRepoListByIDsSkipsUnknown(t *testing.T) {
	store := NewStore(clockwork.NewFakeClock())
	repo := NewActorRepo(store)
	ctx := context.Background()

	actor, err := repo.Create(ctx, "known", "", "")
	require.NoError(t, err)

	actors, err := repo.ListByIDs(ctx, []uuid.UUID{actor.ID, uuid.New()})
	require.NoError(t, err)
	require.Len(t, actors, 1)
	assert.Equal(t, actor.ID, actors[0].ID)
}

func TestContentRepoCommentValidation(t *testing.T) {
	store := NewStore(clockwork.NewFakeClock())
	actors := NewActorRepo(store)
	content := NewContentRepo(store)
	ctx := context.Background()

	author, err := actors.Create(ctx, "author", "", "")
	require.NoError(t, err)

	postA, err := content.CreatePost(ctx, author.ID, "post a")
	require.NoError(t, err)
	postB, err := content.CreatePost(ctx, author.ID, "post b")
	require.NoError(t, err)

	_, err = content.CreateComment(ctx, uuid.New(), postA.ID, nil, "no such author")
	assert.ErrorIs(t, err, domain.ErrActorNotFound)

	_, err = content.CreateComment(ctx, author.ID, uuid.New(), nil, "no such post")
	assert.ErrorIs(t, err, domain.ErrContentNotFound)

	onA, err := content.CreateComment(ctx, author.ID, postA.ID, nil, "on a")
	require.NoError(t, err)

	// A comment may not be a parent under a different post.
	_, err = content.CreateComment(ctx, author.ID, postB.ID, &onA.ID, "cross-post")
	assert.ErrorIs(t, err, domain.ErrContentNotFound)

	// Comments are not posts and cannot anchor a thread.
	_, err = content.CreateComment(ctx, author.ID, onA.ID, nil, "comment on comment")
	assert.ErrorIs(t, err, domain.ErrContentNotFound)
}

func TestContentRepoListPostsNewestFirst(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	store := NewStore(clock)
	actors := NewActorRepo(store)
	content := NewContentRepo(store)
	ctx := context.Background()

	author, err := actors.Create(ctx, "author", "", "")
	require.NoError(t, err)

	first, err := content.CreatePost(ctx, author.ID, "first")
	require.NoError(t, err)
	clock.Advance(time.Minute)
	second, err := content.CreatePost(ctx, author.ID, "second")
	require.NoError(t, err)

	posts, err := content.ListPosts(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, second.ID, posts[0].ID)
	assert.Equal(t, first.ID, posts[1].ID)
}

func TestContentRepoListCommentsForPostFilters(t *testing.T) {
	store := NewStore(clockwork.NewFakeClock())
	actors := NewActorRepo(store)
	content := NewContentRepo(store)
	ctx := context.Background()

	author, err := actors.Create(ctx, "author", "", "")
	require.NoError(t, err)

	postA, err := content.CreatePost(ctx, author.ID, "post a")
	require.NoError(t, err)
	postB, err := content.CreatePost(ctx, author.ID, "post b")
	require.NoError(t, err)

	_, err = content.CreateComment(ctx, author.ID, postA.ID, nil, "on a")
	require.NoError(t, err)
	_, err = content.CreateComment(ctx, author.ID, postB.ID, nil, "on b")
	require.NoError(t, err)

	comments, err := content.ListCommentsForPost(ctx, postA.ID)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, "on a", comments[0].Body)
}
