package ranking_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pscheid92/kudos/internal/adapter/memory"
	"github.com/pscheid92/kudos/internal/domain"
	"github.com/pscheid92/kudos/internal/ranking"
)

type rankingEnv struct {
	clock  *clockwork.FakeClock
	ledger *memory.LedgerRepo
	agg    *ranking.Aggregator
}

func newRankingEnv(t *testing.T) *rankingEnv {
	t.Helper()

	clock := clockwork.NewFakeClockAt(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	store := memory.NewStore(clock)
	ledger := memory.NewLedgerRepo(store)

	return &rankingEnv{
		clock:  clock,
		ledger: ledger,
		agg:    ranking.New(ledger, clock),
	}
}

// credit writes one ledger entry aged by the given amount relative to now.
func (env *rankingEnv) credit(t *testing.T, actorID uuid.UUID, category domain.KarmaCategory, age time.Duration) {
	t.Helper()

	err := env.ledger.Insert(context.Background(), domain.LedgerEntry{
		ID:        uuid.New(),
		ActorID:   actorID,
		Category:  category,
		Points:    domain.PointsFor(category),
		SubjectID: uuid.New(),
		CreatedAt: env.clock.Now().Add(-age),
	})
	require.NoError(t, err)
}

func TestTopKOrdersByPoints(t *testing.T) {
	env := newRankingEnv(t)
	alice, bob, carol := uuid.New(), uuid.New(), uuid.New()

	// alice: 3 post reactions = 15, bob: 2 post reactions = 10,
	// carol: 3 comment reactions = 3.
	for i := 0; i < 3; i++ {
		env.credit(t, alice, domain.CategoryPostReaction, time.Hour)
		env.credit(t, carol, domain.CategoryCommentReaction, time.Hour)
	}
	env.credit(t, bob, domain.CategoryPostReaction, time.Hour)
	env.credit(t, bob, domain.CategoryPostReaction, 2*time.Hour)

	entries, err := env.agg.TopK(context.Background(), 24*time.Hour, 5)
	require.NoError(t, err)

	want := []ranking.Entry{
		{ActorID: alice, Points: 15},
		{ActorID: bob, Points: 10},
		{ActorID: carol, Points: 3},
	}
	assert.Equal(t, want, entries)
}

func TestTopKWindowExcludesOldEntries(t *testing.T) {
	env := newRankingEnv(t)
	fresh, stale := uuid.New(), uuid.New()

	env.credit(t, fresh, domain.CategoryPostReaction, time.Hour)
	env.credit(t, stale, domain.CategoryPostReaction, 25*time.Hour)

	entries, err := env.agg.TopK(context.Background(), 24*time.Hour, 5)
	require.NoError(t, err)

	require.Len(t, entries, 1)
	assert.Equal(t, fresh, entries[0].ActorID)

	// A wider window picks the stale entry back up.
	entries, err = env.agg.TopK(context.Background(), 48*time.Hour, 5)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestTopKTruncatesToK(t *testing.T) {
	env := newRankingEnv(t)

	for i := 0; i < 10; i++ {
		env.credit(t, uuid.New(), domain.CategoryPostReaction, time.Hour)
	}

	entries, err := env.agg.TopK(context.Background(), 24*time.Hour, 3)
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}

func TestTopKBreaksTiesByActorID(t *testing.T) {
	env := newRankingEnv(t)

	low := uuid.MustParse("11111111-1111-1111-1111-111111111111")
	high := uuid.MustParse("22222222-2222-2222-2222-222222222222")

	env.credit(t, high, domain.CategoryPostReaction, time.Hour)
	env.credit(t, low, domain.CategoryPostReaction, 2*time.Hour)

	entries, err := env.agg.TopK(context.Background(), 24*time.Hour, 5)
	require.NoError(t, err)

	require.Len(t, entries, 2)
	assert.Equal(t, low, entries[0].ActorID)
	assert.Equal(t, high, entries[1].ActorID)
}

func TestTopKOmitsActorsWithoutEntries(t *testing.T) {
	env := newRankingEnv(t)

	entries, err := env.agg.TopK(context.Background(), 24*time.Hour, 5)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestTopKAdvancingClockAgesEntriesOut(t *testing.T) {
	env := newRankingEnv(t)
	actor := uuid.New()

	env.credit(t, actor, domain.CategoryPostReaction, 23*time.Hour)

	entries, err := env.agg.TopK(context.Background(), 24*time.Hour, 5)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	env.clock.Advance(2 * time.Hour)

	entries, err = env.agg.TopK(context.Background(), 24*time.Hour, 5)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestBreakdownZeroFillsCategories(t *testing.T) {
	env := newRankingEnv(t)
	actor := uuid.New()

	env.credit(t, actor, domain.CategoryCommentReaction, time.Hour)

	breakdown, err := env.agg.Breakdown(context.Background(), actor, 24*time.Hour)
	require.NoError(t, err)

	want := map[domain.KarmaCategory]int{
		domain.CategoryPostReaction:    0,
		domain.CategoryCommentReaction: 1,
	}
	assert.Equal(t, want, breakdown)
}

func TestAllTimeTotalIgnoresWindow(t *testing.T) {
	env := newRankingEnv(t)
	actor := uuid.New()

	env.credit(t, actor, domain.CategoryPostReaction, time.Hour)
	env.credit(t, actor, domain.CategoryPostReaction, 24*30*time.Hour)

	total, err := env.agg.AllTimeTotal(context.Background(), actor)
	require.NoError(t, err)
	assert.Equal(t, 2*domain.PointsPostReaction, total)
}
