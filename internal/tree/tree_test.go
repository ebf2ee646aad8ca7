package tree

import (
	"math/rand"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pscheid92/kudos/internal/domain"
)

var baseTime = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

type commentSpec struct {
	id     uuid.UUID
	parent *uuid.UUID
	depth  int
	offset time.Duration
}

func makeComment(spec commentSpec) domain.ContentItem {
	return domain.ContentItem{
		ID:        spec.id,
		Kind:      domain.KindComment,
		AuthorID:  uuid.New(),
		ParentID:  spec.parent,
		PostID:    uuid.New(),
		Depth:     spec.depth,
		CreatedAt: baseTime.Add(spec.offset),
	}
}

// buildThread returns a small fixed thread:
//
//	a (t+0)
//	├── b (t+1)
//	│   └── d (t+3)
//	└── c (t+2)
//	e (t+4)
func buildThread() []domain.ContentItem {
	a, b, c, d, e := uuid.New(), uuid.New(), uuid.New(), uuid.New(), uuid.New()
	return []domain.ContentItem{
		makeComment(commentSpec{id: a, depth: 0, offset: 0}),
		makeComment(commentSpec{id: b, parent: &a, depth: 1, offset: time.Minute}),
		makeComment(commentSpec{id: c, parent: &a, depth: 1, offset: 2 * time.Minute}),
		makeComment(commentSpec{id: d, parent: &b, depth: 2, offset: 3 * time.Minute}),
		makeComment(commentSpec{id: e, depth: 0, offset: 4 * time.Minute}),
	}
}

func collectIDs(nodes []Node) []uuid.UUID {
	var ids []uuid.UUID
	for _, n := range nodes {
		ids = append(ids, n.Item.ID)
		ids = append(ids, collectIDs(n.Children)...)
	}
	return ids
}

func TestAssembleStructure(t *testing.T) {
	items := buildThread()
	forest := Assemble(items)

	require.Len(t, forest, 2)

	a := forest[0]
	assert.Equal(t, items[0].ID, a.Item.ID)
	assert.Equal(t, 2, a.ReplyCount)
	require.Len(t, a.Children, 2)

	b := a.Children[0]
	assert.Equal(t, items[1].ID, b.Item.ID)
	assert.Equal(t, 1, b.ReplyCount)
	require.Len(t, b.Children, 1)
	assert.Equal(t, items[3].ID, b.Children[0].Item.ID)

	c := a.Children[1]
	assert.Equal(t, items[2].ID, c.Item.ID)
	assert.Equal(t, 0, c.ReplyCount)
	assert.Empty(t, c.Children)

	e := forest[1]
	assert.Equal(t, items[4].ID, e.Item.ID)
	assert.Empty(t, e.Children)
}

func TestAssemblePreservesCount(t *testing.T) {
	items := buildThread()
	forest := Assemble(items)
	assert.Equal(t, len(items), Count(forest))

	ids := collectIDs(forest)
	require.Len(t, ids, len(items))
	seen := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		assert.False(t, seen[id], "id %s appears twice", id)
		seen[id] = true
	}
}

func TestAssembleIsOrderInvariant(t *testing.T) {
	items := buildThread()
	want := Assemble(items)

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 20; i++ {
		shuffled := make([]domain.ContentItem, len(items))
		copy(shuffled, items)
		rng.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})

		got := Assemble(shuffled)
		assert.Equal(t, want, got)
	}
}

func TestAssembleBreaksTimestampTiesByID(t *testing.T) {
	// Two siblings with identical timestamps; order must follow their IDs.
	low := uuid.MustParse("11111111-1111-1111-1111-111111111111")
	high := uuid.MustParse("22222222-2222-2222-2222-222222222222")

	items := []domain.ContentItem{
		makeComment(commentSpec{id: high, depth: 0}),
		makeComment(commentSpec{id: low, depth: 0}),
	}

	forest := Assemble(items)
	require.Len(t, forest, 2)
	assert.Equal(t, low, forest[0].Item.ID)
	assert.Equal(t, high, forest[1].Item.ID)
}

func TestAssembleTreatsOrphansAsTopLevel(t *testing.T) {
	missing := uuid.New()
	orphan := makeComment(commentSpec{id: uuid.New(), parent: &missing, depth: 3})

	forest := Assemble([]domain.ContentItem{orphan})
	require.Len(t, forest, 1)
	assert.Equal(t, orphan.ID, forest[0].Item.ID)
}

func TestAssembleEmptyInput(t *testing.T) {
	assert.Empty(t, Assemble(nil))
	assert.Empty(t, Assemble([]domain.ContentItem{}))
}

func TestAssembleTruncatesAtMaxDepth(t *testing.T) {
	// A straight chain one level past the limit. The node at the limit keeps
	// its true reply count but materializes no children.
	const limit = 3

	items := make([]domain.ContentItem, 0, limit+2)
	var parent *uuid.UUID
	for depth := 0; depth <= limit+1; depth++ {
		id := uuid.New()
		items = append(items, makeComment(commentSpec{
			id:     id,
			parent: parent,
			depth:  depth,
			offset: time.Duration(depth) * time.Minute,
		}))
		idCopy := id
		parent = &idCopy
	}

	forest := Assemble(items, WithMaxDepth(limit))
	require.Len(t, forest, 1)

	node := forest[0]
	for depth := 0; depth < limit; depth++ {
		assert.Equal(t, 1, node.ReplyCount)
		require.Len(t, node.Children, 1)
		node = node.Children[0]
	}

	assert.Equal(t, limit, node.Item.Depth)
	assert.Equal(t, 1, node.ReplyCount, "truncated node keeps its true reply count")
	assert.Empty(t, node.Children)
}

func TestAssembleDefaultDepthAllowsDeepChains(t *testing.T) {
	// Chains up to the default limit come back fully materialized.
	items := make([]domain.ContentItem, 0, DefaultMaxDepth+1)
	var parent *uuid.UUID
	for depth := 0; depth <= DefaultMaxDepth; depth++ {
		id := uuid.New()
		items = append(items, makeComment(commentSpec{
			id:     id,
			parent: parent,
			depth:  depth,
			offset: time.Duration(depth) * time.Second,
		}))
		idCopy := id
		parent = &idCopy
	}

	forest := Assemble(items)
	require.Len(t, forest, 1)

	depth := 0
	node := forest[0]
	for len(node.Children) > 0 {
		node = node.Children[0]
		depth++
	}
	assert.Equal(t, DefaultMaxDepth, depth)
}

func TestAssembleDoesNotMutateInput(t *testing.T) {
	items := buildThread()
	snapshot := make([]domain.ContentItem, len(items))
	copy(snapshot, items)

	_ = Assemble(items)
	assert.Equal(t, snapshot, items)
}
