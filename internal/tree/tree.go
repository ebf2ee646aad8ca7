// Package tree reconstructs nested comment threads from flat record sets.
//
// A whole thread is fetched in one query; Assemble rebuilds the reply
// structure in memory in O(n) without touching the store. The assembler is
// pure: it never mutates its input and produces identical output for any
// permutation of the same input.
package tree

import (
	"sort"

	"github.com/google/uuid"

	"github.com/pscheid92/kudos/internal/domain"
)

// DefaultMaxDepth bounds how deep reply chains are materialized.
const DefaultMaxDepth = 10

// Node is one comment with its direct replies nested beneath it.
// ReplyCount is the number of direct children, which may exceed len(Children)
// when the depth limit truncated materialization.
type Node struct {
	Item       domain.ContentItem `json:"item"`
	ReplyCount int                `json:"reply_count"`
	Children   []Node             `json:"children"`
}

// Option configures Assemble.
type Option func(*options)

type options struct {
	maxDepth int
}

// WithMaxDepth overrides the depth at which children stop being materialized.
// Nodes at the limit keep their true ReplyCount but get empty Children.
func WithMaxDepth(depth int) Option {
	return func(o *options) { o.maxDepth = depth }
}

// Assemble converts a flat set of comments into an ordered forest of
// top-level nodes. Children at every level are ordered by creation time
// ascending, ties broken by ID ascending, so output is reproducible.
//
// Items whose parent is absent from the input are treated as top-level; the
// assembler makes no assumption about how the set was fetched beyond it
// covering one post's thread.
func Assemble(items []domain.ContentItem, opts ...Option) []Node {
	o := options{maxDepth: DefaultMaxDepth}
	for _, opt := range opts {
		opt(&o)
	}

	if len(items) == 0 {
		return []Node{}
	}

	// Arena of nodes plus index buckets keyed by parent. uuid.Nil is the
	// synthetic no-parent key; posts never appear as comments so a real ID
	// can't collide with it.
	arena := make([]Node, len(items))
	byID := make(map[uuid.UUID]int, len(items))
	childIdx := make(map[uuid.UUID][]int, len(items))

	for i, item := range items {
		arena[i] = Node{Item: item, Children: []Node{}}
		byID[item.ID] = i
	}
	for i, item := range items {
		key := uuid.Nil
		if item.ParentID != nil {
			if _, known := byID[*item.ParentID]; known {
				key = *item.ParentID
			}
		}
		childIdx[key] = append(childIdx[key], i)
	}

	for _, indices := range childIdx {
		sortByCreation(arena, indices)
	}

	var materialize func(idx int) Node
	materialize = func(idx int) Node {
		node := arena[idx]
		children := childIdx[node.Item.ID]
		node.ReplyCount = len(children)

		if node.Item.Depth < o.maxDepth {
			node.Children = make([]Node, 0, len(children))
			for _, child := range children {
				node.Children = append(node.Children, materialize(child))
			}
		}
		return node
	}

	roots := childIdx[uuid.Nil]
	result := make([]Node, 0, len(roots))
	for _, idx := range roots {
		result = append(result, materialize(idx))
	}
	return result
}

// Count returns the total number of nodes across the forest, including nodes
// whose children were truncated by the depth limit.
func Count(nodes []Node) int {
	total := 0
	for _, n := range nodes {
		total += 1 + Count(n.Children)
	}
	return total
}

func sortByCreation(arena []Node, indices []int) {
	sort.SliceStable(indices, func(a, b int) bool {
		ia, ib := arena[indices[a]].Item, arena[indices[b]].Item
		if !ia.CreatedAt.Equal(ib.CreatedAt) {
			return ia.CreatedAt.Before(ib.CreatedAt)
		}
		return ia.ID.String() < ib.ID.String()
	})
}
