// Package memory implements every repository against in-process maps.
//
// It backs single-instance deployments without Postgres and the unit tests.
// Engagement mutations serialize per content item through the same unit of
// work contract the Postgres adapter honors, so the engine behaves
// identically on both.
package memory

import (
	"sync"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/pscheid92/kudos/internal/domain"
)

type edgeKey struct {
	ActorID   uuid.UUID
	ContentID uuid.UUID
}

// Store holds all in-memory state. The struct-level mutex guards the maps;
// per-content mutexes serialize engagement transactions per item so toggles
// on different items never block each other.
type Store struct {
	clock clockwork.Clock

	mu      sync.RWMutex
	actors  map[uuid.UUID]domain.Actor
	content map[uuid.UUID]*domain.ContentItem
	edges   map[edgeKey]domain.ReactionEdge
	ledger  map[uuid.UUID]domain.LedgerEntry

	contentLocks sync.Map // uuid.UUID -> *sync.Mutex
}

// NewStore creates an empty in-memory store.
func NewStore(clock clockwork.Clock) *Store {
	return &Store{
		clock:   clock,
		actors:  make(map[uuid.UUID]domain.Actor),
		content: make(map[uuid.UUID]*domain.ContentItem),
		edges:   make(map[edgeKey]domain.ReactionEdge),
		ledger:  make(map[uuid.UUID]domain.LedgerEntry),
	}
}

func (s *Store) lockFor(contentID uuid.UUID) *sync.Mutex {
	lock, _ := s.contentLocks.LoadOrStore(contentID, &sync.Mutex{})
	return lock.(*sync.Mutex)
}
