// Package memory is an in-process implementation of the repo interfaces.
// It backs STORAGE_BACKEND=memory and mirrors the Postgres listing semantics:
// inner join on owner, the same predicate for page and count, and the same
// sort order. Keyword case folding is Unicode simple lowercasing, which agrees
// with ILIKE under a UTF-8 database for ASCII and most Latin, Greek and
// Cyrillic text but not for locale-specific rules such as Turkish dotted I.
package memory

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/triptracker/backend/internal/domain"
)

// Store holds users and trips behind a single lock so that joins observe a
// consistent view. It is safe for concurrent use.
type Store struct {
	mu    sync.RWMutex
	users map[uuid.UUID]domain.User
	trips map[uuid.UUID]tripRecord
	seq   uint64
	now   func() time.Time
}

// tripRecord keeps the insertion sequence alongside the trip; it breaks ties
// between trips that share a start date and creation timestamp.
type tripRecord struct {
	trip domain.Trip
	seq  uint64
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		users: make(map[uuid.UUID]domain.User),
		trips: make(map[uuid.UUID]tripRecord),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// Trips returns a TripRepo view of the store.
func (s *Store) Trips() *TripRepo {
	return &TripRepo{s: s}
}

// Users returns a UserRepo view of the store.
func (s *Store) Users() *UserRepo {
	return &UserRepo{s: s}
}
