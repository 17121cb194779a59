package state

import (
	"fmt"
	"sync"
	"time"

	"github.com/five82/liker/internal/engagement"
)

// Snapshot is the latest button state plus the health of the resync loop.
type Snapshot struct {
	Engagement          engagement.State
	HasState            bool
	LastSynced          time.Time
	LastError           error
	ConsecutiveFailures int // Number of consecutive sync failures
}

// IsOffline returns true when the API has failed several syncs in a row.
func (s Snapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// Store coordinates concurrent updates to the snapshot.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
}

// Update records the outcome of a sync. A non-nil st replaces the stored
// button state even when err is set, since a failed sync may still have
// applied some reads. With a nil st the previous state is kept.
func (s *Store) Update(st *engagement.State, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if st != nil {
		s.snapshot.Engagement = *st
		s.snapshot.HasState = true
	}
	s.snapshot.LastSynced = time.Now()
	if err != nil {
		s.snapshot.LastError = err
		s.snapshot.ConsecutiveFailures++
		return
	}
	s.snapshot.LastError = nil
	s.snapshot.ConsecutiveFailures = 0
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}
