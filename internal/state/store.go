package state

import (
	"fmt"
	"sync"
	"time"

	"github.com/five82/checkmate/internal/checkmate"
)

// Status is the tri-state availability of the backend.
type Status int

const (
	StatusChecking Status = iota
	StatusOnline
	StatusOffline
)

func (s Status) String() string {
	switch s {
	case StatusOnline:
		return "online"
	case StatusOffline:
		return "offline"
	default:
		return "checking"
	}
}

// Summary returns the short text shown next to the status badge.
func (s Status) Summary() string {
	switch s {
	case StatusOnline:
		return "API Online"
	case StatusOffline:
		return "API Offline"
	default:
		return "Checking..."
	}
}

// Snapshot represents the latest availability data available to the UI.
type Snapshot struct {
	Status              Status
	Health              checkmate.HealthResponse
	LastChecked         time.Time
	LastSuccess         time.Time
	LastError           error
	ConsecutiveFailures int
	InFlight            bool
	Seq                 uint64
}

// Summary is the badge text for the current status.
func (s Snapshot) Summary() string {
	return s.Status.Summary()
}

// HasResult reports whether any probe has completed.
func (s Snapshot) HasResult() bool {
	return s.Status != StatusChecking
}

// Fresh reports whether the last applied probe succeeded less than window ago.
func (s Snapshot) Fresh(now time.Time, window time.Duration) bool {
	if s.Status != StatusOnline || s.LastSuccess.IsZero() {
		return false
	}
	return now.Sub(s.LastSuccess) < window
}

// Store coordinates probe results between the poller and the UI. Results are
// applied last-probe-wins: only the most recently issued probe may update it.
type Store struct {
	mu       sync.RWMutex
	issued   uint64
	closed   bool
	now      func() time.Time
	snapshot Snapshot
}

// Begin issues a probe sequence number and marks a probe as in flight.
func (s *Store) Begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.issued++
	if !s.closed {
		s.snapshot.InFlight = true
	}
	return s.issued
}

// Apply records the outcome of probe seq. It returns false and leaves the
// snapshot untouched when a newer probe has been issued or the store is closed.
func (s *Store) Apply(seq uint64, health *checkmate.HealthResponse, err error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || seq != s.issued {
		return false
	}
	now := s.clock()
	s.snapshot.Seq = seq
	s.snapshot.InFlight = false
	s.snapshot.LastChecked = now

	if err != nil {
		s.snapshot.Status = StatusOffline
		s.snapshot.LastError = err
		s.snapshot.ConsecutiveFailures++
		return true
	}

	s.snapshot.Status = StatusOnline
	if health != nil {
		s.snapshot.Health = *health
	}
	s.snapshot.LastError = nil
	s.snapshot.LastSuccess = now
	s.snapshot.ConsecutiveFailures = 0
	return true
}

// Close stops the store from accepting results.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.snapshot.InFlight = false
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

func (s *Store) clock() time.Time {
	if s.now != nil {
		return s.now()
	}
	return time.Now()
}
