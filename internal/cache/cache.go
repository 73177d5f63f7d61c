/*
Package cache implements the in-process preview session cache (C7): a
session_id-keyed snapshot of processed time-registration output, held in
memory only, swept on a TTL, and discarded on process restart.
*/
package cache

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"backend/internal/engine"
	"backend/internal/models"
)

// DefaultTTL is how long a preview session survives without being
// refreshed before it becomes eligible for sweeping.
const DefaultTTL = 1 * time.Hour

// Session is one cached preview snapshot.
type Session struct {
	ID                  string
	Records             []models.DailyRecord
	Daily               []models.DailyOutput
	Weekly              []models.WeeklySummary
	CallOutEligibleDays []engine.EligibleDay
	CreatedAt           time.Time
}

// Store is a mutex-protected in-process map of session_id to Session.
// Every insert sweeps entries older than ttl, matching the concurrency
// model's single-mutex requirement around insert/sweep/read.
type Store struct {
	mu       sync.Mutex
	sessions map[string]Session
	ttl      time.Duration
}

// NewStore creates an empty Store with the given TTL.
func NewStore(ttl time.Duration) *Store {
	return &Store{
		sessions: make(map[string]Session),
		ttl:      ttl,
	}
}

// Put stores result under a freshly generated session id and returns it,
// sweeping expired sessions first.
func (s *Store) Put(result engine.Result) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sweepLocked()

	id := uuid.New().String()
	s.sessions[id] = Session{
		ID:                  id,
		Records:             result.Records,
		Daily:               result.Daily,
		Weekly:              result.Weekly,
		CallOutEligibleDays: result.CallOutEligibleDays,
		CreatedAt:           time.Now(),
	}
	return id
}

// Replace overwrites an existing session's contents in place (used
// after mark-absence/call-out recalculation, which re-runs the full
// pipeline for the affected session rather than patching it).
func (s *Store) Replace(id string, result engine.Result) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sweepLocked()

	if _, ok := s.sessions[id]; !ok {
		return false
	}
	s.sessions[id] = Session{
		ID:                  id,
		Records:             result.Records,
		Daily:               result.Daily,
		Weekly:              result.Weekly,
		CallOutEligibleDays: result.CallOutEligibleDays,
		CreatedAt:           time.Now(),
	}
	return true
}

// Get returns the session for id, or ok=false if it does not exist or
// has expired.
func (s *Store) Get(id string) (Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sweepLocked()

	session, ok := s.sessions[id]
	return session, ok
}

// sweepLocked removes sessions older than s.ttl. Callers must hold s.mu.
func (s *Store) sweepLocked() {
	cutoff := time.Now().Add(-s.ttl)
	for id, session := range s.sessions {
		if session.CreatedAt.Before(cutoff) {
			delete(s.sessions, id)
		}
	}
}
