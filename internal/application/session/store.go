// Package session holds the in-memory store of active wizard sessions.
// Sessions are keyed by opaque uuid and serialized per id: one transition at
// a time per session, full parallelism across sessions.
package session

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/cleanline/cleanline/internal/domain/wizard"
)

var (
	ErrNotFound = errors.New("session not found")
	ErrBusy     = errors.New("session busy: another transition is in flight")
)

type entry struct {
	mu      sync.Mutex
	session *wizard.Session
}

// Store owns all active wizard sessions.
type Store struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*entry
	logger   zerolog.Logger
}

// NewStore creates an empty session store.
func NewStore(logger zerolog.Logger) *Store {
	return &Store{
		sessions: make(map[uuid.UUID]*entry),
		logger:   logger.With().Str("service", "session-store").Logger(),
	}
}

// Create allocates a new session at the start of stage 1.
func (s *Store) Create() *wizard.Session {
	sess := wizard.NewSession()
	s.mu.Lock()
	s.sessions[sess.ID] = &entry{session: sess}
	s.mu.Unlock()
	activeSessions.Inc()
	s.logger.Debug().Str("session_id", sess.ID.String()).Msg("session created")
	return sess
}

// Get returns the live session without taking its per-session lock. It is
// for single-goroutine inspection only (tests, diagnostics); anything that
// may run concurrently with transitions must go through Acquire.
func (s *Store) Get(id uuid.UUID) (*wizard.Session, error) {
	s.mu.RLock()
	e, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	return e.session, nil
}

// Acquire locks the session for a single in-flight transition. A concurrent
// transition on the same id is rejected with ErrBusy rather than queued.
// The returned release function must be called exactly once.
func (s *Store) Acquire(id uuid.UUID) (*wizard.Session, func(), error) {
	s.mu.RLock()
	e, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, nil, ErrNotFound
	}
	if !e.mu.TryLock() {
		return nil, nil, ErrBusy
	}
	return e.session, e.mu.Unlock, nil
}

// Remove deletes a session and all nested stage/substep state. Removing an
// unknown id is a no-op.
func (s *Store) Remove(id uuid.UUID) {
	s.mu.Lock()
	_, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()
	if ok {
		activeSessions.Dec()
		s.logger.Debug().Str("session_id", id.String()).Msg("session removed")
	}
}

// Count returns the number of active sessions.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// ExpireIdle removes sessions whose last update predates now-ttl. A session
// holding its per-session lock (a transition in flight) is never removed.
// Returns the number of sessions expired.
func (s *Store) ExpireIdle(now time.Time, ttl time.Duration) int {
	cutoff := now.Add(-ttl)

	s.mu.RLock()
	candidates := make([]uuid.UUID, 0)
	for id, e := range s.sessions {
		if e.session.UpdatedAt.Before(cutoff) {
			candidates = append(candidates, id)
		}
	}
	s.mu.RUnlock()

	expired := 0
	for _, id := range candidates {
		s.mu.Lock()
		e, ok := s.sessions[id]
		if !ok {
			s.mu.Unlock()
			continue
		}
		if !e.mu.TryLock() {
			s.mu.Unlock()
			continue
		}
		if e.session.UpdatedAt.Before(cutoff) {
			delete(s.sessions, id)
			expired++
			activeSessions.Dec()
			expiredSessions.Inc()
		}
		e.mu.Unlock()
		s.mu.Unlock()
	}
	if expired > 0 {
		s.logger.Info().Int("expired", expired).Msg("idle sessions swept")
	}
	return expired
}
