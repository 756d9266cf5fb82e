// Package memory provides the in-process session store implementation.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/dataplug/copilot-service/internal/core/sessionstore"
	"github.com/dataplug/copilot-service/internal/domain/models"
)

// Config holds the memory store configuration.
type Config struct {
	// TTL is the sliding expiry window for each session.
	TTL time.Duration
	// MaxSessions is the hard capacity; inserting beyond it evicts the
	// least-recently-accessed session.
	MaxSessions int
	// CleanupInterval is the minimum spacing between lazy sweep passes.
	CleanupInterval time.Duration
	// Clock overrides the time source. Used by tests; defaults to time.Now.
	Clock func() time.Time
}

const (
	// DefaultTTL is the default sliding expiry window (30 minutes).
	DefaultTTL = 30 * time.Minute
	// DefaultMaxSessions is the default session capacity.
	DefaultMaxSessions = 1000
	// DefaultCleanupInterval is the default spacing between lazy sweeps.
	DefaultCleanupInterval = 5 * time.Minute
)

type entry struct {
	conversation *models.ConversationContext
	createdAt    time.Time
	lastAccessed time.Time
}

// Store implements sessionstore.Store with an in-process map.
//
// A single mutex guards every read-modify-write sequence: expiry checks,
// capacity eviction and the cleanup sweep all run under it, so the store is
// safe for concurrent request handlers and a periodic sweeper.
type Store struct {
	mu          sync.Mutex
	sessions    map[string]*entry
	ttl         time.Duration
	maxSessions int

	cleanupInterval time.Duration
	lastCleanup     time.Time

	now func() time.Time
}

// NewStore creates a new in-process session store.
func NewStore(cfg Config) *Store {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	maxSessions := cfg.MaxSessions
	if maxSessions <= 0 {
		maxSessions = DefaultMaxSessions
	}
	cleanupInterval := cfg.CleanupInterval
	if cleanupInterval <= 0 {
		cleanupInterval = DefaultCleanupInterval
	}
	now := cfg.Clock
	if now == nil {
		now = time.Now
	}

	return &Store{
		sessions:        make(map[string]*entry),
		ttl:             ttl,
		maxSessions:     maxSessions,
		cleanupInterval: cleanupInterval,
		lastCleanup:     now(),
		now:             now,
	}
}

// Set stores or overwrites a session, refreshing its timestamps.
func (s *Store) Set(_ context.Context, sessionID string, conversation *models.ConversationContext) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.maybeCleanupLocked(now)

	if existing, ok := s.sessions[sessionID]; ok {
		existing.conversation = conversation
		existing.lastAccessed = now
		return nil
	}

	if len(s.sessions) >= s.maxSessions {
		s.evictOldestLocked()
	}

	s.sessions[sessionID] = &entry{
		conversation: conversation,
		createdAt:    now,
		lastAccessed: now,
	}
	return nil
}

// Get returns the session's conversation context, refreshing its TTL.
func (s *Store) Get(_ context.Context, sessionID string) (*models.ConversationContext, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.liveEntryLocked(sessionID)
	if !ok {
		return nil, false, nil
	}
	e.lastAccessed = s.now()
	return e.conversation, true, nil
}

// Delete removes a session unconditionally.
func (s *Store) Delete(_ context.Context, sessionID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[sessionID]; !ok {
		return false, nil
	}
	delete(s.sessions, sessionID)
	return true, nil
}

// Exists reports whether a live session exists, refreshing its TTL.
func (s *Store) Exists(_ context.Context, sessionID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.liveEntryLocked(sessionID)
	if !ok {
		return false, nil
	}
	e.lastAccessed = s.now()
	return true, nil
}

// TTL returns the remaining time before the session expires.
func (s *Store) TTL(_ context.Context, sessionID string) (time.Duration, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.liveEntryLocked(sessionID)
	if !ok {
		return 0, false, nil
	}
	remaining := s.ttl - s.now().Sub(e.lastAccessed)
	if remaining < 0 {
		remaining = 0
	}
	return remaining, true, nil
}

// ExtendTTL resets the session's expiry window without reading the value.
func (s *Store) ExtendTTL(_ context.Context, sessionID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.liveEntryLocked(sessionID)
	if !ok {
		return false, nil
	}
	e.lastAccessed = s.now()
	return true, nil
}

// Cleanup eagerly removes all expired sessions regardless of the lazy
// interval and returns the count removed.
func (s *Store) Cleanup(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := s.sweepLocked(now)
	s.lastCleanup = now
	return removed, nil
}

// Stats returns a diagnostic snapshot of the store.
func (s *Store) Stats(_ context.Context) (sessionstore.Stats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	expired := 0
	for _, e := range s.sessions {
		if s.expiredLocked(e, now) {
			expired++
		}
	}

	return sessionstore.Stats{
		TotalSessions:   len(s.sessions),
		ActiveSessions:  len(s.sessions) - expired,
		ExpiredSessions: expired,
		MaxSessions:     s.maxSessions,
		TTL:             s.ttl,
		TTLSeconds:      int(s.ttl / time.Second),
	}, nil
}

// Ping always succeeds for the in-process store.
func (s *Store) Ping(_ context.Context) error {
	return nil
}

// Close discards all sessions.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions = make(map[string]*entry)
	return nil
}

// liveEntryLocked returns the entry for sessionID if it is still live,
// removing it as a side effect when it has expired.
func (s *Store) liveEntryLocked(sessionID string) (*entry, bool) {
	e, ok := s.sessions[sessionID]
	if !ok {
		return nil, false
	}
	if s.expiredLocked(e, s.now()) {
		delete(s.sessions, sessionID)
		return nil, false
	}
	return e, true
}

func (s *Store) expiredLocked(e *entry, now time.Time) bool {
	return now.Sub(e.lastAccessed) > s.ttl
}

// maybeCleanupLocked runs a sweep when the cleanup interval has elapsed.
func (s *Store) maybeCleanupLocked(now time.Time) {
	if now.Sub(s.lastCleanup) < s.cleanupInterval {
		return
	}
	removed := s.sweepLocked(now)
	s.lastCleanup = now
	if removed > 0 {
		log.Debug().Int("removed", removed).Msg("session store lazy cleanup")
	}
}

func (s *Store) sweepLocked(now time.Time) int {
	removed := 0
	for id, e := range s.sessions {
		if s.expiredLocked(e, now) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// evictOldestLocked removes the entry with the oldest lastAccessed. Ties are
// broken by map iteration order.
func (s *Store) evictOldestLocked() {
	var oldestID string
	var oldest time.Time
	first := true
	for id, e := range s.sessions {
		if first || e.lastAccessed.Before(oldest) {
			oldestID = id
			oldest = e.lastAccessed
			first = false
		}
	}
	if oldestID != "" {
		delete(s.sessions, oldestID)
		log.Debug().Str("session_id", oldestID).Msg("session store capacity eviction")
	}
}
