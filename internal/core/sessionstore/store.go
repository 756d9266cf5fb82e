// Package sessionstore defines the session store interface and factory types.
package sessionstore

import (
	"context"
	"time"

	"github.com/dataplug/copilot-service/internal/domain/models"
)

// Store defines the interface for TTL-bounded session storage.
//
// Absence is never an error: lookups on missing or expired sessions return
// ok=false. Every successful Get, Set and Exists refreshes the session's
// sliding expiry window. The context returned by Get is a live value; callers
// mutate it and persist with Set.
type Store interface {
	// Set stores or overwrites a session, refreshing its TTL. When the store
	// is at capacity and the session is new, the least-recently-accessed
	// session is evicted to make room.
	Set(ctx context.Context, sessionID string, conversation *models.ConversationContext) error

	// Get returns the session's conversation context, refreshing its TTL.
	// Expired sessions are removed as a side effect and reported as absent.
	Get(ctx context.Context, sessionID string) (*models.ConversationContext, bool, error)

	// Delete removes a session unconditionally. Returns whether it existed.
	Delete(ctx context.Context, sessionID string) (bool, error)

	// Exists reports whether a live session exists, refreshing its TTL.
	Exists(ctx context.Context, sessionID string) (bool, error)

	// TTL returns the remaining time before the session expires, floored at
	// zero. ok=false when the session is absent or already expired.
	TTL(ctx context.Context, sessionID string) (time.Duration, bool, error)

	// ExtendTTL resets the session's expiry window without reading the value.
	// Returns false when the session is absent or expired.
	ExtendTTL(ctx context.Context, sessionID string) (bool, error)

	// Cleanup eagerly removes all expired sessions and returns the count.
	Cleanup(ctx context.Context) (int, error)

	// Stats returns a diagnostic snapshot of the store.
	Stats(ctx context.Context) (Stats, error)

	// Ping checks whether the store is reachable.
	Ping(ctx context.Context) error

	// Close releases any resources held by the store.
	Close() error
}

// Stats is a diagnostic snapshot of the session store.
type Stats struct {
	TotalSessions   int           `json:"totalSessions"`
	ActiveSessions  int           `json:"activeSessions"`
	ExpiredSessions int           `json:"expiredSessions"`
	MaxSessions     int           `json:"maxSessions"`
	TTL             time.Duration `json:"-"`
	TTLSeconds      int           `json:"ttlSeconds"`
}
