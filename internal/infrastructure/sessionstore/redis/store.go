// Package redis provides the Redis session store implementation.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dataplug/copilot-service/internal/core/sessionstore"
	"github.com/dataplug/copilot-service/internal/domain/models"
)

// Config holds Redis connection configuration.
type Config struct {
	Host        string
	Port        string
	Password    string
	DB          int
	TTL         time.Duration
	MaxSessions int
}

const keyPrefix = "session:"

// Store implements sessionstore.Store on Redis.
//
// Redis owns expiry: every Get, Set and Exists refreshes the key's TTL, and
// expired keys vanish on their own, so Cleanup is a no-op and Stats never
// reports expired entries. Capacity is advisory here; Redis memory policy
// handles pressure instead of LRU eviction in this process.
type Store struct {
	client      *redis.Client
	ttl         time.Duration
	maxSessions int
}

// NewStore creates a new Redis session store and verifies the connection.
func NewStore(cfg Config) (*Store, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}

	return &Store{
		client:      client,
		ttl:         ttl,
		maxSessions: cfg.MaxSessions,
	}, nil
}

func sessionKey(sessionID string) string {
	return keyPrefix + sessionID
}

// Set stores or overwrites a session, refreshing its TTL.
func (s *Store) Set(ctx context.Context, sessionID string, conversation *models.ConversationContext) error {
	data, err := json.Marshal(conversation)
	if err != nil {
		return fmt.Errorf("failed to marshal session %s: %w", sessionID, err)
	}
	if err := s.client.Set(ctx, sessionKey(sessionID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set session %s: %w", sessionID, err)
	}
	return nil
}

// Get returns the session's conversation context, refreshing its TTL.
func (s *Store) Get(ctx context.Context, sessionID string) (*models.ConversationContext, bool, error) {
	data, err := s.client.Get(ctx, sessionKey(sessionID)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get session %s: %w", sessionID, err)
	}

	var conversation models.ConversationContext
	if err := json.Unmarshal(data, &conversation); err != nil {
		// Corrupted entry: drop it and report absent.
		_ = s.client.Del(ctx, sessionKey(sessionID)).Err()
		return nil, false, nil
	}

	_ = s.client.Expire(ctx, sessionKey(sessionID), s.ttl).Err()
	return &conversation, true, nil
}

// Delete removes a session unconditionally.
func (s *Store) Delete(ctx context.Context, sessionID string) (bool, error) {
	result, err := s.client.Del(ctx, sessionKey(sessionID)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to delete session %s: %w", sessionID, err)
	}
	return result > 0, nil
}

// Exists reports whether a live session exists, refreshing its TTL.
func (s *Store) Exists(ctx context.Context, sessionID string) (bool, error) {
	refreshed, err := s.client.Expire(ctx, sessionKey(sessionID), s.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check session %s: %w", sessionID, err)
	}
	return refreshed, nil
}

// TTL returns the remaining time before the session expires.
func (s *Store) TTL(ctx context.Context, sessionID string) (time.Duration, bool, error) {
	remaining, err := s.client.TTL(ctx, sessionKey(sessionID)).Result()
	if err != nil {
		return 0, false, fmt.Errorf("failed to get ttl for session %s: %w", sessionID, err)
	}
	if remaining < 0 {
		// -2: key missing, -1: no expiry set.
		return 0, false, nil
	}
	return remaining, true, nil
}

// ExtendTTL resets the session's expiry window without reading the value.
func (s *Store) ExtendTTL(ctx context.Context, sessionID string) (bool, error) {
	refreshed, err := s.client.Expire(ctx, sessionKey(sessionID), s.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to extend session %s: %w", sessionID, err)
	}
	return refreshed, nil
}

// Cleanup is a no-op: Redis removes expired keys itself.
func (s *Store) Cleanup(_ context.Context) (int, error) {
	return 0, nil
}

// Stats returns a diagnostic snapshot of the store.
func (s *Store) Stats(ctx context.Context) (sessionstore.Stats, error) {
	var cursor uint64
	total := 0
	for {
		keys, nextCursor, err := s.client.Scan(ctx, cursor, keyPrefix+"*", 100).Result()
		if err != nil {
			return sessionstore.Stats{}, fmt.Errorf("failed to scan sessions: %w", err)
		}
		total += len(keys)
		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}

	return sessionstore.Stats{
		TotalSessions:  total,
		ActiveSessions: total,
		MaxSessions:    s.maxSessions,
		TTL:            s.ttl,
		TTLSeconds:     int(s.ttl / time.Second),
	}, nil
}

// Ping checks if the Redis connection is alive.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

// Close closes the Redis connection.
func (s *Store) Close() error {
	if err := s.client.Close(); err != nil {
		return fmt.Errorf("failed to close redis connection: %w", err)
	}
	return nil
}
