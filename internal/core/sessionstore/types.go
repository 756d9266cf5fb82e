// Package sessionstore provides the session store type constants.
package sessionstore

// Type represents the type of session store backend.
type Type string

const (
	// TypeMemory represents the in-process session store.
	TypeMemory Type = "memory"
	// TypeRedis represents a Redis-backed session store.
	TypeRedis Type = "redis"
)
