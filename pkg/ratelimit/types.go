package ratelimit

import (
	"context"
	"time"
)

// Entry is the counter/window pair tracked for one client key.
type Entry struct {
	// Count is the number of admitted requests in the current window.
	Count int

	// Reset is the wall-clock time at which the window expires.
	Reset time.Time
}

// Decision reports the outcome of an admission check.
type Decision struct {
	// Allowed indicates whether the request was admitted.
	Allowed bool

	// Limit is the configured ceiling for the window.
	Limit int

	// Remaining is the number of requests left in the current window.
	Remaining int

	// Reset is when the current window expires.
	Reset time.Time

	// RetryAfter is how long the caller should wait before retrying.
	// Zero when the request was admitted.
	RetryAfter time.Duration
}

// Store persists fixed-window state keyed by client identifier.
// Implementations must be safe for concurrent use.
type Store interface {
	// Get returns the entry for a key, or nil when none exists.
	Get(ctx context.Context, key string) (*Entry, error)

	// Put stores the entry for a key, replacing any existing one.
	Put(ctx context.Context, key string, entry *Entry) error

	// Delete removes the entry for a key. Deleting a missing key is not
	// an error.
	Delete(ctx context.Context, key string) error

	// Keys returns all keys currently stored.
	Keys(ctx context.Context) ([]string, error)

	// Close releases any resources held by the store.
	Close() error
}
