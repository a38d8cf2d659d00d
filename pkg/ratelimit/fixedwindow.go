package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Default admission settings: 20 requests per client per hour.
const (
	DefaultLimit  = 20
	DefaultWindow = time.Hour
)

// Config configures a FixedWindow limiter.
type Config struct {
	// Limit is the maximum number of requests admitted per window.
	// Default: 20
	Limit int

	// Window is the fixed window duration.
	// Default: 1h
	Window time.Duration

	// Store holds per-key window state. Default: in-memory store.
	Store Store

	// Now returns the current time. Tests substitute a deterministic
	// clock here. Default: time.Now.
	Now func() time.Time
}

// FixedWindow admits up to Limit requests per client key within a
// wall-clock window of fixed duration.
type FixedWindow struct {
	store  Store
	limit  int
	window time.Duration
	now    func() time.Time

	// mu serializes the read-modify-write cycle on the store so
	// concurrent requests for the same key cannot lose increments.
	mu sync.Mutex
}

// New creates a FixedWindow limiter, applying defaults for any zero fields.
func New(cfg Config) *FixedWindow {
	if cfg.Limit <= 0 {
		cfg.Limit = DefaultLimit
	}
	if cfg.Window <= 0 {
		cfg.Window = DefaultWindow
	}
	if cfg.Store == nil {
		cfg.Store = NewMemoryStore()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	return &FixedWindow{
		store:  cfg.Store,
		limit:  cfg.Limit,
		window: cfg.Window,
		now:    cfg.Now,
	}
}

// Allow checks and updates the window for a client key.
//
// A missing or expired entry is reinitialized with count 1 and a fresh
// window; an entry at the ceiling rejects the request without mutation;
// anything else increments the counter and admits.
func (fw *FixedWindow) Allow(ctx context.Context, key string) (Decision, error) {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	now := fw.now()

	entry, err := fw.store.Get(ctx, key)
	if err != nil {
		return Decision{}, fmt.Errorf("loading window for %q: %w", key, err)
	}

	if entry == nil || !now.Before(entry.Reset) {
		entry = &Entry{Count: 1, Reset: now.Add(fw.window)}
		if err := fw.store.Put(ctx, key, entry); err != nil {
			return Decision{}, fmt.Errorf("storing window for %q: %w", key, err)
		}
		return fw.decision(true, entry, now), nil
	}

	if entry.Count >= fw.limit {
		return fw.decision(false, entry, now), nil
	}

	entry.Count++
	if err := fw.store.Put(ctx, key, entry); err != nil {
		return Decision{}, fmt.Errorf("storing window for %q: %w", key, err)
	}
	return fw.decision(true, entry, now), nil
}

// Limit returns the configured per-window ceiling.
func (fw *FixedWindow) Limit() int {
	return fw.limit
}

// Window returns the configured window duration.
func (fw *FixedWindow) Window() time.Duration {
	return fw.window
}

// PruneExpired deletes entries whose window has already expired and returns
// the number removed. Admission semantics do not depend on pruning; this
// only bounds table growth when run periodically.
func (fw *FixedWindow) PruneExpired(ctx context.Context) (int, error) {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	keys, err := fw.store.Keys(ctx)
	if err != nil {
		return 0, fmt.Errorf("listing windows: %w", err)
	}

	now := fw.now()
	pruned := 0
	for _, key := range keys {
		entry, err := fw.store.Get(ctx, key)
		if err != nil {
			return pruned, fmt.Errorf("loading window for %q: %w", key, err)
		}
		if entry == nil || now.Before(entry.Reset) {
			continue
		}
		if err := fw.store.Delete(ctx, key); err != nil {
			return pruned, fmt.Errorf("deleting window for %q: %w", key, err)
		}
		pruned++
	}

	return pruned, nil
}

func (fw *FixedWindow) decision(allowed bool, entry *Entry, now time.Time) Decision {
	d := Decision{
		Allowed:   allowed,
		Limit:     fw.limit,
		Remaining: fw.limit - entry.Count,
		Reset:     entry.Reset,
	}
	if d.Remaining < 0 {
		d.Remaining = 0
	}
	if !allowed {
		d.RetryAfter = entry.Reset.Sub(now)
	}
	return d
}
