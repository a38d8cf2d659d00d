// Package ratelimit implements per-client fixed-window request throttling.
//
// A FixedWindow limiter tracks one counter/window pair per client key in a
// pluggable Store. The window resets purely on wall-clock comparison: the
// first request after the reset time reinitializes the counter. This accepts
// the burst-at-boundary inaccuracy inherent to fixed windows in exchange for
// a single cheap read-modify-write per request.
//
// Entries are not evicted unless a cleanup schedule is configured via
// Janitor, so the table grows with the number of distinct client keys.
// Across process restarts or multiple instances the quota is best-effort
// unless the SQLite store is shared.
package ratelimit
