package middleware

import (
	"context"
	"log/slog"
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"

	"healthmate-hq/healthgate/pkg/ratelimit"
	"healthmate-hq/healthgate/pkg/telemetry/metrics"
)

// msgRateLimited is the envelope message for rejected requests.
const msgRateLimited = "Rate limit exceeded. Please try again later."

// ClientKey derives the rate limit key for a request. Precedence follows
// what reverse proxies in front of the gateway populate: the first entry of
// X-Forwarded-For, then X-Real-IP, then the connection's remote address.
// "unknown" is the shared fallback bucket for requests with no usable
// address at all.
func ClientKey(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		if first = strings.TrimSpace(first); first != "" {
			return first
		}
	}

	if real := strings.TrimSpace(r.Header.Get("X-Real-IP")); real != "" {
		return real
	}

	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil && host != "" {
		return host
	}
	if r.RemoteAddr != "" {
		return r.RemoteAddr
	}

	return "unknown"
}

// RateLimit enforces per-client admission control before the wrapped
// handler runs. Rejected requests get a 429 error envelope; every response
// carries X-RateLimit-* headers. A store failure fails closed with a 500,
// never an unmetered pass-through. metrics may be nil.
func RateLimit(limiter *ratelimit.FixedWindow, m *metrics.Metrics, logger *slog.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := ClientKey(r)
			ctx := context.WithValue(r.Context(), clientKeyKey, key)
			r = r.WithContext(ctx)

			decision, err := limiter.Allow(ctx, key)
			if err != nil {
				logger.ErrorContext(ctx, "rate limit check failed",
					"client", key,
					"error", err)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte(`{"error":"An unexpected error occurred. Please try again."}`))
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(decision.Limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(decision.Remaining))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(decision.Reset.Unix(), 10))

			if !decision.Allowed {
				logger.WarnContext(ctx, "rate limit exceeded",
					"client", key,
					"reset", decision.Reset)
				m.RecordRateLimited()

				retryAfter := int(math.Ceil(decision.RetryAfter.Seconds()))
				if retryAfter < 1 {
					retryAfter = 1
				}
				w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				w.Write([]byte(`{"error":"` + msgRateLimited + `"}`))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
