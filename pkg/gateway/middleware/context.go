package middleware

import "context"

// contextKey is a private type for context keys defined in this package.
type contextKey string

const (
	// requestIDKey is the context key holding the request ID.
	requestIDKey contextKey = "request_id"

	// clientKeyKey is the context key holding the rate limit client key.
	clientKeyKey contextKey = "client_key"
)

// GetRequestID extracts the request ID from the context.
// Returns empty string if not found.
func GetRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}

// GetClientKey extracts the rate limit client key from the context.
// Returns empty string if not found.
func GetClientKey(ctx context.Context) string {
	if key, ok := ctx.Value(clientKeyKey).(string); ok {
		return key
	}
	return ""
}
