package secrets

import "context"

// Provider resolves the upstream API credential at call time.
// Implementations must be safe for concurrent use.
type Provider interface {
	// Credential returns the current credential value. An empty value
	// with nil error means no credential is configured.
	Credential(ctx context.Context) (string, error)

	// Close releases any resources held by the provider.
	Close() error
}

// Static is a fixed-value Provider for credentials sourced from
// configuration or the environment.
type Static string

// Credential returns the static value.
func (s Static) Credential(_ context.Context) (string, error) {
	return string(s), nil
}

// Close is a no-op.
func (s Static) Close() error {
	return nil
}
