package config

import (
	"fmt"
	"net"
	"net/url"
)

// Validate checks the configuration for values that would prevent the
// server from operating. A missing upstream credential is deliberately not
// an error here: the credential is resolved per request and its absence is
// reported at call time.
func Validate(cfg *Config) error {
	if _, _, err := net.SplitHostPort(cfg.Server.ListenAddress); err != nil {
		return fmt.Errorf("server.listen_address %q: %w", cfg.Server.ListenAddress, err)
	}

	u, err := url.Parse(cfg.Upstream.BaseURL)
	if err != nil {
		return fmt.Errorf("upstream.base_url %q: %w", cfg.Upstream.BaseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("upstream.base_url %q: scheme must be http or https", cfg.Upstream.BaseURL)
	}
	if cfg.Upstream.Model == "" {
		return fmt.Errorf("upstream.model must not be empty")
	}

	if cfg.RateLimit.Limit < 1 {
		return fmt.Errorf("rate_limit.limit must be at least 1, got %d", cfg.RateLimit.Limit)
	}
	if cfg.RateLimit.Window <= 0 {
		return fmt.Errorf("rate_limit.window must be positive, got %s", cfg.RateLimit.Window)
	}
	switch cfg.RateLimit.Storage.Backend {
	case "memory", "sqlite":
	default:
		return fmt.Errorf("rate_limit.storage.backend must be \"memory\" or \"sqlite\", got %q",
			cfg.RateLimit.Storage.Backend)
	}

	switch cfg.Telemetry.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("telemetry.logging.level must be one of debug, info, warn, error; got %q",
			cfg.Telemetry.Logging.Level)
	}
	switch cfg.Telemetry.Logging.Format {
	case "json", "text":
	default:
		return fmt.Errorf("telemetry.logging.format must be \"json\" or \"text\", got %q",
			cfg.Telemetry.Logging.Format)
	}

	return nil
}
