// Package config defines and loads the healthgate configuration.
package config

import "time"

// Config is the root configuration structure for healthgate.
type Config struct {
	// Server contains HTTP server configuration including listen address,
	// timeouts, and CORS settings.
	Server ServerConfig `yaml:"server"`

	// Upstream contains configuration for the hosted completion API the
	// gateway forwards to.
	Upstream UpstreamConfig `yaml:"upstream"`

	// RateLimit contains per-client admission control configuration.
	RateLimit RateLimitConfig `yaml:"rate_limit"`

	// Telemetry contains logging and metrics configuration.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// ServerConfig contains configuration for the HTTP server.
type ServerConfig struct {
	// ListenAddress is the address and port to listen on.
	// Default: "127.0.0.1:8080"
	ListenAddress string `yaml:"listen_address"`

	// ReadTimeout is the maximum duration for reading the entire request.
	// Default: 30s
	ReadTimeout time.Duration `yaml:"read_timeout"`

	// WriteTimeout is the maximum duration before timing out response
	// writes. Default: 90s (must cover one upstream completion call).
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// IdleTimeout is the keep-alive idle timeout.
	// Default: 120s
	IdleTimeout time.Duration `yaml:"idle_timeout"`

	// ShutdownTimeout is the maximum duration to wait for graceful
	// shutdown. Default: 30s
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	// MaxHeaderBytes limits request header size.
	// Default: 1048576 (1MB)
	MaxHeaderBytes int `yaml:"max_header_bytes"`

	// CORS contains Cross-Origin Resource Sharing configuration.
	CORS CORSConfig `yaml:"cors"`
}

// CORSConfig contains CORS configuration. The gateway is called directly
// from browsers, so the origin and header allow-lists apply to every
// response, not only preflights.
type CORSConfig struct {
	// AllowedOrigins is the origin allow-list. ["*"] allows all origins.
	// Default: ["*"]
	AllowedOrigins []string `yaml:"allowed_origins"`

	// AllowedHeaders is the request header allow-list. The defaults cover
	// the auth and client-metadata headers sent by the web front-end's SDK.
	// Default: ["authorization", "x-client-info", "apikey", "content-type"]
	AllowedHeaders []string `yaml:"allowed_headers"`

	// MaxAge is the preflight cache lifetime in seconds.
	// Default: 3600
	MaxAge int `yaml:"max_age"`
}

// UpstreamConfig contains configuration for the completion API client.
type UpstreamConfig struct {
	// BaseURL is the OpenAI-compatible API root.
	// Default: "https://ai.gateway.lovable.dev/v1"
	BaseURL string `yaml:"base_url"`

	// Model is the fixed model identifier sent with every request.
	// Default: "google/gemini-2.5-flash"
	Model string `yaml:"model"`

	// APIKey is the bearer credential. Prefer the HEALTHGATE_UPSTREAM_API_KEY
	// environment variable or APIKeyFile over putting the key in the file.
	APIKey string `yaml:"api_key"`

	// APIKeyFile is a path to a file holding the credential. When set it
	// takes precedence over APIKey and is watched for rotation.
	APIKeyFile string `yaml:"api_key_file"`

	// Timeout bounds each upstream call.
	// Default: 60s
	Timeout time.Duration `yaml:"timeout"`
}

// RateLimitConfig contains per-client admission control configuration.
type RateLimitConfig struct {
	// Enabled controls whether admission control runs at all.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// Limit is the number of requests admitted per client per window.
	// Default: 20
	Limit int `yaml:"limit"`

	// Window is the fixed window duration.
	// Default: 1h
	Window time.Duration `yaml:"window"`

	// Storage selects where window state lives.
	Storage RateLimitStorageConfig `yaml:"storage"`

	// CleanupSchedule is a cron expression for pruning expired windows.
	// Empty disables pruning, matching the historical behavior where the
	// table grows with distinct client keys.
	CleanupSchedule string `yaml:"cleanup_schedule"`
}

// RateLimitStorageConfig selects the rate limit state backend.
type RateLimitStorageConfig struct {
	// Backend is "memory" or "sqlite".
	// Default: "memory"
	Backend string `yaml:"backend"`

	// Path is the SQLite database path when Backend is "sqlite".
	// Default: "./healthgate-ratelimit.db"
	Path string `yaml:"path"`
}

// TelemetryConfig contains observability configuration.
type TelemetryConfig struct {
	// Logging contains structured logging configuration.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics contains Prometheus metrics configuration.
	Metrics MetricsConfig `yaml:"metrics"`
}

// LoggingConfig contains structured logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	// Default: "info"
	Level string `yaml:"level"`

	// Format is "json" or "text".
	// Default: "json"
	Format string `yaml:"format"`
}

// MetricsConfig contains Prometheus metrics configuration.
type MetricsConfig struct {
	// Enabled controls whether the metrics endpoint is registered.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// Path is the metrics endpoint path.
	// Default: "/metrics"
	Path string `yaml:"path"`

	// Namespace prefixes all metric names.
	// Default: "healthgate"
	Namespace string `yaml:"namespace"`
}
