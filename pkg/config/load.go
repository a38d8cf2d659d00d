package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Load reads configuration from a YAML file, applies defaults and
// environment variable overrides, and validates the result.
//
// Environment variables follow the naming convention HEALTHGATE_SECTION_FIELD
// (e.g. HEALTHGATE_SERVER_LISTEN_ADDRESS) and always take precedence over
// file-based configuration.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading configuration file %q: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing configuration file %q: %w", path, err)
	}
	ApplyDefaults(cfg)
	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// LoadOrDefault behaves like Load but falls back to defaults plus
// environment overrides when the file does not exist. It lets the binary
// run usefully with nothing but HEALTHGATE_UPSTREAM_API_KEY set.
func LoadOrDefault(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := Default()
		applyEnvOverrides(cfg)
		if err := Validate(cfg); err != nil {
			return nil, fmt.Errorf("configuration validation failed: %w", err)
		}
		return cfg, nil
	}
	return Load(path)
}

// applyEnvOverrides applies environment variable overrides to the
// configuration.
func applyEnvOverrides(cfg *Config) {
	if val := os.Getenv("HEALTHGATE_SERVER_LISTEN_ADDRESS"); val != "" {
		cfg.Server.ListenAddress = val
	}
	if val := os.Getenv("HEALTHGATE_SERVER_READ_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Server.ReadTimeout = d
		}
	}
	if val := os.Getenv("HEALTHGATE_SERVER_WRITE_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Server.WriteTimeout = d
		}
	}

	if val := os.Getenv("HEALTHGATE_UPSTREAM_BASE_URL"); val != "" {
		cfg.Upstream.BaseURL = val
	}
	if val := os.Getenv("HEALTHGATE_UPSTREAM_MODEL"); val != "" {
		cfg.Upstream.Model = val
	}
	if val := os.Getenv("HEALTHGATE_UPSTREAM_API_KEY"); val != "" {
		cfg.Upstream.APIKey = val
	}
	if val := os.Getenv("HEALTHGATE_UPSTREAM_API_KEY_FILE"); val != "" {
		cfg.Upstream.APIKeyFile = val
	}
	if val := os.Getenv("HEALTHGATE_UPSTREAM_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Upstream.Timeout = d
		}
	}

	if val := os.Getenv("HEALTHGATE_RATE_LIMIT_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.RateLimit.Enabled = b
		}
	}
	if val := os.Getenv("HEALTHGATE_RATE_LIMIT_LIMIT"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.RateLimit.Limit = i
		}
	}
	if val := os.Getenv("HEALTHGATE_RATE_LIMIT_WINDOW"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.RateLimit.Window = d
		}
	}
	if val := os.Getenv("HEALTHGATE_RATE_LIMIT_STORAGE_BACKEND"); val != "" {
		cfg.RateLimit.Storage.Backend = val
	}
	if val := os.Getenv("HEALTHGATE_RATE_LIMIT_STORAGE_PATH"); val != "" {
		cfg.RateLimit.Storage.Path = val
	}

	if val := os.Getenv("HEALTHGATE_LOG_LEVEL"); val != "" {
		cfg.Telemetry.Logging.Level = val
	}
	if val := os.Getenv("HEALTHGATE_LOG_FORMAT"); val != "" {
		cfg.Telemetry.Logging.Format = val
	}
	if val := os.Getenv("HEALTHGATE_METRICS_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Telemetry.Metrics.Enabled = b
		}
	}
}
