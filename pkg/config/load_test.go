package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfigFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfigFile(t, `
server:
  listen_address: "0.0.0.0:9090"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load(): %v", err)
	}

	if cfg.Server.ListenAddress != "0.0.0.0:9090" {
		t.Errorf("ListenAddress = %q, want 0.0.0.0:9090", cfg.Server.ListenAddress)
	}
	if cfg.RateLimit.Limit != 20 {
		t.Errorf("RateLimit.Limit = %d, want default 20", cfg.RateLimit.Limit)
	}
	if cfg.RateLimit.Window != time.Hour {
		t.Errorf("RateLimit.Window = %v, want default 1h", cfg.RateLimit.Window)
	}
	if !cfg.RateLimit.Enabled {
		t.Error("RateLimit.Enabled should default to true")
	}
	if cfg.Upstream.Model != "google/gemini-2.5-flash" {
		t.Errorf("Upstream.Model = %q, want default model", cfg.Upstream.Model)
	}
	if cfg.Telemetry.Logging.Format != "json" {
		t.Errorf("Logging.Format = %q, want json", cfg.Telemetry.Logging.Format)
	}
}

func TestLoadExplicitDisableSurvivesDefaults(t *testing.T) {
	path := writeConfigFile(t, `
rate_limit:
  enabled: false
telemetry:
  metrics:
    enabled: false
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load(): %v", err)
	}
	if cfg.RateLimit.Enabled {
		t.Error("explicit rate_limit.enabled: false should win over the default")
	}
	if cfg.Telemetry.Metrics.Enabled {
		t.Error("explicit metrics.enabled: false should win over the default")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	path := writeConfigFile(t, `
upstream:
  model: "from-file"
`)

	t.Setenv("HEALTHGATE_UPSTREAM_MODEL", "from-env")
	t.Setenv("HEALTHGATE_UPSTREAM_API_KEY", "sk-env")
	t.Setenv("HEALTHGATE_RATE_LIMIT_LIMIT", "5")
	t.Setenv("HEALTHGATE_RATE_LIMIT_WINDOW", "30m")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load(): %v", err)
	}
	if cfg.Upstream.Model != "from-env" {
		t.Errorf("Model = %q, env override should win", cfg.Upstream.Model)
	}
	if cfg.Upstream.APIKey != "sk-env" {
		t.Errorf("APIKey = %q, want sk-env", cfg.Upstream.APIKey)
	}
	if cfg.RateLimit.Limit != 5 {
		t.Errorf("RateLimit.Limit = %d, want 5", cfg.RateLimit.Limit)
	}
	if cfg.RateLimit.Window != 30*time.Minute {
		t.Errorf("RateLimit.Window = %v, want 30m", cfg.RateLimit.Window)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("Load should fail for a missing file")
	}
}

func TestLoadOrDefaultMissingFile(t *testing.T) {
	cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("LoadOrDefault(): %v", err)
	}
	if cfg.Server.ListenAddress != "127.0.0.1:8080" {
		t.Errorf("ListenAddress = %q, want default", cfg.Server.ListenAddress)
	}
}

func TestLoadMalformedYAML(t *testing.T) {
	path := writeConfigFile(t, "server: [not a mapping")
	if _, err := Load(path); err == nil {
		t.Fatal("Load should fail for malformed YAML")
	}
}
