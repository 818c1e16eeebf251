package config

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	errs "storefront-cms/pkg/errors"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "ENV", "SESSION_LIMIT", "SHUTDOWN_TIMEOUT", "METRICS_ENABLED", "CATALOG_FILE", "EVENTS_DB_PATH"} {
		t.Setenv(k, "")
	}

	cfg := Load()
	if cfg.Port != "8080" {
		t.Errorf("Port = %q", cfg.Port)
	}
	if cfg.SessionLimit != 100 {
		t.Errorf("SessionLimit = %d", cfg.SessionLimit)
	}
	if cfg.ShutdownTimeout != 10*time.Second {
		t.Errorf("ShutdownTimeout = %v", cfg.ShutdownTimeout)
	}
	if !cfg.MetricsEnabled {
		t.Errorf("metrics should default on in development")
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

func TestLoadProductionDisablesMetricsByDefault(t *testing.T) {
	t.Setenv("ENV", "Production")
	t.Setenv("METRICS_ENABLED", "")

	cfg := Load()
	if cfg.Env != "production" {
		t.Errorf("Env = %q", cfg.Env)
	}
	if cfg.MetricsEnabled {
		t.Errorf("metrics should default off in production")
	}
}

func TestValidateCollectsAllErrors(t *testing.T) {
	cfg := &Config{
		Port:            "99999",
		BasePath:        "admin",
		LogLevel:        "chatty",
		LogFormat:       "xml",
		SessionLimit:    0,
		ShutdownTimeout: 0,
		CatalogFile:     filepath.Join(t.TempDir(), "missing.yaml"),
	}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !errs.Is(err, errs.ErrValidation) {
		t.Fatalf("expected validation kind, got %T", err)
	}
	for _, field := range []string{"PORT", "BASE_PATH", "LOG_LEVEL", "LOG_FORMAT", "SESSION_LIMIT", "SHUTDOWN_TIMEOUT", "CATALOG_FILE"} {
		if !strings.Contains(err.Error(), "'"+field+"'") {
			t.Errorf("missing error for %s in %q", field, err.Error())
		}
	}
}

func TestInvalidSessionLimitIsRejected(t *testing.T) {
	t.Setenv("SESSION_LIMIT", "lots")
	cfg := Load()
	if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "SESSION_LIMIT") {
		t.Fatalf("expected SESSION_LIMIT error, got %v", err)
	}
}
