package config

import (
	"testing"
	"time"

	"github.com/octopilot/secretmanager-controller/internal/provider/pact"
)

func requiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("SOPS_KEY_SECRET_NAME", "sops-age-key")
	t.Setenv("SOPS_KEY_NAMESPACE", "secretmanager-system")
}

func TestLoadAppliesDefaults(t *testing.T) {
	requiredEnv(t)
	pact.Reset()
	t.Cleanup(pact.Reset)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.MetricsBindAddress != ":8443" {
		t.Errorf("MetricsBindAddress = %q, want :8443", cfg.MetricsBindAddress)
	}
	if cfg.HealthProbeBindAddress != ":8081" {
		t.Errorf("HealthProbeBindAddress = %q, want :8081", cfg.HealthProbeBindAddress)
	}
	if cfg.LeaderElect {
		t.Error("LeaderElect default = true, want false")
	}
	if cfg.MaxConcurrentReconciles != 1 {
		t.Errorf("MaxConcurrentReconciles = %d, want 1", cfg.MaxConcurrentReconciles)
	}
	if cfg.ReconcileTimeout != 2*time.Minute {
		t.Errorf("ReconcileTimeout = %s, want 2m", cfg.ReconcileTimeout)
	}
	if cfg.BackoffMin != time.Minute || cfg.BackoffMax != 10*time.Minute {
		t.Errorf("Backoff bounds = [%s, %s], want [1m, 10m]", cfg.BackoffMin, cfg.BackoffMax)
	}
	if cfg.WatchRestartDelay != 30*time.Second {
		t.Errorf("WatchRestartDelay = %s, want 30s", cfg.WatchRestartDelay)
	}
	if cfg.CacheBasePath != "/tmp/smc" {
		t.Errorf("CacheBasePath = %q, want /tmp/smc", cfg.CacheBasePath)
	}
	if cfg.LogLevel != "info" || cfg.LogFormat != "json" {
		t.Errorf("LogLevel/LogFormat = %q/%q, want info/json", cfg.LogLevel, cfg.LogFormat)
	}
	if cfg.PactMode {
		t.Error("PactMode default = true, want false with no overrides set")
	}
	if cfg.GitHubApp.Enabled() {
		t.Error("GitHubApp.Enabled() = true, want false with no env vars set")
	}
}

func TestLoadOverridesFromEnv(t *testing.T) {
	requiredEnv(t)
	pact.Reset()
	t.Cleanup(pact.Reset)

	t.Setenv("MAX_CONCURRENT_RECONCILES", "5")
	t.Setenv("RECONCILE_TIMEOUT", "30s")
	t.Setenv("BACKOFF_MIN_MINUTES", "2m")
	t.Setenv("BACKOFF_MAX_MINUTES", "10m")
	t.Setenv("LEADER_ELECT", "true")
	t.Setenv("GITHUB_APP_ID", "1")
	t.Setenv("GITHUB_APP_INSTALLATION_ID", "2")
	t.Setenv("GITHUB_APP_PRIVATE_KEY_FILE", "/tmp/app.pem")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.MaxConcurrentReconciles != 5 {
		t.Errorf("MaxConcurrentReconciles = %d, want 5", cfg.MaxConcurrentReconciles)
	}
	if cfg.ReconcileTimeout != 30*time.Second {
		t.Errorf("ReconcileTimeout = %s, want 30s", cfg.ReconcileTimeout)
	}
	if cfg.BackoffMin != 2*time.Minute || cfg.BackoffMax != 10*time.Minute {
		t.Errorf("Backoff bounds = [%s, %s], want [2m, 10m]", cfg.BackoffMin, cfg.BackoffMax)
	}
	if !cfg.LeaderElect {
		t.Error("LeaderElect = false, want true")
	}
	if !cfg.GitHubApp.Enabled() {
		t.Error("GitHubApp.Enabled() = false, want true with all three fields set")
	}
}

func TestLoadRejectsBackoffMaxBelowMin(t *testing.T) {
	requiredEnv(t)
	pact.Reset()
	t.Cleanup(pact.Reset)

	t.Setenv("BACKOFF_MIN_MINUTES", "10m")
	t.Setenv("BACKOFF_MAX_MINUTES", "5m")

	if _, err := Load(); err == nil {
		t.Fatal("expected an error when BACKOFF_MAX_MINUTES < BACKOFF_MIN_MINUTES")
	}
}

func TestLoadRequiresSOPSKeyLocation(t *testing.T) {
	pact.Reset()
	t.Cleanup(pact.Reset)

	if _, err := Load(); err == nil {
		t.Fatal("expected an error when SOPS_KEY_SECRET_NAME/SOPS_KEY_NAMESPACE are unset")
	}
}

func TestLoadRejectsInvalidMaxConcurrentReconciles(t *testing.T) {
	requiredEnv(t)
	pact.Reset()
	t.Cleanup(pact.Reset)

	t.Setenv("MAX_CONCURRENT_RECONCILES", "0")

	if _, err := Load(); err == nil {
		t.Fatal("expected an error when MAX_CONCURRENT_RECONCILES is 0")
	}
}

func TestLoadInitializesPactModeFromEndpointOverrides(t *testing.T) {
	requiredEnv(t)
	pact.Reset()
	t.Cleanup(pact.Reset)

	t.Setenv("SMC_PACT_AWS_SECRETSMANAGER_ENDPOINT", "http://localhost:4566")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if !cfg.PactMode {
		t.Error("PactMode = false, want true when an endpoint override is set")
	}
	if !pact.Enabled() {
		t.Error("pact.Enabled() = false after Load() set an endpoint override")
	}
	endpoint, ok := pact.Endpoint(pact.AWSSecretsManager)
	if !ok || endpoint != "http://localhost:4566" {
		t.Errorf("pact.Endpoint(AWSSecretsManager) = (%q, %v), want (http://localhost:4566, true)", endpoint, ok)
	}
}
