// Package config loads the controller's runtime configuration from
// environment variables, following the same os.Getenv-with-defaults shape
// as the teacher's internal/agent.LoadConfig, adapted to the manager-level
// tunables of §10.3.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/octopilot/secretmanager-controller/internal/git"
	"github.com/octopilot/secretmanager-controller/internal/provider/pact"
	"github.com/octopilot/secretmanager-controller/internal/validation"
)

// Config holds the manager's runtime configuration.
type Config struct {
	MetricsBindAddress     string
	HealthProbeBindAddress string
	LeaderElect            bool

	MaxConcurrentReconciles int
	ReconcileTimeout        time.Duration

	// BackoffMin/Max bound the per-resource Fibonacci retry schedule (§4.8)
	// shared by every transient failure kind.
	BackoffMin time.Duration
	BackoffMax time.Duration

	// WatchRestartDelay is loaded and validated from the environment; no
	// component reads it, and watch re-establishment is left to
	// controller-runtime's own informers.
	WatchRestartDelay time.Duration

	SOPSKeySecretName string
	SOPSKeyNamespace  string

	CacheBasePath string

	LogLevel  string
	LogFormat string

	// GitSSHKeyFile, GitTokenFile, and GitKnownHostsFile are read directly by
	// internal/git's buildGitEnv; they are surfaced here only so the
	// manager can validate and log them at startup.
	GitSSHKeyFile     string
	GitTokenFile      string
	GitKnownHostsFile string

	GitHubApp git.GitHubAppConfig

	PactMode    bool
	PactEntries map[pact.ID]pact.Config
}

// Load reads the manager configuration from environment variables, applying
// the same defaults documented in SPEC_FULL.md §10.3.
func Load() (*Config, error) {
	cfg := &Config{
		MetricsBindAddress:     getenv("METRICS_BIND_ADDRESS", ":8443"),
		HealthProbeBindAddress: getenv("HEALTH_PROBE_BIND_ADDRESS", ":8081"),
		SOPSKeySecretName:      os.Getenv("SOPS_KEY_SECRET_NAME"),
		SOPSKeyNamespace:       os.Getenv("SOPS_KEY_NAMESPACE"),
		CacheBasePath:          getenv("CACHE_BASE_PATH", "/tmp/smc"),
		LogLevel:               getenv("LOG_LEVEL", "info"),
		LogFormat:              getenv("LOG_FORMAT", "json"),
		GitSSHKeyFile:          os.Getenv("GIT_SSH_KEY_FILE"),
		GitTokenFile:           os.Getenv("GIT_TOKEN_FILE"),
		GitKnownHostsFile:      os.Getenv("GIT_KNOWN_HOSTS_FILE"),
		GitHubApp: git.GitHubAppConfig{
			AppID:          os.Getenv("GITHUB_APP_ID"),
			InstallationID: os.Getenv("GITHUB_APP_INSTALLATION_ID"),
			PrivateKeyFile: os.Getenv("GITHUB_APP_PRIVATE_KEY_FILE"),
			APIBaseURL:     os.Getenv("GITHUB_APP_API_BASE_URL"),
		},
	}

	var err error
	cfg.LeaderElect, err = parseBool("LEADER_ELECT", false)
	if err != nil {
		return nil, err
	}

	cfg.MaxConcurrentReconciles, err = parseInt("MAX_CONCURRENT_RECONCILES", 1)
	if err != nil {
		return nil, err
	}
	if cfg.MaxConcurrentReconciles < 1 {
		return nil, fmt.Errorf("MAX_CONCURRENT_RECONCILES must be at least 1, got %d", cfg.MaxConcurrentReconciles)
	}

	cfg.ReconcileTimeout, err = parseDuration("RECONCILE_TIMEOUT", "2m")
	if err != nil {
		return nil, err
	}

	cfg.BackoffMin, err = parseDuration("BACKOFF_MIN_MINUTES", "1m")
	if err != nil {
		return nil, err
	}
	cfg.BackoffMax, err = parseDuration("BACKOFF_MAX_MINUTES", "10m")
	if err != nil {
		return nil, err
	}
	if cfg.BackoffMax < cfg.BackoffMin {
		return nil, fmt.Errorf("BACKOFF_MAX_MINUTES (%s) must be >= BACKOFF_MIN_MINUTES (%s)", cfg.BackoffMax, cfg.BackoffMin)
	}

	cfg.WatchRestartDelay, err = parseDuration("WATCH_RESTART_DELAY", "30s")
	if err != nil {
		return nil, err
	}

	if cfg.SOPSKeySecretName == "" {
		return nil, fmt.Errorf("SOPS_KEY_SECRET_NAME env var is required")
	}
	if cfg.SOPSKeyNamespace == "" {
		return nil, fmt.Errorf("SOPS_KEY_NAMESPACE env var is required")
	}

	cfg.PactEntries = pact.FromEnv()
	cfg.PactMode, err = parseBool("PACT_MODE", len(cfg.PactEntries) > 0)
	if err != nil {
		return nil, err
	}
	if cfg.PactMode {
		if err := pact.Init(cfg.PactEntries); err != nil {
			return nil, fmt.Errorf("initializing PACT mode: %w", err)
		}
	}

	return cfg, nil
}

// getenv returns the env var's value, or def if unset or empty.
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseBool(key string, def bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: invalid bool %q: %w", key, v, err)
	}
	return b, nil
}

func parseInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, fmt.Errorf("%s: invalid integer %q: %w", key, v, err)
	}
	return n, nil
}

func parseDuration(key, def string) (time.Duration, error) {
	v := getenv(key, def)
	d, err := validation.ParseKubernetesDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}
