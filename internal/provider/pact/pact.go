// Package pact implements the process-wide, init-once endpoint override used
// to route provider SDK clients at a mock server in non-production
// environments (§4.5), ported from
// original_source/crates/controller/src/config/pact_mode.rs.
package pact

import (
	"fmt"
	"os"
	"strings"
	"sync"
)

// ID names a registered provider surface.
type ID string

const (
	AWSSecretsManager     ID = "aws-secrets-manager"
	AWSParameterStore     ID = "aws-parameter-store"
	GCPSecretManager      ID = "gcp-secret-manager"
	GCPParameterManager   ID = "gcp-parameter-manager"
	AzureKeyVault         ID = "azure-key-vault"
	AzureAppConfiguration ID = "azure-app-configuration"
)

// productionHostFragments are refused as override endpoints so a
// misconfigured PACT_MODE environment can never send real credentials at a
// production API.
var productionHostFragments = []string{
	"amazonaws.com",
	"googleapis.com",
	"azure.net",
	"vault.hashicorp.com",
}

// Config is one provider's mock-endpoint override.
type Config struct {
	Endpoint string
	// EnvVars are additional environment variables the SDK's transport reads
	// during client construction (the AWS SDK's credential/region chain, for
	// instance, consults env vars asynchronously rather than at call site).
	EnvVars map[string]string
}

var (
	mu       sync.Mutex
	table    = map[ID]Config{}
	enabled  bool
)

// Enabled reports whether PACT mode was initialized for this process.
func Enabled() bool {
	mu.Lock()
	defer mu.Unlock()
	return enabled
}

// Init installs entries as the override table (FromEnv builds such a table
// from the environment) and sets each entry's EnvVars in the process
// environment. It is safe to call more than once; each call replaces the table.
func Init(entries map[ID]Config) error {
	mu.Lock()
	defer mu.Unlock()

	for id, cfg := range entries {
		if cfg.Endpoint == "" {
			continue
		}
		if err := validateEndpoint(cfg.Endpoint); err != nil {
			return fmt.Errorf("pact mode config for %s: %w", id, err)
		}
	}

	table = entries
	enabled = true
	for _, cfg := range entries {
		for k, v := range cfg.EnvVars {
			os.Setenv(k, v)
		}
	}
	return nil
}

// Reset clears the table and unsets any environment variables it injected.
// Intended for test teardown.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	for _, cfg := range table {
		for k := range cfg.EnvVars {
			os.Unsetenv(k)
		}
	}
	table = map[ID]Config{}
	enabled = false
}

// Endpoint returns the override endpoint for id, if PACT mode registered one.
func Endpoint(id ID) (string, bool) {
	mu.Lock()
	defer mu.Unlock()
	cfg, ok := table[id]
	if !ok || cfg.Endpoint == "" {
		return "", false
	}
	return cfg.Endpoint, true
}

func validateEndpoint(endpoint string) error {
	for _, frag := range productionHostFragments {
		if strings.Contains(endpoint, frag) {
			return fmt.Errorf("endpoint %q appears to point to production (%s)", endpoint, frag)
		}
	}
	return nil
}

// FromEnv builds a table from the conventional SMC_PACT_<PROVIDER>_ENDPOINT
// environment variables. A provider with no endpoint variable set is simply
// absent from the returned table, leaving its backend on the default SDK
// endpoint.
func FromEnv() map[ID]Config {
	entries := map[ID]Config{}
	add := func(id ID, envVar string) {
		if v := os.Getenv(envVar); v != "" {
			entries[id] = Config{Endpoint: v}
		}
	}
	add(AWSSecretsManager, "SMC_PACT_AWS_SECRETSMANAGER_ENDPOINT")
	add(AWSParameterStore, "SMC_PACT_AWS_SSM_ENDPOINT")
	add(GCPSecretManager, "SMC_PACT_GCP_SECRETMANAGER_ENDPOINT")
	add(GCPParameterManager, "SMC_PACT_GCP_PARAMETERMANAGER_ENDPOINT")
	add(AzureKeyVault, "SMC_PACT_AZURE_KEYVAULT_ENDPOINT")
	add(AzureAppConfiguration, "SMC_PACT_AZURE_APPCONFIG_ENDPOINT")
	return entries
}
