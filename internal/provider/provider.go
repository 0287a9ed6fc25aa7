// Package provider defines the narrow capability interface every cloud
// backend implements (§4.5) and dispatches on the managed resource's tagged
// ProviderConfig union — never on a runtime type switch downstream of this
// package.
package provider

import "context"

// Backend is the capability set the sync planner (internal/sync) converges
// against. Concrete backends are value types; callers never downcast a
// Backend back to its concrete type.
type Backend interface {
	// UpsertSecret creates name if missing, then adds a new version only if
	// value differs from the latest enabled version. changed reports whether
	// a new version was written.
	UpsertSecret(ctx context.Context, name, value, environment, location string) (changed bool, err error)

	// GetSecretValue returns the latest enabled version's decoded value.
	// ok is false when the secret is missing or fully disabled.
	GetSecretValue(ctx context.Context, name string) (value string, ok bool, err error)

	// DisableSecret is idempotent: no error if name is already disabled.
	DisableSecret(ctx context.Context, name string) (changed bool, err error)

	// EnableSecret is idempotent and reverses DisableSecret.
	EnableSecret(ctx context.Context, name string) (changed bool, err error)

	// DeleteSecret is reachable only from an operator-initiated purge path;
	// the converge algorithm (§4.6) never calls it.
	DeleteSecret(ctx context.Context, name string) error

	UpsertConfig(ctx context.Context, key, value string) (changed bool, err error)
	GetConfigValue(ctx context.Context, key string) (value string, ok bool, err error)
	DeleteConfig(ctx context.Context, key string) error
}
