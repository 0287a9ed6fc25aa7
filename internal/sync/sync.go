// Package sync implements the converge planner/executor (C6): it reconciles
// an extracted desired state against a provider backend and the resource's
// own prior sync observation, producing the next sync.secrets/sync.properties
// snapshot plus a report the reconciler folds into status and conditions.
//
// The per-key diff-then-act shape (create/update/disable, insertion-order
// independence via lexicographic sort) is adapted from the teacher's
// filesystem syncengine.Engine.Sync, whose source/destination file diff
// plays the same role our desired/observed provider diff does here.
package sync

import (
	"context"
	"fmt"
	"sort"

	smcv1alpha1 "github.com/octopilot/secretmanager-controller/api/v1alpha1"
	"github.com/octopilot/secretmanager-controller/internal/extract"
	"github.com/octopilot/secretmanager-controller/internal/provider"
	"github.com/octopilot/secretmanager-controller/internal/secretname"
	"github.com/octopilot/secretmanager-controller/internal/smcerrors"
	smctypes "github.com/octopilot/secretmanager-controller/pkg/types"
)

// DesiredState is what the content extractor (C4) produced for one resource.
type DesiredState struct {
	Secrets    map[string]extract.Entry
	Properties map[string]extract.Entry
}

// Options carries the per-resource sync policy fields from SecretsSpec.
type Options struct {
	Prefix         string
	Suffix         string
	Environment    string
	Location       string
	TriggerUpdate  bool
	DiffDiscovery  bool
	ConfigsEnabled bool
}

// DriftWarning records a value divergence observed under diffDiscovery mode,
// where the executor reports but does not write.
type DriftWarning struct {
	Name string
	Kind string // "secret" or "property"
}

// SyncReport is the outcome of one Converge call.
type SyncReport struct {
	Secrets    map[string]smctypes.SyncEntry
	Properties map[string]smctypes.SyncEntry
	Drift      []DriftWarning
	Failures   map[string]error
	Outcome    string // smctypes.Phase{Ready,PartialFailure,Failed}
}

// Converge reconciles desired against the resource's prior observation,
// writing through backend, and returns the updated observation plus report.
func Converge(ctx context.Context, backend provider.Backend, desired DesiredState, observed smcv1alpha1.SyncStatus, opts Options) (*SyncReport, error) {
	report := &SyncReport{
		Secrets:    map[string]smctypes.SyncEntry{},
		Properties: map[string]smctypes.SyncEntry{},
		Failures:   map[string]error{},
	}

	if err := convergeSet(ctx, backend, desired.Secrets, observed.Secrets, opts, "secret", report); err != nil {
		return nil, err
	}
	if opts.ConfigsEnabled {
		if err := convergeSet(ctx, backend, desired.Properties, observed.Properties, opts, "property", report); err != nil {
			return nil, err
		}
	}

	report.Outcome = classifyOutcome(len(report.Failures), totalAttempted(desired, opts))
	return report, nil
}

func totalAttempted(desired DesiredState, opts Options) int {
	n := len(desired.Secrets)
	if opts.ConfigsEnabled {
		n += len(desired.Properties)
	}
	return n
}

func classifyOutcome(failures, attempted int) string {
	switch {
	case failures == 0:
		return smctypes.PhaseReady
	case failures == attempted:
		return smctypes.PhaseFailed
	default:
		return smctypes.PhasePartialFailure
	}
}

// convergeSet runs the five-step algorithm (upsert/diff, disable-commented,
// disable-dropped, re-enable-reappeared, then the actual upsert) against one
// of the two key spaces (secrets or properties), targeting kind's matching
// provider surface.
func convergeSet(ctx context.Context, backend provider.Backend, desired map[string]extract.Entry, prior map[string]smctypes.SyncEntry, opts Options, kind string, report *SyncReport) error {
	names := sortedKeys(desired)
	out := report.Secrets
	if kind == "property" {
		out = report.Properties
	}

	for _, key := range names {
		entry := desired[key]
		provName := secretname.Construct(opts.Prefix, key, opts.Suffix)
		priorEntry, wasKnown := prior[provName]

		if entry.Disabled {
			// Disabling never creates or deletes the status entry; a key that
			// was never written still isn't "exists" after a no-op disable.
			if _, err := disable(ctx, backend, kind, provName); err != nil {
				report.Failures[provName] = err
				out[provName] = priorEntry
				continue
			}
			out[provName] = priorEntry
			continue
		}

		if !opts.TriggerUpdate {
			if opts.DiffDiscovery {
				if drifted, err := detectDrift(ctx, backend, kind, provName, entry.Value); err == nil && drifted {
					report.Drift = append(report.Drift, DriftWarning{Name: provName, Kind: kind})
				}
			}
			out[provName] = priorEntry
			continue
		}

		// SyncEntry carries only exists/updateCount (status.sync's documented
		// shape), not a disabled flag, so "was this previously disabled" has to
		// be asked of the backend rather than of prior's local bookkeeping:
		// a key the controller already knows about that currently has no
		// enabled version must have been disabled (or soft-deleted), since a
		// still-enabled key would resolve via GetSecretValue/GetConfigValue.
		if wasKnown && priorEntry.Exists {
			if disabledNow, err := isDisabled(ctx, backend, kind, provName); err == nil && disabledNow {
				if _, err := enable(ctx, backend, kind, provName); err != nil {
					report.Failures[provName] = err
					out[provName] = priorEntry
					continue
				}
			}
		}

		changed, err := upsert(ctx, backend, kind, provName, entry.Value, opts.Environment, opts.Location)
		if err != nil {
			report.Failures[provName] = err
			out[provName] = priorEntry
			continue
		}

		// The create that first establishes a secret also reports changed=true
		// (it has to write the first version), but that isn't a value update:
		// updateCount only rises once a key that was already known to exist
		// changes value on a later reconcile.
		updateCount := priorEntry.UpdateCount
		if changed && wasKnown && priorEntry.Exists {
			updateCount++
		}
		out[provName] = smctypes.SyncEntry{Exists: true, UpdateCount: updateCount}
	}

	// Keys previously observed but dropped entirely from desired: disable,
	// never delete, on the controller's own initiative.
	for provName, priorEntry := range prior {
		if _, stillDesired := desiredContainsProvName(desired, opts, provName); stillDesired {
			continue
		}
		if _, handled := out[provName]; handled {
			continue
		}
		if !priorEntry.Exists {
			out[provName] = priorEntry
			continue
		}
		if _, err := disable(ctx, backend, kind, provName); err != nil {
			report.Failures[provName] = err
			out[provName] = priorEntry
			continue
		}
		out[provName] = smctypes.SyncEntry{Exists: priorEntry.Exists, UpdateCount: priorEntry.UpdateCount}
	}

	return nil
}

func desiredContainsProvName(desired map[string]extract.Entry, opts Options, provName string) (string, bool) {
	for key := range desired {
		if secretname.Construct(opts.Prefix, key, opts.Suffix) == provName {
			return key, true
		}
	}
	return "", false
}

func sortedKeys(m map[string]extract.Entry) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func upsert(ctx context.Context, backend provider.Backend, kind, name, value, environment, location string) (bool, error) {
	if kind == "property" {
		return backend.UpsertConfig(ctx, name, value)
	}
	return backend.UpsertSecret(ctx, name, value, environment, location)
}

func disable(ctx context.Context, backend provider.Backend, kind, name string) (bool, error) {
	if kind == "property" {
		// The config-store surface has no disable primitive, and DeleteConfig
		// is reserved for the operator-invoked purge path, never called from
		// convergence; a commented-out or dropped property is simply left alone.
		return false, nil
	}
	return backend.DisableSecret(ctx, name)
}

func enable(ctx context.Context, backend provider.Backend, kind, name string) (bool, error) {
	if kind == "property" {
		return false, nil
	}
	return backend.EnableSecret(ctx, name)
}

// isDisabled reports whether name currently has no enabled version/value on
// the backend. For properties this collapses to "missing", since the
// config-store surface has no disable primitive.
func isDisabled(ctx context.Context, backend provider.Backend, kind, name string) (bool, error) {
	var ok bool
	var err error
	if kind == "property" {
		_, ok, err = backend.GetConfigValue(ctx, name)
	} else {
		_, ok, err = backend.GetSecretValue(ctx, name)
	}
	if err != nil {
		return false, err
	}
	return !ok, nil
}

func detectDrift(ctx context.Context, backend provider.Backend, kind, name, desiredValue string) (bool, error) {
	var current string
	var ok bool
	var err error
	if kind == "property" {
		current, ok, err = backend.GetConfigValue(ctx, name)
	} else {
		current, ok, err = backend.GetSecretValue(ctx, name)
	}
	if err != nil {
		return false, err
	}
	if !ok {
		return true, nil
	}
	return current != desiredValue, nil
}

// Error wraps a per-name convergence failure with the provider name for
// reporting, used by callers that need a single representative error.
func Error(name string, err error) error {
	var se *smcerrors.Error
	if smcerrors.As(err, &se) {
		return fmt.Errorf("%s: %s", name, se.Error())
	}
	return fmt.Errorf("%s: %w", name, err)
}
