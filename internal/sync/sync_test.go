package sync

import (
	"context"
	"errors"
	"testing"

	smcv1alpha1 "github.com/octopilot/secretmanager-controller/api/v1alpha1"
	"github.com/octopilot/secretmanager-controller/internal/extract"
	smctypes "github.com/octopilot/secretmanager-controller/pkg/types"
)

// fakeBackend is a minimal in-memory provider.Backend used to exercise the
// converge algorithm without a real cloud SDK.
type fakeBackend struct {
	secrets        map[string]string
	secretDisabled map[string]bool
	configs        map[string]string
	failUpsert     map[string]bool
	deleteCalls    []string
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		secrets:        map[string]string{},
		secretDisabled: map[string]bool{},
		configs:        map[string]string{},
		failUpsert:     map[string]bool{},
	}
}

func (f *fakeBackend) UpsertSecret(_ context.Context, name, value, _, _ string) (bool, error) {
	if f.failUpsert[name] {
		return false, errors.New("upsert failed")
	}
	changed := f.secrets[name] != value
	f.secrets[name] = value
	f.secretDisabled[name] = false
	return changed, nil
}

func (f *fakeBackend) GetSecretValue(_ context.Context, name string) (string, bool, error) {
	v, ok := f.secrets[name]
	return v, ok && !f.secretDisabled[name], nil
}

func (f *fakeBackend) DisableSecret(_ context.Context, name string) (bool, error) {
	changed := !f.secretDisabled[name]
	f.secretDisabled[name] = true
	return changed, nil
}

func (f *fakeBackend) EnableSecret(_ context.Context, name string) (bool, error) {
	changed := f.secretDisabled[name]
	f.secretDisabled[name] = false
	return changed, nil
}

func (f *fakeBackend) DeleteSecret(_ context.Context, name string) error {
	f.deleteCalls = append(f.deleteCalls, name)
	delete(f.secrets, name)
	return nil
}

func (f *fakeBackend) UpsertConfig(_ context.Context, key, value string) (bool, error) {
	changed := f.configs[key] != value
	f.configs[key] = value
	return changed, nil
}

func (f *fakeBackend) GetConfigValue(_ context.Context, key string) (string, bool, error) {
	v, ok := f.configs[key]
	return v, ok, nil
}

func (f *fakeBackend) DeleteConfig(_ context.Context, key string) error {
	f.deleteCalls = append(f.deleteCalls, key)
	delete(f.configs, key)
	return nil
}

func TestConvergeCreatesNewSecrets(t *testing.T) {
	backend := newFakeBackend()
	desired := DesiredState{Secrets: map[string]extract.Entry{"db-password": {Value: "hunter2"}}}
	opts := Options{TriggerUpdate: true}

	report, err := Converge(context.Background(), backend, desired, smcv1alpha1.SyncStatus{}, opts)
	if err != nil {
		t.Fatalf("Converge: %v", err)
	}
	if report.Outcome != smctypes.PhaseReady {
		t.Errorf("Outcome = %q, want Ready", report.Outcome)
	}
	entry, ok := report.Secrets["db-password"]
	if !ok || !entry.Exists || entry.UpdateCount != 0 {
		t.Errorf("Secrets[db-password] = %+v, ok=%v, want UpdateCount=0 (the create that establishes a secret is not an update)", entry, ok)
	}
	if backend.secrets["db-password"] != "hunter2" {
		t.Errorf("backend value = %q", backend.secrets["db-password"])
	}
}

func TestConvergeDisablesCommentedOutKey(t *testing.T) {
	backend := newFakeBackend()
	backend.secrets["api-key"] = "old-value"
	observed := smcv1alpha1.SyncStatus{Secrets: map[string]smctypes.SyncEntry{"api-key": {Exists: true, UpdateCount: 3}}}
	desired := DesiredState{Secrets: map[string]extract.Entry{"api-key": {Value: "old-value", Disabled: true}}}

	report, err := Converge(context.Background(), backend, desired, observed, Options{TriggerUpdate: true})
	if err != nil {
		t.Fatalf("Converge: %v", err)
	}
	if !backend.secretDisabled["api-key"] {
		t.Error("expected api-key to be disabled on the backend")
	}
	if entry := report.Secrets["api-key"]; entry.UpdateCount != 3 {
		t.Errorf("UpdateCount mutated on disable: %+v", entry)
	}
}

func TestConvergeReenablesReappearedKey(t *testing.T) {
	backend := newFakeBackend()
	backend.secrets["token"] = "v1"
	backend.secretDisabled["token"] = true
	// A real disable (sync.go's entry.Disabled branch) never clears Exists,
	// it stays "still tracked" per scenario 3, so the prior observation a
	// reappearing key actually carries is Exists:true, not Exists:false.
	observed := smcv1alpha1.SyncStatus{Secrets: map[string]smctypes.SyncEntry{"token": {Exists: true, UpdateCount: 1}}}
	desired := DesiredState{Secrets: map[string]extract.Entry{"token": {Value: "v2"}}}

	report, err := Converge(context.Background(), backend, desired, observed, Options{TriggerUpdate: true})
	if err != nil {
		t.Fatalf("Converge: %v", err)
	}
	if backend.secretDisabled["token"] {
		t.Error("expected token to be re-enabled")
	}
	if entry := report.Secrets["token"]; !entry.Exists || entry.UpdateCount != 2 {
		t.Errorf("Secrets[token] = %+v, want UpdateCount=2 (re-enable plus a real value change)", entry)
	}
}

func TestConvergeReenableWithUnchangedValueWritesNoNewVersion(t *testing.T) {
	backend := newFakeBackend()
	backend.secrets["token"] = "v1"
	backend.secretDisabled["token"] = true
	observed := smcv1alpha1.SyncStatus{Secrets: map[string]smctypes.SyncEntry{"token": {Exists: true, UpdateCount: 1}}}
	desired := DesiredState{Secrets: map[string]extract.Entry{"token": {Value: "v1"}}}

	report, err := Converge(context.Background(), backend, desired, observed, Options{TriggerUpdate: true})
	if err != nil {
		t.Fatalf("Converge: %v", err)
	}
	if backend.secretDisabled["token"] {
		t.Error("expected token to be re-enabled")
	}
	if entry := report.Secrets["token"]; !entry.Exists || entry.UpdateCount != 1 {
		t.Errorf("Secrets[token] = %+v, want UpdateCount unchanged at 1 since the value did not change", entry)
	}
}

func TestConvergeDisablesDroppedKeyNeverDeletes(t *testing.T) {
	backend := newFakeBackend()
	backend.secrets["stale"] = "v1"
	observed := smcv1alpha1.SyncStatus{Secrets: map[string]smctypes.SyncEntry{"stale": {Exists: true, UpdateCount: 1}}}
	desired := DesiredState{Secrets: map[string]extract.Entry{}}

	_, err := Converge(context.Background(), backend, desired, observed, Options{TriggerUpdate: true})
	if err != nil {
		t.Fatalf("Converge: %v", err)
	}
	if !backend.secretDisabled["stale"] {
		t.Error("expected stale key to be disabled")
	}
	if _, ok := backend.secrets["stale"]; !ok {
		t.Error("dropped key must never be deleted from the backend")
	}
	if len(backend.deleteCalls) != 0 {
		t.Errorf("expected no DeleteSecret/DeleteConfig calls from converge, got %v", backend.deleteCalls)
	}
}

func TestConvergeDroppedPropertyIsNeverDeleted(t *testing.T) {
	backend := newFakeBackend()
	backend.configs["log-level"] = "debug"
	observed := smcv1alpha1.SyncStatus{Properties: map[string]smctypes.SyncEntry{"log-level": {Exists: true, UpdateCount: 2}}}
	desired := DesiredState{Properties: map[string]extract.Entry{}}

	report, err := Converge(context.Background(), backend, desired, observed, Options{TriggerUpdate: true, ConfigsEnabled: true})
	if err != nil {
		t.Fatalf("Converge: %v", err)
	}
	if _, ok := backend.configs["log-level"]; !ok {
		t.Error("dropped property must never be deleted from the backend — DeleteConfig is purge-only")
	}
	if entry := report.Properties["log-level"]; entry.UpdateCount != 2 {
		t.Errorf("Properties[log-level] = %+v, want unchanged prior entry", entry)
	}
	if len(backend.deleteCalls) != 0 {
		t.Errorf("expected no delete calls, got %v", backend.deleteCalls)
	}
}

func TestConvergePartialFailureOutcome(t *testing.T) {
	backend := newFakeBackend()
	backend.failUpsert["bad"] = true
	desired := DesiredState{Secrets: map[string]extract.Entry{
		"good": {Value: "v1"},
		"bad":  {Value: "v1"},
	}}

	report, err := Converge(context.Background(), backend, desired, smcv1alpha1.SyncStatus{}, Options{TriggerUpdate: true})
	if err != nil {
		t.Fatalf("Converge: %v", err)
	}
	if report.Outcome != smctypes.PhasePartialFailure {
		t.Errorf("Outcome = %q, want PartialFailure", report.Outcome)
	}
	if _, failed := report.Failures["bad"]; !failed {
		t.Error("expected bad to be recorded in Failures")
	}
}

func TestConvergeDiffDiscoveryReportsDriftWithoutWriting(t *testing.T) {
	backend := newFakeBackend()
	backend.secrets["db-password"] = "old"
	observed := smcv1alpha1.SyncStatus{Secrets: map[string]smctypes.SyncEntry{"db-password": {Exists: true, UpdateCount: 1}}}
	desired := DesiredState{Secrets: map[string]extract.Entry{"db-password": {Value: "new"}}}

	report, err := Converge(context.Background(), backend, desired, observed, Options{TriggerUpdate: false, DiffDiscovery: true})
	if err != nil {
		t.Fatalf("Converge: %v", err)
	}
	if backend.secrets["db-password"] != "old" {
		t.Error("diff-discovery mode must not write through to the backend")
	}
	if len(report.Drift) != 1 || report.Drift[0].Name != "db-password" {
		t.Errorf("Drift = %+v, want one entry for db-password", report.Drift)
	}
}
