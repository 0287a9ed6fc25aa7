/*
Copyright 2026.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package controller implements the SecretManagerConfig reconciler (C8) and
// its trigger fan-in (C9): the per-resource state machine that validates a
// spec, resolves its GitOps artifact, decrypts and extracts secrets/configs,
// and converges them against a cloud provider.
package controller

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"sync"
	"time"

	"github.com/tidwall/sjson"
	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"k8s.io/apimachinery/pkg/types"
	"k8s.io/client-go/tools/record"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/builder"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/controller"
	"sigs.k8s.io/controller-runtime/pkg/controller/controllerutil"
	"sigs.k8s.io/controller-runtime/pkg/event"
	"sigs.k8s.io/controller-runtime/pkg/handler"
	logf "sigs.k8s.io/controller-runtime/pkg/log"
	"sigs.k8s.io/controller-runtime/pkg/predicate"
	"sigs.k8s.io/controller-runtime/pkg/reconcile"

	smcv1alpha1 "github.com/octopilot/secretmanager-controller/api/v1alpha1"
	"github.com/octopilot/secretmanager-controller/internal/backoff"
	"github.com/octopilot/secretmanager-controller/internal/extract"
	"github.com/octopilot/secretmanager-controller/internal/provider"
	"github.com/octopilot/secretmanager-controller/internal/resolver"
	"github.com/octopilot/secretmanager-controller/internal/smcerrors"
	"github.com/octopilot/secretmanager-controller/internal/sops"
	"github.com/octopilot/secretmanager-controller/internal/sync"
	"github.com/octopilot/secretmanager-controller/internal/validation"
	"github.com/octopilot/secretmanager-controller/pkg/conditions"
	smctypes "github.com/octopilot/secretmanager-controller/pkg/types"
)

const defaultReconcileInterval = 5 * time.Minute

// sopsKeySecretDataKey is the Secret data key holding the ASCII-armored GPG
// private key, mirroring the convention sops itself uses for `--import`.
const sopsKeySecretDataKey = "key.asc"

// cachedArtifact remembers the last successfully resolved artifact for a
// resource, so spec.suspendGitPulls can keep converging against it instead
// of re-fetching (§4.7's "suspend git pulls" toggle).
type cachedArtifact struct {
	localPath string
	revision  string
}

// SecretManagerConfigReconciler reconciles a SecretManagerConfig object.
type SecretManagerConfigReconciler struct {
	client.Client
	Scheme   *runtime.Scheme
	Recorder record.EventRecorder

	Resolver *resolver.Resolver
	Backoff  *backoff.Registry

	// SOPSKeySecretName/SOPSKeyNamespace locate the cluster-scoped Secret
	// holding the GPG private key used to decrypt SOPS-protected files.
	SOPSKeySecretName string
	SOPSKeyNamespace  string

	// MaxConcurrentReconciles caps parallel reconciles of this resource kind.
	MaxConcurrentReconciles int

	artifactMu sync.Mutex
	artifacts  map[types.NamespacedName]cachedArtifact
}

// +kubebuilder:rbac:groups=secrets.smc.io,resources=secretmanagerconfigs,verbs=get;list;watch;update;patch
// +kubebuilder:rbac:groups=secrets.smc.io,resources=secretmanagerconfigs/status,verbs=get;update;patch
// +kubebuilder:rbac:groups=secrets.smc.io,resources=secretmanagerconfigs/finalizers,verbs=update
// +kubebuilder:rbac:groups="",resources=secrets,verbs=get;list;watch
// +kubebuilder:rbac:groups="",resources=events,verbs=create;patch
// +kubebuilder:rbac:groups=source.toolkit.fluxcd.io,resources=gitrepositories,verbs=get;list;watch
// +kubebuilder:rbac:groups=argoproj.io,resources=applications,verbs=get;list;watch

func (r *SecretManagerConfigReconciler) Reconcile(ctx context.Context, req ctrl.Request) (ctrl.Result, error) {
	log := logf.FromContext(ctx)
	start := time.Now()
	result := resultSuccess
	defer func() {
		reconcileDuration.WithLabelValues(req.Name, req.Namespace).Observe(time.Since(start).Seconds())
		reconcileTotal.WithLabelValues(req.Name, req.Namespace, result).Inc()
	}()

	var cr smcv1alpha1.SecretManagerConfig
	if err := r.Get(ctx, req.NamespacedName, &cr); err != nil {
		return ctrl.Result{}, client.IgnoreNotFound(err)
	}

	base := cr.DeepCopy()

	// --- Finalizer handling ---

	if !cr.DeletionTimestamp.IsZero() {
		if controllerutil.ContainsFinalizer(&cr, smctypes.Finalizer) {
			r.forgetArtifact(req.NamespacedName)
			cleanupCRMetrics(cr.Name, cr.Namespace)
			controllerutil.RemoveFinalizer(&cr, smctypes.Finalizer)
			return ctrl.Result{}, r.Update(ctx, &cr)
		}
		return ctrl.Result{}, nil
	}

	if !controllerutil.ContainsFinalizer(&cr, smctypes.Finalizer) {
		controllerutil.AddFinalizer(&cr, smctypes.Finalizer)
		return ctrl.Result{}, r.Update(ctx, &cr)
	}

	// --- Suspend short-circuit: no I/O, no phase advance, no requeue ---

	if cr.Spec.Suspend {
		crSuspended.WithLabelValues(cr.Name, cr.Namespace).Set(1)
		wasSuspended := conditionHasReason(cr.Status.Conditions, conditions.TypeReady, conditions.ReasonSuspended)
		setCondition(&cr, conditions.TypeReady, metav1.ConditionFalse, conditions.ReasonSuspended, "Reconciliation suspended")
		if !wasSuspended {
			r.Recorder.Event(&cr, corev1.EventTypeNormal, conditions.ReasonSuspended, "Reconciliation suspended")
		}
		result = resultRequeue
		return ctrl.Result{}, r.patchStatus(ctx, &cr, base)
	}
	crSuspended.WithLabelValues(cr.Name, cr.Namespace).Set(0)

	// --- C1: validate spec ---

	if err := validation.Spec(cr.Namespace, &cr.Spec); err != nil {
		log.Info("spec validation failed", "error", err.Error())
		cr.Status.Phase = smctypes.PhaseFailed
		cr.Status.Description = err.Error()
		setCondition(&cr, conditions.TypeReady, metav1.ConditionFalse, conditions.ReasonValidationFailed, err.Error())
		result = resultError
		return ctrl.Result{}, r.patchStatus(ctx, &cr, base)
	}
	if cr.Status.Phase == "" || cr.Status.Phase == smctypes.PhaseFailed {
		cr.Status.Phase = smctypes.PhaseStarted
	}

	// --- C3 probe: mirror SOPS key availability in status, best-effort ---

	gpgKey := r.probeSOPSKey(ctx, &cr)

	// --- C2: resolve artifact ---

	resolveStart := time.Now()
	localPath, revision, err := r.resolveArtifact(ctx, req.NamespacedName, &cr)
	artifactResolveDuration.WithLabelValues(cr.Name, cr.Namespace).Observe(time.Since(resolveStart).Seconds())
	if err != nil {
		res, patchErr := r.handleFailure(ctx, &cr, base, conditions.TypeArtifactResolved, err)
		result = resultError
		if patchErr != nil {
			return ctrl.Result{}, patchErr
		}
		return res, nil
	}
	setCondition(&cr, conditions.TypeArtifactResolved, metav1.ConditionTrue, conditions.ReasonArtifactResolved, revision)
	cr.Status.Phase = smctypes.PhaseCloning

	// --- C4: extract secrets/properties ---

	decryptor := &sops.Decryptor{GPGPrivateKey: gpgKey}
	configsEnabled := cr.Spec.Configs != nil && cr.Spec.Configs.Enabled
	secrets, properties, err := extract.Extract(ctx, localPath, cr.Spec.Secrets.Environment,
		cr.Spec.Secrets.KustomizePath, cr.Spec.Secrets.BasePath, configsEnabled, decryptor.MaybeDecrypt,
		cr.Spec.Secrets.ExcludePatterns...)
	if err != nil {
		res, patchErr := r.handleFailure(ctx, &cr, base, conditions.TypeReady, err)
		result = resultError
		if patchErr != nil {
			return ctrl.Result{}, patchErr
		}
		return res, nil
	}
	cr.Status.Phase = smctypes.PhaseUpdating

	// --- C5: materialize provider backend ---

	backend, err := provider.New(ctx, &cr.Spec.Provider, cr.Spec.Configs)
	if err != nil {
		res, patchErr := r.handleFailure(ctx, &cr, base, conditions.TypeReady, err)
		result = resultError
		if patchErr != nil {
			return ctrl.Result{}, patchErr
		}
		return res, nil
	}

	// --- C6: converge ---

	opts := sync.Options{
		Prefix:         cr.Spec.Secrets.Prefix,
		Suffix:         cr.Spec.Secrets.Suffix,
		Environment:    cr.Spec.Secrets.Environment,
		Location:       providerLocation(&cr.Spec.Provider),
		TriggerUpdate:  boolOrDefault(cr.Spec.TriggerUpdate, true),
		DiffDiscovery:  boolOrDefault(cr.Spec.DiffDiscovery, true),
		ConfigsEnabled: configsEnabled,
	}
	desired := sync.DesiredState{Secrets: secrets, Properties: properties}
	report, err := sync.Converge(ctx, backend, desired, cr.Status.Sync, opts)
	if err != nil {
		res, patchErr := r.handleFailure(ctx, &cr, base, conditions.TypeSynced, err)
		result = resultError
		if patchErr != nil {
			return ctrl.Result{}, patchErr
		}
		return res, nil
	}

	cr.Status.Sync = smcv1alpha1.SyncStatus{Secrets: report.Secrets, Properties: report.Properties}
	cr.Status.SecretsSynced = countExisting(report.Secrets)
	cr.Status.Phase = report.Outcome

	requeueAfter := r.finishOutcome(&cr, report, req.NamespacedName)

	now := metav1.Now()
	cr.Status.LastReconcileTime = &now
	if requeueAfter > 0 {
		next := metav1.NewTime(now.Add(requeueAfter))
		cr.Status.NextReconcileTime = &next
	} else {
		cr.Status.NextReconcileTime = nil
	}
	if cr.Status.Phase == smctypes.PhaseReady || cr.Status.Phase == smctypes.PhasePartialFailure {
		cr.Status.ObservedGeneration = cr.Generation
	}

	status := &smcStatusView{
		conditions:       cr.Status.Conditions,
		secretsExists:    cr.Status.SecretsSynced,
		propertiesExists: countExisting(report.Properties),
		drift:            len(report.Drift),
	}
	observeStatusMetrics(cr.Name, cr.Namespace, status)
	propertiesSynced.WithLabelValues(cr.Name, cr.Namespace).Set(float64(status.propertiesExists))

	if len(report.Drift) > 0 {
		r.Recorder.Event(&cr, corev1.EventTypeWarning, "DriftDetected", driftNotificationPayload(report.Drift))
	}

	if len(report.Failures) > 0 {
		result = resultError
	}

	if err := r.patchStatus(ctx, &cr, base); err != nil {
		return ctrl.Result{}, err
	}

	log.Info("reconciliation complete", "revision", revision, "phase", cr.Status.Phase,
		"secretsSynced", cr.Status.SecretsSynced, "requeueAfter", requeueAfter)
	return ctrl.Result{RequeueAfter: requeueAfter}, nil
}

// finishOutcome sets the Ready/Synced conditions from the converge report,
// manages the backoff registry, and returns the next requeue delay.
func (r *SecretManagerConfigReconciler) finishOutcome(cr *smcv1alpha1.SecretManagerConfig, report *sync.SyncReport, key types.NamespacedName) time.Duration {
	switch report.Outcome {
	case smctypes.PhaseReady:
		setCondition(cr, conditions.TypeSynced, metav1.ConditionTrue, conditions.ReasonSyncSucceeded, "All secrets and properties converged")
		setCondition(cr, conditions.TypeReady, metav1.ConditionTrue, conditions.ReasonSyncSucceeded, "Reconciliation succeeded")
		r.Backoff.Reset(key)
		return reconcileInterval(cr.Spec.ReconcileInterval)
	case smctypes.PhasePartialFailure:
		msg := firstFailureMessage(report.Failures)
		setCondition(cr, conditions.TypeSynced, metav1.ConditionFalse, conditions.ReasonSyncPartialFailure, msg)
		setCondition(cr, conditions.TypeReady, metav1.ConditionFalse, conditions.ReasonSyncPartialFailure, msg)
		r.Backoff.Reset(key)
		return reconcileInterval(cr.Spec.ReconcileInterval)
	default: // smctypes.PhaseFailed
		msg := firstFailureMessage(report.Failures)
		setCondition(cr, conditions.TypeSynced, metav1.ConditionFalse, conditions.ReasonSyncFailed, msg)
		setCondition(cr, conditions.TypeReady, metav1.ConditionFalse, conditions.ReasonSyncFailed, msg)
		return r.Backoff.Next(key)
	}
}

// handleFailure classifies a component-boundary error into the scheduling
// contract from §4.7: awaitChange (no timer), backoff (transient), or fatal
// (permanent, no timer but future spec edits still trigger a reconcile).
func (r *SecretManagerConfigReconciler) handleFailure(ctx context.Context, cr *smcv1alpha1.SecretManagerConfig, base client.Object, condType string, err error) (ctrl.Result, error) {
	var se *smcerrors.Error
	reason := conditions.ReasonReconciling
	message := err.Error()
	phase := smctypes.PhaseFailed
	var requeueAfter time.Duration

	if smcerrors.As(err, &se) {
		message = se.Error()
		reason = reasonForKind(se.Kind)
		switch {
		case smcerrors.IsAwaitChange(se.Kind):
			phase = smctypes.PhasePending
			requeueAfter = 0
		case smcerrors.IsTransient(se.Kind):
			requeueAfter = r.Backoff.Next(types.NamespacedName{Namespace: cr.Namespace, Name: cr.Name})
		default:
			requeueAfter = 0
		}
	}

	cr.Status.Phase = phase
	cr.Status.Description = message
	setCondition(cr, condType, metav1.ConditionFalse, reason, message)
	setCondition(cr, conditions.TypeReady, metav1.ConditionFalse, reason, message)

	if reason == conditions.ReasonSopsKeyMissing || reason == conditions.ReasonSopsFailed {
		now := metav1.Now()
		cr.Status.DecryptionLastError = message
		cr.Status.DecryptionTimestamp = &now
		if reason == conditions.ReasonSopsKeyMissing {
			cr.Status.DecryptionStatus = smctypes.DecryptionPermanentFailure
			if smcerrors.As(err, &se) && smcerrors.IsAwaitChange(se.Kind) {
				cr.Status.DecryptionStatus = smctypes.DecryptionTransientFailure
			}
		}
	}

	return ctrl.Result{RequeueAfter: requeueAfter}, r.patchStatus(ctx, cr, base)
}

func reasonForKind(kind smcerrors.Kind) string {
	switch kind {
	case smcerrors.KindSourceNotFound:
		return conditions.ReasonSourceNotFound
	case smcerrors.KindArtifactMissing:
		return conditions.ReasonArtifactMissing
	case smcerrors.KindArtifactCorrupt, smcerrors.KindKustomizeBuildFail:
		return conditions.ReasonArtifactCorrupt
	case smcerrors.KindSopsKeyMissing:
		return conditions.ReasonSopsKeyMissing
	case smcerrors.KindSopsPermanent, smcerrors.KindSopsTransient:
		return conditions.ReasonSopsFailed
	case smcerrors.KindValidation:
		return conditions.ReasonValidationFailed
	default:
		return conditions.ReasonSyncFailed
	}
}

// resolveArtifact honors spec.suspendGitPulls by reusing the last resolved
// artifact for GitRepository sources instead of calling the resolver again.
func (r *SecretManagerConfigReconciler) resolveArtifact(ctx context.Context, key types.NamespacedName, cr *smcv1alpha1.SecretManagerConfig) (string, string, error) {
	ref := resolver.SourceRef{Kind: cr.Spec.SourceRef.Kind, Name: cr.Spec.SourceRef.Name, Namespace: cr.Spec.SourceRef.Namespace}

	if cr.Spec.SuspendGitPulls && ref.Kind == "GitRepository" {
		if cached, ok := r.lookupArtifact(key); ok {
			return cached.localPath, cached.revision, nil
		}
	}

	localPath, revision, err := r.Resolver.Resolve(ctx, cr.Namespace, ref)
	if err != nil {
		return "", "", err
	}
	r.rememberArtifact(key, localPath, revision)
	return localPath, revision, nil
}

func (r *SecretManagerConfigReconciler) lookupArtifact(key types.NamespacedName) (cachedArtifact, bool) {
	r.artifactMu.Lock()
	defer r.artifactMu.Unlock()
	a, ok := r.artifacts[key]
	return a, ok
}

func (r *SecretManagerConfigReconciler) rememberArtifact(key types.NamespacedName, localPath, revision string) {
	r.artifactMu.Lock()
	defer r.artifactMu.Unlock()
	if r.artifacts == nil {
		r.artifacts = make(map[types.NamespacedName]cachedArtifact)
	}
	r.artifacts[key] = cachedArtifact{localPath: localPath, revision: revision}
}

func (r *SecretManagerConfigReconciler) forgetArtifact(key types.NamespacedName) {
	r.artifactMu.Lock()
	defer r.artifactMu.Unlock()
	delete(r.artifacts, key)
}

// probeSOPSKey fetches the cluster-scoped SOPS key secret and mirrors its
// availability into status; a missing or unreadable secret is not itself
// fatal here — decryption only fails downstream if a file actually needs it.
func (r *SecretManagerConfigReconciler) probeSOPSKey(ctx context.Context, cr *smcv1alpha1.SecretManagerConfig) string {
	now := metav1.Now()
	cr.Status.SopsKeySecretName = r.SOPSKeySecretName
	cr.Status.SopsKeyNamespace = r.SOPSKeyNamespace
	cr.Status.SopsKeyLastChecked = &now

	var secret corev1.Secret
	err := r.Get(ctx, types.NamespacedName{Name: r.SOPSKeySecretName, Namespace: r.SOPSKeyNamespace}, &secret)
	cr.Status.SopsKeyAvailable = err == nil
	sopsKeyAvailable.WithLabelValues(cr.Name, cr.Namespace).Set(boolToFloat(err == nil))

	if err != nil {
		setCondition(cr, conditions.TypeSopsKeyAvailable, metav1.ConditionFalse, conditions.ReasonSopsKeyMissing, "SOPS key secret not found: "+err.Error())
		return ""
	}
	setCondition(cr, conditions.TypeSopsKeyAvailable, metav1.ConditionTrue, conditions.ReasonSopsKeyAvailable, "SOPS key secret present")
	return string(secret.Data[sopsKeySecretDataKey])
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

func boolOrDefault(p *bool, def bool) bool {
	if p == nil {
		return def
	}
	return *p
}

func providerLocation(p *smcv1alpha1.ProviderConfig) string {
	switch {
	case p.GCP != nil:
		return p.GCP.Location
	case p.Azure != nil:
		return p.Azure.Location
	default:
		return ""
	}
}

// driftNotificationPayload builds the diffDiscovery drift summary surfaced on
// the DriftDetected event, one sjson.SetBytes append per entry rather than a
// dedicated struct since the shape is a flat, order-preserving array.
func driftNotificationPayload(drift []sync.DriftWarning) string {
	payload := []byte(`{"drift":[]}`)
	for i, d := range drift {
		base := fmt.Sprintf("drift.%d", i)
		payload, _ = sjson.SetBytes(payload, base+".name", d.Name)
		payload, _ = sjson.SetBytes(payload, base+".kind", d.Kind)
	}
	return string(payload)
}

func countExisting(entries map[string]smctypes.SyncEntry) int {
	n := 0
	for _, e := range entries {
		if e.Exists {
			n++
		}
	}
	return n
}

func firstFailureMessage(failures map[string]error) string {
	if len(failures) == 0 {
		return ""
	}
	names := make([]string, 0, len(failures))
	for name := range failures {
		names = append(names, name)
	}
	sort.Strings(names)
	return fmt.Sprintf("%s: %s", names[0], failures[names[0]].Error())
}

// setCondition replaces an existing condition of the same type, preserving
// lastTransitionTime when status is unchanged, or appends a new one.
func setCondition(cr *smcv1alpha1.SecretManagerConfig, condType string, status metav1.ConditionStatus, reason, message string) {
	condition := metav1.Condition{
		Type:               condType,
		Status:             status,
		ObservedGeneration: cr.Generation,
		LastTransitionTime: metav1.Now(),
		Reason:             reason,
		Message:            message,
	}

	for i, c := range cr.Status.Conditions {
		if c.Type == condType {
			if c.Status != status {
				cr.Status.Conditions[i] = condition
			} else {
				cr.Status.Conditions[i].Reason = reason
				cr.Status.Conditions[i].Message = message
				cr.Status.Conditions[i].ObservedGeneration = cr.Generation
			}
			return
		}
	}
	cr.Status.Conditions = append(cr.Status.Conditions, condition)
}

func conditionHasReason(conds []metav1.Condition, condType, reason string) bool {
	for _, c := range conds {
		if c.Type == condType && c.Reason == reason {
			return true
		}
	}
	return false
}

// patchStatus applies a status update via server-side merge patch, avoiding
// resourceVersion conflicts with concurrent status writers (§4.7).
func (r *SecretManagerConfigReconciler) patchStatus(ctx context.Context, cr *smcv1alpha1.SecretManagerConfig, base client.Object) error {
	if err := r.Status().Patch(ctx, cr, client.MergeFrom(base)); err != nil {
		if apierrors.IsConflict(err) {
			return smcerrors.Transient(smcerrors.KindStatusWriteConflict, "status patch conflict", err)
		}
		return err
	}
	return nil
}

func reconcileInterval(spec string) time.Duration {
	if spec == "" {
		return defaultReconcileInterval
	}
	d, err := validation.ParseKubernetesDuration(spec)
	if err != nil {
		return defaultReconcileInterval
	}
	return d
}

// annotationOrGenerationChanged passes update events where the generation
// changed (spec edits) or annotations changed (the reconcile-trigger
// annotation), filtering out status-only patches that would otherwise cause
// reconcile noise.
type annotationOrGenerationChanged struct {
	predicate.GenerationChangedPredicate
}

func (p annotationOrGenerationChanged) Update(e event.UpdateEvent) bool {
	if p.GenerationChangedPredicate.Update(e) {
		return true
	}
	return !reflect.DeepEqual(e.ObjectOld.GetAnnotations(), e.ObjectNew.GetAnnotations())
}

// findSecretManagerConfigsForSOPSSecret re-reconciles every SecretManagerConfig
// in the cluster, since all of them share the one cluster-scoped SOPS key
// secret, so their sopsKeyAvailable status mirrors update on the next
// reconcile (§4.9's SOPS-key watch fan-out).
func (r *SecretManagerConfigReconciler) findSecretManagerConfigsForSOPSSecret(ctx context.Context, obj client.Object) []reconcile.Request {
	secret, ok := obj.(*corev1.Secret)
	if !ok {
		return nil
	}
	if secret.Name != r.SOPSKeySecretName || secret.Namespace != r.SOPSKeyNamespace {
		return nil
	}

	var list smcv1alpha1.SecretManagerConfigList
	if err := r.List(ctx, &list); err != nil {
		return nil
	}
	requests := make([]reconcile.Request, 0, len(list.Items))
	for _, item := range list.Items {
		requests = append(requests, reconcile.Request{
			NamespacedName: types.NamespacedName{Name: item.Name, Namespace: item.Namespace},
		})
	}
	return requests
}

// findSecretManagerConfigsForSource re-reconciles every SecretManagerConfig
// whose sourceRef names the changed GitRepository/Application object.
func (r *SecretManagerConfigReconciler) findSecretManagerConfigsForSource(ctx context.Context, obj client.Object) []reconcile.Request {
	var list smcv1alpha1.SecretManagerConfigList
	if err := r.List(ctx, &list); err != nil {
		return nil
	}
	requests := make([]reconcile.Request, 0)
	for _, item := range list.Items {
		ns := item.Spec.SourceRef.Namespace
		if ns == "" {
			ns = item.Namespace
		}
		if item.Spec.SourceRef.Name == obj.GetName() && ns == obj.GetNamespace() {
			requests = append(requests, reconcile.Request{
				NamespacedName: types.NamespacedName{Name: item.Name, Namespace: item.Namespace},
			})
		}
	}
	return requests
}

// Reconcile result label values.
const (
	resultSuccess = "success"
	resultError   = "error"
	resultRequeue = "requeue"
)

var (
	gitRepositoryGVK = schema.GroupVersionKind{Group: "source.toolkit.fluxcd.io", Version: "v1", Kind: "GitRepository"}
	applicationGVK   = schema.GroupVersionKind{Group: "argoproj.io", Version: "v1alpha1", Kind: "Application"}
)

func unstructuredOf(gvk schema.GroupVersionKind) *unstructured.Unstructured {
	u := &unstructured.Unstructured{}
	u.SetGroupVersionKind(gvk)
	return u
}

// SetupWithManager sets up the controller with the Manager.
func (r *SecretManagerConfigReconciler) SetupWithManager(mgr ctrl.Manager) error {
	maxConcurrent := r.MaxConcurrentReconciles
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	return ctrl.NewControllerManagedBy(mgr).
		For(&smcv1alpha1.SecretManagerConfig{}, builder.WithPredicates(annotationOrGenerationChanged{})).
		Watches(&corev1.Secret{}, handler.EnqueueRequestsFromMapFunc(r.findSecretManagerConfigsForSOPSSecret)).
		Watches(unstructuredOf(gitRepositoryGVK), handler.EnqueueRequestsFromMapFunc(r.findSecretManagerConfigsForSource)).
		Watches(unstructuredOf(applicationGVK), handler.EnqueueRequestsFromMapFunc(r.findSecretManagerConfigsForSource)).
		WithOptions(controller.Options{MaxConcurrentReconciles: maxConcurrent}).
		Named("secretmanagerconfig").
		Complete(r)
}
