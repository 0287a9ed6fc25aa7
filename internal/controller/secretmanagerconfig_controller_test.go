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

package controller

import (
	"fmt"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/types"
	"k8s.io/client-go/tools/record"
	"sigs.k8s.io/controller-runtime/pkg/controller/controllerutil"
	"sigs.k8s.io/controller-runtime/pkg/reconcile"

	smcv1alpha1 "github.com/octopilot/secretmanager-controller/api/v1alpha1"
	"github.com/octopilot/secretmanager-controller/internal/backoff"
	"github.com/octopilot/secretmanager-controller/internal/resolver"
	"github.com/octopilot/secretmanager-controller/pkg/conditions"
	smctypes "github.com/octopilot/secretmanager-controller/pkg/types"
)

// newReconciler builds a reconciler wired against the envtest client, mirroring
// the teacher's practice of sharing k8sClient across the suite and injecting
// only the pieces a given test cares about.
func newReconciler() *SecretManagerConfigReconciler {
	return &SecretManagerConfigReconciler{
		Client:            k8sClient,
		Scheme:            k8sClient.Scheme(),
		Recorder:          record.NewFakeRecorder(20),
		Resolver:          resolver.New(k8sClient, GinkgoT().TempDir()),
		Backoff:           backoff.NewRegistry(time.Minute, 5*time.Minute),
		SOPSKeySecretName: "sops-key",
		SOPSKeyNamespace:  "default",
	}
}

// minimalSpec is a spec that passes C1 validation but always fails artifact
// resolution, since no GitRepository with this name exists in the cluster.
func minimalSpec(name string) smcv1alpha1.SecretManagerConfigSpec {
	return smcv1alpha1.SecretManagerConfigSpec{
		SourceRef: smcv1alpha1.SourceRef{Kind: "GitRepository", Name: name},
		Provider: smcv1alpha1.ProviderConfig{
			GCP: &smcv1alpha1.GCPProviderConfig{ProjectID: "test-project-1", Location: "global"},
		},
		Secrets: smcv1alpha1.SecretsSpec{Environment: "dev"},
	}
}

func createSMC(name string, spec smcv1alpha1.SecretManagerConfigSpec) *smcv1alpha1.SecretManagerConfig {
	cr := &smcv1alpha1.SecretManagerConfig{
		ObjectMeta: metav1.ObjectMeta{Name: name, Namespace: "default"},
		Spec:       spec,
	}
	Expect(k8sClient.Create(ctx, cr)).To(Succeed())
	return cr
}

func deleteSMC(nn types.NamespacedName) {
	cr := &smcv1alpha1.SecretManagerConfig{}
	if err := k8sClient.Get(ctx, nn, cr); err == nil {
		controllerutil.RemoveFinalizer(cr, smctypes.Finalizer)
		_ = k8sClient.Update(ctx, cr)
		_ = k8sClient.Delete(ctx, cr)
	}
}

var _ = Describe("SecretManagerConfig Controller", func() {

	Context("Finalizer handling", func() {
		const name = "finalizer-case"
		nn := types.NamespacedName{Name: name, Namespace: "default"}

		AfterEach(func() { deleteSMC(nn) })

		It("adds the finalizer on the first reconcile without advancing the phase", func() {
			createSMC(name, minimalSpec("missing-repo"))
			r := newReconciler()

			_, err := r.Reconcile(ctx, reconcile.Request{NamespacedName: nn})
			Expect(err).NotTo(HaveOccurred())

			cr := &smcv1alpha1.SecretManagerConfig{}
			Expect(k8sClient.Get(ctx, nn, cr)).To(Succeed())
			Expect(controllerutil.ContainsFinalizer(cr, smctypes.Finalizer)).To(BeTrue())
			Expect(cr.Status.Phase).To(BeEmpty())
		})

		It("removes the finalizer on deletion and lets the object disappear", func() {
			createSMC(name, minimalSpec("missing-repo"))
			r := newReconciler()

			_, err := r.Reconcile(ctx, reconcile.Request{NamespacedName: nn})
			Expect(err).NotTo(HaveOccurred())

			Expect(k8sClient.Delete(ctx, &smcv1alpha1.SecretManagerConfig{ObjectMeta: metav1.ObjectMeta{Name: name, Namespace: "default"}})).To(Succeed())

			_, err = r.Reconcile(ctx, reconcile.Request{NamespacedName: nn})
			Expect(err).NotTo(HaveOccurred())

			Eventually(func() bool {
				err := k8sClient.Get(ctx, nn, &smcv1alpha1.SecretManagerConfig{})
				return apierrors.IsNotFound(err)
			}).Should(BeTrue())
		})
	})

	Context("Suspend short-circuit", func() {
		const name = "suspend-case"
		nn := types.NamespacedName{Name: name, Namespace: "default"}

		AfterEach(func() { deleteSMC(nn) })

		It("marks Ready=False/Suspended and never advances the phase", func() {
			spec := minimalSpec("missing-repo")
			spec.Suspend = true
			createSMC(name, spec)
			r := newReconciler()

			// Reconcile 1: add finalizer.
			_, err := r.Reconcile(ctx, reconcile.Request{NamespacedName: nn})
			Expect(err).NotTo(HaveOccurred())

			// Reconcile 2: suspend short-circuit.
			res, err := r.Reconcile(ctx, reconcile.Request{NamespacedName: nn})
			Expect(err).NotTo(HaveOccurred())
			Expect(res.RequeueAfter).To(BeZero())

			cr := &smcv1alpha1.SecretManagerConfig{}
			Expect(k8sClient.Get(ctx, nn, cr)).To(Succeed())
			Expect(cr.Status.Phase).To(BeEmpty())

			ready := findCondition(cr.Status.Conditions, conditions.TypeReady)
			Expect(ready).NotTo(BeNil())
			Expect(ready.Status).To(Equal(metav1.ConditionFalse))
			Expect(ready.Reason).To(Equal(conditions.ReasonSuspended))
		})
	})

	Context("Spec validation (C1)", func() {
		const name = "validation-case"
		nn := types.NamespacedName{Name: name, Namespace: "default"}

		AfterEach(func() { deleteSMC(nn) })

		It("fails the reconcile when no provider is set", func() {
			spec := minimalSpec("missing-repo")
			spec.Provider = smcv1alpha1.ProviderConfig{}
			createSMC(name, spec)
			r := newReconciler()

			_, err := r.Reconcile(ctx, reconcile.Request{NamespacedName: nn})
			Expect(err).NotTo(HaveOccurred())

			res, err := r.Reconcile(ctx, reconcile.Request{NamespacedName: nn})
			Expect(err).NotTo(HaveOccurred())
			Expect(res.RequeueAfter).To(BeZero())

			cr := &smcv1alpha1.SecretManagerConfig{}
			Expect(k8sClient.Get(ctx, nn, cr)).To(Succeed())
			Expect(cr.Status.Phase).To(Equal(smctypes.PhaseFailed))

			ready := findCondition(cr.Status.Conditions, conditions.TypeReady)
			Expect(ready).NotTo(BeNil())
			Expect(ready.Reason).To(Equal(conditions.ReasonValidationFailed))
		})
	})

	Context("Artifact resolution (C2)", func() {
		const name = "resolve-case"
		nn := types.NamespacedName{Name: name, Namespace: "default"}

		AfterEach(func() { deleteSMC(nn) })

		It("reports SourceNotFound and awaits a watch event rather than arming a timer", func() {
			createSMC(name, minimalSpec(fmt.Sprintf("no-such-repo-%s", name)))
			r := newReconciler()

			_, err := r.Reconcile(ctx, reconcile.Request{NamespacedName: nn})
			Expect(err).NotTo(HaveOccurred())

			res, err := r.Reconcile(ctx, reconcile.Request{NamespacedName: nn})
			Expect(err).NotTo(HaveOccurred())
			// SourceNotFound is an awaitChange kind (§4.7): no retry timer is
			// armed, the resource only moves again once the watch fan-out
			// (findSecretManagerConfigsForSource) sees the source appear.
			Expect(res.RequeueAfter).To(BeZero())

			cr := &smcv1alpha1.SecretManagerConfig{}
			Expect(k8sClient.Get(ctx, nn, cr)).To(Succeed())
			Expect(cr.Status.Phase).To(Equal(smctypes.PhasePending))

			resolved := findCondition(cr.Status.Conditions, conditions.TypeArtifactResolved)
			Expect(resolved).NotTo(BeNil())
			Expect(resolved.Reason).To(Equal(conditions.ReasonSourceNotFound))
		})
	})

	Context("SOPS key probe (C3)", func() {
		const name = "sops-probe-case"
		nn := types.NamespacedName{Name: name, Namespace: "default"}

		AfterEach(func() {
			deleteSMC(nn)
			_ = k8sClient.Delete(ctx, &corev1.Secret{ObjectMeta: metav1.ObjectMeta{Name: "sops-key", Namespace: "default"}})
		})

		It("mirrors key absence in status when the secret does not exist", func() {
			createSMC(name, minimalSpec(fmt.Sprintf("no-such-repo-%s", name)))
			r := newReconciler()

			_, err := r.Reconcile(ctx, reconcile.Request{NamespacedName: nn})
			Expect(err).NotTo(HaveOccurred())
			_, err = r.Reconcile(ctx, reconcile.Request{NamespacedName: nn})
			Expect(err).NotTo(HaveOccurred())

			cr := &smcv1alpha1.SecretManagerConfig{}
			Expect(k8sClient.Get(ctx, nn, cr)).To(Succeed())
			Expect(cr.Status.SopsKeyAvailable).To(BeFalse())
			Expect(cr.Status.SopsKeyLastChecked).NotTo(BeNil())
		})

		It("mirrors key presence in status once the secret is created", func() {
			secret := &corev1.Secret{
				ObjectMeta: metav1.ObjectMeta{Name: "sops-key", Namespace: "default"},
				Data:       map[string][]byte{"key.asc": []byte("fake-armored-key")},
			}
			Expect(k8sClient.Create(ctx, secret)).To(Succeed())

			createSMC(name, minimalSpec(fmt.Sprintf("no-such-repo-%s", name)))
			r := newReconciler()

			_, err := r.Reconcile(ctx, reconcile.Request{NamespacedName: nn})
			Expect(err).NotTo(HaveOccurred())
			_, err = r.Reconcile(ctx, reconcile.Request{NamespacedName: nn})
			Expect(err).NotTo(HaveOccurred())

			cr := &smcv1alpha1.SecretManagerConfig{}
			Expect(k8sClient.Get(ctx, nn, cr)).To(Succeed())
			Expect(cr.Status.SopsKeyAvailable).To(BeTrue())
		})
	})
})

func findCondition(conds []metav1.Condition, condType string) *metav1.Condition {
	for i := range conds {
		if conds[i].Type == condType {
			return &conds[i]
		}
	}
	return nil
}

