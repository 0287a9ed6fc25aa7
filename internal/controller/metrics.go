package controller

import (
	"github.com/prometheus/client_golang/prometheus"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"sigs.k8s.io/controller-runtime/pkg/metrics"

	"github.com/octopilot/secretmanager-controller/pkg/conditions"
)

var (
	reconcileDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "smc",
			Subsystem: "controller",
			Name:      "reconcile_duration_seconds",
			Help:      "Duration of SecretManagerConfig reconciliation in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"name", "namespace"},
	)

	reconcileTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "smc",
			Subsystem: "controller",
			Name:      "reconcile_total",
			Help:      "Total number of SecretManagerConfig reconciliations, by outcome.",
		},
		[]string{"name", "namespace", "result"},
	)

	artifactResolveDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "smc",
			Subsystem: "controller",
			Name:      "artifact_resolve_duration_seconds",
			Help:      "Duration of artifact resolution (C2) in seconds.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"name", "namespace"},
	)

	secretsSynced = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "smc",
			Subsystem: "controller",
			Name:      "secrets_synced",
			Help:      "Number of sync.secrets entries with exists=true.",
		},
		[]string{"name", "namespace"},
	)

	propertiesSynced = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "smc",
			Subsystem: "controller",
			Name:      "properties_synced",
			Help:      "Number of sync.properties entries with exists=true.",
		},
		[]string{"name", "namespace"},
	)

	crReady = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "smc",
			Subsystem: "controller",
			Name:      "cr_ready",
			Help:      "Whether the SecretManagerConfig CR is Ready (1=ready, 0=not ready).",
		},
		[]string{"name", "namespace"},
	)

	crSuspended = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "smc",
			Subsystem: "controller",
			Name:      "cr_suspended",
			Help:      "Whether the SecretManagerConfig CR is suspended (1=suspended, 0=active).",
		},
		[]string{"name", "namespace"},
	)

	sopsKeyAvailable = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "smc",
			Subsystem: "controller",
			Name:      "sops_key_available",
			Help:      "Whether the cluster-scoped SOPS key secret was found on the last probe.",
		},
		[]string{"name", "namespace"},
	)

	conditionStatus = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "smc",
			Subsystem: "controller",
			Name:      "condition_status",
			Help:      "Status of each condition type on the SecretManagerConfig CR (1=True, 0=False).",
		},
		[]string{"name", "namespace", "type"},
	)

	driftDetected = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "smc",
			Subsystem: "controller",
			Name:      "drift_detected",
			Help:      "Number of names reported as drifted by the last diffDiscovery pass.",
		},
		[]string{"name", "namespace"},
	)
)

func init() {
	metrics.Registry.MustRegister(
		reconcileDuration,
		reconcileTotal,
		artifactResolveDuration,
		secretsSynced,
		propertiesSynced,
		crReady,
		crSuspended,
		sopsKeyAvailable,
		conditionStatus,
		driftDetected,
	)
}

// observeStatusMetrics updates the gauge metrics from a freshly patched status.
func observeStatusMetrics(name, namespace string, status *smcStatusView) {
	secretsSynced.WithLabelValues(name, namespace).Set(float64(status.secretsExists))
	propertiesSynced.WithLabelValues(name, namespace).Set(float64(status.propertiesExists))
	driftDetected.WithLabelValues(name, namespace).Set(float64(status.drift))

	readyVal := 0.0
	for _, c := range status.conditions {
		val := 0.0
		if c.Status == metav1.ConditionTrue {
			val = 1.0
		}
		conditionStatus.WithLabelValues(name, namespace, c.Type).Set(val)
		if c.Type == conditions.TypeReady && c.Status == metav1.ConditionTrue {
			readyVal = 1.0
		}
	}
	crReady.WithLabelValues(name, namespace).Set(readyVal)
}

// smcStatusView carries the handful of status fields metrics needs, avoiding
// a direct dependency on api/v1alpha1 from this file.
type smcStatusView struct {
	conditions       []metav1.Condition
	secretsExists    int
	propertiesExists int
	drift            int
}

// cleanupCRMetrics removes all metric series associated with a CR being deleted.
func cleanupCRMetrics(name, namespace string) {
	labels := prometheus.Labels{"name": name, "namespace": namespace}
	reconcileDuration.DeletePartialMatch(labels)
	reconcileTotal.DeletePartialMatch(labels)
	artifactResolveDuration.DeletePartialMatch(labels)
	secretsSynced.DeletePartialMatch(labels)
	propertiesSynced.DeletePartialMatch(labels)
	crReady.DeletePartialMatch(labels)
	crSuspended.DeletePartialMatch(labels)
	sopsKeyAvailable.DeletePartialMatch(labels)
	conditionStatus.DeletePartialMatch(labels)
	driftDetected.DeletePartialMatch(labels)
}
