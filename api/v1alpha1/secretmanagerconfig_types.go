package v1alpha1

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"

	smctypes "github.com/octopilot/secretmanager-controller/pkg/types"
)

// ============================================================
// Source reference
// ============================================================

// SourceRef identifies the GitOps object that owns a downloaded artifact for
// this resource.
type SourceRef struct {
	// kind is the GitOps source kind this reference points at.
	// +kubebuilder:validation:Enum=GitRepository;Application
	// +kubebuilder:validation:Required
	Kind string `json:"kind"`

	// name is the name of the source object.
	// +kubebuilder:validation:Required
	// +kubebuilder:validation:MinLength=1
	Name string `json:"name"`

	// namespace is the namespace of the source object. Defaults to this
	// resource's own namespace when empty.
	// +optional
	Namespace string `json:"namespace,omitempty"`
}

// ============================================================
// Provider (tagged union)
// ============================================================

// ProviderConfig selects exactly one target cloud provider. Dispatch on this
// value is exhaustive; an unset union is a validation error, never a
// silent no-op backend.
type ProviderConfig struct {
	// gcp targets GCP Secret Manager (for both secrets and configs).
	// +optional
	GCP *GCPProviderConfig `json:"gcp,omitempty"`

	// aws targets AWS Secrets Manager / SSM Parameter Store.
	// +optional
	AWS *AWSProviderConfig `json:"aws,omitempty"`

	// azure targets Azure Key Vault (for both secrets and configs).
	// +optional
	Azure *AzureProviderConfig `json:"azure,omitempty"`
}

// GCPProviderConfig configures the GCP backend.
type GCPProviderConfig struct {
	// projectId is the GCP project holding the Secret Manager / Parameter
	// Manager resources.
	// +kubebuilder:validation:Required
	ProjectID string `json:"projectId"`

	// location is the GCP region or "global" for Secret Manager's default location.
	// +kubebuilder:validation:Required
	Location string `json:"location"`

	// auth selects a non-default credential source. Omitted means application
	// default credentials (typically Workload Identity already bound to the pod).
	// +optional
	Auth *GCPAuthConfig `json:"auth,omitempty"`
}

// GCPAuthConfig carries the recommended identity-based auth method for GCP.
type GCPAuthConfig struct {
	// workloadIdentity pins the service account used for Workload Identity
	// Federation rather than relying on the pod's default binding.
	// +optional
	WorkloadIdentity *GCPWorkloadIdentityAuth `json:"workloadIdentity,omitempty"`
}

// GCPWorkloadIdentityAuth names the GCP service account to impersonate.
type GCPWorkloadIdentityAuth struct {
	ServiceAccountEmail string `json:"serviceAccountEmail"`
}

// AWSProviderConfig configures the AWS backend.
type AWSProviderConfig struct {
	// region is the AWS region for Secrets Manager / SSM Parameter Store calls.
	// +kubebuilder:validation:Required
	Region string `json:"region"`

	// auth selects a non-default credential source. Omitted means the
	// standard SDK credential chain (typically IRSA already bound to the pod).
	// +optional
	Auth *AWSAuthConfig `json:"auth,omitempty"`
}

// AWSAuthConfig carries the recommended identity-based auth method for AWS.
type AWSAuthConfig struct {
	// irsa pins the IAM role to assume via IAM Roles for Service Accounts.
	// +optional
	IRSA *AWSIRSAAuth `json:"irsa,omitempty"`
}

// AWSIRSAAuth names the IAM role ARN to assume.
type AWSIRSAAuth struct {
	RoleARN string `json:"roleArn"`
}

// AzureProviderConfig configures the Azure backend.
type AzureProviderConfig struct {
	// vaultName is the Key Vault name (3-24 characters); the backend reaches
	// the vault at https://<vaultName>.vault.azure.net/. A full vault URL is
	// rejected by validation, so vaults behind another DNS suffix are not
	// reachable.
	// +kubebuilder:validation:Required
	VaultName string `json:"vaultName"`

	// location is the Azure region. It is validated but not passed to the
	// backend.
	// +kubebuilder:validation:Required
	Location string `json:"location"`

	// auth selects a non-default credential source. Omitted means the
	// standard Azure Identity default credential chain (typically Workload
	// Identity already bound to the pod).
	// +optional
	Auth *AzureAuthConfig `json:"auth,omitempty"`
}

// AzureAuthConfig carries the recommended identity-based auth method for Azure.
type AzureAuthConfig struct {
	// workloadIdentity pins the client ID used for Workload Identity Federation.
	// +optional
	WorkloadIdentity *AzureWorkloadIdentityAuth `json:"workloadIdentity,omitempty"`
}

// AzureWorkloadIdentityAuth names the Azure AD application client ID.
type AzureWorkloadIdentityAuth struct {
	ClientID string `json:"clientId"`
}

// ============================================================
// Secrets / configs extraction routing
// ============================================================

// SecretsSpec controls how the content extractor (C4) locates and names
// secrets within the artifact tree.
type SecretsSpec struct {
	// environment selects the environment directory under the artifact root
	// (raw-file mode) and is also recorded as a label value passed to upsertSecret.
	// +kubebuilder:validation:Required
	Environment string `json:"environment"`

	// prefix is prepended to each key before sanitizing into a provider name.
	// +optional
	Prefix string `json:"prefix,omitempty"`

	// suffix is appended to each key before sanitizing into a provider name.
	// +optional
	Suffix string `json:"suffix,omitempty"`

	// kustomizePath switches extraction into Kustomize-build mode, using this
	// path (relative to the artifact root) as the kustomize working directory.
	// +optional
	KustomizePath string `json:"kustomizePath,omitempty"`

	// basePath overrides the artifact subtree used as the extraction root.
	// Defaults to the artifact root itself.
	// +optional
	BasePath string `json:"basePath,omitempty"`

	// excludePatterns are doublestar glob patterns matched against extracted
	// key names; matching secrets and properties are dropped before sync.
	// +optional
	ExcludePatterns []string `json:"excludePatterns,omitempty"`
}

// ConfigStoreKind selects which config-store surface to target on providers
// that expose more than one (GCP).
// +kubebuilder:validation:Enum=SecretManager;ParameterManager
type ConfigStoreKind string

const (
	ConfigStoreSecretManager    ConfigStoreKind = "SecretManager"
	ConfigStoreParameterManager ConfigStoreKind = "ParameterManager"
)

// ConfigsSpec routes non-secret configuration values to a provider's
// config-store surface: SSM Parameter Store on AWS, Secret Manager on GCP,
// and "cfg-"-prefixed Key Vault secrets on Azure.
type ConfigsSpec struct {
	// enabled turns on properties extraction and convergence.
	// +kubebuilder:default=false
	// +optional
	Enabled bool `json:"enabled,omitempty"`

	// store names GCP's config-store surface. The GCP backend records it but
	// sends configs to Secret Manager for either value; AWS/Azure ignore it.
	// +optional
	Store ConfigStoreKind `json:"store,omitempty"`

	// parameterPath is the AWS SSM Parameter Store path prefix, required
	// when provider.aws is set and configs.enabled is true.
	// +optional
	ParameterPath string `json:"parameterPath,omitempty"`

	// appConfigEndpoint is the Azure App Configuration store endpoint,
	// required when provider.azure is set and configs.enabled is true. The
	// Azure backend validates and records it but sends no request to it.
	// +optional
	AppConfigEndpoint string `json:"appConfigEndpoint,omitempty"`
}

// ============================================================
// Advisory substructures — recorded but never read by the core
// ============================================================

// NotificationsSpec is advisory metadata for an external notifier; the core
// never sends notifications itself.
// +optional
type NotificationsSpec struct {
	// +optional
	Raw *runtime.RawExtension `json:"raw,omitempty"`
}

// LoggingSpec is advisory metadata for an external log-shipping sidecar.
type LoggingSpec struct {
	// +optional
	Raw *runtime.RawExtension `json:"raw,omitempty"`
}

// OTelSpec is advisory metadata for an external tracing/metrics collector.
type OTelSpec struct {
	// +optional
	Raw *runtime.RawExtension `json:"raw,omitempty"`
}

// ============================================================
// Top-level spec
// ============================================================

// SecretManagerConfigSpec defines the desired state of SecretManagerConfig.
type SecretManagerConfigSpec struct {
	// sourceRef identifies the GitOps source object supplying the artifact.
	// +kubebuilder:validation:Required
	SourceRef SourceRef `json:"sourceRef"`

	// provider selects exactly one target cloud provider.
	// +kubebuilder:validation:Required
	Provider ProviderConfig `json:"provider"`

	// secrets controls secret extraction and naming.
	// +kubebuilder:validation:Required
	Secrets SecretsSpec `json:"secrets"`

	// configs optionally routes non-secret values to a config store.
	// +optional
	Configs *ConfigsSpec `json:"configs,omitempty"`

	// gitRepositoryPullInterval is a duration string (`<posInt>{s,m,h,d}`),
	// validated against a 5s minimum. The artifact resolver does not read it.
	// +kubebuilder:default="60s"
	// +optional
	GitRepositoryPullInterval string `json:"gitRepositoryPullInterval,omitempty"`

	// reconcileInterval is the steady-state requeue period after a successful
	// reconciliation. A duration string (`<posInt>{s,m,h,d}`).
	// +kubebuilder:default="5m"
	// +optional
	ReconcileInterval string `json:"reconcileInterval,omitempty"`

	// diffDiscovery reports provider drift when triggerUpdate is false.
	// +kubebuilder:default=true
	// +optional
	DiffDiscovery *bool `json:"diffDiscovery,omitempty"`

	// triggerUpdate, when true, writes converged values to the provider.
	// When false, the sync planner only observes and reports drift.
	// +kubebuilder:default=true
	// +optional
	TriggerUpdate *bool `json:"triggerUpdate,omitempty"`

	// suspend halts reconciliation entirely; the phase does not advance and
	// no requeue is scheduled while it holds.
	// +kubebuilder:default=false
	// +optional
	Suspend bool `json:"suspend,omitempty"`

	// suspendGitPulls halts the artifact resolver's refresh of a GitRepository
	// source while still allowing convergence against the last-resolved artifact.
	// +kubebuilder:default=false
	// +optional
	SuspendGitPulls bool `json:"suspendGitPulls,omitempty"`

	// notifications is advisory and does not influence convergence.
	// +optional
	Notifications *NotificationsSpec `json:"notifications,omitempty"`

	// logging is advisory and does not influence convergence.
	// +optional
	Logging *LoggingSpec `json:"logging,omitempty"`

	// hotReload is advisory; the core does not implement config hot-reload.
	// +optional
	HotReload *bool `json:"hotReload,omitempty"`

	// otel is advisory and does not influence convergence.
	// +optional
	OTel *OTelSpec `json:"otel,omitempty"`
}

// ============================================================
// Status
// ============================================================

// SyncStatus carries the per-resource-name sync observation history used to
// decide disable/enable/create transitions on the next reconcile.
type SyncStatus struct {
	// +optional
	Secrets map[string]smctypes.SyncEntry `json:"secrets,omitempty"`

	// +optional
	Properties map[string]smctypes.SyncEntry `json:"properties,omitempty"`
}

// SecretManagerConfigStatus defines the observed state of SecretManagerConfig.
type SecretManagerConfigStatus struct {
	// phase summarizes where this resource is in the reconcile state machine.
	// +kubebuilder:validation:Enum=Pending;Started;Cloning;Updating;Failed;PartialFailure;Ready
	// +optional
	Phase string `json:"phase,omitempty"`

	// description is a short human-readable summary of the current phase,
	// paired with the Ready condition's message.
	// +optional
	Description string `json:"description,omitempty"`

	// observedGeneration is set to spec.generation only on Ready or PartialFailure.
	// +optional
	ObservedGeneration int64 `json:"observedGeneration,omitempty"`

	// lastReconcileTime is when the most recent reconciliation completed.
	// +optional
	LastReconcileTime *metav1.Time `json:"lastReconcileTime,omitempty"`

	// nextReconcileTime is the scheduled time of the next reconciliation, or
	// unset when the controller is waiting on an external change.
	// +optional
	NextReconcileTime *metav1.Time `json:"nextReconcileTime,omitempty"`

	// secretsSynced counts sync.secrets entries with exists=true.
	// +optional
	SecretsSynced int32 `json:"secretsSynced,omitempty"`

	// conditions represent the current state of this resource. Ready is the
	// summary condition.
	// +listType=map
	// +listMapKey=type
	// +optional
	Conditions []metav1.Condition `json:"conditions,omitempty"`

	// sync holds the per-resource-name observation history.
	// +optional
	Sync SyncStatus `json:"sync,omitzero"`

	// decryptionStatus mirrors the outcome of the most recent SOPS decryption attempt.
	// +kubebuilder:validation:Enum=Success;TransientFailure;PermanentFailure;NotApplicable
	// +optional
	DecryptionStatus string `json:"decryptionStatus,omitempty"`

	// decryptionTimestamp is when decryptionStatus was last updated.
	// +optional
	DecryptionTimestamp *metav1.Time `json:"decryptionTimestamp,omitempty"`

	// decryptionLastError is the last SOPS decryption error message, if any.
	// +optional
	DecryptionLastError string `json:"decryptionLastError,omitempty"`

	// sopsKeyAvailable mirrors the process-wide SOPS key probe for this
	// resource's namespace.
	// +optional
	SopsKeyAvailable bool `json:"sopsKeyAvailable,omitempty"`

	// sopsKeySecretName is the name of the cluster-scoped SOPS key secret consulted.
	// +optional
	SopsKeySecretName string `json:"sopsKeySecretName,omitempty"`

	// sopsKeyNamespace is the namespace of the cluster-scoped SOPS key secret consulted.
	// +optional
	SopsKeyNamespace string `json:"sopsKeyNamespace,omitempty"`

	// sopsKeyLastChecked is when the SOPS key probe last ran.
	// +optional
	SopsKeyLastChecked *metav1.Time `json:"sopsKeyLastChecked,omitempty"`
}

// ============================================================
// Root objects
// ============================================================

// +kubebuilder:object:root=true
// +kubebuilder:subresource:status
// +kubebuilder:storageversion
// +kubebuilder:resource:shortName=smc
// +kubebuilder:printcolumn:name="Phase",type="string",JSONPath=`.status.phase`
// +kubebuilder:printcolumn:name="Description",type="string",JSONPath=`.status.description`
// +kubebuilder:printcolumn:name="Ready",type="string",JSONPath=`.status.conditions[?(@.type=="Ready")].status`
// +kubebuilder:printcolumn:name="Age",type="date",JSONPath=`.metadata.creationTimestamp`

// SecretManagerConfig is the Schema for the secretmanagerconfigs API.
type SecretManagerConfig struct {
	metav1.TypeMeta `json:",inline"`

	// +optional
	metav1.ObjectMeta `json:"metadata,omitzero"`

	// spec defines the desired state of SecretManagerConfig.
	// +required
	Spec SecretManagerConfigSpec `json:"spec"`

	// status defines the observed state of SecretManagerConfig.
	// +optional
	Status SecretManagerConfigStatus `json:"status,omitzero"`
}

// +kubebuilder:object:root=true

// SecretManagerConfigList contains a list of SecretManagerConfig.
type SecretManagerConfigList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitzero"`
	Items           []SecretManagerConfig `json:"items"`
}

func init() {
	SchemeBuilder.Register(&SecretManagerConfig{}, &SecretManagerConfigList{})
}
