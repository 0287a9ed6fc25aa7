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

package conditions

// Condition types for SecretManagerConfig status.conditions[].type
const (
	// TypeReady is the summary condition: spec valid, artifact resolved, converge succeeded.
	TypeReady = "Ready"

	// TypeArtifactResolved indicates whether the GitOps source artifact was located and unpacked.
	TypeArtifactResolved = "ArtifactResolved"

	// TypeSopsKeyAvailable mirrors the probe of the cluster-scoped SOPS key secret.
	TypeSopsKeyAvailable = "SopsKeyAvailable"

	// TypeSynced indicates whether the last converge pass wrote all services without error.
	TypeSynced = "Synced"
)

// Condition reasons for SecretManagerConfig status.conditions[].reason
const (
	ReasonReconciling         = "Reconciling"
	ReasonArtifactResolved    = "ArtifactResolved"
	ReasonSourceNotFound      = "SourceNotFound"
	ReasonArtifactMissing     = "ArtifactMissing"
	ReasonArtifactCorrupt     = "ArtifactCorrupt"
	ReasonSopsKeyMissing      = "SopsKeyMissing"
	ReasonSopsKeyAvailable    = "SopsKeyAvailable"
	ReasonSopsFailed          = "SopsFailed"
	ReasonValidationFailed    = "ValidationFailed"
	ReasonSyncSucceeded       = "SyncSucceeded"
	ReasonSyncPartialFailure  = "SyncPartialFailure"
	ReasonSyncFailed          = "SyncFailed"
	ReasonSuspended           = "Suspended"
)
