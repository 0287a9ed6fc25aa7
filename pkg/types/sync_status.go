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

package types

const (
	// Phase values for SecretManagerConfig status.phase.
	PhasePending        = "Pending"
	PhaseStarted        = "Started"
	PhaseCloning        = "Cloning"
	PhaseUpdating       = "Updating"
	PhaseFailed         = "Failed"
	PhasePartialFailure = "PartialFailure"
	PhaseReady          = "Ready"
)

const (
	// Decryption status values for SecretManagerConfig status.decryptionStatus.
	DecryptionSuccess          = "Success"
	DecryptionTransientFailure = "TransientFailure"
	DecryptionPermanentFailure = "PermanentFailure"
	DecryptionNotApplicable    = "NotApplicable"
)

// SyncEntry is the value type of status.sync.secrets and status.sync.properties,
// keyed by provider-normalized resource name.
type SyncEntry struct {
	// Exists is true once a successful create or put has been observed for this name.
	Exists bool `json:"exists"`

	// UpdateCount increases strictly monotonically, only when an applied write
	// changed the value. Redundant upserts do not increment it.
	UpdateCount int64 `json:"updateCount"`
}
