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
	// AnnotationPrefix is the base prefix for all secretmanager-controller annotations.
	AnnotationPrefix = "secrets.smc.io"

	// AnnotationReconcile triggers an out-of-schedule reconciliation when its value
	// changes. Conventionally a unix timestamp, but only inequality with the previous
	// value is checked.
	AnnotationReconcile = AnnotationPrefix + "/reconcile"

	// LabelCRName is used on owned resources to identify the parent SecretManagerConfig.
	LabelCRName = AnnotationPrefix + "/cr-name"

	// Finalizer is added to SecretManagerConfig CRs so deletion can release cache state
	// before the object is removed. It never cascades into provider storage.
	Finalizer = AnnotationPrefix + "/finalizer"
)
