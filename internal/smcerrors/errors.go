// Package smcerrors defines the error taxonomy that crosses component
// boundaries in the secret-manager controller. Leaf-level helpers keep using
// plain fmt.Errorf wrapping; only the functions a reconciler calls directly
// return *Error so classification never has to be re-derived from a message.
package smcerrors

import "errors"

// Kind classifies an Error per the controller's error taxonomy. Each value
// carries its own retry/backoff behavior in the reconciler; see Transient,
// Permanent and AwaitChange for how a Kind maps to that behavior.
type Kind string

const (
	KindValidation           Kind = "Validation"
	KindSourceNotFound       Kind = "SourceNotFound"
	KindArtifactMissing      Kind = "ArtifactMissing"
	KindArtifactCorrupt      Kind = "ArtifactCorrupt"
	KindSopsKeyMissing       Kind = "SopsKeyMissing"
	KindSopsPermanent        Kind = "SopsPermanent"
	KindSopsTransient        Kind = "SopsTransient"
	KindKustomizeBuildFail   Kind = "KustomizeBuildFail"
	KindProviderPermission   Kind = "ProviderPermission"
	KindProviderRateLimit    Kind = "ProviderRateLimit"
	KindProviderOversize     Kind = "ProviderOversize"
	KindProviderOther        Kind = "ProviderOther"
	KindPartialServiceFailure Kind = "PartialServiceFailure"
	KindStatusWriteConflict  Kind = "StatusWriteConflict"
)

// Error is the typed error every component-boundary function returns.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Transient marks a failure whose retry should go through the backoff
// registry (ArtifactMissing, SopsTransient, ProviderRateLimit, ...).
func Transient(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// Permanent marks a failure that will not resolve on its own (Validation,
// ArtifactCorrupt, ProviderOversize, ...); no retry timer is armed for it.
func Permanent(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// AwaitChange marks a failure that only resolves when an external watch
// fires (SourceNotFound, SopsKeyMissing); the reconciler schedules no timer.
func AwaitChange(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// IsTransient reports whether kind belongs to the transient-with-backoff set.
func IsTransient(kind Kind) bool {
	switch kind {
	case KindArtifactMissing, KindSopsTransient, KindProviderPermission,
		KindProviderRateLimit, KindProviderOther, KindPartialServiceFailure,
		KindStatusWriteConflict:
		return true
	default:
		return false
	}
}

// IsAwaitChange reports whether kind only resolves via an external watch
// event, meaning the reconciler must not arm a retry timer for it.
func IsAwaitChange(kind Kind) bool {
	switch kind {
	case KindSourceNotFound, KindSopsKeyMissing:
		return true
	default:
		return false
	}
}

// As is a thin re-export of errors.As so callers that only import smcerrors
// don't also need to import errors for the common case.
func As(err error, target **Error) bool {
	return errors.As(err, target)
}
