// Package validation implements the field-level checks a SecretManagerConfig
// must pass before the reconciler attempts any provider call (component C1).
package validation

import (
	"fmt"
	"regexp"

	"github.com/octopilot/secretmanager-controller/internal/smcerrors"
)

var (
	k8sNameRe      = regexp.MustCompile(`^[a-z0-9]([-a-z0-9]*[a-z0-9])?(\.[a-z0-9]([-a-z0-9]*[a-z0-9])?)*$`)
	k8sNamespaceRe = regexp.MustCompile(`^[a-z0-9]([-a-z0-9]*[a-z0-9])?$`)
	k8sLabelRe     = regexp.MustCompile(`^[a-z0-9]([-a-z0-9_.]*[a-z0-9])?$`)
)

func invalid(field, format string, args ...any) *smcerrors.Error {
	return smcerrors.Permanent(smcerrors.KindValidation, fmt.Sprintf("%s: %s", field, fmt.Sprintf(format, args...)), nil)
}

// SourceRefKind validates sourceRef.kind: only GitRepository and Application
// are recognized source kinds (case-sensitive, per §3).
func SourceRefKind(kind string) error {
	switch kind {
	case "GitRepository", "Application":
		return nil
	default:
		return invalid("sourceRef.kind", "must be 'GitRepository' or 'Application', got %q", kind)
	}
}

// KubernetesName validates an RFC 1123 subdomain: lowercase alphanumeric,
// hyphens and dots, 1-253 characters, no leading/trailing hyphen or dot.
func KubernetesName(name, field string) error {
	if name == "" {
		return invalid(field, "cannot be empty")
	}
	if len(name) > 253 {
		return invalid(field, "exceeds maximum length of 253 characters (got %d)", len(name))
	}
	if !k8sNameRe.MatchString(name) {
		return invalid(field, "must be a valid Kubernetes name (lowercase alphanumeric, hyphens, dots; cannot start/end with hyphen or dot), got %q", name)
	}
	return nil
}

// KubernetesNamespace validates an RFC 1123 label: lowercase alphanumeric and
// hyphens, 1-63 characters, no leading/trailing hyphen.
func KubernetesNamespace(namespace string) error {
	if namespace == "" {
		return invalid("sourceRef.namespace", "cannot be empty")
	}
	if len(namespace) > 63 {
		return invalid("sourceRef.namespace", "exceeds maximum length of 63 characters (got %d)", len(namespace))
	}
	if !k8sNamespaceRe.MatchString(namespace) {
		return invalid("sourceRef.namespace", "must be a valid Kubernetes namespace (lowercase alphanumeric, hyphens; cannot start/end with hyphen), got %q", namespace)
	}
	return nil
}

// KubernetesLabel validates a label value: lowercase alphanumeric, hyphens,
// dots and underscores, 1-63 characters, no leading/trailing dot.
func KubernetesLabel(label, field string) error {
	if label == "" {
		return invalid(field, "cannot be empty")
	}
	if len(label) > 63 {
		return invalid(field, "exceeds maximum length of 63 characters (got %d)", len(label))
	}
	if !k8sLabelRe.MatchString(label) {
		return invalid(field, "must be a valid Kubernetes label (lowercase alphanumeric, hyphens, dots, underscores; cannot start/end with dot), got %q", label)
	}
	return nil
}
