package validation

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	awsParamPathRe = regexp.MustCompile(`^/[a-zA-Z0-9._-]+(/[a-zA-Z0-9._-]+)*$`)
	urlRe          = regexp.MustCompile(`^https?://[^\s/$.?#].[^\s]*$`)
)

// FilePath validates a relative or absolute path with no null bytes or
// control characters, used for basePath/kustomizePath fields.
func FilePath(path, field string) error {
	if path == "" {
		return invalid(field, "cannot be empty")
	}
	if len(path) > 4096 {
		return invalid(field, "exceeds maximum length of 4096 characters (got %d)", len(path))
	}
	if strings.ContainsRune(path, 0) {
		return invalid(field, "cannot contain null bytes")
	}
	for _, r := range path {
		if unicode.IsControl(r) {
			return invalid(field, "contains control characters")
		}
	}
	return nil
}

// AWSParameterPath validates an AWS Systems Manager Parameter Store path:
// must start with '/', each segment limited to [A-Za-z0-9._-]+.
func AWSParameterPath(path, field string) error {
	if path == "" {
		return invalid(field, "cannot be empty")
	}
	if !strings.HasPrefix(path, "/") {
		return invalid(field, "%q must start with '/' (e.g. '/my-service/dev')", path)
	}
	if !awsParamPathRe.MatchString(path) {
		return invalid(field, "%q is not a valid Parameter Store path (e.g. '/my-service/dev')", path)
	}
	return nil
}

// URL validates a bare http(s) URL, used for configs.appConfigEndpoint.
func URL(u, field string) error {
	if u == "" {
		return invalid(field, "cannot be empty")
	}
	if !urlRe.MatchString(u) {
		return invalid(field, "%q must be a valid URL starting with http:// or https://", u)
	}
	return nil
}
