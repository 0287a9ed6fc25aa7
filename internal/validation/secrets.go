package validation

import "regexp"

var secretNameComponentRe = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// SecretNameComponent validates a prefix or suffix fragment used when
// constructing a provider secret name (§4.4): alphanumeric, hyphens and
// underscores only, 1-255 characters.
func SecretNameComponent(component, field string) error {
	if component == "" {
		return invalid(field, "cannot be empty")
	}
	if len(component) > 255 {
		return invalid(field, "exceeds maximum length of 255 characters (got %d)", len(component))
	}
	if !secretNameComponentRe.MatchString(component) {
		return invalid(field, "%q must contain only alphanumeric characters, hyphens, and underscores", component)
	}
	return nil
}
