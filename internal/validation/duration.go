package validation

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var kubernetesDurationRe = regexp.MustCompile(`^(\d+)([smhd])$`)

// ParseKubernetesDuration parses "<number><unit>" where unit is one of
// s, m, h, d (case-insensitive). There is no default unit: a bare number is
// rejected.
func ParseKubernetesDuration(s string) (time.Duration, error) {
	trimmed := strings.ToLower(strings.TrimSpace(s))
	if trimmed == "" {
		return 0, invalid("duration", "cannot be empty")
	}

	m := kubernetesDurationRe.FindStringSubmatch(trimmed)
	if m == nil {
		return 0, invalid("duration", "invalid format %q, expected <number><unit> (e.g. '1m', '5m', '1h')", s)
	}

	n, err := strconv.ParseUint(m[1], 10, 64)
	if err != nil {
		return 0, invalid("duration", "invalid number in %q: %v", s, err)
	}
	if n == 0 {
		return 0, invalid("duration", "number must be greater than 0, got %q", s)
	}

	var unit time.Duration
	switch m[2] {
	case "s":
		unit = time.Second
	case "m":
		unit = time.Minute
	case "h":
		unit = time.Hour
	case "d":
		unit = 24 * time.Hour
	}
	return time.Duration(n) * unit, nil
}

// DurationInterval validates that interval parses as a Kubernetes duration
// and meets the given field's minimum.
func DurationInterval(interval, field string, min time.Duration) error {
	trimmed := strings.TrimSpace(interval)
	if trimmed == "" {
		return invalid(field, "cannot be empty")
	}
	d, err := ParseKubernetesDuration(trimmed)
	if err != nil {
		return err
	}
	if d < min {
		return invalid(field, "%q must be at least %s (got %s)", trimmed, min, d)
	}
	return nil
}
