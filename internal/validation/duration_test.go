package validation

import (
	"testing"
	"time"
)

func TestParseKubernetesDuration(t *testing.T) {
	ok := map[string]time.Duration{
		"30s": 30 * time.Second,
		"1m":  time.Minute,
		"5M":  5 * time.Minute,
		"2h":  2 * time.Hour,
		"1d":  24 * time.Hour,
	}
	for in, want := range ok {
		got, err := ParseKubernetesDuration(in)
		if err != nil {
			t.Errorf("ParseKubernetesDuration(%q) unexpected error: %v", in, err)
			continue
		}
		if got != want {
			t.Errorf("ParseKubernetesDuration(%q) = %v, want %v", in, got, want)
		}
	}

	bad := []string{"", "0s", "5", "5x", "m5", "-5m"}
	for _, in := range bad {
		if _, err := ParseKubernetesDuration(in); err == nil {
			t.Errorf("ParseKubernetesDuration(%q): expected error, got nil", in)
		}
	}
}

func TestDurationInterval(t *testing.T) {
	if err := DurationInterval("5m", "reconcileInterval", 10*time.Second); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := DurationInterval("5s", "reconcileInterval", 10*time.Second); err == nil {
		t.Error("expected error for interval below minimum")
	}
}
