package validation

import "testing"

func TestAWSRegion(t *testing.T) {
	ok := []string{"us-east-1", "eu-west-1", "us-gov-west-1", "us-iso-east-1", "cn-north-1", "local"}
	for _, r := range ok {
		if err := AWSRegion(r); err != nil {
			t.Errorf("AWSRegion(%q): unexpected error: %v", r, err)
		}
	}

	bad := []string{"", "useast1", "US-EAST-1X", "not-a-region"}
	for _, r := range bad {
		if err := AWSRegion(r); err == nil {
			t.Errorf("AWSRegion(%q): expected error, got nil", r)
		}
	}
}

func TestAWSRegionCaseInsensitive(t *testing.T) {
	if err := AWSRegion("US-EAST-1"); err != nil {
		t.Errorf("AWSRegion should be case-insensitive: %v", err)
	}
}
