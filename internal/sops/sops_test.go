package sops

import "testing"

func TestLooksEncrypted(t *testing.T) {
	cases := map[string]bool{
		"plain text value":               false,
		"sops:\n  kms: []\n":              true,
		"password: ENC[AES256_GCM,...]\n": true,
		"":                                false,
	}
	for input, want := range cases {
		if got := looksEncrypted([]byte(input)); got != want {
			t.Errorf("looksEncrypted(%q) = %v, want %v", input, got, want)
		}
	}
}

func TestClassifyPrefersMessageWhenNoExitError(t *testing.T) {
	cases := map[string]FailureClass{
		"Error: could not find a key to decrypt":      ClassKeyNotFound,
		"Error: no secret key":                        ClassWrongKey,
		"Error: invalid key format provided":           ClassInvalidKeyFormat,
		"Error: unexpected end of YAML input, corrupt": ClassCorruptedFile,
		"dial tcp: i/o timeout":                        ClassNetworkTimeout,
		"rpc error: kms unavailable":                   ClassProviderUnavailable,
		"AccessDenied: permission denied":              ClassPermissionDenied,
		"something unexpected happened":                ClassUnknown,
	}
	for stderr, want := range cases {
		if got := classify(nil, stderr); got != want {
			t.Errorf("classify(%q) = %v, want %v", stderr, got, want)
		}
	}
}

func TestClassifiedErrorPermanentVsTransient(t *testing.T) {
	permanent := classifiedError(ClassCorruptedFile, "corrupt", nil)
	if permanent.Kind != "SopsPermanent" {
		t.Errorf("expected SopsPermanent kind, got %v", permanent.Kind)
	}

	transient := classifiedError(ClassNetworkTimeout, "timeout", nil)
	if transient.Kind != "SopsTransient" {
		t.Errorf("expected SopsTransient kind, got %v", transient.Kind)
	}

	keyMissing := classifiedError(ClassKeyNotFound, "no key", nil)
	if keyMissing.Kind != "SopsKeyMissing" {
		t.Errorf("expected SopsKeyMissing kind, got %v", keyMissing.Kind)
	}
}
