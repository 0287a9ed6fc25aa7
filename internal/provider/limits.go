package provider

import (
	"encoding/base64"
	"fmt"

	"github.com/octopilot/secretmanager-controller/internal/smcerrors"
)

// Size ceilings for a single secret value, per vendor documentation.
const (
	GCPSecretSizeLimit   = 64 * 1024
	AWSSecretSizeLimit   = 64 * 1024
	AzureSecretSizeLimit = 25 * 1024
)

// CheckGCPSecretSize validates a base64-encoded payload against GCP's 64 KiB
// ceiling on the decoded value.
func CheckGCPSecretSize(base64Value string) error {
	decoded, err := base64.StdEncoding.DecodeString(base64Value)
	if err != nil {
		return smcerrors.Permanent(smcerrors.KindValidation, fmt.Sprintf("invalid base64 payload: %v", err), err)
	}
	if len(decoded) > GCPSecretSizeLimit {
		return smcerrors.Permanent(smcerrors.KindProviderOversize,
			fmt.Sprintf("secret size %d bytes exceeds GCP limit of %d bytes (64KiB)", len(decoded), GCPSecretSizeLimit), nil)
	}
	return nil
}

// CheckAWSSecretSize validates a raw (non-encoded) value against AWS's 64 KiB
// ceiling.
func CheckAWSSecretSize(value string) error {
	if n := len(value); n > AWSSecretSizeLimit {
		return smcerrors.Permanent(smcerrors.KindProviderOversize,
			fmt.Sprintf("secret size %d bytes exceeds AWS limit of %d bytes (64KiB)", n, AWSSecretSizeLimit), nil)
	}
	return nil
}

// CheckAzureSecretSize validates a raw value against Azure's 25 KiB ceiling.
func CheckAzureSecretSize(value string) error {
	if n := len(value); n > AzureSecretSizeLimit {
		return smcerrors.Permanent(smcerrors.KindProviderOversize,
			fmt.Sprintf("secret size %d bytes exceeds Azure limit of %d bytes (25KiB)", n, AzureSecretSizeLimit), nil)
	}
	return nil
}
