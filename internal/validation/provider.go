package validation

import (
	"regexp"
	"strings"

	smcv1alpha1 "github.com/octopilot/secretmanager-controller/api/v1alpha1"
)

var (
	gcpProjectIDRe  = regexp.MustCompile(`^[a-z][a-z0-9-]{4,28}[a-z0-9]$`)
	gcpLocationRe   = regexp.MustCompile(`^[a-z]+-[a-z]+[0-9]+$|^global$`)
	azureVaultNameRe = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9-]{1,22}[a-zA-Z0-9]$`)
	azureLocationRe  = regexp.MustCompile(`^[a-z]+[0-9]*$`)

	awsRegionStandard = regexp.MustCompile(`^[a-z]{2}-[a-z]+-\d+$`)
	awsRegionGov      = regexp.MustCompile(`^[a-z]{2}-gov-[a-z]+-\d+$`)
	awsRegionISO      = regexp.MustCompile(`^[a-z]{2}-iso-[a-z]+-\d+$`)
	awsRegionChina    = regexp.MustCompile(`^cn-[a-z]+-\d+$`)
)

// ProviderConfig validates exactly one of provider.{gcp,aws,azure} per the
// tagged-union dispatch rule: unset or multiply-set unions are validation
// errors (§4.1 step 1).
func ProviderConfig(p *smcv1alpha1.ProviderConfig) error {
	set := 0
	for _, isSet := range []bool{p.GCP != nil, p.AWS != nil, p.Azure != nil} {
		if isSet {
			set++
		}
	}
	if set > 1 {
		return invalid("provider", "exactly one of gcp, aws, or azure must be set")
	}
	switch {
	case p.GCP != nil:
		return gcpProviderConfig(p.GCP)
	case p.AWS != nil:
		return awsProviderConfig(p.AWS)
	case p.Azure != nil:
		return azureProviderConfig(p.Azure)
	default:
		return invalid("provider", "exactly one of gcp, aws, or azure must be set")
	}
}

func gcpProviderConfig(gcp *smcv1alpha1.GCPProviderConfig) error {
	if gcp.ProjectID == "" {
		return invalid("provider.gcp.projectId", "is required but is empty")
	}
	if !gcpProjectIDRe.MatchString(gcp.ProjectID) {
		return invalid("provider.gcp.projectId", "%q must be a valid GCP project ID (6-30 characters, lowercase letters/numbers/hyphens, must start with a letter, cannot end with a hyphen)", gcp.ProjectID)
	}
	if gcp.Location == "" {
		return invalid("provider.gcp.location", "is required but is empty")
	}
	if !gcpLocationRe.MatchString(gcp.Location) {
		return invalid("provider.gcp.location", "%q must be a valid GCP region or 'global'", gcp.Location)
	}
	return nil
}

func awsProviderConfig(aws *smcv1alpha1.AWSProviderConfig) error {
	if aws.Region == "" {
		return invalid("provider.aws.region", "is required but is empty")
	}
	return AWSRegion(aws.Region)
}

// AWSRegion validates an AWS region code across the standard, GovCloud, ISO
// and China partitions, plus the "local" pseudo-region used by localstack.
func AWSRegion(region string) error {
	r := strings.ToLower(strings.TrimSpace(region))
	if r == "" {
		return invalid("provider.aws.region", "cannot be empty")
	}
	if r == "local" || awsRegionStandard.MatchString(r) || awsRegionGov.MatchString(r) ||
		awsRegionISO.MatchString(r) || awsRegionChina.MatchString(r) {
		return nil
	}
	return invalid("provider.aws.region", "%q must be a valid AWS region code (e.g. 'us-east-1', 'us-gov-west-1', 'cn-north-1')", region)
}

func azureProviderConfig(azure *smcv1alpha1.AzureProviderConfig) error {
	if azure.VaultName == "" {
		return invalid("provider.azure.vaultName", "is required but is empty")
	}
	if !azureVaultNameRe.MatchString(azure.VaultName) {
		return invalid("provider.azure.vaultName", "%q must be a valid Key Vault name (3-24 characters, alphanumeric/hyphens, must start with a letter, cannot end with a hyphen)", azure.VaultName)
	}
	if strings.Contains(azure.VaultName, "--") {
		return invalid("provider.azure.vaultName", "%q cannot contain consecutive hyphens", azure.VaultName)
	}
	if azure.Location == "" {
		return invalid("provider.azure.location", "is required but is empty")
	}
	if !azureLocationRe.MatchString(azure.Location) {
		return invalid("provider.azure.location", "%q must be a valid Azure region", azure.Location)
	}
	return nil
}
