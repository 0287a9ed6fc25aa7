package provider

import (
	"context"

	smcv1alpha1 "github.com/octopilot/secretmanager-controller/api/v1alpha1"
	"github.com/octopilot/secretmanager-controller/internal/smcerrors"
)

// New dispatches on spec's tagged union to build the one backend it selects,
// mirroring validation.ProviderConfig's exhaustive switch (§4.1 step 1) so
// the reconciler never needs its own provider type switch downstream.
func New(ctx context.Context, spec *smcv1alpha1.ProviderConfig, configs *smcv1alpha1.ConfigsSpec) (Backend, error) {
	switch {
	case spec.GCP != nil:
		store := string(smcv1alpha1.ConfigStoreSecretManager)
		if configs != nil && configs.Store != "" {
			store = string(configs.Store)
		}
		return NewGCPBackend(ctx, spec.GCP.ProjectID, spec.GCP.Location, store)
	case spec.AWS != nil:
		var parameterPath string
		if configs != nil {
			parameterPath = configs.ParameterPath
		}
		return NewAWSBackend(ctx, spec.AWS.Region, parameterPath)
	case spec.Azure != nil:
		var appConfigEndpoint string
		if configs != nil {
			appConfigEndpoint = configs.AppConfigEndpoint
		}
		return NewAzureBackend(spec.Azure.VaultName, appConfigEndpoint)
	default:
		return nil, smcerrors.Permanent(smcerrors.KindValidation, "provider: exactly one of gcp, aws, or azure must be set", nil)
	}
}
