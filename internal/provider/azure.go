package provider

import (
	"context"
	"errors"
	"fmt"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/security/keyvault/azsecrets"

	"github.com/octopilot/secretmanager-controller/internal/provider/pact"
	"github.com/octopilot/secretmanager-controller/internal/smcerrors"
)

// AzureBackend targets Azure Key Vault Secrets for the secrets surface. The
// configs surface is stored in the same vault, as secrets whose names carry a
// "cfg-" prefix. Azure App Configuration is never called: appConfigEndpoint
// is recorded but not used for any request.
type AzureBackend struct {
	client            *azsecrets.Client
	appConfigEndpoint string
}

// NewAzureBackend builds a Key Vault client using the default Azure Identity
// credential chain (Workload Identity when running on AKS), honoring a
// PACT-mode endpoint override when registered.
func NewAzureBackend(vaultName, appConfigEndpoint string) (*AzureBackend, error) {
	cred, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		return nil, smcerrors.Transient(smcerrors.KindProviderOther, "failed to build Azure credential", err)
	}

	vaultURL := fmt.Sprintf("https://%s.vault.azure.net/", vaultName)
	var opts *azsecrets.ClientOptions
	if endpoint, ok := pact.Endpoint(pact.AzureKeyVault); ok {
		vaultURL = endpoint
		opts = &azsecrets.ClientOptions{ClientOptions: azcore.ClientOptions{}}
	}

	client, err := azsecrets.NewClient(vaultURL, cred, opts)
	if err != nil {
		return nil, smcerrors.Transient(smcerrors.KindProviderOther, "failed to create Key Vault client", err)
	}
	return &AzureBackend{client: client, appConfigEndpoint: appConfigEndpoint}, nil
}

func (b *AzureBackend) UpsertSecret(ctx context.Context, name, value, environment, location string) (bool, error) {
	if err := CheckAzureSecretSize(value); err != nil {
		return false, err
	}

	current, ok, err := b.GetSecretValue(ctx, name)
	if err != nil {
		return false, err
	}
	if ok && current == value {
		return false, nil
	}

	_, err = b.client.SetSecret(ctx, name, azsecrets.SetSecretParameters{
		Value: &value,
		Tags:  map[string]*string{"environment": &environment},
	}, nil)
	if err != nil {
		return false, classifyAzureError(err)
	}
	return true, nil
}

func (b *AzureBackend) GetSecretValue(ctx context.Context, name string) (string, bool, error) {
	resp, err := b.client.GetSecret(ctx, name, "", nil)
	if err != nil {
		if isAzureNotFound(err) {
			return "", false, nil
		}
		return "", false, classifyAzureError(err)
	}
	if resp.Attributes != nil && resp.Attributes.Enabled != nil && !*resp.Attributes.Enabled {
		return "", false, nil
	}
	if resp.Value == nil {
		return "", false, nil
	}
	return *resp.Value, true, nil
}

func (b *AzureBackend) DisableSecret(ctx context.Context, name string) (bool, error) {
	enabled := false
	_, err := b.client.UpdateSecretProperties(ctx, name, "", azsecrets.UpdateSecretPropertiesParameters{
		SecretAttributes: &azsecrets.SecretAttributes{Enabled: &enabled},
	}, nil)
	if err != nil {
		if isAzureNotFound(err) {
			return false, nil
		}
		return false, classifyAzureError(err)
	}
	return true, nil
}

func (b *AzureBackend) EnableSecret(ctx context.Context, name string) (bool, error) {
	enabled := true
	_, err := b.client.UpdateSecretProperties(ctx, name, "", azsecrets.UpdateSecretPropertiesParameters{
		SecretAttributes: &azsecrets.SecretAttributes{Enabled: &enabled},
	}, nil)
	if err != nil {
		if isAzureNotFound(err) {
			return false, nil
		}
		return false, classifyAzureError(err)
	}
	return true, nil
}

func (b *AzureBackend) DeleteSecret(ctx context.Context, name string) error {
	_, err := b.client.DeleteSecret(ctx, name, nil)
	if err != nil && !isAzureNotFound(err) {
		return classifyAzureError(err)
	}
	return nil
}

// UpsertConfig/GetConfigValue/DeleteConfig reuse the Key Vault secret surface
// under a "cfg-" name prefix (see type doc).
func (b *AzureBackend) UpsertConfig(ctx context.Context, key, value string) (bool, error) {
	return b.UpsertSecret(ctx, "cfg-"+key, value, "", "")
}

func (b *AzureBackend) GetConfigValue(ctx context.Context, key string) (string, bool, error) {
	return b.GetSecretValue(ctx, "cfg-"+key)
}

func (b *AzureBackend) DeleteConfig(ctx context.Context, key string) error {
	return b.DeleteSecret(ctx, "cfg-"+key)
}

func isAzureNotFound(err error) bool {
	var respErr *azcore.ResponseError
	return errors.As(err, &respErr) && respErr.StatusCode == 404
}

func classifyAzureError(err error) *smcerrors.Error {
	var respErr *azcore.ResponseError
	if errors.As(err, &respErr) {
		switch respErr.StatusCode {
		case 403, 401:
			return smcerrors.Transient(smcerrors.KindProviderPermission, "Azure permission denied", err)
		case 429:
			return smcerrors.Transient(smcerrors.KindProviderRateLimit, "Azure rate limit exceeded", err)
		}
	}
	return smcerrors.Transient(smcerrors.KindProviderOther, "Azure Key Vault call failed", err)
}
