package provider

import (
	"context"
	"encoding/base64"
	"fmt"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	secretmanagerpb "cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/octopilot/secretmanager-controller/internal/provider/pact"
	"github.com/octopilot/secretmanager-controller/internal/smcerrors"
)

// GCPBackend targets GCP Secret Manager for both the secrets surface and the
// configs surface. configStore is recorded but not consulted: configs go to
// Secret Manager under their key name for every configStore value, including
// "ParameterManager"; GCP Parameter Manager is never called.
type GCPBackend struct {
	client      *secretmanager.Client
	projectID   string
	location    string
	configStore string
}

// NewGCPBackend builds a client honoring a PACT-mode endpoint override when
// one is registered for gcp-secret-manager.
func NewGCPBackend(ctx context.Context, projectID, location, configStore string) (*GCPBackend, error) {
	var opts []option.ClientOption
	if endpoint, ok := pact.Endpoint(pact.GCPSecretManager); ok {
		opts = append(opts, option.WithEndpoint(endpoint), option.WithoutAuthentication())
	}

	client, err := secretmanager.NewClient(ctx, opts...)
	if err != nil {
		return nil, smcerrors.Transient(smcerrors.KindProviderOther, "failed to create GCP Secret Manager client", err)
	}
	return &GCPBackend{client: client, projectID: projectID, location: location, configStore: configStore}, nil
}

func (b *GCPBackend) secretPath(name string) string {
	return fmt.Sprintf("projects/%s/secrets/%s", b.projectID, name)
}

func (b *GCPBackend) UpsertSecret(ctx context.Context, name, value, environment, location string) (bool, error) {
	// CheckGCPSecretSize mirrors GCP's own documented limit, expressed against
	// the base64-encoded payload; value here is the already-decoded plaintext,
	// so it is re-encoded only for the purpose of this check.
	if err := CheckGCPSecretSize(base64.StdEncoding.EncodeToString([]byte(value))); err != nil {
		return false, err
	}

	latest, ok, err := b.getLatestEnabledVersion(ctx, name)
	if err != nil {
		return false, err
	}
	if ok && latest == value {
		return false, nil
	}

	if !ok {
		if err := b.ensureSecret(ctx, name, environment); err != nil {
			return false, err
		}
	}

	_, err = b.client.AddSecretVersion(ctx, &secretmanagerpb.AddSecretVersionRequest{
		Parent:  b.secretPath(name),
		Payload: &secretmanagerpb.SecretPayload{Data: []byte(value)},
	})
	if err != nil {
		return false, classifyGCPError(err)
	}
	return true, nil
}

func (b *GCPBackend) ensureSecret(ctx context.Context, name, environment string) error {
	_, err := b.client.CreateSecret(ctx, &secretmanagerpb.CreateSecretRequest{
		Parent:   fmt.Sprintf("projects/%s", b.projectID),
		SecretId: name,
		Secret: &secretmanagerpb.Secret{
			Labels: map[string]string{"environment": environment},
			Replication: &secretmanagerpb.Replication{
				Replication: &secretmanagerpb.Replication_Automatic_{
					Automatic: &secretmanagerpb.Replication_Automatic{},
				},
			},
		},
	})
	if err != nil && status.Code(err) != codes.AlreadyExists {
		return classifyGCPError(err)
	}
	return nil
}

func (b *GCPBackend) getLatestEnabledVersion(ctx context.Context, name string) (string, bool, error) {
	it := b.client.ListSecretVersions(ctx, &secretmanagerpb.ListSecretVersionsRequest{Parent: b.secretPath(name)})
	for {
		v, err := it.Next()
		if err == iterator.Done {
			return "", false, nil
		}
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return "", false, nil
			}
			return "", false, classifyGCPError(err)
		}
		if v.State != secretmanagerpb.SecretVersion_ENABLED {
			continue
		}
		resp, err := b.client.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{Name: v.Name})
		if err != nil {
			return "", false, classifyGCPError(err)
		}
		return string(resp.Payload.Data), true, nil
	}
}

func (b *GCPBackend) GetSecretValue(ctx context.Context, name string) (string, bool, error) {
	return b.getLatestEnabledVersion(ctx, name)
}

func (b *GCPBackend) DisableSecret(ctx context.Context, name string) (bool, error) {
	versions, err := b.listEnabledVersionNames(ctx, name)
	if err != nil {
		return false, err
	}
	if len(versions) == 0 {
		return false, nil
	}
	for _, v := range versions {
		if _, err := b.client.DisableSecretVersion(ctx, &secretmanagerpb.DisableSecretVersionRequest{Name: v}); err != nil {
			return false, classifyGCPError(err)
		}
	}
	return true, nil
}

func (b *GCPBackend) EnableSecret(ctx context.Context, name string) (bool, error) {
	it := b.client.ListSecretVersions(ctx, &secretmanagerpb.ListSecretVersionsRequest{Parent: b.secretPath(name)})
	changed := false
	for {
		v, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return changed, classifyGCPError(err)
		}
		if v.State == secretmanagerpb.SecretVersion_DISABLED {
			if _, err := b.client.EnableSecretVersion(ctx, &secretmanagerpb.EnableSecretVersionRequest{Name: v.Name}); err != nil {
				return changed, classifyGCPError(err)
			}
			changed = true
		}
	}
	return changed, nil
}

func (b *GCPBackend) listEnabledVersionNames(ctx context.Context, name string) ([]string, error) {
	var names []string
	it := b.client.ListSecretVersions(ctx, &secretmanagerpb.ListSecretVersionsRequest{Parent: b.secretPath(name)})
	for {
		v, err := it.Next()
		if err == iterator.Done {
			return names, nil
		}
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return nil, nil
			}
			return nil, classifyGCPError(err)
		}
		if v.State == secretmanagerpb.SecretVersion_ENABLED {
			names = append(names, v.Name)
		}
	}
}

func (b *GCPBackend) DeleteSecret(ctx context.Context, name string) error {
	err := b.client.DeleteSecret(ctx, &secretmanagerpb.DeleteSecretRequest{Name: b.secretPath(name)})
	if err != nil && status.Code(err) != codes.NotFound {
		return classifyGCPError(err)
	}
	return nil
}

// UpsertConfig, GetConfigValue and DeleteConfig route to the same Secret
// Manager surface as secrets, whatever configStore is set to.
func (b *GCPBackend) UpsertConfig(ctx context.Context, key, value string) (bool, error) {
	return b.UpsertSecret(ctx, key, value, "", b.location)
}

func (b *GCPBackend) GetConfigValue(ctx context.Context, key string) (string, bool, error) {
	return b.GetSecretValue(ctx, key)
}

func (b *GCPBackend) DeleteConfig(ctx context.Context, key string) error {
	return b.DeleteSecret(ctx, key)
}

func classifyGCPError(err error) *smcerrors.Error {
	switch status.Code(err) {
	case codes.PermissionDenied, codes.Unauthenticated:
		return smcerrors.Transient(smcerrors.KindProviderPermission, "GCP permission denied", err)
	case codes.ResourceExhausted:
		return smcerrors.Transient(smcerrors.KindProviderRateLimit, "GCP rate limit exceeded", err)
	default:
		return smcerrors.Transient(smcerrors.KindProviderOther, "GCP Secret Manager call failed", err)
	}
}
