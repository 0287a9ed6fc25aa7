package provider

import (
	"context"
	"errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	smtypes "github.com/aws/aws-sdk-go-v2/service/secretsmanager/types"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	ssmtypes "github.com/aws/aws-sdk-go-v2/service/ssm/types"
	"github.com/aws/smithy-go"

	"github.com/octopilot/secretmanager-controller/internal/provider/pact"
	"github.com/octopilot/secretmanager-controller/internal/smcerrors"
)

// AWSBackend targets AWS Secrets Manager for secrets and SSM Parameter Store
// (under parameterPath as a prefix) for configs.
type AWSBackend struct {
	secrets       *secretsmanager.Client
	ssm           *ssm.Client
	region        string
	parameterPath string
}

// NewAWSBackend loads the default credential chain (IRSA when running on
// EKS) honoring a PACT-mode BaseEndpoint override when registered.
func NewAWSBackend(ctx context.Context, region, parameterPath string) (*AWSBackend, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, smcerrors.Transient(smcerrors.KindProviderOther, "failed to load AWS config", err)
	}

	var smOpts []func(*secretsmanager.Options)
	if endpoint, ok := pact.Endpoint(pact.AWSSecretsManager); ok {
		smOpts = append(smOpts, func(o *secretsmanager.Options) { o.BaseEndpoint = aws.String(endpoint) })
	}
	var ssmOpts []func(*ssm.Options)
	if endpoint, ok := pact.Endpoint(pact.AWSParameterStore); ok {
		ssmOpts = append(ssmOpts, func(o *ssm.Options) { o.BaseEndpoint = aws.String(endpoint) })
	}

	return &AWSBackend{
		secrets:       secretsmanager.NewFromConfig(cfg, smOpts...),
		ssm:           ssm.NewFromConfig(cfg, ssmOpts...),
		region:        region,
		parameterPath: parameterPath,
	}, nil
}

func (b *AWSBackend) UpsertSecret(ctx context.Context, name, value, environment, location string) (bool, error) {
	if err := CheckAWSSecretSize(value); err != nil {
		return false, err
	}

	current, ok, err := b.GetSecretValue(ctx, name)
	if err != nil {
		return false, err
	}
	if ok && current == value {
		return false, nil
	}

	if !ok {
		_, err := b.secrets.CreateSecret(ctx, &secretsmanager.CreateSecretInput{
			Name:         aws.String(name),
			SecretString: aws.String(value),
			Tags:         []smtypes.Tag{{Key: aws.String("environment"), Value: aws.String(environment)}},
		})
		if err != nil {
			var exists *smtypes.ResourceExistsException
			if !errors.As(err, &exists) {
				return false, classifyAWSError(err)
			}
		} else {
			return true, nil
		}
	}

	_, err = b.secrets.PutSecretValue(ctx, &secretsmanager.PutSecretValueInput{
		SecretId:     aws.String(name),
		SecretString: aws.String(value),
	})
	if err != nil {
		return false, classifyAWSError(err)
	}
	return true, nil
}

func (b *AWSBackend) GetSecretValue(ctx context.Context, name string) (string, bool, error) {
	out, err := b.secrets.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{SecretId: aws.String(name)})
	if err != nil {
		var notFound *smtypes.ResourceNotFoundException
		if errors.As(err, &notFound) {
			return "", false, nil
		}
		return "", false, classifyAWSError(err)
	}
	if out.SecretString == nil {
		return "", false, nil
	}
	return *out.SecretString, true, nil
}

func (b *AWSBackend) DisableSecret(ctx context.Context, name string) (bool, error) {
	_, err := b.secrets.UpdateSecret(ctx, &secretsmanager.UpdateSecretInput{SecretId: aws.String(name)})
	if err != nil {
		var notFound *smtypes.ResourceNotFoundException
		if errors.As(err, &notFound) {
			return false, nil
		}
		return false, classifyAWSError(err)
	}
	// Secrets Manager models "disabled" as scheduled deletion with a recovery
	// window; it refuses a second schedule on an already-scheduled secret, so
	// this call is treated as idempotent at the caller level.
	_, err = b.secrets.DeleteSecret(ctx, &secretsmanager.DeleteSecretInput{
		SecretId:             aws.String(name),
		RecoveryWindowInDays: aws.Int64(30),
	})
	if err != nil {
		var invalidState *smtypes.InvalidRequestException
		if errors.As(err, &invalidState) {
			return false, nil
		}
		return false, classifyAWSError(err)
	}
	return true, nil
}

func (b *AWSBackend) EnableSecret(ctx context.Context, name string) (bool, error) {
	_, err := b.secrets.RestoreSecret(ctx, &secretsmanager.RestoreSecretInput{SecretId: aws.String(name)})
	if err != nil {
		var invalidState *smtypes.InvalidRequestException
		if errors.As(err, &invalidState) {
			return false, nil
		}
		return false, classifyAWSError(err)
	}
	return true, nil
}

func (b *AWSBackend) DeleteSecret(ctx context.Context, name string) error {
	_, err := b.secrets.DeleteSecret(ctx, &secretsmanager.DeleteSecretInput{
		SecretId:                   aws.String(name),
		ForceDeleteWithoutRecovery: aws.Bool(true),
	})
	if err != nil {
		var notFound *smtypes.ResourceNotFoundException
		if errors.As(err, &notFound) {
			return nil
		}
		return classifyAWSError(err)
	}
	return nil
}

func (b *AWSBackend) parameterName(key string) string {
	return b.parameterPath + "/" + key
}

func (b *AWSBackend) UpsertConfig(ctx context.Context, key, value string) (bool, error) {
	current, ok, err := b.GetConfigValue(ctx, key)
	if err != nil {
		return false, err
	}
	if ok && current == value {
		return false, nil
	}
	_, err = b.ssm.PutParameter(ctx, &ssm.PutParameterInput{
		Name:      aws.String(b.parameterName(key)),
		Value:     aws.String(value),
		Type:      ssmtypes.ParameterTypeSecureString,
		Overwrite: aws.Bool(true),
	})
	if err != nil {
		return false, classifyAWSError(err)
	}
	return true, nil
}

func (b *AWSBackend) GetConfigValue(ctx context.Context, key string) (string, bool, error) {
	out, err := b.ssm.GetParameter(ctx, &ssm.GetParameterInput{
		Name:           aws.String(b.parameterName(key)),
		WithDecryption: aws.Bool(true),
	})
	if err != nil {
		var notFound *ssmtypes.ParameterNotFound
		if errors.As(err, &notFound) {
			return "", false, nil
		}
		return "", false, classifyAWSError(err)
	}
	return aws.ToString(out.Parameter.Value), true, nil
}

func (b *AWSBackend) DeleteConfig(ctx context.Context, key string) error {
	_, err := b.ssm.DeleteParameter(ctx, &ssm.DeleteParameterInput{Name: aws.String(b.parameterName(key))})
	if err != nil {
		var notFound *ssmtypes.ParameterNotFound
		if errors.As(err, &notFound) {
			return nil
		}
		return classifyAWSError(err)
	}
	return nil
}

func classifyAWSError(err error) *smcerrors.Error {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "AccessDeniedException", "UnauthorizedException":
			return smcerrors.Transient(smcerrors.KindProviderPermission, "AWS permission denied", err)
		case "ThrottlingException", "TooManyRequestsException":
			return smcerrors.Transient(smcerrors.KindProviderRateLimit, "AWS rate limit exceeded", err)
		}
	}
	return smcerrors.Transient(smcerrors.KindProviderOther, "AWS call failed", err)
}
