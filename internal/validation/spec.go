package validation

import (
	"time"

	smcv1alpha1 "github.com/octopilot/secretmanager-controller/api/v1alpha1"
)

const minReconcileInterval = 10 * time.Second
const minGitRepositoryPullInterval = 5 * time.Second

// Spec validates an entire SecretManagerConfigSpec (C1). It stops at the
// first failure — the reconciler reports exactly one Validation error at a
// time, since fixing one field commonly changes what else is valid.
func Spec(namespace string, spec *smcv1alpha1.SecretManagerConfigSpec) error {
	if err := SourceRefKind(spec.SourceRef.Kind); err != nil {
		return err
	}
	if err := KubernetesName(spec.SourceRef.Name, "sourceRef.name"); err != nil {
		return err
	}
	if spec.SourceRef.Namespace != "" {
		if err := KubernetesNamespace(spec.SourceRef.Namespace); err != nil {
			return err
		}
	} else if err := KubernetesNamespace(namespace); err != nil {
		return err
	}

	if err := ProviderConfig(&spec.Provider); err != nil {
		return err
	}

	if spec.Secrets.Environment == "" {
		return invalid("secrets.environment", "cannot be empty")
	}
	if spec.Secrets.Prefix != "" {
		if err := SecretNameComponent(spec.Secrets.Prefix, "secrets.prefix"); err != nil {
			return err
		}
	}
	if spec.Secrets.Suffix != "" {
		if err := SecretNameComponent(spec.Secrets.Suffix, "secrets.suffix"); err != nil {
			return err
		}
	}
	if spec.Secrets.KustomizePath != "" {
		if err := FilePath(spec.Secrets.KustomizePath, "secrets.kustomizePath"); err != nil {
			return err
		}
	}
	if spec.Secrets.BasePath != "" {
		if err := FilePath(spec.Secrets.BasePath, "secrets.basePath"); err != nil {
			return err
		}
	}

	if spec.Configs != nil && spec.Configs.Enabled {
		if spec.Provider.AWS != nil && spec.Configs.ParameterPath == "" {
			return invalid("configs.parameterPath", "is required when provider.aws is set and configs.enabled is true")
		}
		if spec.Provider.Azure != nil && spec.Configs.AppConfigEndpoint == "" {
			return invalid("configs.appConfigEndpoint", "is required when provider.azure is set and configs.enabled is true")
		}
		if err := ConfigsSpec(spec.Configs); err != nil {
			return err
		}
	}

	if spec.GitRepositoryPullInterval != "" {
		if err := DurationInterval(spec.GitRepositoryPullInterval, "gitRepositoryPullInterval", minGitRepositoryPullInterval); err != nil {
			return err
		}
	}
	if spec.ReconcileInterval != "" {
		if err := DurationInterval(spec.ReconcileInterval, "reconcileInterval", minReconcileInterval); err != nil {
			return err
		}
	}

	return nil
}
