package validation

import (
	smcv1alpha1 "github.com/octopilot/secretmanager-controller/api/v1alpha1"
)

// ConfigsSpec validates the optional configs block: store kind is enum-checked
// by the CRD schema already, so only the free-form path/endpoint fields need
// validating here.
func ConfigsSpec(c *smcv1alpha1.ConfigsSpec) error {
	if c == nil || !c.Enabled {
		return nil
	}
	if c.AppConfigEndpoint != "" {
		if err := URL(c.AppConfigEndpoint, "configs.appConfigEndpoint"); err != nil {
			return err
		}
	}
	if c.ParameterPath != "" {
		if err := AWSParameterPath(c.ParameterPath, "configs.parameterPath"); err != nil {
			return err
		}
	}
	return nil
}
