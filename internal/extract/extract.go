// Package extract implements the content extractor (C4): it turns an
// artifact checkout plus a SecretsSpec/ConfigsSpec into flat secrets and
// properties maps, either by reading raw files under an environment
// directory or by running `kustomize build` and parsing its YAML stream.
package extract

import (
	"bufio"
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"sigs.k8s.io/yaml"

	"github.com/octopilot/secretmanager-controller/internal/smcerrors"
)

// Entry is one extracted key/value pair. Disabled marks a key that was found
// commented-out in a raw source file — still present, but an explicit
// disable intent the sync executor (C6) must act on rather than ignore.
type Entry struct {
	Value    string
	Disabled bool
}

// secretManifest and configMapManifest model only the fields the extractor
// reads off a kustomize-built Secret/ConfigMap document.
type secretManifest struct {
	Kind string            `json:"kind"`
	Data map[string]string `json:"data"`
}

type configMapManifest struct {
	Kind string            `json:"kind"`
	Data map[string]string `json:"data"`
}

// Decrypt is the hook the SOPS decryption pipeline (C3) plugs in: applied to
// each secrets file's raw bytes before parsing, it returns content unchanged
// when the file carries no SOPS marker. A nil Decrypt is the identity.
type Decrypt func(ctx context.Context, content []byte) ([]byte, error)

// Extract locates secrets and properties under artifactRoot according to
// the resource's secrets/configs spec, returning two flat key/entry maps.
// Keys are the raw names found in the source material; callers run them
// through internal/secretname before handing them to a provider. Only the
// secrets-bearing files (application.secrets.env/.yaml) are passed through
// decrypt — properties and kustomize-rendered manifests are never SOPS
// content per §4.3. excludePatterns are doublestar globs matched against
// each extracted key name; matches are dropped from both maps before return.
func Extract(ctx context.Context, artifactRoot, environment, kustomizePath, basePath string, configsEnabled bool, decrypt Decrypt, excludePatterns ...string) (secrets, properties map[string]Entry, err error) {
	root := artifactRoot
	if basePath != "" {
		root = filepath.Join(artifactRoot, basePath)
	}

	if kustomizePath != "" {
		secrets, properties, err = extractFromKustomize(ctx, root, kustomizePath)
	} else {
		secrets, properties, err = extractFromRawFiles(ctx, root, environment, configsEnabled, decrypt)
	}
	if err != nil {
		return nil, nil, err
	}
	filterExcluded(secrets, excludePatterns)
	filterExcluded(properties, excludePatterns)
	return secrets, properties, nil
}

func extractFromRawFiles(ctx context.Context, root, environment string, configsEnabled bool, decrypt Decrypt) (map[string]Entry, map[string]Entry, error) {
	envDir := filepath.Join(root, environment)
	secrets := map[string]Entry{}
	properties := map[string]Entry{}

	envFile := filepath.Join(envDir, "application.secrets.env")
	if data, err := os.ReadFile(envFile); err == nil {
		data, err = maybeDecrypt(ctx, decrypt, data)
		if err != nil {
			return nil, nil, fmt.Errorf("decrypting %s: %w", envFile, err)
		}
		parsed, err := parseEnvFile(data)
		if err != nil {
			return nil, nil, smcerrors.Permanent(smcerrors.KindArtifactCorrupt,
				fmt.Sprintf("parsing %s", envFile), err)
		}
		for k, v := range parsed {
			secrets[k] = v
		}
	} else if !os.IsNotExist(err) {
		return nil, nil, smcerrors.Permanent(smcerrors.KindArtifactMissing, "reading "+envFile, err)
	}

	yamlFile := filepath.Join(envDir, "application.secrets.yaml")
	if data, err := os.ReadFile(yamlFile); err == nil {
		data, err = maybeDecrypt(ctx, decrypt, data)
		if err != nil {
			return nil, nil, fmt.Errorf("decrypting %s: %w", yamlFile, err)
		}
		parsed := map[string]string{}
		if err := yaml.Unmarshal(data, &parsed); err != nil {
			return nil, nil, smcerrors.Permanent(smcerrors.KindArtifactCorrupt,
				fmt.Sprintf("parsing %s", yamlFile), err)
		}
		for k, v := range parsed {
			secrets[k] = Entry{Value: v}
		}
	} else if !os.IsNotExist(err) {
		return nil, nil, smcerrors.Permanent(smcerrors.KindArtifactMissing, "reading "+yamlFile, err)
	}

	if configsEnabled {
		propsFile := filepath.Join(envDir, "application.properties")
		if data, err := os.ReadFile(propsFile); err == nil {
			parsed, err := parseEnvFile(data)
			if err != nil {
				return nil, nil, smcerrors.Permanent(smcerrors.KindArtifactCorrupt,
					fmt.Sprintf("parsing %s", propsFile), err)
			}
			properties = parsed
		} else if !os.IsNotExist(err) {
			return nil, nil, smcerrors.Permanent(smcerrors.KindArtifactMissing, "reading "+propsFile, err)
		}
	}

	return secrets, properties, nil
}

func maybeDecrypt(ctx context.Context, decrypt Decrypt, data []byte) ([]byte, error) {
	if decrypt == nil {
		return data, nil
	}
	return decrypt(ctx, data)
}

// parseEnvFile parses KEY=VALUE lines, skipping blank lines. A line
// commented out with a leading # is still returned, marked Disabled, so the
// sync executor can tell "never existed" apart from "explicitly turned off".
func parseEnvFile(data []byte) (map[string]Entry, error) {
	result := map[string]Entry{}
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		disabled := false
		if strings.HasPrefix(line, "#") {
			disabled = true
			line = strings.TrimSpace(strings.TrimPrefix(line, "#"))
			if line == "" {
				continue
			}
		}
		idx := strings.Index(line, "=")
		if idx < 0 {
			continue
		}
		key := strings.TrimSpace(line[:idx])
		value := strings.TrimSpace(line[idx+1:])
		result[key] = Entry{Value: value, Disabled: disabled}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func extractFromKustomize(ctx context.Context, artifactRoot, kustomizePath string) (map[string]Entry, map[string]Entry, error) {
	fullPath := filepath.Join(artifactRoot, kustomizePath)
	if _, err := os.Stat(fullPath); err != nil {
		return nil, nil, smcerrors.Permanent(smcerrors.KindArtifactMissing,
			"kustomize path does not exist: "+fullPath, err)
	}

	output, err := runKustomizeBuild(ctx, artifactRoot, fullPath)
	if err != nil {
		return nil, nil, err
	}

	secrets := map[string]Entry{}
	properties := map[string]Entry{}

	for _, doc := range splitYAMLStream(output) {
		var secret secretManifest
		if err := yaml.Unmarshal([]byte(doc), &secret); err == nil && secret.Kind == "Secret" {
			for key, encoded := range secret.Data {
				decoded, err := base64.StdEncoding.DecodeString(encoded)
				if err != nil {
					continue
				}
				secrets[key] = Entry{Value: string(decoded)}
			}
			continue
		}

		var cm configMapManifest
		if err := yaml.Unmarshal([]byte(doc), &cm); err == nil && cm.Kind == "ConfigMap" {
			for key, value := range cm.Data {
				properties[key] = Entry{Value: value}
			}
		}
	}

	return secrets, properties, nil
}

func splitYAMLStream(output []byte) []string {
	var docs []string
	for _, part := range strings.Split(string(output), "---") {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			docs = append(docs, trimmed)
		}
	}
	return docs
}
