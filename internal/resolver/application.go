package resolver

import (
	"context"
	"fmt"
	"path/filepath"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/types"

	"github.com/octopilot/secretmanager-controller/internal/smcerrors"
)

// resolveApplication implements the ArgoCD Application branch of C2: read
// spec.source.{repoURL,targetRevision,path}, clone or update the repo via
// the native git binary, and return the path subtree.
func (r *Resolver) resolveApplication(ctx context.Context, key types.NamespacedName) (string, string, error) {
	obj, err := getUnstructured(ctx, r.Client, applicationGVK, key)
	if err != nil {
		return "", "", err
	}

	repoURL, _, _ := unstructured.NestedString(obj.Object, "spec", "source", "repoURL")
	targetRevision, _, _ := unstructured.NestedString(obj.Object, "spec", "source", "targetRevision")
	path, _, _ := unstructured.NestedString(obj.Object, "spec", "source", "path")
	if repoURL == "" {
		return "", "", smcerrors.Transient(smcerrors.KindArtifactMissing,
			fmt.Sprintf("Application %s/%s has no spec.source.repoURL", key.Namespace, key.Name), nil)
	}
	if targetRevision == "" {
		targetRevision = "HEAD"
	}

	checkoutDir := filepath.Join(r.CacheBase, "argocd-repo", key.Namespace, key.Name, contentHash(repoURL))

	result, err := r.GitClient.CloneOrFetch(ctx, repoURL, targetRevision, checkoutDir, nil)
	if err != nil {
		return "", "", smcerrors.Transient(smcerrors.KindArtifactMissing,
			fmt.Sprintf("cloning Application source %s/%s", key.Namespace, key.Name), err)
	}

	return filepath.Join(checkoutDir, path), result.Commit, nil
}
