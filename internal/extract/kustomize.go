package extract

import (
	"bytes"
	"context"
	"os/exec"

	"github.com/octopilot/secretmanager-controller/internal/smcerrors"
)

// runKustomizeBuild shells out to the kustomize binary, matching the
// teacher's subprocess-invocation style in internal/git/client.go's runGit:
// stdout returned as the build output, stderr captured separately for error
// reporting, working directory set to the
// artifact root so generator/patch paths resolve the way Flux/ArgoCD would
// resolve them.
func runKustomizeBuild(ctx context.Context, artifactRoot, fullPath string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, "kustomize", "build", fullPath)
	cmd.Dir = artifactRoot
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, smcerrors.Permanent(smcerrors.KindKustomizeBuildFail,
			"kustomize build failed: "+stderr.String(), err)
	}
	return stdout.Bytes(), nil
}
