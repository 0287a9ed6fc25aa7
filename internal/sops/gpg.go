package sops

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// importGPGKey imports privateKey into a fresh, per-invocation GPG home
// directory and sets ownertrust on the imported key, so sops can use it
// without an interactive trust prompt. Ported from
// original_source/src/controller/parser/sops/gpg.rs's import_gpg_key.
//
// The returned directory must be removed by the caller once the sops
// invocation that needs it has finished.
func importGPGKey(ctx context.Context, privateKey string) (string, error) {
	gpgPath, err := exec.LookPath("gpg")
	if err != nil {
		return "", fmt.Errorf("gpg binary not found: %w", err)
	}

	gpgHome := filepath.Join(os.TempDir(), "gpg-home-"+uuid.NewString())
	if err := os.MkdirAll(gpgHome, 0o700); err != nil {
		return "", fmt.Errorf("creating temporary GPG home: %w", err)
	}

	env := append(os.Environ(), "GNUPGHOME="+gpgHome)

	importCmd := exec.CommandContext(ctx, gpgPath, "--batch", "--yes", "--pinentry-mode", "loopback", "--import")
	importCmd.Env = env
	importCmd.Stdin = strings.NewReader(privateKey)
	var stderr bytes.Buffer
	importCmd.Stderr = &stderr
	if err := importCmd.Run(); err != nil {
		_ = os.RemoveAll(gpgHome)
		return "", fmt.Errorf("gpg --import: %w: %s", err, stderr.String())
	}

	fpr, err := fingerprint(ctx, gpgPath, env)
	if err == nil && fpr != "" {
		trustCmd := exec.CommandContext(ctx, gpgPath, "--batch", "--yes", "--import-ownertrust")
		trustCmd.Env = env
		trustCmd.Stdin = strings.NewReader(fpr + ":6:\n")
		// Ownertrust is best-effort: sops can still work against a key whose
		// trust was not set, gpg will just emit a warning on decrypt.
		_ = trustCmd.Run()
	}

	return gpgHome, nil
}

// fingerprint extracts the first key fingerprint from `gpg --list-keys`.
func fingerprint(ctx context.Context, gpgPath string, env []string) (string, error) {
	listCmd := exec.CommandContext(ctx, gpgPath, "--list-keys", "--with-colons", "--fingerprint")
	listCmd.Env = env
	out, err := listCmd.Output()
	if err != nil {
		return "", err
	}
	for _, line := range strings.Split(string(out), "\n") {
		if !strings.HasPrefix(line, "fpr:") {
			continue
		}
		fields := strings.Split(line, ":")
		fpr := fields[len(fields)-1]
		if fpr != "" {
			return fpr, nil
		}
	}
	return "", nil
}
