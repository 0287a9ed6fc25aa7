// Package sops streams SOPS-encrypted file content through the sops binary
// for decryption, never persisting plaintext to disk.
package sops

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/octopilot/secretmanager-controller/internal/smcerrors"
)

// FailureClass is the taxonomy a non-zero sops/gpg exit is mapped into.
type FailureClass string

const (
	ClassKeyNotFound         FailureClass = "KeyNotFound"
	ClassWrongKey            FailureClass = "WrongKey"
	ClassInvalidKeyFormat    FailureClass = "InvalidKeyFormat"
	ClassUnsupportedFormat   FailureClass = "UnsupportedFormat"
	ClassCorruptedFile       FailureClass = "CorruptedFile"
	ClassNetworkTimeout      FailureClass = "NetworkTimeout"
	ClassProviderUnavailable FailureClass = "ProviderUnavailable"
	ClassPermissionDenied    FailureClass = "PermissionDenied"
	ClassUnknown             FailureClass = "Unknown"
)

// permanentClasses cannot succeed on retry without operator intervention.
var permanentClasses = map[FailureClass]bool{
	ClassKeyNotFound:       true,
	ClassWrongKey:          true,
	ClassInvalidKeyFormat:  true,
	ClassUnsupportedFormat: true,
	ClassCorruptedFile:     true,
}

// Decryptor decrypts SOPS-protected content by shelling out to the sops
// binary. A zero-value Decryptor is ready to use.
type Decryptor struct {
	// GPGPrivateKey, when non-empty, is imported into a temporary keyring for
	// the duration of each Decrypt call.
	GPGPrivateKey string
}

// MaybeDecrypt returns content unchanged if it carries no SOPS marker, or its
// decrypted plaintext otherwise.
func (d *Decryptor) MaybeDecrypt(ctx context.Context, content []byte) ([]byte, error) {
	if !looksEncrypted(content) {
		return content, nil
	}
	return d.decrypt(ctx, content)
}

func looksEncrypted(content []byte) bool {
	return bytes.Contains(content, []byte("sops:")) || bytes.Contains(content, []byte("ENC["))
}

func (d *Decryptor) decrypt(ctx context.Context, content []byte) ([]byte, error) {
	env := os.Environ()

	if d.GPGPrivateKey != "" {
		gpgHome, err := importGPGKey(ctx, d.GPGPrivateKey)
		if err != nil {
			return nil, smcerrors.Permanent(smcerrors.KindSopsKeyMissing, "failed to import GPG key", err)
		}
		defer os.RemoveAll(gpgHome)
		env = append(env, "GNUPGHOME="+gpgHome)
	}

	cmd := exec.CommandContext(ctx, "sops", "--decrypt", "/dev/stdin")
	cmd.Env = env
	cmd.Stdin = bytes.NewReader(content)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		class := classify(err, stderr.String())
		return nil, classifiedError(class, stderr.String(), err)
	}
	return stdout.Bytes(), nil
}

// classify maps a failed sops invocation's exit status and stderr onto the
// failure taxonomy. Exit-code mapping is preferred; message matching is the
// fallback for classes sops does not give a distinct code for.
func classify(err error, stderrText string) FailureClass {
	var exitErr *exec.ExitError
	exitCode := -1
	if errors.As(err, &exitErr) {
		exitCode = exitErr.ExitCode()
	}

	lower := strings.ToLower(stderrText)
	switch {
	case exitCode == 128, strings.Contains(lower, "no gpg data found"), strings.Contains(lower, "not encrypted"):
		return ClassUnsupportedFormat
	case strings.Contains(lower, "could not find a key"), strings.Contains(lower, "no key found"):
		return ClassKeyNotFound
	case strings.Contains(lower, "decryption failed"), strings.Contains(lower, "no secret key"):
		return ClassWrongKey
	case strings.Contains(lower, "invalid key"), strings.Contains(lower, "malformed"):
		return ClassInvalidKeyFormat
	case strings.Contains(lower, "corrupt"), strings.Contains(lower, "unexpected end"), strings.Contains(lower, "unmarshal"):
		return ClassCorruptedFile
	case strings.Contains(lower, "timeout"), strings.Contains(lower, "deadline exceeded"):
		return ClassNetworkTimeout
	case strings.Contains(lower, "connection refused"), strings.Contains(lower, "unavailable"), strings.Contains(lower, "503"):
		return ClassProviderUnavailable
	case strings.Contains(lower, "permission denied"), strings.Contains(lower, "access denied"), strings.Contains(lower, "403"):
		return ClassPermissionDenied
	default:
		return ClassUnknown
	}
}

func classifiedError(class FailureClass, stderrText string, cause error) *smcerrors.Error {
	msg := fmt.Sprintf("sops decrypt failed (%s): %s", class, strings.TrimSpace(stderrText))
	switch class {
	case ClassKeyNotFound:
		return smcerrors.AwaitChange(smcerrors.KindSopsKeyMissing, msg, cause)
	default:
		if permanentClasses[class] {
			return smcerrors.Permanent(smcerrors.KindSopsPermanent, msg, cause)
		}
		return smcerrors.Transient(smcerrors.KindSopsTransient, msg, cause)
	}
}
