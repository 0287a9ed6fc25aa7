package git

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// GitHubAppConfig names the controller-wide GitHub App used to authenticate
// against private Application sources, read from env vars by internal/config.
type GitHubAppConfig struct {
	AppID          string
	InstallationID string
	PrivateKeyFile string
	APIBaseURL     string // defaults to https://api.github.com
}

// Enabled reports whether all required fields are set.
func (c GitHubAppConfig) Enabled() bool {
	return c.AppID != "" && c.InstallationID != "" && c.PrivateKeyFile != ""
}

// EnsureGitHubAppTokenFile mints a GitHub App installation token and writes it
// to a token file referenced by GIT_TOKEN_FILE, so NativeGitClient's ordinary
// buildGitEnv pickup path (§4.2) authenticates Application clones without any
// change to CloneOrFetch. The returned refresh func re-mints and rewrites the
// file; installation tokens expire after one hour, so the caller is expected
// to invoke refresh on a timer well inside that window.
func EnsureGitHubAppTokenFile(ctx context.Context, cfg GitHubAppConfig) (tokenFile string, refresh func(context.Context) error, err error) {
	path := "/tmp/smc-github-app-token"
	refresh = func(ctx context.Context) error {
		token, _, err := mintInstallationToken(ctx, cfg)
		if err != nil {
			return err
		}
		return os.WriteFile(path, []byte(token), 0600)
	}
	if err := refresh(ctx); err != nil {
		return "", nil, err
	}
	return path, refresh, nil
}

// mintInstallationToken exchanges the App's private key for a short-lived
// installation access token, per GitHub's App authentication flow: sign a JWT
// asserting the App's identity, then POST it to the installation access-token
// endpoint.
func mintInstallationToken(ctx context.Context, cfg GitHubAppConfig) (token string, expiresAt time.Time, err error) {
	keyPEM, err := os.ReadFile(cfg.PrivateKeyFile)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("reading GitHub App private key %s: %w", cfg.PrivateKeyFile, err)
	}
	privKey, err := jwt.ParseRSAPrivateKeyFromPEM(keyPEM)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("parsing GitHub App private key: %w", err)
	}

	now := time.Now()
	claims := jwt.RegisteredClaims{
		IssuedAt:  jwt.NewNumericDate(now.Add(-30 * time.Second)),
		ExpiresAt: jwt.NewNumericDate(now.Add(9 * time.Minute)),
		Issuer:    cfg.AppID,
	}
	appJWT, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(privKey)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("signing GitHub App JWT: %w", err)
	}

	base := cfg.APIBaseURL
	if base == "" {
		base = "https://api.github.com"
	}
	url := fmt.Sprintf("%s/app/installations/%s/access_tokens", base, cfg.InstallationID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, nil)
	if err != nil {
		return "", time.Time{}, err
	}
	req.Header.Set("Authorization", "Bearer "+appJWT)
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("exchanging GitHub App installation token: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		return "", time.Time{}, fmt.Errorf("GitHub App token exchange returned status %d", resp.StatusCode)
	}

	var body struct {
		Token     string `json:"token"`
		ExpiresAt string `json:"expires_at"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", time.Time{}, fmt.Errorf("decoding GitHub App token response: %w", err)
	}
	expiresAt, _ = time.Parse(time.RFC3339, body.ExpiresAt)
	return body.Token, expiresAt, nil
}

