package git

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"os"
	"path/filepath"
	"testing"
)

func TestGitHubAppConfigEnabled(t *testing.T) {
	cases := []struct {
		name string
		cfg  GitHubAppConfig
		want bool
	}{
		{"all set", GitHubAppConfig{AppID: "1", InstallationID: "2", PrivateKeyFile: "/tmp/key"}, true},
		{"missing app id", GitHubAppConfig{InstallationID: "2", PrivateKeyFile: "/tmp/key"}, false},
		{"missing installation id", GitHubAppConfig{AppID: "1", PrivateKeyFile: "/tmp/key"}, false},
		{"missing key file", GitHubAppConfig{AppID: "1", InstallationID: "2"}, false},
		{"empty", GitHubAppConfig{}, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := c.cfg.Enabled(); got != c.want {
				t.Errorf("Enabled() = %v, want %v", got, c.want)
			}
		})
	}
}

func TestMintInstallationTokenSignsJWTBeforeCallingOut(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generating test key: %v", err)
	}
	der := x509.MarshalPKCS1PrivateKey(key)
	pemBytes := pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: der})

	dir := t.TempDir()
	keyFile := filepath.Join(dir, "app.pem")
	if err := os.WriteFile(keyFile, pemBytes, 0600); err != nil {
		t.Fatalf("writing test key: %v", err)
	}

	cfg := GitHubAppConfig{AppID: "123", InstallationID: "456", PrivateKeyFile: keyFile, APIBaseURL: "http://127.0.0.1:1"}
	_, _, err = mintInstallationToken(t.Context(), cfg)
	if err == nil {
		t.Fatal("expected an error dialing an unreachable API base URL")
	}
}
