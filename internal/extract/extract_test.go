package extract

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestExtractRawFilesMode(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "dev", "application.secrets.env"), strings.Join([]string{
		"DB_PASSWORD=hunter2",
		"# API_KEY=disabled-value",
		"",
		"not a valid line",
	}, "\n")+"\n")
	writeFile(t, filepath.Join(root, "dev", "application.secrets.yaml"), "TOKEN: abc123\n")
	writeFile(t, filepath.Join(root, "dev", "application.properties"), "LOG_LEVEL=debug\n")

	secrets, properties, err := Extract(context.Background(), root, "dev", "", "", true, nil)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	if got, want := secrets["DB_PASSWORD"], (Entry{Value: "hunter2"}); got != want {
		t.Errorf("DB_PASSWORD = %+v, want %+v", got, want)
	}
	if got := secrets["API_KEY"]; !got.Disabled || got.Value != "disabled-value" {
		t.Errorf("API_KEY = %+v, want disabled with value disabled-value", got)
	}
	if got, want := secrets["TOKEN"], (Entry{Value: "abc123"}); got != want {
		t.Errorf("TOKEN = %+v, want %+v", got, want)
	}
	if got, want := properties["LOG_LEVEL"], (Entry{Value: "debug"}); got != want {
		t.Errorf("LOG_LEVEL = %+v, want %+v", got, want)
	}
}

func TestExtractRawFilesModeConfigsDisabled(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "dev", "application.secrets.env"), "DB_PASSWORD=hunter2\n")
	writeFile(t, filepath.Join(root, "dev", "application.properties"), "LOG_LEVEL=debug\n")

	_, properties, err := Extract(context.Background(), root, "dev", "", "", false, nil)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(properties) != 0 {
		t.Errorf("expected no properties when configs disabled, got %v", properties)
	}
}

func TestExtractAppliesDecryptToSecretsFilesOnly(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "dev", "application.secrets.env"), "sops:\nCIPHER_PASSWORD=ENC[...]\n")
	writeFile(t, filepath.Join(root, "dev", "application.properties"), "LOG_LEVEL=debug\n")

	var decryptedFiles int
	decrypt := func(_ context.Context, content []byte) ([]byte, error) {
		decryptedFiles++
		return []byte("DB_PASSWORD=hunter2\n"), nil
	}

	secrets, properties, err := Extract(context.Background(), root, "dev", "", "", true, decrypt)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if decryptedFiles != 1 {
		t.Errorf("decrypt called %d times, want 1 (secrets.env only)", decryptedFiles)
	}
	if got, want := secrets["DB_PASSWORD"], (Entry{Value: "hunter2"}); got != want {
		t.Errorf("DB_PASSWORD = %+v, want %+v", got, want)
	}
	if got, want := properties["LOG_LEVEL"], (Entry{Value: "debug"}); got != want {
		t.Errorf("LOG_LEVEL = %+v, want %+v", got, want)
	}
}

func TestSplitYAMLStream(t *testing.T) {
	input := []byte("---\nkind: Secret\n---\n\n---\nkind: ConfigMap\n")
	docs := splitYAMLStream(input)
	if len(docs) != 2 {
		t.Fatalf("expected 2 documents, got %d: %v", len(docs), docs)
	}
}
