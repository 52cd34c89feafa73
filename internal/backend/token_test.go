package backend

import (
	"os"
	"path/filepath"
	"testing"
)

func TestResolveAuthToken_Precedence(t *testing.T) {
	t.Setenv("LINKBATCH_TOKEN", "env-token")

	token, source, err := ResolveAuthToken("flag-token", "config-token", "")
	if err != nil {
		t.Fatalf("ResolveAuthToken: %v", err)
	}
	if token != "flag-token" || source != AuthTokenSourceExplicit {
		t.Fatalf("Got %q from %s, want flag-token from explicit", token, source)
	}

	token, source, err = ResolveAuthToken("", "config-token", "")
	if err != nil {
		t.Fatalf("ResolveAuthToken: %v", err)
	}
	if token != "env-token" || source != AuthTokenSourceEnv {
		t.Fatalf("Got %q from %s, want env-token from env", token, source)
	}
}

func TestResolveAuthToken_ConfigBeforeTokenFile(t *testing.T) {
	t.Setenv("LINKBATCH_TOKEN", "")

	path := filepath.Join(t.TempDir(), "token")
	if err := os.WriteFile(path, []byte("file-token\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	token, source, err := ResolveAuthToken("", "config-token", path)
	if err != nil {
		t.Fatalf("ResolveAuthToken: %v", err)
	}
	if token != "config-token" || source != AuthTokenSourceConfig {
		t.Fatalf("Got %q from %s, want config-token from config", token, source)
	}

	token, source, err = ResolveAuthToken("", "", path)
	if err != nil {
		t.Fatalf("ResolveAuthToken: %v", err)
	}
	if token != "file-token" || source != AuthTokenSourceTokenFile {
		t.Fatalf("Got %q from %s, want file-token from token_file", token, source)
	}
}

func TestResolveAuthToken_TokenFileErrors(t *testing.T) {
	t.Setenv("LINKBATCH_TOKEN", "")
	dir := t.TempDir()

	if _, _, err := ResolveAuthToken("", "", filepath.Join(dir, "missing")); err == nil {
		t.Error("Expected an error for a missing token file")
	}

	empty := filepath.Join(dir, "empty")
	if err := os.WriteFile(empty, []byte("  \n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, _, err := ResolveAuthToken("", "", empty); err == nil {
		t.Error("Expected an error for an empty token file")
	}

	bad := filepath.Join(dir, "bad")
	if err := os.WriteFile(bad, []byte("two words"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, _, err := ResolveAuthToken("", "", bad); err == nil {
		t.Error("Expected an error for a token containing whitespace")
	}
}

func TestResolveAuthToken_NoSource(t *testing.T) {
	t.Setenv("LINKBATCH_TOKEN", "")
	token, source, err := ResolveAuthToken("", "", "")
	if err != nil {
		t.Fatalf("ResolveAuthToken: %v", err)
	}
	if token != "" || source != "" {
		t.Fatalf("Expected no token, got %q from %s", token, source)
	}
}
