package sheets

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func TestValues(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("key"); got != "test-key" {
			t.Errorf("key query param = %q, want test-key", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"range":"Predictions!A1:Z","values":[["Matchup","Line"],["A vs B",7],["C vs D","3.5"]]}`))
	}))
	defer srv.Close()

	client := New(srv.URL, "sheet-id", &Credentials{APIKey: "test-key"})

	grid, err := client.Values(context.Background(), "Predictions!A1:Z")
	if err != nil {
		t.Fatalf("Values returned error: %v", err)
	}

	if len(grid) != 3 {
		t.Fatalf("grid has %d rows, want 3", len(grid))
	}
	// Numeric cells come back as minimal decimal strings.
	if grid[1][1] != "7" {
		t.Errorf("numeric cell = %q, want %q", grid[1][1], "7")
	}
	if grid[2][1] != "3.5" {
		t.Errorf("string cell = %q, want %q", grid[2][1], "3.5")
	}
}

func TestValuesNonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "forbidden", http.StatusForbidden)
	}))
	defer srv.Close()

	client := New(srv.URL, "sheet-id", &Credentials{APIKey: "k"})

	if _, err := client.Values(context.Background(), "Predictions!A1:Z"); err == nil {
		t.Error("Values should fail on non-2xx status")
	}
}

func TestResolveCredentialsFromEnv(t *testing.T) {
	t.Setenv(EnvCredentials, `{"api_key":"env-key"}`)

	creds, err := ResolveCredentials("does-not-exist.json")
	if err != nil {
		t.Fatalf("ResolveCredentials returned error: %v", err)
	}
	if creds.APIKey != "env-key" {
		t.Errorf("APIKey = %q, want env-key", creds.APIKey)
	}
}

func TestResolveCredentialsFromFile(t *testing.T) {
	t.Setenv(EnvCredentials, "")

	path := filepath.Join(t.TempDir(), "credentials.json")
	if err := os.WriteFile(path, []byte(`{"api_key":"file-key"}`), 0o600); err != nil {
		t.Fatal(err)
	}

	creds, err := ResolveCredentials(path)
	if err != nil {
		t.Fatalf("ResolveCredentials returned error: %v", err)
	}
	if creds.APIKey != "file-key" {
		t.Errorf("APIKey = %q, want file-key", creds.APIKey)
	}
}

func TestResolveCredentialsBothPathsFail(t *testing.T) {
	t.Setenv(EnvCredentials, "")

	if _, err := ResolveCredentials(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("ResolveCredentials should fail when env is empty and the file is missing")
	}
}

func TestResolveCredentialsMissingAPIKey(t *testing.T) {
	t.Setenv(EnvCredentials, `{"other":"x"}`)

	if _, err := ResolveCredentials(""); err == nil {
		t.Error("ResolveCredentials should reject credentials without api_key")
	}
}
