package tools_test

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/hallagren/vaultgate/internal/vault"
)

func newTestVault(t *testing.T) *vault.Vault {
	t.Helper()
	root := t.TempDir()
	// Normalize root to avoid /var vs /private/var mismatches on macOS
	if r, err := filepath.EvalSymlinks(root); err == nil {
		root = r
	}
	v, err := vault.New(root, "")
	if err != nil {
		t.Fatalf("vault.New: %v", err)
	}
	return v
}

// call marshals in and invokes the tool function.
func call(t *testing.T, fn func(json.RawMessage) (string, error), in any) (string, error) {
	t.Helper()
	b, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("marshal input: %v", err)
	}
	return fn(b)
}
