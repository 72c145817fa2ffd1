// Package testutil provides shared test helpers for setting up vaults and services.
package testutil

import (
	"io"
	"log/slog"
	"testing"

	"github.com/starford/secondbrain/internal/noteservice"
	"github.com/starford/secondbrain/internal/notestore"
	"github.com/starford/secondbrain/internal/storage"
)

// Logger returns a JSON logger that writes nowhere.
func Logger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

// TestVault creates a temporary vault directory with a Markdown provider.
func TestVault(t *testing.T) (string, *storage.Markdown) {
	t.Helper()
	vaultDir := t.TempDir()
	provider, err := storage.NewMarkdown(vaultDir)
	if err != nil {
		t.Fatal(err)
	}
	return vaultDir, provider
}

// TestService builds a service over an empty store. A nil provider means
// in-memory persistence.
func TestService(t *testing.T, provider storage.Provider, opts ...noteservice.Option) *noteservice.Service {
	t.Helper()
	if provider == nil {
		provider = storage.NewMemory()
	}
	return noteservice.NewService(notestore.New(), provider, Logger(), opts...)
}
