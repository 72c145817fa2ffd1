package internal

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/starford/secondbrain/internal/storage"
	"github.com/starford/secondbrain/internal/testutil"
)

func testApp(t *testing.T, cfg *Config) *application {
	t.Helper()
	app, err := newApplication([]Option{WithConfig(cfg), WithLogger(testutil.Logger())})
	if err != nil {
		t.Fatal(err)
	}
	return app
}

func TestNewApplication_ConfigRequired(t *testing.T) {
	if _, err := newApplication(nil); !errors.Is(err, errConfigRequired) {
		t.Fatalf("err = %v, want errConfigRequired", err)
	}
}

func TestOpenProvider_Drivers(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name string
		cfg  StorageConfig
		want string
	}{
		{"markdown", StorageConfig{Driver: DriverMarkdown, Path: filepath.Join(dir, "vault")}, "*storage.Markdown"},
		{"sqlite", StorageConfig{Driver: DriverSQLite, Path: filepath.Join(dir, "notes.db")}, "*storage.SQLite"},
		{"memory", StorageConfig{Driver: DriverMemory}, "*storage.Memory"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, closeFn, err := openProvider(tt.cfg)
			if err != nil {
				t.Fatalf("openProvider: %v", err)
			}
			defer closeFn()

			var got string
			switch p.(type) {
			case *storage.Markdown:
				got = "*storage.Markdown"
			case *storage.SQLite:
				got = "*storage.SQLite"
			case *storage.Memory:
				got = "*storage.Memory"
			}
			if got != tt.want {
				t.Errorf("provider = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestOpenProvider_UnknownDriver(t *testing.T) {
	if _, _, err := openProvider(StorageConfig{Driver: "tape"}); err == nil {
		t.Fatal("unknown driver should fail")
	}
}

func TestOpenService_SeedsEmptyVault(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Storage.Path = filepath.Join(t.TempDir(), "vault")

	svc, closeFn, err := openService(context.Background(), testApp(t, cfg))
	if err != nil {
		t.Fatalf("openService: %v", err)
	}
	defer closeFn()

	if got := len(svc.Notes(context.Background())); got != 3 {
		t.Fatalf("notes = %d, want 3 demo notes", got)
	}
	entries, err := os.ReadDir(cfg.Storage.Path)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 3 {
		t.Errorf("vault files = %d, want 3", len(entries))
	}
	if svc.PageSize() != cfg.Notes.PageSize {
		t.Errorf("page size = %d, want %d", svc.PageSize(), cfg.Notes.PageSize)
	}
}

func TestOpenService_NoSeed(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Storage = StorageConfig{Driver: DriverMemory}
	cfg.Notes.SeedDemo = false

	svc, closeFn, err := openService(context.Background(), testApp(t, cfg))
	if err != nil {
		t.Fatalf("openService: %v", err)
	}
	defer closeFn()

	if got := len(svc.Notes(context.Background())); got != 0 {
		t.Errorf("notes = %d, want 0", got)
	}
}

func TestHealthHandler(t *testing.T) {
	w := httptest.NewRecorder()
	healthHandler(w, httptest.NewRequest(http.MethodGet, "/health/live", nil))

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
	if got := w.Body.String(); got != `{"status":"ok"}` {
		t.Errorf("body = %q", got)
	}
}
