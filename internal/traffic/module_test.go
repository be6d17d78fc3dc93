package traffic

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/hyakkun/data-dashboard/internal/pkg/pkgrouter"
	"github.com/hyakkun/data-dashboard/internal/pkg/pkgroutine"
	"github.com/hyakkun/data-dashboard/internal/pkg/pkguid"
)

type mapConfig map[string]string

func (c mapConfig) GetInt(key string) int64 {
	n, _ := strconv.ParseInt(c[key], 10, 64)
	return n
}

func (c mapConfig) GetBool(key string) bool {
	b, _ := strconv.ParseBool(c[key])
	return b
}

func (c mapConfig) GetString(key string) string { return c[key] }

func (c mapConfig) GetDuration(key string) time.Duration {
	d, _ := time.ParseDuration(c[key])
	return d
}

func (c mapConfig) GetArray(key string) []string { return nil }
func (c mapConfig) Close() error { return nil }

func TestNewWiresModuleAndSweepsOrphans(t *testing.T) {
	dir := t.TempDir()
	blobDir := filepath.Join(dir, "blobs")
	if err := os.MkdirAll(blobDir, 0o750); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(blobDir, "stray"), []byte("x"), 0o600); err != nil {
		t.Fatalf("write stray blob: %v", err)
	}

	cfg := mapConfig{
		"store.driver":            "sqlite",
		"store.dsn":               filepath.Join(dir, "meta.db"),
		"blob.driver":             "local",
		"blob.local.dir":          blobDir,
		"janitor.workers":         "1",
		"janitor.max_retries":     "1",
		"janitor.base_backoff_ms": "1",
		"janitor.sweep_on_start":  "true",
	}

	runner := pkgroutine.NewManager(4)
	router := pkgrouter.NewRouter(pkguid.NewUUID())

	closer, err := New(Dependency{
		Config:    cfg,
		Goroutine: runner,
		Router:    router,
		Context:   context.Background(),
	})
	if err != nil {
		t.Fatalf("New() err = %v", err)
	}

	if err := runner.Wait(); err != nil {
		t.Fatalf("sweep err = %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for {
		if _, err := os.Stat(filepath.Join(blobDir, "stray")); os.IsNotExist(err) {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("stray blob was not removed")
		}
		time.Sleep(10 * time.Millisecond)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/files", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /files status = %d", rec.Code)
	}

	if err := closer(context.Background()); err != nil {
		t.Fatalf("closer() err = %v", err)
	}
}

func TestNewRejectsUnknownDrivers(t *testing.T) {
	router := pkgrouter.NewRouter(pkguid.NewUUID())

	if _, err := New(Dependency{Config: mapConfig{"store.driver": "mysql"}, Router: router}); err == nil {
		t.Fatal("New() expected error for unknown store driver")
	}
	if _, err := New(Dependency{Config: mapConfig{"blob.driver": "ftp"}, Router: router}); err == nil {
		t.Fatal("New() expected error for unknown blob driver")
	}
}

func TestOptionsZone(t *testing.T) {
	tests := []struct {
		offset string
		name   string
		secs   int
	}{
		{offset: "", name: "UTC+9", secs: 9 * 3600},
		{offset: "9h", name: "UTC+9", secs: 9 * 3600},
		{offset: "0s", name: "UTC+0", secs: 0},
		{offset: "-3h30m", name: "UTC-3:30", secs: -(3*3600 + 1800)},
	}

	for _, tt := range tests {
		opts, err := options(mapConfig{"summary.utc_offset": tt.offset})
		if err != nil {
			t.Fatalf("options(%q) err = %v", tt.offset, err)
		}
		name, secs := time.Date(2025, 1, 1, 0, 0, 0, 0, opts.Zone).Zone()
		if name != tt.name || secs != tt.secs {
			t.Fatalf("options(%q) zone = %s %d, want %s %d", tt.offset, name, secs, tt.name, tt.secs)
		}
	}

	if _, err := options(mapConfig{"summary.utc_offset": "20h"}); err == nil {
		t.Fatal("options(20h) expected error")
	}
}
