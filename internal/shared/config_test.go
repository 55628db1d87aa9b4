package shared

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())
	c, err := Load()
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if c.HTTPAddr != ":8080" || c.GlobeRadius != 5 || c.CacheTTL != 15*time.Minute || c.RedisAddr != "" {
		t.Fatalf("unexpected defaults %+v", c)
	}
	if !c.TimezonesEnabled || !slices.Equal(c.CORSOrigins, []string{"*"}) {
		t.Fatalf("unexpected defaults %+v", c)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	yaml := "HTTP_ADDR: \":9090\"\nGLOBE_RADIUS: 2.5\nRESOLVE_WORKERS: 3\n"
	if err := os.WriteFile(filepath.Join(dir, "globe.yaml"), []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("RESOLVE_WORKERS", "12")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("TIMEZONES_ENABLED", "false")

	c, err := Load()
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if c.HTTPAddr != ":9090" || c.GlobeRadius != 2.5 {
		t.Fatalf("file values not applied: %+v", c)
	}
	if c.ResolveWorkers != 12 || c.TimezonesEnabled {
		t.Fatalf("env values not applied: %+v", c)
	}
	if !slices.Equal(c.CORSOrigins, []string{"https://a.example", "https://b.example"}) {
		t.Fatalf("origins = %v", c.CORSOrigins)
	}
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("CACHE_CAPACITY=77\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	// registered so the variable godotenv sets is removed after the test
	t.Setenv("CACHE_CAPACITY", "")
	os.Unsetenv("CACHE_CAPACITY")

	c, err := Load()
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if c.CacheCapacity != 77 {
		t.Fatalf("capacity = %d", c.CacheCapacity)
	}
}

func TestLoad_RejectsBadValues(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("GLOBE_RADIUS", "-1")
	t.Setenv("RESOLVE_RPS", "0")
	_, err := Load()
	if err == nil {
		t.Fatalf("expected error")
	}
	for _, want := range []string{"GLOBE_RADIUS", "RESOLVE_RPS"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error does not mention %s: %v", want, err)
		}
	}
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (equivalent of testing.T.Chdir, added in Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatal(err)
		}
	})
}
