package observability_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"globe_atlas/internal/adapters/observability"
)

func TestMetricsRegistryAndHandler(t *testing.T) {
	reg := observability.InitRegistry()

	// record samples so the vectors show up
	observability.ObserveHTTP("/test", "GET", 200, 12*time.Millisecond)
	observability.ObserveResolve("hit", 40*time.Microsecond)
	observability.ObserveCache("lru", "miss")
	observability.SetCatalogueSize(10)
	observability.SetSceneReady(true)

	mh := observability.MetricsHandler(reg)
	req := httptest.NewRequest("GET", "/metrics", nil)
	rr := httptest.NewRecorder()
	mh.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("metrics status: %d", rr.Code)
	}
	body, _ := io.ReadAll(rr.Body)
	out := string(body)
	for _, want := range []string{
		"globe_http_requests_total",
		`globe_resolve_total{outcome="hit"}`,
		`globe_cache_events_total{cache="lru",event="miss"}`,
		"globe_catalogue_locations 10",
		"globe_scene_ready 1",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %s in output", want)
		}
	}
}

func TestNewLogger_Level(t *testing.T) {
	if l := observability.NewLogger("prod", "debug"); l.GetLevel().String() != "debug" {
		t.Fatalf("level = %s", l.GetLevel())
	}
	if l := observability.NewLogger("dev", "nonsense"); l.GetLevel().String() != "info" {
		t.Fatalf("fallback level = %s", l.GetLevel())
	}
}

func TestServe_DisabledWithoutAddr(t *testing.T) {
	if srv := observability.Serve("", observability.InitRegistry()); srv != nil {
		t.Fatalf("expected nil server")
	}
}
