package app_test

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"testing/fstest"
	"time"

	"globe_atlas/internal/app"
	"globe_atlas/internal/domain"
)

// ---- fakes ----

// fakeCache round-trips through JSON like the real adapters do.
type fakeCache struct {
	mu    sync.Mutex
	store map[string][]byte
	sets  int
}

func (c *fakeCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.store[key]
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(b, dst); err != nil {
		return false, err
	}
	return true, nil
}

// corrupt overwrites every stored entry with bytes no view decodes from.
func (c *fakeCache) corrupt() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.store {
		c.store[k] = []byte(`{"hit":"yes"`)
	}
}

func (c *fakeCache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.store == nil {
		c.store = map[string][]byte{}
	}
	c.store[key] = b
	c.sets++
	return nil
}

func (c *fakeCache) Del(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.store, key)
	return nil
}

type fakeTZ struct{ calls int }

func (f *fakeTZ) TimezoneName(lat, lng float64) string {
	f.calls++
	if lng > 20 {
		return "Europe/Moscow"
	}
	return "Europe/Paris"
}

// ---- fixtures ----

func testCatalogue(t *testing.T) *domain.Catalogue {
	t.Helper()
	pop := int64(13010112)
	c, err := domain.NewCatalogue([]domain.Location{
		{ID: "moscow", Name: "Москва", Category: domain.CategoryCity, Region: "Европа",
			Position: domain.Coords{Lat: 55.7558, Lng: 37.6173}, Images: []string{"m0", "m1", "m2"},
			Facts: []string{"Основана в 1147 году"}, Population: &pop},
		{ID: "paris", Name: "Париж", Category: domain.CategoryCity, Region: "Европа",
			Position: domain.Coords{Lat: 48.8566, Lng: 2.3522}, Images: []string{"p0", "p1"}},
		{ID: "amazon", Name: "Амазонка", Category: domain.CategoryRiver, Region: "Южная Америка",
			Position: domain.Coords{Lat: -3.4653, Lng: -58.38}, Images: []string{"a0"}},
	})
	if err != nil {
		t.Fatalf("catalogue: %v", err)
	}
	return c
}

var textures = fstest.MapFS{"globe.svg": {Data: []byte("<svg/>")}}

func readyScene(t *testing.T, cat *domain.Catalogue) *app.Scene {
	t.Helper()
	s := app.NewScene(cat, 5, textures, "globe.svg")
	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("scene load: %v", err)
	}
	return s
}

const ttl = 10 * time.Minute
