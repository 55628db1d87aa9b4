package embedded_test

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"globe_atlas/internal/domain"
	"globe_atlas/internal/storage/embedded"
)

func TestLoad_EmbeddedCatalogue(t *testing.T) {
	cat, err := embedded.New().Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cat.Len() != 10 {
		t.Fatalf("expected 10 locations, got %d", cat.Len())
	}
	first, _ := cat.At(0)
	if first.ID != "moscow" || first.Position.Lat != 55.7558 || first.Position.Lng != 37.6173 {
		t.Fatalf("unexpected first entry %+v", first)
	}
	counts := map[domain.Category]int{}
	for _, l := range cat.All() {
		counts[l.Category]++
	}
	for _, c := range domain.Categories {
		if counts[c] == 0 {
			t.Errorf("no %s in catalogue", c)
		}
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr error
		wantMsg string
	}{
		{"broken json", `[{"id":`, nil, "decode catalogue"},
		{"unknown field", `[{"id":"a","colour":"red"}]`, nil, "unknown field"},
		{"invalid record", `[{"id":"a","name":"A","type":"lake","coordinates":{"lat":0,"lng":0},"images":["x"]}]`,
			domain.ErrInvalidCatalogue, "unknown category"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fsys := fstest.MapFS{"c.json": {Data: []byte(tt.body)}}
			_, err := embedded.NewFS(fsys, "c.json").Load(context.Background())
			if err == nil {
				t.Fatalf("expected error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Fatalf("error %q does not mention %q", err, tt.wantMsg)
			}
		})
	}

	_, err := embedded.NewFS(fstest.MapFS{}, "missing.json").Load(context.Background())
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected ErrNotExist, got %v", err)
	}
}

func TestLoad_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := embedded.New().Load(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestEncode_RoundTripsThroughFile(t *testing.T) {
	cat, err := embedded.New().Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	b, err := embedded.Encode(cat)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	path := filepath.Join(t.TempDir(), "catalogue.json")
	if err := os.WriteFile(path, b, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	again, err := embedded.NewFromFile(path).Load(context.Background())
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if again.Len() != cat.Len() {
		t.Fatalf("len %d vs %d", again.Len(), cat.Len())
	}
	a, _ := cat.ByID("moscow")
	z, _ := again.ByID("moscow")
	if a.Name != z.Name || *a.Population != *z.Population || len(a.Facts) != len(z.Facts) || a.FlagImage != z.FlagImage {
		t.Fatalf("round trip changed moscow: %+v vs %+v", a, z)
	}
}

func TestAssets_HasTexture(t *testing.T) {
	b, err := fs.ReadFile(embedded.Assets(), embedded.TexturePath)
	if err != nil {
		t.Fatalf("read texture: %v", err)
	}
	if !strings.Contains(string(b), "<svg") {
		t.Fatalf("texture does not look like svg")
	}
}
