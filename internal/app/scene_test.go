package app_test

import (
	"context"
	"errors"
	"io/fs"
	"testing"
	"testing/fstest"

	"globe_atlas/internal/app"
	"globe_atlas/internal/domain"
)

func TestScene_NotReadyUntilLoaded(t *testing.T) {
	s := app.NewScene(testCatalogue(t), 5, textures, "globe.svg")
	if s.Ready() {
		t.Fatalf("ready before load")
	}
	if _, err := s.Markers(); !errors.Is(err, domain.ErrNotReady) {
		t.Fatalf("expected ErrNotReady, got %v", err)
	}
	if _, err := s.Texture(); !errors.Is(err, domain.ErrNotReady) {
		t.Fatalf("expected ErrNotReady, got %v", err)
	}

	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	table, err := s.Markers()
	if err != nil || table.Len() != 3 {
		t.Fatalf("markers: len=%d err=%v", table.Len(), err)
	}
	if img, _ := s.Texture(); string(img) != "<svg/>" {
		t.Fatalf("texture = %q", img)
	}
}

func TestScene_FailedTextureStaysNotReady(t *testing.T) {
	s := app.NewScene(testCatalogue(t), 5, fstest.MapFS{}, "globe.svg")
	err := s.Load(context.Background())
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected ErrNotExist, got %v", err)
	}
	if s.Ready() {
		t.Fatalf("scene must stay not ready")
	}
	// at most once: a second call does not retry
	if err2 := s.Load(context.Background()); err2 != err {
		t.Fatalf("second load returned %v", err2)
	}
}

func TestScene_LoadsOnceUnderConcurrency(t *testing.T) {
	s := app.NewScene(testCatalogue(t), 0, textures, "globe.svg")
	if s.Radius() != 5 {
		t.Fatalf("default radius = %v", s.Radius())
	}
	done := make(chan error)
	for i := 0; i < 16; i++ {
		go func() { done <- s.Load(context.Background()) }()
	}
	for i := 0; i < 16; i++ {
		if err := <-done; err != nil {
			t.Fatalf("load: %v", err)
		}
	}
	if !s.Ready() {
		t.Fatalf("not ready after concurrent loads")
	}
}

func TestScene_CancelledLoad(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := app.NewScene(testCatalogue(t), 5, textures, "globe.svg")
	if err := s.Load(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
