package app

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog/log"

	"globe_atlas/internal/adapters/observability"
	"globe_atlas/internal/domain"
	"globe_atlas/internal/geo"
)

// Scene is the globe as the renderer sees it: a texture and the marker table.
// Load runs once; until it succeeds, clicks are not resolved.
type Scene struct {
	cat     *domain.Catalogue
	radius  float64
	assets  fs.FS
	texture string

	once    sync.Once
	loadErr error
	ready   atomic.Bool

	// set before ready flips, read-only afterwards
	table geo.MarkerTable
	img   []byte
}

func NewScene(cat *domain.Catalogue, radius float64, assets fs.FS, texture string) *Scene {
	if radius <= 0 {
		radius = geo.DefaultRadius
	}
	return &Scene{cat: cat, radius: radius, assets: assets, texture: texture}
}

// Load reads the texture and builds the marker table. Later calls return the
// first call's result. A failed load leaves the scene not ready for good.
func (s *Scene) Load(ctx context.Context) error {
	s.once.Do(func() {
		s.loadErr = s.load(ctx)
		if s.loadErr != nil {
			log.Error().Err(s.loadErr).Str("texture", s.texture).Msg("globe scene failed to load")
			return
		}
		s.ready.Store(true)
		observability.SetSceneReady(true)
		log.Info().Int("markers", s.table.Len()).Float64("radius", s.radius).Msg("globe scene ready")
	})
	return s.loadErr
}

func (s *Scene) load(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	img, err := fs.ReadFile(s.assets, s.texture)
	if err != nil {
		return fmt.Errorf("load texture: %w", err)
	}
	if len(img) == 0 {
		return fmt.Errorf("load texture %s: empty file", s.texture)
	}

	all := s.cat.All()
	pts := make([]geo.Placement, len(all))
	for i, l := range all {
		pts[i] = geo.Placement{ID: l.ID, Lat: l.Position.Lat, Lng: l.Position.Lng}
	}
	s.table = geo.BuildMarkers(pts, s.radius)
	s.img = img
	return nil
}

func (s *Scene) Ready() bool { return s.ready.Load() }

func (s *Scene) Radius() float64 { return s.radius }

// Markers is the published marker table.
func (s *Scene) Markers() (geo.MarkerTable, error) {
	if !s.ready.Load() {
		return geo.MarkerTable{}, domain.ErrNotReady
	}
	return s.table, nil
}

// Texture is the globe image once loaded.
func (s *Scene) Texture() ([]byte, error) {
	if !s.ready.Load() {
		return nil, domain.ErrNotReady
	}
	return bytes.Clone(s.img), nil
}

func (s *Scene) TextureName() string { return s.texture }
