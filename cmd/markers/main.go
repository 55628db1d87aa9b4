// Command markers writes the globe's marker table for the renderer's build
// step, as JSON, GeoJSON, or the normalized catalogue itself.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"globe_atlas/internal/adapters/lru"
	"globe_atlas/internal/app"
	"globe_atlas/internal/domain"
	"globe_atlas/internal/geo"
	"globe_atlas/internal/storage/embedded"
)

func main() {
	format := flag.String("format", "json", "output format: json|geojson|catalogue")
	out := flag.String("out", "", "output file (default stdout)")
	path := flag.String("catalogue", "", "catalogue JSON file (default embedded)")
	radius := flag.Float64("radius", geo.DefaultRadius, "globe radius")
	flag.Parse()

	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var src domain.CatalogueSource = embedded.New()
	if *path != "" {
		src = embedded.NewFromFile(*path)
	}
	cat, err := src.Load(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("catalogue load failed")
	}

	scene := app.NewScene(cat, *radius, embedded.Assets(), embedded.TexturePath)
	if err := scene.Load(ctx); err != nil {
		log.Fatal().Err(err).Msg("scene load failed")
	}
	q := app.NewQueryService(cat, scene, lru.New(1), nil, 0)

	var body []byte
	switch *format {
	case "json":
		ms, err := q.Markers(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("markers failed")
		}
		body, err = json.MarshalIndent(map[string]any{"radius": scene.Radius(), "markers": ms}, "", "  ")
		if err != nil {
			log.Fatal().Err(err).Msg("encode failed")
		}
	case "geojson":
		body, err = q.MarkersGeoJSON(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("geojson failed")
		}
	case "catalogue":
		body, err = embedded.Encode(cat)
		if err != nil {
			log.Fatal().Err(err).Msg("encode failed")
		}
	default:
		log.Fatal().Str("format", *format).Msg("unknown format")
	}
	body = append(body, '\n')

	if *out == "" {
		if _, err := os.Stdout.Write(body); err != nil {
			log.Fatal().Err(err).Msg("write failed")
		}
		return
	}
	if err := os.WriteFile(*out, body, 0o644); err != nil {
		log.Fatal().Err(err).Str("out", *out).Msg("write failed")
	}
	log.Info().Str("out", *out).Str("format", *format).Int("markers", cat.Len()).Msg("markers written")
}
