package embedded

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"globe_atlas/internal/domain"
)

//go:embed data/catalogue.json assets
var files embed.FS

// TexturePath is the globe texture inside Assets().
const TexturePath = "globe.svg"

// Source reads the catalogue from a JSON file in an fs.FS.
type Source struct {
	fsys fs.FS
	path string
}

// New serves the catalogue compiled into the binary.
func New() *Source { return &Source{fsys: files, path: "data/catalogue.json"} }

// NewFromFile reads the catalogue from a file on disk instead.
func NewFromFile(path string) *Source {
	return &Source{fsys: os.DirFS(filepath.Dir(path)), path: filepath.Base(path)}
}

func NewFS(fsys fs.FS, path string) *Source { return &Source{fsys: fsys, path: path} }

// Assets exposes the embedded static assets (globe texture).
func Assets() fs.FS {
	sub, err := fs.Sub(files, "assets")
	if err != nil {
		// only fails on an invalid path literal
		panic(err)
	}
	return sub
}

func (s *Source) Load(ctx context.Context) (*domain.Catalogue, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	raw, err := fs.ReadFile(s.fsys, s.path)
	if err != nil {
		return nil, fmt.Errorf("read catalogue %s: %w", s.path, err)
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	var recs []record
	if err := dec.Decode(&recs); err != nil {
		return nil, fmt.Errorf("decode catalogue %s: %w", s.path, err)
	}

	items := make([]domain.Location, len(recs))
	for i, r := range recs {
		items[i] = r.toDomain()
	}
	cat, err := domain.NewCatalogue(items)
	if err != nil {
		return nil, err
	}
	log.Info().Str("path", s.path).Int("locations", cat.Len()).Msg("catalogue loaded")
	return cat, nil
}

// Encode writes a catalogue back in the on-disk format.
func Encode(cat *domain.Catalogue) ([]byte, error) {
	all := cat.All()
	recs := make([]record, len(all))
	for i, l := range all {
		recs[i] = fromDomain(l)
	}
	return json.MarshalIndent(recs, "", "  ")
}
