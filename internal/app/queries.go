package app

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"globe_atlas/internal/domain"
	"globe_atlas/internal/geo"
	"globe_atlas/internal/page"
)

const (
	DefaultPageLimit = 50
	MaxPageLimit     = 200
)

type QueryService struct {
	cat      *domain.Catalogue
	scene    *Scene
	cache    domain.Cache
	tz       domain.TimezoneFinder
	cacheTTL time.Duration
}

// NewQueryService wires the read side. tz may be nil to skip timezone lookups.
func NewQueryService(cat *domain.Catalogue, scene *Scene, c domain.Cache, tz domain.TimezoneFinder, ttl time.Duration) *QueryService {
	return &QueryService{cat: cat, scene: scene, cache: c, tz: tz, cacheTTL: ttl}
}

func (s *QueryService) ListLocations(ctx context.Context, q domain.LocationsQuery) (domain.LocationsPage, error) {
	limit := q.Limit
	if limit == 0 {
		limit = DefaultPageLimit
	}
	if limit < 0 || limit > MaxPageLimit {
		return domain.LocationsPage{}, fmt.Errorf("%w: limit must be between 1 and %d", domain.ErrInvalidInput, MaxPageLimit)
	}
	offset := 0
	if q.Cursor != nil && *q.Cursor != "" {
		n, err := strconv.Atoi(*q.Cursor)
		if err != nil || n < 0 {
			return domain.LocationsPage{}, fmt.Errorf("%w: bad cursor %q", domain.ErrInvalidInput, *q.Cursor)
		}
		offset = n
	}

	all := s.cat.Filter(q)
	out := domain.LocationsPage{Items: []domain.LocationView{}, Total: len(all)}
	if offset >= len(all) {
		return out, nil
	}
	end := min(offset+limit, len(all))
	for _, l := range all[offset:end] {
		out.Items = append(out.Items, mapLocation(l, s.scene.Radius(), nil))
	}
	if end < len(all) {
		next := strconv.Itoa(end)
		out.NextCursor = &next
	}
	return out, nil
}

func (s *QueryService) GetLocation(ctx context.Context, id string) (domain.LocationView, error) {
	key := "location:" + s.cat.Fingerprint() + ":" + id
	var lv domain.LocationView
	if ok, err := s.cache.Get(ctx, key, &lv); ok && err == nil {
		return lv, nil
	}
	l, ok := s.cat.ByID(id)
	if !ok {
		return domain.LocationView{}, fmt.Errorf("location %q: %w", id, domain.ErrNotFound)
	}
	lv = mapLocation(l, s.scene.Radius(), s.tz)
	_ = s.cache.Set(ctx, key, lv, int(s.cacheTTL.Seconds()))
	return lv, nil
}

// Gallery returns image index of a location, wrapping out-of-range indexes.
func (s *QueryService) Gallery(ctx context.Context, id string, index int) (domain.GalleryView, error) {
	l, ok := s.cat.ByID(id)
	if !ok {
		return domain.GalleryView{}, fmt.Errorf("location %q: %w", id, domain.ErrNotFound)
	}
	n := len(l.Images)
	i := page.Step(index, 0, n)
	return domain.GalleryView{
		LocationID: l.ID,
		Index:      i,
		Total:      n,
		Image:      l.Images[i],
		Prev:       page.Step(i, -1, n),
		Next:       page.Step(i, 1, n),
	}, nil
}

func (s *QueryService) Regions(ctx context.Context) []string { return s.cat.Regions() }

// Markers is the marker table handed to the renderer. It is only available
// once the scene is ready.
func (s *QueryService) Markers(ctx context.Context) ([]domain.MarkerView, error) {
	table, err := s.scene.Markers()
	if err != nil {
		return nil, err
	}
	rows := table.Markers()
	out := make([]domain.MarkerView, len(rows))
	for i, m := range rows {
		l, _ := s.cat.At(m.Index)
		out[i] = mapMarker(m, l)
	}
	return out, nil
}

// MarkersGeoJSON renders the marker table as a FeatureCollection of points.
func (s *QueryService) MarkersGeoJSON(ctx context.Context) ([]byte, error) {
	ms, err := s.Markers(ctx)
	if err != nil {
		return nil, err
	}
	fc := geojson.NewFeatureCollection()
	for _, m := range ms {
		f := geojson.NewFeature(orb.Point{m.Coords.Lng, m.Coords.Lat})
		f.ID = m.ID
		caption, icon := page.Caption(m.Category)
		f.Properties["index"] = m.Index
		f.Properties["name"] = m.Name
		f.Properties["category"] = string(m.Category)
		f.Properties["caption"] = caption
		f.Properties["icon"] = icon
		f.Properties["position"] = []float64{m.Position.X, m.Position.Y, m.Position.Z}
		fc.Append(f)
	}
	return fc.MarshalJSON()
}

// Project places a coordinate on a globe of the given radius; radius 0 means
// the scene's radius.
func (s *QueryService) Project(c domain.Coords, radius float64) (domain.Point3, error) {
	if !c.Valid() {
		return domain.Point3{}, fmt.Errorf("%w: coordinates out of range", domain.ErrInvalidInput)
	}
	if radius == 0 {
		radius = s.scene.Radius()
	}
	if radius < 0 || math.IsNaN(radius) || math.IsInf(radius, 0) {
		return domain.Point3{}, fmt.Errorf("%w: radius must be positive", domain.ErrInvalidInput)
	}
	return point3(geo.ToSpherePosition(c.Lat, c.Lng, radius)), nil
}

// NearestTo finds the catalogued location closest to c along the surface.
// Ties go to the earlier catalogue entry.
func (s *QueryService) NearestTo(ctx context.Context, c domain.Coords) (domain.NearestView, error) {
	if !c.Valid() {
		return domain.NearestView{}, fmt.Errorf("%w: coordinates out of range", domain.ErrInvalidInput)
	}
	best, bestKm := -1, 0.0
	all := s.cat.All()
	for i, l := range all {
		d := geo.GreatCircleKm(c.Lat, c.Lng, l.Position.Lat, l.Position.Lng)
		if best < 0 || d < bestKm {
			best, bestKm = i, d
		}
	}
	if best < 0 {
		return domain.NearestView{}, fmt.Errorf("empty catalogue: %w", domain.ErrNotFound)
	}
	return domain.NearestView{
		Location:   mapLocation(all[best], s.scene.Radius(), s.tz),
		DistanceKm: bestKm,
	}, nil
}

type PageView struct {
	State    page.State           `json:"state"`
	Selected *domain.LocationView `json:"selected,omitempty"`
	Image    string               `json:"image,omitempty"`
	Visible  []string             `json:"visible"`
}

// ApplyPage runs one page transition and describes the result.
func (s *QueryService) ApplyPage(ctx context.Context, st page.State, action, value string) (PageView, error) {
	next, err := st.Apply(s.cat, action, value)
	if err != nil {
		return PageView{}, err
	}
	out := PageView{State: next, Visible: []string{}}
	if next.Selected != "" {
		lv, err := s.GetLocation(ctx, next.Selected)
		if err != nil {
			return PageView{}, err
		}
		out.Selected = &lv
		out.Image, _ = next.CurrentImage(s.cat)
	}
	for _, l := range next.Visible(s.cat) {
		out.Visible = append(out.Visible, l.ID)
	}
	return out, nil
}
