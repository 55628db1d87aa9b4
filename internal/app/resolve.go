package app

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"
	"golang.org/x/sync/singleflight"

	"globe_atlas/internal/adapters/observability"
	"globe_atlas/internal/domain"
	"globe_atlas/internal/geo"
)

// MaxBatch caps the number of clicks in one ResolveBatch call.
const MaxBatch = 64

type ResolveService struct {
	scene    *Scene
	cat      *domain.Catalogue
	cache    domain.Cache
	cacheTTL time.Duration
	workers  int64
	group    singleflight.Group
}

func NewResolveService(scene *Scene, cat *domain.Catalogue, c domain.Cache, ttl time.Duration, workers int) *ResolveService {
	if workers <= 0 {
		workers = 4
	}
	return &ResolveService{scene: scene, cat: cat, cache: c, cacheTTL: ttl, workers: int64(workers)}
}

// ResolveClick turns one click into the catalogued location under it, if any.
// Identical concurrent clicks share a single computation.
func (s *ResolveService) ResolveClick(ctx context.Context, q domain.ClickQuery) (domain.ResolveResult, error) {
	start := time.Now()
	table, err := s.scene.Markers()
	if err != nil {
		observability.ObserveResolve("not_ready", time.Since(start))
		return domain.ResolveResult{}, err
	}
	ray, err := rayFor(q)
	if err != nil {
		observability.ObserveResolve("invalid", time.Since(start))
		return domain.ResolveResult{}, err
	}

	key := clickKey(s.cat.Fingerprint(), ray, table.Radius())
	var res domain.ResolveResult
	// a decode error is a miss; the fresh answer overwrites the entry
	if ok, err := s.cache.Get(ctx, key, &res); !ok || err != nil {
		v, _, _ := s.group.Do(key, func() (any, error) {
			r := s.resolve(ray, table)
			_ = s.cache.Set(ctx, key, r, int(s.cacheTTL.Seconds()))
			return r, nil
		})
		res = v.(domain.ResolveResult)
	}

	outcome := "miss"
	if res.Hit {
		outcome = "hit"
	}
	observability.ObserveResolve(outcome, time.Since(start))
	return res, nil
}

func (s *ResolveService) resolve(ray geo.Ray, table geo.MarkerTable) domain.ResolveResult {
	surface, ok := geo.IntersectSphere(ray, table.Radius())
	if !ok {
		return domain.ResolveResult{}
	}
	lat, lng := geo.FromSpherePosition(surface)
	p := point3(surface)
	out := domain.ResolveResult{Surface: &p, At: &domain.Coords{Lat: lat, Lng: lng}}

	r, ok := geo.Resolve(ray, table)
	if !ok {
		return out
	}
	l, _ := s.cat.At(r.Marker.Index)
	mv := mapMarker(r.Marker, l)
	out.Hit = true
	out.Marker = &mv
	out.Distance = r.Distance
	return out
}

// ResolveBatch resolves many clicks with bounded parallelism. Results keep
// the input order; a bad click only fails its own item.
func (s *ResolveService) ResolveBatch(ctx context.Context, qs []domain.ClickQuery) ([]domain.BatchItem, error) {
	if len(qs) > MaxBatch {
		return nil, fmt.Errorf("%w: at most %d clicks per batch", domain.ErrInvalidInput, MaxBatch)
	}
	if !s.scene.Ready() {
		observability.ObserveResolve("not_ready", 0)
		return nil, domain.ErrNotReady
	}

	out := make([]domain.BatchItem, len(qs))
	sem := semaphore.NewWeighted(s.workers)
	var wg sync.WaitGroup
	var acquireErr error

	for i, q := range qs {
		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			acquireErr = err
			break
		}
		wg.Add(1)
		go func(i int, q domain.ClickQuery) {
			defer wg.Done()
			defer sem.Release(1)
			res, err := s.ResolveClick(ctx, q)
			if err != nil {
				out[i] = domain.BatchItem{Error: err.Error()}
				return
			}
			out[i] = domain.BatchItem{Result: &res}
		}(i, q)
	}
	wg.Wait()
	if acquireErr != nil {
		return nil, acquireErr
	}
	return out, nil
}

// rayFor builds the world-space ray of a click.
func rayFor(q domain.ClickQuery) (geo.Ray, error) {
	if q.Ray != nil {
		o, d := vec3(q.Ray.Origin), vec3(q.Ray.Direction)
		if !o.Finite() || !d.Finite() || d.Len() == 0 {
			return geo.Ray{}, fmt.Errorf("%w: ray needs a finite origin and a non-zero direction", domain.ErrInvalidInput)
		}
		return geo.NewRay(o, d), nil
	}

	if !finite(q.X) || !finite(q.Y) || math.Abs(q.X) > 1 || math.Abs(q.Y) > 1 {
		return geo.Ray{}, fmt.Errorf("%w: pointer must be within [-1, 1]", domain.ErrInvalidInput)
	}
	cam, err := cameraFor(q.Camera)
	if err != nil {
		return geo.Ray{}, err
	}
	return cam.RayFromNDC(q.X, q.Y), nil
}

func cameraFor(p *domain.CameraParams) (geo.Camera, error) {
	if p == nil {
		return geo.DefaultCamera(1), nil
	}
	if !finite(p.Aspect) || p.Aspect < 0 || !finite(p.FOV) || p.FOV < 0 || p.FOV >= 180 {
		return geo.Camera{}, fmt.Errorf("%w: fov must be in (0, 180) and aspect positive", domain.ErrInvalidInput)
	}
	aspect := p.Aspect
	if aspect == 0 {
		aspect = 1
	}

	if p.Orbit != nil && (p.Position != nil || p.Target != nil) {
		return geo.Camera{}, fmt.Errorf("%w: camera takes either orbit or position/target, not both", domain.ErrInvalidInput)
	}

	var cam geo.Camera
	switch {
	case p.Orbit != nil:
		o := p.Orbit
		if !finite(o.Distance) || !finite(o.Azimuth) || !finite(o.Polar) {
			return geo.Camera{}, fmt.Errorf("%w: orbit values must be finite", domain.ErrInvalidInput)
		}
		cam = geo.OrbitCamera(o.Distance, o.Azimuth, o.Polar, aspect)
	case p.Position != nil:
		cam = geo.DefaultCamera(aspect)
		cam.Position = vec3(*p.Position)
		if p.Target != nil {
			cam.Target = vec3(*p.Target)
		}
		if !cam.Position.Finite() || !cam.Target.Finite() || cam.Position.DistanceTo(cam.Target) == 0 {
			return geo.Camera{}, fmt.Errorf("%w: camera position must differ from its target", domain.ErrInvalidInput)
		}
	default:
		cam = geo.DefaultCamera(aspect)
	}
	if p.FOV > 0 {
		cam.FOV = p.FOV
	}
	return cam, nil
}

func finite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }

// clickKey identifies a ray exactly against one catalogue; two clicks share a
// key only when they would resolve identically.
func clickKey(catalogue string, r geo.Ray, radius float64) string {
	var b strings.Builder
	b.WriteString(catalogue)
	b.WriteByte('|')
	for _, f := range []float64{r.Origin.X, r.Origin.Y, r.Origin.Z, r.Dir.X, r.Dir.Y, r.Dir.Z, radius} {
		b.WriteString(strconv.FormatFloat(f, 'g', -1, 64))
		b.WriteByte('|')
	}
	sum := sha1.Sum([]byte(b.String()))
	return "resolve:" + hex.EncodeToString(sum[:])
}
