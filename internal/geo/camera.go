package geo

import "math"

// Scene constants of the globe view.
const (
	DefaultFOV      = 60.0 // vertical, degrees
	DefaultNear     = 0.1
	DefaultFar      = 1000.0
	DefaultDistance = 15.0
	MinDistance     = 6.0
	MaxDistance     = 20.0
)

// polarEpsilon keeps orbit cameras off the poles where the up vector degenerates.
const polarEpsilon = 1e-6

const basisEpsilon = 1e-9

// Camera is a perspective camera looking at Target.
type Camera struct {
	Position Vec3
	Target   Vec3
	Up       Vec3
	FOV      float64 // vertical field of view, degrees
	Aspect   float64 // width / height
	Near     float64
	Far      float64
}

// DefaultCamera is the start-up view: on +Z at DefaultDistance, looking at the globe.
func DefaultCamera(aspect float64) Camera {
	return Camera{
		Position: Vec3{Z: DefaultDistance},
		Up:       Vec3{Y: 1},
		FOV:      DefaultFOV,
		Aspect:   aspect,
		Near:     DefaultNear,
		Far:      DefaultFar,
	}
}

// OrbitCamera places a camera on a sphere around the origin, the way orbit
// controls do: azimuth turns around +Y starting at +Z, polar is measured from
// +Y. Distance is clamped to [MinDistance, MaxDistance].
func OrbitCamera(distance, azimuthDeg, polarDeg, aspect float64) Camera {
	distance = math.Max(MinDistance, math.Min(MaxDistance, distance))
	polar := math.Max(polarEpsilon, math.Min(math.Pi-polarEpsilon, polarDeg*deg))
	az := azimuthDeg * deg

	c := DefaultCamera(aspect)
	c.Position = Vec3{
		X: distance * math.Sin(polar) * math.Sin(az),
		Y: distance * math.Cos(polar),
		Z: distance * math.Sin(polar) * math.Cos(az),
	}
	return c
}

// LookAtCoords returns an orbit camera hovering over the given coordinate.
func LookAtCoords(lat, lng, distance, aspect float64) Camera {
	return OrbitCamera(distance, lng+90, 90-lat, aspect)
}

func (c Camera) aspect() float64 {
	if c.Aspect <= 0 {
		return 1
	}
	return c.Aspect
}

func (c Camera) fov() float64 {
	if c.FOV <= 0 || c.FOV >= 180 {
		return DefaultFOV
	}
	return c.FOV
}

// basis returns the camera's forward, right and up unit vectors.
func (c Camera) basis() (forward, right, up Vec3) {
	forward = c.Target.Sub(c.Position).Normalize()
	worldUp := c.Up
	if worldUp == (Vec3{}) {
		worldUp = Vec3{Y: 1}
	}
	right = forward.Cross(worldUp)
	// Looking straight along the up vector: borrow +Z, or +X when up is Z itself.
	for _, alt := range []Vec3{{Z: 1}, {X: 1}} {
		if right.Len() >= basisEpsilon {
			break
		}
		right = forward.Cross(alt)
	}
	right = right.Normalize()
	up = right.Cross(forward)
	return forward, right, up
}

// RayFromNDC builds the ray through a pointer position given in normalized
// device coordinates (x right, y up, both in [-1, 1]).
func (c Camera) RayFromNDC(x, y float64) Ray {
	forward, right, up := c.basis()
	tanHalf := math.Tan(c.fov() * deg / 2)
	dir := forward.
		Add(right.Scale(x * tanHalf * c.aspect())).
		Add(up.Scale(y * tanHalf))
	return NewRay(c.Position, dir)
}

// Project maps a scene point to normalized device coordinates. ok is false
// when the point lies outside the near/far range in front of the camera.
func (c Camera) Project(p Vec3) (x, y float64, ok bool) {
	forward, right, up := c.basis()
	rel := p.Sub(c.Position)
	depth := rel.Dot(forward)
	near, far := c.Near, c.Far
	if far <= 0 {
		far = DefaultFar
	}
	if depth <= near || depth > far {
		return 0, 0, false
	}
	tanHalf := math.Tan(c.fov() * deg / 2)
	x = rel.Dot(right) / (depth * tanHalf * c.aspect())
	y = rel.Dot(up) / (depth * tanHalf)
	return x, y, true
}

// Occluded reports whether the globe of the given radius hides p from the camera.
func (c Camera) Occluded(p Vec3, radius float64) bool {
	hit, ok := IntersectSphere(NewRay(c.Position, p.Sub(c.Position)), radius)
	if !ok {
		return false
	}
	return hit.DistanceTo(c.Position) < p.DistanceTo(c.Position)-1e-6
}
