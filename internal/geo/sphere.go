package geo

import "math"

// DefaultRadius is the globe radius in scene units.
const DefaultRadius = 5.0

const deg = math.Pi / 180

// ToSpherePosition maps a geographic coordinate (degrees) onto the surface of a
// sphere of the given radius centred on the origin.
//
// The polar angle is measured from +Y and the azimuth is shifted by 180° so
// that lng=0 lands on +X. At the poles the longitude does not contribute.
func ToSpherePosition(lat, lng, radius float64) Vec3 {
	phi := (90 - lat) * deg
	theta := (lng + 180) * deg

	sinPhi := math.Sin(phi)
	if lat == 90 || lat == -90 {
		sinPhi = 0 // sin(π) is not exactly 0 in float64
	}
	return Vec3{
		X: -radius * sinPhi * math.Cos(theta),
		Y: radius * math.Cos(phi),
		Z: radius * sinPhi * math.Sin(theta),
	}
}

// FromSpherePosition is the inverse of ToSpherePosition for any radius.
// Longitude is returned in [-180, 180); at the poles it is 0.
func FromSpherePosition(v Vec3) (lat, lng float64) {
	r := v.Len()
	if r == 0 {
		return 0, 0
	}
	cosPhi := math.Max(-1, math.Min(1, v.Y/r))
	lat = 90 - math.Acos(cosPhi)/deg

	if math.Hypot(v.X, v.Z) < 1e-12*r {
		return lat, 0
	}
	lng = math.Atan2(v.Z, -v.X)/deg - 180
	if lng < -180 {
		lng += 360
	}
	return lat, lng
}

// Ray is a half-line with a unit direction.
type Ray struct {
	Origin Vec3
	Dir    Vec3
}

// NewRay builds a ray from origin along dir; dir is normalized.
func NewRay(origin, dir Vec3) Ray {
	return Ray{Origin: origin, Dir: dir.Normalize()}
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float64) Vec3 { return r.Origin.Add(r.Dir.Scale(t)) }

// IntersectSphere returns the first point where the ray meets the sphere of
// the given radius around the origin. Hits behind the origin are ignored; a
// ray starting inside the sphere reports the exit point.
func IntersectSphere(r Ray, radius float64) (Vec3, bool) {
	d := r.Dir.Normalize()
	if d == (Vec3{}) || radius <= 0 {
		return Vec3{}, false
	}
	b := r.Origin.Dot(d)
	c := r.Origin.Dot(r.Origin) - radius*radius
	disc := b*b - c
	if disc < 0 {
		return Vec3{}, false
	}
	s := math.Sqrt(disc)
	t := -b - s
	if t < 0 {
		t = -b + s
	}
	if t < 0 {
		return Vec3{}, false
	}
	return r.Origin.Add(d.Scale(t)), true
}
