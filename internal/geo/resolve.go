package geo

// TieTolerance is how close two marker distances must be to count as a tie.
// Ties go to the marker that appears first in the catalogue.
const TieTolerance = 1e-9

// Placement is what the projector needs to know about a catalogued point.
type Placement struct {
	ID  string
	Lat float64
	Lng float64
}

// Marker is a catalogued point projected onto the globe.
type Marker struct {
	Index    int // position in the catalogue
	ID       string
	Position Vec3
}

// MarkerTable is the immutable set of marker positions for one globe radius.
// Build it once with BuildMarkers and share it; it is never modified.
type MarkerTable struct {
	radius  float64
	markers []Marker
}

// BuildMarkers projects every placement, keeping catalogue order.
func BuildMarkers(points []Placement, radius float64) MarkerTable {
	ms := make([]Marker, len(points))
	for i, p := range points {
		ms[i] = Marker{Index: i, ID: p.ID, Position: ToSpherePosition(p.Lat, p.Lng, radius)}
	}
	return MarkerTable{radius: radius, markers: ms}
}

func (t MarkerTable) Radius() float64 { return t.radius }

func (t MarkerTable) Len() int { return len(t.markers) }

// Markers returns a copy of the table rows.
func (t MarkerTable) Markers() []Marker {
	out := make([]Marker, len(t.markers))
	copy(out, t.markers)
	return out
}

// Nearest returns the marker closest to p by Euclidean distance.
func (t MarkerTable) Nearest(p Vec3) (Marker, float64, bool) {
	best, bestD := -1, 0.0
	for i, m := range t.markers {
		d := m.Position.DistanceTo(p)
		if best < 0 || d < bestD-TieTolerance {
			best, bestD = i, d
		}
	}
	if best < 0 {
		return Marker{}, 0, false
	}
	return t.markers[best], bestD, true
}

// Resolution is the outcome of a click that hit the globe and found a marker.
type Resolution struct {
	Marker   Marker
	Hit      Vec3    // where the ray met the globe
	Distance float64 // from Hit to Marker.Position
}

// Resolve casts the ray against the globe and picks the nearest marker to the
// surface hit. It reports false when the ray misses or the table is empty.
// The result depends only on the ray and the table.
func Resolve(r Ray, t MarkerTable) (Resolution, bool) {
	if t.Len() == 0 {
		return Resolution{}, false
	}
	hit, ok := IntersectSphere(r, t.radius)
	if !ok {
		return Resolution{}, false
	}
	m, d, ok := t.Nearest(hit)
	if !ok {
		return Resolution{}, false
	}
	return Resolution{Marker: m, Hit: hit, Distance: d}, true
}
