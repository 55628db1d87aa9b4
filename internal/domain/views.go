package domain

type Point3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

type LocationView struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Category    Category `json:"category"`
	Caption     string   `json:"caption"`
	Icon        string   `json:"icon"`
	Coords      Coords   `json:"coords"`
	CoordsText  string   `json:"coords_text"`
	Position    Point3   `json:"position"`
	Description string   `json:"description"`
	Facts       []string `json:"facts"`
	Images      []string `json:"images"`
	Region      string   `json:"region,omitempty"`
	Population  *int64   `json:"population,omitempty"`
	FlagImage   string   `json:"flag_image,omitempty"`
	Timezone    string   `json:"timezone,omitempty"`
}

type LocationsPage struct {
	Items      []LocationView `json:"items"`
	Total      int            `json:"total"`
	NextCursor *string        `json:"next_cursor,omitempty"`
}

type MarkerView struct {
	Index    int      `json:"index"`
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Category Category `json:"category"`
	Coords   Coords   `json:"coords"`
	Position Point3   `json:"position"`
}

type GalleryView struct {
	LocationID string `json:"location_id"`
	Index      int    `json:"index"`
	Total      int    `json:"total"`
	Image      string `json:"image"`
	Prev       int    `json:"prev"`
	Next       int    `json:"next"`
}

type NearestView struct {
	Location   LocationView `json:"location"`
	DistanceKm float64      `json:"distance_km"`
}

// ClickQuery describes a pointer click. Either Ray is set, or X/Y are the
// pointer in normalized device coordinates and Camera describes the view.
type ClickQuery struct {
	X      float64       `json:"x"`
	Y      float64       `json:"y"`
	Camera *CameraParams `json:"camera,omitempty"`
	Ray    *RayParams    `json:"ray,omitempty"`
}

// CameraParams is either an explicit position (looking at Target, default
// origin) or an orbit around the globe. Zero means default for FOV and Aspect.
type CameraParams struct {
	Position *Point3 `json:"position,omitempty"`
	Target   *Point3 `json:"target,omitempty"`
	Orbit    *Orbit  `json:"orbit,omitempty"`
	FOV      float64 `json:"fov,omitempty"`
	Aspect   float64 `json:"aspect,omitempty"`
}

type Orbit struct {
	Distance float64 `json:"distance"`
	Azimuth  float64 `json:"azimuth"`
	Polar    float64 `json:"polar"`
}

type RayParams struct {
	Origin    Point3 `json:"origin"`
	Direction Point3 `json:"direction"`
}

// ResolveResult is the outcome of one click. Hit is false when the ray missed
// the globe; Marker is then nil.
type ResolveResult struct {
	Hit      bool        `json:"hit"`
	Surface  *Point3     `json:"surface,omitempty"`
	At       *Coords     `json:"at,omitempty"`
	Marker   *MarkerView `json:"marker,omitempty"`
	Distance float64     `json:"distance,omitempty"`
}

type BatchItem struct {
	Result *ResolveResult `json:"result,omitempty"`
	Error  string         `json:"error,omitempty"`
}
