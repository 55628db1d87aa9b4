package app

import (
	"globe_atlas/internal/domain"
	"globe_atlas/internal/geo"
	"globe_atlas/internal/page"
)

func point3(v geo.Vec3) domain.Point3 { return domain.Point3{X: v.X, Y: v.Y, Z: v.Z} }

func vec3(p domain.Point3) geo.Vec3 { return geo.Vec3{X: p.X, Y: p.Y, Z: p.Z} }

func mapLocation(l domain.Location, radius float64, tz domain.TimezoneFinder) domain.LocationView {
	caption, icon := page.Caption(l.Category)
	v := domain.LocationView{
		ID:          l.ID,
		Name:        l.Name,
		Category:    l.Category,
		Caption:     caption,
		Icon:        icon,
		Coords:      l.Position,
		CoordsText:  page.FormatCoords(l.Position),
		Position:    point3(geo.ToSpherePosition(l.Position.Lat, l.Position.Lng, radius)),
		Description: l.Description,
		Facts:       l.Facts,
		Images:      l.Images,
		Region:      l.Region,
		Population:  l.Population,
		FlagImage:   l.FlagImage,
	}
	if v.Facts == nil {
		v.Facts = []string{}
	}
	if tz != nil {
		v.Timezone = tz.TimezoneName(l.Position.Lat, l.Position.Lng)
	}
	return v
}

func mapMarker(m geo.Marker, l domain.Location) domain.MarkerView {
	return domain.MarkerView{
		Index:    m.Index,
		ID:       m.ID,
		Name:     l.Name,
		Category: l.Category,
		Coords:   l.Position,
		Position: point3(m.Position),
	}
}
