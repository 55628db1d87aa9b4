package embedded

import "globe_atlas/internal/domain"

// record is the on-disk shape of one catalogue entry.
type record struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Type        string   `json:"type"`
	Coordinates struct {
		Lat float64 `json:"lat"`
		Lng float64 `json:"lng"`
	} `json:"coordinates"`
	Description string   `json:"description"`
	Images      []string `json:"images"`
	Facts       []string `json:"facts"`
	Region      string   `json:"region,omitempty"`
	Population  *int64   `json:"population,omitempty"`
	Flag        string   `json:"flag,omitempty"`
}

func (r record) toDomain() domain.Location {
	return domain.Location{
		ID:          r.ID,
		Name:        r.Name,
		Category:    domain.Category(r.Type),
		Position:    domain.Coords{Lat: r.Coordinates.Lat, Lng: r.Coordinates.Lng},
		Description: r.Description,
		Facts:       r.Facts,
		Images:      r.Images,
		Region:      r.Region,
		Population:  r.Population,
		FlagImage:   r.Flag,
	}
}

func fromDomain(l domain.Location) record {
	r := record{
		ID:          l.ID,
		Name:        l.Name,
		Type:        string(l.Category),
		Description: l.Description,
		Images:      l.Images,
		Facts:       l.Facts,
		Region:      l.Region,
		Population:  l.Population,
		Flag:        l.FlagImage,
	}
	r.Coordinates.Lat, r.Coordinates.Lng = l.Position.Lat, l.Position.Lng
	return r
}
