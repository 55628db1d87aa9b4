package domain

import (
	"fmt"
	"math"
	"strings"
)

type Category string

const (
	CategoryCity     Category = "city"
	CategoryCountry  Category = "country"
	CategoryRiver    Category = "river"
	CategoryLandmark Category = "landmark"
)

// Categories lists every known category in display order.
var Categories = []Category{CategoryCity, CategoryCountry, CategoryRiver, CategoryLandmark}

func (c Category) Valid() bool {
	switch c {
	case CategoryCity, CategoryCountry, CategoryRiver, CategoryLandmark:
		return true
	}
	return false
}

// ParseCategory accepts any letter case; the empty string is not a category.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", fmt.Errorf("%w: unknown category %q", ErrInvalidInput, s)
	}
	return c, nil
}

// Coords is a geographic position in degrees.
type Coords struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

func (c Coords) Valid() bool {
	if math.IsNaN(c.Lat) || math.IsNaN(c.Lng) || math.IsInf(c.Lat, 0) || math.IsInf(c.Lng, 0) {
		return false
	}
	return c.Lat >= -90 && c.Lat <= 90 && c.Lng >= -180 && c.Lng <= 180
}

// Location is one point of interest in the catalogue.
type Location struct {
	ID          string
	Name        string
	Category    Category
	Position    Coords
	Description string
	Facts       []string
	Images      []string

	Region     string
	Population *int64
	FlagImage  string
}

func (l Location) clone() Location {
	out := l
	out.Facts = append([]string(nil), l.Facts...)
	out.Images = append([]string(nil), l.Images...)
	if l.Population != nil {
		p := *l.Population
		out.Population = &p
	}
	return out
}
