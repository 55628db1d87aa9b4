package page

import (
	"fmt"

	"globe_atlas/internal/domain"
)

type caption struct{ text, icon string }

var captions = map[domain.Category]caption{
	domain.CategoryCity:     {"Город", "landmark"},
	domain.CategoryCountry:  {"Страна", "flag"},
	domain.CategoryRiver:    {"Река", "droplets"},
	domain.CategoryLandmark: {"Достопримечательность", "map-pin"},
}

// Caption returns the heading and icon name shown for a category.
// Unknown categories fall back to the landmark caption.
func Caption(c domain.Category) (text, icon string) {
	if cp, ok := captions[c]; ok {
		return cp.text, cp.icon
	}
	cp := captions[domain.CategoryLandmark]
	return cp.text, cp.icon
}

// FormatCoords renders a position as "55.76°, 37.62°".
func FormatCoords(c domain.Coords) string {
	return fmt.Sprintf("%.2f°, %.2f°", c.Lat, c.Lng)
}

// Step moves i by delta within [0, n), wrapping at both ends.
func Step(i, delta, n int) int {
	if n <= 0 {
		return 0
	}
	i = (i + delta) % n
	if i < 0 {
		i += n
	}
	return i
}
