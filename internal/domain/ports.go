package domain

import (
	"context"
	"strings"
)

type CatalogueSource interface {
	Load(ctx context.Context) (*Catalogue, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

// TimezoneFinder maps a coordinate to an IANA zone name, "" when unknown.
type TimezoneFinder interface {
	TimezoneName(lat, lng float64) string
}

// Read models & queries

type LocationsQuery struct {
	Q        string
	Region   string
	Category Category
	Limit    int
	Cursor   *string
}

// Matches applies the text, region and category filters. Empty fields match
// everything; Q is a case-insensitive substring of name or description.
func (q LocationsQuery) Matches(l Location) bool {
	if q.Region != "" && l.Region != q.Region {
		return false
	}
	if q.Category != "" && l.Category != q.Category {
		return false
	}
	if t := strings.ToLower(strings.TrimSpace(q.Q)); t != "" {
		if !strings.Contains(strings.ToLower(l.Name), t) &&
			!strings.Contains(strings.ToLower(l.Description), t) {
			return false
		}
	}
	return true
}
