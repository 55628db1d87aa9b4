package domain

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Catalogue is the ordered, read-only list of locations. It is built once
// at start-up and shared; none of its methods expose internal slices.
type Catalogue struct {
	items []Location
	index map[string]int
	fp    string
}

// NewCatalogue validates and copies items. Every bad record is reported.
func NewCatalogue(items []Location) (*Catalogue, error) {
	var errs []error
	c := &Catalogue{
		items: make([]Location, 0, len(items)),
		index: make(map[string]int, len(items)),
	}
	for i, l := range items {
		if err := validateLocation(l); err != nil {
			errs = append(errs, fmt.Errorf("record %d (%q): %w", i, l.ID, err))
			continue
		}
		if _, dup := c.index[l.ID]; dup {
			errs = append(errs, fmt.Errorf("record %d: duplicate id %q", i, l.ID))
			continue
		}
		c.index[l.ID] = len(c.items)
		c.items = append(c.items, l.clone())
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCatalogue, errors.Join(errs...))
	}
	b, err := json.Marshal(c.items)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCatalogue, err)
	}
	sum := sha1.Sum(b)
	c.fp = hex.EncodeToString(sum[:8])
	return c, nil
}

// Fingerprint identifies the catalogue's content. Catalogues with the same
// records in the same order share it; any other difference changes it.
func (c *Catalogue) Fingerprint() string {
	if c == nil {
		return ""
	}
	return c.fp
}

func validateLocation(l Location) error {
	var errs []error
	if strings.TrimSpace(l.ID) == "" {
		errs = append(errs, errors.New("empty id"))
	}
	if strings.TrimSpace(l.Name) == "" {
		errs = append(errs, errors.New("empty name"))
	}
	if !l.Category.Valid() {
		errs = append(errs, fmt.Errorf("unknown category %q", l.Category))
	}
	if !l.Position.Valid() {
		errs = append(errs, fmt.Errorf("position out of range: %v,%v", l.Position.Lat, l.Position.Lng))
	}
	if len(l.Images) == 0 {
		errs = append(errs, errors.New("no images"))
	}
	if l.Population != nil && *l.Population < 0 {
		errs = append(errs, errors.New("negative population"))
	}
	return errors.Join(errs...)
}

func (c *Catalogue) Len() int {
	if c == nil {
		return 0
	}
	return len(c.items)
}

// All returns a copy of every location in catalogue order.
func (c *Catalogue) All() []Location {
	if c == nil {
		return nil
	}
	out := make([]Location, len(c.items))
	for i, l := range c.items {
		out[i] = l.clone()
	}
	return out
}

func (c *Catalogue) At(i int) (Location, bool) {
	if c == nil || i < 0 || i >= len(c.items) {
		return Location{}, false
	}
	return c.items[i].clone(), true
}

func (c *Catalogue) ByID(id string) (Location, bool) {
	i := c.Index(id)
	if i < 0 {
		return Location{}, false
	}
	return c.items[i].clone(), true
}

// Index is the catalogue position of id, or -1.
func (c *Catalogue) Index(id string) int {
	if c == nil {
		return -1
	}
	i, ok := c.index[id]
	if !ok {
		return -1
	}
	return i
}

// Filter returns the matching locations in catalogue order. Paging fields of
// q are ignored.
func (c *Catalogue) Filter(q LocationsQuery) []Location {
	if c == nil {
		return nil
	}
	var out []Location
	for _, l := range c.items {
		if q.Matches(l) {
			out = append(out, l.clone())
		}
	}
	return out
}

// Regions returns the distinct non-empty regions, sorted.
func (c *Catalogue) Regions() []string {
	if c == nil {
		return nil
	}
	seen := map[string]struct{}{}
	out := []string{}
	for _, l := range c.items {
		if l.Region == "" {
			continue
		}
		if _, ok := seen[l.Region]; ok {
			continue
		}
		seen[l.Region] = struct{}{}
		out = append(out, l.Region)
	}
	sort.Strings(out)
	return out
}
