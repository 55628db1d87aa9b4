package page

import (
	"fmt"

	"globe_atlas/internal/domain"
)

type Filters struct {
	Query    string          `json:"query,omitempty"`
	Region   string          `json:"region,omitempty"`
	Category domain.Category `json:"category,omitempty"`
}

func (f Filters) toQuery() domain.LocationsQuery {
	return domain.LocationsQuery{Q: f.Query, Region: f.Region, Category: f.Category}
}

// State is what the browsing page remembers between interactions. It is a
// plain value; every transition returns a new State.
type State struct {
	Selected   string  `json:"selected,omitempty"`
	ImageIndex int     `json:"image_index"`
	Filters    Filters `json:"filters"`
}

// Select opens the detail view for id and rewinds the gallery.
func (s State) Select(cat *domain.Catalogue, id string) (State, error) {
	if cat.Index(id) < 0 {
		return s, fmt.Errorf("location %q: %w", id, domain.ErrNotFound)
	}
	s.Selected = id
	s.ImageIndex = 0
	return s, nil
}

// Back returns to the globe with nothing selected and no filters.
func (s State) Back() State { return State{} }

func (s State) NextImage(cat *domain.Catalogue) State { return s.stepImage(cat, 1) }

func (s State) PrevImage(cat *domain.Catalogue) State { return s.stepImage(cat, -1) }

func (s State) stepImage(cat *domain.Catalogue, delta int) State {
	l, ok := s.Selection(cat)
	if !ok {
		return s
	}
	s.ImageIndex = Step(s.ImageIndex, delta, len(l.Images))
	return s
}

func (s State) SetQuery(q string) State {
	s.Filters.Query = q
	return s
}

func (s State) SetRegion(r string) State {
	s.Filters.Region = r
	return s
}

func (s State) SetCategory(c domain.Category) State {
	s.Filters.Category = c
	return s
}

func (s State) ClearFilters() State {
	s.Filters = Filters{}
	return s
}

// Selection is the selected location, if any.
func (s State) Selection(cat *domain.Catalogue) (domain.Location, bool) {
	if s.Selected == "" {
		return domain.Location{}, false
	}
	return cat.ByID(s.Selected)
}

// CurrentImage is the gallery image on show for the selection.
func (s State) CurrentImage(cat *domain.Catalogue) (string, bool) {
	l, ok := s.Selection(cat)
	if !ok || len(l.Images) == 0 {
		return "", false
	}
	return l.Images[Step(s.ImageIndex, 0, len(l.Images))], true
}

// Visible lists the locations that pass the current filters.
func (s State) Visible(cat *domain.Catalogue) []domain.Location {
	return cat.Filter(s.Filters.toQuery())
}

// Apply performs a named transition, as sent by a client.
func (s State) Apply(cat *domain.Catalogue, action, value string) (State, error) {
	switch action {
	case "select":
		return s.Select(cat, value)
	case "back":
		return s.Back(), nil
	case "next_image":
		return s.NextImage(cat), nil
	case "prev_image":
		return s.PrevImage(cat), nil
	case "query":
		return s.SetQuery(value), nil
	case "region":
		return s.SetRegion(value), nil
	case "category":
		if value == "" {
			return s.SetCategory(""), nil
		}
		c, err := domain.ParseCategory(value)
		if err != nil {
			return s, err
		}
		return s.SetCategory(c), nil
	case "clear_filters":
		return s.ClearFilters(), nil
	}
	return s, fmt.Errorf("%w: unknown action %q", domain.ErrInvalidInput, action)
}
