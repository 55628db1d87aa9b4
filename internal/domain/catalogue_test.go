package domain_test

import (
	"errors"
	"math"
	"strings"
	"testing"

	"globe_atlas/internal/domain"
)

func loc(id string, cat domain.Category, lat, lng float64) domain.Location {
	return domain.Location{
		ID:       id,
		Name:     strings.ToUpper(id),
		Category: cat,
		Position: domain.Coords{Lat: lat, Lng: lng},
		Images:   []string{"/placeholder.svg"},
	}
}

func TestNewCatalogue_KeepsOrderAndIndexes(t *testing.T) {
	c, err := domain.NewCatalogue([]domain.Location{
		loc("moscow", domain.CategoryCity, 55.7558, 37.6173),
		loc("amazon", domain.CategoryRiver, -3.4653, -58.38),
		loc("paris", domain.CategoryCity, 48.8566, 2.3522),
	})
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if c.Len() != 3 {
		t.Fatalf("len = %d", c.Len())
	}
	ids := []string{}
	for _, l := range c.All() {
		ids = append(ids, l.ID)
	}
	if strings.Join(ids, ",") != "moscow,amazon,paris" {
		t.Fatalf("order = %v", ids)
	}
	if c.Index("paris") != 2 || c.Index("nowhere") != -1 {
		t.Fatalf("index lookups wrong")
	}
	if l, ok := c.ByID("amazon"); !ok || l.Category != domain.CategoryRiver {
		t.Fatalf("ByID(amazon) = %+v, %v", l, ok)
	}
	if _, ok := c.At(3); ok {
		t.Fatalf("At out of range should fail")
	}
}

func TestNewCatalogue_RejectsBadRecords(t *testing.T) {
	neg := int64(-1)
	bad := []domain.Location{
		loc("ok", domain.CategoryCity, 0, 0),
		loc("ok", domain.CategoryCity, 1, 1),
		loc("lake", domain.Category("lake"), 0, 0),
		loc("far", domain.CategoryCity, 91, 0),
		loc("nan", domain.CategoryCity, math.NaN(), 0),
		{ID: "noimg", Name: "x", Category: domain.CategoryCity},
		{ID: "pop", Name: "x", Category: domain.CategoryCity, Images: []string{"a"}, Population: &neg},
		{Name: "anon", Category: domain.CategoryCity, Images: []string{"a"}},
	}
	_, err := domain.NewCatalogue(bad)
	if !errors.Is(err, domain.ErrInvalidCatalogue) {
		t.Fatalf("expected ErrInvalidCatalogue, got %v", err)
	}
	msg := err.Error()
	for _, want := range []string{"duplicate id", "unknown category", "position out of range", "no images", "negative population", "empty id"} {
		if !strings.Contains(msg, want) {
			t.Errorf("error does not mention %q:\n%s", want, msg)
		}
	}
	if strings.Count(msg, "position out of range") != 2 {
		t.Errorf("expected both range failures reported:\n%s", msg)
	}
}

func TestCatalogue_IsImmutableFromOutside(t *testing.T) {
	pop := int64(100)
	src := []domain.Location{loc("moscow", domain.CategoryCity, 55.7558, 37.6173)}
	src[0].Facts = []string{"founded 1147"}
	src[0].Population = &pop
	c, err := domain.NewCatalogue(src)
	if err != nil {
		t.Fatalf("err: %v", err)
	}

	src[0].Name = "changed"
	src[0].Facts[0] = "changed"
	pop = 5

	got, _ := c.ByID("moscow")
	if got.Name != "MOSCOW" || got.Facts[0] != "founded 1147" || *got.Population != 100 {
		t.Fatalf("catalogue aliased its input: %+v", got)
	}

	got.Images[0] = "changed"
	again, _ := c.ByID("moscow")
	if again.Images[0] != "/placeholder.svg" {
		t.Fatalf("catalogue aliased its output")
	}
}

func TestCatalogue_FilterAndRegions(t *testing.T) {
	items := []domain.Location{
		loc("moscow", domain.CategoryCity, 55.7558, 37.6173),
		loc("volga", domain.CategoryRiver, 56.33, 44),
		loc("paris", domain.CategoryCity, 48.8566, 2.3522),
		loc("amazon", domain.CategoryRiver, -3.4653, -58.38),
	}
	items[0].Region, items[1].Region, items[2].Region, items[3].Region = "Европа", "Европа", "Европа", "Южная Америка"
	items[2].Description = "Город света"
	c, err := domain.NewCatalogue(items)
	if err != nil {
		t.Fatalf("err: %v", err)
	}

	tests := []struct {
		name string
		q    domain.LocationsQuery
		want string
	}{
		{"no filters", domain.LocationsQuery{}, "moscow,volga,paris,amazon"},
		{"category", domain.LocationsQuery{Category: domain.CategoryRiver}, "volga,amazon"},
		{"region", domain.LocationsQuery{Region: "Южная Америка"}, "amazon"},
		{"name substring any case", domain.LocationsQuery{Q: "mOs"}, "moscow"},
		{"description substring", domain.LocationsQuery{Q: "СВЕТА"}, "paris"},
		{"combined", domain.LocationsQuery{Region: "Европа", Category: domain.CategoryCity}, "moscow,paris"},
		{"nothing", domain.LocationsQuery{Q: "tokyo"}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ids []string
			for _, l := range c.Filter(tt.q) {
				ids = append(ids, l.ID)
			}
			if got := strings.Join(ids, ","); got != tt.want {
				t.Errorf("Filter = %q, want %q", got, tt.want)
			}
		})
	}

	if got := strings.Join(c.Regions(), "|"); got != "Европа|Южная Америка" {
		t.Fatalf("regions = %q", got)
	}
}

func TestParseCategory(t *testing.T) {
	if c, err := domain.ParseCategory(" River "); err != nil || c != domain.CategoryRiver {
		t.Fatalf("ParseCategory(River) = %q, %v", c, err)
	}
	if _, err := domain.ParseCategory("lake"); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestCatalogue_Fingerprint(t *testing.T) {
	mk := func(ls ...domain.Location) *domain.Catalogue {
		t.Helper()
		c, err := domain.NewCatalogue(ls)
		if err != nil {
			t.Fatalf("catalogue: %v", err)
		}
		return c
	}
	moscow := loc("moscow", domain.CategoryCity, 55.7558, 37.6173)
	paris := loc("paris", domain.CategoryCity, 48.8566, 2.3522)

	a, b := mk(moscow, paris), mk(moscow, paris)
	if a.Fingerprint() == "" || a.Fingerprint() != b.Fingerprint() {
		t.Fatalf("same content, fingerprints %q vs %q", a.Fingerprint(), b.Fingerprint())
	}

	renamed := moscow
	renamed.Name = "Moscow"
	moved := moscow
	moved.Position.Lat += 0.001
	for name, c := range map[string]*domain.Catalogue{
		"reordered": mk(paris, moscow),
		"subset":    mk(moscow),
		"renamed":   mk(renamed, paris),
		"moved":     mk(moved, paris),
	} {
		if c.Fingerprint() == a.Fingerprint() {
			t.Errorf("%s: fingerprint unchanged", name)
		}
	}

	var nilCat *domain.Catalogue
	if nilCat.Fingerprint() != "" {
		t.Fatalf("nil catalogue fingerprint")
	}
}
