package timezone

import (
	"fmt"
	"sync"

	"github.com/ringsaturn/tzf"
)

// Finder resolves IANA zone names with tzf. The default finder holds the
// boundary data in memory, so build one per process and share it.
type Finder struct {
	f tzf.F
}

var (
	shared    *Finder
	sharedErr error
	once      sync.Once
)

// Default returns the process-wide finder, building it on first use.
func Default() (*Finder, error) {
	once.Do(func() {
		f, err := tzf.NewDefaultFinder()
		if err != nil {
			sharedErr = fmt.Errorf("init timezone finder: %w", err)
			return
		}
		shared = &Finder{f: f}
	})
	return shared, sharedErr
}

// TimezoneName returns the zone at lat/lng, or "" when none is known.
func (t *Finder) TimezoneName(lat, lng float64) string {
	if t == nil || t.f == nil {
		return ""
	}
	return t.f.GetTimezoneName(lng, lat)
}
