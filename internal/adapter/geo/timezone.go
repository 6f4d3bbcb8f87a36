package geo

import (
	"fmt"
	"sync"
	"time"
	_ "time/tzdata"

	"github.com/ringsaturn/tzf"
)

// TimezoneFinder resolves coordinates to their IANA time zone offline.
type TimezoneFinder struct {
	finder tzf.F

	mu    sync.RWMutex
	zones map[string]*time.Location
}

func NewTimezoneFinder() (*TimezoneFinder, error) {
	finder, err := tzf.NewDefaultFinder()
	if err != nil {
		return nil, fmt.Errorf("failed to load timezone data: %w", err)
	}
	return &TimezoneFinder{
		finder: finder,
		zones:  make(map[string]*time.Location),
	}, nil
}

func (f *TimezoneFinder) Locate(lat, lng float64) (*time.Location, error) {
	name := f.finder.GetTimezoneName(lng, lat)
	if name == "" {
		return nil, fmt.Errorf("no timezone found for %f,%f", lat, lng)
	}

	f.mu.RLock()
	loc, ok := f.zones[name]
	f.mu.RUnlock()
	if ok {
		return loc, nil
	}

	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("failed to load timezone %s: %w", name, err)
	}

	f.mu.Lock()
	f.zones[name] = loc
	f.mu.Unlock()
	return loc, nil
}
