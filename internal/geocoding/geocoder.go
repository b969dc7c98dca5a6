package geocoding

import (
	"context"
	"log"
	"sync"

	"visit-route-planner/internal/database"
	"visit-route-planner/internal/models"
)

// Geocoder provides address-to-coordinates conversion. A nil result
// means the address could not be resolved by any provider; the caller
// keeps the stop but excludes it from geo-ordering and map placement.
type Geocoder interface {
	Resolve(ctx context.Context, address string) *models.Coordinates
	ResolveBatch(ctx context.Context, addresses []string) map[string]models.Coordinates
}

// chainGeocoder checks the persistent cache, then the primary
// credentialed provider, then the public secondary. The first candidate
// with a numeric coordinate wins and is cached.
//
// All provider calls are serialized behind one mutex so the same
// address is never resolved twice in parallel (duplicate billable
// lookups).
type chainGeocoder struct {
	cache     database.GeocodeCacheRepository
	primary   Provider
	secondary Provider
	mu        sync.Mutex
}

// NewChainGeocoder creates the cache-first fallback chain
func NewChainGeocoder(cache database.GeocodeCacheRepository, primary, secondary Provider) Geocoder {
	return &chainGeocoder{
		cache:     cache,
		primary:   primary,
		secondary: secondary,
	}
}

func (g *chainGeocoder) Resolve(ctx context.Context, address string) *models.Coordinates {
	if address == "" {
		return nil
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	return g.resolveLocked(ctx, address)
}

func (g *chainGeocoder) resolveLocked(ctx context.Context, address string) *models.Coordinates {
	if coords := g.cache.Get(ctx, address); coords != nil {
		return coords
	}

	coords, err := g.primary.Geocode(ctx, address)
	if err == nil && coords != nil {
		g.cache.Put(ctx, address, *coords)
		return coords
	}
	log.Printf("[GEOCODING] Primary provider failed, trying secondary: address=%s err=%v", address, err)

	coords, err = g.secondary.Geocode(ctx, address)
	if err == nil && coords != nil {
		g.cache.Put(ctx, address, *coords)
		return coords
	}
	log.Printf("[GEOCODING] Address unresolved by all providers: address=%s err=%v", address, err)

	return nil
}

// ResolveBatch resolves addresses strictly one after another, e.g. when
// restoring an itinerary. Calls that reach the secondary provider are
// spaced by its rate limiter; the primary has no such restriction.
func (g *chainGeocoder) ResolveBatch(ctx context.Context, addresses []string) map[string]models.Coordinates {
	g.mu.Lock()
	defer g.mu.Unlock()

	out := make(map[string]models.Coordinates)
	for _, address := range addresses {
		if _, done := out[address]; done {
			continue
		}
		if ctx.Err() != nil {
			break
		}
		if coords := g.resolveLocked(ctx, address); coords != nil {
			out[address] = *coords
		}
	}
	return out
}
