package geocoding

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"visit-route-planner/internal/models"
)

// memoryCache is an in-memory stand-in for the sqlite geocode cache
type memoryCache struct {
	entries map[string]models.Coordinates
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: make(map[string]models.Coordinates)}
}

func (c *memoryCache) Get(ctx context.Context, address string) *models.Coordinates {
	if coords, ok := c.entries[address]; ok {
		return &coords
	}
	return nil
}

func (c *memoryCache) Put(ctx context.Context, address string, coords models.Coordinates) {
	c.entries[address] = coords
}

func (c *memoryCache) Clear(ctx context.Context) error {
	c.entries = make(map[string]models.Coordinates)
	return nil
}

// fakeProvider answers from a fixed table and counts calls
type fakeProvider struct {
	name    string
	results map[string]models.Coordinates
	calls   int
}

func (p *fakeProvider) Name() string { return p.name }

func (p *fakeProvider) Geocode(ctx context.Context, address string) (*models.Coordinates, error) {
	p.calls++
	if coords, ok := p.results[address]; ok {
		return &coords, nil
	}
	return nil, &ErrGeocodingFailed{Provider: p.name, Address: address, Reason: "no results found"}
}

func TestChainPrefersCache(t *testing.T) {
	cache := newMemoryCache()
	cache.Put(context.Background(), "cached addr", models.Coordinates{Lat: 1, Lng: 2})

	primary := &fakeProvider{name: "primary", results: map[string]models.Coordinates{
		"cached addr": {Lat: 9, Lng: 9},
	}}
	secondary := &fakeProvider{name: "secondary"}

	g := NewChainGeocoder(cache, primary, secondary)
	coords := g.Resolve(context.Background(), "cached addr")

	assert.NotNil(t, coords)
	assert.Equal(t, 1.0, coords.Lat)
	assert.Equal(t, 0, primary.calls, "cache hit must not reach a provider")
	assert.Equal(t, 0, secondary.calls)
}

func TestChainPrimaryWinsAndCaches(t *testing.T) {
	cache := newMemoryCache()
	primary := &fakeProvider{name: "primary", results: map[string]models.Coordinates{
		"addr": {Lat: 49.18, Lng: -0.37},
	}}
	secondary := &fakeProvider{name: "secondary", results: map[string]models.Coordinates{
		"addr": {Lat: 0, Lng: 0},
	}}

	g := NewChainGeocoder(cache, primary, secondary)
	coords := g.Resolve(context.Background(), "addr")

	assert.NotNil(t, coords)
	assert.Equal(t, 49.18, coords.Lat)
	assert.Equal(t, 0, secondary.calls)

	// Second resolve comes from the cache
	g.Resolve(context.Background(), "addr")
	assert.Equal(t, 1, primary.calls)
}

func TestChainFallsBackToSecondary(t *testing.T) {
	cache := newMemoryCache()
	primary := &fakeProvider{name: "primary"}
	secondary := &fakeProvider{name: "secondary", results: map[string]models.Coordinates{
		"addr": {Lat: 49.18, Lng: -0.37},
	}}

	g := NewChainGeocoder(cache, primary, secondary)
	coords := g.Resolve(context.Background(), "addr")

	assert.NotNil(t, coords)
	assert.Equal(t, 1, primary.calls)
	assert.Equal(t, 1, secondary.calls)
	assert.NotNil(t, cache.Get(context.Background(), "addr"), "secondary results are cached too")
}

func TestChainBothProvidersEmpty(t *testing.T) {
	g := NewChainGeocoder(newMemoryCache(), &fakeProvider{name: "primary"}, &fakeProvider{name: "secondary"})

	coords := g.Resolve(context.Background(), "Unknown Address 12345")
	assert.Nil(t, coords)
}

func TestChainEmptyAddress(t *testing.T) {
	primary := &fakeProvider{name: "primary"}
	g := NewChainGeocoder(newMemoryCache(), primary, &fakeProvider{name: "secondary"})

	assert.Nil(t, g.Resolve(context.Background(), ""))
	assert.Equal(t, 0, primary.calls)
}

func TestResolveBatch(t *testing.T) {
	cache := newMemoryCache()
	primary := &fakeProvider{name: "primary", results: map[string]models.Coordinates{
		"a": {Lat: 1, Lng: 1},
		"b": {Lat: 2, Lng: 2},
	}}

	g := NewChainGeocoder(cache, primary, &fakeProvider{name: "secondary"})
	out := g.ResolveBatch(context.Background(), []string{"a", "b", "a", "missing"})

	assert.Len(t, out, 2)
	assert.Equal(t, 1.0, out["a"].Lat)
	assert.Equal(t, 2.0, out["b"].Lat)
	assert.Equal(t, 3, primary.calls, "duplicates resolved once, misses tried once")
}
