package database

import (
	"context"

	"visit-route-planner/internal/models"
)

// DataStore is the interface for local data persistence
type DataStore interface {
	Close() error
	HealthCheck(ctx context.Context) error
	GeocodeCache() GeocodeCacheRepository
	Drafts() DraftRepository
	Itineraries() ItineraryRepository
}

// GeocodeCacheRepository handles the persistent address->coordinate
// cache. Implementations never surface storage failures to callers: a
// broken store behaves as always-miss.
type GeocodeCacheRepository interface {
	Get(ctx context.Context, address string) *models.Coordinates
	Put(ctx context.Context, address string, coords models.Coordinates)
	Clear(ctx context.Context) error
}

// DraftRepository handles autosave/restore of the in-progress
// itinerary, one draft per operator.
type DraftRepository interface {
	Save(ctx context.Context, operatorID string, itinerary models.Itinerary) error
	Load(ctx context.Context, operatorID string) (*models.Itinerary, error)
	Clear(ctx context.Context, operatorID string) error
}

// ItineraryRepository handles CRUD of named, persisted itineraries
type ItineraryRepository interface {
	List(ctx context.Context) ([]models.SavedItinerary, error)
	Create(ctx context.Context, name string, itinerary models.Itinerary) (*models.SavedItinerary, error)
	Delete(ctx context.Context, id string) error
}
