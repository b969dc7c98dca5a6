package database

import (
	"context"
	"errors"
	"log"

	"visit-route-planner/internal/models"
)

// FallbackItineraryRepository tries the remote backend first and
// transparently redirects to the local store on any transport failure,
// so save/load/delete keep working without the backend.
type FallbackItineraryRepository struct {
	remote ItineraryRepository
	local  ItineraryRepository
}

// NewFallbackItineraryRepository combines a remote and a local repository
func NewFallbackItineraryRepository(remote, local ItineraryRepository) *FallbackItineraryRepository {
	return &FallbackItineraryRepository{remote: remote, local: local}
}

func (r *FallbackItineraryRepository) List(ctx context.Context) ([]models.SavedItinerary, error) {
	result, err := r.remote.List(ctx)
	if unavailable(err) {
		log.Printf("[REPO] Remote list unavailable, using local store: %v", err)
		return r.local.List(ctx)
	}
	return result, err
}

func (r *FallbackItineraryRepository) Create(ctx context.Context, name string, itinerary models.Itinerary) (*models.SavedItinerary, error) {
	saved, err := r.remote.Create(ctx, name, itinerary)
	if unavailable(err) {
		log.Printf("[REPO] Remote create unavailable, using local store: %v", err)
		return r.local.Create(ctx, name, itinerary)
	}
	return saved, err
}

func (r *FallbackItineraryRepository) Delete(ctx context.Context, id string) error {
	err := r.remote.Delete(ctx, id)
	if unavailable(err) {
		log.Printf("[REPO] Remote delete unavailable, using local store: %v", err)
		return r.local.Delete(ctx, id)
	}
	if err != nil {
		return err
	}
	// Itineraries created during an outage live only locally; keep the
	// stores consistent on delete. Local delete is idempotent.
	return r.local.Delete(ctx, id)
}

func unavailable(err error) bool {
	var pu *ErrPersistenceUnavailable
	return errors.As(err, &pu)
}
