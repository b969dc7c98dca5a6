package geocoding

import (
	"context"
	"fmt"

	"visit-route-planner/internal/models"
)

// Provider resolves a free-text address through one external geocoding
// service.
type Provider interface {
	Name() string
	Geocode(ctx context.Context, address string) (*models.Coordinates, error)
}

// ErrGeocodingFailed is returned when a provider cannot resolve an address
type ErrGeocodingFailed struct {
	Provider string
	Address  string
	Reason   string
}

func (e *ErrGeocodingFailed) Error() string {
	return fmt.Sprintf("geocoding failed (%s) for address: %s - %s", e.Provider, e.Address, e.Reason)
}
