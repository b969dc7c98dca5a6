package models

import "time"

// Coordinates represents a geographic point
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Customer represents a customer location record owned by the external
// customer directory. It is read-only inside the planner.
type Customer struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Address    string   `json:"address"`
	City       string   `json:"city"`
	PostalCode string   `json:"postal_code"`
	Lat        *float64 `json:"lat,omitempty"`
	Lng        *float64 `json:"lng,omitempty"`
	Archived   bool     `json:"archived"`
	Notes      string   `json:"notes,omitempty"`
}

// FullAddress returns the address string used for geocoding and as the
// geocode cache key
func (c *Customer) FullAddress() string {
	addr := c.Address
	if c.PostalCode != "" {
		addr += ", " + c.PostalCode
	}
	if c.City != "" {
		addr += " " + c.City
	}
	return addr
}

// KnownCoords returns the customer's pre-existing coordinate, if any
func (c *Customer) KnownCoords() *Coordinates {
	if c.Lat == nil || c.Lng == nil {
		return nil
	}
	return &Coordinates{Lat: *c.Lat, Lng: *c.Lng}
}

// Stop represents a single visiting location within an itinerary.
// LegDistanceKm/LegDurationMin describe the leg ending at this stop;
// both stay nil on the first stop and on legs the routing provider
// could not price.
type Stop struct {
	Customer       Customer     `json:"customer"`
	Order          int          `json:"order"`
	Coords         *Coordinates `json:"coords,omitempty"`
	LegDistanceKm  *float64     `json:"leg_distance_km,omitempty"`
	LegDurationMin *float64     `json:"leg_duration_min,omitempty"`
}

// HasCoords reports whether the stop has been placed on the map
func (s *Stop) HasCoords() bool {
	return s.Coords != nil
}

// Itinerary represents the full working set of stops plus scheduling
// metadata and aggregate distance/duration.
type Itinerary struct {
	Stops            []Stop  `json:"stops"`
	ScheduledDate    string  `json:"scheduled_date,omitempty"`
	ScheduledTime    string  `json:"scheduled_time,omitempty"`
	TotalDistanceKm  float64 `json:"total_distance_km"`
	TotalDurationMin float64 `json:"total_duration_min"`
}

// IsEmpty reports whether the itinerary has no stops
func (i *Itinerary) IsEmpty() bool {
	return len(i.Stops) == 0
}

// Addresses returns the ordered address list of all stops
func (i *Itinerary) Addresses() []string {
	out := make([]string, len(i.Stops))
	for idx := range i.Stops {
		out[idx] = i.Stops[idx].Customer.FullAddress()
	}
	return out
}

// SavedItinerary represents a named, persisted itinerary snapshot.
// Immutable once created, except for deletion.
type SavedItinerary struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Itinerary Itinerary `json:"itinerary"`
	CreatedAt time.Time `json:"created_at"`
}

// GeocodeCacheEntry represents one cached address resolution
type GeocodeCacheEntry struct {
	Address  string      `json:"address"`
	Coords   Coordinates `json:"coords"`
	CachedAt time.Time   `json:"cached_at"`
}

// Marker is one entry of the ordered coordinate list handed to the map
// widget for marker/polyline rendering.
type Marker struct {
	Coords         Coordinates `json:"coords"`
	Label          string      `json:"label"`
	SequenceNumber int         `json:"sequence_number"`
}

// Float64Ptr returns a pointer to v
func Float64Ptr(v float64) *float64 {
	return &v
}
