package distance

import (
	"context"
	"fmt"

	"visit-route-planner/internal/models"
)

// Leg holds the drive metrics from one stop to the next. Nil fields
// mean the routing provider could not price that leg.
type Leg struct {
	DistanceKm  *float64 `json:"distance_km,omitempty"`
	DurationMin *float64 `json:"duration_min,omitempty"`
}

// LegsResult is the outcome of a full recompute over an ordered stop
// list. Totals sum only the legs that could be priced. Estimated marks
// great-circle fallback figures, for which duration is unavailable.
type LegsResult struct {
	Legs             []Leg   `json:"legs"`
	TotalDistanceKm  float64 `json:"total_distance_km"`
	TotalDurationMin float64 `json:"total_duration_min"`
	Estimated        bool    `json:"estimated"`
}

// Calculator turns an ordered waypoint list into per-leg distance and
// duration plus totals. Waypoints without a coordinate are allowed;
// legs touching them stay unpriced.
type Calculator interface {
	ComputeLegs(ctx context.Context, coords []*models.Coordinates) (*LegsResult, error)
}

// ErrRoutingUnavailable is returned when the routing provider failed
// entirely and not even an estimate could be produced.
type ErrRoutingUnavailable struct {
	Reason string
}

func (e *ErrRoutingUnavailable) Error() string {
	return fmt.Sprintf("routing unavailable: %s", e.Reason)
}
