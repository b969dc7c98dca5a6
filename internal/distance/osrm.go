package distance

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"visit-route-planner/internal/models"
)

// OSRMCalculator prices the legs of an ordered waypoint list using the
// OSRM route service. Waypoints are sent in the exact order supplied;
// OSRM never reorders them. When the provider fails entirely the
// calculator degrades to great-circle estimates with no durations.
type OSRMCalculator struct {
	baseURL    string
	httpClient *http.Client
}

type osrmRouteResponse struct {
	Code   string `json:"code"`
	Routes []struct {
		Legs []struct {
			Distance float64 `json:"distance"`
			Duration float64 `json:"duration"`
		} `json:"legs"`
	} `json:"routes"`
}

// NewOSRMCalculator creates a routing client against an OSRM endpoint
func NewOSRMCalculator(baseURL string) *OSRMCalculator {
	return &OSRMCalculator{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// ComputeLegs prices every leg between consecutive waypoints. With 0 or
// 1 waypoints it returns empty legs and zero totals without any
// external call. Legs touching a waypoint without coordinates, and legs
// the provider could not price, keep nil metrics; totals sum only the
// priced legs.
func (c *OSRMCalculator) ComputeLegs(ctx context.Context, coords []*models.Coordinates) (*LegsResult, error) {
	if len(coords) <= 1 {
		return &LegsResult{Legs: []Leg{}}, nil
	}

	result := &LegsResult{Legs: make([]Leg, len(coords)-1)}

	// Indices of waypoints that have coordinates
	var placed []int
	for i, co := range coords {
		if co != nil {
			placed = append(placed, i)
		}
	}
	if len(placed) < 2 {
		return result, nil
	}

	legs, err := c.routeLegs(ctx, coords, placed)
	if err != nil {
		log.Printf("[OSRM] Provider failed, falling back to great-circle estimate: err=%v", err)
		c.estimateLegs(coords, result)
		return result, nil
	}

	// Response leg k runs between placed[k] and placed[k+1]; only legs
	// between stops adjacent in the supplied order are itinerary legs.
	for k := 0; k+1 < len(placed); k++ {
		from, to := placed[k], placed[k+1]
		if to-from != 1 {
			continue
		}
		if legs[k].Distance <= 0 && legs[k].Duration <= 0 {
			// Unpriced leg, non-fatal
			continue
		}
		result.Legs[from] = Leg{
			DistanceKm:  models.Float64Ptr(legs[k].Distance / 1000.0),
			DurationMin: models.Float64Ptr(legs[k].Duration / 60.0),
		}
	}

	sumTotals(result)
	return result, nil
}

func (c *OSRMCalculator) routeLegs(ctx context.Context, coords []*models.Coordinates, placed []int) ([]struct {
	Distance float64 `json:"distance"`
	Duration float64 `json:"duration"`
}, error) {
	parts := make([]string, len(placed))
	for i, idx := range placed {
		parts[i] = fmt.Sprintf("%.6f,%.6f", coords[idx].Lng, coords[idx].Lat)
	}

	queryURL := fmt.Sprintf("%s/route/v1/driving/%s?overview=false&steps=false", c.baseURL, strings.Join(parts, ";"))

	req, err := http.NewRequestWithContext(ctx, "GET", queryURL, nil)
	if err != nil {
		return nil, &ErrRoutingUnavailable{Reason: err.Error()}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Printf("[ERROR] OSRM request failed: waypoints=%d err=%v", len(placed), err)
		return nil, &ErrRoutingUnavailable{Reason: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		log.Printf("[ERROR] OSRM API error: waypoints=%d status=%d body=%s", len(placed), resp.StatusCode, string(body))
		return nil, &ErrRoutingUnavailable{Reason: fmt.Sprintf("HTTP %d: %s", resp.StatusCode, string(body))}
	}

	var decoded osrmRouteResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, &ErrRoutingUnavailable{Reason: err.Error()}
	}

	if decoded.Code != "Ok" || len(decoded.Routes) == 0 {
		return nil, &ErrRoutingUnavailable{Reason: fmt.Sprintf("OSRM error: %s", decoded.Code)}
	}

	legs := decoded.Routes[0].Legs
	if len(legs) != len(placed)-1 {
		return nil, &ErrRoutingUnavailable{Reason: fmt.Sprintf("unexpected leg count: got %d want %d", len(legs), len(placed)-1)}
	}

	log.Printf("[OSRM] Route response: waypoints=%d legs=%d", len(placed), len(legs))
	return legs, nil
}

// estimateLegs fills the result with pairwise great-circle distances
// between adjacent placed waypoints. Durations stay unavailable.
func (c *OSRMCalculator) estimateLegs(coords []*models.Coordinates, result *LegsResult) {
	for i := 0; i+1 < len(coords); i++ {
		if coords[i] == nil || coords[i+1] == nil {
			continue
		}
		km := HaversineKm(*coords[i], *coords[i+1])
		result.Legs[i] = Leg{DistanceKm: models.Float64Ptr(km)}
	}
	result.Estimated = true
	sumTotals(result)
}

func sumTotals(result *LegsResult) {
	result.TotalDistanceKm = 0
	result.TotalDurationMin = 0
	for _, leg := range result.Legs {
		if leg.DistanceKm != nil {
			result.TotalDistanceKm += *leg.DistanceKm
		}
		if leg.DurationMin != nil {
			result.TotalDurationMin += *leg.DurationMin
		}
	}
}
