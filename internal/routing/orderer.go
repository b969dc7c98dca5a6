package routing

import (
	"log"

	"visit-route-planner/internal/distance"
	"visit-route-planner/internal/models"
)

// Optimize computes a practical visiting order with a greedy
// nearest-neighbor heuristic anchored on the operator's position. It is
// pure: the input slice is never mutated.
//
// Stops without a coordinate are appended after the ordered ones,
// keeping their original relative order, and are never dropped. Ties
// are broken by original relative order. The result is renumbered 1..N.
//
// Greedy O(N²), fine for day-sized itineraries (low tens of stops); it
// makes no attempt at a globally optimal tour.
func Optimize(stops []models.Stop, origin models.Coordinates) []models.Stop {
	result := make([]models.Stop, len(stops))
	copy(result, stops)

	var withCoords, withoutCoords []models.Stop
	for _, s := range result {
		if s.HasCoords() {
			withCoords = append(withCoords, s)
		} else {
			withoutCoords = append(withoutCoords, s)
		}
	}

	if len(stops) < 2 || len(withCoords) == 0 {
		renumber(result)
		return result
	}

	ordered := make([]models.Stop, 0, len(stops))
	current := origin

	for len(withCoords) > 0 {
		best := 0
		bestDist := distance.HaversineKm(current, *withCoords[0].Coords)
		for i := 1; i < len(withCoords); i++ {
			d := distance.HaversineKm(current, *withCoords[i].Coords)
			// Strict comparison keeps the earliest stop on ties
			if d < bestDist {
				best = i
				bestDist = d
			}
		}

		next := withCoords[best]
		ordered = append(ordered, next)
		current = *next.Coords
		withCoords = append(withCoords[:best], withCoords[best+1:]...)
	}

	ordered = append(ordered, withoutCoords...)
	renumber(ordered)

	log.Printf("[ROUTING] Optimized visiting order: stops=%d unplaced=%d", len(ordered), len(withoutCoords))
	return ordered
}

func renumber(stops []models.Stop) {
	for i := range stops {
		stops[i].Order = i + 1
	}
}
