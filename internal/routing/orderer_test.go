package routing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"visit-route-planner/internal/models"
)

func stopAt(id string, lat, lng float64) models.Stop {
	return models.Stop{
		Customer: models.Customer{ID: id, Name: id},
		Coords:   &models.Coordinates{Lat: lat, Lng: lng},
	}
}

func stopUnplaced(id string) models.Stop {
	return models.Stop{Customer: models.Customer{ID: id, Name: id}}
}

func ids(stops []models.Stop) []string {
	out := make([]string, len(stops))
	for i, s := range stops {
		out[i] = s.Customer.ID
	}
	return out
}

func TestOptimizeNearestFirst(t *testing.T) {
	// Stops added as (0,0), (0,1), (1,1); origin (0,0). (0,1) is at
	// distance 1 degree, (1,1) at ~1.41, so (0,1) must come before (1,1).
	stops := []models.Stop{
		stopAt("a", 0, 0),
		stopAt("c", 1, 1),
		stopAt("b", 0, 1),
	}
	origin := models.Coordinates{Lat: 0, Lng: 0}

	result := Optimize(stops, origin)
	assert.Equal(t, []string{"a", "b", "c"}, ids(result))
}

func TestOptimizeRenumbers(t *testing.T) {
	stops := []models.Stop{
		stopAt("a", 1, 1),
		stopAt("b", 0, 1),
	}
	result := Optimize(stops, models.Coordinates{Lat: 0, Lng: 0})

	require.Len(t, result, 2)
	assert.Equal(t, "b", result[0].Customer.ID)
	assert.Equal(t, 1, result[0].Order)
	assert.Equal(t, 2, result[1].Order)
}

func TestOptimizePure(t *testing.T) {
	stops := []models.Stop{
		stopAt("a", 1, 1),
		stopAt("b", 0, 1),
	}
	stops[0].Order = 1
	stops[1].Order = 2

	Optimize(stops, models.Coordinates{Lat: 0, Lng: 0})

	assert.Equal(t, "a", stops[0].Customer.ID, "input must not be reordered")
	assert.Equal(t, 1, stops[0].Order, "input must not be renumbered")
}

func TestOptimizeIdempotent(t *testing.T) {
	stops := []models.Stop{
		stopAt("a", 0.5, 0.2),
		stopAt("b", 0.1, 0.9),
		stopAt("c", 0.8, 0.4),
		stopUnplaced("d"),
	}
	origin := models.Coordinates{Lat: 0, Lng: 0}

	first := Optimize(stops, origin)
	second := Optimize(first, origin)
	assert.Equal(t, ids(first), ids(second))
}

func TestOptimizeUnplacedTailKeepsOrder(t *testing.T) {
	stops := []models.Stop{
		stopUnplaced("u1"),
		stopAt("a", 1, 1),
		stopUnplaced("u2"),
		stopAt("b", 0, 1),
	}
	result := Optimize(stops, models.Coordinates{Lat: 0, Lng: 0})

	assert.Equal(t, []string{"b", "a", "u1", "u2"}, ids(result))
	assert.Equal(t, []int{1, 2, 3, 4}, []int{result[0].Order, result[1].Order, result[2].Order, result[3].Order})
}

func TestOptimizeBoundaries(t *testing.T) {
	origin := models.Coordinates{Lat: 0, Lng: 0}

	assert.Empty(t, Optimize(nil, origin))

	one := []models.Stop{stopAt("a", 1, 1)}
	result := Optimize(one, origin)
	require.Len(t, result, 1)
	assert.Equal(t, "a", result[0].Customer.ID)

	// No resolvable coordinates: original order preserved
	none := []models.Stop{stopUnplaced("x"), stopUnplaced("y"), stopUnplaced("z")}
	result = Optimize(none, origin)
	assert.Equal(t, []string{"x", "y", "z"}, ids(result))
}

func TestOptimizeTieBreakOriginalOrder(t *testing.T) {
	// Two stops equidistant from the origin: the earlier one wins
	stops := []models.Stop{
		stopAt("first", 0, 1),
		stopAt("second", 1, 0),
	}
	result := Optimize(stops, models.Coordinates{Lat: 0, Lng: 0})
	assert.Equal(t, "first", result[0].Customer.ID)
}
