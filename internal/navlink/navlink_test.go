package navlink

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildNavigationURL(t *testing.T) {
	link, err := BuildNavigationURL([]string{
		"4 rue Froide, 14000 Caen",
		"2 route de Paris, 14100 Lisieux",
		"1 place de la Mairie, 14600 Honfleur",
	})
	require.NoError(t, err)

	assert.Contains(t, link, "origin=4+rue+Froide%2C+14000+Caen")
	assert.Contains(t, link, "destination=1+place+de+la+Mairie%2C+14600+Honfleur")
	assert.Contains(t, link, "waypoints=2+route+de+Paris%2C+14100+Lisieux")
	assert.Contains(t, link, "travelmode=driving")
}

func TestBuildNavigationURLTwoAddresses(t *testing.T) {
	link, err := BuildNavigationURL([]string{"A, Caen", "B, Lisieux"})
	require.NoError(t, err)
	assert.NotContains(t, link, "waypoints=", "no intermediate stops, no waypoints param")
}

func TestBuildNavigationURLWaypointSeparatorEscaped(t *testing.T) {
	link, err := BuildNavigationURL([]string{"A", "B", "C", "D"})
	require.NoError(t, err)
	assert.Contains(t, link, "waypoints=B%7CC")
}

func TestBuildNavigationURLTooFew(t *testing.T) {
	_, err := BuildNavigationURL([]string{"A, Caen"})
	require.Error(t, err)

	_, err = BuildNavigationURL(nil)
	require.Error(t, err)

	// Blank entries do not count
	_, err = BuildNavigationURL([]string{"A, Caen", "   ", ""})
	require.Error(t, err)
}
