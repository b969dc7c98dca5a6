package position

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"visit-route-planner/internal/models"
)

func TestSessionProviderStartsUnavailable(t *testing.T) {
	p := NewSessionProvider()

	_, err := p.Current()
	var unavailable *ErrPositionUnavailable
	require.ErrorAs(t, err, &unavailable)
	assert.Equal(t, ReasonUnavailable, unavailable.Reason)
}

func TestSessionProviderUpdate(t *testing.T) {
	p := NewSessionProvider()
	p.Update(models.Coordinates{Lat: 49.18, Lng: -0.37})

	coords, err := p.Current()
	require.NoError(t, err)
	assert.Equal(t, 49.18, coords.Lat)
}

func TestSessionProviderFailReasons(t *testing.T) {
	p := NewSessionProvider()
	p.Update(models.Coordinates{Lat: 1, Lng: 1})

	for _, reason := range []string{ReasonDenied, ReasonTimeout} {
		p.Fail(reason)
		_, err := p.Current()
		var unavailable *ErrPositionUnavailable
		require.ErrorAs(t, err, &unavailable)
		assert.Equal(t, reason, unavailable.Reason)
	}

	// A failure clears any previous fix and unknown reasons normalize
	p.Fail("battery on fire")
	_, err := p.Current()
	var unavailable *ErrPositionUnavailable
	require.ErrorAs(t, err, &unavailable)
	assert.Equal(t, ReasonUnavailable, unavailable.Reason)
}

func TestStaticProvider(t *testing.T) {
	p := &StaticProvider{Coords: models.Coordinates{Lat: 48.85, Lng: 2.35}}
	coords, err := p.Current()
	require.NoError(t, err)
	assert.Equal(t, 48.85, coords.Lat)
}
