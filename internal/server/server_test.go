package server

import (
	"context"
	"encoding/json"
	"net/http"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"visit-route-planner/internal/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		ServerAddr:       "127.0.0.1:0",
		ORSBaseURL:       "http://127.0.0.1:1",
		NominatimBaseURL: "http://127.0.0.1:1",
		OSRMBaseURL:      "http://127.0.0.1:1",
		OperatorID:       "op-test",
		DBPath:           filepath.Join(t.TempDir(), "planner.db"),
	}
}

func startTestServer(t *testing.T) string {
	t.Helper()
	frontend := fstest.MapFS{
		"index.html": &fstest.MapFile{Data: []byte("<html>planner</html>")},
	}

	srv, err := New(testConfig(t), frontend)
	require.NoError(t, err)

	addr, err := srv.Start()
	require.NoError(t, err)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(ctx)
	})

	return "http://" + addr
}

func TestServerHealth(t *testing.T) {
	base := startTestServer(t)

	resp, err := http.Get(base + "/api/v1/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])
}

func TestServerServesFrontend(t *testing.T) {
	base := startTestServer(t)

	resp, err := http.Get(base + "/")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestServerMethodNotAllowed(t *testing.T) {
	base := startTestServer(t)

	resp, err := http.Get(base + "/api/v1/itinerary/optimize")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestServerCORSPreflight(t *testing.T) {
	base := startTestServer(t)

	req, err := http.NewRequest(http.MethodOptions, base+"/api/v1/itinerary", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:5173")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "http://localhost:5173", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestServerItineraryRoundTrip(t *testing.T) {
	base := startTestServer(t)

	// Add a stop with a known coordinate, then read the itinerary back
	body := `{"customer":{"id":"c1","name":"Client","address":"1 rue X","city":"Caen","postal_code":"14000","lat":49.18,"lng":-0.37}}`
	resp, err := http.Post(base+"/api/v1/itinerary/stops", "application/json",
		strings.NewReader(body))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(base + "/api/v1/itinerary")
	require.NoError(t, err)
	defer resp.Body.Close()

	var snap struct {
		Stops []struct {
			Order int `json:"order"`
		} `json:"stops"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&snap))
	require.Len(t, snap.Stops, 1)
	assert.Equal(t, 1, snap.Stops[0].Order)
}
