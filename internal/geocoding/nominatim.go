package geocoding

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"visit-route-planner/internal/models"
)

// secondaryCallInterval spaces out calls to the public Nominatim
// instance, which tolerates roughly three requests per second.
const secondaryCallInterval = 350 * time.Millisecond

// NominatimGeocoder is the secondary, public, rate-limited provider.
// Lower quality than the primary but needs no credential.
type NominatimGeocoder struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

type nominatimResponse struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// NewNominatimGeocoder creates the secondary geocoder with rate limiting
func NewNominatimGeocoder(baseURL string) *NominatimGeocoder {
	return &NominatimGeocoder{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		limiter: rate.NewLimiter(rate.Every(secondaryCallInterval), 1),
	}
}

func (g *NominatimGeocoder) Name() string { return "nominatim" }

func (g *NominatimGeocoder) Geocode(ctx context.Context, address string) (*models.Coordinates, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return nil, &ErrGeocodingFailed{Provider: g.Name(), Address: address, Reason: err.Error()}
	}

	queryURL := fmt.Sprintf("%s/search?q=%s&format=json&limit=1", g.baseURL, url.QueryEscape(address))
	log.Printf("[GEOCODING] Nominatim request: address=%s", address)

	req, err := http.NewRequestWithContext(ctx, "GET", queryURL, nil)
	if err != nil {
		return nil, &ErrGeocodingFailed{Provider: g.Name(), Address: address, Reason: err.Error()}
	}

	req.Header.Set("User-Agent", "VisitRoutePlanner/1.0")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		log.Printf("[ERROR] Nominatim request failed: address=%s err=%v", address, err)
		return nil, &ErrGeocodingFailed{Provider: g.Name(), Address: address, Reason: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		log.Printf("[ERROR] Nominatim API error: address=%s status=%d body=%s", address, resp.StatusCode, string(body))
		return nil, &ErrGeocodingFailed{
			Provider: g.Name(),
			Address:  address,
			Reason:   fmt.Sprintf("HTTP %d: %s", resp.StatusCode, string(body)),
		}
	}

	var results []nominatimResponse
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, &ErrGeocodingFailed{Provider: g.Name(), Address: address, Reason: err.Error()}
	}

	if len(results) == 0 {
		return nil, &ErrGeocodingFailed{Provider: g.Name(), Address: address, Reason: "no results found"}
	}

	result := results[0]
	var lat, lng float64
	if _, err := fmt.Sscanf(result.Lat, "%f", &lat); err != nil {
		return nil, &ErrGeocodingFailed{Provider: g.Name(), Address: address, Reason: "invalid latitude"}
	}
	if _, err := fmt.Sscanf(result.Lon, "%f", &lng); err != nil {
		return nil, &ErrGeocodingFailed{Provider: g.Name(), Address: address, Reason: "invalid longitude"}
	}

	log.Printf("[GEOCODING] Nominatim response: address=%s lat=%.6f lng=%.6f display_name=%s", address, lat, lng, result.DisplayName)
	return &models.Coordinates{Lat: lat, Lng: lng}, nil
}
