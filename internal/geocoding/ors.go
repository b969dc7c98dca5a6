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

	"visit-route-planner/internal/models"
)

// ORSGeocoder is the primary, credentialed geocoding provider
// (OpenRouteService /geocode/search). It accepts language and country
// hints and has no rate-limit restriction of its own.
type ORSGeocoder struct {
	baseURL    string
	apiKey     string
	language   string
	country    string
	httpClient *http.Client
}

type orsGeocodeResponse struct {
	Features []struct {
		Geometry struct {
			Coordinates []float64 `json:"coordinates"`
		} `json:"geometry"`
		Properties struct {
			Label string `json:"label"`
		} `json:"properties"`
	} `json:"features"`
}

// NewORSGeocoder creates the primary geocoder
func NewORSGeocoder(baseURL, apiKey, language, country string) *ORSGeocoder {
	return &ORSGeocoder{
		baseURL:  baseURL,
		apiKey:   apiKey,
		language: language,
		country:  country,
		httpClient: &http.Client{
			Timeout: 8 * time.Second,
		},
	}
}

func (g *ORSGeocoder) Name() string { return "ors" }

func (g *ORSGeocoder) Geocode(ctx context.Context, address string) (*models.Coordinates, error) {
	if g.apiKey == "" {
		return nil, &ErrGeocodingFailed{Provider: g.Name(), Address: address, Reason: "no API key configured"}
	}

	q := url.Values{}
	q.Set("api_key", g.apiKey)
	q.Set("text", address)
	q.Set("size", "1")
	if g.country != "" {
		q.Set("boundary.country", g.country)
	}
	if g.language != "" {
		q.Set("lang", g.language)
	}

	queryURL := fmt.Sprintf("%s/geocode/search?%s", g.baseURL, q.Encode())

	req, err := http.NewRequestWithContext(ctx, "GET", queryURL, nil)
	if err != nil {
		return nil, &ErrGeocodingFailed{Provider: g.Name(), Address: address, Reason: err.Error()}
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		log.Printf("[ERROR] ORS geocoding request failed: address=%s err=%v", address, err)
		return nil, &ErrGeocodingFailed{Provider: g.Name(), Address: address, Reason: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		log.Printf("[ERROR] ORS geocoding API error: address=%s status=%d body=%s", address, resp.StatusCode, string(body))
		return nil, &ErrGeocodingFailed{
			Provider: g.Name(),
			Address:  address,
			Reason:   fmt.Sprintf("HTTP %d: %s", resp.StatusCode, string(body)),
		}
	}

	var decoded orsGeocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, &ErrGeocodingFailed{Provider: g.Name(), Address: address, Reason: err.Error()}
	}

	if len(decoded.Features) == 0 {
		return nil, &ErrGeocodingFailed{Provider: g.Name(), Address: address, Reason: "no results found"}
	}

	coords := decoded.Features[0].Geometry.Coordinates
	if len(coords) != 2 {
		return nil, &ErrGeocodingFailed{Provider: g.Name(), Address: address, Reason: "invalid coordinate format"}
	}

	log.Printf("[GEOCODING] ORS response: address=%s lat=%.6f lng=%.6f", address, coords[1], coords[0])
	return &models.Coordinates{Lat: coords[1], Lng: coords[0]}, nil
}
