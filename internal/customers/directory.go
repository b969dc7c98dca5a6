package customers

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

// legacyArchivedToken is the in-band marker older backend records append
// to the notes field to flag an archived customer. Current records carry
// a typed archived flag instead; the token is stripped once on read.
const legacyArchivedToken = "[ARCHIVED]"

// LocationDirectory is a read-only client for the CRM customer list,
// scoped to one operator.
type LocationDirectory struct {
	baseURL    string
	apiKey     string
	operatorID string
	httpClient *http.Client
}

// NewLocationDirectory creates a directory client for the backend
func NewLocationDirectory(baseURL, apiKey, operatorID string) *LocationDirectory {
	return &LocationDirectory{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		operatorID: operatorID,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

type customerPayload struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Address    string   `json:"address"`
	City       string   `json:"city"`
	PostalCode string   `json:"postal_code"`
	Lat        *float64 `json:"lat"`
	Lng        *float64 `json:"lng"`
	Archived   bool     `json:"archived"`
	Notes      string   `json:"notes"`
}

// ListForOperator fetches the operator's customers. Legacy records that
// still carry the archived token in their notes come back with the
// typed flag set and the token removed.
func (d *LocationDirectory) ListForOperator(ctx context.Context) ([]models.Customer, error) {
	if d.baseURL == "" {
		return nil, fmt.Errorf("customer backend not configured")
	}

	url := fmt.Sprintf("%s/rest/v1/customers?operator_id=%s", d.baseURL, d.operatorID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if d.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+d.apiKey)
	}

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("customer list request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("customer backend returned status %d: %s", resp.StatusCode, string(body))
	}

	var payloads []customerPayload
	if err := json.NewDecoder(resp.Body).Decode(&payloads); err != nil {
		return nil, fmt.Errorf("failed to decode customer list: %w", err)
	}

	customers := make([]models.Customer, 0, len(payloads))
	migrated := 0
	for _, p := range payloads {
		c := models.Customer{
			ID:         p.ID,
			Name:       p.Name,
			Address:    p.Address,
			City:       p.City,
			PostalCode: p.PostalCode,
			Lat:        p.Lat,
			Lng:        p.Lng,
			Archived:   p.Archived,
			Notes:      p.Notes,
		}
		if notes, found := stripLegacyToken(c.Notes); found {
			c.Notes = notes
			c.Archived = true
			migrated++
		}
		customers = append(customers, c)
	}

	if migrated > 0 {
		log.Printf("[CUSTOMERS] Migrated legacy archived markers: count=%d", migrated)
	}
	log.Printf("[CUSTOMERS] Listed customers: operator=%s count=%d", d.operatorID, len(customers))
	return customers, nil
}

// stripLegacyToken removes a trailing archived token from the notes
func stripLegacyToken(notes string) (string, bool) {
	trimmed := strings.TrimRight(notes, " ")
	if !strings.HasSuffix(trimmed, legacyArchivedToken) {
		return notes, false
	}
	trimmed = strings.TrimSuffix(trimmed, legacyArchivedToken)
	return strings.TrimRight(trimmed, " "), true
}
