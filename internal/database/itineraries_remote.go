package database

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"visit-route-planner/internal/models"
)

// RemoteItineraryRepository persists named itineraries against the
// credential-bearing HTTP backend. Any transport failure is reported as
// *ErrPersistenceUnavailable so the fallback repository can redirect
// the call to the local store.
type RemoteItineraryRepository struct {
	baseURL    string
	apiKey     string
	operatorID string
	httpClient *http.Client
}

// NewRemoteItineraryRepository creates a repository against the remote
// backend. baseURL may be empty when the deployment has no backend;
// every call then reports unavailable.
func NewRemoteItineraryRepository(baseURL, apiKey, operatorID string) *RemoteItineraryRepository {
	return &RemoteItineraryRepository{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		apiKey:     apiKey,
		operatorID: operatorID,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type savedItineraryPayload struct {
	ID         string           `json:"id"`
	OperatorID string           `json:"operator_id"`
	Name       string           `json:"name"`
	Itinerary  models.Itinerary `json:"itinerary"`
	CreatedAt  time.Time        `json:"created_at"`
}

func (r *RemoteItineraryRepository) List(ctx context.Context) ([]models.SavedItinerary, error) {
	body, err := r.do(ctx, http.MethodGet, r.collectionURL(), nil)
	if err != nil {
		return nil, err
	}

	var payload []savedItineraryPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, &ErrPersistenceUnavailable{Op: "list", Reason: "malformed response: " + err.Error()}
	}

	result := make([]models.SavedItinerary, 0, len(payload))
	for _, p := range payload {
		result = append(result, models.SavedItinerary{
			ID:        p.ID,
			Name:      p.Name,
			Itinerary: p.Itinerary,
			CreatedAt: p.CreatedAt,
		})
	}
	return result, nil
}

func (r *RemoteItineraryRepository) Create(ctx context.Context, name string, itinerary models.Itinerary) (*models.SavedItinerary, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrEmptyName
	}

	saved := &models.SavedItinerary{
		ID:        uuid.NewString(),
		Name:      name,
		Itinerary: itinerary,
		CreatedAt: time.Now(),
	}

	payload, err := json.Marshal(savedItineraryPayload{
		ID:         saved.ID,
		OperatorID: r.operatorID,
		Name:       saved.Name,
		Itinerary:  saved.Itinerary,
		CreatedAt:  saved.CreatedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal itinerary: %w", err)
	}

	if _, err := r.do(ctx, http.MethodPost, r.collectionURL(), payload); err != nil {
		return nil, err
	}

	log.Printf("[REPO] Saved itinerary remotely: id=%s name=%s stops=%d", saved.ID, saved.Name, len(saved.Itinerary.Stops))
	return saved, nil
}

// Delete removes a saved itinerary. The backend answering 404 for the
// id means there is nothing to delete, which is not an error.
func (r *RemoteItineraryRepository) Delete(ctx context.Context, id string) error {
	_, err := r.do(ctx, http.MethodDelete, r.collectionURL()+"/"+id, nil)
	return err
}

func (r *RemoteItineraryRepository) collectionURL() string {
	return fmt.Sprintf("%s/rest/v1/itineraries?operator_id=%s", r.baseURL, r.operatorID)
}

func (r *RemoteItineraryRepository) do(ctx context.Context, method, url string, body []byte) ([]byte, error) {
	if r.baseURL == "" {
		return nil, &ErrPersistenceUnavailable{Op: method, Reason: "no backend configured"}
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, &ErrPersistenceUnavailable{Op: method, Reason: err.Error()}
	}
	req.Header.Set("Authorization", "Bearer "+r.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, &ErrPersistenceUnavailable{Op: method, Reason: err.Error()}
	}
	defer resp.Body.Close()

	if method == http.MethodDelete && resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(resp.Body)
		return nil, &ErrPersistenceUnavailable{
			Op:     method,
			Reason: fmt.Sprintf("HTTP %d: %s", resp.StatusCode, string(raw)),
		}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &ErrPersistenceUnavailable{Op: method, Reason: err.Error()}
	}
	return data, nil
}
