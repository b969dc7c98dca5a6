package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"visit-route-planner/internal/models"
)

// localItineraryRepository stores named itineraries in the local SQLite
// database, scoped to the operator. It serves as the fallback when the
// remote backend is unreachable or absent.
type localItineraryRepository struct {
	db         *sql.DB
	operatorID string
}

// NewLocalItineraryRepository creates a local repository on an existing DB
func NewLocalItineraryRepository(db *DB, operatorID string) ItineraryRepository {
	return &localItineraryRepository{db: db.conn, operatorID: operatorID}
}

func (r *localItineraryRepository) List(ctx context.Context) ([]models.SavedItinerary, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, snapshot, created_at FROM itineraries WHERE operator_id = ?`,
		r.operatorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list itineraries: %w", err)
	}
	defer rows.Close()

	var result []models.SavedItinerary
	for rows.Next() {
		var saved models.SavedItinerary
		var snapshot string
		if err := rows.Scan(&saved.ID, &saved.Name, &snapshot, &saved.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan itinerary row: %w", err)
		}
		if err := json.Unmarshal([]byte(snapshot), &saved.Itinerary); err != nil {
			log.Printf("[REPO] Skipping unreadable itinerary snapshot: id=%s err=%v", saved.ID, err)
			continue
		}
		result = append(result, saved)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate itinerary rows: %w", err)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	return result, nil
}

func (r *localItineraryRepository) Create(ctx context.Context, name string, itinerary models.Itinerary) (*models.SavedItinerary, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrEmptyName
	}

	saved := &models.SavedItinerary{
		ID:        uuid.NewString(),
		Name:      name,
		Itinerary: itinerary,
		CreatedAt: time.Now(),
	}

	snapshot, err := json.Marshal(saved.Itinerary)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal itinerary: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO itineraries (id, operator_id, name, snapshot, created_at) VALUES (?, ?, ?, ?, ?)`,
		saved.ID, r.operatorID, saved.Name, string(snapshot), saved.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert itinerary: %w", err)
	}

	log.Printf("[REPO] Saved itinerary locally: id=%s name=%s stops=%d", saved.ID, saved.Name, len(saved.Itinerary.Stops))
	return saved, nil
}

// Delete removes a saved itinerary. Deleting an unknown id is not an
// error (idempotent).
func (r *localItineraryRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM itineraries WHERE id = ? AND operator_id = ?`, id, r.operatorID)
	if err != nil {
		return fmt.Errorf("failed to delete itinerary: %w", err)
	}
	return nil
}
