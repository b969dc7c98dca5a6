package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"visit-route-planner/internal/models"
)

// draftRepository persists the in-progress itinerary as a JSON snapshot,
// one row per operator, continuously overwritten as the itinerary
// changes.
type draftRepository struct {
	db *sql.DB
}

func (r *draftRepository) Save(ctx context.Context, operatorID string, itinerary models.Itinerary) error {
	snapshot, err := json.Marshal(itinerary)
	if err != nil {
		return fmt.Errorf("failed to marshal draft: %w", err)
	}

	query := `
		INSERT OR REPLACE INTO drafts (operator_id, snapshot, updated_at)
		VALUES (?, ?, ?)`

	if _, err := r.db.ExecContext(ctx, query, operatorID, string(snapshot), time.Now()); err != nil {
		return fmt.Errorf("failed to save draft: %w", err)
	}

	return nil
}

// Load returns the stored draft, or nil when none exists. A corrupt
// snapshot is dropped and treated as absent so session start never
// fails on a bad draft.
func (r *draftRepository) Load(ctx context.Context, operatorID string) (*models.Itinerary, error) {
	var snapshot string
	err := r.db.QueryRowContext(ctx,
		`SELECT snapshot FROM drafts WHERE operator_id = ?`, operatorID).Scan(&snapshot)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load draft: %w", err)
	}

	var itinerary models.Itinerary
	if err := json.Unmarshal([]byte(snapshot), &itinerary); err != nil {
		log.Printf("[DRAFT] Discarding corrupt draft: operator=%s err=%v", operatorID, err)
		_ = r.Clear(ctx, operatorID)
		return nil, nil
	}

	return &itinerary, nil
}

func (r *draftRepository) Clear(ctx context.Context, operatorID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM drafts WHERE operator_id = ?`, operatorID); err != nil {
		return fmt.Errorf("failed to clear draft: %w", err)
	}
	return nil
}
