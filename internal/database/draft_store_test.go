package database

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"visit-route-planner/internal/models"
)

func sampleItinerary() models.Itinerary {
	return models.Itinerary{
		Stops: []models.Stop{
			{
				Customer: models.Customer{ID: "c1", Name: "Dupont", Address: "1 Rue A", City: "Caen"},
				Order:    1,
				Coords:   &models.Coordinates{Lat: 49.18, Lng: -0.37},
			},
			{
				Customer:       models.Customer{ID: "c2", Name: "Martin", Address: "2 Rue B", City: "Bayeux"},
				Order:          2,
				Coords:         &models.Coordinates{Lat: 49.27, Lng: -0.70},
				LegDistanceKm:  models.Float64Ptr(28.4),
				LegDurationMin: models.Float64Ptr(31.0),
			},
		},
		ScheduledDate:    "2026-09-01",
		TotalDistanceKm:  28.4,
		TotalDurationMin: 31.0,
	}
}

func TestDraftSaveLoad(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	drafts := db.Drafts()

	err := drafts.Save(ctx, "op-1", sampleItinerary())
	require.NoError(t, err)

	loaded, err := drafts.Load(ctx, "op-1")
	require.NoError(t, err)
	require.NotNil(t, loaded)
	require.Len(t, loaded.Stops, 2)
	assert.Equal(t, "c1", loaded.Stops[0].Customer.ID)
	assert.Equal(t, "c2", loaded.Stops[1].Customer.ID)
	assert.Equal(t, 1, loaded.Stops[0].Order)
	assert.Equal(t, 2, loaded.Stops[1].Order)
	assert.Equal(t, 28.4, loaded.TotalDistanceKm)
}

func TestDraftLoadAbsent(t *testing.T) {
	db := setupTestDB(t)
	loaded, err := db.Drafts().Load(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestDraftOverwrite(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	drafts := db.Drafts()

	require.NoError(t, drafts.Save(ctx, "op-1", sampleItinerary()))

	smaller := models.Itinerary{Stops: []models.Stop{
		{Customer: models.Customer{ID: "c3"}, Order: 1},
	}}
	require.NoError(t, drafts.Save(ctx, "op-1", smaller))

	loaded, err := drafts.Load(ctx, "op-1")
	require.NoError(t, err)
	require.NotNil(t, loaded)
	require.Len(t, loaded.Stops, 1)
	assert.Equal(t, "c3", loaded.Stops[0].Customer.ID)
}

func TestDraftPerOperator(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	drafts := db.Drafts()

	require.NoError(t, drafts.Save(ctx, "op-1", sampleItinerary()))

	loaded, err := drafts.Load(ctx, "op-2")
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestDraftClear(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	drafts := db.Drafts()

	require.NoError(t, drafts.Save(ctx, "op-1", sampleItinerary()))
	require.NoError(t, drafts.Clear(ctx, "op-1"))

	loaded, err := drafts.Load(ctx, "op-1")
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestDraftCorruptSnapshotTreatedAsAbsent(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	// Plant a corrupt snapshot, bypassing the repository API
	_, err := db.conn.Exec(
		`INSERT OR REPLACE INTO drafts (operator_id, snapshot, updated_at) VALUES (?, ?, ?)`,
		"op-1", "{not json", time.Now())
	require.NoError(t, err)

	loaded, err := db.Drafts().Load(ctx, "op-1")
	require.NoError(t, err)
	assert.Nil(t, loaded)

	// The corrupt row is dropped on first load
	var count int
	require.NoError(t, db.conn.QueryRow(`SELECT COUNT(*) FROM drafts`).Scan(&count))
	assert.Equal(t, 0, count)
}
