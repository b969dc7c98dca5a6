package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *DB {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "planner_test.db")
	db, err := New(dbPath, "op-test")
	require.NoError(t, err)

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

func TestNewDB(t *testing.T) {
	db := setupTestDB(t)
	assert.NotNil(t, db.GeocodeCache())
	assert.NotNil(t, db.Drafts())
	assert.NotNil(t, db.Itineraries())
}

func TestHealthCheck(t *testing.T) {
	db := setupTestDB(t)
	err := db.HealthCheck(context.Background())
	assert.NoError(t, err)
}
