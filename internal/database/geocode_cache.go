package database

import (
	"context"
	"database/sql"
	"log"
	"time"

	"visit-route-planner/internal/models"
)

// geocodeCacheRepository is the SQLite-backed implementation of
// GeocodeCacheRepository. Keys are the exact address strings passed to
// the geocoder; entries never expire within a session. Storage failures
// are logged and degrade to cache misses, never errors.
type geocodeCacheRepository struct {
	db *sql.DB
}

func (r *geocodeCacheRepository) Get(ctx context.Context, address string) *models.Coordinates {
	query := `SELECT lat, lng FROM geocode_cache WHERE address = ?`

	var lat, lng float64
	err := r.db.QueryRowContext(ctx, query, address).Scan(&lat, &lng)
	if err == sql.ErrNoRows {
		return nil
	}
	if err != nil {
		log.Printf("[CACHE] Geocode cache read failed, treating as miss: address=%s err=%v", address, err)
		return nil
	}

	return &models.Coordinates{Lat: lat, Lng: lng}
}

func (r *geocodeCacheRepository) Put(ctx context.Context, address string, coords models.Coordinates) {
	if address == "" {
		return
	}

	query := `
		INSERT OR REPLACE INTO geocode_cache (address, lat, lng, cached_at)
		VALUES (?, ?, ?, ?)`

	if _, err := r.db.ExecContext(ctx, query, address, coords.Lat, coords.Lng, time.Now()); err != nil {
		log.Printf("[CACHE] Geocode cache write failed: address=%s err=%v", address, err)
	}
}

func (r *geocodeCacheRepository) Clear(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM geocode_cache`)
	return err
}

// NopGeocodeCache is used when no local store could be opened. Every
// lookup misses and writes are dropped, so geocoding keeps working
// without persistence.
type NopGeocodeCache struct{}

func (NopGeocodeCache) Get(ctx context.Context, address string) *models.Coordinates { return nil }

func (NopGeocodeCache) Put(ctx context.Context, address string, coords models.Coordinates) {}

func (NopGeocodeCache) Clear(ctx context.Context) error { return nil }
