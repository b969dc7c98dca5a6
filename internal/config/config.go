package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Config holds runtime configuration for providers and the persistence
// backend. Values come from the environment, optionally seeded from a
// .env file next to the binary.
type Config struct {
	ServerAddr string

	// Geocoding providers
	ORSAPIKey        string
	ORSBaseURL       string
	NominatimBaseURL string
	GeocodeLanguage  string
	GeocodeCountry   string

	// Routing provider
	OSRMBaseURL string

	// Remote itinerary/customer backend. May be entirely absent in some
	// deployments; the repositories degrade to the local store.
	BackendURL    string
	BackendAPIKey string

	// Operator identity used to namespace drafts and saved itineraries
	OperatorID string

	// Local sqlite path; empty means the per-user default location
	DBPath string
}

// Load reads configuration from .env (if present) and the environment
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Printf("[CONFIG] No .env file loaded: %v", err)
	}

	return &Config{
		ServerAddr:       getEnv("SERVER_ADDR", "127.0.0.1:0"),
		ORSAPIKey:        os.Getenv("ORS_API_KEY"),
		ORSBaseURL:       getEnv("ORS_BASE_URL", "https://api.openrouteservice.org"),
		NominatimBaseURL: getEnv("NOMINATIM_BASE_URL", "https://nominatim.openstreetmap.org"),
		GeocodeLanguage:  getEnv("GEOCODE_LANGUAGE", "fr"),
		GeocodeCountry:   getEnv("GEOCODE_COUNTRY", "FR"),
		OSRMBaseURL:      getEnv("OSRM_BASE_URL", "https://router.project-osrm.org"),
		BackendURL:       os.Getenv("BACKEND_URL"),
		BackendAPIKey:    os.Getenv("BACKEND_API_KEY"),
		OperatorID:       getEnv("OPERATOR_ID", "default"),
		DBPath:           os.Getenv("DB_PATH"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
