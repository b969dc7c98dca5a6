package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"visit-route-planner/internal/customers"
	"visit-route-planner/internal/database"
	"visit-route-planner/internal/geocoding"
	"visit-route-planner/internal/itinerary"
	"visit-route-planner/internal/position"
)

// Handler provides common handler utilities and dependencies
type Handler struct {
	DB          database.DataStore
	Geocoder    geocoding.Geocoder
	State       *itinerary.State
	Itineraries database.ItineraryRepository
	Customers   *customers.LocationDirectory
	Position    *position.SessionProvider
}

// ErrorResponse represents an API error
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// writeJSON writes a JSON response
func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes a JSON error response
func (h *Handler) writeError(w http.ResponseWriter, status int, code, message string, details interface{}) {
	h.writeJSON(w, status, ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

// handleNotFound handles 404 errors
func (h *Handler) handleNotFound(w http.ResponseWriter, message string) {
	h.writeError(w, http.StatusNotFound, "NOT_FOUND", message, nil)
}

// handleValidationError handles 400 errors
func (h *Handler) handleValidationError(w http.ResponseWriter, message string) {
	h.writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", message, nil)
}

// handleInternalError handles 500 errors
func (h *Handler) handleInternalError(w http.ResponseWriter, err error) {
	log.Printf("[ERROR] Internal error: %v", err)
	h.writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An error occurred. Please try again.", nil)
}

// HandleHealthCheck reports service and local store health
func (h *Handler) HandleHealthCheck(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	if err := h.DB.HealthCheck(r.Context()); err != nil {
		log.Printf("[ERROR] Health check failed: %v", err)
		status = "degraded"
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"status": status})
}

// HandleClearGeocodeCache wipes all cached address resolutions. Fresh
// lookups will hit the providers again.
func (h *Handler) HandleClearGeocodeCache(w http.ResponseWriter, r *http.Request) {
	if err := h.DB.GeocodeCache().Clear(r.Context()); err != nil {
		h.handleInternalError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
