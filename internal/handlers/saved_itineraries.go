package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"visit-route-planner/internal/database"
)

// HandleListSavedItineraries lists the operator's saved itineraries,
// newest first
func (h *Handler) HandleListSavedItineraries(w http.ResponseWriter, r *http.Request) {
	saved, err := h.Itineraries.List(r.Context())
	if err != nil {
		h.handleInternalError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, saved)
}

// HandleSaveItinerary persists the current working itinerary under a name
func (h *Handler) HandleSaveItinerary(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.handleValidationError(w, "Invalid request body")
		return
	}

	snap := h.State.Snapshot()
	if snap.IsEmpty() {
		h.handleValidationError(w, "Cannot save an empty itinerary")
		return
	}

	saved, err := h.Itineraries.Create(r.Context(), req.Name, snap)
	if err != nil {
		if errors.Is(err, database.ErrEmptyName) {
			h.handleValidationError(w, "Itinerary name is required")
			return
		}
		h.handleInternalError(w, err)
		return
	}

	// The draft is superseded by the named itinerary
	h.State.MarkPromoted(r.Context())
	h.writeJSON(w, http.StatusCreated, saved)
}

// HandleDeleteSavedItinerary deletes a saved itinerary. Deleting an
// unknown id succeeds.
func (h *Handler) HandleDeleteSavedItinerary(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/v1/itineraries/")
	if id == "" {
		h.handleValidationError(w, "Itinerary id is required")
		return
	}

	if err := h.Itineraries.Delete(r.Context(), id); err != nil {
		h.handleInternalError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
