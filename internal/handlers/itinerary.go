package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"visit-route-planner/internal/itinerary"
	"visit-route-planner/internal/models"
	"visit-route-planner/internal/navlink"
	"visit-route-planner/internal/position"
	"visit-route-planner/internal/routing"
)

// HandleGetItinerary returns the current working itinerary
func (h *Handler) HandleGetItinerary(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.State.Snapshot())
}

// HandleAddStop appends a customer visit to the itinerary
func (h *Handler) HandleAddStop(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Customer models.Customer `json:"customer"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.handleValidationError(w, "Invalid request body")
		return
	}
	if req.Customer.ID == "" {
		h.handleValidationError(w, "Customer id is required")
		return
	}
	if req.Customer.Archived {
		h.handleValidationError(w, "Archived customers cannot be visited")
		return
	}

	snap, err := h.State.AddStop(r.Context(), req.Customer)
	if err != nil {
		h.handleInternalError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, snap)
}

// HandleRemoveStop removes the stop of the customer id in the path
func (h *Handler) HandleRemoveStop(w http.ResponseWriter, r *http.Request) {
	customerID := strings.TrimPrefix(r.URL.Path, "/api/v1/itinerary/stops/")
	if customerID == "" {
		h.handleValidationError(w, "Customer id is required")
		return
	}

	snap, err := h.State.RemoveStop(r.Context(), customerID)
	if err != nil {
		var notFound *itinerary.ErrStopNotFound
		if errors.As(err, &notFound) {
			h.handleNotFound(w, "No stop for customer "+notFound.CustomerID)
			return
		}
		h.handleInternalError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, snap)
}

// HandleMoveStop swaps a stop with its neighbor, one position at a time
func (h *Handler) HandleMoveStop(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Index     int    `json:"index"`
		Direction string `json:"direction"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.handleValidationError(w, "Invalid request body")
		return
	}

	var snap models.Itinerary
	var err error
	switch req.Direction {
	case "up":
		snap, err = h.State.MoveUp(r.Context(), req.Index)
	case "down":
		snap, err = h.State.MoveDown(r.Context(), req.Index)
	default:
		h.handleValidationError(w, "Direction must be up or down")
		return
	}
	if err != nil {
		h.handleInternalError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, snap)
}

// HandleOptimize reorders the itinerary nearest-first from the
// operator's current position. Without a position fix there is no
// origin to anchor on and the request is refused.
func (h *Handler) HandleOptimize(w http.ResponseWriter, r *http.Request) {
	origin, err := h.Position.Current()
	if err != nil {
		var unavailable *position.ErrPositionUnavailable
		if errors.As(err, &unavailable) {
			h.writeError(w, http.StatusUnprocessableEntity, "POSITION_UNAVAILABLE",
				"Cannot optimize without the operator position", map[string]string{"reason": unavailable.Reason})
			return
		}
		h.handleInternalError(w, err)
		return
	}

	snap := h.State.Snapshot()
	if len(snap.Stops) < 2 {
		h.writeJSON(w, http.StatusOK, snap)
		return
	}

	ordered := routing.Optimize(snap.Stops, *origin)
	snap, err = h.State.ReplaceOrder(r.Context(), ordered)
	if err != nil {
		h.handleInternalError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, snap)
}

// HandleClearItinerary empties the itinerary. A non-empty itinerary is
// only cleared when the request carries confirmed=true; otherwise the
// response asks the caller to confirm and nothing changes.
func (h *Handler) HandleClearItinerary(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Confirmed bool `json:"confirmed"`
	}
	if r.Body != nil {
		json.NewDecoder(r.Body).Decode(&req)
	}

	cleared, err := h.State.Clear(r.Context(), req.Confirmed)
	if err != nil {
		h.handleInternalError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]bool{
		"cleared":               cleared,
		"confirmation_required": !cleared,
	})
}

// HandleSetSchedule updates the planned visit date and time
func (h *Handler) HandleSetSchedule(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Date string `json:"date"`
		Time string `json:"time"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.handleValidationError(w, "Invalid request body")
		return
	}
	h.writeJSON(w, http.StatusOK, h.State.SetSchedule(r.Context(), req.Date, req.Time))
}

// HandleRestoreDraft loads the operator's autosaved draft, if the
// working itinerary is still empty
func (h *Handler) HandleRestoreDraft(w http.ResponseWriter, r *http.Request) {
	restored, err := h.State.RestoreDraft(r.Context())
	if err != nil {
		h.handleInternalError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"restored":  restored,
		"itinerary": h.State.Snapshot(),
	})
}

// HandleGetMarkers returns the ordered marker list for the map widget
func (h *Handler) HandleGetMarkers(w http.ResponseWriter, r *http.Request) {
	snap := h.State.Snapshot()
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"markers":            h.State.Markers(),
		"total_distance_km":  snap.TotalDistanceKm,
		"total_duration_min": snap.TotalDurationMin,
	})
}

// HandleNavigationLink builds the external navigation deep link for the
// current stop order
func (h *Handler) HandleNavigationLink(w http.ResponseWriter, r *http.Request) {
	snap := h.State.Snapshot()
	link, err := navlink.BuildNavigationURL(snap.Addresses())
	if err != nil {
		h.handleValidationError(w, err.Error())
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"url": link})
}

// HandleUpdatePosition records the position fix (or failure) pushed by
// the interaction layer
func (h *Handler) HandleUpdatePosition(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Coords *models.Coordinates `json:"coords"`
		Reason string              `json:"reason"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.handleValidationError(w, "Invalid request body")
		return
	}

	if req.Coords != nil {
		h.Position.Update(*req.Coords)
	} else {
		h.Position.Fail(req.Reason)
	}
	w.WriteHeader(http.StatusNoContent)
}
