package handlers

import (
	"net/http"
)

// HandleListCustomers returns the operator's customer directory.
// Archived customers are included unless ?active=true; the frontend
// shows them greyed out.
func (h *Handler) HandleListCustomers(w http.ResponseWriter, r *http.Request) {
	list, err := h.Customers.ListForOperator(r.Context())
	if err != nil {
		h.writeError(w, http.StatusBadGateway, "DIRECTORY_UNAVAILABLE",
			"Customer directory is unreachable", nil)
		return
	}

	if r.URL.Query().Get("active") == "true" {
		active := list[:0]
		for _, c := range list {
			if !c.Archived {
				active = append(active, c)
			}
		}
		list = active
	}
	h.writeJSON(w, http.StatusOK, list)
}
