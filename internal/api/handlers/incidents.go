package handlers

import "net/http"

type IncidentsHandler struct {
	incidents IncidentProvider
}

func NewIncidentsHandler(incidents IncidentProvider) *IncidentsHandler {
	return &IncidentsHandler{incidents: incidents}
}

// Incidents returns the current service alerts for the display layer.
func (h *IncidentsHandler) Incidents(w http.ResponseWriter, r *http.Request) {
	incidents, err := h.incidents.Incidents()
	if err != nil {
		writeJSON(w, http.StatusBadGateway, map[string]any{
			"error":   "Failed to fetch service incidents",
			"message": err.Error(),
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"count":     len(incidents),
		"incidents": incidents,
	})
}
