package handlers

import "net/http"

type RootHandler struct{}

func NewRootHandler() *RootHandler {
	return &RootHandler{}
}

func (h *RootHandler) Index(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"name":        "wmata-commute-helper",
		"description": "Background data fetcher for the WMATA commute mirror widget",
		"endpoints": map[string]string{
			"GET /":          "API information",
			"GET /health":    "Health check",
			"GET /incidents": "Current bus service incidents",
			"POST /helper":   "Widget fetch requests (FETCH_STOP_SCHEDULE, FETCH_COMMUTE)",
		},
	})
}
