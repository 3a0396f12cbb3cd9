package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/jonnyd55/wmata-commute-helper/internal/fetcher"
	"github.com/jonnyd55/wmata-commute-helper/internal/models"
)

// HelperHandler receives the widget's fetch requests and relays the
// dispatcher's results.
type HelperHandler struct {
	dispatcher Dispatcher

	// profile is the preloaded mirror configuration, used when a request
	// carries no payload. May be nil.
	profile *models.Config

	// Service-level credentials fill in payloads that omit their own.
	wmataAPIKey string
	mapsAPIKey  string
}

func NewHelperHandler(dispatcher Dispatcher, profile *models.Config, wmataAPIKey, mapsAPIKey string) *HelperHandler {
	return &HelperHandler{
		dispatcher:  dispatcher,
		profile:     profile,
		wmataAPIKey: wmataAPIKey,
		mapsAPIKey:  mapsAPIKey,
	}
}

type helperRequest struct {
	Notification string         `json:"notification"`
	Payload      *models.Config `json:"payload"`
}

// Helper handles POST /helper. A dropped cycle (upstream transport failure)
// answers 204: the display layer gets nothing for that cycle, matching the
// widget contract.
func (h *HelperHandler) Helper(w http.ResponseWriter, r *http.Request) {
	var req helperRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	kind, ok := fetcher.ParseKind(req.Notification)
	if !ok {
		writeError(w, http.StatusBadRequest, "unknown notification "+req.Notification)
		return
	}

	cfg := req.Payload
	if cfg == nil {
		if h.profile == nil {
			writeError(w, http.StatusBadRequest, "request has no payload and no mirror profile is configured")
			return
		}
		clone := *h.profile
		cfg = &clone
	}
	if cfg.WmataAPIKey == "" {
		cfg.WmataAPIKey = h.wmataAPIKey
	}
	if cfg.MapsAPIKey == "" {
		cfg.MapsAPIKey = h.mapsAPIKey
	}

	resp := h.dispatcher.Dispatch(fetcher.Request{Kind: kind, Config: *cfg})
	if resp == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}
