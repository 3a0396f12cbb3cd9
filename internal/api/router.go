package api

import (
	"net/http"

	"github.com/jonnyd55/wmata-commute-helper/internal/api/handlers"
	"github.com/jonnyd55/wmata-commute-helper/internal/config"
	"github.com/jonnyd55/wmata-commute-helper/internal/models"
)

// NewRouter wires the handlers and middleware stack.
func NewRouter(
	cfg *config.Config,
	dispatcher handlers.Dispatcher,
	incidents handlers.IncidentProvider,
	profile *models.Config,
) http.Handler {
	mux := http.NewServeMux()

	healthHandler := handlers.NewHealthHandler()
	rootHandler := handlers.NewRootHandler()
	helperHandler := handlers.NewHelperHandler(dispatcher, profile, cfg.WmataAPIKey, cfg.MapsAPIKey)
	incidentsHandler := handlers.NewIncidentsHandler(incidents)

	mux.HandleFunc("GET /", rootHandler.Index)
	mux.HandleFunc("GET /health", healthHandler.Health)
	mux.HandleFunc("GET /incidents", incidentsHandler.Incidents)
	mux.HandleFunc("POST /helper", helperHandler.Helper)

	return Chain(mux,
		Recovery,
		Logging,
		CORS,
	)
}
