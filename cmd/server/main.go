// Package main is the entry point for the commute helper server.
package main

import (
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/jonnyd55/wmata-commute-helper/internal/api"
	"github.com/jonnyd55/wmata-commute-helper/internal/config"
	"github.com/jonnyd55/wmata-commute-helper/internal/fetcher"
	"github.com/jonnyd55/wmata-commute-helper/internal/gmaps"
	"github.com/jonnyd55/wmata-commute-helper/internal/models"
	"github.com/jonnyd55/wmata-commute-helper/internal/wmata"
)

func main() {
	// .env is optional; deployments usually set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	var profile *models.Config
	if cfg.MirrorProfile != "" {
		p, err := config.LoadProfile(cfg.MirrorProfile)
		if err != nil {
			logger.Error("mirror profile", "path", cfg.MirrorProfile, "error", err)
			os.Exit(1)
		}
		profile = p
		logger.Info("mirror profile loaded", "path", cfg.MirrorProfile, "stopId", p.StopID)
	}

	transitClient := wmata.NewClient(cfg.HTTPTimeout)
	mapsClient := gmaps.NewClient(cfg.HTTPTimeout)
	dispatcher := fetcher.NewDispatcher(transitClient, mapsClient, logger)
	incidentSvc := wmata.NewIncidentService(cfg.WmataAPIKey, cfg.HTTPTimeout, cfg.IncidentsTTL)

	router := api.NewRouter(cfg, dispatcher, incidentSvc, profile)

	// No write timeout: a fetch cycle is bounded only by its upstream
	// calls.
	server := &http.Server{
		Addr:        ":" + cfg.Port,
		Handler:     router,
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	logger.Info("commute helper listening", "port", cfg.Port, "env", cfg.Env)

	if err := server.ListenAndServe(); err != nil {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}
}
