// Package config handles service configuration from environment variables
// and the optional mirror profile file.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds the service-level configuration.
type Config struct {
	Port        string
	Env         string
	WmataAPIKey string
	MapsAPIKey  string

	// HTTPTimeout bounds outbound provider calls. Zero disables the bound,
	// matching the widget's no-timeout fetch model, and is the default.
	HTTPTimeout time.Duration

	IncidentsTTL  time.Duration
	MirrorProfile string
}

// Load reads configuration from environment variables with defaults.
func Load() *Config {
	return &Config{
		Port:          getEnv("PORT", "8080"),
		Env:           getEnv("ENV", "development"),
		WmataAPIKey:   getEnv("WMATA_API_KEY", ""),
		MapsAPIKey:    getEnv("MAPS_API_KEY", ""),
		HTTPTimeout:   getSecondsEnv("HTTP_TIMEOUT_SECONDS", 0),
		IncidentsTTL:  getSecondsEnv("INCIDENTS_TTL_SECONDS", 120),
		MirrorProfile: getEnv("MIRROR_PROFILE", ""),
	}
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getSecondsEnv(key string, defaultSeconds int) time.Duration {
	if value := os.Getenv(key); value != "" {
		if seconds, err := strconv.Atoi(value); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return time.Duration(defaultSeconds) * time.Second
}
