package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/jonnyd55/wmata-commute-helper/internal/models"
)

var validate = validator.New()

// LoadProfile reads the mirror profile file: the default request
// configuration used when an inbound request carries no payload.
func LoadProfile(path string) (*models.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading mirror profile: %w", err)
	}

	var profile models.Config
	if err := yaml.Unmarshal(data, &profile); err != nil {
		return nil, fmt.Errorf("parsing mirror profile: %w", err)
	}

	if err := ValidateProfile(&profile); err != nil {
		return nil, fmt.Errorf("validating mirror profile: %w", err)
	}

	return &profile, nil
}

// ValidateProfile checks a request configuration against the struct rules
// (required stop id, HH:mm window times, weekday and coordinate ranges).
func ValidateProfile(profile *models.Config) error {
	return validate.Struct(profile)
}
