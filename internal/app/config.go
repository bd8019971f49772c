package app

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Worker pool bounds. More workers increase parallel waiting, not the
// request rate, which is capped separately.
const (
	DefaultWorkers = 20
	MinWorkers     = 1
	MaxWorkers     = 2000
)

// DefaultRatePerSecond is the aggregate request ceiling applied when no
// explicit rate is configured.
const DefaultRatePerSecond = 100

// Default PingOne hosts.
const (
	DefaultAuthHost = "auth.pingone.com"
	DefaultAPIHost  = "api.pingone.com"
)

// DefaultRejectsFile is where failed input lines are written back for
// correction and resubmission.
const DefaultRejectsFile = "rejects.csv"

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	CSVFile     string
	RejectsFile string

	EnvironmentID string
	PopulationID  string
	ClientID      string
	ClientSecret  string
	AuthHost      string
	APIHost       string

	ForcePasswordChange bool
	Workers             int
	RatePerSecond       int

	LogFormat string
	LogLevel  string
}

// NewConfig validates cfg, fills defaults, and returns it. Validation
// happens before any file or network I/O, so a bad configuration never
// starts a run.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.CSVFile == "" {
		return nil, errors.New("csv-file is required")
	}
	if cfg.RejectsFile == "" {
		cfg.RejectsFile = DefaultRejectsFile
	}

	for _, id := range []struct{ name, value string }{
		{"environment-id", cfg.EnvironmentID},
		{"population-id", cfg.PopulationID},
		{"client-id", cfg.ClientID},
	} {
		if id.value == "" {
			return nil, fmt.Errorf("%s is required", id.name)
		}
		if _, err := uuid.Parse(id.value); err != nil {
			return nil, fmt.Errorf("%s %q is not a valid UUID", id.name, id.value)
		}
	}

	if cfg.ClientSecret == "" {
		return nil, errors.New("client-secret is required")
	}
	if cfg.AuthHost == "" {
		cfg.AuthHost = DefaultAuthHost
	}
	if cfg.APIHost == "" {
		cfg.APIHost = DefaultAPIHost
	}

	if cfg.Workers == 0 {
		cfg.Workers = DefaultWorkers
	}
	if cfg.Workers < MinWorkers || cfg.Workers > MaxWorkers {
		return nil, fmt.Errorf("workers must be between %d and %d, got %d", MinWorkers, MaxWorkers, cfg.Workers)
	}

	if cfg.RatePerSecond == 0 {
		cfg.RatePerSecond = DefaultRatePerSecond
	}
	if cfg.RatePerSecond < 1 {
		return nil, fmt.Errorf("rate-per-second must be positive, got %d", cfg.RatePerSecond)
	}

	return &cfg, nil
}
