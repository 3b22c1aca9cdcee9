package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Config holds process configuration, loaded from BLUE_* environment
// variables with sane defaults for local development.
type Config struct {
	Port          string  `envconfig:"PORT" default:":8080"`
	DBPath        string  `envconfig:"DB_PATH" default:"./data/bluedata.db"`
	DataPath      string  `envconfig:"DATA_PATH" default:"./data/raw/Blue-data2.xlsx"`
	SchemaPath    string  `envconfig:"SCHEMA_PATH" default:""`
	JWTSecret     string  `envconfig:"JWT_SECRET" default:"change-me-in-production"`
	RiskThreshold float64 `envconfig:"RISK_THRESHOLD" default:"70"`
	TrainSeed     int64   `envconfig:"TRAIN_SEED" default:"42"`
	// RefreshCron re-runs the pipeline on this cron schedule. Empty disables
	// the background refresh.
	RefreshCron string `envconfig:"REFRESH_CRON" default:"0 3 * * *"`
	RateLimit   int    `envconfig:"RATE_LIMIT" default:"120"` // requests per minute per client
}

// Load reads configuration from the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("blue", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return &cfg, nil
}
