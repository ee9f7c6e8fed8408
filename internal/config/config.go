package config

import (
	"context"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

// Deployment modes
const (
	DeploymentLocal = "local"
	DeploymentGCS   = "gcs"
)

// Config holds all configuration for the TMY report service
type Config struct {
	// Server configuration
	Port string `env:"PORT,default=8981"`

	// Storage configuration
	DeploymentMode  string `env:"DEPLOYMENT_MODE,default=local"`
	GCPProjectID    string `env:"GCP_PROJECT_ID"`
	GCSBucket       string `env:"GCS_BUCKET"`
	LocalReportsDir string `env:"LOCAL_REPORTS_DIR,default=./reports"`

	// Local testing configuration
	MockupMode bool `env:"MOCKUP_MODE,default=false"`

	// Report definition; the variables below override the YAML values when set
	ReportDefinition string `env:"REPORT_DEFINITION"`
	TMYFile          string `env:"TMY_FILE"`
	CoerceYear       int    `env:"COERCE_YEAR"`
	PSM3APIKey       string `env:"PSM3_API_KEY"`
	PSM3Email        string `env:"PSM3_EMAIL"`

	// Data source URLs; empty means the NSRDB endpoints in package psm3
	PSM3TMYURL string `env:"PSM3_TMY_URL"`
	PSM3URL    string `env:"PSM3_URL"`

	HTTPTimeout    time.Duration `env:"HTTP_TIMEOUT,default=60s"`
	ReportInterval time.Duration `env:"REPORT_INTERVAL,default=0s"`

	// Service configuration
	Environment string `env:"ENVIRONMENT,default=development"`
	LogLevel    string `env:"LOG_LEVEL,default=info"`
	LogFormat   string `env:"LOG_FORMAT,default=auto"`
}

// Load loads configuration from environment variables, reading a .env file first when present
func Load(ctx context.Context) (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks combinations envconfig cannot express
func (c *Config) Validate() error {
	switch c.DeploymentMode {
	case DeploymentLocal:
	case DeploymentGCS:
		if c.GCSBucket == "" {
			return fmt.Errorf("GCS_BUCKET is required when DEPLOYMENT_MODE=%s", DeploymentGCS)
		}
	default:
		return fmt.Errorf("unsupported DEPLOYMENT_MODE %q", c.DeploymentMode)
	}

	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive, got %s", c.HTTPTimeout)
	}
	if c.ReportInterval < 0 {
		return fmt.Errorf("REPORT_INTERVAL must not be negative, got %s", c.ReportInterval)
	}
	if c.CoerceYear < 0 {
		return fmt.Errorf("COERCE_YEAR must not be negative, got %d", c.CoerceYear)
	}
	return nil
}
