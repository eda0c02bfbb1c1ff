package main

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"

	"github.com/smartcity/energy/internal/service"
)

// Model source kinds
const (
	SourceFile     = "file"
	SourcePostgres = "postgres"
	SourceRemote   = "remote"
)

type Config struct {
	Port         string
	Env          string
	LogLevel     string
	LogFile      string
	ModelSource  string
	ModelPath    string
	ModelName    string
	DatabaseURL  string
	MLServiceURL string
	CostPerKWh   decimal.Decimal
}

func loadConfig() (*Config, error) {
	cfg := &Config{
		Port:         getEnv("PORT", "8080"),
		Env:          getEnv("GO_ENV", "development"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		LogFile:      getEnv("LOG_FILE", ""),
		ModelSource:  getEnv("MODEL_SOURCE", SourceFile),
		ModelPath:    getEnv("MODEL_PATH", "models/best_model.json"),
		ModelName:    getEnv("MODEL_NAME", "household-energy"),
		DatabaseURL:  getEnv("DATABASE_URL", ""),
		MLServiceURL: getEnv("ML_SERVICE_URL", "http://localhost:8000"),
	}

	rate, err := decimal.NewFromString(getEnv("COST_PER_KWH", "0.12"))
	if err != nil {
		return nil, fmt.Errorf("config: invalid COST_PER_KWH: %w", err)
	}
	if err := service.ValidateRate(rate); err != nil {
		return nil, fmt.Errorf("config: COST_PER_KWH %w", err)
	}
	cfg.CostPerKWh = rate

	switch cfg.ModelSource {
	case SourceFile, SourceRemote:
	case SourcePostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("config: DATABASE_URL is required when MODEL_SOURCE=%s", SourcePostgres)
		}
	default:
		return nil, fmt.Errorf("config: unknown MODEL_SOURCE %q", cfg.ModelSource)
	}

	return cfg, nil
}

// ModelRef is the reference shown to users and used as the loader cache key
func (c *Config) ModelRef() string {
	switch c.ModelSource {
	case SourcePostgres:
		return c.ModelName
	case SourceRemote:
		return c.MLServiceURL
	default:
		return c.ModelPath
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
