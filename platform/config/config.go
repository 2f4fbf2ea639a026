// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// DatabaseConfig provides database connection settings.
type DatabaseConfig interface {
	GetDatabaseURL() string
}

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
	GetCORSAllowCreds() bool
}

// SchedulerConfig provides settings for the asynq scheduler and worker.
type SchedulerConfig interface {
	GetRedisURL() string
	GetRedisTLSInsecure() bool
	GetAsynqQueueName() string
	GetAsynqConcurrency() int
}

// RescoreConfig provides settings for the batch rescoring sweep.
type RescoreConfig interface {
	GetSweepInterval() time.Duration
	GetScoreBatchSize() int
	GetInactivityBatchSize() int
	GetInterBatchDelay() time.Duration
	GetPerLeadTimeout() time.Duration
}

// ScoringConfig provides settings for the stage classifier.
type ScoringConfig interface {
	GetStageThresholdsPath() string
}

// DedupeConfig provides settings for the inbound event dedupe guard.
type DedupeConfig interface {
	GetRedisURL() string
	GetDedupeTTL() time.Duration
}

// SummaryConfig provides settings for the optional cosmetic summary generator.
type SummaryConfig interface {
	GetGeminiAPIKey() string
	IsSummaryEnabled() bool
}

// =============================================================================
// Main Config Struct
// =============================================================================

// Config holds all application configuration values.
type Config struct {
	Env                 string
	HTTPAddr            string
	DatabaseURL         string
	CORSAllowAll        bool
	CORSOrigins         []string
	CORSAllowCreds      bool
	RedisURL            string
	RedisTLSInsecure    bool
	AsynqQueueName      string
	AsynqConcurrency    int
	SweepInterval       time.Duration
	ScoreBatchSize      int
	InactivityBatchSize int
	InterBatchDelay     time.Duration
	PerLeadTimeout      time.Duration
	StageThresholdsPath string
	DedupeTTL           time.Duration
	GeminiAPIKey        string
}

// =============================================================================
// Interface Implementations
// =============================================================================

// DatabaseConfig implementation
func (c *Config) GetDatabaseURL() string { return c.DatabaseURL }

// HTTPConfig implementation
func (c *Config) GetHTTPAddr() string      { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool    { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string { return c.CORSOrigins }
func (c *Config) GetCORSAllowCreds() bool  { return c.CORSAllowCreds }

// SchedulerConfig implementation
func (c *Config) GetRedisURL() string       { return c.RedisURL }
func (c *Config) GetRedisTLSInsecure() bool { return c.RedisTLSInsecure }
func (c *Config) GetAsynqQueueName() string { return c.AsynqQueueName }
func (c *Config) GetAsynqConcurrency() int  { return c.AsynqConcurrency }

// RescoreConfig implementation
func (c *Config) GetSweepInterval() time.Duration   { return c.SweepInterval }
func (c *Config) GetScoreBatchSize() int            { return c.ScoreBatchSize }
func (c *Config) GetInactivityBatchSize() int       { return c.InactivityBatchSize }
func (c *Config) GetInterBatchDelay() time.Duration { return c.InterBatchDelay }
func (c *Config) GetPerLeadTimeout() time.Duration  { return c.PerLeadTimeout }

// ScoringConfig implementation
func (c *Config) GetStageThresholdsPath() string { return c.StageThresholdsPath }

// DedupeConfig implementation
func (c *Config) GetDedupeTTL() time.Duration { return c.DedupeTTL }

// SummaryConfig implementation
func (c *Config) GetGeminiAPIKey() string { return c.GeminiAPIKey }
func (c *Config) IsSummaryEnabled() bool  { return c.GeminiAPIKey != "" }

// Load reads configuration from .env (if present) and the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	corsOrigins := splitCSV(getEnv("CORS_ORIGINS", ""))

	cfg := &Config{
		Env:                 getEnv("APP_ENV", "development"),
		HTTPAddr:            getEnv("HTTP_ADDR", ":8080"),
		DatabaseURL:         getEnv("DATABASE_URL", ""),
		CORSAllowAll:        strings.EqualFold(getEnv("CORS_ALLOW_ALL", "false"), "true") || containsWildcard(corsOrigins),
		CORSOrigins:         corsOrigins,
		CORSAllowCreds:      strings.EqualFold(getEnv("CORS_ALLOW_CREDENTIALS", "false"), "true"),
		RedisURL:            getEnv("REDIS_URL", ""),
		RedisTLSInsecure:    strings.EqualFold(getEnv("REDIS_TLS_INSECURE", "false"), "true"),
		AsynqQueueName:      getEnv("ASYNQ_QUEUE", "leadflow"),
		AsynqConcurrency:    mustInt(getEnv("ASYNQ_CONCURRENCY", "10")),
		SweepInterval:       mustDuration(getEnv("RESCORE_SWEEP_INTERVAL", "1h")),
		ScoreBatchSize:      mustInt(getEnv("RESCORE_SCORE_BATCH_SIZE", "10")),
		InactivityBatchSize: mustInt(getEnv("RESCORE_INACTIVITY_BATCH_SIZE", "50")),
		InterBatchDelay:     mustDuration(getEnv("RESCORE_INTER_BATCH_DELAY", "500ms")),
		PerLeadTimeout:      mustDuration(getEnv("RESCORE_PER_LEAD_TIMEOUT", "15s")),
		StageThresholdsPath: getEnv("STAGE_THRESHOLDS_PATH", ""),
		DedupeTTL:           mustDuration(getEnv("INGEST_DEDUPE_TTL", "24h")),
		GeminiAPIKey:        getEnv("GEMINI_API_KEY", ""),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.AsynqConcurrency < 1 {
		cfg.AsynqConcurrency = 10
	}
	if cfg.ScoreBatchSize < 1 || cfg.InactivityBatchSize < 1 {
		return nil, fmt.Errorf("rescore batch sizes must be positive")
	}
	if cfg.CORSAllowAll && cfg.CORSAllowCreds {
		return nil, fmt.Errorf("CORS_ALLOW_CREDENTIALS cannot be true when CORS_ALLOW_ALL is true")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func mustDuration(value string) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0
	}
	return d
}

func mustInt(value string) int {
	result, err := strconv.Atoi(value)
	if err != nil {
		return 0
	}
	return result
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	results := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			results = append(results, trimmed)
		}
	}
	return results
}

func containsWildcard(values []string) bool {
	for _, value := range values {
		if value == "*" {
			return true
		}
	}
	return false
}
