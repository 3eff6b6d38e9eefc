// Package config provides configuration management for the race scorer.
package config

import (
	"fmt"
	"time"
)

// Config represents the complete application configuration
type Config struct {
	App            AppConfig                     `mapstructure:"app" validate:"required"`
	Database       DatabaseConfig                `mapstructure:"database" validate:"required"`
	Scoring        ScoringConfig                 `mapstructure:"scoring" validate:"required"`
	OddsCorrection OddsCorrectionConfig          `mapstructure:"odds_correction"`
	VenueWeights   map[string]map[string]float64 `mapstructure:"venue_weights"`
	Cache          CacheConfig                   `mapstructure:"cache" validate:"required"`
	Batch          BatchConfig                   `mapstructure:"batch" validate:"required"`
	Metrics        MetricsConfig                 `mapstructure:"metrics" validate:"required"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// DatabaseConfig represents database connection configuration
type DatabaseConfig struct {
	Host               string `mapstructure:"host" validate:"required"`
	Port               int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Name               string `mapstructure:"name" validate:"required"`
	User               string `mapstructure:"user" validate:"required"`
	Password           string `mapstructure:"password" validate:"required"`
	SSLMode            string `mapstructure:"ssl_mode" validate:"required,oneof=disable require verify-full"`
	MaxConnections     int    `mapstructure:"max_connections" validate:"required,gt=0"`
	MaxIdleConnections int    `mapstructure:"max_idle_connections" validate:"required,gt=0"`
}

// ScoringConfig represents the scoring engine parameters
type ScoringConfig struct {
	TargetPayout   float64 `mapstructure:"target_payout" validate:"required,gt=0"`
	HalfConfidence float64 `mapstructure:"half_confidence" validate:"required,gt=0"`
	FirstYear      int     `mapstructure:"first_year" validate:"required,gt=1900"`
	LastYear       int     `mapstructure:"last_year" validate:"required,gtefield=FirstYear"`
	FactorWorkers  int     `mapstructure:"factor_workers" validate:"required,gt=0,lte=64"`
}

// OddsBucketConfig is one step of an odds-correction curve
type OddsBucketConfig struct {
	MaxOdds    float64 `mapstructure:"max_odds" validate:"gt=0"`
	Multiplier float64 `mapstructure:"multiplier" validate:"gt=0"`
}

// OddsCorrectionConfig holds the win and place payout calibration curves.
// Empty curves fall back to the built-in calibration.
type OddsCorrectionConfig struct {
	Win   []OddsBucketConfig `mapstructure:"win" validate:"omitempty,dive"`
	Place []OddsBucketConfig `mapstructure:"place" validate:"omitempty,dive"`
}

// CacheConfig represents the statistic cache configuration. RedisURL
// enables a second cache level shared between processes.
type CacheConfig struct {
	TTLSeconds  int    `mapstructure:"ttl_seconds" validate:"required,gt=0"`
	MaxSize     int    `mapstructure:"max_size" validate:"required,gt=0"`
	RedisURL    string `mapstructure:"redis_url" validate:"omitempty,url"`
	RedisPrefix string `mapstructure:"redis_prefix"`
}

// BatchConfig represents batch scoring configuration
type BatchConfig struct {
	Workers            int     `mapstructure:"workers" validate:"required,gt=0,lte=64"`
	QueryRatePerSecond float64 `mapstructure:"query_rate_per_second" validate:"gte=0"`
	QueryBurst         int     `mapstructure:"query_burst" validate:"gte=0"`
	BreakerFailures    int     `mapstructure:"breaker_failures" validate:"gte=0"`
	BreakerTimeoutSecs int     `mapstructure:"breaker_timeout_seconds" validate:"gte=0"`
	Schedule           string  `mapstructure:"schedule" validate:"required,cronspec"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Path    string `mapstructure:"path" validate:"required"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsStaging checks if the application is running in staging mode
func (c *Config) IsStaging() bool {
	return c.App.Environment == "staging"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// GetDatabaseDSN returns a PostgreSQL DSN string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// CacheTTL returns the statistic cache entry lifetime
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Cache.TTLSeconds) * time.Second
}

// BreakerTimeout returns how long the observation breaker stays open
func (c *Config) BreakerTimeout() time.Duration {
	return time.Duration(c.Batch.BreakerTimeoutSecs) * time.Second
}
