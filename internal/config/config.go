// Package config provides configuration management functionality.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// RiskWeights holds the per-Greek weights of the exposure risk score.
// Gamma is weighted highest because unhedged gamma is the primary driver
// of tail loss near expiry.
type RiskWeights struct {
	Delta float64
	Gamma float64
	Vega  float64
	Theta float64
}

// CostModel holds the friction parameters of the hedge cost estimator
type CostModel struct {
	StockFrictionPerShare  float64 // fixed per-share friction for stock legs
	OptionCostPerContract  float64 // per-contract premium transaction cost
	OptionThetaCostPerDay  float64 // time-decay cost per contract per day held
	LiquidityHalfSpreadPct float64 // half-spread estimate as fraction of notional
}

// Config holds application configuration
type Config struct {
	DataDir        string // Base directory for all databases (always absolute)
	Port           int
	LogLevel       string
	DevMode        bool
	DefaultAccount string

	// Broker gateway
	BrokerBaseURL   string
	BrokerStreamURL string
	BrokerAPIKey    string
	BrokerAPISecret string

	// Fundamentals provider
	FundamentalsBaseURL string

	// Engine parameters
	Risk             RiskWeights
	Cost             CostModel
	ShortDTEDays     int // days-to-expiry threshold for the short-dated subtotal
	ScoreCacheTTLSec int // TTL for the position-score cache
	BatchConcurrency int // bounded concurrency for bulk scoring
	BehaviorWindow   int // default behavior lookback window in days

	// Backup (S3-compatible storage; empty endpoint disables backups)
	BackupEndpoint      string
	BackupBucket        string
	BackupAccessKey     string
	BackupSecretKey     string
	BackupRetentionDays int
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	dataDir := getEnv("BULWARK_DATA_DIR", "")
	if dataDir == "" {
		dataDir = "./data"
	}

	// Always resolve to absolute path
	absDataDir, err := filepath.Abs(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data directory path: %w", err)
	}

	// Ensure directory exists
	if err := os.MkdirAll(absDataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	cfg := &Config{
		DataDir:        absDataDir,
		Port:           getEnvAsInt("PORT", 8002),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		DevMode:        getEnvAsBool("DEV_MODE", false),
		DefaultAccount: getEnv("DEFAULT_ACCOUNT", "primary"),

		BrokerBaseURL:   getEnv("BROKER_BASE_URL", "http://localhost:5000"),
		BrokerStreamURL: getEnv("BROKER_STREAM_URL", "ws://localhost:5000/stream"),
		BrokerAPIKey:    getEnv("BROKER_API_KEY", ""),
		BrokerAPISecret: getEnv("BROKER_API_SECRET", ""),

		FundamentalsBaseURL: getEnv("FUNDAMENTALS_BASE_URL", "http://localhost:5001"),

		Risk: RiskWeights{
			Delta: getEnvAsFloat("RISK_WEIGHT_DELTA", 1.0),
			Gamma: getEnvAsFloat("RISK_WEIGHT_GAMMA", 1.5),
			Vega:  getEnvAsFloat("RISK_WEIGHT_VEGA", 1.2),
			Theta: getEnvAsFloat("RISK_WEIGHT_THETA", 0.8),
		},
		Cost: CostModel{
			StockFrictionPerShare:  getEnvAsFloat("COST_STOCK_FRICTION", 0.005),
			OptionCostPerContract:  getEnvAsFloat("COST_OPTION_CONTRACT", 0.65),
			OptionThetaCostPerDay:  getEnvAsFloat("COST_OPTION_THETA_DAY", 0.50),
			LiquidityHalfSpreadPct: getEnvAsFloat("COST_LIQUIDITY_SPREAD", 0.0025),
		},
		ShortDTEDays:     getEnvAsInt("SHORT_DTE_DAYS", 7),
		ScoreCacheTTLSec: getEnvAsInt("SCORE_CACHE_TTL_SEC", 300),
		BatchConcurrency: getEnvAsInt("BATCH_CONCURRENCY", 4),
		BehaviorWindow:   getEnvAsInt("BEHAVIOR_WINDOW_DAYS", 30),

		BackupEndpoint:      getEnv("BACKUP_S3_ENDPOINT", ""),
		BackupBucket:        getEnv("BACKUP_S3_BUCKET", "bulwark-backups"),
		BackupAccessKey:     getEnv("BACKUP_S3_ACCESS_KEY", ""),
		BackupSecretKey:     getEnv("BACKUP_S3_SECRET_KEY", ""),
		BackupRetentionDays: getEnvAsInt("BACKUP_RETENTION_DAYS", 30),
	}

	// Validate required fields
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks configuration invariants. A violation here reflects a
// programming or deployment mistake, so callers should treat the error as
// fatal at startup rather than degrading to defaults.
func (c *Config) Validate() error {
	if c.Risk.Delta <= 0 || c.Risk.Gamma <= 0 || c.Risk.Vega <= 0 || c.Risk.Theta <= 0 {
		return fmt.Errorf("risk weights must all be positive: %+v", c.Risk)
	}
	if c.ShortDTEDays <= 0 {
		return fmt.Errorf("short-DTE threshold must be positive, got %d", c.ShortDTEDays)
	}
	if c.BatchConcurrency <= 0 {
		return fmt.Errorf("batch concurrency must be positive, got %d", c.BatchConcurrency)
	}
	if c.BehaviorWindow <= 0 {
		return fmt.Errorf("behavior window must be positive, got %d", c.BehaviorWindow)
	}
	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
