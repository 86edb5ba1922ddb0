package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/devenn05/Crypto-signal-check/internal/adapters/feargreed"
	"github.com/devenn05/Crypto-signal-check/internal/adapters/logger"
	"github.com/devenn05/Crypto-signal-check/internal/domain"
	"github.com/devenn05/Crypto-signal-check/internal/strategy"
)

// Config holds all application configuration.
type Config struct {
	// Binance API. Keys are optional; every endpoint used is public.
	APIKey        string
	SecretKey     string
	IsTestnet     bool
	DefaultMarket domain.MarketType
	HTTPTimeout   time.Duration

	// Market data volumes
	KlineLimit     int
	OrderBookDepth int

	// Sentiment source
	FearGreedURL string

	// Kline cache (SQLite)
	KlineCacheEnabled bool
	DBPath            string

	// Shared cache (Redis). Empty address disables it.
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CacheTTL      time.Duration

	// Circuit breakers around the sentiment source and Redis
	BreakerMaxFailures  int
	BreakerResetTimeout time.Duration

	// Engine thresholds, defaults overridden by THRESHOLDS_FILE
	ThresholdsFile string
	Strategy       strategy.Config

	// Simulated miner flow seed; 0 seeds from the clock
	MinerSeed int64

	// Logging and tracing
	LogLevel       logger.LogLevel
	TracingEnabled bool

	// Run modes
	WebMode   bool
	HTTPAddr  string
	WatchSpec string // market:SYMBOL:direction:interval,...
	WatchCron string
}

// LoadConfig loads configuration from environment variables (.env file).
func LoadConfig() (*Config, error) {
	// Load .env file, but don't fail if it doesn't exist (allow pure env vars)
	_ = godotenv.Load()

	cfg := &Config{}
	var err error
	var errs []string // Collect validation errors

	// Binance API
	cfg.APIKey = getEnv("BINANCE_API_KEY", "")
	cfg.SecretKey = getEnv("BINANCE_API_SECRET", "")
	cfg.IsTestnet = getEnvAsBool("IS_TESTNET", false)
	if (cfg.APIKey == "") != (cfg.SecretKey == "") {
		errs = append(errs, "BINANCE_API_KEY and BINANCE_API_SECRET must be set together")
	}

	cfg.DefaultMarket, err = domain.ParseMarketType(getEnv("DEFAULT_MARKET", "spot"))
	if err != nil {
		errs = append(errs, fmt.Sprintf("invalid DEFAULT_MARKET: %v", err))
	}

	timeoutSeconds, err := getEnvAsIntRequired("HTTP_TIMEOUT_SECONDS", 10)
	if err != nil {
		errs = append(errs, fmt.Sprintf("invalid HTTP_TIMEOUT_SECONDS: %v", err))
	} else if timeoutSeconds <= 0 {
		errs = append(errs, "HTTP_TIMEOUT_SECONDS must be positive")
	}
	cfg.HTTPTimeout = time.Duration(timeoutSeconds) * time.Second

	// Market data volumes
	cfg.KlineLimit, err = getEnvAsIntRequired("KLINE_LIMIT", 200)
	if err != nil {
		errs = append(errs, fmt.Sprintf("invalid KLINE_LIMIT: %v", err))
	} else if cfg.KlineLimit <= 0 || cfg.KlineLimit > 1000 {
		errs = append(errs, "KLINE_LIMIT must be between 1 and 1000")
	}

	cfg.OrderBookDepth, err = getEnvAsIntRequired("ORDER_BOOK_DEPTH", 500)
	if err != nil {
		errs = append(errs, fmt.Sprintf("invalid ORDER_BOOK_DEPTH: %v", err))
	} else if cfg.OrderBookDepth <= 0 {
		errs = append(errs, "ORDER_BOOK_DEPTH must be positive")
	}

	cfg.FearGreedURL = getEnv("FEAR_GREED_URL", feargreed.DefaultURL)

	// Kline cache
	cfg.KlineCacheEnabled = getEnvAsBool("KLINE_CACHE_ENABLED", true)
	cfg.DBPath = getEnv("DB_PATH", "./data/klines.db")
	if cfg.KlineCacheEnabled && cfg.DBPath == "" {
		errs = append(errs, "DB_PATH must be set when KLINE_CACHE_ENABLED is true")
	}

	// Redis
	cfg.RedisAddr = getEnv("REDIS_ADDR", "")
	cfg.RedisPassword = getEnv("REDIS_PASSWORD", "")
	cfg.RedisDB, err = getEnvAsIntRequired("REDIS_DB", 0)
	if err != nil {
		errs = append(errs, fmt.Sprintf("invalid REDIS_DB: %v", err))
	} else if cfg.RedisDB < 0 {
		errs = append(errs, "REDIS_DB cannot be negative")
	}

	ttlSeconds := getEnvAsInt("CACHE_TTL_SECONDS", 60)
	if ttlSeconds <= 0 {
		errs = append(errs, "CACHE_TTL_SECONDS must be positive")
	}
	cfg.CacheTTL = time.Duration(ttlSeconds) * time.Second

	// Circuit breakers
	cfg.BreakerMaxFailures = getEnvAsInt("BREAKER_MAX_FAILURES", 5)
	if cfg.BreakerMaxFailures <= 0 {
		errs = append(errs, "BREAKER_MAX_FAILURES must be positive")
	}
	resetSeconds := getEnvAsInt("BREAKER_RESET_SECONDS", 30)
	if resetSeconds <= 0 {
		errs = append(errs, "BREAKER_RESET_SECONDS must be positive")
	}
	cfg.BreakerResetTimeout = time.Duration(resetSeconds) * time.Second

	// Engine thresholds
	cfg.ThresholdsFile = getEnv("THRESHOLDS_FILE", "")
	cfg.Strategy, err = LoadStrategyConfig(cfg.ThresholdsFile)
	if err != nil {
		errs = append(errs, err.Error())
	}

	seed, err := strconv.ParseInt(getEnv("MINER_SEED", "0"), 10, 64)
	if err != nil {
		errs = append(errs, fmt.Sprintf("invalid MINER_SEED: %v", err))
	}
	cfg.MinerSeed = seed

	// Logging and tracing
	cfg.LogLevel = logger.ParseLevel(getEnv("LOG_LEVEL", "INFO"))
	cfg.TracingEnabled = getEnvAsBool("TRACING_ENABLED", false)

	// Run modes
	cfg.WebMode = getEnvAsBool("WEB_MODE", false)
	cfg.HTTPAddr = getEnv("HTTP_ADDR", ":5000")
	cfg.WatchSpec = getEnv("WATCH_SPEC", "")
	cfg.WatchCron = getEnv("WATCH_CRON", "0 */5 * * * *")
	if cfg.WebMode && cfg.WatchSpec != "" {
		errs = append(errs, "WEB_MODE and WATCH_SPEC are mutually exclusive")
	}

	// Combine validation errors
	if len(errs) > 0 {
		return nil, fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}

	return cfg, nil
}

// LoadStrategyConfig returns the default engine thresholds overridden by the
// YAML file at path. Keys missing from the file keep their defaults. An empty
// path returns the defaults.
func LoadStrategyConfig(path string) (strategy.Config, error) {
	cfg := strategy.DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read THRESHOLDS_FILE %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse THRESHOLDS_FILE %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid thresholds in %s: %w", path, err)
	}
	return cfg, nil
}

// --- Env Var Helpers ---

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsIntRequired(key string, defaultValue int) (int, error) {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		// Use default if env var is not set at all
		return defaultValue, nil
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		// Return error if env var is set but invalid
		return 0, fmt.Errorf("invalid integer value '%s' for key %s: %w", valueStr, key, err)
	}
	return value, nil
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
