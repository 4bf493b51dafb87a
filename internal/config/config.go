package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/aman-zulfiqar/multichain-swap/internal/constants"
)

type Config struct {
	// API settings
	APIAddr  string
	APIKey   string
	DevMode  bool
	LogLevel string

	// HTTP client settings
	HTTPTimeout  time.Duration
	QuoteTimeout time.Duration

	// Upstream aggregators
	ZeroXEnabled   bool
	ZeroXAPIKey    string
	JupiterBaseURL string
	JupiterAPIKey  string

	// RPC overrides keyed by internal chain id (RPC_URL_ETHEREUM, ...)
	RPCOverrides map[string]string

	// Redis settings
	RedisAddr              string
	RedisDB                int
	LedgerSnapshotKey      string
	LedgerSnapshotInterval time.Duration

	// ClickHouse settings
	ClickHouseAddr     string
	ClickHouseDatabase string
	ClickHouseUsername string
	ClickHousePassword string

	// AI reporting
	OpenRouterAPIKey string
	AIModel          string
}

func Load() *Config {
	return &Config{
		// API
		APIAddr:  getEnv("API_ADDR", ":8090"),
		APIKey:   getEnv("API_KEY", ""),
		DevMode:  getBoolEnv("DEV_MODE", false),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		// HTTP
		HTTPTimeout:  getDurationEnv("HTTP_TIMEOUT", 10*time.Second),
		QuoteTimeout: getDurationEnv("QUOTE_TIMEOUT", constants.UpstreamTimeout),

		// Aggregators
		ZeroXEnabled:   getBoolEnv("ZEROX_ENABLED", true),
		ZeroXAPIKey:    getEnv("ZEROX_API_KEY", ""),
		JupiterBaseURL: getEnv("JUPITER_BASE_URL", constants.JupiterAPIURL),
		JupiterAPIKey:  getEnv("JUPITER_API_KEY", ""),

		RPCOverrides: loadRPCOverrides(),

		// Redis
		RedisAddr:              getEnv("REDIS_ADDR", ""),
		RedisDB:                getIntEnv("REDIS_DB", 0),
		LedgerSnapshotKey:      getEnv("LEDGER_SNAPSHOT_KEY", constants.RedisKeyLedgerSnapshot),
		LedgerSnapshotInterval: getDurationEnv("LEDGER_SNAPSHOT_INTERVAL", 0),

		// ClickHouse
		ClickHouseAddr:     getEnv("CLICKHOUSE_ADDR", ""),
		ClickHouseDatabase: getEnv("CLICKHOUSE_DATABASE", "swapquote"),
		ClickHouseUsername: getEnv("CLICKHOUSE_USERNAME", "default"),
		ClickHousePassword: getEnv("CLICKHOUSE_PASSWORD", ""),

		// AI
		OpenRouterAPIKey: getEnv("OPENROUTER_API_KEY", ""),
		AIModel:          getEnv("AI_MODEL", "openai/gpt-4.1-mini"),
	}
}

// Validate checks settings that would otherwise fail late at runtime.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.APIAddr) == "" {
		return fmt.Errorf("API_ADDR is required")
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be > 0")
	}
	if c.QuoteTimeout <= 0 {
		return fmt.Errorf("QUOTE_TIMEOUT must be > 0")
	}
	if c.RedisDB < 0 {
		return fmt.Errorf("REDIS_DB must be >= 0")
	}
	if c.LedgerSnapshotInterval < 0 {
		return fmt.Errorf("LEDGER_SNAPSHOT_INTERVAL must be >= 0")
	}
	if c.ClickHouseAddr != "" && c.ClickHouseDatabase == "" {
		return fmt.Errorf("CLICKHOUSE_DATABASE is required when CLICKHOUSE_ADDR is set")
	}
	return nil
}

func loadRPCOverrides() map[string]string {
	out := make(map[string]string)
	for id := range constants.RPCURLs {
		if v := os.Getenv("RPC_URL_" + strings.ToUpper(id)); v != "" {
			out[id] = v
		}
	}
	return out
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getIntEnv(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

func getBoolEnv(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return defaultVal
}

func getDurationEnv(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}
