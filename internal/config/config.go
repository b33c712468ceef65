// Package config handles application configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Moralis settings
	MoralisAPIKey  string
	MoralisBaseURL string

	// LLM settings
	LLMProvider     string // "openai" or "anthropic"
	OpenAIAPIKey    string
	AnthropicAPIKey string
	LLMModel        string
	LLMBaseURL      string // optional override for OpenAI-compatible gateways
	MaxIterations   int

	// Session settings
	ThreadID     string
	AutoInterval time.Duration

	// Wallet settings
	NetworkID        string
	WalletDataFile   string
	DeployServiceURL string // empty disables deploy_multi_token

	// Redis settings (empty addr keeps history in memory)
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	HistoryTTL    time.Duration

	// ClickHouse settings (empty addr disables the audit trail)
	ClickHouseAddr     string
	ClickHouseDatabase string
	ClickHouseUsername string
	ClickHousePassword string

	// API server settings
	APIAddr        string
	APIKey         string
	RateLimitRPS   float64
	RateLimitBurst int

	// Runtime
	Env      string // "development", "staging", "production"
	LogLevel string
}

// Load reads configuration from the environment, loading a .env file
// first if one is present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		// Moralis
		MoralisAPIKey:  getEnv("MORALIS_API_KEY", ""),
		MoralisBaseURL: getEnv("MORALIS_BASE_URL", "https://deep-index.moralis.io/api/v2.2"),

		// LLM
		LLMProvider:     getEnv("LLM_PROVIDER", "openai"),
		OpenAIAPIKey:    getEnv("OPENAI_API_KEY", ""),
		AnthropicAPIKey: getEnv("ANTHROPIC_API_KEY", ""),
		LLMModel:        getEnv("LLM_MODEL", "gpt-4o-mini"),
		LLMBaseURL:      getEnv("LLM_BASE_URL", ""),
		MaxIterations:   getIntEnv("AGENT_MAX_ITERATIONS", 8),

		// Session
		ThreadID:     getEnv("AGENT_THREAD_ID", "Base Agent Chatbot"),
		AutoInterval: getDurationEnv("AUTO_INTERVAL", 10*time.Second),

		// Wallet
		NetworkID:        getEnv("NETWORK_ID", "base-sepolia"),
		WalletDataFile:   getEnv("WALLET_DATA_FILE", "wallet_data.txt"),
		DeployServiceURL: getEnv("DEPLOY_SERVICE_URL", ""),

		// Redis
		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getIntEnv("REDIS_DB", 0),
		HistoryTTL:    getDurationEnv("HISTORY_TTL", 0),

		// ClickHouse
		ClickHouseAddr:     getEnv("CLICKHOUSE_ADDR", ""),
		ClickHouseDatabase: getEnv("CLICKHOUSE_DATABASE", "default"),
		ClickHouseUsername: getEnv("CLICKHOUSE_USERNAME", "default"),
		ClickHousePassword: getEnv("CLICKHOUSE_PASSWORD", ""),

		// API server
		APIAddr:        getEnv("API_ADDR", ":8080"),
		APIKey:         getEnv("API_KEY", ""),
		RateLimitRPS:   getFloatEnv("RATE_LIMIT_RPS", 10),
		RateLimitBurst: getIntEnv("RATE_LIMIT_BURST", 20),

		// Runtime
		Env:      getEnv("ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}
}

// Validate checks settings every command needs. Command-specific
// requirements (LLM keys, listen addresses) are checked in main.
func (c *Config) Validate() error {
	if c.MoralisBaseURL == "" {
		return fmt.Errorf("MORALIS_BASE_URL is required")
	}
	if c.NetworkID == "" {
		return fmt.Errorf("NETWORK_ID is required")
	}
	if c.WalletDataFile == "" {
		return fmt.Errorf("WALLET_DATA_FILE is required")
	}
	if c.MaxIterations < 1 {
		return fmt.Errorf("AGENT_MAX_ITERATIONS must be at least 1")
	}
	if c.AutoInterval <= 0 {
		return fmt.Errorf("AUTO_INTERVAL must be positive")
	}
	if c.RateLimitRPS <= 0 {
		return fmt.Errorf("RATE_LIMIT_RPS must be positive")
	}
	if c.RateLimitBurst < 1 {
		return fmt.Errorf("RATE_LIMIT_BURST must be at least 1")
	}
	return nil
}

// LLMAPIKey returns the key matching the configured provider.
func (c *Config) LLMAPIKey() string {
	if strings.EqualFold(strings.TrimSpace(c.LLMProvider), "anthropic") {
		return c.AnthropicAPIKey
	}
	return c.OpenAIAPIKey
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Env == "production"
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

func getFloatEnv(key string, defaultVal float64) float64 {
	if val := os.Getenv(key); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
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
