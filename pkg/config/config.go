package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	OpenAI   OpenAIConfig
	Engine   EngineConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port            string
	Host            string
	Environment     string
	AllowedOrigins  []string
	ShutdownTimeout int
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host        string
	Port        string
	User        string
	Password    string
	Name        string
	SSLMode     string
	MaxConns    int
	MinConns    int
	AutoMigrate bool
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// OpenAIConfig holds text-completion provider configuration
type OpenAIConfig struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

// ModelPrice is the per-1K-token price pair for one model, in USD.
type ModelPrice struct {
	PromptPer1K     float64
	CompletionPer1K float64
}

// Cost converts a provider usage report into USD.
func (p ModelPrice) Cost(promptTokens, completionTokens int) float64 {
	return float64(promptTokens)/1000*p.PromptPer1K + float64(completionTokens)/1000*p.CompletionPer1K
}

// EngineConfig holds correction engine tuning
type EngineConfig struct {
	// ChunkTokenBudget is the estimated-token ceiling per chunk sent to the
	// provider.
	ChunkTokenBudget int
	// MaxPromptTerms caps how many word-list pairs are serialized into one
	// prompt; overflow is truncated to the most recently used terms.
	MaxPromptTerms int
	// MaxAttempts bounds provider retries per chunk (transient errors only).
	MaxAttempts int
	// JobTimeout bounds one whole correction run, retries included.
	JobTimeout time.Duration
	// DefaultModel is used when a submission does not name a model.
	DefaultModel string
	// DefaultSpendCap is the per-user API budget (USD) applied when a user
	// row has no explicit cap.
	DefaultSpendCap float64
	// Pricing maps model identifier to its token prices. Submitting a job
	// with a model not present here fails before any provider call.
	Pricing map[string]ModelPrice
}

// DefaultPricing mirrors the provider's published per-1K-token rates for the
// models the service accepts.
func DefaultPricing() map[string]ModelPrice {
	return map[string]ModelPrice{
		"gpt-4o":        {PromptPer1K: 0.005, CompletionPer1K: 0.015},
		"gpt-4o-mini":   {PromptPer1K: 0.00015, CompletionPer1K: 0.0006},
		"gpt-4-turbo":   {PromptPer1K: 0.01, CompletionPer1K: 0.03},
		"gpt-4":         {PromptPer1K: 0.03, CompletionPer1K: 0.06},
		"gpt-3.5-turbo": {PromptPer1K: 0.0005, CompletionPer1K: 0.0015},
	}
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables or defaults")
	}

	config := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "8080"),
			Host:            getEnv("HOST", "0.0.0.0"),
			Environment:     getEnv("ENVIRONMENT", "development"),
			AllowedOrigins:  []string{getEnv("ALLOWED_ORIGINS", "http://localhost:3000")},
			ShutdownTimeout: getEnvAsInt("SHUTDOWN_TIMEOUT", 10),
		},
		Database: DatabaseConfig{
			Host:        getEnv("DB_HOST", "localhost"),
			Port:        getEnv("DB_PORT", "5432"),
			User:        getEnv("DB_USER", "postgres"),
			Password:    getEnv("DB_PASSWORD", "postgres"),
			Name:        getEnv("DB_NAME", "proofline"),
			SSLMode:     getEnv("DB_SSLMODE", "disable"),
			MaxConns:    getEnvAsInt("DB_MAX_CONNS", 25),
			MinConns:    getEnvAsInt("DB_MIN_CONNS", 5),
			AutoMigrate: getEnvAsBool("DB_AUTO_MIGRATE", false),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		OpenAI: OpenAIConfig{
			APIKey:  getEnv("OPENAI_API_KEY", ""),
			BaseURL: getEnv("OPENAI_BASE_URL", ""),
			Timeout: getEnvAsDuration("OPENAI_TIMEOUT", "120s"),
		},
		Engine: EngineConfig{
			ChunkTokenBudget: getEnvAsInt("CHUNK_TOKEN_BUDGET", 4000),
			MaxPromptTerms:   getEnvAsInt("MAX_PROMPT_TERMS", 200),
			MaxAttempts:      getEnvAsInt("PROVIDER_MAX_ATTEMPTS", 3),
			JobTimeout:       getEnvAsDuration("JOB_TIMEOUT", "10m"),
			DefaultModel:     getEnv("DEFAULT_MODEL", "gpt-4o-mini"),
			DefaultSpendCap:  getEnvAsFloat("DEFAULT_SPEND_CAP", 10.0),
			Pricing:          DefaultPricing(),
		},
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.OpenAI.APIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY is required")
	}
	if c.Engine.ChunkTokenBudget <= 0 {
		return fmt.Errorf("CHUNK_TOKEN_BUDGET must be positive")
	}
	if c.Engine.MaxAttempts <= 0 {
		return fmt.Errorf("PROVIDER_MAX_ATTEMPTS must be positive")
	}
	return nil
}

// GetDatabaseDSN returns the database connection string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// GetRedisAddr returns the Redis address
func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Redis.Host, c.Redis.Port)
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		duration, _ = time.ParseDuration(defaultValue)
	}
	return duration
}
