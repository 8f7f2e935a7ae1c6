package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	PostgreSQL PostgreSQLConfig
	Server     ServerConfig
	Search     SearchConfig
	OpenAI     OpenAIConfig
}

// PostgreSQLConfig holds PostgreSQL database configuration
type PostgreSQLConfig struct {
	DSN                string // full connection string, takes precedence over the fields below
	Host               string
	Port               int
	User               string
	Password           string
	Database           string
	SSLMode            string
	MaxConnections     int
	MaxIdleConnections int
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port           int
	Host           string
	GinMode        string
	AllowedOrigins string
}

// SearchConfig holds search pipeline configuration
type SearchConfig struct {
	DefaultPageSize     int
	MaxPageSize         int
	CandidateLimit      int           // number of vector candidates requested per search
	StageTimeout        time.Duration // deadline for each best-effort upstream call
	AvailabilityWorkers int
	DefaultABGroup      string
	PreferenceDays      int // look-back window for user preference signals
}

// OpenAIConfig holds OpenAI-compatible API configuration
type OpenAIConfig struct {
	APIKey              string
	APIBase             string
	ChatModel           string // Model for query understanding
	ChatTemperature     float64
	ChatMaxTokens       int
	EmbeddingModel      string
	EmbeddingDimensions int
	EmbeddingExtraBody  string // JSON string for extra_body (e.g., {"truncate":"NONE"})
	EmbeddingBackend    string // "http" or "langchain"
	BatchSize           int
	Timeout             int
	RequestsPerSecond   float64 // 0 disables client-side throttling
	Enabled             bool
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (optional)
	_ = godotenv.Load()

	cfg := &Config{
		PostgreSQL: PostgreSQLConfig{
			DSN:                getEnv("DATABASE_URL", getEnv("PG_DSN", "")),
			Host:               getEnv("PG_HOST", "localhost"),
			Port:               getEnvAsInt("PG_PORT", 5432),
			User:               getEnv("PG_USER", "postgres"),
			Password:           getEnv("PG_PASSWORD", ""),
			Database:           getEnv("PG_DATABASE", "hotels"),
			SSLMode:            getEnv("PG_SSLMODE", "disable"),
			MaxConnections:     getEnvAsInt("PG_MAX_CONNECTIONS", 25),
			MaxIdleConnections: getEnvAsInt("PG_MAX_IDLE_CONNECTIONS", 5),
		},
		Server: ServerConfig{
			Port:           getEnvAsInt("SERVER_PORT", 8080),
			Host:           getEnv("SERVER_HOST", "0.0.0.0"),
			GinMode:        getEnv("GIN_MODE", "release"),
			AllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
		},
		Search: SearchConfig{
			DefaultPageSize:     getEnvAsInt("SEARCH_DEFAULT_PAGE_SIZE", 10),
			MaxPageSize:         getEnvAsInt("SEARCH_MAX_PAGE_SIZE", 100),
			CandidateLimit:      getEnvAsInt("SEARCH_CANDIDATE_LIMIT", 50),
			StageTimeout:        getEnvAsDuration("SEARCH_STAGE_TIMEOUT", 5*time.Second),
			AvailabilityWorkers: getEnvAsInt("SEARCH_AVAILABILITY_WORKERS", 8),
			DefaultABGroup:      getEnv("SEARCH_DEFAULT_AB_GROUP", "A"),
			PreferenceDays:      getEnvAsInt("SEARCH_PREFERENCE_DAYS", 90),
		},
		OpenAI: OpenAIConfig{
			APIKey:              getEnv("OPENAI_API_KEY", ""),
			APIBase:             getEnv("OPENAI_API_BASE", "https://api.openai.com/v1"),
			ChatModel:           getEnv("OPENAI_CHAT_MODEL", "gpt-4o-mini"),
			ChatTemperature:     getEnvAsFloat("OPENAI_CHAT_TEMPERATURE", 0),
			ChatMaxTokens:       getEnvAsInt("OPENAI_CHAT_MAX_TOKENS", 512),
			EmbeddingModel:      getEnv("OPENAI_EMBEDDING_MODEL", "text-embedding-3-small"),
			EmbeddingDimensions: getEnvAsInt("OPENAI_EMBEDDING_DIMENSIONS", 1536),
			EmbeddingExtraBody:  getEnv("OPENAI_EMBEDDING_EXTRA_BODY", ""),
			EmbeddingBackend:    getEnv("OPENAI_EMBEDDING_BACKEND", "http"),
			BatchSize:           getEnvAsInt("OPENAI_BATCH_SIZE", 100),
			Timeout:             getEnvAsInt("OPENAI_TIMEOUT", 30),
			RequestsPerSecond:   getEnvAsFloat("OPENAI_REQUESTS_PER_SECOND", 0),
			Enabled:             getEnv("OPENAI_API_KEY", "") != "",
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Search.DefaultPageSize < 1 {
		return fmt.Errorf("SEARCH_DEFAULT_PAGE_SIZE must be positive, got %d", c.Search.DefaultPageSize)
	}
	if c.Search.MaxPageSize < c.Search.DefaultPageSize {
		return fmt.Errorf("SEARCH_MAX_PAGE_SIZE (%d) is below SEARCH_DEFAULT_PAGE_SIZE (%d)",
			c.Search.MaxPageSize, c.Search.DefaultPageSize)
	}
	if c.Search.AvailabilityWorkers < 1 {
		return fmt.Errorf("SEARCH_AVAILABILITY_WORKERS must be positive, got %d", c.Search.AvailabilityWorkers)
	}
	if c.OpenAI.BatchSize < 1 {
		return fmt.Errorf("OPENAI_BATCH_SIZE must be positive, got %d", c.OpenAI.BatchSize)
	}
	switch c.OpenAI.EmbeddingBackend {
	case "http", "langchain":
	default:
		return fmt.Errorf("OPENAI_EMBEDDING_BACKEND must be http or langchain, got %q", c.OpenAI.EmbeddingBackend)
	}
	return nil
}

// GetPostgreSQLDSN returns PostgreSQL connection string
func (c *Config) GetPostgreSQLDSN() string {
	if c.PostgreSQL.DSN != "" {
		return c.PostgreSQL.DSN
	}

	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.PostgreSQL.Host,
		c.PostgreSQL.Port,
		c.PostgreSQL.User,
		c.PostgreSQL.Password,
		c.PostgreSQL.Database,
		c.PostgreSQL.SSLMode,
	)
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	return getEnvAs(key, defaultValue, strconv.Atoi)
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	return getEnvAs(key, defaultValue, func(s string) (float64, error) {
		return strconv.ParseFloat(s, 64)
	})
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	return getEnvAs(key, defaultValue, time.ParseDuration)
}

// getEnvAs parses key with parse, keeping defaultValue when unset or invalid
func getEnvAs[T any](key string, defaultValue T, parse func(string) (T, error)) T {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	value, err := parse(raw)
	if err != nil {
		log.Printf("[WARN] ⚠️  Invalid value %q for %s, using default %v", raw, key, defaultValue)
		return defaultValue
	}
	return value
}
