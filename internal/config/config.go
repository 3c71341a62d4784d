package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Storage backend selectors
const (
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

// Config holds all application configurations
// All sensitive values are loaded from .env
type Config struct {
	// Server Configuration
	Environment string
	ServerPort  string

	// Storage configuration
	StorageBackend string        // "redis" or "postgres"
	RedisURL       string        // redis://[:password@]host:port[/db]
	CacheTTL       time.Duration // default expiration applied to every write

	// DB configuration (postgres backend)
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Application settings
	DocumentKeyLength    int    // Length of server-generated document keys
	RateLimitPerMinute   int    // Rate limit per IP address
	EnableAuthentication bool   // Enable API key authentication
	APIKey               string // API key for protected endpoints
}

// LoadConfig loads configuration from environment variables
// Returns error if required environment variables are missing
func LoadConfig() (*Config, error) {
	cfg := &Config{
		// Server defaults
		Environment: getEnv("ENVIRONMENT", "development"),
		ServerPort:  getEnv("SERVER_PORT", "8082"),

		// Storage configuration
		StorageBackend: getEnv("STORAGE_BACKEND", BackendRedis),
		RedisURL:       getEnv("REDIS_URL", "redis://localhost:6379"),
		CacheTTL:       time.Duration(getEnvAsInt("CACHE_TTL_SECONDS", 3600)) * time.Second,

		// Database configuration (postgres backend only)
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "kvstore"),
		DBSSLMode:  getEnv("DB_SSL_MODE", "disable"),

		// Application settings
		DocumentKeyLength:    getEnvAsInt("DOCUMENT_KEY_LENGTH", 8),
		RateLimitPerMinute:   getEnvAsInt("RATE_LIMIT_PER_MINUTE", 60),
		EnableAuthentication: getEnvAsBool("ENABLE_AUTHENTICATION", false),
		APIKey:               getEnv("API_KEY", ""),
	}

	// Validate required configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks if all required configuration is present and valid
func (c *Config) Validate() error {
	// Validate backend selection
	if c.StorageBackend != BackendRedis && c.StorageBackend != BackendPostgres {
		return fmt.Errorf("STORAGE_BACKEND must be %q or %q, got %q", BackendRedis, BackendPostgres, c.StorageBackend)
	}

	// TTL is applied in whole seconds on the wire
	if c.CacheTTL < time.Second {
		return fmt.Errorf("CACHE_TTL_SECONDS must be at least 1, got %v", c.CacheTTL)
	}

	// Validate database password in production
	if c.Environment == "production" && c.StorageBackend == BackendPostgres && c.DBPassword == "" {
		return fmt.Errorf("DB_PASSWORD is required in production")
	}

	// Validate key length (must be between 4 and 12)
	if c.DocumentKeyLength < 4 || c.DocumentKeyLength > 12 {
		return fmt.Errorf("DOCUMENT_KEY_LENGTH must be between 4 and 12, got %d", c.DocumentKeyLength)
	}

	// Validate API key if authentication is enabled
	if c.EnableAuthentication && c.APIKey == "" {
		return fmt.Errorf("API_KEY is required when ENABLE_AUTHENTICATION is true")
	}

	return nil
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// Helper functions for reading environment variables

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt reads an environment variable as integer or returns default
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

// getEnvAsBool reads an environment variable as boolean or returns default
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
