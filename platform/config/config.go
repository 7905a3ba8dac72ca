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

// RedisConfig provides Redis connection settings for the work queue.
type RedisConfig interface {
	GetRedisURL() string
}

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
	GetCORSAllowCreds() bool
}

// EnrichmentConfig provides settings for the Exa research API.
type EnrichmentConfig interface {
	GetExaAPIKey() string
	IsEnrichmentEnabled() bool
}

// DraftingConfig provides settings for the Anthropic drafting API.
type DraftingConfig interface {
	GetAnthropicAPIKey() string
	GetAnthropicModel() string
	IsDraftingEnabled() bool
}

// GmailConfig provides OAuth settings for Gmail account connections.
type GmailConfig interface {
	GetGmailClientID() string
	GetGmailClientSecret() string
	GetGmailRedirectURL() string
	IsGmailEnabled() bool
}

// QueueConfig provides settings for the background worker.
type QueueConfig interface {
	GetQueueName() string
	GetQueueConcurrency() int
	GetSendInterval() time.Duration
	GetReplyCheckInterval() time.Duration
}

// =============================================================================
// Main Config Struct
// =============================================================================

// Config holds all application configuration values.
type Config struct {
	Env                string
	HTTPAddr           string
	DatabaseURL        string
	RedisURL           string
	CORSAllowAll       bool
	CORSOrigins        []string
	CORSAllowCreds     bool
	ExaAPIKey          string
	AnthropicAPIKey    string
	AnthropicModel     string
	GmailClientID      string
	GmailClientSecret  string
	GmailRedirectURL   string
	QueueName          string
	QueueConcurrency   int
	SendInterval       time.Duration
	ReplyCheckInterval time.Duration
}

// =============================================================================
// Interface Implementations
// =============================================================================

// DatabaseConfig implementation
func (c *Config) GetDatabaseURL() string { return c.DatabaseURL }

// RedisConfig implementation
func (c *Config) GetRedisURL() string { return c.RedisURL }

// HTTPConfig implementation
func (c *Config) GetHTTPAddr() string      { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool    { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string { return c.CORSOrigins }
func (c *Config) GetCORSAllowCreds() bool  { return c.CORSAllowCreds }

// EnrichmentConfig implementation
func (c *Config) GetExaAPIKey() string      { return c.ExaAPIKey }
func (c *Config) IsEnrichmentEnabled() bool { return c.ExaAPIKey != "" }

// DraftingConfig implementation
func (c *Config) GetAnthropicAPIKey() string { return c.AnthropicAPIKey }
func (c *Config) GetAnthropicModel() string  { return c.AnthropicModel }
func (c *Config) IsDraftingEnabled() bool    { return c.AnthropicAPIKey != "" }

// GmailConfig implementation
func (c *Config) GetGmailClientID() string     { return c.GmailClientID }
func (c *Config) GetGmailClientSecret() string { return c.GmailClientSecret }
func (c *Config) GetGmailRedirectURL() string  { return c.GmailRedirectURL }
func (c *Config) IsGmailEnabled() bool {
	return c.GmailClientID != "" && c.GmailClientSecret != ""
}

// QueueConfig implementation
func (c *Config) GetQueueName() string                 { return c.QueueName }
func (c *Config) GetQueueConcurrency() int             { return c.QueueConcurrency }
func (c *Config) GetSendInterval() time.Duration       { return c.SendInterval }
func (c *Config) GetReplyCheckInterval() time.Duration { return c.ReplyCheckInterval }

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	corsOrigins := splitCSV(getEnv("CORS_ORIGINS", "http://localhost:3000"))
	corsAllowAll := strings.EqualFold(getEnv("CORS_ALLOW_ALL", "false"), "true")
	if containsWildcard(corsOrigins) {
		corsAllowAll = true
	}

	cfg := &Config{
		Env:                getEnv("APP_ENV", "development"),
		HTTPAddr:           getEnv("HTTP_ADDR", ":8080"),
		DatabaseURL:        getEnv("DATABASE_URL", ""),
		RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
		CORSAllowAll:       corsAllowAll,
		CORSOrigins:        corsOrigins,
		CORSAllowCreds:     strings.EqualFold(getEnv("CORS_ALLOW_CREDENTIALS", "true"), "true"),
		ExaAPIKey:          getEnv("EXA_API_KEY", ""),
		AnthropicAPIKey:    getEnv("ANTHROPIC_API_KEY", ""),
		AnthropicModel:     getEnv("ANTHROPIC_MODEL", "claude-sonnet-4-20250514"),
		GmailClientID:      getEnv("GMAIL_CLIENT_ID", ""),
		GmailClientSecret:  getEnv("GMAIL_CLIENT_SECRET", ""),
		GmailRedirectURL:   getEnv("GMAIL_REDIRECT_URL", "http://localhost:8080/api/v1/gmail/callback"),
		QueueName:          getEnv("QUEUE_NAME", "outreach"),
		QueueConcurrency:   mustInt(getEnv("QUEUE_CONCURRENCY", "10")),
		SendInterval:       mustDuration(getEnv("SEND_INTERVAL", "60s")),
		ReplyCheckInterval: mustDuration(getEnv("REPLY_CHECK_INTERVAL", "15m")),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.RedisURL == "" {
		return nil, fmt.Errorf("REDIS_URL is required")
	}
	if cfg.QueueConcurrency <= 0 {
		return nil, fmt.Errorf("QUEUE_CONCURRENCY must be a positive integer")
	}
	if cfg.SendInterval <= 0 {
		return nil, fmt.Errorf("SEND_INTERVAL must be a positive duration")
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
