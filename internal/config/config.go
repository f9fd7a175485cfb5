package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	// Environment
	Env string // "development", "production", etc.

	// Server
	ServerAddr string
	BaseURL    string

	// Database
	DatabaseURL string

	// Optional Redis backing for sessions and the rate limiter
	RedisURL string

	// Session
	SessionSecret string // Used for signing cookies (min 32 chars)

	// Admin auth
	AdminPassword string // Password for the admin dashboard login form
	AdminToken    string // Static token for the JSON admin API (X-Admin-Token)
	AdminChatID   int64  // Chat user allowed to run /createkey in-chat

	// OIDC (optional second login path for the dashboard)
	OIDCIssuer       string
	OIDCClientID     string
	OIDCClientSecret string
	OIDCRedirectURL  string
	OIDCAdminEmails  string // Comma-separated allowlist of admin emails

	// Chat gateway (outbound transport)
	ChatGatewayURL   string
	ChatGatewayToken string

	// Search
	CorpusPath      string
	MaxResults      int           // Hard cap on lines returned per search
	PreviewLines    int           // Inline preview size, kept below MaxResults
	Cooldown        time.Duration // Minimum interval between successful searches
	ConversationTTL time.Duration // AwaitingKeyword state expiry
}

// Load reads configuration from environment variables with sensible defaults.
func Load() *Config {
	return &Config{
		Env:         getEnv("ENV", "development"),
		ServerAddr:  getEnv("SERVER_ADDR", ":3000"),
		BaseURL:     getEnv("BASE_URL", "http://localhost:3000"),
		DatabaseURL: getEnv("DATABASE_URL", "postgres://localhost:5432/loggate?sslmode=disable"),
		RedisURL:    getEnv("REDIS_URL", ""),

		SessionSecret: getEnv("SESSION_SECRET", "change-me-in-production-min-32-chars"),

		AdminPassword: getEnv("ADMIN_PASSWORD", ""),
		AdminToken:    getEnv("ADMIN_TOKEN", ""),
		AdminChatID:   getEnvInt64("ADMIN_CHAT_ID", 0),

		OIDCIssuer:       getEnv("OIDC_ISSUER", ""),
		OIDCClientID:     getEnv("OIDC_CLIENT_ID", ""),
		OIDCClientSecret: getEnv("OIDC_CLIENT_SECRET", ""),
		OIDCRedirectURL:  getEnv("OIDC_REDIRECT_URL", "http://localhost:3000/auth/callback"),
		OIDCAdminEmails:  getEnv("OIDC_ADMIN_EMAILS", ""),

		ChatGatewayURL:   getEnv("CHAT_GATEWAY_URL", ""),
		ChatGatewayToken: getEnv("CHAT_GATEWAY_TOKEN", ""),

		CorpusPath:      getEnv("CORPUS_PATH", "logs.txt"),
		MaxResults:      getEnvInt("MAX_RESULTS", 200),
		PreviewLines:    getEnvInt("PREVIEW_LINES", 10),
		Cooldown:        time.Duration(getEnvInt("COOLDOWN_SECONDS", 60)) * time.Second,
		ConversationTTL: time.Duration(getEnvInt("CONVERSATION_TTL_SECONDS", 300)) * time.Second,
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) int64 {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.ParseInt(value, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

// IsDev returns true if the environment is set to development.
func (c *Config) IsDev() bool {
	return c.Env == "development" || c.Env == "dev"
}
