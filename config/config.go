// Package config loads the service configuration from environment variables
// with safe local-development defaults. Business logic never reads the
// environment directly; everything is injected from here at startup.
package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"
)

// Provider selects the model backend implementation.
type Provider string

const (
	ProviderGemini    Provider = "gemini"
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
	ProviderMock      Provider = "mock"
)

// Config holds everything the process needs at startup.
type Config struct {
	Port string

	Provider  Provider
	APIKey    string
	ModelName string

	Temperature float64
	SessionTTL  time.Duration

	KnowledgeDir string

	LogLevel  slog.Level
	LogFormat string // json or text
}

// Load reads all env vars and builds the config.
func Load() *Config {
	return &Config{
		Port: getEnv("DESKBRIEF_PORT", "8000"),

		Provider:  parseProvider(getEnv("DESKBRIEF_PROVIDER", "gemini")),
		APIKey:    getEnv("DESKBRIEF_API_KEY", os.Getenv("GOOGLE_API_KEY")),
		ModelName: getEnv("DESKBRIEF_MODEL_NAME", ""),

		Temperature: getFloatEnv("DESKBRIEF_TEMPERATURE", 0.7),
		SessionTTL:  getDurationEnv("DESKBRIEF_SESSION_TTL", time.Hour),

		KnowledgeDir: getEnv("DESKBRIEF_KNOWLEDGE_DIR", "database"),

		LogLevel:  parseLogLevel(getEnv("DESKBRIEF_LOG_LEVEL", "info")),
		LogFormat: getEnv("DESKBRIEF_LOG_FORMAT", "json"),
	}
}

func parseProvider(s string) Provider {
	switch Provider(s) {
	case ProviderOpenAI:
		return ProviderOpenAI
	case ProviderAnthropic:
		return ProviderAnthropic
	case ProviderMock:
		return ProviderMock
	default:
		return ProviderGemini
	}
}

func parseLogLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getFloatEnv(key string, def float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}

func getDurationEnv(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
