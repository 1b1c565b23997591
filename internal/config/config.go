// Package config provides application configuration loaded from environment variables.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	Port        string
	DatasetPath string

	// OpenAI access. An empty key is not an error: embedding-dependent
	// stages are reported unavailable and normalization still works.
	OpenAIAPIKey string
	EmbedModel   string
	ChatModel    string

	// Retry budget for external LLM calls, applied by the caller as a
	// decorator. Zero disables retries (the pipeline core never retries).
	LLMRetryMaxElapsed time.Duration

	// Default number of themes (k) when a request does not set one.
	DefaultThemes int
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
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

// Load reads configuration from the environment, loading a .env file first
// when present. Missing variables fall back to defaults.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:               getEnv("PORT", "8080"),
		DatasetPath:        getEnv("DATASET_PATH", "data/sample_feedback.csv"),
		OpenAIAPIKey:       os.Getenv("OPENAI_API_KEY"),
		EmbedModel:         getEnv("EMBED_MODEL", "text-embedding-3-small"),
		ChatModel:          getEnv("CHAT_MODEL", "gpt-4o-mini"),
		LLMRetryMaxElapsed: time.Duration(getEnvAsInt("LLM_RETRY_MAX_ELAPSED_SEC", 0)) * time.Second,
		DefaultThemes:      getEnvAsInt("DEFAULT_THEMES", 8),
	}
}

// LLMEnabled reports whether the external embedding/chat services can be
// reached at all for this process.
func (c *Config) LLMEnabled() bool {
	return c.OpenAIAPIKey != ""
}
