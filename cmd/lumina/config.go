package main

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the server configuration loaded from environment variables.
type Config struct {
	// Server
	Port      string
	LogLevel  string // debug, info, warn, error
	EnableMCP bool

	// Provider selection
	CriticProvider string // google, openai, anthropic
	SynthProvider  string // google, openai
	CriticModel    string
	ImageModel     string

	// API Keys
	GoogleKey    string
	OpenAIKey    string
	AnthropicKey string

	// Vertex AI (uses ADC for auth)
	VertexProject  string
	VertexLocation string

	// Image fetching
	FetchCacheTTL     time.Duration
	BlockPrivateFetch bool

	// Minimum interval between generations, 0 for unlimited
	GenerateInterval time.Duration
}

// LoadConfig loads configuration from environment variables.
// It loads a .env file if present (silent fail if not found).
func LoadConfig() (*Config, error) {
	godotenv.Load() // Load .env file if present

	cfg := &Config{
		Port:              getEnvOrDefault("LUMINA_PORT", "8080"),
		LogLevel:          getEnvOrDefault("LUMINA_LOG_LEVEL", "info"),
		EnableMCP:         getEnvBoolOrDefault("LUMINA_MCP", true),
		CriticProvider:    strings.ToLower(getEnvOrDefault("LUMINA_CRITIC_PROVIDER", "google")),
		SynthProvider:     strings.ToLower(getEnvOrDefault("LUMINA_SYNTH_PROVIDER", "google")),
		CriticModel:       os.Getenv("LUMINA_CRITIC_MODEL"),
		ImageModel:        os.Getenv("LUMINA_IMAGE_MODEL"),
		GoogleKey:         getEnvOrDefault("API_KEY", os.Getenv("GOOGLE_API_KEY")),
		OpenAIKey:         os.Getenv("OPENAI_API_KEY"),
		AnthropicKey:      os.Getenv("ANTHROPIC_API_KEY"),
		VertexProject:     os.Getenv("LUMINA_VERTEX_PROJECT"),
		VertexLocation:    os.Getenv("LUMINA_VERTEX_LOCATION"),
		FetchCacheTTL:     getEnvDurationOrDefault("LUMINA_FETCH_CACHE_TTL", 0),
		BlockPrivateFetch: getEnvBoolOrDefault("LUMINA_BLOCK_PRIVATE_FETCH", true),
		GenerateInterval:  getEnvDurationOrDefault("LUMINA_GENERATE_INTERVAL", 0),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that the provider selection is usable. A missing Gemini
// key is allowed; calls fail at request time instead.
func (c *Config) Validate() error {
	if _, err := parseLogLevel(c.LogLevel); err != nil {
		return err
	}

	switch c.CriticProvider {
	case "google":
	case "openai":
		if c.OpenAIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required for the openai critic")
		}
	case "anthropic":
		if c.AnthropicKey == "" {
			return fmt.Errorf("ANTHROPIC_API_KEY is required for the anthropic critic")
		}
	default:
		return fmt.Errorf("unknown critic provider: %s (must be google, openai, or anthropic)", c.CriticProvider)
	}

	switch c.SynthProvider {
	case "google":
	case "openai":
		if c.OpenAIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required for the openai synthesizer")
		}
	default:
		return fmt.Errorf("unknown synthesis provider: %s (must be google or openai)", c.SynthProvider)
	}

	if (c.VertexProject == "") != (c.VertexLocation == "") {
		return fmt.Errorf("LUMINA_VERTEX_PROJECT and LUMINA_VERTEX_LOCATION must be set together")
	}
	if c.FetchCacheTTL < 0 || c.GenerateInterval < 0 {
		return fmt.Errorf("durations must not be negative")
	}

	return nil
}

// UsesVertex reports whether google models run on Vertex AI.
func (c *Config) UsesVertex() bool {
	return c.VertexProject != "" && c.VertexLocation != ""
}

func parseLogLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("invalid LUMINA_LOG_LEVEL %q: %w", s, err)
	}
	return level, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
