package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	ai "github.com/spetersoncode/postflow"
	"github.com/spetersoncode/postflow/model"
)

// Config holds the server configuration loaded from environment variables.
type Config struct {
	// Server
	Port     string
	LogLevel string // debug, info, warn, error

	// API keys
	AnthropicKey string
	OpenAIKey    string
	GoogleKey    string

	// Models
	ChatModel  ai.Model
	ImageModel ai.Model

	// Workflow
	MaxRevisions   int
	RequestTimeout time.Duration

	// Storage
	DBPath   string
	ImageDir string

	// LinkedIn (optional; publishing is simulated when absent)
	LinkedInToken    string
	LinkedInPersonID string
}

// LoadConfig loads configuration from environment variables.
// It loads a .env file if present (silent fail if not found).
func LoadConfig() (*Config, error) {
	godotenv.Load() // Load .env file if present

	chatModel, err := resolveChatModel(getEnvOrDefault("POSTFLOW_CHAT_MODEL", model.DefaultGeminiModel.String()))
	if err != nil {
		return nil, err
	}
	imageModel, err := resolveImageModel(getEnvOrDefault("POSTFLOW_IMAGE_MODEL", model.DefaultImagenModel.String()))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Port:             getEnvOrDefault("POSTFLOW_PORT", "8000"),
		LogLevel:         getEnvOrDefault("POSTFLOW_LOG_LEVEL", "info"),
		AnthropicKey:     os.Getenv("ANTHROPIC_API_KEY"),
		OpenAIKey:        os.Getenv("OPENAI_API_KEY"),
		GoogleKey:        getEnvOrDefault("GEMINI_API_KEY", os.Getenv("GOOGLE_API_KEY")),
		ChatModel:        chatModel,
		ImageModel:       imageModel,
		MaxRevisions:     getEnvIntOrDefault("POSTFLOW_MAX_REVISIONS", 3),
		RequestTimeout:   getEnvDurationOrDefault("POSTFLOW_TIMEOUT", 2*time.Minute),
		DBPath:           getEnvOrDefault("POSTFLOW_DB_PATH", "postflow.db"),
		ImageDir:         getEnvOrDefault("POSTFLOW_IMAGE_DIR", "generated_images"),
		LinkedInToken:    os.Getenv("LINKEDIN_ACCESS_TOKEN"),
		LinkedInPersonID: os.Getenv("LINKEDIN_PERSON_ID"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that the configured models have keys to run on.
func (c *Config) Validate() error {
	if err := c.keyFor(c.ChatModel, "POSTFLOW_CHAT_MODEL"); err != nil {
		return err
	}
	return c.keyFor(c.ImageModel, "POSTFLOW_IMAGE_MODEL")
}

func (c *Config) keyFor(m ai.Model, source string) error {
	switch m.Provider() {
	case ai.ProviderAnthropic:
		if c.AnthropicKey == "" {
			return fmt.Errorf("ANTHROPIC_API_KEY is required for %s=%s", source, m)
		}
	case ai.ProviderOpenAI:
		if c.OpenAIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required for %s=%s", source, m)
		}
	case ai.ProviderGoogle:
		if c.GoogleKey == "" {
			return fmt.Errorf("GEMINI_API_KEY is required for %s=%s", source, m)
		}
	default:
		return fmt.Errorf("unknown provider for %s=%s", source, m)
	}
	return nil
}

// resolveChatModel maps a model identifier onto its provider by prefix.
func resolveChatModel(name string) (ai.Model, error) {
	switch {
	case strings.HasPrefix(name, "gemini"):
		return model.Chat(name, ai.ProviderGoogle), nil
	case strings.HasPrefix(name, "claude"):
		return model.Chat(name, ai.ProviderAnthropic), nil
	case strings.HasPrefix(name, "gpt"):
		return model.Chat(name, ai.ProviderOpenAI), nil
	default:
		return nil, fmt.Errorf("cannot infer provider for chat model %q", name)
	}
}

func resolveImageModel(name string) (ai.Model, error) {
	switch {
	case strings.HasPrefix(name, "imagen"), strings.HasPrefix(name, "gemini"):
		return model.Image(name, ai.ProviderGoogle), nil
	case strings.HasPrefix(name, "dall-e"), strings.HasPrefix(name, "gpt-image"):
		return model.Image(name, ai.ProviderOpenAI), nil
	default:
		return nil, fmt.Errorf("cannot infer provider for image model %q", name)
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
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
