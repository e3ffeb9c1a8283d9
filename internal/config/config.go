package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all application configuration
// Supports environment variables with sensible defaults
//
// Environment Variables:
// Speech-to-text Configuration:
// - SPEECH_API_KEY: API key for the speech provider (required;
//   OPENAI_API_KEY accepted as fallback)
// - SPEECH_API_URL: API endpoint URL (default: https://api.openai.com/v1)
// - SPEECH_MODEL: Model name (default: whisper-1)
// - SPEECH_TIMEOUT: Request timeout in seconds (default: 600)
//
// Text-generation Configuration:
// - LLM_API_KEY: API key for the generation provider (required;
//   GEMINI_API_KEY accepted as fallback)
// - LLM_API_URL: API endpoint URL (default: Gemini OpenAI-compatible endpoint)
// - LLM_MODEL: Model name (default: gemini-2.5-pro)
// - LLM_MAX_TOKENS: Maximum tokens for responses (default: 8000)
// - LLM_TEMPERATURE: Temperature for responses (default: 0.7)
// - LLM_TIMEOUT: Request timeout in seconds (default: 120)
//
// HTTP Configuration:
// - PORT: Listen port (default: 8080)
// - UI_DIR: Static UI directory (default: web/static, empty disables UI)
//
// Worker Configuration:
// - WORK_DIR: Directory for transient audio files (default: os temp dir)
// - WORKER_COUNT: Concurrent pipeline workers (default: 4)
// - CLEANUP_CRON: Janitor schedule (default: "@every 1h")
// - ARTIFACT_TTL_HOURS: Age before stale temp files and terminal jobs
//   are swept (default: 24)
// - LOG_LEVEL: debug/info/warn/error (default: info)

type Config struct {
	Speech SpeechConfig `json:"speech"`
	LLM    LLMConfig    `json:"llm"`
	HTTP   HTTPConfig   `json:"http"`
	Worker WorkerConfig `json:"worker"`

	LogLevel string `json:"log_level"`
}

// SpeechConfig holds the configuration for the speech-to-text client
type SpeechConfig struct {
	APIKey  string `json:"api_key"`
	APIURL  string `json:"api_url"`
	Model   string `json:"model"`
	Timeout int    `json:"timeout"`
}

// LLMConfig holds the configuration for the text-generation client
type LLMConfig struct {
	APIKey      string  `json:"api_key"`
	APIURL      string  `json:"api_url"`
	Model       string  `json:"model"`
	MaxTokens   int     `json:"max_tokens"`
	Temperature float64 `json:"temperature"`
	Timeout     int     `json:"timeout"`
}

// HTTPConfig holds the HTTP server configuration
type HTTPConfig struct {
	Port  int    `json:"port"`
	UIDir string `json:"ui_dir"`
}

func (c HTTPConfig) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// WorkerConfig holds queue and janitor configuration
type WorkerConfig struct {
	WorkDir          string `json:"work_dir"`
	WorkerCount      int    `json:"worker_count"`
	CleanupCron      string `json:"cleanup_cron"`
	ArtifactTTLHours int    `json:"artifact_ttl_hours"`
}

// Option is a function type for configuring Config
type Option func(*Config)

// NewFromEnv creates a new Config instance with values from environment variables and options
func NewFromEnv(opts ...Option) (*Config, error) {
	config := &Config{
		Speech: SpeechConfig{
			APIKey:  getEnvString("SPEECH_API_KEY", getEnvString("OPENAI_API_KEY", "")),
			APIURL:  getEnvString("SPEECH_API_URL", "https://api.openai.com/v1"),
			Model:   getEnvString("SPEECH_MODEL", "whisper-1"),
			Timeout: getEnvInt("SPEECH_TIMEOUT", 600),
		},
		LLM: LLMConfig{
			APIKey:      getEnvString("LLM_API_KEY", getEnvString("GEMINI_API_KEY", "")),
			APIURL:      getEnvString("LLM_API_URL", "https://generativelanguage.googleapis.com/v1beta/openai"),
			Model:       getEnvString("LLM_MODEL", "gemini-2.5-pro"),
			MaxTokens:   getEnvInt("LLM_MAX_TOKENS", 8000),
			Temperature: getEnvFloat("LLM_TEMPERATURE", 0.7),
			Timeout:     getEnvInt("LLM_TIMEOUT", 120),
		},
		HTTP: HTTPConfig{
			Port:  getEnvInt("PORT", 8080),
			UIDir: getEnvString("UI_DIR", "web/static"),
		},
		Worker: WorkerConfig{
			WorkDir:          getEnvString("WORK_DIR", os.TempDir()),
			WorkerCount:      getEnvInt("WORKER_COUNT", 4),
			CleanupCron:      getEnvString("CLEANUP_CRON", "@every 1h"),
			ArtifactTTLHours: getEnvInt("ARTIFACT_TTL_HOURS", 24),
		},
		LogLevel: getEnvString("LOG_LEVEL", "info"),
	}

	// Apply custom options
	for _, opt := range opts {
		opt(config)
	}

	// Validate required configuration
	if err := config.validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// validate checks if all required configuration is properly set
func (c *Config) validate() error {
	if c.Speech.APIKey == "" {
		return fmt.Errorf("SPEECH_API_KEY (or OPENAI_API_KEY) is required")
	}
	if c.LLM.APIKey == "" {
		return fmt.Errorf("LLM_API_KEY (or GEMINI_API_KEY) is required")
	}
	if c.HTTP.Port < 1 || c.HTTP.Port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535")
	}
	return nil
}

// getEnvString gets a string value from environment variables with default
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets an integer value from environment variables with default
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvFloat gets a float value from environment variables with default
func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
