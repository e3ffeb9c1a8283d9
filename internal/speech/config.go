package speech

import (
	"fmt"
)

// Config holds the configuration for the hosted speech-to-text client
//
// Environment Variables:
// - SPEECH_API_KEY: API key for the speech provider (required,
//   OPENAI_API_KEY accepted as fallback)
// - SPEECH_API_URL: API endpoint URL (default: https://api.openai.com/v1)
// - SPEECH_MODEL: Model name to use (default: whisper-1)
// - SPEECH_TIMEOUT: Request timeout in seconds (default: 600)
type Config struct {
	APIKey  string `json:"api_key"`
	APIURL  string `json:"api_url"`
	Model   string `json:"model"`
	Timeout int    `json:"timeout"`
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("API key is required")
	}
	if c.APIURL == "" {
		return fmt.Errorf("API URL is required")
	}
	if c.Model == "" {
		return fmt.Errorf("model is required")
	}
	if c.Timeout < 1 {
		return fmt.Errorf("timeout must be greater than 0")
	}
	return nil
}
