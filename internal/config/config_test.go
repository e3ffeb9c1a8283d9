package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredKeys(t *testing.T) {
	t.Helper()
	t.Setenv("SPEECH_API_KEY", "sk-speech")
	t.Setenv("LLM_API_KEY", "sk-llm")
}

func TestNewFromEnv_Defaults(t *testing.T) {
	setRequiredKeys(t)

	cfg, err := NewFromEnv()
	require.NoError(t, err)

	assert.Equal(t, "https://api.openai.com/v1", cfg.Speech.APIURL)
	assert.Equal(t, "whisper-1", cfg.Speech.Model)
	assert.Equal(t, "gemini-2.5-pro", cfg.LLM.Model)
	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.Equal(t, ":8080", cfg.HTTP.Addr())
	assert.Equal(t, 4, cfg.Worker.WorkerCount)
	assert.Equal(t, "@every 1h", cfg.Worker.CleanupCron)
}

func TestNewFromEnv_MissingSpeechKey(t *testing.T) {
	t.Setenv("SPEECH_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("LLM_API_KEY", "sk-llm")

	_, err := NewFromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SPEECH_API_KEY")
}

func TestNewFromEnv_FallbackKeys(t *testing.T) {
	t.Setenv("SPEECH_API_KEY", "")
	t.Setenv("LLM_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "sk-openai")
	t.Setenv("GEMINI_API_KEY", "sk-gemini")

	cfg, err := NewFromEnv()
	require.NoError(t, err)
	assert.Equal(t, "sk-openai", cfg.Speech.APIKey)
	assert.Equal(t, "sk-gemini", cfg.LLM.APIKey)
}

func TestNewFromEnv_Overrides(t *testing.T) {
	setRequiredKeys(t)
	t.Setenv("PORT", "9090")
	t.Setenv("WORKER_COUNT", "2")
	t.Setenv("LLM_TEMPERATURE", "0.3")

	cfg, err := NewFromEnv()
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.Equal(t, 2, cfg.Worker.WorkerCount)
	assert.Equal(t, 0.3, cfg.LLM.Temperature)
}

func TestNewFromEnv_InvalidPort(t *testing.T) {
	setRequiredKeys(t)
	t.Setenv("PORT", "70000")

	_, err := NewFromEnv()
	require.Error(t, err)
}

func TestNewFromEnv_Options(t *testing.T) {
	setRequiredKeys(t)

	cfg, err := NewFromEnv(func(c *Config) {
		c.Worker.WorkerCount = 1
	})
	require.NoError(t, err)
	assert.Equal(t, 1, cfg.Worker.WorkerCount)
}
