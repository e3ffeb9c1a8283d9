package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(url string) *Config {
	return &Config{
		APIKey:      "test-key",
		APIURL:      url,
		Model:       "gemini-2.5-pro",
		MaxTokens:   1000,
		Temperature: 0.7,
		Timeout:     5,
	}
}

func TestNewClient_ValidatesConfig(t *testing.T) {
	cfg := testConfig("https://example.com")
	cfg.APIKey = ""
	_, err := NewClient(cfg)
	require.Error(t, err)

	cfg = testConfig("https://example.com")
	cfg.Temperature = 3
	_, err = NewClient(cfg)
	require.Error(t, err)
}

func TestSimpleChat_SendsPromptAndParsesResponse(t *testing.T) {
	var gotRequest ChatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chat/completions", r.URL.Path)
		require.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotRequest))

		_ = json.NewEncoder(w).Encode(ChatResponse{
			Choices: []Choice{
				{Message: Message{Role: "assistant", Content: "generated text"}},
			},
		})
	}))
	defer server.Close()

	client, err := NewClient(testConfig(server.URL))
	require.NoError(t, err)

	got, err := client.SimpleChat(context.Background(), "describe this video", "")
	require.NoError(t, err)
	assert.Equal(t, "generated text", got)

	require.Len(t, gotRequest.Messages, 1)
	assert.Equal(t, "user", gotRequest.Messages[0].Role)
	assert.Equal(t, "describe this video", gotRequest.Messages[0].Content)
	assert.Equal(t, "gemini-2.5-pro", gotRequest.Model)
}

func TestSimpleChat_SystemPromptComesFirst(t *testing.T) {
	var gotRequest ChatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotRequest))
		_ = json.NewEncoder(w).Encode(ChatResponse{
			Choices: []Choice{{Message: Message{Content: "ok"}}},
		})
	}))
	defer server.Close()

	client, err := NewClient(testConfig(server.URL))
	require.NoError(t, err)

	_, err = client.SimpleChat(context.Background(), "hello", "you are terse")
	require.NoError(t, err)

	require.Len(t, gotRequest.Messages, 2)
	assert.Equal(t, "system", gotRequest.Messages[0].Role)
	assert.Equal(t, "user", gotRequest.Messages[1].Role)
}

func TestSimpleChat_APIErrorPropagatesVerbatim(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_ = json.NewEncoder(w).Encode(ChatResponse{
			Error: &Error{Message: "quota exceeded", Type: "insufficient_quota"},
		})
	}))
	defer server.Close()

	client, err := NewClient(testConfig(server.URL))
	require.NoError(t, err)

	_, err = client.SimpleChat(context.Background(), "hello", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota exceeded")
}

func TestSimpleChat_NonJSONErrorBodyKeepsStatusCode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("<html>upstream proxy error</html>"))
	}))
	defer server.Close()

	client, err := NewClient(testConfig(server.URL))
	require.NoError(t, err)

	_, err = client.SimpleChat(context.Background(), "hello", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
	assert.Contains(t, err.Error(), "upstream proxy error")
}

func TestSimpleChat_NoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(ChatResponse{})
	}))
	defer server.Close()

	client, err := NewClient(testConfig(server.URL))
	require.NoError(t, err)

	_, err = client.SimpleChat(context.Background(), "hello", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no choices")
}
