package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kart-io/tutor-x/pkg/llm"
)

func TestNewProvider(t *testing.T) {
	provider, err := NewProvider(map[string]any{
		"base_url":   "http://ollama:11434",
		"chat_model": "qwen2.5:7b",
	})
	require.NoError(t, err)
	assert.Equal(t, ProviderName, provider.Name())

	p := provider.(*Provider)
	assert.Equal(t, "http://ollama:11434", p.config.BaseURL)
	assert.Equal(t, "qwen2.5:7b", p.config.ChatModel)
	assert.Equal(t, 0, p.config.MaxRetries)
}

func TestProviderChat(t *testing.T) {
	var got chatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		_, _ = w.Write([]byte(`{
			"model": "llama3.1:8b",
			"message": {"role": "assistant", "content": "REASONING"},
			"done": true,
			"prompt_eval_count": 30,
			"eval_count": 2
		}`))
	}))
	defer server.Close()

	cfg := DefaultConfig()
	cfg.BaseURL = server.URL + "/"
	provider := NewProviderWithConfig(cfg)

	resp, err := provider.Chat(context.Background(),
		[]llm.Message{llm.UserMessage("분류해 주세요")},
		llm.WithTemperature(0.3), llm.WithMaxTokens(20))
	require.NoError(t, err)

	assert.Equal(t, "REASONING", resp.Content)
	assert.Equal(t, 32, resp.TokenUsage.TotalTokens)
	assert.False(t, got.Stream)
	assert.InDelta(t, 0.3, got.Options.Temperature, 1e-9)
	assert.Equal(t, 20, got.Options.NumPredict)
}

func TestProviderChat_Error(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer server.Close()

	cfg := DefaultConfig()
	cfg.BaseURL = server.URL
	provider := NewProviderWithConfig(cfg)

	_, err := provider.Chat(context.Background(), []llm.Message{llm.UserMessage("hi")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ollama chat")
}
