// Package ollama 提供 Ollama LLM 供应商实现。
package ollama

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/kart-io/tutor-x/pkg/llm"
	"github.com/kart-io/tutor-x/pkg/utils/httpclient"
)

const ProviderName = "ollama"

func init() {
	llm.RegisterChatProvider(ProviderName, NewProvider)
}

// Config Ollama 供应商配置。
type Config struct {
	BaseURL     string        `json:"base_url" mapstructure:"base_url"`
	ChatModel   string        `json:"chat_model" mapstructure:"chat_model"`
	Timeout     time.Duration `json:"timeout" mapstructure:"timeout"`
	MaxRetries  int           `json:"max_retries" mapstructure:"max_retries"`
	Temperature float64       `json:"temperature" mapstructure:"temperature"`
	MaxTokens   int           `json:"max_tokens" mapstructure:"max_tokens"`
}

// DefaultConfig 返回默认配置。
func DefaultConfig() *Config {
	return &Config{
		BaseURL:     "http://localhost:11434",
		ChatModel:   "llama3.1:8b",
		Timeout:     120 * time.Second,
		MaxRetries:  0,
		Temperature: 0.7,
	}
}

// Provider Ollama 供应商实现。
type Provider struct {
	config *Config
	client *httpclient.Client
}

var _ llm.ChatProvider = (*Provider)(nil)

// NewProvider 从配置 map 创建 Ollama 供应商。
func NewProvider(configMap map[string]any) (llm.ChatProvider, error) {
	cfg := DefaultConfig()

	if v, ok := configMap["base_url"].(string); ok && v != "" {
		cfg.BaseURL = v
	}
	if v, ok := configMap["chat_model"].(string); ok && v != "" {
		cfg.ChatModel = v
	}
	if v, ok := configMap["timeout"].(time.Duration); ok && v > 0 {
		cfg.Timeout = v
	}
	if v, ok := configMap["max_retries"].(int); ok && v >= 0 {
		cfg.MaxRetries = v
	}
	if v, ok := configMap["temperature"].(float64); ok {
		cfg.Temperature = v
	}
	if v, ok := configMap["max_tokens"].(int); ok {
		cfg.MaxTokens = v
	}

	return NewProviderWithConfig(cfg), nil
}

// NewProviderWithConfig 使用结构化配置创建 Ollama 供应商。
func NewProviderWithConfig(cfg *Config) *Provider {
	return &Provider{
		config: cfg,
		client: httpclient.NewClient(cfg.Timeout, cfg.MaxRetries),
	}
}

// Name 返回供应商名称。
func (p *Provider) Name() string {
	return ProviderName
}

// chatRequest Ollama chat API 请求体。
type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
	Options  chatOptions   `json:"options"`
}

type chatOptions struct {
	Temperature float64 `json:"temperature"`
	NumPredict  int     `json:"num_predict,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatResponse Ollama chat API 响应体。
type chatResponse struct {
	Model           string      `json:"model"`
	Message         chatMessage `json:"message"`
	Done            bool        `json:"done"`
	PromptEvalCount int         `json:"prompt_eval_count"`
	EvalCount       int         `json:"eval_count"`
}

// Chat 进行多轮对话。
func (p *Provider) Chat(ctx context.Context, messages []llm.Message, opts ...llm.CallOption) (*llm.ChatResponse, error) {
	callOpts := llm.ApplyCallOptions(opts...)

	chatMessages := make([]chatMessage, len(messages))
	for i, msg := range messages {
		chatMessages[i] = chatMessage{Role: string(msg.Role), Content: msg.Content}
	}

	reqBody := chatRequest{
		Model:    p.config.ChatModel,
		Messages: chatMessages,
		Stream:   false,
		Options: chatOptions{
			Temperature: callOpts.TemperatureOr(p.config.Temperature),
			NumPredict:  callOpts.MaxTokensOr(p.config.MaxTokens),
		},
	}

	var chatResp chatResponse
	url := strings.TrimRight(p.config.BaseURL, "/") + "/api/chat"
	if err := p.client.PostJSON(ctx, url, nil, reqBody, &chatResp); err != nil {
		return nil, fmt.Errorf("ollama chat: %w", err)
	}

	return &llm.ChatResponse{
		Content: chatResp.Message.Content,
		Model:   chatResp.Model,
		TokenUsage: llm.TokenUsage{
			PromptTokens:     chatResp.PromptEvalCount,
			CompletionTokens: chatResp.EvalCount,
			TotalTokens:      chatResp.PromptEvalCount + chatResp.EvalCount,
		},
	}, nil
}
