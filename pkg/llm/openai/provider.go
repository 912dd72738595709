// Package openai 提供 OpenAI 兼容 Chat Completions 接口的供应商实现。
// 同时适用于 OpenAI 官方、Azure OpenAI、vLLM、LocalAI 等兼容服务。
//
//	import _ "github.com/kart-io/tutor-x/pkg/llm/openai"
//
//	provider, err := llm.NewChatProvider("openai", map[string]any{
//	    "api_key":    "sk-...",
//	    "chat_model": "gpt-4o-mini",
//	})
package openai

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/kart-io/tutor-x/pkg/llm"
	"github.com/kart-io/tutor-x/pkg/utils/httpclient"
)

// ProviderName 是 OpenAI 供应商的名称标识符
const ProviderName = "openai"

func init() {
	llm.RegisterChatProvider(ProviderName, NewProvider)
}

// Config OpenAI 供应商配置。
type Config struct {
	// BaseURL API 基础地址，可设置为兼容服务地址。
	BaseURL string `json:"base_url" mapstructure:"base_url"`

	// APIKey API 密钥。
	APIKey string `json:"api_key" mapstructure:"api_key"`

	// ChatModel 用于对话的模型。
	ChatModel string `json:"chat_model" mapstructure:"chat_model"`

	// Organization 组织 ID（可选）。
	Organization string `json:"organization" mapstructure:"organization"`

	// Timeout 请求超时时间。
	Timeout time.Duration `json:"timeout" mapstructure:"timeout"`

	// MaxRetries 5xx 重试次数，0 表示不重试。
	MaxRetries int `json:"max_retries" mapstructure:"max_retries"`

	// Temperature 默认采样温度，调用方可通过 llm.WithTemperature 覆盖。
	Temperature float64 `json:"temperature" mapstructure:"temperature"`

	// MaxTokens 默认最大生成 token 数，0 表示使用 API 默认值。
	MaxTokens int `json:"max_tokens" mapstructure:"max_tokens"`
}

// DefaultConfig 返回默认配置。
func DefaultConfig() *Config {
	return &Config{
		BaseURL:     "https://api.openai.com/v1",
		ChatModel:   "gpt-4o-mini",
		Timeout:     60 * time.Second,
		MaxRetries:  0,
		Temperature: 0.7,
	}
}

// Provider OpenAI 供应商实现。
type Provider struct {
	config *Config
	client *httpclient.Client
}

var _ llm.ChatProvider = (*Provider)(nil)

// NewProvider 从配置 map 创建 OpenAI 供应商。
func NewProvider(configMap map[string]any) (llm.ChatProvider, error) {
	cfg := DefaultConfig()

	if v, ok := configMap["base_url"].(string); ok && v != "" {
		cfg.BaseURL = v
	}
	if v, ok := configMap["api_key"].(string); ok && v != "" {
		cfg.APIKey = v
	}
	if v, ok := configMap["chat_model"].(string); ok && v != "" {
		cfg.ChatModel = v
	}
	if v, ok := configMap["organization"].(string); ok && v != "" {
		cfg.Organization = v
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

	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai: api_key is required")
	}

	return NewProviderWithConfig(cfg), nil
}

// NewProviderWithConfig 使用结构化配置创建 OpenAI 供应商。
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

// chatRequest OpenAI chat API 请求体。
type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Stream      bool          `json:"stream"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatResponse OpenAI chat API 响应体。
type chatResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Index        int         `json:"index"`
		Message      chatMessage `json:"message"`
		FinishReason string      `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

// Chat 进行多轮对话。
func (p *Provider) Chat(ctx context.Context, messages []llm.Message, opts ...llm.CallOption) (*llm.ChatResponse, error) {
	callOpts := llm.ApplyCallOptions(opts...)

	chatMessages := make([]chatMessage, len(messages))
	for i, msg := range messages {
		chatMessages[i] = chatMessage{Role: string(msg.Role), Content: msg.Content}
	}

	reqBody := chatRequest{
		Model:       p.config.ChatModel,
		Messages:    chatMessages,
		MaxTokens:   callOpts.MaxTokensOr(p.config.MaxTokens),
		Temperature: callOpts.TemperatureOr(p.config.Temperature),
	}

	var chatResp chatResponse
	url := strings.TrimRight(p.config.BaseURL, "/") + "/chat/completions"
	if err := p.client.PostJSON(ctx, url, p.headers(), reqBody, &chatResp); err != nil {
		return nil, fmt.Errorf("openai chat: %w", err)
	}

	if len(chatResp.Choices) == 0 {
		return nil, fmt.Errorf("openai chat: empty choices")
	}

	return &llm.ChatResponse{
		Content: chatResp.Choices[0].Message.Content,
		Model:   chatResp.Model,
		TokenUsage: llm.TokenUsage{
			PromptTokens:     chatResp.Usage.PromptTokens,
			CompletionTokens: chatResp.Usage.CompletionTokens,
			TotalTokens:      chatResp.Usage.TotalTokens,
		},
	}, nil
}

func (p *Provider) headers() map[string]string {
	h := map[string]string{"Authorization": "Bearer " + p.config.APIKey}
	if p.config.Organization != "" {
		h["OpenAI-Organization"] = p.config.Organization
	}
	return h
}
