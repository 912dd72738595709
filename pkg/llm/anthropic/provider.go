// Package anthropic 基于官方 anthropic-sdk-go 提供 Claude 对话能力。
package anthropic

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/kart-io/tutor-x/pkg/llm"
)

// ProviderName 是 Anthropic 供应商的名称标识符
const ProviderName = "anthropic"

func init() {
	llm.RegisterChatProvider(ProviderName, NewProvider)
}

// Config Anthropic 供应商配置。
type Config struct {
	BaseURL     string        `json:"base_url" mapstructure:"base_url"`
	APIKey      string        `json:"api_key" mapstructure:"api_key"`
	ChatModel   string        `json:"chat_model" mapstructure:"chat_model"`
	Timeout     time.Duration `json:"timeout" mapstructure:"timeout"`
	MaxRetries  int           `json:"max_retries" mapstructure:"max_retries"`
	Temperature float64       `json:"temperature" mapstructure:"temperature"`

	// MaxTokens Messages API 必填，未指定时使用 1024。
	MaxTokens int `json:"max_tokens" mapstructure:"max_tokens"`
}

// DefaultConfig 返回默认配置。
func DefaultConfig() *Config {
	return &Config{
		ChatModel:   string(anthropic.ModelClaude4Sonnet20250514),
		Timeout:     60 * time.Second,
		MaxRetries:  0,
		Temperature: 0.7,
		MaxTokens:   1024,
	}
}

// Provider Anthropic 供应商实现。
type Provider struct {
	config *Config
	client *anthropic.Client
}

var _ llm.ChatProvider = (*Provider)(nil)

// NewProvider 从配置 map 创建 Anthropic 供应商。
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
	if v, ok := configMap["timeout"].(time.Duration); ok && v > 0 {
		cfg.Timeout = v
	}
	if v, ok := configMap["max_retries"].(int); ok && v >= 0 {
		cfg.MaxRetries = v
	}
	if v, ok := configMap["temperature"].(float64); ok {
		cfg.Temperature = v
	}
	if v, ok := configMap["max_tokens"].(int); ok && v > 0 {
		cfg.MaxTokens = v
	}

	if cfg.APIKey == "" {
		return nil, fmt.Errorf("anthropic: api_key is required")
	}

	return NewProviderWithConfig(cfg), nil
}

// NewProviderWithConfig 使用结构化配置创建 Anthropic 供应商。
func NewProviderWithConfig(cfg *Config) *Provider {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(cfg.MaxRetries),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(cfg.Timeout))
	}

	client := anthropic.NewClient(opts...)
	return &Provider{config: cfg, client: &client}
}

// Name 返回供应商名称。
func (p *Provider) Name() string {
	return ProviderName
}

// Chat 进行多轮对话。system 消息合并为请求级 System 字段，其余按原顺序发送。
func (p *Provider) Chat(ctx context.Context, messages []llm.Message, opts ...llm.CallOption) (*llm.ChatResponse, error) {
	callOpts := llm.ApplyCallOptions(opts...)

	system, conversation := splitSystem(messages)
	if len(conversation) == 0 {
		return nil, fmt.Errorf("anthropic chat: no user messages")
	}

	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(p.config.ChatModel),
		MaxTokens:   int64(callOpts.MaxTokensOr(p.config.MaxTokens)),
		Messages:    conversation,
		Temperature: anthropic.Float(callOpts.TemperatureOr(p.config.Temperature)),
	}
	if system != "" {
		params.System = []anthropic.TextBlockParam{{Text: system}}
	}

	resp, err := p.client.Messages.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("anthropic chat: %w", err)
	}

	var content strings.Builder
	for _, block := range resp.Content {
		if text, ok := block.AsAny().(anthropic.TextBlock); ok {
			content.WriteString(text.Text)
		}
	}

	return &llm.ChatResponse{
		Content: content.String(),
		Model:   string(resp.Model),
		TokenUsage: llm.TokenUsage{
			PromptTokens:     int(resp.Usage.InputTokens),
			CompletionTokens: int(resp.Usage.OutputTokens),
			TotalTokens:      int(resp.Usage.InputTokens + resp.Usage.OutputTokens),
		},
	}, nil
}

func splitSystem(messages []llm.Message) (string, []anthropic.MessageParam) {
	var system []string
	conversation := make([]anthropic.MessageParam, 0, len(messages))
	for _, msg := range messages {
		switch msg.Role {
		case llm.RoleSystem:
			system = append(system, msg.Content)
		case llm.RoleAssistant:
			conversation = append(conversation, anthropic.NewAssistantMessage(anthropic.NewTextBlock(msg.Content)))
		default:
			conversation = append(conversation, anthropic.NewUserMessage(anthropic.NewTextBlock(msg.Content)))
		}
	}
	return strings.Join(system, "\n\n"), conversation
}
