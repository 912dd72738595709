// Package llm 提供统一的文本生成供应商抽象层。
// 各供应商通过 init 注册工厂，调用方按名称创建实例，业务层只依赖 ChatProvider 接口。
package llm

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// ChatProvider 定义 Chat 供应商接口。
type ChatProvider interface {
	// Chat 进行多轮对话，opts 用于单次调用覆盖采样参数。
	Chat(ctx context.Context, messages []Message, opts ...CallOption) (*ChatResponse, error)

	// Name 返回供应商名称。
	Name() string
}

// Message 表示对话中的一条消息。
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Role 定义消息角色。
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// SystemMessage 构造 system 消息。
func SystemMessage(content string) Message { return Message{Role: RoleSystem, Content: content} }

// UserMessage 构造 user 消息。
func UserMessage(content string) Message { return Message{Role: RoleUser, Content: content} }

// AssistantMessage 构造 assistant 消息。
func AssistantMessage(content string) Message { return Message{Role: RoleAssistant, Content: content} }

// TokenUsage token 用量统计。
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// ChatResponse 单次对话结果。
type ChatResponse struct {
	Content    string     `json:"content"`
	Model      string     `json:"model,omitempty"`
	TokenUsage TokenUsage `json:"token_usage"`
}

// ChatProviderFactory Chat 供应商工厂函数类型。
type ChatProviderFactory func(config map[string]any) (ChatProvider, error)

// registry 供应商注册表。
var registry = &providerRegistry{
	chatProviders: make(map[string]ChatProviderFactory),
}

type providerRegistry struct {
	mu            sync.RWMutex
	chatProviders map[string]ChatProviderFactory
}

// RegisterChatProvider 注册 Chat 供应商工厂，同名覆盖。
func RegisterChatProvider(name string, factory ChatProviderFactory) {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	registry.chatProviders[name] = factory
}

// NewChatProvider 根据名称创建 Chat 供应商实例。
func NewChatProvider(name string, config map[string]any) (ChatProvider, error) {
	registry.mu.RLock()
	factory, ok := registry.chatProviders[name]
	registry.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("unknown chat provider: %s", name)
	}
	return factory(config)
}

// ListProviders 列出所有已注册的供应商名称（已排序）。
func ListProviders() []string {
	registry.mu.RLock()
	defer registry.mu.RUnlock()

	names := make([]string, 0, len(registry.chatProviders))
	for name := range registry.chatProviders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
