package llm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockProvider 模拟供应商实现，用于测试。
type mockProvider struct {
	name string
	last CallOptions
}

func (m *mockProvider) Name() string {
	return m.name
}

func (m *mockProvider) Chat(_ context.Context, msgs []Message, opts ...CallOption) (*ChatResponse, error) {
	m.last = ApplyCallOptions(opts...)
	return &ChatResponse{Content: msgs[len(msgs)-1].Content}, nil
}

func TestRegisterAndNewChatProvider(t *testing.T) {
	RegisterChatProvider("test-provider", func(config map[string]any) (ChatProvider, error) {
		name := "test-provider"
		if n, ok := config["name"].(string); ok {
			name = n
		}
		return &mockProvider{name: name}, nil
	})

	provider, err := NewChatProvider("test-provider", map[string]any{"name": "custom-name"})
	require.NoError(t, err)
	assert.Equal(t, "custom-name", provider.Name())
	assert.Contains(t, ListProviders(), "test-provider")
}

func TestNewChatProviderUnknown(t *testing.T) {
	_, err := NewChatProvider("unknown-provider", nil)
	assert.Error(t, err)
}

func TestCallOptions(t *testing.T) {
	m := &mockProvider{name: "m"}
	resp, err := m.Chat(context.Background(), []Message{UserMessage("안녕")}, WithTemperature(0.3), WithMaxTokens(20))
	require.NoError(t, err)
	assert.Equal(t, "안녕", resp.Content)
	assert.Equal(t, 20, m.last.MaxTokens)
	assert.InDelta(t, 0.3, m.last.TemperatureOr(1), 1e-9)

	empty := ApplyCallOptions()
	assert.Equal(t, 0.7, empty.TemperatureOr(0.7))
	assert.Equal(t, 500, empty.MaxTokensOr(500))
}

func TestCallOptions_ZeroTemperatureIsExplicit(t *testing.T) {
	o := ApplyCallOptions(WithTemperature(0))
	assert.Equal(t, 0.0, o.TemperatureOr(0.7))
}

func TestMessageHelpers(t *testing.T) {
	assert.Equal(t, RoleSystem, SystemMessage("s").Role)
	assert.Equal(t, RoleUser, UserMessage("u").Role)
	assert.Equal(t, RoleAssistant, AssistantMessage("a").Role)
}
