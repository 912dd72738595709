// Package llm provides chat provider configuration options.
package llm

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"

	"github.com/kart-io/tutor-x/pkg/llm/resilience"
)

// ProviderOptions 定义对话模型供应商配置。
type ProviderOptions struct {
	// Provider 供应商名称（openai, anthropic, ollama）。
	Provider string `json:"provider" mapstructure:"provider"`

	// BaseURL API 基础地址，为空时使用供应商默认地址。
	BaseURL string `json:"base-url" mapstructure:"base-url"`

	// APIKey API 密钥，为空时从 LLM_API_KEY 环境变量读取。
	APIKey string `json:"-" mapstructure:"api-key"`

	// Model 使用的模型名称。
	Model string `json:"model" mapstructure:"model"`

	// Timeout 单次请求超时时间。
	Timeout time.Duration `json:"timeout" mapstructure:"timeout"`

	// Organization 组织 ID（OpenAI 可选）。
	Organization string `json:"organization" mapstructure:"organization"`

	// Resilience 重试与熔断，默认关闭。
	Resilience *resilience.Config `json:"resilience" mapstructure:"resilience"`
}

// NewChatOptions 创建默认对话供应商配置。
func NewChatOptions() *ProviderOptions {
	return &ProviderOptions{
		Provider:   "openai",
		Model:      "gpt-4o-mini",
		Timeout:    60 * time.Second,
		Resilience: resilience.DefaultConfig(),
	}
}

// ToConfigMap 转换为配置 map，用于供应商工厂。
// SDK 自带的重试关闭，重试统一由 resilience 负责。
func (o *ProviderOptions) ToConfigMap() map[string]any {
	return map[string]any{
		"base_url":     o.BaseURL,
		"api_key":      o.APIKey,
		"chat_model":   o.Model,
		"timeout":      o.Timeout,
		"max_retries":  0,
		"organization": o.Organization,
	}
}

// flagPrefix builds the dotted flag prefix for the llm section, e.g.
// flagPrefix("tutor") is "tutor.llm.".
func flagPrefix(prefixes ...string) string {
	parts := append(append([]string{}, prefixes...), "llm")
	return strings.Join(parts, ".") + "."
}

// AddFlags adds flags for chat provider options to the specified FlagSet.
// Flags are named llm.* unless prefixes nest them under another section.
func (o *ProviderOptions) AddFlags(fs *pflag.FlagSet, prefixes ...string) {
	p := flagPrefix(prefixes...)
	fs.StringVar(&o.Provider, p+"provider", o.Provider, "Chat provider (openai, anthropic, ollama).")
	fs.StringVar(&o.BaseURL, p+"base-url", o.BaseURL, "Chat provider API base URL.")
	fs.StringVar(&o.APIKey, p+"api-key", o.APIKey, "Chat provider API key (prefer LLM_API_KEY env var).")
	fs.StringVar(&o.Model, p+"model", o.Model, "Chat model name.")
	fs.DurationVar(&o.Timeout, p+"timeout", o.Timeout, "Chat request timeout.")
	fs.StringVar(&o.Organization, p+"organization", o.Organization, "Organization ID (optional).")

	if o.Resilience == nil {
		o.Resilience = resilience.DefaultConfig()
	}
	r := o.Resilience
	fs.BoolVar(&r.Enabled, p+"resilience.enabled", r.Enabled, "Retry transient chat failures and open a circuit breaker.")
	fs.UintVar(&r.MaxAttempts, p+"resilience.max-attempts", r.MaxAttempts, "Max attempts including the first call.")
	fs.DurationVar(&r.InitialDelay, p+"resilience.initial-delay", r.InitialDelay, "Delay before the first retry.")
	fs.DurationVar(&r.MaxDelay, p+"resilience.max-delay", r.MaxDelay, "Upper bound of a single retry delay.")
	fs.IntVar(&r.BreakerMaxFailures, p+"resilience.breaker-max-failures", r.BreakerMaxFailures, "Consecutive failures that open the breaker.")
	fs.DurationVar(&r.BreakerTimeout, p+"resilience.breaker-timeout", r.BreakerTimeout, "Open breaker duration before a probe call.")
}

// Validate validates the chat provider options.
func (o *ProviderOptions) Validate() []error {
	if o == nil {
		return nil
	}

	var errs []error
	if o.Provider == "" {
		errs = append(errs, fmt.Errorf("llm.provider is required"))
	}
	if o.Model == "" {
		errs = append(errs, fmt.Errorf("llm.model is required"))
	}
	if (o.Provider == "openai" || o.Provider == "anthropic") && o.APIKey == "" {
		errs = append(errs, fmt.Errorf("llm.api-key is required for %s provider", o.Provider))
	}
	if o.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("llm.timeout must be positive"))
	}
	if r := o.Resilience; r != nil && r.Enabled {
		if r.MaxAttempts == 0 {
			errs = append(errs, fmt.Errorf("llm.resilience.max-attempts must be at least 1"))
		}
		if r.BreakerMaxFailures <= 0 {
			errs = append(errs, fmt.Errorf("llm.resilience.breaker-max-failures must be positive"))
		}
	}
	return errs
}

// Complete fills the API key from LLM_API_KEY when it was not given.
func (o *ProviderOptions) Complete() error {
	if o.APIKey == "" {
		o.APIKey = os.Getenv("LLM_API_KEY")
	}
	if o.Resilience == nil {
		o.Resilience = resilience.DefaultConfig()
	}
	return nil
}
