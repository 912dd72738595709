// Package resilience 为 ChatProvider 提供重试与熔断包装。
//
// 默认不启用：上游调用失败直接返回给调用方。通过 Config.Enabled 打开后，
// 可重试错误按指数退避重试，连续失败达到阈值时熔断。
package resilience

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/kart-io/logger"

	"github.com/kart-io/tutor-x/pkg/llm"
)

// Config 重试与熔断配置。
type Config struct {
	// Enabled 为 false 时 Wrap 原样返回 provider。
	Enabled bool `json:"enabled" mapstructure:"enabled"`

	// MaxAttempts 最大尝试次数（包括首次调用）。
	MaxAttempts uint `json:"max-attempts" mapstructure:"max-attempts"`
	// InitialDelay 首次重试前的等待时间。
	InitialDelay time.Duration `json:"initial-delay" mapstructure:"initial-delay"`
	// MaxDelay 单次等待上限。
	MaxDelay time.Duration `json:"max-delay" mapstructure:"max-delay"`
	// Multiplier 指数退避倍数。
	Multiplier float64 `json:"multiplier" mapstructure:"multiplier"`

	// BreakerMaxFailures 触发熔断的连续失败次数。
	BreakerMaxFailures int `json:"breaker-max-failures" mapstructure:"breaker-max-failures"`
	// BreakerTimeout 熔断打开后进入半开状态前的等待时间。
	BreakerTimeout time.Duration `json:"breaker-timeout" mapstructure:"breaker-timeout"`

	// Retryable 判断错误是否可重试，为空时使用 IsRetryableError。
	Retryable func(error) bool `json:"-" mapstructure:"-"`
}

// DefaultConfig 返回默认配置，Enabled 为 false。
func DefaultConfig() *Config {
	return &Config{
		Enabled:            false,
		MaxAttempts:        3,
		InitialDelay:       500 * time.Millisecond,
		MaxDelay:           10 * time.Second,
		Multiplier:         2.0,
		BreakerMaxFailures: 5,
		BreakerTimeout:     60 * time.Second,
	}
}

func (c *Config) retryable() func(error) bool {
	if c.Retryable != nil {
		return c.Retryable
	}
	return IsRetryableError
}

func (c *Config) newBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.InitialDelay
	b.MaxInterval = c.MaxDelay
	b.Multiplier = c.Multiplier
	return b
}

// Retry 按 cfg 重试 fn。不可重试的错误立即返回。
func Retry[T any](ctx context.Context, cfg *Config, fn func() (T, error)) (T, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	retryable := cfg.retryable()

	attempt := 0
	return backoff.Retry(ctx, func() (T, error) {
		attempt++
		res, err := fn()
		if err != nil && !retryable(err) {
			return res, backoff.Permanent(err)
		}
		return res, err
	},
		backoff.WithBackOff(cfg.newBackOff()),
		backoff.WithMaxTries(max(cfg.MaxAttempts, 1)),
		backoff.WithNotify(func(err error, delay time.Duration) {
			logger.Debugw("retrying llm call",
				"attempt", attempt,
				"delay", delay,
				"error", err.Error(),
			)
		}),
	)
}

// Provider 带重试和熔断的 ChatProvider。
type Provider struct {
	provider llm.ChatProvider
	config   *Config
	breaker  *CircuitBreaker
}

var _ llm.ChatProvider = (*Provider)(nil)

// Wrap 按配置包装 provider。cfg 为空或未启用时返回原 provider。
func Wrap(provider llm.ChatProvider, cfg *Config) llm.ChatProvider {
	if cfg == nil || !cfg.Enabled {
		return provider
	}
	return &Provider{
		provider: provider,
		config:   cfg,
		breaker:  NewCircuitBreaker(cfg.BreakerMaxFailures, cfg.BreakerTimeout),
	}
}

// Chat 经熔断器调用底层 provider，失败时按配置重试。
func (p *Provider) Chat(ctx context.Context, messages []llm.Message, opts ...llm.CallOption) (*llm.ChatResponse, error) {
	return Retry(ctx, p.config, func() (*llm.ChatResponse, error) {
		var resp *llm.ChatResponse
		err := p.breaker.Execute(func() error {
			var callErr error
			resp, callErr = p.provider.Chat(ctx, messages, opts...)
			return callErr
		})
		return resp, err
	})
}

// Name 返回供应商名称。
func (p *Provider) Name() string {
	return p.provider.Name() + "-resilient"
}

// CircuitBreaker 返回熔断器实例，用于监控。
func (p *Provider) CircuitBreaker() *CircuitBreaker {
	return p.breaker
}

// ErrCircuitBreakerOpen 熔断器打开时返回。
var ErrCircuitBreakerOpen = errors.New("circuit breaker is open")

// IsRetryableError 判断错误是否可重试。
func IsRetryableError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrCircuitBreakerOpen) {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if status, ok := statusCode(err); ok {
		return status == 408 || status == 429 || status >= 500
	}
	// 非 HTTP 状态错误多为连接层故障
	return true
}

type statusCoder interface {
	error
	HTTPStatusCode() int
}

func statusCode(err error) (int, bool) {
	var sc statusCoder
	if errors.As(err, &sc) {
		return sc.HTTPStatusCode(), true
	}
	return 0, false
}

// Stats 韧性统计信息。
type Stats struct {
	State    string
	Failures int
}

// GetStats 返回包装后 provider 的熔断统计，未包装时返回 nil。
func GetStats(provider llm.ChatProvider) *Stats {
	rp, ok := provider.(*Provider)
	if !ok {
		return nil
	}
	state, failures := rp.breaker.snapshot()
	return &Stats{State: state.String(), Failures: failures}
}

func (s *Stats) String() string {
	return fmt.Sprintf("state=%s failures=%d", s.State, s.Failures)
}
