// Package middleware provides the gin middleware chain shared by HTTP services:
// request ids, access logging, panic recovery, request deadlines, tracing,
// HTTP metrics and keyed token-bucket rate limiting.
package middleware

import (
	"fmt"
	"time"

	"github.com/spf13/pflag"
	utilerrors "k8s.io/apimachinery/pkg/util/errors"
)

// Options 中间件配置，均可序列化，运行时依赖通过函数参数注入。
type Options struct {
	// RequestIDHeader 请求 ID 头。
	RequestIDHeader string `json:"request-id-header" mapstructure:"request-id-header"`
	// Timeout 单个请求的处理期限，0 表示不设置。
	Timeout time.Duration `json:"timeout" mapstructure:"timeout"`
	// SkipLogPaths 不记录访问日志的路径。
	SkipLogPaths []string `json:"skip-log-paths" mapstructure:"skip-log-paths"`
	// EnableStackTrace panic 时是否把堆栈返回给客户端（生产环境强制关闭）。
	EnableStackTrace bool `json:"enable-stack-trace" mapstructure:"enable-stack-trace"`
	// RateLimit 令牌桶限流配置。
	RateLimit *RateLimitOptions `json:"rate-limit" mapstructure:"rate-limit"`
}

// RateLimitOptions 令牌桶限流配置。
type RateLimitOptions struct {
	Enabled bool    `json:"enabled" mapstructure:"enabled"`
	RPS     float64 `json:"rps" mapstructure:"rps"`
	Burst   int     `json:"burst" mapstructure:"burst"`
	// IdleTTL 空闲多久后回收该 key 的限流器。
	IdleTTL time.Duration `json:"idle-ttl" mapstructure:"idle-ttl"`
}

// NewOptions 返回默认配置。
func NewOptions() *Options {
	return &Options{
		RequestIDHeader: HeaderXRequestID,
		Timeout:         60 * time.Second,
		SkipLogPaths:    []string{"/health", "/ready", "/metrics"},
		RateLimit: &RateLimitOptions{
			Enabled: false,
			RPS:     1,
			Burst:   10,
			IdleTTL: 10 * time.Minute,
		},
	}
}

// AddFlags 注册命令行参数。
func (o *Options) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.RequestIDHeader, "middleware.request-id-header", o.RequestIDHeader, "Header carrying the request id")
	fs.DurationVar(&o.Timeout, "middleware.timeout", o.Timeout, "Per-request processing deadline (0 disables)")
	fs.StringSliceVar(&o.SkipLogPaths, "middleware.skip-log-paths", o.SkipLogPaths, "Paths excluded from the access log")
	fs.BoolVar(&o.EnableStackTrace, "middleware.enable-stack-trace", o.EnableStackTrace, "Return panic stack traces to clients outside production")
	fs.BoolVar(&o.RateLimit.Enabled, "middleware.rate-limit.enabled", o.RateLimit.Enabled, "Enable per-student rate limiting")
	fs.Float64Var(&o.RateLimit.RPS, "middleware.rate-limit.rps", o.RateLimit.RPS, "Sustained requests per second per key")
	fs.IntVar(&o.RateLimit.Burst, "middleware.rate-limit.burst", o.RateLimit.Burst, "Burst size per key")
}

// Validate 校验配置。
func (o *Options) Validate() error {
	var errs []error
	if o.RequestIDHeader == "" {
		errs = append(errs, fmt.Errorf("middleware.request-id-header must not be empty"))
	}
	if o.Timeout < 0 {
		errs = append(errs, fmt.Errorf("middleware.timeout must not be negative"))
	}
	if rl := o.RateLimit; rl != nil && rl.Enabled {
		if rl.RPS <= 0 {
			errs = append(errs, fmt.Errorf("middleware.rate-limit.rps must be positive"))
		}
		if rl.Burst <= 0 {
			errs = append(errs, fmt.Errorf("middleware.rate-limit.burst must be positive"))
		}
	}
	return utilerrors.NewAggregate(errs)
}

// Complete 补全缺省值。
func (o *Options) Complete() error {
	if o.RequestIDHeader == "" {
		o.RequestIDHeader = HeaderXRequestID
	}
	if o.RateLimit == nil {
		o.RateLimit = NewOptions().RateLimit
	}
	if o.RateLimit.IdleTTL <= 0 {
		o.RateLimit.IdleTTL = 10 * time.Minute
	}
	return nil
}
