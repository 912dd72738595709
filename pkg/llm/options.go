package llm

// CallOptions 单次调用的采样参数。零值表示使用供应商默认配置。
type CallOptions struct {
	MaxTokens   int
	Temperature *float64
}

// CallOption 修改 CallOptions 的函数。
type CallOption func(*CallOptions)

// WithMaxTokens 限制输出 token 数。
func WithMaxTokens(n int) CallOption {
	return func(o *CallOptions) {
		o.MaxTokens = n
	}
}

// WithTemperature 设置采样温度。
func WithTemperature(t float64) CallOption {
	return func(o *CallOptions) {
		o.Temperature = &t
	}
}

// ApplyCallOptions 按顺序应用 opts，后者覆盖前者。
func ApplyCallOptions(opts ...CallOption) CallOptions {
	var o CallOptions
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}

// TemperatureOr 返回设置的温度，未设置时返回 def。
func (o CallOptions) TemperatureOr(def float64) float64 {
	if o.Temperature != nil {
		return *o.Temperature
	}
	return def
}

// MaxTokensOr 返回设置的 token 上限，未设置时返回 def。
func (o CallOptions) MaxTokensOr(def int) int {
	if o.MaxTokens > 0 {
		return o.MaxTokens
	}
	return def
}
