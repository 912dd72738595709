// Package metrics 提供 tutor 服务的 Prometheus 业务指标。
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// 指标结果标签取值。
const (
	ResultOK       = "ok"
	ResultFallback = "fallback"
	ResultError    = "error"
)

// TutorMetrics tutor 服务业务指标。方法对 nil 接收者安全。
type TutorMetrics struct {
	// ClassificationsTotal 按分类结果与来源计数：result=ok|fallback|error。
	ClassificationsTotal *prometheus.CounterVec
	// ChatTurnsTotal 对话轮次计数，按 category 与 result。
	ChatTurnsTotal *prometheus.CounterVec
	// LLMCallDuration 模型调用耗时，按 stage（classify/respond/summarize）。
	LLMCallDuration *prometheus.HistogramVec
	// LLMTokensTotal token 用量，按 stage 与 kind（prompt/completion）。
	LLMTokensTotal *prometheus.CounterVec
	// SummaryCacheTotal 班级总结缓存命中情况：hit|miss。
	SummaryCacheTotal *prometheus.CounterVec
}

// New 在 reg 上注册并返回指标集合。reg 为 nil 时使用默认注册器。
func New(reg prometheus.Registerer) *TutorMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &TutorMetrics{
		ClassificationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tutor_classifications_total",
				Help: "Total number of question classifications",
			},
			[]string{"category", "result"},
		),
		ChatTurnsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tutor_chat_turns_total",
				Help: "Total number of chat turns handled",
			},
			[]string{"category", "result"},
		),
		LLMCallDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "tutor_llm_call_duration_seconds",
				Help:    "Duration of text-generation backend calls in seconds",
				Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
			},
			[]string{"stage"},
		),
		LLMTokensTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tutor_llm_tokens_total",
				Help: "Total number of tokens reported by the text-generation backend",
			},
			[]string{"stage", "kind"},
		),
		SummaryCacheTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tutor_summary_cache_total",
				Help: "Class summary cache lookups",
			},
			[]string{"result"},
		),
	}
}

// RecordClassification 记录一次分类。
func (m *TutorMetrics) RecordClassification(category, result string) {
	if m == nil {
		return
	}
	m.ClassificationsTotal.WithLabelValues(category, result).Inc()
}

// RecordChatTurn 记录一次对话轮次。
func (m *TutorMetrics) RecordChatTurn(category string, err error) {
	if m == nil {
		return
	}
	result := ResultOK
	if err != nil {
		result = ResultError
	}
	m.ChatTurnsTotal.WithLabelValues(category, result).Inc()
}

// ObserveLLMCall 记录模型调用耗时与 token 用量。
func (m *TutorMetrics) ObserveLLMCall(stage string, d time.Duration, promptTokens, completionTokens int) {
	if m == nil {
		return
	}
	m.LLMCallDuration.WithLabelValues(stage).Observe(d.Seconds())
	if promptTokens > 0 {
		m.LLMTokensTotal.WithLabelValues(stage, "prompt").Add(float64(promptTokens))
	}
	if completionTokens > 0 {
		m.LLMTokensTotal.WithLabelValues(stage, "completion").Add(float64(completionTokens))
	}
}

// RecordSummaryCache 记录缓存命中情况。
func (m *TutorMetrics) RecordSummaryCache(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.SummaryCacheTotal.WithLabelValues(result).Inc()
}
