package biz

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/kart-io/logger"
	utilerrors "k8s.io/apimachinery/pkg/util/errors"
	"github.com/samber/lo"

	"github.com/kart-io/tutor-x/internal/model"
	"github.com/kart-io/tutor-x/internal/tutor/metrics"
	"github.com/kart-io/tutor-x/pkg/llm"
	"github.com/kart-io/tutor-x/pkg/utils/errors"
)

// Exchange 一问一答。
type Exchange struct {
	Question string
	Answer   string
}

// ChatContext 一次对话轮次的上下文，轮次结束即丢弃。
type ChatContext struct {
	// Excerpt 文档片段。
	Excerpt string
	// History 之前的问答，按时间正序（最旧在前）。
	History []Exchange
	// StudentName 学生姓名。
	StudentName string
	// CurrentPage 学生当前所在页，可为空。
	CurrentPage *int
}

// SummaryEntry 班级总结的一条输入。
type SummaryEntry struct {
	StudentName string
	Question    string
	Category    model.Category
}

// CoachConfig 回复生成配置。
type CoachConfig struct {
	Temperature        float64           `json:"temperature" mapstructure:"temperature"`
	MaxTokens          int               `json:"max-tokens" mapstructure:"max-tokens"`
	HistoryPairs       int               `json:"history-pairs" mapstructure:"history-pairs"`
	SummaryLimit       int               `json:"summary-limit" mapstructure:"summary-limit"`
	SummaryTemperature float64           `json:"summary-temperature" mapstructure:"summary-temperature"`
	SummaryMaxTokens   int               `json:"summary-max-tokens" mapstructure:"summary-max-tokens"`
	Personas           map[string]string `json:"personas" mapstructure:"personas"`
	Policy             GenerationPolicy  `json:"policy" mapstructure:"policy"`
}

// 历史与总结条数上限。
const (
	MaxHistoryPairs   = 3
	MaxSummaryRecords = 50
)

// DefaultCoachConfig 返回默认配置：温度 0.7，最多 500 token，保留 3 组历史，总结最多 50 条。
func DefaultCoachConfig() *CoachConfig {
	return &CoachConfig{
		Temperature:        0.7,
		MaxTokens:          500,
		HistoryPairs:       3,
		SummaryLimit:       50,
		SummaryTemperature: 0.7,
		SummaryMaxTokens:   1000,
		Policy:             GenerationPropagate,
	}
}

// Validate 校验配置，启动与热加载共用。
func (c *CoachConfig) Validate() error {
	var errs []error
	if err := c.Policy.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("policy: %w", err))
	}
	if c.MaxTokens <= 0 || c.SummaryMaxTokens <= 0 {
		errs = append(errs, fmt.Errorf("max-tokens and summary-max-tokens must be positive"))
	}
	if c.HistoryPairs < 0 || c.HistoryPairs > MaxHistoryPairs {
		errs = append(errs, fmt.Errorf("history-pairs must be between 0 and %d", MaxHistoryPairs))
	}
	if c.SummaryLimit <= 0 || c.SummaryLimit > MaxSummaryRecords {
		errs = append(errs, fmt.Errorf("summary-limit must be between 1 and %d", MaxSummaryRecords))
	}
	for _, t := range []float64{c.Temperature, c.SummaryTemperature} {
		if t < 0 || t > 2 {
			errs = append(errs, fmt.Errorf("temperature %.2f out of range [0, 2]", t))
		}
	}
	return utilerrors.NewAggregate(errs)
}

// Coach 生成辅导回复与班级总结。
type Coach struct {
	chat    llm.ChatProvider
	config  atomic.Pointer[CoachConfig]
	metrics *metrics.TutorMetrics
}

// NewCoach 创建 Coach。config 为 nil 时使用默认配置，m 可为 nil。
func NewCoach(chat llm.ChatProvider, config *CoachConfig, m *metrics.TutorMetrics) *Coach {
	c := &Coach{chat: chat, metrics: m}
	c.SetConfig(config)
	return c
}

// SetConfig 替换配置，用于热加载。
func (c *Coach) SetConfig(config *CoachConfig) {
	if config == nil {
		config = DefaultCoachConfig()
	}
	c.config.Store(config)
}

// BuildMessages 组装消息序列：system 角色提示词，user 前言（学生姓名与片段），
// 最近 HistoryPairs 组历史（最旧在前），最后是当前问题。
func (c *Coach) BuildMessages(question string, category model.Category, cc ChatContext) []llm.Message {
	cfg := c.config.Load()

	history := cc.History
	if len(history) > cfg.HistoryPairs {
		history = lo.Subset(history, -cfg.HistoryPairs, uint(cfg.HistoryPairs))
	}

	messages := make([]llm.Message, 0, 3+2*len(history))
	messages = append(messages,
		llm.SystemMessage(PersonaFor(category, cfg.Personas)),
		llm.UserMessage(preamble(cc)),
	)
	for _, ex := range history {
		messages = append(messages,
			llm.UserMessage(ex.Question),
			llm.AssistantMessage(ex.Answer),
		)
	}
	return append(messages, llm.UserMessage(question))
}

func preamble(cc ChatContext) string {
	var b strings.Builder
	fmt.Fprintf(&b, "학생 이름: %s\n", cc.StudentName)
	if cc.CurrentPage != nil {
		fmt.Fprintf(&b, "현재 페이지: %d\n", *cc.CurrentPage)
	}
	b.WriteString("\n다음은 학생이 공부하고 있는 자료의 일부입니다.\n---\n")
	b.WriteString(cc.Excerpt)
	b.WriteString("\n---\n이 자료를 바탕으로 학생의 질문에 답해 주세요.")
	return b.String()
}

// Respond 生成辅导回复。模型调用失败时返回 ErrTutorResponseGeneration，不生成替代回复。
func (c *Coach) Respond(ctx context.Context, question string, category model.Category, cc ChatContext) (string, error) {
	cfg := c.config.Load()

	start := time.Now()
	resp, err := c.chat.Chat(ctx, c.BuildMessages(question, category, cc),
		llm.WithMaxTokens(cfg.MaxTokens),
		llm.WithTemperature(cfg.Temperature),
	)
	if err != nil {
		c.metrics.ObserveLLMCall("respond", time.Since(start), 0, 0)
		logger.Errorw("tutoring response generation failed",
			"provider", c.chat.Name(),
			"category", string(category),
			"error", err.Error(),
		)
		return "", generationError(ctx, err, errors.ErrTutorResponseGeneration)
	}
	c.metrics.ObserveLLMCall("respond", time.Since(start), resp.TokenUsage.PromptTokens, resp.TokenUsage.CompletionTokens)

	return resp.Content, nil
}

// generationError 请求超时或被取消时返回 ErrRequestTimeout，其余失败包装为 base。
func generationError(ctx context.Context, err error, base *errors.Errno) error {
	if ctx.Err() != nil || stderrors.Is(err, context.DeadlineExceeded) || stderrors.Is(err, context.Canceled) {
		return errors.ErrRequestTimeout.WithCause(err)
	}
	return base.WithCause(err)
}

const summaryPromptTemplate = `다음은 한 학급 학생들이 최근에 한 질문 목록입니다.

%s

교사를 위해 다음 네 가지 항목으로 요약해 주세요.
1. 학생들이 공통적으로 관심을 보인 주제
2. 학생들이 어려워하는 부분
3. 보충 설명이 필요한 개념
4. 교사가 수업에서 취할 수 있는 조치`

// SummarizeClass 把最多 SummaryLimit 条提问整理成要点列表，请求模型生成四点总结。
// entries 为空时返回 ErrTutorNoQuestions 且不调用模型。
func (c *Coach) SummarizeClass(ctx context.Context, entries []SummaryEntry) (string, error) {
	if len(entries) == 0 {
		return "", errors.ErrTutorNoQuestions
	}
	cfg := c.config.Load()

	if len(entries) > cfg.SummaryLimit {
		entries = entries[:cfg.SummaryLimit]
	}
	bullets := lo.Map(entries, func(e SummaryEntry, _ int) string {
		return fmt.Sprintf("- %s: %s (%s)", e.StudentName, e.Question, e.Category)
	})

	start := time.Now()
	resp, err := c.chat.Chat(ctx,
		[]llm.Message{llm.UserMessage(fmt.Sprintf(summaryPromptTemplate, strings.Join(bullets, "\n")))},
		llm.WithMaxTokens(cfg.SummaryMaxTokens),
		llm.WithTemperature(cfg.SummaryTemperature),
	)
	if err != nil {
		c.metrics.ObserveLLMCall("summarize", time.Since(start), 0, 0)
		logger.Errorw("class summary generation failed",
			"provider", c.chat.Name(),
			"entries", len(entries),
			"error", err.Error(),
		)
		return "", generationError(ctx, err, errors.ErrTutorSummaryGeneration)
	}
	c.metrics.ObserveLLMCall("summarize", time.Since(start), resp.TokenUsage.PromptTokens, resp.TokenUsage.CompletionTokens)

	return resp.Content, nil
}
