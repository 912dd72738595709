package biz

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/kart-io/logger"
	utilerrors "k8s.io/apimachinery/pkg/util/errors"

	"github.com/kart-io/tutor-x/internal/model"
	"github.com/kart-io/tutor-x/internal/tutor/metrics"
	"github.com/kart-io/tutor-x/pkg/llm"
	"github.com/kart-io/tutor-x/pkg/utils/errors"
)

const classifyPromptTemplate = `다음 학생의 질문을 아래 다섯 가지 유형 중 하나로 분류하세요.

질문: "%s"

유형:
- KNOWLEDGE: 사실이나 정보를 묻는 질문 (무엇, 언제, 누가, 어디)
- REASONING: 이유나 과정을 묻는 질문 (왜, 어떻게)
- CRITICAL: 판단이나 평가를 요구하는 질문 (옳은가, 어떻게 생각하나요)
- CREATIVE: 상상이나 가정을 담은 질문 (만약 ~라면)
- REFLECTION: 자신의 이해나 생각을 돌아보는 질문 (나는, 내가 이해한 것은)

유형 이름 하나만 영어 대문자로 답하세요.`

// ClassifierConfig 分类器配置。
type ClassifierConfig struct {
	Temperature float64              `json:"temperature" mapstructure:"temperature"`
	MaxTokens   int                  `json:"max-tokens" mapstructure:"max-tokens"`
	Policy      ClassificationPolicy `json:"policy" mapstructure:"policy"`
}

// DefaultClassifierConfig 返回默认配置：温度 0.3，最多 20 个 token，失败回退。
func DefaultClassifierConfig() *ClassifierConfig {
	return &ClassifierConfig{
		Temperature: 0.3,
		MaxTokens:   20,
		Policy:      ClassificationFallback,
	}
}

// Validate 校验配置，启动与热加载共用。
func (c *ClassifierConfig) Validate() error {
	var errs []error
	if err := c.Policy.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("policy: %w", err))
	}
	if c.MaxTokens <= 0 {
		errs = append(errs, fmt.Errorf("max-tokens must be positive"))
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		errs = append(errs, fmt.Errorf("temperature %.2f out of range [0, 2]", c.Temperature))
	}
	return utilerrors.NewAggregate(errs)
}

// Classifier 问题分类器。
type Classifier struct {
	chat    llm.ChatProvider
	config  atomic.Pointer[ClassifierConfig]
	metrics *metrics.TutorMetrics
}

// NewClassifier 创建分类器。config 为 nil 时使用默认配置，m 可为 nil。
func NewClassifier(chat llm.ChatProvider, config *ClassifierConfig, m *metrics.TutorMetrics) *Classifier {
	c := &Classifier{chat: chat, metrics: m}
	c.SetConfig(config)
	return c
}

// SetConfig 替换配置，用于热加载。
func (c *Classifier) SetConfig(config *ClassifierConfig) {
	if config == nil {
		config = DefaultClassifierConfig()
	}
	c.config.Store(config)
}

// Classify 返回问题类别。
//
// 模型回答经大写与去空白后必须与五个类别之一完全一致，否则为 KNOWLEDGE。
// 模型调用失败时，fallback 策略下记录日志并返回 KNOWLEDGE 与 nil 错误；
// propagate 策略下返回 ErrTutorClassification。
func (c *Classifier) Classify(ctx context.Context, question string) (model.Category, error) {
	cfg := c.config.Load()

	start := time.Now()
	resp, err := c.chat.Chat(ctx,
		[]llm.Message{llm.UserMessage(fmt.Sprintf(classifyPromptTemplate, question))},
		llm.WithTemperature(cfg.Temperature),
		llm.WithMaxTokens(cfg.MaxTokens),
	)
	if err != nil {
		c.metrics.ObserveLLMCall("classify", time.Since(start), 0, 0)
		c.metrics.RecordClassification(string(model.CategoryKnowledge), metrics.ResultError)
		if cfg.Policy == ClassificationPropagate {
			return model.CategoryKnowledge, errors.ErrTutorClassification.WithCause(err)
		}
		logger.Errorw("question classification failed, falling back to KNOWLEDGE",
			"provider", c.chat.Name(),
			"error", err.Error(),
		)
		return model.CategoryKnowledge, nil
	}
	c.metrics.ObserveLLMCall("classify", time.Since(start), resp.TokenUsage.PromptTokens, resp.TokenUsage.CompletionTokens)

	category, ok := model.ParseCategory(resp.Content)
	if !ok {
		logger.Warnw("unrecognized question category, falling back to KNOWLEDGE",
			"answer", resp.Content,
		)
		c.metrics.RecordClassification(string(category), metrics.ResultFallback)
		return category, nil
	}

	c.metrics.RecordClassification(string(category), metrics.ResultOK)
	return category, nil
}
