package tutor

import (
	"context"
	"testing"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kart-io/tutor-x/internal/model"
	"github.com/kart-io/tutor-x/internal/tutor/biz"
	"github.com/kart-io/tutor-x/pkg/infra/config"
	"github.com/kart-io/tutor-x/pkg/llm"
)

func TestOptions_DefaultsNeedAPIKey(t *testing.T) {
	t.Setenv("LLM_API_KEY", "")
	opts := NewOptions()
	require.NoError(t, opts.Complete())

	err := opts.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "llm.api-key")
}

func TestOptions_ValidWithEnvKey(t *testing.T) {
	t.Setenv("LLM_API_KEY", "sk-test")
	opts := NewOptions()
	require.NoError(t, opts.Complete())
	assert.NoError(t, opts.Validate())

	assert.Equal(t, 0.3, opts.Tutor.Classifier.Temperature)
	assert.Equal(t, 0.7, opts.Tutor.Coach.Temperature)
	assert.Equal(t, 500, opts.Tutor.Coach.MaxTokens)
	assert.Equal(t, 3, opts.Tutor.Coach.HistoryPairs)
	assert.Equal(t, 50, opts.Tutor.Coach.SummaryLimit)
	assert.False(t, opts.LLM.Resilience.Enabled)
}

func TestOptions_ValidateAggregates(t *testing.T) {
	opts := NewOptions()
	opts.LLM.APIKey = "k"
	opts.Tutor.Classifier.Policy = "retry"
	opts.Tutor.Coach.MaxTokens = 0
	opts.HTTP.Mode = "prod"

	err := opts.Validate()
	require.Error(t, err)
	for _, want := range []string{"tutor.classifier", "policy", "max-tokens", "http.mode"} {
		assert.Contains(t, err.Error(), want)
	}
}

func TestOptions_HistoryAndSummaryBounds(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Options)
		wantErr string
	}{
		{"历史上限", func(o *Options) { o.Tutor.Coach.HistoryPairs = biz.MaxHistoryPairs }, ""},
		{"历史超限", func(o *Options) { o.Tutor.Coach.HistoryPairs = biz.MaxHistoryPairs + 1 }, "history-pairs"},
		{"总结上限", func(o *Options) { o.Tutor.Coach.SummaryLimit = biz.MaxSummaryRecords }, ""},
		{"总结超限", func(o *Options) { o.Tutor.Coach.SummaryLimit = biz.MaxSummaryRecords + 1 }, "summary-limit"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := NewOptions()
			opts.LLM.APIKey = "k"
			tt.mutate(opts)
			err := opts.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestOptions_SummaryCacheNeedsRedis(t *testing.T) {
	opts := NewOptions()
	opts.LLM.APIKey = "k"
	opts.Tutor.SummaryCache.Enabled = true

	err := opts.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "requires redis.enabled")

	opts.Redis.Enabled = true
	assert.NoError(t, opts.Validate())
}

func TestOptions_Flags(t *testing.T) {
	opts := NewOptions()
	fs := pflag.NewFlagSet("tutor", pflag.ContinueOnError)
	opts.AddFlags(fs)

	require.NoError(t, fs.Parse([]string{
		"--tutor.coach.temperature=0.5",
		"--tutor.coach.history-pairs=2",
		"--database.driver=sqlite",
		"--llm.provider=ollama",
		"--http.addr=:9090",
	}))
	assert.Equal(t, 0.5, opts.Tutor.Coach.Temperature)
	assert.Equal(t, 2, opts.Tutor.Coach.HistoryPairs)
	assert.Equal(t, "sqlite", opts.Database.Driver)
	assert.Equal(t, "ollama", opts.LLM.Provider)
	assert.Equal(t, ":9090", opts.HTTP.Addr)
}

func TestTutorOptions_CompleteFillsNilSections(t *testing.T) {
	o := &TutorOptions{}
	require.NoError(t, o.Complete())
	assert.NotNil(t, o.Classifier)
	assert.NotNil(t, o.Coach)
	assert.NotNil(t, o.Excerpt)
	assert.NotNil(t, o.SummaryCache)
	assert.Equal(t, "tutor", o.MetricsNamespace)
	assert.NoError(t, o.Validate())
}

// capturingChat 记录最近一次调用的采样参数。
type capturingChat struct {
	last llm.CallOptions
}

func (c *capturingChat) Chat(_ context.Context, _ []llm.Message, opts ...llm.CallOption) (*llm.ChatResponse, error) {
	c.last = llm.ApplyCallOptions(opts...)
	return &llm.ChatResponse{Content: "KNOWLEDGE"}, nil
}

func (c *capturingChat) Name() string { return "capture" }

func TestSubscribeTutorConfig(t *testing.T) {
	chat := &capturingChat{}
	classifier := biz.NewClassifier(chat, nil, nil)
	coach := biz.NewCoach(chat, nil, nil)

	v := viper.New()
	w := config.NewWatcher(v)
	subscribeTutorConfig(w, classifier, coach)
	require.Equal(t, 2, w.HandlerCount())

	v.Set("tutor.coach.max-tokens", 300)
	v.Set("tutor.coach.temperature", 0.2)
	v.Set("tutor.classifier.max-tokens", 5)
	assert.Equal(t, 0, w.Notify())

	_, err := coach.Respond(context.Background(), "q", model.CategoryKnowledge, biz.ChatContext{})
	require.NoError(t, err)
	assert.Equal(t, 300, chat.last.MaxTokens)
	assert.Equal(t, 0.2, chat.last.TemperatureOr(-1))

	_, err = classifier.Classify(context.Background(), "q")
	require.NoError(t, err)
	assert.Equal(t, 5, chat.last.MaxTokens)
	assert.Equal(t, 0.3, chat.last.TemperatureOr(-1), "unset keys keep defaults")

	// 非法配置被拒绝，旧配置保持不变
	v.Set("tutor.coach.policy", "fallback")
	assert.Equal(t, 1, w.Notify())
	v.Set("tutor.coach.policy", "propagate")
	v.Set("tutor.coach.history-pairs", biz.MaxHistoryPairs+2)
	v.Set("tutor.coach.max-tokens", 100)
	assert.Equal(t, 1, w.Notify())
	_, err = coach.Respond(context.Background(), "q", model.CategoryKnowledge, biz.ChatContext{})
	require.NoError(t, err)
	assert.Equal(t, 300, chat.last.MaxTokens)
}
