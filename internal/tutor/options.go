package tutor

import (
	"fmt"

	"github.com/spf13/pflag"
	utilerrors "k8s.io/apimachinery/pkg/util/errors"

	"github.com/kart-io/tutor-x/internal/tutor/biz"
	"github.com/kart-io/tutor-x/pkg/component/database"
	"github.com/kart-io/tutor-x/pkg/component/redis"
	"github.com/kart-io/tutor-x/pkg/infra/middleware"
	"github.com/kart-io/tutor-x/pkg/infra/server"
	"github.com/kart-io/tutor-x/pkg/infra/tracing"
	llmopts "github.com/kart-io/tutor-x/pkg/options/llm"
	logopts "github.com/kart-io/tutor-x/pkg/options/logger"
)

// Options contains all tutor service options.
type Options struct {
	// HTTP contains HTTP server configuration.
	HTTP *server.Options `json:"http" mapstructure:"http"`

	// Log contains logger configuration.
	Log *logopts.Options `json:"log" mapstructure:"log"`

	// Middleware contains the gin middleware chain configuration.
	Middleware *middleware.Options `json:"middleware" mapstructure:"middleware"`

	// Tracing contains OpenTelemetry configuration.
	Tracing *tracing.Options `json:"tracing" mapstructure:"tracing"`

	// Database contains the relational store configuration.
	Database *database.Options `json:"database" mapstructure:"database"`

	// Redis backs the class summary cache.
	Redis *redis.Options `json:"redis" mapstructure:"redis"`

	// LLM contains the chat provider configuration.
	LLM *llmopts.ProviderOptions `json:"llm" mapstructure:"llm"`

	// Tutor contains pipeline tuning; this section is hot-reloaded.
	Tutor *TutorOptions `json:"tutor" mapstructure:"tutor"`
}

// TutorOptions 辅导流水线配置。
type TutorOptions struct {
	// Classifier 分类调用参数与失败策略。
	Classifier *biz.ClassifierConfig `json:"classifier" mapstructure:"classifier"`
	// Coach 回复与总结生成参数、角色提示词覆盖。
	Coach *biz.CoachConfig `json:"coach" mapstructure:"coach"`
	// Excerpt 片段选取参数，修改后需重启。
	Excerpt *biz.KeywordExcerptSelector `json:"excerpt" mapstructure:"excerpt"`
	// SummaryCache 班级总结缓存，需同时启用 redis。
	SummaryCache *biz.SummaryCacheConfig `json:"summary-cache" mapstructure:"summary-cache"`
	// EnableSwagger 是否注册 /swagger。
	EnableSwagger bool `json:"enable-swagger" mapstructure:"enable-swagger"`
	// MetricsNamespace HTTP 指标前缀。
	MetricsNamespace string `json:"metrics-namespace" mapstructure:"metrics-namespace"`
}

// NewTutorOptions 返回默认的流水线配置。
func NewTutorOptions() *TutorOptions {
	return &TutorOptions{
		Classifier:       biz.DefaultClassifierConfig(),
		Coach:            biz.DefaultCoachConfig(),
		Excerpt:          biz.NewKeywordExcerptSelector(),
		SummaryCache:     biz.DefaultSummaryCacheConfig(),
		EnableSwagger:    true,
		MetricsNamespace: "tutor",
	}
}

// NewOptions creates options with default values.
func NewOptions() *Options {
	return &Options{
		HTTP:       server.NewOptions(),
		Log:        logopts.NewOptions(),
		Middleware: middleware.NewOptions(),
		Tracing:    tracing.NewOptions(),
		Database:   database.NewOptions(),
		Redis:      redis.NewOptions(),
		LLM:        llmopts.NewChatOptions(),
		Tutor:      NewTutorOptions(),
	}
}

// AddFlags adds flags for all option sections.
func (o *Options) AddFlags(fs *pflag.FlagSet) {
	o.HTTP.AddFlags(fs)
	o.Log.AddFlags(fs)
	o.Middleware.AddFlags(fs)
	o.Tracing.AddFlags(fs)
	o.Database.AddFlags(fs, "database.")
	o.Redis.AddFlags(fs)
	o.LLM.AddFlags(fs)
	o.Tutor.AddFlags(fs)
}

// AddFlags adds flags for the pipeline section.
func (o *TutorOptions) AddFlags(fs *pflag.FlagSet) {
	fs.Float64Var(&o.Classifier.Temperature, "tutor.classifier.temperature", o.Classifier.Temperature, "Sampling temperature for question classification.")
	fs.IntVar(&o.Classifier.MaxTokens, "tutor.classifier.max-tokens", o.Classifier.MaxTokens, "Token cap for the classification answer.")
	fs.Float64Var(&o.Coach.Temperature, "tutor.coach.temperature", o.Coach.Temperature, "Sampling temperature for coaching replies.")
	fs.IntVar(&o.Coach.MaxTokens, "tutor.coach.max-tokens", o.Coach.MaxTokens, "Token cap for coaching replies.")
	fs.IntVar(&o.Coach.HistoryPairs, "tutor.coach.history-pairs", o.Coach.HistoryPairs, "Previous question/answer pairs sent with each question.")
	fs.IntVar(&o.Coach.SummaryLimit, "tutor.coach.summary-limit", o.Coach.SummaryLimit, "Max records included in a class summary.")
	fs.BoolVar(&o.SummaryCache.Enabled, "tutor.summary-cache.enabled", o.SummaryCache.Enabled, "Cache class summaries in Redis.")
	fs.DurationVar(&o.SummaryCache.TTL, "tutor.summary-cache.ttl", o.SummaryCache.TTL, "Class summary cache TTL.")
	fs.BoolVar(&o.EnableSwagger, "tutor.enable-swagger", o.EnableSwagger, "Serve Swagger UI at /swagger/index.html.")
}

// Validate 校验流水线配置。热加载时也会调用。
func (o *TutorOptions) Validate() error {
	var errs []error
	if err := o.Classifier.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("tutor.classifier: %w", err))
	}
	if err := o.Coach.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("tutor.coach: %w", err))
	}
	if o.Excerpt != nil && (o.Excerpt.MaxLines <= 0 || o.Excerpt.FallbackChars <= 0) {
		errs = append(errs, fmt.Errorf("tutor.excerpt max-lines and fallback-chars must be positive"))
	}
	if o.SummaryCache.Enabled && o.SummaryCache.TTL <= 0 {
		errs = append(errs, fmt.Errorf("tutor.summary-cache.ttl must be positive"))
	}
	return utilerrors.NewAggregate(errs)
}

// Complete fills sections left nil by a partial config file.
func (o *TutorOptions) Complete() error {
	if o.Classifier == nil {
		o.Classifier = biz.DefaultClassifierConfig()
	}
	if o.Coach == nil {
		o.Coach = biz.DefaultCoachConfig()
	}
	if o.Excerpt == nil {
		o.Excerpt = biz.NewKeywordExcerptSelector()
	}
	if o.SummaryCache == nil {
		o.SummaryCache = biz.DefaultSummaryCacheConfig()
	}
	if o.MetricsNamespace == "" {
		o.MetricsNamespace = "tutor"
	}
	return nil
}

// Complete completes every section.
func (o *Options) Complete() error {
	return utilerrors.NewAggregate([]error{
		o.HTTP.Complete(),
		o.Log.Complete(),
		o.Middleware.Complete(),
		o.Tracing.Complete(),
		o.Database.Complete(),
		o.Redis.Complete(),
		o.LLM.Complete(),
		o.Tutor.Complete(),
	})
}

// Validate validates every section and reports all problems at once.
func (o *Options) Validate() error {
	errs := []error{
		o.HTTP.Validate(),
		o.Log.Validate(),
		o.Middleware.Validate(),
		o.Tracing.Validate(),
		o.Database.Validate(),
		o.Redis.Validate(),
		o.Tutor.Validate(),
	}
	errs = append(errs, o.LLM.Validate()...)
	if o.Tutor.SummaryCache.Enabled && !o.Redis.Enabled {
		errs = append(errs, fmt.Errorf("tutor.summary-cache.enabled requires redis.enabled"))
	}
	return utilerrors.NewAggregate(errs)
}
