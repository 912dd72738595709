package tutor

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/kart-io/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/viper"
	utilerrors "k8s.io/apimachinery/pkg/util/errors"

	"github.com/kart-io/tutor-x/internal/tutor/biz"
	"github.com/kart-io/tutor-x/internal/tutor/handler"
	"github.com/kart-io/tutor-x/internal/tutor/metrics"
	"github.com/kart-io/tutor-x/internal/tutor/router"
	"github.com/kart-io/tutor-x/internal/tutor/store"
	"github.com/kart-io/tutor-x/pkg/component/database"
	"github.com/kart-io/tutor-x/pkg/component/redis"
	"github.com/kart-io/tutor-x/pkg/infra/app"
	"github.com/kart-io/tutor-x/pkg/infra/config"
	"github.com/kart-io/tutor-x/pkg/infra/middleware"
	"github.com/kart-io/tutor-x/pkg/infra/server"
	"github.com/kart-io/tutor-x/pkg/infra/tracing"
	"github.com/kart-io/tutor-x/pkg/llm"
	// 导入 LLM 供应商以自动注册
	_ "github.com/kart-io/tutor-x/pkg/llm/anthropic"
	_ "github.com/kart-io/tutor-x/pkg/llm/ollama"
	_ "github.com/kart-io/tutor-x/pkg/llm/openai"
	"github.com/kart-io/tutor-x/pkg/llm/resilience"
)

// Server represents the tutor server and the resources it owns.
type Server struct {
	http    *server.Server
	watcher *config.Watcher
	// closers 按创建顺序记录，关闭时倒序执行。
	closers []func(context.Context) error
}

// NewServer initializes every dependency and returns a ready Server.
// v is the viper instance the options were loaded from; it drives hot reload.
func NewServer(ctx context.Context, opts *Options, v *viper.Viper) (_ *Server, err error) {
	s := &Server{}
	defer func() {
		if err != nil {
			_ = s.close(context.Background())
		}
	}()

	// 1. 初始化日志
	opts.Log.AddInitialField("service.name", Name)
	opts.Log.AddInitialField("service.version", app.GetVersion())
	if err := opts.Log.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	s.closers = append(s.closers, func(context.Context) error { return logger.Flush() })
	logger.Infow("Starting tutor service...", "version", app.GetVersion())

	// 2. 初始化 tracing
	tp, err := tracing.NewProvider(ctx, opts.Tracing, app.GetVersion())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize tracing: %w", err)
	}
	s.closers = append(s.closers, tp.Shutdown)
	logger.Infow("Tracing initialized", "enabled", tp.Enabled(), "exporter", opts.Tracing.ExporterType)

	// 3. 初始化数据库与 Store 层
	db, err := database.Open(ctx, opts.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	factory := store.NewFactory(db)
	s.closers = append(s.closers, func(context.Context) error { return factory.Close() })
	if opts.Database.AutoMigrate {
		if err := factory.AutoMigrate(); err != nil {
			return nil, fmt.Errorf("failed to migrate database: %w", err)
		}
	}
	logger.Infow("Store initialized", "database", opts.Database.String())

	// 4. 初始化 Redis（仅用于班级总结缓存，失败时降级为无缓存）
	var serviceOpts []biz.ServiceOption
	redisClient, err := redis.Open(ctx, opts.Redis)
	switch {
	case err != nil:
		logger.Warnw("failed to connect to redis, summary cache will be disabled", "error", err.Error())
	case redisClient != nil:
		s.closers = append(s.closers, func(context.Context) error { return redisClient.Close() })
		serviceOpts = append(serviceOpts, biz.WithSummaryCache(biz.NewSummaryCache(redisClient, opts.Tutor.SummaryCache)))
		logger.Infow("Redis summary cache initialized",
			"redis", opts.Redis.String(),
			"enabled", opts.Tutor.SummaryCache.Enabled,
			"ttl", opts.Tutor.SummaryCache.TTL,
		)
	default:
		logger.Info("Redis is disabled")
	}

	// 5. 初始化对话供应商
	chat, err := llm.NewChatProvider(opts.LLM.Provider, opts.LLM.ToConfigMap())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize chat provider: %w", err)
	}
	chat = resilience.Wrap(chat, opts.LLM.Resilience)
	logger.Infow("Chat provider initialized",
		"provider", opts.LLM.Provider,
		"model", opts.LLM.Model,
		"resilience", opts.LLM.Resilience.Enabled,
	)

	// 6. 指标
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	tutorMetrics := metrics.New(registry)
	httpMetrics := middleware.NewHTTPMetrics(opts.Tutor.MetricsNamespace, registry)

	// 7. 初始化 Biz 层
	classifier := biz.NewClassifier(chat, opts.Tutor.Classifier, tutorMetrics)
	coach := biz.NewCoach(chat, opts.Tutor.Coach, tutorMetrics)
	serviceOpts = append(serviceOpts, biz.WithMetrics(tutorMetrics))
	service := biz.NewTutorService(factory, classifier, opts.Tutor.Excerpt, coach, serviceOpts...)
	logger.Infow("Tutor service initialized",
		"classifier.policy", opts.Tutor.Classifier.Policy,
		"coach.policy", opts.Tutor.Coach.Policy,
		"coach.history_pairs", opts.Tutor.Coach.HistoryPairs,
	)

	// 8. 配置热加载
	if v != nil {
		s.watcher = config.NewWatcher(v)
		subscribeTutorConfig(s.watcher, classifier, coach)
		s.watcher.Start()
	}

	// 9. 初始化 Handler 层与路由
	gin.SetMode(opts.HTTP.Mode)
	tutorHandler := handler.NewTutorHandler(service, middleware.NewKeyedLimiter(opts.Middleware.RateLimit))
	healthHandler := handler.NewHealthHandler(service)
	engine := router.New(&router.Config{
		Middleware:    opts.Middleware,
		HTTPMetrics:   httpMetrics,
		Gatherer:      registry,
		EnableSwagger: opts.Tutor.EnableSwagger,
	}, tutorHandler, healthHandler)

	s.http = server.New(opts.HTTP, engine)
	logger.Infow("Tutor service is ready", "addr", opts.HTTP.Addr)
	return s, nil
}

// subscribeTutorConfig 订阅 tutor.classifier 与 tutor.coach 的变更。
// 校验失败的新配置被丢弃，旧配置继续生效。
func subscribeTutorConfig(w *config.Watcher, classifier *biz.Classifier, coach *biz.Coach) {
	w.Subscribe("tutor.classifier", config.KeyHandler("tutor.classifier", biz.DefaultClassifierConfig,
		func(cfg *biz.ClassifierConfig) error {
			if err := cfg.Validate(); err != nil {
				return err
			}
			classifier.SetConfig(cfg)
			return nil
		}))
	w.Subscribe("tutor.coach", config.KeyHandler("tutor.coach", biz.DefaultCoachConfig,
		func(cfg *biz.CoachConfig) error {
			if err := cfg.Validate(); err != nil {
				return err
			}
			coach.SetConfig(cfg)
			return nil
		}))
}

// Run serves until ctx is cancelled, then releases every resource.
func (s *Server) Run(ctx context.Context) error {
	runErr := s.http.Run(ctx)
	closeErr := s.close(context.Background())
	return utilerrors.NewAggregate([]error{runErr, closeErr})
}

func (s *Server) close(ctx context.Context) error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	s.closers = nil
	return utilerrors.NewAggregate(errs)
}
