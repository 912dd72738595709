// Package router 提供 tutor 服务的路由注册。
package router

import (
	"github.com/gin-gonic/gin"
	"github.com/kart-io/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/kart-io/tutor-x/api/swagger/tutor" // swagger docs
	"github.com/kart-io/tutor-x/internal/pkg/httputils"
	"github.com/kart-io/tutor-x/internal/tutor/handler"
	"github.com/kart-io/tutor-x/pkg/infra/middleware"
	"github.com/kart-io/tutor-x/pkg/utils/errors"
)

// Config 路由依赖。
type Config struct {
	// Middleware 中间件配置，为 nil 时使用默认值。
	Middleware *middleware.Options
	// HTTPMetrics 为 nil 时不记录 HTTP 指标。
	HTTPMetrics *middleware.HTTPMetrics
	// Gatherer /metrics 的数据源，为 nil 时不注册 /metrics。
	Gatherer prometheus.Gatherer
	// EnableSwagger 是否注册 /swagger/*any。
	EnableSwagger bool
}

// New 创建 gin engine，挂载中间件与全部路由。
func New(cfg *Config, tutor *handler.TutorHandler, health *handler.HealthHandler) *gin.Engine {
	mw := cfg.Middleware
	if mw == nil {
		mw = middleware.NewOptions()
	}

	r := gin.New()
	r.ContextWithFallback = true
	r.Use(
		middleware.Recovery(mw.EnableStackTrace),
		middleware.RequestID(mw.RequestIDHeader),
		middleware.Logger(mw.SkipLogPaths),
		middleware.Tracing(mw.SkipLogPaths...),
		middleware.Metrics(cfg.HTTPMetrics),
		middleware.Timeout(mw.Timeout),
	)

	r.NoRoute(func(c *gin.Context) {
		httputils.WriteResponse(c, errors.ErrRouteNotFound, nil)
	})

	r.GET("/health", health.Health)
	r.GET("/ready", health.Ready)
	if cfg.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{})))
	}
	if cfg.EnableSwagger {
		// Swagger UI - 访问地址: /swagger/index.html
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.InstanceName("tutor")))
	}

	v1 := r.Group("/v1")
	{
		v1.POST("/chat", tutor.Chat)

		classes := v1.Group("/classes/:classId")
		{
			classes.GET("/summary", tutor.ClassSummary)
			classes.GET("/questions", tutor.ListQuestions)
		}
	}

	logger.Infow("HTTP routes registered", "routes", len(r.Routes()))
	return r
}
