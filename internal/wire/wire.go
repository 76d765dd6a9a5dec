// Package wire 提供手工依赖注入
// 服务的依赖图足够小，按顺序手工组装即可，不引入代码生成。
package wire

import (
	"context"

	"github.com/gin-gonic/gin"

	"reno-ai-api/internal/application/analysis"
	"reno-ai-api/internal/application/chat"
	"reno-ai-api/internal/application/inspiration"
	"reno-ai-api/internal/application/plan"
	"reno-ai-api/internal/application/surprise"
	"reno-ai-api/internal/config"
	"reno-ai-api/internal/infrastructure/genai"
	"reno-ai-api/internal/infrastructure/persistence/redis"
	"reno-ai-api/internal/interfaces/http/handler"
	"reno-ai-api/internal/interfaces/http/middleware"
	"reno-ai-api/internal/interfaces/http/router"
	workflowprompt "reno-ai-api/internal/workflow/prompt"
	"reno-ai-api/pkg/logger"
)

// App 组装完成的应用
type App struct {
	router *router.Router
}

// Engine 返回 Gin Engine
func (a *App) Engine() *gin.Engine {
	return a.router.Engine()
}

// InitializeApp 组装应用依赖图，返回应用与清理函数
// Redis 不可用时降级运行：无参考链接缓存、入站限流关闭。
func InitializeApp(ctx context.Context, cfg *config.Config) (*App, func(), error) {
	prompts := workflowprompt.NewRegistry()
	generator := genai.NewClient(&cfg.GenAI)

	var (
		cache     *redis.Cache
		rateLimit gin.HandlerFunc
		cleanup   = func() {}
	)
	redisClient, err := redis.NewClient(&cfg.Cache.Redis)
	if err != nil {
		logger.Warn(ctx, "redis unavailable, running without cache and inbound rate limit",
			"error", err.Error())
		redisClient = nil
	} else {
		cache = redis.NewCache(redisClient)
		rateLimit = middleware.RateLimit(middleware.RateLimitConfig{
			Enabled:           cfg.Security.RateLimit.Enabled,
			RequestsPerMinute: cfg.Security.RateLimit.RequestsPerMinute,
		}, redis.NewRateLimiter(redisClient))
		cleanup = func() {
			if err := redisClient.Close(); err != nil {
				logger.Warn(ctx, "failed to close redis client", "error", err.Error())
			}
		}
	}

	inspirationSvc := inspiration.NewService(generator, prompts, cache, cfg.Generation)
	planSvc := plan.NewService(generator, prompts, inspirationSvc, cfg.Generation)
	surpriseSvc := surprise.NewService(generator, prompts, inspirationSvc, cfg.Generation)
	chatSvc := chat.NewService(generator, prompts, cfg.Generation)
	analysisSvc := analysis.NewService(generator, prompts, cfg.Generation)

	r := router.New(cfg, router.Handlers{
		Health:      handler.NewHealthHandler(redisClient),
		Plan:        handler.NewPlanHandler(planSvc, inspirationSvc),
		Surprise:    handler.NewSurpriseHandler(surpriseSvc),
		Analysis:    handler.NewAnalysisHandler(analysisSvc),
		Inspiration: handler.NewInspirationHandler(inspirationSvc),
		Chat:        handler.NewChatHandler(chatSvc),
	}, rateLimit)

	return &App{router: r}, cleanup, nil
}
