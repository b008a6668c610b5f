package api

import (
	"context"
	"time"

	"recipe-importer/internal/api/handlers/health"
	recipeHandler "recipe-importer/internal/api/handlers/recipe"
	"recipe-importer/internal/api/middleware"
	"recipe-importer/internal/core/cache"
	"recipe-importer/internal/core/parser"
	"recipe-importer/internal/core/queue"
	recipeService "recipe-importer/internal/core/recipe"
	"recipe-importer/internal/core/service"
	"recipe-importer/internal/infrastructure/config"
	"recipe-importer/internal/pkg/common"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// timeoutDuration 單一請求的處理時限
const timeoutDuration = 60 * time.Second

// Services 路由使用的服務，Close 釋放背景資源
type Services struct {
	Import *recipeService.ImportService
	Batch  *recipeService.BatchService
	Save   *recipeService.SaveService
	Queue  *queue.Manager
	Cache  *cache.CacheManager
	Redis  *cache.Service

	dedup *middleware.Deduplicator
}

// NewServices 依設定建立解析器、隊列與儲存服務
func NewServices(cfg *config.Config, cacheManager *cache.CacheManager, redis *cache.Service) *Services {
	p := parser.New(parser.Options{
		MaxRows:            cfg.Parser.MaxRows,
		PlaceholderBaseURL: cfg.Parser.PlaceholderBaseURL,
	})

	importSvc := recipeService.NewImportService(recipeService.NewService(cacheManager), p)
	q := queue.NewManager(cfg.Queue, importSvc.Parse)

	common.LogInfo("Services initialized",
		zap.Bool("cache_enabled", cacheManager != nil),
		zap.Bool("redis_enabled", redis.Enabled()),
		zap.Bool("store_configured", cfg.Store.Enabled()),
		zap.Int("queue_workers", cfg.Queue.Workers),
		zap.Int("max_rows", cfg.Parser.MaxRows),
	)

	return &Services{
		Import: importSvc,
		Batch:  recipeService.NewBatchService(q, cfg.Queue.MaxBatch),
		Save:   recipeService.NewSaveService(service.NewRecipeStore(cfg.Store)),
		Queue:  q,
		Cache:  cacheManager,
		Redis:  redis,
		dedup:  middleware.NewDeduplicator(cfg.DedupWindow),
	}
}

// Close 停止隊列與去重清理
func (s *Services) Close() {
	s.Queue.Close()
	s.dedup.Stop()
}

// SetupRouter 設置路由
func SetupRouter(cfg *config.Config, svc *Services) *gin.Engine {
	common.LogInfo("Starting router setup",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
	)

	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// 註冊基礎中間件
	router.Use(middleware.Recovery())
	router.Use(requestid.New()) // 自動生成請求 ID
	router.Use(middleware.Logger())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	// 請求超時
	router.Use(func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeoutDuration)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	})

	// 健康檢查路由
	healthHandler := health.NewHandler(cfg, svc.Queue, svc.Cache, svc.Redis)
	router.GET("/health", healthHandler.HealthCheck)
	router.GET("/ready", healthHandler.ReadinessCheck)
	router.GET("/live", healthHandler.LivenessCheck)

	// API 路由組
	api := router.Group("/api/v1")
	api.Use(middleware.BodySizeLimit(cfg.Server.MaxBodyBytes))
	if cfg.RateLimit.Enabled {
		api.Use(middleware.RateLimit(cfg.RateLimit.Requests, cfg.RateLimit.Window))
	}
	api.Use(svc.dedup.Handler())
	{
		h := recipeHandler.NewHandler(svc.Import, svc.Batch, svc.Save)

		recipeGroup := api.Group("/recipe")
		{
			recipeGroup.POST("/import", h.HandleImport)
			recipeGroup.POST("/import/batch", h.HandleImportBatch)
			recipeGroup.POST("/save", h.HandleSave)
		}
	}

	common.LogInfo("Router setup completed successfully",
		zap.Bool("rate_limit", cfg.RateLimit.Enabled),
		zap.Duration("dedup_window", cfg.DedupWindow),
		zap.Duration("timeout", timeoutDuration),
		zap.Int64("max_body_size", cfg.Server.MaxBodyBytes),
	)

	return router
}
