package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"recipe-importer/internal/api"
	"recipe-importer/internal/core/cache"
	"recipe-importer/internal/infrastructure/config"
	"recipe-importer/internal/pkg/common"

	"go.uber.org/zap"
)

func main() {
	// 載入設定（包含 .env）
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 初始化 logger（需在載入 config 後）
	if err := common.InitLogger(cfg.LogLevel, cfg.LogDir); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer common.Sync()

	common.LogInfo("載入設定",
		zap.String("store_url", cfg.Store.BaseURL),
		zap.Bool("cache_enabled", cfg.Cache.Enabled),
		zap.String("redis_addr", cfg.Cache.RedisAddr),
		zap.Int("max_rows", cfg.Parser.MaxRows),
	)

	// 初始化快取：Redis 無法連線時只使用記憶體快取
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	redis, err := cache.NewService(ctx, cfg.Cache)
	cancel()
	if err != nil {
		common.LogWarn("Redis unavailable, using in-memory cache only", zap.Error(err))
		redis = nil
	}
	cacheManager := cache.NewManager(cfg.Cache, redis)
	defer cacheManager.Close()

	services := api.NewServices(cfg, cacheManager, redis)
	router := api.SetupRouter(cfg, services)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		common.LogInfo("啟動應用",
			zap.String("version", cfg.App.Version),
			zap.String("env", cfg.App.Env),
			zap.Int("port", cfg.Server.Port),
		)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			common.LogFatal("Failed to start server", zap.Error(err))
		}
	}()

	// 等待中斷信號
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	common.LogInfo("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		common.LogError("Server forced to shutdown", zap.Error(err))
	}
	// 先停止接收請求，再等隊列中的批次完成
	services.Close()

	common.LogInfo("Server exited")
}
