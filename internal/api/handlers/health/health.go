package health

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"recipe-importer/internal/core/cache"
	"recipe-importer/internal/core/queue"
	"recipe-importer/internal/infrastructure/config"
	"recipe-importer/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// HealthResponse 健康檢查響應
type HealthResponse struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Runtime   map[string]interface{} `json:"runtime"`
	Queue     *queue.Status          `json:"queue,omitempty"`
	Cache     *cache.Stats           `json:"cache,omitempty"`
	Store     bool                   `json:"store_configured"`
}

// Handler 健康檢查處理器
type Handler struct {
	config *config.Config
	queue  *queue.Manager
	cache  *cache.CacheManager
	redis  *cache.Service
}

// NewHandler 創建健康檢查處理器，queue 與 cache 可為 nil
func NewHandler(cfg *config.Config, q *queue.Manager, cm *cache.CacheManager, redis *cache.Service) *Handler {
	return &Handler{
		config: cfg,
		queue:  q,
		cache:  cm,
		redis:  redis,
	}
}

// HealthCheck 回報版本、執行狀態、隊列與快取統計
func (h *Handler) HealthCheck(c *gin.Context) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	response := HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   h.config.App.Version,
		Runtime: map[string]interface{}{
			"goroutines": runtime.NumGoroutine(),
			"memory": map[string]interface{}{
				"alloc":       m.Alloc,
				"total_alloc": m.TotalAlloc,
				"sys":         m.Sys,
				"num_gc":      m.NumGC,
			},
		},
		Store: h.config.Store.Enabled(),
	}
	if h.queue != nil {
		response.Queue = h.queue.GetQueueStatus()
	}
	if h.cache != nil {
		stats := h.cache.GetStats()
		response.Cache = &stats
	}

	common.LogDebug("Health check request",
		zap.String("client_ip", c.ClientIP()),
		zap.String("path", c.Request.URL.Path),
	)

	c.JSON(http.StatusOK, response)
}

// ReadinessCheck 隊列已關閉或 Redis 無法連線時回報未就緒
func (h *Handler) ReadinessCheck(c *gin.Context) {
	if h.queue != nil && h.queue.GetQueueStatus().Closed {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready", "reason": "queue closed"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	if err := h.redis.Ping(ctx); err != nil {
		common.LogWarn("Redis 無法連線", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready", "reason": "redis unavailable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
	})
}

// LivenessCheck 存活檢查處理器
func (h *Handler) LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "alive",
	})
}
