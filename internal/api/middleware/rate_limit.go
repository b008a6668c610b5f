package middleware

import (
	"fmt"
	"math"
	"sync"
	"time"

	"recipe-importer/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RateLimiter 令牌桶限流器
type RateLimiter struct {
	mu       sync.Mutex
	tokens   float64
	capacity float64
	rate     float64 // 每秒補充的令牌數
	lastTime time.Time
	now      func() time.Time
}

// NewRateLimiter 創建新的限流器
func NewRateLimiter(requests int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		tokens:   float64(requests),
		capacity: float64(requests),
		rate:     float64(requests) / window.Seconds(),
		lastTime: time.Now(),
		now:      time.Now,
	}
}

// Allow 檢查是否允許請求
func (rl *RateLimiter) Allow() bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	elapsed := now.Sub(rl.lastTime).Seconds()
	rl.lastTime = now
	rl.tokens = math.Min(rl.capacity, rl.tokens+elapsed*rl.rate)

	if rl.tokens >= 1 {
		rl.tokens--
		return true
	}
	return false
}

// clientLimiters 每個來源 IP 各自一個令牌桶
type clientLimiters struct {
	mu       sync.Mutex
	limiters map[string]*RateLimiter
	requests int
	window   time.Duration
}

func (cl *clientLimiters) get(ip string) *RateLimiter {
	cl.mu.Lock()
	defer cl.mu.Unlock()

	rl, ok := cl.limiters[ip]
	if !ok {
		rl = NewRateLimiter(cl.requests, cl.window)
		cl.limiters[ip] = rl
	}
	return rl
}

// RateLimit 依來源 IP 限流的中間件
func RateLimit(requests int, window time.Duration) gin.HandlerFunc {
	clients := &clientLimiters{
		limiters: make(map[string]*RateLimiter),
		requests: requests,
		window:   window,
	}

	return func(c *gin.Context) {
		if !clients.get(c.ClientIP()).Allow() {
			common.LogInfo("Rate limit exceeded",
				zap.String("ip", c.ClientIP()),
				zap.String("path", c.Request.URL.Path),
			)

			c.Header("Retry-After", fmt.Sprintf("%d", int(math.Ceil(window.Seconds()))))
			common.WriteError(c, common.ErrTooManyRequests, "")
			return
		}

		c.Next()
	}
}
