package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"recipe-importer/internal/pkg/common"
)

// Deduplicator 拒絕短時間內重複送出的相同 POST 請求
// 例如使用者連按兩次「匯入」。
type Deduplicator struct {
	mu       sync.Mutex
	requests map[string]time.Time
	window   time.Duration
	stop     chan struct{}
	once     sync.Once
}

// NewDeduplicator 創建去重器並啟動清理 goroutine
func NewDeduplicator(window time.Duration) *Deduplicator {
	if window <= 0 {
		window = time.Second
	}
	d := &Deduplicator{
		requests: make(map[string]time.Time),
		window:   window,
		stop:     make(chan struct{}),
	}
	go d.cleanupLoop(10 * time.Minute)
	return d
}

func (d *Deduplicator) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			d.cleanup(time.Now())
		case <-d.stop:
			return
		}
	}
}

func (d *Deduplicator) cleanup(now time.Time) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for k, t := range d.requests {
		if now.Sub(t) > 10*d.window {
			delete(d.requests, k)
		}
	}
}

// Stop 停止清理 goroutine
func (d *Deduplicator) Stop() {
	d.once.Do(func() { close(d.stop) })
}

// seen 記錄指紋，window 內重複出現時回傳 true
func (d *Deduplicator) seen(fingerprint string, now time.Time) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if last, exists := d.requests[fingerprint]; exists && now.Sub(last) <= d.window {
		return true
	}
	d.requests[fingerprint] = now
	return false
}

// Handler 請求去重中間件
func (d *Deduplicator) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodPost {
			c.Next()
			return
		}

		fingerprint := c.ClientIP() + ":" + c.Request.Method + ":" + c.Request.URL.Path
		if c.Request.Body != nil {
			body, err := io.ReadAll(c.Request.Body)
			if err != nil {
				common.LogDebug("Failed to read request body", zap.Error(err))
				var tooLarge *http.MaxBytesError
				if errors.As(err, &tooLarge) {
					common.WriteError(c, errBodyTooLarge, "")
					return
				}
				common.WriteError(c, common.ErrInvalidRequest, "failed to read request body")
				return
			}
			hash := sha256.Sum256(body)
			fingerprint += ":" + hex.EncodeToString(hash[:])
			c.Request.Body = io.NopCloser(bytes.NewReader(body))
		}

		if d.seen(fingerprint, time.Now()) {
			common.LogInfo("Duplicate request rejected",
				zap.String("path", c.Request.URL.Path),
				zap.String("request_id", common.RequestID(c)),
			)
			common.WriteError(c, common.ErrTooManyRequests, "duplicate request")
			return
		}

		c.Next()
	}
}
