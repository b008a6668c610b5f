package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"sync"
	"time"

	"recipe-importer/internal/infrastructure/config"
	"recipe-importer/internal/pkg/common"

	"go.uber.org/zap"
)

// CacheManager 緩存管理器
// 記憶體為第一層，設定 Redis 時以 Service 作為第二層。
type CacheManager struct {
	config config.CacheConfig
	remote *Service
	mu     sync.Mutex
	store  map[string]cacheEntry
	stats  cacheStats
	done   chan struct{}
	once   sync.Once
	now    func() time.Time
}

// cacheEntry 緩存條目
type cacheEntry struct {
	value       string
	expiresAt   time.Time
	createdAt   time.Time
	lastAccess  time.Time
	accessCount int
}

// cacheStats 緩存統計
type cacheStats struct {
	hits       int64
	misses     int64
	remoteHits int64
	evictions  int64
	errors     int64
}

// Stats 對外公開的緩存統計
type Stats struct {
	Size       int     `json:"size"`
	MaxSize    int     `json:"max_size"`
	Hits       int64   `json:"hits"`
	Misses     int64   `json:"misses"`
	RemoteHits int64   `json:"remote_hits"`
	Evictions  int64   `json:"evictions"`
	Errors     int64   `json:"errors"`
	HitRatio   float64 `json:"hit_ratio"`
	Remote     bool    `json:"remote"`
}

// NewManager 創建新的緩存管理器，停用時回傳 nil
func NewManager(cfg config.CacheConfig, remote *Service) *CacheManager {
	if !cfg.Enabled {
		common.LogInfo("Cache disabled")
		return nil
	}

	m := &CacheManager{
		config: cfg,
		remote: remote,
		store:  make(map[string]cacheEntry),
		done:   make(chan struct{}),
		now:    time.Now,
	}

	// 啟動清理過期緩存的協程
	go m.startCleanup()

	common.LogInfo("快取管理員已初始化",
		zap.Int("最大容量", cfg.MaxSize),
		zap.Duration("存活時間", cfg.TTL),
		zap.Duration("清理間隔", cfg.CleanupInterval),
		zap.Bool("redis", remote.Enabled()),
	)

	return m
}

// Key 以命名空間與內容的 SHA-256 組成緩存鍵
func Key(namespace, content string) string {
	hash := sha256.Sum256([]byte(content))
	return namespace + ":" + hex.EncodeToString(hash[:])
}

// Get 獲取緩存值，未命中時回傳 common.ErrCacheMiss
func (m *CacheManager) Get(ctx context.Context, namespace, content string) (string, error) {
	if m == nil {
		return "", common.ErrCacheDisabled
	}
	key := Key(namespace, content)

	if value, ok := m.getLocal(key); ok {
		common.LogCacheHit(namespace)
		return value, nil
	}

	if m.remote.Enabled() {
		value, err := m.remote.Get(ctx, key)
		switch {
		case err == nil:
			m.mu.Lock()
			m.stats.remoteHits++
			m.putLocked(key, value)
			m.mu.Unlock()
			common.LogCacheHit(namespace + "/redis")
			return value, nil
		case !errors.Is(err, common.ErrCacheMiss):
			m.recordError()
			common.LogWarn("Redis 快取讀取失敗", zap.String("鍵", key), zap.Error(err))
		}
	}

	common.LogCacheMiss(namespace)
	return "", common.ErrCacheMiss
}

func (m *CacheManager) getLocal(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.store[key]
	if !exists {
		m.stats.misses++
		return "", false
	}
	if m.now().After(entry.expiresAt) {
		delete(m.store, key)
		m.stats.evictions++
		m.stats.misses++
		common.LogDebug("快取已過期", zap.String("鍵", key))
		return "", false
	}

	entry.lastAccess = m.now()
	entry.accessCount++
	m.store[key] = entry
	m.stats.hits++
	return entry.value, true
}

// Set 設置緩存值
func (m *CacheManager) Set(ctx context.Context, namespace, content, value string) error {
	if m == nil {
		return nil
	}
	key := Key(namespace, content)

	m.mu.Lock()
	err := m.putLocked(key, value)
	m.mu.Unlock()
	if err != nil {
		return err
	}

	if m.remote.Enabled() {
		if err := m.remote.Set(ctx, key, value); err != nil {
			m.recordError()
			common.LogWarn("Redis 快取寫入失敗", zap.String("鍵", key), zap.Error(err))
		}
	}
	return nil
}

// putLocked 寫入記憶體層，呼叫前必須持有鎖
func (m *CacheManager) putLocked(key, value string) error {
	if _, exists := m.store[key]; !exists && len(m.store) >= m.config.MaxSize {
		// 先清理過期項目，仍然滿載時執行 LRU 清理
		if evicted := m.cleanup(); evicted > 0 {
			common.LogDebug("快取清理執行", zap.Int("清理數量", evicted))
		}
		if len(m.store) >= m.config.MaxSize {
			m.evictLRU()
		}
		if len(m.store) >= m.config.MaxSize {
			m.stats.errors++
			common.LogWarn("快取已滿", zap.Int("目前容量", len(m.store)))
			return common.ErrCacheFull
		}
	}

	now := m.now()
	m.store[key] = cacheEntry{
		value:      value,
		expiresAt:  now.Add(m.config.TTL),
		createdAt:  now,
		lastAccess: now,
	}
	return nil
}

func (m *CacheManager) recordError() {
	m.mu.Lock()
	m.stats.errors++
	m.mu.Unlock()
}

// startCleanup 定期清理過期緩存，Close 後結束
func (m *CacheManager) startCleanup() {
	ticker := time.NewTicker(m.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.mu.Lock()
			m.cleanup()
			m.mu.Unlock()
		case <-m.done:
			return
		}
	}
}

// cleanup 清理過期的緩存，呼叫前必須持有鎖
func (m *CacheManager) cleanup() int {
	now := m.now()
	count := 0

	for key, entry := range m.store {
		if now.After(entry.expiresAt) {
			delete(m.store, key)
			count++
			m.stats.evictions++
		}
	}

	if count > 0 {
		common.LogInfo("Cleaned up expired cache entries",
			zap.Int("count", count),
			zap.Int64("total_evictions", m.stats.evictions),
			zap.Int("remaining_size", len(m.store)),
		)
	}

	return count
}

// evictLRU 淘汰訪問次數最少、最久未使用的項目
func (m *CacheManager) evictLRU() {
	var oldestKey string
	var oldestAccess time.Time
	var lowestAccessCount int

	for key, entry := range m.store {
		if oldestKey == "" ||
			entry.accessCount < lowestAccessCount ||
			(entry.accessCount == lowestAccessCount && entry.lastAccess.Before(oldestAccess)) {
			oldestKey = key
			oldestAccess = entry.lastAccess
			lowestAccessCount = entry.accessCount
		}
	}

	if oldestKey != "" {
		delete(m.store, oldestKey)
		m.stats.evictions++
		common.LogDebug("快取已淘汰(LRU)", zap.String("鍵", oldestKey))
	}
}

// GetStats 獲取緩存統計信息
func (m *CacheManager) GetStats() Stats {
	if m == nil {
		return Stats{}
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	stats := Stats{
		Size:       len(m.store),
		MaxSize:    m.config.MaxSize,
		Hits:       m.stats.hits,
		Misses:     m.stats.misses,
		RemoteHits: m.stats.remoteHits,
		Evictions:  m.stats.evictions,
		Errors:     m.stats.errors,
		Remote:     m.remote.Enabled(),
	}
	if total := m.stats.hits + m.stats.misses; total > 0 {
		stats.HitRatio = float64(m.stats.hits) / float64(total)
	}
	return stats
}

// Close 關閉緩存管理器
func (m *CacheManager) Close() error {
	if m == nil {
		return nil
	}
	m.once.Do(func() { close(m.done) })

	m.mu.Lock()
	m.store = make(map[string]cacheEntry)
	hits, misses, evictions := m.stats.hits, m.stats.misses, m.stats.evictions
	m.mu.Unlock()

	common.LogInfo("快取管理員已關閉",
		zap.Int64("命中次數", hits),
		zap.Int64("未命中次數", misses),
		zap.Int64("淘汰次數", evictions),
	)
	return m.remote.Close()
}
