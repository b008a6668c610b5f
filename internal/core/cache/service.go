package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"recipe-importer/internal/infrastructure/config"
	"recipe-importer/internal/pkg/common"

	"github.com/go-redis/redis/v8"
)

// Service Redis 緩存服務，作為多個實例共用的第二層
type Service struct {
	client *redis.Client
	ttl    time.Duration
}

// NewService 創建緩存服務；未設定 redis_addr 時回傳停用的服務
func NewService(ctx context.Context, cfg config.CacheConfig) (*Service, error) {
	if !cfg.Enabled || cfg.RedisAddr == "" {
		return &Service{}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
	})

	// 測試連接
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Service{
		client: client,
		ttl:    cfg.TTL,
	}, nil
}

// Enabled 是否連線到 Redis
func (s *Service) Enabled() bool {
	return s != nil && s.client != nil
}

// Get 獲取緩存
func (s *Service) Get(ctx context.Context, key string) (string, error) {
	if !s.Enabled() {
		return "", common.ErrCacheDisabled
	}

	data, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", common.ErrCacheMiss
		}
		return "", fmt.Errorf("failed to get cache: %w", err)
	}
	return data, nil
}

// Set 設置緩存
func (s *Service) Set(ctx context.Context, key, value string) error {
	if !s.Enabled() {
		return nil
	}
	if err := s.client.Set(ctx, key, value, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set cache: %w", err)
	}
	return nil
}

// Ping 檢查 Redis 連線，供健康檢查使用
func (s *Service) Ping(ctx context.Context) error {
	if !s.Enabled() {
		return nil
	}
	return s.client.Ping(ctx).Err()
}

// Close 關閉連線
func (s *Service) Close() error {
	if !s.Enabled() {
		return nil
	}
	return s.client.Close()
}
