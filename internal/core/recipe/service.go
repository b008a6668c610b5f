package recipe

import (
	"context"
	"errors"

	"recipe-importer/internal/core/cache"
	"recipe-importer/internal/pkg/common"

	"go.uber.org/zap"
)

// cacheNamespace 匯入結果在快取中的命名空間
const cacheNamespace = "import"

// Service 食譜服務基礎結構
type Service struct {
	cacheManager *cache.CacheManager
}

// NewService 創建新的食譜服務
func NewService(cacheManager *cache.CacheManager) *Service {
	return &Service{
		cacheManager: cacheManager,
	}
}

// getFromCache 從緩存獲取數據，未命中或停用時回傳 false
func (s *Service) getFromCache(ctx context.Context, content string, v interface{}) bool {
	if s.cacheManager == nil {
		return false
	}
	data, err := s.cacheManager.Get(ctx, cacheNamespace, content)
	if err != nil {
		return false
	}
	if err := common.ParseJSON(data, v); err != nil {
		common.LogWarn("快取內容無法解析", zap.Error(err))
		return false
	}
	return true
}

// setToCache 將數據存入緩存
func (s *Service) setToCache(ctx context.Context, content string, v interface{}) {
	if s.cacheManager == nil {
		return
	}
	data, err := common.ToJSON(v)
	if err != nil {
		common.LogWarn("快取內容無法序列化", zap.Error(err))
		return
	}
	if err := s.cacheManager.Set(ctx, cacheNamespace, content, data); err != nil && !errors.Is(err, common.ErrCacheFull) {
		common.LogWarn("寫入快取失敗", zap.Error(err))
	}
}
