package recipe

import (
	"context"
	"time"

	"recipe-importer/internal/core/parser"
	"recipe-importer/internal/core/queue"
	"recipe-importer/internal/pkg/common"

	"go.uber.org/zap"
)

// ImportService 將貼上的試算表內容解析為食譜草稿
type ImportService struct {
	*Service
	parser *parser.Parser
}

// NewImportService 創建匯入服務
func NewImportService(base *Service, p *parser.Parser) *ImportService {
	return &ImportService{
		Service: base,
		parser:  p,
	}
}

// Import 解析一份貼上內容；相同內容會直接使用快取的結果
func (s *ImportService) Import(ctx context.Context, text string) (*ImportResponse, error) {
	res, cached, err := s.parse(ctx, text)
	if err != nil {
		return nil, err
	}
	return NewImportResponse(res, cached), nil
}

// Parse 給批次隊列使用的 queue.Handler
func (s *ImportService) Parse(ctx context.Context, text string) (*parser.Result, error) {
	res, _, err := s.parse(ctx, text)
	return res, err
}

func (s *ImportService) parse(ctx context.Context, text string) (*parser.Result, bool, error) {
	var cached parser.Result
	if s.getFromCache(ctx, text, &cached) {
		return &cached, true, nil
	}

	start := time.Now()
	res, err := s.parser.Parse(text)
	if err != nil {
		common.LogWarn("解析失敗",
			zap.Error(err),
			zap.Int("input_bytes", len(text)),
		)
		return nil, false, err
	}

	common.LogInfo("解析完成",
		zap.String("recipe_id", res.Recipe.RecipeID),
		zap.Int("rows", res.Stats.Rows),
		zap.Int("steps", res.StepCount()),
		zap.Int("skipped_steps", res.Stats.SkippedSteps),
		zap.Int("sub_recipes", len(res.Recipe.SubRecipes)),
		zap.Int("warnings", len(res.Warnings)),
		zap.Bool("incomplete", res.Incomplete),
		zap.Duration("elapsed", time.Since(start)),
	)
	for _, w := range res.Warnings {
		common.LogDebug("解析警告",
			zap.String("kind", string(w.Kind)),
			zap.Int("row", w.Row),
			zap.String("message", w.Message),
		)
	}

	s.setToCache(ctx, text, res)
	return res, false, nil
}

// BatchService 以工作隊列平行解析多份文件
type BatchService struct {
	queue    *queue.Manager
	maxBatch int
}

// NewBatchService 創建批次匯入服務
func NewBatchService(q *queue.Manager, maxBatch int) *BatchService {
	return &BatchService{
		queue:    q,
		maxBatch: maxBatch,
	}
}

// MaxBatch 單次批次的文件數上限
func (s *BatchService) MaxBatch() int {
	return s.maxBatch
}

// ImportBatch 解析所有文件，結果順序與輸入一致
// 單一文件失敗不影響其他文件。
func (s *BatchService) ImportBatch(ctx context.Context, documents []string) []BatchItem {
	items := make([]BatchItem, len(documents))
	pending := make([]<-chan queue.Result, len(documents))

	for i, doc := range documents {
		items[i].Index = i
		ch, err := s.queue.Enqueue(ctx, doc)
		if err != nil {
			items[i].Err = err
			continue
		}
		pending[i] = ch
	}

	for i, ch := range pending {
		if ch == nil {
			continue
		}
		select {
		case r := <-ch:
			items[i].Result, items[i].Err = r.Result, r.Error
		case <-ctx.Done():
			items[i].Err = ctx.Err()
		}
	}

	failed := 0
	for _, item := range items {
		if item.Err != nil {
			failed++
		}
	}
	common.LogInfo("批次匯入完成",
		zap.Int("documents", len(documents)),
		zap.Int("failed", failed),
	)
	return items
}
