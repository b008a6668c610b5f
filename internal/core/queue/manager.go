package queue

import (
	"context"
	"sync"
	"sync/atomic"

	"recipe-importer/internal/core/parser"
	"recipe-importer/internal/infrastructure/config"
	"recipe-importer/internal/pkg/common"

	"go.uber.org/zap"
)

// Handler 處理一份貼上的文字
type Handler func(ctx context.Context, text string) (*parser.Result, error)

// Request 隊列請求
type Request struct {
	Context context.Context
	Text    string
	Result  chan Result
}

// Result 處理結果
type Result struct {
	Result *parser.Result
	Error  error
}

// Status 隊列狀態
type Status struct {
	QueueLength    int  `json:"queue_length"`
	ProcessedCount int  `json:"processed_count"`
	FailedCount    int  `json:"failed_count"`
	MaxQueueSize   int  `json:"max_queue_size"`
	Workers        int  `json:"workers"`
	Closed         bool `json:"closed"`
}

// Manager 批次匯入的工作隊列
type Manager struct {
	config    config.QueueConfig
	handler   Handler
	queue     chan *Request
	wg        sync.WaitGroup
	mu        sync.RWMutex
	closed    bool
	processed int64
	failed    int64
}

// NewManager 創建隊列並啟動 workers
func NewManager(cfg config.QueueConfig, handler Handler) *Manager {
	m := &Manager{
		config:  cfg,
		handler: handler,
		queue:   make(chan *Request, cfg.MaxSize),
	}

	for i := 0; i < cfg.Workers; i++ {
		m.wg.Add(1)
		go m.worker(i)
	}

	common.LogInfo("匯入隊列已啟動",
		zap.Int("workers", cfg.Workers),
		zap.Int("max_queue_size", cfg.MaxSize),
	)
	return m
}

func (m *Manager) worker(id int) {
	defer m.wg.Done()

	for req := range m.queue {
		m.process(id, req)
	}
}

func (m *Manager) process(id int, req *Request) {
	// 呼叫端已放棄時不再解析
	if err := req.Context.Err(); err != nil {
		req.Result <- Result{Error: err}
		atomic.AddInt64(&m.failed, 1)
		return
	}

	res, err := m.handler(req.Context, req.Text)
	if err != nil {
		atomic.AddInt64(&m.failed, 1)
		common.LogDebug("隊列工作失敗", zap.Int("worker", id), zap.Error(err))
	} else {
		atomic.AddInt64(&m.processed, 1)
	}
	req.Result <- Result{Result: res, Error: err}
}

// Enqueue 將請求加入隊列；隊列已滿時立即回傳 common.ErrQueueFull
func (m *Manager) Enqueue(ctx context.Context, text string) (<-chan Result, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, common.ErrQueueClosed
	}

	req := &Request{
		Context: ctx,
		Text:    text,
		Result:  make(chan Result, 1),
	}

	select {
	case m.queue <- req:
		common.LogDebug("Request enqueued",
			zap.Int("queue_length", len(m.queue)),
			zap.Int("max_queue_size", m.config.MaxSize),
		)
		return req.Result, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
		return nil, common.ErrQueueFull
	}
}

// GetQueueStatus 獲取隊列狀態
func (m *Manager) GetQueueStatus() *Status {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return &Status{
		QueueLength:    len(m.queue),
		ProcessedCount: int(atomic.LoadInt64(&m.processed)),
		FailedCount:    int(atomic.LoadInt64(&m.failed)),
		MaxQueueSize:   m.config.MaxSize,
		Workers:        m.config.Workers,
		Closed:         m.closed,
	}
}

// Close 停止接受新請求，等待已排入的請求處理完畢
func (m *Manager) Close() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.closed = true
	close(m.queue)
	m.mu.Unlock()

	m.wg.Wait()
	common.LogInfo("匯入隊列已關閉",
		zap.Int64("processed", atomic.LoadInt64(&m.processed)),
		zap.Int64("failed", atomic.LoadInt64(&m.failed)),
	)
}
