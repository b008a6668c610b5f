package recipe

import (
	"recipe-importer/internal/core/parser"
	"recipe-importer/internal/pkg/common"
)

// ImportRequest 貼上的試算表內容
type ImportRequest struct {
	Text string `json:"text" binding:"required"`
}

// ImportResponse 匯入結果：草稿食譜與交給人工確認的警告
type ImportResponse struct {
	Recipe     common.Recipe    `json:"recipe"`
	Warnings   []string         `json:"warnings"`
	Details    []parser.Warning `json:"warningDetails"`
	Incomplete bool             `json:"incomplete"`
	Stats      parser.Stats     `json:"stats"`
	Cached     bool             `json:"cached"`
}

// NewImportResponse 由解析結果組成回應
func NewImportResponse(res *parser.Result, cached bool) *ImportResponse {
	return &ImportResponse{
		Recipe:     res.Recipe,
		Warnings:   res.Messages(),
		Details:    res.Warnings,
		Incomplete: res.Incomplete,
		Stats:      res.Stats,
		Cached:     cached,
	}
}

// BatchImportRequest 一次匯入多份貼上內容
type BatchImportRequest struct {
	Documents []string `json:"documents" binding:"required"`
}

// BatchItem 批次中單一文件的結果，Err 與 Result 擇一
type BatchItem struct {
	Index  int
	Result *parser.Result
	Err    error
}

// SaveRequest 審核後送出儲存的食譜
// DaysAvailable 由審核步驟提供，有值時覆寫食譜中的欄位。
type SaveRequest struct {
	Recipe        common.Recipe `json:"recipe"`
	DaysAvailable []string      `json:"daysAvailable,omitempty"`
}
