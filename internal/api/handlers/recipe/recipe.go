package recipe

import (
	"fmt"
	"net/http"
	"strings"

	recipeService "recipe-importer/internal/core/recipe"
	"recipe-importer/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BatchItemResponse 批次中單一文件的回應，Result 與 Error 擇一
type BatchItemResponse struct {
	Index  int                           `json:"index"`
	Result *recipeService.ImportResponse `json:"result,omitempty"`
	Error  *common.ErrorResponse         `json:"error,omitempty"`
}

// BatchImportResponse 批次匯入回應
type BatchImportResponse struct {
	Items     []BatchItemResponse `json:"items"`
	Succeeded int                 `json:"succeeded"`
	Failed    int                 `json:"failed"`
}

// Handler 食譜處理程序
type Handler struct {
	importService *recipeService.ImportService
	batchService  *recipeService.BatchService
	saveService   *recipeService.SaveService
}

// NewHandler 創建新的食譜處理程序
func NewHandler(importService *recipeService.ImportService, batchService *recipeService.BatchService, saveService *recipeService.SaveService) *Handler {
	return &Handler{
		importService: importService,
		batchService:  batchService,
		saveService:   saveService,
	}
}

// HandleImport 解析一份貼上的試算表內容
func (h *Handler) HandleImport(c *gin.Context) {
	requestID := common.RequestID(c)

	var req recipeService.ImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.LogWarn("請求格式無效",
			zap.Error(err),
			zap.String("request_id", requestID),
		)
		common.WriteError(c, common.ErrInvalidRequest, "text is required")
		return
	}

	common.LogInfo("開始處理匯入請求",
		zap.String("request_id", requestID),
		zap.String("client_ip", c.ClientIP()),
		zap.Int("input_bytes", len(req.Text)),
	)

	resp, err := h.importService.Import(c.Request.Context(), req.Text)
	if err != nil {
		apiErr, details := errorFor(err)
		common.LogWarn("匯入失敗",
			zap.Error(err),
			zap.String("request_id", requestID),
		)
		common.WriteError(c, apiErr, details)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// HandleImportBatch 平行解析多份貼上內容，回應順序與輸入一致
func (h *Handler) HandleImportBatch(c *gin.Context) {
	requestID := common.RequestID(c)

	var req recipeService.BatchImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.WriteError(c, common.ErrInvalidRequest, "documents is required")
		return
	}
	if len(req.Documents) == 0 {
		common.WriteError(c, common.ErrInvalidRequest, "documents must not be empty")
		return
	}
	if limit := h.batchService.MaxBatch(); len(req.Documents) > limit {
		common.WriteError(c, common.ErrInvalidRequest, fmt.Sprintf("at most %d documents per batch", limit))
		return
	}

	common.LogInfo("開始處理批次匯入",
		zap.String("request_id", requestID),
		zap.Int("documents", len(req.Documents)),
	)

	items := h.batchService.ImportBatch(c.Request.Context(), req.Documents)
	resp := BatchImportResponse{Items: make([]BatchItemResponse, len(items))}
	for i, item := range items {
		resp.Items[i].Index = item.Index
		if item.Err != nil {
			apiErr, details := errorFor(item.Err)
			resp.Items[i].Error = &common.ErrorResponse{
				Code:    apiErr.Code,
				Message: apiErr.Message,
				Details: details,
			}
			resp.Failed++
			continue
		}
		resp.Items[i].Result = recipeService.NewImportResponse(item.Result, false)
		resp.Succeeded++
	}

	c.JSON(http.StatusOK, resp)
}

// HandleSave 審核後送出儲存
func (h *Handler) HandleSave(c *gin.Context) {
	requestID := common.RequestID(c)

	// 審核後的食譜直接送往下游，拼錯的欄位名稱不可默默忽略
	var req recipeService.SaveRequest
	if err := common.DecodeJSONStrict(c.Request.Body, &req); err != nil {
		common.LogWarn("儲存請求格式無效",
			zap.Error(err),
			zap.String("request_id", requestID),
		)
		common.WriteError(c, common.ErrInvalidRequest, err.Error())
		return
	}

	resp, err := h.saveService.Save(c.Request.Context(), req)
	if err != nil {
		apiErr, details := errorFor(err)
		common.LogWarn("儲存失敗",
			zap.Error(err),
			zap.String("request_id", requestID),
			zap.String("recipe_id", strings.TrimSpace(req.Recipe.RecipeID)),
		)
		common.WriteError(c, apiErr, details)
		return
	}

	c.JSON(http.StatusOK, resp)
}
