package common

import (
	"errors"
	"net/http"
)

// ErrorResponse 定義 API 錯誤響應結構
type ErrorResponse struct {
	Code    string `json:"code"`              // 錯誤代碼
	Message string `json:"message"`           // 錯誤信息
	Details string `json:"details,omitempty"` // 詳細信息
}

// CustomError 定義自定義錯誤類型
type CustomError struct {
	Code    string // 錯誤代碼
	Message string // 錯誤信息
	Err     error  // 原始錯誤
	Status  int    // HTTP 狀態碼
}

func (e *CustomError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

// Unwrap 取得原始錯誤
func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewError 創建新的自定義錯誤
func NewError(code string, message string, status int, err error) *CustomError {
	return &CustomError{
		Code:    code,
		Message: message,
		Status:  status,
		Err:     err,
	}
}

// ValidationError 表示驗證錯誤
type ValidationError struct {
	Field   string
	message string
}

// Error 實現 error 介面
func (e *ValidationError) Error() string {
	return e.message
}

// NewValidationError 創建新的驗證錯誤
func NewValidationError(message string) error {
	return &ValidationError{
		message: message,
	}
}

// NewFieldValidationError 創建欄位缺漏的驗證錯誤
func NewFieldValidationError(field, message string) error {
	return &ValidationError{
		Field:   field,
		message: message,
	}
}

// IsValidationError 檢查是否為驗證錯誤
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// 預定義錯誤代碼
const (
	// 客戶端錯誤 (4xx)
	ErrCodeInvalidRequest       = "INVALID_REQUEST"        // 400
	ErrCodeNotFound             = "NOT_FOUND"              // 404
	ErrCodeTooManyRequests      = "TOO_MANY_REQUESTS"      // 429
	ErrCodeTooShortInput        = "TOO_SHORT_INPUT"        // 422
	ErrCodeInputTooLarge        = "INPUT_TOO_LARGE"        // 413
	ErrCodeMissingRequiredField = "MISSING_REQUIRED_FIELD" // 422

	// 服務器錯誤 (5xx)
	ErrCodeInternalError      = "INTERNAL_ERROR"      // 500
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE" // 503
	ErrCodeGatewayTimeout     = "GATEWAY_TIMEOUT"     // 504
	ErrCodeStoreError         = "STORE_ERROR"         // 502
)

// 預定義錯誤
var (
	// 客戶端錯誤
	ErrInvalidRequest       = NewError(ErrCodeInvalidRequest, "無效的請求", http.StatusBadRequest, nil)
	ErrNotFound             = NewError(ErrCodeNotFound, "資源不存在", http.StatusNotFound, nil)
	ErrTooManyRequests      = NewError(ErrCodeTooManyRequests, "請求過於頻繁", http.StatusTooManyRequests, nil)
	ErrTooShortInput        = NewError(ErrCodeTooShortInput, "貼上的內容太短，無法辨識食譜", http.StatusUnprocessableEntity, nil)
	ErrInputTooLarge        = NewError(ErrCodeInputTooLarge, "貼上的內容超過列數上限", http.StatusRequestEntityTooLarge, nil)
	ErrMissingRequiredField = NewError(ErrCodeMissingRequiredField, "缺少必要欄位", http.StatusUnprocessableEntity, nil)

	// 服務器錯誤
	ErrInternalError      = NewError(ErrCodeInternalError, "服務器內部錯誤", http.StatusInternalServerError, nil)
	ErrServiceUnavailable = NewError(ErrCodeServiceUnavailable, "服務暫時不可用", http.StatusServiceUnavailable, nil)
	ErrGatewayTimeout     = NewError(ErrCodeGatewayTimeout, "網關超時", http.StatusGatewayTimeout, nil)
	ErrStore              = NewError(ErrCodeStoreError, "食譜儲存服務錯誤", http.StatusBadGateway, nil)

	// 業務錯誤
	ErrCacheFull     = NewError("CACHE_FULL", "緩存已滿", http.StatusServiceUnavailable, nil)
	ErrCacheDisabled = NewError("CACHE_DISABLED", "緩存已禁用", http.StatusServiceUnavailable, nil)
	ErrCacheMiss     = NewError("CACHE_MISS", "緩存未命中", http.StatusNotFound, nil)
	ErrQueueFull     = NewError("QUEUE_FULL", "匯入隊列已滿", http.StatusServiceUnavailable, nil)
	ErrQueueClosed   = NewError("QUEUE_CLOSED", "匯入隊列已關閉", http.StatusServiceUnavailable, nil)
)
