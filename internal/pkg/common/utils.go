package common

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// GenerateUUID 生成 UUID
func GenerateUUID() string {
	return uuid.New().String()
}

// RequestID 取得請求 ID，沒有時產生新的並寫回回應標頭
func RequestID(c *gin.Context) string {
	requestID := c.GetHeader("X-Request-ID")
	if requestID == "" {
		requestID = c.Writer.Header().Get("X-Request-ID")
	}
	if requestID == "" {
		requestID = GenerateUUID()
		c.Header("X-Request-ID", requestID)
	}
	return requestID
}

// WriteError 寫入統一格式的錯誤響應
func WriteError(c *gin.Context, err *CustomError, details string) {
	resp := ErrorResponse{
		Code:    err.Code,
		Message: err.Message,
	}
	if details != "" {
		resp.Details = details
	}
	c.AbortWithStatusJSON(err.Status, resp)
}
