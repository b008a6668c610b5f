package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"recipe-importer/internal/pkg/common"
)

// errBodyTooLarge 請求體超過上限
var errBodyTooLarge = common.NewError("BODY_TOO_LARGE", "請求內容過大", http.StatusRequestEntityTooLarge, nil)

// BodySizeLimit 限制請求體大小的中間件
// 沒有 Content-Length 的請求由 MaxBytesReader 在讀取時截斷。
func BodySizeLimit(maxSize int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxSize {
			common.LogWarn("Request body too large",
				zap.Int64("content_length", c.Request.ContentLength),
				zap.Int64("max_size", maxSize),
				zap.String("client_ip", c.ClientIP()),
				zap.String("path", c.Request.URL.Path),
				zap.String("request_id", common.RequestID(c)),
			)
			common.WriteError(c, errBodyTooLarge, "")
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxSize)
		c.Next()
	}
}
