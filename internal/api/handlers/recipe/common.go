package recipe

import (
	"context"
	"errors"

	"recipe-importer/internal/core/parser"
	"recipe-importer/internal/core/service"
	"recipe-importer/internal/pkg/common"
)

// errorFor 將服務層錯誤轉為 API 錯誤與補充說明
func errorFor(err error) (*common.CustomError, string) {
	var ce *common.CustomError
	var se *service.StoreError
	switch {
	case errors.Is(err, parser.ErrTooShortInput):
		return common.ErrTooShortInput, err.Error()
	case errors.Is(err, parser.ErrInputTooLarge):
		return common.ErrInputTooLarge, err.Error()
	case common.IsValidationError(err):
		return common.ErrMissingRequiredField, err.Error()
	case errors.Is(err, service.ErrStoreNotConfigured):
		return common.ErrServiceUnavailable, err.Error()
	case errors.As(err, &se):
		return common.ErrStore, se.Error()
	case errors.Is(err, context.DeadlineExceeded):
		return common.ErrGatewayTimeout, ""
	case errors.As(err, &ce):
		return ce, ""
	default:
		return common.ErrInternalError, ""
	}
}
