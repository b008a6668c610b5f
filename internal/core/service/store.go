package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"recipe-importer/internal/infrastructure/config"
	"recipe-importer/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// ErrStoreNotConfigured 未設定儲存服務位址
var ErrStoreNotConfigured = errors.New("recipe store is not configured")

// StoreError 儲存服務回應非 2xx
type StoreError struct {
	StatusCode int
	Body       string
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("recipe store returned %d: %s", e.StatusCode, e.Body)
}

// SaveResponse 儲存服務的回應
type SaveResponse struct {
	RecipeID string `json:"recipeId"`
	Created  bool   `json:"created"`
}

// RecipeStore 外部的食譜建立/更新服務
type RecipeStore struct {
	client  *resty.Client
	enabled bool
}

// NewRecipeStore 創建儲存服務客戶端
func NewRecipeStore(cfg config.StoreConfig) *RecipeStore {
	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("User-Agent", "recipe-importer")
	if cfg.APIKey != "" {
		client.SetAuthToken(cfg.APIKey)
	}

	return &RecipeStore{
		client:  client,
		enabled: cfg.Enabled(),
	}
}

// Enabled 是否設定了儲存服務
func (s *RecipeStore) Enabled() bool {
	return s != nil && s.enabled
}

// ValidateForSave 儲存前的必要欄位檢查，解析時只會產生警告
func ValidateForSave(recipe *common.Recipe) error {
	if recipe == nil {
		return common.NewValidationError("recipe is required")
	}
	if strings.TrimSpace(recipe.Name) == "" {
		return common.NewFieldValidationError("name", "name is required")
	}
	if len(recipe.DaysAvailable) == 0 {
		return common.NewFieldValidationError("daysAvailable", "daysAvailable must not be empty")
	}
	if strings.TrimSpace(recipe.RecipeID) == "" {
		return common.NewFieldValidationError("recipeId", "recipeId is required")
	}
	return nil
}

// Save 驗證後以 PUT 寫入儲存服務；recipeId 的唯一性由儲存服務負責
func (s *RecipeStore) Save(ctx context.Context, recipe *common.Recipe) (*SaveResponse, error) {
	if err := ValidateForSave(recipe); err != nil {
		return nil, err
	}
	if !s.Enabled() {
		return nil, ErrStoreNotConfigured
	}

	var result SaveResponse
	resp, err := s.client.R().
		SetContext(ctx).
		SetBody(recipe).
		SetResult(&result).
		Put("/recipes/" + url.PathEscape(recipe.RecipeID))
	if err != nil {
		return nil, fmt.Errorf("failed to send request to recipe store: %w", err)
	}

	if resp.IsError() {
		common.LogWarn("儲存服務拒絕請求",
			zap.String("recipe_id", recipe.RecipeID),
			zap.Int("status", resp.StatusCode()),
		)
		return nil, &StoreError{StatusCode: resp.StatusCode(), Body: strings.TrimSpace(resp.String())}
	}

	if result.RecipeID == "" {
		result.RecipeID = recipe.RecipeID
	}
	common.LogInfo("食譜已儲存",
		zap.String("recipe_id", result.RecipeID),
		zap.Bool("created", result.Created),
	)
	return &result, nil
}
