package recipe

import (
	"context"
	"strings"

	"recipe-importer/internal/core/parser"
	"recipe-importer/internal/core/service"
)

// SaveService 將審核後的食譜交給外部儲存服務
type SaveService struct {
	store *service.RecipeStore
}

// NewSaveService 創建儲存服務
func NewSaveService(store *service.RecipeStore) *SaveService {
	return &SaveService{store: store}
}

// Save 補齊審核步驟提供的欄位後送出；必要欄位缺漏時回傳驗證錯誤
func (s *SaveService) Save(ctx context.Context, req SaveRequest) (*service.SaveResponse, error) {
	recipe := req.Recipe
	if len(req.DaysAvailable) > 0 {
		recipe.DaysAvailable = req.DaysAvailable
	}
	recipe.Name = strings.TrimSpace(recipe.Name)
	if recipe.RecipeID == "" {
		recipe.RecipeID = parser.Slugify(recipe.Name)
	}
	for i := range recipe.QualitySpecifications {
		recipe.QualitySpecifications[i].Normalize()
	}
	return s.store.Save(ctx, &recipe)
}

// Enabled 是否設定了儲存服務
func (s *SaveService) Enabled() bool {
	return s.store.Enabled()
}
