package common

import (
	"encoding/json"
	"strings"
)

// Recipe 匯入後的完整食譜
// 注意：欄位名稱需與下游 create/update recipe 介面一致（camelCase）
type Recipe struct {
	RecipeID              string                   `json:"recipeId"`
	Name                  string                   `json:"name"`
	Category              string                   `json:"category,omitempty"`
	Station               string                   `json:"station,omitempty"`
	Code                  string                   `json:"code,omitempty"`
	Yield                 string                   `json:"yield,omitempty"`
	DaysAvailable         []string                 `json:"daysAvailable"`
	PrepTime              string                   `json:"prepTime,omitempty"`
	CookTime              string                   `json:"cookTime,omitempty"`
	TotalTime             string                   `json:"totalTime,omitempty"`
	MainIngredients       []MainIngredient         `json:"mainIngredients"`
	SubRecipes            []SubRecipe              `json:"subRecipes"`
	Preparation           []PreparationStep        `json:"preparation"`
	MachinesTools         []MachineToolRequirement `json:"machinesTools"`
	QualitySpecifications []QualitySpecification   `json:"qualitySpecifications"`
	PackingLabeling       PackingLabeling          `json:"packingLabeling"`
	Presentation          Presentation             `json:"presentation"`
}

// SubRecipe 子食譜（例如先行製作的醬汁）
type SubRecipe struct {
	ID                    string                   `json:"id"`
	Name                  string                   `json:"name"`
	Yield                 string                   `json:"yield,omitempty"`
	Ingredients           []Ingredient             `json:"ingredients"`
	Preparation           []PreparationStep        `json:"preparation"`
	Notes                 string                   `json:"notes,omitempty"`
	MachinesTools         []MachineToolRequirement `json:"machinesTools,omitempty"`
	QualitySpecifications []QualitySpecification   `json:"qualitySpecifications,omitempty"`
	PackingLabeling       *PackingLabeling         `json:"packingLabeling,omitempty"`
}

// MainIngredient 主食譜食材，數量為數值
type MainIngredient struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
	Notes    string  `json:"notes,omitempty"`
}

// Ingredient 子食譜食材，數量保留原始字串
type Ingredient struct {
	Item          string `json:"item"`
	Quantity      string `json:"quantity"`
	Unit          string `json:"unit"`
	Specification string `json:"specification,omitempty"`
}

// PreparationStep 製作步驟
type PreparationStep struct {
	Step        int    `json:"step"`
	Instruction string `json:"instruction"`
	Time        string `json:"time,omitempty"`
	Critical    bool   `json:"critical"`
	Hint        string `json:"hint,omitempty"`
}

// MachineToolRequirement 所需機器與工具
type MachineToolRequirement struct {
	Name    string `json:"name"`
	Setting string `json:"setting,omitempty"`
	Purpose string `json:"purpose,omitempty"`
	Notes   string `json:"notes,omitempty"`
}

// QualitySpecification 品質規格
// Parameter、Texture、TasteFlavorProfile、Aroma 為舊版欄位，保留給舊的使用端
type QualitySpecification struct {
	Aspect             string `json:"aspect"`
	Specification      string `json:"specification,omitempty"`
	CheckMethod        string `json:"checkMethod,omitempty"`
	Parameter          string `json:"parameter,omitempty"`
	Texture            string `json:"texture,omitempty"`
	TasteFlavorProfile string `json:"tasteFlavorProfile,omitempty"`
	Aroma              string `json:"aroma,omitempty"`
	Appearance         string `json:"appearance,omitempty"`
}

// UnmarshalJSON 同時接受新舊欄位名稱，並整理成同一種結構
func (q *QualitySpecification) UnmarshalJSON(data []byte) error {
	var raw struct {
		Aspect             string `json:"aspect"`
		Name               string `json:"name"`
		Parameter          string `json:"parameter"`
		Specification      string `json:"specification"`
		CheckMethod        string `json:"checkMethod"`
		Texture            string `json:"texture"`
		TasteFlavorProfile string `json:"tasteFlavorProfile"`
		TasteAromaProfile  string `json:"tasteAromaProfile"`
		Aroma              string `json:"aroma"`
		Appearance         string `json:"appearance"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*q = QualitySpecification{
		Aspect:             FirstNonEmpty(raw.Aspect, raw.Name, raw.Parameter),
		Specification:      raw.Specification,
		CheckMethod:        raw.CheckMethod,
		Parameter:          raw.Parameter,
		Texture:            raw.Texture,
		TasteFlavorProfile: FirstNonEmpty(raw.TasteFlavorProfile, raw.TasteAromaProfile),
		Aroma:              raw.Aroma,
		Appearance:         raw.Appearance,
	}
	q.Normalize()
	return nil
}

// Normalize 補齊新舊欄位之間的對應
func (q *QualitySpecification) Normalize() {
	if q.Aspect == "" {
		q.Aspect = q.Parameter
	}
	if q.Parameter == "" {
		q.Parameter = q.Aspect
	}
	if q.Specification == "" {
		q.Specification = FirstNonEmpty(q.Texture, q.TasteFlavorProfile, q.Aroma, q.Appearance)
	}
}

// PackingLabeling 包裝與標籤資訊
type PackingLabeling struct {
	PackingType       string   `json:"packingType,omitempty"`
	ServiceItems      []string `json:"serviceItems,omitempty"`
	LabelRequirements string   `json:"labelRequirements,omitempty"`
	StorageCondition  string   `json:"storageCondition,omitempty"`
	ShelfLife         string   `json:"shelfLife,omitempty"`
}

// IsZero 是否尚未填入任何資料
func (p PackingLabeling) IsZero() bool {
	return p.PackingType == "" && len(p.ServiceItems) == 0 && p.LabelRequirements == "" &&
		p.StorageCondition == "" && p.ShelfLife == ""
}

// Presentation 展示用素材（佔位圖片）
type Presentation struct {
	Images []string `json:"images"`
}

// FirstNonEmpty 回傳第一個非空白字串
func FirstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
