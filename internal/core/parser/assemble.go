package parser

import (
	"regexp"
	"strings"

	"recipe-importer/internal/pkg/common"
)

// slugSplitPattern 非英數字元的連續區段
var slugSplitPattern = regexp.MustCompile(`[^a-z0-9]+`)

// placeholderImages 每份食譜附上的佔位圖片
var placeholderImages = []string{"cover", "plating", "packaging"}

// Slugify 轉為小寫，非英數字元的連續區段合併為單一連字號
func Slugify(name string) string {
	s := slugSplitPattern.ReplaceAllString(strings.ToLower(name), "-")
	return strings.Trim(s, "-")
}

// renumber 依清單順序重新編號為 1..N
func renumber(steps []common.PreparationStep) {
	for i := range steps {
		steps[i].Step = i + 1
	}
}

// PlaceholderImages 依 recipeId 產生固定的佔位圖片位置
func PlaceholderImages(baseURL, recipeID string) []string {
	if recipeID == "" {
		return []string{}
	}
	baseURL = strings.TrimRight(baseURL, "/")
	images := make([]string, len(placeholderImages))
	for i, name := range placeholderImages {
		images[i] = baseURL + "/" + recipeID + "/" + name + ".png"
	}
	return images
}

// assemble 組合最終的食譜與警告
func (st *parseState) assemble(opts Options) *Result {
	recipe := st.recipe
	recipe.Name = strings.TrimSpace(recipe.Name)
	recipe.RecipeID = Slugify(recipe.Name)

	incomplete := false
	if recipe.RecipeID == "" {
		incomplete = true
		st.warn(WarnMissingRequiredField, 0, "recipe name is empty; recipeId could not be derived")
	}

	recipe.SubRecipes = make([]common.SubRecipe, len(st.registry.subs))
	for i, sub := range st.registry.subs {
		recipe.SubRecipes[i] = *sub
	}

	if recipe.DaysAvailable == nil {
		recipe.DaysAvailable = []string{}
	}
	if recipe.MainIngredients == nil {
		recipe.MainIngredients = []common.MainIngredient{}
	}
	if recipe.Preparation == nil {
		recipe.Preparation = []common.PreparationStep{}
	}
	if recipe.MachinesTools == nil {
		recipe.MachinesTools = []common.MachineToolRequirement{}
	}
	if recipe.QualitySpecifications == nil {
		recipe.QualitySpecifications = []common.QualitySpecification{}
	}
	recipe.Presentation = common.Presentation{
		Images: PlaceholderImages(opts.PlaceholderBaseURL, recipe.RecipeID),
	}

	warnings := st.warnings
	if warnings == nil {
		warnings = []Warning{}
	}
	return &Result{
		Recipe:     recipe,
		Warnings:   warnings,
		Incomplete: incomplete,
		Stats:      st.stats,
	}
}
