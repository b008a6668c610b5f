package parser

import (
	"fmt"
	"strconv"
	"strings"

	"recipe-importer/internal/pkg/common"
)

// extractIngredient 食材列：名稱 | 數量 | 單位 | 備註
func (st *parseState) extractIngredient(r row) {
	name, qty, unit, notes := r.cell(0), r.cell(1), r.cell(2), r.cell(3)

	if sub := st.registry.get(st.activeSub); sub != nil {
		if isNotesLabel(name) {
			sub.Notes = firstCell(r, 1, 2, 3)
			return
		}
		if qty == "" && unit == "" {
			return
		}
		sub.Ingredients = append(sub.Ingredients, common.Ingredient{
			Item:          name,
			Quantity:      qty,
			Unit:          unit,
			Specification: notes,
		})
		return
	}

	if qty == "" && unit == "" {
		return
	}
	st.recipe.MainIngredients = append(st.recipe.MainIngredients, common.MainIngredient{
		Name:     name,
		Quantity: st.parseQuantity(name, qty),
		Unit:     unit,
		Notes:    notes,
	})
}

// parseQuantity 轉為數值，失敗時回傳 0 並記錄警告
func (st *parseState) parseQuantity(name, raw string) float64 {
	if raw == "" {
		return 0
	}
	q, err := ParseQuantity(raw)
	if err != nil {
		st.warn(WarnInvalidQuantity, st.row, fmt.Sprintf("quantity %q for %q is not a number; using 0", raw, name))
		return 0
	}
	return q
}

// ParseQuantity 解析數量，接受小數逗號與簡單分數（例如 "1,5"、"1/2"）
func ParseQuantity(raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	if num, den, ok := strings.Cut(s, "/"); ok {
		n, err := strconv.ParseFloat(strings.TrimSpace(num), 64)
		if err != nil {
			return 0, err
		}
		d, err := strconv.ParseFloat(strings.TrimSpace(den), 64)
		if err != nil {
			return 0, err
		}
		if d == 0 {
			return 0, fmt.Errorf("zero denominator in %q", raw)
		}
		return n / d, nil
	}
	return strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
}

func isNotesLabel(cell string) bool {
	c := strings.TrimSuffix(strings.TrimSpace(cell), ":")
	return strings.EqualFold(c, "notes") || strings.EqualFold(c, "note")
}

// extractMachine 機器工具列：名稱 | 設定 | 用途 | 備註
func (st *parseState) extractMachine(r row) {
	name := r.cell(0)
	if name == "" {
		return
	}
	st.recipe.MachinesTools = append(st.recipe.MachinesTools, common.MachineToolRequirement{
		Name:    name,
		Setting: r.cell(1),
		Purpose: r.cell(2),
		Notes:   r.cell(3),
	})
}

// extractQuality 品質規格列：項目 | 規格 | 檢查方式
// 規格同時寫入舊版欄位，讓舊的使用端仍可讀取
func (st *parseState) extractQuality(r row) {
	aspect := r.cell(0)
	if aspect == "" {
		return
	}
	spec := r.cell(1)
	q := common.QualitySpecification{
		Aspect:             aspect,
		Specification:      spec,
		CheckMethod:        r.cell(2),
		Parameter:          aspect,
		Texture:            spec,
		TasteFlavorProfile: spec,
		Aroma:              spec,
	}

	if sub := st.registry.get(st.activeSub); sub != nil {
		sub.QualitySpecifications = append(sub.QualitySpecifications, q)
		return
	}
	st.recipe.QualitySpecifications = append(st.recipe.QualitySpecifications, q)
}

// packingFields 包裝區塊的標籤與對應欄位
var packingFields = []struct {
	label string
	set   func(p *common.PackingLabeling, v string)
}{
	{"Packing Type", func(p *common.PackingLabeling, v string) { p.PackingType = v }},
	{"Label Requirements", func(p *common.PackingLabeling, v string) { p.LabelRequirements = v }},
	{"Storage Condition", func(p *common.PackingLabeling, v string) { p.StorageCondition = v }},
	{"Shelf Life", func(p *common.PackingLabeling, v string) { p.ShelfLife = v }},
	{"Service Items", func(p *common.PackingLabeling, v string) { p.ServiceItems = splitList(v) }},
}

// extractPacking 以第一格的標籤決定寫入哪個欄位
func (st *parseState) extractPacking(r row) {
	label := strings.TrimSuffix(r.cell(0), ":")
	value := firstCell(r, 1, 2)
	if value == "" {
		return
	}
	for _, f := range packingFields {
		if !strings.EqualFold(label, f.label) {
			continue
		}
		f.set(st.activePacking(), value)
		return
	}
}

// activePacking 子食譜食材區仍在作用時寫入子食譜，否則寫入主食譜
func (st *parseState) activePacking() *common.PackingLabeling {
	if sub := st.registry.get(st.activeSub); sub != nil {
		if sub.PackingLabeling == nil {
			sub.PackingLabeling = &common.PackingLabeling{}
		}
		return sub.PackingLabeling
	}
	return &st.recipe.PackingLabeling
}

func splitList(v string) []string {
	parts := strings.FieldsFunc(v, func(r rune) bool { return r == ',' || r == ';' })
	items := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			items = append(items, p)
		}
	}
	return items
}
