package parser

import (
	"regexp"
	"strings"
)

// section 目前所在的區塊
type section int

const (
	sectionNone section = iota
	sectionInfo
	sectionIngredients
	sectionMachines
	sectionPreparation
	sectionQuality
	sectionPacking
)

func (s section) String() string {
	switch s {
	case sectionInfo:
		return "recipe-info"
	case sectionIngredients:
		return "ingredients"
	case sectionMachines:
		return "machines-tools"
	case sectionPreparation:
		return "preparation"
	case sectionQuality:
		return "quality-specifications"
	case sectionPacking:
		return "packing-labeling"
	default:
		return "none"
	}
}

// headerRule 標題規則：pattern 比對第一個儲存格，成功時執行 apply
// 規則依序比對，第一個符合者生效，順序即優先權。
// info 規則在品質與包裝區塊內不套用，例如 "Final yield" 屬於品質規格。
type headerRule struct {
	name    string
	info    bool
	pattern *regexp.Regexp
	apply   func(st *parseState, r row, m []string)
}

var subRecipeMarkerPattern = regexp.MustCompile(`(?i)sub[\s-]?recipe`)

var headerRules = []headerRule{
	// 食譜基本資料，不切換區塊
	{name: "recipe-name", info: true, pattern: regexp.MustCompile(`(?i)^recipe\s*name\b`), apply: func(st *parseState, r row, _ []string) {
		st.setInfo(&st.recipe.Name, r)
	}},
	{name: "station", info: true, pattern: regexp.MustCompile(`(?i)^station\b`), apply: func(st *parseState, r row, _ []string) {
		st.setInfo(&st.recipe.Station, r)
	}},
	{name: "recipe-code", info: true, pattern: regexp.MustCompile(`(?i)^recipe\s*code\b`), apply: func(st *parseState, r row, _ []string) {
		st.setInfo(&st.recipe.Code, r)
	}},
	{name: "yield", info: true, pattern: regexp.MustCompile(`(?i)^\D*\byield\b`), apply: func(st *parseState, r row, _ []string) {
		if sub := st.registry.get(st.activeSub); sub != nil {
			st.setInfo(&sub.Yield, r)
			return
		}
		st.setInfo(&st.recipe.Yield, r)
	}},
	{name: "category", info: true, pattern: regexp.MustCompile(`(?i)^category\b`), apply: func(st *parseState, r row, _ []string) {
		st.setInfo(&st.recipe.Category, r)
	}},
	{name: "prep-time", info: true, pattern: regexp.MustCompile(`(?i)^prep(aration)?\s+time\b`), apply: func(st *parseState, r row, _ []string) {
		st.setInfo(&st.recipe.PrepTime, r)
	}},
	{name: "cook-time", info: true, pattern: regexp.MustCompile(`(?i)^cook(ing)?\s+time\b`), apply: func(st *parseState, r row, _ []string) {
		st.setInfo(&st.recipe.CookTime, r)
	}},
	{name: "total-time", info: true, pattern: regexp.MustCompile(`(?i)^total\s+time\b`), apply: func(st *parseState, r row, _ []string) {
		st.setInfo(&st.recipe.TotalTime, r)
	}},

	// 區塊標題
	{name: "section-1", pattern: regexp.MustCompile(`(?i)^1[a-z]?\b.*\b(recipe\s+info(rmation)?|details|overview)\b`), apply: func(st *parseState, _ row, _ []string) {
		st.enter(sectionInfo)
	}},
	{name: "section-2", pattern: regexp.MustCompile(`(?i)^2([a-z])?\b.*\bingredients?\b`), apply: func(st *parseState, r row, m []string) {
		st.enter(sectionIngredients)
		header := r.cell(0)
		letter := strings.ToUpper(m[1])
		if (letter != "" && letter != "A") || subRecipeMarkerPattern.MatchString(header) {
			name, yield := subRecipeNameFromHeader(header)
			st.activeSub = st.registry.add(name, yield)
			return
		}
		st.activeSub = -1
	}},
	{name: "section-3", pattern: regexp.MustCompile(`(?i)^3[a-z]?\b.*\b(machines?|tools?|equipment)\b`), apply: func(st *parseState, _ row, _ []string) {
		st.enter(sectionMachines)
		st.activeSub = -1
	}},
	{name: "section-4", pattern: regexp.MustCompile(`(?i)^4[a-z]?\b.*\b(step\s*[-–—]?\s*by\s*[-–—]?\s*step|preparation|method)\b`), apply: func(st *parseState, _ row, _ []string) {
		st.enter(sectionPreparation)
		st.activeSub = -1
		st.prep = prepState{target: -1}
	}},
	{name: "section-5", pattern: regexp.MustCompile(`(?i)^5[a-z]?\b.*\bquality\b`), apply: func(st *parseState, _ row, _ []string) {
		st.enter(sectionQuality)
	}},
	{name: "section-6", pattern: regexp.MustCompile(`(?i)^6[a-z]?\b.*\b(packing|packaging|label(l)?ing)\b`), apply: func(st *parseState, _ row, _ []string) {
		st.enter(sectionPacking)
	}},
}

// classify 依序套用標題規則，回傳該列是否為標題列
func (st *parseState) classify(r row) bool {
	first := r.cell(0)
	if first == "" {
		return false
	}
	inSpecs := st.section == sectionQuality || st.section == sectionPacking
	for _, rule := range headerRules {
		if rule.info && inSpecs {
			continue
		}
		m := rule.pattern.FindStringSubmatch(first)
		if m == nil {
			continue
		}
		rule.apply(st, r, m)
		return true
	}
	return false
}

// enter 切換區塊；離開準備步驟時結算尚未回報的略過區段
func (st *parseState) enter(s section) {
	st.closePrepBlock()
	st.section = s
}

// setInfo 取第二格，沒有時取第三格；兩格皆空則保留原值
func (st *parseState) setInfo(dst *string, r row) {
	if v := firstCell(r, 1, 2); v != "" {
		*dst = v
	}
}

func firstCell(r row, idx ...int) string {
	for _, i := range idx {
		if v := r.cell(i); v != "" {
			return v
		}
	}
	return ""
}

// columnTitles 表頭列的第一格，出現時整列略過
var columnTitles = map[string]bool{
	"ingredient": true, "ingredients": true, "item": true, "items": true, "name": true,
	"machine": true, "machines": true, "tool": true, "tools": true, "machine/tool": true,
	"machine / tool": true, "machines/tools": true, "equipment": true,
	"step": true, "steps": true, "step no": true, "step no.": true, "step #": true,
	"#": true, "no": true, "no.": true,
	"aspect": true, "parameter": true, "quality aspect": true, "attribute": true,
}

func isColumnTitle(first string) bool {
	return columnTitles[strings.ToLower(strings.TrimSpace(first))]
}
