package parser

import (
	"fmt"
	"regexp"
	"strings"

	"recipe-importer/internal/pkg/common"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const defaultSubRecipeName = "Sub Recipe"

var (
	// 名稱後綴的重量標示，例如 "1 KG"
	weightQualifierPattern = regexp.MustCompile(`(?i)\s*\b(\d+(?:[.,]\d+)?\s*kg)\b\.?`)
	// "(Sub-Recipe)" 標示
	subRecipeQualifierPattern = regexp.MustCompile(`(?i)\s*\(\s*sub[\s-]?recipe\s*\)`)
	// 前後的 "Ingredients" 字樣
	ingredientsWordPattern = regexp.MustCompile(`(?i)^\s*ingredients?\b|\bingredients?\s*$`)
	// 標題中的破折號：前後有空白的 "-"，或 en/em dash
	titleDashPattern = regexp.MustCompile(`\s+-\s*|[–—]\s*`)
	spacePattern     = regexp.MustCompile(`\s+`)
)

// registry 依建立順序保存子食譜
type registry struct {
	subs []*common.SubRecipe
}

// add 建立新的子食譜並回傳其索引
func (g *registry) add(name, yield string) int {
	idx := len(g.subs)
	slug := Slugify(name)
	id := fmt.Sprintf("sub-%d", idx+1)
	if slug != "" {
		id += "-" + slug
	}
	g.subs = append(g.subs, &common.SubRecipe{
		ID:          id,
		Name:        name,
		Yield:       yield,
		Ingredients: []common.Ingredient{},
		Preparation: []common.PreparationStep{},
	})
	return idx
}

func (g *registry) get(idx int) *common.SubRecipe {
	if idx < 0 || idx >= len(g.subs) {
		return nil
	}
	return g.subs[idx]
}

func (g *registry) names() []string {
	names := make([]string, len(g.subs))
	for i, s := range g.subs {
		names[i] = s.Name
	}
	return names
}

// NormalizeName 移除 "1 KG" 與 "(Sub-Recipe)" 標示、合併空白並轉為小寫
func NormalizeName(name string) string {
	name = weightQualifierPattern.ReplaceAllString(name, " ")
	name = subRecipeQualifierPattern.ReplaceAllString(name, " ")
	name = strings.TrimSpace(spacePattern.ReplaceAllString(name, " "))
	name = strings.Trim(name, " :-")
	return cases.Lower(language.Und).String(name)
}

// MatchSubRecipe 找出第一個名稱互相包含的子食譜
func MatchSubRecipe(candidate string, names []string) (int, bool) {
	want := NormalizeName(candidate)
	if want == "" {
		return -1, false
	}
	for i, name := range names {
		have := NormalizeName(name)
		if have == "" {
			continue
		}
		if strings.Contains(have, want) || strings.Contains(want, have) {
			return i, true
		}
	}
	return -1, false
}

// PositionalIndex 將標題字母（A、B、C…）轉為從 0 開始的索引
func PositionalIndex(letter string, count int) (int, bool) {
	if len(letter) != 1 {
		return -1, false
	}
	c := letter[0]
	if c >= 'a' && c <= 'z' {
		c -= 'a' - 'A'
	}
	if c < 'A' || c > 'Z' {
		return -1, false
	}
	idx := int(c - 'A')
	if idx >= count {
		return -1, false
	}
	return idx, true
}

// subRecipeNameFromHeader 從食材區標題取出子食譜名稱與份量
// 名稱取破折號之後、"1 KG" 或 "(Sub-Recipe)" 之前的文字。
func subRecipeNameFromHeader(header string) (name, yield string) {
	loc := titleDashPattern.FindStringIndex(header)
	if loc == nil {
		return defaultSubRecipeName, ""
	}
	name = header[loc[1]:]

	// 後綴可能以任意順序出現，重複剝除直到穩定
	for {
		before := name
		name = strings.TrimSpace(name)
		if m := subRecipeQualifierPattern.FindStringIndex(name); m != nil && m[1] == len(name) {
			name = name[:m[0]]
		}
		if m := weightQualifierPattern.FindStringSubmatchIndex(name); m != nil && strings.TrimSpace(name[m[1]:]) == "" {
			if yield == "" {
				yield = strings.ToUpper(strings.Join(strings.Fields(name[m[2]:m[3]]), " "))
			}
			name = name[:m[0]]
		}
		name = ingredientsWordPattern.ReplaceAllString(name, "")
		name = strings.Trim(name, " :-–—")
		if name == before {
			break
		}
	}

	if name == "" {
		name = defaultSubRecipeName
	}
	return name, yield
}
