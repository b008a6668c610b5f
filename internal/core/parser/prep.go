package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"recipe-importer/internal/pkg/common"
)

// prepContext 準備步驟目前要寫入的對象
type prepContext int

const (
	ctxNone      prepContext = iota // 尚未決定
	ctxMain                         // 主食譜
	ctxSub                          // 某個子食譜
	ctxAmbiguous                    // 無法判斷，略過
)

// prepState 準備步驟區塊的解析狀態，進入第 4 區時重設
type prepState struct {
	ctx      prepContext
	target   int // ctxSub 時的子食譜索引
	skipping *skippedBlock
}

// skippedBlock 無法判斷歸屬的區塊，結束時彙整成一筆警告
type skippedBlock struct {
	kind      WarningKind
	row       int
	reference string
	skipped   int
}

// headerKind 準備步驟標題的種類
type headerKind int

const (
	headerOther headerKind = iota
	headerSubRecipe
	headerFinal
	headerSubPreparation
)

// prepHeader 解析後的 "A. Sub-Recipe: Sauce Tomato" 類標題
type prepHeader struct {
	kind   headerKind
	letter string
	title  string
	name   string
}

var (
	letterTitlePattern    = regexp.MustCompile(`^([A-Za-z])[.)]\s*(.+)$`)
	subRecipeTitlePattern = regexp.MustCompile(`(?i)^sub[\s-]?recipe\b\s*[:\-–—]?\s*(.*?)\s*:?\s*$`)
	finalTitlePattern     = regexp.MustCompile(`(?i)^(final|main)\b.*\b(recipe|assembly)\b|^final\b`)
	subPrepTitlePattern   = regexp.MustCompile(`(?i)^sub[\s-]?prep(aration)?\b\s*[:\-–—]?\s*(.*?)\s*:?\s*$`)

	// 內嵌的 "Step N – " 標記：大寫 Step，破折號前後需有空白
	stepMarkerPattern = regexp.MustCompile(`\bStep\s+(\d+)(?:\s+[-–—]\s+|\s*:\s*|\s+[-–—]$)`)
	// 第一格只有步驟編號，例如 "3"、"3."、"Step 3"
	stepLabelPattern = regexp.MustCompile(`(?i)^(?:step\s*)?(\d+)\s*[.):\-–—]?$`)
)

// parsePrepHeader 判斷第一格是否為準備步驟的標題
func parsePrepHeader(cell string) (prepHeader, bool) {
	h := prepHeader{title: strings.TrimSpace(cell)}
	if m := letterTitlePattern.FindStringSubmatch(h.title); m != nil {
		h.letter = strings.ToUpper(m[1])
		h.title = strings.TrimSpace(m[2])
	}

	hasColon := strings.Contains(h.title, ":")
	if h.letter == "" && !hasColon {
		return prepHeader{}, false
	}

	switch {
	case subRecipeTitlePattern.MatchString(h.title):
		h.kind = headerSubRecipe
		h.name = subRecipeTitlePattern.FindStringSubmatch(h.title)[1]
	case finalTitlePattern.MatchString(h.title):
		h.kind = headerFinal
	case subPrepTitlePattern.MatchString(h.title):
		h.kind = headerSubPreparation
		h.name = subPrepTitlePattern.FindStringSubmatch(h.title)[2]
	case h.letter != "" && hasColon:
		h.kind = headerOther
	default:
		return prepHeader{}, false
	}
	h.name = strings.Trim(strings.TrimSpace(h.name), ":")
	return h, true
}

// stepSegment 一個儲存格中切出的單一步驟
type stepSegment struct {
	number int // 內嵌標記上的編號，沒有時為 0
	text   string
}

// splitSteps 依 "Step N – " 標記切分儲存格，並移除標記文字
func splitSteps(text string) []stepSegment {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	locs := stepMarkerPattern.FindAllStringSubmatchIndex(text, -1)
	if len(locs) == 0 {
		return []stepSegment{{text: text}}
	}

	segments := make([]stepSegment, 0, len(locs)+1)
	if lead := strings.TrimSpace(text[:locs[0][0]]); lead != "" {
		segments = append(segments, stepSegment{text: lead})
	}
	for i, loc := range locs {
		end := len(text)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		body := strings.TrimSpace(text[loc[1]:end])
		if body == "" {
			continue
		}
		n, _ := strconv.Atoi(text[loc[2]:loc[3]])
		segments = append(segments, stepSegment{number: n, text: body})
	}
	return segments
}

// stepLabel 第一格為步驟編號時回傳該編號
func stepLabel(cell string) (int, bool) {
	m := stepLabelPattern.FindStringSubmatch(strings.TrimSpace(cell))
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

// looksLikeStep 尚未進入任何區塊時，判斷該列是否為準備步驟
func looksLikeStep(r row) bool {
	if _, ok := stepLabel(r.cell(0)); ok {
		return true
	}
	return stepMarkerPattern.MatchString(r.text())
}

// routePreparation 決定一列準備步驟歸屬主食譜、子食譜，或略過
func (st *parseState) routePreparation(r row) {
	if h, ok := parsePrepHeader(r.cell(0)); ok {
		st.closePrepBlock()
		st.applyPrepHeader(h)
		if desc := r.cell(1); desc != "" {
			st.appendSteps(splitSteps(desc), 0, r)
		}
		return
	}

	label, hasLabel := stepLabel(r.cell(0))
	text := r.cell(1)
	if text == "" && !hasLabel {
		text = r.cell(0)
	}
	if text == "" {
		return
	}

	// 尚未有任何標題時，視為主食譜的第一個步驟
	if st.prep.ctx == ctxNone {
		st.prep.ctx = ctxMain
		st.stats.AutoMain = true
	}
	st.appendSteps(splitSteps(text), label, r)
}

// applyPrepHeader 依標題種類設定目前的寫入對象
func (st *parseState) applyPrepHeader(h prepHeader) {
	st.prep.target = -1

	switch h.kind {
	case headerSubRecipe:
		if idx, ok := st.resolveSubRecipe(h); ok {
			st.prep.ctx = ctxSub
			st.prep.target = idx
			return
		}
		ref := h.name
		if ref == "" && h.letter != "" {
			ref = h.letter + "."
		}
		if ref == "" {
			ref = h.title
		}
		st.prep.ctx = ctxAmbiguous
		st.prep.skipping = &skippedBlock{kind: WarnUnmatchedSubRecipeReference, row: st.row, reference: ref}

	case headerFinal:
		st.prep.ctx = ctxMain
		st.stats.FinalAssembly = true

	case headerSubPreparation:
		if h.name != "" {
			if idx, ok := MatchSubRecipe(h.name, st.registry.names()); ok {
				st.prep.ctx = ctxSub
				st.prep.target = idx
				return
			}
		}
		st.prep.ctx = ctxAmbiguous
		st.prep.skipping = &skippedBlock{kind: WarnAmbiguousStepSkipped, row: st.row, reference: h.title}

	default:
		st.prep.ctx = ctxMain
	}
}

// resolveSubRecipe 有名稱時以名稱比對，沒有名稱時以標題字母的位置對應
func (st *parseState) resolveSubRecipe(h prepHeader) (int, bool) {
	if h.name != "" {
		return MatchSubRecipe(h.name, st.registry.names())
	}
	return PositionalIndex(h.letter, len(st.registry.subs))
}

// appendSteps 將切出的步驟全部寫入同一個對象
func (st *parseState) appendSteps(segments []stepSegment, label int, r row) {
	for i, seg := range segments {
		st.stats.StepSegments++

		var list *[]common.PreparationStep
		switch st.prep.ctx {
		case ctxMain:
			list = &st.recipe.Preparation
		case ctxSub:
			if sub := st.registry.get(st.prep.target); sub != nil {
				list = &sub.Preparation
			}
		}
		if list == nil {
			st.stats.SkippedSteps++
			if st.prep.skipping != nil {
				st.prep.skipping.skipped++
			}
			continue
		}

		number := seg.number
		if number == 0 && i == 0 {
			number = label
		}
		if number <= 0 {
			number = len(*list) + 1
		}
		*list = append(*list, common.PreparationStep{
			Step:        number,
			Instruction: seg.text,
			Time:        r.cell(2),
			Critical:    false,
			Hint:        r.cell(3),
		})
	}
}

// closePrepBlock 結算無法判斷歸屬的區塊，產生一筆警告
func (st *parseState) closePrepBlock() {
	b := st.prep.skipping
	if b == nil {
		return
	}
	st.prep.skipping = nil

	switch b.kind {
	case WarnUnmatchedSubRecipeReference:
		st.warn(b.kind, b.row, fmt.Sprintf("sub-recipe reference %q did not match any sub-recipe; skipped %d step(s)", b.reference, b.skipped))
	case WarnAmbiguousStepSkipped:
		if b.skipped > 0 {
			st.warn(b.kind, b.row, fmt.Sprintf("%q does not identify the recipe its steps belong to; skipped %d step(s)", b.reference, b.skipped))
		}
	}
}
