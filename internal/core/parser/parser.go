// Package parser converts a tab-separated block copied from a recipe
// spreadsheet into a common.Recipe.
//
// The input has no fixed schema. Section headers ("2B. Ingredients – Sauce
// Tomato 1 KG", "4. Step-by-Step Preparation", …) are detected by an
// ordered rule table, preparation rows are routed to the main recipe or to
// a sub-recipe created earlier in the same pass, and every step list is
// renumbered 1..N at the end. Local problems become warnings; only input
// that is too short (or over the optional row budget) fails the call.
//
// Parse is pure: all mutable state lives in a parseState created per call,
// so a Parser may be shared between goroutines.
package parser

import (
	"fmt"

	"recipe-importer/internal/pkg/common"
)

// MinRows 可能包含任何可辨識區塊的最少列數
const MinRows = 5

// DefaultPlaceholderBaseURL 佔位圖片的預設前綴
const DefaultPlaceholderBaseURL = "placeholder://recipes"

// Options 解析選項
type Options struct {
	// MaxRows 大於 0 時，超過此列數的輸入直接拒絕
	MaxRows int
	// PlaceholderBaseURL 佔位圖片的前綴
	PlaceholderBaseURL string
}

// Result 解析結果：可能不完整的食譜與警告清單
type Result struct {
	Recipe     common.Recipe `json:"recipe"`
	Warnings   []Warning     `json:"warnings"`
	Incomplete bool          `json:"incomplete"`
	Stats      Stats         `json:"stats"`
}

// Stats 解析過程的統計
type Stats struct {
	Rows          int  `json:"rows"`
	StepSegments  int  `json:"stepSegments"`  // 輸入中切出的步驟區段數
	SkippedSteps  int  `json:"skippedSteps"`  // 因歸屬不明而略過的區段數
	AutoMain      bool `json:"autoMain"`      // 主食譜步驟為自動判定
	FinalAssembly bool `json:"finalAssembly"` // 出現 Final/Main 標題
}

// Messages 回傳給使用者閱讀的警告文字
func (r *Result) Messages() []string {
	msgs := make([]string, len(r.Warnings))
	for i, w := range r.Warnings {
		msgs[i] = w.String()
	}
	return msgs
}

// StepCount 主食譜與所有子食譜的步驟總數
func (r *Result) StepCount() int {
	n := len(r.Recipe.Preparation)
	for _, sub := range r.Recipe.SubRecipes {
		n += len(sub.Preparation)
	}
	return n
}

// Parser 食譜表格解析器
type Parser struct {
	opts Options
}

// New 創建解析器
func New(opts Options) *Parser {
	if opts.PlaceholderBaseURL == "" {
		opts.PlaceholderBaseURL = DefaultPlaceholderBaseURL
	}
	return &Parser{opts: opts}
}

// Parse 使用預設選項解析
func Parse(text string) (*Result, error) {
	return New(Options{}).Parse(text)
}

// Parse 解析貼上的表格文字
func (p *Parser) Parse(text string) (*Result, error) {
	rows := SplitRows(text)
	if len(rows) < MinRows {
		return nil, fmt.Errorf("%w: got %d rows, need at least %d", ErrTooShortInput, len(rows), MinRows)
	}
	if p.opts.MaxRows > 0 && len(rows) > p.opts.MaxRows {
		return nil, fmt.Errorf("%w: got %d rows, limit is %d", ErrInputTooLarge, len(rows), p.opts.MaxRows)
	}

	st := newParseState()
	for i, cells := range rows {
		st.row = i + 1
		st.consume(row(cells))
	}
	st.closePrepBlock()

	renumber(st.recipe.Preparation)
	for _, sub := range st.registry.subs {
		renumber(sub.Preparation)
	}

	result := st.assemble(p.opts)
	result.Stats.Rows = len(rows)
	return result, nil
}

// parseState 單次解析的可變狀態，不會離開 Parse
type parseState struct {
	recipe    common.Recipe
	registry  registry
	section   section
	activeSub int // 食材區目前的子食譜，-1 表示主食譜
	prep      prepState
	warnings  []Warning
	row       int
	stats     Stats
}

func newParseState() *parseState {
	return &parseState{
		activeSub: -1,
		prep:      prepState{target: -1},
	}
}

// consume 處理一列：先比對標題，再交給目前區塊的擷取邏輯
func (st *parseState) consume(r row) {
	if r.blank() {
		return
	}
	if st.classify(r) {
		return
	}
	if isColumnTitle(r.cell(0)) {
		return
	}

	switch st.section {
	case sectionNone:
		if looksLikeStep(r) {
			st.routePreparation(r)
		}
	case sectionIngredients:
		st.extractIngredient(r)
	case sectionMachines:
		st.extractMachine(r)
	case sectionPreparation:
		st.routePreparation(r)
	case sectionQuality:
		st.extractQuality(r)
	case sectionPacking:
		st.extractPacking(r)
	}
}

func (st *parseState) warn(kind WarningKind, rowNum int, msg string) {
	st.warnings = append(st.warnings, Warning{Kind: kind, Row: rowNum, Message: msg})
}
