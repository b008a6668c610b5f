package parser

import (
	"errors"
	"fmt"
)

// 致命錯誤，發生時不回傳任何部分結果
var (
	ErrTooShortInput = errors.New("input too short to contain a recipe")
	ErrInputTooLarge = errors.New("input exceeds the row budget")
)

// WarningKind 非致命問題的分類
type WarningKind string

const (
	WarnAmbiguousStepSkipped        WarningKind = "AmbiguousStepSkipped"
	WarnUnmatchedSubRecipeReference WarningKind = "UnmatchedSubRecipeReference"
	WarnMissingRequiredField        WarningKind = "MissingRequiredField"
	WarnInvalidQuantity             WarningKind = "InvalidQuantity"
)

// Warning 解析過程中記錄下來、交給人工確認的問題
type Warning struct {
	Kind    WarningKind `json:"kind"`
	Row     int         `json:"row,omitempty"` // 1-based，0 表示與特定列無關
	Message string      `json:"message"`
}

func (w Warning) String() string {
	if w.Row > 0 {
		return fmt.Sprintf("row %d: %s", w.Row, w.Message)
	}
	return w.Message
}
