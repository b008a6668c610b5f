package parser

import "strings"

// row 一列儲存格，至少包含一個儲存格
type row []string

// cell 取得第 i 個儲存格，超出範圍回傳空字串
func (r row) cell(i int) string {
	if i < 0 || i >= len(r) {
		return ""
	}
	return r[i]
}

// blank 是否整列皆為空白
func (r row) blank() bool {
	for _, c := range r {
		if c != "" {
			return false
		}
	}
	return true
}

// text 將整列以空白串接，用於偵測內嵌的步驟標記
func (r row) text() string {
	return strings.TrimSpace(strings.Join(r, " "))
}

// SplitRows 將貼上的文字切成列與儲存格
// 以換行切列（移除行尾 \r），再以 tab 切儲存格並去除前後空白。
// 結尾的空白列會被忽略，中間的空白列保留。
func SplitRows(text string) [][]string {
	text = strings.TrimRight(text, " \t\r\n")
	if strings.TrimSpace(text) == "" {
		return nil
	}

	lines := strings.Split(text, "\n")
	rows := make([][]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSuffix(line, "\r")
		cells := strings.Split(line, "\t")
		for i := range cells {
			cells[i] = cleanCell(cells[i])
		}
		rows = append(rows, cells)
	}
	return rows
}

// cleanCell 去除空白與試算表複製時加上的外層引號
func cleanCell(c string) string {
	c = strings.TrimSpace(c)
	if len(c) >= 2 && strings.HasPrefix(c, `"`) && strings.HasSuffix(c, `"`) {
		c = strings.ReplaceAll(c[1:len(c)-1], `""`, `"`)
		c = strings.TrimSpace(c)
	}
	return c
}
