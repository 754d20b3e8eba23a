package extract

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// XlsxExtractor extracts text from workbooks. Each sheet emits a
// "Sheet: <name>" header with a dash rule sized to it, then one
// pipe-joined line per row that has at least one non-empty cell, padded
// to the sheet's populated column count so empty cells render as empty
// segments, then a blank separator line.
type XlsxExtractor struct{}

func (XlsxExtractor) Extract(path string) (string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return "", fmt.Errorf("opening xlsx %s: %w", path, err)
	}
	defer f.Close()

	var lines []string
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return "", fmt.Errorf("reading sheet %s of %s: %w", sheet, path, err)
		}
		lines = append(lines, sheetLines(sheet, rows)...)
	}

	return strings.Join(lines, "\n"), nil
}

// sheetLines renders one sheet. Split out as a pure function so the
// row-formatting rules are testable without a workbook file.
func sheetLines(name string, rows [][]string) []string {
	header := "Sheet: " + name
	lines := []string{header, strings.Repeat("-", len(header))}

	columns := 0
	for _, row := range rows {
		if len(row) > columns {
			columns = len(row)
		}
	}

	for _, row := range rows {
		if !rowHasData(row) {
			continue
		}
		padded := make([]string, columns)
		copy(padded, row)
		lines = append(lines, strings.Join(padded, " | "))
	}

	// Blank separator after each sheet.
	return append(lines, "")
}

func rowHasData(row []string) bool {
	for _, cell := range row {
		if cell != "" {
			return true
		}
	}
	return false
}
