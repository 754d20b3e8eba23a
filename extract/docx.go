package extract

import (
	"fmt"
	"os"
	"strings"

	"github.com/fumiama/go-docx"
)

// DocxExtractor extracts text from Word documents: paragraph text in
// document order, then each table's rows as pipe-joined lines of
// non-empty cell text. Blank paragraphs and cells are omitted.
type DocxExtractor struct{}

func (DocxExtractor) Extract(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", &UnreadableError{Path: path, Err: err}
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", &UnreadableError{Path: path, Err: err}
	}

	doc, err := docx.Parse(f, info.Size())
	if err != nil {
		return "", fmt.Errorf("parsing docx %s: %w", path, err)
	}

	var lines []string
	var tables []*docx.Table

	// Paragraphs first, in document order; tables are collected and
	// appended after, matching the flat text layout of the export.
	for _, item := range doc.Document.Body.Items {
		switch block := item.(type) {
		case *docx.Paragraph:
			if text := block.String(); strings.TrimSpace(text) != "" {
				lines = append(lines, text)
			}
		case *docx.Table:
			tables = append(tables, block)
		}
	}

	for _, table := range tables {
		for _, row := range table.TableRows {
			var cells []string
			for _, cell := range row.TableCells {
				if text := strings.TrimSpace(cellText(cell)); text != "" {
					cells = append(cells, text)
				}
			}
			if len(cells) > 0 {
				lines = append(lines, strings.Join(cells, " | "))
			}
		}
	}

	return strings.Join(lines, "\n"), nil
}

// cellText joins a table cell's paragraphs into one string.
func cellText(cell *docx.WTableCell) string {
	var parts []string
	for _, paragraph := range cell.Paragraphs {
		if text := paragraph.String(); strings.TrimSpace(text) != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, " ")
}
