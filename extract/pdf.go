package extract

import (
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// PDFExtractor extracts text from PDFs page by page. A page with
// non-blank text emits a "Page <n>:" header, a dash rule, the trimmed
// page text, and a blank separator line; blank pages are omitted.
type PDFExtractor struct{}

func (PDFExtractor) Extract(path string) (string, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening pdf %s: %w", path, err)
	}
	defer f.Close()

	var lines []string
	for pageNum := 1; pageNum <= reader.NumPage(); pageNum++ {
		page := reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("extracting page %d of %s: %w", pageNum, path, err)
		}
		trimmed := strings.TrimSpace(text)
		if trimmed == "" {
			continue
		}

		header := fmt.Sprintf("Page %d:", pageNum)
		lines = append(lines, header, strings.Repeat("-", len(header)+1), trimmed, "")
	}

	return strings.Join(lines, "\n"), nil
}
