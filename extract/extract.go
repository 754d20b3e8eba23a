// Package extract resolves classified paths to normalized text content.
// Document formats are handled by pluggable extractors behind a capability
// registry; a format without a registered extractor degrades to a recorded
// failure instead of aborting the batch.
package extract

import (
	"fmt"
	"os"
	"strings"

	"github.com/pxldyrk/getcontext/classify"
)

// Extractor converts one file into text with lines joined by \n.
type Extractor interface {
	Extract(path string) (string, error)
}

// UnsupportedError reports a document format with no registered extractor.
type UnsupportedError struct {
	Format classify.DocumentFormat
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("no extractor registered for %s", e.Format)
}

// UnreadableError reports a file that could not be read at extraction
// time, e.g. removed between scan and extraction.
type UnreadableError struct {
	Path string
	Err  error
}

func (e *UnreadableError) Error() string {
	return fmt.Sprintf("reading %s: %v", e.Path, e.Err)
}

func (e *UnreadableError) Unwrap() error { return e.Err }

// Registry holds the available extractors, one per document format, plus
// the built-in plain-text reader. Read-only after construction.
type Registry struct {
	documents map[classify.DocumentFormat]Extractor
}

// NewRegistry returns a registry with every built-in document extractor
// registered.
func NewRegistry() *Registry {
	return &Registry{
		documents: map[classify.DocumentFormat]Extractor{
			classify.FormatDocx: DocxExtractor{},
			classify.FormatXlsx: XlsxExtractor{},
			classify.FormatPDF:  PDFExtractor{},
		},
	}
}

// NewEmptyRegistry returns a registry with no document extractors. Plain
// text always works; every document format yields UnsupportedError.
func NewEmptyRegistry() *Registry {
	return &Registry{documents: map[classify.DocumentFormat]Extractor{}}
}

// Register adds or replaces the extractor for a format.
func (r *Registry) Register(format classify.DocumentFormat, extractor Extractor) {
	r.documents[format] = extractor
}

// Supports reports whether the registry can extract the given format.
func (r *Registry) Supports(format classify.DocumentFormat) bool {
	_, ok := r.documents[format]
	return ok
}

// Extract resolves one classified path to text. Excluded classifications
// never reach this point; passing one is a programming error reported as
// a failure value rather than a panic.
func (r *Registry) Extract(path string, c classify.Classification) (string, error) {
	switch c.Kind {
	case classify.PlainText:
		return readPlainText(path)
	case classify.Document:
		extractor, ok := r.documents[c.Format]
		if !ok {
			return "", &UnsupportedError{Format: c.Format}
		}
		return extractor.Extract(path)
	default:
		return "", fmt.Errorf("cannot extract excluded path %s", path)
	}
}

// readPlainText reads a whole file and normalizes line endings to \n.
func readPlainText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", &UnreadableError{Path: path, Err: err}
	}
	return normalizeNewlines(string(data)), nil
}

func normalizeNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}
