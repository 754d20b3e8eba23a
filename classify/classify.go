// Package classify decides how, or whether, a file's content can be
// extracted: as a structured document, as plain text, or not at all.
package classify

import (
	"path/filepath"
	"strings"
)

// Kind is the top-level classification of a path.
type Kind int

const (
	// PlainText files are read verbatim.
	PlainText Kind = iota
	// Document files go through a format-specific extractor.
	Document
	// Excluded files are never extracted.
	Excluded
)

// DocumentFormat identifies a supported structured document type.
type DocumentFormat string

const (
	FormatDocx DocumentFormat = "docx"
	FormatXlsx DocumentFormat = "xlsx"
	FormatPDF  DocumentFormat = "pdf"
)

// ExcludeReason explains why a path was excluded.
type ExcludeReason string

const (
	ReasonIgnored    ExcludeReason = "ignored"
	ReasonBinary     ExcludeReason = "binary"
	ReasonUnreadable ExcludeReason = "unreadable"
	ReasonHidden     ExcludeReason = "hidden"
	ReasonPrunedDir  ExcludeReason = "pruned-directory"
)

// Classification tags a single path. Format is set only for Document,
// Reason only for Excluded.
type Classification struct {
	Kind   Kind
	Format DocumentFormat
	Reason ExcludeReason
}

// Included reports whether the classification allows extraction.
func (c Classification) Included() bool {
	return c.Kind != Excluded
}

// documentExtensions maps recognized document extensions to their format.
var documentExtensions = map[string]DocumentFormat{
	".docx": FormatDocx,
	".xlsx": FormatXlsx,
	".pdf":  FormatPDF,
}

// binaryExtensions are known non-text formats rejected without probing.
var binaryExtensions = map[string]bool{
	".gif": true, ".jpg": true, ".jpeg": true, ".png": true, ".ico": true,
	".pyc": true, ".exe": true, ".dll": true, ".so": true, ".dylib": true,
	".zip": true, ".tar": true, ".gz": true, ".rar": true, ".7z": true,
	".db": true, ".sqlite": true, ".bin": true, ".dat": true,
}

// denylistedBasenames are version-control internals excluded by exact
// relative path, matched against the trailing two segments.
var denylistedBasenames = map[string]bool{
	".git/index":          true,
	".git/HEAD":           true,
	".git/COMMIT_EDITMSG": true,
}

// DocumentFormatFor returns the document format for a path, if any.
func DocumentFormatFor(path string) (DocumentFormat, bool) {
	format, ok := documentExtensions[strings.ToLower(filepath.Ext(path))]
	return format, ok
}

// Classify tags a path. Document extensions win without any I/O; known
// binary extensions and denylisted names are rejected; everything else is
// probe-read via the prober. Classification never returns an error: any
// I/O failure during probing is folded into Excluded(unreadable) so one
// unreadable file cannot abort a scan.
func Classify(path string, prober Prober) Classification {
	if format, ok := DocumentFormatFor(path); ok {
		return Classification{Kind: Document, Format: format}
	}

	ext := strings.ToLower(filepath.Ext(path))
	if binaryExtensions[ext] || isDenylisted(path) {
		return Classification{Kind: Excluded, Reason: ReasonBinary}
	}

	if err := prober.ProbeText(path); err != nil {
		return Classification{Kind: Excluded, Reason: ReasonUnreadable}
	}
	return Classification{Kind: PlainText}
}

// isDenylisted checks the trailing path segments against the exact-name
// denylist, so both ".git/HEAD" and "repo/.git/HEAD" match.
func isDenylisted(path string) bool {
	normalized := filepath.ToSlash(path)
	parts := strings.Split(normalized, "/")
	if len(parts) < 2 {
		return false
	}
	tail := parts[len(parts)-2] + "/" + parts[len(parts)-1]
	return denylistedBasenames[tail]
}
