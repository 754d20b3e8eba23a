// Package combine assembles extracted contents into one deterministic
// context artifact. Entries are sorted byte-wise ascending by relative
// path, so the output is independent of traversal and extraction order.
package combine

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/pxldyrk/getcontext/extract"
)

// separator frames each file block.
const separator = "================================================================================"

// Artifact is the combined export: framed file blocks plus a trailing
// summary. Text is stable across runs for identical input; it carries no
// timestamps.
type Artifact struct {
	Text         string
	FileCount    int
	FailureCount int
	TotalLines   int
	// TotalChars counts runes; TotalBytes counts the UTF-8 encoding.
	TotalChars      int
	TotalBytes      int
	ExtensionCounts map[string]int
}

// Combine orders and frames all entries. Failed extractions are included
// with an explicit failure marker in place of content, never silently
// dropped, and counted separately in the summary. The extension breakdown
// covers every input entry, failures included, so they stay visible in
// the aggregate.
func Combine(entries []extract.Content) Artifact {
	sorted := make([]extract.Content, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].RelativePath < sorted[j].RelativePath
	})

	artifact := Artifact{
		FileCount:       len(sorted),
		ExtensionCounts: make(map[string]int),
	}
	for _, entry := range sorted {
		ext := strings.ToLower(filepath.Ext(entry.RelativePath))
		if ext == "" {
			ext = "no extension"
		}
		artifact.ExtensionCounts[ext]++
		if entry.Err != nil {
			artifact.FailureCount++
			continue
		}
		artifact.TotalLines += countLines(entry.Text)
		artifact.TotalChars += utf8.RuneCountInString(entry.Text)
		artifact.TotalBytes += len(entry.Text)
	}

	var b strings.Builder
	writeHeader(&b, artifact)
	for _, entry := range sorted {
		writeEntry(&b, entry)
	}
	writeSummary(&b, artifact)

	artifact.Text = b.String()
	return artifact
}

func writeHeader(b *strings.Builder, a Artifact) {
	fmt.Fprintf(b, "# Context Export\n")
	fmt.Fprintf(b, "# Files: %d\n", a.FileCount)
	fmt.Fprintf(b, "# Total Lines: %d\n", a.TotalLines)
	fmt.Fprintf(b, "# Total Characters: %d\n", a.TotalChars)
	fmt.Fprintf(b, "# Total Size: %d bytes\n", a.TotalBytes)
	if a.FailureCount > 0 {
		fmt.Fprintf(b, "# Extraction Failures: %d\n", a.FailureCount)
	}
	b.WriteString("\n")
}

func writeEntry(b *strings.Builder, entry extract.Content) {
	b.WriteString(separator + "\n")
	fmt.Fprintf(b, "# File: %s\n", entry.RelativePath)
	if entry.Err != nil {
		fmt.Fprintf(b, "# Extraction failed\n")
		b.WriteString(separator + "\n\n")
		fmt.Fprintf(b, "[extraction failed: %v]\n\n", entry.Err)
		return
	}
	fmt.Fprintf(b, "# Lines: %d\n", countLines(entry.Text))
	fmt.Fprintf(b, "# Characters: %d\n", utf8.RuneCountInString(entry.Text))
	fmt.Fprintf(b, "# Size: %d bytes\n", len(entry.Text))
	b.WriteString(separator + "\n\n")
	b.WriteString(entry.Text)
	b.WriteString("\n\n")
}

func writeSummary(b *strings.Builder, a Artifact) {
	b.WriteString(separator + "\n")
	b.WriteString("Export Summary\n")
	b.WriteString(separator + "\n")
	fmt.Fprintf(b, "Files processed: %d\n", a.FileCount-a.FailureCount)
	fmt.Fprintf(b, "Extraction failures: %d\n", a.FailureCount)
	fmt.Fprintf(b, "Total lines: %d\n", a.TotalLines)
	fmt.Fprintf(b, "Total characters: %d\n", a.TotalChars)
	fmt.Fprintf(b, "Total size: %d bytes\n", a.TotalBytes)

	if len(a.ExtensionCounts) > 0 {
		b.WriteString("\nExtensions:\n")
		exts := make([]string, 0, len(a.ExtensionCounts))
		for ext := range a.ExtensionCounts {
			exts = append(exts, ext)
		}
		sort.Strings(exts)
		for _, ext := range exts {
			fmt.Fprintf(b, "  %s: %d file(s)\n", ext, a.ExtensionCounts[ext])
		}
	}
}

// countLines matches splitlines-style counting: trailing newline does not
// add an empty final line.
func countLines(s string) int {
	if s == "" {
		return 0
	}
	n := strings.Count(s, "\n")
	if !strings.HasSuffix(s, "\n") {
		n++
	}
	return n
}
