package extract

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/pxldyrk/getcontext/classify"
	"github.com/pxldyrk/getcontext/walk"
)

func Test_Registry_PlainTextRoundTrip(t *testing.T) {
	fixture := "line one\nline two\n\nline four"
	path := filepath.Join(t.TempDir(), "fixture.txt")
	if err := os.WriteFile(path, []byte(fixture), 0644); err != nil {
		t.Fatal(err)
	}

	text, err := NewRegistry().Extract(path, classify.Classification{Kind: classify.PlainText})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if text != fixture {
		t.Errorf("round trip mismatch:\ngot  %q\nwant %q", text, fixture)
	}
	if got := strings.Split(text, "\n"); len(got) != 4 {
		t.Errorf("expected 4 lines, got %d", len(got))
	}
}

func Test_Registry_PlainTextNormalizesCRLF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "crlf.txt")
	if err := os.WriteFile(path, []byte("a\r\nb\rc\n"), 0644); err != nil {
		t.Fatal(err)
	}

	text, err := NewRegistry().Extract(path, classify.Classification{Kind: classify.PlainText})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if text != "a\nb\nc\n" {
		t.Errorf("normalized text = %q, want %q", text, "a\nb\nc\n")
	}
}

func Test_Registry_MissingFileIsUnreadable(t *testing.T) {
	_, err := NewRegistry().Extract(filepath.Join(t.TempDir(), "gone.txt"), classify.Classification{Kind: classify.PlainText})

	var unreadable *UnreadableError
	if !errors.As(err, &unreadable) {
		t.Fatalf("expected UnreadableError, got %v", err)
	}
}

func Test_Registry_UnsupportedFormat(t *testing.T) {
	registry := NewEmptyRegistry()
	_, err := registry.Extract("report.docx", classify.Classification{
		Kind:   classify.Document,
		Format: classify.FormatDocx,
	})

	var unsupported *UnsupportedError
	if !errors.As(err, &unsupported) {
		t.Fatalf("expected UnsupportedError, got %v", err)
	}
	if unsupported.Format != classify.FormatDocx {
		t.Errorf("Format = %s, want docx", unsupported.Format)
	}
}

func Test_Registry_Supports(t *testing.T) {
	full := NewRegistry()
	for _, format := range []classify.DocumentFormat{classify.FormatDocx, classify.FormatXlsx, classify.FormatPDF} {
		if !full.Supports(format) {
			t.Errorf("expected full registry to support %s", format)
		}
	}
	if NewEmptyRegistry().Supports(classify.FormatPDF) {
		t.Error("expected empty registry to support nothing")
	}
}

func Test_XlsxExtractor_Workbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "book.xlsx")

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	f.SetCellValue(sheet, "A1", 1)
	f.SetCellValue(sheet, "B1", 2)
	// Row 2 left fully empty.
	f.SetCellValue(sheet, "A3", 3)
	if err := f.SaveAs(path); err != nil {
		t.Fatal(err)
	}
	f.Close()

	text, err := XlsxExtractor{}.Extract(path)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	header := "Sheet: " + sheet
	want := []string{
		header,
		strings.Repeat("-", len(header)),
		"1 | 2",
		"3 | ",
		"",
	}
	if got := strings.Split(text, "\n"); !equalLines(got, want) {
		t.Errorf("workbook text:\ngot  %q\nwant %q", got, want)
	}
}

func Test_SheetLines_EmptyRowOmitted(t *testing.T) {
	rows := [][]string{
		{"1", "2"},
		{},
		{"3"},
	}

	got := sheetLines("Data", rows)
	want := []string{"Sheet: Data", "-----------", "1 | 2", "3 | ", ""}
	if !equalLines(got, want) {
		t.Errorf("sheetLines:\ngot  %q\nwant %q", got, want)
	}
}

func Test_SheetLines_EmptySheet(t *testing.T) {
	got := sheetLines("Empty", nil)
	want := []string{"Sheet: Empty", "------------", ""}
	if !equalLines(got, want) {
		t.Errorf("sheetLines:\ngot  %q\nwant %q", got, want)
	}
}

func Test_Batch_RecordsFailuresAndContinues(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "ok.txt"), []byte("fine\n"), 0644); err != nil {
		t.Fatal(err)
	}

	files := []walk.File{
		{RelativePath: "ok.txt", Classification: classify.Classification{Kind: classify.PlainText}},
		{RelativePath: "gone.txt", Classification: classify.Classification{Kind: classify.PlainText}},
		{RelativePath: "doc.docx", Classification: classify.Classification{Kind: classify.Document, Format: classify.FormatDocx}},
	}

	batch := &Batch{Registry: NewEmptyRegistry(), Workers: 2}
	results, err := batch.ExtractAll(context.Background(), root, files)
	if err != nil {
		t.Fatalf("ExtractAll: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}

	byPath := make(map[string]Content)
	for _, r := range results {
		byPath[r.RelativePath] = r
	}

	if byPath["ok.txt"].Err != nil || byPath["ok.txt"].Text != "fine\n" {
		t.Errorf("ok.txt = %+v, want successful extraction", byPath["ok.txt"])
	}
	var unreadable *UnreadableError
	if !errors.As(byPath["gone.txt"].Err, &unreadable) {
		t.Errorf("gone.txt error = %v, want UnreadableError", byPath["gone.txt"].Err)
	}
	var unsupported *UnsupportedError
	if !errors.As(byPath["doc.docx"].Err, &unsupported) {
		t.Errorf("doc.docx error = %v, want UnsupportedError", byPath["doc.docx"].Err)
	}
}

func Test_Batch_CancelledContextDiscardsResults(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	files := []walk.File{
		{RelativePath: "a.txt", Classification: classify.Classification{Kind: classify.PlainText}},
	}
	batch := &Batch{Registry: NewRegistry()}
	results, err := batch.ExtractAll(ctx, t.TempDir(), files)
	if err != context.Canceled {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if results != nil {
		t.Error("cancelled batch must not return partial results")
	}
}

func Test_Batch_EmptyInput(t *testing.T) {
	batch := &Batch{Registry: NewRegistry()}
	results, err := batch.ExtractAll(context.Background(), t.TempDir(), nil)
	if err != nil {
		t.Fatalf("ExtractAll: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("expected no results, got %d", len(results))
	}
}

func equalLines(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
