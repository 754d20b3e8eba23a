package walk

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/pxldyrk/getcontext/classify"
	"github.com/pxldyrk/getcontext/ignore"
)

func mkdirAll(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(path, 0755); err != nil {
		t.Fatal(err)
	}
}

func writeFile(t *testing.T, path string, content []byte) {
	t.Helper()
	mkdirAll(t, filepath.Dir(path))
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatal(err)
	}
}

func relPaths(files []File) []string {
	paths := make([]string, len(files))
	for i, f := range files {
		paths[i] = f.RelativePath
	}
	return paths
}

func scanAll(t *testing.T, root string, rules *ignore.RuleSet) ([]File, Stats) {
	t.Helper()
	files, stats, err := NewScanner(rules, nil).Scan(context.Background(), root)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	return files, stats
}

func Test_Scanner_EndToEndEligibleSet(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.txt"), []byte("text\n"))
	writeFile(t, filepath.Join(root, "img.png"), []byte{0x89, 0x50, 0x4E, 0x47})
	writeFile(t, filepath.Join(root, ".git", "HEAD"), []byte("ref: refs/heads/main\n"))
	writeFile(t, filepath.Join(root, "build", "out.o"), []byte("text that must never be seen\n"))
	writeFile(t, filepath.Join(root, "temp.tmp"), []byte("temp\n"))
	writeFile(t, filepath.Join(root, ".contextignore"), []byte("*.tmp\n"))

	rules, err := ignore.Load(ignore.LoadOptions{RootDir: root})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	files, _ := scanAll(t, root, rules)
	got := relPaths(files)
	if len(got) != 1 || got[0] != "a.txt" {
		t.Fatalf("eligible set = %v, want [a.txt]", got)
	}

	counts := ExtensionCounts(files)
	if counts[".txt"] != 1 || len(counts) != 1 {
		t.Errorf("extension counts = %v, want {.txt: 1}", counts)
	}
}

func Test_Scanner_PrunedDirectoryFilesNeverReported(t *testing.T) {
	root := t.TempDir()
	// Files under the pruned directory would individually classify as
	// plain text; pruning must keep them out regardless.
	writeFile(t, filepath.Join(root, "secrets", "inner", "a.txt"), []byte("text\n"))
	writeFile(t, filepath.Join(root, "keep.txt"), []byte("text\n"))

	files, stats := scanAll(t, root, ignore.NewRuleSet([]string{"secrets/"}))
	got := relPaths(files)
	if len(got) != 1 || got[0] != "keep.txt" {
		t.Fatalf("eligible set = %v, want [keep.txt]", got)
	}
	if stats.DirsPruned != 1 {
		t.Errorf("DirsPruned = %d, want 1", stats.DirsPruned)
	}
}

func Test_Scanner_HiddenFilesAndDirsSkipped(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ".hidden.txt"), []byte("text\n"))
	writeFile(t, filepath.Join(root, ".config", "b.txt"), []byte("text\n"))
	writeFile(t, filepath.Join(root, "visible.txt"), []byte("text\n"))

	files, stats := scanAll(t, root, ignore.NewRuleSet(nil))
	got := relPaths(files)
	if len(got) != 1 || got[0] != "visible.txt" {
		t.Fatalf("eligible set = %v, want [visible.txt]", got)
	}
	if stats.FilesHidden != 1 {
		t.Errorf("FilesHidden = %d, want 1", stats.FilesHidden)
	}
}

func Test_Scanner_DefaultSkipDirs(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "node_modules", "lib", "x.js"), []byte("js\n"))
	writeFile(t, filepath.Join(root, "__pycache__", "m.txt"), []byte("text\n"))
	writeFile(t, filepath.Join(root, "src.txt"), []byte("text\n"))

	files, _ := scanAll(t, root, ignore.NewRuleSet(nil))
	got := relPaths(files)
	if len(got) != 1 || got[0] != "src.txt" {
		t.Fatalf("eligible set = %v, want [src.txt]", got)
	}
}

func Test_Scanner_DocumentsClassifiedWithoutProbe(t *testing.T) {
	root := t.TempDir()
	// Deliberately binary content: the classifier must tag by extension
	// before any probe-read happens.
	writeFile(t, filepath.Join(root, "report.docx"), []byte{0x50, 0x4B, 0x03, 0x04, 0x00})
	writeFile(t, filepath.Join(root, "notes.txt"), []byte("text\n"))

	files, _ := scanAll(t, root, ignore.NewRuleSet(nil))
	if len(files) != 2 {
		t.Fatalf("eligible set = %v, want 2 entries", relPaths(files))
	}
	for _, f := range files {
		if f.RelativePath == "report.docx" {
			if f.Classification.Kind != classify.Document || f.Classification.Format != classify.FormatDocx {
				t.Errorf("report.docx classification = %+v, want Document(docx)", f.Classification)
			}
		}
	}
}

func Test_Scanner_SubdirectoryPathsAreForwardSlash(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a", "b", "c.txt"), []byte("text\n"))

	files, _ := scanAll(t, root, ignore.NewRuleSet(nil))
	got := relPaths(files)
	if len(got) != 1 || got[0] != "a/b/c.txt" {
		t.Fatalf("eligible set = %v, want [a/b/c.txt]", got)
	}
}

func Test_Scanner_SymlinksNotFollowed(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "real.txt"), []byte("text\n"))
	if err := os.Symlink(filepath.Join(root, "real.txt"), filepath.Join(root, "link.txt")); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}

	files, _ := scanAll(t, root, ignore.NewRuleSet(nil))
	got := relPaths(files)
	if len(got) != 1 || got[0] != "real.txt" {
		t.Fatalf("eligible set = %v, want [real.txt]", got)
	}
}

func Test_Scanner_OversizeFilesSkipped(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "small.txt"), []byte("text\n"))
	writeFile(t, filepath.Join(root, "big.txt"), make([]byte, 2048))

	scanner := NewScanner(ignore.NewRuleSet(nil), nil)
	scanner.MaxFileSize = 1024
	files, stats, err := scanner.Scan(context.Background(), root)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}

	got := relPaths(files)
	if len(got) != 1 || got[0] != "small.txt" {
		t.Fatalf("eligible set = %v, want [small.txt]", got)
	}
	if stats.FilesTooLarge != 1 {
		t.Errorf("FilesTooLarge = %d, want 1", stats.FilesTooLarge)
	}
	if stats.Warnings != 1 {
		t.Errorf("Warnings = %d, want 1", stats.Warnings)
	}
}

func Test_Scanner_ZeroMaxFileSizeUsesDefault(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.txt"), []byte("text\n"))

	scanner := &Scanner{Rules: ignore.NewRuleSet(nil), Prober: classify.FileProber{}}
	files, _, err := scanner.Scan(context.Background(), root)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if got := relPaths(files); len(got) != 1 || got[0] != "a.txt" {
		t.Fatalf("eligible set = %v, want [a.txt]", got)
	}
}

func Test_Scanner_MissingRootIsFatal(t *testing.T) {
	_, _, err := NewScanner(ignore.NewRuleSet(nil), nil).Scan(context.Background(), filepath.Join(t.TempDir(), "gone"))
	var rootErr *RootError
	if err == nil {
		t.Fatal("expected error for missing root")
	}
	if !errors.As(err, &rootErr) {
		t.Fatalf("expected RootError, got %T: %v", err, err)
	}
}

func Test_Scanner_FileRootIsFatal(t *testing.T) {
	root := t.TempDir()
	file := filepath.Join(root, "plain.txt")
	writeFile(t, file, []byte("text\n"))

	_, _, err := NewScanner(ignore.NewRuleSet(nil), nil).Scan(context.Background(), file)
	var rootErr *RootError
	if err == nil || !errors.As(err, &rootErr) {
		t.Fatalf("expected RootError for non-directory root, got %v", err)
	}
}

func Test_Scanner_CancelledContext(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.txt"), []byte("text\n"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	files, _, err := NewScanner(ignore.NewRuleSet(nil), nil).Scan(ctx, root)
	if err != context.Canceled {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if files != nil {
		t.Error("cancelled scan must not emit partial results")
	}
}

func Test_ExtensionCounts_NoExtension(t *testing.T) {
	files := []File{
		{RelativePath: "Makefile"},
		{RelativePath: "a.txt"},
		{RelativePath: "b.TXT"},
	}
	counts := ExtensionCounts(files)
	if counts["no extension"] != 1 || counts[".txt"] != 2 {
		t.Errorf("counts = %v, want {no extension: 1, .txt: 2}", counts)
	}
}
