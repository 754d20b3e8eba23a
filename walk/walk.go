// Package walk discovers eligible files under a scan root. Traversal is
// top-down and sequential; pruned directories are never descended into, so
// files below them are never classified or reported.
package walk

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/pxldyrk/getcontext/classify"
	"github.com/pxldyrk/getcontext/ignore"
)

// File is one eligible relative path with its classification.
type File struct {
	// RelativePath is root-relative with forward slashes.
	RelativePath   string
	Classification classify.Classification
}

// Stats counts what the scan saw and skipped.
type Stats struct {
	DirsVisited   int
	DirsPruned    int
	FilesSeen     int
	FilesIgnored  int
	FilesHidden   int
	FilesExcluded int
	FilesTooLarge int
	// Warnings counts per-file probe and size failures; they never abort
	// the scan.
	Warnings int
}

// RootError reports a fatal problem with the scan root itself. It is the
// only error class that aborts a scan.
type RootError struct {
	Root string
	Err  error
}

func (e *RootError) Error() string {
	return fmt.Sprintf("scan root %s: %v", e.Root, e.Err)
}

func (e *RootError) Unwrap() error { return e.Err }

var errNotDirectory = fmt.Errorf("not a directory")

// DefaultMaxFileSize bounds how large a file may be before the scanner
// skips it. 1MB.
const DefaultMaxFileSize = 1024 * 1024

// Scanner traverses a directory tree and produces eligible files.
type Scanner struct {
	Rules  *ignore.RuleSet
	Prober classify.Prober
	Logger *slog.Logger
	// MaxFileSize excludes files larger than this many bytes; values <= 0
	// fall back to DefaultMaxFileSize.
	MaxFileSize int64
}

// NewScanner creates a Scanner with a real-filesystem prober.
func NewScanner(rules *ignore.RuleSet, logger *slog.Logger) *Scanner {
	return &Scanner{
		Rules:       rules,
		Prober:      classify.FileProber{},
		Logger:      logger,
		MaxFileSize: DefaultMaxFileSize,
	}
}

func (s *Scanner) maxFileSize() int64 {
	if s.MaxFileSize > 0 {
		return s.MaxFileSize
	}
	return DefaultMaxFileSize
}

// Scan walks the tree rooted at root and returns every eligible file.
// Paths are unique by construction: symlinks are not followed, so each
// path is visited exactly once. The only fatal condition is a root that
// does not exist or is not a directory; per-file failures are folded into
// Stats.Warnings. Cancelling ctx aborts the scan with ctx.Err().
func (s *Scanner) Scan(ctx context.Context, root string) ([]File, Stats, error) {
	var stats Stats

	info, err := os.Stat(root)
	if err != nil {
		return nil, stats, &RootError{Root: root, Err: err}
	}
	if !info.IsDir() {
		return nil, stats, &RootError{Root: root, Err: errNotDirectory}
	}

	var files []File
	if err := s.walkDir(ctx, root, "", &files, &stats); err != nil {
		return nil, stats, err
	}
	return files, stats, nil
}

// walkDir processes one directory. relDir is root-relative with forward
// slashes, empty for the root itself.
func (s *Scanner) walkDir(ctx context.Context, absDir, relDir string, files *[]File, stats *Stats) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	stats.DirsVisited++

	entries, err := os.ReadDir(absDir)
	if err != nil {
		// The root was stat-checked already; an unreadable subdirectory
		// is a per-directory failure, not fatal.
		stats.Warnings++
		if s.Logger != nil {
			s.Logger.Warn("unreadable directory", "path", relDir, "error", err)
		}
		return nil
	}

	var subdirs []os.DirEntry
	for _, entry := range entries {
		rel := joinRel(relDir, entry.Name())

		if entry.IsDir() {
			if s.pruneDir(entry.Name(), rel) {
				stats.DirsPruned++
				continue
			}
			subdirs = append(subdirs, entry)
			continue
		}
		// Symlinks are skipped entirely rather than followed; following
		// them would admit cycles and duplicate paths.
		if entry.Type()&os.ModeSymlink != 0 {
			continue
		}

		stats.FilesSeen++
		s.visitFile(absDir, rel, entry, files, stats)
	}

	// Descend only after the keep-list is fully computed.
	for _, entry := range subdirs {
		if err := s.walkDir(ctx, filepath.Join(absDir, entry.Name()), joinRel(relDir, entry.Name()), files, stats); err != nil {
			return err
		}
	}
	return nil
}

// pruneDir is the pure prune decision for a child directory: hidden name,
// default skip set, or an ignore-rule match on the relative path.
func (s *Scanner) pruneDir(name, rel string) bool {
	if strings.HasPrefix(name, ".") {
		return true
	}
	if ignore.SkippedByDefault(name) {
		return true
	}
	return s.Rules.Ignored(rel, true)
}

// visitFile classifies one regular file and records it when eligible.
func (s *Scanner) visitFile(absDir, rel string, entry os.DirEntry, files *[]File, stats *Stats) {
	name := entry.Name()
	if strings.HasPrefix(name, ".") {
		stats.FilesHidden++
		return
	}
	if s.Rules.Ignored(rel, false) {
		stats.FilesIgnored++
		return
	}

	// Oversize files are skipped before classification touches their
	// content; the probe read never runs on them.
	if info, err := entry.Info(); err == nil && info.Size() > s.maxFileSize() {
		stats.FilesTooLarge++
		stats.Warnings++
		if s.Logger != nil {
			s.Logger.Debug("file exceeds size limit", "path", rel, "size", info.Size(), "limit", s.maxFileSize())
		}
		return
	}

	c := classify.Classify(filepath.Join(absDir, name), s.Prober)
	if !c.Included() {
		stats.FilesExcluded++
		if c.Reason == classify.ReasonUnreadable {
			stats.Warnings++
			if s.Logger != nil {
				s.Logger.Debug("unreadable file skipped", "path", rel)
			}
		}
		return
	}

	*files = append(*files, File{RelativePath: rel, Classification: c})
}

func joinRel(dir, name string) string {
	if dir == "" {
		return name
	}
	return dir + "/" + name
}

// ExtensionCounts summarizes eligible files by lowercase extension,
// counting files without an extension under "no extension". Computed from
// the eligible set itself so extraction failures stay visible in the
// aggregate.
func ExtensionCounts(files []File) map[string]int {
	counts := make(map[string]int)
	for _, f := range files {
		ext := strings.ToLower(filepath.Ext(f.RelativePath))
		if ext == "" {
			ext = "no extension"
		}
		counts[ext]++
	}
	return counts
}
