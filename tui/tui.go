// Package tui is the interactive file selector: a tree-ordered list of
// eligible files with per-classification icons, a preview pane, and an
// export action that feeds the current selection into the combine
// pipeline. Selection state lives in an explicit session object.
package tui

import (
	"context"
	"log/slog"
	"sort"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pxldyrk/getcontext/combine"
	"github.com/pxldyrk/getcontext/ignore"
	"github.com/pxldyrk/getcontext/walk"
)

// Options wires the selector to the rest of the pipeline.
type Options struct {
	RootDir string
	Rules   *ignore.RuleSet
	Logger  *slog.Logger
	// MaxFileSize bounds scanned file sizes; 0 means the scanner default.
	MaxFileSize int64

	// Export combines the selected files into an artifact.
	Export func(selected []walk.File) (combine.Artifact, error)
	// Destination receives the artifact text on export.
	Destination string
}

// Run scans the root, starts the selector, and blocks until quit.
func Run(ctx context.Context, opts Options) error {
	scanner := newScanner(opts)
	files, _, err := scanner.Scan(ctx, opts.RootDir)
	if err != nil {
		return err
	}
	sortFiles(files)

	m := newModel(opts, files)
	m.startWatcher()
	defer m.stopWatcher()

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err = p.Run()
	return err
}

// newScanner builds the discovery scanner the selector and its rescans
// share, with the configured size limit applied.
func newScanner(opts Options) *walk.Scanner {
	scanner := walk.NewScanner(opts.Rules, opts.Logger)
	if opts.MaxFileSize > 0 {
		scanner.MaxFileSize = opts.MaxFileSize
	}
	return scanner
}

// sortFiles orders the listing the same way the artifact orders entries.
func sortFiles(files []walk.File) {
	sort.Slice(files, func(i, j int) bool {
		return files[i].RelativePath < files[j].RelativePath
	})
}
