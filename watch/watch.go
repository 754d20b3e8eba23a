// Package watch observes a scan root for file changes so the interactive
// UI can refresh its tree without rescanning on a timer.
package watch

import (
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/pxldyrk/getcontext/ignore"
)

// Watcher wraps a recursive fsnotify watcher with debouncing and the same
// pruning rules the scanner applies: hidden directories, the default skip
// set, and ignore-rule matches are never watched.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	debounce  *debouncer
	rules     *ignore.RuleSet
	rootDir   string
	logger    *slog.Logger
}

// New creates a watcher over rootDir. Every non-pruned subdirectory is
// registered; directories created later are added as they appear.
func New(rootDir string, rules *ignore.RuleSet, logger *slog.Logger) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		fsWatcher: fsWatcher,
		debounce:  newDebouncer(150 * time.Millisecond),
		rules:     rules,
		rootDir:   rootDir,
		logger:    logger,
	}

	err = filepath.WalkDir(rootDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != rootDir && w.prunedDir(path) {
			return filepath.SkipDir
		}
		if watchErr := fsWatcher.Add(path); watchErr != nil && w.logger != nil {
			w.logger.Warn("failed to watch directory", "path", path, "error", watchErr)
		}
		return nil
	})
	if err != nil {
		fsWatcher.Close()
		return nil, err
	}

	return w, nil
}

// Changes returns the channel of debounced change batches.
func (w *Watcher) Changes() <-chan []Change {
	return w.debounce.output
}

// Run listens for events until the watcher is closed. Call in a goroutine.
func (w *Watcher) Run() {
	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			if w.logger != nil {
				w.logger.Warn("watcher error", "error", err)
			}
		}
	}
}

// Close stops the watcher and releases resources. No change batch is
// delivered after Close returns.
func (w *Watcher) Close() error {
	w.debounce.stop()
	return w.fsWatcher.Close()
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	path := event.Name

	// Newly created directories are registered so changes below them are
	// seen; directory creation itself is not a change worth reporting.
	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			if !w.prunedDir(path) {
				if err := w.fsWatcher.Add(path); err != nil && w.logger != nil {
					w.logger.Warn("failed to watch new directory", "path", path, "error", err)
				}
			}
			return
		}
	}

	rel, err := filepath.Rel(w.rootDir, path)
	if err != nil {
		return
	}
	rel = filepath.ToSlash(rel)

	if strings.HasPrefix(filepath.Base(path), ".") || w.rules.Ignored(rel, false) {
		return
	}

	var op ChangeOp
	switch {
	case event.Has(fsnotify.Create):
		op = OpCreate
	case event.Has(fsnotify.Write):
		op = OpWrite
	case event.Has(fsnotify.Remove):
		op = OpRemove
	case event.Has(fsnotify.Rename):
		op = OpRename
	default:
		return
	}

	w.debounce.add(rel, op)
}

// prunedDir mirrors the scanner's directory pruning for an absolute path.
func (w *Watcher) prunedDir(absPath string) bool {
	name := filepath.Base(absPath)
	if strings.HasPrefix(name, ".") || ignore.SkippedByDefault(name) {
		return true
	}
	rel, err := filepath.Rel(w.rootDir, absPath)
	if err != nil {
		return false
	}
	return w.rules.Ignored(filepath.ToSlash(rel), true)
}
