// Package session tracks the explicit file selection made in the UI. The
// session object is owned by the UI layer and passed into export calls;
// no selection state lives in package globals.
package session

import (
	"sort"
	"sync"
)

// Session is a mutable set of selected relative paths. Safe for
// concurrent use.
type Session struct {
	mu       sync.Mutex
	selected map[string]bool
}

// New returns an empty session.
func New() *Session {
	return &Session{selected: make(map[string]bool)}
}

// Toggle flips the selection state of a path and reports the new state.
func (s *Session) Toggle(path string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.selected[path] {
		delete(s.selected, path)
		return false
	}
	s.selected[path] = true
	return true
}

// Selected reports whether a path is currently selected.
func (s *Session) Selected(path string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selected[path]
}

// SelectAll marks every given path as selected.
func (s *Session) SelectAll(paths []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, path := range paths {
		s.selected[path] = true
	}
}

// Clear empties the selection.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = make(map[string]bool)
}

// Len returns the number of selected paths.
func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.selected)
}

// Snapshot returns the selected paths sorted ascending. The slice is a
// copy; later toggles do not affect it.
func (s *Session) Snapshot() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	paths := make([]string, 0, len(s.selected))
	for path := range s.selected {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

// Retain drops selected paths that are not in the given set. Used after a
// rescan so the selection never references files that disappeared.
func (s *Session) Retain(existing map[string]bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for path := range s.selected {
		if !existing[path] {
			delete(s.selected, path)
		}
	}
}
