package tui

import (
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/pxldyrk/getcontext/session"
	"github.com/pxldyrk/getcontext/walk"
	"github.com/pxldyrk/getcontext/watch"
)

// model holds the selector state.
type model struct {
	opts  Options
	files []walk.File
	sess  *session.Session

	// UI state
	cursor     int
	offset     int
	windowSize tea.WindowSizeMsg
	status     string
	preview    viewport.Model

	watcher *watch.Watcher
}

// Messages.
type (
	// msgChanges carries a debounced batch of file system changes.
	msgChanges []watch.Change
	// msgRescanDone carries the refreshed eligible set.
	msgRescanDone []walk.File
	// msgExported reports the outcome of an export action.
	msgExported struct {
		destination string
		fileCount   int
		err         error
	}
)

func newModel(opts Options, files []walk.File) *model {
	return &model{
		opts:    opts,
		files:   files,
		sess:    session.New(),
		preview: viewport.New(0, 0),
		status:  "space: toggle   a: all   n: none   e: export   q: quit",
	}
}

// startWatcher begins observing the root so external edits refresh the
// listing. A watcher failure is not fatal; the TUI works without live
// updates.
func (m *model) startWatcher() {
	w, err := watch.New(m.opts.RootDir, m.opts.Rules, m.opts.Logger)
	if err != nil {
		if m.opts.Logger != nil {
			m.opts.Logger.Warn("file watching unavailable", "error", err)
		}
		return
	}
	m.watcher = w
	go w.Run()
}

func (m *model) stopWatcher() {
	if m.watcher != nil {
		m.watcher.Close()
	}
}

func (m *model) Init() tea.Cmd {
	return m.waitForChanges()
}

// waitForChanges blocks on the watcher channel as a bubbletea command.
func (m *model) waitForChanges() tea.Cmd {
	if m.watcher == nil {
		return nil
	}
	changes := m.watcher.Changes()
	return func() tea.Msg {
		batch, ok := <-changes
		if !ok {
			return nil
		}
		return msgChanges(batch)
	}
}

// currentFile returns the file under the cursor, or nil when the listing
// is empty.
func (m *model) currentFile() *walk.File {
	if m.cursor < 0 || m.cursor >= len(m.files) {
		return nil
	}
	return &m.files[m.cursor]
}

// selectedFiles resolves the session snapshot back to walk entries.
func (m *model) selectedFiles() []walk.File {
	byPath := make(map[string]walk.File, len(m.files))
	for _, f := range m.files {
		byPath[f.RelativePath] = f
	}

	var selected []walk.File
	for _, path := range m.sess.Snapshot() {
		if f, ok := byPath[path]; ok {
			selected = append(selected, f)
		}
	}
	return selected
}
