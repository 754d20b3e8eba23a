package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pxldyrk/getcontext/classify"
)

// previewLines bounds how much of a file the preview pane reads.
const previewLines = 60

// Update handles events.
func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.windowSize = msg
		m.preview.Width = msg.Width/2 - 2
		m.preview.Height = msg.Height - 5
		m.refreshPreview()
		return m, nil

	case msgChanges:
		return m, tea.Batch(m.rescan(), m.waitForChanges())

	case msgRescanDone:
		m.files = msg
		existing := make(map[string]bool, len(m.files))
		for _, f := range m.files {
			existing[f.RelativePath] = true
		}
		m.sess.Retain(existing)
		if m.cursor >= len(m.files) {
			m.cursor = len(m.files) - 1
		}
		if m.cursor < 0 {
			m.cursor = 0
		}
		m.refreshPreview()
		m.status = fmt.Sprintf("Refreshed: %d file(s)", len(m.files))
		return m, nil

	case msgExported:
		if msg.err != nil {
			m.status = fmt.Sprintf("Export failed: %v", msg.err)
		} else {
			m.status = fmt.Sprintf("Exported %d file(s) to %s", msg.fileCount, msg.destination)
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m *model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
			m.refreshPreview()
		}

	case "down", "j":
		if m.cursor < len(m.files)-1 {
			m.cursor++
			m.refreshPreview()
		}

	case "pgup":
		m.cursor -= m.listHeight()
		if m.cursor < 0 {
			m.cursor = 0
		}
		m.refreshPreview()

	case "pgdown":
		m.cursor += m.listHeight()
		if m.cursor > len(m.files)-1 {
			m.cursor = len(m.files) - 1
		}
		m.refreshPreview()

	case " ":
		if f := m.currentFile(); f != nil {
			if m.sess.Toggle(f.RelativePath) {
				m.status = fmt.Sprintf("Selected %s (%d total)", f.RelativePath, m.sess.Len())
			} else {
				m.status = fmt.Sprintf("Deselected %s (%d total)", f.RelativePath, m.sess.Len())
			}
		}

	case "a":
		paths := make([]string, len(m.files))
		for i, f := range m.files {
			paths[i] = f.RelativePath
		}
		m.sess.SelectAll(paths)
		m.status = fmt.Sprintf("Selected all %d file(s)", m.sess.Len())

	case "n":
		m.sess.Clear()
		m.status = "Selection cleared"

	case "e":
		return m, m.export()
	}

	return m, nil
}

// rescan re-runs discovery after watcher changes.
func (m *model) rescan() tea.Cmd {
	opts := m.opts
	return func() tea.Msg {
		scanner := newScanner(opts)
		files, _, err := scanner.Scan(context.Background(), opts.RootDir)
		if err != nil {
			if opts.Logger != nil {
				opts.Logger.Warn("rescan failed", "error", err)
			}
			return nil
		}
		sortFiles(files)
		return msgRescanDone(files)
	}
}

// export snapshots the selection and hands it to the combine pipeline.
func (m *model) export() tea.Cmd {
	selected := m.selectedFiles()
	if len(selected) == 0 {
		m.status = "Nothing selected"
		return nil
	}

	opts := m.opts
	return func() tea.Msg {
		artifact, err := opts.Export(selected)
		if err != nil {
			return msgExported{err: err}
		}
		if err := os.WriteFile(opts.Destination, []byte(artifact.Text), 0644); err != nil {
			return msgExported{err: err}
		}
		return msgExported{
			destination: opts.Destination,
			fileCount:   artifact.FileCount - artifact.FailureCount,
		}
	}
}

// refreshPreview loads the head of the file under the cursor. Documents
// are not parsed here; the preview shows plain text only.
func (m *model) refreshPreview() {
	f := m.currentFile()
	if f == nil {
		m.preview.SetContent("")
		return
	}

	if f.Classification.Kind != classify.PlainText {
		m.preview.SetContent("(document preview not available)")
		return
	}

	absPath := filepath.Join(m.opts.RootDir, filepath.FromSlash(f.RelativePath))
	data, err := os.ReadFile(absPath)
	if err != nil {
		m.preview.SetContent(fmt.Sprintf("(unreadable: %v)", err))
		return
	}

	lines := strings.Split(string(data), "\n")
	if len(lines) > previewLines {
		lines = append(lines[:previewLines], "…")
	}
	m.preview.SetContent(strings.Join(lines, "\n"))
	m.preview.GotoTop()
}
