package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/pxldyrk/getcontext/classify"
)

// Selection and classification markers. Single-width characters keep the
// columns aligned across terminals.
const (
	iconSelected = "✓"
	iconCursor   = ">"
	iconText     = " "
	iconDocument = "◆"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	cursorStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	statusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	paneStyle     = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).PaddingLeft(1)
)

// listHeight is how many file rows fit in the current window.
func (m *model) listHeight() int {
	h := m.windowSize.Height - 4 // title, blank, status, footer
	if h < 1 {
		h = 1
	}
	return h
}

// View renders the file list beside the preview pane.
func (m *model) View() string {
	if m.windowSize.Width == 0 {
		return "loading..."
	}

	title := titleStyle.Render(fmt.Sprintf("getcontext — %s (%d files, %d selected)",
		m.opts.RootDir, len(m.files), m.sess.Len()))

	list := m.renderList()
	body := lipgloss.JoinHorizontal(lipgloss.Top, list, paneStyle.Render(m.preview.View()))

	status := statusStyle.Render(m.status)
	return title + "\n\n" + body + "\n" + status
}

func (m *model) renderList() string {
	height := m.listHeight()
	width := m.windowSize.Width / 2

	// Keep the cursor inside the visible window.
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+height {
		m.offset = m.cursor - height + 1
	}

	var b strings.Builder
	for i := m.offset; i < len(m.files) && i < m.offset+height; i++ {
		f := m.files[i]

		marker := " "
		if m.sess.Selected(f.RelativePath) {
			marker = iconSelected
		}

		line := fitLine(fmt.Sprintf("%s %s %s", marker, classificationIcon(f.Classification), f.RelativePath), width)

		switch {
		case i == m.cursor:
			b.WriteString(cursorStyle.Render(iconCursor + line))
		case marker == iconSelected:
			b.WriteString(selectedStyle.Render(" " + line))
		default:
			b.WriteString(dimStyle.Render(" " + line))
		}
		b.WriteString("\n")
	}

	for i := len(m.files) - m.offset; i < height; i++ {
		b.WriteString("\n")
	}

	return b.String()
}

// fitLine truncates a row to the given cell width on rune boundaries;
// paths and markers may contain multibyte runes, so byte slicing would
// corrupt them.
func fitLine(line string, width int) string {
	if width <= 1 {
		return line
	}
	return runewidth.Truncate(line, width, "…")
}

// classificationIcon marks documents so the user knows the preview will
// not show their extracted form.
func classificationIcon(c classify.Classification) string {
	if c.Kind == classify.Document {
		return iconDocument
	}
	return iconText
}
