// Package viewer is the Bubble Tea TUI that shows a highlighted file with
// collapsible fold regions and live reloads from the watch service.
package viewer

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/truncate"

	"github.com/kwatters/hilex/internal/document"
	"github.com/kwatters/hilex/internal/highlight"
	"github.com/kwatters/hilex/internal/log"
	"github.com/kwatters/hilex/internal/pubsub"
	"github.com/kwatters/hilex/internal/watch"
)

// Model is the viewer's Bubble Tea model.
type Model struct {
	hl   *highlight.Highlighter
	doc  *document.Document
	lang highlight.Language
	path string

	viewport  viewport.Model
	ready     bool
	cursor    int // index into visible
	visible   []int
	collapsed map[int]bool
	status    string

	listener *pubsub.Listener[watch.Update]
}

// New builds a viewer for an already-lexed document. events may be nil when
// no live reload is wanted.
func New(hl *highlight.Highlighter, doc *document.Document, lang highlight.Language, path string, events *pubsub.Broker[watch.Update]) *Model {
	m := &Model{
		hl:        hl,
		doc:       doc,
		lang:      lang,
		path:      path,
		collapsed: make(map[int]bool),
	}
	if events != nil {
		m.listener = pubsub.NewListener(context.Background(), events)
	}
	m.visible = visibleLines(doc, m.collapsed)
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	if m.listener != nil {
		return m.listener.Listen()
	}
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-1)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - 1
		}
		m.rebuild()

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "j", "down":
			m.moveCursor(1)
		case "k", "up":
			m.moveCursor(-1)
		case "ctrl+d", "pgdown":
			m.moveCursor(m.viewport.Height / 2)
		case "ctrl+u", "pgup":
			m.moveCursor(-m.viewport.Height / 2)
		case "g", "home":
			m.cursor = 0
			m.rebuild()
		case "G", "end":
			m.cursor = len(m.visible) - 1
			m.rebuild()
		case " ", "enter":
			m.toggleFold()
		case "c":
			m.collapseAll()
		case "e":
			m.expandAll()
		}

	case pubsub.Event[watch.Update]:
		// document relexed on disk change: state already mutated in place
		m.status = fmt.Sprintf("reloaded (from line %d)", msg.Payload.FromLine+1)
		log.Debug(log.CatUI, "viewer reload", "path", m.path, "from_line", msg.Payload.FromLine)
		m.pruneCollapsed()
		m.rebuild()
		if m.listener != nil {
			return m, m.listener.Listen()
		}
	}

	return m, nil
}

func (m *Model) moveCursor(delta int) {
	m.cursor += delta
	if m.cursor < 0 {
		m.cursor = 0
	}
	if m.cursor >= len(m.visible) {
		m.cursor = len(m.visible) - 1
	}
	m.rebuild()
}

func (m *Model) toggleFold() {
	if m.cursor < 0 || m.cursor >= len(m.visible) {
		return
	}
	line := m.visible[m.cursor]
	if !isHeader(m.doc, line) {
		return
	}
	m.collapsed[line] = !m.collapsed[line]
	m.rebuild()
}

func (m *Model) collapseAll() {
	for line := 0; line < m.doc.LineCount(); line++ {
		if isHeader(m.doc, line) {
			m.collapsed[line] = true
		}
	}
	m.cursor = 0
	m.rebuild()
}

func (m *Model) expandAll() {
	m.collapsed = make(map[int]bool)
	m.rebuild()
}

// pruneCollapsed drops collapse marks on lines that stopped being headers
// after a reload.
func (m *Model) pruneCollapsed() {
	for line := range m.collapsed {
		if line >= m.doc.LineCount() || !isHeader(m.doc, line) {
			delete(m.collapsed, line)
		}
	}
}

func (m *Model) rebuild() {
	m.visible = visibleLines(m.doc, m.collapsed)
	if m.cursor >= len(m.visible) {
		m.cursor = len(m.visible) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	if !m.ready {
		return
	}

	theme := m.hl.Theme()
	numWidth := runewidth.StringWidth(fmt.Sprintf("%d", m.doc.LineCount()))
	var b strings.Builder
	for i, line := range m.visible {
		marker := " "
		if isHeader(m.doc, line) {
			if m.collapsed[line] {
				marker = "▸"
			} else {
				marker = "▾"
			}
		}
		cursor := " "
		if i == m.cursor {
			cursor = ">"
		}
		b.WriteString(cursor)
		b.WriteString(theme.LineNumber.Render(fmt.Sprintf("%*d ", numWidth, line+1)))
		b.WriteString(theme.FoldGutter.Render(marker))
		b.WriteString(" ")
		b.WriteString(m.hl.RenderLine(m.doc, m.lang, line))
		if m.collapsed[line] {
			hidden := regionEnd(m.doc, line) - line
			b.WriteString(theme.FoldGutter.Render(fmt.Sprintf(" … %d lines", hidden)))
		}
		if i < len(m.visible)-1 {
			b.WriteString("\n")
		}
	}
	m.viewport.SetContent(b.String())
	m.scrollToCursor()
}

func (m *Model) scrollToCursor() {
	top := m.viewport.YOffset
	bottom := top + m.viewport.Height - 1
	if m.cursor < top {
		m.viewport.SetYOffset(m.cursor)
	} else if m.cursor > bottom {
		m.viewport.SetYOffset(m.cursor - m.viewport.Height + 1)
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	if !m.ready {
		return "loading..."
	}
	theme := m.hl.Theme()
	status := fmt.Sprintf(" %s  %s  %d/%d ", m.path, m.lang, m.cursorLine()+1, m.doc.LineCount())
	if m.status != "" {
		status += "· " + m.status + " "
	}
	status = truncate.StringWithTail(status, uint(max(m.viewport.Width, 0)), "…")
	pad := m.viewport.Width - runewidth.StringWidth(status)
	if pad > 0 {
		status += strings.Repeat(" ", pad)
	}
	return m.viewport.View() + "\n" + theme.StatusBarText.Render(status)
}

func (m *Model) cursorLine() int {
	if m.cursor >= 0 && m.cursor < len(m.visible) {
		return m.visible[m.cursor]
	}
	return 0
}
