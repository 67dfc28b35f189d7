package state

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/cristianoliveira/scrollmap-search-panel/internal/scrollmap"
	"github.com/cristianoliveira/scrollmap-search-panel/internal/tui/render"
)

// View renders the TUI.
func (m *Model) View() string {
	b := m.activeBuffer()

	header := render.HeaderState{Width: m.width, Total: len(m.session.Buffers()), Index: m.active}
	body := m.viewport.View()
	if b != nil {
		header.Path = b.Path()
		if sm := b.Scrollmap(); sm != nil {
			header.Layers = sm.Names()
			body = lipgloss.JoinHorizontal(lipgloss.Top, body, render.Gutter(m.gutterState(sm, b.LineCount())))
		}
	}

	panel := m.session.Panel
	footer := render.FooterState{
		SearchMode:    m.searchMode,
		SearchInput:   m.input.View(),
		Query:         panel.Query(),
		Mode:          string(panel.Mode()),
		IgnoreCase:    panel.CaseInsensitive(),
		Visible:       panel.IsFindVisible(),
		Permanent:     m.session.Bridge.Permanent(),
		Threshold:     m.session.Bridge.Threshold(),
		Current:       m.current,
		StatusMessage: m.statusMessage,
		StatusType:    m.statusType,
		Width:         m.width,
	}
	if b != nil {
		footer.Matches = panel.Count(b)
	}

	var s strings.Builder
	s.WriteString(render.Header(header))
	s.WriteString("\n")
	s.WriteString(body)
	s.WriteString("\n")
	s.WriteString(render.Footer(footer))
	return s.String()
}

func (m *Model) gutterState(sm *scrollmap.Map, totalRows int) render.GutterState {
	height := m.viewport.Height
	state := render.GutterState{Cells: scrollmap.Project(sm.Rows(), totalRows, height)}
	if totalRows <= 0 {
		return state
	}
	state.ThumbStart = m.viewport.YOffset * height / totalRows
	state.ThumbEnd = ((m.viewport.YOffset+height)*height + totalRows - 1) / totalRows
	return state
}

// refreshContent re-renders the active buffer into the viewport. Result
// rows are highlighted while the panel is shown.
func (m *Model) refreshContent() {
	b := m.activeBuffer()
	if b == nil {
		m.viewport.SetContent("")
		return
	}
	panel := m.session.Panel
	marked := make(map[int]bool)
	current := -1
	if panel.IsFindVisible() {
		results := panel.Results(b)
		for _, r := range results {
			marked[r.Range.Start.Row] = true
		}
		if m.current >= len(results) {
			m.current = -1
		}
		if m.current >= 0 {
			current = results[m.current].Range.Start.Row
		}
	}
	m.viewport.SetContent(render.Lines(b.Lines(), marked, current))
}

func gutterWidth() int { return render.GutterWidth }
