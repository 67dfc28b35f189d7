package state

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/cristianoliveira/scrollmap-search-panel/internal/config"
	"github.com/cristianoliveira/scrollmap-search-panel/internal/searchpanel"
)

var modeCycle = []searchpanel.Mode{searchpanel.ModeSubstring, searchpanel.ModeRegex, searchpanel.ModeToken}

func (m *Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.ForceQuit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Apply):
		m.searchMode = false
		m.input.Blur()
		query := m.input.Value()
		m.current = -1
		m.session.Panel.SetQuery(query)
		if query != "" {
			m.session.Panel.Show()
		}
		m.refreshContent()
		return m, nil
	case key.Matches(msg, m.keys.Cancel):
		m.searchMode = false
		m.input.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	panel := m.session.Panel
	switch {
	case key.Matches(msg, m.keys.ForceQuit), key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Search):
		m.searchMode = true
		m.input.SetValue(panel.Query())
		m.input.CursorEnd()
		return m, m.input.Focus()

	case key.Matches(msg, m.keys.Cancel):
		panel.Hide()
		return m, nil

	case key.Matches(msg, m.keys.Permanent):
		if m.session.Bridge.Permanent() {
			m.session.Store.Set(config.KeyPermanent, "false")
		} else {
			m.session.Store.Set(config.KeyPermanent, "true")
		}
		return m, nil

	case key.Matches(msg, m.keys.Mode):
		next := modeCycle[0]
		for i, mode := range modeCycle {
			if mode == panel.Mode() {
				next = modeCycle[(i+1)%len(modeCycle)]
			}
		}
		if err := panel.SetMode(next); err != nil {
			m.errorHandler.Error(err.Error())
			return m, m.clearStatusAfter(m.statusSeq)
		}
		m.current = -1
		return m, nil

	case key.Matches(msg, m.keys.IgnoreCase):
		panel.SetCaseInsensitive(!panel.CaseInsensitive())
		m.current = -1
		return m, nil

	case key.Matches(msg, m.keys.NextBuffer):
		if n := len(m.session.Buffers()); n > 0 {
			m.active = (m.active + 1) % n
		}
		m.current = -1
		m.viewport.GotoTop()
		m.refreshContent()
		return m, nil

	case key.Matches(msg, m.keys.NextResult):
		return m, m.moveResult(1)

	case key.Matches(msg, m.keys.PrevResult):
		return m, m.moveResult(-1)

	case key.Matches(msg, m.keys.ReloadFiles):
		return m, m.reloadFiles()
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// moveResult selects the next (delta 1) or previous (delta -1) result of
// the active buffer and scrolls it into the middle of the view.
func (m *Model) moveResult(delta int) tea.Cmd {
	b := m.activeBuffer()
	if b == nil {
		return nil
	}
	results := m.session.Panel.Results(b)
	if len(results) == 0 {
		m.current = -1
		m.errorHandler.Info("no results")
		return m.clearStatusAfter(m.statusSeq)
	}
	switch {
	case m.current < 0 && delta < 0:
		m.current = len(results) - 1
	case m.current < 0:
		m.current = 0
	default:
		m.current = (m.current + delta + len(results)) % len(results)
	}
	row := results[m.current].Range.Start.Row
	m.refreshContent()
	m.viewport.SetYOffset(row - m.viewport.Height/2)
	return nil
}

// reloadFiles re-reads every buffer from disk.
func (m *Model) reloadFiles() tea.Cmd {
	for _, b := range m.session.Buffers() {
		if err := b.Reload(); err != nil {
			m.errorHandler.Error(err.Error())
			return m.clearStatusAfter(m.statusSeq)
		}
	}
	m.session.Panel.Refresh()
	m.refreshContent()
	return nil
}
