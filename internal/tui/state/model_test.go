package state

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/cristianoliveira/scrollmap-search-panel/internal/config"
	"github.com/cristianoliveira/scrollmap-search-panel/internal/core"
	"github.com/cristianoliveira/scrollmap-search-panel/internal/scrollmap"
	"github.com/cristianoliveira/scrollmap-search-panel/internal/searchpanel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type harness struct {
	t     *testing.T
	model *Model
	msgs  chan tea.Msg
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "config"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(tmpDir, "state"))

	store := config.New()
	store.Set(config.KeyThrottleDelay, "1ms")
	m, err := NewModel(store)
	require.NoError(t, err)
	h := &harness{t: t, model: m, msgs: make(chan tea.Msg, 64)}
	m.SetSender(func(msg tea.Msg) { h.msgs <- msg })
	t.Cleanup(m.Close)
	m.Update(tea.WindowSizeMsg{Width: 60, Height: 13})
	return h
}

func (h *harness) key(k string) tea.Cmd {
	h.t.Helper()
	var msg tea.KeyMsg
	switch k {
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		msg = tea.KeyMsg{Type: tea.KeyTab}
	case "ctrl+c":
		msg = tea.KeyMsg{Type: tea.KeyCtrlC}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
	_, cmd := h.model.Update(msg)
	return cmd
}

// search types query into the search bar and applies it.
func (h *harness) search(query string) {
	h.t.Helper()
	h.key("/")
	require.True(h.t, h.model.searchMode)
	for _, r := range query {
		h.key(string(r))
	}
	h.key("enter")
}

// sync feeds program messages to the model until a sync pass has run.
func (h *harness) sync() tea.Cmd {
	h.t.Helper()
	deadline := time.After(time.Second)
	for {
		select {
		case msg := <-h.msgs:
			_, cmd := h.model.Update(msg)
			if _, ok := msg.(SyncMsg); ok {
				return cmd
			}
		case <-deadline:
			h.t.Fatal("no sync pass was dispatched")
			return nil
		}
	}
}

func findRows(t *testing.T, m *Model, index int) []int {
	t.Helper()
	buffers := m.Session().Buffers()
	require.Greater(t, len(buffers), index)
	var rows []int
	for _, item := range buffers[index].Scrollmap().Items(core.LayerName) {
		rows = append(rows, item.Row)
	}
	return rows
}

func TestSearchPopulatesFindLayer(t *testing.T) {
	h := newHarness(t)
	h.model.Session().OpenText("a.txt", "foo\nbar\nfoo bar\n")
	h.sync()

	h.search("foo")
	h.sync()

	panel := h.model.Session().Panel
	assert.Equal(t, "foo", panel.Query())
	assert.True(t, panel.IsFindVisible())
	assert.False(t, h.model.searchMode)
	assert.Equal(t, []int{0, 2}, findRows(t, h.model, 0))

	view := h.model.View()
	assert.Contains(t, view, "a.txt")
	assert.Contains(t, view, "scrollmap: find")
	assert.Contains(t, view, "panel shown")
	assert.Contains(t, view, "▪")
}

func TestEscHidesPanelAndPermanentKeepsMarkers(t *testing.T) {
	h := newHarness(t)
	h.model.Session().OpenText("a.txt", "foo\nfoo\n")
	h.sync()
	h.search("foo")
	h.sync()

	h.key("esc")
	h.sync()
	assert.False(t, h.model.Session().Panel.IsFindVisible())
	assert.Empty(t, findRows(t, h.model, 0))

	h.key("p")
	h.sync()
	assert.True(t, h.model.Session().Bridge.Permanent())
	assert.Equal(t, []int{0, 1}, findRows(t, h.model, 0))

	h.key("p")
	assert.False(t, h.model.Session().Bridge.Permanent())
}

func TestSearchModeCancel(t *testing.T) {
	h := newHarness(t)
	h.key("/")
	h.key("x")
	h.key("esc")

	assert.False(t, h.model.searchMode)
	assert.Empty(t, h.model.Session().Panel.Query())
	assert.False(t, h.model.Session().Panel.IsFindVisible())
}

func TestResultNavigation(t *testing.T) {
	h := newHarness(t)
	lines := make([]string, 40)
	for i := range lines {
		lines[i] = "line"
	}
	lines[5] = "needle"
	lines[30] = "needle"
	h.model.Session().OpenText("long.txt", strings.Join(lines, "\n"))
	h.sync()
	h.search("needle")
	h.sync()

	h.key("n")
	assert.Equal(t, 0, h.model.current)
	h.key("n")
	assert.Equal(t, 1, h.model.current)
	assert.Greater(t, h.model.viewport.YOffset, 0, "selected result should be scrolled into view")
	h.key("n")
	assert.Equal(t, 0, h.model.current)
	h.key("N")
	assert.Equal(t, 1, h.model.current)
	assert.Contains(t, h.model.View(), "2/2")
}

func TestNextResultWithoutResults(t *testing.T) {
	h := newHarness(t)
	h.model.Session().OpenText("a.txt", "x")

	cmd := h.key("n")

	assert.NotNil(t, cmd)
	assert.Equal(t, -1, h.model.current)
	assert.Equal(t, "no results", h.model.statusMessage)
}

func TestTabCyclesBuffers(t *testing.T) {
	h := newHarness(t)
	h.model.Session().OpenText("a.txt", "a")
	h.model.Session().OpenText("b.txt", "b")

	assert.Contains(t, h.model.View(), "[1/2] a.txt")
	h.key("tab")
	assert.Contains(t, h.model.View(), "[2/2] b.txt")
	h.key("tab")
	assert.Equal(t, 0, h.model.active)
}

func TestModeAndCaseKeys(t *testing.T) {
	h := newHarness(t)
	panel := h.model.Session().Panel

	h.key("m")
	assert.Equal(t, searchpanel.ModeRegex, panel.Mode())
	h.key("m")
	assert.Equal(t, searchpanel.ModeToken, panel.Mode())
	h.key("m")
	assert.Equal(t, searchpanel.ModeSubstring, panel.Mode())

	h.key("i")
	assert.True(t, panel.CaseInsensitive())
}

func TestSyncErrorShownInStatusLine(t *testing.T) {
	h := newHarness(t)
	b := h.model.Session().OpenText("a.txt", "foo")
	h.sync()
	b.Scrollmap().Close()

	h.model.Session().Panel.Refresh()
	cmd := h.sync()

	assert.NotNil(t, cmd, "status message should schedule its own clearing")
	assert.Contains(t, h.model.statusMessage, scrollmap.ErrLayerClosed.Error())
	assert.Contains(t, h.model.View(), "Error: ")

	h.model.Update(clearStatusMsg{seq: h.model.statusSeq})
	assert.Empty(t, h.model.statusMessage)
}

func TestQuit(t *testing.T) {
	for _, k := range []string{"q", "ctrl+c"} {
		t.Run(k, func(t *testing.T) {
			h := newHarness(t)
			cmd := h.key(k)
			require.NotNil(t, cmd)
			assert.Equal(t, tea.Quit(), cmd())
		})
	}
}

func TestViewWithoutBuffers(t *testing.T) {
	h := newHarness(t)

	view := h.model.View()

	assert.Contains(t, view, "[no buffer]")
	assert.Contains(t, view, "no search")
}
