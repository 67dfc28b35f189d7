// Package state holds the Bubble Tea model of the viewer.
package state

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/cristianoliveira/scrollmap-search-panel/internal/app"
	"github.com/cristianoliveira/scrollmap-search-panel/internal/config"
	"github.com/cristianoliveira/scrollmap-search-panel/internal/core"
	"github.com/cristianoliveira/scrollmap-search-panel/internal/errors"
	"github.com/cristianoliveira/scrollmap-search-panel/internal/logging"
	"github.com/cristianoliveira/scrollmap-search-panel/internal/workspace"
)

const (
	headerLines           = 1
	footerLines           = 2
	defaultViewportWidth  = 80
	defaultViewportHeight = 21
	errorClearDuration    = 5 * time.Second
)

// Model is the viewer: one buffer at a time, its scrollmap gutter, and a
// search bar driving the search panel.
type Model struct {
	session *app.Session
	keys    keyMap

	viewport   viewport.Model
	input      textinput.Model
	searchMode bool
	active     int
	current    int // selected result, -1 when none
	width      int
	height     int

	errorHandler  *errors.TUIHandler
	statusMessage string
	statusType    errors.MessageType
	statusSeq     int

	sendMu        sync.RWMutex
	send          func(tea.Msg)
	redrawPending atomic.Bool
}

// NewModel creates a viewer session on store. Call SetSender once the
// program exists so sync passes run on the program loop.
func NewModel(store *config.Store) (*Model, error) {
	input := textinput.New()
	input.Prompt = "/"
	input.Placeholder = "search"
	input.CharLimit = 256

	m := &Model{
		keys:     defaultKeyMap(),
		viewport: viewport.New(defaultViewportWidth, defaultViewportHeight),
		input:    input,
		current:  -1,
	}
	m.errorHandler = errors.NewTUIHandler(func(msg errors.Message) {
		m.statusMessage = msg.Text
		m.statusType = msg.Type
		m.statusSeq++
	})

	session, err := app.NewSession(store,
		app.WithRedraw(m.requestRedraw),
		app.WithErrorHandler(m.errorHandler),
		app.WithBridgeOptions(
			core.WithLogger(logging.GetGlobal().With("component", "tui")),
			core.WithDispatcher(m.dispatch),
			core.WithErrorHandler(errors.Reporter(m.errorHandler, "")),
		),
	)
	if err != nil {
		return nil, err
	}
	m.session = session
	return m, nil
}

// Session returns the session the viewer runs on.
func (m *Model) Session() *app.Session { return m.session }

// Open adds files to the viewer.
func (m *Model) Open(paths ...string) error {
	_, err := m.session.Open(paths...)
	m.refreshContent()
	return err
}

// SetSender sets the function used to deliver messages to the program,
// normally (*tea.Program).Send.
func (m *Model) SetSender(send func(tea.Msg)) {
	m.sendMu.Lock()
	defer m.sendMu.Unlock()
	m.send = send
}

// Close tears the session down.
func (m *Model) Close() {
	m.SetSender(nil)
	m.session.Close()
}

// Init initializes the TUI model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.searchMode {
			return m.handleSearchKey(msg)
		}
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil
	case SyncMsg:
		seq := m.statusSeq
		msg.Run()
		m.refreshContent()
		if m.statusSeq != seq {
			return m, m.clearStatusAfter(m.statusSeq)
		}
		return m, nil
	case RedrawMsg:
		m.redrawPending.Store(false)
		m.refreshContent()
		return m, nil
	case clearStatusMsg:
		if msg.seq == m.statusSeq {
			m.statusMessage = ""
		}
		return m, nil
	}
	return m, nil
}

// dispatch hands a sync pass to the program loop. Without a program the
// pass runs in place.
func (m *Model) dispatch(fn func()) {
	m.sendMu.RLock()
	send := m.send
	m.sendMu.RUnlock()
	if send == nil {
		fn()
		return
	}
	send(SyncMsg{Run: fn})
}

// requestRedraw may run on the program loop itself, so the message is
// sent from its own goroutine. Requests coalesce until handled.
func (m *Model) requestRedraw() {
	m.sendMu.RLock()
	send := m.send
	m.sendMu.RUnlock()
	if send == nil || !m.redrawPending.CompareAndSwap(false, true) {
		return
	}
	go send(RedrawMsg{})
}

func (m *Model) clearStatusAfter(seq int) tea.Cmd {
	return tea.Tick(errorClearDuration, func(time.Time) tea.Msg {
		return clearStatusMsg{seq: seq}
	})
}

func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = max(width-gutterWidth(), 1)
	m.viewport.Height = max(height-headerLines-footerLines, 1)
	m.input.Width = max(width-2, 1)
	m.refreshContent()
}

// activeBuffer returns the buffer shown, or nil when none is open.
func (m *Model) activeBuffer() *workspace.Buffer {
	buffers := m.session.Buffers()
	if len(buffers) == 0 {
		return nil
	}
	if m.active >= len(buffers) {
		m.active = 0
	}
	return buffers[m.active]
}
