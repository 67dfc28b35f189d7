// Package app wires the search panel, the scrollmap host and the find bridge
// into sessions, and holds the use cases the commands run on top of them.
package app

import (
	"fmt"
	"sync"

	"github.com/cristianoliveira/scrollmap-search-panel/internal/config"
	"github.com/cristianoliveira/scrollmap-search-panel/internal/core"
	"github.com/cristianoliveira/scrollmap-search-panel/internal/disposable"
	"github.com/cristianoliveira/scrollmap-search-panel/internal/errors"
	"github.com/cristianoliveira/scrollmap-search-panel/internal/scrollmap"
	"github.com/cristianoliveira/scrollmap-search-panel/internal/searchpanel"
	"github.com/cristianoliveira/scrollmap-search-panel/internal/workspace"
)

// Session is one running host: a workspace of buffers with scrollmaps, a
// search panel over them, and the bridge keeping the find layers in sync.
type Session struct {
	Store     *config.Store
	Host      *scrollmap.Host
	Workspace *workspace.Memory
	Panel     *searchpanel.Panel
	Bridge    *core.Package

	onRedraw func()
	report   errors.ErrorHandler
	subs     *disposable.Group

	mu      sync.Mutex
	buffers []*workspace.Buffer
	closed  bool
}

type sessionOptions struct {
	onRedraw      func()
	report        errors.ErrorHandler
	bridgeOptions []core.Option
}

// SessionOption configures a Session.
type SessionOption func(*sessionOptions)

// WithRedraw is called whenever any buffer scrollmap redraws. It may be
// called from any goroutine.
func WithRedraw(fn func()) SessionOption {
	return func(o *sessionOptions) {
		o.onRedraw = fn
	}
}

// WithErrorHandler sets where settings problems are reported. Defaults to
// the console handler.
func WithErrorHandler(h errors.ErrorHandler) SessionOption {
	return func(o *sessionOptions) {
		o.report = h
	}
}

// WithBridgeOptions forwards options to the find bridge.
func WithBridgeOptions(opts ...core.Option) SessionOption {
	return func(o *sessionOptions) {
		o.bridgeOptions = append(o.bridgeOptions, opts...)
	}
}

// NewSession builds a session on store. The search panel starts hidden, in
// the configured search mode and case sensitivity, and follows later
// changes of both settings.
func NewSession(store *config.Store, opts ...SessionOption) (*Session, error) {
	if store == nil {
		panic("NewSession: store dependency cannot be nil")
	}
	var o sessionOptions
	for _, opt := range opts {
		opt(&o)
	}
	if o.report == nil {
		o.report = errors.NewDefaultCLIHandler()
	}

	mode, err := searchpanel.ParseMode(store.Get(config.KeySearchMode, string(searchpanel.ModeSubstring)))
	if err != nil {
		return nil, fmt.Errorf("session: %w", err)
	}

	s := &Session{
		Store:     store,
		Host:      scrollmap.NewHost(),
		Workspace: workspace.NewMemory(),
		Panel: searchpanel.New(
			searchpanel.WithMode(mode),
			searchpanel.WithCaseInsensitive(store.GetBool(config.KeyIgnoreCase, false)),
		),
		onRedraw: o.onRedraw,
		report:   o.report,
		subs:     disposable.NewGroup(),
	}
	s.Bridge = core.New(s.Workspace, store, o.bridgeOptions...)
	s.Bridge.Activate()

	s.subs.Add(
		s.Host.Register(s.Bridge.ProvideScrollmap()),
		s.Bridge.ConsumeSearchPanel(s.Panel),
		store.OnDidChange(config.KeySearchMode, func(value string) {
			s.setMode(value)
		}),
		store.OnDidChange(config.KeyIgnoreCase, func(value string) {
			s.Panel.SetCaseInsensitive(value == "true")
		}),
	)
	return s, nil
}

// setMode applies a search_mode change, reporting an unknown mode as a warning.
func (s *Session) setMode(value string) {
	if err := s.Panel.SetMode(searchpanel.Mode(value)); err != nil {
		s.report.Warning(fmt.Sprintf("search_mode: %v", err))
	}
}

// Open reads paths into buffers, each with its own scrollmap, and refreshes
// the search results. On error, the buffers opened so far stay open.
func (s *Session) Open(paths ...string) ([]*workspace.Buffer, error) {
	opened := make([]*workspace.Buffer, 0, len(paths))
	for _, path := range paths {
		b, err := workspace.OpenFile(path, s.Host.NewMap(s.onRedraw))
		if err != nil {
			return opened, err
		}
		s.add(b)
		opened = append(opened, b)
	}
	if len(opened) > 0 {
		s.Panel.Refresh()
	}
	return opened, nil
}

// OpenText adds an in-memory buffer.
func (s *Session) OpenText(id, text string) *workspace.Buffer {
	b := workspace.NewBuffer(id, text, s.Host.NewMap(s.onRedraw))
	s.add(b)
	s.Panel.Refresh()
	return b
}

func (s *Session) add(b *workspace.Buffer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.buffers {
		if existing.ID() == b.ID() {
			existing.Close()
			s.buffers[i] = b
			s.Workspace.Add(b)
			return
		}
	}
	s.buffers = append(s.buffers, b)
	s.Workspace.Add(b)
}

// Buffers returns the open buffers in open order.
func (s *Session) Buffers() []*workspace.Buffer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*workspace.Buffer(nil), s.buffers...)
}

// Close tears the session down. It is safe to call more than once.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	buffers := s.buffers
	s.buffers = nil
	s.mu.Unlock()

	s.subs.Dispose()
	s.Bridge.Deactivate()
	for _, b := range buffers {
		s.Workspace.Remove(b.ID())
		b.Close()
	}
	s.Host.Dispose()
}
