package cmd

import (
	"context"
	"fmt"
	"io"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/cristianoliveira/scrollmap-search-panel/internal/app"
	"github.com/cristianoliveira/scrollmap-search-panel/internal/config"
	"github.com/cristianoliveira/scrollmap-search-panel/internal/logging"
	"github.com/cristianoliveira/scrollmap-search-panel/internal/tui/state"
	"github.com/cristianoliveira/scrollmap-search-panel/internal/version"
)

var (
	storeMu sync.Mutex
	store   *config.Store
	// loadConfig is replaced in tests.
	loadConfig = config.Load
)

// currentStore returns the configuration store, loading it on first use.
func currentStore() *config.Store {
	storeMu.Lock()
	defer storeMu.Unlock()
	if store == nil {
		store = loadConfig()
	}
	return store
}

// defaultClient backs the commands with the real session, viewer and config store.
type defaultClient struct{}

func (defaultClient) Find(input app.FindInput, w io.Writer) error {
	session, err := app.NewSession(currentStore())
	if err != nil {
		return err
	}
	defer session.Close()
	return app.NewFindUseCase(session).Execute(input, w)
}

func (defaultClient) View(ctx context.Context, paths []string) error {
	s := currentStore()
	model, err := state.NewModel(s)
	if err != nil {
		return fmt.Errorf("create viewer: %w", err)
	}
	defer model.Close()
	if err := model.Open(paths...); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		if err := s.Watch(ctx); err != nil {
			logging.Debug("config watch disabled", "error", err)
		}
	}()

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	model.SetSender(p.Send)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run viewer: %w", err)
	}
	return nil
}

func (defaultClient) ConfigPath() string { return currentStore().Path() }

func (defaultClient) ConfigTOML() ([]byte, error) { return currentStore().MarshalTOML() }

func (defaultClient) InitConfig() (string, error) { return currentStore().WriteSample() }

func (defaultClient) Version() string { return version.String() }

func (defaultClient) GoVersion() string { return version.GoVersion() }
