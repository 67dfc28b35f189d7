// Package core bridges a search panel with the scrollmap "find" layer.
//
// A Package mirrors the threshold and permanent settings, copies result
// markers into each editor's find layer whenever the search panel reports
// a change (throttled), and provides the scrollmap provider that turns the
// cached markers into rows.
package core

import (
	"fmt"
	"sync"
	"time"

	"github.com/cristianoliveira/scrollmap-search-panel/internal/config"
	"github.com/cristianoliveira/scrollmap-search-panel/internal/disposable"
	"github.com/cristianoliveira/scrollmap-search-panel/internal/logging"
	"github.com/cristianoliveira/scrollmap-search-panel/internal/searchpanel"
	"github.com/cristianoliveira/scrollmap-search-panel/internal/settings"
	"github.com/cristianoliveira/scrollmap-search-panel/internal/throttle"
	"github.com/cristianoliveira/scrollmap-search-panel/internal/workspace"
)

// LayerName is the scrollmap layer this package owns.
const LayerName = "find"

// DefaultThrottleDelay is used when the configuration has no throttle_delay.
const DefaultThrottleDelay = 50 * time.Millisecond

// ConfigSource is the configuration the bridge reads.
type ConfigSource interface {
	settings.Source
	OnDidChange(key string, fn func(value string)) disposable.Disposable
	GetDuration(key string, defaultValue time.Duration) time.Duration
}

var _ ConfigSource = (*config.Store)(nil)

// Option configures a Package.
type Option func(*Package)

// WithLogger sets the logger used for sync failures. Defaults to the global logger.
func WithLogger(l logging.Logger) Option {
	return func(p *Package) {
		p.logger = l
	}
}

// WithDispatcher runs throttled sync passes through dispatch, typically a
// host event loop.
func WithDispatcher(dispatch func(func())) Option {
	return func(p *Package) {
		p.dispatch = dispatch
	}
}

// WithErrorHandler is called with every error a throttled sync pass returns.
func WithErrorHandler(fn func(error)) Option {
	return func(p *Package) {
		p.onError = fn
	}
}

// WithThrottleDelay overrides the configured throttle delay.
func WithThrottleDelay(d time.Duration) Option {
	return func(p *Package) {
		p.delay = &d
	}
}

// Package is the search panel to scrollmap bridge.
type Package struct {
	workspace workspace.Workspace
	config    ConfigSource
	mirror    *settings.Mirror

	logger   logging.Logger
	dispatch func(func())
	onError  func(error)
	delay    *time.Duration

	mu        sync.RWMutex
	service   searchpanel.Service
	consumers *disposable.Group
}

// New returns an inactive Package over ws and cfg.
func New(ws workspace.Workspace, cfg ConfigSource, opts ...Option) *Package {
	p := &Package{
		workspace: ws,
		config:    cfg,
		mirror:    settings.NewMirror(),
		consumers: disposable.NewGroup(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Activate starts mirroring the threshold and permanent settings.
func (p *Package) Activate() {
	p.mirror.Start(p.config)
	p.mu.Lock()
	if p.consumers.Disposed() {
		p.consumers = disposable.NewGroup()
	}
	p.mu.Unlock()
	p.log().Debug("find bridge activated", "threshold", p.mirror.Threshold(), "permanent", p.mirror.Permanent())
}

// Deactivate releases the settings subscriptions and every live search
// panel registration, and forgets the service.
func (p *Package) Deactivate() {
	p.mu.Lock()
	consumers := p.consumers
	p.service = nil
	p.mu.Unlock()

	consumers.Dispose()
	p.mirror.Stop()
	p.log().Debug("find bridge deactivated")
}

// Threshold returns the mirrored result-count threshold.
func (p *Package) Threshold() int { return p.mirror.Threshold() }

// Permanent returns the mirrored permanent flag.
func (p *Package) Permanent() bool { return p.mirror.Permanent() }

// Service returns the stored search service, or nil.
func (p *Package) Service() searchpanel.Service {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.service
}

// ConsumeSearchPanel stores service and syncs the find layers, throttled,
// whenever the service reports new results or a visibility change. A change
// of the permanent setting triggers a pass too, since it decides whether
// hidden results are kept.
//
// The returned disposable releases the subscriptions, stops the throttle
// and clears the stored service.
func (p *Package) ConsumeSearchPanel(service searchpanel.Service) disposable.Disposable {
	delay := p.throttleDelay()
	var opts []throttle.Option
	if p.dispatch != nil {
		opts = append(opts, throttle.WithDispatcher(p.dispatch))
	}
	th := throttle.New(p.runSync, delay, opts...)

	p.mu.Lock()
	p.service = service
	consumers := p.consumers
	p.mu.Unlock()

	subs := disposable.NewGroup(
		service.OnDidUpdate(th.Trigger),
		service.OnDidChangeFindVisibility(func(bool) { th.Trigger() }),
		p.config.OnDidChange(settings.KeyPermanent, func(string) { th.Trigger() }),
	)
	p.log().Debug("search panel consumed", "throttle_delay", delay.String())

	teardown := disposable.Once(func() {
		subs.Dispose()
		th.Stop()
		p.mu.Lock()
		if p.service == service {
			p.service = nil
		}
		p.mu.Unlock()
	})
	consumers.Add(teardown)
	return teardown
}

// ProvideScrollmap returns the find scrollmap provider.
func (p *Package) ProvideScrollmap() *Provider {
	return &Provider{pkg: p}
}

func (p *Package) throttleDelay() time.Duration {
	if p.delay != nil {
		return *p.delay
	}
	return p.config.GetDuration(config.KeyThrottleDelay, DefaultThrottleDelay)
}

// runSync is the throttled action.
func (p *Package) runSync() {
	if err := p.SyncAll(); err != nil {
		p.log().Error("find layer sync failed", "error", err)
		if p.onError != nil {
			p.onError(fmt.Errorf("sync find layers: %w", err))
		}
	}
}

func (p *Package) log() logging.Logger {
	if p.logger != nil {
		return p.logger
	}
	return logging.GetGlobal()
}
