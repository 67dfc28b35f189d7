// Package settings mirrors the live values of the package settings consumed
// by the search-panel scrollmap bridge.
package settings

import (
	"sync"

	"github.com/cristianoliveira/scrollmap-search-panel/internal/config"
	"github.com/cristianoliveira/scrollmap-search-panel/internal/disposable"
)

// Setting keys observed by the mirror.
const (
	KeyThreshold = config.KeyThreshold
	KeyPermanent = config.KeyPermanent
)

// Source is an observable configuration. Each Observe call invokes fn once with
// the current value and again on every change, and returns its unsubscribe handle.
type Source interface {
	ObserveInt(key string, fn func(int)) disposable.Disposable
	ObserveBool(key string, fn func(bool)) disposable.Disposable
}

// Mirror holds the current threshold and permanent values.
// Values are assigned as received; the source is trusted to supply sane types.
type Mirror struct {
	mu        sync.RWMutex
	threshold int
	permanent bool
	subs      *disposable.Group
}

// NewMirror returns an idle mirror with zero values.
func NewMirror() *Mirror {
	return &Mirror{}
}

// Start subscribes to both keys. Calling Start again replaces the previous subscriptions.
func (m *Mirror) Start(src Source) {
	m.Stop()
	subs := disposable.NewGroup(
		src.ObserveInt(KeyThreshold, m.setThreshold),
		src.ObserveBool(KeyPermanent, m.setPermanent),
	)
	m.mu.Lock()
	m.subs = subs
	m.mu.Unlock()
}

// Stop releases both subscriptions together. Mirrored values are kept.
func (m *Mirror) Stop() {
	m.mu.Lock()
	subs := m.subs
	m.subs = nil
	m.mu.Unlock()
	if subs != nil {
		subs.Dispose()
	}
}

// Active reports whether the mirror is subscribed to a source.
func (m *Mirror) Active() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.subs != nil
}

// Threshold returns the result-count threshold; zero means no limit.
func (m *Mirror) Threshold() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.threshold
}

// Permanent reports whether markers stay visible while the search panel is hidden.
func (m *Mirror) Permanent() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.permanent
}

func (m *Mirror) setThreshold(v int) {
	m.mu.Lock()
	m.threshold = v
	m.mu.Unlock()
}

func (m *Mirror) setPermanent(v bool) {
	m.mu.Lock()
	m.permanent = v
	m.mu.Unlock()
}
