package scrollmap

import (
	"sort"
	"sync"

	"github.com/cristianoliveira/scrollmap-search-panel/internal/disposable"
)

// Host keeps the registered providers and the scrollmaps of open editors.
type Host struct {
	mu            sync.Mutex
	registrations []*registration
	maps          map[*Map]struct{}
}

type registration struct {
	provider Provider
	subs     *disposable.Group
}

// NewHost returns a host without providers.
func NewHost() *Host {
	return &Host{maps: make(map[*Map]struct{})}
}

// Register adds a provider, creates its layer on every open scrollmap, and
// initializes it. The returned disposable unregisters the provider and
// releases whatever it added to its InitContext.
func (h *Host) Register(p Provider) disposable.Disposable {
	reg := &registration{provider: p, subs: disposable.NewGroup()}

	h.mu.Lock()
	h.registrations = append(h.registrations, reg)
	maps := h.mapsLocked()
	h.mu.Unlock()

	for _, m := range maps {
		m.addLayer(p)
	}

	p.Initialize(InitContext{
		Disposables: reg.subs,
		Update:      func() { h.updateAll(p.Name()) },
	})

	return disposable.Once(func() { h.unregister(reg) })
}

// Providers returns the registered providers in registration order.
func (h *Host) Providers() []Provider {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]Provider, 0, len(h.registrations))
	for _, reg := range h.registrations {
		out = append(out, reg.provider)
	}
	return out
}

// NewMap creates the scrollmap of one editor. onRedraw is called after any of
// its layers recomputed items; it may be nil.
func (h *Host) NewMap(onRedraw func()) *Map {
	m := &Map{
		host:     h,
		seq:      mapSeq.Add(1),
		layers:   make(map[string]*layer),
		onRedraw: onRedraw,
	}

	h.mu.Lock()
	h.maps[m] = struct{}{}
	providers := make([]Provider, 0, len(h.registrations))
	for _, reg := range h.registrations {
		providers = append(providers, reg.provider)
	}
	h.mu.Unlock()

	for _, p := range providers {
		m.addLayer(p)
	}
	return m
}

// Dispose unregisters every provider.
func (h *Host) Dispose() {
	h.mu.Lock()
	// unregister compacts h.registrations in place.
	regs := append([]*registration(nil), h.registrations...)
	h.mu.Unlock()
	for _, reg := range regs {
		h.unregister(reg)
	}
}

func (h *Host) unregister(reg *registration) {
	h.mu.Lock()
	found := false
	for i, r := range h.registrations {
		if r == reg {
			h.registrations = append(h.registrations[:i], h.registrations[i+1:]...)
			found = true
			break
		}
	}
	maps := h.mapsLocked()
	h.mu.Unlock()
	if !found {
		return
	}

	reg.subs.Dispose()
	for _, m := range maps {
		m.removeLayer(reg.provider.Name())
	}
}

func (h *Host) updateAll(name string) {
	h.mu.Lock()
	maps := h.mapsLocked()
	h.mu.Unlock()
	for _, m := range maps {
		if l, ok := m.layer(name); ok {
			_ = l.Update()
		}
	}
}

func (h *Host) detach(m *Map) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.maps, m)
}

// mapsLocked returns open maps in creation order. Caller holds h.mu.
func (h *Host) mapsLocked() []*Map {
	maps := make([]*Map, 0, len(h.maps))
	for m := range h.maps {
		maps = append(maps, m)
	}
	sort.Slice(maps, func(i, j int) bool { return maps[i].seq < maps[j].seq })
	return maps
}
