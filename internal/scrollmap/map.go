package scrollmap

import (
	"sort"
	"sync"
	"sync/atomic"
)

var mapSeq atomic.Uint64

// Map is the scrollmap of a single editor: one layer per registered provider.
type Map struct {
	host     *Host
	seq      uint64
	mu       sync.RWMutex
	layers   map[string]*layer
	order    []string
	onRedraw func()
	closed   bool
}

// Layer returns the named layer.
func (m *Map) Layer(name string) (Layer, bool) {
	l, ok := m.layer(name)
	if !ok {
		return nil, false
	}
	return l, true
}

// Items returns the items last computed by the named layer.
func (m *Map) Items(name string) []Item {
	l, ok := m.layer(name)
	if !ok {
		return nil
	}
	return l.snapshot()
}

// Names returns the layer names in registration order.
func (m *Map) Names() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]string(nil), m.order...)
}

// Rows returns the distinct rows marked by any layer, ascending.
func (m *Map) Rows() []int {
	m.mu.RLock()
	layers := make([]*layer, 0, len(m.layers))
	for _, name := range m.order {
		layers = append(layers, m.layers[name])
	}
	m.mu.RUnlock()

	seen := make(map[int]struct{})
	var rows []int
	for _, l := range layers {
		for _, item := range l.snapshot() {
			if _, dup := seen[item.Row]; dup {
				continue
			}
			seen[item.Row] = struct{}{}
			rows = append(rows, item.Row)
		}
	}
	sort.Ints(rows)
	return rows
}

// Close detaches the map from its host. Later layer updates fail with ErrLayerClosed.
func (m *Map) Close() {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()
	m.host.detach(m)
}

func (m *Map) layer(name string) (*layer, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	l, ok := m.layers[name]
	return l, ok
}

func (m *Map) addLayer(p Provider) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.layers[p.Name()]; exists {
		return
	}
	m.layers[p.Name()] = &layer{provider: p, cache: NewMemoryCache(), owner: m}
	m.order = append(m.order, p.Name())
}

func (m *Map) removeLayer(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.layers, name)
	for i, n := range m.order {
		if n == name {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
}

func (m *Map) isClosed() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.closed
}

func (m *Map) redraw() {
	if m.onRedraw != nil {
		m.onRedraw()
	}
}

// layer implements Layer for one provider on one map.
type layer struct {
	provider Provider
	cache    *MemoryCache
	owner    *Map
	mu       sync.RWMutex
	items    []Item
}

func (l *layer) Name() string { return l.provider.Name() }

func (l *layer) Cache() Cache { return l.cache }

func (l *layer) Update() error {
	if l.owner.isClosed() {
		return ErrLayerClosed
	}
	items := l.provider.Items(ItemsContext{Cache: l.cache})
	l.mu.Lock()
	l.items = items
	l.mu.Unlock()
	l.owner.redraw()
	return nil
}

func (l *layer) snapshot() []Item {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]Item(nil), l.items...)
}
