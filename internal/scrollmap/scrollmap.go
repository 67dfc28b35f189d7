// Package scrollmap defines the contract between scrollmap providers and the
// host that renders them, along with an in-memory host used by the viewer.
//
// A provider describes one data source (a named layer). The host gives every
// editor one layer per provider; each layer owns a cache the provider reads
// from in Items, and an Update trigger that recomputes items and redraws.
package scrollmap

import (
	"errors"
	"sync"

	"github.com/cristianoliveira/scrollmap-search-panel/internal/disposable"
)

// DataKey is the cache key providers conventionally read their input from.
const DataKey = "data"

// ErrLayerClosed is returned by Update on a layer whose editor map was closed.
var ErrLayerClosed = errors.New("scrollmap: layer closed")

// Cache is a per-layer key/value slot.
type Cache interface {
	Get(key string) (any, bool)
	Set(key string, value any)
}

// Item is one mark on the scrollmap; Row is the zero-based screen row.
type Item struct {
	Row int `toml:"row" json:"row"`
}

// Layer is one provider's slot on a single editor's scrollmap.
type Layer interface {
	Name() string
	Cache() Cache
	// Update recomputes the layer items from its cache and requests a redraw.
	Update() error
}

// InitContext is handed to a provider once per registration.
type InitContext struct {
	// Disposables is released when the provider is unregistered.
	Disposables *disposable.Group
	// Update recomputes this provider's layer on every editor.
	Update func()
}

// ItemsContext is handed to a provider when the host needs its items.
type ItemsContext struct {
	Cache Cache
}

// Provider describes a scrollmap data source.
type Provider interface {
	Name() string
	Description() string
	Initialize(ctx InitContext)
	Items(ctx ItemsContext) []Item
}

// MemoryCache is a Cache backed by a map.
type MemoryCache struct {
	mu     sync.RWMutex
	values map[string]any
}

// NewMemoryCache returns an empty cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{values: make(map[string]any)}
}

// Get returns the value stored under key.
func (c *MemoryCache) Get(key string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.values[key]
	return v, ok
}

// Set stores value under key.
func (c *MemoryCache) Set(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[key] = value
}
