// Package workspace defines the editor handles the bridge iterates and an
// in-memory workspace of text buffers.
package workspace

import (
	"sync"

	"github.com/cristianoliveira/scrollmap-search-panel/internal/scrollmap"
)

// Editor is one open document view.
type Editor interface {
	ID() string
	// ScrollmapLayer returns the named scrollmap layer, or false when the
	// editor has no scrollmap or no such layer.
	ScrollmapLayer(name string) (scrollmap.Layer, bool)
}

// Workspace reports the currently open editors.
type Workspace interface {
	TextEditors() []Editor
}

// TextSource is implemented by editors whose content can be searched.
type TextSource interface {
	Lines() []string
	// Revision changes whenever the content changes.
	Revision() uint64
}

// Memory is a Workspace holding editors in open order.
type Memory struct {
	mu      sync.RWMutex
	editors []Editor
}

// NewMemory returns an empty workspace.
func NewMemory() *Memory {
	return &Memory{}
}

// Add opens an editor. An editor with the same ID is replaced in place.
func (w *Memory) Add(e Editor) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for i, existing := range w.editors {
		if existing.ID() == e.ID() {
			w.editors[i] = e
			return
		}
	}
	w.editors = append(w.editors, e)
}

// Remove closes the editor with the given ID.
func (w *Memory) Remove(id string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	for i, e := range w.editors {
		if e.ID() == id {
			w.editors = append(w.editors[:i], w.editors[i+1:]...)
			return true
		}
	}
	return false
}

// Get returns the editor with the given ID.
func (w *Memory) Get(id string) (Editor, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	for _, e := range w.editors {
		if e.ID() == id {
			return e, true
		}
	}
	return nil, false
}

// TextEditors returns a snapshot of the open editors.
func (w *Memory) TextEditors() []Editor {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return append([]Editor(nil), w.editors...)
}

// Len returns the number of open editors.
func (w *Memory) Len() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.editors)
}
