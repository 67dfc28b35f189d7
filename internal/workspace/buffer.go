package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/cristianoliveira/scrollmap-search-panel/internal/scrollmap"
)

// Buffer is a text editor backed by an in-memory list of lines.
type Buffer struct {
	id        string
	path      string
	file      bool
	scrollmap *scrollmap.Map

	mu       sync.RWMutex
	lines    []string
	revision uint64
}

// NewBuffer returns a buffer with the given content. m may be nil when the
// editor has no scrollmap.
func NewBuffer(id, text string, m *scrollmap.Map) *Buffer {
	b := &Buffer{id: id, path: id, scrollmap: m}
	b.SetText(text)
	return b
}

// OpenFile reads path into a new buffer identified by its absolute path.
func OpenFile(path string, m *scrollmap.Map) (*Buffer, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	b := NewBuffer(abs, string(data), m)
	b.path = path
	b.file = true
	return b, nil
}

// Reload re-reads a buffer opened with OpenFile. In-memory buffers are left as is.
func (b *Buffer) Reload() error {
	if !b.file {
		return nil
	}
	data, err := os.ReadFile(b.id)
	if err != nil {
		return fmt.Errorf("reload %s: %w", b.path, err)
	}
	b.SetText(string(data))
	return nil
}

// ID returns the buffer identifier.
func (b *Buffer) ID() string { return b.id }

// Path returns the path the buffer was opened with.
func (b *Buffer) Path() string { return b.path }

// Scrollmap returns the buffer scrollmap, or nil.
func (b *Buffer) Scrollmap() *scrollmap.Map { return b.scrollmap }

// ScrollmapLayer returns the named layer of the buffer scrollmap.
func (b *Buffer) ScrollmapLayer(name string) (scrollmap.Layer, bool) {
	if b.scrollmap == nil {
		return nil, false
	}
	return b.scrollmap.Layer(name)
}

// Lines returns a copy of the buffer lines.
func (b *Buffer) Lines() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]string(nil), b.lines...)
}

// LineCount returns the number of lines.
func (b *Buffer) LineCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.lines)
}

// Revision returns a counter bumped on every SetText.
func (b *Buffer) Revision() uint64 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.revision
}

// SetText replaces the buffer content. A trailing newline does not start a new line.
func (b *Buffer) SetText(text string) {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.TrimSuffix(text, "\n")
	lines := strings.Split(text, "\n")

	b.mu.Lock()
	defer b.mu.Unlock()
	b.lines = lines
	b.revision++
}

// Close releases the buffer scrollmap.
func (b *Buffer) Close() {
	if b.scrollmap != nil {
		b.scrollmap.Close()
	}
}
