// Package disposable provides release handles for subscriptions and registrations.
package disposable

import "sync"

// Disposable releases a resource when called.
type Disposable func()

// Dispose runs the release function. A nil Disposable is a no-op.
func (d Disposable) Dispose() {
	if d != nil {
		d()
	}
}

// Once wraps fn so that only the first Dispose call runs it.
func Once(fn func()) Disposable {
	var once sync.Once
	return func() {
		once.Do(fn)
	}
}

// Group collects disposables and releases them together.
// After Dispose, anything added is released immediately.
type Group struct {
	mu       sync.Mutex
	items    []Disposable
	disposed bool
}

// NewGroup creates a group holding the given disposables.
func NewGroup(items ...Disposable) *Group {
	g := &Group{}
	g.Add(items...)
	return g
}

// Add appends disposables to the group.
func (g *Group) Add(items ...Disposable) {
	g.mu.Lock()
	if g.disposed {
		g.mu.Unlock()
		for _, d := range items {
			d.Dispose()
		}
		return
	}
	g.items = append(g.items, items...)
	g.mu.Unlock()
}

// Len returns the number of disposables not yet released.
func (g *Group) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.items)
}

// Dispose releases every disposable in insertion order. Safe to call more than once.
func (g *Group) Dispose() {
	g.mu.Lock()
	items := g.items
	g.items = nil
	g.disposed = true
	g.mu.Unlock()

	for _, d := range items {
		d.Dispose()
	}
}

// Disposed reports whether Dispose has been called.
func (g *Group) Disposed() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.disposed
}
