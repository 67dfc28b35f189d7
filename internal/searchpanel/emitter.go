package searchpanel

import (
	"sort"
	"sync"

	"github.com/cristianoliveira/scrollmap-search-panel/internal/disposable"
)

// emitter fans an event out to subscribers in subscription order.
type emitter[T any] struct {
	mu       sync.Mutex
	nextID   uint64
	handlers map[uint64]func(T)
}

func newEmitter[T any]() *emitter[T] {
	return &emitter[T]{handlers: make(map[uint64]func(T))}
}

func (e *emitter[T]) subscribe(fn func(T)) disposable.Disposable {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.nextID++
	id := e.nextID
	e.handlers[id] = fn
	return disposable.Once(func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		delete(e.handlers, id)
	})
}

// emit calls every handler synchronously, outside the lock.
func (e *emitter[T]) emit(v T) {
	e.mu.Lock()
	ids := make([]uint64, 0, len(e.handlers))
	for id := range e.handlers {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	handlers := make([]func(T), 0, len(ids))
	for _, id := range ids {
		handlers = append(handlers, e.handlers[id])
	}
	e.mu.Unlock()

	for _, h := range handlers {
		h(v)
	}
}

func (e *emitter[T]) len() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.handlers)
}
