// Package events is a small typed observable. Change notifications (language
// switches, cart updates) flow through an explicit bus owned by whoever
// constructs it and passed in by dependency injection, never through ambient
// package-level listener lists.
package events

import "sync"

type Bus[T any] struct {
	mu   sync.Mutex
	next int
	subs map[int]func(T)
}

func NewBus[T any]() *Bus[T] {
	return &Bus[T]{subs: make(map[int]func(T))}
}

// Subscribe registers a handler and returns its unsubscribe func.
// Unsubscribing twice is harmless.
func (b *Bus[T]) Subscribe(fn func(T)) func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.next
	b.next++
	b.subs[id] = fn
	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.subs, id)
	}
}

// Publish calls every subscribed handler with the event. Handlers run
// outside the bus lock, so they may subscribe or unsubscribe freely.
func (b *Bus[T]) Publish(event T) {
	b.mu.Lock()
	handlers := make([]func(T), 0, len(b.subs))
	for _, fn := range b.subs {
		handlers = append(handlers, fn)
	}
	b.mu.Unlock()

	for _, fn := range handlers {
		fn(event)
	}
}
