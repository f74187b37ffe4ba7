// Package locale holds the persisted UI language preference. Every backend
// request carries the current locale as a query parameter.
package locale

import (
	"context"
	"log"
	"strings"
	"sync"

	"drink_order/internal/events"
	"drink_order/internal/storage"
)

const storageKey = "language"

// Changed is published whenever the language preference changes.
type Changed struct {
	Locale string
}

type Store struct {
	store storage.Store
	bus   *events.Bus[Changed]

	mu      sync.Mutex
	current string
}

func NewStore(ctx context.Context, store storage.Store, defaultLocale string) *Store {
	s := &Store{
		store:   store,
		bus:     events.NewBus[Changed](),
		current: defaultLocale,
	}

	var saved string
	if err := store.Get(ctx, storageKey, &saved); err == nil && saved != "" {
		s.current = saved
	}
	return s
}

func (s *Store) Current() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

func (s *Store) Set(ctx context.Context, loc string) {
	loc = strings.TrimSpace(loc)
	if loc == "" {
		return
	}

	s.mu.Lock()
	if s.current == loc {
		s.mu.Unlock()
		return
	}
	s.current = loc
	s.mu.Unlock()

	if err := s.store.Set(ctx, storageKey, loc); err != nil {
		log.Printf("Failed to persist language preference: %v", err)
	}
	s.bus.Publish(Changed{Locale: loc})
}

// OnChange subscribes to language changes and returns the unsubscribe func.
func (s *Store) OnChange(fn func(Changed)) func() {
	return s.bus.Subscribe(fn)
}
