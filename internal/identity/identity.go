// Package identity issues the anonymous customer id used to associate
// orders with a device. There are no accounts and no credentials.
package identity

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"drink_order/internal/storage"

	"github.com/google/uuid"
)

const storageKey = "anonymous_user_id"

type Store struct {
	store storage.Store

	mu     sync.Mutex
	cached string
}

func NewStore(store storage.Store) *Store {
	return &Store{store: store}
}

// GetOrCreateCustomerID returns the persisted anonymous id, generating and
// persisting a fresh UUID on first call. It never fails: if persistence is
// unavailable the id degrades to a timestamp token that lives only for this
// process, so callers must tolerate the identity changing between sessions.
func (s *Store) GetOrCreateCustomerID(ctx context.Context) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cached != "" {
		return s.cached
	}

	var saved string
	if err := s.store.Get(ctx, storageKey, &saved); err == nil && saved != "" {
		s.cached = saved
		return saved
	}

	id := uuid.NewString()
	if err := s.store.Set(ctx, storageKey, id); err != nil {
		log.Printf("Failed to persist anonymous user id, using session-only fallback: %v", err)
		id = fmt.Sprintf("anon_%d", time.Now().UnixMilli())
	}
	s.cached = id
	return id
}
