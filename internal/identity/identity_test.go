package identity

import (
	"context"
	"errors"
	"strings"
	"testing"

	"drink_order/internal/storage"
)

func TestGetOrCreateCustomerIDStable(t *testing.T) {
	store, err := storage.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create file store: %v", err)
	}
	ctx := context.Background()

	first := NewStore(store)
	id := first.GetOrCreateCustomerID(ctx)
	if id == "" {
		t.Fatalf("expected a generated id")
	}
	if again := first.GetOrCreateCustomerID(ctx); again != id {
		t.Fatalf("id must be stable within a session: %q != %q", again, id)
	}

	// A new store over the same persistence sees the same id.
	second := NewStore(store)
	if persisted := second.GetOrCreateCustomerID(ctx); persisted != id {
		t.Fatalf("id must survive restarts: %q != %q", persisted, id)
	}
}

type brokenStore struct{}

func (brokenStore) Get(ctx context.Context, key string, dest interface{}) error {
	return storage.ErrNotFound
}

func (brokenStore) Set(ctx context.Context, key string, value interface{}) error {
	return errors.New("disk full")
}

func (brokenStore) Delete(ctx context.Context, key string) error {
	return errors.New("disk full")
}

func TestGetOrCreateCustomerIDNeverFails(t *testing.T) {
	store := NewStore(brokenStore{})
	ctx := context.Background()

	id := store.GetOrCreateCustomerID(ctx)
	if !strings.HasPrefix(id, "anon_") {
		t.Fatalf("expected session-only fallback id, got %q", id)
	}
	if again := store.GetOrCreateCustomerID(ctx); again != id {
		t.Fatalf("fallback id must stay stable for the session: %q != %q", again, id)
	}
}
