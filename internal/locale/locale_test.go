package locale

import (
	"context"
	"testing"

	"drink_order/internal/storage"
)

func TestDefaultAndPersistence(t *testing.T) {
	store, err := storage.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create file store: %v", err)
	}
	ctx := context.Background()

	first := NewStore(ctx, store, "th")
	if got := first.Current(); got != "th" {
		t.Fatalf("expected default locale th, got %q", got)
	}

	first.Set(ctx, "en")

	second := NewStore(ctx, store, "th")
	if got := second.Current(); got != "en" {
		t.Fatalf("expected persisted locale en, got %q", got)
	}
}

func TestSetIgnoresBlankAndNoops(t *testing.T) {
	store, err := storage.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create file store: %v", err)
	}
	ctx := context.Background()

	s := NewStore(ctx, store, "th")

	var changes []string
	s.OnChange(func(e Changed) {
		changes = append(changes, e.Locale)
	})

	s.Set(ctx, "  ")
	s.Set(ctx, "th")
	s.Set(ctx, "en")
	s.Set(ctx, "en")

	if s.Current() != "en" {
		t.Fatalf("unexpected locale %q", s.Current())
	}
	if len(changes) != 1 || changes[0] != "en" {
		t.Fatalf("expected a single change event for en, got %v", changes)
	}
}
