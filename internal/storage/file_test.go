package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestFileStoreRoundtrip(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	ctx := context.Background()

	type snapshot struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}

	if err := store.Set(ctx, "snap", snapshot{Name: "cart", Count: 3}); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	var got snapshot
	if err := store.Get(ctx, "snap", &got); err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Name != "cart" || got.Count != 3 {
		t.Fatalf("unexpected value %+v", got)
	}
}

func TestFileStoreSetReplacesWholeValue(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	ctx := context.Background()

	if err := store.Set(ctx, "list", []string{"a", "b", "c"}); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := store.Set(ctx, "list", []string{"z"}); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	var got []string
	if err := store.Get(ctx, "list", &got); err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if len(got) != 1 || got[0] != "z" {
		t.Fatalf("Set must replace the whole value, got %v", got)
	}
}

func TestFileStoreMissingKey(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}

	var dest string
	if err := store.Get(context.Background(), "nope", &dest); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestFileStoreDelete(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	ctx := context.Background()

	if err := store.Set(ctx, "gone", "value"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := store.Delete(ctx, "gone"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	var dest string
	if err := store.Get(ctx, "gone", &dest); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestFileStoreCorruptValue(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "bad.json"), []byte("{oops"), 0o644); err != nil {
		t.Fatalf("failed to plant corrupt file: %v", err)
	}

	var dest map[string]string
	err = store.Get(context.Background(), "bad", &dest)
	if err == nil {
		t.Fatalf("expected decode error for corrupt value")
	}
	if errors.Is(err, ErrNotFound) {
		t.Fatalf("corrupt value must not report ErrNotFound")
	}
}

func TestFileStoreSanitizesKeys(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	ctx := context.Background()

	if err := store.Set(ctx, "../escape", "value"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("failed to list dir: %v", err)
	}
	for _, entry := range entries {
		if filepath.Dir(filepath.Join(dir, entry.Name())) != dir {
			t.Fatalf("key escaped the storage dir: %s", entry.Name())
		}
	}
	if _, err := os.Stat(filepath.Join(filepath.Dir(dir), "escape.json")); err == nil {
		t.Fatalf("key must not write outside the storage dir")
	}
}
