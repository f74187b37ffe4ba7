package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a key has never been written or was deleted.
var ErrNotFound = errors.New("storage: key not found")

// Store persists independently keyed JSON snapshots. Writes replace the
// whole value for a key; there are no partial updates, so concurrent writers
// to different keys can never interleave within one value.
//
// Callers must tolerate both ErrNotFound and decode errors on Get: locally
// persisted state can be absent or corrupt at any load.
type Store interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}) error
	Delete(ctx context.Context, key string) error
}
