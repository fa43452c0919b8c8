package store

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound        = errors.New("state record not found")
	ErrVersionConflict = errors.New("state record version conflict")
)

// AnyVersion disables the optimistic-concurrency check on Put.
const AnyVersion int64 = -1

// Store is the long-lived client-state tier. Records survive restarts and
// carry a monotonic version; a Put whose expectedVersion no longer matches
// the stored one fails with ErrVersionConflict, which closes the
// concurrent-writer race on shared drafts. A Put with expectedVersion 0
// requires the key to be absent.
type Store interface {
	Put(ctx context.Context, key string, value []byte, expectedVersion int64) (int64, error)
	Get(ctx context.Context, key string) ([]byte, int64, error)
	Remove(ctx context.Context, key string) error
}

// TokenStore is the session-scoped tier: short-lived credentials that expire
// on their own (re-verification tokens). No versioning; last write wins.
type TokenStore interface {
	PutToken(ctx context.Context, key, token string, ttl time.Duration) error
	GetToken(ctx context.Context, key string) (string, error)
	RemoveToken(ctx context.Context, key string) error
}
