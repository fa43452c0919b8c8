// Package storemock is an in-memory stand-in for the durable client-state
// store with the same versioning semantics as the gorm-backed one.
package storemock

import (
	"context"
	"sync"

	"billit-client/internal/domain/store"
)

type entry struct {
	value   []byte
	version int64
}

type Store struct {
	mu   sync.Mutex
	data map[string]entry

	// Optional failure injection; checked before any state change.
	PutErr    error
	GetErr    error
	RemoveErr error
}

func New() *Store { return &Store{data: map[string]entry{}} }

func (s *Store) Put(ctx context.Context, key string, value []byte, expectedVersion int64) (int64, error) {
	if s.PutErr != nil {
		return 0, s.PutErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.data[key]
	if !ok {
		if expectedVersion > 0 {
			return 0, store.ErrVersionConflict
		}
		s.data[key] = entry{value: value, version: 1}
		return 1, nil
	}
	if expectedVersion != store.AnyVersion && expectedVersion != cur.version {
		return 0, store.ErrVersionConflict
	}
	next := cur.version + 1
	s.data[key] = entry{value: value, version: next}
	return next, nil
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, int64, error) {
	if s.GetErr != nil {
		return nil, 0, s.GetErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.data[key]
	if !ok {
		return nil, 0, store.ErrNotFound
	}
	return cur.value, cur.version, nil
}

func (s *Store) Remove(ctx context.Context, key string) error {
	if s.RemoveErr != nil {
		return s.RemoveErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

// Has reports whether a key currently exists (test assertion helper).
func (s *Store) Has(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.data[key]
	return ok
}
