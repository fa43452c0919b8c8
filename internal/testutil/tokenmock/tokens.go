// Package tokenmock is an in-memory session-tier token store. TTLs are
// recorded, not enforced; use Expire to simulate expiry.
package tokenmock

import (
	"context"
	"sync"
	"time"

	"billit-client/internal/domain/store"
)

type Store struct {
	mu     sync.Mutex
	tokens map[string]string

	PutErr error
}

func New() *Store { return &Store{tokens: map[string]string{}} }

func (s *Store) PutToken(ctx context.Context, key, token string, ttl time.Duration) error {
	if s.PutErr != nil {
		return s.PutErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[key] = token
	return nil
}

func (s *Store) GetToken(ctx context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tok, ok := s.tokens[key]
	if !ok {
		return "", store.ErrNotFound
	}
	return tok, nil
}

func (s *Store) RemoveToken(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, key)
	return nil
}

// Expire drops a token as if its TTL elapsed.
func (s *Store) Expire(key string) { _ = s.RemoveToken(context.Background(), key) }
