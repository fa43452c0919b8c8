package tokens

import (
	"context"
	"errors"
	"time"

	domain "billit-client/internal/domain/store"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "reverify:"

// Store is the session-scoped tier: short-lived re-verification tokens that
// expire server-side instead of living in durable storage.
type Store struct{ rdb *redis.Client }

func NewStore(rdb *redis.Client) *Store { return &Store{rdb: rdb} }

func (s *Store) PutToken(ctx context.Context, key, token string, ttl time.Duration) error {
	return s.rdb.Set(ctx, keyPrefix+key, token, ttl).Err()
}

func (s *Store) GetToken(ctx context.Context, key string) (string, error) {
	v, err := s.rdb.Get(ctx, keyPrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", domain.ErrNotFound
	}
	return v, err
}

func (s *Store) RemoveToken(ctx context.Context, key string) error {
	return s.rdb.Del(ctx, keyPrefix+key).Err()
}
