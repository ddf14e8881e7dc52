package redis

import (
	"context"
	"time"

	"github.com/turtacn/PatentLens/internal/application/cached"
	"github.com/turtacn/PatentLens/pkg/errors"
)

// CacheStore adapts Cache to the decorator store port, converting the
// miss sentinel into a found flag.
type CacheStore struct {
	cache *Cache
}

// NewCacheStore wraps cache.
func NewCacheStore(cache *Cache) *CacheStore {
	return &CacheStore{cache: cache}
}

func (s *CacheStore) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	err := s.cache.Get(ctx, key, dest)
	if err == nil {
		return true, nil
	}
	if errors.IsCode(err, errors.ErrCodeNotFound) {
		return false, nil
	}
	return false, err
}

func (s *CacheStore) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return s.cache.Set(ctx, key, value, ttl)
}

func (s *CacheStore) DeleteByPrefix(ctx context.Context, prefix string) error {
	return s.cache.DeleteByPrefix(ctx, prefix)
}

var _ cached.Store = (*CacheStore)(nil)
