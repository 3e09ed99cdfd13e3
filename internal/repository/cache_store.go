package repository

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"
)

// CacheStore keeps values in memory with a sliding TTL. Every successful Get
// re-arms the expiration.
type CacheStore[T any] struct {
	cache    *cache.Cache
	ttl      time.Duration
	notFound error
}

func NewCacheStore[T any](ttl, cleanupInterval time.Duration, notFound error) *CacheStore[T] {
	return &CacheStore[T]{
		cache:    cache.New(ttl, cleanupInterval),
		ttl:      ttl,
		notFound: notFound,
	}
}

func (s *CacheStore[T]) Get(_ context.Context, key string) (T, error) {
	var zero T

	v, ok := s.cache.Get(key)
	if !ok {
		return zero, s.notFound
	}

	value, ok := v.(T)
	if !ok {
		return zero, s.notFound
	}

	s.cache.Set(key, value, s.ttl)
	return value, nil
}

func (s *CacheStore[T]) Set(_ context.Context, key string, value T) error {
	s.cache.Set(key, value, s.ttl)
	return nil
}

func (s *CacheStore[T]) Delete(_ context.Context, key string) error {
	s.cache.Delete(key)
	return nil
}

// OnEvicted registers a hook for expired or deleted entries
func (s *CacheStore[T]) OnEvicted(fn func(key string, value T)) {
	s.cache.OnEvicted(func(key string, v any) {
		if value, ok := v.(T); ok {
			fn(key, value)
		}
	})
}

func (s *CacheStore[T]) Len() int {
	return s.cache.ItemCount()
}
