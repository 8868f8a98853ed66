package cache

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// RateLimitStore counts requests per key in fixed windows. Implementations
// must be safe for concurrent use.
type RateLimitStore interface {
	// Hit records one request for the key and returns the number of requests
	// seen in the current window, including this one
	Hit(ctx context.Context, key string, window time.Duration) (int64, error)

	// Count returns the number of requests seen in the current window
	Count(ctx context.Context, key string) (int64, error)
}

// RedisRateLimitStore counts requests in Redis so limits hold across
// replicas. Keys expire with the window; a lost Redis key just resets the
// window early.
type RedisRateLimitStore struct {
	client *redis.Client
	prefix string
}

// NewRedisRateLimitStore creates a Redis-backed rate limit store
func NewRedisRateLimitStore(client *redis.Client) *RedisRateLimitStore {
	return &RedisRateLimitStore{
		client: client,
		prefix: "ratelimit:",
	}
}

// Hit implements RateLimitStore
func (s *RedisRateLimitStore) Hit(ctx context.Context, key string, window time.Duration) (int64, error) {
	redisKey := s.prefix + key

	pipe := s.client.TxPipeline()
	incr := pipe.Incr(ctx, redisKey)
	// NX keeps the original window anchor on subsequent hits
	pipe.ExpireNX(ctx, redisKey, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}

	return incr.Val(), nil
}

// Count implements RateLimitStore
func (s *RedisRateLimitStore) Count(ctx context.Context, key string) (int64, error) {
	n, err := s.client.Get(ctx, s.prefix+key).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	return n, err
}

// MemoryRateLimitStore is a process-local fallback used when Redis is not
// configured. Counts do not survive restarts and are not shared across
// replicas.
type MemoryRateLimitStore struct {
	mu      sync.Mutex
	windows map[string]*window
}

type window struct {
	count   int64
	resetAt time.Time
}

// NewMemoryRateLimitStore creates an in-memory rate limit store
func NewMemoryRateLimitStore() *MemoryRateLimitStore {
	s := &MemoryRateLimitStore{
		windows: make(map[string]*window),
	}
	go s.cleanup()
	return s
}

func (s *MemoryRateLimitStore) cleanup() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		s.mu.Lock()
		now := time.Now()
		for key, w := range s.windows {
			if now.After(w.resetAt) {
				delete(s.windows, key)
			}
		}
		s.mu.Unlock()
	}
}

// Hit implements RateLimitStore
func (s *MemoryRateLimitStore) Hit(_ context.Context, key string, windowSize time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	w, exists := s.windows[key]
	if !exists || now.After(w.resetAt) {
		s.windows[key] = &window{count: 1, resetAt: now.Add(windowSize)}
		return 1, nil
	}

	w.count++
	return w.count, nil
}

// Count implements RateLimitStore
func (s *MemoryRateLimitStore) Count(_ context.Context, key string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, exists := s.windows[key]
	if !exists || time.Now().After(w.resetAt) {
		return 0, nil
	}
	return w.count, nil
}
