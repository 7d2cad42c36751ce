package daemon

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrCacheMiss is returned by ReportCache.Get when nothing is stored.
var ErrCacheMiss = errors.New("cache miss")

const cacheKeyPrefix = "halos:plan:"

// ReportCache stores encoded reports by input fingerprint.
type ReportCache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// RedisCache is a ReportCache backed by Redis.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache connects lazily to the Redis server at addr.
func NewRedisCache(addr, password string, db int) *RedisCache {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &RedisCache{client: rdb}
}

// Ping checks the connection.
func (r *RedisCache) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Get returns the stored report or ErrCacheMiss.
func (r *RedisCache) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := r.client.Get(ctx, cacheKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	return val, err
}

// Set stores a report; ttl 0 keeps it until evicted.
func (r *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return r.client.Set(ctx, cacheKeyPrefix+key, value, ttl).Err()
}

// Close closes the client.
func (r *RedisCache) Close() error {
	return r.client.Close()
}

// DefaultMemoryCacheEntries bounds a MemoryCache built by NewMemoryCache.
const DefaultMemoryCacheEntries = 1024

type memoryItem struct {
	value   []byte
	stored  time.Time
	expires time.Time
}

func (it memoryItem) expired(now time.Time) bool {
	return !it.expires.IsZero() && !now.Before(it.expires)
}

// MemoryCache is an in-process ReportCache used when no Redis is configured.
// Expired entries are swept on every Set; past maxEntries the oldest entry
// is evicted.
type MemoryCache struct {
	mu         sync.Mutex
	items      map[string]memoryItem
	maxEntries int
	now        func() time.Time
}

// NewMemoryCache returns an empty MemoryCache holding at most
// DefaultMemoryCacheEntries reports.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		items:      make(map[string]memoryItem),
		maxEntries: DefaultMemoryCacheEntries,
		now:        time.Now,
	}
}

// Len reports the number of stored entries, expired ones included until swept.
func (m *MemoryCache) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}

// Get returns the stored report or ErrCacheMiss; expired entries are dropped.
func (m *MemoryCache) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	item, ok := m.items[key]
	if !ok {
		return nil, ErrCacheMiss
	}
	if item.expired(m.now()) {
		delete(m.items, key)
		return nil, ErrCacheMiss
	}
	return item.value, nil
}

// Set stores a copy of value.
func (m *MemoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	m.sweep(now)
	if _, ok := m.items[key]; !ok && m.maxEntries > 0 && len(m.items) >= m.maxEntries {
		m.evictOldest()
	}

	item := memoryItem{value: append([]byte(nil), value...), stored: now}
	if ttl > 0 {
		item.expires = now.Add(ttl)
	}
	m.items[key] = item
	return nil
}

func (m *MemoryCache) sweep(now time.Time) {
	for k, it := range m.items {
		if it.expired(now) {
			delete(m.items, k)
		}
	}
}

func (m *MemoryCache) evictOldest() {
	var oldest string
	var at time.Time
	for k, it := range m.items {
		if oldest == "" || it.stored.Before(at) {
			oldest, at = k, it.stored
		}
	}
	delete(m.items, oldest)
}
