package search

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache stores results by key.
type Cache interface {
	Get(ctx context.Context, key string) (Result, bool, error)
	Set(ctx context.Context, key string, r Result, ttl time.Duration) error
}

// CacheKey identifies a result page of one index.
func CacheKey(index string, q Query) string {
	return "search:" + index + ":" + strconv.Itoa(q.Page) + ":" + strconv.Itoa(q.HitsPerPage) + ":" + q.Text
}

type memoryEntry struct {
	result  Result
	expires time.Time
}

// MemoryCache is an in-process Cache with per-entry TTL and a size cap.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	max     int
	now     func() time.Time
}

// NewMemoryCache returns a MemoryCache holding at most max entries.
func NewMemoryCache(max int) *MemoryCache {
	if max <= 0 {
		max = 1024
	}
	return &MemoryCache{entries: make(map[string]memoryEntry), max: max, now: time.Now}
}

func (c *MemoryCache) Get(_ context.Context, key string) (Result, bool, error) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok || !c.now().Before(e.expires) {
		return Result{}, false, nil
	}
	return e.result, true, nil
}

func (c *MemoryCache) Set(_ context.Context, key string, r Result, ttl time.Duration) error {
	now := c.now()
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.entries) >= c.max {
		for k, e := range c.entries {
			if !now.Before(e.expires) {
				delete(c.entries, k)
			}
		}
		// still full: drop an arbitrary entry
		for k := range c.entries {
			if len(c.entries) < c.max {
				break
			}
			delete(c.entries, k)
		}
	}
	c.entries[key] = memoryEntry{result: r, expires: now.Add(ttl)}
	return nil
}

// Len returns the number of stored entries, expired ones included.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// RedisCache stores results as JSON in Redis.
type RedisCache struct {
	client redis.UniversalClient
}

// NewRedisCache wraps an existing client.
func NewRedisCache(client redis.UniversalClient) *RedisCache {
	return &RedisCache{client: client}
}

// DialRedis parses a redis:// URL, connects and pings the server.
func DialRedis(ctx context.Context, rawURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, err
	}
	opts.MaxRetries = 3
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second
	client := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}
	return client, nil
}

func (c *RedisCache) Get(ctx context.Context, key string) (Result, bool, error) {
	raw, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return Result{}, false, nil
	}
	if err != nil {
		return Result{}, false, err
	}
	var r Result
	if err := json.Unmarshal(raw, &r); err != nil {
		return Result{}, false, err
	}
	return r, true, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, r Result, ttl time.Duration) error {
	raw, err := json.Marshal(r)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, raw, ttl).Err()
}

// Outcomes reported to Cached.Observe.
const (
	OutcomeHit   = "hit"
	OutcomeMiss  = "miss"
	OutcomeError = "error"
	OutcomeEmpty = "empty"
)

// Cached wraps a Searcher with a Cache. Cache failures fall through to the
// underlying Searcher.
type Cached struct {
	Searcher Searcher
	Cache    Cache
	Index    string
	TTL      time.Duration
	// Observe, when set, receives one outcome per Search call.
	Observe func(outcome string)
}

func (c *Cached) observe(outcome string) {
	if c.Observe != nil {
		c.Observe(outcome)
	}
}

func (c *Cached) Search(ctx context.Context, q Query) (Result, error) {
	if q.Text == "" {
		c.observe(OutcomeEmpty)
		return c.Searcher.Search(ctx, q)
	}
	key := CacheKey(c.Index, q)
	if r, ok, err := c.Cache.Get(ctx, key); err == nil && ok {
		c.observe(OutcomeHit)
		return r, nil
	}
	r, err := c.Searcher.Search(ctx, q)
	if err != nil {
		c.observe(OutcomeError)
		return Result{}, err
	}
	c.observe(OutcomeMiss)
	_ = c.Cache.Set(ctx, key, r, c.TTL)
	return r, nil
}
