package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

type memoryEntry struct {
	data      []byte
	expiresAt time.Time // zero means no expiry
}

// MemoryCache is a process-local TTL cache. It satisfies the same Cache
// interface as the Redis implementation so consumers can be wired with
// either; coherency across processes is explicitly not provided.
//
// Expired entries are evicted lazily on read and by a periodic sweep.
type MemoryCache struct {
	mu   sync.Mutex
	m    map[string]memoryEntry
	cron *cron.Cron
}

// NewMemoryCache creates a cache whose sweep loop fires on the given
// interval. The sweep is started immediately; call Stop at shutdown.
func NewMemoryCache(sweepEvery time.Duration) *MemoryCache {
	c := &MemoryCache{m: make(map[string]memoryEntry)}

	if sweepEvery > 0 {
		c.cron = cron.New()
		c.cron.Schedule(cron.Every(sweepEvery), cron.FuncJob(c.sweep))
		c.cron.Start()
	}
	return c
}

func (c *MemoryCache) Stop() {
	if c.cron != nil {
		c.cron.Stop()
	}
}

func (c *MemoryCache) GetJSON(ctx context.Context, key string, dst any) (bool, error) {
	c.mu.Lock()
	e, ok := c.m[key]
	if ok && !e.expiresAt.IsZero() && time.Now().After(e.expiresAt) {
		delete(c.m, key)
		ok = false
	}
	c.mu.Unlock()

	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(e.data, dst); err != nil {
		_ = c.Del(ctx, key)
		return false, nil
	}
	return true, nil
}

func (c *MemoryCache) SetJSON(_ context.Context, key string, val any, ttl time.Duration) error {
	b, err := json.Marshal(val)
	if err != nil {
		return err
	}

	e := memoryEntry{data: b}
	if ttl > 0 {
		e.expiresAt = time.Now().Add(ttl)
	}

	c.mu.Lock()
	c.m[key] = e
	c.mu.Unlock()
	return nil
}

func (c *MemoryCache) Del(_ context.Context, keys ...string) error {
	c.mu.Lock()
	for _, k := range keys {
		delete(c.m, k)
	}
	c.mu.Unlock()
	return nil
}

func (c *MemoryCache) sweep() {
	now := time.Now()
	c.mu.Lock()
	for k, e := range c.m {
		if !e.expiresAt.IsZero() && now.After(e.expiresAt) {
			delete(c.m, k)
		}
	}
	c.mu.Unlock()
}
