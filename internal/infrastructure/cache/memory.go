package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/labellens/backend/internal/domain"
)

// entry is a single cached value with its expiration.
type entry struct {
	Value      interface{}
	Expiration time.Time
}

// MemoryCache is a thread-safe in-memory cache with TTL support. It backs the
// OCR result cache: values are stored through a JSON round trip so reads see
// the same generic shape a Redis-backed implementation would return.
type MemoryCache struct {
	data            map[string]entry
	mutex           sync.RWMutex
	cleanupInterval time.Duration
}

// NewMemoryCache creates an in-memory cache. A background goroutine sweeps
// expired entries every interval; zero means every 10 minutes.
func NewMemoryCache(cleanupInterval time.Duration) *MemoryCache {
	if cleanupInterval <= 0 {
		cleanupInterval = 10 * time.Minute
	}
	c := &MemoryCache{
		data:            make(map[string]entry),
		cleanupInterval: cleanupInterval,
	}
	go c.sweep()
	return c
}

// Get retrieves a value, or domain.ErrCacheMiss when absent or expired.
func (c *MemoryCache) Get(ctx context.Context, key string) (interface{}, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	e, ok := c.data[key]
	if !ok || time.Now().After(e.Expiration) {
		return nil, domain.ErrCacheMiss
	}
	return e.Value, nil
}

// Set stores a value with the given TTL.
func (c *MemoryCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	jsonData, err := json.Marshal(value)
	if err != nil {
		return err
	}
	var stored interface{}
	if err := json.Unmarshal(jsonData, &stored); err != nil {
		return err
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.data[key] = entry{
		Value:      stored,
		Expiration: time.Now().Add(ttl),
	}
	return nil
}

// Delete removes a value.
func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	delete(c.data, key)
	return nil
}

// Exists reports whether a key is present and unexpired.
func (c *MemoryCache) Exists(ctx context.Context, key string) (bool, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	e, ok := c.data[key]
	if !ok || time.Now().After(e.Expiration) {
		return false, nil
	}
	return true, nil
}

// Size returns the current number of items, expired ones included.
func (c *MemoryCache) Size() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return len(c.data)
}

// Clear removes all items.
func (c *MemoryCache) Clear() {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.data = make(map[string]entry)
}

// sweep periodically removes expired entries.
func (c *MemoryCache) sweep() {
	ticker := time.NewTicker(c.cleanupInterval)
	defer ticker.Stop()

	for range ticker.C {
		c.mutex.Lock()
		now := time.Now()
		for key, e := range c.data {
			if now.After(e.Expiration) {
				delete(c.data, key)
			}
		}
		c.mutex.Unlock()
	}
}
