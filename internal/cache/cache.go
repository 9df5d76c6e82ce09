// Package cache is an explicitly owned in-memory TTL cache. Entries are
// stamped with their expiry when written.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"sync"
	"time"
)

type Item[V any] struct {
	Value     V         `json:"value"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type Cache[V any] struct {
	mu    sync.RWMutex
	items map[string]Item[V]
	ttl   time.Duration
	now   func() time.Time
}

// New creates a cache whose Set uses ttl as the default lifetime.
func New[V any](ttl time.Duration) *Cache[V] {
	return &Cache[V]{
		items: make(map[string]Item[V]),
		ttl:   ttl,
		now:   time.Now,
	}
}

func (c *Cache[V]) Set(key string, value V) {
	c.SetTTL(key, value, c.ttl)
}

func (c *Cache[V]) SetTTL(key string, value V, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items[key] = Item[V]{
		Value:     value,
		ExpiresAt: c.now().Add(ttl),
	}
}

// Get returns the value for key. Expired entries are dropped on read.
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.RLock()
	item, exists := c.items[key]
	c.mu.RUnlock()

	var zero V
	if !exists {
		return zero, false
	}
	if c.now().After(item.ExpiresAt) {
		c.mu.Lock()
		if cur, ok := c.items[key]; ok && cur.ExpiresAt.Equal(item.ExpiresAt) {
			delete(c.items, key)
		}
		c.mu.Unlock()
		return zero, false
	}
	return item.Value, true
}

func (c *Cache[V]) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
}

func (c *Cache[V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[string]Item[V])
}

func (c *Cache[V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Snapshot returns the live entries, for persistence.
func (c *Cache[V]) Snapshot() map[string]Item[V] {
	c.mu.RLock()
	defer c.mu.RUnlock()

	now := c.now()
	out := make(map[string]Item[V], len(c.items))
	for k, v := range c.items {
		if now.Before(v.ExpiresAt) {
			out[k] = v
		}
	}
	return out
}

// Restore loads entries saved by Snapshot, skipping expired ones.
func (c *Cache[V]) Restore(items map[string]Item[V]) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for k, v := range items {
		if now.Before(v.ExpiresAt) {
			c.items[k] = v
		}
	}
}

// StartJanitor removes expired entries every interval until ctx ends.
func (c *Cache[V]) StartJanitor(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				c.cleanup()
			}
		}
	}()
}

func (c *Cache[V]) cleanup() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	removed := 0
	for key, item := range c.items {
		if now.After(item.ExpiresAt) {
			delete(c.items, key)
			removed++
		}
	}
	return removed
}

// Key hashes parts into a stable cache key.
func Key(parts ...string) string {
	h := sha256.New()
	h.Write([]byte(strings.Join(parts, "\x00")))
	return hex.EncodeToString(h.Sum(nil))
}
