package cache

import (
	"sync"
	"time"

	"femilyship-web/internal/config"
)

// Cache is an in-memory response cache with a per-key request sequence.
// A fetch takes a Ticket before it starts and commits its result with that
// ticket; results from fetches issued before the stored one are dropped, so
// the later-issued fetch always wins regardless of arrival order.
type Cache struct {
	mu      sync.Mutex
	ttl     time.Duration
	items   map[string]entry
	issued  map[string]uint64
	floor   map[string]uint64 // commits at or below this sequence are rejected
	nowFunc func() time.Time
}

type entry struct {
	value     []byte
	seq       uint64
	expiresAt time.Time
}

// Ticket identifies one fetch of a key.
type Ticket struct {
	key string
	seq uint64
}

// New creates a new Cache. A zero TTL disables storage but keeps sequencing.
func New(cfg config.CacheConfig) *Cache {
	return &Cache{
		ttl:     cfg.TTL,
		items:   make(map[string]entry),
		issued:  make(map[string]uint64),
		floor:   make(map[string]uint64),
		nowFunc: time.Now,
	}
}

// Get retrieves an item from the cache. It reports false if the item is missing or expired.
func (c *Cache) Get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	item, ok := c.items[key]
	if !ok {
		return nil, false
	}
	if c.nowFunc().After(item.expiresAt) {
		delete(c.items, key)
		return nil, false
	}
	return append([]byte(nil), item.value...), true
}

// Begin issues the next ticket for key.
func (c *Cache) Begin(key string) Ticket {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.issued[key]++
	return Ticket{key: key, seq: c.issued[key]}
}

// Commit stores value under the ticket's key unless a later-issued fetch has
// already committed or the key was invalidated after the ticket was issued.
// It reports whether the value was stored.
func (c *Cache) Commit(t Ticket, value []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.ttl <= 0 || t.seq <= c.floor[t.key] {
		return false
	}
	if current, ok := c.items[t.key]; ok && current.seq > t.seq {
		return false
	}
	c.items[t.key] = entry{
		value:     append([]byte(nil), value...),
		seq:       t.seq,
		expiresAt: c.nowFunc().Add(c.ttl),
	}
	return true
}

// Latest reports whether t is the most recently issued ticket for its key.
func (c *Cache) Latest(t Ticket) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.issued[t.key] == t.seq
}

// Delete removes an item and rejects commits from fetches issued before now.
func (c *Cache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.items, key)
	c.floor[key] = c.issued[key]
}
