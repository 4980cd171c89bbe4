// Package cache provides the candidate cache adapters: an in-process LRU map
// for single-node deployments and a Redis-backed variant for shared ones.
package cache

import (
	"context"
	"sync"
	"time"

	"github.com/platewise/v1/internal/ports/outbound"
)

const defaultMaxEntries = 1000

// LocalCache is a thread-safe in-memory cache with per-entry TTL and LRU
// eviction. Expired entries are evicted lazily on read.
type LocalCache struct {
	mu      sync.Mutex
	items   map[string]*localEntry
	lru     *lruList
	maxSize int
}

type localEntry struct {
	data      []byte
	expiresAt time.Time
	node      *lruNode
}

type lruList struct {
	head *lruNode
	tail *lruNode
}

type lruNode struct {
	key  string
	prev *lruNode
	next *lruNode
}

// NewLocalCache creates a local cache holding at most maxSize entries.
func NewLocalCache(maxSize int) *LocalCache {
	if maxSize <= 0 {
		maxSize = defaultMaxEntries
	}

	lru := &lruList{head: &lruNode{}, tail: &lruNode{}}
	lru.head.next = lru.tail
	lru.tail.prev = lru.head

	return &LocalCache{
		items:   make(map[string]*localEntry),
		lru:     lru,
		maxSize: maxSize,
	}
}

// Get implements outbound.CacheRepository.
func (c *LocalCache) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.items[key]
	if !ok {
		return nil, outbound.ErrCacheMiss
	}
	if time.Now().After(entry.expiresAt) {
		c.remove(key, entry)
		return nil, outbound.ErrCacheMiss
	}

	c.moveToFront(entry.node)
	data := make([]byte, len(entry.data))
	copy(data, entry.data)
	return data, nil
}

// Set implements outbound.CacheRepository.
func (c *LocalCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	data := make([]byte, len(value))
	copy(data, value)
	expiresAt := time.Now().Add(ttl)

	if entry, ok := c.items[key]; ok {
		entry.data = data
		entry.expiresAt = expiresAt
		c.moveToFront(entry.node)
		return nil
	}

	if len(c.items) >= c.maxSize {
		c.evictOldest()
	}

	node := &lruNode{key: key}
	c.items[key] = &localEntry{data: data, expiresAt: expiresAt, node: node}
	c.pushFront(node)
	return nil
}

// Delete implements outbound.CacheRepository.
func (c *LocalCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if entry, ok := c.items[key]; ok {
		c.remove(key, entry)
	}
	return nil
}

// Len reports the current entry count, including any not-yet-evicted expired
// entries.
func (c *LocalCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

func (c *LocalCache) remove(key string, entry *localEntry) {
	entry.node.prev.next = entry.node.next
	entry.node.next.prev = entry.node.prev
	delete(c.items, key)
}

func (c *LocalCache) evictOldest() {
	oldest := c.lru.tail.prev
	if oldest == c.lru.head {
		return
	}
	if entry, ok := c.items[oldest.key]; ok {
		c.remove(oldest.key, entry)
	}
}

func (c *LocalCache) pushFront(node *lruNode) {
	node.prev = c.lru.head
	node.next = c.lru.head.next
	c.lru.head.next.prev = node
	c.lru.head.next = node
}

func (c *LocalCache) moveToFront(node *lruNode) {
	node.prev.next = node.next
	node.next.prev = node.prev
	c.pushFront(node)
}
