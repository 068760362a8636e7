package cache

import (
	"container/list"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Status represents the cache lookup result.
type Status string

const (
	StatusHit     Status = "hit"
	StatusMiss    Status = "miss"
	StatusExpired Status = "expired"
	// StatusShared marks a result computed by a concurrent caller for the
	// same key.
	StatusShared Status = "shared"
)

// Entry holds a rendered preview document. A null document is cached too,
// with Empty set and no Document bytes.
type Entry struct {
	Document   []byte
	Root       string
	Components int
	Empty      bool
	Size       int64
	ExpiresAt  time.Time
}

// Cache is a thread-safe, in-memory LRU cache with TTL and byte-counting
// eviction. Keys are file-set fingerprints.
type Cache struct {
	mu      sync.Mutex
	items   map[string]*list.Element
	order   *list.List
	ttl     time.Duration
	maxSize int64
	curSize int64
	now     func() time.Time // injectable for testing

	group singleflight.Group
}

type cacheItem struct {
	key   string
	entry Entry
}

// New creates a cache with the given TTL and max size in bytes.
func New(ttl time.Duration, maxSize int64) *Cache {
	return &Cache{
		items:   make(map[string]*list.Element),
		order:   list.New(),
		ttl:     ttl,
		maxSize: maxSize,
		now:     time.Now,
	}
}

// Get retrieves a cached entry. Rendering is deterministic, so an expired
// entry is dropped and reported as StatusExpired with a nil entry.
func (c *Cache) Get(key string) (*Entry, Status) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.items[key]
	if !ok {
		return nil, StatusMiss
	}

	item := elem.Value.(*cacheItem)
	if c.now().After(item.entry.ExpiresAt) {
		c.remove(elem)
		return nil, StatusExpired
	}

	c.order.MoveToFront(elem)
	entry := item.entry
	return &entry, StatusHit
}

// Put stores an entry in the cache. Evicts LRU entries if necessary.
// Size defaults to the document length when zero.
func (c *Cache) Put(key string, entry Entry) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if entry.Size == 0 {
		entry.Size = int64(len(entry.Document))
	}
	entry.ExpiresAt = c.now().Add(c.ttl)

	if elem, ok := c.items[key]; ok {
		old := elem.Value.(*cacheItem)
		c.curSize -= old.entry.Size
		old.entry = entry
		c.curSize += entry.Size
		c.order.MoveToFront(elem)
		c.evict()
		return
	}

	item := &cacheItem{key: key, entry: entry}
	elem := c.order.PushFront(item)
	c.items[key] = elem
	c.curSize += entry.Size

	c.evict()
}

// GetOrBuild returns the cached entry for key, or calls build once across
// concurrent callers and caches its result. The status reports whether the
// entry came from the cache, from this caller's build or from another's.
func (c *Cache) GetOrBuild(key string, build func() Entry) (Entry, Status) {
	if entry, status := c.Get(key); status == StatusHit {
		return *entry, status
	}

	v, _, shared := c.group.Do(key, func() (any, error) {
		entry := build()
		c.Put(key, entry)
		return entry, nil
	})
	entry := v.(Entry)
	if shared {
		return entry, StatusShared
	}
	return entry, StatusMiss
}

// evict removes LRU entries until curSize <= maxSize. Must be called with mu held.
func (c *Cache) evict() {
	for c.curSize > c.maxSize && c.order.Len() > 0 {
		c.remove(c.order.Back())
	}
}

func (c *Cache) remove(elem *list.Element) {
	item := elem.Value.(*cacheItem)
	c.curSize -= item.entry.Size
	delete(c.items, item.key)
	c.order.Remove(elem)
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Size returns the current byte size of the cache.
func (c *Cache) Size() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.curSize
}
