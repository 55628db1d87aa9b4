package lru

import (
	"container/list"
	"context"
	"encoding/json"
	"sync"
	"time"

	"globe_atlas/internal/adapters/observability"
)

// Cache is an in-process LRU with per-entry TTL, used when no Redis address
// is configured. Values are stored JSON-encoded so callers never share memory
// with the cache.
type Cache struct {
	mu   sync.Mutex
	cap  int
	lst  *list.List
	dict map[string]*list.Element
	now  func() time.Time
}

type entry struct {
	k   string
	v   []byte
	exp time.Time
}

func New(capacity int) *Cache {
	if capacity <= 0 {
		capacity = 1
	}
	return &Cache{cap: capacity, lst: list.New(), dict: make(map[string]*list.Element), now: time.Now}
}

func (c *Cache) Get(_ context.Context, key string, dst any) (bool, error) {
	c.mu.Lock()
	e, ok := c.dict[key]
	if !ok {
		c.mu.Unlock()
		observability.ObserveCache("lru", "miss")
		return false, nil
	}
	it := e.Value.(entry)
	if !it.exp.IsZero() && !c.now().Before(it.exp) {
		c.lst.Remove(e)
		delete(c.dict, key)
		c.mu.Unlock()
		observability.ObserveCache("lru", "miss")
		return false, nil
	}
	c.lst.MoveToFront(e)
	c.mu.Unlock()

	if err := json.Unmarshal(it.v, dst); err != nil {
		observability.ObserveCache("lru", "corrupt")
		return false, err
	}
	observability.ObserveCache("lru", "hit")
	return true, nil
}

// Set stores v for ttlSec seconds; ttlSec <= 0 keeps it until evicted.
func (c *Cache) Set(_ context.Context, key string, v any, ttlSec int) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	var exp time.Time
	if ttlSec > 0 {
		exp = c.now().Add(time.Duration(ttlSec) * time.Second)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	observability.ObserveCache("lru", "set")
	if e, ok := c.dict[key]; ok {
		e.Value = entry{k: key, v: b, exp: exp}
		c.lst.MoveToFront(e)
		return nil
	}
	c.dict[key] = c.lst.PushFront(entry{k: key, v: b, exp: exp})
	for c.lst.Len() > c.cap {
		back := c.lst.Back()
		delete(c.dict, back.Value.(entry).k)
		c.lst.Remove(back)
		observability.ObserveCache("lru", "evict")
	}
	return nil
}

func (c *Cache) Del(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	observability.ObserveCache("lru", "del")
	if e, ok := c.dict[key]; ok {
		c.lst.Remove(e)
		delete(c.dict, key)
	}
	return nil
}

func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lst.Len()
}
