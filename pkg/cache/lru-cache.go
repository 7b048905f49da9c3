package cache

import (
	"container/list"
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// LRUCache evicts the least recently accessed entry when full. Every Get or
// Set moves the key to the most recently used position. Expired entries are
// dropped on access and by a background sweep.
type LRUCache struct {
	cacheData  map[string]*list.Element
	list       *list.List
	maxSize    int
	defaultTtl time.Duration
	now        func() time.Time
	mu         sync.Mutex
	stopChan   chan struct{}
	stopOnce   sync.Once
}

type lruItem struct {
	key  string
	data CacheData
}

// NewLRUCache starts a cache holding at most maxSize entries. A non-positive
// maxSize means one entry.
func NewLRUCache(maxSize int, defaultTtl time.Duration) *LRUCache {
	if maxSize <= 0 {
		maxSize = 1
	}
	cache := &LRUCache{
		cacheData:  make(map[string]*list.Element),
		list:       list.New(),
		maxSize:    maxSize,
		defaultTtl: defaultTtl,
		now:        time.Now,
		stopChan:   make(chan struct{}),
	}

	go cache.cleanupExpiredKeys()

	return cache
}

// cleanupExpiredKeys sweeps expired entries every 3 seconds until Stop.
func (c *LRUCache) cleanupExpiredKeys() {
	ticker := time.NewTicker(3 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.mu.Lock()
			now := c.now()
			expiredCount := 0

			for e := c.list.Front(); e != nil; {
				next := e.Next()
				item := e.Value.(*lruItem)

				if item.data.expired(now) {
					c.list.Remove(e)
					delete(c.cacheData, item.key)
					expiredCount++
				}
				e = next
			}
			c.mu.Unlock()

			if expiredCount > 0 {
				zap.L().
					Debug("Cleaned up expired LRU cache entries", zap.Int("count", expiredCount))
			}

		case <-c.stopChan:
			return
		}
	}
}

func (c *LRUCache) Stop() {
	c.stopOnce.Do(func() { close(c.stopChan) })
}

func (c *LRUCache) Set(ctx context.Context, key string, value []byte) {
	c.SetWithTTL(ctx, key, value, c.defaultTtl)
}

func (c *LRUCache) SetWithTTL(_ context.Context, key string, value []byte, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	timeout := c.now().Add(ttl)

	if element, exists := c.cacheData[key]; exists {
		item := element.Value.(*lruItem)
		item.data.Value = value
		item.data.Timeout = timeout
		c.list.MoveToBack(element)
		return
	}

	if c.list.Len() >= c.maxSize {
		oldest := c.list.Front()
		if oldest != nil {
			oldestItem := oldest.Value.(*lruItem)
			c.list.Remove(oldest)
			delete(c.cacheData, oldestItem.key)
			zap.L().
				Debug("LRU cache evicted least recently used item", zap.String("key", oldestItem.key))
		}
	}

	element := c.list.PushBack(&lruItem{
		key:  key,
		data: CacheData{Value: value, Timeout: timeout},
	})
	c.cacheData[key] = element
}

func (c *LRUCache) Get(_ context.Context, key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	element, exists := c.cacheData[key]
	if !exists {
		return nil, false
	}

	item := element.Value.(*lruItem)
	if item.data.expired(c.now()) {
		c.list.Remove(element)
		delete(c.cacheData, key)
		return nil, false
	}

	c.list.MoveToBack(element)
	return item.data.Value, true
}

func (c *LRUCache) Delete(_ context.Context, key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if element, exists := c.cacheData[key]; exists {
		c.list.Remove(element)
		delete(c.cacheData, key)
	}
}

// Size counts stored entries, including expired ones not yet swept.
func (c *LRUCache) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.list.Len()
}

func (c *LRUCache) MaxSize() int {
	return c.maxSize
}

func (c *LRUCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.list.Init()
	c.cacheData = make(map[string]*list.Element)
}

// Keys returns the live keys, least recently used first.
func (c *LRUCache) Keys() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	keys := make([]string, 0, c.list.Len())
	now := c.now()
	for e := c.list.Front(); e != nil; e = e.Next() {
		item := e.Value.(*lruItem)
		if item.data.expired(now) {
			continue
		}
		keys = append(keys, item.key)
	}
	return keys
}
