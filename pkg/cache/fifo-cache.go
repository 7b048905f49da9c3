package cache

import (
	"container/list"
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// FIFOCache evicts the oldest inserted entry when full. Reads and updates do
// not change eviction order.
type FIFOCache struct {
	cacheData  map[string]*list.Element
	list       *list.List
	maxSize    int
	defaultTtl time.Duration
	now        func() time.Time
	mu         sync.RWMutex
	stopChan   chan struct{}
	stopOnce   sync.Once
}

type fifoItem struct {
	key  string
	data CacheData
}

func NewFIFOCache(maxSize int, defaultTtl time.Duration) *FIFOCache {
	if maxSize <= 0 {
		maxSize = 1
	}
	cache := &FIFOCache{
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

func (c *FIFOCache) cleanupExpiredKeys() {
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
				item := e.Value.(*fifoItem)

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
					Debug("Cleaned up expired FIFO cache entries", zap.Int("count", expiredCount))
			}

		case <-c.stopChan:
			return
		}
	}
}

func (c *FIFOCache) Stop() {
	c.stopOnce.Do(func() { close(c.stopChan) })
}

func (c *FIFOCache) Set(ctx context.Context, key string, value []byte) {
	c.SetWithTTL(ctx, key, value, c.defaultTtl)
}

// SetWithTTL updates an existing key in place, keeping its insertion order.
func (c *FIFOCache) SetWithTTL(_ context.Context, key string, value []byte, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	timeout := c.now().Add(ttl)

	if element, exists := c.cacheData[key]; exists {
		item := element.Value.(*fifoItem)
		item.data.Value = value
		item.data.Timeout = timeout
		return
	}

	if c.list.Len() >= c.maxSize {
		oldest := c.list.Front()
		if oldest != nil {
			oldestItem := oldest.Value.(*fifoItem)
			c.list.Remove(oldest)
			delete(c.cacheData, oldestItem.key)
			zap.L().Debug("FIFO cache evicted oldest item", zap.String("key", oldestItem.key))
		}
	}

	element := c.list.PushBack(&fifoItem{
		key:  key,
		data: CacheData{Value: value, Timeout: timeout},
	})
	c.cacheData[key] = element
}

func (c *FIFOCache) Get(_ context.Context, key string) ([]byte, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	element, exists := c.cacheData[key]
	if !exists {
		return nil, false
	}

	item := element.Value.(*fifoItem)
	if item.data.expired(c.now()) {
		// left for the sweeper; Get only holds the read lock
		return nil, false
	}
	return item.data.Value, true
}

func (c *FIFOCache) Delete(_ context.Context, key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if element, exists := c.cacheData[key]; exists {
		c.list.Remove(element)
		delete(c.cacheData, key)
	}
}

func (c *FIFOCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.list.Len()
}

func (c *FIFOCache) MaxSize() int {
	return c.maxSize
}

func (c *FIFOCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.list.Init()
	c.cacheData = make(map[string]*list.Element)
}

// Keys returns the live keys, oldest first.
func (c *FIFOCache) Keys() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	keys := make([]string, 0, c.list.Len())
	now := c.now()
	for e := c.list.Front(); e != nil; e = e.Next() {
		item := e.Value.(*fifoItem)
		if item.data.expired(now) {
			continue
		}
		keys = append(keys, item.key)
	}
	return keys
}
