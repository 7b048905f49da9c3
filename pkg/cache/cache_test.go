package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/duccv/employee-api/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLRUCache_EvictsLeastRecentlyUsed(t *testing.T) {
	ctx := context.Background()
	c := NewLRUCache(2, time.Minute)
	defer c.Stop()

	c.Set(ctx, "a", []byte("1"))
	c.Set(ctx, "b", []byte("2"))
	_, ok := c.Get(ctx, "a")
	require.True(t, ok)

	c.Set(ctx, "c", []byte("3"))

	_, ok = c.Get(ctx, "b")
	assert.False(t, ok, "b was least recently used")
	assert.Equal(t, []string{"a", "c"}, c.Keys())
	assert.Equal(t, 2, c.Size())
}

func TestFIFOCache_EvictsOldestInsert(t *testing.T) {
	ctx := context.Background()
	c := NewFIFOCache(2, time.Minute)
	defer c.Stop()

	c.Set(ctx, "a", []byte("1"))
	c.Set(ctx, "b", []byte("2"))
	_, _ = c.Get(ctx, "a")
	c.Set(ctx, "a", []byte("1b"))
	c.Set(ctx, "c", []byte("3"))

	_, ok := c.Get(ctx, "a")
	assert.False(t, ok, "reads and updates do not refresh FIFO order")
	assert.Equal(t, []string{"b", "c"}, c.Keys())
}

func TestCaches_ExpireEntries(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	lru := NewLRUCache(4, time.Second)
	defer lru.Stop()
	lru.mu.Lock()
	lru.now = clock
	lru.mu.Unlock()
	fifo := NewFIFOCache(4, time.Second)
	defer fifo.Stop()
	fifo.mu.Lock()
	fifo.now = clock
	fifo.mu.Unlock()

	for _, c := range []Cache{lru, fifo} {
		c.Set(ctx, "k", []byte("v"))
		got, ok := c.Get(ctx, "k")
		require.True(t, ok)
		assert.Equal(t, []byte("v"), got)
	}

	now = now.Add(2 * time.Second)
	for _, c := range []Cache{lru, fifo} {
		_, ok := c.Get(ctx, "k")
		assert.False(t, ok)
	}
}

func TestCache_DeleteAndStopTwice(t *testing.T) {
	ctx := context.Background()
	c := NewLRUCache(4, time.Minute)
	c.Set(ctx, "k", []byte("v"))
	c.Delete(ctx, "k")
	c.Delete(ctx, "missing")

	_, ok := c.Get(ctx, "k")
	assert.False(t, ok)

	c.Stop()
	assert.NotPanics(t, c.Stop)
}

func TestNewCache_SelectsBackend(t *testing.T) {
	lru, err := NewCache(config.CacheConfig{Type: "LRU", Capacity: 3, DefaultTTL: 10}, nil, "")
	require.NoError(t, err)
	defer lru.Stop()
	assert.IsType(t, &LRUCache{}, lru)

	fifo, err := NewCache(config.CacheConfig{Type: "fifo", Capacity: 3, DefaultTTL: 10}, nil, "")
	require.NoError(t, err)
	defer fifo.Stop()
	assert.IsType(t, &FIFOCache{}, fifo)

	_, err = NewCache(config.CacheConfig{Type: "redis"}, nil, "")
	assert.Error(t, err)

	_, err = NewCache(config.CacheConfig{Type: "arc"}, nil, "")
	assert.Error(t, err)
}

func TestReadThrough_CollapsesConcurrentMisses(t *testing.T) {
	ctx := context.Background()
	c := NewLRUCache(8, time.Minute)
	rt := NewReadThrough(c, time.Second)
	defer rt.Stop()

	var calls atomic.Int32
	release := make(chan struct{})
	load := func(context.Context) ([]byte, error) {
		calls.Add(1)
		<-release
		return []byte("value"), nil
	}

	var wg sync.WaitGroup
	results := make([][]byte, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, err := rt.Get(ctx, "k", load)
			assert.NoError(t, err)
			results[i] = v
		}(i)
	}

	// let the goroutines pile up behind the first loader
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
	for _, v := range results {
		assert.Equal(t, []byte("value"), v)
	}

	_, err := rt.Get(ctx, "k", func(context.Context) ([]byte, error) {
		t.Fatal("loader called on a cached key")
		return nil, nil
	})
	require.NoError(t, err)
}

func TestReadThrough_ErrorsAreNotCached(t *testing.T) {
	ctx := context.Background()
	rt := NewReadThrough(NewFIFOCache(4, time.Minute), 0)
	defer rt.Stop()

	boom := errors.New("boom")
	_, err := rt.Get(ctx, "k", func(context.Context) ([]byte, error) { return nil, boom })
	require.ErrorIs(t, err, boom)

	v, err := rt.Get(ctx, "k", func(context.Context) ([]byte, error) { return []byte("ok"), nil })
	require.NoError(t, err)
	assert.Equal(t, []byte("ok"), v)

	rt.Invalidate(ctx, "k")
	v, err = rt.Get(ctx, "k", func(context.Context) ([]byte, error) { return []byte("fresh"), nil })
	require.NoError(t, err)
	assert.Equal(t, []byte("fresh"), v)
}

func TestReadThrough_InvalidateDuringLoadDropsResult(t *testing.T) {
	ctx := context.Background()
	rt := NewReadThrough(NewLRUCache(8, time.Minute), time.Second)
	defer rt.Stop()

	started := make(chan struct{})
	release := make(chan struct{})
	done := make(chan []byte)
	go func() {
		v, err := rt.Get(ctx, "k", func(context.Context) ([]byte, error) {
			close(started)
			<-release
			return []byte("old"), nil
		})
		assert.NoError(t, err)
		done <- v
	}()

	<-started
	rt.Invalidate(ctx, "k")
	close(release)
	assert.Equal(t, []byte("old"), <-done)

	var calls atomic.Int32
	v, err := rt.Get(ctx, "k", func(context.Context) ([]byte, error) {
		calls.Add(1)
		return []byte("new"), nil
	})
	require.NoError(t, err)
	assert.Equal(t, []byte("new"), v)
	assert.Equal(t, int32(1), calls.Load())

	rt.mu.Lock()
	assert.Empty(t, rt.loads)
	rt.mu.Unlock()
}
