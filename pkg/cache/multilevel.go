package cache

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Loader fetches a value from the source of truth on a cache miss.
type Loader func(ctx context.Context) ([]byte, error)

// ReadThrough serves keys from a Cache and falls back to a Loader. Concurrent
// misses on the same key share one Loader call.
type ReadThrough struct {
	cache        Cache
	group        singleflight.Group
	fetchTimeout time.Duration

	// loads tracks keys with a Loader in flight. Invalidate bumps gen so a
	// load that started before it never stores its result.
	mu    sync.Mutex
	loads map[string]*loadState
}

type loadState struct {
	refs int
	gen  uint64
}

// NewReadThrough wraps c. A zero fetchTimeout leaves the caller's deadline in
// charge of the loader.
func NewReadThrough(c Cache, fetchTimeout time.Duration) *ReadThrough {
	return &ReadThrough{
		cache:        c,
		fetchTimeout: fetchTimeout,
		loads:        make(map[string]*loadState),
	}
}

// Get returns the cached value for key or loads, stores and returns it.
// Loader errors are returned as-is and nothing is cached.
func (r *ReadThrough) Get(ctx context.Context, key string, load Loader) ([]byte, error) {
	if val, ok := r.cache.Get(ctx, key); ok {
		return val, nil
	}

	result, err, _ := r.group.Do(key, func() (any, error) {
		// another caller may have filled it while we waited
		if val, ok := r.cache.Get(ctx, key); ok {
			return val, nil
		}

		gen := r.beginLoad(key)

		fetchCtx := ctx
		if r.fetchTimeout > 0 {
			var cancel context.CancelFunc
			fetchCtx, cancel = context.WithTimeout(ctx, r.fetchTimeout)
			defer cancel()
		}

		val, err := load(fetchCtx)
		r.endLoad(ctx, key, gen, val, err == nil)
		if err != nil {
			return nil, err
		}
		return val, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]byte), nil
}

func (r *ReadThrough) beginLoad(key string) uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	st, ok := r.loads[key]
	if !ok {
		st = &loadState{}
		r.loads[key] = st
	}
	st.refs++
	return st.gen
}

// endLoad stores val unless key was invalidated after the load began.
func (r *ReadThrough) endLoad(ctx context.Context, key string, gen uint64, val []byte, store bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	st := r.loads[key]
	if store && st.gen == gen {
		r.cache.Set(ctx, key, val)
	}
	st.refs--
	if st.refs == 0 {
		delete(r.loads, key)
	}
}

// Invalidate drops key from the cache, forgets any in-flight load for it so
// the next Get goes to the loader, and keeps loads already running from
// storing what they read.
func (r *ReadThrough) Invalidate(ctx context.Context, key string) {
	r.mu.Lock()
	if st, ok := r.loads[key]; ok {
		st.gen++
	}
	r.cache.Delete(ctx, key)
	r.mu.Unlock()

	r.group.Forget(key)
}

func (r *ReadThrough) Stop() {
	r.cache.Stop()
}
