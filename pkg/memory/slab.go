package memory

import (
	"sync"
	"sync/atomic"
)

// typedPool wraps sync.Pool with a typed API and counts fresh allocations.
type typedPool[T any] struct {
	pool      sync.Pool
	allocated int64
}

func newTypedPool[T any](newFn func() T) *typedPool[T] {
	p := &typedPool[T]{}
	p.pool.New = func() interface{} {
		atomic.AddInt64(&p.allocated, 1)
		return newFn()
	}
	return p
}

func (p *typedPool[T]) get() T {
	return p.pool.Get().(T)
}

func (p *typedPool[T]) put(obj T) {
	p.pool.Put(obj)
}

// slabCache recycles byte slabs in power-of-four size classes. Requests
// larger than the biggest class are served by make and never cached.
type slabCache struct {
	pools []*typedPool[[]byte]
	sizes []int
}

func newSlabCache() *slabCache {
	sizes := []int{
		512,
		2048,
		8192,
		32768,
		131072,
		524288,
		2097152,
	}

	pools := make([]*typedPool[[]byte], len(sizes))
	for i, size := range sizes {
		size := size
		pools[i] = newTypedPool(func() []byte {
			return make([]byte, size)
		})
	}

	return &slabCache{pools: pools, sizes: sizes}
}

// take returns a slice of length n. Its contents are unspecified.
func (c *slabCache) take(n int) []byte {
	for i, s := range c.sizes {
		if s >= n {
			buf := c.pools[i].get()
			return buf[:n]
		}
	}
	return make([]byte, n)
}

// give returns a slab taken from the cache. Slices whose capacity is not a
// size class are left to the garbage collector.
func (c *slabCache) give(buf []byte) {
	size := cap(buf)
	for i, s := range c.sizes {
		if s == size {
			c.pools[i].put(buf[:size])
			return
		}
	}
}

// created reports how many slabs were allocated across all classes.
func (c *slabCache) created() int64 {
	var total int64
	for _, p := range c.pools {
		total += atomic.LoadInt64(&p.allocated)
	}
	return total
}
