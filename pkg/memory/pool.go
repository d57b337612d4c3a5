package memory

import (
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/ajitpratap0/orcvector/pkg/errors"
	"github.com/ajitpratap0/orcvector/pkg/logger"
	"github.com/ajitpratap0/orcvector/pkg/metrics"
)

// Pool supplies and reclaims the memory behind typed buffers. Every batch
// receives a Pool at construction and uses it for all later growth, so the
// pool must outlive every batch built on it.
//
// Allocate reserves bytes and fails with an errors.ErrorTypeResource error
// when the request cannot be satisfied. Free returns previously reserved
// bytes. Implementations must be safe for concurrent use.
type Pool interface {
	Allocate(bytes int64) error
	Free(bytes int64)
	Stats() Stats
}

// byteRecycler is implemented by pools that hand out reusable byte slabs.
// Buffer[byte] draws its storage from it when available.
type byteRecycler interface {
	takeBytes(n int) []byte
	recycleBytes(b []byte)
}

// Stats is a point-in-time snapshot of pool accounting.
type Stats struct {
	// BytesInUse is the number of bytes currently reserved
	BytesInUse int64 `json:"bytes_in_use"`
	// PeakBytes is the highest BytesInUse observed
	PeakBytes int64 `json:"peak_bytes"`
	// Allocations counts successful Allocate calls
	Allocations int64 `json:"allocations"`
	// Frees counts Free calls
	Frees int64 `json:"frees"`
	// Denied counts Allocate calls rejected by the limit
	Denied int64 `json:"denied"`
	// SlabsCreated counts byte slabs created by the recycling cache
	SlabsCreated int64 `json:"slabs_created"`
}

// Config configures a DefaultPool.
type Config struct {
	// LimitBytes caps BytesInUse; zero means unlimited
	LimitBytes int64
	// RecycleBytes enables slab recycling for byte buffers
	RecycleBytes bool
}

// DefaultPool is the standard Pool. It enforces an optional byte limit,
// keeps atomic statistics, publishes Prometheus metrics, and optionally
// recycles byte slabs through size-classed sync.Pools.
type DefaultPool struct {
	limit  int64
	slabs  *slabCache
	logger *zap.Logger
	stats  struct {
		inUse       int64
		peak        int64
		allocations int64
		frees       int64
		denied      int64
	}
}

var _ Pool = (*DefaultPool)(nil)

// NewPool creates a pool from cfg.
//
// Example:
//
//	pool := memory.NewPool(memory.Config{LimitBytes: 64 << 20, RecycleBytes: true})
//	buf, err := memory.NewBuffer[int64](pool, 1024)
//	if err != nil {
//	    return err
//	}
//	defer buf.Release()
func NewPool(cfg Config) *DefaultPool {
	p := &DefaultPool{
		limit:  cfg.LimitBytes,
		logger: logger.With(zap.String("component", "memory_pool")),
	}
	if cfg.RecycleBytes {
		p.slabs = newSlabCache()
	}
	return p
}

// Allocate reserves bytes from the pool.
func (p *DefaultPool) Allocate(bytes int64) error {
	if bytes <= 0 {
		return nil
	}

	for {
		cur := atomic.LoadInt64(&p.stats.inUse)
		next := cur + bytes
		if p.limit > 0 && next > p.limit {
			atomic.AddInt64(&p.stats.denied, 1)
			metrics.RecordAllocation(bytes, false)
			p.logger.Warn("allocation denied",
				zap.Int64("requested", bytes),
				zap.Int64("in_use", cur),
				zap.Int64("limit", p.limit))
			return errors.New(errors.ErrorTypeResource, "memory limit exceeded").
				WithDetail("requested", bytes).
				WithDetail("in_use", cur).
				WithDetail("limit", p.limit)
		}
		if atomic.CompareAndSwapInt64(&p.stats.inUse, cur, next) {
			p.raisePeak(next)
			break
		}
	}

	atomic.AddInt64(&p.stats.allocations, 1)
	metrics.RecordAllocation(bytes, true)
	return nil
}

// Free returns bytes to the pool.
func (p *DefaultPool) Free(bytes int64) {
	if bytes <= 0 {
		return
	}
	atomic.AddInt64(&p.stats.inUse, -bytes)
	atomic.AddInt64(&p.stats.frees, 1)
	metrics.RecordFree(bytes)
}

// Stats returns a snapshot of the pool's accounting.
func (p *DefaultPool) Stats() Stats {
	s := Stats{
		BytesInUse:  atomic.LoadInt64(&p.stats.inUse),
		PeakBytes:   atomic.LoadInt64(&p.stats.peak),
		Allocations: atomic.LoadInt64(&p.stats.allocations),
		Frees:       atomic.LoadInt64(&p.stats.frees),
		Denied:      atomic.LoadInt64(&p.stats.denied),
	}
	if p.slabs != nil {
		s.SlabsCreated = p.slabs.created()
	}
	return s
}

func (p *DefaultPool) raisePeak(v int64) {
	for {
		peak := atomic.LoadInt64(&p.stats.peak)
		if v <= peak || atomic.CompareAndSwapInt64(&p.stats.peak, peak, v) {
			return
		}
	}
}

func (p *DefaultPool) takeBytes(n int) []byte {
	if p.slabs == nil {
		return make([]byte, n)
	}
	return p.slabs.take(n)
}

func (p *DefaultPool) recycleBytes(b []byte) {
	if p.slabs != nil {
		p.slabs.give(b)
	}
}
