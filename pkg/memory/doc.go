// Package memory provides the memory pool and typed buffers that back
// column batches.
//
// # Pools
//
// A Pool is an accounting allocator: buffers reserve bytes from it when they
// are created or grown and return them when released. DefaultPool enforces an
// optional byte limit, so a reader decoding an oversized stripe gets an
// errors.ErrorTypeResource error instead of exhausting the process:
//
//	pool := memory.NewPool(memory.Config{LimitBytes: 256 << 20})
//
// With RecycleBytes enabled, byte buffers (null indicators, union tags) are
// carved from size-classed slabs kept in sync.Pools and handed back on
// release or growth.
//
// # Buffers
//
// Buffer[T] is a growable array whose length never shrinks:
//
//	buf, err := memory.NewBuffer[int64](pool, 1024)
//	if err != nil {
//	    return err
//	}
//	defer buf.Release()
//
//	if err := buf.Resize(4096); err != nil { // keeps the first 1024 values
//	    return err
//	}
//
// # Thread Safety
//
// DefaultPool is safe for concurrent use. Buffers are not; a resize must not
// overlap with any reader of the same buffer.
package memory
