package memory

import (
	"unsafe"
)

// Buffer is a pool-backed, growable array of a fixed element type. Its
// length only increases: Resize to a smaller or equal length is a no-op and
// growth preserves existing contents. Entries past the previous length are
// unspecified until written.
//
// A Buffer is not safe for concurrent use.
type Buffer[T any] struct {
	pool Pool
	data []T
}

// NewBuffer allocates a buffer of n elements from pool.
func NewBuffer[T any](pool Pool, n uint64) (*Buffer[T], error) {
	b := &Buffer[T]{pool: pool}
	if err := pool.Allocate(b.bytesFor(n)); err != nil {
		return nil, err
	}
	b.data = b.makeSlice(int(n))
	return b, nil
}

// Len returns the current number of elements.
func (b *Buffer[T]) Len() uint64 {
	return uint64(len(b.data))
}

// Data returns the backing slice. The slice is invalidated by a growing
// Resize and by Release.
func (b *Buffer[T]) Data() []T {
	return b.data
}

// Resize grows the buffer to n elements.
func (b *Buffer[T]) Resize(n uint64) error {
	old := uint64(len(b.data))
	if n <= old {
		return nil
	}
	if err := b.pool.Allocate(b.bytesFor(n - old)); err != nil {
		return err
	}

	next := b.makeSlice(int(n))
	copy(next, b.data)
	b.recycle(b.data)
	b.data = next
	return nil
}

// Release returns the buffer's memory to its pool. Calling Release more
// than once is a no-op.
func (b *Buffer[T]) Release() {
	if b == nil || b.data == nil {
		return
	}
	b.pool.Free(b.bytesFor(uint64(len(b.data))))
	b.recycle(b.data)
	b.data = nil
}

func (b *Buffer[T]) bytesFor(n uint64) int64 {
	var zero T
	return int64(n) * int64(unsafe.Sizeof(zero))
}

func (b *Buffer[T]) makeSlice(n int) []T {
	s := make([]T, 0)
	if r, ok := b.pool.(byteRecycler); ok {
		if p, ok := any(&s).(*[]byte); ok {
			*p = r.takeBytes(n)
			return s
		}
	}
	return make([]T, n)
}

func (b *Buffer[T]) recycle(s []T) {
	r, ok := b.pool.(byteRecycler)
	if !ok {
		return
	}
	if p, ok := any(&s).(*[]byte); ok {
		r.recycleBytes(*p)
	}
}
