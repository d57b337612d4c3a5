// Package strings provides pooled string building for batch descriptions
// and other diagnostic output.
package strings

import (
	"strconv"
	"sync"
	"unsafe"
)

// BytesToString converts byte slice to string without allocation
// WARNING: The returned string shares memory with the byte slice.
// Do not modify the byte slice after calling this function.
func BytesToString(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	return unsafe.String(&b[0], len(b))
}

// Clone returns a copy of s that does not share memory with its source.
func Clone(s string) string {
	if len(s) == 0 {
		return ""
	}
	b := make([]byte, len(s))
	copy(b, s)
	return BytesToString(b)
}

// Builder accumulates bytes for a string
type Builder struct {
	buf []byte
}

// NewBuilder creates a new string builder
func NewBuilder(capacity int) *Builder {
	return &Builder{
		buf: make([]byte, 0, capacity),
	}
}

// WriteString appends a string to the builder
func (b *Builder) WriteString(s string) {
	b.buf = append(b.buf, s...)
}

// WriteByte appends a single byte
func (b *Builder) WriteByte(c byte) error {
	b.buf = append(b.buf, c)
	return nil
}

// WriteUint appends the decimal form of v
func (b *Builder) WriteUint(v uint64) {
	b.buf = strconv.AppendUint(b.buf, v, 10)
}

// WriteInt appends the decimal form of v
func (b *Builder) WriteInt(v int64) {
	b.buf = strconv.AppendInt(b.buf, v, 10)
}

// Write implements io.Writer interface
func (b *Builder) Write(p []byte) (n int, err error) {
	b.buf = append(b.buf, p...)
	return len(p), nil
}

// String returns the built string using zero-copy conversion. The result is
// only valid until the builder is reset or returned to its pool.
func (b *Builder) String() string {
	return BytesToString(b.buf)
}

// Len returns the length of the built string
func (b *Builder) Len() int {
	return len(b.buf)
}

// Reset resets the builder for reuse
func (b *Builder) Reset() {
	b.buf = b.buf[:0]
}

// BuilderSize selects a builder pool
type BuilderSize int

const (
	Small  BuilderSize = iota // < 1KB
	Medium                    // 1KB - 16KB
)

var (
	smallBuilderPool = &sync.Pool{
		New: func() interface{} {
			return NewBuilder(1024)
		},
	}

	mediumBuilderPool = &sync.Pool{
		New: func() interface{} {
			return NewBuilder(16 * 1024)
		},
	}
)

func poolFor(size BuilderSize) *sync.Pool {
	if size == Medium {
		return mediumBuilderPool
	}
	return smallBuilderPool
}

// GetBuilder retrieves a pooled builder of the specified size
func GetBuilder(size BuilderSize) *Builder {
	builder := poolFor(size).Get().(*Builder)
	builder.Reset()
	return builder
}

// PutBuilder returns a builder to the appropriate pool
func PutBuilder(builder *Builder, size BuilderSize) {
	if builder == nil {
		return
	}
	builder.Reset()
	poolFor(size).Put(builder)
}

// BuildString runs fn against a pooled small builder and returns an owned
// copy of the result.
func BuildString(fn func(*Builder)) string {
	return BuildWith(Small, fn)
}

// BuildWith is BuildString with an explicit pool size.
func BuildWith(size BuilderSize, fn func(*Builder)) string {
	builder := GetBuilder(size)
	defer PutBuilder(builder, size)
	fn(builder)
	return Clone(builder.String())
}
