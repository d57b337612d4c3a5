package vector

import (
	"time"

	"github.com/ajitpratap0/orcvector/pkg/errors"
	"github.com/ajitpratap0/orcvector/pkg/memory"
)

// LongBatch holds 64-bit integers. All integer column types decode into it.
type LongBatch struct {
	base
	data *memory.Buffer[int64]
}

var _ Batch = (*LongBatch)(nil)

// NewLongBatch creates a long batch with the given capacity.
func NewLongBatch(capacity uint64, pool memory.Pool) (*LongBatch, error) {
	b, err := newBase(KindLong, capacity, pool)
	if err != nil {
		return nil, err
	}
	data, err := memory.NewBuffer[int64](pool, capacity)
	if err != nil {
		b.abandon()
		return nil, allocError(err, KindLong, capacity)
	}
	return &LongBatch{base: b, data: data}, nil
}

// Data returns the value buffer. It is invalidated by a growing Resize.
func (b *LongBatch) Data() []int64 { return b.data.Data() }

func (b *LongBatch) Resize(capacity uint64) error {
	return b.resize(capacity, func() error { return b.data.Resize(capacity) })
}

func (b *LongBatch) String() string { return b.describe() }

func (b *LongBatch) Release() { b.release(b.data) }

// DoubleBatch holds 64-bit floating point values. Float columns widen into it.
type DoubleBatch struct {
	base
	data *memory.Buffer[float64]
}

var _ Batch = (*DoubleBatch)(nil)

// NewDoubleBatch creates a double batch with the given capacity.
func NewDoubleBatch(capacity uint64, pool memory.Pool) (*DoubleBatch, error) {
	b, err := newBase(KindDouble, capacity, pool)
	if err != nil {
		return nil, err
	}
	data, err := memory.NewBuffer[float64](pool, capacity)
	if err != nil {
		b.abandon()
		return nil, allocError(err, KindDouble, capacity)
	}
	return &DoubleBatch{base: b, data: data}, nil
}

// Data returns the value buffer. It is invalidated by a growing Resize.
func (b *DoubleBatch) Data() []float64 { return b.data.Data() }

func (b *DoubleBatch) Resize(capacity uint64) error {
	return b.resize(capacity, func() error { return b.data.Resize(capacity) })
}

func (b *DoubleBatch) String() string { return b.describe() }

func (b *DoubleBatch) Release() { b.release(b.data) }

// TimestampBatch holds timestamps as seconds since the Unix epoch plus a
// nanosecond adjustment per row.
type TimestampBatch struct {
	base
	data        *memory.Buffer[int64]
	nanoseconds *memory.Buffer[int64]
}

var _ Batch = (*TimestampBatch)(nil)

// NewTimestampBatch creates a timestamp batch with the given capacity.
func NewTimestampBatch(capacity uint64, pool memory.Pool) (*TimestampBatch, error) {
	b, err := newBase(KindTimestamp, capacity, pool)
	if err != nil {
		return nil, err
	}
	data, err := memory.NewBuffer[int64](pool, capacity)
	if err != nil {
		b.abandon()
		return nil, allocError(err, KindTimestamp, capacity)
	}
	nanos, err := memory.NewBuffer[int64](pool, capacity)
	if err != nil {
		b.abandon(data)
		return nil, allocError(err, KindTimestamp, capacity)
	}
	return &TimestampBatch{base: b, data: data, nanoseconds: nanos}, nil
}

// Data returns the seconds buffer.
func (b *TimestampBatch) Data() []int64 { return b.data.Data() }

// Nanoseconds returns the nanosecond buffer.
func (b *TimestampBatch) Nanoseconds() []int64 { return b.nanoseconds.Data() }

// Time returns row as a UTC time.
func (b *TimestampBatch) Time(row uint64) time.Time {
	return time.Unix(b.data.Data()[row], b.nanoseconds.Data()[row]).UTC()
}

// Set stores t at row.
func (b *TimestampBatch) Set(row uint64, t time.Time) {
	b.data.Data()[row] = t.Unix()
	b.nanoseconds.Data()[row] = int64(t.Nanosecond())
}

func (b *TimestampBatch) Resize(capacity uint64) error {
	return b.resize(capacity, func() error {
		if err := b.data.Resize(capacity); err != nil {
			return err
		}
		return b.nanoseconds.Resize(capacity)
	})
}

func (b *TimestampBatch) String() string { return b.describe() }

func (b *TimestampBatch) Release() { b.release(b.data, b.nanoseconds) }

func allocError(err error, kind Kind, capacity uint64) error {
	return errors.Wrap(err, errors.ErrorTypeResource, "allocating batch buffers").
		WithDetail("kind", kind.String()).
		WithDetail("capacity", capacity)
}
