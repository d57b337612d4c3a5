package vector

import (
	"github.com/ajitpratap0/orcvector/pkg/memory"
)

// BytesBatch holds variable-length byte strings as references plus lengths.
// The referenced bytes are not owned by the batch; a reader may repoint
// every reference on each fill pass, and the storage behind them must stay
// valid for as long as a consumer reads the rows.
type BytesBatch struct {
	base
	data   *memory.Buffer[[]byte]
	length *memory.Buffer[int64]
}

var _ Batch = (*BytesBatch)(nil)

// NewBytesBatch creates a bytes batch with the given capacity.
func NewBytesBatch(capacity uint64, pool memory.Pool) (*BytesBatch, error) {
	b, err := newBase(KindBytes, capacity, pool)
	if err != nil {
		return nil, err
	}
	data, err := memory.NewBuffer[[]byte](pool, capacity)
	if err != nil {
		b.abandon()
		return nil, allocError(err, KindBytes, capacity)
	}
	length, err := memory.NewBuffer[int64](pool, capacity)
	if err != nil {
		b.abandon(data)
		return nil, allocError(err, KindBytes, capacity)
	}
	return &BytesBatch{base: b, data: data, length: length}, nil
}

// Data returns the reference buffer.
func (b *BytesBatch) Data() [][]byte { return b.data.Data() }

// Lengths returns the length buffer.
func (b *BytesBatch) Lengths() []int64 { return b.length.Data() }

// Value returns the bytes of row, limited to its recorded length.
func (b *BytesBatch) Value(row uint64) []byte {
	return b.data.Data()[row][:b.length.Data()[row]]
}

// Set points row at v. The batch keeps the reference, not a copy.
func (b *BytesBatch) Set(row uint64, v []byte) {
	b.data.Data()[row] = v
	b.length.Data()[row] = int64(len(v))
}

func (b *BytesBatch) Resize(capacity uint64) error {
	return b.resize(capacity, func() error {
		if err := b.data.Resize(capacity); err != nil {
			return err
		}
		return b.length.Resize(capacity)
	})
}

func (b *BytesBatch) String() string { return b.describe() }

// Release frees the reference and length buffers. Referenced storage is
// untouched.
func (b *BytesBatch) Release() { b.release(b.data, b.length) }
