package vector

import (
	"github.com/ajitpratap0/orcvector/pkg/memory"
	stringpool "github.com/ajitpratap0/orcvector/pkg/strings"
)

const unattached = "<unattached>"

// ListBatch holds variable-length lists. Row i spans the half-open range
// [Offsets()[i], Offsets()[i+1]) of the elements batch, so the offsets
// buffer is always Capacity()+1 long.
//
// The elements batch is an attached reference, not owned: the constructor
// leaves it unset, AttachElements sets it, and the caller sizes and releases
// it independently. Keeping offsets within the elements batch is also the
// caller's job.
type ListBatch struct {
	base
	offsets  *memory.Buffer[int64]
	elements Batch
}

var _ Batch = (*ListBatch)(nil)

// NewListBatch creates a list batch with no elements attached.
func NewListBatch(capacity uint64, pool memory.Pool) (*ListBatch, error) {
	b, err := newBase(KindList, capacity, pool)
	if err != nil {
		return nil, err
	}
	offsets, err := memory.NewBuffer[int64](pool, capacity+1)
	if err != nil {
		b.abandon()
		return nil, allocError(err, KindList, capacity)
	}
	return &ListBatch{base: b, offsets: offsets}, nil
}

// Offsets returns the offsets buffer.
func (b *ListBatch) Offsets() []int64 { return b.offsets.Data() }

// Range returns the element range of row.
func (b *ListBatch) Range(row uint64) (start, end int64) {
	o := b.offsets.Data()
	return o[row], o[row+1]
}

// Elements returns the attached elements batch, or nil.
func (b *ListBatch) Elements() Batch { return b.elements }

// AttachElements sets the elements batch and returns the one it replaces.
// Neither batch becomes owned by the list.
func (b *ListBatch) AttachElements(elements Batch) Batch {
	prev := b.elements
	b.elements = elements
	return prev
}

// Resize grows the null indicators and offsets; the elements batch is
// left alone.
func (b *ListBatch) Resize(capacity uint64) error {
	return b.resize(capacity, func() error { return b.offsets.Resize(capacity + 1) })
}

// String renders "List vector <E with N of C>".
func (b *ListBatch) String() string {
	return stringpool.BuildString(func(sb *stringpool.Builder) {
		sb.WriteString(b.kind.Label())
		sb.WriteString(" <")
		sb.WriteString(describeRef(b.elements))
		sb.WriteString(" with ")
		writeCounts(sb, b.numElements, b.capacity)
		_ = sb.WriteByte('>')
	})
}

// Release frees the list's own buffers. The attached elements batch is not
// released.
func (b *ListBatch) Release() {
	if b.release(b.offsets) {
		b.elements = nil
	}
}

// MapBatch holds variable-length maps. Row i spans
// [Offsets()[i], Offsets()[i+1]) of both the keys and elements batches.
// Keys and elements are attached references with the same contract as
// ListBatch elements.
type MapBatch struct {
	base
	offsets  *memory.Buffer[int64]
	keys     Batch
	elements Batch
}

var _ Batch = (*MapBatch)(nil)

// NewMapBatch creates a map batch with no keys or elements attached.
func NewMapBatch(capacity uint64, pool memory.Pool) (*MapBatch, error) {
	b, err := newBase(KindMap, capacity, pool)
	if err != nil {
		return nil, err
	}
	offsets, err := memory.NewBuffer[int64](pool, capacity+1)
	if err != nil {
		b.abandon()
		return nil, allocError(err, KindMap, capacity)
	}
	return &MapBatch{base: b, offsets: offsets}, nil
}

// Offsets returns the offsets buffer.
func (b *MapBatch) Offsets() []int64 { return b.offsets.Data() }

// Range returns the entry range of row.
func (b *MapBatch) Range(row uint64) (start, end int64) {
	o := b.offsets.Data()
	return o[row], o[row+1]
}

// Keys returns the attached keys batch, or nil.
func (b *MapBatch) Keys() Batch { return b.keys }

// Elements returns the attached elements batch, or nil.
func (b *MapBatch) Elements() Batch { return b.elements }

// AttachKeys sets the keys batch and returns the one it replaces.
func (b *MapBatch) AttachKeys(keys Batch) Batch {
	prev := b.keys
	b.keys = keys
	return prev
}

// AttachElements sets the elements batch and returns the one it replaces.
func (b *MapBatch) AttachElements(elements Batch) Batch {
	prev := b.elements
	b.elements = elements
	return prev
}

// Resize grows the null indicators and offsets; keys and elements are left
// alone.
func (b *MapBatch) Resize(capacity uint64) error {
	return b.resize(capacity, func() error { return b.offsets.Resize(capacity + 1) })
}

// String renders "Map vector <K, E with N of C>".
func (b *MapBatch) String() string {
	return stringpool.BuildString(func(sb *stringpool.Builder) {
		sb.WriteString(b.kind.Label())
		sb.WriteString(" <")
		sb.WriteString(describeRef(b.keys))
		sb.WriteString(", ")
		sb.WriteString(describeRef(b.elements))
		sb.WriteString(" with ")
		writeCounts(sb, b.numElements, b.capacity)
		_ = sb.WriteByte('>')
	})
}

// Release frees the map's own buffers. Attached batches are not released.
func (b *MapBatch) Release() {
	if b.release(b.offsets) {
		b.keys = nil
		b.elements = nil
	}
}

func describeRef(b Batch) string {
	if b == nil {
		return unattached
	}
	return b.String()
}
