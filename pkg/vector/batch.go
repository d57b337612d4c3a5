package vector

import (
	"github.com/ajitpratap0/orcvector/pkg/errors"
	"github.com/ajitpratap0/orcvector/pkg/memory"
	"github.com/ajitpratap0/orcvector/pkg/metrics"
	stringpool "github.com/ajitpratap0/orcvector/pkg/strings"
)

// Batch is the behaviour shared by every column batch. The set of
// implementations is closed: only the kinds defined in this package satisfy
// it.
type Batch interface {
	// Kind reports the concrete batch kind
	Kind() Kind
	// Capacity is the allocated length of every buffer the batch owns
	Capacity() uint64
	// NumElements is the number of populated rows
	NumElements() uint64
	// SetNumElements sets the populated row count; it is not checked
	// against Capacity
	SetNumElements(n uint64)
	// NotNull holds one byte per row, 0 for null and 1 for present
	NotNull() []byte
	// HasNulls reports the caller-maintained "any row is null" flag
	HasNulls() bool
	// SetHasNulls sets the flag; it is never derived from NotNull
	SetHasNulls(v bool)
	// IsNull reports whether row is null under HasNulls and NotNull
	IsNull(row uint64) bool
	// Resize grows every owned buffer to capacity; smaller or equal
	// requests are no-ops
	Resize(capacity uint64) error
	// String describes the batch for logs and diagnostics
	String() string
	// Release returns owned memory to the pool and releases owned children.
	// Calling it again is a no-op.
	Release()

	header() *base
}

type releaser interface {
	Release()
}

// base carries the state common to every kind.
type base struct {
	kind        Kind
	capacity    uint64
	numElements uint64
	notNull     *memory.Buffer[byte]
	hasNulls    bool
	pool        memory.Pool
	owned       bool
	released    bool
}

func newBase(kind Kind, capacity uint64, pool memory.Pool) (base, error) {
	notNull, err := memory.NewBuffer[byte](pool, capacity)
	if err != nil {
		return base{}, errors.Wrap(err, errors.ErrorTypeResource, "allocating null indicators").
			WithDetail("kind", kind.String()).
			WithDetail("capacity", capacity)
	}
	return base{
		kind:     kind,
		capacity: capacity,
		notNull:  notNull,
		pool:     pool,
	}, nil
}

func (b *base) Kind() Kind { return b.kind }

func (b *base) Capacity() uint64 { return b.capacity }

func (b *base) NumElements() uint64 { return b.numElements }

func (b *base) SetNumElements(n uint64) { b.numElements = n }

func (b *base) NotNull() []byte { return b.notNull.Data() }

func (b *base) HasNulls() bool { return b.hasNulls }

func (b *base) SetHasNulls(v bool) { b.hasNulls = v }

func (b *base) IsNull(row uint64) bool {
	return b.hasNulls && b.notNull.Data()[row] == 0
}

// Pool returns the pool the batch allocates from.
func (b *base) Pool() memory.Pool { return b.pool }

func (b *base) header() *base { return b }

// resize grows notNull and then runs grow for the kind's own buffers. The
// decision is taken once against the current capacity, and capacity only
// moves once every buffer has grown. A released batch cannot grow.
func (b *base) resize(capacity uint64, grow func() error) error {
	if b.released {
		return errors.New(errors.ErrorTypeValidation, "resizing released batch").
			WithDetail("kind", b.kind.String()).
			WithDetail("to", capacity)
	}
	if capacity <= b.capacity {
		return nil
	}
	if err := b.notNull.Resize(capacity); err != nil {
		return b.resizeError(err, capacity)
	}
	if grow != nil {
		if err := grow(); err != nil {
			return b.resizeError(err, capacity)
		}
	}
	b.capacity = capacity
	metrics.RecordResize(b.kind.String())
	return nil
}

func (b *base) resizeError(err error, capacity uint64) error {
	return errors.Wrap(err, errors.ErrorTypeResource, "resizing batch").
		WithDetail("kind", b.kind.String()).
		WithDetail("from", b.capacity).
		WithDetail("to", capacity)
}

// release frees notNull and bufs once. It reports false when the batch was
// already released.
func (b *base) release(bufs ...releaser) bool {
	if b.released {
		return false
	}
	b.released = true
	b.notNull.Release()
	for _, r := range bufs {
		r.Release()
	}
	metrics.RecordRelease(b.kind.String())
	return true
}

// abandon frees buffers of a batch whose construction failed.
func (b *base) abandon(bufs ...releaser) {
	b.notNull.Release()
	for _, r := range bufs {
		r.Release()
	}
}

// claim marks the batch as owned by a composite parent.
func (b *base) claim(parent Kind) error {
	if b.owned {
		return errors.New(errors.ErrorTypeConflict, "batch already has an owner").
			WithDetail("kind", b.kind.String()).
			WithDetail("parent", parent.String())
	}
	if b.released {
		return errors.New(errors.ErrorTypeValidation, "batch was released").
			WithDetail("kind", b.kind.String())
	}
	b.owned = true
	return nil
}

// describe renders "<Label> <N of C>", the form used by every leaf kind.
func (b *base) describe() string {
	return stringpool.BuildString(func(sb *stringpool.Builder) {
		sb.WriteString(b.kind.Label())
		sb.WriteString(" <")
		writeCounts(sb, b.numElements, b.capacity)
		_ = sb.WriteByte('>')
	})
}

func writeCounts(sb *stringpool.Builder, n, capacity uint64) {
	sb.WriteUint(n)
	sb.WriteString(" of ")
	sb.WriteUint(capacity)
}

// adopt takes exclusive ownership of child on behalf of parent.
func adopt(parent *base, child Batch) error {
	if child == nil {
		return errors.New(errors.ErrorTypeValidation, "child batch is nil").
			WithDetail("parent", parent.kind.String())
	}
	h := child.header()
	if h == parent {
		return errors.New(errors.ErrorTypeConflict, "batch cannot own itself").
			WithDetail("kind", parent.kind.String())
	}
	return h.claim(parent.kind)
}
