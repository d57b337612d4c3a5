package vector

import (
	"github.com/ajitpratap0/orcvector/pkg/memory"
	stringpool "github.com/ajitpratap0/orcvector/pkg/strings"
)

// UnionBatch holds a tagged union. Tags()[i] selects the child that supplies
// row i and Offsets()[i] is the row within that child. Tags are not checked
// against the number of children.
//
// The union exclusively owns its children. Resize grows the tags and
// offsets but never the children, since how many rows land in each child
// depends on the data.
type UnionBatch struct {
	base
	tags     *memory.Buffer[byte]
	offsets  *memory.Buffer[uint64]
	children []Batch
}

var _ Batch = (*UnionBatch)(nil)

// NewUnionBatch creates a union batch with no children.
func NewUnionBatch(capacity uint64, pool memory.Pool) (*UnionBatch, error) {
	b, err := newBase(KindUnion, capacity, pool)
	if err != nil {
		return nil, err
	}
	tags, err := memory.NewBuffer[byte](pool, capacity)
	if err != nil {
		b.abandon()
		return nil, allocError(err, KindUnion, capacity)
	}
	offsets, err := memory.NewBuffer[uint64](pool, capacity)
	if err != nil {
		b.abandon(tags)
		return nil, allocError(err, KindUnion, capacity)
	}
	return &UnionBatch{base: b, tags: tags, offsets: offsets}, nil
}

// AddChild appends child as the next tag value and takes ownership of it.
func (b *UnionBatch) AddChild(child Batch) error {
	if err := adopt(&b.base, child); err != nil {
		return err
	}
	b.children = append(b.children, child)
	return nil
}

// Children returns the child batches indexed by tag.
func (b *UnionBatch) Children() []Batch { return b.children }

// Child returns the child for tag.
func (b *UnionBatch) Child(tag int) Batch { return b.children[tag] }

// NumChildren returns the number of children.
func (b *UnionBatch) NumChildren() int { return len(b.children) }

// Tags returns the per-row tag buffer.
func (b *UnionBatch) Tags() []byte { return b.tags.Data() }

// Offsets returns the per-row child offset buffer.
func (b *UnionBatch) Offsets() []uint64 { return b.offsets.Data() }

func (b *UnionBatch) Resize(capacity uint64) error {
	return b.resize(capacity, func() error {
		if err := b.tags.Resize(capacity); err != nil {
			return err
		}
		return b.offsets.Resize(capacity)
	})
}

// String renders "Union vector <c0, c1; with N of C>". Every child is
// listed whether or not a row selects it.
func (b *UnionBatch) String() string {
	return stringpool.BuildString(func(sb *stringpool.Builder) {
		sb.WriteString(b.kind.Label())
		sb.WriteString(" <")
		for i, c := range b.children {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(c.String())
		}
		sb.WriteString("; with ")
		writeCounts(sb, b.numElements, b.capacity)
		_ = sb.WriteByte('>')
	})
}

// Release releases every child once, in tag order, then the union itself.
func (b *UnionBatch) Release() {
	if b.released {
		return
	}
	for i, c := range b.children {
		c.Release()
		b.children[i] = nil
	}
	b.children = nil
	b.release(b.tags, b.offsets)
}
