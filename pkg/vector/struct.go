package vector

import (
	"github.com/ajitpratap0/orcvector/pkg/memory"
	stringpool "github.com/ajitpratap0/orcvector/pkg/strings"
)

// StructBatch holds one child batch per field. Row i of every field belongs
// to row i of the struct. The struct exclusively owns its fields and
// releases them when it is released.
//
// Resize grows only the struct's own null indicators. Field batches are
// sized independently by the caller.
type StructBatch struct {
	base
	fields []Batch
}

var _ Batch = (*StructBatch)(nil)

// NewStructBatch creates a struct batch with no fields.
func NewStructBatch(capacity uint64, pool memory.Pool) (*StructBatch, error) {
	b, err := newBase(KindStruct, capacity, pool)
	if err != nil {
		return nil, err
	}
	return &StructBatch{base: b}, nil
}

// AddField appends field and takes ownership of it. A batch that already
// has an owner is rejected with an errors.ErrorTypeConflict error.
func (b *StructBatch) AddField(field Batch) error {
	if err := adopt(&b.base, field); err != nil {
		return err
	}
	b.fields = append(b.fields, field)
	return nil
}

// Fields returns the field batches in declaration order. The slice must not
// be modified.
func (b *StructBatch) Fields() []Batch { return b.fields }

// Field returns field i.
func (b *StructBatch) Field(i int) Batch { return b.fields[i] }

// NumFields returns the number of fields.
func (b *StructBatch) NumFields() int { return len(b.fields) }

func (b *StructBatch) Resize(capacity uint64) error {
	return b.resize(capacity, nil)
}

// String renders "Struct vector <N of C; f0; f1; >".
func (b *StructBatch) String() string {
	return stringpool.BuildString(func(sb *stringpool.Builder) {
		sb.WriteString(b.kind.Label())
		sb.WriteString(" <")
		writeCounts(sb, b.numElements, b.capacity)
		sb.WriteString("; ")
		for _, f := range b.fields {
			sb.WriteString(f.String())
			sb.WriteString("; ")
		}
		_ = sb.WriteByte('>')
	})
}

// Release releases every field once, in order, then the struct itself.
func (b *StructBatch) Release() {
	if b.released {
		return
	}
	for i, f := range b.fields {
		f.Release()
		b.fields[i] = nil
	}
	b.fields = nil
	b.release()
}
