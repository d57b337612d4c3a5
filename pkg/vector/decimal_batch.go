package vector

import (
	"math/big"

	"github.com/ajitpratap0/orcvector/pkg/memory"
)

// Decimal64Batch holds decimals whose unscaled values fit in 64 bits, with
// the scale each row was read at.
type Decimal64Batch struct {
	base
	values     *memory.Buffer[int64]
	readScales *memory.Buffer[int32]
}

var _ Batch = (*Decimal64Batch)(nil)

// NewDecimal64Batch creates a decimal64 batch with the given capacity.
func NewDecimal64Batch(capacity uint64, pool memory.Pool) (*Decimal64Batch, error) {
	b, err := newBase(KindDecimal64, capacity, pool)
	if err != nil {
		return nil, err
	}
	values, err := memory.NewBuffer[int64](pool, capacity)
	if err != nil {
		b.abandon()
		return nil, allocError(err, KindDecimal64, capacity)
	}
	scales, err := memory.NewBuffer[int32](pool, capacity)
	if err != nil {
		b.abandon(values)
		return nil, allocError(err, KindDecimal64, capacity)
	}
	return &Decimal64Batch{base: b, values: values, readScales: scales}, nil
}

// Values returns the unscaled value buffer.
func (b *Decimal64Batch) Values() []int64 { return b.values.Data() }

// ReadScales returns the per-row scale buffer.
func (b *Decimal64Batch) ReadScales() []int32 { return b.readScales.Data() }

// Decimal returns row as a Decimal. A negative read scale is an
// errors.ErrorTypeData error.
func (b *Decimal64Batch) Decimal(row uint64) (Decimal, error) {
	return newDecimal(big.NewInt(b.values.Data()[row]), b.readScales.Data()[row])
}

func (b *Decimal64Batch) Resize(capacity uint64) error {
	return b.resize(capacity, func() error {
		if err := b.values.Resize(capacity); err != nil {
			return err
		}
		return b.readScales.Resize(capacity)
	})
}

func (b *Decimal64Batch) String() string { return b.describe() }

func (b *Decimal64Batch) Release() { b.release(b.values, b.readScales) }

// Decimal128Batch holds decimals with 128-bit unscaled values and the scale
// each row was read at.
type Decimal128Batch struct {
	base
	values     *memory.Buffer[Int128]
	readScales *memory.Buffer[int32]
}

var _ Batch = (*Decimal128Batch)(nil)

// NewDecimal128Batch creates a decimal128 batch with the given capacity.
func NewDecimal128Batch(capacity uint64, pool memory.Pool) (*Decimal128Batch, error) {
	b, err := newBase(KindDecimal128, capacity, pool)
	if err != nil {
		return nil, err
	}
	values, err := memory.NewBuffer[Int128](pool, capacity)
	if err != nil {
		b.abandon()
		return nil, allocError(err, KindDecimal128, capacity)
	}
	scales, err := memory.NewBuffer[int32](pool, capacity)
	if err != nil {
		b.abandon(values)
		return nil, allocError(err, KindDecimal128, capacity)
	}
	return &Decimal128Batch{base: b, values: values, readScales: scales}, nil
}

// Values returns the unscaled value buffer.
func (b *Decimal128Batch) Values() []Int128 { return b.values.Data() }

// ReadScales returns the per-row scale buffer.
func (b *Decimal128Batch) ReadScales() []int32 { return b.readScales.Data() }

// Decimal returns row as a Decimal. A negative read scale is an
// errors.ErrorTypeData error.
func (b *Decimal128Batch) Decimal(row uint64) (Decimal, error) {
	return newDecimal(b.values.Data()[row].Big(), b.readScales.Data()[row])
}

func (b *Decimal128Batch) Resize(capacity uint64) error {
	return b.resize(capacity, func() error {
		if err := b.values.Resize(capacity); err != nil {
			return err
		}
		return b.readScales.Resize(capacity)
	})
}

func (b *Decimal128Batch) String() string { return b.describe() }

func (b *Decimal128Batch) Release() { b.release(b.values, b.readScales) }
