package arrowbridge

import (
	"io"
	"strings"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/decimal128"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/ajitpratap0/orcvector/pkg/errors"
	"github.com/ajitpratap0/orcvector/pkg/layout"
	"github.com/ajitpratap0/orcvector/pkg/vector"
)

// Export copies the first NumElements rows of b into a new Arrow array
// allocated from mem. The caller releases the array.
func Export(b vector.Batch, mem memory.Allocator) (arrow.Array, error) {
	return export(b, nil, b.NumElements(), mem)
}

// ExportTree converts a layout tree into a record. A struct root becomes one
// column per field, named after the layout; any other root becomes a single
// column. The record has as many rows as the root batch has elements.
func ExportTree(t *layout.Tree, mem memory.Allocator) (arrow.Record, error) {
	rows := t.Root.NumElements()

	s, ok := t.Root.(*vector.StructBatch)
	if !ok {
		col, err := export(t.Root, &t.Layout, rows, mem)
		if err != nil {
			return nil, err
		}
		defer col.Release()

		name := t.Layout.Name
		if name == "" {
			name = "value"
		}
		schema := arrow.NewSchema([]arrow.Field{{Name: name, Type: col.DataType(), Nullable: true}}, nil)
		return array.NewRecord(schema, []arrow.Array{col}, int64(rows)), nil
	}

	fields := make([]arrow.Field, 0, s.NumFields())
	cols := make([]arrow.Array, 0, s.NumFields())
	defer func() {
		for _, c := range cols {
			c.Release()
		}
	}()
	for i, f := range s.Fields() {
		col, err := export(f, child(&t.Layout, i), rows, mem)
		if err != nil {
			return nil, err
		}
		cols = append(cols, col)
		fields = append(fields, arrow.Field{Name: fieldName(&t.Layout, i), Type: col.DataType(), Nullable: true})
	}
	return array.NewRecord(arrow.NewSchema(fields, nil), cols, int64(rows)), nil
}

// Compression selects the body codec used by WriteIPC.
type Compression string

const (
	CompressionNone Compression = "none"
	CompressionLZ4  Compression = "lz4"
	CompressionZstd Compression = "zstd"
)

// ParseCompression maps a codec name onto a Compression. The empty string
// means CompressionNone.
func ParseCompression(s string) (Compression, error) {
	switch c := Compression(strings.ToLower(s)); c {
	case "", CompressionNone:
		return CompressionNone, nil
	case CompressionLZ4, CompressionZstd:
		return c, nil
	}
	return "", errors.New(errors.ErrorTypeValidation, "unknown IPC compression").
		WithDetail("compression", s)
}

// WriteIPC writes rec to w in the Arrow IPC file format, compressing record
// bodies with c.
func WriteIPC(w io.Writer, rec arrow.Record, mem memory.Allocator, c Compression) error {
	opts := []ipc.Option{ipc.WithSchema(rec.Schema()), ipc.WithAllocator(mem)}
	switch c {
	case "", CompressionNone:
	case CompressionLZ4:
		opts = append(opts, ipc.WithLZ4())
	case CompressionZstd:
		opts = append(opts, ipc.WithZstd())
	default:
		return errors.New(errors.ErrorTypeValidation, "unknown IPC compression").
			WithDetail("compression", string(c))
	}

	fw, err := ipc.NewFileWriter(w, opts...)
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "failed to create Arrow writer")
	}
	if err := fw.Write(rec); err != nil {
		_ = fw.Close()
		return errors.Wrap(err, errors.ErrorTypeFile, "failed to write record batch")
	}
	if err := fw.Close(); err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "failed to close Arrow writer")
	}
	return nil
}

func export(b vector.Batch, n *layout.Node, rows uint64, mem memory.Allocator) (arrow.Array, error) {
	dt, err := dataType(b, n, scanScales(b, rows))
	if err != nil {
		return nil, err
	}

	bld := array.NewBuilder(mem, dt)
	defer bld.Release()
	bld.Reserve(int(rows))

	for row := uint64(0); row < rows; row++ {
		if err := appendRow(bld, b, row); err != nil {
			return nil, err
		}
	}
	return bld.NewArray(), nil
}

// appendRow appends row of b to bld, whose type came from dataType(b).
func appendRow(bld array.Builder, b vector.Batch, row uint64) error {
	if b.IsNull(row) {
		bld.AppendNull()
		return nil
	}

	switch v := b.(type) {
	case *vector.LongBatch:
		bld.(*array.Int64Builder).Append(v.Data()[row])
	case *vector.DoubleBatch:
		bld.(*array.Float64Builder).Append(v.Data()[row])
	case *vector.BytesBatch:
		bld.(*array.BinaryBuilder).Append(v.Value(row))
	case *vector.TimestampBatch:
		ns := v.Data()[row]*1e9 + v.Nanoseconds()[row]
		bld.(*array.TimestampBuilder).Append(arrow.Timestamp(ns))
	case *vector.Decimal64Batch:
		return appendDecimal(bld, b, row, decimal128.FromI64(v.Values()[row]), v.ReadScales()[row])
	case *vector.Decimal128Batch:
		x := v.Values()[row]
		return appendDecimal(bld, b, row, decimal128.New(x.Hi, x.Lo), v.ReadScales()[row])
	case *vector.StructBatch:
		sb := bld.(*array.StructBuilder)
		sb.Append(true)
		for i, f := range v.Fields() {
			if err := appendRow(sb.FieldBuilder(i), f, row); err != nil {
				return err
			}
		}
	case *vector.ListBatch:
		lb := bld.(*array.ListBuilder)
		lb.Append(true)
		start, end := v.Range(row)
		for r := start; r < end; r++ {
			if err := appendRow(lb.ValueBuilder(), v.Elements(), uint64(r)); err != nil {
				return err
			}
		}
	case *vector.MapBatch:
		mb := bld.(*array.MapBuilder)
		mb.Append(true)
		start, end := v.Range(row)
		for r := start; r < end; r++ {
			if v.Keys().IsNull(uint64(r)) {
				return errors.New(errors.ErrorTypeData, "map key is null").
					WithDetail("row", row).
					WithDetail("entry", r)
			}
			if err := appendRow(mb.KeyBuilder(), v.Keys(), uint64(r)); err != nil {
				return err
			}
			if err := appendRow(mb.ItemBuilder(), v.Elements(), uint64(r)); err != nil {
				return err
			}
		}
	default:
		return errors.New(errors.ErrorTypeCapability, "batch kind has no arrow export").
			WithDetail("kind", b.Kind().String())
	}
	return nil
}

func appendDecimal(bld array.Builder, b vector.Batch, row uint64, num decimal128.Num, scale int32) error {
	db := bld.(*array.Decimal128Builder)
	target := db.Type().(*arrow.Decimal128Type).Scale
	if scale < 0 {
		return errors.New(errors.ErrorTypeData, "decimal row scale is negative").
			WithDetail("kind", b.Kind().String()).
			WithDetail("row", row).
			WithDetail("scale", scale)
	}
	if scale > target {
		return errors.New(errors.ErrorTypeData, "decimal row scale exceeds column scale").
			WithDetail("kind", b.Kind().String()).
			WithDetail("row", row).
			WithDetail("scale", scale).
			WithDetail("column_scale", target)
	}
	db.Append(num.IncreaseScaleBy(target - scale))
	return nil
}
