// Package arrowbridge exports populated column batches as Apache Arrow
// arrays and records.
//
// Kinds map onto Arrow types as follows:
//
//	long        int64
//	double      float64
//	bytes       binary
//	timestamp   timestamp[ns, UTC]
//	decimal64   decimal128(18, s)
//	decimal128  decimal128(38, s)
//	struct      struct
//	list        list
//	map         map
//
// The decimal scale s is the largest read scale among the rows the export
// visits: the parent's rows for a struct field, the offset ranges of
// non-null rows for list and map children. Every row is rescaled to it. Unions have no
// export and fail with an errors.ErrorTypeCapability error.
package arrowbridge

import (
	"strconv"

	"github.com/apache/arrow-go/v18/arrow"

	"github.com/ajitpratap0/orcvector/pkg/errors"
	"github.com/ajitpratap0/orcvector/pkg/layout"
	"github.com/ajitpratap0/orcvector/pkg/vector"
)

const (
	decimal64Precision  = 18
	decimal128Precision = 38
)

var timestampType = &arrow.TimestampType{Unit: arrow.Nanosecond, TimeZone: "UTC"}

// DataType returns the Arrow type Export would produce for b. Struct fields
// are named f0, f1 and so on.
func DataType(b vector.Batch) (arrow.DataType, error) {
	return dataType(b, nil, scanScales(b, b.NumElements()))
}

// scales holds, per decimal batch, the largest read scale among the rows an
// export visits.
type scales map[vector.Batch]int32

// scanScales walks the first rows of b the way appendRow does.
func scanScales(b vector.Batch, rows uint64) scales {
	sc := scales{}
	for row := uint64(0); row < rows; row++ {
		sc.visit(b, row)
	}
	return sc
}

func (sc scales) visit(b vector.Batch, row uint64) {
	if b == nil || b.IsNull(row) {
		return
	}
	switch v := b.(type) {
	case *vector.Decimal64Batch:
		sc.raise(b, v.ReadScales()[row])
	case *vector.Decimal128Batch:
		sc.raise(b, v.ReadScales()[row])
	case *vector.StructBatch:
		for _, f := range v.Fields() {
			sc.visit(f, row)
		}
	case *vector.ListBatch:
		if v.Elements() == nil {
			return
		}
		start, end := v.Range(row)
		for r := start; r < end; r++ {
			sc.visit(v.Elements(), uint64(r))
		}
	case *vector.MapBatch:
		if v.Keys() == nil || v.Elements() == nil {
			return
		}
		start, end := v.Range(row)
		for r := start; r < end; r++ {
			sc.visit(v.Keys(), uint64(r))
			sc.visit(v.Elements(), uint64(r))
		}
	}
}

func (sc scales) raise(b vector.Batch, scale int32) {
	if cur, ok := sc[b]; !ok || scale > cur {
		sc[b] = scale
	}
}

// dataType derives b's Arrow type. n, when set, is the layout node b was
// built from and supplies field names.
func dataType(b vector.Batch, n *layout.Node, sc scales) (arrow.DataType, error) {
	switch v := b.(type) {
	case *vector.LongBatch:
		return arrow.PrimitiveTypes.Int64, nil
	case *vector.DoubleBatch:
		return arrow.PrimitiveTypes.Float64, nil
	case *vector.BytesBatch:
		return arrow.BinaryTypes.Binary, nil
	case *vector.TimestampBatch:
		return timestampType, nil
	case *vector.Decimal64Batch:
		return decimalType(b, sc[b], decimal64Precision)
	case *vector.Decimal128Batch:
		return decimalType(b, sc[b], decimal128Precision)
	case *vector.StructBatch:
		fields := make([]arrow.Field, v.NumFields())
		for i, f := range v.Fields() {
			dt, err := dataType(f, child(n, i), sc)
			if err != nil {
				return nil, err
			}
			fields[i] = arrow.Field{Name: fieldName(n, i), Type: dt, Nullable: true}
		}
		return arrow.StructOf(fields...), nil
	case *vector.ListBatch:
		elems, err := attached(v.Elements(), b, "elements")
		if err != nil {
			return nil, err
		}
		et, err := dataType(elems, child(n, 0), sc)
		if err != nil {
			return nil, err
		}
		return arrow.ListOf(et), nil
	case *vector.MapBatch:
		keys, err := attached(v.Keys(), b, "keys")
		if err != nil {
			return nil, err
		}
		items, err := attached(v.Elements(), b, "elements")
		if err != nil {
			return nil, err
		}
		kt, err := dataType(keys, child(n, 0), sc)
		if err != nil {
			return nil, err
		}
		it, err := dataType(items, child(n, 1), sc)
		if err != nil {
			return nil, err
		}
		return arrow.MapOf(kt, it), nil
	default:
		return nil, errors.New(errors.ErrorTypeCapability, "batch kind has no arrow export").
			WithDetail("kind", b.Kind().String())
	}
}

func decimalType(b vector.Batch, scale, precision int32) (arrow.DataType, error) {
	if scale < 0 {
		scale = 0
	}
	if scale > precision {
		return nil, errors.New(errors.ErrorTypeCapability, "decimal scale exceeds arrow precision").
			WithDetail("kind", b.Kind().String()).
			WithDetail("scale", scale).
			WithDetail("precision", precision)
	}
	return &arrow.Decimal128Type{Precision: precision, Scale: scale}, nil
}

func attached(child, parent vector.Batch, role string) (vector.Batch, error) {
	if child == nil {
		return nil, errors.New(errors.ErrorTypeValidation, "child batch is not attached").
			WithDetail("kind", parent.Kind().String()).
			WithDetail("child", role)
	}
	return child, nil
}

func child(n *layout.Node, i int) *layout.Node {
	if n == nil || i >= len(n.Children) {
		return nil
	}
	return &n.Children[i]
}

func fieldName(n *layout.Node, i int) string {
	if c := child(n, i); c != nil && c.Name != "" {
		return c.Name
	}
	return "f" + strconv.Itoa(i)
}
