// Package vector implements the in-memory column batches exchanged between
// a columnar file reader or writer and application code.
//
// # Overview
//
// A batch holds up to Capacity rows of one logical column: typed value
// buffers plus a parallel null-indicator buffer. Producers grow a batch with
// Resize, fill buffers and null indicators for the first NumElements rows,
// and hand it to a consumer.
//
// Leaf kinds:
//
//	LongBatch        64-bit integers
//	DoubleBatch      64-bit floats
//	BytesBatch       byte-string references plus lengths
//	TimestampBatch   seconds plus nanoseconds
//	Decimal64Batch   64-bit unscaled values plus read scales
//	Decimal128Batch  128-bit unscaled values plus read scales
//
// Composite kinds:
//
//	StructBatch  one owned child per field
//	ListBatch    offsets plus an attached elements batch
//	MapBatch     offsets plus attached keys and elements batches
//	UnionBatch   per-row tags and offsets plus owned children
//
// # Capacity
//
// Capacity never decreases. Resize to a capacity at or below the current one
// does nothing; a larger request grows every buffer the batch owns and
// preserves its contents. Children are never resized by their parent.
//
// # Ownership
//
// Struct and union batches own their children and release them exactly once
// when released. List and map batches only reference their children: the
// caller attaches them after construction and releases them separately.
//
//	root, _ := vector.NewStructBatch(1024, pool)
//	ids, _ := vector.NewLongBatch(1024, pool)
//	_ = root.AddField(ids)
//	defer root.Release() // releases ids too
//
// Batches are not safe for concurrent use. All memory comes from the
// memory.Pool given at construction, which must outlive the batch.
package vector
