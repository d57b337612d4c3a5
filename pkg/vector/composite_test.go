package vector_test

import (
	"testing"

	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/orcvector/pkg/errors"
	"github.com/ajitpratap0/orcvector/pkg/metrics"
	"github.com/ajitpratap0/orcvector/pkg/testutil"
	"github.com/ajitpratap0/orcvector/pkg/vector"
)

func released(kind string) float64 {
	return promtest.ToFloat64(metrics.BatchesReleased.WithLabelValues(kind))
}

func TestStructDescription(t *testing.T) {
	pool := testutil.NewLeakCheckedPool(t)

	s, err := vector.NewStructBatch(10, pool)
	require.NoError(t, err)
	defer s.Release()

	ids, err := vector.NewLongBatch(10, pool)
	require.NoError(t, err)
	require.NoError(t, s.AddField(ids))

	scores, err := vector.NewDoubleBatch(10, pool)
	require.NoError(t, err)
	require.NoError(t, s.AddField(scores))

	s.SetNumElements(3)
	ids.SetNumElements(3)

	assert.Equal(t,
		"Struct vector <3 of 10; Long vector <3 of 10>; Double vector <0 of 10>; >",
		s.String())
	assert.Equal(t, 2, s.NumFields())
	assert.Same(t, ids, s.Field(0))
}

func TestStructReleaseFreesFieldsOnce(t *testing.T) {
	pool := testutil.NewLeakCheckedPool(t)

	s, err := vector.NewStructBatch(8, pool)
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		f, err := vector.NewLongBatch(8, pool)
		require.NoError(t, err)
		require.NoError(t, s.AddField(f))
	}
	inner, err := vector.NewStructBatch(8, pool)
	require.NoError(t, err)
	leaf, err := vector.NewBytesBatch(8, pool)
	require.NoError(t, err)
	require.NoError(t, inner.AddField(leaf))
	require.NoError(t, s.AddField(inner))

	longs, structs, bytes := released("long"), released("struct"), released("bytes")

	s.Release()
	s.Release()

	assert.Equal(t, longs+3, released("long"))
	assert.Equal(t, structs+2, released("struct"))
	assert.Equal(t, bytes+1, released("bytes"))
	assert.Zero(t, pool.Stats().BytesInUse)
	assert.Nil(t, s.Fields())
}

func TestStructResizeLeavesFields(t *testing.T) {
	pool := testutil.NewLeakCheckedPool(t)

	s, err := vector.NewStructBatch(4, pool)
	require.NoError(t, err)
	defer s.Release()

	f, err := vector.NewLongBatch(4, pool)
	require.NoError(t, err)
	require.NoError(t, s.AddField(f))

	require.NoError(t, s.Resize(64))
	assert.Equal(t, uint64(64), s.Capacity())
	assert.Len(t, s.NotNull(), 64)
	assert.Equal(t, uint64(4), f.Capacity())
}

func TestChildOwnership(t *testing.T) {
	pool := testutil.NewLeakCheckedPool(t)

	a, err := vector.NewStructBatch(4, pool)
	require.NoError(t, err)
	defer a.Release()
	u, err := vector.NewUnionBatch(4, pool)
	require.NoError(t, err)
	defer u.Release()

	child, err := vector.NewLongBatch(4, pool)
	require.NoError(t, err)
	require.NoError(t, a.AddField(child))

	err = a.AddField(child)
	assert.True(t, errors.IsType(err, errors.ErrorTypeConflict))
	err = u.AddChild(child)
	assert.True(t, errors.IsType(err, errors.ErrorTypeConflict))

	err = a.AddField(a)
	assert.True(t, errors.IsType(err, errors.ErrorTypeConflict))
	err = u.AddChild(nil)
	assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))

	gone, err := vector.NewDoubleBatch(4, pool)
	require.NoError(t, err)
	gone.Release()
	err = u.AddChild(gone)
	assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))

	assert.Equal(t, 1, a.NumFields())
	assert.Zero(t, u.NumChildren())
}

func TestListBatch(t *testing.T) {
	pool := testutil.NewLeakCheckedPool(t)

	l, err := vector.NewListBatch(3, pool)
	require.NoError(t, err)
	defer l.Release()

	assert.Len(t, l.Offsets(), 4)
	assert.Nil(t, l.Elements())
	assert.Equal(t, "List vector <<unattached> with 0 of 3>", l.String())

	elems, err := vector.NewLongBatch(5, pool)
	require.NoError(t, err)
	defer elems.Release()

	assert.Nil(t, l.AttachElements(elems))
	copy(l.Offsets(), []int64{0, 2, 2, 5})
	copy(elems.Data(), []int64{1, 2, 3, 4, 5})
	elems.SetNumElements(5)
	l.SetNumElements(3)

	assert.Equal(t, "List vector <Long vector <5 of 5> with 3 of 3>", l.String())

	start, end := l.Range(1)
	assert.Equal(t, start, end, "row 1 is empty")
	start, end = l.Range(2)
	assert.Equal(t, []int64{3, 4, 5}, elems.Data()[start:end])

	require.NoError(t, l.Resize(10))
	assert.Len(t, l.Offsets(), 11)
	assert.Equal(t, []int64{0, 2, 2, 5}, l.Offsets()[:4])
	assert.Equal(t, uint64(5), elems.Capacity())
}

func TestListReleaseKeepsElements(t *testing.T) {
	pool := testutil.NewLeakCheckedPool(t)

	l, err := vector.NewListBatch(2, pool)
	require.NoError(t, err)
	elems, err := vector.NewDoubleBatch(4, pool)
	require.NoError(t, err)
	l.AttachElements(elems)

	l.Release()

	// still usable after the list is gone
	elems.Data()[3] = 2.5
	require.NoError(t, elems.Resize(8))
	assert.Equal(t, 2.5, elems.Data()[3])

	elems.Release()
}

func TestAttachReturnsPrevious(t *testing.T) {
	pool := testutil.NewLeakCheckedPool(t)

	l, err := vector.NewListBatch(2, pool)
	require.NoError(t, err)
	defer l.Release()

	first, err := vector.NewLongBatch(2, pool)
	require.NoError(t, err)
	second, err := vector.NewLongBatch(4, pool)
	require.NoError(t, err)
	defer second.Release()

	l.AttachElements(first)
	prev := l.AttachElements(second)
	require.Same(t, first, prev)
	prev.Release()

	assert.Same(t, second, l.Elements())
}

func TestMapBatch(t *testing.T) {
	pool := testutil.NewLeakCheckedPool(t)

	m, err := vector.NewMapBatch(4, pool)
	require.NoError(t, err)
	defer m.Release()

	assert.Len(t, m.Offsets(), 5)
	assert.Equal(t, "Map vector <<unattached>, <unattached> with 0 of 4>", m.String())

	keys, err := vector.NewBytesBatch(8, pool)
	require.NoError(t, err)
	defer keys.Release()
	values, err := vector.NewLongBatch(8, pool)
	require.NoError(t, err)
	defer values.Release()

	m.AttachKeys(keys)
	m.AttachElements(values)
	keys.SetNumElements(5)
	values.SetNumElements(5)
	m.SetNumElements(3)

	assert.Equal(t, "Map vector <Byte vector <5 of 8>, Long vector <5 of 8> with 3 of 4>", m.String())

	require.NoError(t, m.Resize(6))
	assert.Len(t, m.Offsets(), 7)
	assert.Equal(t, uint64(8), keys.Capacity())
	assert.Same(t, keys, m.Keys())
}

func TestUnionBatch(t *testing.T) {
	pool := testutil.NewLeakCheckedPool(t)

	u, err := vector.NewUnionBatch(4, pool)
	require.NoError(t, err)

	ints, err := vector.NewLongBatch(4, pool)
	require.NoError(t, err)
	require.NoError(t, u.AddChild(ints))
	strs, err := vector.NewBytesBatch(4, pool)
	require.NoError(t, err)
	require.NoError(t, u.AddChild(strs))

	assert.Len(t, u.Tags(), 4)
	assert.Len(t, u.Offsets(), 4)

	copy(u.Tags(), []byte{0, 1, 0})
	copy(u.Offsets(), []uint64{0, 0, 1})
	u.SetNumElements(3)

	// children are listed even when no row selects them
	assert.Equal(t,
		"Union vector <Long vector <0 of 4>, Byte vector <0 of 4>; with 3 of 4>",
		u.String())

	require.NoError(t, u.Resize(16))
	assert.Len(t, u.Tags(), 16)
	assert.Len(t, u.Offsets(), 16)
	assert.Equal(t, []byte{0, 1, 0}, u.Tags()[:3])
	assert.Equal(t, uint64(4), ints.Capacity())
	assert.Same(t, strs, u.Child(1))

	longs, bytes := released("long"), released("bytes")
	u.Release()
	u.Release()
	assert.Equal(t, longs+1, released("long"))
	assert.Equal(t, bytes+1, released("bytes"))
}

func TestEmptyUnionDescription(t *testing.T) {
	pool := testutil.NewLeakCheckedPool(t)

	u, err := vector.NewUnionBatch(2, pool)
	require.NoError(t, err)
	defer u.Release()

	assert.Equal(t, "Union vector <; with 0 of 2>", u.String())
}
