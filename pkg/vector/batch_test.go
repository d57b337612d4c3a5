package vector_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/orcvector/pkg/errors"
	"github.com/ajitpratap0/orcvector/pkg/memory"
	"github.com/ajitpratap0/orcvector/pkg/testutil"
	"github.com/ajitpratap0/orcvector/pkg/vector"
)

type constructor func(capacity uint64, pool memory.Pool) (vector.Batch, error)

func allKinds() map[string]constructor {
	return map[string]constructor{
		"long": func(c uint64, p memory.Pool) (vector.Batch, error) { return vector.NewLongBatch(c, p) },
		"double": func(c uint64, p memory.Pool) (vector.Batch, error) {
			return vector.NewDoubleBatch(c, p)
		},
		"bytes": func(c uint64, p memory.Pool) (vector.Batch, error) { return vector.NewBytesBatch(c, p) },
		"timestamp": func(c uint64, p memory.Pool) (vector.Batch, error) {
			return vector.NewTimestampBatch(c, p)
		},
		"decimal64": func(c uint64, p memory.Pool) (vector.Batch, error) {
			return vector.NewDecimal64Batch(c, p)
		},
		"decimal128": func(c uint64, p memory.Pool) (vector.Batch, error) {
			return vector.NewDecimal128Batch(c, p)
		},
		"struct": func(c uint64, p memory.Pool) (vector.Batch, error) { return vector.NewStructBatch(c, p) },
		"list":   func(c uint64, p memory.Pool) (vector.Batch, error) { return vector.NewListBatch(c, p) },
		"map":    func(c uint64, p memory.Pool) (vector.Batch, error) { return vector.NewMapBatch(c, p) },
		"union":  func(c uint64, p memory.Pool) (vector.Batch, error) { return vector.NewUnionBatch(c, p) },
	}
}

func TestNewBatchDefaults(t *testing.T) {
	for name, newBatch := range allKinds() {
		t.Run(name, func(t *testing.T) {
			pool := testutil.NewLeakCheckedPool(t)

			b, err := newBatch(16, pool)
			require.NoError(t, err)
			defer b.Release()

			assert.Equal(t, name, b.Kind().String())
			assert.Equal(t, uint64(16), b.Capacity())
			assert.Zero(t, b.NumElements())
			assert.False(t, b.HasNulls())
			assert.Len(t, b.NotNull(), 16)
		})
	}
}

func TestResizeNeverShrinks(t *testing.T) {
	for name, newBatch := range allKinds() {
		t.Run(name, func(t *testing.T) {
			pool := testutil.NewLeakCheckedPool(t)

			b, err := newBatch(32, pool)
			require.NoError(t, err)
			defer b.Release()

			before := pool.Stats()
			require.NoError(t, b.Resize(8))
			require.NoError(t, b.Resize(32))
			assert.Equal(t, uint64(32), b.Capacity())
			assert.Equal(t, before, pool.Stats(), "no-op resize must not touch the pool")

			require.NoError(t, b.Resize(64))
			assert.Equal(t, uint64(64), b.Capacity())
			assert.Len(t, b.NotNull(), 64)

			grown := pool.Stats().BytesInUse
			require.NoError(t, b.Resize(64))
			assert.Equal(t, grown, pool.Stats().BytesInUse)
		})
	}
}

func TestResizePreservesContents(t *testing.T) {
	pool := testutil.NewLeakCheckedPool(t)

	b, err := vector.NewLongBatch(4, pool)
	require.NoError(t, err)
	defer b.Release()

	copy(b.Data(), []int64{7, -3, 11, 42})
	copy(b.NotNull(), []byte{1, 0, 1, 1})
	b.SetHasNulls(true)
	b.SetNumElements(4)

	require.NoError(t, b.Resize(1024))
	assert.Len(t, b.Data(), 1024)
	assert.Equal(t, []int64{7, -3, 11, 42}, b.Data()[:4])
	assert.Equal(t, []byte{1, 0, 1, 1}, b.NotNull()[:4])
	assert.Equal(t, uint64(4), b.NumElements())
	assert.True(t, b.HasNulls())
}

func TestResizeGrowsAuxiliaryBuffers(t *testing.T) {
	pool := testutil.NewLeakCheckedPool(t)

	t.Run("decimal64", func(t *testing.T) {
		b, err := vector.NewDecimal64Batch(2, pool)
		require.NoError(t, err)
		defer b.Release()

		require.NoError(t, b.Resize(10))
		assert.Len(t, b.Values(), 10)
		assert.Len(t, b.ReadScales(), 10)
	})

	t.Run("decimal128", func(t *testing.T) {
		b, err := vector.NewDecimal128Batch(2, pool)
		require.NoError(t, err)
		defer b.Release()

		require.NoError(t, b.Resize(10))
		assert.Len(t, b.Values(), 10)
		assert.Len(t, b.ReadScales(), 10)
	})

	t.Run("bytes", func(t *testing.T) {
		b, err := vector.NewBytesBatch(2, pool)
		require.NoError(t, err)
		defer b.Release()

		b.Set(1, []byte("kept"))
		require.NoError(t, b.Resize(10))
		assert.Len(t, b.Data(), 10)
		assert.Len(t, b.Lengths(), 10)
		assert.Equal(t, []byte("kept"), b.Value(1))
	})

	t.Run("timestamp", func(t *testing.T) {
		b, err := vector.NewTimestampBatch(2, pool)
		require.NoError(t, err)
		defer b.Release()

		require.NoError(t, b.Resize(10))
		assert.Len(t, b.Data(), 10)
		assert.Len(t, b.Nanoseconds(), 10)
	})
}

func TestIsNullFollowsHasNulls(t *testing.T) {
	pool := testutil.NewLeakCheckedPool(t)

	b, err := vector.NewDoubleBatch(3, pool)
	require.NoError(t, err)
	defer b.Release()

	copy(b.NotNull(), []byte{1, 0, 1})
	assert.False(t, b.IsNull(1), "flag unset means no row is null")

	b.SetHasNulls(true)
	assert.False(t, b.IsNull(0))
	assert.True(t, b.IsNull(1))
	assert.False(t, b.IsNull(2))

	// the flag is never recomputed from the indicators
	b.NotNull()[1] = 1
	assert.True(t, b.HasNulls())
}

func TestNumElementsNotChecked(t *testing.T) {
	pool := testutil.NewLeakCheckedPool(t)

	b, err := vector.NewLongBatch(4, pool)
	require.NoError(t, err)
	defer b.Release()

	b.SetNumElements(100)
	assert.Equal(t, uint64(100), b.NumElements())
	assert.Equal(t, "Long vector <100 of 4>", b.String())
}

func TestLeafDescriptions(t *testing.T) {
	pool := testutil.NewLeakCheckedPool(t)

	want := map[string]string{
		"long":       "Long vector <3 of 8>",
		"double":     "Double vector <3 of 8>",
		"bytes":      "Byte vector <3 of 8>",
		"timestamp":  "Timestamp vector <3 of 8>",
		"decimal64":  "Decimal64 vector <3 of 8>",
		"decimal128": "Decimal128 vector <3 of 8>",
	}
	kinds := allKinds()
	for name, desc := range want {
		b, err := kinds[name](8, pool)
		require.NoError(t, err)
		b.SetNumElements(3)
		assert.Equal(t, desc, b.String(), name)
		b.Release()
	}
}

func TestAllocationFailure(t *testing.T) {
	t.Run("construction", func(t *testing.T) {
		pool := testutil.NewLimitedPool(t, 4096)

		// notNull fits, the value buffer does not
		b, err := vector.NewLongBatch(1000, pool)
		require.Error(t, err)
		assert.Nil(t, b)
		assert.True(t, errors.IsType(err, errors.ErrorTypeResource))
		assert.Zero(t, pool.Stats().BytesInUse)
	})

	t.Run("resize", func(t *testing.T) {
		pool := testutil.NewLimitedPool(t, 4096)

		b, err := vector.NewLongBatch(100, pool)
		require.NoError(t, err)
		defer b.Release()

		err = b.Resize(1000)
		require.Error(t, err)
		assert.True(t, errors.IsType(err, errors.ErrorTypeResource))
		assert.Equal(t, uint64(100), b.Capacity())
		assert.Len(t, b.Data(), 100)
	})
}

func TestReleaseIsIdempotent(t *testing.T) {
	for name, newBatch := range allKinds() {
		t.Run(name, func(t *testing.T) {
			pool := testutil.NewLeakCheckedPool(t)

			b, err := newBatch(8, pool)
			require.NoError(t, err)

			b.Release()
			frees := pool.Stats().Frees
			b.Release()
			assert.Equal(t, frees, pool.Stats().Frees)
		})
	}
}

func TestResizeAfterRelease(t *testing.T) {
	for name, newBatch := range allKinds() {
		t.Run(name, func(t *testing.T) {
			pool := testutil.NewLeakCheckedPool(t)

			b, err := newBatch(4, pool)
			require.NoError(t, err)
			b.Release()

			err = b.Resize(100)
			require.Error(t, err)
			assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))
			assert.Equal(t, uint64(4), b.Capacity())
			assert.Zero(t, pool.Stats().BytesInUse)
		})
	}
}

func TestBytesBatchReferences(t *testing.T) {
	pool := testutil.NewLeakCheckedPool(t)

	b, err := vector.NewBytesBatch(4, pool)
	require.NoError(t, err)
	defer b.Release()

	backing := []byte("hello world")
	b.Set(0, backing[:5])
	b.Set(1, backing[6:])
	b.Lengths()[1] = 3

	assert.Equal(t, []byte("hello"), b.Value(0))
	assert.Equal(t, []byte("wor"), b.Value(1))

	// rows point at caller storage
	backing[0] = 'j'
	assert.Equal(t, []byte("jello"), b.Value(0))
}

func TestTimestampBatch(t *testing.T) {
	pool := testutil.NewLeakCheckedPool(t)

	b, err := vector.NewTimestampBatch(2, pool)
	require.NoError(t, err)
	defer b.Release()

	ts := time.Date(2021, 3, 14, 15, 9, 26, 535897932, time.UTC)
	b.Set(0, ts)

	assert.Equal(t, ts.Unix(), b.Data()[0])
	assert.Equal(t, int64(535897932), b.Nanoseconds()[0])
	assert.True(t, ts.Equal(b.Time(0)))
}

func TestParseKind(t *testing.T) {
	k, err := vector.ParseKind(" Decimal128 ")
	require.NoError(t, err)
	assert.Equal(t, vector.KindDecimal128, k)
	assert.Equal(t, "Decimal128 vector", k.Label())
	assert.False(t, k.Composite())
	assert.True(t, vector.KindMap.Composite())

	_, err = vector.ParseKind("varchar")
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))
}
