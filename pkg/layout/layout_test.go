package layout

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/ajitpratap0/orcvector/pkg/errors"
	"github.com/ajitpratap0/orcvector/pkg/logger"
	"github.com/ajitpratap0/orcvector/pkg/testutil"
	"github.com/ajitpratap0/orcvector/pkg/vector"
)

const ordersLayout = `
kind: struct
children:
  - name: id
    kind: long
  - name: items
    kind: list
    children:
      - kind: struct
        capacity: 16
        children:
          - name: sku
            kind: bytes
          - name: price
            kind: decimal64
  - name: attrs
    kind: map
    children:
      - kind: bytes
      - kind: double
  - name: payload
    kind: union
    children:
      - kind: long
      - kind: timestamp
`

func TestBuildTree(t *testing.T) {
	testutil.UseTestLogger(t)
	pool := testutil.NewLeakCheckedPool(t)

	n, err := Parse([]byte(ordersLayout))
	require.NoError(t, err)

	tree, err := Build(n, 8, pool)
	require.NoError(t, err)
	defer tree.Release()

	root, ok := tree.Root.(*vector.StructBatch)
	require.True(t, ok)
	require.Equal(t, 4, root.NumFields())
	assert.Equal(t, uint64(8), root.Capacity())

	items := root.Field(1).(*vector.ListBatch)
	elems := items.Elements().(*vector.StructBatch)
	assert.Equal(t, uint64(16), elems.Capacity())
	assert.Equal(t, uint64(16), elems.Field(0).Capacity(), "capacity is inherited from the nearest ancestor")

	attrs := root.Field(2).(*vector.MapBatch)
	assert.Equal(t, vector.KindBytes, attrs.Keys().Kind())
	assert.Equal(t, vector.KindDouble, attrs.Elements().Kind())

	payload := root.Field(3).(*vector.UnionBatch)
	assert.Equal(t, 2, payload.NumChildren())

	assert.Len(t, tree.Attached(), 3)
	assert.Equal(t,
		"Struct vector <0 of 8; Long vector <0 of 8>; "+
			"List vector <Struct vector <0 of 16; Byte vector <0 of 16>; Decimal64 vector <0 of 16>; > with 0 of 8>; "+
			"Map vector <Byte vector <0 of 8>, Double vector <0 of 8> with 0 of 8>; "+
			"Union vector <Long vector <0 of 8>, Timestamp vector <0 of 8>; with 0 of 8>; >",
		tree.String())
}

func TestTreeReleaseFreesAttached(t *testing.T) {
	pool := testutil.NewLeakCheckedPool(t)

	n, err := Parse([]byte(ordersLayout))
	require.NoError(t, err)
	tree, err := Build(n, 32, pool)
	require.NoError(t, err)
	require.Positive(t, pool.Stats().BytesInUse)

	tree.Release()
	tree.Release()
	assert.Zero(t, pool.Stats().BytesInUse)
}

func TestBuildFailureReleasesPartialTree(t *testing.T) {
	// enough for the first few batches but not the whole tree
	pool := testutil.NewLimitedPool(t, 600)

	n, err := Parse([]byte(ordersLayout))
	require.NoError(t, err)

	tree, err := Build(n, 8, pool)
	require.Error(t, err)
	assert.Nil(t, tree)
	assert.True(t, errors.IsType(err, errors.ErrorTypeResource))
	assert.Zero(t, pool.Stats().BytesInUse)
}

func observeLogs(t *testing.T) *observer.ObservedLogs {
	t.Helper()

	core, logs := observer.New(zapcore.DebugLevel)
	prev := logger.Get()
	logger.Set(zap.New(core))
	t.Cleanup(func() { logger.Set(prev) })
	return logs
}

func TestBuildContextTagsLogs(t *testing.T) {
	n, err := Parse([]byte(ordersLayout))
	require.NoError(t, err)
	ctx := context.WithValue(context.Background(), logger.LayoutKey, "orders.yaml")

	t.Run("success", func(t *testing.T) {
		logs := observeLogs(t)
		pool := testutil.NewLeakCheckedPool(t)

		tree, err := BuildContext(ctx, n, 8, pool)
		require.NoError(t, err)
		defer tree.Release()

		entries := logs.FilterMessage("built batch tree").All()
		require.Len(t, entries, 1)
		assert.Equal(t, "orders.yaml", entries[0].ContextMap()["layout"])
	})

	t.Run("failure names the column", func(t *testing.T) {
		logs := observeLogs(t)
		pool := testutil.NewLimitedPool(t, 600)

		_, err := BuildContext(ctx, n, 8, pool)
		require.Error(t, err)

		entries := logs.FilterMessage("failed to build batch tree").All()
		require.Len(t, entries, 1)
		assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
		fields := entries[0].ContextMap()
		assert.Equal(t, "orders.yaml", fields["layout"])
		assert.Contains(t, []interface{}{"id", "items", "attrs", "payload"}, fields["column"])
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		path string
	}{
		{"unknown kind", "kind: varchar", "$"},
		{"list without elements", "kind: list", "$"},
		{"map with one child", "kind: map\nchildren:\n  - kind: long", "$"},
		{"empty union", "kind: union", "$"},
		{"scalar with children", "kind: struct\nchildren:\n  - name: x\n    kind: long\n    children:\n      - kind: long", "$.x"},
		{"nested unnamed", "kind: struct\nchildren:\n  - kind: long\n  - kind: nope", "$[1]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
			assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))

			var e *errors.Error
			require.ErrorAs(t, err, &e)
			assert.Equal(t, tt.path, e.Details["path"])
		})
	}
}

func TestParseMalformed(t *testing.T) {
	_, err := Parse([]byte("kind: [struct"))
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))
}

func TestEmptyStructIsValid(t *testing.T) {
	pool := testutil.NewLeakCheckedPool(t)

	tree, err := Build(Node{Kind: "struct"}, 4, pool)
	require.NoError(t, err)
	defer tree.Release()

	assert.Equal(t, "Struct vector <0 of 4; >", tree.String())
}

func TestLoadFile(t *testing.T) {
	t.Setenv("ORCVECTOR_TEST_KIND", "double")
	path := testutil.WriteTempFile(t, "layout.yaml", []byte("kind: list\nchildren:\n  - kind: ${ORCVECTOR_TEST_KIND}\n"))

	n, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "double", n.Children[0].Kind)

	_, err = LoadFile(path + ".missing")
	assert.True(t, errors.IsType(err, errors.ErrorTypeFile))
}
