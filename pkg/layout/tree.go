package layout

import (
	"context"

	"go.uber.org/zap"

	"github.com/ajitpratap0/orcvector/pkg/logger"
	"github.com/ajitpratap0/orcvector/pkg/memory"
	"github.com/ajitpratap0/orcvector/pkg/vector"
)

// Tree is a batch tree built from a layout. Root owns its struct fields and
// union variants; list and map children are attached references that the
// tree keeps alive until Release.
type Tree struct {
	// Root is the batch for the top-level node
	Root vector.Batch
	// Layout is the node the tree was built from
	Layout Node

	attached []vector.Batch
}

// Build creates the batches described by n. Nodes without a capacity use
// capacity, or the nearest ancestor's capacity. Batches built before a
// failure are released before the error is returned.
func Build(n Node, capacity uint64, pool memory.Pool) (*Tree, error) {
	return BuildContext(context.Background(), n, capacity, pool)
}

// BuildContext is Build with log entries tagged from ctx (logger.LayoutKey).
// A failed build is logged with the top-level column it failed under.
func BuildContext(ctx context.Context, n Node, capacity uint64, pool memory.Pool) (*Tree, error) {
	if err := n.Validate(); err != nil {
		return nil, err
	}

	b := &builder{pool: pool}
	root, err := b.build(n, capacity)
	if err != nil {
		releaseAll(b.attached)
		if b.failed != "" {
			ctx = context.WithValue(ctx, logger.ColumnKey, b.failed)
		}
		logger.WithContext(ctx).Warn("failed to build batch tree", zap.Error(err))
		return nil, err
	}

	logger.WithContext(ctx).Debug("built batch tree",
		zap.String("root", root.Kind().String()),
		zap.Uint64("capacity", root.Capacity()),
		zap.Int("attached", len(b.attached)))

	return &Tree{Root: root, Layout: n, attached: b.attached}, nil
}

// Attached returns the list and map children built for the tree, deepest
// first.
func (t *Tree) Attached() []vector.Batch { return t.attached }

// String describes the root batch.
func (t *Tree) String() string { return t.Root.String() }

// Release frees the root, which releases its owned children, and then every
// attached batch. Calling it again is a no-op.
func (t *Tree) Release() {
	t.Root.Release()
	releaseAll(t.attached)
}

func releaseAll(bs []vector.Batch) {
	for _, b := range bs {
		b.Release()
	}
}

type builder struct {
	pool     memory.Pool
	attached []vector.Batch
	// failed is the outermost named field a build error passed through
	failed string
}

// build assumes n has been validated.
func (b *builder) build(n Node, capacity uint64) (vector.Batch, error) {
	if n.Capacity > 0 {
		capacity = n.Capacity
	}
	kind, err := vector.ParseKind(n.Kind)
	if err != nil {
		return nil, err
	}

	switch kind {
	case vector.KindLong:
		return leaf(vector.NewLongBatch(capacity, b.pool))
	case vector.KindDouble:
		return leaf(vector.NewDoubleBatch(capacity, b.pool))
	case vector.KindBytes:
		return leaf(vector.NewBytesBatch(capacity, b.pool))
	case vector.KindTimestamp:
		return leaf(vector.NewTimestampBatch(capacity, b.pool))
	case vector.KindDecimal64:
		return leaf(vector.NewDecimal64Batch(capacity, b.pool))
	case vector.KindDecimal128:
		return leaf(vector.NewDecimal128Batch(capacity, b.pool))
	case vector.KindStruct:
		s, err := vector.NewStructBatch(capacity, b.pool)
		if err != nil {
			return nil, err
		}
		if err := b.own(s, s.AddField, n.Children, capacity); err != nil {
			return nil, err
		}
		return s, nil
	case vector.KindUnion:
		u, err := vector.NewUnionBatch(capacity, b.pool)
		if err != nil {
			return nil, err
		}
		if err := b.own(u, u.AddChild, n.Children, capacity); err != nil {
			return nil, err
		}
		return u, nil
	case vector.KindList:
		l, err := vector.NewListBatch(capacity, b.pool)
		if err != nil {
			return nil, err
		}
		elems, err := b.attach(n.Children[0], capacity)
		if err != nil {
			l.Release()
			return nil, err
		}
		l.AttachElements(elems)
		return l, nil
	default: // vector.KindMap
		m, err := vector.NewMapBatch(capacity, b.pool)
		if err != nil {
			return nil, err
		}
		keys, err := b.attach(n.Children[0], capacity)
		if err != nil {
			m.Release()
			return nil, err
		}
		m.AttachKeys(keys)
		values, err := b.attach(n.Children[1], capacity)
		if err != nil {
			m.Release()
			return nil, err
		}
		m.AttachElements(values)
		return m, nil
	}
}

// own builds children and hands each to add. On failure parent is released
// along with the children it already owns.
func (b *builder) own(parent vector.Batch, add func(vector.Batch) error, children []Node, capacity uint64) error {
	for _, c := range children {
		child, err := b.build(c, capacity)
		if err != nil {
			if c.Name != "" {
				b.failed = c.Name
			}
			parent.Release()
			return err
		}
		if err := add(child); err != nil {
			child.Release()
			parent.Release()
			return err
		}
	}
	return nil
}

// attach builds a list or map child and records it for Tree.Release.
func (b *builder) attach(n Node, capacity uint64) (vector.Batch, error) {
	child, err := b.build(n, capacity)
	if err != nil {
		return nil, err
	}
	b.attached = append(b.attached, child)
	return child, nil
}

// leaf drops the typed nil a failed constructor returns.
func leaf(b vector.Batch, err error) (vector.Batch, error) {
	if err != nil {
		return nil, err
	}
	return b, nil
}
