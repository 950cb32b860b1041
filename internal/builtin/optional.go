package builtin

import (
	"github.com/gramfuzz/engine/api"
	"github.com/gramfuzz/engine/internal/codec"
	"github.com/gramfuzz/engine/internal/typeid"
)

// Optional is the maybe-present shape, grounded on tree.rs's
// `impl<T> Node for Option<T>`. Cmps and Fields intentionally use different
// visitor calls (RegisterField vs RegisterFieldStack) for the present arm,
// matching the asymmetry in the reference impl.
type Optional[T api.Node] struct {
	Value   T
	Present bool

	elemTypeID api.TypeID
	elemGen    elementGen[T]
}

type optionalGenerator[T api.Node] struct {
	elemTypeID api.TypeID
	elemGen    elementGen[T]
}

// NewOptionalGenerator builds the api.Generator for Optional[T].
func NewOptionalGenerator[T api.Node](elemTypeID api.TypeID, gen elementGen[T]) api.Generator {
	return &optionalGenerator[T]{elemTypeID: elemTypeID, elemGen: gen}
}

func (g *optionalGenerator[T]) Generate(v api.Visitor, remaining, curDepth *int) api.Node {
	o := &Optional[T]{elemTypeID: g.elemTypeID, elemGen: g.elemGen}
	if v.CoinFlip() {
		o.Present = true
		o.Value = g.elemGen(v, remaining, curDepth)
	}
	return o
}

func (o *Optional[T]) Fields(v api.Visitor, index int) {
	if !o.Present {
		return
	}
	v.RegisterFieldStack(childDescriptor(index, o.Value))
	o.Value.Fields(v, 0)
	v.PopField()
}

func (o *Optional[T]) Cmps(v api.Visitor, index int, cmp api.CmpOperand) {
	if !o.Present {
		return
	}
	v.RegisterField(api.NodeDescriptor{Index: index, Kind: api.KindNonRecursive, TypeID: o.Value.TypeID()})
	o.Value.Cmps(v, 0, cmp)
	v.PopField()
}

func (o *Optional[T]) Serialized() []api.SerializedChunk {
	if !o.Present {
		return nil
	}
	out := []api.SerializedChunk{{Bytes: codec.Encode(o.Value), TypeID: o.elemTypeID}}
	return append(out, o.Value.Serialized()...)
}

func (o *Optional[T]) Mutate(op api.MutationOp, v api.Visitor, path api.Path) {
	if len(path) != 0 && o.Present {
		o.Value.Mutate(op, v, path[1:])
		return
	}
	switch m := op.(type) {
	case api.Splice:
		// The leaf trace for a present Optional carries its Value's own
		// TypeID (childDescriptor/RegisterField above register the inner
		// type, not the wrapper), so splice bytes decode straight to T.
		o.Present = true
		o.Value = codec.Decode[T](m.Bytes)
	case api.GenerateReplace:
		bias := m.Bias
		fresh := 0
		replaced := (&optionalGenerator[T]{elemTypeID: o.elemTypeID, elemGen: o.elemGen}).Generate(v, &bias, &fresh).(*Optional[T])
		o.Present, o.Value = replaced.Present, replaced.Value
	default:
		panic("invariant: Optional cannot satisfy this mutation op")
	}
}

func (o *Optional[T]) Len() int           { return 0 }
func (o *Optional[T]) IsRecursive() bool  { return false }
func (o *Optional[T]) TypeID() api.TypeID { return typeid.Named("Optional", o.elemTypeID) }

var _ api.Node = (*Optional[*Int32])(nil)
