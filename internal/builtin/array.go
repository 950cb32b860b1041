package builtin

import (
	"github.com/gramfuzz/engine/api"
	"github.com/gramfuzz/engine/internal/codec"
	"github.com/gramfuzz/engine/internal/typeid"
)

// Array is the fixed-length sequence shape, grounded on tree.rs's
// `impl<T, const N: usize> Node for [T; N]`. The reference impl carries a
// "TODO: fix and make the same as Vec" marker on its fields/cmps traversal
// (it collapses every element into one undistinguished stack frame); this
// port does the fix the TODO asks for and registers one frame per element,
// matching Slice. Length is frozen at construction: SpliceAppend and
// IterablePop are no-ops here, same as the reference's unreachable-but-
// tolerated match arm.
type Array[T api.Node] struct {
	Elems []T

	n          int
	elemTypeID api.TypeID
	elemGen    elementGen[T]
}

type arrayGenerator[T api.Node] struct {
	n          int
	elemTypeID api.TypeID
	elemGen    elementGen[T]
}

// NewArrayGenerator builds the api.Generator for Array[T] with a fixed
// element count n.
func NewArrayGenerator[T api.Node](n int, elemTypeID api.TypeID, gen elementGen[T]) api.Generator {
	return &arrayGenerator[T]{n: n, elemTypeID: elemTypeID, elemGen: gen}
}

func (g *arrayGenerator[T]) Generate(v api.Visitor, remaining, curDepth *int) api.Node {
	a := &Array[T]{n: g.n, elemTypeID: g.elemTypeID, elemGen: g.elemGen, Elems: make([]T, g.n)}
	for i := 0; i < g.n; i++ {
		budget := v.GenerateDepth()
		a.Elems[i] = g.elemGen(v, &budget, curDepth)
	}
	return a
}

func (a *Array[T]) ElementTypeID() api.TypeID { return a.elemTypeID }

func (a *Array[T]) Fields(v api.Visitor, _ int) {
	for i, child := range a.Elems {
		v.RegisterFieldStack(childDescriptor(i, child))
		child.Fields(v, 0)
		v.PopField()
	}
}

func (a *Array[T]) Cmps(v api.Visitor, _ int, cmp api.CmpOperand) {
	for i, child := range a.Elems {
		v.RegisterFieldStack(api.NodeDescriptor{Index: i, Kind: api.KindNonRecursive, TypeID: child.TypeID()})
		child.Cmps(v, i, cmp)
		v.PopField()
	}
}

func (a *Array[T]) Serialized() []api.SerializedChunk {
	out := make([]api.SerializedChunk, 0, len(a.Elems))
	for _, child := range a.Elems {
		out = append(out, api.SerializedChunk{Bytes: codec.Encode(child), TypeID: a.elemTypeID})
	}
	for _, child := range a.Elems {
		out = append(out, child.Serialized()...)
	}
	return out
}

func (a *Array[T]) Mutate(op api.MutationOp, v api.Visitor, path api.Path) {
	if len(path) != 0 {
		a.Elems[path[0]].Mutate(op, v, path[1:])
		return
	}
	switch m := op.(type) {
	case api.Splice:
		n, rest := codec.DecodeSequenceLength(m.Bytes)
		a.Elems = codec.DecodeSequence[T](rest, n)
	case api.GenerateReplace:
		fresh := 0
		replaced := (&arrayGenerator[T]{n: a.n, elemTypeID: a.elemTypeID, elemGen: a.elemGen}).Generate(v, &m.Bias, &fresh).(*Array[T])
		a.Elems = replaced.Elems
	default:
		// Fixed length: SpliceAppend, IterablePop, RecursiveReplace are all
		// no-ops here, matching the reference impl's tolerated fallthrough.
	}
}

func (a *Array[T]) Len() int           { return len(a.Elems) }
func (a *Array[T]) IsRecursive() bool  { return false }
func (a *Array[T]) TypeID() api.TypeID { return typeid.Named("Array", a.elemTypeID) }

var _ api.Node = (*Array[*Int32])(nil)
