package builtin

import (
	"github.com/gramfuzz/engine/api"
	"github.com/gramfuzz/engine/internal/codec"
	"github.com/gramfuzz/engine/internal/typeid"
)

// elementGen is the typed shape every generic container stores instead of a
// bare api.Generator: it produces the concrete element type T directly so
// containers never need to type-assert an api.Node back down.
type elementGen[T api.Node] func(v api.Visitor, remaining *int, curDepth *int) T

// iterableNode is implemented by every container shape (Slice, Array) so a
// parent walking Fields/Cmps can report the element TypeID of an iterable
// child without knowing its concrete type (grounds NodeDescriptor.InnerTypeID,
// spec §3).
type iterableNode interface {
	ElementTypeID() api.TypeID
}

func childDescriptor(index int, child api.Node) api.NodeDescriptor {
	switch {
	case child.Len() > 0:
		inner := api.TypeID("")
		if it, ok := any(child).(iterableNode); ok {
			inner = it.ElementTypeID()
		}
		return api.NodeDescriptor{Index: index, Kind: api.KindIterable, TypeID: child.TypeID(), Len: child.Len() - 1, InnerTypeID: inner}
	case child.IsRecursive():
		return api.NodeDescriptor{Index: index, Kind: api.KindRecursive, TypeID: child.TypeID()}
	default:
		return api.NodeDescriptor{Index: index, Kind: api.KindNonRecursive, TypeID: child.TypeID()}
	}
}

// Slice is the dynamic-length sequence shape, grounded on tree.rs's
// `impl<T> Node for Vec<T>`. Mutation supports the full iterable surface:
// GenerateReplace, Splice, SpliceAppend, IterablePop.
type Slice[T api.Node] struct {
	Elems []T

	elemTypeID api.TypeID
	elemGen    elementGen[T]
}

func generateSlice[T api.Node](v api.Visitor, elemTypeID api.TypeID, gen elementGen[T], remaining, curDepth *int) *Slice[T] {
	s := &Slice[T]{elemTypeID: elemTypeID, elemGen: gen}
	if *remaining <= 0 {
		return s
	}
	lo := 0
	if *curDepth == 0 {
		lo = 1
	}
	count := v.RandomRange(lo, v.IterateDepth())
	if count == 0 {
		return s
	}
	s.Elems = make([]T, count)
	for i := 0; i < count; i++ {
		fresh := 0
		s.Elems[i] = gen(v, &fresh, curDepth)
	}
	return s
}

type sliceGenerator[T api.Node] struct {
	elemTypeID api.TypeID
	elemGen    elementGen[T]
}

// NewSliceGenerator builds the api.Generator for Slice[T], parameterized by
// the element type's TypeID and its own generator function.
func NewSliceGenerator[T api.Node](elemTypeID api.TypeID, gen elementGen[T]) api.Generator {
	return &sliceGenerator[T]{elemTypeID: elemTypeID, elemGen: gen}
}

func (g *sliceGenerator[T]) Generate(v api.Visitor, remaining, curDepth *int) api.Node {
	return generateSlice(v, g.elemTypeID, g.elemGen, remaining, curDepth)
}

func (s *Slice[T]) ElementTypeID() api.TypeID { return s.elemTypeID }

func (s *Slice[T]) Fields(v api.Visitor, _ int) {
	for i, child := range s.Elems {
		v.RegisterFieldStack(childDescriptor(i, child))
		child.Fields(v, 0)
		v.PopField()
	}
}

func (s *Slice[T]) Cmps(v api.Visitor, _ int, cmp api.CmpOperand) {
	for i, child := range s.Elems {
		v.RegisterFieldStack(api.NodeDescriptor{Index: i, Kind: api.KindNonRecursive, TypeID: child.TypeID()})
		child.Cmps(v, i, cmp)
		v.PopField()
	}
}

func (s *Slice[T]) Serialized() []api.SerializedChunk {
	out := make([]api.SerializedChunk, 0, len(s.Elems))
	for _, child := range s.Elems {
		out = append(out, api.SerializedChunk{Bytes: codec.Encode(child), TypeID: s.elemTypeID})
	}
	for _, child := range s.Elems {
		out = append(out, child.Serialized()...)
	}
	return out
}

func (s *Slice[T]) Mutate(op api.MutationOp, v api.Visitor, path api.Path) {
	if len(path) != 0 {
		s.Elems[path[0]].Mutate(op, v, path[1:])
		return
	}
	switch m := op.(type) {
	case api.Splice:
		n, rest := codec.DecodeSequenceLength(m.Bytes)
		s.Elems = codec.DecodeSequence[T](rest, n)
	case api.GenerateReplace:
		bias := m.Bias
		fresh := 0
		s.Elems = generateSlice(v, s.elemTypeID, s.elemGen, &bias, &fresh).Elems
	case api.SpliceAppend:
		s.Elems = append(s.Elems, codec.Decode[T](m.Bytes))
	case api.IterablePop:
		s.Elems = append(s.Elems[:m.Index], s.Elems[m.Index+1:]...)
	case api.RecursiveReplace:
		// Sequences have no single recursive slot to collapse; left as a
		// deliberate no-op, matching the reference Vec impl's TODO.
	default:
		panic("invariant: unknown mutation op")
	}
}

func (s *Slice[T]) Len() int          { return len(s.Elems) }
func (s *Slice[T]) IsRecursive() bool { return false }
func (s *Slice[T]) TypeID() api.TypeID {
	return typeid.Named("Slice", s.elemTypeID)
}

var _ api.Node = (*Slice[*Int32])(nil)
