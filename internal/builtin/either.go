package builtin

import (
	"github.com/gramfuzz/engine/api"
	"github.com/gramfuzz/engine/internal/codec"
	"github.com/gramfuzz/engine/internal/typeid"
)

// Either is the two-armed sum shape, grounded on tree.rs's
// `impl<T, E> Node for Result<T, E>`. The reference impl registers the
// wrapper's own id in fields() but the arm's id in serialized(), which would
// make a splice candidate's TypeID never match what the chunk store holds;
// this port registers the arm's TypeID consistently in both places so a
// collected leaf trace always addresses chunks that actually exist.
type Either[L, R api.Node] struct {
	Left   L
	Right  R
	IsLeft bool

	leftTypeID  api.TypeID
	rightTypeID api.TypeID
	leftGen     elementGen[L]
	rightGen    elementGen[R]
}

type eitherGenerator[L, R api.Node] struct {
	leftTypeID, rightTypeID api.TypeID
	leftGen                 elementGen[L]
	rightGen                elementGen[R]
}

// NewEitherGenerator builds the api.Generator for Either[L,R].
func NewEitherGenerator[L, R api.Node](leftTypeID, rightTypeID api.TypeID, leftGen elementGen[L], rightGen elementGen[R]) api.Generator {
	return &eitherGenerator[L, R]{leftTypeID: leftTypeID, rightTypeID: rightTypeID, leftGen: leftGen, rightGen: rightGen}
}

func (g *eitherGenerator[L, R]) Generate(v api.Visitor, remaining, curDepth *int) api.Node {
	e := &Either[L, R]{leftTypeID: g.leftTypeID, rightTypeID: g.rightTypeID, leftGen: g.leftGen, rightGen: g.rightGen}
	if v.CoinFlip() {
		e.IsLeft = true
		e.Left = g.leftGen(v, remaining, curDepth)
	} else {
		e.Right = g.rightGen(v, remaining, curDepth)
	}
	return e
}

func (e *Either[L, R]) Fields(v api.Visitor, index int) {
	if e.IsLeft {
		v.RegisterFieldStack(childDescriptor(0, e.Left))
		e.Left.Fields(v, 0)
	} else {
		v.RegisterFieldStack(childDescriptor(1, e.Right))
		e.Right.Fields(v, 1)
	}
	v.PopField()
}

func (e *Either[L, R]) Cmps(v api.Visitor, index int, cmp api.CmpOperand) {
	if e.IsLeft {
		v.RegisterFieldStack(childDescriptor(0, e.Left))
		e.Left.Cmps(v, 0, cmp)
	} else {
		v.RegisterFieldStack(childDescriptor(1, e.Right))
		e.Right.Cmps(v, 1, cmp)
	}
	v.PopField()
}

func (e *Either[L, R]) Serialized() []api.SerializedChunk {
	if e.IsLeft {
		out := []api.SerializedChunk{{Bytes: codec.Encode(e.Left), TypeID: e.leftTypeID}}
		return append(out, e.Left.Serialized()...)
	}
	out := []api.SerializedChunk{{Bytes: codec.Encode(e.Right), TypeID: e.rightTypeID}}
	return append(out, e.Right.Serialized()...)
}

func (e *Either[L, R]) Mutate(op api.MutationOp, v api.Visitor, path api.Path) {
	if len(path) != 0 {
		if path[0] == 0 {
			if !e.IsLeft {
				panic("invariant: mutate path addresses Left arm but Either currently holds Right")
			}
			e.Left.Mutate(op, v, path[1:])
		} else {
			if e.IsLeft {
				panic("invariant: mutate path addresses Right arm but Either currently holds Left")
			}
			e.Right.Mutate(op, v, path[1:])
		}
		return
	}
	switch m := op.(type) {
	case api.Splice:
		if e.IsLeft {
			e.Left = codec.Decode[L](m.Bytes)
		} else {
			e.Right = codec.Decode[R](m.Bytes)
		}
	case api.GenerateReplace:
		bias := m.Bias
		fresh := 0
		replaced := (&eitherGenerator[L, R]{leftTypeID: e.leftTypeID, rightTypeID: e.rightTypeID, leftGen: e.leftGen, rightGen: e.rightGen}).
			Generate(v, &bias, &fresh).(*Either[L, R])
		e.IsLeft, e.Left, e.Right = replaced.IsLeft, replaced.Left, replaced.Right
	default:
		panic("invariant: Either cannot satisfy this mutation op")
	}
}

func (e *Either[L, R]) Len() int          { return 0 }
func (e *Either[L, R]) IsRecursive() bool { return false }
func (e *Either[L, R]) TypeID() api.TypeID {
	return typeid.NamedMulti("Either", e.leftTypeID, e.rightTypeID)
}

var _ api.Node = (*Either[*Int32, *Int32])(nil)
