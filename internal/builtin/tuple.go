package builtin

import (
	"github.com/gramfuzz/engine/api"
	"github.com/gramfuzz/engine/internal/codec"
	"github.com/gramfuzz/engine/internal/typeid"
)

// Tuple2 through Tuple8 are the fixed-arity heterogeneous product shapes,
// grounded on tree.rs's `tuple_impls!` macro family. The reference
// generates tuples up to arity 12; this port caps at 8 (spec §9) since Go
// has no variadic generic arity and eight slots already covers every
// grammar encountered in the pack.

func tupleFields(v api.Visitor, slots []api.Node) {
	for i, child := range slots {
		v.RegisterFieldStack(childDescriptor(i, child))
		child.Fields(v, 0)
		v.PopField()
	}
}

func tupleCmps(v api.Visitor, slots []api.Node, cmp api.CmpOperand) {
	for i, child := range slots {
		v.RegisterFieldStack(childDescriptor(i, child))
		child.Cmps(v, 0, cmp)
		v.PopField()
	}
}

func tupleSerialized(slots []api.Node) []api.SerializedChunk {
	out := make([]api.SerializedChunk, 0, len(slots))
	for _, child := range slots {
		if _, ok := child.(iterableNode); ok {
			continue
		}
		if child.Len() == 0 {
			out = append(out, api.SerializedChunk{Bytes: codec.Encode(child), TypeID: child.TypeID()})
		}
	}
	for _, child := range slots {
		out = append(out, child.Serialized()...)
	}
	return out
}

func tupleMutateSlot(op api.MutationOp, v api.Visitor, path api.Path, slots []api.Node) bool {
	if len(path) == 0 {
		return false
	}
	if path[0] < 0 || path[0] >= len(slots) {
		panic("invariant: tuple slot out of range")
	}
	slots[path[0]].Mutate(op, v, path[1:])
	return true
}

// ---- Tuple2 ----

type Tuple2[A, B api.Node] struct {
	A A
	B B

	genA elementGen[A]
	genB elementGen[B]
}

func NewTuple2Generator[A, B api.Node](genA elementGen[A], genB elementGen[B]) api.Generator {
	return genFunc(func(v api.Visitor, remaining, curDepth *int) api.Node {
		return &Tuple2[A, B]{A: genA(v, remaining, curDepth), B: genB(v, remaining, curDepth), genA: genA, genB: genB}
	})
}

func (t *Tuple2[A, B]) slots() []api.Node { return []api.Node{t.A, t.B} }
func (t *Tuple2[A, B]) Fields(v api.Visitor, _ int)                 { tupleFields(v, t.slots()) }
func (t *Tuple2[A, B]) Cmps(v api.Visitor, _ int, cmp api.CmpOperand) { tupleCmps(v, t.slots(), cmp) }
func (t *Tuple2[A, B]) Serialized() []api.SerializedChunk            { return tupleSerialized(t.slots()) }
func (t *Tuple2[A, B]) Mutate(op api.MutationOp, v api.Visitor, path api.Path) {
	if tupleMutateSlot(op, v, path, t.slots()) {
		return
	}
	switch m := op.(type) {
	case api.Splice:
		decoded := codec.Decode[Tuple2[A, B]](m.Bytes)
		t.A, t.B = decoded.A, decoded.B
	case api.GenerateReplace:
		remaining, fresh := m.Bias, 0
		t.A, t.B = t.genA(v, &remaining, &fresh), t.genB(v, &remaining, &fresh)
	default:
		panic("invariant: tuple cannot satisfy this mutation op")
	}
}
func (t *Tuple2[A, B]) Len() int          { return 0 }
func (t *Tuple2[A, B]) IsRecursive() bool { return false }
func (t *Tuple2[A, B]) TypeID() api.TypeID {
	return typeid.NamedMulti("Tuple2", t.A.TypeID(), t.B.TypeID())
}

var _ api.Node = (*Tuple2[*Int32, *Int32])(nil)

// genFunc adapts a plain function to api.Generator.
type genFunc func(v api.Visitor, remaining, curDepth *int) api.Node

func (f genFunc) Generate(v api.Visitor, remaining, curDepth *int) api.Node {
	return f(v, remaining, curDepth)
}

// ---- Tuple3 ----

type Tuple3[A, B, C api.Node] struct {
	A A
	B B
	C C

	genA elementGen[A]
	genB elementGen[B]
	genC elementGen[C]
}

func NewTuple3Generator[A, B, C api.Node](genA elementGen[A], genB elementGen[B], genC elementGen[C]) api.Generator {
	return genFunc(func(v api.Visitor, remaining, curDepth *int) api.Node {
		return &Tuple3[A, B, C]{A: genA(v, remaining, curDepth), B: genB(v, remaining, curDepth), C: genC(v, remaining, curDepth), genA: genA, genB: genB, genC: genC}
	})
}

func (t *Tuple3[A, B, C]) slots() []api.Node { return []api.Node{t.A, t.B, t.C} }
func (t *Tuple3[A, B, C]) Fields(v api.Visitor, _ int)                 { tupleFields(v, t.slots()) }
func (t *Tuple3[A, B, C]) Cmps(v api.Visitor, _ int, cmp api.CmpOperand) { tupleCmps(v, t.slots(), cmp) }
func (t *Tuple3[A, B, C]) Serialized() []api.SerializedChunk            { return tupleSerialized(t.slots()) }
func (t *Tuple3[A, B, C]) Mutate(op api.MutationOp, v api.Visitor, path api.Path) {
	if tupleMutateSlot(op, v, path, t.slots()) {
		return
	}
	switch m := op.(type) {
	case api.Splice:
		decoded := codec.Decode[Tuple3[A, B, C]](m.Bytes)
		t.A, t.B, t.C = decoded.A, decoded.B, decoded.C
	case api.GenerateReplace:
		remaining, fresh := m.Bias, 0
		t.A, t.B, t.C = t.genA(v, &remaining, &fresh), t.genB(v, &remaining, &fresh), t.genC(v, &remaining, &fresh)
	default:
		panic("invariant: tuple cannot satisfy this mutation op")
	}
}
func (t *Tuple3[A, B, C]) Len() int          { return 0 }
func (t *Tuple3[A, B, C]) IsRecursive() bool { return false }
func (t *Tuple3[A, B, C]) TypeID() api.TypeID {
	return typeid.NamedMulti("Tuple3", t.A.TypeID(), t.B.TypeID(), t.C.TypeID())
}

var _ api.Node = (*Tuple3[*Int32, *Int32, *Int32])(nil)

// ---- Tuple4 ----

type Tuple4[A, B, C, D api.Node] struct {
	A A
	B B
	C C
	D D

	genA elementGen[A]
	genB elementGen[B]
	genC elementGen[C]
	genD elementGen[D]
}

func NewTuple4Generator[A, B, C, D api.Node](genA elementGen[A], genB elementGen[B], genC elementGen[C], genD elementGen[D]) api.Generator {
	return genFunc(func(v api.Visitor, remaining, curDepth *int) api.Node {
		return &Tuple4[A, B, C, D]{
			A: genA(v, remaining, curDepth), B: genB(v, remaining, curDepth),
			C: genC(v, remaining, curDepth), D: genD(v, remaining, curDepth),
			genA: genA, genB: genB, genC: genC, genD: genD,
		}
	})
}

func (t *Tuple4[A, B, C, D]) slots() []api.Node { return []api.Node{t.A, t.B, t.C, t.D} }
func (t *Tuple4[A, B, C, D]) Fields(v api.Visitor, _ int)                 { tupleFields(v, t.slots()) }
func (t *Tuple4[A, B, C, D]) Cmps(v api.Visitor, _ int, cmp api.CmpOperand) { tupleCmps(v, t.slots(), cmp) }
func (t *Tuple4[A, B, C, D]) Serialized() []api.SerializedChunk            { return tupleSerialized(t.slots()) }
func (t *Tuple4[A, B, C, D]) Mutate(op api.MutationOp, v api.Visitor, path api.Path) {
	if tupleMutateSlot(op, v, path, t.slots()) {
		return
	}
	switch m := op.(type) {
	case api.Splice:
		decoded := codec.Decode[Tuple4[A, B, C, D]](m.Bytes)
		t.A, t.B, t.C, t.D = decoded.A, decoded.B, decoded.C, decoded.D
	case api.GenerateReplace:
		remaining, fresh := m.Bias, 0
		t.A, t.B, t.C, t.D = t.genA(v, &remaining, &fresh), t.genB(v, &remaining, &fresh), t.genC(v, &remaining, &fresh), t.genD(v, &remaining, &fresh)
	default:
		panic("invariant: tuple cannot satisfy this mutation op")
	}
}
func (t *Tuple4[A, B, C, D]) Len() int          { return 0 }
func (t *Tuple4[A, B, C, D]) IsRecursive() bool { return false }
func (t *Tuple4[A, B, C, D]) TypeID() api.TypeID {
	return typeid.NamedMulti("Tuple4", t.A.TypeID(), t.B.TypeID(), t.C.TypeID(), t.D.TypeID())
}

var _ api.Node = (*Tuple4[*Int32, *Int32, *Int32, *Int32])(nil)

// ---- Tuple5 ----

type Tuple5[A, B, C, D, E api.Node] struct {
	A A
	B B
	C C
	D D
	E E

	genA elementGen[A]
	genB elementGen[B]
	genC elementGen[C]
	genD elementGen[D]
	genE elementGen[E]
}

func NewTuple5Generator[A, B, C, D, E api.Node](genA elementGen[A], genB elementGen[B], genC elementGen[C], genD elementGen[D], genE elementGen[E]) api.Generator {
	return genFunc(func(v api.Visitor, remaining, curDepth *int) api.Node {
		return &Tuple5[A, B, C, D, E]{
			A: genA(v, remaining, curDepth), B: genB(v, remaining, curDepth),
			C: genC(v, remaining, curDepth), D: genD(v, remaining, curDepth),
			E: genE(v, remaining, curDepth),
			genA: genA, genB: genB, genC: genC, genD: genD, genE: genE,
		}
	})
}

func (t *Tuple5[A, B, C, D, E]) slots() []api.Node { return []api.Node{t.A, t.B, t.C, t.D, t.E} }
func (t *Tuple5[A, B, C, D, E]) Fields(v api.Visitor, _ int)                 { tupleFields(v, t.slots()) }
func (t *Tuple5[A, B, C, D, E]) Cmps(v api.Visitor, _ int, cmp api.CmpOperand) { tupleCmps(v, t.slots(), cmp) }
func (t *Tuple5[A, B, C, D, E]) Serialized() []api.SerializedChunk            { return tupleSerialized(t.slots()) }
func (t *Tuple5[A, B, C, D, E]) Mutate(op api.MutationOp, v api.Visitor, path api.Path) {
	if tupleMutateSlot(op, v, path, t.slots()) {
		return
	}
	switch m := op.(type) {
	case api.Splice:
		decoded := codec.Decode[Tuple5[A, B, C, D, E]](m.Bytes)
		t.A, t.B, t.C, t.D, t.E = decoded.A, decoded.B, decoded.C, decoded.D, decoded.E
	case api.GenerateReplace:
		remaining, fresh := m.Bias, 0
		t.A, t.B, t.C, t.D, t.E = t.genA(v, &remaining, &fresh), t.genB(v, &remaining, &fresh), t.genC(v, &remaining, &fresh), t.genD(v, &remaining, &fresh), t.genE(v, &remaining, &fresh)
	default:
		panic("invariant: tuple cannot satisfy this mutation op")
	}
}
func (t *Tuple5[A, B, C, D, E]) Len() int          { return 0 }
func (t *Tuple5[A, B, C, D, E]) IsRecursive() bool { return false }
func (t *Tuple5[A, B, C, D, E]) TypeID() api.TypeID {
	return typeid.NamedMulti("Tuple5", t.A.TypeID(), t.B.TypeID(), t.C.TypeID(), t.D.TypeID(), t.E.TypeID())
}

var _ api.Node = (*Tuple5[*Int32, *Int32, *Int32, *Int32, *Int32])(nil)

// ---- Tuple6 ----

type Tuple6[A, B, C, D, E, F api.Node] struct {
	A A
	B B
	C C
	D D
	E E
	F F

	genA elementGen[A]
	genB elementGen[B]
	genC elementGen[C]
	genD elementGen[D]
	genE elementGen[E]
	genF elementGen[F]
}

func NewTuple6Generator[A, B, C, D, E, F api.Node](genA elementGen[A], genB elementGen[B], genC elementGen[C], genD elementGen[D], genE elementGen[E], genF elementGen[F]) api.Generator {
	return genFunc(func(v api.Visitor, remaining, curDepth *int) api.Node {
		return &Tuple6[A, B, C, D, E, F]{
			A: genA(v, remaining, curDepth), B: genB(v, remaining, curDepth),
			C: genC(v, remaining, curDepth), D: genD(v, remaining, curDepth),
			E: genE(v, remaining, curDepth), F: genF(v, remaining, curDepth),
			genA: genA, genB: genB, genC: genC, genD: genD, genE: genE, genF: genF,
		}
	})
}

func (t *Tuple6[A, B, C, D, E, F]) slots() []api.Node {
	return []api.Node{t.A, t.B, t.C, t.D, t.E, t.F}
}
func (t *Tuple6[A, B, C, D, E, F]) Fields(v api.Visitor, _ int)                 { tupleFields(v, t.slots()) }
func (t *Tuple6[A, B, C, D, E, F]) Cmps(v api.Visitor, _ int, cmp api.CmpOperand) { tupleCmps(v, t.slots(), cmp) }
func (t *Tuple6[A, B, C, D, E, F]) Serialized() []api.SerializedChunk            { return tupleSerialized(t.slots()) }
func (t *Tuple6[A, B, C, D, E, F]) Mutate(op api.MutationOp, v api.Visitor, path api.Path) {
	if tupleMutateSlot(op, v, path, t.slots()) {
		return
	}
	switch m := op.(type) {
	case api.Splice:
		decoded := codec.Decode[Tuple6[A, B, C, D, E, F]](m.Bytes)
		t.A, t.B, t.C, t.D, t.E, t.F = decoded.A, decoded.B, decoded.C, decoded.D, decoded.E, decoded.F
	case api.GenerateReplace:
		remaining, fresh := m.Bias, 0
		t.A, t.B, t.C, t.D, t.E, t.F = t.genA(v, &remaining, &fresh), t.genB(v, &remaining, &fresh), t.genC(v, &remaining, &fresh), t.genD(v, &remaining, &fresh), t.genE(v, &remaining, &fresh), t.genF(v, &remaining, &fresh)
	default:
		panic("invariant: tuple cannot satisfy this mutation op")
	}
}
func (t *Tuple6[A, B, C, D, E, F]) Len() int          { return 0 }
func (t *Tuple6[A, B, C, D, E, F]) IsRecursive() bool { return false }
func (t *Tuple6[A, B, C, D, E, F]) TypeID() api.TypeID {
	return typeid.NamedMulti("Tuple6", t.A.TypeID(), t.B.TypeID(), t.C.TypeID(), t.D.TypeID(), t.E.TypeID(), t.F.TypeID())
}

var _ api.Node = (*Tuple6[*Int32, *Int32, *Int32, *Int32, *Int32, *Int32])(nil)

// ---- Tuple7 ----

type Tuple7[A, B, C, D, E, F, G api.Node] struct {
	A A
	B B
	C C
	D D
	E E
	F F
	G G

	genA elementGen[A]
	genB elementGen[B]
	genC elementGen[C]
	genD elementGen[D]
	genE elementGen[E]
	genF elementGen[F]
	genG elementGen[G]
}

func NewTuple7Generator[A, B, C, D, E, F, G api.Node](genA elementGen[A], genB elementGen[B], genC elementGen[C], genD elementGen[D], genE elementGen[E], genF elementGen[F], genG elementGen[G]) api.Generator {
	return genFunc(func(v api.Visitor, remaining, curDepth *int) api.Node {
		return &Tuple7[A, B, C, D, E, F, G]{
			A: genA(v, remaining, curDepth), B: genB(v, remaining, curDepth),
			C: genC(v, remaining, curDepth), D: genD(v, remaining, curDepth),
			E: genE(v, remaining, curDepth), F: genF(v, remaining, curDepth),
			G: genG(v, remaining, curDepth),
			genA: genA, genB: genB, genC: genC, genD: genD, genE: genE, genF: genF, genG: genG,
		}
	})
}

func (t *Tuple7[A, B, C, D, E, F, G]) slots() []api.Node {
	return []api.Node{t.A, t.B, t.C, t.D, t.E, t.F, t.G}
}
func (t *Tuple7[A, B, C, D, E, F, G]) Fields(v api.Visitor, _ int)                 { tupleFields(v, t.slots()) }
func (t *Tuple7[A, B, C, D, E, F, G]) Cmps(v api.Visitor, _ int, cmp api.CmpOperand) { tupleCmps(v, t.slots(), cmp) }
func (t *Tuple7[A, B, C, D, E, F, G]) Serialized() []api.SerializedChunk            { return tupleSerialized(t.slots()) }
func (t *Tuple7[A, B, C, D, E, F, G]) Mutate(op api.MutationOp, v api.Visitor, path api.Path) {
	if tupleMutateSlot(op, v, path, t.slots()) {
		return
	}
	switch m := op.(type) {
	case api.Splice:
		decoded := codec.Decode[Tuple7[A, B, C, D, E, F, G]](m.Bytes)
		t.A, t.B, t.C, t.D, t.E, t.F, t.G = decoded.A, decoded.B, decoded.C, decoded.D, decoded.E, decoded.F, decoded.G
	case api.GenerateReplace:
		remaining, fresh := m.Bias, 0
		t.A, t.B, t.C, t.D, t.E, t.F, t.G = t.genA(v, &remaining, &fresh), t.genB(v, &remaining, &fresh), t.genC(v, &remaining, &fresh), t.genD(v, &remaining, &fresh), t.genE(v, &remaining, &fresh), t.genF(v, &remaining, &fresh), t.genG(v, &remaining, &fresh)
	default:
		panic("invariant: tuple cannot satisfy this mutation op")
	}
}
func (t *Tuple7[A, B, C, D, E, F, G]) Len() int          { return 0 }
func (t *Tuple7[A, B, C, D, E, F, G]) IsRecursive() bool { return false }
func (t *Tuple7[A, B, C, D, E, F, G]) TypeID() api.TypeID {
	return typeid.NamedMulti("Tuple7", t.A.TypeID(), t.B.TypeID(), t.C.TypeID(), t.D.TypeID(), t.E.TypeID(), t.F.TypeID(), t.G.TypeID())
}

var _ api.Node = (*Tuple7[*Int32, *Int32, *Int32, *Int32, *Int32, *Int32, *Int32])(nil)

// ---- Tuple8 ----

type Tuple8[A, B, C, D, E, F, G, H api.Node] struct {
	A A
	B B
	C C
	D D
	E E
	F F
	G G
	H H

	genA elementGen[A]
	genB elementGen[B]
	genC elementGen[C]
	genD elementGen[D]
	genE elementGen[E]
	genF elementGen[F]
	genG elementGen[G]
	genH elementGen[H]
}

func NewTuple8Generator[A, B, C, D, E, F, G, H api.Node](genA elementGen[A], genB elementGen[B], genC elementGen[C], genD elementGen[D], genE elementGen[E], genF elementGen[F], genG elementGen[G], genH elementGen[H]) api.Generator {
	return genFunc(func(v api.Visitor, remaining, curDepth *int) api.Node {
		return &Tuple8[A, B, C, D, E, F, G, H]{
			A: genA(v, remaining, curDepth), B: genB(v, remaining, curDepth),
			C: genC(v, remaining, curDepth), D: genD(v, remaining, curDepth),
			E: genE(v, remaining, curDepth), F: genF(v, remaining, curDepth),
			G: genG(v, remaining, curDepth), H: genH(v, remaining, curDepth),
			genA: genA, genB: genB, genC: genC, genD: genD, genE: genE, genF: genF, genG: genG, genH: genH,
		}
	})
}

func (t *Tuple8[A, B, C, D, E, F, G, H]) slots() []api.Node {
	return []api.Node{t.A, t.B, t.C, t.D, t.E, t.F, t.G, t.H}
}
func (t *Tuple8[A, B, C, D, E, F, G, H]) Fields(v api.Visitor, _ int) { tupleFields(v, t.slots()) }
func (t *Tuple8[A, B, C, D, E, F, G, H]) Cmps(v api.Visitor, _ int, cmp api.CmpOperand) {
	tupleCmps(v, t.slots(), cmp)
}
func (t *Tuple8[A, B, C, D, E, F, G, H]) Serialized() []api.SerializedChunk {
	return tupleSerialized(t.slots())
}
func (t *Tuple8[A, B, C, D, E, F, G, H]) Mutate(op api.MutationOp, v api.Visitor, path api.Path) {
	if tupleMutateSlot(op, v, path, t.slots()) {
		return
	}
	switch m := op.(type) {
	case api.Splice:
		decoded := codec.Decode[Tuple8[A, B, C, D, E, F, G, H]](m.Bytes)
		t.A, t.B, t.C, t.D, t.E, t.F, t.G, t.H = decoded.A, decoded.B, decoded.C, decoded.D, decoded.E, decoded.F, decoded.G, decoded.H
	case api.GenerateReplace:
		remaining, fresh := m.Bias, 0
		t.A, t.B, t.C, t.D, t.E, t.F, t.G, t.H = t.genA(v, &remaining, &fresh), t.genB(v, &remaining, &fresh), t.genC(v, &remaining, &fresh), t.genD(v, &remaining, &fresh), t.genE(v, &remaining, &fresh), t.genF(v, &remaining, &fresh), t.genG(v, &remaining, &fresh), t.genH(v, &remaining, &fresh)
	default:
		panic("invariant: tuple cannot satisfy this mutation op")
	}
}
func (t *Tuple8[A, B, C, D, E, F, G, H]) Len() int          { return 0 }
func (t *Tuple8[A, B, C, D, E, F, G, H]) IsRecursive() bool { return false }
func (t *Tuple8[A, B, C, D, E, F, G, H]) TypeID() api.TypeID {
	return typeid.NamedMulti("Tuple8", t.A.TypeID(), t.B.TypeID(), t.C.TypeID(), t.D.TypeID(), t.E.TypeID(), t.F.TypeID(), t.G.TypeID(), t.H.TypeID())
}

var _ api.Node = (*Tuple8[*Int32, *Int32, *Int32, *Int32, *Int32, *Int32, *Int32, *Int32])(nil)
