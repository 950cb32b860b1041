package builtin

import "github.com/gramfuzz/engine/api"

// Box is the transparent heap-indirection shape used by derived recursive
// sum types to hold "another instance of myself" without Go's
// no-self-referential-struct-by-value restriction, grounded on tree.rs's
// `impl<T> Node for Box<T>`, which forwards every operation to the inner
// value. Unlike the reference impl (whose default `id()` gives Box<T> a
// distinct identity from T while serialized()/cmps()/fields() all forward to
// T), this port also forwards TypeID — Box carries no chunk-store identity
// of its own, so a splice candidate for a boxed field is always looked up
// under the type it actually holds.
type Box[T api.Node] struct {
	Value T
}

type boxGenerator[T api.Node] struct {
	inner elementGen[T]
}

// NewBoxGenerator builds the api.Generator for Box[T].
func NewBoxGenerator[T api.Node](inner elementGen[T]) api.Generator {
	return &boxGenerator[T]{inner: inner}
}

func (g *boxGenerator[T]) Generate(v api.Visitor, remaining, curDepth *int) api.Node {
	return &Box[T]{Value: g.inner(v, remaining, curDepth)}
}

func (b *Box[T]) Fields(v api.Visitor, index int)                 { b.Value.Fields(v, index) }
func (b *Box[T]) Cmps(v api.Visitor, index int, cmp api.CmpOperand) { b.Value.Cmps(v, index, cmp) }
func (b *Box[T]) Serialized() []api.SerializedChunk               { return b.Value.Serialized() }
func (b *Box[T]) Mutate(op api.MutationOp, v api.Visitor, path api.Path) {
	b.Value.Mutate(op, v, path)
}
func (b *Box[T]) Len() int           { return b.Value.Len() }
func (b *Box[T]) IsRecursive() bool  { return b.Value.IsRecursive() }
func (b *Box[T]) TypeID() api.TypeID { return b.Value.TypeID() }

var _ api.Node = (*Box[*Int32])(nil)
