package builtin

import (
	"reflect"

	"github.com/gramfuzz/engine/api"
	"github.com/gramfuzz/engine/internal/codec"
	"github.com/gramfuzz/engine/internal/typeid"
)

// String draws from the visitor's learned string pool rather than
// generating arbitrary bytes; it never reports itself as iterable, so it
// isn't a target for the iterable mutators (spec §4.B, grounded on
// tree.rs's `impl Node for String`, which deliberately fixes __len() at
// zero: "no recursive splicing for strings (for now)").
type String string

func NewString(v api.Visitor) String { return String(v.GetString()) }

func (n *String) Fields(api.Visitor, int)              {}
func (n *String) Cmps(api.Visitor, int, api.CmpOperand) {}

func (n *String) Serialized() []api.SerializedChunk {
	return []api.SerializedChunk{{Bytes: codec.Encode(string(*n)), TypeID: n.TypeID()}}
}

func (n *String) Mutate(op api.MutationOp, v api.Visitor, path api.Path) {
	mutateLeaf(op, v, path,
		func(b []byte) { *n = String(codec.Decode[string](b)) },
		func() { *n = NewString(v) })
}

func (n *String) Len() int           { return 0 }
func (n *String) IsRecursive() bool  { return false }
func (n *String) TypeID() api.TypeID { return typeid.Of(reflect.TypeOf(string(""))) }

var _ api.Node = (*String)(nil)
