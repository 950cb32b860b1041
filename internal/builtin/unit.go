package builtin

import (
	"reflect"

	"github.com/gramfuzz/engine/api"
	"github.com/gramfuzz/engine/internal/codec"
	"github.com/gramfuzz/engine/internal/typeid"
)

// Unit is the payload of a sum variant that carries no data, the Go
// stand-in for a Rust unit enum variant (`Leaf`, not `Leaf(i32)`).
type Unit struct{}

func NewUnit(api.Visitor) *Unit { return &Unit{} }

func (u *Unit) Fields(api.Visitor, int)              {}
func (u *Unit) Cmps(api.Visitor, int, api.CmpOperand) {}
func (u *Unit) Serialized() []api.SerializedChunk {
	return []api.SerializedChunk{{Bytes: codec.Encode(struct{}{}), TypeID: u.TypeID()}}
}
func (u *Unit) Mutate(op api.MutationOp, v api.Visitor, path api.Path) {
	mutateLeaf(op, v, path,
		func([]byte) {},
		func() {})
}
func (u *Unit) Len() int           { return 0 }
func (u *Unit) IsRecursive() bool  { return false }
func (u *Unit) TypeID() api.TypeID { return typeid.Of(reflect.TypeOf(Unit{})) }

var _ api.Node = (*Unit)(nil)
