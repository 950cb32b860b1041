// Package demogrammar implements the worked example carried through
// spec.md §8's concrete scenarios: a tree, `Leaf(i32) | Node(Vec<Self>)`.
// It exists to exercise every layer (derive.Sum, builtin.Slice, cmplog,
// splice, minimize) against a grammar small enough to reason about by hand,
// the same role tree.rs's doctest grammar plays in the reference
// implementation.
package demogrammar

import (
	"reflect"

	"github.com/gramfuzz/engine/api"
	"github.com/gramfuzz/engine/internal/builtin"
	"github.com/gramfuzz/engine/internal/derive"
	"github.com/gramfuzz/engine/internal/typeid"
)

// TreeCarrier is the tagged-union carrier for Tree: exactly one of Leaf or
// Node is populated, selected by the enclosing derive.Sum's Tag.
type TreeCarrier struct {
	Leaf *builtin.Int32
	Node *builtin.Slice[*Tree]
}

// Tree is the grammar type itself: `Leaf(i32) | Node(Vec<Tree>)`. Node's
// payload recurses through Slice's own heap indirection rather than an
// explicit Box, so Node (not Leaf) is the recursive variant.
type Tree = derive.Sum[TreeCarrier]

// treeTypeID is Tree's own TypeID: derive.Sum[T].TypeID() resolves to
// typeid.Of the carrier struct's reflect.Type, so this is exactly what a
// live *Tree reports, computed up front for use as a Slice element type.
var treeTypeID = typeid.Of(reflect.TypeOf(TreeCarrier{}))

func leafGen(v api.Visitor, remaining, curDepth *int) api.Node {
	n := builtin.NewInt32(v)
	return &n
}

func nodeGen(v api.Visitor, remaining, curDepth *int) api.Node {
	return builtin.NewSliceGenerator[*Tree](treeTypeID, treeGen).Generate(v, remaining, curDepth)
}

// treeGen is the elementGen[*Tree] every Slice[*Tree] in this grammar uses
// to produce its elements; it is also the Tree grammar's own entry point.
func treeGen(v api.Visitor, remaining, curDepth *int) *Tree {
	return NewTreeGenerator().Generate(v, remaining, curDepth).(*Tree)
}

// NewTreeGenerator returns the api.Generator producing fresh *Tree values.
// Leaf is the grammar's required non-recursive variant; Node is recursive.
func NewTreeGenerator() api.Generator {
	return derive.NewSumGenerator[TreeCarrier](
		derive.VariantSpec{
			Name:        "Leaf",
			IsRecursive: false,
			TypeID:      typeid.Of(reflect.TypeOf(int32(0))),
			Gen:         leafGen,
		},
		derive.VariantSpec{
			Name:        "Node",
			IsRecursive: true,
			TypeID:      typeid.Named("Slice", treeTypeID),
			Gen:         nodeGen,
		},
	)
}
