// Package builtin implements api.Node and api.Generator for the grammar
// primitives every derived type is built from: numbers, strings, sequences,
// optionals, sums, tuples, fixed arrays, and the transparent box. Each file
// is grounded on the corresponding built-in impl in the reference tree
// walker (see SPEC_FULL.md §4.B for the per-file mapping).
package builtin

import (
	"math"
	"reflect"

	"github.com/gramfuzz/engine/api"
	"github.com/gramfuzz/engine/internal/codec"
	"github.com/gramfuzz/engine/internal/typeid"
)

// signedWidth and unsignedWidth group the integer widths wider than one
// byte: Cmps matching applies to them, but not to the one-byte widths,
// where a comparison operand carries no usable signal (spec §4.A).
type signedWidth interface{ ~int16 | ~int32 | ~int64 }

type unsignedWidth interface{ ~uint16 | ~uint32 | ~uint64 }

func cmpMatchSigned[T signedWidth](v api.Visitor, self T, cmp api.CmpOperand) {
	if cmp.LHS == uint64(int64(self)) {
		v.RegisterCmp(codec.Encode(T(cmp.RHS)))
	}
}

func cmpMatchUnsigned[T unsignedWidth](v api.Visitor, self T, cmp api.CmpOperand) {
	if cmp.LHS == uint64(self) {
		v.RegisterCmp(codec.Encode(T(cmp.RHS)))
	}
}

// saturateToUint64 mirrors Rust's `as u64` cast off a float: saturating at
// the domain bounds and flushing NaN to zero, rather than C-style undefined
// behavior on out-of-range truncation.
func saturateToUint64(f float64) uint64 {
	switch {
	case math.IsNaN(f), f <= 0:
		return 0
	case f >= math.MaxUint64:
		return math.MaxUint64
	default:
		return uint64(f)
	}
}

func mutateLeaf(op api.MutationOp, v api.Visitor, path api.Path, splice func([]byte), generate func()) {
	if len(path) != 0 {
		panic("invariant: leaf node received a non-empty mutate path")
	}
	switch m := op.(type) {
	case api.Splice:
		splice(m.Bytes)
	case api.GenerateReplace:
		generate()
	default:
		panic("invariant: leaf node cannot satisfy this mutation op")
	}
}

// Int8 is a one-byte signed integer leaf. Its Cmps is a no-op: a one-byte
// comparison operand carries no signal worth tracking (spec §4.A).
type Int8 int8

func NewInt8(v api.Visitor) Int8 { return Int8(codec.Decode[int8](v.GenerateBytes(1))) }

func (n *Int8) Fields(api.Visitor, int)                      {}
func (n *Int8) Cmps(api.Visitor, int, api.CmpOperand)         {}
func (n *Int8) Serialized() []api.SerializedChunk {
	return []api.SerializedChunk{{Bytes: codec.Encode(int8(*n)), TypeID: n.TypeID()}}
}
func (n *Int8) Mutate(op api.MutationOp, v api.Visitor, path api.Path) {
	mutateLeaf(op, v, path,
		func(b []byte) { *n = Int8(codec.Decode[int8](b)) },
		func() { *n = NewInt8(v) })
}
func (n *Int8) Len() int           { return 0 }
func (n *Int8) IsRecursive() bool  { return false }
func (n *Int8) TypeID() api.TypeID { return typeid.Of(reflect.TypeOf(int8(0))) }

// Int16 is a two-byte signed integer leaf.
type Int16 int16

func NewInt16(v api.Visitor) Int16 { return Int16(codec.Decode[int16](v.GenerateBytes(2))) }

func (n *Int16) Fields(api.Visitor, int) {}
func (n *Int16) Cmps(v api.Visitor, index int, cmp api.CmpOperand) {
	cmpMatchSigned(v, int16(*n), cmp)
}
func (n *Int16) Serialized() []api.SerializedChunk {
	return []api.SerializedChunk{{Bytes: codec.Encode(int16(*n)), TypeID: n.TypeID()}}
}
func (n *Int16) Mutate(op api.MutationOp, v api.Visitor, path api.Path) {
	mutateLeaf(op, v, path,
		func(b []byte) { *n = Int16(codec.Decode[int16](b)) },
		func() { *n = NewInt16(v) })
}
func (n *Int16) Len() int           { return 0 }
func (n *Int16) IsRecursive() bool  { return false }
func (n *Int16) TypeID() api.TypeID { return typeid.Of(reflect.TypeOf(int16(0))) }

// Int32 is a four-byte signed integer leaf.
type Int32 int32

func NewInt32(v api.Visitor) Int32 { return Int32(codec.Decode[int32](v.GenerateBytes(4))) }

func (n *Int32) Fields(api.Visitor, int) {}
func (n *Int32) Cmps(v api.Visitor, index int, cmp api.CmpOperand) {
	cmpMatchSigned(v, int32(*n), cmp)
}
func (n *Int32) Serialized() []api.SerializedChunk {
	return []api.SerializedChunk{{Bytes: codec.Encode(int32(*n)), TypeID: n.TypeID()}}
}
func (n *Int32) Mutate(op api.MutationOp, v api.Visitor, path api.Path) {
	mutateLeaf(op, v, path,
		func(b []byte) { *n = Int32(codec.Decode[int32](b)) },
		func() { *n = NewInt32(v) })
}
func (n *Int32) Len() int           { return 0 }
func (n *Int32) IsRecursive() bool  { return false }
func (n *Int32) TypeID() api.TypeID { return typeid.Of(reflect.TypeOf(int32(0))) }

// Int64 is an eight-byte signed integer leaf.
type Int64 int64

func NewInt64(v api.Visitor) Int64 { return Int64(codec.Decode[int64](v.GenerateBytes(8))) }

func (n *Int64) Fields(api.Visitor, int) {}
func (n *Int64) Cmps(v api.Visitor, index int, cmp api.CmpOperand) {
	cmpMatchSigned(v, int64(*n), cmp)
}
func (n *Int64) Serialized() []api.SerializedChunk {
	return []api.SerializedChunk{{Bytes: codec.Encode(int64(*n)), TypeID: n.TypeID()}}
}
func (n *Int64) Mutate(op api.MutationOp, v api.Visitor, path api.Path) {
	mutateLeaf(op, v, path,
		func(b []byte) { *n = Int64(codec.Decode[int64](b)) },
		func() { *n = NewInt64(v) })
}
func (n *Int64) Len() int           { return 0 }
func (n *Int64) IsRecursive() bool  { return false }
func (n *Int64) TypeID() api.TypeID { return typeid.Of(reflect.TypeOf(int64(0))) }

// Uint8 is a one-byte unsigned integer leaf. Cmps is a no-op, matching Int8.
type Uint8 uint8

func NewUint8(v api.Visitor) Uint8 { return Uint8(codec.Decode[uint8](v.GenerateBytes(1))) }

func (n *Uint8) Fields(api.Visitor, int)              {}
func (n *Uint8) Cmps(api.Visitor, int, api.CmpOperand) {}
func (n *Uint8) Serialized() []api.SerializedChunk {
	return []api.SerializedChunk{{Bytes: codec.Encode(uint8(*n)), TypeID: n.TypeID()}}
}
func (n *Uint8) Mutate(op api.MutationOp, v api.Visitor, path api.Path) {
	mutateLeaf(op, v, path,
		func(b []byte) { *n = Uint8(codec.Decode[uint8](b)) },
		func() { *n = NewUint8(v) })
}
func (n *Uint8) Len() int           { return 0 }
func (n *Uint8) IsRecursive() bool  { return false }
func (n *Uint8) TypeID() api.TypeID { return typeid.Of(reflect.TypeOf(uint8(0))) }

// Uint16 is a two-byte unsigned integer leaf.
type Uint16 uint16

func NewUint16(v api.Visitor) Uint16 { return Uint16(codec.Decode[uint16](v.GenerateBytes(2))) }

func (n *Uint16) Fields(api.Visitor, int) {}
func (n *Uint16) Cmps(v api.Visitor, index int, cmp api.CmpOperand) {
	cmpMatchUnsigned(v, uint16(*n), cmp)
}
func (n *Uint16) Serialized() []api.SerializedChunk {
	return []api.SerializedChunk{{Bytes: codec.Encode(uint16(*n)), TypeID: n.TypeID()}}
}
func (n *Uint16) Mutate(op api.MutationOp, v api.Visitor, path api.Path) {
	mutateLeaf(op, v, path,
		func(b []byte) { *n = Uint16(codec.Decode[uint16](b)) },
		func() { *n = NewUint16(v) })
}
func (n *Uint16) Len() int           { return 0 }
func (n *Uint16) IsRecursive() bool  { return false }
func (n *Uint16) TypeID() api.TypeID { return typeid.Of(reflect.TypeOf(uint16(0))) }

// Uint32 is a four-byte unsigned integer leaf.
type Uint32 uint32

func NewUint32(v api.Visitor) Uint32 { return Uint32(codec.Decode[uint32](v.GenerateBytes(4))) }

func (n *Uint32) Fields(api.Visitor, int) {}
func (n *Uint32) Cmps(v api.Visitor, index int, cmp api.CmpOperand) {
	cmpMatchUnsigned(v, uint32(*n), cmp)
}
func (n *Uint32) Serialized() []api.SerializedChunk {
	return []api.SerializedChunk{{Bytes: codec.Encode(uint32(*n)), TypeID: n.TypeID()}}
}
func (n *Uint32) Mutate(op api.MutationOp, v api.Visitor, path api.Path) {
	mutateLeaf(op, v, path,
		func(b []byte) { *n = Uint32(codec.Decode[uint32](b)) },
		func() { *n = NewUint32(v) })
}
func (n *Uint32) Len() int           { return 0 }
func (n *Uint32) IsRecursive() bool  { return false }
func (n *Uint32) TypeID() api.TypeID { return typeid.Of(reflect.TypeOf(uint32(0))) }

// Uint64 is an eight-byte unsigned integer leaf.
type Uint64 uint64

func NewUint64(v api.Visitor) Uint64 { return Uint64(codec.Decode[uint64](v.GenerateBytes(8))) }

func (n *Uint64) Fields(api.Visitor, int) {}
func (n *Uint64) Cmps(v api.Visitor, index int, cmp api.CmpOperand) {
	cmpMatchUnsigned(v, uint64(*n), cmp)
}
func (n *Uint64) Serialized() []api.SerializedChunk {
	return []api.SerializedChunk{{Bytes: codec.Encode(uint64(*n)), TypeID: n.TypeID()}}
}
func (n *Uint64) Mutate(op api.MutationOp, v api.Visitor, path api.Path) {
	mutateLeaf(op, v, path,
		func(b []byte) { *n = Uint64(codec.Decode[uint64](b)) },
		func() { *n = NewUint64(v) })
}
func (n *Uint64) Len() int           { return 0 }
func (n *Uint64) IsRecursive() bool  { return false }
func (n *Uint64) TypeID() api.TypeID { return typeid.Of(reflect.TypeOf(uint64(0))) }

// Float32 is an IEEE-754 single precision leaf.
type Float32 float32

func NewFloat32(v api.Visitor) Float32 { return Float32(codec.Decode[float32](v.GenerateBytes(4))) }

func (n *Float32) Fields(api.Visitor, int) {}
func (n *Float32) Cmps(v api.Visitor, index int, cmp api.CmpOperand) {
	if cmp.LHS == saturateToUint64(float64(*n)) {
		v.RegisterCmp(codec.Encode(float32(cmp.RHS)))
	}
}
func (n *Float32) Serialized() []api.SerializedChunk {
	return []api.SerializedChunk{{Bytes: codec.Encode(float32(*n)), TypeID: n.TypeID()}}
}
func (n *Float32) Mutate(op api.MutationOp, v api.Visitor, path api.Path) {
	mutateLeaf(op, v, path,
		func(b []byte) { *n = Float32(codec.Decode[float32](b)) },
		func() { *n = NewFloat32(v) })
}
func (n *Float32) Len() int           { return 0 }
func (n *Float32) IsRecursive() bool  { return false }
func (n *Float32) TypeID() api.TypeID { return typeid.Of(reflect.TypeOf(float32(0))) }

// Float64 is an IEEE-754 double precision leaf.
type Float64 float64

func NewFloat64(v api.Visitor) Float64 { return Float64(codec.Decode[float64](v.GenerateBytes(8))) }

func (n *Float64) Fields(api.Visitor, int) {}
func (n *Float64) Cmps(v api.Visitor, index int, cmp api.CmpOperand) {
	if cmp.LHS == saturateToUint64(float64(*n)) {
		v.RegisterCmp(codec.Encode(float64(cmp.RHS)))
	}
}
func (n *Float64) Serialized() []api.SerializedChunk {
	return []api.SerializedChunk{{Bytes: codec.Encode(float64(*n)), TypeID: n.TypeID()}}
}
func (n *Float64) Mutate(op api.MutationOp, v api.Visitor, path api.Path) {
	mutateLeaf(op, v, path,
		func(b []byte) { *n = Float64(codec.Decode[float64](b)) },
		func() { *n = NewFloat64(v) })
}
func (n *Float64) Len() int           { return 0 }
func (n *Float64) IsRecursive() bool  { return false }
func (n *Float64) TypeID() api.TypeID { return typeid.Of(reflect.TypeOf(float64(0))) }

// Bool is a coin-flip leaf.
type Bool bool

func NewBool(v api.Visitor) Bool { return Bool(v.CoinFlip()) }

func (n *Bool) Fields(api.Visitor, int)              {}
func (n *Bool) Cmps(api.Visitor, int, api.CmpOperand) {}
func (n *Bool) Serialized() []api.SerializedChunk {
	return []api.SerializedChunk{{Bytes: codec.Encode(bool(*n)), TypeID: n.TypeID()}}
}
func (n *Bool) Mutate(op api.MutationOp, v api.Visitor, path api.Path) {
	mutateLeaf(op, v, path,
		func(b []byte) { *n = Bool(codec.Decode[bool](b)) },
		func() { *n = NewBool(v) })
}
func (n *Bool) Len() int           { return 0 }
func (n *Bool) IsRecursive() bool  { return false }
func (n *Bool) TypeID() api.TypeID { return typeid.Of(reflect.TypeOf(false)) }

var (
	_ api.Node = (*Int8)(nil)
	_ api.Node = (*Int16)(nil)
	_ api.Node = (*Int32)(nil)
	_ api.Node = (*Int64)(nil)
	_ api.Node = (*Uint8)(nil)
	_ api.Node = (*Uint16)(nil)
	_ api.Node = (*Uint32)(nil)
	_ api.Node = (*Uint64)(nil)
	_ api.Node = (*Float32)(nil)
	_ api.Node = (*Float64)(nil)
	_ api.Node = (*Bool)(nil)
)
