// Package derive is the reflect-driven stand-in for the reference
// implementation's proc-macro derive (thesis_derive): Go has no macros, so
// where the Rust side generates a Node impl from a struct/enum definition
// at compile time, this package builds the same Fields/Cmps/Serialized/
// Mutate/Generate behavior from a typed field/variant description supplied
// once at registration, then driven by reflection at every call. Grounded
// on thesis_derive/src/lib.rs's Data::Struct and Data::Enum code paths, and
// on the field-lookup-by-name idiom hashicorp/hcl's gohcl package uses to
// decode into arbitrary Go structs via struct tags.
package derive

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/gramfuzz/engine/api"
	"github.com/gramfuzz/engine/internal/codec"
	"github.com/gramfuzz/engine/internal/typeid"
)

// FieldSpec describes one field of a derived product (struct): the Go
// field name to locate via reflection, that field's grammar TypeID, and
// the generator producing fresh values for it. A field whose reference
// counterpart carried a `#[literal(...)]` attribute is expressed here by
// supplying a Gen that samples from a fixed literal set directly, rather
// than by a separate tag-parsing path: Go's static typing already forces
// every field to declare its generator explicitly, so the literal-field
// feature falls out of that requirement for free.
type FieldSpec struct {
	Name   string
	TypeID api.TypeID
	Gen    func(v api.Visitor, remaining, curDepth *int) api.Node
}

type productSpec struct {
	rtype      reflect.Type
	fields     []FieldSpec
	fieldIndex []int // Go struct field index per FieldSpec, by position
}

var productRegistry sync.Map // reflect.Type -> *productSpec

func buildProductSpec(rtype reflect.Type, fields []FieldSpec) *productSpec {
	spec := &productSpec{rtype: rtype, fields: fields, fieldIndex: make([]int, len(fields))}
	for i, f := range fields {
		sf, ok := rtype.FieldByName(f.Name)
		if !ok {
			panic(fmt.Sprintf("invariant: derive.Product: %s has no field %q", rtype, f.Name))
		}
		if len(sf.Index) != 1 {
			panic(fmt.Sprintf("invariant: derive.Product: %s.%s must not be embedded/nested", rtype, f.Name))
		}
		spec.fieldIndex[i] = sf.Index[0]
	}
	return spec
}

// Product is the api.Node wrapper around a plain Go struct of exported,
// api.Node-valued fields, grounded on thesis_derive's Data::Struct path.
type Product[T any] struct {
	Value T
	spec  *productSpec
}

type productGenerator[T any] struct {
	spec *productSpec
}

// NewProductGenerator registers T's field shape (once; registrations for
// the same T are cached) and returns the api.Generator that produces fresh
// *Product[T] values.
func NewProductGenerator[T any](fields ...FieldSpec) api.Generator {
	rtype := reflect.TypeOf((*T)(nil)).Elem()
	spec, _ := productRegistry.LoadOrStore(rtype, buildProductSpec(rtype, fields))
	return &productGenerator[T]{spec: spec.(*productSpec)}
}

func (g *productGenerator[T]) Generate(v api.Visitor, remaining, curDepth *int) api.Node {
	*curDepth++
	p := &Product[T]{spec: g.spec}
	rv := reflect.ValueOf(&p.Value).Elem()
	for i, f := range g.spec.fields {
		child := f.Gen(v, remaining, curDepth)
		rv.Field(g.spec.fieldIndex[i]).Set(reflect.ValueOf(child))
	}
	return p
}

func (p *Product[T]) field(i int) api.Node {
	rv := reflect.ValueOf(&p.Value).Elem()
	return rv.Field(p.spec.fieldIndex[i]).Interface().(api.Node)
}

func fieldDescriptor(id int, child api.Node) api.NodeDescriptor {
	switch {
	case child.Len() > 0:
		inner := api.TypeID("")
		if it, ok := child.(interface{ ElementTypeID() api.TypeID }); ok {
			inner = it.ElementTypeID()
		}
		return api.NodeDescriptor{Index: id, Kind: api.KindIterable, TypeID: child.TypeID(), Len: child.Len() - 1, InnerTypeID: inner}
	case child.IsRecursive():
		return api.NodeDescriptor{Index: id, Kind: api.KindRecursive, TypeID: child.TypeID()}
	default:
		return api.NodeDescriptor{Index: id, Kind: api.KindNonRecursive, TypeID: child.TypeID()}
	}
}

// isIterableShaped reports whether n is backed by a container (Slice,
// Array) that carries its own wrapper struct around a bare element
// sequence. Such a child must never get a whole-self gob chunk registered
// just because it is currently empty: the wrapper struct's gob encoding
// and the splice mutator's length-prefixed bare-sequence encoding are two
// different wire shapes, and only the latter is what Slice/Array.Mutate's
// Splice case knows how to read back.
func isIterableShaped(n api.Node) bool {
	_, ok := n.(interface{ ElementTypeID() api.TypeID })
	return ok
}

func (p *Product[T]) Fields(v api.Visitor, _ int) {
	for i := range p.spec.fields {
		child := p.field(i)
		v.RegisterField(fieldDescriptor(i, child))
		child.Fields(v, i)
		v.PopField()
	}
}

func (p *Product[T]) Cmps(v api.Visitor, _ int, cmp api.CmpOperand) {
	for i := range p.spec.fields {
		child := p.field(i)
		v.RegisterField(fieldDescriptor(i, child))
		child.Cmps(v, i, cmp)
		v.PopField()
	}
}

func (p *Product[T]) Serialized() []api.SerializedChunk {
	var out []api.SerializedChunk
	for i, f := range p.spec.fields {
		child := p.field(i)
		if child.Len() == 0 && !isIterableShaped(child) {
			out = append(out, api.SerializedChunk{Bytes: codec.Encode(child), TypeID: f.TypeID})
		}
	}
	for i := range p.spec.fields {
		out = append(out, p.field(i).Serialized()...)
	}
	return out
}

func (p *Product[T]) Mutate(op api.MutationOp, v api.Visitor, path api.Path) {
	if len(path) != 0 {
		idx := path[0]
		if idx < 0 || idx >= len(p.spec.fields) {
			panic("invariant: product field index out of range")
		}
		p.field(idx).Mutate(op, v, path[1:])
		return
	}
	switch m := op.(type) {
	case api.Splice:
		decoded := codec.Decode[Product[T]](m.Bytes)
		p.Value = decoded.Value
	case api.GenerateReplace:
		remaining, fresh := m.Bias, 0
		replaced := (&productGenerator[T]{spec: p.spec}).Generate(v, &remaining, &fresh).(*Product[T])
		p.Value = replaced.Value
	default:
		panic("invariant: product cannot satisfy this mutation op")
	}
}

func (p *Product[T]) Len() int          { return 0 }
func (p *Product[T]) IsRecursive() bool { return false }
func (p *Product[T]) TypeID() api.TypeID {
	return typeid.Of(p.spec.rtype)
}
