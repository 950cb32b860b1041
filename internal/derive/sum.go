package derive

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/gramfuzz/engine/api"
	"github.com/gramfuzz/engine/internal/codec"
	"github.com/gramfuzz/engine/internal/typeid"
)

// VariantSpec describes one arm of a derived sum (enum): the Go field name
// on the carrier struct holding that arm's payload, whether choosing this
// variant counts as a recursive step (a `Box<Self>`-shaped arm in the
// reference), and the generator producing a fresh payload.
type VariantSpec struct {
	Name        string
	IsRecursive bool
	TypeID      api.TypeID
	Gen         func(v api.Visitor, remaining, curDepth *int) api.Node
}

type sumSpec struct {
	rtype         reflect.Type
	variants      []VariantSpec
	fieldIndex    []int
	recursiveIdx  []int
	nonRecurseIdx []int
}

var sumRegistry sync.Map // reflect.Type -> *sumSpec

func buildSumSpec(rtype reflect.Type, variants []VariantSpec) *sumSpec {
	spec := &sumSpec{rtype: rtype, variants: variants, fieldIndex: make([]int, len(variants))}
	for i, variant := range variants {
		sf, ok := rtype.FieldByName(variant.Name)
		if !ok {
			panic(fmt.Sprintf("invariant: derive.Sum: %s has no field %q", rtype, variant.Name))
		}
		spec.fieldIndex[i] = sf.Index[0]
		if variant.IsRecursive {
			spec.recursiveIdx = append(spec.recursiveIdx, i)
		} else {
			spec.nonRecurseIdx = append(spec.nonRecurseIdx, i)
		}
	}
	if len(spec.nonRecurseIdx) == 0 {
		panic(fmt.Sprintf("invariant: derive.Sum: %s has no non-recursive variants. This is a huge problem!", rtype))
	}
	return spec
}

// Sum is the api.Node wrapper around a tagged-union carrier struct: exactly
// one of its fields is populated per instance, selected by Tag. Grounded on
// thesis_derive's Data::Enum code path, which emits per-variant Fields/Cmps/
// Mutate/Serialized arms keyed by the variant's own fixed index.
type Sum[T any] struct {
	Value T
	Tag   int
	spec  *sumSpec
}

type sumGenerator[T any] struct {
	spec *sumSpec
}

// NewSumGenerator registers T's variant shape (once; cached across calls for
// the same T) and returns the api.Generator that produces fresh *Sum[T]
// values. Panics at registration time if no variant is marked non-recursive,
// matching the reference derive macro's own registration-time panic.
func NewSumGenerator[T any](variants ...VariantSpec) api.Generator {
	rtype := reflect.TypeOf((*T)(nil)).Elem()
	spec, _ := sumRegistry.LoadOrStore(rtype, buildSumSpec(rtype, variants))
	return &sumGenerator[T]{spec: spec.(*sumSpec)}
}

func (g *sumGenerator[T]) Generate(v api.Visitor, remaining, curDepth *int) api.Node {
	spec := g.spec
	chooseRecursive := *remaining > 0 && *curDepth < api.MaxGenerationDepth && len(spec.recursiveIdx) > 0 && v.CoinFlip()

	var tag int
	if chooseRecursive {
		*remaining--
		tag = spec.recursiveIdx[v.RandomRange(0, len(spec.recursiveIdx)-1)]
	} else {
		tag = spec.nonRecurseIdx[v.RandomRange(0, len(spec.nonRecurseIdx)-1)]
	}

	*curDepth++
	s := &Sum[T]{spec: spec, Tag: tag}
	payload := spec.variants[tag].Gen(v, remaining, curDepth)
	rv := reflect.ValueOf(&s.Value).Elem()
	rv.Field(spec.fieldIndex[tag]).Set(reflect.ValueOf(payload))
	return s
}

func (s *Sum[T]) payload() api.Node {
	rv := reflect.ValueOf(&s.Value).Elem()
	return rv.Field(s.spec.fieldIndex[s.Tag]).Interface().(api.Node)
}

func (s *Sum[T]) setPayload(n api.Node) {
	rv := reflect.ValueOf(&s.Value).Elem()
	rv.Field(s.spec.fieldIndex[s.Tag]).Set(reflect.ValueOf(n))
}

// variantFrame is the descriptor for the variant-selection frame itself,
// pushed (without a snapshot) ahead of the variant's own field(s). Its kind
// is always NonRecursive regardless of the variant's actual recursiveness:
// the reference derive macro hardcodes this, since recursiveness is queried
// separately via is_recursive() rather than carried on this frame.
func (s *Sum[T]) variantFrame() api.NodeDescriptor {
	return api.NodeDescriptor{Index: s.Tag, Kind: api.KindNonRecursive, TypeID: typeid.Of(s.spec.rtype)}
}

func (s *Sum[T]) Fields(v api.Visitor, _ int) {
	payload := s.payload()
	v.RegisterFieldStack(s.variantFrame())
	v.RegisterField(fieldDescriptor(0, payload))
	payload.Fields(v, 0)
	v.PopField()
	v.PopField()
}

func (s *Sum[T]) Cmps(v api.Visitor, _ int, cmp api.CmpOperand) {
	payload := s.payload()
	v.RegisterFieldStack(s.variantFrame())
	v.RegisterField(fieldDescriptor(0, payload))
	payload.Cmps(v, 0, cmp)
	v.PopField()
	v.PopField()
}

func (s *Sum[T]) Serialized() []api.SerializedChunk {
	payload := s.payload()
	variant := s.spec.variants[s.Tag]
	var out []api.SerializedChunk
	if payload.Len() == 0 && !isIterableShaped(payload) {
		out = append(out, api.SerializedChunk{Bytes: codec.Encode(payload), TypeID: variant.TypeID})
	}
	return append(out, payload.Serialized()...)
}

func (s *Sum[T]) Mutate(op api.MutationOp, v api.Visitor, path api.Path) {
	if len(path) != 0 {
		if path[0] != s.Tag {
			panic("invariant: mutate path addresses a variant other than the one currently active")
		}
		if len(path) < 2 || path[1] != 0 {
			panic("invariant: mutate path addresses a field other than the variant's own payload")
		}
		s.payload().Mutate(op, v, path[2:])
		return
	}
	switch m := op.(type) {
	case api.Splice:
		decoded := codec.Decode[Sum[T]](m.Bytes)
		s.Tag, s.Value = decoded.Tag, decoded.Value
	case api.GenerateReplace:
		bias, fresh := m.Bias, 0
		replaced := (&sumGenerator[T]{spec: s.spec}).Generate(v, &bias, &fresh).(*Sum[T])
		s.Tag, s.Value = replaced.Tag, replaced.Value
	case api.RecursiveReplace:
		bias, fresh := 0, 0
		replaced := (&sumGenerator[T]{spec: s.spec}).Generate(v, &bias, &fresh).(*Sum[T])
		s.Tag, s.Value = replaced.Tag, replaced.Value
	default:
		panic("invariant: Sum cannot satisfy this mutation op")
	}
}

func (s *Sum[T]) Len() int          { return 0 }
func (s *Sum[T]) IsRecursive() bool { return len(s.spec.recursiveIdx) > 0 && contains(s.spec.recursiveIdx, s.Tag) }
func (s *Sum[T]) TypeID() api.TypeID {
	return typeid.Of(s.spec.rtype)
}

func contains(xs []int, v int) bool {
	for _, x := range xs {
		if x == v {
			return true
		}
	}
	return false
}
