// Package mutate implements the three structural mutators of spec.md §4.G,
// grounded on internal/writeback/splice.go's stage-then-commit discipline:
// each mutator decides a full MutationResult before ever calling the
// target's Mutate method, so a skipped mutation never leaves the value
// half-touched.
package mutate

import (
	"github.com/gramfuzz/engine/api"
	"github.com/gramfuzz/engine/internal/chunkstore"
	"github.com/gramfuzz/engine/internal/codec"
	"github.com/gramfuzz/engine/internal/visitor"
)

// Outcome reports whether a mutator actually changed its target.
type Outcome int

const (
	// Skipped means the mutator found nothing eligible to mutate (empty
	// chunk set, iterable too short, etc.) — a no-op, never an error
	// (spec.md §7, taxonomy item 5).
	Skipped Outcome = iota
	Applied
)

// MutationResult is the uniform return shape of every Mutator.
type MutationResult struct {
	Outcome Outcome
}

// Mutator is satisfied by every mutator in this package so a caller (the
// session's mutation stage) can run them uniformly.
type Mutator interface {
	Mutate(input api.Node) (MutationResult, error)
}

// randomTrace walks input's Fields traversal and returns one trace chosen
// uniformly at random, or ok=false if input has no addressable fields.
func randomTrace(v *visitor.Visitor, input api.Node) (api.FieldTrace, bool) {
	input.Fields(v, 0)
	traces := v.Fields()
	if len(traces) == 0 {
		return nil, false
	}
	idx := v.RandomRange(0, len(traces)-1)
	return traces[idx], true
}

func subsliceBounds(v *visitor.Visitor, length int) (start, end int) {
	start = v.RandomRange(0, length-1)
	end = start + 5
	if end > length {
		end = length
	}
	return start, end
}

// GenerateReplaceMutator picks a random field trace and regenerates it,
// biasing the recursive-expansion budget with 50% probability.
type GenerateReplaceMutator struct {
	V *visitor.Visitor
}

func (m *GenerateReplaceMutator) Mutate(input api.Node) (MutationResult, error) {
	trace, ok := randomTrace(m.V, input)
	if !ok {
		return MutationResult{Outcome: Skipped}, nil
	}
	leaf, _ := trace.Leaf()
	path := trace.IndexPath()

	bias := 0
	if m.V.CoinFlip() {
		bias = m.V.GenerateDepth()
	}

	if leaf.Kind == api.KindIterable {
		length := leaf.Len + 1
		if length < 3 {
			return MutationResult{Outcome: Skipped}, nil
		}
		start, end := subsliceBounds(m.V, length)
		for i := start; i < end; i++ {
			childPath := append(append(api.Path{}, path...), i)
			input.Mutate(api.GenerateReplace{Bias: bias}, m.V, childPath)
		}
		return MutationResult{Outcome: Applied}, nil
	}

	input.Mutate(api.GenerateReplace{Bias: bias}, m.V, path)
	return MutationResult{Outcome: Applied}, nil
}

// SpliceMutator picks a random field trace and replaces it by decoding
// bytes drawn from the chunk store: a subslice or whole-sequence form for
// iterable leaves, a single chunk otherwise.
type SpliceMutator struct {
	V     *visitor.Visitor
	Store *chunkstore.Store
}

func (m *SpliceMutator) randomChunk(typeID api.TypeID) ([]byte, bool) {
	paths := m.Store.GetInputsForType(typeID)
	if len(paths) == 0 {
		return nil, false
	}
	p := paths[m.V.RandomRange(0, len(paths)-1)]
	return m.Store.Read(p), true
}

func (m *SpliceMutator) Mutate(input api.Node) (MutationResult, error) {
	trace, ok := randomTrace(m.V, input)
	if !ok {
		return MutationResult{Outcome: Skipped}, nil
	}
	leaf, _ := trace.Leaf()
	path := trace.IndexPath()

	if leaf.Kind == api.KindIterable {
		length := leaf.Len + 1
		// Subslice form requires probability 0.9 is only meaningful once
		// depth > 0 has already been established by the traversal itself
		// (spec.md §9); gated here on iterability, not a separate depth
		// check.
		if length >= 3 && m.V.CoinFlipWithProb(0.9) {
			if len(m.Store.GetInputsForType(leaf.InnerTypeID)) > 0 {
				start, end := subsliceBounds(m.V, length)
				applied := false
				for i := start; i < end; i++ {
					data, found := m.randomChunk(leaf.InnerTypeID)
					if !found {
						break
					}
					childPath := append(append(api.Path{}, path...), i)
					input.Mutate(api.Splice{Bytes: data}, m.V, childPath)
					applied = true
				}
				if applied {
					return MutationResult{Outcome: Applied}, nil
				}
			}
			return MutationResult{Outcome: Skipped}, nil
		}
		// Whole-sequence form.
		first, found := m.randomChunk(leaf.InnerTypeID)
		if !found {
			return MutationResult{Outcome: Skipped}, nil
		}
		bodies := [][]byte{first}
		for i := 1; i < length; i++ {
			data, found := m.randomChunk(leaf.InnerTypeID)
			if !found {
				break
			}
			bodies = append(bodies, data)
		}
		payload := codec.EncodeSequenceLength(len(bodies))
		for _, b := range bodies {
			payload = append(payload, b...)
		}
		input.Mutate(api.Splice{Bytes: payload}, m.V, path)
		return MutationResult{Outcome: Applied}, nil
	}

	data, found := m.randomChunk(leaf.TypeID)
	if !found {
		return MutationResult{Outcome: Skipped}, nil
	}
	input.Mutate(api.Splice{Bytes: data}, m.V, path)
	return MutationResult{Outcome: Applied}, nil
}

// SpliceAppendMutator picks a random node trace and, if it is iterable with
// length <= 200 and chunks exist under its inner type, appends one chunk.
type SpliceAppendMutator struct {
	V     *visitor.Visitor
	Store *chunkstore.Store
}

func (m *SpliceAppendMutator) Mutate(input api.Node) (MutationResult, error) {
	trace, ok := randomTrace(m.V, input)
	if !ok {
		return MutationResult{Outcome: Skipped}, nil
	}
	leaf, _ := trace.Leaf()
	if leaf.Kind != api.KindIterable {
		return MutationResult{Outcome: Skipped}, nil
	}
	length := leaf.Len + 1
	if length > 200 {
		return MutationResult{Outcome: Skipped}, nil
	}
	paths := m.Store.GetInputsForType(leaf.InnerTypeID)
	if len(paths) == 0 {
		return MutationResult{Outcome: Skipped}, nil
	}
	data := m.Store.Read(paths[m.V.RandomRange(0, len(paths)-1)])
	input.Mutate(api.SpliceAppend{Bytes: data}, m.V, trace.IndexPath())
	return MutationResult{Outcome: Applied}, nil
}

var (
	_ Mutator = (*GenerateReplaceMutator)(nil)
	_ Mutator = (*SpliceMutator)(nil)
	_ Mutator = (*SpliceAppendMutator)(nil)
)
