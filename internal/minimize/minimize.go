// Package minimize implements the two shrinking passes of spec.md §4.H,
// grounded on internal/lattice/greedy.go and closure.go's "keep iterating
// while something changed" fixpoint shape. Unlike the reference
// implementation (which reaches into driver-owned metadata), both
// minimizers here are pure: they take their baseline explicitly and return
// the shrunken value, never touching global state.
package minimize

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"reflect"

	"github.com/RoaringBitmap/roaring"

	"github.com/gramfuzz/engine/api"
	"github.com/gramfuzz/engine/internal/codec"
	"github.com/gramfuzz/engine/internal/visitor"
)

// Executor is the minimal surface minimization needs from the caller's
// executor: run a value and report the coverage-index set it produced.
type Executor interface {
	Run(v api.Node) *roaring.Bitmap
}

// cloneNode deep-copies value through the codec, so a candidate mutation
// can be tried and discarded without disturbing the live value. Mutate is
// always in place, so a rejected trial must run against its own copy.
func cloneNode(value api.Node) api.Node {
	data := codec.Encode(value)
	rt := reflect.TypeOf(value)
	ptr := reflect.New(rt.Elem())
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(ptr.Interface()); err != nil {
		panic(fmt.Sprintf("invariant: minimize: cloning %s: %v", rt, err))
	}
	return ptr.Interface().(api.Node)
}

// IterableMinimizer shrinks every iterable leaf by popping elements whose
// removal leaves the coverage-index set unchanged.
type IterableMinimizer struct {
	V   *visitor.Visitor
	Exe Executor
}

// Minimize runs only when scheduledCount == 0 (spec.md §4.H); the caller
// is expected to check that before calling. baseline is the value's
// already-observed coverage-index set.
func (m *IterableMinimizer) Minimize(value api.Node, baseline *roaring.Bitmap) api.Node {
	for {
		changed := false
		value.Fields(m.V, 0)
		traces := m.V.Fields()
		for _, trace := range traces {
			leaf, ok := trace.Leaf()
			if !ok || leaf.Kind != api.KindIterable {
				continue
			}
			path := trace.IndexPath()
			length := leaf.Len + 1
			c := 0
			for length > 0 && c < length {
				candidate := cloneNode(value)
				candidate.Mutate(api.IterablePop{Index: c}, m.V, path)
				got := m.Exe.Run(candidate)
				if got.Equals(baseline) {
					value = candidate
					length--
					changed = true
				} else {
					// This element's removal changes coverage, so it stays;
					// advance past it.
					c++
				}
			}
			if changed {
				break // re-traverse: the trace list is now stale.
			}
		}
		if !changed {
			return value
		}
	}
}

// RecursiveMinimizer replaces every currently-recursive node with a
// non-recursive generation, keeping the replacement only when it preserves
// the coverage-index set.
type RecursiveMinimizer struct {
	V   *visitor.Visitor
	Exe Executor
}

func (m *RecursiveMinimizer) Minimize(value api.Node, baseline *roaring.Bitmap) api.Node {
	for {
		changed := false
		value.Fields(m.V, 0)
		traces := m.V.Fields()
		for _, trace := range traces {
			leaf, ok := trace.Leaf()
			if !ok || leaf.Kind != api.KindRecursive {
				continue
			}
			path := trace.IndexPath()
			candidate := cloneNode(value)
			candidate.Mutate(api.RecursiveReplace{}, m.V, path)
			got := m.Exe.Run(candidate)
			if got.Equals(baseline) {
				value = candidate
				changed = true
				break // re-traverse: the value just changed shape.
			}
		}
		if !changed {
			return value
		}
	}
}
