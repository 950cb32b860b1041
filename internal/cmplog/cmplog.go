// Package cmplog implements the comparison-operand-guided mutation stage of
// spec.md §4.I: given a recorded trace of comparison operands observed
// during one unmutated execution, it finds every grammar leaf that matches
// one side of a pair and proposes splicing in the other side.
package cmplog

import (
	"bytes"
	"fmt"

	"github.com/gramfuzz/engine/api"
	"github.com/gramfuzz/engine/internal/chunkstore"
	"github.com/gramfuzz/engine/internal/visitor"
)

// TraceEntry is one comparison site observed by an instrumented execution,
// standing in for the engine actually running the target (spec.md §1
// scope boundary: the engine never executes the target itself).
type TraceEntry struct {
	Width int
	LHS   uint64
	RHS   uint64
}

// Candidate is one proposed mutation: splice the serialized counterpart
// bytes at path.
type Candidate struct {
	Path  api.Path
	Bytes []byte
}

// Stage runs the cmplog pass against a single value.
type Stage struct {
	V     *visitor.Visitor
	Store *chunkstore.Store
}

// CheckZeroOperandInvariant implements the bytes-valued 32-zero-byte check
// from spec.md §9: bytes-valued comparisons are otherwise ignored, but an
// observed operand of exactly 32 zero bytes paired with an unequal
// counterpart is flagged so callers can decide whether it indicates an
// uninitialized-buffer comparison rather than a meaningful one.
func CheckZeroOperandInvariant(lhs, rhs []byte) error {
	zero32 := make([]byte, 32)
	lhsZero := len(lhs) == 32 && bytes.Equal(lhs, zero32)
	rhsZero := len(rhs) == 32 && bytes.Equal(rhs, zero32)
	if (lhsZero || rhsZero) && !bytes.Equal(lhs, rhs) {
		return fmt.Errorf("cmplog: 32-zero-byte operand paired with unequal counterpart")
	}
	return nil
}

func dedupSymmetric(trace []TraceEntry) map[api.CmpOperand]struct{} {
	out := make(map[api.CmpOperand]struct{}, len(trace)*2)
	for _, e := range trace {
		out[api.CmpOperand{LHS: e.LHS, RHS: e.RHS}] = struct{}{}
		out[api.CmpOperand{LHS: e.RHS, RHS: e.LHS}] = struct{}{}
	}
	return out
}

// Run executes the stage against input given a pre-recorded comparison
// trace, returning one candidate per matched field trace and recording
// every match into the chunk store's interesting-paths set.
func (s *Stage) Run(input api.Node, trace []TraceEntry) ([]Candidate, error) {
	operands := dedupSymmetric(trace)

	var candidates []Candidate
	var allMatches []api.CmpMatch
	for op := range operands {
		input.Cmps(s.V, 0, op)
		matches := s.V.Cmps()
		for _, m := range matches {
			candidates = append(candidates, Candidate{
				Path:  m.Trace.IndexPath(),
				Bytes: m.Bytes,
			})
		}
		allMatches = append(allMatches, matches...)
	}

	if len(allMatches) > 0 {
		s.Store.AddCmps(allMatches)
	}
	return candidates, nil
}
